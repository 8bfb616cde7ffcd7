package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"

	"github.com/hsandamith/School-Management-System/core"
)

var (
	// errors
	ErrBookNotFound     = core.NewNotFoundError("book")
	ErrCheckoutNotFound = core.NewNotFoundError("checkout record")
	ErrPupilNotFound    = core.NewNotFoundError("pupil")
	ErrDuplicateISBN    = errors.New("a book with this ISBN already exists")
	ErrDueDatePast      = errors.New("due date cannot be in the past")
	ErrBookUnavailable  = errors.New("book is not available for checkout")
	ErrAlreadyReturned  = errors.New("book has already been returned")
	ErrBookCheckedOut   = errors.New("book is currently checked out")
)

type (
	Repository interface {
		CreateBook(ctx context.Context, b Book, exec ...core.DBExecutor) (Book, error)
		GetBook(ctx context.Context, id int64, exec ...core.DBExecutor) (Book, error)
		// QueryBooks orders by title unless told otherwise.
		QueryBooks(ctx context.Context, filter *BookFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Book, error)
		UpdateBook(ctx context.Context, b Book, exec ...core.DBExecutor) (Book, error)
		// DeleteBook removes the book and its closed checkout history.
		DeleteBook(ctx context.Context, id int64, exec ...core.DBExecutor) error
		ISBNExists(ctx context.Context, isbn string, excludeID int64, exec ...core.DBExecutor) (bool, error)
		// SetBookAvailability flips available_status only when it differs from available,
		// and reports whether a row changed.
		SetBookAvailability(ctx context.Context, bookID int64, available bool, exec ...core.DBExecutor) (bool, error)

		PupilExists(ctx context.Context, pupilID int64, exec ...core.DBExecutor) (bool, error)

		CreateCheckout(ctx context.Context, c Checkout, exec ...core.DBExecutor) (Checkout, error)
		GetCheckout(ctx context.Context, id int64, exec ...core.DBExecutor) (Checkout, error)
		// QueryCheckouts lists open records first, then by due date.
		QueryCheckouts(ctx context.Context, filter *CheckoutFilter, today core.Date, exec ...core.DBExecutor) ([]Checkout, error)
		// CloseCheckout stamps the return of an open record and reports whether it was still open.
		CloseCheckout(ctx context.Context, id int64, c Checkout, exec ...core.DBExecutor) (bool, error)
		CountOpenCheckouts(ctx context.Context, bookID int64, exec ...core.DBExecutor) (int, error)
	}

	ServiceInterface interface {
		CreateBook(ctx context.Context, nb NewBook) (Book, error)
		GetBook(ctx context.Context, id int64) (Book, error)
		QueryBooks(ctx context.Context, filter *BookFilter, ordering []core.DBOrdering) ([]Book, error)
		UpdateBook(ctx context.Context, id int64, ub UpdateBook) (Book, error)
		DeleteBook(ctx context.Context, id int64) error

		CheckOut(ctx context.Context, nc NewCheckout) (Checkout, error)
		Return(ctx context.Context, id int64) (Receipt, error)
		GetCheckout(ctx context.Context, id int64) (Checkout, error)
		QueryCheckouts(ctx context.Context, filter *CheckoutFilter) ([]Checkout, error)
		Overdue(ctx context.Context) ([]Checkout, error)
	}

	Service struct {
		conf     *core.Config
		db       core.DB
		repo     Repository
		validate *validator.Validate
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(conf *core.Config, db core.DB, repo Repository, validate *validator.Validate) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(conf, "conf"),
		vala.IsNotNil(db, "db"),
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(validate, "validate"),
	).CheckAndPanic()

	return &Service{conf: conf, db: db, repo: repo, validate: validate}
}

func (svc *Service) today() core.Date {
	return core.Today(core.NowFunc(), svc.conf.Location())
}

func (svc *Service) checkISBN(ctx context.Context, isbn string, excludeID int64, exec core.DBExecutor) error {
	if isbn == "" {
		return nil
	}
	exists, err := svc.repo.ISBNExists(ctx, isbn, excludeID, exec)
	if err != nil {
		return err
	}
	if exists {
		return core.NewRuleError(ErrDuplicateISBN, "isbn")
	}
	return nil
}

func (svc *Service) CreateBook(ctx context.Context, nb NewBook) (Book, error) {
	if err := nb.Validate(svc.validate); err != nil {
		return Book{}, err
	}

	var created Book
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if err := svc.checkISBN(ctx, nb.ISBN, 0, tx); err != nil {
			return err
		}
		var err error
		created, err = svc.repo.CreateBook(ctx, nb.book(), tx)
		return err
	})
	return created, core.SaveFailed("creating book", err)
}

func (svc *Service) GetBook(ctx context.Context, id int64) (Book, error) {
	return svc.repo.GetBook(ctx, id)
}

func (svc *Service) QueryBooks(ctx context.Context, filter *BookFilter, ordering []core.DBOrdering) ([]Book, error) {
	return svc.repo.QueryBooks(ctx, filter, ordering)
}

func (svc *Service) UpdateBook(ctx context.Context, id int64, ub UpdateBook) (Book, error) {
	if err := ub.Validate(svc.validate); err != nil {
		return Book{}, err
	}

	var updated Book
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		orig, err := svc.repo.GetBook(ctx, id, tx)
		if err != nil {
			return err
		}
		if err = svc.checkISBN(ctx, ub.ISBN, orig.ID, tx); err != nil {
			return err
		}
		b := NewBook(ub).book()
		b.ID = orig.ID
		b.AvailableStatus = orig.AvailableStatus
		updated, err = svc.repo.UpdateBook(ctx, b, tx)
		return err
	})
	return updated, core.SaveFailed("updating book", err)
}

func (svc *Service) DeleteBook(ctx context.Context, id int64) error {
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.repo.GetBook(ctx, id, tx); err != nil {
			return err
		}
		open, err := svc.repo.CountOpenCheckouts(ctx, id, tx)
		if err != nil {
			return err
		}
		if open > 0 {
			return core.NewValidationError(ErrBookCheckedOut)
		}
		return svc.repo.DeleteBook(ctx, id, tx)
	})
	return core.SaveFailed("deleting book", err)
}

// CheckOut records the loan and marks the book unavailable in one transaction.
// A book that is already out is rejected and nothing is written.
func (svc *Service) CheckOut(ctx context.Context, nc NewCheckout) (Checkout, error) {
	if err := nc.Validate(svc.validate, svc.today(), svc.conf.Library.LoanDays()); err != nil {
		return Checkout{}, err
	}

	var id int64
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.repo.GetBook(ctx, nc.BookID, tx); err != nil {
			return err
		}
		exists, err := svc.repo.PupilExists(ctx, nc.PupilID, tx)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPupilNotFound
		}

		c, err := svc.repo.CreateCheckout(ctx, Checkout{
			BookID:       nc.BookID,
			PupilID:      nc.PupilID,
			CheckoutDate: core.NowFunc().UTC(),
			DueDate:      nc.DueDate,
		}, tx)
		if err != nil {
			return err
		}

		changed, err := svc.repo.SetBookAvailability(ctx, nc.BookID, false, tx)
		if err != nil {
			return err
		}
		if !changed {
			return core.NewRuleError(ErrBookUnavailable, "book_id")
		}
		id = c.ID
		return nil
	})
	if err != nil {
		return Checkout{}, core.SaveFailed("checking out book", err)
	}
	return svc.repo.GetCheckout(ctx, id)
}

// Return closes an open checkout, charging the configured daily fine for each full day
// past the due date, and makes the book available again in one transaction.
func (svc *Service) Return(ctx context.Context, id int64) (Receipt, error) {
	now := core.NowFunc()

	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		c, err := svc.repo.GetCheckout(ctx, id, tx)
		if err != nil {
			return err
		}
		if !c.IsOpen() {
			return core.NewValidationError(ErrAlreadyReturned)
		}

		c.FineAmount = CalculateFine(c.DueDate.In(svc.conf.Location()), now, svc.conf.Library.FineRatePerDay)
		c.ReturnDate.SetValid(now.UTC())
		closed, err := svc.repo.CloseCheckout(ctx, c.ID, c, tx)
		if err != nil {
			return err
		}
		if !closed {
			return core.NewValidationError(ErrAlreadyReturned)
		}

		_, err = svc.repo.SetBookAvailability(ctx, c.BookID, true, tx)
		return err
	})
	if err != nil {
		return Receipt{}, core.SaveFailed("returning book", err)
	}

	c, err := svc.repo.GetCheckout(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{Checkout: c, Message: svc.returnMessage(c.FineAmount)}, nil
}

func (svc *Service) returnMessage(fine core.Money) string {
	if fine <= 0 {
		return "Book returned successfully"
	}
	return fmt.Sprintf("Book returned successfully with %s fine", fine.Format(svc.conf.Library.Currency))
}

func (svc *Service) GetCheckout(ctx context.Context, id int64) (Checkout, error) {
	return svc.repo.GetCheckout(ctx, id)
}

func (svc *Service) QueryCheckouts(ctx context.Context, filter *CheckoutFilter) ([]Checkout, error) {
	return svc.repo.QueryCheckouts(ctx, filter, svc.today())
}

// Overdue lists open checkouts whose due date has passed, oldest first.
func (svc *Service) Overdue(ctx context.Context) ([]Checkout, error) {
	return svc.repo.QueryCheckouts(ctx, &CheckoutFilter{Status: StatusOverdue}, svc.today())
}
