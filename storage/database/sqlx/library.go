package sqlxrepos

import (
	"context"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/library"
	"github.com/hsandamith/School-Management-System/storage/database"
)

var bookOrderings = map[string]string{
	"id":               "b.id",
	"title":            "b.title",
	"author":           "b.author",
	"publication_date": "b.publication_date",
}

type libraryRepository struct {
	repository
}

var _ library.Repository = (*libraryRepository)(nil) // interface compliance check

func NewLibraryRepository(db core.DBExecutor) *libraryRepository {
	return &libraryRepository{repository{db: db}}
}

// trapISBNErr turns a lost race on the isbn unique index into the same error as the upfront check.
func trapISBNErr(err error, msg string) error {
	if database.IsUniqueViolation(err) {
		return core.NewRuleError(library.ErrDuplicateISBN, "isbn")
	}
	return errors.Wrap(err, msg)
}

func (repo libraryRepository) selectBooks() sq.SelectBuilder {
	return sq.Select("b.id", "b.title", "b.author", "b.isbn", "b.publication_date", "b.available_status", "b.book_condition").
		From("library_book b")
}

func (repo libraryRepository) CreateBook(ctx context.Context, b library.Book, exec ...core.DBExecutor) (library.Book, error) {
	db := repo.getExec(exec)
	id, err := repo.insert(ctx, db, sq.Insert("library_book").
		Columns("title", "author", "isbn", "publication_date", "available_status", "book_condition").
		Values(b.Title, b.Author, b.ISBN, b.PublicationDate, b.AvailableStatus, b.Condition))
	if err != nil {
		return library.Book{}, trapISBNErr(err, "inserting book")
	}
	return repo.GetBook(ctx, id, db)
}

func (repo libraryRepository) GetBook(ctx context.Context, id int64, exec ...core.DBExecutor) (library.Book, error) {
	var b library.Book
	err := repo.get(ctx, repo.getExec(exec), &b, repo.selectBooks().Where(sq.Eq{"b.id": id}))
	return b, trapNoRowsErr(err, library.ErrBookNotFound, "selecting book")
}

func (repo libraryRepository) QueryBooks(ctx context.Context, filter *library.BookFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]library.Book, error) {
	q := repo.selectBooks()
	if filter != nil {
		filter.Clean()
		if filter.Search != "" {
			pattern := contains(filter.Search)
			q = q.Where(sq.Or{
				sq.Expr("LOWER(b.title) LIKE ?", pattern),
				sq.Expr("LOWER(b.author) LIKE ?", pattern),
				sq.Expr("LOWER(b.isbn) LIKE ?", pattern),
			})
		}
		if available, err := strconv.ParseBool(filter.Available); err == nil {
			q = q.Where(sq.Eq{"b.available_status": available})
		}
	}
	q = q.OrderBy(core.OrderBy(ordering, bookOrderings, "b.title ASC")...)

	books := make([]library.Book, 0)
	if err := repo.selectAll(ctx, repo.getExec(exec), &books, q); err != nil {
		return nil, errors.Wrap(err, "selecting books")
	}
	return books, nil
}

func (repo libraryRepository) UpdateBook(ctx context.Context, b library.Book, exec ...core.DBExecutor) (library.Book, error) {
	db := repo.getExec(exec)
	n, err := repo.run(ctx, db, sq.Update("library_book").
		SetMap(map[string]interface{}{
			"title":            b.Title,
			"author":           b.Author,
			"isbn":             b.ISBN,
			"publication_date": b.PublicationDate,
			"book_condition":   b.Condition,
		}).
		Where(sq.Eq{"id": b.ID}))
	if err != nil {
		return library.Book{}, trapISBNErr(err, "updating book")
	}
	if n == 0 {
		return library.Book{}, library.ErrBookNotFound
	}
	return repo.GetBook(ctx, b.ID, db)
}

func (repo libraryRepository) DeleteBook(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	db := repo.getExec(exec)
	if _, err := repo.run(ctx, db, sq.Delete("book_checkout_record").Where("book_id = ? AND return_date IS NOT NULL", id)); err != nil {
		return errors.Wrap(err, "deleting checkout history")
	}
	n, err := repo.run(ctx, db, sq.Delete("library_book").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting book")
	}
	if n == 0 {
		return library.ErrBookNotFound
	}
	return nil
}

func (repo libraryRepository) ISBNExists(ctx context.Context, isbn string, excludeID int64, exec ...core.DBExecutor) (bool, error) {
	q := sq.Select().From("library_book").Where(sq.Eq{"isbn": isbn})
	if excludeID != 0 {
		q = q.Where(sq.NotEq{"id": excludeID})
	}
	n, err := repo.count(ctx, repo.getExec(exec), q)
	return n > 0, errors.Wrap(err, "checking isbn uniqueness")
}

func (repo libraryRepository) SetBookAvailability(ctx context.Context, bookID int64, available bool, exec ...core.DBExecutor) (bool, error) {
	n, err := repo.run(ctx, repo.getExec(exec), sq.Update("library_book").
		Set("available_status", available).
		Where(sq.Eq{"id": bookID, "available_status": !available}))
	if err != nil {
		return false, errors.Wrap(err, "updating book availability")
	}
	return n > 0, nil
}

func (repo libraryRepository) PupilExists(ctx context.Context, pupilID int64, exec ...core.DBExecutor) (bool, error) {
	n, err := repo.count(ctx, repo.getExec(exec), sq.Select().From("pupil").Where(sq.Eq{"id": pupilID}))
	return n > 0, errors.Wrap(err, "checking pupil")
}

func (repo libraryRepository) selectCheckouts() sq.SelectBuilder {
	return sq.Select(
		"cr.id", "cr.book_id", "cr.pupil_id", "cr.checkout_date", "cr.due_date", "cr.return_date", "cr.fine_amount",
		"b.title AS book_title",
		fullName("p")+" AS pupil_name",
	).
		From("book_checkout_record cr").
		Join("library_book b ON b.id = cr.book_id").
		Join("pupil p ON p.id = cr.pupil_id")
}

func (repo libraryRepository) CreateCheckout(ctx context.Context, c library.Checkout, exec ...core.DBExecutor) (library.Checkout, error) {
	id, err := repo.insert(ctx, repo.getExec(exec), sq.Insert("book_checkout_record").
		Columns("book_id", "pupil_id", "checkout_date", "due_date", "fine_amount").
		Values(c.BookID, c.PupilID, c.CheckoutDate, c.DueDate, core.Money(0)))
	if err != nil {
		return library.Checkout{}, errors.Wrap(err, "inserting checkout record")
	}
	c.ID = id
	return c, nil
}

func (repo libraryRepository) GetCheckout(ctx context.Context, id int64, exec ...core.DBExecutor) (library.Checkout, error) {
	var c library.Checkout
	err := repo.get(ctx, repo.getExec(exec), &c, repo.selectCheckouts().Where(sq.Eq{"cr.id": id}))
	return c, trapNoRowsErr(err, library.ErrCheckoutNotFound, "selecting checkout record")
}

func (repo libraryRepository) QueryCheckouts(ctx context.Context, filter *library.CheckoutFilter, today core.Date, exec ...core.DBExecutor) ([]library.Checkout, error) {
	q := repo.selectCheckouts()
	if filter != nil {
		filter.Clean()
		switch filter.Status {
		case library.StatusOpen:
			q = q.Where("cr.return_date IS NULL")
		case library.StatusReturned:
			q = q.Where("cr.return_date IS NOT NULL")
		case library.StatusOverdue:
			q = q.Where("cr.return_date IS NULL AND cr.due_date < ?", today)
		}
		if filter.BookID != 0 {
			q = q.Where(sq.Eq{"cr.book_id": filter.BookID})
		}
		if filter.PupilID != 0 {
			q = q.Where(sq.Eq{"cr.pupil_id": filter.PupilID})
		}
	}
	q = q.OrderBy("cr.return_date IS NULL DESC", "cr.due_date ASC", "cr.id ASC")

	checkouts := make([]library.Checkout, 0)
	if err := repo.selectAll(ctx, repo.getExec(exec), &checkouts, q); err != nil {
		return nil, errors.Wrap(err, "selecting checkout records")
	}
	return checkouts, nil
}

func (repo libraryRepository) CloseCheckout(ctx context.Context, id int64, c library.Checkout, exec ...core.DBExecutor) (bool, error) {
	n, err := repo.run(ctx, repo.getExec(exec), sq.Update("book_checkout_record").
		Set("return_date", c.ReturnDate).
		Set("fine_amount", c.FineAmount).
		Where("id = ? AND return_date IS NULL", id))
	if err != nil {
		return false, errors.Wrap(err, "closing checkout record")
	}
	return n > 0, nil
}

func (repo libraryRepository) CountOpenCheckouts(ctx context.Context, bookID int64, exec ...core.DBExecutor) (int, error) {
	n, err := repo.count(ctx, repo.getExec(exec), sq.Select().
		From("book_checkout_record").
		Where("book_id = ? AND return_date IS NULL", bookID))
	return n, errors.Wrap(err, "counting open checkouts")
}
