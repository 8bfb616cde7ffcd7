package library

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/hsandamith/School-Management-System/core"
)

// Condition is the physical state of a book.
type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
	ConditionWithdrawn Condition = "withdrawn"
)

func (c Condition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor, ConditionWithdrawn:
		return true
	}
	return false
}

type Book struct {
	ID              int64       `json:"id" db:"id"`
	Title           string      `json:"title" db:"title"`
	Author          string      `json:"author" db:"author"`
	ISBN            null.String `json:"isbn" db:"isbn"`
	PublicationDate *core.Date  `json:"publication_date" db:"publication_date"`
	AvailableStatus bool        `json:"available_status" db:"available_status"`
	Condition       Condition   `json:"book_condition" db:"book_condition"`
}

// NewBook contains information needed to add a Book to the catalogue.
type NewBook struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Author          string     `json:"author" validate:"required,max=255"`
	ISBN            string     `json:"isbn" validate:"max=20"`
	PublicationDate *core.Date `json:"publication_date"`
	Condition       Condition  `json:"book_condition" validate:"required,enum"`
}

func (nb *NewBook) Validate(validate *validator.Validate) error {
	nb.Title = core.CleanString(nb.Title)
	nb.Author = core.CleanString(nb.Author)
	nb.ISBN = core.CleanString(nb.ISBN)
	nb.Condition = Condition(core.CleanString(string(nb.Condition), true /* lower */))
	if nb.Condition == "" {
		nb.Condition = ConditionGood
	}
	if nb.PublicationDate != nil && nb.PublicationDate.IsZero() {
		nb.PublicationDate = nil
	}
	return validate.Struct(nb)
}

func (nb NewBook) book() Book {
	return Book{
		Title:           nb.Title,
		Author:          nb.Author,
		ISBN:            null.NewString(nb.ISBN, nb.ISBN != ""),
		PublicationDate: nb.PublicationDate,
		AvailableStatus: true,
		Condition:       nb.Condition,
	}
}

// UpdateBook replaces the catalogue fields of a Book. Availability is owned by the checkout workflow.
type UpdateBook NewBook

func (ub *UpdateBook) Validate(validate *validator.Validate) error {
	return (*NewBook)(ub).Validate(validate)
}

type BookFilter struct {
	Search    string `query:"search"`
	Available string `query:"available"` // "true", "false" or empty for all
}

func (f *BookFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
	f.Available = core.CleanString(f.Available, true /* lower */)
}

// CheckoutStatus filters checkout records. It is derived, never stored.
type CheckoutStatus string

const (
	StatusOpen     CheckoutStatus = "open"
	StatusReturned CheckoutStatus = "returned"
	StatusOverdue  CheckoutStatus = "overdue"
)

func (s CheckoutStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusReturned, StatusOverdue:
		return true
	}
	return false
}

type Checkout struct {
	ID           int64      `json:"id" db:"id"`
	BookID       int64      `json:"book_id" db:"book_id"`
	PupilID      int64      `json:"pupil_id" db:"pupil_id"`
	CheckoutDate time.Time  `json:"checkout_date" db:"checkout_date"`
	DueDate      core.Date  `json:"due_date" db:"due_date"`
	ReturnDate   null.Time  `json:"return_date" db:"return_date"`
	FineAmount   core.Money `json:"fine_amount" db:"fine_amount"`
	BookTitle    string     `json:"book_title" db:"book_title"`
	PupilName    string     `json:"pupil_name" db:"pupil_name"`
}

func (c Checkout) IsOpen() bool {
	return !c.ReturnDate.Valid
}

// IsOverdue reports whether the checkout is still open after its due date.
func (c Checkout) IsOverdue(today core.Date) bool {
	return c.IsOpen() && today.After(c.DueDate)
}

// NewCheckout contains information needed to lend a book to a pupil.
type NewCheckout struct {
	BookID  int64     `json:"book_id" validate:"required,gt=0"`
	PupilID int64     `json:"pupil_id" validate:"required,gt=0"`
	DueDate core.Date `json:"due_date" validate:"required"`
}

// Validate defaults the due date to today plus loanPeriod days and rejects due dates in the past.
func (nc *NewCheckout) Validate(validate *validator.Validate, today core.Date, loanPeriod int) error {
	if nc.DueDate.IsZero() {
		nc.DueDate = today.AddDays(loanPeriod)
	}
	if err := validate.Struct(nc); err != nil {
		return err
	}
	if nc.DueDate.Before(today) {
		return core.NewRuleError(ErrDueDatePast, "due_date")
	}
	return nil
}

type CheckoutFilter struct {
	Status  CheckoutStatus `query:"status"`
	BookID  int64          `query:"book_id"`
	PupilID int64          `query:"pupil_id"`
}

func (f *CheckoutFilter) Clean() {
	f.Status = CheckoutStatus(core.CleanString(string(f.Status), true /* lower */))
	if !f.Status.IsValid() {
		f.Status = ""
	}
}

// Receipt is the outcome of returning a book.
type Receipt struct {
	Checkout Checkout `json:"checkout"`
	Message  string   `json:"message"`
}

// CalculateFine charges rate for every full day between due and returned.
// Nothing is owed when the book comes back on or before due.
func CalculateFine(due, returned time.Time, rate core.Money) core.Money {
	if !returned.After(due) {
		return 0
	}
	days := int64(returned.Sub(due) / (24 * time.Hour))
	return rate.Times(days)
}
