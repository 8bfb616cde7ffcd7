package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/class"
	"github.com/hsandamith/School-Management-System/core/dashboard"
	"github.com/hsandamith/School-Management-System/core/library"
	"github.com/hsandamith/School-Management-System/core/pupil"
)

func Test_libraryApi_checkoutAndReturn(t *testing.T) {
	env := newTestEnv(t)
	lent := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	freezeTime(t, lent)

	var cls class.Class
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/v1/classes", class.NewClass{Name: class.YearTwo, Capacity: 30}, &cls).Code)
	var enr pupil.Enrollment
	rec := env.do(t, http.MethodPost, "/v1/pupils", enrollmentForm(cls.ID, "Ada"), &enr)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var book library.Book
	rec = env.do(t, http.MethodPost, "/v1/books", library.NewBook{Title: "Matilda", Author: "Roald Dahl", ISBN: "9780142410370"}, &book)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, book.AvailableStatus)
	assert.Equal(t, library.ConditionGood, book.Condition)

	env.run(t, []httpTest{
		{
			name: "duplicate isbn", method: http.MethodPost, path: "/v1/books", token: env.token,
			body:     marchallObj(t, library.NewBook{Title: "Matilda (copy)", Author: "Roald Dahl", ISBN: "9780142410370"}),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"isbn":"a book with this ISBN already exists"}`),
		},
		{
			name: "due date in the past", method: http.MethodPost, path: "/v1/checkouts", token: env.token,
			body:     marchallObj(t, library.NewCheckout{BookID: book.ID, PupilID: enr.Pupil.ID, DueDate: core.NewDate(2024, 2, 28)}),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"due_date":"due date cannot be in the past"}`),
		},
		{
			name: "unknown pupil", method: http.MethodPost, path: "/v1/checkouts", token: env.token,
			body:     marchallObj(t, library.NewCheckout{BookID: book.ID, PupilID: 999}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "pupil not found"}),
		},
	})

	var co library.Checkout
	rec = env.do(t, http.MethodPost, "/v1/checkouts",
		library.NewCheckout{BookID: book.ID, PupilID: enr.Pupil.ID, DueDate: core.NewDate(2024, 3, 5)}, &co)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Matilda", co.BookTitle)
	assert.Equal(t, "Ada Okafor", co.PupilName)
	assert.True(t, co.IsOpen())

	env.run(t, []httpTest{
		{
			name: "book already out", method: http.MethodPost, path: "/v1/checkouts", token: env.token,
			body:     marchallObj(t, library.NewCheckout{BookID: book.ID, PupilID: enr.Pupil.ID}),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"book_id":"book is not available for checkout"}`),
		},
		{
			name: "book with open loan cannot be deleted", method: http.MethodDelete, path: "/v1/books/" + itoa(book.ID), token: env.token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "book is currently checked out"}),
		},
	})

	t.Run("overdue", func(t *testing.T) {
		freezeTime(t, time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC))

		var overdue []library.Checkout
		rec := env.do(t, http.MethodGet, "/v1/checkouts/overdue", nil, &overdue)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Len(t, overdue, 1)
		assert.Equal(t, co.ID, overdue[0].ID)

		var summary dashboard.Summary
		rec = env.do(t, http.MethodGet, "/v1/dashboard", nil, &summary)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 1, summary.BooksOnLoan)
		assert.Equal(t, 1, summary.OverdueCheckouts)
	})

	t.Run("return three days late", func(t *testing.T) {
		freezeTime(t, time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC))

		var receipt library.Receipt
		rec := env.do(t, http.MethodPost, "/v1/checkouts/"+itoa(co.ID)+"/return", nil, &receipt)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "Book returned successfully with £1.50 fine", receipt.Message)
		assert.Equal(t, core.Money(150), receipt.Checkout.FineAmount)
		assert.False(t, receipt.Checkout.IsOpen())

		var b library.Book
		rec = env.do(t, http.MethodGet, "/v1/books/"+itoa(book.ID), nil, &b)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, b.AvailableStatus)
	})

	env.run(t, []httpTest{
		{
			name: "second return", method: http.MethodPost, path: "/v1/checkouts/" + itoa(co.ID) + "/return", token: env.token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "book has already been returned"}),
		},
		{
			name: "unknown checkout", method: http.MethodPost, path: "/v1/checkouts/999/return", token: env.token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "checkout record not found"}),
		},
	})

	t.Run("on-time return has no fine", func(t *testing.T) {
		var again library.Checkout
		rec := env.do(t, http.MethodPost, "/v1/checkouts", library.NewCheckout{BookID: book.ID, PupilID: enr.Pupil.ID}, &again)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "2024-03-15", again.DueDate.String()) // default loan period

		var receipt library.Receipt
		rec = env.do(t, http.MethodPost, "/v1/checkouts/"+itoa(again.ID)+"/return", nil, &receipt)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "Book returned successfully", receipt.Message)
		assert.Equal(t, core.Money(0), receipt.Checkout.FineAmount)
	})

	t.Run("history lists every record", func(t *testing.T) {
		var history []library.Checkout
		rec := env.do(t, http.MethodGet, "/v1/checkouts?book_id="+itoa(book.ID), nil, &history)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Len(t, history, 2)
	})
}
