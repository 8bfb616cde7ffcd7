package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core/library"
)

type libraryApi struct {
	svc library.ServiceInterface
}

func registerLibraryAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc library.ServiceInterface) {
	api := libraryApi{svc: svc}

	bg := g.Group("/books", jwt)
	bg.POST("", api.createBook)
	bg.GET("", api.queryBooks)
	bg.GET("/:id", api.retrieveBook)
	bg.PUT("/:id", api.updateBook)
	bg.DELETE("/:id", api.destroyBook)

	cg := g.Group("/checkouts", jwt)
	cg.POST("", api.checkOut)
	cg.GET("", api.queryCheckouts)
	cg.GET("/overdue", api.overdue)
	cg.GET("/:id", api.retrieveCheckout)
	cg.POST("/:id/return", api.returnBook)
}

// Books

func (api *libraryApi) createBook(ctx echo.Context) error {
	var data library.NewBook
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBook")
	}

	book, err := api.svc.CreateBook(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating book")
	}
	return ctx.JSON(http.StatusCreated, book)
}

func (api *libraryApi) queryBooks(ctx echo.Context) error {
	filter := new(library.BookFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []library.Book{})
	}

	books, err := api.svc.QueryBooks(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying books")
	}
	return ctx.JSON(http.StatusOK, books)
}

func (api *libraryApi) retrieveBook(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	book, err := api.svc.GetBook(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting book")
	}
	return ctx.JSON(http.StatusOK, book)
}

func (api *libraryApi) updateBook(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data library.UpdateBook
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBook")
	}

	book, err := api.svc.UpdateBook(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating book")
	}
	return ctx.JSON(http.StatusOK, book)
}

func (api *libraryApi) destroyBook(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteBook(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting book")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Checkouts

func (api *libraryApi) checkOut(ctx echo.Context) error {
	var data library.NewCheckout
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCheckout")
	}

	co, err := api.svc.CheckOut(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "checking out book")
	}
	return ctx.JSON(http.StatusCreated, co)
}

func (api *libraryApi) queryCheckouts(ctx echo.Context) error {
	filter := new(library.CheckoutFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []library.Checkout{})
	}

	checkouts, err := api.svc.QueryCheckouts(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying checkouts")
	}
	return ctx.JSON(http.StatusOK, checkouts)
}

func (api *libraryApi) overdue(ctx echo.Context) error {
	checkouts, err := api.svc.Overdue(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying overdue checkouts")
	}
	return ctx.JSON(http.StatusOK, checkouts)
}

func (api *libraryApi) retrieveCheckout(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	co, err := api.svc.GetCheckout(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting checkout")
	}
	return ctx.JSON(http.StatusOK, co)
}

func (api *libraryApi) returnBook(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	receipt, err := api.svc.Return(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "returning book")
	}
	return ctx.JSON(http.StatusOK, receipt)
}
