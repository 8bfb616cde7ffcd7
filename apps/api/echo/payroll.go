package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core/payroll"
)

type payrollApi struct {
	svc      payroll.ServiceInterface
	validate *validator.Validate
}

func registerPayrollAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc payroll.ServiceInterface, validate *validator.Validate) {
	api := payrollApi{svc: svc, validate: validate}

	sg := g.Group("/salaries", jwt)
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

func (api *payrollApi) create(ctx echo.Context) error {
	var data payroll.SalaryForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SalaryForm")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating salary")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *payrollApi) query(ctx echo.Context) error {
	filter := new(payroll.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []payroll.Salary{})
	}

	salaries, err := api.svc.Query(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying salaries")
	}
	return ctx.JSON(http.StatusOK, salaries)
}

func (api *payrollApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	s, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting salary")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *payrollApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data payroll.SalaryForm
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SalaryForm")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating salary")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *payrollApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting salary")
	}
	return ctx.NoContent(http.StatusNoContent)
}
