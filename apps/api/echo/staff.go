package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core/staff"
)

type staffApi struct {
	svc      staff.ServiceInterface
	validate *validator.Validate
}

func registerStaffAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc staff.ServiceInterface, validate *validator.Validate) {
	api := staffApi{svc: svc, validate: validate}

	tg := g.Group("/teachers", jwt)
	tg.POST("", api.createTeacher)
	tg.GET("", api.queryTeachers)
	tg.GET("/:id", api.retrieveTeacher)
	tg.PUT("/:id", api.updateTeacher)
	tg.DELETE("/:id", api.destroyTeacher)

	ag := g.Group("/teaching-assistants", jwt)
	ag.POST("", api.createAssistant)
	ag.GET("", api.queryAssistants)
	ag.GET("/:id", api.retrieveAssistant)
	ag.PUT("/:id", api.updateAssistant)
	ag.DELETE("/:id", api.destroyAssistant)
}

// Teachers

func (api *staffApi) createTeacher(ctx echo.Context) error {
	var data staff.TeacherForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeacherForm")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.CreateTeacher(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *staffApi) queryTeachers(ctx echo.Context) error {
	filter := new(staff.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []staff.Teacher{})
	}

	teachers, err := api.svc.QueryTeachers(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *staffApi) retrieveTeacher(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	t, err := api.svc.GetTeacher(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *staffApi) updateTeacher(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data staff.TeacherForm
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeacherForm")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.UpdateTeacher(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *staffApi) destroyTeacher(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteTeacher(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Teaching assistants

func (api *staffApi) createAssistant(ctx echo.Context) error {
	var data staff.TeachingAssistantForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeachingAssistantForm")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ta, err := api.svc.CreateAssistant(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teaching assistant")
	}
	return ctx.JSON(http.StatusCreated, ta)
}

func (api *staffApi) queryAssistants(ctx echo.Context) error {
	filter := new(staff.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []staff.TeachingAssistant{})
	}

	assistants, err := api.svc.QueryAssistants(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying teaching assistants")
	}
	return ctx.JSON(http.StatusOK, assistants)
}

func (api *staffApi) retrieveAssistant(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	ta, err := api.svc.GetAssistant(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting teaching assistant")
	}
	return ctx.JSON(http.StatusOK, ta)
}

func (api *staffApi) updateAssistant(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data staff.TeachingAssistantForm
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeachingAssistantForm")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	ta, err := api.svc.UpdateAssistant(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating teaching assistant")
	}
	return ctx.JSON(http.StatusOK, ta)
}

func (api *staffApi) destroyAssistant(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteAssistant(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting teaching assistant")
	}
	return ctx.NoContent(http.StatusNoContent)
}
