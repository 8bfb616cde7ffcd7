package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core/pupil"
)

type pupilApi struct {
	svc pupil.ServiceInterface
}

func registerPupilAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc pupil.ServiceInterface) {
	api := pupilApi{svc: svc}

	pg := g.Group("/pupils", jwt)
	pg.POST("", api.enroll)
	pg.GET("", api.query)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)
}

// enroll validates inside the service, since defaults depend on the school's current date.
func (api *pupilApi) enroll(ctx echo.Context) error {
	var data pupil.EnrollmentForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollmentForm")
	}

	id, err := api.svc.Enroll(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "enrolling pupil")
	}
	enr, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting enrollment")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *pupilApi) query(ctx echo.Context) error {
	filter := new(pupil.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []pupil.Pupil{})
	}

	pupils, err := api.svc.Query(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying pupils")
	}
	return ctx.JSON(http.StatusOK, pupils)
}

func (api *pupilApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	enr, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting enrollment")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *pupilApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data pupil.EnrollmentForm
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollmentForm")
	}
	if err = api.svc.UpdateEnrollment(ctx.Request().Context(), id, data); err != nil {
		return errors.Wrap(err, "updating enrollment")
	}

	enr, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting enrollment")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *pupilApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting pupil")
	}
	return ctx.NoContent(http.StatusNoContent)
}
