package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academia/scipoints/core/activity"
)

type activityApi struct {
	svc      *activity.Service
	validate *validator.Validate
}

// registerActivityAPI mounts the activity records of a researcher on its detail group.
func registerActivityAPI(dg *echo.Group, svc *activity.Service, validate *validator.Validate) {
	api := activityApi{
		svc:      svc,
		validate: validate,
	}

	ag := dg.Group("/activities")
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.DELETE("", api.destroyMultiple)
	ag.GET("/:activityID", api.retrieve)
}

func (api *activityApi) query(ctx echo.Context) error {
	owner, err := contextObject(ctx)
	if err != nil {
		return err
	}

	filter := new(activity.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to activity.QueryFilter")
	}
	filter.Clean()
	filter.OwnerID = owner.ID

	acts, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying activities")
	}
	if acts == nil {
		acts = []activity.Activity{}
	}
	return ctx.JSON(http.StatusOK, acts)
}

func (api *activityApi) create(ctx echo.Context) error {
	owner, err := contextObject(ctx)
	if err != nil {
		return err
	}

	var data activity.NewActivity
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewActivity")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), owner.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating activity")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *activityApi) retrieve(ctx echo.Context) error {
	owner, err := contextObject(ctx)
	if err != nil {
		return err
	}

	a, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("activityID"))
	if err != nil {
		return errors.Wrap(err, "finding activity by ID")
	}
	if a.OwnerID != owner.ID {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *activityApi) destroyMultiple(ctx echo.Context) error {
	owner, err := contextObject(ctx)
	if err != nil {
		return err
	}

	var query DestroyMultipleRequest
	if err = ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if _, err = api.svc.Delete(ctx.Request().Context(), owner.ID, query.IDs...); err != nil {
		return errors.Wrap(err, "deleting activities")
	}
	return ctx.NoContent(http.StatusNoContent)
}
