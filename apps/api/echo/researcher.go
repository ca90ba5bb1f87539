package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academia/scipoints/core/researcher"
)

type (
	researcherApi struct {
		svc      *researcher.Service
		validate *validator.Validate
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}
)

// registerResearcherAPI returns the `/researchers/:id` group, restricted to the researcher and admins.
func registerResearcherAPI(g *echo.Group, svc *researcher.Service, validate *validator.Validate) *echo.Group {
	api := researcherApi{
		svc:      svc,
		validate: validate,
	}

	rg := g.Group("/researchers")
	rg.POST("", api.create, adminMiddleware(svc))
	rg.GET("", api.query, adminMiddleware(svc))
	rg.DELETE("", api.destroyMultiple, adminMiddleware(svc))
	rg.GET("/roles", api.queryRoles)
	rg.GET("/titles", api.queryTitles)

	// detail endpoints
	dg := rg.Group("/:id", selfOrAdminMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy, adminMiddleware(svc))
	return dg
}

// Handlers

func (api *researcherApi) create(ctx echo.Context) error {
	var data researcher.NewResearcher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResearcher")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	r, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating researcher")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *researcherApi) query(ctx echo.Context) error {
	filter := new(researcher.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []researcher.Researcher{})
	}
	filter.Clean()
	ordering := new(Ordering)
	if err := ordering.Bind(ctx, researcher.OrderingFields); err != nil {
		return err
	}

	rs, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying researchers")
	}
	if rs == nil {
		rs = []researcher.Researcher{}
	}
	return ctx.JSON(http.StatusOK, rs)
}

func (api *researcherApi) retrieve(ctx echo.Context) error {
	r, err := contextObject(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *researcherApi) update(ctx echo.Context) error {
	r, err := contextObject(ctx)
	if err != nil {
		return err
	}

	var data researcher.UpdateResearcher
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateResearcher")
	}

	ctxR, err := getContextResearcher(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context researcher")
	}
	if !ctxR.IsAdmin() {
		// `IsActive`, `Roles` and `Email` can only be changed by admin
		if data.IsActive != nil || data.Roles != nil || data.Email != "" {
			return errHttpForbidden
		}
	}

	if err = data.Validate(r, api.validate, api.svc); err != nil {
		return err
	}

	r, err = api.svc.Update(ctx.Request().Context(), r, data)
	if err != nil {
		return errors.Wrap(err, "updating researcher")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *researcherApi) destroy(ctx echo.Context) error {
	r, err := contextObject(ctx)
	if err != nil {
		return err
	}

	// admins cannot delete themselves
	ctxR, err := getContextResearcher(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context researcher")
	}
	if r.ID == ctxR.ID {
		return errHttpForbidden
	}

	if _, err = api.svc.Delete(ctx.Request().Context(), r.ID); err != nil {
		return errors.Wrap(err, "deleting researcher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *researcherApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	ctxR, err := getContextResearcher(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context researcher")
	}
	for _, id := range query.IDs {
		if id == ctxR.ID {
			return errHttpForbidden
		}
	}

	if _, err = api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting researchers")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *researcherApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, researcher.Roles)
}

func (api *researcherApi) queryTitles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, researcher.Titles)
}
