package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academia/scipoints/core"
	"github.com/academia/scipoints/core/activity"
	"github.com/academia/scipoints/core/ranking"
	"github.com/academia/scipoints/core/researcher"
)

type (
	rankingApi struct {
		svc           *ranking.Service
		researcherSvc *researcher.Service
		validate      *validator.Validate
	}

	PointsRequest struct {
		AcademicYear int `query:"academic_year" json:"academic_year" validate:"omitempty,min=1950,max=2100"`
	}

	LimitRequest struct {
		Limit int `query:"limit" json:"limit" validate:"omitempty,min=1"`
	}

	// TopRequest defaults College to the requester's college.
	TopRequest struct {
		Limit      int    `query:"limit" json:"limit" validate:"omitempty,min=1"`
		College    string `query:"college" json:"college" validate:"required_with=Department"`
		Department string `query:"department" json:"department"`
	}
)

// registerRankingAPI mounts the per-researcher points and ranking on dg and the population-wide
// leaderboards on g.
func registerRankingAPI(g, dg *echo.Group, svc *ranking.Service, researcherSvc *researcher.Service, validate *validator.Validate) {
	api := rankingApi{
		svc:           svc,
		researcherSvc: researcherSvc,
		validate:      validate,
	}

	dg.GET("/points", api.points)
	dg.GET("/ranking", api.snapshot)

	rg := g.Group("/rankings")
	rg.GET("/top", api.top)
	rg.GET("/criteria", api.criteria)
	rg.GET("/criteria/:criterion", api.criterion)

	pg := g.Group("/points")
	pg.GET("/weights", api.weights)
	pg.GET("/kinds", api.kinds)
}

func (api *rankingApi) points(ctx echo.Context) error {
	r, err := contextObject(ctx)
	if err != nil {
		return err
	}

	var query PointsRequest
	if err = ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to PointsRequest")
	}
	if err = api.validate.Struct(query); err != nil {
		return err
	}

	var year *activity.AcademicYear
	if query.AcademicYear != 0 {
		y := activity.AcademicYear(query.AcademicYear)
		year = &y
	}
	return ctx.JSON(http.StatusOK, api.svc.Points(ctx.Request().Context(), r, year))
}

func (api *rankingApi) snapshot(ctx echo.Context) error {
	r, err := contextObject(ctx)
	if err != nil {
		return err
	}

	var query LimitRequest
	if err = ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to LimitRequest")
	}
	if err = api.validate.Struct(query); err != nil {
		return err
	}

	snap, err := api.svc.Snapshot(ctx.Request().Context(), r.ID, api.svc.Options(query.Limit))
	if err != nil {
		return errors.Wrap(err, "building ranking snapshot")
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *rankingApi) top(ctx echo.Context) error {
	var query TopRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to TopRequest")
	}
	query.College = core.CleanString(query.College)
	query.Department = core.CleanString(query.Department)
	if query.College == "" {
		ctxR, err := getContextResearcher(ctx, api.researcherSvc)
		if err != nil {
			return errors.Wrap(err, "getting context researcher")
		}
		query.College = ctxR.College
	}
	if err := api.validate.Struct(query); err != nil {
		return err
	}

	entries, err := api.svc.Top(ctx.Request().Context(), query.Limit, query.College, query.Department)
	if err != nil {
		return errors.Wrap(err, "ranking top researchers")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *rankingApi) criteria(ctx echo.Context) error {
	boards, err := api.svc.Criteria(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building leaderboards")
	}
	return ctx.JSON(http.StatusOK, boards)
}

func (api *rankingApi) criterion(ctx echo.Context) error {
	board, err := api.svc.Criterion(ctx.Request().Context(), ctx.Param("criterion"))
	if err != nil {
		return errors.Wrap(err, "building leaderboard")
	}
	return ctx.JSON(http.StatusOK, board)
}

func (api *rankingApi) weights(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Weights())
}

func (api *rankingApi) kinds(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, activity.Kinds)
}
