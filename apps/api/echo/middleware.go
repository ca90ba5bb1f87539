package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academia/scipoints/core/researcher"
)

const contextObjectKey = "object"

// adminMiddleware lets through the researchers currently holding the admin role.
func adminMiddleware(svc *researcher.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxR, err := getContextResearcher(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context researcher")
			}
			if ctxR.IsAdmin() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// selfOrAdminMiddleware stores the researcher of the `:id` path param as the context object.
// Only that researcher and admins get through; everyone else gets a 404.
func selfOrAdminMiddleware(svc *researcher.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxR, err := getContextResearcher(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context researcher")
			}

			if ctx.Param("id") == ctxR.ID || ctxR.IsAdmin() {
				if r, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err == nil {
					ctx.Set(contextObjectKey, r)
					return next(ctx)
				} else if errors.Cause(err) != researcher.ErrNotFound {
					return errors.Wrap(err, "finding researcher by ID")
				}
			}
			return errHttpNotFound
		}
	}
}

func contextObject(ctx echo.Context) (researcher.Researcher, error) {
	r, ok := ctx.Get(contextObjectKey).(researcher.Researcher)
	if !ok {
		return researcher.Researcher{}, errors.Wrap(errObjNotFoundInCtx, "retrieving object from context")
	}
	return r, nil
}
