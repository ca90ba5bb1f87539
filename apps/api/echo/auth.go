package echoapi

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/academia/scipoints/core"
	"github.com/academia/scipoints/core/researcher"
)

const (
	contextTokenKey      = "researcherToken"
	contextResearcherKey = "researcher"
)

// Claims represents the authorization claims transmitted via a JWT.
// Tokens are issued by the portal's auth service and only verified here: the subject is the
// researcher's ID, whose roles are always read from the store.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextResearcher loads the researcher authenticated by the request token.
func getContextResearcher(ctx echo.Context, svc *researcher.Service) (researcher.Researcher, error) {
	if r, ok := ctx.Get(contextResearcherKey).(researcher.Researcher); ok {
		return r, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return researcher.Researcher{}, errors.Wrap(err, "getting context claims")
	}

	r, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == researcher.ErrNotFound {
			return researcher.Researcher{}, errUnauthorized
		}
		return researcher.Researcher{}, errors.Wrap(err, "finding researcher by ID")
	}
	if !r.IsActive {
		return researcher.Researcher{}, errAccountDeactivated
	}
	ctx.Set(contextResearcherKey, r)
	return r, nil
}
