package echoapi

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/academia/scipoints/core"
)

const orderingParam = "ordering"

// Ordering is bound from `?ordering=field,-other`: a leading "-" orders descending.
type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads the ordering query param, rejecting the fields missing from allowed.
func (ord *Ordering) Bind(ctx echo.Context, allowed []string) error {
	val := strings.TrimSpace(ctx.QueryParam(orderingParam))
	if val == "" {
		return nil
	}

	seen := make(map[string]bool)
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		if field == "" {
			continue
		}
		if !contains(allowed, field) {
			return core.NewFieldValidationError(orderingParam, fmt.Sprintf("cannot order by %q", field))
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
