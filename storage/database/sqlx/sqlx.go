// Package sqlxrepos implements the repositories over PostgreSQL with sqlx.
package sqlxrepos

import (
	"strings"

	"github.com/google/uuid"

	"github.com/academia/scipoints/core"
)

// validUUIDs drops the ids that can not match a uuid column.
func validUUIDs(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	return valid
}

// orderBy builds an ORDER BY clause out of the known fields of ordering.
func orderBy(ordering []core.DBOrdering, columns map[string]string, def string) string {
	orderList := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		if col, ok := columns[ord.Field]; ok {
			orderList = append(orderList, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	if len(orderList) == 0 {
		return def
	}
	return strings.Join(orderList, ", ")
}
