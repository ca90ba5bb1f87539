package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/academia/scipoints/core"
	"github.com/academia/scipoints/core/activity"
)

const activityColumns = `id, owner_id, kind, title, date, year, month, classification, completion, published, author_type, level, created_at, updated_at`

type activityRow struct {
	ID             string         `db:"id"`
	OwnerID        string         `db:"owner_id"`
	Kind           string         `db:"kind"`
	Title          string         `db:"title"`
	Date           null.Time      `db:"date"`
	Year           null.Int       `db:"year"`
	Month          null.Int       `db:"month"`
	Classification pq.StringArray `db:"classification"`
	Completion     null.String    `db:"completion"`
	Published      bool           `db:"published"`
	AuthorType     null.String    `db:"author_type"`
	Level          null.String    `db:"level"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func toActivityRow(a activity.Activity) activityRow {
	classification := a.Classification
	if classification == nil {
		classification = []string{}
	}
	return activityRow{
		ID:             a.ID,
		OwnerID:        a.OwnerID,
		Kind:           string(a.Kind),
		Title:          a.Title,
		Date:           null.NewTime(a.Date.UTC(), !a.Date.IsZero()),
		Year:           null.NewInt(a.Year, a.Year != 0),
		Month:          null.NewInt(a.Month, a.Month != 0),
		Classification: classification,
		Completion:     null.NewString(a.Completion, a.Completion != ""),
		Published:      a.Published,
		AuthorType:     null.NewString(a.AuthorType, a.AuthorType != ""),
		Level:          null.NewString(a.Level, a.Level != ""),
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
	}
}

func (row activityRow) activity() activity.Activity {
	a := activity.Activity{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		Kind:           activity.Kind(row.Kind),
		Title:          row.Title,
		Year:           row.Year.Int,
		Month:          row.Month.Int,
		Classification: []string(row.Classification),
		Completion:     row.Completion.String,
		Published:      row.Published,
		AuthorType:     row.AuthorType.String,
		Level:          row.Level.String,
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
	if row.Date.Valid {
		a.Date = row.Date.Time.UTC()
	}
	return a
}

type activityRepository struct {
	exec core.DBExecutor
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(exec core.DBExecutor) *activityRepository {
	return &activityRepository{exec: exec}
}

func (repo activityRepository) CreateActivity(ctx context.Context, a activity.Activity) (activity.Activity, error) {
	a.ID = uuid.New().String()
	row := toActivityRow(a)
	q := `INSERT INTO activity (` + activityColumns + `)
		VALUES (:id, :owner_id, :kind, :title, :date, :year, :month, :classification, :completion, :published,
			:author_type, :level, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.exec, q, row); err != nil {
		return activity.Activity{}, errors.Wrap(err, "inserting activity")
	}
	return row.activity(), nil
}

func (repo activityRepository) QueryActivities(ctx context.Context, filter *activity.QueryFilter) ([]activity.Activity, error) {
	q := `SELECT ` + activityColumns + ` FROM activity WHERE true`
	var args []interface{}
	if filter != nil {
		if filter.OwnerID != "" {
			if _, err := uuid.Parse(filter.OwnerID); err != nil {
				return []activity.Activity{}, nil
			}
			q += ` AND owner_id = ?`
			args = append(args, filter.OwnerID)
		}
		if len(filter.Kinds) > 0 {
			q += ` AND kind IN (?)`
			args = append(args, filter.Kinds)
		}
	}
	q += ` ORDER BY id`

	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "building activities query")
	}
	var rows []activityRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, repo.exec.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	acts := make([]activity.Activity, 0, len(rows))
	for _, row := range rows {
		acts = append(acts, row.activity())
	}
	return acts, nil
}

func (repo activityRepository) GetActivity(ctx context.Context, id string) (activity.Activity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return activity.Activity{}, activity.ErrNotFound
	}
	var row activityRow
	q := `SELECT ` + activityColumns + ` FROM activity WHERE id = $1`
	if err := sqlx.GetContext(ctx, repo.exec, &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return activity.Activity{}, activity.ErrNotFound
		}
		return activity.Activity{}, errors.Wrap(err, "finding activity by ID")
	}
	return row.activity(), nil
}

func (repo activityRepository) DeleteActivitiesByID(ctx context.Context, ownerID string, ids ...string) (int, error) {
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	if _, err := uuid.Parse(ownerID); err != nil {
		return 0, nil
	}
	q, args, err := sqlx.In(`DELETE FROM activity WHERE owner_id = ? AND id IN (?)`, ownerID, ids)
	if err != nil {
		return 0, errors.Wrap(err, "building delete query")
	}
	res, err := repo.exec.ExecContext(ctx, repo.exec.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting activities")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting activities")
	}
	return int(cnt), nil
}
