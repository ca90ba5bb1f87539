package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/academia/scipoints/core"
	"github.com/academia/scipoints/core/researcher"
)

const researcherColumns = `id, name_ar, name_en, email, college, department, academic_title, is_active, roles, created_at, updated_at`

// researcherOrderings maps the orderable fields to their column.
var researcherOrderings = map[string]string{
	"name_ar":        "name_ar",
	"name_en":        "name_en",
	"email":          "email",
	"college":        "college",
	"department":     "department",
	"academic_title": "academic_title",
	"is_active":      "is_active",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

type researcherRow struct {
	ID            string         `db:"id"`
	NameAr        string         `db:"name_ar"`
	NameEn        string         `db:"name_en"`
	Email         string         `db:"email"`
	College       string         `db:"college"`
	Department    string         `db:"department"`
	AcademicTitle null.String    `db:"academic_title"`
	IsActive      bool           `db:"is_active"`
	Roles         pq.StringArray `db:"roles"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func toResearcherRow(r researcher.Researcher) researcherRow {
	roles := r.Roles
	if roles == nil {
		roles = []string{}
	}
	return researcherRow{
		ID:            r.ID,
		NameAr:        r.NameAr,
		NameEn:        r.NameEn,
		Email:         r.Email,
		College:       r.College,
		Department:    r.Department,
		AcademicTitle: null.NewString(r.AcademicTitle, r.AcademicTitle != ""),
		IsActive:      r.IsActive,
		Roles:         roles,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

func (row researcherRow) researcher() researcher.Researcher {
	return researcher.Researcher{
		ID:            row.ID,
		NameAr:        row.NameAr,
		NameEn:        row.NameEn,
		Email:         row.Email,
		College:       row.College,
		Department:    row.Department,
		AcademicTitle: row.AcademicTitle.String,
		IsActive:      row.IsActive,
		Roles:         []string(row.Roles),
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}

type researcherRepository struct {
	exec core.DBExecutor
}

var _ researcher.Repository = (*researcherRepository)(nil) // interface compliance check

func NewResearcherRepository(exec core.DBExecutor) *researcherRepository {
	return &researcherRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to researcher.ErrNotFound
func (repo researcherRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return researcher.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo researcherRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...string) error {
	q := `SELECT EXISTS (SELECT 1 FROM researcher WHERE email = ?`
	args := []interface{}{email}
	if ids := validUUIDs(excludedIDs); len(ids) > 0 {
		q += ` AND id NOT IN (?)`
		args = append(args, ids)
	}
	q += `)`

	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}
	var found bool
	if err = sqlx.GetContext(ctx, repo.exec, &found, repo.exec.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if found {
		return researcher.ErrEmailExists
	}
	return nil
}

func (repo researcherRepository) CreateResearcher(ctx context.Context, r researcher.Researcher) (researcher.Researcher, error) {
	r.ID = uuid.New().String()
	row := toResearcherRow(r)
	q := `INSERT INTO researcher (` + researcherColumns + `)
		VALUES (:id, :name_ar, :name_en, :email, :college, :department, :academic_title, :is_active, :roles, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.exec, q, row); err != nil {
		return researcher.Researcher{}, errors.Wrap(err, "inserting researcher")
	}
	return row.researcher(), nil
}

func (repo researcherRepository) QueryResearchers(ctx context.Context, filter *researcher.QueryFilter, ordering []core.DBOrdering) ([]researcher.Researcher, error) {
	var (
		where []string
		args  []interface{}
	)

	if filter != nil {
		// researchers with NameAr, NameEn or Email matching the search keyword
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			where = append(where, `(name_ar ILIKE ? OR name_en ILIKE ? OR email ILIKE ?)`)
			args = append(args, val, val, val)
		}
		if filter.College != "" {
			where = append(where, `college = ?`)
			args = append(args, filter.College)
		}
		if filter.Department != "" {
			where = append(where, `department = ?`)
			args = append(args, filter.Department)
		}
		if filter.AcademicTitle != "" {
			where = append(where, `academic_title = ?`)
			args = append(args, filter.AcademicTitle)
		}
		// researchers with any role that starts with any of the provided roles
		if len(filter.Roles) > 0 {
			roleConds := make([]string, 0, len(filter.Roles))
			for _, role := range filter.Roles {
				roleConds = append(roleConds, `EXISTS (SELECT 1 FROM UNNEST(roles) researcher_role WHERE researcher_role ILIKE ?)`)
				args = append(args, role+"%")
			}
			where = append(where, "("+strings.Join(roleConds, " OR ")+")")
		}
		if filter.IsActive != nil {
			where = append(where, `is_active = ?`)
			args = append(args, *filter.IsActive)
		}
	}

	q := `SELECT ` + researcherColumns + ` FROM researcher`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY ` + orderBy(ordering, researcherOrderings, "created_at DESC")

	var rows []researcherRow
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, repo.exec.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying researchers")
	}
	res := make([]researcher.Researcher, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.researcher())
	}
	return res, nil
}

func (repo researcherRepository) GetResearcher(ctx context.Context, id string) (researcher.Researcher, error) {
	if _, err := uuid.Parse(id); err != nil {
		return researcher.Researcher{}, researcher.ErrNotFound
	}
	var row researcherRow
	q := `SELECT ` + researcherColumns + ` FROM researcher WHERE id = $1`
	if err := sqlx.GetContext(ctx, repo.exec, &row, q, id); err != nil {
		return researcher.Researcher{}, repo.trapNoRowsErr(err, "finding researcher by ID")
	}
	return row.researcher(), nil
}

func (repo researcherRepository) UpdateResearcher(ctx context.Context, r researcher.Researcher) (researcher.Researcher, error) {
	row := toResearcherRow(r)
	q := `UPDATE researcher SET
		name_ar = :name_ar, name_en = :name_en, email = :email, college = :college, department = :department,
		academic_title = :academic_title, is_active = :is_active, roles = :roles, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.exec, q, row)
	if err != nil {
		return researcher.Researcher{}, errors.Wrap(err, "updating researcher")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return researcher.Researcher{}, researcher.ErrNotFound
	}
	return row.researcher(), nil
}

func (repo researcherRepository) DeleteResearchersByID(ctx context.Context, ids ...string) (int, error) {
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In(`DELETE FROM researcher WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "building delete query")
	}
	res, err := repo.exec.ExecContext(ctx, repo.exec.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting researchers")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting researchers")
	}
	return int(cnt), nil
}
