package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/academia/scipoints/core"
	"github.com/academia/scipoints/core/researcher"
)

type researcherRepository struct {
	db *DB
}

var _ researcher.Repository = (*researcherRepository)(nil) // interface compliance check

func NewResearcherRepository(db *DB) *researcherRepository {
	return &researcherRepository{db: db}
}

func (repo *researcherRepository) query() []researcher.Researcher {
	res := make([]researcher.Researcher, 0, len(repo.db.researchers))
	for _, r := range repo.db.researchers {
		res = append(res, copyResearcher(*r))
	}
	return res
}

func copyResearcher(r researcher.Researcher) researcher.Researcher {
	r.Roles = append([]string{}, r.Roles...)
	return r
}

func (repo *researcherRepository) CheckEmailUniqueness(_ context.Context, email string, excludedIDs ...string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, r := range repo.db.researchers {
		if strings.EqualFold(r.Email, email) && !contains(excludedIDs, r.ID) {
			return researcher.ErrEmailExists
		}
	}
	return nil
}

func (repo *researcherRepository) CreateResearcher(_ context.Context, r researcher.Researcher) (researcher.Researcher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r.ID = uuid.New().String()
	r = copyResearcher(r)
	repo.db.researchers[r.ID] = &r
	return copyResearcher(r), nil
}

func (repo *researcherRepository) QueryResearchers(_ context.Context, filter *researcher.QueryFilter, ordering []core.DBOrdering) ([]researcher.Researcher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	res := make([]researcher.Researcher, 0, len(repo.db.researchers))
	for _, r := range repo.query() {
		if matchResearcher(r, filter) {
			res = append(res, r)
		}
	}

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "created_at"}}
	}
	sort.SliceStable(res, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareResearchers(res[i], res[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func matchResearcher(r researcher.Researcher, filter *researcher.QueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Search != "" {
		s := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(r.NameAr), s) &&
			!strings.Contains(strings.ToLower(r.NameEn), s) &&
			!strings.Contains(strings.ToLower(r.Email), s) {
			return false
		}
	}
	if filter.College != "" && r.College != filter.College {
		return false
	}
	if filter.Department != "" && r.Department != filter.Department {
		return false
	}
	if filter.AcademicTitle != "" && r.AcademicTitle != filter.AcademicTitle {
		return false
	}
	if len(filter.Roles) > 0 {
		found := false
		for _, role := range filter.Roles {
			if r.HasRole(role) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.IsActive != nil && r.IsActive != *filter.IsActive {
		return false
	}
	return true
}

// compareResearchers compares a and b on field; unknown fields compare equal.
func compareResearchers(a, b researcher.Researcher, field string) int {
	switch field {
	case "name_ar":
		return strings.Compare(a.NameAr, b.NameAr)
	case "name_en":
		return strings.Compare(a.NameEn, b.NameEn)
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "college":
		return strings.Compare(a.College, b.College)
	case "department":
		return strings.Compare(a.Department, b.Department)
	case "academic_title":
		return strings.Compare(a.AcademicTitle, b.AcademicTitle)
	case "is_active":
		switch {
		case a.IsActive == b.IsActive:
			return 0
		case a.IsActive:
			return 1
		default:
			return -1
		}
	case "created_at":
		return compareTimes(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case "updated_at":
		return compareTimes(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano())
	}
	return 0
}

func compareTimes(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (repo *researcherRepository) GetResearcher(_ context.Context, id string) (researcher.Researcher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.researchers[id]; ok {
		return copyResearcher(*r), nil
	}
	return researcher.Researcher{}, researcher.ErrNotFound
}

func (repo *researcherRepository) UpdateResearcher(_ context.Context, r researcher.Researcher) (researcher.Researcher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.researchers[r.ID]; !ok {
		return researcher.Researcher{}, researcher.ErrNotFound
	}
	r = copyResearcher(r)
	repo.db.researchers[r.ID] = &r
	return copyResearcher(r), nil
}

func (repo *researcherRepository) DeleteResearchersByID(_ context.Context, ids ...string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cnt := 0
	for _, id := range ids {
		if _, ok := repo.db.researchers[id]; !ok {
			continue
		}
		delete(repo.db.researchers, id)
		cnt++
		// cascade
		for aid, a := range repo.db.activities {
			if a.OwnerID == id {
				delete(repo.db.activities, aid)
			}
		}
	}
	return cnt, nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
