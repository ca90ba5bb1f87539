package researcher

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/academia/scipoints/core"
)

var (
	// errors
	ErrNotFound    = errors.New("researcher not found")
	ErrEmailExists = errors.New("a researcher with this email already exists")
)

type (
	Repository interface {
		// CheckEmailUniqueness returns ErrEmailExists when another researcher (not in excludedIDs) uses email.
		CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...string) error
		CreateResearcher(ctx context.Context, r Researcher) (Researcher, error)
		// QueryResearchers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of NameAr, NameEn or Email.
		QueryResearchers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Researcher, error)
		GetResearcher(ctx context.Context, id string) (Researcher, error)
		UpdateResearcher(ctx context.Context, r Researcher) (Researcher, error)
		DeleteResearchersByID(ctx context.Context, ids ...string) (int, error)
	}

	Service struct {
		repo Repository
	}
)

var nowFunc = time.Now // mockable

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email string, excludedIDs ...string) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, excludedIDs...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewFieldValidationError("email", err.Error())
		}
		return errors.Wrap(err, "checking email uniqueness")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nr NewResearcher) (Researcher, error) {
	now := nowFunc().UTC()
	roles := nr.Roles
	if len(roles) == 0 {
		roles = []string{RoleTeacher}
	}
	r := Researcher{
		NameAr:        nr.NameAr,
		NameEn:        nr.NameEn,
		Email:         nr.Email,
		College:       nr.College,
		Department:    nr.Department,
		AcademicTitle: nr.AcademicTitle,
		IsActive:      true,
		Roles:         roles,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateResearcher(ctx, r)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Researcher, error) {
	return svc.repo.QueryResearchers(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Researcher, error) {
	return svc.repo.GetResearcher(ctx, id)
}

// Update applies an already validated UpdateResearcher on orig.
func (svc *Service) Update(ctx context.Context, orig Researcher, ur UpdateResearcher) (Researcher, error) {
	r := orig
	r.NameAr = ur.NameAr
	r.NameEn = ur.NameEn
	r.Email = ur.Email
	r.College = ur.College
	r.Department = ur.Department
	r.AcademicTitle = ur.AcademicTitle
	if ur.IsActive != nil {
		r.IsActive = *ur.IsActive
	}
	if ur.Roles != nil {
		r.Roles = ur.Roles
	}
	r.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateResearcher(ctx, r)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) (int, error) {
	return svc.repo.DeleteResearchersByID(ctx, ids...)
}

// ValidResearchers lists the population taking part in rankings.
func (svc *Service) ValidResearchers(ctx context.Context) ([]Researcher, error) {
	active := true
	all, err := svc.repo.QueryResearchers(ctx, &QueryFilter{IsActive: &active, Roles: []string{RoleTeacher}}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying researchers")
	}
	valid := make([]Researcher, 0, len(all))
	for _, r := range all {
		if r.IsValid() {
			valid = append(valid, r)
		}
	}
	return valid, nil
}
