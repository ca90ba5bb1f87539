package activity

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("activity not found")
)

type (
	Repository interface {
		CreateActivity(ctx context.Context, a Activity) (Activity, error)
		// QueryActivities returns the activities of filter.OwnerID (all owners when empty) matching filter.Kinds.
		// filter.AcademicYear is applied by the Service.
		QueryActivities(ctx context.Context, filter *QueryFilter) ([]Activity, error)
		GetActivity(ctx context.Context, id string) (Activity, error)
		// DeleteActivitiesByID only deletes activities owned by ownerID.
		DeleteActivitiesByID(ctx context.Context, ownerID string, ids ...string) (int, error)
	}

	Service struct {
		repo Repository
	}
)

var nowFunc = time.Now // mockable

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create logs an already validated NewActivity for ownerID.
func (svc *Service) Create(ctx context.Context, ownerID string, na NewActivity) (Activity, error) {
	now := nowFunc().UTC()
	a := Activity{
		OwnerID:        ownerID,
		Kind:           Kind(na.Kind),
		Title:          na.Title,
		Date:           na.parsedDate(),
		Year:           na.Year,
		Month:          na.Month,
		Classification: na.Classification,
		Completion:     na.Completion,
		Published:      na.Published,
		AuthorType:     na.AuthorType,
		Level:          na.Level,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if a.Classification == nil {
		a.Classification = []string{}
	}
	return svc.repo.CreateActivity(ctx, a)
}

// Query returns the activities matching filter, ordered by date (most recent first).
func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Activity, error) {
	all, err := svc.repo.QueryActivities(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	acts := all[:0]
	for _, a := range all {
		if filter.Match(a) {
			acts = append(acts, a)
		}
	}
	sortByDateDesc(acts)
	return acts, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Activity, error) {
	return svc.repo.GetActivity(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, ownerID string, ids ...string) (int, error) {
	return svc.repo.DeleteActivitiesByID(ctx, ownerID, ids...)
}

// ActivitiesOf returns every activity owned by researcherID, all kinds.
func (svc *Service) ActivitiesOf(ctx context.Context, researcherID string) ([]Activity, error) {
	acts, err := svc.repo.QueryActivities(ctx, &QueryFilter{OwnerID: researcherID})
	if err != nil {
		return nil, errors.Wrapf(err, "querying activities of %s", researcherID)
	}
	return acts, nil
}

func sortByDateDesc(acts []Activity) {
	sort.SliceStable(acts, func(i, j int) bool {
		wi, _ := acts[i].When()
		wj, _ := acts[j].When()
		if !wi.Equal(wj) {
			return wi.After(wj)
		}
		return acts[i].ID < acts[j].ID
	})
}
