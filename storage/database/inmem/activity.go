package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/academia/scipoints/core/activity"
)

type activityRepository struct {
	db *DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) *activityRepository {
	return &activityRepository{db: db}
}

func copyActivity(a activity.Activity) activity.Activity {
	a.Classification = append([]string{}, a.Classification...)
	return a
}

func (repo *activityRepository) CreateActivity(_ context.Context, a activity.Activity) (activity.Activity, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a.ID = uuid.New().String()
	a = copyActivity(a)
	repo.db.activities[a.ID] = &a
	return copyActivity(a), nil
}

func (repo *activityRepository) QueryActivities(_ context.Context, filter *activity.QueryFilter) ([]activity.Activity, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	// the academic year is left to the service
	var f activity.QueryFilter
	if filter != nil {
		f = activity.QueryFilter{OwnerID: filter.OwnerID, Kinds: filter.Kinds}
	}

	acts := make([]activity.Activity, 0)
	for _, a := range repo.db.activities {
		if f.Match(*a) {
			acts = append(acts, copyActivity(*a))
		}
	}
	sort.Slice(acts, func(i, j int) bool { return acts[i].ID < acts[j].ID })
	return acts, nil
}

func (repo *activityRepository) GetActivity(_ context.Context, id string) (activity.Activity, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.activities[id]; ok {
		return copyActivity(*a), nil
	}
	return activity.Activity{}, activity.ErrNotFound
}

func (repo *activityRepository) DeleteActivitiesByID(_ context.Context, ownerID string, ids ...string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cnt := 0
	for _, id := range ids {
		if a, ok := repo.db.activities[id]; ok && a.OwnerID == ownerID {
			delete(repo.db.activities, id)
			cnt++
		}
	}
	return cnt, nil
}
