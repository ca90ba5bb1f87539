package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/academia/scipoints/core/activity"
	"github.com/academia/scipoints/core/researcher"
)

func CreateResearcher(
	t *testing.T,
	repo researcher.Repository,
	nameEn, email, college, department, title string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) researcher.Researcher {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if roles == nil {
		roles = []string{researcher.RoleTeacher}
	}
	r, err := repo.CreateResearcher(context.Background(), researcher.Researcher{
		NameEn:        nameEn,
		Email:         email,
		College:       college,
		Department:    department,
		AcademicTitle: title,
		Roles:         roles,
		IsActive:      isActive,
		CreatedAt:     tstamp,
		UpdatedAt:     tstamp,
	})
	if err != nil {
		t.Fatalf("CreateResearcher() failed: %v", err)
	}
	return r
}

// CreateActivity stores a for ownerID. Timestamps default to now.
func CreateActivity(t *testing.T, repo activity.Repository, ownerID string, a activity.Activity) activity.Activity {
	now := time.Now().UTC()
	a.OwnerID = ownerID
	if a.Classification == nil {
		a.Classification = []string{}
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	a, err := repo.CreateActivity(context.Background(), a)
	if err != nil {
		t.Fatalf("CreateActivity() failed: %v", err)
	}
	return a
}

// Research returns a research record. Tags may contain classification tags, "single" or "joint".
func Research(title string, completed, published bool, year, month int, tags ...string) activity.Activity {
	a := activity.Activity{Kind: activity.KindResearch, Title: title, Year: year, Month: month, Published: published}
	if completed {
		a.Completion = activity.CompletionCompleted
	} else {
		a.Completion = activity.CompletionInProgress
	}
	for _, tag := range tags {
		switch tag {
		case activity.AuthorSingle, activity.AuthorJoint:
			a.AuthorType = tag
		default:
			a.Classification = append(a.Classification, tag)
		}
	}
	return a
}
