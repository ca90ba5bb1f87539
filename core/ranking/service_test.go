package ranking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academia/scipoints/core"
	"github.com/academia/scipoints/core/activity"
	"github.com/academia/scipoints/core/points"
	"github.com/academia/scipoints/core/researcher"
	logsvc "github.com/academia/scipoints/services/logger"
)

type (
	fakePopulation struct {
		researchers []researcher.Researcher
		err         error
	}

	// fakeActivities gives every researcher `courses[id]` courses.
	fakeActivities struct {
		courses map[string]int
		failing map[string]bool
		slow    map[string]bool
		panics  map[string]bool
	}

	recordingLogger struct {
		mu    sync.Mutex
		warns []string
	}
)

func (p fakePopulation) ValidResearchers(context.Context) ([]researcher.Researcher, error) {
	return p.researchers, p.err
}

func (f fakeActivities) ActivitiesOf(ctx context.Context, id string) ([]activity.Activity, error) {
	switch {
	case f.failing[id]:
		return nil, errors.New("db is down")
	case f.panics[id]:
		panic("boom")
	case f.slow[id]:
		<-ctx.Done()
		return nil, ctx.Err()
	}
	acts := make([]activity.Activity, f.courses[id])
	for i := range acts {
		acts[i] = activity.Activity{ID: id + string(rune('a'+i)), OwnerID: id, Kind: activity.KindCourse}
	}
	return acts, nil
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{}) {}
func (l *recordingLogger) Error(string, ...interface{}) {}
func (l *recordingLogger) Fatal(string, ...interface{}) {}
func (l *recordingLogger) Warn(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

var _ core.Logger = (*recordingLogger)(nil)

func newTestService(t *testing.T, pop PopulationSource, acts ActivitySource, logger core.Logger) *Service {
	table, err := points.NewTable([]points.Rule{{Kind: activity.KindCourse, Points: 10}})
	require.NoError(t, err)
	return NewService(pop, acts, points.NewAggregator(table), logger, core.RankingConfig{
		Concurrency:   3,
		ItemTimeout:   50 * time.Millisecond,
		TopSize:       10,
		DepartmentTop: 10,
		SimilarCount:  5,
		DefaultLimit:  3,
		MaxLimit:      4,
	})
}

func testResearcher(id, department string) researcher.Researcher {
	return researcher.Researcher{
		ID:            id,
		NameEn:        strings.ToUpper(id),
		College:       "Science",
		Department:    department,
		AcademicTitle: researcher.TitleLecturer,
		IsActive:      true,
		Roles:         []string{researcher.RoleTeacher},
	}
}

func TestService_Standings(t *testing.T) {
	pop := fakePopulation{researchers: []researcher.Researcher{
		testResearcher("a", "CS"), testResearcher("b", "CS"), testResearcher("c", "Math"),
		testResearcher("d", "Math"), testResearcher("e", "CS"),
	}}
	acts := fakeActivities{
		courses: map[string]int{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5},
		failing: map[string]bool{"b": true},
		slow:    map[string]bool{"c": true},
		panics:  map[string]bool{"d": true},
	}
	logger := &recordingLogger{}
	svc := newTestService(t, pop, acts, logger)

	standings, err := svc.Standings(context.Background())
	require.NoError(t, err)
	require.Len(t, standings, 5, "failures never drop a researcher")

	scores := make(map[string]float64)
	for _, s := range standings {
		scores[s.ResearcherID] = s.Score
	}
	assert.Equal(t, map[string]float64{"a": 10, "b": 0, "c": 0, "d": 0, "e": 50}, scores)
	assert.ElementsMatch(t, []string{"scoring b: scored 0", "scoring c: scored 0", "scoring d: scored 0"}, logger.warns)
}

func TestService_Standings_failuresWithRollbarLogger(t *testing.T) {
	pop := fakePopulation{}
	acts := fakeActivities{courses: map[string]int{}, failing: map[string]bool{}, slow: map[string]bool{}}
	for i := 0; i < 40; i++ {
		id := fmt.Sprintf("r%02d", i)
		pop.researchers = append(pop.researchers, testResearcher(id, "CS"))
		switch i % 3 {
		case 0:
			acts.failing[id] = true
		case 1:
			acts.slow[id] = true
		default:
			acts.courses[id] = 1
		}
	}
	svc := newTestService(t, pop, acts, logsvc.NewDiscardLogger())

	standings, err := svc.Standings(context.Background())
	require.NoError(t, err)
	require.Len(t, standings, 40)
	for i, s := range standings {
		if i%3 == 2 {
			assert.Equal(t, 10.0, s.Score, s.ResearcherID)
		} else {
			assert.Equal(t, 0.0, s.Score, s.ResearcherID)
		}
	}
}

func TestService_Top_collegeScope(t *testing.T) {
	a, b := testResearcher("a", "CS"), testResearcher("b", "CS")
	b.College = "Engineering"
	acts := fakeActivities{courses: map[string]int{"a": 1, "b": 2}}
	svc := newTestService(t, fakePopulation{researchers: []researcher.Researcher{a, b}}, acts, &recordingLogger{})
	ctx := context.Background()

	top, err := svc.Top(ctx, 10, "Science", "CS")
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "a", top[0].ResearcherID)

	snap, err := svc.Snapshot(ctx, "a", svc.Options(0))
	require.NoError(t, err)
	assert.Equal(t, top[0].Rank, snap.DepartmentRank)
	assert.Equal(t, len(top), snap.TotalInDepartment)

	top, err = svc.Top(ctx, 10, "", "")
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].ResearcherID)
}

func TestService_Standings_populationError(t *testing.T) {
	svc := newTestService(t, fakePopulation{err: errors.New("db is down")}, fakeActivities{}, &recordingLogger{})
	_, err := svc.Standings(context.Background())
	assert.Error(t, err)
}

func TestService_Standings_canceled(t *testing.T) {
	pop := fakePopulation{researchers: []researcher.Researcher{testResearcher("a", "CS")}}
	svc := newTestService(t, pop, fakeActivities{}, &recordingLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Standings(ctx)
	assert.Error(t, err)
}

func TestService_queries(t *testing.T) {
	pop := fakePopulation{researchers: []researcher.Researcher{
		testResearcher("a", "CS"), testResearcher("b", "CS"), testResearcher("c", "Math"),
		testResearcher("d", "Math"), testResearcher("e", "CS"), testResearcher("f", "CS"),
	}}
	acts := fakeActivities{courses: map[string]int{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5}}
	svc := newTestService(t, pop, acts, &recordingLogger{})
	ctx := context.Background()

	t.Run("top", func(t *testing.T) {
		tests := []struct {
			name       string
			n          int
			college    string
			department string
			wantIDs    []string
		}{
			{name: "default limit", wantIDs: []string{"e", "d", "c"}},
			{name: "max limit", n: 100, wantIDs: []string{"e", "d", "c", "b"}},
			{name: "college", n: 10, college: "Science", wantIDs: []string{"e", "d", "c", "b"}},
			{name: "department", n: 10, college: "Science", department: "CS", wantIDs: []string{"e", "b", "a", "f"}},
			{name: "unknown department", n: 10, college: "Science", department: "lol", wantIDs: []string{}},
			{name: "unknown college", n: 10, college: "lol", wantIDs: []string{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				top, err := svc.Top(ctx, tt.n, tt.college, tt.department)
				require.NoError(t, err)
				ids := make([]string, len(top))
				for i, e := range top {
					ids[i] = e.ResearcherID
				}
				assert.Equal(t, tt.wantIDs, ids)
			})
		}

		_, err := svc.Top(ctx, 10, "", "CS")
		assert.Equal(t, ErrCollegeRequired, err)
	})

	t.Run("snapshot", func(t *testing.T) {
		snap, err := svc.Snapshot(ctx, "f", svc.Options(0))
		require.NoError(t, err)
		assert.Equal(t, 6, snap.CollegeRank)
		assert.Equal(t, 4, snap.DepartmentRank)
		assert.Equal(t, 17, snap.Percentile)
		assert.Equal(t, 0.0, snap.Score)

		_, err = svc.Snapshot(ctx, "x", svc.Options(0))
		assert.Equal(t, ErrNotInPopulation, err)
	})

	t.Run("criteria", func(t *testing.T) {
		lbs, err := svc.Criteria(ctx)
		require.NoError(t, err)
		assert.Len(t, lbs, len(Criteria))

		lb, err := svc.Criterion(ctx, string(CriterionSeminarsCourses))
		require.NoError(t, err)
		assert.Equal(t, "e", lb.Entries[0].ResearcherID)
		assert.Equal(t, 5.0, lb.Entries[0].Value)

		_, err = svc.Criterion(ctx, "lol")
		assert.Equal(t, ErrUnknownCriterion, err)
	})

	t.Run("points", func(t *testing.T) {
		year := activity.AcademicYear(2023)
		assert.Equal(t, 50.0, svc.Points(ctx, testResearcher("e", "CS"), nil).Total)
		b := svc.Points(ctx, testResearcher("e", "CS"), &year) // undated records
		assert.Equal(t, 0.0, b.Total)
		assert.Equal(t, "2023-2024", b.AcademicYear)
	})
}
