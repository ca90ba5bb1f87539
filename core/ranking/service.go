package ranking

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/academia/scipoints/core"
	"github.com/academia/scipoints/core/activity"
	"github.com/academia/scipoints/core/points"
	"github.com/academia/scipoints/core/researcher"
)

var (
	// errors
	ErrUnknownCriterion = errors.New("unknown ranking criterion")
	ErrCollegeRequired  = errors.New("a department is ranked within its college: college required")
)

type (
	// PopulationSource lists the researchers taking part in rankings.
	PopulationSource interface {
		ValidResearchers(ctx context.Context) ([]researcher.Researcher, error)
	}

	// ActivitySource fetches every activity record of a researcher.
	ActivitySource interface {
		ActivitiesOf(ctx context.Context, researcherID string) ([]activity.Activity, error)
	}

	Service struct {
		population PopulationSource
		activities ActivitySource
		aggregator *points.Aggregator
		logger     core.Logger
		conf       core.RankingConfig
	}
)

var (
	_ PopulationSource = (*researcher.Service)(nil)
	_ ActivitySource   = (*activity.Service)(nil)
)

func NewService(
	population PopulationSource,
	activities ActivitySource,
	aggregator *points.Aggregator,
	logger core.Logger,
	conf core.RankingConfig,
) *Service {
	if conf.Concurrency <= 0 {
		conf.Concurrency = 1
	}
	return &Service{
		population: population,
		activities: activities,
		aggregator: aggregator,
		logger:     logger,
		conf:       conf,
	}
}

// Limit bounds a requested list size: the configured default when n <= 0, at most MaxLimit.
func (svc *Service) Limit(n int) int {
	if n <= 0 {
		n = svc.conf.DefaultLimit
	}
	if svc.conf.MaxLimit > 0 && n > svc.conf.MaxLimit {
		n = svc.conf.MaxLimit
	}
	return n
}

// Options returns the snapshot options, with the long top list sized by limit when set.
func (svc *Service) Options(limit int) SnapshotOptions {
	opts := SnapshotOptions{
		TopSize:       svc.conf.TopSize,
		DepartmentTop: svc.conf.DepartmentTop,
		SimilarCount:  svc.conf.SimilarCount,
	}
	if limit > 0 {
		opts.TopSize = svc.Limit(limit)
	}
	return opts
}

// Weights returns the weight table in use.
func (svc *Service) Weights() *points.Table {
	return svc.aggregator.Table()
}

// Points scores r, restricted to an academic year when year is set.
// Failing to fetch the records of r scores 0.
func (svc *Service) Points(ctx context.Context, r researcher.Researcher, year *activity.AcademicYear) points.Breakdown {
	b, err := svc.score(ctx, r, year)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("scoring %s: scored 0", r.ID), err, r)
	}
	return b
}

// Standings scores the whole population concurrently.
// Only failing to list the population is an error: a researcher whose records cannot be fetched
// in time scores 0.
func (svc *Service) Standings(ctx context.Context) ([]Standing, error) {
	population, err := svc.population.ValidResearchers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing the ranked population")
	}

	standings := make([]Standing, len(population))
	failures := make([]error, len(population))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(svc.conf.Concurrency)
	for i, r := range population {
		i, r := i, r
		g.Go(func() error {
			b, err := svc.score(gctx, r, nil)
			standings[i], failures[i] = NewStanding(r, b), err
			return nil
		})
	}
	_ = g.Wait() // scoring never fails

	if err = ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "scoring the population")
	}
	for i, err := range failures {
		if err != nil {
			r := population[i]
			svc.logger.Warn(fmt.Sprintf("scoring %s: scored 0", r.ID), err, r)
		}
	}
	return standings, nil
}

// Snapshot places researcherID within the population.
func (svc *Service) Snapshot(ctx context.Context, researcherID string, opts SnapshotOptions) (Snapshot, error) {
	standings, err := svc.Standings(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return BuildSnapshot(standings, researcherID, opts)
}

// Top returns the n best researchers of college, or of the whole population when college is empty.
// A department is ranked within its college, as in a Snapshot.
func (svc *Service) Top(ctx context.Context, n int, college, department string) ([]RankedEntry, error) {
	if department != "" && college == "" {
		return nil, ErrCollegeRequired
	}
	standings, err := svc.Standings(ctx)
	if err != nil {
		return nil, err
	}
	if college != "" {
		standings = InCollege(standings, college)
	}
	if department != "" {
		standings = InDepartment(standings, department)
	}
	return Top(standings, svc.Limit(n)), nil
}

// Criteria builds every criterion leaderboard.
func (svc *Service) Criteria(ctx context.Context) ([]Leaderboard, error) {
	standings, err := svc.Standings(ctx)
	if err != nil {
		return nil, err
	}
	return BuildLeaderboards(standings), nil
}

// Criterion builds the leaderboard of the criterion named name.
func (svc *Service) Criterion(ctx context.Context, name string) (Leaderboard, error) {
	c, ok := ParseCriterion(name)
	if !ok {
		return Leaderboard{}, ErrUnknownCriterion
	}
	standings, err := svc.Standings(ctx)
	if err != nil {
		return Leaderboard{}, err
	}
	return BuildLeaderboard(standings, c), nil
}

type fetchResult struct {
	acts []activity.Activity
	err  error
}

// score fetches and aggregates the records of r, giving up after the configured item timeout.
// On failure it returns the empty breakdown along with the cause.
func (svc *Service) score(ctx context.Context, r researcher.Researcher, year *activity.AcademicYear) (points.Breakdown, error) {
	if svc.conf.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.conf.ItemTimeout)
		defer cancel()
	}

	ch := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- fetchResult{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		acts, err := svc.activities.ActivitiesOf(ctx, r.ID)
		ch <- fetchResult{acts: acts, err: err}
	}()

	var res fetchResult
	select {
	case <-ctx.Done():
		res.err = ctx.Err()
	case res = <-ch:
	}
	if res.err != nil {
		b := points.EmptyBreakdown(r.ID)
		if year != nil {
			b.AcademicYear = year.String()
		}
		return b, errors.Wrap(res.err, "fetching activities")
	}

	if year != nil {
		return svc.aggregator.ScoreAcademicYear(r.ID, res.acts, *year), nil
	}
	return svc.aggregator.Score(r.ID, res.acts), nil
}
