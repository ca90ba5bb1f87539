// Package ranking orders a scored population of researchers.
//
// Every function here is pure: it works on already computed standings and never fetches or
// stores anything. Service does the fetching and scoring.
package ranking

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/academia/scipoints/core/points"
	"github.com/academia/scipoints/core/researcher"
)

var (
	// errors
	ErrNotInPopulation = errors.New("researcher is not part of the ranked population")
)

type (
	// Standing is the score of one researcher of the population.
	Standing struct {
		ResearcherID  string           `json:"researcher_id"`
		NameAr        string           `json:"name_ar"`
		NameEn        string           `json:"name_en"`
		College       string           `json:"college"`
		Department    string           `json:"department"`
		AcademicTitle string           `json:"academic_title"`
		Score         float64          `json:"score"`
		Breakdown     points.Breakdown `json:"-"`
	}

	RankedEntry struct {
		Rank int `json:"rank"`
		Standing
	}
)

// NewStanding attaches a breakdown to its researcher.
func NewStanding(r researcher.Researcher, b points.Breakdown) Standing {
	return Standing{
		ResearcherID:  r.ID,
		NameAr:        r.NameAr,
		NameEn:        r.NameEn,
		College:       r.College,
		Department:    r.Department,
		AcademicTitle: r.AcademicTitle,
		Score:         b.Total,
		Breakdown:     b,
	}
}

// less orders by score descending, ties broken by researcher id ascending.
func less(a, b Standing) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ResearcherID < b.ResearcherID
}

// Rank sorts a copy of standings and numbers it 1..N, without gaps.
func Rank(standings []Standing) []RankedEntry {
	sorted := make([]Standing, len(standings))
	copy(sorted, standings)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })

	ranked := make([]RankedEntry, len(sorted))
	for i, s := range sorted {
		ranked[i] = RankedEntry{Rank: i + 1, Standing: s}
	}
	return ranked
}

// RankOf returns the rank of researcherID in ranked.
func RankOf(ranked []RankedEntry, researcherID string) (int, bool) {
	for _, e := range ranked {
		if e.ResearcherID == researcherID {
			return e.Rank, true
		}
	}
	return 0, false
}

// Percentile returns round(100 * (total - rank + 1) / total), bounded to [0,100].
// It is 0 for an empty population or a rank out of range.
func Percentile(rank, total int) int {
	if total <= 0 || rank < 1 || rank > total {
		return 0
	}
	p := int(math.Round(100 * float64(total-rank+1) / float64(total)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Top returns the n best ranked standings; all of them when n <= 0 or n exceeds the population.
func Top(standings []Standing, n int) []RankedEntry {
	ranked := Rank(standings)
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// InCollege keeps the standings of college.
func InCollege(standings []Standing, college string) []Standing {
	return filter(standings, func(s Standing) bool { return s.College == college })
}

// InDepartment keeps the standings of department.
func InDepartment(standings []Standing, department string) []Standing {
	return filter(standings, func(s Standing) bool { return s.Department == department })
}

func filter(standings []Standing, keep func(Standing) bool) []Standing {
	res := make([]Standing, 0, len(standings))
	for _, s := range standings {
		if keep(s) {
			res = append(res, s)
		}
	}
	return res
}

type (
	SnapshotOptions struct {
		TopSize       int // size of the long college-wide list
		DepartmentTop int
		SimilarCount  int
	}

	// Snapshot is the position of one researcher within the population. It is never stored.
	Snapshot struct {
		ResearcherID      string           `json:"researcher_id"`
		Score             float64          `json:"score"`
		CollegeRank       int              `json:"college_rank"`
		TotalInCollege    int              `json:"total_in_college"`
		Percentile        int              `json:"percentile"`
		DepartmentRank    int              `json:"department_rank"`
		TotalInDepartment int              `json:"total_in_department"`
		Top3              []RankedEntry    `json:"top_3"`
		TopN              []RankedEntry    `json:"top_n"`
		DepartmentTop     []RankedEntry    `json:"department_top"`
		Similar           []SimilarEntry   `json:"similar"`
		Breakdown         points.Breakdown `json:"breakdown"`
	}
)

// BuildSnapshot places researcherID within its college and department.
func BuildSnapshot(standings []Standing, researcherID string, opts SnapshotOptions) (Snapshot, error) {
	var (
		me    Standing
		found bool
	)
	for _, s := range standings {
		if s.ResearcherID == researcherID {
			me, found = s, true
			break
		}
	}
	if !found {
		return Snapshot{}, ErrNotInPopulation
	}

	college := Rank(InCollege(standings, me.College))
	department := Rank(InDepartment(standingsOf(college), me.Department))
	collegeRank, _ := RankOf(college, researcherID)
	departmentRank, _ := RankOf(department, researcherID)

	return Snapshot{
		ResearcherID:      researcherID,
		Score:             me.Score,
		CollegeRank:       collegeRank,
		TotalInCollege:    len(college),
		Percentile:        Percentile(collegeRank, len(college)),
		DepartmentRank:    departmentRank,
		TotalInDepartment: len(department),
		Top3:              head(college, 3),
		TopN:              head(college, opts.TopSize),
		DepartmentTop:     head(department, opts.DepartmentTop),
		Similar:           MostSimilar(standingsOf(college), me, opts.SimilarCount),
		Breakdown:         me.Breakdown,
	}, nil
}

func standingsOf(ranked []RankedEntry) []Standing {
	res := make([]Standing, len(ranked))
	for i, e := range ranked {
		res[i] = e.Standing
	}
	return res
}

func head(ranked []RankedEntry, n int) []RankedEntry {
	if n <= 0 {
		return []RankedEntry{}
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	res := make([]RankedEntry, n)
	copy(res, ranked[:n])
	return res
}
