// Package points computes the scientific points of a researcher from their activity records.
//
// Scores are a pure function of the records and the weight table: nothing is stored, and the
// only date involved is the records' own one when a score is restricted to an academic year.
package points

import (
	"sort"

	"github.com/academia/scipoints/core/activity"
)

type (
	// CategoryTotal sums one activity kind.
	CategoryTotal struct {
		Kind   activity.Kind `json:"kind"`
		Label  string        `json:"label"`
		Count  int           `json:"count"`
		Points float64       `json:"points"`
	}

	// ResearchCounters classify the research records.
	ResearchCounters struct {
		Total       int `json:"total"`
		Published   int `json:"published"`
		Unpublished int `json:"unpublished"`
		Global      int `json:"global"`
		Local       int `json:"local"`
		Completed   int `json:"completed"`
		Uncompleted int `json:"uncompleted"`
		Individual  int `json:"individual"`
		Joint       int `json:"joint"`
	}

	Breakdown struct {
		ResearcherID string           `json:"researcher_id"`
		AcademicYear string           `json:"academic_year,omitempty"`
		Total        float64          `json:"total"`
		Categories   []CategoryTotal  `json:"categories"` // one per known kind, in activity.Kinds order
		Research     ResearchCounters `json:"research"`
	}
)

// Count returns the number of records of kind.
func (b Breakdown) Count(kind activity.Kind) int {
	for _, c := range b.Categories {
		if c.Kind == kind {
			return c.Count
		}
	}
	return 0
}

// Points returns the points earned by records of kind.
func (b Breakdown) Points(kind activity.Kind) float64 {
	for _, c := range b.Categories {
		if c.Kind == kind {
			return c.Points
		}
	}
	return 0
}

// EmptyBreakdown is the breakdown of a researcher without any record.
func EmptyBreakdown(researcherID string) Breakdown {
	b := Breakdown{ResearcherID: researcherID, Categories: make([]CategoryTotal, 0, len(activity.Kinds))}
	for _, k := range activity.Kinds {
		b.Categories = append(b.Categories, CategoryTotal{Kind: k.Value, Label: k.Label})
	}
	return b
}

type Aggregator struct {
	table *Table
}

func NewAggregator(table *Table) *Aggregator {
	return &Aggregator{table: table}
}

// Table returns the weight table in use.
func (ag *Aggregator) Table() *Table {
	return ag.table
}

// Score maps the records of researcherID to a breakdown of their points.
// Records owned by someone else, with an unknown kind, or matching no rule count for nothing.
func (ag *Aggregator) Score(researcherID string, records []activity.Activity) Breakdown {
	return ag.score(researcherID, records, nil)
}

// ScoreAcademicYear only counts the records dated within year. Undated records are left out.
func (ag *Aggregator) ScoreAcademicYear(researcherID string, records []activity.Activity, year activity.AcademicYear) Breakdown {
	b := ag.score(researcherID, records, func(a activity.Activity) bool {
		when, ok := a.When()
		return ok && year.Contains(when)
	})
	b.AcademicYear = year.String()
	return b
}

func (ag *Aggregator) score(researcherID string, records []activity.Activity, keep func(activity.Activity) bool) Breakdown {
	b := EmptyBreakdown(researcherID)
	if researcherID == "" {
		return b
	}

	index := make(map[activity.Kind]int, len(b.Categories))
	for i, c := range b.Categories {
		index[c.Kind] = i
	}

	// canonical order, so float sums do not depend on the order records were fetched in
	sorted := make([]activity.Activity, 0, len(records))
	for _, a := range records {
		if a.OwnerID != researcherID {
			continue
		}
		if _, ok := index[a.Kind]; !ok {
			continue
		}
		if keep != nil && !keep(a) {
			continue
		}
		sorted = append(sorted, a)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ID != sorted[j].ID {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Title < sorted[j].Title
	})

	for _, a := range sorted {
		pts := ag.table.Weigh(a)
		cat := &b.Categories[index[a.Kind]]
		cat.Count++
		cat.Points += pts
		if a.Kind == activity.KindResearch {
			countResearch(&b.Research, a)
		}
	}

	for _, c := range b.Categories {
		b.Total += c.Points
	}
	return b
}

func countResearch(rc *ResearchCounters, a activity.Activity) {
	rc.Total++
	if a.Published {
		rc.Published++
	} else {
		rc.Unpublished++
	}
	if a.IsGlobal() {
		rc.Global++
	} else if a.HasTag(activity.ClassLocal) {
		rc.Local++
	}
	if a.IsCompleted() {
		rc.Completed++
	} else {
		rc.Uncompleted++
	}
	switch a.AuthorType {
	case activity.AuthorSingle:
		rc.Individual++
	case activity.AuthorJoint:
		rc.Joint++
	}
}
