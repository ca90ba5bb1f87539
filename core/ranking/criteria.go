package ranking

import (
	"sort"

	"github.com/academia/scipoints/core/activity"
	"github.com/academia/scipoints/core/researcher"
)

// Criterion ranks researchers on a single metric instead of their total score.
type Criterion string

const (
	CriterionAcademicTitle     Criterion = "academic_title"
	CriterionPublishedResearch Criterion = "published_research"
	CriterionGlobalResearch    Criterion = "global_research"
	CriterionConferences       Criterion = "conferences"
	CriterionSeminarsCourses   Criterion = "seminars_courses"
	CriterionCommittees        Criterion = "committees"
	CriterionVolunteerWork     Criterion = "volunteer_work"
	CriterionThankYouBooks     Criterion = "thank_you_books"
)

type CriterionInfo struct {
	Value Criterion `json:"value"`
	Label string    `json:"label"`
	value func(Standing) float64
}

var Criteria = []CriterionInfo{
	{Value: CriterionAcademicTitle, Label: "Academic title", value: func(s Standing) float64 {
		return float64(researcher.TitleRank(s.AcademicTitle))
	}},
	{Value: CriterionPublishedResearch, Label: "Published research", value: func(s Standing) float64 {
		return float64(s.Breakdown.Research.Published)
	}},
	{Value: CriterionGlobalResearch, Label: "Global research", value: func(s Standing) float64 {
		return float64(s.Breakdown.Research.Global)
	}},
	{Value: CriterionConferences, Label: "Conferences", value: countOf(activity.KindConference)},
	{Value: CriterionSeminarsCourses, Label: "Seminars & courses", value: countOf(activity.KindSeminar, activity.KindCourse)},
	{Value: CriterionCommittees, Label: "Committees", value: countOf(activity.KindCommittee)},
	{Value: CriterionVolunteerWork, Label: "Volunteer work", value: countOf(activity.KindVolunteerWork)},
	{Value: CriterionThankYouBooks, Label: "Thank-you books", value: countOf(activity.KindThankYouBook)},
}

func countOf(kinds ...activity.Kind) func(Standing) float64 {
	return func(s Standing) float64 {
		n := 0
		for _, k := range kinds {
			n += s.Breakdown.Count(k)
		}
		return float64(n)
	}
}

// ParseCriterion returns the criterion named name.
func ParseCriterion(name string) (CriterionInfo, bool) {
	for _, c := range Criteria {
		if string(c.Value) == name {
			return c, true
		}
	}
	return CriterionInfo{}, false
}

type (
	LeaderboardEntry struct {
		Rank          int     `json:"rank"`
		ResearcherID  string  `json:"researcher_id"`
		NameAr        string  `json:"name_ar"`
		NameEn        string  `json:"name_en"`
		Department    string  `json:"department"`
		AcademicTitle string  `json:"academic_title"`
		Value         float64 `json:"value"`
	}

	Leaderboard struct {
		Criterion Criterion          `json:"criterion"`
		Label     string             `json:"label"`
		Entries   []LeaderboardEntry `json:"entries"`
	}
)

// BuildLeaderboard ranks every standing on c, highest value first.
// Ties are broken by total score, then by researcher id.
func BuildLeaderboard(standings []Standing, c CriterionInfo) Leaderboard {
	type scored struct {
		Standing
		value float64
	}
	rows := make([]scored, len(standings))
	for i, s := range standings {
		rows[i] = scored{Standing: s, value: c.value(s)}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].value != rows[j].value {
			return rows[i].value > rows[j].value
		}
		return less(rows[i].Standing, rows[j].Standing)
	})

	lb := Leaderboard{Criterion: c.Value, Label: c.Label, Entries: make([]LeaderboardEntry, len(rows))}
	for i, r := range rows {
		lb.Entries[i] = LeaderboardEntry{
			Rank:          i + 1,
			ResearcherID:  r.ResearcherID,
			NameAr:        r.NameAr,
			NameEn:        r.NameEn,
			Department:    r.Department,
			AcademicTitle: r.AcademicTitle,
			Value:         r.value,
		}
	}
	return lb
}

// BuildLeaderboards builds one independent leaderboard per criterion.
func BuildLeaderboards(standings []Standing) []Leaderboard {
	lbs := make([]Leaderboard, len(Criteria))
	for i, c := range Criteria {
		lbs[i] = BuildLeaderboard(standings, c)
	}
	return lbs
}
