package points

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academia/scipoints/core/activity"
)

const testTable = `
rules:
  - {kind: research, points: 1}
  - {kind: research, completed: true, points: 2}
  - {kind: research, completed: true, published: true, classification: global, author_type: single, points: 10}
  - {kind: research, completed: true, published: true, classification: global, author_type: joint, points: 5}
  - {kind: course, points: 1}
  - {kind: seminar, points: 1.5}
  - {kind: supervision, points: 1}
  - {kind: supervision, level: phd, points: 4}
  - {kind: participation_certificate, points: 0.5}
`

func newTestAggregator(t *testing.T) *Aggregator {
	table, err := LoadTable(strings.NewReader(testTable))
	require.NoError(t, err)
	return NewAggregator(table)
}

func globalResearch(id, owner, author string) activity.Activity {
	return activity.Activity{
		ID:             id,
		OwnerID:        owner,
		Kind:           activity.KindResearch,
		Title:          "research " + id,
		Year:           2023,
		Month:          10,
		Classification: []string{activity.ClassGlobal},
		Completion:     activity.CompletionCompleted,
		Published:      true,
		AuthorType:     author,
	}
}

func TestAggregator_Score(t *testing.T) {
	ag := newTestAggregator(t)

	tests := []struct {
		name      string
		owner     string
		records   []activity.Activity
		wantTotal float64
	}{
		{name: "no records", owner: "a", wantTotal: 0},
		{name: "no owner", records: []activity.Activity{globalResearch("1", "", activity.AuthorSingle)}, wantTotal: 0},
		{
			name:      "other owner's records are ignored",
			owner:     "a",
			records:   []activity.Activity{globalResearch("1", "b", activity.AuthorSingle)},
			wantTotal: 0,
		},
		{
			name:  "unknown kind is worth nothing",
			owner: "a",
			records: []activity.Activity{
				{ID: "1", OwnerID: "a", Kind: "lol"},
				{ID: "2", OwnerID: "a", Kind: activity.KindCourse},
			},
			wantTotal: 1,
		},
		{
			name:      "kind without rule is worth nothing",
			owner:     "a",
			records:   []activity.Activity{{ID: "1", OwnerID: "a", Kind: activity.KindPosition}},
			wantTotal: 0,
		},
		{
			name:  "most specific rule wins",
			owner: "a",
			records: []activity.Activity{
				globalResearch("1", "a", activity.AuthorSingle), // 10
				globalResearch("2", "a", activity.AuthorJoint),  // 5
				{ID: "3", OwnerID: "a", Kind: activity.KindResearch, Completion: activity.CompletionCompleted}, // 2
				{ID: "4", OwnerID: "a", Kind: activity.KindResearch, Completion: activity.CompletionPlanned},   // 1
			},
			wantTotal: 18,
		},
		{
			name:  "fractional weights",
			owner: "a",
			records: []activity.Activity{
				{ID: "1", OwnerID: "a", Kind: activity.KindParticipationCertificate},
				{ID: "2", OwnerID: "a", Kind: activity.KindSeminar},
				{ID: "3", OwnerID: "a", Kind: activity.KindSupervision, Level: "phd"},
			},
			wantTotal: 6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ag.Score(tt.owner, tt.records)
			assert.InDelta(t, tt.wantTotal, b.Total, 1e-9)
			assert.GreaterOrEqual(t, b.Total, 0.0)
			assert.Len(t, b.Categories, len(activity.Kinds))
		})
	}
}

func TestAggregator_Score_deterministic(t *testing.T) {
	ag := newTestAggregator(t)

	var records []activity.Activity
	for i := 0; i < 50; i++ {
		kind := activity.KindSeminar
		if i%3 == 0 {
			kind = activity.KindParticipationCertificate
		}
		records = append(records, activity.Activity{ID: string(rune('A' + i)), OwnerID: "a", Kind: kind})
	}
	want := ag.Score("a", records)

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]activity.Activity, len(records))
		copy(shuffled, records)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, ag.Score("a", shuffled))
	}
}

func TestAggregator_Score_researchCounters(t *testing.T) {
	ag := newTestAggregator(t)

	before := []activity.Activity{
		{ID: "0", OwnerID: "a", Kind: activity.KindResearch, Completion: activity.CompletionPlanned, AuthorType: activity.AuthorJoint,
			Classification: []string{activity.ClassLocal}},
	}
	after := append(append([]activity.Activity{}, before...),
		globalResearch("1", "a", activity.AuthorSingle),
		globalResearch("2", "a", activity.AuthorSingle),
	)

	b0 := ag.Score("a", before)
	b1 := ag.Score("a", after)

	assert.Equal(t, b0.Research.Total+2, b1.Research.Total)
	assert.Equal(t, b0.Research.Published+2, b1.Research.Published)
	assert.Equal(t, b0.Research.Global+2, b1.Research.Global)
	assert.Equal(t, b0.Research.Completed+2, b1.Research.Completed)
	assert.Equal(t, b0.Research.Individual+2, b1.Research.Individual)
	assert.Equal(t, b0.Research.Unpublished, b1.Research.Unpublished)
	assert.Equal(t, b0.Research.Local, b1.Research.Local)
	assert.Equal(t, b0.Research.Joint, b1.Research.Joint)
	assert.Equal(t, b0.Count(activity.KindResearch)+2, b1.Count(activity.KindResearch))
	assert.InDelta(t, b0.Total+20, b1.Total, 1e-9)
}

func TestAggregator_ScoreAcademicYear(t *testing.T) {
	ag := newTestAggregator(t)

	records := []activity.Activity{
		{ID: "1", OwnerID: "a", Kind: activity.KindCourse, Date: time.Date(2023, time.August, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "2", OwnerID: "a", Kind: activity.KindCourse, Year: 2024, Month: 7},
		{ID: "3", OwnerID: "a", Kind: activity.KindCourse, Year: 2024, Month: 8},
		{ID: "4", OwnerID: "a", Kind: activity.KindCourse, Date: time.Date(2023, time.July, 31, 0, 0, 0, 0, time.UTC)},
		{ID: "5", OwnerID: "a", Kind: activity.KindCourse}, // undated
	}

	b := ag.ScoreAcademicYear("a", records, 2023)
	assert.InDelta(t, 2, b.Total, 1e-9)
	assert.Equal(t, "2023-2024", b.AcademicYear)

	assert.InDelta(t, 5, ag.Score("a", records).Total, 1e-9)
}

func TestLoadTable(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		wantLen int
	}{
		{name: "empty", yaml: "", wantLen: 0},
		{name: "valid", yaml: testTable, wantLen: 9},
		{name: "malformed", yaml: "rules: [", wantErr: true},
		{name: "unknown kind", yaml: "rules:\n  - {kind: lol, points: 1}", wantErr: true},
		{name: "negative points", yaml: "rules:\n  - {kind: course, points: -1}", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := LoadTable(strings.NewReader(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, table.Rules, tt.wantLen)
		})
	}
}

func TestTable_Weigh_tie(t *testing.T) {
	table, err := NewTable([]Rule{
		{Kind: activity.KindConference, Classification: activity.ClassGlobal, Points: 3},
		{Kind: activity.KindConference, AuthorType: activity.AuthorSingle, Points: 7},
	})
	require.NoError(t, err)

	a := activity.Activity{Kind: activity.KindConference, AuthorType: activity.AuthorSingle, Classification: []string{activity.ClassGlobal}}
	assert.Equal(t, 3.0, table.Weigh(a))

	var nilTable *Table
	assert.Equal(t, 0.0, nilTable.Weigh(a))
}
