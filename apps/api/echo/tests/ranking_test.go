package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academia/scipoints/core/activity"
	"github.com/academia/scipoints/core/points"
	"github.com/academia/scipoints/core/ranking"
	"github.com/academia/scipoints/core/researcher"
	"github.com/academia/scipoints/tests"
)

type rankingFixture struct {
	ali, bob, carol, admin researcher.Researcher
}

// setUpPopulation scores ali 13 (12 + 1), bob 2 and carol 0. The admin is not ranked.
func setUpPopulation(t *testing.T) rankingFixture {
	db.Reset()

	f := rankingFixture{
		ali:   testutil.CreateResearcher(t, rRepo, "Ali", "ali@uni.edu", "Science", "CS", researcher.TitleProfessor, nil, true),
		bob:   testutil.CreateResearcher(t, rRepo, "Bob", "bob@uni.edu", "Science", "CS", researcher.TitleLecturer, nil, true),
		carol: testutil.CreateResearcher(t, rRepo, "Carol", "carol@uni.edu", "Science", "Math", researcher.TitleLecturer, nil, true),
		admin: testutil.CreateResearcher(t, rRepo, "Admin", "admin@uni.edu", "Science", "CS", "", []string{researcher.RoleAdmin}, true),
	}
	testutil.CreateActivity(t, aRepo, f.ali.ID, testutil.Research("R", true, true, 2023, 10, activity.ClassScopus, activity.AuthorSingle))
	testutil.CreateActivity(t, aRepo, f.ali.ID, activity.Activity{Kind: activity.KindCourse, Title: "C", Year: 2020})
	testutil.CreateActivity(t, aRepo, f.bob.ID, activity.Activity{Kind: activity.KindConference, Title: "K", Year: 2022, Month: 3})
	return f
}

func Test_rankingApi_points(t *testing.T) {
	f := setUpPopulation(t)
	aliToken := getToken(t, f.ali)
	path := "/v1/researchers/" + f.ali.ID + "/points"

	tests := []struct {
		name         string
		path         string
		wantTotal    float64
		wantYear     string
		wantResearch points.ResearchCounters
		wantCourses  int
	}{
		{
			name:         "all records",
			path:         path,
			wantTotal:    13,
			wantResearch: points.ResearchCounters{Total: 1, Published: 1, Global: 1, Completed: 1, Individual: 1},
			wantCourses:  1,
		},
		{
			name:         "academic year",
			path:         path + "?academic_year=2023",
			wantTotal:    12,
			wantYear:     "2023-2024",
			wantResearch: points.ResearchCounters{Total: 1, Published: 1, Global: 1, Completed: 1, Individual: 1},
		},
		{
			name:     "empty academic year",
			path:     path + "?academic_year=2010",
			wantYear: "2010-2011",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(httpTest{method: http.MethodGet, path: tt.path, token: aliToken})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var got points.Breakdown
			unmarshall(t, rec, &got)
			assert.Equal(t, f.ali.ID, got.ResearcherID)
			assert.Equal(t, tt.wantTotal, got.Total)
			assert.Equal(t, tt.wantYear, got.AcademicYear)
			assert.Equal(t, tt.wantResearch, got.Research)
			assert.Equal(t, tt.wantCourses, got.Count(activity.KindCourse))
			assert.Len(t, got.Categories, len(activity.Kinds))
		})
	}

	runHTTPTests(t, []httpTest{
		{
			name:       "invalid academic year",
			method:     http.MethodGet,
			path:       path + "?academic_year=1",
			token:      aliToken,
			wantCode:   http.StatusBadRequest,
			wantFields: []string{"academic_year"},
		},
		{
			name:     "someone else",
			method:   http.MethodGet,
			path:     "/v1/researchers/" + f.bob.ID + "/points",
			token:    aliToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFound),
		},
	})
}

func Test_rankingApi_snapshot(t *testing.T) {
	f := setUpPopulation(t)

	tests := []struct {
		name     string
		r        researcher.Researcher
		query    string
		want     ranking.Snapshot
		wantTopN int
	}{
		{
			name:     "first",
			r:        f.ali,
			want:     ranking.Snapshot{Score: 13, CollegeRank: 1, TotalInCollege: 3, Percentile: 100, DepartmentRank: 1, TotalInDepartment: 2},
			wantTopN: 3,
		},
		{
			name:     "middle",
			r:        f.bob,
			want:     ranking.Snapshot{Score: 2, CollegeRank: 2, TotalInCollege: 3, Percentile: 67, DepartmentRank: 2, TotalInDepartment: 2},
			wantTopN: 3,
		},
		{
			name:     "last, limited",
			r:        f.carol,
			query:    "?limit=1",
			want:     ranking.Snapshot{Score: 0, CollegeRank: 3, TotalInCollege: 3, Percentile: 33, DepartmentRank: 1, TotalInDepartment: 1},
			wantTopN: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(httpTest{
				method: http.MethodGet,
				path:   "/v1/researchers/" + tt.r.ID + "/ranking" + tt.query,
				token:  getToken(t, tt.r),
			})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var got ranking.Snapshot
			unmarshall(t, rec, &got)
			assert.Equal(t, tt.r.ID, got.ResearcherID)
			assert.Equal(t, tt.want.Score, got.Score)
			assert.Equal(t, tt.want.CollegeRank, got.CollegeRank)
			assert.Equal(t, tt.want.TotalInCollege, got.TotalInCollege)
			assert.Equal(t, tt.want.Percentile, got.Percentile)
			assert.Equal(t, tt.want.DepartmentRank, got.DepartmentRank)
			assert.Equal(t, tt.want.TotalInDepartment, got.TotalInDepartment)
			require.Len(t, got.Top3, 3)
			assert.Equal(t, f.ali.ID, got.Top3[0].ResearcherID)
			assert.Len(t, got.TopN, tt.wantTopN)
			assert.Len(t, got.Similar, 2)
			for _, s := range got.Similar {
				assert.NotEqual(t, tt.r.ID, s.ResearcherID)
			}
		})
	}

	runHTTPTests(t, []httpTest{
		{
			name:     "not ranked",
			method:   http.MethodGet,
			path:     "/v1/researchers/" + f.admin.ID + "/ranking",
			token:    getToken(t, f.admin),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: ranking.ErrNotInPopulation.Error()}),
		},
		{
			name:       "invalid limit",
			method:     http.MethodGet,
			path:       "/v1/researchers/" + f.ali.ID + "/ranking?limit=-1",
			token:      getToken(t, f.ali),
			wantCode:   http.StatusBadRequest,
			wantFields: []string{"limit"},
		},
	})
}

func Test_rankingApi_top(t *testing.T) {
	f := setUpPopulation(t)
	token := getToken(t, f.carol)

	entry := func(rank int, r researcher.Researcher, score float64) ranking.RankedEntry {
		return ranking.RankedEntry{Rank: rank, Standing: ranking.Standing{
			ResearcherID:  r.ID,
			NameAr:        r.NameAr,
			NameEn:        r.NameEn,
			College:       r.College,
			Department:    r.Department,
			AcademicTitle: r.AcademicTitle,
			Score:         score,
		}}
	}

	runHTTPTests(t, []httpTest{
		{
			name:     "default limit",
			method:   http.MethodGet,
			path:     "/v1/rankings/top",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []ranking.RankedEntry{entry(1, f.ali, 13), entry(2, f.bob, 2), entry(3, f.carol, 0)}),
		},
		{
			name:     "limit",
			method:   http.MethodGet,
			path:     "/v1/rankings/top?limit=2",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []ranking.RankedEntry{entry(1, f.ali, 13), entry(2, f.bob, 2)}),
		},
		{
			name:     "department",
			method:   http.MethodGet,
			path:     "/v1/rankings/top?department=Math",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []ranking.RankedEntry{entry(1, f.carol, 0)}),
		},
		{
			name:     "unknown department",
			method:   http.MethodGet,
			path:     "/v1/rankings/top?department=Art",
			token:    token,
			wantCode: http.StatusOK,
			wantData: []byte("[]"),
		},
		{
			name:       "invalid limit",
			method:     http.MethodGet,
			path:       "/v1/rankings/top?limit=-3",
			token:      token,
			wantCode:   http.StatusBadRequest,
			wantFields: []string{"limit"},
		},
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/v1/rankings/top",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
	})
}

func Test_rankingApi_top_collegeScope(t *testing.T) {
	f := setUpPopulation(t)
	eng := testutil.CreateResearcher(t, rRepo, "Eve", "eve@uni.edu", "Engineering", "CS", researcher.TitleLecturer, nil, true)
	testutil.CreateActivity(t, aRepo, eng.ID, testutil.Research("E", true, true, 2023, 10, activity.ClassScopus, activity.AuthorSingle))
	testutil.CreateActivity(t, aRepo, eng.ID, testutil.Research("F", true, true, 2023, 11, activity.ClassScopus, activity.AuthorSingle))
	noCollege := testutil.CreateResearcher(t, rRepo, "Nour", "nour@uni.edu", "", "", "", nil, true)

	ids := func(t *testing.T, path, token string) []string {
		rec := serve(httpTest{method: http.MethodGet, path: path, token: token})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got []ranking.RankedEntry
		unmarshall(t, rec, &got)
		res := make([]string, len(got))
		for i, e := range got {
			res[i] = e.ResearcherID
		}
		return res
	}

	aliToken := getToken(t, f.ali)
	assert.Equal(t, []string{f.ali.ID, f.bob.ID, f.carol.ID}, ids(t, "/v1/rankings/top", aliToken), "requester's college")
	assert.Equal(t, []string{f.ali.ID, f.bob.ID}, ids(t, "/v1/rankings/top?department=CS", aliToken))
	assert.Equal(t, []string{eng.ID}, ids(t, "/v1/rankings/top?college=Engineering&department=CS", aliToken))
	assert.Equal(t, []string{eng.ID}, ids(t, "/v1/rankings/top", getToken(t, eng)))

	// the department rank of /top matches the snapshot
	rec := serve(httpTest{method: http.MethodGet, path: "/v1/researchers/" + f.ali.ID + "/ranking", token: aliToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var snap ranking.Snapshot
	unmarshall(t, rec, &snap)
	assert.Equal(t, 1, snap.DepartmentRank)
	assert.Equal(t, 2, snap.TotalInDepartment)

	runHTTPTests(t, []httpTest{
		{
			name:       "department without college",
			method:     http.MethodGet,
			path:       "/v1/rankings/top?department=CS",
			token:      getToken(t, noCollege),
			wantCode:   http.StatusBadRequest,
			wantFields: []string{"college"},
		},
	})
}

func Test_rankingApi_criteria(t *testing.T) {
	f := setUpPopulation(t)
	token := getToken(t, f.bob)

	t.Run("all", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodGet, path: "/v1/rankings/criteria", token: token})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got []ranking.Leaderboard
		unmarshall(t, rec, &got)
		require.Len(t, got, len(ranking.Criteria))
		for i, lb := range got {
			assert.Equal(t, ranking.Criteria[i].Value, lb.Criterion)
			assert.Len(t, lb.Entries, 3)
		}
	})

	t.Run("conferences", func(t *testing.T) {
		rec := serve(httpTest{method: http.MethodGet, path: "/v1/rankings/criteria/conferences", token: token})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got ranking.Leaderboard
		unmarshall(t, rec, &got)
		assert.Equal(t, ranking.CriterionConferences, got.Criterion)
		require.Len(t, got.Entries, 3)
		assert.Equal(t, f.bob.ID, got.Entries[0].ResearcherID)
		assert.Equal(t, float64(1), got.Entries[0].Value)
		// ties broken by total score
		assert.Equal(t, f.ali.ID, got.Entries[1].ResearcherID)
		assert.Equal(t, f.carol.ID, got.Entries[2].ResearcherID)
	})

	runHTTPTests(t, []httpTest{
		{
			name:     "unknown criterion",
			method:   http.MethodGet,
			path:     "/v1/rankings/criteria/charisma",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: ranking.ErrUnknownCriterion.Error()}),
		},
	})
}

func Test_rankingApi_weights(t *testing.T) {
	f := setUpPopulation(t)
	token := getToken(t, f.bob)

	rec := serve(httpTest{method: http.MethodGet, path: "/v1/points/weights", token: token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var table points.Table
	unmarshall(t, rec, &table)
	assert.NotEmpty(t, table.Rules)

	runHTTPTests(t, []httpTest{
		{
			name:     "kinds",
			method:   http.MethodGet,
			path:     "/v1/points/kinds",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, activity.Kinds),
		},
	})
}
