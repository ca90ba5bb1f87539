package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/academia/scipoints/core/researcher"
)

// Similarity weights, summing to 100.
const (
	departmentWeight = 40
	titleWeight      = 30
	scoreWeight      = 30
)

type SimilarEntry struct {
	Standing
	Similarity float64 `json:"similarity"`
}

// Similarity compares two researchers on a [0,100] scale; it is symmetric.
//
//	40 * department name similarity (difflib quick ratio, 1 for identical names)
//	30 * academic title proximity (1 - |rank difference| / highest title rank)
//	30 * score proximity (1 - |a-b| / max(a,b), 1 when both are 0)
func Similarity(a, b Standing) float64 {
	sim := departmentWeight*departmentSimilarity(a.Department, b.Department) +
		titleWeight*titleProximity(a.AcademicTitle, b.AcademicTitle) +
		scoreWeight*scoreProximity(a.Score, b.Score)
	return math.Round(math.Max(0, math.Min(100, sim))*100) / 100
}

func departmentSimilarity(a, b string) float64 {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.QuickRatio()
}

func titleProximity(a, b string) float64 {
	diff := math.Abs(float64(researcher.TitleRank(a) - researcher.TitleRank(b)))
	return 1 - diff/float64(researcher.MaxTitleRank())
}

func scoreProximity(a, b float64) float64 {
	hi := math.Max(a, b)
	if hi <= 0 {
		return 1
	}
	return math.Max(0, 1-math.Abs(a-b)/hi)
}

// MostSimilar returns the n standings closest to target (target excluded), most similar first.
func MostSimilar(standings []Standing, target Standing, n int) []SimilarEntry {
	res := make([]SimilarEntry, 0, len(standings))
	for _, s := range standings {
		if s.ResearcherID == target.ResearcherID {
			continue
		}
		res = append(res, SimilarEntry{Standing: s, Similarity: Similarity(target, s)})
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Similarity != res[j].Similarity {
			return res[i].Similarity > res[j].Similarity
		}
		return res[i].ResearcherID < res[j].ResearcherID
	})
	if n >= 0 && n < len(res) {
		res = res[:n]
	}
	return res
}
