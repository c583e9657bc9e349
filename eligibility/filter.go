package eligibility

import (
	"sort"

	"github.com/jagravi04/unimatch-finder/model"
)

// All is the criteria value that disables the country or degree level axis
const All = "all"

const (
	DefaultMinTuition = 5000
	DefaultMaxTuition = 60000
)

// Criteria narrows the catalog. Nil bounds and scores mean "not constrained".
type Criteria struct {
	Country     string   `json:"country,omitempty"`
	DegreeLevel string   `json:"degree_level,omitempty"`
	MinTuition  *float64 `json:"min_tuition,omitempty"`
	MaxTuition  *float64 `json:"max_tuition,omitempty"`
	UserGPA     *float64 `json:"user_gpa,omitempty"`
	UserIELTS   *float64 `json:"user_ielts,omitempty"`
}

// DefaultCriteria returns the criteria a fresh search starts with
func DefaultCriteria() Criteria {
	return Criteria{
		Country:     All,
		DegreeLevel: All,
		MinTuition:  Float(DefaultMinTuition),
		MaxTuition:  Float(DefaultMaxTuition),
	}
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

func matchesExact(want, got string) bool {
	return want == "" || want == All || want == got
}

// Matches reports whether u passes every axis of c.
// A min bound above the max bound is not an error, it simply matches nothing.
func Matches(u model.University, c Criteria) bool {
	if !matchesExact(c.Country, u.Country) {
		return false
	}
	if !matchesExact(c.DegreeLevel, u.DegreeLevel) {
		return false
	}
	if c.MinTuition != nil && u.TuitionFee < *c.MinTuition {
		return false
	}
	if c.MaxTuition != nil && u.TuitionFee > *c.MaxTuition {
		return false
	}
	return true
}

// Filter returns the universities matching c, preserving input order
func Filter(universities []model.University, c Criteria) []model.University {
	out := make([]model.University, 0, len(universities))
	for _, u := range universities {
		if Matches(u, c) {
			out = append(out, u)
		}
	}
	return out
}

// SortByRanking orders universities by ranking ascending with unranked entries last.
// The sort is stable, so ties and unranked entries keep their relative order.
func SortByRanking(universities []model.University) {
	sort.SliceStable(universities, func(i, j int) bool {
		a, b := universities[i], universities[j]
		switch {
		case a.IsRanked() && b.IsRanked():
			return *a.Ranking < *b.Ranking
		case a.IsRanked():
			return true
		default:
			return false
		}
	})
}
