package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jagravi04/unimatch-finder/model"
)

func rank(v int) *int {
	return &v
}

func catalog() []model.University {
	return []model.University{
		{ID: "1", Name: "Harvard University", Country: "USA", DegreeLevel: "Bachelor's", TuitionFee: 54000, MinGPA: 3.9, MinIELTS: 7.5, Ranking: rank(1)},
		{ID: "2", Name: "University of Oxford", Country: "UK", DegreeLevel: "Master's", TuitionFee: 38000, MinGPA: 3.7, MinIELTS: 7.0, Ranking: rank(2)},
		{ID: "3", Name: "University of Toronto", Country: "Canada", DegreeLevel: "Bachelor's", TuitionFee: 45000, MinGPA: 3.5, MinIELTS: 6.5, Ranking: rank(18)},
		{ID: "4", Name: "Technical University of Munich", Country: "Germany", DegreeLevel: "Master's", TuitionFee: 12000, MinGPA: 3.3, MinIELTS: 6.5, Ranking: rank(30)},
		{ID: "6", Name: "ETH Zurich", Country: "Switzerland", DegreeLevel: "PhD", TuitionFee: 8000, MinGPA: 3.8, MinIELTS: 7.0, Ranking: rank(7)},
		{ID: "9", Name: "Unranked College", Country: "USA", DegreeLevel: "Bachelor's", TuitionFee: 4000, MinGPA: 2.5, MinIELTS: 5.5},
	}
}

func ids(us []model.University) []string {
	out := make([]string, len(us))
	for i, u := range us {
		out[i] = u.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"zero criteria matches everything", Criteria{}, []string{"1", "2", "3", "4", "6", "9"}},
		{"defaults drop tuition below 5000", DefaultCriteria(), []string{"1", "2", "3", "4", "6"}},
		{"country only", Criteria{Country: "USA"}, []string{"1", "9"}},
		{"country all", Criteria{Country: All}, []string{"1", "2", "3", "4", "6", "9"}},
		{"degree only", Criteria{DegreeLevel: "Master's"}, []string{"2", "4"}},
		{"country is exact match", Criteria{Country: "usa"}, []string{}},
		{"inclusive lower bound", Criteria{MinTuition: Float(45000)}, []string{"1", "3"}},
		{"inclusive upper bound", Criteria{MaxTuition: Float(12000)}, []string{"4", "6", "9"}},
		{"combined axes", Criteria{Country: "USA", DegreeLevel: "Bachelor's", MinTuition: Float(5000), MaxTuition: Float(60000)}, []string{"1"}},
		{"inverted bounds match nothing", Criteria{MinTuition: Float(50000), MaxTuition: Float(10000)}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(catalog(), tt.criteria)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterIsPure(t *testing.T) {
	input := catalog()
	c := Criteria{Country: "USA"}

	first := Filter(input, c)
	second := Filter(input, c)

	assert.Equal(t, first, second)
	assert.Equal(t, catalog(), input, "input must not be mutated")
}

func TestMatchesAxesIndependently(t *testing.T) {
	u := catalog()[2] // Toronto, Canada, Bachelor's, 45000

	assert.True(t, Matches(u, Criteria{Country: "Canada"}))
	assert.False(t, Matches(u, Criteria{Country: "Canada", DegreeLevel: "PhD"}))
	assert.False(t, Matches(u, Criteria{Country: "Canada", MaxTuition: Float(44999)}))
	assert.True(t, Matches(u, Criteria{Country: "Canada", MinTuition: Float(45000), MaxTuition: Float(45000)}))
}

func TestSortByRanking(t *testing.T) {
	us := []model.University{
		{ID: "a"},
		{ID: "b", Ranking: rank(30)},
		{ID: "c", Ranking: rank(2)},
		{ID: "d"},
		{ID: "e", Ranking: rank(2)},
	}

	SortByRanking(us)

	assert.Equal(t, []string{"c", "e", "b", "a", "d"}, ids(us))
}

func TestSortByRankingNonPositiveIsUnranked(t *testing.T) {
	us := []model.University{
		{ID: "zero", Ranking: rank(0)},
		{ID: "ten", Ranking: rank(10)},
		{ID: "negative", Ranking: rank(-1)},
		{ID: "one", Ranking: rank(1)},
	}

	SortByRanking(us)

	assert.Equal(t, []string{"one", "ten", "zero", "negative"}, ids(us))
}
