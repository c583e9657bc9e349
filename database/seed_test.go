package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jagravi04/unimatch-finder/eligibility"
)

func TestSeedCatalog(t *testing.T) {
	catalog := SeedCatalog()
	assert.Len(t, catalog, 8)

	seen := map[string]bool{}
	for _, u := range catalog {
		_, err := uuid.Parse(u.ID)
		assert.NoError(t, err, u.Name)
		assert.False(t, seen[u.ID], "duplicate id for %s", u.Name)
		seen[u.ID] = true

		assert.GreaterOrEqual(t, u.TuitionFee, 0.0)
		assert.LessOrEqual(t, u.MinGPA, 4.0)
		assert.LessOrEqual(t, u.MinIELTS, 9.0)
	}
}

func TestSeedUniversityIDIsStable(t *testing.T) {
	assert.Equal(t, SeedUniversityID("MIT"), SeedUniversityID("MIT"))
	assert.NotEqual(t, SeedUniversityID("MIT"), SeedUniversityID("ETH Zurich"))
}

func TestSeedCatalogDefaultSearch(t *testing.T) {
	got := eligibility.Filter(SeedCatalog(), eligibility.Criteria{Country: "Canada"})
	assert.Len(t, got, 2)

	eligibility.SortByRanking(got)
	assert.Equal(t, "University of Toronto", got[0].Name)
}
