package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jagravi04/unimatch-finder/eligibility"
	"github.com/jagravi04/unimatch-finder/model"
)

// dryRunDB renders SQL without a server
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=unimatch dbname=unimatch sslmode=disable",
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestListQueryTreatsNonPositiveRankingAsUnranked(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []model.University
		return tx.Scopes(criteriaScope(eligibility.Criteria{Country: "USA"}), rankingOrder).Find(&out)
	})

	assert.Contains(t, sql, `country = 'USA'`)
	assert.Contains(t, sql, "ORDER BY CASE WHEN ranking > 0 THEN ranking END ASC NULLS LAST,name ASC")
}
