package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// captureDB builds a DryRun gorm handle that records the SQL of every query
// finisher without touching a database.
func captureDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()

	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	assert.NoError(t, err)

	var queries []string
	err = db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		queries = append(queries, tx.Statement.SQL.String())
	})
	assert.NoError(t, err)
	return db, &queries
}

func TestTitleList_FindSelectsFullRows(t *testing.T) {
	db, queries := captureDB(t)
	repo := NewTitleRepository(db)

	_, _, err := repo.List(t.Context(), TitleFilter{}, 10, 0)

	assert.NoError(t, err)
	if assert.Len(t, *queries, 2) {
		countSQL := (*queries)[0]
		findSQL := (*queries)[1]

		assert.Contains(t, countSQL, "COUNT")
		// the row query must not inherit the count's narrowed select
		assert.NotContains(t, findSQL, "DISTINCT")
		assert.True(t, strings.HasPrefix(findSQL, "SELECT *"), "row query select: %s", findSQL)
		assert.Contains(t, findSQL, "ORDER BY titles.name asc")
		assert.Contains(t, findSQL, "LIMIT")
	}
}

func TestTitleList_GenreJoinGroupsRows(t *testing.T) {
	db, queries := captureDB(t)
	repo := NewTitleRepository(db)

	_, _, err := repo.List(t.Context(), TitleFilter{GenreSlug: "drama"}, 10, 0)

	assert.NoError(t, err)
	if assert.Len(t, *queries, 2) {
		findSQL := (*queries)[1]

		assert.Contains(t, findSQL, "JOIN genres")
		assert.Contains(t, findSQL, "GROUP BY")
		assert.NotContains(t, findSQL, "DISTINCT")
		assert.True(t, strings.HasPrefix(findSQL, "SELECT *"), "row query select: %s", findSQL)
	}
}

func TestTitleList_FiltersCompose(t *testing.T) {
	db, queries := captureDB(t)
	repo := NewTitleRepository(db)

	year := 1995
	_, _, err := repo.List(t.Context(), TitleFilter{CategorySlug: "movie", Name: "heat", Year: &year}, 10, 0)

	assert.NoError(t, err)
	if assert.Len(t, *queries, 2) {
		findSQL := (*queries)[1]

		assert.Contains(t, findSQL, "JOIN categories")
		assert.Contains(t, findSQL, "ILIKE")
		assert.Contains(t, findSQL, "titles.year =")
	}
}
