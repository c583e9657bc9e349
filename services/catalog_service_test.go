package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagravi04/unimatch-finder/database"
	"github.com/jagravi04/unimatch-finder/eligibility"
	"github.com/jagravi04/unimatch-finder/model"
)

var errCacheMiss = errors.New("cache miss")

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	writes  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.entries[key]
	if !ok {
		return errCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	f.writes++
	return nil
}

func (f *fakeCache) DeletePattern(_ context.Context, pattern string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	deleted := 0
	for k := range f.entries {
		if strings.HasPrefix(k, prefix) {
			delete(f.entries, k)
			deleted++
		}
	}
	return deleted, nil
}

// countingRepo records how often the catalog is read
type countingRepo struct {
	database.UniversityRepository
	lists int
}

func (r *countingRepo) List(ctx context.Context, c eligibility.Criteria) ([]model.University, error) {
	r.lists++
	return r.UniversityRepository.List(ctx, c)
}

func TestCatalogServiceSearch(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(database.NewMemoryUniversityRepository(database.SeedCatalog()), nil, time.Minute)

	t.Run("no scores leaves every row unknown", func(t *testing.T) {
		got, err := svc.Search(ctx, eligibility.Criteria{Country: "Canada"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "University of Toronto", got[0].Name)
		for _, row := range got {
			assert.Equal(t, eligibility.Unknown, row.Eligibility)
		}
	})

	t.Run("scores produce a verdict per row", func(t *testing.T) {
		got, err := svc.Search(ctx, eligibility.Criteria{
			Country:   "Canada",
			UserGPA:   eligibility.Float(3.3),
			UserIELTS: eligibility.Float(7),
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, eligibility.Ineligible, got[0].Eligibility)
		assert.Equal(t, eligibility.Eligible, got[1].Eligibility)
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		got, err := svc.Search(ctx, eligibility.Criteria{Country: "France"})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestCatalogServiceCache(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{UniversityRepository: database.NewMemoryUniversityRepository(database.SeedCatalog())}
	cache := newFakeCache()
	svc := NewCatalogService(repo, cache, time.Minute)

	first, err := svc.Search(ctx, eligibility.Criteria{Country: "USA"})
	require.NoError(t, err)
	assert.Equal(t, eligibility.Unknown, first[0].Eligibility)

	// Different scores share the cached list but get a fresh verdict
	second, err := svc.Search(ctx, eligibility.Criteria{Country: "USA", UserGPA: eligibility.Float(4), UserIELTS: eligibility.Float(8)})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists)
	require.Len(t, second, 2)
	assert.Equal(t, eligibility.Eligible, second[0].Eligibility)

	deleted, err := svc.Invalidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = svc.Search(ctx, eligibility.Criteria{Country: "USA"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lists)
}

func TestCatalogServiceCompare(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(database.NewMemoryUniversityRepository(database.SeedCatalog()), nil, time.Minute)
	harvard := database.SeedUniversityID("Harvard University")
	mit := database.SeedUniversityID("MIT")
	eth := database.SeedUniversityID("ETH Zurich")
	ubc := database.SeedUniversityID("University of British Columbia")

	t.Run("keeps selection order", func(t *testing.T) {
		got, err := svc.Compare(ctx, []string{eth, harvard})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "ETH Zurich", got[0].Name)
		assert.Equal(t, "Harvard University", got[1].Name)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		got, err := svc.Compare(ctx, []string{mit, mit, harvard, mit, eth})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("more than three is rejected", func(t *testing.T) {
		_, err := svc.Compare(ctx, []string{mit, harvard, eth, ubc})
		assert.ErrorIs(t, err, ErrTooManyToCompare)
	})
}

func TestCatalogServiceOptions(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	svc := NewCatalogService(database.NewMemoryUniversityRepository(database.SeedCatalog()), cache, time.Minute)

	opts, err := svc.Options(ctx)
	require.NoError(t, err)
	assert.Contains(t, opts.Countries, "Switzerland")
	assert.ElementsMatch(t, []string{"Bachelor's", "Master's", "PhD"}, opts.DegreeLevels)
	assert.Equal(t, 1, cache.writes)

	_, err = svc.Options(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.writes)
}

func TestIsNotFound(t *testing.T) {
	svc := NewCatalogService(database.NewMemoryUniversityRepository(nil), nil, time.Minute)
	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}
