package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jagravi04/unimatch-finder/eligibility"
	"github.com/jagravi04/unimatch-finder/model"
)

var (
	_ UniversityRepository  = (*MemoryUniversityRepository)(nil)
	_ ApplicationRepository = (*MemoryApplicationRepository)(nil)
)

// MemoryUniversityRepository serves a fixed catalog from memory.
// It applies the same eligibility rules the SQL repository encodes.
type MemoryUniversityRepository struct {
	universities []model.University
}

// NewMemoryUniversityRepository copies universities into a new in-memory catalog
func NewMemoryUniversityRepository(universities []model.University) *MemoryUniversityRepository {
	copied := make([]model.University, len(universities))
	copy(copied, universities)
	return &MemoryUniversityRepository{universities: copied}
}

func (r *MemoryUniversityRepository) List(_ context.Context, c eligibility.Criteria) ([]model.University, error) {
	out := eligibility.Filter(r.universities, c)
	eligibility.SortByRanking(out)
	return out, nil
}

func (r *MemoryUniversityRepository) GetByID(_ context.Context, id string) (*model.University, error) {
	for _, u := range r.universities {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, ErrUniversityNotFound
}

func (r *MemoryUniversityRepository) GetByIDs(ctx context.Context, ids []string) ([]model.University, error) {
	out := make([]model.University, 0, len(ids))
	for _, id := range ids {
		if u, err := r.GetByID(ctx, id); err == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *MemoryUniversityRepository) Options(_ context.Context) (*CatalogOptions, error) {
	countries := map[string]bool{}
	degrees := map[string]bool{}
	for _, u := range r.universities {
		countries[u.Country] = true
		degrees[u.DegreeLevel] = true
	}
	return &CatalogOptions{Countries: sortedKeys(countries), DegreeLevels: sortedKeys(degrees)}, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MemoryApplicationRepository keeps applications in a slice, safe for concurrent use
type MemoryApplicationRepository struct {
	mu           sync.Mutex
	applications []model.Application
	now          func() time.Time
}

func NewMemoryApplicationRepository() *MemoryApplicationRepository {
	return &MemoryApplicationRepository{now: time.Now}
}

func (r *MemoryApplicationRepository) Create(_ context.Context, application *model.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if application.ID == "" {
		application.ID = uuid.NewString()
	}
	if application.CreatedAt.IsZero() {
		application.CreatedAt = r.now()
	}
	r.applications = append(r.applications, *application)
	return nil
}

func (r *MemoryApplicationRepository) CountPendingBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, a := range r.applications {
		if a.Status == model.ApplicationStatusPending && a.CreatedAt.Before(before) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryApplicationRepository) ListCreatedBetween(_ context.Context, from, to time.Time) ([]model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.Application{}
	for _, a := range r.applications {
		if !a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

// All returns a copy of every stored application
func (r *MemoryApplicationRepository) All() []model.Application {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Application, len(r.applications))
	copy(out, r.applications)
	return out
}
