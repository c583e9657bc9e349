package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/jagravi04/unimatch-finder/database"
	"github.com/jagravi04/unimatch-finder/eligibility"
	"github.com/jagravi04/unimatch-finder/model"
)

// ErrTooManyToCompare is returned when more universities are requested than fit side by side
var ErrTooManyToCompare = fmt.Errorf("at most %d universities can be compared", eligibility.MaxCompare)

const catalogKeyPrefix = "catalog:"

// CatalogCache is the subset of the Redis cache the catalog needs
type CatalogCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

// CatalogService answers catalog searches, caching the filtered list per criteria.
// Eligibility is never cached: it is recomputed from the request scores every time.
type CatalogService struct {
	repo  database.UniversityRepository
	cache CatalogCache
	ttl   time.Duration
}

// NewCatalogService creates a catalog service; cache may be nil
func NewCatalogService(repo database.UniversityRepository, cache CatalogCache, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, ttl: ttl}
}

// Search returns the universities matching c, ranked, each with its eligibility verdict
func (s *CatalogService) Search(ctx context.Context, c eligibility.Criteria) ([]eligibility.Evaluated, error) {
	universities, err := s.list(ctx, c)
	if err != nil {
		return nil, err
	}
	return eligibility.EvaluateAll(universities, c), nil
}

func (s *CatalogService) list(ctx context.Context, c eligibility.Criteria) ([]model.University, error) {
	key := catalogKey(c)

	if s.cache != nil {
		var cached []model.University
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	universities, err := s.repo.List(ctx, c)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, universities, s.ttl); err != nil {
			log.Warnf("catalog cache write failed for %s: %v", key, err)
		}
	}
	return universities, nil
}

// Get returns one university
func (s *CatalogService) Get(ctx context.Context, id string) (*model.University, error) {
	return s.repo.GetByID(ctx, id)
}

// Compare returns the requested universities in selection order.
// Duplicate ids collapse; unknown ids are skipped.
func (s *CatalogService) Compare(ctx context.Context, ids []string) ([]model.University, error) {
	var selection eligibility.Selection
	for _, id := range ids {
		if selection.Contains(id) {
			continue
		}
		if selection.IsFull() {
			return nil, ErrTooManyToCompare
		}
		selection = selection.Toggle(id)
	}
	return s.repo.GetByIDs(ctx, selection.IDs())
}

// Options returns the distinct filter values of the catalog
func (s *CatalogService) Options(ctx context.Context) (*database.CatalogOptions, error) {
	key := catalogKeyPrefix + "options"
	if s.cache != nil {
		var cached database.CatalogOptions
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	opts, err := s.repo.Options(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, opts, s.ttl); err != nil {
			log.Warnf("catalog cache write failed for %s: %v", key, err)
		}
	}
	return opts, nil
}

// Invalidate drops every cached catalog entry
func (s *CatalogService) Invalidate(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.DeletePattern(ctx, catalogKeyPrefix+"*")
}

// IsNotFound reports whether err means the university does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, database.ErrUniversityNotFound)
}

// catalogKey normalizes the filter axes; scores are excluded on purpose
func catalogKey(c eligibility.Criteria) string {
	country := c.Country
	if country == "" {
		country = eligibility.All
	}
	degree := c.DegreeLevel
	if degree == "" {
		degree = eligibility.All
	}
	return fmt.Sprintf("%slist:%s:%s:%s:%s", catalogKeyPrefix, country, degree, bound(c.MinTuition), bound(c.MaxTuition))
}

func bound(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
