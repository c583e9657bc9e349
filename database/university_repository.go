package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jagravi04/unimatch-finder/eligibility"
	"github.com/jagravi04/unimatch-finder/model"
	"gorm.io/gorm"
)

// ErrUniversityNotFound is returned when no university has the requested id
var ErrUniversityNotFound = errors.New("university not found")

// UniversityRepository is the read side of the catalog
type UniversityRepository interface {
	// List returns universities matching c, ranked first by ranking, unranked last
	List(ctx context.Context, c eligibility.Criteria) ([]model.University, error)
	GetByID(ctx context.Context, id string) (*model.University, error)
	// GetByIDs returns the universities that exist, in the order of ids
	GetByIDs(ctx context.Context, ids []string) ([]model.University, error)
	Options(ctx context.Context) (*CatalogOptions, error)
}

// CatalogOptions are the distinct values the filter dropdowns offer
type CatalogOptions struct {
	Countries    []string `json:"countries"`
	DegreeLevels []string `json:"degree_levels"`
}

type universityRepository struct {
	db *gorm.DB
}

// NewUniversityRepository creates a GORM backed catalog repository
func NewUniversityRepository(db *gorm.DB) UniversityRepository {
	return &universityRepository{db: db}
}

// criteriaScope translates the filter axes into WHERE clauses.
// It mirrors eligibility.Matches so the database and in-memory filters agree.
func criteriaScope(c eligibility.Criteria) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if c.Country != "" && c.Country != eligibility.All {
			db = db.Where("country = ?", c.Country)
		}
		if c.DegreeLevel != "" && c.DegreeLevel != eligibility.All {
			db = db.Where("degree_level = ?", c.DegreeLevel)
		}
		if c.MinTuition != nil {
			db = db.Where("tuition_fee >= ?", *c.MinTuition)
		}
		if c.MaxTuition != nil {
			db = db.Where("tuition_fee <= ?", *c.MaxTuition)
		}
		return db
	}
}

// rankingOrder sorts like eligibility.SortByRanking: non-positive rankings count as unranked
func rankingOrder(db *gorm.DB) *gorm.DB {
	return db.Order("CASE WHEN ranking > 0 THEN ranking END ASC NULLS LAST").Order("name ASC")
}

func (r *universityRepository) List(ctx context.Context, c eligibility.Criteria) ([]model.University, error) {
	var universities []model.University
	err := r.db.WithContext(ctx).
		Scopes(criteriaScope(c), rankingOrder).
		Find(&universities).Error
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	return universities, nil
}

func (r *universityRepository) GetByID(ctx context.Context, id string) (*model.University, error) {
	// A malformed id can never match a uuid primary key
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUniversityNotFound
	}

	var university model.University
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&university).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUniversityNotFound
		}
		return nil, fmt.Errorf("get university %s: %w", id, err)
	}
	return &university, nil
}

func (r *universityRepository) GetByIDs(ctx context.Context, ids []string) ([]model.University, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []model.University{}, nil
	}

	var found []model.University
	if err := r.db.WithContext(ctx).Where("id IN ?", valid).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("get universities: %w", err)
	}

	byID := make(map[string]model.University, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	ordered := make([]model.University, 0, len(found))
	for _, id := range valid {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered, nil
}

func (r *universityRepository) Options(ctx context.Context) (*CatalogOptions, error) {
	opts := &CatalogOptions{}
	db := r.db.WithContext(ctx).Model(&model.University{})
	if err := db.Distinct().Order("country").Pluck("country", &opts.Countries).Error; err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	db = r.db.WithContext(ctx).Model(&model.University{})
	if err := db.Distinct().Order("degree_level").Pluck("degree_level", &opts.DegreeLevels).Error; err != nil {
		return nil, fmt.Errorf("list degree levels: %w", err)
	}
	return opts, nil
}
