package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jagravi04/unimatch-finder/model"
	"gorm.io/gorm"
)

// ApplicationRepository is append-only: applications are created here and
// read back only by the reporting jobs
type ApplicationRepository interface {
	Create(ctx context.Context, application *model.Application) error
	CountPendingBefore(ctx context.Context, before time.Time) (int64, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a GORM backed application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *model.Application) error {
	if err := r.db.WithContext(ctx).Create(application).Error; err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *applicationRepository) CountPendingBefore(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("status = ? AND created_at < ?", model.ApplicationStatusPending, before).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count pending applications: %w", err)
	}
	return count, nil
}

func (r *applicationRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Application, error) {
	var applications []model.Application
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&applications).Error
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return applications, nil
}
