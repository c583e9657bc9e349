package cron

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/jagravi04/unimatch-finder/database"
	"github.com/jagravi04/unimatch-finder/model"
)

// Job names as recorded in cron_job_logs
const (
	JobInvalidateCatalogCache  = "invalidate_catalog_cache"
	JobReportStaleApplications = "report_stale_applications"
	JobExportApplications      = "export_applications"
)

// CatalogInvalidator drops cached catalog entries
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) (int, error)
}

// Uploader stores an export object and returns its location
type Uploader interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Dependencies wires the jobs. DB and Uploader are optional: without DB runs
// are only logged, without Uploader the export job is skipped.
type Dependencies struct {
	DB           *gorm.DB
	Catalog      CatalogInvalidator
	Applications database.ApplicationRepository
	Uploader     Uploader
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	deps Dependencies
	now  func() time.Time
}

// NewCronManager creates a new cron manager
func NewCronManager(deps Dependencies) *CronManager {
	return &CronManager{
		cron: cron.New(cron.WithSeconds()),
		deps: deps,
		now:  time.Now,
	}
}

// Start registers the jobs and starts the scheduler
func (m *CronManager) Start() error {
	log.Info("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}
	m.cron.Start()

	log.Info("Cron jobs started successfully")
	return nil
}

// Stop waits for running jobs to finish
func (m *CronManager) Stop() {
	log.Info("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Info("Cron jobs stopped")
}

func (m *CronManager) registerJobs() error {
	// Every 10 minutes: pick up catalog edits made directly in the database
	if _, err := m.cron.AddFunc("0 */10 * * * *", func() {
		m.run(JobInvalidateCatalogCache, time.Minute, m.InvalidateCatalogCache)
	}); err != nil {
		return err
	}

	// Hourly: surface applications nobody has reviewed
	if _, err := m.cron.AddFunc("0 0 * * * *", func() {
		m.run(JobReportStaleApplications, time.Minute, m.ReportStaleApplications)
	}); err != nil {
		return err
	}

	// Daily at 2 AM: export yesterday's applications
	if _, err := m.cron.AddFunc("0 0 2 * * *", func() {
		m.run(JobExportApplications, 10*time.Minute, m.ExportApplications)
	}); err != nil {
		return err
	}

	log.Info("All cron jobs registered successfully")
	return nil
}

// run executes job with a timeout and records the outcome
func (m *CronManager) run(jobName string, timeout time.Duration, job func(ctx context.Context) (string, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	id := m.logJobStart(jobName)
	message, err := job(ctx)
	if err != nil {
		m.logJobError(id, jobName, err)
		return
	}
	m.logJobComplete(id, jobName, message)
}

func (m *CronManager) logJobStart(jobName string) uint {
	log.Infof("[CRON] Starting job: %s at %s", jobName, m.now().Format(time.RFC3339))
	if m.deps.DB == nil {
		return 0
	}

	cronLog := model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: m.now(),
	}
	if err := m.deps.DB.Create(&cronLog).Error; err != nil {
		log.Warnf("[CRON] Could not record start of %s: %v", jobName, err)
		return 0
	}
	return cronLog.ID
}

func (m *CronManager) logJobComplete(id uint, jobName string, message string) {
	log.Infof("[CRON] Completed job: %s - %s", jobName, message)
	m.finish(id, map[string]interface{}{
		"status":       "completed",
		"completed_at": m.now(),
		"message":      message,
	})
}

func (m *CronManager) logJobError(id uint, jobName string, err error) {
	log.Errorf("[CRON] Error in job: %s - %v", jobName, err)
	m.finish(id, map[string]interface{}{
		"status":       "failed",
		"completed_at": m.now(),
		"error_msg":    err.Error(),
	})
}

func (m *CronManager) finish(id uint, updates map[string]interface{}) {
	if m.deps.DB == nil || id == 0 {
		return
	}
	if err := m.deps.DB.Model(&model.CronJobLog{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		log.Warnf("[CRON] Could not record outcome of run %d: %v", id, err)
	}
}
