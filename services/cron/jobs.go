package cron

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/jagravi04/unimatch-finder/model"
)

// StaleAfter is how long an application may stay pending before it is reported
const StaleAfter = 7 * 24 * time.Hour

// InvalidateCatalogCache drops cached catalog lists so edits show up
func (m *CronManager) InvalidateCatalogCache(ctx context.Context) (string, error) {
	if m.deps.Catalog == nil {
		return "No catalog cache configured", nil
	}
	deleted, err := m.deps.Catalog.Invalidate(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return fmt.Sprintf("Deleted %d cached catalog entries", deleted), nil
}

// ReportStaleApplications counts applications pending for longer than StaleAfter
func (m *CronManager) ReportStaleApplications(ctx context.Context) (string, error) {
	cutoff := m.now().Add(-StaleAfter)
	count, err := m.deps.Applications.CountPendingBefore(ctx, cutoff)
	if err != nil {
		return "", fmt.Errorf("failed to count pending applications: %w", err)
	}
	if count > 0 {
		log.Warnf("[CRON] %d applications pending since before %s", count, cutoff.Format(time.RFC3339))
	}
	return fmt.Sprintf("%d applications pending for more than %s", count, StaleAfter), nil
}

// ExportApplications uploads the previous day's applications as JSON lines
func (m *CronManager) ExportApplications(ctx context.Context) (string, error) {
	if m.deps.Uploader == nil {
		return "Skipped: export storage not configured", nil
	}

	from, to := previousDay(m.now())
	applications, err := m.deps.Applications.ListCreatedBetween(ctx, from, to)
	if err != nil {
		return "", fmt.Errorf("failed to list applications: %w", err)
	}
	if len(applications) == 0 {
		return fmt.Sprintf("No applications on %s", from.Format(time.DateOnly)), nil
	}

	data, err := encodeJSONLines(applications)
	if err != nil {
		return "", err
	}

	location, err := m.deps.Uploader.UploadBytes(ctx, ExportKey(from), data, "application/x-ndjson")
	if err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}
	return fmt.Sprintf("Exported %d applications to %s", len(applications), location), nil
}

// ExportKey is the object key of the export for day
func ExportKey(day time.Time) string {
	return fmt.Sprintf("exports/applications/%s.jsonl", day.Format(time.DateOnly))
}

// previousDay returns [start of yesterday, start of today) in now's location
func previousDay(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -1), today
}

func encodeJSONLines(applications []model.Application) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range applications {
		if err := enc.Encode(applications[i]); err != nil {
			return nil, fmt.Errorf("failed to encode application %s: %w", applications[i].ID, err)
		}
	}
	return buf.Bytes(), nil
}
