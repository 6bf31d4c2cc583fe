package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/database"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// Event row kinds mirrored from the timed logs.
const (
	eventKindDominance = "dominance"
	eventKindIntensity = "intensity"
)

// SaveResult persists a finalized result and, for the timed methods, the
// normalized event rows mirroring its logs, all in a single transaction.
// The caller retries the whole call on failure; nothing is half-written.
func SaveResult(ctx context.Context, r *models.Result) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r).Error; err != nil {
			return err
		}

		insert := `INSERT INTO result_events (result_id, sample_code, kind, attribute_id, value, at_seconds) VALUES (?, ?, ?, ?, ?, ?)`

		for code, log := range r.DominanceLogs {
			for _, e := range log {
				if e.ID == models.MarkerStart || e.ID == models.MarkerEnd {
					continue
				}
				if err := tx.Exec(insert, r.ID, code, eventKindDominance, e.ID, 0, e.At).Error; err != nil {
					return err
				}
			}
		}
		for code, log := range r.IntensityLogs {
			for _, e := range log {
				if err := tx.Exec(insert, r.ID, code, eventKindIntensity, e.AttributeID, e.Value, e.At).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ListResults returns every submitted result for a test, oldest first.
func ListResults(ctx context.Context, testID uint) ([]models.Result, error) {
	var results []models.Result
	err := database.DB.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("submitted_at").
		Find(&results).Error
	return results, err
}

// DeleteResultsByTest drops every result (and event row) of one test.
func DeleteResultsByTest(ctx context.Context, testID uint) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM result_events WHERE result_id IN (SELECT id FROM results WHERE test_id = ?)`, testID,
		).Error; err != nil {
			return err
		}
		return tx.Where("test_id = ?", testID).Delete(&models.Result{}).Error
	})
}
