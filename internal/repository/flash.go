package repository

import (
	"context"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/database"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// The Flash Profile vocabulary is the only session state that outlives a
// run. It is read at collector initialization and written on every add or
// remove.

// GetVocabulary returns a test's vocabulary in insertion order.
func GetVocabulary(ctx context.Context, testID uint) ([]string, error) {
	var labels []string
	err := database.DB.WithContext(ctx).
		Model(&models.FlashAttribute{}).
		Where("test_id = ?", testID).
		Order("created_at").
		Pluck("label", &labels).Error
	return labels, err
}

// AddVocabularyWord inserts a word, quietly keeping an existing one.
func AddVocabularyWord(ctx context.Context, testID uint, label string) error {
	query := `INSERT INTO flash_attributes (test_id, label, created_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (test_id, label) DO NOTHING;`
	return database.DB.WithContext(ctx).Exec(query, testID, label).Error
}

// RemoveVocabularyWord deletes a word from a test's vocabulary.
func RemoveVocabularyWord(ctx context.Context, testID uint, label string) error {
	return database.DB.WithContext(ctx).
		Where("test_id = ? AND label = ?", testID, label).
		Delete(&models.FlashAttribute{}).Error
}
