package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/database"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// ErrTestNotFound is returned when a test id does not exist.
var ErrTestNotFound = errors.New("test not found")

// CreateTest inserts a test definition with its samples and attributes.
func CreateTest(ctx context.Context, t *models.Test) error {
	return database.DB.WithContext(ctx).Create(t).Error
}

// GetTest loads one test with its samples and attributes in leader-defined
// order.
func GetTest(ctx context.Context, id uint) (*models.Test, error) {
	var t models.Test
	err := database.DB.WithContext(ctx).
		Preload("Samples", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Attributes", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTests returns all test definitions, newest first.
func ListTests(ctx context.Context) ([]models.Test, error) {
	var tests []models.Test
	err := database.DB.WithContext(ctx).
		Preload("Samples", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Attributes", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("created_at DESC").
		Find(&tests).Error
	return tests, err
}

// UpdateTest replaces a test definition wholesale: the scalar fields are
// updated and the sample/attribute lists are rewritten.
func UpdateTest(ctx context.Context, t *models.Test) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", t.ID).Delete(&models.Sample{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", t.ID).Delete(&models.Attribute{}).Error; err != nil {
			return err
		}
		for i := range t.Samples {
			t.Samples[i].ID = 0
			t.Samples[i].TestID = t.ID
		}
		for i := range t.Attributes {
			t.Attributes[i].ID = 0
			t.Attributes[i].TestID = t.ID
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(t).Error
	})
}

// CloseTest flips a test's lifecycle status to closed.
func CloseTest(ctx context.Context, id uint) error {
	res := database.DB.WithContext(ctx).Exec(
		`UPDATE tests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		models.StatusClosed, id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTestNotFound
	}
	return nil
}

// DeleteTest removes a test and everything hanging off it: samples,
// attributes, flash vocabulary, results and their event rows.
func DeleteTest(ctx context.Context, id uint) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM result_events WHERE result_id IN (SELECT id FROM results WHERE test_id = ?)`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", id).Delete(&models.Result{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", id).Delete(&models.FlashAttribute{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", id).Delete(&models.Sample{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", id).Delete(&models.Attribute{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Test{}, id).Error
	})
}

// CountTests reports how many test definitions exist; used to decide
// whether to seed examples on first boot.
func CountTests(ctx context.Context) (int64, error) {
	var n int64
	err := database.DB.WithContext(ctx).Model(&models.Test{}).Count(&n).Error
	return n, err
}
