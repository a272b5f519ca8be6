package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	dbm "tripforge/internal/models/db_models"
)

type ComparisonRepository interface {
	CreateComparison(ctx context.Context, comparison *dbm.Comparison) error
	GetComparison(ctx context.Context, comparisonId string) (*dbm.Comparison, error)
	GetComparisonWithDetails(ctx context.Context, comparisonId string) (*dbm.Comparison, error)
	GetVariantInComparison(ctx context.Context, comparisonId uuid.UUID, variantId uuid.UUID) (*dbm.Variant, error)
	GetBaselineVariant(ctx context.Context, comparisonId uuid.UUID) (*dbm.Variant, error)

	// TransitionStatus flips status only when the current value is one of
	// from, and reports whether the flip happened. This is the state-machine
	// guard every conflicting writer goes through.
	TransitionStatus(ctx context.Context, comparisonId uuid.UUID, from []string, to string) (bool, error)
	MarkFailed(ctx context.Context, comparisonId uuid.UUID, reason string) (bool, error)
	SetSelectedVariant(ctx context.Context, comparisonId uuid.UUID, variantId uuid.UUID) error

	ReplaceGenerationResults(ctx context.Context, comparisonId uuid.UUID, variants []dbm.Variant, status string, failureReason string) error
}

type comparisonRepository struct {
	db *gorm.DB
}

func NewComparisonRepository(db *gorm.DB) ComparisonRepository {
	return &comparisonRepository{db: db}
}

func (r *comparisonRepository) CreateComparison(ctx context.Context, comparison *dbm.Comparison) error {
	return r.db.WithContext(ctx).Create(comparison).Error
}

func (r *comparisonRepository) GetComparison(ctx context.Context, comparisonId string) (*dbm.Comparison, error) {
	var c dbm.Comparison
	err := r.db.WithContext(ctx).First(&c, "id = ?", comparisonId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *comparisonRepository) GetComparisonWithDetails(ctx context.Context, comparisonId string) (*dbm.Comparison, error) {
	var c dbm.Comparison
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Variants.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number ASC, sort_order ASC")
		}).
		Preload("Variants.Metrics").
		First(&c, "id = ?", comparisonId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *comparisonRepository) GetVariantInComparison(ctx context.Context, comparisonId uuid.UUID, variantId uuid.UUID) (*dbm.Variant, error) {
	var v dbm.Variant
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number ASC, sort_order ASC")
		}).
		Where("id = ? AND comparison_id = ?", variantId, comparisonId).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *comparisonRepository) GetBaselineVariant(ctx context.Context, comparisonId uuid.UUID) (*dbm.Variant, error) {
	var v dbm.Variant
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number ASC, sort_order ASC")
		}).
		Where("comparison_id = ? AND source = ?", comparisonId, dbm.VariantSourceUser).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *comparisonRepository) TransitionStatus(ctx context.Context, comparisonId uuid.UUID, from []string, to string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.Comparison{}).
		Where("id = ? AND status IN ?", comparisonId, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *comparisonRepository) MarkFailed(ctx context.Context, comparisonId uuid.UUID, reason string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.Comparison{}).
		Where("id = ? AND status = ?", comparisonId, dbm.ComparisonStatusGenerating).
		Updates(map[string]interface{}{
			"status":         dbm.ComparisonStatusFailed,
			"failure_reason": reason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *comparisonRepository) SetSelectedVariant(ctx context.Context, comparisonId uuid.UUID, variantId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&dbm.Comparison{}).
		Where("id = ?", comparisonId).
		Update("selected_variant_id", variantId).Error
}

// ReplaceGenerationResults wipes any previous variant set and writes the new
// one plus the status flip in a single transaction, so a concurrent status
// reader never observes a ready comparison with zero variants.
func (r *comparisonRepository) ReplaceGenerationResults(
	ctx context.Context,
	comparisonId uuid.UUID,
	variants []dbm.Variant,
	status string,
	failureReason string,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subVariantIDs := tx.Model(&dbm.Variant{}).
			Select("id").
			Where("comparison_id = ?", comparisonId)

		if err := tx.Where("variant_id IN (?)", subVariantIDs).
			Delete(&dbm.VariantMetric{}).Error; err != nil {
			return err
		}
		if err := tx.Where("variant_id IN (?)", subVariantIDs).
			Delete(&dbm.VariantItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comparison_id = ?", comparisonId).
			Delete(&dbm.Variant{}).Error; err != nil {
			return err
		}

		for i := range variants {
			variants[i].ComparisonID = comparisonId
			if err := tx.Create(&variants[i]).Error; err != nil {
				return err
			}
		}

		// The flip only lands while the comparison is still generating; a
		// round that outlived the watchdog ceiling rolls back here instead
		// of resurrecting a force-failed comparison.
		res := tx.Model(&dbm.Comparison{}).
			Where("id = ? AND status = ?", comparisonId, dbm.ComparisonStatusGenerating).
			Updates(map[string]interface{}{
				"status":         status,
				"failure_reason": failureReason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("comparison is no longer generating")
		}
		return nil
	})
}
