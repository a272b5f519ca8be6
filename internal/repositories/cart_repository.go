package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	dbm "tripforge/internal/models/db_models"
)

// CartRepository is the cart collaborator boundary. The cart owns its own
// consistency; the engine only submits operations and records their outcome.
type CartRepository interface {
	ListCartItems(ctx context.Context, userId uuid.UUID) ([]dbm.CartItem, error)
	AddItem(ctx context.Context, item *dbm.CartItem) error
	RemoveItem(ctx context.Context, userId uuid.UUID, itemId uuid.UUID) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) ListCartItems(ctx context.Context, userId uuid.UUID) ([]dbm.CartItem, error) {
	var items []dbm.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("day_number ASC, time_slot ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) AddItem(ctx context.Context, item *dbm.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepository) RemoveItem(ctx context.Context, userId uuid.UUID, itemId uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemId, userId).
		Delete(&dbm.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("cart item not found")
	}
	return nil
}
