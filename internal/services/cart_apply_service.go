package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	dbm "tripforge/internal/models/db_models"
	"tripforge/internal/models/response_models"
	"tripforge/internal/repositories"
	"tripforge/pkg/utils"
)

type CartApplyServiceInterface interface {
	// Apply reconciles the selected variant's items into the traveler's cart
	// and reports the outcome of every operation it executed.
	Apply(ctx context.Context, userId uuid.UUID, selected *dbm.Variant) ([]response_models.CartOperationResult, error)
}

type CartApplyService struct {
	cartRepo repositories.CartRepository
}

func NewCartApplyService(cartRepo repositories.CartRepository) CartApplyServiceInterface {
	return &CartApplyService{cartRepo: cartRepo}
}

const (
	cartOpAdd    = "add"
	cartOpRemove = "remove"
)

type cartOperation struct {
	op       string
	itemName string
	removeId uuid.UUID
	add      *dbm.CartItem
}

func (s *CartApplyService) Apply(ctx context.Context, userId uuid.UUID, selected *dbm.Variant) ([]response_models.CartOperationResult, error) {
	cartItems, err := s.cartRepo.ListCartItems(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read cart: %v", utils.ErrCartReconciliation, err)
	}

	operations := planOperations(userId, cartItems, selected)

	// One logical batch, executed per operation. The cart owns its own
	// consistency; a partial failure is reported, not rolled back.
	results := make([]response_models.CartOperationResult, 0, len(operations))
	failed := 0
	for _, op := range operations {
		var opErr error
		switch op.op {
		case cartOpRemove:
			opErr = s.cartRepo.RemoveItem(ctx, userId, op.removeId)
		case cartOpAdd:
			opErr = s.cartRepo.AddItem(ctx, op.add)
		}

		result := response_models.CartOperationResult{
			Op:       op.op,
			ItemName: op.itemName,
			Success:  opErr == nil,
		}
		if opErr != nil {
			failed++
			result.Error = opErr.Error()
			log.Printf("cart apply: %s %q failed: %v", op.op, op.itemName, opErr)
		}
		results = append(results, result)
	}

	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d operations failed", utils.ErrCartReconciliation, failed, len(operations))
	}
	return results, nil
}

type slotKey struct {
	day  int
	slot string
}

// planOperations diffs the selected variant against the current cart:
// matching items at a slot produce nothing, replacements remove the old item
// before adding the new one, and new slots get a bare add. Re-applying an
// already applied variant therefore yields zero operations.
func planOperations(userId uuid.UUID, cartItems []dbm.CartItem, selected *dbm.Variant) []cartOperation {
	cartBySlot := make(map[slotKey][]dbm.CartItem)
	for _, ci := range cartItems {
		key := slotKey{day: ci.DayNumber, slot: ci.TimeSlot}
		cartBySlot[key] = append(cartBySlot[key], ci)
	}

	var operations []cartOperation
	for _, item := range selected.Items {
		key := slotKey{day: item.DayNumber, slot: item.TimeSlot}

		inCart := false
		for _, ci := range cartBySlot[key] {
			if ci.Name == item.Name {
				inCart = true
				break
			}
		}
		if inCart {
			continue
		}

		if item.IsReplacement {
			// Remove the displaced baseline items first, so the cart never
			// holds both the old and new item for the same slot.
			for _, ci := range cartBySlot[key] {
				operations = append(operations, cartOperation{
					op:       cartOpRemove,
					itemName: ci.Name,
					removeId: ci.ID,
				})
			}
		}

		operations = append(operations, cartOperation{
			op:       cartOpAdd,
			itemName: item.Name,
			add: &dbm.CartItem{
				UserID:      userId,
				Name:        item.Name,
				ServiceType: item.ServiceType,
				Price:       item.Price,
				DayNumber:   item.DayNumber,
				TimeSlot:    item.TimeSlot,
				Quantity:    1,
			},
		})
	}

	return operations
}
