package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"

	dbm "tripforge/internal/models/db_models"
)

func TestCartAddAndList(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()
	userId := uuid.New()

	items := []dbm.CartItem{
		{UserID: userId, Name: "Seine Cruise", DayNumber: 1, TimeSlot: "afternoon", Price: 35, Quantity: 1},
		{UserID: userId, Name: "Louvre Museum", DayNumber: 1, TimeSlot: "morning", Price: 60, Quantity: 1},
		{UserID: uuid.New(), Name: "Someone Else's Tour", DayNumber: 1, TimeSlot: "morning", Price: 10, Quantity: 1},
	}
	for i := range items {
		if err := repo.AddItem(ctx, &items[i]); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	got, err := repo.ListCartItems(ctx, userId)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected the owner's 2 items, got %d", len(got))
	}
	if got[0].TimeSlot != "afternoon" || got[1].TimeSlot != "morning" {
		t.Errorf("items out of slot order: %q, %q", got[0].TimeSlot, got[1].TimeSlot)
	}
}

func TestCartRemoveItem(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()
	userId := uuid.New()

	item := dbm.CartItem{UserID: userId, Name: "Seine Cruise", DayNumber: 1, TimeSlot: "afternoon", Price: 35, Quantity: 1}
	if err := repo.AddItem(ctx, &item); err != nil {
		t.Fatal(err)
	}

	if err := repo.RemoveItem(ctx, userId, item.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, _ := repo.ListCartItems(ctx, userId)
	if len(got) != 0 {
		t.Errorf("cart should be empty, got %d items", len(got))
	}

	if err := repo.RemoveItem(ctx, userId, item.ID); err == nil {
		t.Error("removing a gone item must fail")
	}
}

func TestCartRemoveScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	item := dbm.CartItem{UserID: owner, Name: "Seine Cruise", DayNumber: 1, TimeSlot: "afternoon", Price: 35, Quantity: 1}
	if err := repo.AddItem(ctx, &item); err != nil {
		t.Fatal(err)
	}

	if err := repo.RemoveItem(ctx, uuid.New(), item.ID); err == nil {
		t.Error("a foreign user must not remove the item")
	}
	got, _ := repo.ListCartItems(ctx, owner)
	if len(got) != 1 {
		t.Errorf("item must survive the foreign removal attempt, got %d", len(got))
	}
}
