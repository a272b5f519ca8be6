package repositories

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	dbm "tripforge/internal/models/db_models"
)

func TestCreateCatalogService(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&dbm.CatalogService{}); err != nil {
		t.Fatalf("migrate catalog: %v", err)
	}
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	svc := &dbm.CatalogService{
		Name:        "Local Walking Tour",
		ServiceType: "activities",
		Price:       45,
		Rating:      4.6,
		Location:    "Paris, France",
		Description: "Two-hour guided walk",
		Tags:        pq.StringArray{"walking", "local"},
		Embedding:   pgvector.NewVector([]float32{0.1, 0.2, 0.3}),
	}
	if err := repo.CreateCatalogService(ctx, svc); err != nil {
		t.Fatalf("create: %v", err)
	}

	var got dbm.CatalogService
	if err := db.First(&got, "id = ?", svc.ID).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.Name != "Local Walking Tour" || got.ServiceType != "activities" {
		t.Errorf("unexpected row: %+v", got)
	}
	if len(got.Tags) != 2 {
		t.Errorf("tags not persisted: %+v", got.Tags)
	}
	if len(got.Embedding.Slice()) != 3 {
		t.Errorf("embedding not persisted: %+v", got.Embedding.Slice())
	}
}
