package repositories

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	dbm "tripforge/internal/models/db_models"
)

type CatalogRepository interface {
	FindCandidatesByVector(ctx context.Context, vector pgvector.Vector, limit int) ([]dbm.CatalogService, error)
	CreateCatalogService(ctx context.Context, service *dbm.CatalogService) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) FindCandidatesByVector(ctx context.Context, vector pgvector.Vector, limit int) ([]dbm.CatalogService, error) {
	var results []dbm.CatalogService

	if limit <= 0 {
		limit = 50
	}

	query := `
        SELECT *
        FROM catalog_services
        WHERE deleted_at IS NULL
        ORDER BY embedding <=> $1
        LIMIT $2
    `

	err := r.db.WithContext(ctx).Raw(query, vector.String(), limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepository) CreateCatalogService(ctx context.Context, service *dbm.CatalogService) error {
	return r.db.WithContext(ctx).Create(service).Error
}
