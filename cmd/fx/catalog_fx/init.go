package catalog_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripforge/internal/repositories"
)

var Module = fx.Provide(provideCatalogRepo)

func provideCatalogRepo(db *gorm.DB) repositories.CatalogRepository {
	return repositories.NewCatalogRepository(db)
}
