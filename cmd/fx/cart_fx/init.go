package cart_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripforge/internal/repositories"
	"tripforge/internal/services"
)

var Module = fx.Provide(provideCartRepo, provideCartApplyService)

func provideCartRepo(db *gorm.DB) repositories.CartRepository {
	return repositories.NewCartRepository(db)
}

func provideCartApplyService(cartRepo repositories.CartRepository) services.CartApplyServiceInterface {
	return services.NewCartApplyService(cartRepo)
}
