package comparison_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripforge/internal/api/controllers"
	"tripforge/internal/repositories"
	"tripforge/internal/services"
	"tripforge/pkg/utils"
)

var Module = fx.Provide(
	provideComparisonRepo,
	provideGenerationService,
	provideComparisonService,
	provideComparisonController)

func provideComparisonRepo(db *gorm.DB) repositories.ComparisonRepository {
	return repositories.NewComparisonRepository(db)
}

func provideGenerationService(
	comparisonRepo repositories.ComparisonRepository,
	catalogRepo repositories.CatalogRepository,
	oracle utils.ItineraryOracleInterface,
	embedder utils.EmbeddingClientInterface,
	cfg services.GenerationConfig,
) services.GenerationServiceInterface {
	return services.NewGenerationService(comparisonRepo, catalogRepo, oracle, embedder, cfg)
}

func provideComparisonService(
	comparisonRepo repositories.ComparisonRepository,
	generator services.GenerationServiceInterface,
	cartApply services.CartApplyServiceInterface,
) services.ComparisonServiceInterface {
	return services.NewComparisonService(comparisonRepo, generator, cartApply)
}

func provideComparisonController(
	comparisonService services.ComparisonServiceInterface,
) *controllers.ComparisonController {
	return controllers.NewComparisonController(comparisonService)
}
