package main

import (
	"context"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"log"
	"os"
	"tripforge/cmd/fx/cart_fx"
	"tripforge/cmd/fx/catalog_fx"
	"tripforge/cmd/fx/comparison_fx"
	"tripforge/cmd/fx/db_fx"
	"tripforge/cmd/fx/oracle_fx"
	"tripforge/internal/api/controllers"
	"tripforge/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		db_fx.Module,
		oracle_fx.Module,
		catalog_fx.Module,
		cart_fx.Module,
		comparison_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(comparisonController *controllers.ComparisonController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, comparisonController)

	return r
}

func RegisterRoutes(r *gin.Engine, comparisonController *controllers.ComparisonController) {

	comparisons := r.Group("/comparisons")
	comparisons.Use(middleware.JWTAuthMiddleware())
	comparisons.POST("", comparisonController.CreateComparison)
	comparisons.POST("/:comparisonId/generate", comparisonController.StartGeneration)
	comparisons.GET("/:comparisonId", comparisonController.GetStatus)
	comparisons.POST("/:comparisonId/select", comparisonController.SelectVariant)
	comparisons.POST("/:comparisonId/apply", comparisonController.ApplySelection)
}
