package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"inventory-chart-backend/config"
	_ "inventory-chart-backend/docs"
	"inventory-chart-backend/internal/artifact"
	"inventory-chart-backend/internal/controller"
	"inventory-chart-backend/internal/kafka"
	"inventory-chart-backend/internal/parser"
	"inventory-chart-backend/internal/render"
	"inventory-chart-backend/internal/scheduler"
	"inventory-chart-backend/internal/service"
	"inventory-chart-backend/internal/store"
)

// @title           Inventory Chart API
// @version         1.0
// @description     Upload an inventory table and ask questions about it in natural language. Each question is turned into a chart spec by an LLM and rendered as a PNG chart.

// @contact.name   API Support Team
// @contact.url    http://www.example.com/support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         datasets
// @tag.description  Upload and manage inventory tables

// @tag.name         charts
// @tag.description  Natural language chart queries

func main() {
	app := fx.New(
		// Core Dependencies
		fx.Provide(
			NewConfig,
		),
		// Infrastructure Dependencies
		fx.Provide(
			NewGinEngine,
			NewChartEncoder,
			store.NewInMemoryDatasetStore,
			artifact.NewStore,
			kafka.NewChartEventPublisher,
			parser.NewSpecParser,
			render.NewRenderer,
			service.NewGeminiInterpreter,
			service.NewDatasetService,
			service.NewChartService,
			controller.NewDatasetController,
			controller.NewChartController,
		),
		fx.Invoke(RegisterAPIRoutes,
			RegisterScheduler,
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second) // Timeout for startup
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	// Initiate shutdown
	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second) // Timeout for graceful shutdown
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}
	log.Info().Msg("Application stopped. Exiting.")
}

func NewConfig() (*config.Config, error) {
	return config.NewConfig()
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Add your frontend URLs
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	datasetController *controller.DatasetController,
	chartController *controller.ChartController,
) {
	controller.RegisterDatasetRoutes(router, datasetController)
	controller.RegisterChartRoutes(router, chartController)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// --- Factory Functions ---

func NewChartEncoder(cfg *config.Config) render.Encoder {
	return render.NewPNGEncoder(cfg.Chart.WidthIn, cfg.Chart.HeightIn)
}

// --- Invoker Functions ---

func RegisterScheduler(lc fx.Lifecycle, cfg *config.Config, datasetStore store.DatasetStore) error {
	_, err := scheduler.NewScheduler(lc, cfg, datasetStore)
	return err
}
