package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Sifaka/config"
	"github.com/lshigami/Sifaka/database"
	_ "github.com/lshigami/Sifaka/docs" // Swagger docs - auto-generated
	adminctrl "github.com/lshigami/Sifaka/internal/controller/admin"
	userctrl "github.com/lshigami/Sifaka/internal/controller/user"
	"github.com/lshigami/Sifaka/internal/logger"
	"github.com/lshigami/Sifaka/internal/model"
	"github.com/lshigami/Sifaka/internal/repository"
	"github.com/lshigami/Sifaka/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Quiz Insight API
// @version 1.0
// @description Self-report quizzes for teens and parents: scoring, conditional subtest dispatch, AI report synthesis, anonymous result claims, and parent/child comparative analyses.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories layer
		fx.Provide(
			repository.NewQuizDefinitionRepository,
			repository.NewQuizResultRepository,
			repository.NewPendingClaimRepository,
			repository.NewComparativeAnalysisRepository,
		),

		// Services layer
		fx.Provide(
			service.NewGeminiAnalysisService,
			service.NewCatalogService,
			service.NewAdminQuizService,
			service.NewMemorySessionHoldStore,
			func(cfg *config.Config, analysis service.AnalysisService) service.SynthesisService {
				return service.NewSynthesisService(analysis, time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second)
			},
			func(
				cfg *config.Config,
				holds service.SessionHoldStore,
				resultRepo repository.QuizResultRepository,
				claimRepo repository.PendingClaimRepository,
			) service.OwnershipService {
				return service.NewOwnershipService(holds, resultRepo, claimRepo, time.Duration(cfg.Claims.TTLHours)*time.Hour)
			},
			func(cfg *config.Config, analysis service.AnalysisService, analysisRepo repository.ComparativeAnalysisRepository) service.MergeService {
				return service.NewMergeService(analysis, analysisRepo, time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second)
			},
			service.NewSubmissionService,
		),

		// API controllers layer
		fx.Provide(
			adminctrl.NewAdminQuizController,
			userctrl.NewUserQuizController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Restrict in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminQuizCtrl *adminctrl.AdminQuizController,
	userQuizCtrl *userctrl.UserQuizController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		quizzesAdminGroup := adminAPIGroup.Group("/quizzes")
		quizzesAdminGroup.POST("", adminQuizCtrl.CreateQuizDefinition)
		quizzesAdminGroup.POST("/:quiz_id/publish", adminQuizCtrl.PublishQuizDefinition)
	}

	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.GET("/quizzes", userQuizCtrl.ListQuizzes)
		userAPIGroup.GET("/quizzes/:slug", userQuizCtrl.GetQuiz)
		userAPIGroup.POST("/quizzes/:slug/submissions", userQuizCtrl.SubmitQuiz)

		userAPIGroup.POST("/claims/session", userQuizCtrl.ClaimSession)
		userAPIGroup.POST("/claims/token", userQuizCtrl.ClaimToken)

		userAPIGroup.GET("/results/:result_id", userQuizCtrl.GetResult)
		userAPIGroup.POST("/comparative-analyses", userQuizCtrl.MergeResults)
		userAPIGroup.GET("/comparative-analyses/:analysis_id", userQuizCtrl.GetComparativeAnalysis)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz Insight API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.QuizDefinition{},
		&model.Question{},
		&model.SubtestConfig{},
		&model.QuizResult{},
		&model.PendingClaim{},
		&model.ComparativeAnalysis{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
