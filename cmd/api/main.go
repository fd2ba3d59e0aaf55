package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/knakai/examprep/config"
	"github.com/knakai/examprep/database"
	_ "github.com/knakai/examprep/docs" // Swagger docs - auto-generated
	"github.com/knakai/examprep/internal/auth"
	adminctrl "github.com/knakai/examprep/internal/controller/admin"
	userctrl "github.com/knakai/examprep/internal/controller/user"
	"github.com/knakai/examprep/internal/logger"
	"github.com/knakai/examprep/internal/model"
	"github.com/knakai/examprep/internal/repository"
	"github.com/knakai/examprep/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Exam Preparation API
// @version 1.0
// @description Question recommendation, answer scoring and score-history API for exam preparation.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			NewVerifier,          // Provides *auth.Verifier
		),

		// Repositories Layer
		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewFrequentQuestionRepository,
			repository.NewUserAnswerRepository,
			repository.NewUserStatRepository,
			repository.NewEmbeddingRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewQuestionService,
			service.NewFrequentQuestionService,
			service.NewWeakQuestionService,
			service.NewUserAnswerService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewQuestionController,
			userctrl.NewPracticeController,
			adminctrl.NewFrequentQuestionController,
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
		AllowOrigins:     []string{"*"},
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

func NewVerifier(cfg *config.Config) *auth.Verifier {
	fetcher := auth.NewJWKSFetcher(nil, cfg.Cognito.JWKSEndpoint())
	return auth.NewVerifier(auth.NewKeyCache(fetcher), cfg.Cognito.Issuer(), cfg.Cognito.AppClientID)
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	verifier *auth.Verifier,
	questionCtrl *userctrl.QuestionController,
	practiceCtrl *userctrl.PracticeController,
	frequentCtrl *adminctrl.FrequentQuestionController,
) {
	// Unauthenticated probes
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Exam Preparation API"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Everything under /api/v1 requires a valid bearer token
	apiV1 := router.Group("/api/v1")
	apiV1.Use(auth.Middleware(verifier))
	{
		apiV1.GET("/questions/:id", questionCtrl.GetQuestion)
		apiV1.GET("/frequent-questions", practiceCtrl.GetFrequentQuestions)
		apiV1.GET("/weak-questions", practiceCtrl.GetWeakQuestions)
		apiV1.POST("/user-answers", practiceCtrl.SubmitAnswers)
		apiV1.GET("/user-stats/:user_id", practiceCtrl.GetUserStats)

		// Admin: group membership is enforced inside the handler
		apiV1.POST("/frequent-questions", frequentCtrl.ReplaceFrequentQuestions)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Exam preparation API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
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
	if err := database.EnsureVectorExtension(db); err != nil {
		log.Error().Err(err).Msg("Failed to install pgvector extension")
		return err
	}

	err := db.AutoMigrate(
		&model.Question{},
		&model.FrequentQuestion{},
		&model.UserAnswer{},
		&model.UserStat{},
		&model.Embedding{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}

	if err := database.EnsureEmbeddingIndexes(db); err != nil {
		log.Error().Err(err).Msg("Failed to create embedding indexes")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
