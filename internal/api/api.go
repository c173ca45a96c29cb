package api

import (
	"fmt"
	"strings"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/api/pkg/api_key"
	"github.com/ethanbaker/wikiai/internal/agents/tutor"
	"github.com/ethanbaker/wikiai/internal/stores/history"
	"github.com/ethanbaker/wikiai/internal/upload"
	"github.com/ethanbaker/wikiai/pkg/agent"
	"github.com/ethanbaker/wikiai/pkg/logging"
	"github.com/ethanbaker/wikiai/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	chat_module "github.com/ethanbaker/wikiai/internal/api/modules/chat"
	files_module "github.com/ethanbaker/wikiai/internal/api/modules/files"
	health_module "github.com/ethanbaker/wikiai/internal/api/modules/health"
	sources_module "github.com/ethanbaker/wikiai/internal/api/modules/sources"
	subjects_module "github.com/ethanbaker/wikiai/internal/api/modules/subjects"
)

// Dependencies are the services the routes are built on
type Dependencies struct {
	Answerer chat_module.Answerer
	History  history.Store
	Logger   *zap.Logger
}

// NewEngine builds the gin engine serving every module under /api
func NewEngine(cfg *utils.Config, deps Dependencies) (*gin.Engine, error) {
	logger := logging.OrNop(deps.Logger)

	catalog, err := subjects_module.Load(cfg.Get("SUBJECTS_FILE"))
	if err != nil {
		return nil, err
	}

	// Add app level settings/routes
	engine := gin.New()
	engine.Use(requestLogger(logger.Named("http")), gin.Recovery())
	engine.NoRoute(api_utils.NoRouteHandler)

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AllowMethods:     []string{"OPTIONS", "GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")
	health_module.RegisterRoutes(baseGroup)

	// Every other route requires the key when one is configured
	protected := baseGroup.Group("")
	if apiKey := cfg.Get("API_KEY"); apiKey != "" {
		protected.Handlers = append(protected.Handlers, api_key.APIKeyHeaderHandler(func(key string) bool {
			return key == apiKey
		}))
	}

	policy := upload.Policy{
		MaxBytes:   cfg.GetInt64WithDefault("UPLOAD_MAX_BYTES", upload.DefaultMaxBytes),
		Extensions: lower(cfg.GetList("UPLOAD_ALLOWED_EXTENSIONS", upload.DefaultExtensions)),
	}

	// Adding custom modules
	subjects_module.RegisterRoutes(protected, catalog)
	sources_module.RegisterRoutes(protected)
	files_module.RegisterRoutes(protected, policy, logger)
	chat_module.RegisterRoutes(protected, chat_module.NewService(deps.Answerer, deps.History, logger))

	return engine, nil
}

// Start builds the services from cfg and serves until the server fails
func Start(cfg *utils.Config, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	port := cfg.GetWithDefault("API_PORT", "8001")

	store, err := history.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}

	retention, err := history.NewRetention(
		store,
		cfg.GetWithDefault("HISTORY_PRUNE_SCHEDULE", history.DefaultPruneSchedule),
		cfg.GetDuration("HISTORY_RETENTION", history.DefaultRetention),
		logger,
	)
	if err != nil {
		return err
	}
	retention.Start()
	defer retention.Stop()

	// Tutors read .env.tutor on top of the server config
	tutorCfg, err := agent.LoadAgentConfig("tutor", cfg)
	if err != nil {
		logger.Warn("tutor config not loaded", zap.Error(err))
	}

	engine, err := NewEngine(cfg, Dependencies{
		Answerer: tutor.NewService(tutorCfg, agent.DefaultRunner, logger),
		History:  store,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	// Then after performing initial setup, start the server
	logger.Info("starting server", zap.String("port", port), zap.String("model", agent.Model(tutorCfg)))
	if err := engine.Run(":" + port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// requestLogger logs each request once it completes
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= 500 {
			logger.Error("request", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}

func lower(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.ToLower(strings.TrimPrefix(item, "."))
	}
	return out
}
