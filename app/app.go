// Package app monta o servidor completo a partir da configuração; usado pelo
// main e pela função serverless.
package app

import (
	"fmt"
	"net/http"

	"coursehub/billing"
	"coursehub/config"
	"coursehub/controllers"
	"coursehub/db"
	"coursehub/events"
	"coursehub/mailer"
	"coursehub/membership"
	"coursehub/middleware"
	"coursehub/router"
	"coursehub/storage"
	"coursehub/workers"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config   config.Configuration
	DB       *gorm.DB
	Engine   *gin.Engine
	Services *controllers.Services
	Jobs     *workers.Jobs
	Logger   zerolog.Logger

	redis *redis.Client
}

func New(cfg config.Configuration, logger zerolog.Logger) (*App, error) {
	// pacotes que usam o logger global (db, middleware) seguem o mesmo formato
	log.Logger = logger

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.Seed(database, cfg); err != nil {
		database.Close()
		return nil, fmt.Errorf("seed database: %w", err)
	}

	a := &App{Config: cfg, DB: database, Logger: logger}

	var limiter middleware.Limiter
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		a.redis = redis.NewClient(opts)
		limiter = middleware.NewRedisLimiter(a.redis, "coursehub:rate_limit")
	} else {
		logger.Warn().Msg("redis não configurado, login sem rate limit")
	}

	provider := billing.NewProvider(cfg.Billing.SecretKey)
	if !provider.Enabled() {
		logger.Warn().Msg("billing desabilitado, assinaturas usam ids temporários")
	}
	mail := mailer.New(cfg, logger)
	publisher := events.New(cfg, logger)

	memberships := membership.NewService(database, provider, mail, publisher, logger)
	a.Services = &controllers.Services{
		Config:      cfg,
		Memberships: memberships,
		Videos:      storage.NewVideoResolver(cfg),
		Mailer:      mail,
		Events:      publisher,
		Logger:      logger,
	}
	a.Jobs = workers.NewJobs(database, memberships, logger)

	a.Engine = gin.New()
	if err := router.Initialize(a.Engine, database, a.Services, limiter); err != nil {
		a.Close()
		return nil, fmt.Errorf("initialize router: %w", err)
	}
	return a, nil
}

func (a *App) Handler() http.Handler {
	return a.Engine
}

func (a *App) Close() {
	if a.Services != nil && a.Services.Events != nil {
		a.Services.Events.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
