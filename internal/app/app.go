package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/drip-check/drip-check-api/internal/config"
	"github.com/drip-check/drip-check-api/internal/db"
	"github.com/drip-check/drip-check-api/internal/http/handlers"
	"github.com/drip-check/drip-check-api/internal/http/middleware"
	"github.com/drip-check/drip-check-api/internal/premium"
	"github.com/drip-check/drip-check-api/internal/ratelimit"
	"github.com/drip-check/drip-check-api/internal/rewrite"
	"github.com/drip-check/drip-check-api/internal/usage"
	"github.com/drip-check/drip-check-api/internal/webhook"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// shutdownTimeout bounds graceful connection draining on exit.
const shutdownTimeout = 10 * time.Second

// Deps bundles the request-serving state owned by one service instance.
// Everything here is created at startup and dropped at shutdown.
type Deps struct {
	DB        *gorm.DB
	Cache     *premium.StatusCache
	Gate      *premium.Gate
	Limiter   *ratelimit.DailyLimiter
	Rewriter  *rewrite.Service
	Recorder  *usage.Recorder
	Processor *webhook.Processor
}

// BuildDeps wires the service components from config and an open store.
func BuildDeps(cfg *config.Config, conn *gorm.DB) *Deps {
	cache := premium.NewStatusCache(cfg.Premium.CacheTTL)
	return &Deps{
		DB:    conn,
		Cache: cache,
		Gate: premium.NewGate(conn, cache, premium.GateConfig{
			FreshnessWindow: cfg.Premium.FreshnessWindow,
			TokenSecret:     cfg.Premium.TokenSecret,
			AllowDevBypass:  cfg.Premium.AllowDevBypass && cfg.IsDevelopment(),
		}),
		Limiter: ratelimit.NewDailyLimiter(),
		Rewriter: rewrite.NewService(rewrite.Config{
			APIKey:  cfg.Provider.APIKey,
			BaseURL: cfg.Provider.BaseURL,
			Model:   cfg.Provider.Model,
			Timeout: cfg.Provider.Timeout,
		}),
		Recorder:  usage.NewRecorder(conn),
		Processor: webhook.NewProcessor(conn),
	}
}

// NewEngine builds the gin engine with the full route table and the
// gate-then-quota middleware chain in front of the rewrite proxy.
func NewEngine(cfg *config.Config, deps *Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	humanizeHandler := handlers.NewHumanizeHandler(deps.Rewriter, deps.Recorder)
	webhookHandler := handlers.NewWebhookHandler(deps.Processor)
	trackHandler := handlers.NewTrackHandler(deps.Recorder)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	engine.POST("/api/humanize",
		middleware.BindHumanize(),
		middleware.PremiumGate(deps.Gate),
		middleware.DailyQuota(deps.Limiter, cfg.Quota.DailyLimit),
		humanizeHandler.Handle,
	)
	engine.POST("/webhook/extensionpay", webhookHandler.Handle)
	engine.POST("/api/track-user", trackHandler.Handle)
	engine.GET("/health", healthHandler.Handle)

	return engine
}

// Run boots the server: store, migrations, sweeper, HTTP. It blocks until
// the context is cancelled, then drains connections gracefully.
func Run(ctx context.Context, cfg *config.Config) error {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	log.WithField("dialect", db.DialectName(conn)).Info("database ready")

	deps := BuildDeps(cfg, conn)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	ratelimit.StartSweeper(sweepCtx, cfg.Quota.SweepInterval, deps.Limiter, deps.Cache)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: NewEngine(cfg, deps),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case errServe := <-serveErr:
		if errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			return fmt.Errorf("app: serve: %w", errServe)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
		return fmt.Errorf("app: shutdown: %w", errShutdown)
	}
	return nil
}
