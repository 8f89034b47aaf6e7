package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/coopledger/internal/benefit"
	benefitStore "github.com/MrJamesThe3rd/coopledger/internal/benefit/store"
	"github.com/MrJamesThe3rd/coopledger/internal/config"
	"github.com/MrJamesThe3rd/coopledger/internal/cooperative"
	cooperativeStore "github.com/MrJamesThe3rd/coopledger/internal/cooperative/store"
	"github.com/MrJamesThe3rd/coopledger/internal/dividend"
	dividendStore "github.com/MrJamesThe3rd/coopledger/internal/dividend/store"
	"github.com/MrJamesThe3rd/coopledger/internal/database"
	coopHttp "github.com/MrJamesThe3rd/coopledger/internal/http"
	benefitHandler "github.com/MrJamesThe3rd/coopledger/internal/http/benefit"
	cooperativeHandler "github.com/MrJamesThe3rd/coopledger/internal/http/cooperative"
	dividendHandler "github.com/MrJamesThe3rd/coopledger/internal/http/dividend"
	eventsHandler "github.com/MrJamesThe3rd/coopledger/internal/http/events"
	memberHandler "github.com/MrJamesThe3rd/coopledger/internal/http/member"
	txHandler "github.com/MrJamesThe3rd/coopledger/internal/http/transaction"
	"github.com/MrJamesThe3rd/coopledger/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/coopledger/internal/ledger/store"
	"github.com/MrJamesThe3rd/coopledger/internal/logging"
	"github.com/MrJamesThe3rd/coopledger/internal/member"
	memberStore "github.com/MrJamesThe3rd/coopledger/internal/member/store"
	"github.com/MrJamesThe3rd/coopledger/internal/telemetry"
	"github.com/MrJamesThe3rd/coopledger/internal/viewcache"
	"github.com/MrJamesThe3rd/coopledger/internal/views"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	shutdownTracing, err := telemetry.Setup(ctx, cfg.App.Name, cfg.Tracing.Endpoint)
	if err != nil {
		return err
	}

	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	cache, closeCache, err := newViewCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	hub := views.NewHub(64)
	notifier := views.Multi(viewcache.NewInvalidator(cache), hub)

	var locker ledger.Locker = ledger.NewLocalLocker()
	if cfg.Ledger.Lock == "advisory" {
		locker = ledgerStore.NewAdvisoryLocker(db)
	}

	var (
		ledgerService      = ledger.NewService(ledgerStore.New(db), locker, notifier)
		memberService      = member.NewService(memberStore.New(db), notifier)
		benefitService     = benefit.NewService(benefitStore.New(db), notifier)
		cooperativeService = cooperative.NewService(cooperativeStore.New(db), notifier)
		dividendService    = dividend.NewService(dividendStore.New(db))
	)

	var (
		memberH      = memberHandler.NewHandler(memberService, cache, cfg.Redis.TTL)
		transactionH = txHandler.NewHandler(ledgerService)
		benefitH     = benefitHandler.NewHandler(benefitService)
		cooperativeH = cooperativeHandler.NewHandler(cooperativeService)
		dividendH    = dividendHandler.NewHandler(dividendService)
		eventsH      = eventsHandler.NewHandler(hub, cfg.CORS.AllowedOrigins)
	)

	router := coopHttp.New(coopHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimit:      cfg.RateLimit.RPS,
		RateBurst:      cfg.RateLimit.Burst,
		TrustProxy:     cfg.RateLimit.TrustProxy,
	}, memberH, transactionH, benefitH, cooperativeH, dividendH, eventsH)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.App.Port),
		Handler:     router,
		ReadTimeout: cfg.Server.Timeout,
		IdleTimeout: 2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr, "ledger_lock", cfg.Ledger.Lock)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newViewCache connects to Redis when an address is configured and falls back
// to an in-process cache otherwise.
func newViewCache(ctx context.Context, cfg *config.Config) (viewcache.Cache, func(), error) {
	if cfg.Redis.Addr == "" {
		slog.Info("view cache: in-memory")
		return viewcache.NewMemory(), func() {}, nil
	}

	r, err := viewcache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}

	slog.Info("view cache: redis", "addr", cfg.Redis.Addr)

	return r, func() {
		if err := r.Close(); err != nil {
			slog.Warn("failed to close redis", "error", err)
		}
	}, nil
}
