package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/tonememory/internal/adapter/identity"
	"github.com/heartmarshall/tonememory/internal/adapter/postgres"
	"github.com/heartmarshall/tonememory/internal/adapter/postgres/tonerecord"
	"github.com/heartmarshall/tonememory/internal/auth"
	"github.com/heartmarshall/tonememory/internal/config"
	"github.com/heartmarshall/tonememory/internal/domain"
	"github.com/heartmarshall/tonememory/internal/service/records"
	"github.com/heartmarshall/tonememory/internal/service/session"
	"github.com/heartmarshall/tonememory/internal/service/tonesync"
	"github.com/heartmarshall/tonememory/internal/transport/middleware"
	"github.com/heartmarshall/tonememory/internal/transport/rest"
)

// Run is the application entry point. It loads configuration from
// configPath (see config.LoadFrom), connects to the database and the identity
// provider, starts the sync core and serves HTTP until ctx is cancelled.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	var verifier identity.TokenVerifier
	if cfg.Identity.VerifiesTokens() {
		verifier = auth.NewSessionVerifier(cfg.Identity.JWTSecret)
	} else {
		logger.Warn("identity token verification disabled, IDENTITY_JWT_SECRET is empty")
	}

	idClient := identity.NewClient(cfg.Identity, verifier, logger)
	gateway := session.NewGateway(logger, idClient, cfg.Identity.RedirectURL, cfg.Sync.IdentityTimeout)
	sessions := session.NewManager(logger, idClient, gateway)
	defer sessions.Close()

	recordsSvc := records.NewService(logger, tonerecord.New(pool), cfg.Sync.StoreTimeout)
	core := tonesync.NewCore(logger, sessions, recordsSvc)

	rl := middleware.NewRateLimiter(time.Minute)
	defer rl.Stop()

	handler := newHandler(cfg, logger, rest.Handlers{
		Health:  rest.NewHealthHandler(pool, core, Version),
		State:   rest.NewStateHandler(core, logger),
		Draft:   rest.NewDraftHandler(core, logger),
		Auth:    rest.NewAuthHandler(core, logger),
		Records: rest.NewRecordsHandler(core, logger),
	}, sessions, rl)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return idClient.Run(gctx) })
	g.Go(func() error { return core.Run(gctx) })

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("application stopped with error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("application stopped")
	return nil
}

type identitySource interface {
	Current() *domain.Identity
}

// newHandler mounts h on a mux and wraps it in the middleware stack. The
// /api routes require cfg.Server.AccessToken; CORS is applied only when
// origins are configured.
func newHandler(cfg *config.Config, logger *slog.Logger, h rest.Handlers, ids identitySource, rl *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux, rl.Limit(cfg.RateLimit.SignInPerMinute), middleware.Auth(cfg.Server.AccessToken))

	var cors middleware.Middleware
	if len(cfg.CORS.Origins()) > 0 {
		cors = middleware.CORS(cfg.CORS)
	}

	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Owner(ids),
		middleware.Logger(logger),
		cors,
	)(mux)
}
