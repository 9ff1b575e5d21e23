package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/exitintent"
	httpAdapter "github.com/aretw0/exitintent/internal/adapters/http"
	"github.com/aretw0/exitintent/internal/config"
	"github.com/aretw0/exitintent/internal/presentation/tui"
	"github.com/aretw0/exitintent/pkg/adapters/redis"
	"github.com/aretw0/exitintent/pkg/observability"
	"github.com/aretw0/exitintent/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// ServeFlags are the command line inputs of the serve command.
type ServeFlags struct {
	Addr       string
	ConfigPath string
	RedisAddr  string
	RedisTTL   time.Duration
	LogLevel   string
}

// Server bundles the pieces RunServe wires together.
type Server struct {
	HTTP    *http.Server
	Manager *session.Manager
	Logger  *slog.Logger
	closers []func() error
}

// NewServer builds the session manager, metrics registry and HTTP handler.
func NewServer(ctx context.Context, flags ServeFlags) (*Server, error) {
	logger, err := createLogger(flags.LogLevel)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	hooks := observability.ChainHooks(metrics.Hooks(), observability.LoggingHooks(logger))
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithEngineOptions(exitintent.WithLogger(logger), exitintent.WithLifecycleHooks(hooks)),
	}

	s := &Server{Logger: logger}
	if flags.RedisAddr != "" {
		rs := redis.New(flags.RedisAddr, "", 0, redis.WithTTL(flags.RedisTTL))
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("redis unavailable: %w", err)
		}
		s.closers = append(s.closers, rs.Close)
		opts = append(opts, session.WithBackend(rs))
	}

	s.Manager = session.NewManager(opts...)
	s.HTTP = &http.Server{
		Addr:              flags.Addr,
		Handler:           httpAdapter.NewHandler(s.Manager, reg, logger, httpAdapter.WithDefaults(cfg)),
		ReadHeaderTimeout: shutdownTimeout,
	}
	return s, nil
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.Logger.Info("server listening", "addr", ln.Addr().String())
		serverErrors <- s.HTTP.Serve(ln)
	}()

	var serveErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := s.HTTP.Shutdown(shutdownCtx); err != nil {
			s.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := s.HTTP.Close(); err != nil {
				s.Logger.Error("error killing server", "err", err)
			}
		}
		s.Manager.Close(shutdownCtx)
	}

	for _, c := range s.closers {
		if err := c(); err != nil {
			s.Logger.Warn("close failed", "err", err)
		}
	}
	return serveErr
}

// RunServe starts the HTTP server and blocks until SIGINT/SIGTERM.
func RunServe(ctx context.Context, flags ServeFlags, out io.Writer) error {
	sc := NewSignalContext(ctx)
	defer sc.Cancel()

	srv, err := NewServer(sc, flags)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", flags.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	if tui.IsTerminal(out) {
		tui.PrintBanner(out)
	}
	err = srv.Serve(sc, ln)
	if sig := sc.Signal(); sig != nil {
		srv.Logger.Info("server stopped", "signal", sig.String())
	}
	return err
}
