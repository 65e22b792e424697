// Package httpserver is the JSON API of the portal: public endpoints, the
// authentication flow, character applications and the admin dashboard.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/logging"
	"github.com/dmitrijs2005/rpportal/internal/server/auth"
	"github.com/dmitrijs2005/rpportal/internal/server/config"
	"github.com/dmitrijs2005/rpportal/internal/server/models"
	"github.com/dmitrijs2005/rpportal/internal/server/services"
)

// AccountService is the subset of services.AccountService used by the
// handlers.
type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Account, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, sessionToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, sessionToken string) error
	List(ctx context.Context, actor *auth.Actor, q services.ListQuery) (*services.AccountPage, error)
	UpdateRole(ctx context.Context, actor *auth.Actor, id, role string) (*models.Account, error)
	Delete(ctx context.Context, actor *auth.Actor, id string) error
	Stats(ctx context.Context, actor *auth.Actor) (*services.Stats, error)
}

// ApplicationService is the subset of services.ApplicationService used by
// the handlers.
type ApplicationService interface {
	Submit(ctx context.Context, actor *auth.Actor, d services.Draft) (*models.Application, error)
	Get(ctx context.Context, actor *auth.Actor, id string) (*models.Application, error)
	List(ctx context.Context, actor *auth.Actor, page, limit int) (*services.ApplicationPage, error)
	Delete(ctx context.Context, actor *auth.Actor, id string) error
}

// Pinger reports database reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address         string
	logger          logging.Logger
	accounts        AccountService
	applications    ApplicationService
	db              Pinger
	throttle        *auth.Throttle
	statusClient    *http.Client
	jwtSecret       []byte
	siteURL         string
	statusURL       string
	secureCookies   bool
	shutdownTimeout time.Duration
	now             func() time.Time
}

func NewServer(cfg *config.Config, l logging.Logger, as AccountService, aps ApplicationService, db Pinger) *Server {
	return &Server{
		address:         cfg.EndpointAddrHTTP,
		logger:          l.With("module", "http_server"),
		accounts:        as,
		applications:    aps,
		db:              db,
		throttle:        auth.NewThrottle(cfg.LoginMaxAttempts, cfg.LoginWindow, cfg.LoginBlock),
		statusClient:    &http.Client{Timeout: 5 * time.Second},
		jwtSecret:       []byte(cfg.SecretKey),
		siteURL:         cfg.SiteURL,
		statusURL:       cfg.StatusURL,
		secureCookies:   isHTTPS(cfg.SiteURL),
		shutdownTimeout: cfg.ShutdownTimeout,
		now:             time.Now,
	}
}

// Handler returns the routed API wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return Chain(s.routes(),
		s.recoverPanic,
		requestID,
		s.trace,
		s.logRequests,
		s.authenticate,
	)
}

func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(shutdownCtx, "http shutdown", "error", err)
		}
	}()

	go s.sweepThrottle(ctx)

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// sweepThrottle forgets idle peers once per throttle window.
func (s *Server) sweepThrottle(ctx context.Context) {
	interval := s.throttle.Window
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.throttle.Sweep(); n > 0 {
				s.logger.Debug(ctx, "login throttle swept", "peers", n)
			}
		}
	}
}
