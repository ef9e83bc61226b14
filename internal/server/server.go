package server

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/payportal/internal/auth"
	"github.com/hongminglow/payportal/internal/config"
	"github.com/hongminglow/payportal/internal/http/handlers"
	"github.com/hongminglow/payportal/internal/middleware"
	"github.com/hongminglow/payportal/internal/service"
	"github.com/hongminglow/payportal/internal/storage"
)

// Services bundles the application services the HTTP layer exposes.
type Services struct {
	Auth     *service.AuthService
	Admins   *service.AdminService
	Payments *service.PaymentService
}

// NewServices builds the services over a single store.
func NewServices(store storage.Store, tokens *auth.TokenManager, opts ...service.Option) Services {
	return Services{
		Auth:     service.NewAuthService(store, tokens, opts...),
		Admins:   service.NewAdminService(store, opts...),
		Payments: service.NewPaymentService(store, store, opts...),
	}
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
	cfg   config.Config
}

// Routes builds the full handler tree: CORS, request logging, then the mux.
func Routes(cfg config.Config, svcs Services, store handlers.Pinger) http.Handler {
	mux := http.NewServeMux()

	protect := middleware.RequireAuth(svcs.Auth)
	admin := func(next http.Handler) http.Handler {
		return middleware.Chain(next, protect, middleware.Require(auth.AdminGate))
	}

	handlers.NewHealthHandler(time.Now(), store).Register(mux)
	handlers.NewAuthHandler(svcs.Auth).Register(mux, protect)
	handlers.NewPaymentHandler(svcs.Payments).Register(mux, protect, admin)
	handlers.NewAdminHandler(svcs.Admins).Register(mux, admin)

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, svcs Services, store handlers.Pinger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Routes(cfg, svcs, store),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer, cfg: cfg}
}

// Start begins serving traffic, over TLS when a certificate is configured.
func (s *Server) Start() error {
	if s.cfg.TLSEnabled() {
		return s.inner.ListenAndServeTLS(s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
	}
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
