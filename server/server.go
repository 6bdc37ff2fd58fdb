package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/speakmate/logger"
	"github.com/kbukum/speakmate/observability"
	"github.com/kbukum/speakmate/resilience"
	"github.com/kbukum/speakmate/server/endpoint"
	"github.com/kbukum/speakmate/server/middleware"
)

const (
	shutdownTimeout = 5 * time.Second
	sweepInterval   = time.Minute
)

// Server is the HTTP server: a Gin engine mounted on a ServeMux, wrapped in
// the middleware stack and served over HTTP/1.1 and h2c.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	limiter    *resilience.KeyedRateLimiter
	config     Config
	metrics    *observability.Metrics
	log        *logger.Logger

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request counts and latency.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New creates a Server. cfg should already have defaults applied.
func New(cfg Config, log *logger.Logger, opts ...Option) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	s := &Server{
		engine: engine,
		config: cfg,
		log:    log.WithComponent("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.RateLimit.Enabled {
		s.limiter = resilience.NewKeyedRateLimiter(resilience.RateLimiterConfig{
			Rate:  cfg.RateLimit.Rate,
			Burst: cfg.RateLimit.Burst,
		})
	}

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          time.Duration(cfg.IdleTimeout) * time.Second,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(s.middleware()(mux), h2s),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

// middleware builds the stack, outermost first.
func (s *Server) middleware() middleware.Middleware {
	stack := []middleware.Middleware{
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.RequestLogger(s.log, s.metrics),
		middleware.CORS(&s.config.CORS),
	}
	if s.limiter != nil {
		stack = append(stack, middleware.RateLimit(s.limiter, nil, s.config.RateLimit.SkipPaths...))
	}
	stack = append(stack, middleware.BodySizeLimit(s.config.MaxBodySize))
	return middleware.Chain(stack...)
}

// GinEngine returns the Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// RegisterDefaultEndpoints registers /health, /livez, /version and /info.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/livez", endpoint.Liveness(serviceName))
	s.engine.GET("/version", endpoint.Version())
	s.engine.GET("/info", endpoint.Info(serviceName, s.engine.Routes))
}

// Start binds the port and serves in the background. It returns once the
// listener is bound.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.mu.Lock()
	s.listener = ln
	s.cancel = cancel
	s.mu.Unlock()

	if s.limiter != nil {
		go middleware.SweepEvery(bg, s.limiter, sweepInterval)
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// Stop drains in-flight requests, giving up after five seconds.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down")
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
