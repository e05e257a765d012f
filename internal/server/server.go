// Package server exposes the study pipeline and history over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studybuddy/internal/history"
	"github.com/abhisek/studybuddy/internal/logger"
	"github.com/abhisek/studybuddy/internal/study"
)

// Producer builds a study packet for a request.
type Producer interface {
	Produce(ctx context.Context, req study.Request) (*study.Packet, error)
}

// HistoryService reads and clears a user's recorded packets.
type HistoryService interface {
	List(ctx context.Context, userID string, limit int) ([]history.Item, error)
	Clear(ctx context.Context, userID string) (int64, error)
}

type Options struct {
	Pipeline Producer
	History  HistoryService

	JWTSecret      string
	AllowedOrigins []string

	// Production hides internal error details from clients.
	Production bool
	Logger     *logger.Logger
}

type Server struct {
	engine     *gin.Engine
	pipeline   Producer
	history    HistoryService
	auth       *authenticator
	production bool
	log        *logger.Logger
	now        func() time.Time
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "http")

	s := &Server{
		pipeline:   opts.Pipeline,
		history:    opts.History,
		auth:       &authenticator{secret: []byte(opts.JWTSecret)},
		production: opts.Production,
		log:        log,
		now:        time.Now,
	}
	s.engine = s.routes(opts.AllowedOrigins)
	return s
}

func (s *Server) routes(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(
		requestID(),
		corsMiddleware(origins),
		observe(),
		requestLogger(s.log),
		gin.CustomRecovery(s.recovery),
	)

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(metricsHandler()))

	st := r.Group("/study")
	st.GET("", s.auth.optional(), s.handleStudy)

	h := st.Group("/history", s.auth.required())
	h.GET("", s.handleHistory)
	h.DELETE("", s.handleClearHistory)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "Route not found"})
	})
	return r
}

// Handler returns the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is canceled, then shuts down gracefully,
// giving in-flight requests up to shutdownTimeout to finish.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("HTTP server shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
