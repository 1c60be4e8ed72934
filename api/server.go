// Package api serves the journal and the analytics engine as JSON over
// HTTP. Every response uses the {success, data, error} envelope.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/edge/analytics"
	"github.com/rustyeddy/edge/journal"
	"github.com/rustyeddy/edge/risk"
)

// UserHeader selects the journal owner of a request.
const UserHeader = "X-User-ID"

const shutdownTimeout = 5 * time.Second

// Store is the journal the server reads and writes. *journal.SQLite
// implements it.
type Store interface {
	journal.Store
	AddTrade(ctx context.Context, userID string, t journal.Trade) (journal.Trade, error)
	GetTrade(ctx context.Context, userID, tradeID string) (journal.Trade, error)
	UpdateTrade(ctx context.Context, userID string, t journal.Trade) (journal.Trade, error)
	CloseTrade(ctx context.Context, userID, tradeID string, exitPrice, pnl float64, exitTime int64) (journal.Trade, error)
	DeleteTrade(ctx context.Context, userID, tradeID string) (bool, error)
	AddStrategy(ctx context.Context, s journal.Strategy) (journal.Strategy, error)
}

type Config struct {
	Addr        string
	Store       Store
	Settings    analytics.Settings
	Policy      risk.Policy
	DefaultUser string
	// MaxOps bounds iterations*trades of one Monte Carlo request.
	MaxOps int
	// Seed fixes the simulation seed, 0 draws a fresh one per request.
	Seed   int64
	Logger *slog.Logger
}

type Server struct {
	addr   string
	store  Store
	svc    *analytics.Service
	cfg    Config
	log    *slog.Logger
	router *gin.Engine
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("api: store is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DefaultUser == "" {
		cfg.DefaultUser = "default"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(cfg.Logger))

	s := &Server{
		addr:   cfg.Addr,
		store:  cfg.Store,
		svc:    analytics.NewService(cfg.Store, cfg.Settings, cfg.Logger),
		cfg:    cfg,
		log:    cfg.Logger,
		router: router,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/dashboard/stats", s.handleStats)
	api.GET("/insights", s.handleInsights)

	trades := api.Group("/journal/trades")
	trades.GET("", s.handleListTrades)
	trades.POST("", s.handleCreateTrade)
	trades.PUT("/:id", s.handleUpdateTrade)
	trades.DELETE("/:id", s.handleDeleteTrade)
	trades.POST("/:id/close", s.handleCloseTrade)

	strategies := api.Group("/strategies")
	strategies.GET("", s.handleListStrategies)
	strategies.POST("", s.handleCreateStrategy)
	strategies.GET("/performance", s.handleStrategyPerformance)

	r := api.Group("/risk")
	r.POST("/position-size", s.handlePositionSize)
	r.POST("/kelly", s.handleKelly)
	r.POST("/breakeven", s.handleBreakeven)
	r.POST("/rr", s.handleRR)
	r.POST("/recovery", s.handleRecovery)
	r.POST("/plan", s.handlePlan)

	sm := api.Group("/sim")
	sm.POST("/montecarlo", s.handleMonteCarlo)
	sm.POST("/growth", s.handleGrowth)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", s.addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("http server shutting down")
		return srv.Shutdown(shCtx)
	})
	return g.Wait()
}

func (s *Server) user(c *gin.Context) string {
	if u := c.GetHeader(UserHeader); u != "" {
		return u
	}
	return s.cfg.DefaultUser
}

func (s *Server) handleHealth(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"status": "ok"})
}
