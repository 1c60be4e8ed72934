package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/edge/journal"
)

func (s *Server) handleStats(c *gin.Context) {
	snap, err := s.svc.Snapshot(c.Request.Context(), s.user(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}

func (s *Server) handleInsights(c *gin.Context) {
	in, err := s.svc.Insights(c.Request.Context(), s.user(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, in)
}

func (s *Server) handleListTrades(c *gin.Context) {
	trades, err := s.store.ListTrades(c.Request.Context(), s.user(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	if trades == nil {
		trades = []journal.Trade{}
	}
	ok(c, http.StatusOK, trades)
}

func (s *Server) handleCreateTrade(c *gin.Context) {
	var t journal.Trade
	if err := c.ShouldBindJSON(&t); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(t.Symbol) == "" {
		fail(c, http.StatusBadRequest, "symbol is required")
		return
	}
	t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))
	// IDs and versions are store-owned; a client id is never trusted.
	t.ID, t.Version = "", 0
	if t.Direction == "" {
		t.Direction = journal.Long
	}
	saved, err := s.store.AddTrade(c.Request.Context(), s.user(c), t)
	if err != nil {
		s.failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, saved)
}

// handleUpdateTrade replaces a trade. A body without a version updates
// whatever is stored; with one, a stale version is a 409.
func (s *Server) handleUpdateTrade(c *gin.Context) {
	var t journal.Trade
	if err := c.ShouldBindJSON(&t); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ctx, user := c.Request.Context(), s.user(c)
	t.ID = c.Param("id")
	if t.Version == 0 {
		cur, err := s.store.GetTrade(ctx, user, t.ID)
		if err != nil {
			s.failErr(c, err)
			return
		}
		t.Version = cur.Version
	}
	saved, err := s.store.UpdateTrade(ctx, user, t)
	if err != nil {
		s.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, saved)
}

func (s *Server) handleDeleteTrade(c *gin.Context) {
	found, err := s.store.DeleteTrade(c.Request.Context(), s.user(c), c.Param("id"))
	if err != nil {
		s.failErr(c, err)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, "trade not found")
		return
	}
	ok(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

type closeRequest struct {
	ExitPrice *float64 `json:"exitPrice" binding:"required"`
	PnL       *float64 `json:"pnl" binding:"required"`
	ExitTime  int64    `json:"exitTime"`
}

func (s *Server) handleCloseTrade(c *gin.Context) {
	var req closeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.store.CloseTrade(c.Request.Context(), s.user(c), c.Param("id"), *req.ExitPrice, *req.PnL, req.ExitTime)
	if err != nil {
		s.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

func (s *Server) handleListStrategies(c *gin.Context) {
	list, err := s.store.ListStrategies(c.Request.Context())
	if err != nil {
		s.failErr(c, err)
		return
	}
	if list == nil {
		list = []journal.Strategy{}
	}
	ok(c, http.StatusOK, list)
}

func (s *Server) handleCreateStrategy(c *gin.Context) {
	var st journal.Strategy
	if err := c.ShouldBindJSON(&st); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(st.Name) == "" {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}
	saved, err := s.store.AddStrategy(c.Request.Context(), st)
	if err != nil {
		s.failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, saved)
}

func (s *Server) handleStrategyPerformance(c *gin.Context) {
	perf, err := s.svc.StrategyPerformance(c.Request.Context(), s.user(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, perf)
}
