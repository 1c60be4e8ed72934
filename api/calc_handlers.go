package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/edge/market"
	"github.com/rustyeddy/edge/risk"
	"github.com/rustyeddy/edge/sim"
)

type positionSizeRequest struct {
	Balance      float64 `json:"balance"`
	RiskPercent  float64 `json:"riskPercent"`
	StopLossPips float64 `json:"stopLossPips"`
	Symbol       string  `json:"symbol"`
}

func (s *Server) handlePositionSize(c *gin.Context) {
	var req positionSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{
		"lots":       risk.PositionSize(req.Balance, req.RiskPercent, req.StopLossPips, req.Symbol),
		"riskAmount": risk.RiskAmount(req.Balance, req.RiskPercent),
		"pipSize":    market.PipSize(req.Symbol),
	})
}

type kellyRequest struct {
	WinRate float64 `json:"winRate"`
	AvgWin  float64 `json:"avgWin"`
	AvgLoss float64 `json:"avgLoss"`
}

func (s *Server) handleKelly(c *gin.Context) {
	var req kellyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	f := risk.KellyFraction(req.WinRate, req.AvgWin, req.AvgLoss)
	ok(c, http.StatusOK, gin.H{"fraction": f, "percent": f * 100})
}

func (s *Server) handleBreakeven(c *gin.Context) {
	var req struct {
		RiskReward float64 `json:"riskReward"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{"winRate": risk.BreakevenWinRate(req.RiskReward)})
}

func (s *Server) handleRR(c *gin.Context) {
	var req struct {
		Entry      float64 `json:"entry"`
		StopLoss   float64 `json:"stopLoss"`
		TakeProfit float64 `json:"takeProfit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	rr := risk.RiskRewardRatio(req.Entry, req.StopLoss, req.TakeProfit)
	ok(c, http.StatusOK, gin.H{"ratio": rr, "breakevenWinRate": risk.BreakevenWinRate(rr)})
}

func (s *Server) handleRecovery(c *gin.Context) {
	var req struct {
		DrawdownPercent float64 `json:"drawdownPercent"`
		TradeWindow     int     `json:"tradeWindow"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ok(c, http.StatusOK, risk.RecoveryStats(req.DrawdownPercent, req.TradeWindow))
}

func (s *Server) handlePlan(c *gin.Context) {
	var plan risk.TradePlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ok(c, http.StatusOK, risk.Evaluate(s.cfg.Policy, plan))
}

// handleMonteCarlo runs a simulation. Omitted fields keep their
// defaults and the work is bounded by MaxOps.
func (s *Server) handleMonteCarlo(c *gin.Context) {
	p := sim.DefaultParams()
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	p = p.Bound(s.cfg.MaxOps)
	s.log.Debug("monte carlo", "trades", p.TradeCount, "iterations", p.Iterations)
	ok(c, http.StatusOK, sim.Run(p, sim.NewSource(s.cfg.Seed)))
}

type growthRequest struct {
	StartBalance float64 `json:"startBalance"`
	Model        string  `json:"model"`
	sim.GrowthParams
}

func (s *Server) handleGrowth(c *gin.Context) {
	req := growthRequest{
		StartBalance: sim.DefaultStartBalance,
		Model:        string(sim.Fixed),
		GrowthParams: sim.DefaultGrowthParams(),
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	model, err := sim.ParseModel(req.Model)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ok(c, http.StatusOK, sim.Project(req.StartBalance, model, req.GrowthParams, sim.NewSource(s.cfg.Seed)))
}
