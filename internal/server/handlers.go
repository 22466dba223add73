package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"rebalancer/internal/engine"
	"rebalancer/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeEngineError maps engine validation failures to 400s so the UI can
// present them as form errors rather than crashes.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.UnknownSymbolErr),
		errors.Is(err, engine.InvalidAllocationErr),
		errors.Is(err, engine.NegativeSharesErr),
		errors.Is(err, engine.DuplicateSymbolErr),
		errors.Is(err, engine.InvalidInstrumentErr):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error().Err(err).Msg("Unexpected engine error")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetPortfolio returns the current valuation snapshot.
func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	report := s.portfolio.AllocationReport()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, report)
}

// handleExportAllocation streams the valuation snapshot as CSV.
func (s *Server) handleExportAllocation(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	report := s.portfolio.AllocationReport()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="allocation.csv"`)
	if err := engine.WriteAllocationCSV(w, report); err != nil {
		s.log.Error().Err(err).Msg("Failed to write allocation CSV")
	}
}

// TargetView is one target allocation entry in percent form, as edited in
// the UI.
type TargetView struct {
	Symbol  string          `json:"symbol"`
	Percent decimal.Decimal `json:"percent"`
}

func (s *Server) handleGetTargets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	entries := s.portfolio.TargetAllocation().Entries()
	s.mu.Unlock()

	targets := make([]TargetView, 0, len(entries))
	for _, e := range entries {
		targets = append(targets, TargetView{
			Symbol:  e.Symbol,
			Percent: e.Fraction.Mul(decimal.NewFromInt(100)),
		})
	}
	s.writeJSON(w, http.StatusOK, targets)
}

// handleUpdateTargets replaces the target allocation. The body is an
// ordered list of {symbol, percent} entries whose percentages must sum to
// 100; order is preserved in subsequent plans.
func (s *Server) handleUpdateTargets(w http.ResponseWriter, r *http.Request) {
	var targets []TargetView
	if err := json.NewDecoder(r.Body).Decode(&targets); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sum := decimal.Zero
	for _, t := range targets {
		sum = sum.Add(t.Percent)
	}
	if !sum.Equal(decimal.NewFromInt(100)) {
		s.writeError(w, http.StatusBadRequest, "total allocation must be exactly 100%")
		return
	}

	entries := make([]engine.AllocationEntry, 0, len(targets))
	for _, t := range targets {
		entries = append(entries, engine.AllocationEntry{
			Symbol:   t.Symbol,
			Fraction: t.Percent.Div(decimal.NewFromInt(100)),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The engine re-validates defensively.
	target, err := engine.NewTargetAllocation(s.portfolio.Registry(), entries)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	if err := s.portfolio.SetTargetAllocation(target); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.pendingPlan = nil

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "targets updated"})
}

// handleReplaceHoldings swaps the full holdings map, the "update holdings"
// form submit. Zero-share entries are dropped.
func (s *Server) handleReplaceHoldings(w http.ResponseWriter, r *http.Request) {
	var holdings map[string]decimal.Decimal
	if err := json.NewDecoder(r.Body).Decode(&holdings); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.portfolio.ReplaceHoldings(holdings); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.pendingPlan = nil

	s.writeJSON(w, http.StatusOK, s.portfolio.AllocationReport())
}

type depositRequest struct {
	Symbol string          `json:"symbol"`
	Shares decimal.Decimal `json:"shares"`
}

// handleDeposit adds shares incrementally. Non-positive deposits are
// accepted and ignored, matching the engine.
func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.portfolio.Deposit(req.Symbol, req.Shares); err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.portfolio.AllocationReport())
}

// handleCreatePlan computes a rebalance plan and remembers it as the
// pending plan for execution/export.
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan := s.portfolio.CreateRebalancePlan()
	s.pendingPlan = &plan

	s.writeJSON(w, http.StatusOK, plan)
}

// handleExportPlan streams the pending plan as CSV.
func (s *Server) handleExportPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	plan := s.pendingPlan
	s.mu.Unlock()

	if plan == nil {
		s.writeError(w, http.StatusNotFound, "no pending rebalance plan")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="plan.csv"`)
	if err := engine.WritePlanCSV(w, *plan); err != nil {
		s.log.Error().Err(err).Msg("Failed to write plan CSV")
	}
}

// handleExecutePlan executes the plan in the request body, or the pending
// plan when the body is empty. The pending plan is discarded either way;
// plans are single-use artifacts.
func (s *Server) handleExecutePlan(w http.ResponseWriter, r *http.Request) {
	var plan *types.RebalancePlan
	var body types.RebalancePlan
	err := json.NewDecoder(r.Body).Decode(&body)
	switch {
	case err == nil:
		plan = &body
	case errors.Is(err, io.EOF):
		// Empty body: fall back to the pending plan.
	default:
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if plan == nil {
		plan = s.pendingPlan
	}
	if plan == nil {
		s.writeError(w, http.StatusBadRequest, "no rebalance plan to execute")
		return
	}

	if err := s.portfolio.ExecuteRebalancePlan(*plan); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.pendingPlan = nil

	s.writeJSON(w, http.StatusOK, s.portfolio.AllocationReport())
}

// handleReset restores the construction-time targets and clears holdings
// and any pending plan.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.portfolio.SetTargetAllocation(s.initialTarget); err != nil {
		s.writeEngineError(w, err)
		return
	}
	if err := s.portfolio.ReplaceHoldings(nil); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.pendingPlan = nil

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
