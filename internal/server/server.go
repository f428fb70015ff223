// Package server exposes the calculation engine over a JSON HTTP API. The
// engine itself stays pure; this layer owns decoding, validation error
// mapping, response caching and logging.
package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/planwell/fincore/internal/calculation"
	"github.com/planwell/fincore/internal/domain"
	"github.com/planwell/fincore/internal/solve"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type handler struct {
	logger  *zap.Logger
	cache   Cache
	version string
}

// NewHandler constructs the HTTP handler serving the calculator API.
func NewHandler(logger *zap.Logger, cache Cache, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if version == "" {
		version = "dev"
	}

	h := &handler{logger: logger, cache: cache, version: version}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tvm/fv", h.handleFutureValue)
	mux.HandleFunc("POST /api/tvm/solve", h.handleTVMSolve)
	mux.HandleFunc("POST /api/loan/schedule", h.handleLoanSchedule)
	mux.HandleFunc("POST /api/loan/solve", h.handleLoanSolve)
	mux.HandleFunc("POST /api/retirement/simulate", h.handleSimulate)
	mux.HandleFunc("GET /api/version", h.handleVersion)
	return mux
}

// errorPayload is the JSON shape of an engine validation failure.
type errorPayload struct {
	Kind    string   `json:"kind"`
	Fields  []string `json:"fields,omitempty"`
	PlanID  string   `json:"planId,omitempty"`
	Message string   `json:"message,omitempty"`
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps engine validation failures to 422 and everything else
// to 400, always with a structured body the caller can act on.
func (h *handler) writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]errorPayload{"error": {
			Kind:    string(verr.Kind),
			Fields:  verr.Fields,
			PlanID:  verr.PlanID,
			Message: verr.Message,
		}})
		return
	}
	h.writeJSON(w, http.StatusBadRequest, map[string]errorPayload{"error": {
		Kind:    "bad_request",
		Message: err.Error(),
	}})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

func (h *handler) handleFutureValue(w http.ResponseWriter, r *http.Request) {
	var in domain.TVMInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, err)
		return
	}
	res, err := calculation.FutureValue(in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

type tvmSolveRequest struct {
	Input  domain.TVMInput `json:"input"`
	Solve  string          `json:"solve"`
	Target decimal.Decimal `json:"targetFutureValue"`
}

func (h *handler) handleTVMSolve(w http.ResponseWriter, r *http.Request) {
	var req tvmSolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, err)
		return
	}

	var res domain.SolveResult
	var err error
	switch req.Solve {
	case "principal":
		res, err = solve.SolvePrincipal(req.Input, req.Target)
	case "contribution":
		res, err = solve.SolveContribution(req.Input, req.Target)
	case "years":
		res, err = solve.SolveYears(req.Input, req.Target)
	case "annual_rate":
		res, err = solve.SolveAnnualRate(req.Input, req.Target)
	default:
		h.writeError(w, domain.NewInvalidRangeError("solve must be principal, contribution, years or annual_rate"))
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *handler) handleLoanSchedule(w http.ResponseWriter, r *http.Request) {
	var in domain.LoanInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, err)
		return
	}
	rows, err := calculation.BuildSchedule(in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"schedule": rows})
}

type loanSolveRequest struct {
	Input         domain.LoanInput `json:"input"`
	Solve         string           `json:"solve"`
	TargetPayment decimal.Decimal  `json:"targetPayment"`
}

func (h *handler) handleLoanSolve(w http.ResponseWriter, r *http.Request) {
	var req loanSolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, err)
		return
	}

	var res domain.LoanSolveResult
	var err error
	switch req.Solve {
	case "amount":
		res, err = solve.SolveLoanAmount(req.Input, req.TargetPayment)
	case "term":
		res, err = solve.SolveLoanTerm(req.Input, req.TargetPayment)
	case "rate":
		res, err = solve.SolveLoanRate(req.Input, req.TargetPayment)
	default:
		h.writeError(w, domain.NewInvalidRangeError("solve must be amount, term or rate"))
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.writeError(w, err)
		return
	}

	digest := sha256.Sum256(raw)
	key := "fincore:simulate:" + hex.EncodeToString(digest[:])
	if cached, ok := h.cache.Get(r.Context(), key); ok {
		h.logger.Debug("simulation cache hit", zap.String("key", key))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(cached); err != nil {
			h.logger.Error("failed to write cached response", zap.Error(err))
		}
		return
	}

	var in domain.SimulationInput
	if err := json.Unmarshal(raw, &in); err != nil {
		h.writeError(w, err)
		return
	}
	res, err := calculation.RunSimulation(in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	body, err := json.Marshal(res)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.cache.Set(r.Context(), key, body); err != nil {
		h.logger.Warn("failed to cache simulation result", zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
