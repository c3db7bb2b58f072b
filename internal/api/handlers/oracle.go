package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/verdana-labs/esgbridge/internal/oracle"
	"github.com/verdana-labs/esgbridge/internal/realtime"
	"github.com/verdana-labs/esgbridge/pkg/logger"
)

// OracleHandler serves the provider registry and score ledger endpoints.
type OracleHandler struct {
	registry *oracle.Registry
	ledger   *oracle.Ledger
	hub      *realtime.Hub
	logger   *logger.Logger
}

// NewOracleHandler creates a new oracle handler.
func NewOracleHandler(registry *oracle.Registry, ledger *oracle.Ledger, hub *realtime.Hub, log *logger.Logger) *OracleHandler {
	return &OracleHandler{
		registry: registry,
		ledger:   ledger,
		hub:      hub,
		logger:   log,
	}
}

// RegisterRequest registers a score provider.
type RegisterRequest struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Register creates a provider record.
// POST /api/providers
func (h *OracleHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.registry.Register(oracle.Address(req.Address), req.Name); err != nil {
		respondOracleError(w, err)
		return
	}

	provider, _ := h.registry.Provider(oracle.Address(req.Address))
	respondJSON(w, http.StatusCreated, provider)
}

// GetProvider returns a provider record.
// GET /api/providers/{id}
func (h *OracleHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	id := oracle.Address(mux.Vars(r)["id"])

	provider, ok := h.registry.Provider(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Provider not found")
		return
	}

	respondJSON(w, http.StatusOK, provider)
}

// CallerRequest carries the caller identity for admin operations.
type CallerRequest struct {
	Caller string `json:"caller"`
}

// Activate marks a provider active.
// POST /api/providers/{id}/activate
func (h *OracleHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setProviderState(w, r, h.registry.Activate)
}

// Deactivate marks a provider inactive.
// POST /api/providers/{id}/deactivate
func (h *OracleHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setProviderState(w, r, h.registry.Deactivate)
}

func (h *OracleHandler) setProviderState(w http.ResponseWriter, r *http.Request, op func(caller, provider oracle.Address) error) {
	id := oracle.Address(mux.Vars(r)["id"])

	var req CallerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := op(oracle.Address(req.Caller), id); err != nil {
		respondOracleError(w, err)
		return
	}

	provider, _ := h.registry.Provider(id)
	respondJSON(w, http.StatusOK, provider)
}

// AuthorizationRequest toggles ledger-side write permission for a provider.
type AuthorizationRequest struct {
	Caller     string `json:"caller"`
	Provider   string `json:"provider"`
	Authorized bool   `json:"authorized"`
}

// SetAuthorization toggles the ledger authorization flag.
// POST /api/oracle/authorization
func (h *OracleHandler) SetAuthorization(w http.ResponseWriter, r *http.Request) {
	var req AuthorizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.ledger.SetProviderAuthorization(
		oracle.Address(req.Caller), oracle.Address(req.Provider), req.Authorized)
	if err != nil {
		respondOracleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"provider":   req.Provider,
		"authorized": req.Authorized,
	})
}

// UpdateScoreRequest submits a fresh score for an entity.
type UpdateScoreRequest struct {
	Entity        string `json:"entity"`
	Environmental int    `json:"environmental"`
	Social        int    `json:"social"`
	Governance    int    `json:"governance"`
	Caller        string `json:"caller"`
}

// UpdateScore replaces the entity's score record.
// POST /api/oracle/scores
func (h *OracleHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	var req UpdateScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.ledger.UpdateScore(
		oracle.Address(req.Entity),
		req.Environmental, req.Social, req.Governance,
		oracle.Address(req.Caller),
	)
	if err != nil {
		respondOracleError(w, err)
		return
	}

	record, _ := h.ledger.GetScore(oracle.Address(req.Entity))
	h.hub.PublishScoreUpdate(record)

	respondJSON(w, http.StatusOK, record)
}

// ScoreResponse returns a ledger record with derived values.
type ScoreResponse struct {
	Record    *oracle.ScoreRecord `json:"record,omitempty"`
	Composite int                 `json:"composite"`
	Valid     bool                `json:"valid"`
}

// GetScore returns the entity's current record, composite score and
// freshness. The max_age query parameter overrides the configured window;
// "0" disables the freshness check.
// GET /api/oracle/scores/{entity}?max_age=24h
func (h *OracleHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	entity := oracle.Address(mux.Vars(r)["entity"])

	maxAge := time.Duration(0)
	if raw := r.URL.Query().Get("max_age"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid max_age")
			return
		}
		maxAge = parsed
	}

	resp := ScoreResponse{
		Composite: h.ledger.CompositeScore(entity),
		Valid:     h.ledger.HasValidScore(entity, maxAge),
	}
	if record, ok := h.ledger.GetScore(entity); ok {
		resp.Record = &record
	}

	respondJSON(w, http.StatusOK, resp)
}

// respondOracleError maps registry/ledger errors onto HTTP status codes.
func respondOracleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, oracle.ErrUnauthorized):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, oracle.ErrAlreadyRegistered), errors.Is(err, oracle.ErrInvalidState):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, oracle.ErrEmptyName), errors.Is(err, oracle.ErrOutOfRange):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
