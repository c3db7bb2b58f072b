package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/verdana-labs/esgbridge/internal/oracle"
	"github.com/verdana-labs/esgbridge/internal/token"
	"github.com/verdana-labs/esgbridge/pkg/logger"
)

// TokenHandler serves the issuance gate endpoints.
type TokenHandler struct {
	gate         *token.Gate
	minMintScore int
	logger       *logger.Logger
}

// NewTokenHandler creates a new token handler. minMintScore is the default
// composite score requirement; requests may raise but not lower it.
func NewTokenHandler(gate *token.Gate, minMintScore int, log *logger.Logger) *TokenHandler {
	return &TokenHandler{
		gate:         gate,
		minMintScore: minMintScore,
		logger:       log,
	}
}

// MintRequest asks for a score-gated token issuance.
type MintRequest struct {
	Entity    string `json:"entity"`
	Amount    int64  `json:"amount"`
	AuditID   string `json:"audit_id"`
	AuditHash string `json:"audit_hash"`

	// MinRequired overrides the configured threshold when stricter.
	MinRequired int `json:"min_required,omitempty"`
}

// Mint issues tokens against the entity's current ledger score.
// POST /api/token/mint
func (h *TokenHandler) Mint(w http.ResponseWriter, r *http.Request) {
	var req MintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	minRequired := h.minMintScore
	if req.MinRequired > minRequired {
		minRequired = req.MinRequired
	}

	record, err := h.gate.MintWithScore(
		oracle.Address(req.Entity), req.Amount, req.AuditID, req.AuditHash, minRequired)
	if err != nil {
		respondTokenError(w, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"entity":      req.Entity,
		"issuance_id": record.IssuanceID,
		"amount":      req.Amount,
	}).Info("Tokens minted")

	respondJSON(w, http.StatusCreated, record)
}

// GetIssuance returns the immutable record for an issuance id.
// GET /api/token/issuances/{id}
func (h *TokenHandler) GetIssuance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid issuance id")
		return
	}

	record, ok := h.gate.GetIssuance(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Issuance not found")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// GetBalance returns an entity's token balance.
// GET /api/token/balances/{entity}
func (h *TokenHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	entity := mux.Vars(r)["entity"]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entity":  entity,
		"balance": h.gate.BalanceOf(oracle.Address(entity)),
	})
}

// respondTokenError maps gate errors onto HTTP status codes.
func respondTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, token.ErrInvalidAmount), errors.Is(err, token.ErrMissingAuditHash):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, token.ErrNoScoreFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, token.ErrBelowMinimum):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
