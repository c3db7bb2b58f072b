package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/verdana-labs/esgbridge/internal/compliance"
	"github.com/verdana-labs/esgbridge/internal/esg"
	"github.com/verdana-labs/esgbridge/internal/iso20022"
	"github.com/verdana-labs/esgbridge/pkg/logger"
)

// ESGHandler serves the stateless classification pipeline: score
// aggregation, compliance validation and SETR message assembly.
type ESGHandler struct {
	calculator *esg.Calculator
	withCarbon bool
	logger     *logger.Logger
}

// NewESGHandler creates a new ESG handler.
func NewESGHandler(calculator *esg.Calculator, withCarbon bool, log *logger.Logger) *ESGHandler {
	return &ESGHandler{
		calculator: calculator,
		withCarbon: withCarbon,
		logger:     log,
	}
}

// ClassifyRequest carries raw sub-scores and the instrument to classify.
type ClassifyRequest struct {
	Environmental float64             `json:"environmental"`
	Social        float64             `json:"social"`
	Governance    float64             `json:"governance"`
	Instrument    iso20022.Instrument `json:"instrument"`
}

// ClassifyResponse returns the derived score, classification and message.
type ClassifyResponse struct {
	Score           esg.Score               `json:"score"`
	InvestmentGrade bool                    `json:"investment_grade"`
	Classification  iso20022.Classification `json:"classification"`
	Message         string                  `json:"message"`
}

// Classify runs the calculator, classifier and regulatory bridge end to end.
// POST /api/esg/classify
func (h *ESGHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	score := h.calculator.Calculate(req.Environmental, req.Social, req.Governance)
	classification := iso20022.Classify(score, h.withCarbon)
	message := iso20022.BuildMessage(req.Instrument, classification)

	respondJSON(w, http.StatusOK, ClassifyResponse{
		Score:           score,
		InvestmentGrade: score.IsInvestmentGrade(),
		Classification:  classification,
		Message:         message,
	})
}

// ValidateRequest carries sub-scores, a minimum total and an optional rule
// catalog.
type ValidateRequest struct {
	Environmental float64           `json:"environmental"`
	Social        float64           `json:"social"`
	Governance    float64           `json:"governance"`
	MinScore      int               `json:"min_score"`
	Rules         []compliance.Rule `json:"rules,omitempty"`
}

// ValidateResponse returns per-rule results and the aggregate status.
type ValidateResponse struct {
	Score   esg.Score           `json:"score"`
	Results []compliance.Result `json:"results"`
	Overall compliance.Status   `json:"overall"`
}

// Validate evaluates a score against the minimum threshold and rule catalog.
// POST /api/esg/validate
func (h *ESGHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	score := h.calculator.Calculate(req.Environmental, req.Social, req.Governance)

	results := []compliance.Result{compliance.ValidateESG(score, req.MinScore)}
	if len(req.Rules) > 0 {
		results = append(results, compliance.ValidateAll(score, req.Rules, time.Now())...)
	}

	respondJSON(w, http.StatusOK, ValidateResponse{
		Score:   score,
		Results: results,
		Overall: compliance.OverallStatus(results),
	})
}
