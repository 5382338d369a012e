package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/domain/rules"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ToolsHandler serves the calculators that work on unsaved input.
type ToolsHandler struct {
	campaigns ports.CampaignService
	dashboard ports.DashboardService
	log       *logger.ZapLogger
}

func NewToolsHandler(campaigns ports.CampaignService, dashboard ports.DashboardService, log *logger.ZapLogger) *ToolsHandler {
	return &ToolsHandler{campaigns: campaigns, dashboard: dashboard, log: log}
}

// POST /api/quote
func (h *ToolsHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var in rules.CostInput
	if !decode(w, r, &in) {
		return
	}

	est, err := rules.EstimateCost(in)
	if err != nil {
		fail(w, h.log, "quote failed", err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

type conflictCheckRequest struct {
	// CampaignID excludes the campaign itself when re-checking a saved one.
	CampaignID       uuid.UUID `json:"campaign_id"`
	FilmTitle        string    `json:"film_title"`
	Genres           []string  `json:"genres" validate:"required,min=1"`
	StartDate        time.Time `json:"start_date" validate:"required"`
	AudienceKeywords []string  `json:"audience_keywords"`
	Territories      []string  `json:"territories"`
}

// POST /api/conflicts/check
func (h *ToolsHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	var req conflictCheckRequest
	if !decode(w, r, &req) {
		return
	}

	matches, err := h.campaigns.PreviewConflicts(r.Context(), rules.CampaignProfile{
		CampaignID:       req.CampaignID,
		FilmTitle:        req.FilmTitle,
		Genres:           req.Genres,
		StartDate:        req.StartDate,
		AudienceKeywords: req.AudienceKeywords,
		Territories:      req.Territories,
	})
	if err != nil {
		fail(w, h.log, "conflict check failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"level":     rules.HighestLevel(matches),
		"conflicts": matches,
	})
}

// GET /api/strategy?release_size=wide&genre=horror&budget=200000
func (h *ToolsHandler) Strategy(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s, err := rules.Recommend(q.Get("release_size"), q.Get("genre"))
	if err != nil {
		fail(w, h.log, "strategy failed", err)
		return
	}

	budget := s.SuggestedBudget
	if raw := q.Get("budget"); raw != "" {
		b, err := decimal.NewFromString(raw)
		if err != nil || b.IsNegative() {
			http.Error(w, "invalid budget", http.StatusBadRequest)
			return
		}
		budget = b
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"strategy":   s,
		"budget":     budget,
		"allocation": s.Allocate(budget),
	})
}

// GET /api/dashboard
func (h *ToolsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard.Dashboard(r.Context(), principal(r))
	if err != nil {
		fail(w, h.log, "dashboard failed", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
