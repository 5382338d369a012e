package delivery

import (
	"net/http"

	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
)

type MediaPlanHandler struct {
	plans ports.MediaPlanService
	log   *logger.ZapLogger
}

func NewMediaPlanHandler(plans ports.MediaPlanService, log *logger.ZapLogger) *MediaPlanHandler {
	return &MediaPlanHandler{plans: plans, log: log}
}

// GET /api/campaigns/{id}/media-plan
func (h *MediaPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	plan, err := h.plans.Get(r.Context(), principal(r), id)
	if err != nil {
		fail(w, h.log, "get media plan failed", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// POST /api/campaigns/{id}/media-plan/phases
func (h *MediaPlanHandler) AddPhase(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var in ports.PhaseInput
	if !decode(w, r, &in) {
		return
	}

	phase, err := h.plans.AddPhase(r.Context(), principal(r), id, in)
	if err != nil {
		fail(w, h.log, "add phase failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, phase)
}

// POST /api/campaigns/{id}/media-plan/phases/{phaseID}/items
func (h *MediaPlanHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	phaseID, ok := urlID(w, r, "phaseID")
	if !ok {
		return
	}
	var in ports.ItemInput
	if !decode(w, r, &in) {
		return
	}

	item, err := h.plans.AddItem(r.Context(), principal(r), id, phaseID, in)
	if err != nil {
		fail(w, h.log, "add media plan item failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// POST /api/campaigns/{id}/media-plan/audiences
func (h *MediaPlanHandler) AddAudience(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var in ports.AudienceInput
	if !decode(w, r, &in) {
		return
	}

	a, err := h.plans.AddAudience(r.Context(), principal(r), id, in)
	if err != nil {
		fail(w, h.log, "add audience failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}
