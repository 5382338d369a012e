package delivery

import (
	"net/http"
	"strings"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/shopspring/decimal"
)

type CampaignHandler struct {
	campaigns ports.CampaignService
	log       *logger.ZapLogger
}

func NewCampaignHandler(campaigns ports.CampaignService, log *logger.ZapLogger) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, log: log}
}

// GET /api/campaigns?status=review,approved
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	var statuses []models.CampaignStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			st := models.CampaignStatus(strings.TrimSpace(s))
			if !st.Valid() {
				http.Error(w, "invalid status "+string(st), http.StatusBadRequest)
				return
			}
			statuses = append(statuses, st)
		}
	}

	list, err := h.campaigns.ListCampaigns(r.Context(), principal(r), statuses)
	if err != nil {
		fail(w, h.log, "list campaigns failed", err)
		return
	}
	if list == nil {
		list = []models.Campaign{}
	}
	writeJSON(w, http.StatusOK, list)
}

// POST /api/campaigns
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in ports.CampaignInput
	if !decode(w, r, &in) {
		return
	}

	c, err := h.campaigns.CreateCampaign(r.Context(), principal(r), in)
	if err != nil {
		fail(w, h.log, "create campaign failed", err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "campaign created",
		Fields:  map[string]any{"campaignID": c.ID.String(), "filmID": c.FilmID.String()},
	})
	writeJSON(w, http.StatusCreated, c)
}

// GET /api/campaigns/{id}
func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.campaigns.GetCampaign(r.Context(), principal(r), id)
	if err != nil {
		fail(w, h.log, "get campaign failed", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// PUT /api/campaigns/{id}
func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var in ports.CampaignInput
	if !decode(w, r, &in) {
		return
	}

	c, err := h.campaigns.UpdateCampaign(r.Context(), principal(r), id, in)
	if err != nil {
		fail(w, h.log, "update campaign failed", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DELETE /api/campaigns/{id}
func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.campaigns.DeleteCampaign(r.Context(), principal(r), id); err != nil {
		fail(w, h.log, "delete campaign failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/campaigns/{id}/submit
func (h *CampaignHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	res, err := h.campaigns.Submit(r.Context(), principal(r), id)
	if err != nil {
		fail(w, h.log, "submit campaign failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/campaigns/{id}/transition
func (h *CampaignHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		To   models.CampaignStatus `json:"to" validate:"required"`
		Note string                `json:"note" validate:"max=2000"`
	}
	if !decode(w, r, &req) {
		return
	}

	c, err := h.campaigns.Transition(r.Context(), principal(r), id, req.To, req.Note)
	if err != nil {
		fail(w, h.log, "transition failed", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GET /api/campaigns/{id}/cost
func (h *CampaignHandler) Cost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	est, err := h.campaigns.Cost(r.Context(), principal(r), id)
	if err != nil {
		fail(w, h.log, "cost failed", err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

// GET /api/campaigns/{id}/conflicts
func (h *CampaignHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	list, err := h.campaigns.Conflicts(r.Context(), principal(r), id)
	if err != nil {
		fail(w, h.log, "conflicts failed", err)
		return
	}
	if list == nil {
		list = []models.CampaignConflict{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /api/campaigns/{id}/assets
func (h *CampaignHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	list, err := h.campaigns.ListAssets(r.Context(), principal(r), id)
	if err != nil {
		fail(w, h.log, "list assets failed", err)
		return
	}
	if list == nil {
		list = []models.CampaignAsset{}
	}
	writeJSON(w, http.StatusOK, list)
}

// POST /api/campaigns/{id}/assets
func (h *CampaignHandler) AddAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var in ports.AssetInput
	if !decode(w, r, &in) {
		return
	}

	a, err := h.campaigns.AddAsset(r.Context(), principal(r), id, in)
	if err != nil {
		fail(w, h.log, "add asset failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// DELETE /api/assets/{id}
func (h *CampaignHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.campaigns.DeleteAsset(r.Context(), principal(r), id); err != nil {
		fail(w, h.log, "delete asset failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/admin/campaigns/{id}/price
func (h *CampaignHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		FinalPrice decimal.Decimal `json:"final_price"`
		AdminNotes string          `json:"admin_notes" validate:"max=5000"`
	}
	if !decode(w, r, &req) {
		return
	}

	c, err := h.campaigns.SetPrice(r.Context(), principal(r), id, req.FinalPrice, req.AdminNotes)
	if err != nil {
		fail(w, h.log, "set price failed", err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "campaign priced",
		Fields:  map[string]any{"campaignID": id.String(), "price": req.FinalPrice.StringFixed(2)},
	})
	writeJSON(w, http.StatusOK, c)
}

// PUT /api/admin/campaigns/{id}/media-plan-status
func (h *CampaignHandler) SetMediaPlanStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.MediaPlanStatus `json:"status" validate:"required"`
	}
	if !decode(w, r, &req) {
		return
	}

	if err := h.campaigns.SetMediaPlanStatus(r.Context(), principal(r), id, req.Status); err != nil {
		fail(w, h.log, "set media plan status failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/admin/campaigns/{id}/report-status
func (h *CampaignHandler) SetReportStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.ReportStatus `json:"status" validate:"required"`
	}
	if !decode(w, r, &req) {
		return
	}

	if err := h.campaigns.SetReportStatus(r.Context(), principal(r), id, req.Status); err != nil {
		fail(w, h.log, "set report status failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
