package delivery

import (
	"net/http"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
)

type FilmHandler struct {
	films ports.FilmService
	log   *logger.ZapLogger
}

func NewFilmHandler(films ports.FilmService, log *logger.ZapLogger) *FilmHandler {
	return &FilmHandler{films: films, log: log}
}

// GET /api/films
func (h *FilmHandler) List(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.ListFilms(r.Context(), principal(r))
	if err != nil {
		fail(w, h.log, "list films failed", err)
		return
	}
	if films == nil {
		films = []models.Film{}
	}
	writeJSON(w, http.StatusOK, films)
}

// POST /api/films
func (h *FilmHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in ports.FilmInput
	if !decode(w, r, &in) {
		return
	}

	f, err := h.films.CreateFilm(r.Context(), principal(r), in)
	if err != nil {
		fail(w, h.log, "create film failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// GET /api/films/{id}
func (h *FilmHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	f, err := h.films.GetFilm(r.Context(), principal(r), id)
	if err != nil {
		fail(w, h.log, "get film failed", err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// PUT /api/films/{id}
func (h *FilmHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var in ports.FilmInput
	if !decode(w, r, &in) {
		return
	}

	f, err := h.films.UpdateFilm(r.Context(), principal(r), id, in)
	if err != nil {
		fail(w, h.log, "update film failed", err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// DELETE /api/films/{id}
func (h *FilmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.films.DeleteFilm(r.Context(), principal(r), id); err != nil {
		fail(w, h.log, "delete film failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/films/{id}/proposals
func (h *FilmHandler) Propose(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var changes models.FilmChanges
	if !decode(w, r, &changes) {
		return
	}
	prop, err := h.films.ProposeEdit(r.Context(), principal(r), id, changes)
	if err != nil {
		fail(w, h.log, "propose film edit failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, prop)
}

// GET /api/admin/proposals?status=pending
func (h *FilmHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	status := models.ProposalStatus(r.URL.Query().Get("status"))

	list, err := h.films.ListProposals(r.Context(), principal(r), status)
	if err != nil {
		fail(w, h.log, "list proposals failed", err)
		return
	}
	if list == nil {
		list = []models.FilmEditProposal{}
	}
	writeJSON(w, http.StatusOK, list)
}

// POST /api/admin/proposals/{id}/approve
func (h *FilmHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true)
}

// POST /api/admin/proposals/{id}/reject
func (h *FilmHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false)
}

func (h *FilmHandler) review(w http.ResponseWriter, r *http.Request, approve bool) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Note string `json:"note" validate:"max=2000"`
	}
	// the note is optional, so an empty body is fine
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}

	prop, err := h.films.ReviewProposal(r.Context(), principal(r), id, approve, req.Note)
	if err != nil {
		fail(w, h.log, "review proposal failed", err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "proposal reviewed",
		Fields:  map[string]any{"proposalID": id.String(), "status": string(prop.Status)},
	})
	writeJSON(w, http.StatusOK, prop)
}
