package delivery

import (
	"net/http"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
)

type ChatHandler struct {
	chat ports.ChatService
	log  *logger.ZapLogger
}

func NewChatHandler(chat ports.ChatService, log *logger.ZapLogger) *ChatHandler {
	return &ChatHandler{chat: chat, log: log}
}

// GET /api/campaigns/{id}/messages
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	list, err := h.chat.List(r.Context(), principal(r), id)
	if err != nil {
		fail(w, h.log, "list messages failed", err)
		return
	}
	if list == nil {
		list = []models.CampaignMessage{}
	}
	writeJSON(w, http.StatusOK, list)
}

// POST /api/campaigns/{id}/messages
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Body string `json:"body" validate:"required"`
	}
	if !decode(w, r, &req) {
		return
	}

	msg, err := h.chat.Post(r.Context(), principal(r), id, req.Body)
	if err != nil {
		fail(w, h.log, "post message failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// POST /api/campaigns/{id}/messages/read
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	n, err := h.chat.MarkRead(r.Context(), principal(r), id)
	if err != nil {
		fail(w, h.log, "mark read failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"marked": n})
}

// GET /api/notifications/unread
func (h *ChatHandler) Unread(w http.ResponseWriter, r *http.Request) {
	counts, err := h.chat.Unread(r.Context(), principal(r))
	if err != nil {
		fail(w, h.log, "unread counts failed", err)
		return
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if counts == nil {
		counts = []models.UnreadCount{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":     total,
		"campaigns": counts,
	})
}
