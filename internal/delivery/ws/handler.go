package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/domain"
	"github.com/Vovarama1992/cinecampaign/internal/metrics"
	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
)

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (models.Principal, error)
}

type AccessChecker interface {
	CheckAccess(ctx context.Context, p models.Principal, id uuid.UUID) error
}

// WSHandler authenticates by ?token= (browsers cannot set X-Auth on a
// websocket handshake), joins the caller's rooms and then just drains reads
// until the client goes away. Events only flow server to client.
func WSHandler(hub *Hub, auth TokenValidator, campaigns AccessChecker, log *logger.ZapLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := auth.ValidateToken(r.Context(), r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		var rooms []string
		if p.IsAdmin() {
			rooms = append(rooms, AdminRoom)
		} else {
			rooms = append(rooms, DistributorRoom(p.DistributorID))
		}

		if raw := r.URL.Query().Get("campaignID"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "invalid campaignID", http.StatusBadRequest)
				return
			}
			if err := campaigns.CheckAccess(r.Context(), p, id); err != nil {
				switch {
				case errors.Is(err, domain.ErrNotFound):
					http.Error(w, err.Error(), http.StatusNotFound)
				case errors.Is(err, domain.ErrForbidden):
					http.Error(w, err.Error(), http.StatusForbidden)
				default:
					log.Log(logger.LogEntry{Level: "error", Message: "[WS] access check failed", Error: err})
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
				return
			}
			rooms = append(rooms, CampaignRoom(id))
		}

		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already written the error response
			return
		}
		conn.SetReadLimit(4096)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		hub.Register(conn, rooms...)
		metrics.WSConnections.Inc()
		log.Log(logger.LogEntry{
			Level:   "info",
			Message: "[WS] start",
			Fields:  map[string]any{"userID": p.UserID.String(), "rooms": rooms},
		})

		defer func() {
			hub.Unregister(conn)
			metrics.WSConnections.Dec()
			log.Log(logger.LogEntry{
				Level:   "info",
				Message: "[WS] end",
				Fields:  map[string]any{"userID": p.UserID.String()},
			})
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
