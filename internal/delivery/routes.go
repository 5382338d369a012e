package delivery

import (
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

type Handlers struct {
	Auth      *AuthHandler
	Films     *FilmHandler
	Campaigns *CampaignHandler
	Chat      *ChatHandler
	MediaPlan *MediaPlanHandler
	Tools     *ToolsHandler
}

func RegisterRoutes(r chi.Router, h Handlers, auth ports.AuthService, loginPerMinute int) {

	// public, rate limited per IP
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(loginPerMinute, time.Minute))
		r.Post("/api/auth/register", h.Auth.Register)
		r.Post("/api/auth/login", h.Auth.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(auth))

		r.Get("/api/me", h.Auth.Me)

		// films
		r.Get("/api/films", h.Films.List)
		r.Post("/api/films", h.Films.Create)
		r.Get("/api/films/{id}", h.Films.Get)
		r.Put("/api/films/{id}", h.Films.Update)
		r.Delete("/api/films/{id}", h.Films.Delete)
		r.Post("/api/films/{id}/proposals", h.Films.Propose)

		// campaigns
		r.Get("/api/campaigns", h.Campaigns.List)
		r.Post("/api/campaigns", h.Campaigns.Create)
		r.Get("/api/campaigns/{id}", h.Campaigns.Get)
		r.Put("/api/campaigns/{id}", h.Campaigns.Update)
		r.Delete("/api/campaigns/{id}", h.Campaigns.Delete)
		r.Post("/api/campaigns/{id}/submit", h.Campaigns.Submit)
		r.Post("/api/campaigns/{id}/transition", h.Campaigns.Transition)
		r.Get("/api/campaigns/{id}/cost", h.Campaigns.Cost)
		r.Get("/api/campaigns/{id}/conflicts", h.Campaigns.Conflicts)
		r.Get("/api/campaigns/{id}/assets", h.Campaigns.ListAssets)
		r.Post("/api/campaigns/{id}/assets", h.Campaigns.AddAsset)
		r.Delete("/api/assets/{id}", h.Campaigns.DeleteAsset)

		// chat
		r.Get("/api/campaigns/{id}/messages", h.Chat.List)
		r.Post("/api/campaigns/{id}/messages", h.Chat.Post)
		r.Post("/api/campaigns/{id}/messages/read", h.Chat.MarkRead)
		r.Get("/api/notifications/unread", h.Chat.Unread)

		// media plan
		r.Get("/api/campaigns/{id}/media-plan", h.MediaPlan.Get)
		r.Post("/api/campaigns/{id}/media-plan/phases", h.MediaPlan.AddPhase)
		r.Post("/api/campaigns/{id}/media-plan/phases/{phaseID}/items", h.MediaPlan.AddItem)
		r.Post("/api/campaigns/{id}/media-plan/audiences", h.MediaPlan.AddAudience)

		// calculators
		r.Post("/api/quote", h.Tools.Quote)
		r.Post("/api/conflicts/check", h.Tools.CheckConflicts)
		r.Get("/api/strategy", h.Tools.Strategy)
		r.Get("/api/dashboard", h.Tools.Dashboard)

		// admin
		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/api/admin/proposals", h.Films.ListProposals)
			r.Post("/api/admin/proposals/{id}/approve", h.Films.Approve)
			r.Post("/api/admin/proposals/{id}/reject", h.Films.Reject)
			r.Put("/api/admin/campaigns/{id}/price", h.Campaigns.SetPrice)
			r.Put("/api/admin/campaigns/{id}/media-plan-status", h.Campaigns.SetMediaPlanStatus)
			r.Put("/api/admin/campaigns/{id}/report-status", h.Campaigns.SetReportStatus)
		})
	})
}
