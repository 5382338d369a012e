package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/delivery"
	"github.com/Vovarama1992/cinecampaign/internal/delivery/ws"
	"github.com/Vovarama1992/cinecampaign/internal/domain"
	"github.com/Vovarama1992/cinecampaign/internal/infra"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP and websocket server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, zl, sync, err := bootstrap()
	if err != nil {
		return err
	}
	defer sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// POSTGRES
	pool, err := infra.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	applied, err := infra.Migrate(ctx, pool)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "migrations applied",
			Fields:  map[string]any{"files": applied},
		})
	}

	// REPOS
	users := infra.NewPostgresUserRepo(pool)
	films := infra.NewPostgresFilmRepo(pool)
	campaigns := infra.NewPostgresCampaignRepo(pool)
	messages := infra.NewPostgresMessageRepo(pool)
	plans := infra.NewPostgresMediaPlanRepo(pool)
	events := infra.NewPgPublisher(pool, cfg.NotifyChannel)

	// MAIL
	var mailer ports.Mailer = infra.NewLogMailer(zl)
	if cfg.MailEnabled() {
		mailer = infra.NewHTTPMailer(cfg.MailAPIKey, cfg.MailAPIURL, cfg.MailFrom, zl)
	}
	notifier := domain.NewNotifier(mailer, users, cfg.AdminEmail, zl)

	// SERVICES
	authService := domain.NewAuthService(users, cfg.AuthSecret, cfg.TokenTTL)
	filmService := domain.NewFilmService(films, films, zl)
	campaignService := domain.NewCampaignService(campaigns, films, campaigns, events, notifier, zl)
	chatService := domain.NewChatService(messages, campaigns, events, notifier, zl)
	planService := domain.NewMediaPlanService(plans, campaigns)
	dashboardService := domain.NewDashboardService(campaigns)

	scheduler := domain.NewLifecycleScheduler(campaignService, cfg.SchedulerInterval, zl)

	// WS HUB, fed from LISTEN so every instance sees every event
	hub := ws.NewHub(zl)
	listener := infra.NewPgListener(cfg.DatabaseURL, cfg.NotifyChannel, zl)

	// ROUTER
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(delivery.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Auth"},
		AllowCredentials: true,
	}))

	delivery.RegisterRoutes(r, delivery.Handlers{
		Auth:      delivery.NewAuthHandler(authService, zl),
		Films:     delivery.NewFilmHandler(filmService, zl),
		Campaigns: delivery.NewCampaignHandler(campaignService, zl),
		Chat:      delivery.NewChatHandler(chatService, zl),
		MediaPlan: delivery.NewMediaPlanHandler(planService, zl),
		Tools:     delivery.NewToolsHandler(campaignService, dashboardService, zl),
	}, authService, cfg.LoginRatePerMinute)

	r.Get("/ws", ws.WSHandler(hub, authService, campaignService, zl))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scheduler.Run(gctx)
		return nil
	})

	g.Go(func() error {
		return listener.Run(gctx)
	})

	// BROADCAST
	g.Go(func() error {
		for ev := range listener.Events() {
			hub.BroadcastEvent(ev)
		}
		return nil
	})

	g.Go(func() error {
		zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "server started",
			Fields:  map[string]any{"port": cfg.Port},
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "server crashed",
			Error:   err,
		})
		return err
	}

	zl.Log(logger.LogEntry{Level: "info", Message: "server stopped"})
	return nil
}
