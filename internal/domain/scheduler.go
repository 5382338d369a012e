package domain

import (
	"context"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/go-utils/logger"
)

// LifecycleScheduler moves approved campaigns to active on their start date
// and active campaigns to finished once their end date has passed.
type LifecycleScheduler struct {
	svc      *CampaignService
	interval time.Duration
	log      *logger.ZapLogger
	now      func() time.Time
}

func NewLifecycleScheduler(svc *CampaignService, interval time.Duration, log *logger.ZapLogger) *LifecycleScheduler {
	return &LifecycleScheduler{
		svc:      svc,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// ========================================================================
// LOOP
// ========================================================================
func (s *LifecycleScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "[SCHED][START]",
		Fields:  map[string]any{"interval": s.interval.String()},
	})

	s.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Log(logger.LogEntry{Level: "info", Message: "[SCHED][STOP]"})
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// ========================================================================
// ONE TICK
// ========================================================================

// Tick runs a single activation/finish pass and reports how many campaigns moved.
func (s *LifecycleScheduler) Tick(ctx context.Context) (activated, finished int) {
	today := dateOnly(s.now().UTC())

	due, err := s.svc.campaigns.DueForActivation(ctx, today)
	if err != nil {
		s.fail("activation query", err)
	}
	for i := range due {
		if s.advance(ctx, &due[i], models.StatusActive) {
			activated++
		}
	}

	done, err := s.svc.campaigns.DueForFinish(ctx, today)
	if err != nil {
		s.fail("finish query", err)
	}
	for i := range done {
		if s.advance(ctx, &done[i], models.StatusFinished) {
			finished++
		}
	}

	if activated+finished > 0 {
		s.log.Log(logger.LogEntry{
			Level:   "info",
			Message: "[SCHED][DONE]",
			Fields:  map[string]any{"activated": activated, "finished": finished},
		})
	}
	return activated, finished
}

func (s *LifecycleScheduler) advance(ctx context.Context, c *models.Campaign, to models.CampaignStatus) bool {
	if !allowed(actorScheduler, c.Status, to) {
		return false
	}
	if err := s.svc.move(ctx, c, to, "scheduler", ""); err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "[SCHED][SKIP]",
			Fields:  map[string]any{"campaignID": c.ID.String(), "to": string(to)},
			Error:   err,
		})
		return false
	}
	return true
}

func (s *LifecycleScheduler) fail(what string, err error) {
	s.log.Log(logger.LogEntry{
		Level:   "error",
		Message: "[SCHED][FAIL] " + what,
		Error:   err,
	})
}
