package domain

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/domain/rules"
	"github.com/Vovarama1992/cinecampaign/internal/metrics"
	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type CampaignService struct {
	campaigns ports.CampaignRepository
	films     ports.FilmRepository
	assets    ports.AssetRepository
	events    ports.EventPublisher
	notifier  *Notifier
	log       *logger.ZapLogger
}

func NewCampaignService(
	campaigns ports.CampaignRepository,
	films ports.FilmRepository,
	assets ports.AssetRepository,
	events ports.EventPublisher,
	notifier *Notifier,
	log *logger.ZapLogger,
) *CampaignService {
	return &CampaignService{
		campaigns: campaigns,
		films:     films,
		assets:    assets,
		events:    events,
		notifier:  notifier,
		log:       log,
	}
}

var _ ports.CampaignService = (*CampaignService)(nil)

// ========================================================================
// CRUD
// ========================================================================

func (s *CampaignService) ListCampaigns(ctx context.Context, p models.Principal, statuses []models.CampaignStatus) ([]models.Campaign, error) {
	f := models.CampaignFilter{Statuses: statuses}
	if !p.IsAdmin() {
		id := p.DistributorID
		f.DistributorID = &id
	}
	return s.campaigns.ListCampaigns(ctx, f)
}

func (s *CampaignService) CreateCampaign(ctx context.Context, p models.Principal, in ports.CampaignInput) (*models.Campaign, error) {
	film, err := s.film(ctx, p, in.FilmID)
	if err != nil {
		return nil, err
	}
	if !validAmounts(in) {
		return nil, ErrInvalidInput
	}

	c := &models.Campaign{
		DistributorID:   film.DistributorID,
		Status:          models.StatusDraft,
		MediaPlanStatus: models.MediaPlanNone,
		ReportStatus:    models.ReportNone,
		ConflictLevel:   string(rules.LevelNone),
	}
	applyInput(c, in)

	platforms, addons := lines(in)
	return s.campaigns.InsertCampaign(ctx, c, platforms, addons)
}

func (s *CampaignService) GetCampaign(ctx context.Context, p models.Principal, id uuid.UUID) (*ports.CampaignDetail, error) {
	c, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}

	out := &ports.CampaignDetail{Campaign: *c}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Platforms, err = s.campaigns.ListPlatforms(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		out.Addons, err = s.campaigns.ListAddons(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		out.Assets, err = s.assets.ListAssets(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		out.Conflicts, err = s.campaigns.ListConflicts(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Cost, err = estimate(c, out.Platforms, out.Addons)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, p models.Principal, id uuid.UUID, in ports.CampaignInput) (*models.Campaign, error) {
	c, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !CanEdit(p, c.Status) {
		return nil, ErrNotEditable
	}
	if !validAmounts(in) {
		return nil, ErrInvalidInput
	}

	if in.FilmID != c.FilmID {
		film, err := s.film(ctx, p, in.FilmID)
		if err != nil {
			return nil, err
		}
		if film.DistributorID != c.DistributorID {
			return nil, ErrForbidden
		}
	}

	applyInput(c, in)
	platforms, addons := lines(in)
	for i := range platforms {
		platforms[i].CampaignID = c.ID
	}
	for i := range addons {
		addons[i].CampaignID = c.ID
	}

	if err := s.campaigns.UpdateCampaign(ctx, c, platforms, addons); err != nil {
		return nil, err
	}
	return s.campaigns.GetCampaign(ctx, id)
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, p models.Principal, id uuid.UUID) error {
	c, err := s.load(ctx, p, id)
	if err != nil {
		return err
	}
	if c.Status != models.StatusDraft {
		return ErrNotEditable
	}
	return s.campaigns.DeleteCampaign(ctx, id)
}

func (s *CampaignService) CheckAccess(ctx context.Context, p models.Principal, id uuid.UUID) error {
	_, err := s.load(ctx, p, id)
	return err
}

// ========================================================================
// LIFECYCLE
// ========================================================================

// Submit scores the campaign against everything already in review, approved
// or active, stores the result and moves the campaign to review.
func (s *CampaignService) Submit(ctx context.Context, p models.Principal, id uuid.UUID) (*ports.SubmitResult, error) {
	c, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(p, c.Status, models.StatusReview) {
		return nil, ErrInvalidTransition
	}

	profile, err := s.campaigns.ConflictProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	pool, err := s.campaigns.ConflictProfiles(ctx, conflictPool)
	if err != nil {
		return nil, err
	}

	matches := rules.DetectConflicts(*profile, pool)
	level := rules.HighestLevel(matches)

	// the status move is a compare-and-set; only its winner stores conflicts
	if err := s.move(ctx, c, models.StatusReview, actorLabel(p), ""); err != nil {
		return nil, err
	}

	if err := s.campaigns.ReplaceConflicts(ctx, id, level, matches); err != nil {
		return nil, err
	}
	for _, m := range matches {
		metrics.ConflictsDetected.WithLabelValues(string(m.Level)).Inc()
	}

	if len(matches) > 0 {
		s.publish(ctx, models.EventConflicts, c, map[string]any{
			"level": level,
			"count": len(matches),
		})
	}
	s.notifier.CampaignSubmitted(ctx, c, string(level))

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "campaign submitted",
		Fields: map[string]any{
			"campaignID": id.String(),
			"conflicts":  len(matches),
			"level":      string(level),
		},
	})

	updated, err := s.campaigns.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	return &ports.SubmitResult{
		Campaign:  *updated,
		Level:     level,
		Conflicts: matches,
	}, nil
}

func (s *CampaignService) Transition(ctx context.Context, p models.Principal, id uuid.UUID, to models.CampaignStatus, note string) (*models.Campaign, error) {
	if !to.Valid() {
		return nil, ErrInvalidInput
	}
	if to == models.StatusReview {
		res, err := s.Submit(ctx, p, id)
		if err != nil {
			return nil, err
		}
		return &res.Campaign, nil
	}

	c, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(p, c.Status, to) {
		return nil, ErrInvalidTransition
	}

	if err := s.move(ctx, c, to, actorLabel(p), note); err != nil {
		return nil, err
	}
	return s.campaigns.GetCampaign(ctx, id)
}

// move performs a checked status write and fans out the side effects. c is
// updated in place on success.
func (s *CampaignService) move(ctx context.Context, c *models.Campaign, to models.CampaignStatus, actor, note string) error {
	from := c.Status

	ok, err := s.campaigns.SetStatus(ctx, c.ID, from, to)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}
	c.Status = to

	metrics.StatusTransitions.WithLabelValues(string(from), string(to), actor).Inc()

	s.publish(ctx, models.EventStatusChanged, c, map[string]any{
		"from": from,
		"to":   to,
		"note": note,
	})

	if to != models.StatusReview {
		s.notifier.StatusChanged(ctx, c, from, to, note)
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "campaign status changed",
		Fields: map[string]any{
			"campaignID": c.ID.String(),
			"from":       string(from),
			"to":         string(to),
			"actor":      actor,
		},
	})
	return nil
}

// ========================================================================
// ADMIN
// ========================================================================

func (s *CampaignService) SetPrice(ctx context.Context, p models.Principal, id uuid.UUID, price decimal.Decimal, notes string) (*models.Campaign, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	if price.IsNegative() {
		return nil, ErrInvalidInput
	}

	c, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if c.Status == models.StatusFinished {
		return nil, ErrNotEditable
	}

	price = price.Round(2)
	if err := s.campaigns.SetPrice(ctx, id, price, notes); err != nil {
		return nil, err
	}

	s.publish(ctx, models.EventCampaignPriced, c, map[string]any{"final_price": price})
	s.notifier.CampaignPriced(ctx, c, price)

	return s.campaigns.GetCampaign(ctx, id)
}

func (s *CampaignService) SetMediaPlanStatus(ctx context.Context, p models.Principal, id uuid.UUID, st models.MediaPlanStatus) error {
	if !p.IsAdmin() {
		return ErrForbidden
	}
	if !st.Valid() {
		return ErrInvalidInput
	}
	if _, err := s.load(ctx, p, id); err != nil {
		return err
	}
	return s.campaigns.SetMediaPlanStatus(ctx, id, st)
}

func (s *CampaignService) SetReportStatus(ctx context.Context, p models.Principal, id uuid.UUID, st models.ReportStatus) error {
	if !p.IsAdmin() {
		return ErrForbidden
	}
	if !st.Valid() {
		return ErrInvalidInput
	}
	if _, err := s.load(ctx, p, id); err != nil {
		return err
	}
	return s.campaigns.SetReportStatus(ctx, id, st)
}

// ========================================================================
// ESTIMATES
// ========================================================================

func (s *CampaignService) Cost(ctx context.Context, p models.Principal, id uuid.UUID) (*rules.CostEstimate, error) {
	c, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}

	platforms, err := s.campaigns.ListPlatforms(ctx, id)
	if err != nil {
		return nil, err
	}
	addons, err := s.campaigns.ListAddons(ctx, id)
	if err != nil {
		return nil, err
	}

	est, err := estimate(c, platforms, addons)
	if err != nil {
		return nil, err
	}
	return &est, nil
}

func (s *CampaignService) Conflicts(ctx context.Context, p models.Principal, id uuid.UUID) ([]models.CampaignConflict, error) {
	if _, err := s.load(ctx, p, id); err != nil {
		return nil, err
	}
	return s.campaigns.ListConflicts(ctx, id)
}

// PreviewConflicts scores an unsaved campaign without storing anything.
func (s *CampaignService) PreviewConflicts(ctx context.Context, candidate rules.CampaignProfile) ([]rules.ConflictMatch, error) {
	pool, err := s.campaigns.ConflictProfiles(ctx, conflictPool)
	if err != nil {
		return nil, err
	}
	return rules.DetectConflicts(candidate, pool), nil
}

// ========================================================================
// ASSETS
// ========================================================================

func (s *CampaignService) AddAsset(ctx context.Context, p models.Principal, campaignID uuid.UUID, in ports.AssetInput) (*models.CampaignAsset, error) {
	c, err := s.load(ctx, p, campaignID)
	if err != nil {
		return nil, err
	}
	if c.Status == models.StatusFinished {
		return nil, ErrNotEditable
	}

	return s.assets.InsertAsset(ctx, &models.CampaignAsset{
		CampaignID: campaignID,
		Kind:       in.Kind,
		FileName:   strings.TrimSpace(in.FileName),
		URL:        strings.TrimSpace(in.URL),
		UploadedBy: p.UserID,
	})
}

func (s *CampaignService) ListAssets(ctx context.Context, p models.Principal, campaignID uuid.UUID) ([]models.CampaignAsset, error) {
	if _, err := s.load(ctx, p, campaignID); err != nil {
		return nil, err
	}
	return s.assets.ListAssets(ctx, campaignID)
}

func (s *CampaignService) DeleteAsset(ctx context.Context, p models.Principal, assetID uuid.UUID) error {
	a, err := s.assets.GetAsset(ctx, assetID)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrNotFound
	}

	c, err := s.load(ctx, p, a.CampaignID)
	if err != nil {
		return err
	}
	if c.Status == models.StatusFinished {
		return ErrNotEditable
	}
	return s.assets.DeleteAsset(ctx, assetID)
}

// ========================================================================
// HELPERS
// ========================================================================

func (s *CampaignService) load(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaigns.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if !p.CanAccess(c.DistributorID) {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *CampaignService) film(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Film, error) {
	f, err := s.films.GetFilm(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrNotFound
	}
	if !p.CanAccess(f.DistributorID) {
		return nil, ErrForbidden
	}
	return f, nil
}

func (s *CampaignService) publish(ctx context.Context, t models.EventType, c *models.Campaign, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "event payload marshal failed",
			Fields:  map[string]any{"type": string(t), "campaignID": c.ID.String()},
			Error:   err,
		})
		return
	}

	ev := models.Event{
		Type:          t,
		CampaignID:    c.ID,
		DistributorID: c.DistributorID,
		Payload:       raw,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "event publish failed",
			Fields:  map[string]any{"type": string(t), "campaignID": c.ID.String()},
			Error:   err,
		})
	}
}

// validAmounts rejects negative money anywhere in the input.
func validAmounts(in ports.CampaignInput) bool {
	if in.MediaBudget.IsNegative() {
		return false
	}
	for _, pl := range in.Platforms {
		if pl.Budget.IsNegative() {
			return false
		}
	}
	for _, a := range in.Addons {
		if a.Price.IsNegative() {
			return false
		}
	}
	return true
}

func applyInput(c *models.Campaign, in ports.CampaignInput) {
	c.FilmID = in.FilmID
	c.Name = strings.TrimSpace(in.Name)
	c.StartDate = dateOnly(in.StartDate)
	c.EndDate = dateOnly(in.EndDate)
	c.MediaBudget = in.MediaBudget.Round(2)
	c.AudienceKeywords = clean(in.AudienceKeywords)
	c.Territories = clean(in.Territories)
	c.Notes = strings.TrimSpace(in.Notes)
}

func lines(in ports.CampaignInput) ([]models.CampaignPlatform, []models.CampaignAddon) {
	platforms := make([]models.CampaignPlatform, 0, len(in.Platforms))
	for _, pl := range in.Platforms {
		platforms = append(platforms, models.CampaignPlatform{
			Platform: strings.ToLower(strings.TrimSpace(pl.Platform)),
			Budget:   pl.Budget.Round(2),
		})
	}

	addons := make([]models.CampaignAddon, 0, len(in.Addons))
	for _, a := range in.Addons {
		addons = append(addons, models.CampaignAddon{
			Name:  strings.TrimSpace(a.Name),
			Price: a.Price.Round(2),
		})
	}
	return platforms, addons
}

func estimate(c *models.Campaign, platforms []models.CampaignPlatform, addons []models.CampaignAddon) (rules.CostEstimate, error) {
	in := rules.CostInput{MediaBudget: c.MediaBudget}
	for _, pl := range platforms {
		in.Platforms = append(in.Platforms, pl.Platform)
	}
	for _, a := range addons {
		in.Addons = append(in.Addons, rules.AddonLine{Name: a.Name, Price: a.Price})
	}
	return rules.EstimateCost(in)
}

func actorLabel(p models.Principal) string {
	return string(p.Role)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clean(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
