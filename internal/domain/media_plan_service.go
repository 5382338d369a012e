package domain

import (
	"context"
	"strings"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type mediaPlanService struct {
	plans     ports.MediaPlanRepository
	campaigns ports.CampaignRepository
}

func NewMediaPlanService(plans ports.MediaPlanRepository, campaigns ports.CampaignRepository) ports.MediaPlanService {
	return &mediaPlanService{plans: plans, campaigns: campaigns}
}

// Get assembles phases with their items and budget totals.
func (s *mediaPlanService) Get(ctx context.Context, p models.Principal, campaignID uuid.UUID) (*models.MediaPlan, error) {
	c, err := s.campaign(ctx, p, campaignID)
	if err != nil {
		return nil, err
	}

	phases, err := s.plans.ListPhases(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	items, err := s.plans.ListItems(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	audiences, err := s.plans.ListAudiences(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	byPhase := make(map[uuid.UUID][]models.MediaPlanItem, len(phases))
	for _, it := range items {
		byPhase[it.PhaseID] = append(byPhase[it.PhaseID], it)
	}

	plan := &models.MediaPlan{
		CampaignID: campaignID,
		Status:     c.MediaPlanStatus,
		Phases:     make([]models.MediaPlanPhaseView, 0, len(phases)),
		Audiences:  audiences,
		Total:      decimal.Zero,
	}
	if plan.Audiences == nil {
		plan.Audiences = []models.MediaPlanAudience{}
	}

	for _, ph := range phases {
		view := models.MediaPlanPhaseView{
			MediaPlanPhase: ph,
			Items:          byPhase[ph.ID],
			Budget:         decimal.Zero,
		}
		if view.Items == nil {
			view.Items = []models.MediaPlanItem{}
		}
		for _, it := range view.Items {
			view.Budget = view.Budget.Add(it.Budget)
		}
		plan.Total = plan.Total.Add(view.Budget)
		plan.Phases = append(plan.Phases, view)
	}

	return plan, nil
}

func (s *mediaPlanService) AddPhase(ctx context.Context, p models.Principal, campaignID uuid.UUID, in ports.PhaseInput) (*models.MediaPlanPhase, error) {
	if _, err := s.editable(ctx, p, campaignID); err != nil {
		return nil, err
	}

	return s.plans.InsertPhase(ctx, &models.MediaPlanPhase{
		CampaignID: campaignID,
		Name:       strings.TrimSpace(in.Name),
		Position:   in.Position,
		StartDate:  dateOnly(in.StartDate),
		EndDate:    dateOnly(in.EndDate),
	})
}

func (s *mediaPlanService) AddItem(ctx context.Context, p models.Principal, campaignID, phaseID uuid.UUID, in ports.ItemInput) (*models.MediaPlanItem, error) {
	if _, err := s.editable(ctx, p, campaignID); err != nil {
		return nil, err
	}
	if in.Budget.IsNegative() {
		return nil, ErrInvalidInput
	}

	phase, err := s.plans.GetPhase(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	if phase == nil || phase.CampaignID != campaignID {
		return nil, ErrNotFound
	}

	return s.plans.InsertItem(ctx, &models.MediaPlanItem{
		PhaseID:   phaseID,
		Platform:  strings.ToLower(strings.TrimSpace(in.Platform)),
		Format:    strings.TrimSpace(in.Format),
		Budget:    in.Budget.Round(2),
		StartDate: dateOnly(in.StartDate),
		EndDate:   dateOnly(in.EndDate),
	})
}

func (s *mediaPlanService) AddAudience(ctx context.Context, p models.Principal, campaignID uuid.UUID, in ports.AudienceInput) (*models.MediaPlanAudience, error) {
	if _, err := s.editable(ctx, p, campaignID); err != nil {
		return nil, err
	}

	return s.plans.InsertAudience(ctx, &models.MediaPlanAudience{
		CampaignID:  campaignID,
		Name:        strings.TrimSpace(in.Name),
		AgeMin:      in.AgeMin,
		AgeMax:      in.AgeMax,
		Interests:   clean(in.Interests),
		Territories: clean(in.Territories),
	})
}

// editable allows plan changes until the plan is approved; admins may keep
// adjusting while the campaign is running.
func (s *mediaPlanService) editable(ctx context.Context, p models.Principal, campaignID uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaign(ctx, p, campaignID)
	if err != nil {
		return nil, err
	}
	if c.Status == models.StatusFinished {
		return nil, ErrNotEditable
	}
	if !p.IsAdmin() && c.MediaPlanStatus == models.MediaPlanApproved {
		return nil, ErrNotEditable
	}
	return c, nil
}

func (s *mediaPlanService) campaign(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Campaign, error) {
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
