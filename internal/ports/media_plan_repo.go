package ports

import (
	"context"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/google/uuid"
)

type MediaPlanRepository interface {
	InsertPhase(ctx context.Context, p *models.MediaPlanPhase) (*models.MediaPlanPhase, error)
	GetPhase(ctx context.Context, id uuid.UUID) (*models.MediaPlanPhase, error)
	ListPhases(ctx context.Context, campaignID uuid.UUID) ([]models.MediaPlanPhase, error)
	InsertItem(ctx context.Context, it *models.MediaPlanItem) (*models.MediaPlanItem, error)
	ListItems(ctx context.Context, campaignID uuid.UUID) ([]models.MediaPlanItem, error)
	InsertAudience(ctx context.Context, a *models.MediaPlanAudience) (*models.MediaPlanAudience, error)
	ListAudiences(ctx context.Context, campaignID uuid.UUID) ([]models.MediaPlanAudience, error)
}
