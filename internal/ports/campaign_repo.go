package ports

import (
	"context"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/domain/rules"
	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CampaignRepository interface {
	InsertCampaign(ctx context.Context, c *models.Campaign, platforms []models.CampaignPlatform, addons []models.CampaignAddon) (*models.Campaign, error)
	GetCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	ListCampaigns(ctx context.Context, f models.CampaignFilter) ([]models.Campaign, error)
	// UpdateCampaign replaces the editable fields and the platform/addon lines.
	UpdateCampaign(ctx context.Context, c *models.Campaign, platforms []models.CampaignPlatform, addons []models.CampaignAddon) error
	DeleteCampaign(ctx context.Context, id uuid.UUID) error

	// SetStatus moves a campaign from one status to another. It returns false
	// when the campaign was no longer in the from status.
	SetStatus(ctx context.Context, id uuid.UUID, from, to models.CampaignStatus) (bool, error)
	SetPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, adminNotes string) error
	SetMediaPlanStatus(ctx context.Context, id uuid.UUID, s models.MediaPlanStatus) error
	SetReportStatus(ctx context.Context, id uuid.UUID, s models.ReportStatus) error

	ListPlatforms(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignPlatform, error)
	ListAddons(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignAddon, error)

	// ConflictProfiles loads the scoring view of every campaign in one of the statuses.
	ConflictProfiles(ctx context.Context, statuses []models.CampaignStatus) ([]rules.CampaignProfile, error)
	ConflictProfile(ctx context.Context, campaignID uuid.UUID) (*rules.CampaignProfile, error)
	ReplaceConflicts(ctx context.Context, campaignID uuid.UUID, level rules.ConflictLevel, matches []rules.ConflictMatch) error
	ListConflicts(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignConflict, error)

	// DueForActivation lists approved campaigns starting on or before day;
	// DueForFinish lists active campaigns that ended before day.
	DueForActivation(ctx context.Context, day time.Time) ([]models.Campaign, error)
	DueForFinish(ctx context.Context, day time.Time) ([]models.Campaign, error)
}

type AssetRepository interface {
	InsertAsset(ctx context.Context, a *models.CampaignAsset) (*models.CampaignAsset, error)
	GetAsset(ctx context.Context, id uuid.UUID) (*models.CampaignAsset, error)
	ListAssets(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignAsset, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
}

type DashboardRepository interface {
	// Dashboard aggregates every distributor when distributorID is nil.
	Dashboard(ctx context.Context, distributorID *uuid.UUID) (*models.Dashboard, error)
}
