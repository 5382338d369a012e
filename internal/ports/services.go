package ports

import (
	"context"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/domain/rules"
	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FilmInput struct {
	Title       string    `json:"title" validate:"required,max=300"`
	Genres      []string  `json:"genres" validate:"required,min=1,dive,required,max=50"`
	ReleaseDate time.Time `json:"release_date" validate:"required"`
	ReleaseSize string    `json:"release_size" validate:"required,oneof=limited medium wide"`
	Synopsis    string    `json:"synopsis" validate:"max=5000"`
	TrailerURL  string    `json:"trailer_url" validate:"omitempty,url"`
}

type FilmService interface {
	ListFilms(ctx context.Context, p models.Principal) ([]models.Film, error)
	CreateFilm(ctx context.Context, p models.Principal, in FilmInput) (*models.Film, error)
	GetFilm(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Film, error)
	UpdateFilm(ctx context.Context, p models.Principal, id uuid.UUID, in FilmInput) (*models.Film, error)
	DeleteFilm(ctx context.Context, p models.Principal, id uuid.UUID) error

	ProposeEdit(ctx context.Context, p models.Principal, filmID uuid.UUID, changes models.FilmChanges) (*models.FilmEditProposal, error)
	ListProposals(ctx context.Context, p models.Principal, status models.ProposalStatus) ([]models.FilmEditProposal, error)
	ReviewProposal(ctx context.Context, p models.Principal, id uuid.UUID, approve bool, note string) (*models.FilmEditProposal, error)
}

type PlatformLine struct {
	Platform string          `json:"platform" validate:"required,max=50"`
	Budget   decimal.Decimal `json:"budget"`
}

type CampaignInput struct {
	FilmID           uuid.UUID         `json:"film_id" validate:"required"`
	Name             string            `json:"name" validate:"required,max=300"`
	StartDate        time.Time         `json:"start_date" validate:"required"`
	EndDate          time.Time         `json:"end_date" validate:"required,gtefield=StartDate"`
	MediaBudget      decimal.Decimal   `json:"media_budget"`
	AudienceKeywords []string          `json:"audience_keywords" validate:"dive,max=80"`
	Territories      []string          `json:"territories" validate:"dive,max=80"`
	Notes            string            `json:"notes" validate:"max=5000"`
	Platforms        []PlatformLine    `json:"platforms" validate:"dive"`
	Addons           []rules.AddonLine `json:"addons"`
}

type AssetInput struct {
	Kind     string `json:"kind" validate:"required,oneof=poster trailer banner video copy other"`
	FileName string `json:"file_name" validate:"required,max=300"`
	URL      string `json:"url" validate:"required,url"`
}

// CampaignDetail is the full read model of one campaign.
type CampaignDetail struct {
	Campaign  models.Campaign           `json:"campaign"`
	Platforms []models.CampaignPlatform `json:"platforms"`
	Addons    []models.CampaignAddon    `json:"addons"`
	Assets    []models.CampaignAsset    `json:"assets"`
	Conflicts []models.CampaignConflict `json:"conflicts"`
	Cost      rules.CostEstimate        `json:"cost"`
}

type SubmitResult struct {
	Campaign  models.Campaign       `json:"campaign"`
	Level     rules.ConflictLevel   `json:"conflict_level"`
	Conflicts []rules.ConflictMatch `json:"conflicts"`
}

type CampaignService interface {
	ListCampaigns(ctx context.Context, p models.Principal, statuses []models.CampaignStatus) ([]models.Campaign, error)
	CreateCampaign(ctx context.Context, p models.Principal, in CampaignInput) (*models.Campaign, error)
	GetCampaign(ctx context.Context, p models.Principal, id uuid.UUID) (*CampaignDetail, error)
	UpdateCampaign(ctx context.Context, p models.Principal, id uuid.UUID, in CampaignInput) (*models.Campaign, error)
	DeleteCampaign(ctx context.Context, p models.Principal, id uuid.UUID) error
	// CheckAccess returns ErrNotFound or ErrForbidden when p may not see the campaign.
	CheckAccess(ctx context.Context, p models.Principal, id uuid.UUID) error

	Submit(ctx context.Context, p models.Principal, id uuid.UUID) (*SubmitResult, error)
	Transition(ctx context.Context, p models.Principal, id uuid.UUID, to models.CampaignStatus, note string) (*models.Campaign, error)
	SetPrice(ctx context.Context, p models.Principal, id uuid.UUID, price decimal.Decimal, notes string) (*models.Campaign, error)
	SetMediaPlanStatus(ctx context.Context, p models.Principal, id uuid.UUID, s models.MediaPlanStatus) error
	SetReportStatus(ctx context.Context, p models.Principal, id uuid.UUID, s models.ReportStatus) error

	Cost(ctx context.Context, p models.Principal, id uuid.UUID) (*rules.CostEstimate, error)
	Conflicts(ctx context.Context, p models.Principal, id uuid.UUID) ([]models.CampaignConflict, error)
	PreviewConflicts(ctx context.Context, candidate rules.CampaignProfile) ([]rules.ConflictMatch, error)

	AddAsset(ctx context.Context, p models.Principal, campaignID uuid.UUID, in AssetInput) (*models.CampaignAsset, error)
	ListAssets(ctx context.Context, p models.Principal, campaignID uuid.UUID) ([]models.CampaignAsset, error)
	DeleteAsset(ctx context.Context, p models.Principal, assetID uuid.UUID) error
}

type ChatService interface {
	Post(ctx context.Context, p models.Principal, campaignID uuid.UUID, body string) (*models.CampaignMessage, error)
	List(ctx context.Context, p models.Principal, campaignID uuid.UUID) ([]models.CampaignMessage, error)
	MarkRead(ctx context.Context, p models.Principal, campaignID uuid.UUID) (int64, error)
	Unread(ctx context.Context, p models.Principal) ([]models.UnreadCount, error)
}

type PhaseInput struct {
	Name      string    `json:"name" validate:"required,max=200"`
	Position  int       `json:"position" validate:"min=0"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

type ItemInput struct {
	Platform  string          `json:"platform" validate:"required,max=50"`
	Format    string          `json:"format" validate:"max=100"`
	Budget    decimal.Decimal `json:"budget"`
	StartDate time.Time       `json:"start_date" validate:"required"`
	EndDate   time.Time       `json:"end_date" validate:"required,gtefield=StartDate"`
}

type AudienceInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	AgeMin      int      `json:"age_min" validate:"min=0,max=120"`
	AgeMax      int      `json:"age_max" validate:"min=0,max=120,gtefield=AgeMin"`
	Interests   []string `json:"interests" validate:"dive,max=80"`
	Territories []string `json:"territories" validate:"dive,max=80"`
}

type MediaPlanService interface {
	Get(ctx context.Context, p models.Principal, campaignID uuid.UUID) (*models.MediaPlan, error)
	AddPhase(ctx context.Context, p models.Principal, campaignID uuid.UUID, in PhaseInput) (*models.MediaPlanPhase, error)
	AddItem(ctx context.Context, p models.Principal, campaignID, phaseID uuid.UUID, in ItemInput) (*models.MediaPlanItem, error)
	AddAudience(ctx context.Context, p models.Principal, campaignID uuid.UUID, in AudienceInput) (*models.MediaPlanAudience, error)
}

type DashboardService interface {
	Dashboard(ctx context.Context, p models.Principal) (*models.Dashboard, error)
}
