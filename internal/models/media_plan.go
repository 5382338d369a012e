package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MediaPlanPhase struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CampaignID uuid.UUID `db:"campaign_id" json:"campaign_id"`
	Name       string    `db:"name" json:"name"`
	Position   int       `db:"position" json:"position"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
}

type MediaPlanItem struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	PhaseID   uuid.UUID       `db:"phase_id" json:"phase_id"`
	Platform  string          `db:"platform" json:"platform"`
	Format    string          `db:"format" json:"format"`
	Budget    decimal.Decimal `db:"budget" json:"budget"`
	StartDate time.Time       `db:"start_date" json:"start_date"`
	EndDate   time.Time       `db:"end_date" json:"end_date"`
}

type MediaPlanAudience struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CampaignID  uuid.UUID `db:"campaign_id" json:"campaign_id"`
	Name        string    `db:"name" json:"name"`
	AgeMin      int       `db:"age_min" json:"age_min"`
	AgeMax      int       `db:"age_max" json:"age_max"`
	Interests   []string  `db:"interests" json:"interests"`
	Territories []string  `db:"territories" json:"territories"`
}

type MediaPlanPhaseView struct {
	MediaPlanPhase
	Items  []MediaPlanItem `json:"items"`
	Budget decimal.Decimal `json:"budget"`
}

type MediaPlan struct {
	CampaignID uuid.UUID            `json:"campaign_id"`
	Status     MediaPlanStatus      `json:"status"`
	Phases     []MediaPlanPhaseView `json:"phases"`
	Audiences  []MediaPlanAudience  `json:"audiences"`
	Total      decimal.Decimal      `json:"total"`
}
