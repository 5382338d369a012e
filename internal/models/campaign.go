package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CampaignStatus string

const (
	StatusDraft    CampaignStatus = "draft"
	StatusReview   CampaignStatus = "review"
	StatusApproved CampaignStatus = "approved"
	StatusRejected CampaignStatus = "rejected"
	StatusActive   CampaignStatus = "active"
	StatusFinished CampaignStatus = "finished"
)

func (s CampaignStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusApproved, StatusRejected, StatusActive, StatusFinished:
		return true
	}
	return false
}

type MediaPlanStatus string

const (
	MediaPlanNone     MediaPlanStatus = "none"
	MediaPlanDraft    MediaPlanStatus = "draft"
	MediaPlanSent     MediaPlanStatus = "sent"
	MediaPlanApproved MediaPlanStatus = "approved"
)

func (s MediaPlanStatus) Valid() bool {
	switch s {
	case MediaPlanNone, MediaPlanDraft, MediaPlanSent, MediaPlanApproved:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportNone    ReportStatus = "none"
	ReportPending ReportStatus = "pending"
	ReportReady   ReportStatus = "ready"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportNone, ReportPending, ReportReady:
		return true
	}
	return false
}

type Campaign struct {
	ID               uuid.UUID           `db:"id" json:"id"`
	DistributorID    uuid.UUID           `db:"distributor_id" json:"distributor_id"`
	FilmID           uuid.UUID           `db:"film_id" json:"film_id"`
	Name             string              `db:"name" json:"name"`
	Status           CampaignStatus      `db:"status" json:"status"`
	MediaPlanStatus  MediaPlanStatus     `db:"media_plan_status" json:"media_plan_status"`
	ReportStatus     ReportStatus        `db:"report_status" json:"report_status"`
	StartDate        time.Time           `db:"start_date" json:"start_date"`
	EndDate          time.Time           `db:"end_date" json:"end_date"`
	MediaBudget      decimal.Decimal     `db:"media_budget" json:"media_budget"`
	AudienceKeywords []string            `db:"audience_keywords" json:"audience_keywords"`
	Territories      []string            `db:"territories" json:"territories"`
	Notes            string              `db:"notes" json:"notes"`
	FinalPrice       decimal.NullDecimal `db:"final_price" json:"final_price"`
	AdminNotes       string              `db:"admin_notes" json:"admin_notes"`
	ConflictLevel    string              `db:"conflict_level" json:"conflict_level"`
	SubmittedAt      *time.Time          `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt        time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at" json:"updated_at"`
}

type CampaignPlatform struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	CampaignID uuid.UUID       `db:"campaign_id" json:"campaign_id"`
	Platform   string          `db:"platform" json:"platform"`
	Budget     decimal.Decimal `db:"budget" json:"budget"`
}

type CampaignAddon struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	CampaignID uuid.UUID       `db:"campaign_id" json:"campaign_id"`
	Name       string          `db:"name" json:"name"`
	Price      decimal.Decimal `db:"price" json:"price"`
}

// CampaignAsset points at a creative stored outside the service.
type CampaignAsset struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CampaignID uuid.UUID `db:"campaign_id" json:"campaign_id"`
	Kind       string    `db:"kind" json:"kind"`
	FileName   string    `db:"file_name" json:"file_name"`
	URL        string    `db:"url" json:"url"`
	UploadedBy uuid.UUID `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type CampaignConflict struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	CampaignID          uuid.UUID `db:"campaign_id" json:"campaign_id"`
	ConflictingCampaign uuid.UUID `db:"conflicting_campaign_id" json:"conflicting_campaign_id"`
	ConflictingTitle    string    `db:"conflicting_title" json:"conflicting_title"`
	Score               int       `db:"score" json:"score"`
	Level               string    `db:"level" json:"level"`
	Reasons             []string  `db:"reasons" json:"reasons"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// CampaignFilter narrows campaign listings. Nil DistributorID means all distributors.
type CampaignFilter struct {
	DistributorID *uuid.UUID
	Statuses      []CampaignStatus
}
