package models

import (
	"time"

	"github.com/google/uuid"
)

type CampaignMessage struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	CampaignID uuid.UUID  `db:"campaign_id" json:"campaign_id"`
	SenderID   uuid.UUID  `db:"sender_id" json:"sender_id"`
	SenderRole Role       `db:"sender_role" json:"sender_role"`
	Body       string     `db:"body" json:"body"`
	ReadAt     *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

type UnreadCount struct {
	CampaignID uuid.UUID `db:"campaign_id" json:"campaign_id"`
	Count      int       `db:"count" json:"count"`
}
