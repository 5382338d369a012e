package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventStatusChanged  EventType = "status_changed"
	EventMessagePosted  EventType = "message_posted"
	EventCampaignPriced EventType = "campaign_priced"
	EventConflicts      EventType = "conflicts_detected"
)

// Event is what goes over NOTIFY and out to websocket rooms.
type Event struct {
	Type          EventType       `json:"type"`
	CampaignID    uuid.UUID       `json:"campaign_id"`
	DistributorID uuid.UUID       `json:"distributor_id"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

type Dashboard struct {
	ByStatus      map[CampaignStatus]int `json:"by_status"`
	Total         int                    `json:"total"`
	PipelineValue decimal.Decimal        `json:"pipeline_value"`
	BookedValue   decimal.Decimal        `json:"booked_value"`
	OpenConflicts int                    `json:"open_conflicts"`
}
