package ports

import (
	"context"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/google/uuid"
)

type MessageRepository interface {
	InsertMessage(ctx context.Context, m *models.CampaignMessage) (*models.CampaignMessage, error)
	ListMessages(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignMessage, error)
	// MarkRead stamps every unread message in the campaign that was not sent
	// by the reader's side.
	MarkRead(ctx context.Context, campaignID uuid.UUID, readerRole models.Role) (int64, error)
	// UnreadCounts groups unread messages addressed to role. A nil
	// distributorID counts across all campaigns.
	UnreadCounts(ctx context.Context, role models.Role, distributorID *uuid.UUID) ([]models.UnreadCount, error)
}
