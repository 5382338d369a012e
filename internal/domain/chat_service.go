package domain

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
)

const maxMessageLen = 4000

type chatService struct {
	messages  ports.MessageRepository
	campaigns ports.CampaignRepository
	events    ports.EventPublisher
	notifier  *Notifier
	log       *logger.ZapLogger
}

func NewChatService(
	messages ports.MessageRepository,
	campaigns ports.CampaignRepository,
	events ports.EventPublisher,
	notifier *Notifier,
	log *logger.ZapLogger,
) ports.ChatService {
	return &chatService{
		messages:  messages,
		campaigns: campaigns,
		events:    events,
		notifier:  notifier,
		log:       log,
	}
}

func (s *chatService) Post(ctx context.Context, p models.Principal, campaignID uuid.UUID, body string) (*models.CampaignMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" || len(body) > maxMessageLen {
		return nil, ErrInvalidInput
	}

	c, err := s.campaign(ctx, p, campaignID)
	if err != nil {
		return nil, err
	}

	msg, err := s.messages.InsertMessage(ctx, &models.CampaignMessage{
		CampaignID: campaignID,
		SenderID:   p.UserID,
		SenderRole: p.Role,
		Body:       body,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, c, msg)

	if p.IsAdmin() {
		s.notifier.AdminMessage(ctx, c, body)
	}
	return msg, nil
}

func (s *chatService) List(ctx context.Context, p models.Principal, campaignID uuid.UUID) ([]models.CampaignMessage, error) {
	if _, err := s.campaign(ctx, p, campaignID); err != nil {
		return nil, err
	}
	return s.messages.ListMessages(ctx, campaignID)
}

func (s *chatService) MarkRead(ctx context.Context, p models.Principal, campaignID uuid.UUID) (int64, error) {
	if _, err := s.campaign(ctx, p, campaignID); err != nil {
		return 0, err
	}
	return s.messages.MarkRead(ctx, campaignID, p.Role)
}

// Unread counts messages from the other side: admins see what distributors
// wrote everywhere, distributors see admin replies on their own campaigns.
func (s *chatService) Unread(ctx context.Context, p models.Principal) ([]models.UnreadCount, error) {
	if p.IsAdmin() {
		return s.messages.UnreadCounts(ctx, models.RoleAdmin, nil)
	}
	id := p.DistributorID
	return s.messages.UnreadCounts(ctx, models.RoleDistributor, &id)
}

// publish announces a new message. Failures are logged; the message is
// already stored.
func (s *chatService) publish(ctx context.Context, c *models.Campaign, msg *models.CampaignMessage) {
	raw, err := json.Marshal(msg)
	if err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "message event marshal failed",
			Fields:  map[string]any{"campaignID": c.ID.String(), "messageID": msg.ID.String()},
			Error:   err,
		})
		return
	}

	if err := s.events.Publish(ctx, models.Event{
		Type:          models.EventMessagePosted,
		CampaignID:    c.ID,
		DistributorID: c.DistributorID,
		Payload:       raw,
	}); err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "message event publish failed",
			Fields:  map[string]any{"campaignID": c.ID.String()},
			Error:   err,
		})
	}
}

func (s *chatService) campaign(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Campaign, error) {
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
