package ports

import (
	"context"

	"github.com/Vovarama1992/cinecampaign/internal/models"
)

type EventPublisher interface {
	Publish(ctx context.Context, ev models.Event) error
}

type EventSource interface {
	Events() <-chan models.Event
}
