package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	chat := NewChatService(e.messages, e.campaigns, e.events, e.notifier, nopLogger())

	p := e.seedDistributor()
	other := e.seedDistributor()
	film := e.seedFilm(p, "Night Shift", "horror")
	c, err := e.svc.CreateCampaign(ctx, p, campaignInput(film.ID, day0()))
	require.NoError(t, err)

	_, err = chat.Post(ctx, p, c.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = chat.Post(ctx, p, c.ID, strings.Repeat("x", maxMessageLen+1))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = chat.Post(ctx, other, c.ID, "hi")
	assert.ErrorIs(t, err, ErrForbidden)

	msg, err := chat.Post(ctx, p, c.ID, " Can we add Snapchat? ")
	require.NoError(t, err)
	assert.Equal(t, "Can we add Snapchat?", msg.Body)
	assert.Equal(t, models.RoleDistributor, msg.SenderRole)

	_, err = chat.Post(ctx, admin, c.ID, "Yes, updated the plan.")
	require.NoError(t, err)
	assert.Contains(t, e.mailer.subjects(), "New message about Opening weekend push")

	list, err := chat.List(ctx, p, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	adminUnread, err := chat.Unread(ctx, admin)
	require.NoError(t, err)
	require.Len(t, adminUnread, 1)
	assert.Equal(t, 1, adminUnread[0].Count)

	mine, err := chat.Unread(ctx, p)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, c.ID, mine[0].CampaignID)

	n, err := chat.MarkRead(ctx, p, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mine, err = chat.Unread(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, mine)

	var posted int
	for _, typ := range e.events.types() {
		if typ == models.EventMessagePosted {
			posted++
		}
	}
	assert.Equal(t, 2, posted)
}

type failingEvents struct{}

func (failingEvents) Publish(context.Context, models.Event) error {
	return errors.New("notify: connection refused")
}

func TestChat_EventCarriesMessage(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	chat := NewChatService(e.messages, e.campaigns, e.events, e.notifier, nopLogger())

	p := e.seedDistributor()
	film := e.seedFilm(p, "Night Shift", "horror")
	c, err := e.svc.CreateCampaign(ctx, p, campaignInput(film.ID, day0()))
	require.NoError(t, err)

	msg, err := chat.Post(ctx, p, c.ID, "Trailer cut is ready")
	require.NoError(t, err)

	e.events.mu.Lock()
	last := e.events.events[len(e.events.events)-1]
	e.events.mu.Unlock()

	assert.Equal(t, models.EventMessagePosted, last.Type)
	assert.Equal(t, p.DistributorID, last.DistributorID)
	require.NotEmpty(t, last.Payload)

	var got models.CampaignMessage
	require.NoError(t, json.Unmarshal(last.Payload, &got))
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, "Trailer cut is ready", got.Body)
}

func TestChat_PublishFailureKeepsMessage(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	chat := NewChatService(e.messages, e.campaigns, failingEvents{}, e.notifier, nopLogger())

	p := e.seedDistributor()
	film := e.seedFilm(p, "Night Shift", "horror")
	c, err := e.svc.CreateCampaign(ctx, p, campaignInput(film.ID, day0()))
	require.NoError(t, err)

	_, err = chat.Post(ctx, p, c.ID, "still saved")
	require.NoError(t, err)

	list, err := chat.List(ctx, p, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
