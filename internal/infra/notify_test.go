package infra

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEvent(t *testing.T) {
	ev := models.Event{
		Type:          models.EventStatusChanged,
		CampaignID:    uuid.New(),
		DistributorID: uuid.New(),
		Payload:       json.RawMessage(`{"from":"review","to":"approved"}`),
	}

	raw, err := encodeEvent(ev)
	require.NoError(t, err)

	var back models.Event
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, ev.CampaignID, back.CampaignID)
	assert.JSONEq(t, string(ev.Payload), string(back.Payload))
}

func TestEncodeEvent_DropsOversizedPayload(t *testing.T) {
	big, _ := json.Marshal(map[string]string{"body": strings.Repeat("x", 10_000)})
	ev := models.Event{
		Type:       models.EventMessagePosted,
		CampaignID: uuid.New(),
		Payload:    big,
	}

	raw, err := encodeEvent(ev)
	require.NoError(t, err)
	assert.Less(t, len(raw), maxNotifyPayload)

	var back models.Event
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, models.EventMessagePosted, back.Type)
	assert.Empty(t, back.Payload)
}
