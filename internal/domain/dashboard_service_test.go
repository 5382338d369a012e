package domain

import (
	"context"
	"testing"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDashboardRepo struct {
	scope *uuid.UUID
	calls int
}

func (r *recordingDashboardRepo) Dashboard(ctx context.Context, distributorID *uuid.UUID) (*models.Dashboard, error) {
	r.scope = distributorID
	r.calls++
	return &models.Dashboard{ByStatus: map[models.CampaignStatus]int{}}, nil
}

func TestDashboardScope(t *testing.T) {
	repo := &recordingDashboardRepo{}
	svc := NewDashboardService(repo)

	_, err := svc.Dashboard(context.Background(), models.Principal{UserID: uuid.New(), Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Nil(t, repo.scope)

	dist := uuid.New()
	_, err = svc.Dashboard(context.Background(), models.Principal{UserID: uuid.New(), Role: models.RoleDistributor, DistributorID: dist})
	require.NoError(t, err)
	require.NotNil(t, repo.scope)
	assert.Equal(t, dist, *repo.scope)
	assert.Equal(t, 2, repo.calls)
}
