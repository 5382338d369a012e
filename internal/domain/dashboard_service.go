package domain

import (
	"context"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
)

type dashboardService struct {
	repo ports.DashboardRepository
}

func NewDashboardService(repo ports.DashboardRepository) ports.DashboardService {
	return &dashboardService{repo: repo}
}

func (s *dashboardService) Dashboard(ctx context.Context, p models.Principal) (*models.Dashboard, error) {
	if p.IsAdmin() {
		return s.repo.Dashboard(ctx, nil)
	}
	id := p.DistributorID
	return s.repo.Dashboard(ctx, &id)
}
