package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMediaPlanRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresMediaPlanRepo(pool *pgxpool.Pool) ports.MediaPlanRepository {
	return &PostgresMediaPlanRepo{pool: pool}
}

func (r *PostgresMediaPlanRepo) InsertPhase(ctx context.Context, p *models.MediaPlanPhase) (*models.MediaPlanPhase, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO media_plan_phases (campaign_id, name, position, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.CampaignID, p.Name, p.Position, p.StartDate, p.EndDate).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("insert phase: %w", err)
	}
	return p, nil
}

func (r *PostgresMediaPlanRepo) GetPhase(ctx context.Context, id uuid.UUID) (*models.MediaPlanPhase, error) {
	var p models.MediaPlanPhase
	err := r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, name, position, start_date, end_date
		FROM media_plan_phases
		WHERE id = $1
	`, id).Scan(&p.ID, &p.CampaignID, &p.Name, &p.Position, &p.StartDate, &p.EndDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get phase: %w", err)
	}
	return &p, nil
}

func (r *PostgresMediaPlanRepo) ListPhases(ctx context.Context, campaignID uuid.UUID) ([]models.MediaPlanPhase, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, name, position, start_date, end_date
		FROM media_plan_phases
		WHERE campaign_id = $1
		ORDER BY position, start_date
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list phases: %w", err)
	}
	defer rows.Close()

	var out []models.MediaPlanPhase
	for rows.Next() {
		var p models.MediaPlanPhase
		if err := rows.Scan(&p.ID, &p.CampaignID, &p.Name, &p.Position, &p.StartDate, &p.EndDate); err != nil {
			return nil, fmt.Errorf("scan phase: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresMediaPlanRepo) InsertItem(ctx context.Context, it *models.MediaPlanItem) (*models.MediaPlanItem, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO media_plan_items (phase_id, platform, format, budget, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, it.PhaseID, it.Platform, it.Format, it.Budget, it.StartDate, it.EndDate).Scan(&it.ID)
	if err != nil {
		return nil, fmt.Errorf("insert media plan item: %w", err)
	}
	return it, nil
}

func (r *PostgresMediaPlanRepo) ListItems(ctx context.Context, campaignID uuid.UUID) ([]models.MediaPlanItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.phase_id, i.platform, i.format, i.budget, i.start_date, i.end_date
		FROM media_plan_items i
		JOIN media_plan_phases p ON p.id = i.phase_id
		WHERE p.campaign_id = $1
		ORDER BY i.start_date, i.platform
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list media plan items: %w", err)
	}
	defer rows.Close()

	var out []models.MediaPlanItem
	for rows.Next() {
		var it models.MediaPlanItem
		if err := rows.Scan(&it.ID, &it.PhaseID, &it.Platform, &it.Format, &it.Budget, &it.StartDate, &it.EndDate); err != nil {
			return nil, fmt.Errorf("scan media plan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresMediaPlanRepo) InsertAudience(ctx context.Context, a *models.MediaPlanAudience) (*models.MediaPlanAudience, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO media_plan_audiences (campaign_id, name, age_min, age_max, interests, territories)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, a.CampaignID, a.Name, a.AgeMin, a.AgeMax, a.Interests, a.Territories).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("insert audience: %w", err)
	}
	return a, nil
}

func (r *PostgresMediaPlanRepo) ListAudiences(ctx context.Context, campaignID uuid.UUID) ([]models.MediaPlanAudience, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, name, age_min, age_max, interests, territories
		FROM media_plan_audiences
		WHERE campaign_id = $1
		ORDER BY name
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list audiences: %w", err)
	}
	defer rows.Close()

	var out []models.MediaPlanAudience
	for rows.Next() {
		var a models.MediaPlanAudience
		if err := rows.Scan(&a.ID, &a.CampaignID, &a.Name, &a.AgeMin, &a.AgeMax, &a.Interests, &a.Territories); err != nil {
			return nil, fmt.Errorf("scan audience: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
