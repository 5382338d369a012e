package infra

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMessageRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresMessageRepo(pool *pgxpool.Pool) ports.MessageRepository {
	return &PostgresMessageRepo{pool: pool}
}

func (r *PostgresMessageRepo) InsertMessage(ctx context.Context, m *models.CampaignMessage) (*models.CampaignMessage, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO campaign_messages (campaign_id, sender_id, sender_role, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.CampaignID, m.SenderID, m.SenderRole, m.Body).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

func (r *PostgresMessageRepo) ListMessages(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, sender_id, sender_role, body, read_at, created_at
		FROM campaign_messages
		WHERE campaign_id = $1
		ORDER BY created_at, id
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []models.CampaignMessage
	for rows.Next() {
		var m models.CampaignMessage
		if err := rows.Scan(&m.ID, &m.CampaignID, &m.SenderID, &m.SenderRole, &m.Body, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresMessageRepo) MarkRead(ctx context.Context, campaignID uuid.UUID, readerRole models.Role) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaign_messages
		SET read_at = now()
		WHERE campaign_id = $1 AND sender_role <> $2 AND read_at IS NULL
	`, campaignID, readerRole)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresMessageRepo) UnreadCounts(ctx context.Context, role models.Role, distributorID *uuid.UUID) ([]models.UnreadCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.campaign_id, count(*)
		FROM campaign_messages m
		JOIN campaigns c ON c.id = m.campaign_id
		WHERE m.read_at IS NULL
		  AND m.sender_role <> $1
		  AND ($2::uuid IS NULL OR c.distributor_id = $2)
		GROUP BY m.campaign_id
		ORDER BY max(m.created_at) DESC
	`, role, distributorID)
	if err != nil {
		return nil, fmt.Errorf("unread counts: %w", err)
	}
	defer rows.Close()

	var out []models.UnreadCount
	for rows.Next() {
		var u models.UnreadCount
		if err := rows.Scan(&u.CampaignID, &u.Count); err != nil {
			return nil, fmt.Errorf("scan unread: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
