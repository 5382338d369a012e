package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/domain/rules"
	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresCampaignRepo struct {
	pool *pgxpool.Pool
}

var (
	_ ports.CampaignRepository  = (*PostgresCampaignRepo)(nil)
	_ ports.AssetRepository     = (*PostgresCampaignRepo)(nil)
	_ ports.DashboardRepository = (*PostgresCampaignRepo)(nil)
)

func NewPostgresCampaignRepo(pool *pgxpool.Pool) *PostgresCampaignRepo {
	return &PostgresCampaignRepo{pool: pool}
}

const campaignColumns = `
	id, distributor_id, film_id, name, status, media_plan_status, report_status,
	start_date, end_date, media_budget, audience_keywords, territories, notes,
	final_price, admin_notes, conflict_level, submitted_at, created_at, updated_at`

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(
		&c.ID,
		&c.DistributorID,
		&c.FilmID,
		&c.Name,
		&c.Status,
		&c.MediaPlanStatus,
		&c.ReportStatus,
		&c.StartDate,
		&c.EndDate,
		&c.MediaBudget,
		&c.AudienceKeywords,
		&c.Territories,
		&c.Notes,
		&c.FinalPrice,
		&c.AdminNotes,
		&c.ConflictLevel,
		&c.SubmittedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCampaigns(rows pgx.Rows) ([]models.Campaign, error) {
	defer rows.Close()

	var out []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PostgresCampaignRepo) InsertCampaign(ctx context.Context, c *models.Campaign, platforms []models.CampaignPlatform, addons []models.CampaignAddon) (*models.Campaign, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO campaigns (
				distributor_id, film_id, name, status, media_plan_status, report_status,
				start_date, end_date, media_budget, audience_keywords, territories, notes
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id, conflict_level, created_at, updated_at
		`,
			c.DistributorID, c.FilmID, c.Name, c.Status, c.MediaPlanStatus, c.ReportStatus,
			c.StartDate, c.EndDate, c.MediaBudget, c.AudienceKeywords, c.Territories, c.Notes,
		).Scan(&c.ID, &c.ConflictLevel, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert campaign: %w", err)
		}
		return insertLines(ctx, tx, c.ID, platforms, addons)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func insertLines(ctx context.Context, tx pgx.Tx, campaignID uuid.UUID, platforms []models.CampaignPlatform, addons []models.CampaignAddon) error {
	batch := &pgx.Batch{}
	for _, p := range platforms {
		batch.Queue(`INSERT INTO campaign_platforms (campaign_id, platform, budget) VALUES ($1, $2, $3)`,
			campaignID, p.Platform, p.Budget)
	}
	for _, a := range addons {
		batch.Queue(`INSERT INTO campaign_addons (campaign_id, name, price) VALUES ($1, $2, $3)`,
			campaignID, a.Name, a.Price)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert campaign lines: %w", err)
	}
	return nil
}

func (r *PostgresCampaignRepo) GetCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

func (r *PostgresCampaignRepo) ListCampaigns(ctx context.Context, f models.CampaignFilter) ([]models.Campaign, error) {
	statuses := make([]string, 0, len(f.Statuses))
	for _, s := range f.Statuses {
		statuses = append(statuses, string(s))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE ($1::uuid IS NULL OR distributor_id = $1)
		  AND (cardinality($2::text[]) = 0 OR status = ANY($2))
		ORDER BY created_at DESC
	`, f.DistributorID, statuses)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return collectCampaigns(rows)
}

func (r *PostgresCampaignRepo) UpdateCampaign(ctx context.Context, c *models.Campaign, platforms []models.CampaignPlatform, addons []models.CampaignAddon) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE campaigns
			SET film_id = $2, name = $3, start_date = $4, end_date = $5, media_budget = $6,
			    audience_keywords = $7, territories = $8, notes = $9, updated_at = now()
			WHERE id = $1
			RETURNING updated_at
		`,
			c.ID, c.FilmID, c.Name, c.StartDate, c.EndDate, c.MediaBudget,
			c.AudienceKeywords, c.Territories, c.Notes,
		).Scan(&c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update campaign: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM campaign_platforms WHERE campaign_id = $1`, c.ID); err != nil {
			return fmt.Errorf("clear platforms: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM campaign_addons WHERE campaign_id = $1`, c.ID); err != nil {
			return fmt.Errorf("clear addons: %w", err)
		}
		return insertLines(ctx, tx, c.ID, platforms, addons)
	})
}

func (r *PostgresCampaignRepo) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	return nil
}

// SetStatus is a compare-and-set on status so two admins (or an admin and
// the scheduler) cannot both move the same campaign.
func (r *PostgresCampaignRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to models.CampaignStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaigns
		SET status = $3,
		    submitted_at = CASE WHEN $3 = 'review' THEN now() ELSE submitted_at END,
		    updated_at = now()
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return false, fmt.Errorf("set status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresCampaignRepo) SetPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, adminNotes string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET final_price = $2, admin_notes = $3, updated_at = now() WHERE id = $1
	`, id, price, adminNotes)
	if err != nil {
		return fmt.Errorf("set price: %w", err)
	}
	return nil
}

func (r *PostgresCampaignRepo) SetMediaPlanStatus(ctx context.Context, id uuid.UUID, s models.MediaPlanStatus) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET media_plan_status = $2, updated_at = now() WHERE id = $1
	`, id, s)
	if err != nil {
		return fmt.Errorf("set media plan status: %w", err)
	}
	return nil
}

func (r *PostgresCampaignRepo) SetReportStatus(ctx context.Context, id uuid.UUID, s models.ReportStatus) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET report_status = $2, updated_at = now() WHERE id = $1
	`, id, s)
	if err != nil {
		return fmt.Errorf("set report status: %w", err)
	}
	return nil
}

func (r *PostgresCampaignRepo) ListPlatforms(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignPlatform, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, platform, budget
		FROM campaign_platforms
		WHERE campaign_id = $1
		ORDER BY platform
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()

	var out []models.CampaignPlatform
	for rows.Next() {
		var p models.CampaignPlatform
		if err := rows.Scan(&p.ID, &p.CampaignID, &p.Platform, &p.Budget); err != nil {
			return nil, fmt.Errorf("scan platform: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresCampaignRepo) ListAddons(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignAddon, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, name, price
		FROM campaign_addons
		WHERE campaign_id = $1
		ORDER BY name
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list addons: %w", err)
	}
	defer rows.Close()

	var out []models.CampaignAddon
	for rows.Next() {
		var a models.CampaignAddon
		if err := rows.Scan(&a.ID, &a.CampaignID, &a.Name, &a.Price); err != nil {
			return nil, fmt.Errorf("scan addon: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

const profileQuery = `
	SELECT c.id, f.title, f.genres, c.start_date, c.audience_keywords, c.territories
	FROM campaigns c
	JOIN films f ON f.id = c.film_id
`

func scanProfile(row pgx.Row) (*rules.CampaignProfile, error) {
	var p rules.CampaignProfile
	err := row.Scan(&p.CampaignID, &p.FilmTitle, &p.Genres, &p.StartDate, &p.AudienceKeywords, &p.Territories)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresCampaignRepo) ConflictProfiles(ctx context.Context, statuses []models.CampaignStatus) ([]rules.CampaignProfile, error) {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}

	rows, err := r.pool.Query(ctx, profileQuery+` WHERE c.status = ANY($1)`, names)
	if err != nil {
		return nil, fmt.Errorf("conflict profiles: %w", err)
	}
	defer rows.Close()

	var out []rules.CampaignProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PostgresCampaignRepo) ConflictProfile(ctx context.Context, campaignID uuid.UUID) (*rules.CampaignProfile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, profileQuery+` WHERE c.id = $1`, campaignID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("conflict profile: %w", err)
	}
	return p, nil
}

func (r *PostgresCampaignRepo) ReplaceConflicts(ctx context.Context, campaignID uuid.UUID, level rules.ConflictLevel, matches []rules.ConflictMatch) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM campaign_conflicts WHERE campaign_id = $1`, campaignID); err != nil {
			return fmt.Errorf("clear conflicts: %w", err)
		}

		if len(matches) > 0 {
			rows := make([][]any, 0, len(matches))
			for _, m := range matches {
				rows = append(rows, []any{campaignID, m.OtherCampaignID, m.OtherFilmTitle, m.Score, string(m.Level), m.Reasons})
			}
			_, err := tx.CopyFrom(ctx,
				pgx.Identifier{"campaign_conflicts"},
				[]string{"campaign_id", "conflicting_campaign_id", "conflicting_title", "score", "level", "reasons"},
				pgx.CopyFromRows(rows),
			)
			if err != nil {
				return fmt.Errorf("copy conflicts: %w", err)
			}
		}

		_, err := tx.Exec(ctx, `UPDATE campaigns SET conflict_level = $2 WHERE id = $1`, campaignID, string(level))
		if err != nil {
			return fmt.Errorf("set conflict level: %w", err)
		}
		return nil
	})
}

func (r *PostgresCampaignRepo) ListConflicts(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignConflict, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, conflicting_campaign_id, conflicting_title, score, level, reasons, created_at
		FROM campaign_conflicts
		WHERE campaign_id = $1
		ORDER BY score DESC, conflicting_campaign_id
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	defer rows.Close()

	var out []models.CampaignConflict
	for rows.Next() {
		var c models.CampaignConflict
		err := rows.Scan(&c.ID, &c.CampaignID, &c.ConflictingCampaign, &c.ConflictingTitle, &c.Score, &c.Level, &c.Reasons, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan conflict: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresCampaignRepo) DueForActivation(ctx context.Context, day time.Time) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE status = 'approved' AND start_date <= $1::date
		ORDER BY start_date
	`, day)
	if err != nil {
		return nil, fmt.Errorf("due for activation: %w", err)
	}
	return collectCampaigns(rows)
}

func (r *PostgresCampaignRepo) DueForFinish(ctx context.Context, day time.Time) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE status = 'active' AND end_date < $1::date
		ORDER BY end_date
	`, day)
	if err != nil {
		return nil, fmt.Errorf("due for finish: %w", err)
	}
	return collectCampaigns(rows)
}

func (r *PostgresCampaignRepo) InsertAsset(ctx context.Context, a *models.CampaignAsset) (*models.CampaignAsset, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO campaign_assets (campaign_id, kind, file_name, url, uploaded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, a.CampaignID, a.Kind, a.FileName, a.URL, a.UploadedBy).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert asset: %w", err)
	}
	return a, nil
}

func (r *PostgresCampaignRepo) GetAsset(ctx context.Context, id uuid.UUID) (*models.CampaignAsset, error) {
	var a models.CampaignAsset
	err := r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, kind, file_name, url, uploaded_by, created_at
		FROM campaign_assets
		WHERE id = $1
	`, id).Scan(&a.ID, &a.CampaignID, &a.Kind, &a.FileName, &a.URL, &a.UploadedBy, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return &a, nil
}

func (r *PostgresCampaignRepo) ListAssets(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignAsset, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, kind, file_name, url, uploaded_by, created_at
		FROM campaign_assets
		WHERE campaign_id = $1
		ORDER BY created_at
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var out []models.CampaignAsset
	for rows.Next() {
		var a models.CampaignAsset
		if err := rows.Scan(&a.ID, &a.CampaignID, &a.Kind, &a.FileName, &a.URL, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresCampaignRepo) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM campaign_assets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}

// Dashboard counts campaigns per status and sums the money in flight.
// Open conflicts are campaigns waiting in review with a non-none level.
func (r *PostgresCampaignRepo) Dashboard(ctx context.Context, distributorID *uuid.UUID) (*models.Dashboard, error) {
	d := &models.Dashboard{ByStatus: map[models.CampaignStatus]int{}}

	rows, err := r.pool.Query(ctx, `
		SELECT status, count(*)
		FROM campaigns
		WHERE $1::uuid IS NULL OR distributor_id = $1
		GROUP BY status
	`, distributorID)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	for rows.Next() {
		var status models.CampaignStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan dashboard count: %w", err)
		}
		d.ByStatus[status] = n
		d.Total += n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(media_budget) FILTER (WHERE status IN ('review', 'approved', 'active')), 0),
			COALESCE(SUM(final_price), 0),
			count(*) FILTER (WHERE status = 'review' AND conflict_level <> 'none')
		FROM campaigns
		WHERE $1::uuid IS NULL OR distributor_id = $1
	`, distributorID).Scan(&d.PipelineValue, &d.BookedValue, &d.OpenConflicts)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}
	return d, nil
}
