package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/Vovarama1992/cinecampaign/internal/domain"
	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresFilmRepo struct {
	pool *pgxpool.Pool
}

var (
	_ ports.FilmRepository     = (*PostgresFilmRepo)(nil)
	_ ports.ProposalRepository = (*PostgresFilmRepo)(nil)
)

func NewPostgresFilmRepo(pool *pgxpool.Pool) *PostgresFilmRepo {
	return &PostgresFilmRepo{pool: pool}
}

const filmColumns = `id, distributor_id, title, genres, release_date, release_size, synopsis, trailer_url, created_at, updated_at`

func scanFilm(row pgx.Row) (*models.Film, error) {
	var f models.Film
	err := row.Scan(
		&f.ID,
		&f.DistributorID,
		&f.Title,
		&f.Genres,
		&f.ReleaseDate,
		&f.ReleaseSize,
		&f.Synopsis,
		&f.TrailerURL,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PostgresFilmRepo) InsertFilm(ctx context.Context, f *models.Film) (*models.Film, error) {
	query := `
		INSERT INTO films (distributor_id, title, genres, release_date, release_size, synopsis, trailer_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		f.DistributorID, f.Title, f.Genres, f.ReleaseDate, f.ReleaseSize, f.Synopsis, f.TrailerURL,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert film: %w", err)
	}
	return f, nil
}

func (r *PostgresFilmRepo) GetFilm(ctx context.Context, id uuid.UUID) (*models.Film, error) {
	f, err := scanFilm(r.pool.QueryRow(ctx, `SELECT `+filmColumns+` FROM films WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get film: %w", err)
	}
	return f, nil
}

func (r *PostgresFilmRepo) ListFilms(ctx context.Context, distributorID *uuid.UUID) ([]models.Film, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+filmColumns+`
		FROM films
		WHERE $1::uuid IS NULL OR distributor_id = $1
		ORDER BY release_date DESC, title
	`, distributorID)
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	defer rows.Close()

	var out []models.Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan film: %w", err)
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *PostgresFilmRepo) UpdateFilm(ctx context.Context, f *models.Film) error {
	return updateFilm(ctx, r.pool, f)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func updateFilm(ctx context.Context, db rowQuerier, f *models.Film) error {
	err := db.QueryRow(ctx, `
		UPDATE films
		SET title = $2, genres = $3, release_date = $4, release_size = $5,
		    synopsis = $6, trailer_url = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, f.ID, f.Title, f.Genres, f.ReleaseDate, f.ReleaseSize, f.Synopsis, f.TrailerURL).Scan(&f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update film: %w", err)
	}
	return nil
}

func (r *PostgresFilmRepo) DeleteFilm(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM films WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete film: %w", err)
	}
	return nil
}

func (r *PostgresFilmRepo) HasSubmittedCampaign(ctx context.Context, filmID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM campaigns WHERE film_id = $1 AND status <> 'draft'
		)
	`, filmID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check film campaigns: %w", err)
	}
	return exists, nil
}

const proposalColumns = `id, film_id, proposed_by, changes, status, review_note, reviewed_by, created_at, reviewed_at`

func scanProposal(row pgx.Row) (*models.FilmEditProposal, error) {
	var p models.FilmEditProposal
	err := row.Scan(
		&p.ID,
		&p.FilmID,
		&p.ProposedBy,
		&p.Changes,
		&p.Status,
		&p.ReviewNote,
		&p.ReviewedBy,
		&p.CreatedAt,
		&p.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresFilmRepo) InsertProposal(ctx context.Context, p *models.FilmEditProposal) (*models.FilmEditProposal, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO film_edit_proposals (film_id, proposed_by, changes, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, p.FilmID, p.ProposedBy, p.Changes, p.Status).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert proposal: %w", err)
	}
	return p, nil
}

func (r *PostgresFilmRepo) GetProposal(ctx context.Context, id uuid.UUID) (*models.FilmEditProposal, error) {
	p, err := scanProposal(r.pool.QueryRow(ctx, `SELECT `+proposalColumns+` FROM film_edit_proposals WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return p, nil
}

func (r *PostgresFilmRepo) ListProposals(ctx context.Context, status models.ProposalStatus) ([]models.FilmEditProposal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+proposalColumns+`
		FROM film_edit_proposals
		WHERE status = $1
		ORDER BY created_at
	`, status)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	var out []models.FilmEditProposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PostgresFilmRepo) ResolveProposal(ctx context.Context, p *models.FilmEditProposal, apply *models.Film) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE film_edit_proposals
			SET status = $2, review_note = $3, reviewed_by = $4, reviewed_at = now()
			WHERE id = $1 AND status = 'pending'
			RETURNING reviewed_at
		`, p.ID, p.Status, p.ReviewNote, p.ReviewedBy).Scan(&p.ReviewedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrInvalidTransition
		}
		if err != nil {
			return fmt.Errorf("resolve proposal: %w", err)
		}

		if apply != nil {
			return updateFilm(ctx, tx, apply)
		}
		return nil
	})
}
