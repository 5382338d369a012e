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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) ports.UserRepository {
	return &PostgresUserRepo{pool: pool}
}

const userColumns = `id, email, password_hash, full_name, distributor_id, role, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.DistributorID, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateDistributorUser inserts the company and its first user together.
func (r *PostgresUserRepo) CreateDistributorUser(ctx context.Context, d *models.Distributor, u *models.User) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO distributors (company_name, contact_email, phone)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`, d.CompanyName, d.ContactEmail, d.Phone).Scan(&d.ID, &d.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert distributor: %w", err)
		}

		u.DistributorID = &d.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO users (email, password_hash, full_name, distributor_id, role)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, u.Email, u.PasswordHash, u.FullName, u.DistributorID, u.Role).Scan(&u.ID, &u.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrEmailTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func (r *PostgresUserRepo) CreateAdmin(ctx context.Context, u *models.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, u.Email, u.PasswordHash, u.FullName, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) GetDistributor(ctx context.Context, id uuid.UUID) (*models.Distributor, error) {
	var d models.Distributor
	err := r.pool.QueryRow(ctx, `
		SELECT id, company_name, contact_email, phone, created_at
		FROM distributors
		WHERE id = $1
	`, id).Scan(&d.ID, &d.CompanyName, &d.ContactEmail, &d.Phone, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get distributor: %w", err)
	}
	return &d, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
