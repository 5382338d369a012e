package ports

import (
	"context"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/google/uuid"
)

type RegisterInput struct {
	CompanyName  string `json:"company_name" validate:"required,max=200"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,max=40"`
	FullName     string `json:"full_name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=128"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	ValidateToken(ctx context.Context, token string) (models.Principal, error)
	Me(ctx context.Context, p models.Principal) (*models.User, *models.Distributor, error)
	CreateAdmin(ctx context.Context, email, fullName, password string) (*models.User, error)
}

type UserRepository interface {
	CreateDistributorUser(ctx context.Context, d *models.Distributor, u *models.User) error
	CreateAdmin(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetDistributor(ctx context.Context, id uuid.UUID) (*models.Distributor, error)
}
