package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type claims struct {
	Role          models.Role `json:"role"`
	DistributorID string      `json:"distributor_id,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	users  ports.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, secret string, ttl time.Duration) ports.AuthService {
	return &authService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, in ports.RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	d := &models.Distributor{
		CompanyName:  strings.TrimSpace(in.CompanyName),
		ContactEmail: strings.ToLower(strings.TrimSpace(in.ContactEmail)),
		Phone:        strings.TrimSpace(in.Phone),
	}
	u := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Role:         models.RoleDistributor,
	}

	if err := s.users.CreateDistributorUser(ctx, d, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateAdmin adds an admin account. Used by the CLI; there is no HTTP route
// for it.
func (s *authService) CreateAdmin(ctx context.Context, email, fullName, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		Role:         models.RoleAdmin,
	}
	if err := s.users.CreateAdmin(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.sign(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (models.Principal, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return models.Principal{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return models.Principal{}, ErrInvalidToken
	}

	p := models.Principal{UserID: userID, Role: c.Role}
	if c.DistributorID != "" {
		if p.DistributorID, err = uuid.Parse(c.DistributorID); err != nil {
			return models.Principal{}, ErrInvalidToken
		}
	}

	if p.Role != models.RoleAdmin && p.Role != models.RoleDistributor {
		return models.Principal{}, ErrInvalidToken
	}
	return p, nil
}

func (s *authService) Me(ctx context.Context, p models.Principal) (*models.User, *models.Distributor, error) {
	u, err := s.users.GetUserByID(ctx, p.UserID)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, ErrNotFound
	}

	if u.DistributorID == nil {
		return u, nil, nil
	}

	d, err := s.users.GetDistributor(ctx, *u.DistributorID)
	if err != nil {
		return nil, nil, err
	}
	return u, d, nil
}

func (s *authService) sign(u *models.User) (string, error) {
	now := s.now()

	c := claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	if u.DistributorID != nil {
		c.DistributorID = u.DistributorID.String()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
