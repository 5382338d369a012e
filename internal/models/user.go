package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleDistributor Role = "distributor"
)

type Distributor struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CompanyName  string    `db:"company_name" json:"company_name"`
	ContactEmail string    `db:"contact_email" json:"contact_email"`
	Phone        string    `db:"phone" json:"phone"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type User struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	FullName      string     `db:"full_name" json:"full_name"`
	DistributorID *uuid.UUID `db:"distributor_id" json:"distributor_id,omitempty"`
	Role          Role       `db:"role" json:"role"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Principal is the authenticated caller carried in the request context.
type Principal struct {
	UserID        uuid.UUID
	Role          Role
	DistributorID uuid.UUID
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// CanAccess reports whether the caller may see data owned by distributorID.
func (p Principal) CanAccess(distributorID uuid.UUID) bool {
	return p.IsAdmin() || (p.DistributorID != uuid.Nil && p.DistributorID == distributorID)
}
