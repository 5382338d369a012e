package models

import (
	"time"

	"github.com/google/uuid"
)

type Film struct {
	ID            uuid.UUID `db:"id" json:"id"`
	DistributorID uuid.UUID `db:"distributor_id" json:"distributor_id"`
	Title         string    `db:"title" json:"title"`
	Genres        []string  `db:"genres" json:"genres"`
	ReleaseDate   time.Time `db:"release_date" json:"release_date"`
	ReleaseSize   string    `db:"release_size" json:"release_size"`
	Synopsis      string    `db:"synopsis" json:"synopsis"`
	TrailerURL    string    `db:"trailer_url" json:"trailer_url"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// FilmChanges holds the editable film fields; nil means unchanged.
type FilmChanges struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Genres      []string   `json:"genres,omitempty" validate:"omitempty,min=1,dive,required,max=50"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	ReleaseSize *string    `json:"release_size,omitempty" validate:"omitempty,oneof=limited medium wide"`
	Synopsis    *string    `json:"synopsis,omitempty" validate:"omitempty,max=5000"`
	TrailerURL  *string    `json:"trailer_url,omitempty" validate:"omitempty,url"`
}

func (c FilmChanges) Empty() bool {
	return c.Title == nil && c.Genres == nil && c.ReleaseDate == nil &&
		c.ReleaseSize == nil && c.Synopsis == nil && c.TrailerURL == nil
}

// Apply copies the set fields onto f.
func (c FilmChanges) Apply(f *Film) {
	if c.Title != nil {
		f.Title = *c.Title
	}
	if c.Genres != nil {
		f.Genres = c.Genres
	}
	if c.ReleaseDate != nil {
		f.ReleaseDate = *c.ReleaseDate
	}
	if c.ReleaseSize != nil {
		f.ReleaseSize = *c.ReleaseSize
	}
	if c.Synopsis != nil {
		f.Synopsis = *c.Synopsis
	}
	if c.TrailerURL != nil {
		f.TrailerURL = *c.TrailerURL
	}
}

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalApproved ProposalStatus = "approved"
	ProposalRejected ProposalStatus = "rejected"
)

type FilmEditProposal struct {
	ID         uuid.UUID      `db:"id" json:"id"`
	FilmID     uuid.UUID      `db:"film_id" json:"film_id"`
	ProposedBy uuid.UUID      `db:"proposed_by" json:"proposed_by"`
	Changes    FilmChanges    `db:"changes" json:"changes"`
	Status     ProposalStatus `db:"status" json:"status"`
	ReviewNote string         `db:"review_note" json:"review_note"`
	ReviewedBy *uuid.UUID     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	ReviewedAt *time.Time     `db:"reviewed_at" json:"reviewed_at,omitempty"`
}
