package ports

import (
	"context"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/google/uuid"
)

type FilmRepository interface {
	InsertFilm(ctx context.Context, f *models.Film) (*models.Film, error)
	GetFilm(ctx context.Context, id uuid.UUID) (*models.Film, error)
	// ListFilms returns every film when distributorID is nil.
	ListFilms(ctx context.Context, distributorID *uuid.UUID) ([]models.Film, error)
	UpdateFilm(ctx context.Context, f *models.Film) error
	DeleteFilm(ctx context.Context, id uuid.UUID) error
	// HasSubmittedCampaign reports whether any campaign of the film left draft.
	HasSubmittedCampaign(ctx context.Context, filmID uuid.UUID) (bool, error)
}

type ProposalRepository interface {
	InsertProposal(ctx context.Context, p *models.FilmEditProposal) (*models.FilmEditProposal, error)
	GetProposal(ctx context.Context, id uuid.UUID) (*models.FilmEditProposal, error)
	ListProposals(ctx context.Context, status models.ProposalStatus) ([]models.FilmEditProposal, error)
	// ResolveProposal records the review; when apply is non-nil the film is
	// updated in the same transaction.
	ResolveProposal(ctx context.Context, p *models.FilmEditProposal, apply *models.Film) error
}
