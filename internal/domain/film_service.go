package domain

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/Vovarama1992/cinecampaign/internal/domain/rules"
	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
)

type filmService struct {
	films     ports.FilmRepository
	proposals ports.ProposalRepository
	log       *logger.ZapLogger
}

func NewFilmService(films ports.FilmRepository, proposals ports.ProposalRepository, log *logger.ZapLogger) ports.FilmService {
	return &filmService{
		films:     films,
		proposals: proposals,
		log:       log,
	}
}

func (s *filmService) ListFilms(ctx context.Context, p models.Principal) ([]models.Film, error) {
	if p.IsAdmin() {
		return s.films.ListFilms(ctx, nil)
	}
	id := p.DistributorID
	return s.films.ListFilms(ctx, &id)
}

func (s *filmService) CreateFilm(ctx context.Context, p models.Principal, in ports.FilmInput) (*models.Film, error) {
	if p.DistributorID == uuid.Nil {
		// admins have no distributor of their own to attach the film to
		return nil, ErrForbidden
	}

	f := &models.Film{DistributorID: p.DistributorID}
	fillFilm(f, in)
	return s.films.InsertFilm(ctx, f)
}

func (s *filmService) GetFilm(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Film, error) {
	return s.load(ctx, p, id)
}

// UpdateFilm edits a film directly while none of its campaigns has been
// submitted. After that distributors must go through a proposal.
func (s *filmService) UpdateFilm(ctx context.Context, p models.Principal, id uuid.UUID, in ports.FilmInput) (*models.Film, error) {
	f, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if !p.IsAdmin() {
		locked, err := s.films.HasSubmittedCampaign(ctx, id)
		if err != nil {
			return nil, err
		}
		if locked {
			return nil, ErrFilmLocked
		}
	}

	fillFilm(f, in)
	if err := s.films.UpdateFilm(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *filmService) DeleteFilm(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if _, err := s.load(ctx, p, id); err != nil {
		return err
	}

	locked, err := s.films.HasSubmittedCampaign(ctx, id)
	if err != nil {
		return err
	}
	if locked {
		return ErrFilmLocked
	}
	return s.films.DeleteFilm(ctx, id)
}

func (s *filmService) ProposeEdit(ctx context.Context, p models.Principal, filmID uuid.UUID, changes models.FilmChanges) (*models.FilmEditProposal, error) {
	if _, err := s.load(ctx, p, filmID); err != nil {
		return nil, err
	}
	changes, err := normalizeChanges(changes)
	if err != nil {
		return nil, err
	}

	prop, err := s.proposals.InsertProposal(ctx, &models.FilmEditProposal{
		FilmID:     filmID,
		ProposedBy: p.UserID,
		Changes:    changes,
		Status:     models.ProposalPending,
	})
	if err != nil {
		return nil, err
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "film edit proposed",
		Fields:  map[string]any{"filmID": filmID.String(), "proposalID": prop.ID.String()},
	})
	return prop, nil
}

func (s *filmService) ListProposals(ctx context.Context, p models.Principal, status models.ProposalStatus) ([]models.FilmEditProposal, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	if status == "" {
		status = models.ProposalPending
	}
	return s.proposals.ListProposals(ctx, status)
}

func (s *filmService) ReviewProposal(ctx context.Context, p models.Principal, id uuid.UUID, approve bool, note string) (*models.FilmEditProposal, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}

	prop, err := s.proposals.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, ErrNotFound
	}
	if prop.Status != models.ProposalPending {
		return nil, ErrInvalidTransition
	}

	reviewer := p.UserID
	prop.ReviewedBy = &reviewer
	prop.ReviewNote = strings.TrimSpace(note)

	var apply *models.Film
	if approve {
		prop.Status = models.ProposalApproved

		f, err := s.films.GetFilm(ctx, prop.FilmID)
		if err != nil {
			return nil, err
		}
		if f == nil {
			return nil, ErrNotFound
		}
		prop.Changes.Apply(f)
		apply = f
	} else {
		prop.Status = models.ProposalRejected
	}

	if err := s.proposals.ResolveProposal(ctx, prop, apply); err != nil {
		return nil, err
	}
	return prop, nil
}

func (s *filmService) load(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Film, error) {
	f, err := s.films.GetFilm(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrNotFound
	}
	if !p.CanAccess(f.DistributorID) {
		return nil, ErrForbidden
	}
	return f, nil
}

func fillFilm(f *models.Film, in ports.FilmInput) {
	f.Title = strings.TrimSpace(in.Title)
	f.Genres = clean(in.Genres)
	f.ReleaseDate = dateOnly(in.ReleaseDate)
	f.ReleaseSize = in.ReleaseSize
	f.Synopsis = strings.TrimSpace(in.Synopsis)
	f.TrailerURL = strings.TrimSpace(in.TrailerURL)
}

// normalizeChanges trims a proposal and holds it to the same limits as a
// direct film edit. A set field may not blank out the title or the genres.
func normalizeChanges(c models.FilmChanges) (models.FilmChanges, error) {
	if c.Empty() {
		return c, ErrInvalidInput
	}

	if c.Title != nil {
		t := strings.TrimSpace(*c.Title)
		if t == "" || utf8.RuneCountInString(t) > 300 {
			return c, ErrInvalidInput
		}
		c.Title = &t
	}
	if c.Genres != nil {
		g := clean(c.Genres)
		if len(g) == 0 {
			return c, ErrInvalidInput
		}
		for _, v := range g {
			if utf8.RuneCountInString(v) > 50 {
				return c, ErrInvalidInput
			}
		}
		c.Genres = g
	}
	if c.ReleaseDate != nil {
		if c.ReleaseDate.IsZero() {
			return c, ErrInvalidInput
		}
		d := dateOnly(*c.ReleaseDate)
		c.ReleaseDate = &d
	}
	if c.ReleaseSize != nil {
		switch *c.ReleaseSize {
		case rules.SizeLimited, rules.SizeMedium, rules.SizeWide:
		default:
			return c, ErrInvalidInput
		}
	}
	if c.Synopsis != nil {
		syn := strings.TrimSpace(*c.Synopsis)
		if utf8.RuneCountInString(syn) > 5000 {
			return c, ErrInvalidInput
		}
		c.Synopsis = &syn
	}
	if c.TrailerURL != nil {
		u := strings.TrimSpace(*c.TrailerURL)
		if u != "" {
			parsed, err := url.ParseRequestURI(u)
			if err != nil || parsed.Host == "" {
				return c, ErrInvalidInput
			}
		}
		c.TrailerURL = &u
	}
	return c, nil
}
