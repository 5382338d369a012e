package domain

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/domain/rules"
	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func nopLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

// ---------- users ----------

type fakeUsers struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*models.User
	distributors map[uuid.UUID]*models.Distributor
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:        map[uuid.UUID]*models.User{},
		distributors: map[uuid.UUID]*models.Distributor{},
	}
}

func (f *fakeUsers) CreateDistributorUser(ctx context.Context, d *models.Distributor, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d.ID = uuid.New()
	u.ID = uuid.New()
	u.DistributorID = &d.ID
	f.distributors[d.ID] = d
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) CreateAdmin(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = uuid.New()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) addDistributor(email string) *models.Distributor {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := &models.Distributor{ID: uuid.New(), CompanyName: "Acme Pictures", ContactEmail: email}
	f.distributors[d.ID] = d
	return d
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUsers) GetDistributor(ctx context.Context, id uuid.UUID) (*models.Distributor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.distributors[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

// ---------- films ----------

type fakeFilms struct {
	mu        sync.Mutex
	films     map[uuid.UUID]*models.Film
	campaigns *fakeCampaigns
}

func (f *fakeFilms) InsertFilm(ctx context.Context, film *models.Film) (*models.Film, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	film.ID = uuid.New()
	cp := *film
	f.films[film.ID] = &cp
	return film, nil
}

func (f *fakeFilms) GetFilm(ctx context.Context, id uuid.UUID) (*models.Film, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if film, ok := f.films[id]; ok {
		cp := *film
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeFilms) ListFilms(ctx context.Context, distributorID *uuid.UUID) ([]models.Film, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Film
	for _, film := range f.films {
		if distributorID == nil || film.DistributorID == *distributorID {
			out = append(out, *film)
		}
	}
	return out, nil
}

func (f *fakeFilms) UpdateFilm(ctx context.Context, film *models.Film) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *film
	f.films[film.ID] = &cp
	return nil
}

func (f *fakeFilms) DeleteFilm(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.films, id)
	return nil
}

func (f *fakeFilms) HasSubmittedCampaign(ctx context.Context, filmID uuid.UUID) (bool, error) {
	f.campaigns.mu.Lock()
	defer f.campaigns.mu.Unlock()
	for _, c := range f.campaigns.campaigns {
		if c.FilmID == filmID && c.Status != models.StatusDraft {
			return true, nil
		}
	}
	return false, nil
}

// ---------- proposals ----------

type fakeProposals struct {
	mu        sync.Mutex
	proposals map[uuid.UUID]*models.FilmEditProposal
	films     *fakeFilms
}

func (f *fakeProposals) InsertProposal(ctx context.Context, p *models.FilmEditProposal) (*models.FilmEditProposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	f.proposals[p.ID] = &cp
	return p, nil
}

func (f *fakeProposals) GetProposal(ctx context.Context, id uuid.UUID) (*models.FilmEditProposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.proposals[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeProposals) ListProposals(ctx context.Context, status models.ProposalStatus) ([]models.FilmEditProposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FilmEditProposal
	for _, p := range f.proposals {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProposals) ResolveProposal(ctx context.Context, p *models.FilmEditProposal, apply *models.Film) error {
	f.mu.Lock()
	cp := *p
	f.proposals[p.ID] = &cp
	f.mu.Unlock()
	if apply != nil {
		return f.films.UpdateFilm(ctx, apply)
	}
	return nil
}

// ---------- campaigns ----------

type fakeCampaigns struct {
	mu        sync.Mutex
	campaigns map[uuid.UUID]*models.Campaign
	platforms map[uuid.UUID][]models.CampaignPlatform
	addons    map[uuid.UUID][]models.CampaignAddon
	conflicts map[uuid.UUID][]models.CampaignConflict
	films     *fakeFilms
}

func (f *fakeCampaigns) InsertCampaign(ctx context.Context, c *models.Campaign, platforms []models.CampaignPlatform, addons []models.CampaignAddon) (*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	f.campaigns[c.ID] = &cp
	f.setLines(c.ID, platforms, addons)
	return c, nil
}

func (f *fakeCampaigns) setLines(id uuid.UUID, platforms []models.CampaignPlatform, addons []models.CampaignAddon) {
	ps := make([]models.CampaignPlatform, len(platforms))
	for i, p := range platforms {
		p.ID = uuid.New()
		p.CampaignID = id
		ps[i] = p
	}
	as := make([]models.CampaignAddon, len(addons))
	for i, a := range addons {
		a.ID = uuid.New()
		a.CampaignID = id
		as[i] = a
	}
	f.platforms[id] = ps
	f.addons[id] = as
}

func (f *fakeCampaigns) GetCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.campaigns[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCampaigns) ListCampaigns(ctx context.Context, filter models.CampaignFilter) ([]models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Campaign
	for _, c := range f.campaigns {
		if filter.DistributorID != nil && c.DistributorID != *filter.DistributorID {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, c.Status) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func hasStatus(list []models.CampaignStatus, s models.CampaignStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (f *fakeCampaigns) UpdateCampaign(ctx context.Context, c *models.Campaign, platforms []models.CampaignPlatform, addons []models.CampaignAddon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.campaigns[c.ID] = &cp
	f.setLines(c.ID, platforms, addons)
	return nil
}

func (f *fakeCampaigns) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.campaigns, id)
	return nil
}

func (f *fakeCampaigns) SetStatus(ctx context.Context, id uuid.UUID, from, to models.CampaignStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	if to == models.StatusReview {
		now := time.Now()
		c.SubmittedAt = &now
	}
	return true, nil
}

func (f *fakeCampaigns) SetPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.campaigns[id]
	c.FinalPrice = decimal.NewNullDecimal(price)
	c.AdminNotes = notes
	return nil
}

func (f *fakeCampaigns) SetMediaPlanStatus(ctx context.Context, id uuid.UUID, s models.MediaPlanStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.campaigns[id].MediaPlanStatus = s
	return nil
}

func (f *fakeCampaigns) SetReportStatus(ctx context.Context, id uuid.UUID, s models.ReportStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.campaigns[id].ReportStatus = s
	return nil
}

func (f *fakeCampaigns) ListPlatforms(ctx context.Context, id uuid.UUID) ([]models.CampaignPlatform, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CampaignPlatform(nil), f.platforms[id]...), nil
}

func (f *fakeCampaigns) ListAddons(ctx context.Context, id uuid.UUID) ([]models.CampaignAddon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CampaignAddon(nil), f.addons[id]...), nil
}

func (f *fakeCampaigns) profile(c *models.Campaign) rules.CampaignProfile {
	p := rules.CampaignProfile{
		CampaignID:       c.ID,
		StartDate:        c.StartDate,
		AudienceKeywords: c.AudienceKeywords,
		Territories:      c.Territories,
	}
	f.films.mu.Lock()
	if film, ok := f.films.films[c.FilmID]; ok {
		p.FilmTitle = film.Title
		p.Genres = film.Genres
	}
	f.films.mu.Unlock()
	return p
}

func (f *fakeCampaigns) ConflictProfiles(ctx context.Context, statuses []models.CampaignStatus) ([]rules.CampaignProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []rules.CampaignProfile
	for _, c := range f.campaigns {
		if hasStatus(statuses, c.Status) {
			out = append(out, f.profile(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CampaignID.String() < out[j].CampaignID.String() })
	return out, nil
}

func (f *fakeCampaigns) ConflictProfile(ctx context.Context, id uuid.UUID) (*rules.CampaignProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok {
		return nil, nil
	}
	p := f.profile(c)
	return &p, nil
}

func (f *fakeCampaigns) ReplaceConflicts(ctx context.Context, id uuid.UUID, level rules.ConflictLevel, matches []rules.ConflictMatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.CampaignConflict
	for _, m := range matches {
		rows = append(rows, models.CampaignConflict{
			ID:                  uuid.New(),
			CampaignID:          id,
			ConflictingCampaign: m.OtherCampaignID,
			ConflictingTitle:    m.OtherFilmTitle,
			Score:               m.Score,
			Level:               string(m.Level),
			Reasons:             m.Reasons,
		})
	}
	f.conflicts[id] = rows
	f.campaigns[id].ConflictLevel = string(level)
	return nil
}

func (f *fakeCampaigns) ListConflicts(ctx context.Context, id uuid.UUID) ([]models.CampaignConflict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CampaignConflict(nil), f.conflicts[id]...), nil
}

func (f *fakeCampaigns) DueForActivation(ctx context.Context, day time.Time) ([]models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Campaign
	for _, c := range f.campaigns {
		if c.Status == models.StatusApproved && !c.StartDate.After(day) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCampaigns) DueForFinish(ctx context.Context, day time.Time) ([]models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Campaign
	for _, c := range f.campaigns {
		if c.Status == models.StatusActive && c.EndDate.Before(day) {
			out = append(out, *c)
		}
	}
	return out, nil
}

// ---------- assets ----------

type fakeAssets struct {
	mu     sync.Mutex
	assets map[uuid.UUID]*models.CampaignAsset
}

func (f *fakeAssets) InsertAsset(ctx context.Context, a *models.CampaignAsset) (*models.CampaignAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.New()
	cp := *a
	f.assets[a.ID] = &cp
	return a, nil
}

func (f *fakeAssets) GetAsset(ctx context.Context, id uuid.UUID) (*models.CampaignAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.assets[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeAssets) ListAssets(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.CampaignAsset{}
	for _, a := range f.assets {
		if a.CampaignID == campaignID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssets) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.assets, id)
	return nil
}

// ---------- messages ----------

type fakeMessages struct {
	mu       sync.Mutex
	messages []*models.CampaignMessage
	owners   *fakeCampaigns
}

func (f *fakeMessages) InsertMessage(ctx context.Context, m *models.CampaignMessage) (*models.CampaignMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	cp := *m
	f.messages = append(f.messages, &cp)
	return m, nil
}

func (f *fakeMessages) ListMessages(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CampaignMessage
	for _, m := range f.messages {
		if m.CampaignID == campaignID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMessages) MarkRead(ctx context.Context, campaignID uuid.UUID, reader models.Role) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	now := time.Now()
	for _, m := range f.messages {
		if m.CampaignID == campaignID && m.SenderRole != reader && m.ReadAt == nil {
			m.ReadAt = &now
			n++
		}
	}
	return n, nil
}

func (f *fakeMessages) UnreadCounts(ctx context.Context, role models.Role, distributorID *uuid.UUID) ([]models.UnreadCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[uuid.UUID]int{}
	for _, m := range f.messages {
		if m.SenderRole == role || m.ReadAt != nil {
			continue
		}
		if distributorID != nil {
			c, _ := f.owners.GetCampaign(ctx, m.CampaignID)
			if c == nil || c.DistributorID != *distributorID {
				continue
			}
		}
		counts[m.CampaignID]++
	}
	var out []models.UnreadCount
	for id, n := range counts {
		out = append(out, models.UnreadCount{CampaignID: id, Count: n})
	}
	return out, nil
}

// ---------- media plan ----------

type fakePlans struct {
	mu        sync.Mutex
	phases    []*models.MediaPlanPhase
	items     []*models.MediaPlanItem
	audiences []*models.MediaPlanAudience
}

func (f *fakePlans) InsertPhase(ctx context.Context, p *models.MediaPlanPhase) (*models.MediaPlanPhase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New()
	cp := *p
	f.phases = append(f.phases, &cp)
	return p, nil
}

func (f *fakePlans) GetPhase(ctx context.Context, id uuid.UUID) (*models.MediaPlanPhase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.phases {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePlans) ListPhases(ctx context.Context, campaignID uuid.UUID) ([]models.MediaPlanPhase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MediaPlanPhase
	for _, p := range f.phases {
		if p.CampaignID == campaignID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakePlans) InsertItem(ctx context.Context, it *models.MediaPlanItem) (*models.MediaPlanItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it.ID = uuid.New()
	cp := *it
	f.items = append(f.items, &cp)
	return it, nil
}

func (f *fakePlans) ListItems(ctx context.Context, campaignID uuid.UUID) ([]models.MediaPlanItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	phases := map[uuid.UUID]bool{}
	for _, p := range f.phases {
		if p.CampaignID == campaignID {
			phases[p.ID] = true
		}
	}
	var out []models.MediaPlanItem
	for _, it := range f.items {
		if phases[it.PhaseID] {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakePlans) InsertAudience(ctx context.Context, a *models.MediaPlanAudience) (*models.MediaPlanAudience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.New()
	cp := *a
	f.audiences = append(f.audiences, &cp)
	return a, nil
}

func (f *fakePlans) ListAudiences(ctx context.Context, campaignID uuid.UUID) ([]models.MediaPlanAudience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MediaPlanAudience
	for _, a := range f.audiences {
		if a.CampaignID == campaignID {
			out = append(out, *a)
		}
	}
	return out, nil
}

// ---------- events / mail ----------

type fakeEvents struct {
	mu     sync.Mutex
	events []models.Event
}

func (f *fakeEvents) Publish(ctx context.Context, ev models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeEvents) types() []models.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EventType
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []ports.Email
}

func (f *fakeMailer) Send(ctx context.Context, e ports.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, e)
	return nil
}

func (f *fakeMailer) subjects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.sent {
		out = append(out, e.Subject)
	}
	return out
}

// ---------- wiring ----------

type env struct {
	users     *fakeUsers
	films     *fakeFilms
	proposals *fakeProposals
	campaigns *fakeCampaigns
	assets    *fakeAssets
	messages  *fakeMessages
	plans     *fakePlans
	events    *fakeEvents
	mailer    *fakeMailer
	notifier  *Notifier
	svc       *CampaignService
}

func newEnv() *env {
	e := &env{
		users:  newFakeUsers(),
		assets: &fakeAssets{assets: map[uuid.UUID]*models.CampaignAsset{}},
		plans:  &fakePlans{},
		events: &fakeEvents{},
		mailer: &fakeMailer{},
	}
	e.films = &fakeFilms{films: map[uuid.UUID]*models.Film{}}
	e.campaigns = &fakeCampaigns{
		campaigns: map[uuid.UUID]*models.Campaign{},
		platforms: map[uuid.UUID][]models.CampaignPlatform{},
		addons:    map[uuid.UUID][]models.CampaignAddon{},
		conflicts: map[uuid.UUID][]models.CampaignConflict{},
		films:     e.films,
	}
	e.films.campaigns = e.campaigns
	e.proposals = &fakeProposals{proposals: map[uuid.UUID]*models.FilmEditProposal{}, films: e.films}
	e.messages = &fakeMessages{owners: e.campaigns}
	e.notifier = NewNotifier(e.mailer, e.users, "ops@example.com", nopLogger())
	e.svc = NewCampaignService(e.campaigns, e.films, e.assets, e.events, e.notifier, nopLogger())
	return e
}

// seedDistributor creates a distributor and returns a principal acting for it.
func (e *env) seedDistributor() models.Principal {
	d := e.users.addDistributor("marketing@acme.example")
	return models.Principal{UserID: uuid.New(), Role: models.RoleDistributor, DistributorID: d.ID}
}

func (e *env) seedFilm(p models.Principal, title string, genres ...string) *models.Film {
	f, _ := e.films.InsertFilm(context.Background(), &models.Film{
		DistributorID: p.DistributorID,
		Title:         title,
		Genres:        genres,
		ReleaseSize:   rules.SizeMedium,
	})
	return f
}
