package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"donation-service/internal/apperror"
	"donation-service/internal/model"
	"donation-service/internal/repository"
)

// memDB is an in-memory stand-in for Postgres. WithinTx snapshots the
// tables and restores them when the callback fails.
type memDB struct {
	mu sync.Mutex

	nextID    uint
	users     map[uint]model.User
	apps      map[uint]model.Application
	orgs      map[uint]model.Organization
	members   map[uint]model.Membership
	projects  map[uint]model.Project
	donations map[uint]model.Donation
	favorites map[[2]uint]model.FavoriteProject
	tokens    map[string]model.RefreshToken

	// failMembershipCreate makes the next membership insert fail
	failMembershipCreate error
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[uint]model.User{},
		apps:      map[uint]model.Application{},
		orgs:      map[uint]model.Organization{},
		members:   map[uint]model.Membership{},
		projects:  map[uint]model.Project{},
		donations: map[uint]model.Donation{},
		favorites: map[[2]uint]model.FavoriteProject{},
		tokens:    map[string]model.RefreshToken{},
	}
}

func (m *memDB) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memDB) stores() repository.Stores {
	return repository.Stores{
		Users:         memUsers{m},
		Applications:  memApps{m},
		Organizations: memOrgs{m},
		Memberships:   memMembers{m},
		Projects:      memProjects{m},
		Donations:     memDonations{m},
		Favorites:     memFavorites{m},
		RefreshTokens: memTokens{m},
	}
}

type memSnapshot struct {
	nextID    uint
	users     map[uint]model.User
	apps      map[uint]model.Application
	orgs      map[uint]model.Organization
	members   map[uint]model.Membership
	projects  map[uint]model.Project
	donations map[uint]model.Donation
	favorites map[[2]uint]model.FavoriteProject
	tokens    map[string]model.RefreshToken
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *memDB) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memSnapshot{
		nextID:    m.nextID,
		users:     copyMap(m.users),
		apps:      copyMap(m.apps),
		orgs:      copyMap(m.orgs),
		members:   copyMap(m.members),
		projects:  copyMap(m.projects),
		donations: copyMap(m.donations),
		favorites: copyMap(m.favorites),
		tokens:    copyMap(m.tokens),
	}
}

func (m *memDB) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID = s.nextID
	m.users = s.users
	m.apps = s.apps
	m.orgs = s.orgs
	m.members = s.members
	m.projects = s.projects
	m.donations = s.donations
	m.favorites = s.favorites
	m.tokens = s.tokens
}

type memTransactor struct{ db *memDB }

func (t memTransactor) WithinTx(ctx context.Context, fn func(repository.Stores) error) error {
	snap := t.db.snapshot()
	if err := fn(t.db.stores()); err != nil {
		t.db.restore(snap)
		return err
	}
	return nil
}

type memUsers struct{ m *memDB }

func (r memUsers) Create(ctx context.Context, u *model.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return apperror.Conflict("email already registered")
		}
	}
	u.ID = r.m.id()
	u.CreatedAt = time.Now()
	r.m.users[u.ID] = *u
	return nil
}

func (r memUsers) FindByID(ctx context.Context, id uint) (*model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return apperror.NotFound("user not found")
	}
	if v, ok := fields["email"].(string); ok {
		u.Email = v
	}
	if v, ok := fields["wallet_address"].(string); ok {
		u.WalletAddress = &v
	}
	r.m.users[id] = u
	return nil
}

type memApps struct{ m *memDB }

func (r memApps) FindByID(ctx context.Context, id uint) (*model.Application, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.apps[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memApps) FindByUser(ctx context.Context, userID uint) ([]model.Application, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Application
	for _, a := range r.m.apps {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memApps) FindAll(ctx context.Context, status *model.ApplicationStatus) ([]model.Application, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Application
	for _, a := range r.m.apps {
		if status == nil || a.Status == *status {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memApps) Create(ctx context.Context, a *model.Application) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a.ID = r.m.id()
	a.CreatedAt = time.Now()
	r.m.apps[a.ID] = *a
	return nil
}

func (r memApps) UpdateStatus(ctx context.Context, id uint, status model.ApplicationStatus, reason *string, reviewedAt time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.apps[id]
	if !ok || !a.IsPending() {
		return apperror.InvalidState("application is no longer pending")
	}
	a.Status = status
	a.RejectedReason = reason
	a.ReviewedAt = &reviewedAt
	r.m.apps[id] = a
	return nil
}

type memOrgs struct{ m *memDB }

func (r memOrgs) Create(ctx context.Context, o *model.Organization) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o.ID = r.m.id()
	o.CreatedAt = time.Now()
	r.m.orgs[o.ID] = *o
	return nil
}

func (r memOrgs) FindByID(ctx context.Context, id uint) (*model.Organization, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orgs[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r memOrgs) List(ctx context.Context, status *model.OrgStatus) ([]model.Organization, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Organization
	for _, o := range r.m.orgs {
		if status == nil || o.Status == *status {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPlusPlan() != out[j].IsPlusPlan() {
			return out[i].IsPlusPlan()
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r memOrgs) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orgs[id]
	if !ok {
		return apperror.NotFound("organization not found")
	}
	for k, v := range fields {
		switch k {
		case "status":
			o.Status = v.(model.OrgStatus)
		case "plan_type":
			o.PlanType = v.(model.PlanType)
		case "is_verified":
			o.IsVerified = v.(bool)
		case "name":
			o.Name = v.(string)
		case "wallet_address":
			w := v.(string)
			for otherID, other := range r.m.orgs {
				if otherID != id && other.WalletAddress != nil && *other.WalletAddress == w {
					return apperror.Conflict("wallet address already in use")
				}
			}
			o.WalletAddress = &w
		case "description":
			o.Description = v.(*string)
		}
	}
	r.m.orgs[id] = o
	return nil
}

type memMembers struct{ m *memDB }

func (r memMembers) Create(ctx context.Context, mb *model.Membership) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failMembershipCreate; err != nil {
		r.m.failMembershipCreate = nil
		return err
	}
	mb.ID = r.m.id()
	mb.JoinedAt = time.Now()
	r.m.members[mb.ID] = *mb
	return nil
}

func (r memMembers) FindFirstByUser(ctx context.Context, userID uint) (*model.Membership, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var first *model.Membership
	for _, mb := range r.m.members {
		if mb.UserID == userID && (first == nil || mb.ID < first.ID) {
			v := mb
			first = &v
		}
	}
	return first, nil
}

func (r memMembers) FindByOrgAndUser(ctx context.Context, orgID, userID uint) (*model.Membership, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, mb := range r.m.members {
		if mb.OrgID == orgID && mb.UserID == userID {
			return &mb, nil
		}
	}
	return nil, nil
}

func (r memMembers) ListByOrg(ctx context.Context, orgID uint) ([]model.Membership, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Membership
	for _, mb := range r.m.members {
		if mb.OrgID == orgID {
			out = append(out, mb)
		}
	}
	return out, nil
}

type memProjects struct{ m *memDB }

func (r memProjects) Create(ctx context.Context, p *model.Project) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p.ID = r.m.id()
	p.CreatedAt = time.Now()
	r.m.projects[p.ID] = *p
	return nil
}

func (r memProjects) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memProjects) List(ctx context.Context, f repository.ProjectFilter) ([]model.Project, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Project
	for _, p := range r.m.projects {
		if f.OrgID != nil && (p.OrgID == nil || *p.OrgID != *f.OrgID) {
			continue
		}
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if f.Nation != nil && p.Nation != *f.Nation {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r memProjects) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.projects[id]
	if !ok {
		return apperror.NotFound("project not found")
	}
	if v, ok := fields["title"].(string); ok {
		p.Title = v
	}
	if v, ok := fields["status"].(model.ProjectStatus); ok {
		p.Status = v
	}
	r.m.projects[id] = p
	return nil
}

func (r memProjects) IncrementRaised(ctx context.Context, id uint, amount string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.projects[id]
	if !ok {
		return apperror.NotFound("project not found")
	}
	cur, _ := strconv.ParseFloat(p.CurrentRaisedUSDC, 64)
	add, _ := strconv.ParseFloat(amount, 64)
	p.CurrentRaisedUSDC = strconv.FormatFloat(cur+add, 'f', -1, 64)
	r.m.projects[id] = p
	return nil
}

type memDonations struct{ m *memDB }

func (r memDonations) Create(ctx context.Context, d *model.Donation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.donations {
		if existing.TransactionHash == d.TransactionHash {
			return apperror.Conflict("transaction hash already recorded")
		}
	}
	d.ID = r.m.id()
	d.DonationDate = time.Now()
	r.m.donations[d.ID] = *d
	return nil
}

func (r memDonations) FindByID(ctx context.Context, id uint) (*model.Donation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.donations[id]
	if !ok {
		return nil, nil
	}
	if p, ok := r.m.projects[d.ProjectID]; ok {
		d.Project = &p
	}
	return &d, nil
}

func (r memDonations) List(ctx context.Context, f repository.DonationFilter) ([]model.Donation, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Donation
	for _, d := range r.m.donations {
		if f.UserID != nil && (d.UserID == nil || *d.UserID != *f.UserID) {
			continue
		}
		if f.ProjectID != nil && d.ProjectID != *f.ProjectID {
			continue
		}
		if f.Status != nil && d.Status != *f.Status {
			continue
		}
		if f.OrgID != nil {
			p := r.m.projects[d.ProjectID]
			if p.OrgID == nil || *p.OrgID != *f.OrgID {
				continue
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r memDonations) UpdateStatus(ctx context.Context, id uint, from, to model.DonationStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.donations[id]
	if !ok || d.Status != from {
		return apperror.InvalidState("donation is no longer " + string(from))
	}
	d.Status = to
	r.m.donations[id] = d
	return nil
}

func (r memDonations) SumConfirmedByProject(ctx context.Context, projectID uint) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	total := 0.0
	for _, d := range r.m.donations {
		if d.ProjectID == projectID && d.Status == model.DonationConfirmed {
			v, _ := strconv.ParseFloat(d.CoinAmount, 64)
			total += v
		}
	}
	return strconv.FormatFloat(total, 'f', -1, 64), nil
}

func (r memDonations) SummarizeByOrg(ctx context.Context, orgID uint) ([]repository.ProjectDonationSummary, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []repository.ProjectDonationSummary
	for _, p := range r.m.projects {
		if p.OrgID == nil || *p.OrgID != orgID {
			continue
		}
		row := repository.ProjectDonationSummary{ProjectID: p.ID, Title: p.Title}
		total := 0.0
		for _, d := range r.m.donations {
			if d.ProjectID != p.ID {
				continue
			}
			row.DonationCount++
			if d.Status == model.DonationConfirmed {
				v, _ := strconv.ParseFloat(d.CoinAmount, 64)
				total += v
			}
		}
		row.TotalConfirmed = strconv.FormatFloat(total, 'f', -1, 64)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectID < out[j].ProjectID })
	return out, nil
}

type memFavorites struct{ m *memDB }

func (r memFavorites) Create(ctx context.Context, f *model.FavoriteProject) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := [2]uint{f.UserID, f.ProjectID}
	if _, ok := r.m.favorites[key]; ok {
		return apperror.Conflict("project already in favorites")
	}
	f.FavoritedAt = time.Now()
	r.m.favorites[key] = *f
	return nil
}

func (r memFavorites) Delete(ctx context.Context, userID, projectID uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := [2]uint{userID, projectID}
	if _, ok := r.m.favorites[key]; !ok {
		return apperror.NotFound("favorite not found")
	}
	delete(r.m.favorites, key)
	return nil
}

func (r memFavorites) ListByUser(ctx context.Context, userID uint) ([]model.FavoriteProject, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.FavoriteProject
	for _, f := range r.m.favorites {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

type memTokens struct{ m *memDB }

func (r memTokens) Create(ctx context.Context, t *model.RefreshToken) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if t.ID == "" {
		t.ID = "ref_" + strconv.Itoa(int(r.m.id()))
	}
	r.m.tokens[t.TokenHash] = *t
	return nil
}

func (r memTokens) FindByHash(ctx context.Context, hash string) (*model.RefreshToken, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.tokens[hash]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r memTokens) RevokeAllForUser(ctx context.Context, userID uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for h, t := range r.m.tokens {
		if t.UserID == userID {
			t.Revoked = true
			r.m.tokens[h] = t
		}
	}
	return nil
}

func (r memTokens) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for h, t := range r.m.tokens {
		if t.Revoked || t.ExpiresAt.Before(now) {
			delete(r.m.tokens, h)
			n++
		}
	}
	return n, nil
}

func (r memTokens) CountActive(ctx context.Context, now time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, t := range r.m.tokens {
		if !t.Revoked && !t.ExpiresAt.Before(now) {
			n++
		}
	}
	return n, nil
}
