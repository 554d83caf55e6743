package services

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/campusevents/internal/common"
	"github.com/dmitrijs2005/campusevents/internal/dbx"
	"github.com/dmitrijs2005/campusevents/internal/server/config"
	"github.com/dmitrijs2005/campusevents/internal/server/models"
	"github.com/dmitrijs2005/campusevents/internal/server/repositories/events"
	"github.com/dmitrijs2005/campusevents/internal/server/repositories/registrations"
	"github.com/dmitrijs2005/campusevents/internal/server/repositories/users"
	"github.com/google/uuid"
)

// memStore backs every fake repository. A single mutex enforces the same
// uniqueness rules as the database constraints.
type memStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	evs   map[string]*models.Event
	regs  map[string]*models.Registration

	// failWith, when set, is returned by every repository call.
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*models.User{},
		evs:   map[string]*models.Event{},
		regs:  map[string]*models.Registration{},
	}
}

type fakeRepoManager struct {
	s *memStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return &fakeUsers{m.s} }
func (m *fakeRepoManager) Events(dbx.DBTX) events.Repository           { return &fakeEvents{m.s} }
func (m *fakeRepoManager) Registrations(dbx.DBTX) registrations.Repository {
	return &fakeRegistrations{m.s}
}

// --- users ---

type fakeUsers struct{ s *memStore }

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, f.s.failWith
	}
	for _, existing := range f.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	f.s.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, f.s.failWith
	}
	for _, u := range f.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, f.s.failWith
	}
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// --- events ---

type fakeEvents struct{ s *memStore }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (f *fakeEvents) List(_ context.Context, filter models.EventFilter) ([]*models.Event, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, 0, f.s.failWith
	}
	var all []*models.Event
	for _, e := range f.s.evs {
		if filter.Location != "" && !strings.EqualFold(e.Location, filter.Location) {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *e
		all = append(all, &cp)
	}
	slices.SortFunc(all, func(a, b *models.Event) int { return b.CreatedAt.Compare(a.CreatedAt) })

	from := min((filter.Page-1)*filter.Limit, len(all))
	to := min(from+filter.Limit, len(all))
	return all[from:to], len(all), nil
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (*models.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, f.s.failWith
	}
	e, ok := f.s.evs[id]
	if !ok {
		return nil, common.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) Create(_ context.Context, in models.EventInput) (*models.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, f.s.failWith
	}
	e := &models.Event{
		ID:          uuid.NewString(),
		Name:        deref(in.Name),
		Date:        deref(in.Date),
		Time:        in.Time,
		Location:    deref(in.Location),
		Category:    deref(in.Category),
		Description: in.Description,
		CreatedAt:   time.Now().Add(time.Duration(len(f.s.evs)) * time.Millisecond),
	}
	f.s.evs[e.ID] = e
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) Update(_ context.Context, id string, in models.EventInput) (*models.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, f.s.failWith
	}
	e, ok := f.s.evs[id]
	if !ok {
		return nil, common.ErrEventNotFound
	}
	if in.Name != nil {
		e.Name = *in.Name
	}
	if in.Date != nil {
		e.Date = *in.Date
	}
	if in.Time != nil {
		e.Time = in.Time
	}
	if in.Location != nil {
		e.Location = *in.Location
	}
	if in.Category != nil {
		e.Category = *in.Category
	}
	if in.Description != nil {
		e.Description = in.Description
	}
	now := time.Now()
	e.UpdatedAt = &now
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) Delete(_ context.Context, id string) (*models.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, f.s.failWith
	}
	e, ok := f.s.evs[id]
	if !ok {
		return nil, common.ErrEventNotFound
	}
	delete(f.s.evs, id)
	for rid, r := range f.s.regs {
		if r.EventID == id {
			delete(f.s.regs, rid)
		}
	}
	return e, nil
}

// --- registrations ---

type fakeRegistrations struct{ s *memStore }

func (f *fakeRegistrations) Register(_ context.Context, eventID, userID string) (*models.Registration, bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, false, f.s.failWith
	}
	if _, ok := f.s.evs[eventID]; !ok {
		return nil, false, common.ErrEventNotFound
	}
	for _, r := range f.s.regs {
		if r.EventID == eventID && r.UserID == userID {
			if r.Status == models.StatusCancelled {
				r.Status = models.StatusRegistered
				r.RegisteredAt = time.Now()
				cp := *r
				return &cp, true, nil
			}
			cp := *r
			return &cp, false, nil
		}
	}
	r := &models.Registration{
		ID:           uuid.NewString(),
		EventID:      eventID,
		UserID:       userID,
		RegisteredAt: time.Now(),
		Status:       models.StatusRegistered,
	}
	f.s.regs[r.ID] = r
	cp := *r
	return &cp, true, nil
}

func (f *fakeRegistrations) GetByID(_ context.Context, id string) (*models.Registration, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, f.s.failWith
	}
	r, ok := f.s.regs[id]
	if !ok {
		return nil, common.ErrRegistrationNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRegistrations) DeleteByID(_ context.Context, id string) (*models.Registration, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, f.s.failWith
	}
	r, ok := f.s.regs[id]
	if !ok {
		return nil, common.ErrRegistrationNotFound
	}
	delete(f.s.regs, id)
	return r, nil
}

func (f *fakeRegistrations) DeleteActive(_ context.Context, eventID, userID string) (*models.Registration, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, f.s.failWith
	}
	for id, r := range f.s.regs {
		if r.EventID == eventID && r.UserID == userID && r.Status == models.StatusRegistered {
			delete(f.s.regs, id)
			return r, nil
		}
	}
	return nil, common.ErrRegistrationNotFound
}

func (f *fakeRegistrations) ListByEvent(_ context.Context, eventID string) ([]*models.EventRegistration, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, f.s.failWith
	}
	out := []*models.EventRegistration{}
	for _, r := range f.s.regs {
		if r.EventID != eventID {
			continue
		}
		u := f.s.users[r.UserID]
		item := &models.EventRegistration{Registration: *r}
		if u != nil {
			item.UserName, item.UserEmail = u.Name, u.Email
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRegistrations) ListByUser(_ context.Context, userID string) ([]*models.UserRegistration, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failWith != nil {
		return nil, f.s.failWith
	}
	out := []*models.UserRegistration{}
	for _, r := range f.s.regs {
		if r.UserID != userID {
			continue
		}
		e := f.s.evs[r.EventID]
		item := &models.UserRegistration{Registration: *r}
		if e != nil {
			item.EventName, item.Date, item.Time, item.Location, item.Category = e.Name, e.Date, e.Time, e.Location, e.Category
		}
		out = append(out, item)
	}
	return out, nil
}

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.BcryptCost = 4
	return cfg
}

func strp(s string) *string { return &s }

func seedEvent(t *testing.T, s *memStore, name string) *models.Event {
	t.Helper()
	e, err := (&fakeEvents{s}).Create(context.Background(), models.EventInput{
		Name: strp(name), Date: strp("2025-06-01"), Location: strp("Aula"), Category: strp(models.CategorySeminar),
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return e
}

func seedUser(t *testing.T, s *memStore, email, role string) *models.User {
	t.Helper()
	u, err := (&fakeUsers{s}).Create(context.Background(), &models.User{Name: "Seed", Email: email, PasswordHash: "x", Role: role})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}
