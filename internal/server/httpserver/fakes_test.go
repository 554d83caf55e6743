package httpserver

import (
	"context"

	"github.com/dmitrijs2005/campusevents/internal/common"
	"github.com/dmitrijs2005/campusevents/internal/server/auth"
	"github.com/dmitrijs2005/campusevents/internal/server/models"
	"github.com/dmitrijs2005/campusevents/internal/server/services"
)

var (
	adminUser = &models.User{ID: "11111111-1111-1111-1111-111111111111", Name: "Admin", Email: "admin@x.com", Role: models.RoleAdmin}
	plainUser = &models.User{ID: "22222222-2222-2222-2222-222222222222", Name: "Alice", Email: "alice@x.com", Role: models.RoleUser}
)

// tokens accepted by fakeUsers.Authenticate
const (
	adminToken = "admin-token"
	userToken  = "user-token"
)

type fakeUsers struct {
	registerIn  services.RegisterInput
	registerErr error
	loginErr    error
	authErr     error
}

func (f *fakeUsers) Register(_ context.Context, in services.RegisterInput) (*models.User, error) {
	f.registerIn = in
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "new", Name: in.Name, Email: in.Email, PasswordHash: "secret-hash", Role: models.RoleUser}, nil
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.LoginResult{Token: "signed", User: plainUser}, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.User, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	switch token {
	case adminToken:
		return adminUser, nil
	case userToken:
		return plainUser, nil
	}
	return nil, common.ErrInvalidOrExpiredToken
}

type fakeEvents struct {
	filter  models.EventFilter
	created *models.EventInput
	err     error
	panics  bool
}

func (f *fakeEvents) List(_ context.Context, filter models.EventFilter) (*models.EventPage, error) {
	f.filter = filter
	if f.panics {
		panic("boom")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.EventPage{Total: 0, Page: 1, Limit: 10, Items: []*models.Event{}}, nil
}

func (f *fakeEvents) Search(_ context.Context, q string, page, limit int) (*models.EventPage, error) {
	f.filter = models.EventFilter{Search: q, Page: page, Limit: limit}
	return &models.EventPage{Page: 1, Limit: 10, Items: []*models.Event{}}, f.err
}

func (f *fakeEvents) Get(_ context.Context, id string) (*models.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Event{ID: id, Name: "Seminar"}, nil
}

func (f *fakeEvents) Create(_ context.Context, in models.EventInput) (*models.Event, error) {
	f.created = &in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Event{ID: "e-new", Name: *in.Name, Date: *in.Date, Time: in.Time}, nil
}

func (f *fakeEvents) Update(_ context.Context, id string, in models.EventInput) (*models.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Event{ID: id, Name: *in.Name}, nil
}

func (f *fakeEvents) Delete(_ context.Context, id string) (*models.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Event{ID: id}, nil
}

type fakeRegistrations struct {
	regs      map[string]bool
	requester auth.Identity
	err       error
}

func (f *fakeRegistrations) Register(_ context.Context, eventID, userID string) (*models.Registration, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	if f.regs == nil {
		f.regs = map[string]bool{}
	}
	key := eventID + "/" + userID
	created := !f.regs[key]
	f.regs[key] = true
	return &models.Registration{ID: "r-1", EventID: eventID, UserID: userID, Status: models.StatusRegistered}, created, nil
}

func (f *fakeRegistrations) CancelForUser(_ context.Context, eventID, userID string) (*models.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Registration{ID: "r-1", EventID: eventID, UserID: userID}, nil
}

func (f *fakeRegistrations) CancelByID(_ context.Context, eventID, regID string, requester auth.Identity) (*models.Registration, error) {
	f.requester = requester
	if f.err != nil {
		return nil, f.err
	}
	return &models.Registration{ID: regID, EventID: eventID}, nil
}

func (f *fakeRegistrations) ListByEvent(_ context.Context, eventID string) ([]*models.EventRegistration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*models.EventRegistration{}, nil
}

func (f *fakeRegistrations) ListByUser(_ context.Context, userID string) ([]*models.UserRegistration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*models.UserRegistration{{Registration: models.Registration{UserID: userID}}}, nil
}

func (f *fakeRegistrations) ListForUser(_ context.Context, requester auth.Identity, userID string) ([]*models.UserRegistration, error) {
	f.requester = requester
	if !requester.CanActFor(userID) {
		return nil, common.ErrForbidden
	}
	return f.ListByUser(context.Background(), userID)
}
