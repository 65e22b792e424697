package httpserver

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/logging"
	"github.com/dmitrijs2005/rpportal/internal/roles"
	"github.com/dmitrijs2005/rpportal/internal/server/auth"
	"github.com/dmitrijs2005/rpportal/internal/server/config"
	"github.com/dmitrijs2005/rpportal/internal/server/models"
	"github.com/dmitrijs2005/rpportal/internal/server/services"
)

const testSecret = "test-secret"

type fakeAccountService struct {
	registerIn  services.RegisterInput
	registerOut *models.Account
	registerErr error

	loginOut *services.TokenPair
	loginErr error

	refreshToken string
	refreshOut   *services.TokenPair
	refreshErr   error

	loggedOut []string

	listQuery services.ListQuery
	listOut   *services.AccountPage

	roleID, role string
	roleOut      *models.Account

	deletedID string

	statsOut *services.Stats
}

func (f *fakeAccountService) Register(_ context.Context, in services.RegisterInput) (*models.Account, error) {
	f.registerIn = in
	return f.registerOut, f.registerErr
}

func (f *fakeAccountService) Login(context.Context, string, string) (*services.TokenPair, error) {
	return f.loginOut, f.loginErr
}

func (f *fakeAccountService) Refresh(_ context.Context, token string) (*services.TokenPair, error) {
	f.refreshToken = token
	return f.refreshOut, f.refreshErr
}

func (f *fakeAccountService) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeAccountService) List(_ context.Context, actor *auth.Actor, q services.ListQuery) (*services.AccountPage, error) {
	if _, err := auth.Authorize(actor, roles.Admin); err != nil {
		return nil, err
	}
	f.listQuery = q
	return f.listOut, nil
}

func (f *fakeAccountService) UpdateRole(_ context.Context, actor *auth.Actor, id, role string) (*models.Account, error) {
	if _, err := auth.Authorize(actor, roles.Admin); err != nil {
		return nil, err
	}
	if id == actor.ID {
		return nil, common.Reason(common.ErrorConflict, "you cannot change your own role")
	}
	f.roleID, f.role = id, role
	return f.roleOut, nil
}

func (f *fakeAccountService) Delete(_ context.Context, actor *auth.Actor, id string) error {
	if _, err := auth.Authorize(actor, roles.Admin); err != nil {
		return err
	}
	f.deletedID = id
	return nil
}

func (f *fakeAccountService) Stats(_ context.Context, actor *auth.Actor) (*services.Stats, error) {
	if _, err := auth.Authorize(actor, roles.Admin); err != nil {
		return nil, err
	}
	return f.statsOut, nil
}

type fakeApplicationService struct {
	submitted *services.Draft
	submitOut *models.Application
	submitErr error

	getOut *models.Application
	getErr error

	listPage, listLimit int
	deleted             string
}

func (f *fakeApplicationService) Submit(_ context.Context, actor *auth.Actor, d services.Draft) (*models.Application, error) {
	if _, err := auth.Authorize(actor, roles.User); err != nil {
		return nil, err
	}
	f.submitted = &d
	return f.submitOut, f.submitErr
}

func (f *fakeApplicationService) Get(_ context.Context, actor *auth.Actor, id string) (*models.Application, error) {
	if _, err := auth.Authorize(actor, roles.Admin); err != nil {
		return nil, err
	}
	return f.getOut, f.getErr
}

func (f *fakeApplicationService) List(_ context.Context, actor *auth.Actor, page, limit int) (*services.ApplicationPage, error) {
	if _, err := auth.Authorize(actor, roles.Admin); err != nil {
		return nil, err
	}
	f.listPage, f.listLimit = page, limit
	return &services.ApplicationPage{Applications: []*models.Application{}}, nil
}

func (f *fakeApplicationService) Delete(_ context.Context, actor *auth.Actor, id string) error {
	if _, err := auth.Authorize(actor, roles.Admin); err != nil {
		return err
	}
	f.deleted = id
	return nil
}

type fakePinger struct{ err error }

func (p *fakePinger) PingContext(context.Context) error { return p.err }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = testSecret
	cfg.SiteURL = "https://example.org"
	cfg.StatusURL = ""
	cfg.LoginMaxAttempts = 3
	return cfg
}

func newTestServer(t *testing.T) (*Server, *fakeAccountService, *fakeApplicationService) {
	t.Helper()
	as := &fakeAccountService{}
	aps := &fakeApplicationService{}
	s := NewServer(testConfig(), logging.Nop{}, as, aps, nil)
	s.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s, as, aps
}

func bearer(t *testing.T, id string, role roles.Role) string {
	t.Helper()
	tok, err := auth.GenerateToken(&auth.Actor{ID: id, Email: id + "@example.com", Name: id, Role: role}, []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return "Bearer " + tok
}
