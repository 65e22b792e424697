package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/dbx"
	"github.com/dmitrijs2005/rpportal/internal/logging"
	"github.com/dmitrijs2005/rpportal/internal/roles"
	"github.com/dmitrijs2005/rpportal/internal/server/config"
	"github.com/dmitrijs2005/rpportal/internal/server/models"
	"github.com/dmitrijs2005/rpportal/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/rpportal/internal/server/repositories/applications"
	"github.com/dmitrijs2005/rpportal/internal/server/repositories/sessions"
	"golang.org/x/crypto/bcrypt"
)

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
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		SessionValidityDuration:     24 * time.Hour,
		BcryptCost:                  bcrypt.MinCost,
	}
}

func newAccountService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *AccountService {
	t.Helper()
	return NewAccountService(db, rm, testConfig())
}

// fakeAccounts keeps accounts in memory. Errors set on the struct are
// returned by every call.
type fakeAccounts struct {
	mu   sync.Mutex
	byID map[string]*models.Account
	err  error
}

func (f *fakeAccounts) add(a *models.Account) *models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byID == nil {
		f.byID = map[string]*models.Account{}
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	f.byID[a.ID] = a
	return a
}

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, ex := range f.byID {
		if ex.Email == a.Email {
			return nil, common.Reason(common.ErrorConflict, "email already registered")
		}
	}
	cp := *a
	return f.add(&cp), nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) FindByEmailOrHandle(_ context.Context, email, handle string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email || (a.Handle != nil && *a.Handle == handle) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) matching(search string) []*models.Account {
	var out []*models.Account
	for _, a := range f.byID {
		if search == "" || strings.Contains(strings.ToLower(a.Email+" "+a.Name), strings.ToLower(search)) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeAccounts) List(_ context.Context, search string, limit, offset int) ([]*models.AccountSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.matching(search)
	var out []*models.AccountSummary
	for i := offset; i < len(all) && i < offset+limit; i++ {
		out = append(out, &models.AccountSummary{Account: *all[i]})
	}
	return out, nil
}

func (f *fakeAccounts) Count(_ context.Context, search string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matching(search)), nil
}

func (f *fakeAccounts) UpdateRole(_ context.Context, id string, role roles.Role) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a.Role = role
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAccounts) CountAll(ctx context.Context) (int, error) { return f.Count(ctx, "") }

func (f *fakeAccounts) CountByRole(_ context.Context, role roles.Role) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, a := range f.byID {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeAccounts) CountCreatedBetween(_ context.Context, from, to time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, a := range f.byID {
		if !a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (f *fakeAccounts) Latest(_ context.Context, n int) ([]*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	all := f.matching("")
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

type fakeSessions struct {
	mu        sync.Mutex
	byToken   map[string]*models.Session
	createErr error
	findErr   error
	deleteErr error
	deleted   []string
}

func (f *fakeSessions) Create(_ context.Context, s *models.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byToken == nil {
		f.byToken = map[string]*models.Session{}
	}
	cp := *s
	f.byToken[s.Token] = &cp
	return nil
}

func (f *fakeSessions) Find(_ context.Context, token string) (*models.Session, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byToken[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byToken, token)
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeSessions) DeleteByAccount(_ context.Context, accountID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for tok, s := range f.byToken {
		if s.AccountID == accountID {
			delete(f.byToken, tok)
			n++
		}
	}
	return n, nil
}

func (f *fakeSessions) CountActive(_ context.Context, now time.Time) (int, error) {
	n := 0
	for _, s := range f.byToken {
		if !s.Expired(now) {
			n++
		}
	}
	return n, nil
}

func (f *fakeSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for tok, s := range f.byToken {
		if s.Expired(now) {
			delete(f.byToken, tok)
			n++
		}
	}
	return n, nil
}

type fakeApplications struct {
	byID map[string]*models.Application
	err  error
}

func (f *fakeApplications) Create(_ context.Context, app *models.Application) error {
	if f.err != nil {
		return f.err
	}
	if f.byID == nil {
		f.byID = map[string]*models.Application{}
	}
	app.CreatedAt = time.Now()
	f.byID[app.ID] = app
	return nil
}

func (f *fakeApplications) GetByID(_ context.Context, id string) (*models.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeApplications) List(_ context.Context, limit, offset int) ([]*models.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	var all []*models.Application
	for _, a := range f.byID {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	var out []*models.Application
	for i := offset; i < len(all) && i < offset+limit; i++ {
		out = append(out, all[i])
	}
	return out, nil
}

func (f *fakeApplications) Count(context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.byID), nil
}

func (f *fakeApplications) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRepoManager struct {
	a   *fakeAccounts
	s   *fakeSessions
	app *fakeApplications
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{a: &fakeAccounts{}, s: &fakeSessions{}, app: &fakeApplications{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository         { return m.a }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository         { return m.s }
func (m *fakeRepoManager) Applications(db dbx.DBTX) applications.Repository { return m.app }

// recordingLogger keeps warnings so tests can assert a failure was reported.
type recordingLogger struct {
	logging.Nop
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) With(...any) logging.Logger { return l }
