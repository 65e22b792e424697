// Package services contains the portal's business logic. AccountService
// covers registration, sessions and account administration;
// ApplicationService covers character applications.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/dbx"
	"github.com/dmitrijs2005/rpportal/internal/logging"
	"github.com/dmitrijs2005/rpportal/internal/roles"
	"github.com/dmitrijs2005/rpportal/internal/server/auth"
	"github.com/dmitrijs2005/rpportal/internal/server/config"
	"github.com/dmitrijs2005/rpportal/internal/server/models"
	"github.com/dmitrijs2005/rpportal/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	errInvalidCredentials = common.Reason(common.ErrorUnauthenticated, "invalid credentials")
	errSessionExpired     = common.Reason(common.ErrRefreshTokenExpired, "session expired")
	errAccountNotFound    = common.Reason(common.ErrorNotFound, "account not found")
	errSelfRoleChange     = common.Reason(common.ErrorConflict, "you cannot change your own role")
	errSelfDelete         = common.Reason(common.ErrorConflict, "you cannot delete your own account")
)

// TokenPair is what a successful login or refresh hands back: a short-lived
// access token and the opaque session token stored in the cookie.
type TokenPair struct {
	AccessToken      string
	SessionToken     string
	SessionExpiresAt time.Time
	Actor            *auth.Actor
}

// dummyPassword is hashed once and compared against when the email is
// unknown, so a failed login always costs one bcrypt comparison.
const dummyPassword = "rpportal-no-such-account"

// RegisterInput is a self-service registration request. GameUUID is
// optional.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Handle   string `json:"handle"`
	GameUUID string `json:"gameUuid,omitempty"`
}

// ListQuery selects a page of accounts.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// AccountPage is one page of the admin account listing.
type AccountPage struct {
	Users      []*models.AccountSummary `json:"users"`
	Pagination Pagination               `json:"pagination"`
}

// AccountService handles registration, login, session rotation and the
// admin-only account operations.
type AccountService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	sessionValidityDuration     time.Duration
	bcryptCost                  int
	now                         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAccountService constructs an AccountService using repositories and server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		sessionValidityDuration:     cfg.SessionValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
		now:                         time.Now,
	}
}

// Register creates a USER account. The email is stored lower-cased and the
// handle doubles as the display name.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	email := auth.NormalizeEmail(in.Email)
	handle := strings.TrimSpace(in.Handle)
	gameUUID := strings.ToLower(strings.TrimSpace(in.GameUUID))

	if email == "" || in.Password == "" || handle == "" {
		return nil, common.NewValidationError("email, password and handle are required")
	}

	var problems []string
	if !auth.ValidEmail(email) {
		problems = append(problems, "invalid email address")
	}
	if !auth.ValidateHandle(handle) {
		problems = append(problems, "handle must be 3 to 16 letters, digits or underscores")
	}
	if gameUUID != "" && !auth.ValidateGameUUID(gameUUID) {
		problems = append(problems, "invalid game UUID")
	}
	problems = append(problems, auth.ValidatePasswordStrength(in.Password)...)
	if err := common.NewValidationError(problems...); err != nil {
		return nil, err
	}

	repo := s.repomanager.Accounts(s.db)

	existing, err := repo.FindByEmailOrHandle(ctx, email, handle)
	switch {
	case err == nil:
		if existing.Email == email {
			return nil, common.Reason(common.ErrorConflict, "email already registered")
		}
		return nil, common.Reason(common.ErrorConflict, "handle already taken")
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error checking existing account: %w", err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         handle,
		Handle:       &handle,
		GameUUID:     gameUUID,
		PasswordHash: hash,
		Role:         roles.User,
	}
	created, err := repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return created, nil
}

// Login verifies the credentials and opens a session. The role embedded in
// the access token is read from storage here and not re-read until the
// session is refreshed.
func (s *AccountService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, auth.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = auth.ComparePassword(s.unknownAccountHash(), password)
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		if errors.Is(err, common.ErrorUnauthenticated) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("error comparing password: %w", err)
	}

	return s.openSession(ctx, s.db, account)
}

// Refresh rotates sessionToken: the old session is deleted and a new one
// issued in the same transaction, with the account re-read for its current
// role.
func (s *AccountService) Refresh(ctx context.Context, sessionToken string) (*TokenPair, error) {
	if sessionToken == "" {
		return nil, common.ErrorUnauthenticated
	}

	session, err := s.repomanager.Sessions(s.db).Find(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errSessionExpired
		}
		return nil, fmt.Errorf("error searching session: %w", err)
	}
	if session.Expired(s.now()) {
		if err := s.repomanager.Sessions(s.db).Delete(ctx, sessionToken); err != nil {
			logging.FromContext(ctx, nil).Warn(ctx, "expired session not deleted", "account_id", session.AccountID, "error", err)
		}
		return nil, errSessionExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Sessions(tx).Delete(ctx, sessionToken); err != nil {
			return fmt.Errorf("error deleting session: %w", err)
		}
		account, err := s.repomanager.Accounts(tx).GetByID(ctx, session.AccountID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errSessionExpired
			}
			return fmt.Errorf("error loading account: %w", err)
		}
		pair, err = s.openSession(ctx, tx, account)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes sessionToken. Unknown tokens are ignored.
func (s *AccountService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	if err := s.repomanager.Sessions(s.db).Delete(ctx, sessionToken); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// List returns a page of accounts matching q.Search. ADMIN only.
func (s *AccountService) List(ctx context.Context, actor *auth.Actor, q ListQuery) (*AccountPage, error) {
	if _, err := auth.Authorize(actor, roles.Admin); err != nil {
		return nil, err
	}

	page, size := ClampPage(q.Page, q.Limit)
	search := strings.TrimSpace(q.Search)
	repo := s.repomanager.Accounts(s.db)

	total, err := repo.Count(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("error counting accounts: %w", err)
	}
	users, err := repo.List(ctx, search, size, offset(page, size))
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	if users == nil {
		users = []*models.AccountSummary{}
	}

	return &AccountPage{Users: users, Pagination: newPagination(page, size, total)}, nil
}

// UpdateRole changes the role of another account. ADMIN only.
func (s *AccountService) UpdateRole(ctx context.Context, actor *auth.Actor, id, role string) (*models.Account, error) {
	actor, err := auth.Authorize(actor, roles.Admin)
	if err != nil {
		return nil, err
	}
	if id == "" || role == "" {
		return nil, common.NewValidationError("account id and role are required")
	}
	newRole, err := roles.Parse(role)
	if err != nil {
		return nil, common.NewValidationError("unknown role")
	}

	repo := s.repomanager.Accounts(s.db)
	if _, err := s.lookup(ctx, repo.GetByID, id); err != nil {
		return nil, err
	}
	if id == actor.ID {
		return nil, errSelfRoleChange
	}

	updated, err := repo.UpdateRole(ctx, id, newRole)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errAccountNotFound
		}
		return nil, fmt.Errorf("error updating role: %w", err)
	}
	return updated, nil
}

// Delete removes another account together with its sessions. ADMIN only.
func (s *AccountService) Delete(ctx context.Context, actor *auth.Actor, id string) error {
	actor, err := auth.Authorize(actor, roles.Admin)
	if err != nil {
		return err
	}
	if id == "" {
		return common.NewValidationError("account id is required")
	}
	if id == actor.ID {
		return errSelfDelete
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		accounts := s.repomanager.Accounts(tx)
		if _, err := s.lookup(ctx, accounts.GetByID, id); err != nil {
			return err
		}
		if _, err := s.repomanager.Sessions(tx).DeleteByAccount(ctx, id); err != nil {
			return fmt.Errorf("error deleting sessions: %w", err)
		}
		if err := accounts.Delete(ctx, id); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errAccountNotFound
			}
			return fmt.Errorf("error deleting account: %w", err)
		}
		return nil
	})
}

// Bootstrap provisions an ADMIN account, promoting an existing account with
// the same email instead of creating one. The boolean reports creation.
func (s *AccountService) Bootstrap(ctx context.Context, email, password, handle string) (*models.Account, bool, error) {
	email = auth.NormalizeEmail(email)
	handle = strings.TrimSpace(handle)

	var problems []string
	if !auth.ValidEmail(email) {
		problems = append(problems, "invalid email address")
	}
	if handle != "" && !auth.ValidateHandle(handle) {
		problems = append(problems, "handle must be 3 to 16 letters, digits or underscores")
	}
	if err := common.NewValidationError(problems...); err != nil {
		return nil, false, err
	}

	repo := s.repomanager.Accounts(s.db)

	existing, err := repo.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role == roles.Admin {
			return existing, false, nil
		}
		promoted, err := repo.UpdateRole(ctx, existing.ID, roles.Admin)
		if err != nil {
			return nil, false, fmt.Errorf("error promoting account: %w", err)
		}
		return promoted, false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, false, fmt.Errorf("error loading account: %w", err)
	}

	if err := common.NewValidationError(auth.ValidatePasswordStrength(password)...); err != nil {
		return nil, false, err
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, false, fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.SplitN(email, "@", 2)[0],
		PasswordHash: hash,
		Role:         roles.Admin,
	}
	if handle != "" {
		account.Name = handle
		account.Handle = &handle
	}
	created, err := repo.Create(ctx, account)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// PurgeExpiredSessions deletes sessions that have expired.
func (s *AccountService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repomanager.Sessions(s.db).DeleteExpired(ctx, s.now())
}

// --- helpers below ---

// lookup maps malformed ids and missing rows to errAccountNotFound.
func (s *AccountService) lookup(ctx context.Context, get func(context.Context, string) (*models.Account, error), id string) (*models.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errAccountNotFound
	}
	a, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errAccountNotFound
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return a, nil
}

func actorOf(a *models.Account) *auth.Actor {
	return &auth.Actor{ID: a.ID, Email: a.Email, Name: a.Name, Role: a.Role}
}

func (s *AccountService) openSession(ctx context.Context, db dbx.DBTX, account *models.Account) (*TokenPair, error) {
	actor := actorOf(account)

	access, err := auth.GenerateToken(actor, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error signing access token: %w", err)
	}
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("error generating session token: %w", err)
	}

	session := &models.Session{
		AccountID: account.ID,
		Token:     token,
		ExpiresAt: s.now().Add(s.sessionValidityDuration),
	}
	if err := s.repomanager.Sessions(db).Create(ctx, session); err != nil {
		return nil, fmt.Errorf("error storing session: %w", err)
	}

	return &TokenPair{
		AccessToken:      access,
		SessionToken:     token,
		SessionExpiresAt: session.ExpiresAt,
		Actor:            actor,
	}, nil
}

// unknownAccountHash returns the hash of dummyPassword at the configured
// cost, computing it on first use.
func (s *AccountService) unknownAccountHash() string {
	s.dummyOnce.Do(func() {
		h, err := auth.HashPassword(dummyPassword, s.bcryptCost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
