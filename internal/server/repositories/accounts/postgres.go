// Package accounts provides a PostgreSQL-backed repository for member accounts.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/dbx"
	"github.com/dmitrijs2005/rpportal/internal/roles"
	"github.com/dmitrijs2005/rpportal/internal/server/models"
)

const accountColumns = `id, email, name, handle, game_uuid, password_hash, role, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner, extra ...any) (*models.Account, error) {
	a := &models.Account{}
	var handle sql.NullString
	var role string
	dest := append([]any{&a.ID, &a.Email, &a.Name, &handle, &a.GameUUID, &a.PasswordHash, &role, &a.CreatedAt, &a.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if handle.Valid {
		a.Handle = &handle.String
	}
	a.Role = roles.Role(role)
	return a, nil
}

func mapConflict(err error) error {
	switch {
	case dbx.IsUniqueViolation(err, "accounts_email_key"):
		return common.Reason(common.ErrorConflict, "email already registered")
	case dbx.IsUniqueViolation(err, "accounts_handle_key"):
		return common.Reason(common.ErrorConflict, "handle already taken")
	case dbx.IsUniqueViolation(err, ""):
		return common.ErrorConflict
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, email, name, handle, game_uuid, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	var handle sql.NullString
	if account.Handle != nil {
		handle = sql.NullString{String: *account.Handle, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.Name, handle, account.GameUUID, account.PasswordHash, string(account.Role),
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, mapConflict(err)
	}
	return account, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *PostgresRepository) FindByEmailOrHandle(ctx context.Context, email, handle string) (*models.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1 OR handle = $2 LIMIT 1`, email, handle)
}

// likePattern turns free text into an ILIKE "contains" pattern.
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(search))
	return "%" + escaped + "%"
}

const searchFilter = `(a.email ILIKE $1 OR a.name ILIKE $1 OR COALESCE(a.handle, '') ILIKE $1)`

func (r *PostgresRepository) List(ctx context.Context, search string, limit, offset int) ([]*models.AccountSummary, error) {
	query := `
		SELECT a.id, a.email, a.name, a.handle, a.game_uuid, a.password_hash, a.role, a.created_at, a.updated_at,
			(SELECT COUNT(*) FROM sessions s WHERE s.account_id = a.id) AS session_count
		FROM accounts a
		WHERE ` + searchFilter + `
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, likePattern(search), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AccountSummary
	for rows.Next() {
		var sessions int
		a, err := scanAccount(rows, &sessions)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &models.AccountSummary{Account: *a, SessionCount: sessions})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Count(ctx context.Context, search string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM accounts a WHERE `+searchFilter, likePattern(search))
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, id string, role roles.Role) (*models.Account, error) {
	query := `
		UPDATE accounts SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + accountColumns
	return r.getOne(ctx, query, id, string(role))
}

// Delete removes the account; its sessions go with it through the foreign key.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) CountAll(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM accounts`)
}

func (r *PostgresRepository) CountByRole(ctx context.Context, role roles.Role) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM accounts WHERE role = $1`, string(role))
}

func (r *PostgresRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM accounts WHERE created_at >= $1 AND created_at < $2`, from, to)
}

func (r *PostgresRepository) Latest(ctx context.Context, n int) ([]*models.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
