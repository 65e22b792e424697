// Package applications provides a PostgreSQL-backed repository for
// submitted character applications.
package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/dbx"
	"github.com/dmitrijs2005/rpportal/internal/server/models"
	"github.com/dmitrijs2005/rpportal/internal/skills"
)

const applicationColumns = `id, submitter_id, email, discord_handle, age_irl, discovery, origin, age_rp,
	character_name, main_craft, height, backstory, appearance,
	strength, toughness, agility, intelligence, craft,
	roleplay_contribution, projects, rules_read, lore_read, referrer, created_at`

// PostgresRepository implements application storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
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

func scanApplication(row scanner) (*models.Application, error) {
	a := &models.Application{}
	var submitter sql.NullString
	var str, tough, agi, intel, craft int
	err := row.Scan(
		&a.ID, &submitter, &a.Email, &a.DiscordHandle, &a.AgeIRL, &a.Discovery, &a.Origin, &a.AgeRP,
		&a.CharacterName, &a.MainCraft, &a.Height, &a.Backstory, &a.Appearance,
		&str, &tough, &agi, &intel, &craft,
		&a.RoleplayContribution, &a.Projects, &a.RulesRead, &a.LoreRead, &a.Referrer, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.SubmitterID = submitter.String
	a.Skills = skills.Set{
		skills.Strength:     str,
		skills.Toughness:    tough,
		skills.Agility:      agi,
		skills.Intelligence: intel,
		skills.Craft:        craft,
	}
	return a, nil
}

// Create inserts app and fills in CreatedAt. The five skill levels are
// stored as separate checked columns.
func (r *PostgresRepository) Create(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (id, submitter_id, email, discord_handle, age_irl, discovery, origin, age_rp,
			character_name, main_craft, height, backstory, appearance,
			strength, toughness, agility, intelligence, craft,
			roleplay_contribution, projects, rules_read, lore_read, referrer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING created_at
	`
	var submitter sql.NullString
	if app.SubmitterID != "" {
		submitter = sql.NullString{String: app.SubmitterID, Valid: true}
	}
	s := app.Skills
	err := r.db.QueryRowContext(ctx, query,
		app.ID, submitter, app.Email, app.DiscordHandle, app.AgeIRL, app.Discovery, app.Origin, app.AgeRP,
		app.CharacterName, app.MainCraft, app.Height, app.Backstory, app.Appearance,
		s[skills.Strength], s[skills.Toughness], s[skills.Agility], s[skills.Intelligence], s[skills.Craft],
		app.RoleplayContribution, app.Projects, app.RulesRead, app.LoreRead, app.Referrer,
	).Scan(&app.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	a, err := scanApplication(r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to select applications: %w", err)
	}
	defer rows.Close()

	var result []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
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

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
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
