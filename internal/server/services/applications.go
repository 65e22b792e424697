package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/dbx"
	"github.com/dmitrijs2005/rpportal/internal/roles"
	"github.com/dmitrijs2005/rpportal/internal/server/auth"
	"github.com/dmitrijs2005/rpportal/internal/server/models"
	"github.com/dmitrijs2005/rpportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rpportal/internal/skills"
	"github.com/google/uuid"
)

var (
	errApplicationNotFound = common.Reason(common.ErrorNotFound, "application not found")
	errSubmitterGone       = common.Reason(common.ErrorUnauthenticated, "account no longer exists")
)

// Draft is an application as submitted by a player. Ages arrive from an
// HTML form and are decoded by the transport layer.
type Draft struct {
	Email                string
	DiscordHandle        string
	AgeIRL               int
	Discovery            string
	Origin               string
	AgeRP                int
	CharacterName        string
	MainCraft            string
	Height               string
	Backstory            string
	Appearance           string
	Skills               skills.Set
	RoleplayContribution string
	Projects             string
	RulesRead            bool
	LoreRead             bool
	Referrer             string
}

// ApplicationPage is one page of submitted applications.
type ApplicationPage struct {
	Applications []*models.Application `json:"applications"`
	Pagination   Pagination            `json:"pagination"`
}

type ApplicationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewApplicationService(db *sql.DB, m repomanager.RepositoryManager) *ApplicationService {
	return &ApplicationService{db: db, repomanager: m}
}

// Submit validates d and stores it on behalf of actor.
func (s *ApplicationService) Submit(ctx context.Context, actor *auth.Actor, d Draft) (*models.Application, error) {
	actor, err := auth.Authorize(actor, roles.User)
	if err != nil {
		return nil, err
	}
	if err := validateDraft(d); err != nil {
		return nil, err
	}

	email := auth.NormalizeEmail(d.Email)
	if email == "" {
		email = actor.Email
	}

	app := &models.Application{
		ID:                   uuid.NewString(),
		SubmitterID:          actor.ID,
		Email:                email,
		DiscordHandle:        strings.TrimSpace(d.DiscordHandle),
		AgeIRL:               d.AgeIRL,
		Discovery:            strings.TrimSpace(d.Discovery),
		Origin:               d.Origin,
		AgeRP:                d.AgeRP,
		CharacterName:        strings.TrimSpace(d.CharacterName),
		MainCraft:            d.MainCraft,
		Height:               strings.TrimSpace(d.Height),
		Backstory:            d.Backstory,
		Appearance:           d.Appearance,
		Skills:               d.Skills.Clone(),
		RoleplayContribution: d.RoleplayContribution,
		Projects:             d.Projects,
		RulesRead:            d.RulesRead,
		LoreRead:             d.LoreRead,
		Referrer:             strings.TrimSpace(d.Referrer),
	}

	if err := s.repomanager.Applications(s.db).Create(ctx, app); err != nil {
		if dbx.IsForeignKeyViolation(err, "") {
			return nil, errSubmitterGone
		}
		return nil, fmt.Errorf("error storing application: %w", err)
	}
	return app, nil
}

// Get returns one application. ADMIN only.
func (s *ApplicationService) Get(ctx context.Context, actor *auth.Actor, id string) (*models.Application, error) {
	if _, err := auth.Authorize(actor, roles.Admin); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, errApplicationNotFound
	}
	app, err := s.repomanager.Applications(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errApplicationNotFound
		}
		return nil, fmt.Errorf("error loading application: %w", err)
	}
	return app, nil
}

// List returns applications newest first. ADMIN only.
func (s *ApplicationService) List(ctx context.Context, actor *auth.Actor, page, limit int) (*ApplicationPage, error) {
	if _, err := auth.Authorize(actor, roles.Admin); err != nil {
		return nil, err
	}

	page, size := ClampPage(page, limit)
	repo := s.repomanager.Applications(s.db)

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting applications: %w", err)
	}
	apps, err := repo.List(ctx, size, offset(page, size))
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	if apps == nil {
		apps = []*models.Application{}
	}
	return &ApplicationPage{Applications: apps, Pagination: newPagination(page, size, total)}, nil
}

// Delete removes an application. ADMIN only.
func (s *ApplicationService) Delete(ctx context.Context, actor *auth.Actor, id string) error {
	if _, err := auth.Authorize(actor, roles.Admin); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return errApplicationNotFound
	}
	if err := s.repomanager.Applications(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errApplicationNotFound
		}
		return fmt.Errorf("error deleting application: %w", err)
	}
	return nil
}

func validateDraft(d Draft) error {
	var problems []string

	if strings.TrimSpace(d.DiscordHandle) == "" ||
		strings.TrimSpace(d.CharacterName) == "" ||
		strings.TrimSpace(d.Backstory) == "" {
		problems = append(problems, "required fields are missing")
	}
	if d.Email != "" && !auth.ValidEmail(auth.NormalizeEmail(d.Email)) {
		problems = append(problems, "invalid email address")
	}
	if d.AgeIRL <= 0 || d.AgeRP <= 0 {
		problems = append(problems, "ages must be positive numbers")
	}
	if !slices.Contains(models.Origins, d.Origin) {
		problems = append(problems, "unknown origin")
	}
	if !slices.Contains(models.Crafts, d.MainCraft) {
		problems = append(problems, "unknown craft")
	}
	if !d.RulesRead || !d.LoreRead {
		problems = append(problems, "rules and lore must be read")
	}

	var ve *common.ValidationError
	if err := skills.Validate(d.Skills); errors.As(err, &ve) {
		problems = append(problems, ve.Problems...)
	} else if err != nil {
		problems = append(problems, err.Error())
	}

	return common.NewValidationError(problems...)
}
