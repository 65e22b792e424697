package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/roles"
	"github.com/dmitrijs2005/rpportal/internal/server/auth"
	"github.com/dmitrijs2005/rpportal/internal/server/models"
)

const (
	recentWindow  = 7 * 24 * time.Hour
	latestCount   = 5
	monthsTracked = 6
)

// MonthStat is the number of accounts created in one calendar month.
type MonthStat struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers      int               `json:"totalUsers"`
	TotalAdmins     int               `json:"totalAdmins"`
	TotalModerators int               `json:"totalModerators"`
	RecentUsers     int               `json:"recentUsers"`
	ActiveSessions  int               `json:"activeSessions"`
	LatestUsers     []*models.Account `json:"latestUsers"`
	MonthlyStats    []MonthStat       `json:"monthlyStats"`
}

// Stats gathers the dashboard counters. ADMIN only.
func (s *AccountService) Stats(ctx context.Context, actor *auth.Actor) (*Stats, error) {
	if _, err := auth.Authorize(actor, roles.Admin); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	repo := s.repomanager.Accounts(s.db)
	out := &Stats{}
	var err error

	if out.TotalUsers, err = repo.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("error counting accounts: %w", err)
	}
	if out.TotalAdmins, err = repo.CountByRole(ctx, roles.Admin); err != nil {
		return nil, fmt.Errorf("error counting admins: %w", err)
	}
	if out.TotalModerators, err = repo.CountByRole(ctx, roles.Moderator); err != nil {
		return nil, fmt.Errorf("error counting moderators: %w", err)
	}
	if out.RecentUsers, err = repo.CountCreatedBetween(ctx, now.Add(-recentWindow), now); err != nil {
		return nil, fmt.Errorf("error counting recent accounts: %w", err)
	}
	if out.ActiveSessions, err = s.repomanager.Sessions(s.db).CountActive(ctx, now); err != nil {
		return nil, fmt.Errorf("error counting sessions: %w", err)
	}
	if out.LatestUsers, err = repo.Latest(ctx, latestCount); err != nil {
		return nil, fmt.Errorf("error loading latest accounts: %w", err)
	}
	if out.LatestUsers == nil {
		out.LatestUsers = []*models.Account{}
	}

	for _, m := range monthStarts(now, monthsTracked) {
		n, err := repo.CountCreatedBetween(ctx, m, m.AddDate(0, 1, 0))
		if err != nil {
			return nil, fmt.Errorf("error counting accounts for %s: %w", m.Format("2006-01"), err)
		}
		out.MonthlyStats = append(out.MonthlyStats, MonthStat{Month: m.Format("2006-01"), Count: n})
	}

	return out, nil
}

// monthStarts returns the first instant of the last n calendar months
// (including the current one), oldest first.
func monthStarts(now time.Time, n int) []time.Time {
	cur := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = cur.AddDate(0, -i, 0)
	}
	return out
}
