package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/roles"
	"github.com/dmitrijs2005/rpportal/internal/server/auth"
	"github.com/dmitrijs2005/rpportal/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthStarts(t *testing.T) {
	now := time.Date(2025, time.March, 17, 10, 0, 0, 0, time.UTC)

	got := monthStarts(now, 6)

	var labels []string
	for _, m := range got {
		labels = append(labels, m.Format("2006-01"))
		assert.Equal(t, 1, m.Day())
	}
	assert.Equal(t, []string{"2024-10", "2024-11", "2024-12", "2025-01", "2025-02", "2025-03"}, labels)
}

func TestStats(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	now := time.Date(2025, time.March, 17, 10, 0, 0, 0, time.UTC)

	add := func(id string, role roles.Role, created time.Time) {
		rm.a.add(&models.Account{ID: id, Email: id + "@example.com", Name: id, Role: role, CreatedAt: created})
	}
	add("a1", roles.Admin, now.AddDate(0, -8, 0))
	add("m1", roles.Moderator, now.AddDate(0, -2, 0))
	add("u1", roles.User, now.AddDate(0, 0, -2))
	add("u2", roles.User, now.AddDate(0, 0, -10))
	add("u3", roles.User, now.Add(-time.Hour))

	ctx := context.Background()
	require.NoError(t, rm.s.Create(ctx, &models.Session{Token: "live", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, rm.s.Create(ctx, &models.Session{Token: "dead", ExpiresAt: now.Add(-time.Hour)}))

	s := newAccountService(t, db, rm)
	s.now = func() time.Time { return now }

	st, err := s.Stats(ctx, &auth.Actor{ID: "a1", Role: roles.Admin})
	require.NoError(t, err)

	assert.Equal(t, 5, st.TotalUsers)
	assert.Equal(t, 1, st.TotalAdmins)
	assert.Equal(t, 1, st.TotalModerators)
	assert.Equal(t, 2, st.RecentUsers)
	assert.Equal(t, 1, st.ActiveSessions)
	assert.Len(t, st.LatestUsers, 5)
	assert.Equal(t, "u3", st.LatestUsers[0].ID)

	require.Len(t, st.MonthlyStats, 6)
	assert.Equal(t, "2024-10", st.MonthlyStats[0].Month)
	assert.Equal(t, MonthStat{Month: "2025-01", Count: 1}, st.MonthlyStats[3])
	assert.Equal(t, MonthStat{Month: "2025-03", Count: 3}, st.MonthlyStats[5])
}

func TestStats_RequiresAdmin(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := newAccountService(t, db, newFakeRepoManager())

	_, err := s.Stats(context.Background(), &auth.Actor{ID: "m", Role: roles.Moderator})
	assert.ErrorIs(t, err, common.ErrorForbidden)
}
