package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	assert.Equal(t, 1, Rank(User))
	assert.Equal(t, 2, Rank(Moderator))
	assert.Equal(t, 3, Rank(Admin))
	assert.Equal(t, 0, Rank("admin"))
	assert.Equal(t, 0, Rank(""))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(Admin))
	assert.False(t, IsAdmin(Moderator))
	assert.False(t, IsAdmin(User))
	assert.False(t, IsAdmin("root"))
}

func TestIsModerator(t *testing.T) {
	assert.True(t, IsModerator(Moderator))
	assert.True(t, IsModerator(Admin))
	assert.False(t, IsModerator(User))
	assert.False(t, IsModerator("unknown-role"))
}

func TestHasMinimumRole(t *testing.T) {
	tests := []struct {
		role, minimum Role
		want          bool
	}{
		{Admin, Moderator, true},
		{Admin, Admin, true},
		{Moderator, User, true},
		{User, User, true},
		{User, Admin, false},
		{Moderator, Admin, false},
		{"unknown-role", User, false},
		{"", User, false},
		{Admin, "SUPERUSER", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, HasMinimumRole(tc.role, tc.minimum), "%s >= %s", tc.role, tc.minimum)
	}
}

func TestParse(t *testing.T) {
	r, err := Parse(" moderator ")
	require.NoError(t, err)
	assert.Equal(t, Moderator, r)

	_, err = Parse("owner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown role "owner"`)
}

func TestCapabilities(t *testing.T) {
	assert.Equal(t, Actions{}, Capabilities(User))
	assert.Equal(t, Actions{}, Capabilities("guest"))
	assert.Equal(t, Actions{CanViewLogs: true, CanModerateContent: true}, Capabilities(Moderator))
	assert.Equal(t, Actions{
		CanViewUsers:       true,
		CanEditUsers:       true,
		CanDeleteUsers:     true,
		CanViewAdminPanel:  true,
		CanManageServer:    true,
		CanViewLogs:        true,
		CanModerateContent: true,
	}, Capabilities(Admin))
}
