package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession() *Session {
	return New(Options{
		User: "guest",
		Users: map[string][]string{
			"root":  {"users", "admin"},
			"ada":   {"users"},
			"guest": {"users"},
		},
		Themes: []string{"notty", "dark"},
	})
}

func TestUsersAndGroups(t *testing.T) {
	s := newSession()

	assert.Equal(t, []string{"ada", "guest", "root"}, s.UserNames())
	assert.Equal(t, []string{"admin", "users"}, s.GroupNames())
	assert.Equal(t, []string{"root"}, s.Members("admin"))
	assert.Empty(t, s.Members("nobody"))

	groups, err := s.Groups("root")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "users"}, groups)

	_, err = s.Groups("mallory")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestSetUserChangesPrivilege(t *testing.T) {
	s := newSession()
	assert.False(t, s.IsAdmin())

	require.NoError(t, s.SetUser("root"))
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "root", s.User())

	assert.ErrorIs(t, s.SetUser("mallory"), ErrUnknownUser)
	assert.Equal(t, "root", s.User())
}

func TestCurrentUserAddedToTable(t *testing.T) {
	s := New(Options{User: "solo"})
	assert.Equal(t, []string{"solo"}, s.UserNames())
	assert.False(t, s.IsAdmin())
}

func TestMaintenanceAndThemes(t *testing.T) {
	s := newSession()

	assert.False(t, s.MaintenanceMode())
	s.SetMaintenance(true)
	assert.True(t, s.MaintenanceMode())

	assert.Equal(t, "notty", s.Theme())
	require.NoError(t, s.SetTheme("dark"))
	assert.Equal(t, "dark", s.Theme())
	assert.ErrorIs(t, s.SetTheme("neon"), ErrUnknownTheme)
}

func TestDetectDumbTerminal(t *testing.T) {
	assert.True(t, DetectDumbTerminal(true))

	t.Setenv("TERM", "dumb")
	assert.True(t, DetectDumbTerminal(false))
}
