// Package session holds the mutable state commands consult and change:
// the current user, group membership, maintenance mode, terminal capability
// and the help theme. It implements shelltypes.Environment.
package session

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"github.com/muesli/termenv"
)

// AdminGroup grants access to strict commands.
const AdminGroup = "admin"

var (
	// ErrUnknownUser is returned for names missing from the user table.
	ErrUnknownUser = errors.New("unknown user")
	// ErrUnknownTheme is returned for names missing from the theme list.
	ErrUnknownTheme = errors.New("unknown theme")
)

// Options seeds a Session.
type Options struct {
	User        string
	Users       map[string][]string
	Themes      []string
	Maintenance bool
	Dumb        bool
}

// Session is safe for concurrent use.
type Session struct {
	mu          sync.RWMutex
	user        string
	users       map[string][]string
	themes      []string
	theme       string
	maintenance bool
	dumb        bool
}

// New creates a session. The current user is added to the table when absent.
func New(opts Options) *Session {
	users := make(map[string][]string, len(opts.Users)+1)
	for name, groups := range opts.Users {
		users[name] = slices.Clone(groups)
	}
	if _, ok := users[opts.User]; !ok && opts.User != "" {
		users[opts.User] = nil
	}
	themes := slices.Clone(opts.Themes)
	theme := ""
	if len(themes) > 0 {
		theme = themes[0]
	}
	return &Session{
		user:        opts.User,
		users:       users,
		themes:      themes,
		theme:       theme,
		maintenance: opts.Maintenance,
		dumb:        opts.Dumb,
	}
}

// DetectDumbTerminal reports whether the terminal lacks color and cursor
// control. forced short-circuits detection.
func DetectDumbTerminal(forced bool) bool {
	if forced || os.Getenv("TERM") == "dumb" {
		return true
	}
	return termenv.EnvColorProfile() == termenv.Ascii
}

// User returns the current user.
func (s *Session) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser switches the current user.
func (s *Session) SetUser(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUser, name)
	}
	s.user = name
	return nil
}

// Groups returns the groups of user, sorted.
func (s *Session) Groups(user string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups, ok := s.users[user]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, user)
	}
	out := slices.Clone(groups)
	sort.Strings(out)
	return out, nil
}

// Members returns the users belonging to group, sorted.
func (s *Session) Members(group string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var members []string
	for user, groups := range s.users {
		if slices.Contains(groups, group) {
			members = append(members, user)
		}
	}
	sort.Strings(members)
	return members
}

// UserNames returns every known user, sorted.
func (s *Session) UserNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.users))
	for name := range s.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GroupNames returns every group with at least one member, sorted.
func (s *Session) GroupNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var names []string
	for _, groups := range s.users {
		for _, group := range groups {
			if !seen[group] {
				seen[group] = true
				names = append(names, group)
			}
		}
	}
	sort.Strings(names)
	return names
}

// IsAdmin reports whether the current user is in AdminGroup.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.users[s.user], AdminGroup)
}

// MaintenanceMode reports whether maintenance mode is on.
func (s *Session) MaintenanceMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maintenance
}

// SetMaintenance turns maintenance mode on or off.
func (s *Session) SetMaintenance(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance = on
}

// DumbTerminal reports whether commands should use their reduced output.
func (s *Session) DumbTerminal() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dumb
}

// Themes returns the available help themes.
func (s *Session) Themes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.themes)
}

// Theme returns the active help theme.
func (s *Session) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme selects a help theme from the theme list.
func (s *Session) SetTheme(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.themes, name) {
		return fmt.Errorf("%w: %s", ErrUnknownTheme, name)
	}
	s.theme = name
	return nil
}
