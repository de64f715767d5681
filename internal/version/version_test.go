package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withVersion(t *testing.T, version, commit, date string) {
	t.Helper()
	oldVersion, oldCommit, oldDate := Version, GitCommit, BuildDate
	SetBuildInfo(version, commit, date)
	t.Cleanup(func() { SetBuildInfo(oldVersion, oldCommit, oldDate) })
}

func TestGetBaseVersion(t *testing.T) {
	withVersion(t, "1.4.2-beta.1+77.abc", "unknown", "unknown")
	assert.Equal(t, "1.4.2", GetBaseVersion())

	withVersion(t, "garbage", "unknown", "unknown")
	assert.Equal(t, "garbage", GetBaseVersion())
}

func TestGetFormattedVersion(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		commit   string
		date     string
		expected string
	}{
		{"development build", "1.4.0", "unknown", "unknown", "coreshell v1.4.0"},
		{"release build", "1.4.0", "0123456789abcdef", "2026-01-02", "coreshell v1.4.0, commit 0123456, built 2026-01-02"},
		{"invalid version", "x.y", "unknown", "unknown", "coreshell vx.y (invalid version)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.version, tt.commit, tt.date)
			assert.Equal(t, tt.expected, GetFormattedVersion())
		})
	}
}

func TestGetDetailedVersion(t *testing.T) {
	withVersion(t, "1.4.0", "abc", "today")
	lines := GetDetailedVersion()
	require.Len(t, lines, 5)
	assert.Equal(t, "coreshell v1.4.0", lines[0])
	assert.Equal(t, "Git Commit: abc", lines[1])
}

func TestSatisfies(t *testing.T) {
	withVersion(t, "1.4.0", "unknown", "unknown")

	tests := []struct {
		constraint string
		expected   bool
		wantErr    bool
	}{
		{"", true, false},
		{">= 1.2", true, false},
		{"^1.0", true, false},
		{"< 1.4", false, false},
		{">= 2.0", false, false},
		{"not a constraint", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			ok, err := Satisfies(tt.constraint)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestCompareVersions(t *testing.T) {
	result, err := CompareVersions("1.2.0", "1.10.0")
	require.NoError(t, err)
	assert.Equal(t, -1, result)

	_, err = CompareVersions("bad", "1.0.0")
	assert.Error(t, err)
}

func TestValidateVersion(t *testing.T) {
	assert.NoError(t, ValidateVersion())

	withVersion(t, "1.4.0", "abc", "today")
	assert.False(t, IsDevelopment())

	withVersion(t, "nope", "unknown", "unknown")
	assert.Error(t, ValidateVersion())
	assert.True(t, IsDevelopment())
}
