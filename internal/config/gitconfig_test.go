package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withGitConfigMock(t *testing.T, mock func(args []string, repoPath string) (string, error)) {
	t.Helper()
	old := gitConfigMock
	gitConfigMock = mock
	t.Cleanup(func() { gitConfigMock = old })
}

func TestParseGitConfigOutput(t *testing.T) {
	output := "lc.push true\nlc.interval 30\nlc.commit-message-template auto: {name}\n"
	got := parseGitConfigOutput(output)

	assert.Equal(t, "true", got["push"])
	assert.Equal(t, "30", got["interval"])
	// Hyphenated git keys map to underscore names; values containing spaces
	// survive intact.
	assert.Equal(t, "auto: {name}", got["commit_message_template"])
}

func TestParseGitConfigOutputLaterWins(t *testing.T) {
	got := parseGitConfigOutput("lc.push false\nlc.push true\n")
	assert.Equal(t, "true", got["push"])
}

func TestParseGitConfigOutputEmpty(t *testing.T) {
	assert.Empty(t, parseGitConfigOutput(""))
	assert.Empty(t, parseGitConfigOutput("\n\n"))
	assert.Empty(t, parseGitConfigOutput("keywithoutvalue"))
}

func TestApplyGitConfigLocalWinsOverGlobal(t *testing.T) {
	withGitConfigMock(t, func(args []string, repoPath string) (string, error) {
		for _, arg := range args {
			if arg == "--global" {
				return "lc.push false\nlc.interval 10\n", nil
			}
		}
		return "lc.push true\n", nil
	})

	cfg := DefaultConfig()
	ApplyGitConfig(cfg, "/repo")

	assert.True(t, cfg.Push, "local value must override global")
	assert.Equal(t, 10, cfg.Interval, "global-only value must still apply")
}

func TestApplyGitConfigLookupErrorsAreSwallowed(t *testing.T) {
	withGitConfigMock(t, func(args []string, repoPath string) (string, error) {
		return "", errors.New("git not installed")
	})

	cfg := DefaultConfig()
	ApplyGitConfig(cfg, "/repo")
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestApplyCLIOverrides(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyCLIOverrides([]string{
		"lc.push=true",
		"lc.interval=45",
		"lc.commit_message_template=done: {name}",
	})

	require.NoError(t, err)
	assert.True(t, cfg.Push)
	assert.Equal(t, 45, cfg.Interval)
	assert.Equal(t, "done: {name}", cfg.CommitMessageTemplate)
}

func TestApplyCLIOverridesHyphenatedKey(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyCLIOverrides([]string{"lc.show-icons=false"})
	require.NoError(t, err)
	assert.False(t, cfg.ShowIcons)
}

func TestApplyCLIOverridesValueWithEquals(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyCLIOverrides([]string{"lc.commit_message_template={change_type}={name}"})
	require.NoError(t, err)
	assert.Equal(t, "{change_type}={name}", cfg.CommitMessageTemplate)
}

func TestApplyCLIOverridesErrors(t *testing.T) {
	tests := []struct {
		name     string
		override string
	}{
		{"missing equals", "lc.push true"},
		{"missing prefix", "push=true"},
		{"empty key", "lc.=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			assert.Error(t, cfg.ApplyCLIOverrides([]string{tt.override}))
		})
	}
}

func TestDetermineRepoPathEmptyForNonRepo(t *testing.T) {
	// A fresh temp dir is not a repository; with the working directory also
	// outside any repo this would return "". Only the explicit-path branch is
	// asserted here since the test binary itself may run inside a checkout.
	dir := t.TempDir()
	assert.False(t, isInGitRepo(dir))
	assert.False(t, isInGitRepo(""))
}
