package config

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config and returns raw output.
func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		// git config exits 1 when no key matches, which is not an error here
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses "lc.key value" lines into a key/value map.
// Git config key names use hyphens; they are normalized to the underscore
// names the YAML file uses. Later occurrences of a key win.
func parseGitConfigOutput(output string) map[string]any {
	configMap := make(map[string]any)
	if output == "" {
		return configMap
	}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}

		// SplitN keeps values containing spaces intact.
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "lc.")
		key = strings.ReplaceAll(key, "-", "_")
		configMap[key] = parts[1]
	}

	return configMap
}

func loadGitConfig(globalOnly bool, repoPath string) (map[string]any, error) {
	args := []string{"config", "--get-regexp", `^lc\.`}

	if globalOnly {
		args = append(args, "--global")
	} else {
		args = append(args, "--local")
	}

	output, err := runGitConfig(args, repoPath)
	if err != nil {
		return nil, err
	}

	return parseGitConfigOutput(output), nil
}

// ApplyGitConfig folds lc.* keys from git config into cfg, global scope
// first so repository-local values win. Lookup errors are swallowed: a repo
// without any lc.* keys is the normal case.
func ApplyGitConfig(cfg *AppConfig, repoPath string) {
	if data, err := loadGitConfig(true, repoPath); err == nil {
		applyData(cfg, data)
	}
	if data, err := loadGitConfig(false, repoPath); err == nil {
		applyData(cfg, data)
	}
}

// isInGitRepo checks if path is in a git repository.
func isInGitRepo(path string) bool {
	if path == "" {
		return false
	}
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = path
	return cmd.Run() == nil
}

// DetermineRepoPath returns the path used for local git config lookup:
// the explicit repo path when it is a repository, otherwise the current
// directory when that is one, otherwise "".
func DetermineRepoPath(repoPath string) string {
	if repoPath != "" && isInGitRepo(repoPath) {
		return repoPath
	}

	if wd, err := os.Getwd(); err == nil && isInGitRepo(wd) {
		return wd
	}

	return ""
}

// ApplyCLIOverrides applies --config=lc.key=value overrides, the highest
// precedence configuration source.
func (cfg *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data := make(map[string]any)

	for _, override := range overrides {
		parts := strings.SplitN(override, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid config override: %q, expected format: lc.key=value (note: use = not space)", override)
		}

		fullKey := parts[0]
		if !strings.HasPrefix(fullKey, "lc.") {
			return fmt.Errorf("config override key must start with 'lc.': %q", fullKey)
		}

		key := strings.TrimPrefix(fullKey, "lc.")
		if key == "" {
			return fmt.Errorf("empty config key in override: %q", override)
		}

		data[strings.ReplaceAll(key, "-", "_")] = parts[1]
	}

	applyData(cfg, data)
	return nil
}
