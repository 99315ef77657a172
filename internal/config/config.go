// Package config loads lazycommit configuration from YAML, git config and
// CLI overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultInterval is the delay between passes in watch mode, in seconds.
const DefaultInterval = 5

// AppConfig defines the global lazycommit configuration options.
type AppConfig struct {
	Push                  bool   // push to remote after each pass
	Interval              int    // seconds between watch-mode passes
	CommitMessageTemplate string // {change_type} and {name} placeholders
	DebugLog              string
	ShowIcons             bool // render Nerd Font icons in the review screen (default: true)
	Watch                 bool // keep running until interrupted
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Push:                  false,
		Interval:              DefaultInterval,
		CommitMessageTemplate: "{change_type}: {name}",
		ShowIcons:             true,
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return defaultVal
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

// applyData folds a parsed key/value map into cfg. Unknown keys are ignored
// so older configs keep working.
func applyData(cfg *AppConfig, data map[string]any) {
	cfg.Push = coerceBool(data["push"], cfg.Push)
	cfg.Watch = coerceBool(data["watch"], cfg.Watch)
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.Interval = coerceInt(data["interval"], cfg.Interval)

	if template, ok := data["commit_message_template"].(string); ok {
		template = strings.TrimSpace(template)
		if template != "" {
			cfg.CommitMessageTemplate = template
		}
	}

	if debugLog, ok := data["debug_log"].(string); ok {
		debugLog = strings.TrimSpace(debugLog)
		if debugLog != "" {
			cfg.DebugLog = debugLog
		}
	}

	if cfg.Interval < 1 {
		cfg.Interval = DefaultInterval
	}
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the application configuration from a YAML file. With an
// empty configPath the default locations under the user config directory are
// tried; a missing file is not an error.
func LoadConfig(configPath string) (*AppConfig, error) {
	var paths []string

	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		paths = []string{expanded}
	} else {
		configBase := filepath.Join(getConfigDir(), "lazycommit")
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	cfg := DefaultConfig()

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path comes from the user's own flag or config dir
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), nil
		}

		applyData(cfg, yamlData)
		break
	}

	return cfg, nil
}

// ExpandPath expands a leading ~ and environment variables in path.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
