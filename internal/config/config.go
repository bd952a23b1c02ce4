package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"renju/internal/domain"
)

// GameConfig holds the tunable match parameters.
type GameConfig struct {
	BoardSize int `json:"board_size"`
	// Ruleset is "renju" or "freestyle".
	Ruleset    string `json:"ruleset"`
	HistoryDir string `json:"history_dir"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. The
// file is read once; later calls return the first result.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil when no
// config has been loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetBoardSize returns the configured board size, defaulting to 15.
func GetBoardSize() int {
	if cfg == nil || cfg.BoardSize <= 0 {
		return domain.DefaultBoardSize
	}
	return cfg.BoardSize
}

// GetRuleSet returns the configured ruleset, defaulting to renju.
func GetRuleSet() domain.RuleSet {
	if cfg == nil {
		return domain.RuleSetRenju
	}
	return ParseRuleSet(cfg.Ruleset)
}

// GetHistoryDir returns the configured history directory, defaulting
// to "history".
func GetHistoryDir() string {
	if cfg == nil || cfg.HistoryDir == "" {
		return "history"
	}
	return cfg.HistoryDir
}

// ParseRuleSet maps a config or env string to a RuleSet. Anything other
// than "freestyle" selects renju.
func ParseRuleSet(value string) domain.RuleSet {
	if value == string(domain.RuleSetFreestyle) {
		return domain.RuleSetFreestyle
	}
	return domain.RuleSetRenju
}
