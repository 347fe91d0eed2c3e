// Package config loads voxcmd settings from defaults, dotenv files, and
// VOX_-prefixed environment variables, in that precedence order. CLI flags
// bound through viper override everything at the call site.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"voxcmd/internal/logger"
)

// Defaults applied before any file or environment override.
const (
	DefaultConfidenceThreshold = 0.6
	DefaultHistoryCapacity     = 50
	DefaultChainPause          = 500 * time.Millisecond
	DefaultMacroFileName       = "macros.json"
)

// Config holds the tunable settings for a voxcmd session.
type Config struct {
	ConfidenceThreshold float64
	HistoryCapacity     int
	ChainPause          time.Duration
	MacroStorePath      string
	Mute                bool

	// FallbackProvider selects the AI hand-off provider (openai, anthropic,
	// gemini); empty disables the fallback.
	FallbackProvider string
	FallbackModel    string
}

// Load builds a Config from defaults, then ~/.voxcmd/config.env, then a
// local .env, then VOX_* environment variables. Missing files are fine.
func Load() (*Config, error) {
	cfg := &Config{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		HistoryCapacity:     DefaultHistoryCapacity,
		ChainPause:          DefaultChainPause,
	}

	if home, err := os.UserHomeDir(); err == nil {
		cfg.MacroStorePath = filepath.Join(home, ".voxcmd", DefaultMacroFileName)
		userEnv := filepath.Join(home, ".voxcmd", "config.env")
		if _, err := os.Stat(userEnv); err == nil {
			if err := godotenv.Load(userEnv); err != nil {
				logger.Warn("Failed to load user config", "path", userEnv, "error", err)
			}
		}
	} else {
		cfg.MacroStorePath = DefaultMacroFileName
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			logger.Warn("Failed to load local .env", "error", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("VOX_CONFIDENCE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f > 1 {
			return fmt.Errorf("invalid VOX_CONFIDENCE_THRESHOLD %q", v)
		}
		c.ConfidenceThreshold = f
	}
	if v := os.Getenv("VOX_HISTORY_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid VOX_HISTORY_CAPACITY %q", v)
		}
		c.HistoryCapacity = n
	}
	if v := os.Getenv("VOX_CHAIN_PAUSE_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return fmt.Errorf("invalid VOX_CHAIN_PAUSE_MS %q", v)
		}
		c.ChainPause = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv("VOX_MACRO_STORE"); v != "" {
		c.MacroStorePath = v
	}
	if v := os.Getenv("VOX_MUTE"); v != "" {
		c.Mute = v == "1" || strings.EqualFold(v, "true")
	}
	c.FallbackProvider = strings.ToLower(os.Getenv("VOX_FALLBACK_PROVIDER"))
	c.FallbackModel = os.Getenv("VOX_FALLBACK_MODEL")
	return nil
}

// APIKeyFor resolves the API key for a fallback provider, preferring the
// VOX_-prefixed variable over the provider's conventional one.
func APIKeyFor(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return firstEnv("VOX_OPENAI_API_KEY", "OPENAI_API_KEY")
	case "anthropic":
		return firstEnv("VOX_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	case "gemini", "google":
		return firstEnv("VOX_GOOGLE_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY")
	}
	return ""
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
