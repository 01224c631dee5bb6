package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/alexanderramin/carte/internal/llm"
)

// Config holds process-wide settings read from the environment.
type Config struct {
	DBPath string `env:"CARTE_DB"`
	UserID string `env:"CARTE_USER" envDefault:"local"`

	// AllowedDomains admits any email ending in "@<domain>". Entries in
	// the allowlist table are admitted as well.
	AllowedDomains []string `env:"CARTE_ALLOWED_DOMAINS" envSeparator:","`

	LogLevel string `env:"CARTE_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"CARTE_LOG_FILE"`
	HTTPAddr string `env:"CARTE_HTTP_ADDR" envDefault:":8080"`

	LLM llm.LLMConfig
}

// Load reads a .env file from the working directory when present, then
// parses the environment. Variables already set win over .env values.
func Load() (Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv paths. Missing files are skipped.
func LoadFiles(paths ...string) (Config, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", p, err)
		}
	}

	cfg := Config{LLM: llm.DefaultConfig()}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".carte", "carte.db")
	}
	cfg.AllowedDomains = normalizeDomains(cfg.AllowedDomains)
	if cfg.LLM.Tasks == nil {
		cfg.LLM.Tasks = llm.DefaultTasks()
	}
	return cfg, nil
}

func normalizeDomains(in []string) []string {
	out := make([]string, 0, len(in))
	for _, d := range in {
		d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "@"))
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
