package config

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"MetalBoard/internal/store"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		Dir     string `yaml:"dir"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"data"`
	Workflow struct {
		APIBase  string        `yaml:"api_base"`
		Owner    string        `yaml:"owner"`
		Repo     string        `yaml:"repo"`
		File     string        `yaml:"file"`
		Token    string        `yaml:"token"`
		Interval time.Duration `yaml:"interval"`
	} `yaml:"workflow"`
	Cache struct {
		Backend string        `yaml:"backend"`
		Path    string        `yaml:"path"`
		TTL     time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Schedule struct {
		BoardCron     string `yaml:"board_cron"`
		FreshnessCron string `yaml:"freshness_cron"`
	} `yaml:"schedule"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Output struct {
		HTMLPath string `yaml:"html_path"`
		Title    string `yaml:"title"`
	} `yaml:"output"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Timezone string `yaml:"timezone"`
	Proxy    string `yaml:"proxy"`
}

// LoadDotEnv loads a .env file into the environment if one exists.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	setString(&cfg.Data.Dir, "DATA_DIR")
	setString(&cfg.Data.BaseURL, "DATA_BASE_URL")
	setString(&cfg.Workflow.Owner, "WORKFLOW_OWNER")
	setString(&cfg.Workflow.Repo, "WORKFLOW_REPO")
	setString(&cfg.Workflow.File, "WORKFLOW_FILE")
	setString(&cfg.Workflow.Token, "GITHUB_TOKEN")
	setString(&cfg.Cache.Backend, "CACHE_BACKEND")
	setString(&cfg.Cache.Path, "CACHE_PATH")
	setString(&cfg.Server.Addr, "SERVER_ADDR")
	setString(&cfg.Output.HTMLPath, "OUTPUT_HTML")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Timezone, "TIMEZONE")
	setString(&cfg.Proxy, "HTTPS_PROXY")
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse CACHE_TTL: %w", err)
		}
		cfg.Cache.TTL = d
	}

	// Defaults
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Workflow.APIBase == "" {
		cfg.Workflow.APIBase = "https://api.github.com"
	}
	if cfg.Workflow.Owner == "" {
		cfg.Workflow.Owner = "yasaswisalagrama"
	}
	if cfg.Workflow.Repo == "" {
		cfg.Workflow.Repo = "yasaswisalagrama.github.io"
	}
	if cfg.Workflow.File == "" {
		cfg.Workflow.File = "daily-scrape.yml"
	}
	if cfg.Workflow.Interval == 0 {
		cfg.Workflow.Interval = time.Hour
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = store.BackendSQLite
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = "data/cache.db"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}
	if cfg.Schedule.BoardCron == "" {
		cfg.Schedule.BoardCron = "0 */5 * * * *"
	}
	if cfg.Schedule.FreshnessCron == "" {
		cfg.Schedule.FreshnessCron = "0 */10 * * * *"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Output.Title == "" {
		cfg.Output.Title = "Metal Prices"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/metal_board.db"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Kolkata"
	}

	return cfg, nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Workflow.Owner == "" || c.Workflow.Repo == "" || c.Workflow.File == "" {
		return fmt.Errorf("workflow.owner, workflow.repo and workflow.file are required")
	}
	if c.Workflow.Interval <= 0 {
		return fmt.Errorf("workflow.interval must be positive")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	switch c.Cache.Backend {
	case store.BackendMemory, store.BackendFile, store.BackendSQLite:
	default:
		return fmt.Errorf("cache.backend must be one of memory, file, sqlite")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured display time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
