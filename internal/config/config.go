package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/example/blotter/internal/core/access"
)

// Environment variables that override the config file.
const (
	EnvDBPath                  = "BLOTTER_DB_PATH"
	EnvLogMode                 = "BLOTTER_LOG_MODE"
	EnvActor                   = "BLOTTER_ACTOR"
	EnvRole                    = "BLOTTER_ROLE"
	EnvAdminUsername           = "BLOTTER_ADMIN_USERNAME"
	EnvAdminPassword           = "BLOTTER_ADMIN_PASSWORD"
	EnvAllowDestructiveRebuild = "BLOTTER_ALLOW_DESTRUCTIVE_REBUILD"
)

const (
	DefaultLogMode       = "dev"
	DefaultActor         = "system"
	DefaultAdminUsername = "admin"
)

// Config represents the blotter configuration.
type Config struct {
	Version       string `json:"version"`
	DBPath        string `json:"db_path,omitempty"`
	LogMode       string `json:"log_mode,omitempty"` // "dev" or "prod"
	Actor         string `json:"actor,omitempty"`    // written to performedBy
	Role          string `json:"role,omitempty"`     // Admin, Officer, Clerk or User
	AdminUsername string `json:"admin_username,omitempty"`

	// AllowDestructiveRebuild lets the store drop and recreate every table when no
	// migration path exists. Pre-release only.
	AllowDestructiveRebuild bool `json:"allow_destructive_rebuild,omitempty"`

	// AdminPassword is only ever read from the environment.
	AdminPassword string `json:"-"`
}

// LoadConfig reads .blotter/config.json from the specified directory.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".blotter", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".blotter")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .blotter dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Load resolves the effective configuration for dir: the config file when present,
// then .env in dir, then the process environment, then defaults.
func Load(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{Version: "1"}
	}

	// godotenv never overrides variables already set in the environment.
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	overlay := map[string]*string{
		EnvDBPath:        &c.DBPath,
		EnvLogMode:       &c.LogMode,
		EnvActor:         &c.Actor,
		EnvRole:          &c.Role,
		EnvAdminUsername: &c.AdminUsername,
		EnvAdminPassword: &c.AdminPassword,
	}
	for key, field := range overlay {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*field = v
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvAllowDestructiveRebuild)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAllowDestructiveRebuild, v, err)
		}
		c.AllowDestructiveRebuild = b
	}
	return nil
}

func (c *Config) applyDefaults() error {
	if c.DBPath == "" {
		path, err := DefaultDBPath()
		if err != nil {
			return err
		}
		c.DBPath = path
	}
	if c.LogMode == "" {
		c.LogMode = DefaultLogMode
	}
	if c.Actor == "" {
		c.Actor = DefaultActor
	}
	if c.Role == "" {
		c.Role = string(access.RoleAdmin)
	}
	if _, err := access.ParseRole(c.Role); err != nil {
		return err
	}
	if c.AdminUsername == "" {
		c.AdminUsername = DefaultAdminUsername
	}
	return nil
}

// ActorRole returns the configured role.
func (c *Config) ActorRole() access.Role {
	r, err := access.ParseRole(c.Role)
	if err != nil {
		return access.RoleUser
	}
	return r
}

// DefaultDBPath returns ~/.blotter/blotter.db.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".blotter", "blotter.db"), nil
}
