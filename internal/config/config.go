package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DirName is the base directory name, both under $HOME and in repos.
const DirName = ".sprig"

// Known storage backends. Mirrors the store package constants so config
// has no internal imports.
var knownBackends = []string{"sqlite", "file", "redis", "memory"}

// Config holds application configuration.
type Config struct {
	// Backend selects the key-value store: sqlite (default), file, redis, memory.
	Backend string `json:"backend,omitempty"`

	// RedisAddr is host:port of the Redis server when Backend is "redis".
	RedisAddr string `json:"redis_addr,omitempty"`

	RedisPassword string `json:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty"`

	// StorageKey is the key the prompt collection is stored under.
	StorageKey string `json:"storage_key,omitempty"`

	// SeedSamples loads the built-in sample prompts when nothing is stored yet.
	SeedSamples bool `json:"seed_samples,omitempty"`

	// SeedPath points at a JSON collection used as the first-run seed.
	// Takes precedence over SeedSamples.
	SeedPath string `json:"seed_path,omitempty"`

	// DefaultTags are offered as suggestions in addition to tags already in use.
	// Empty means the built-in list.
	DefaultTags []string `json:"default_tags,omitempty"`

	// SuggestLimit caps the number of tag suggestions returned. 0 means no cap.
	SuggestLimit int `json:"suggest_limit,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited). Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// AllowedPaths is an allowlist of directories for import/export operations.
	// Paths outside ~/.sprig/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend:      "sqlite",
		RedisAddr:    "localhost:6379",
		StorageKey:   "prompts",
		SuggestLimit: 10,
		LogLevel:     "info",
	}
}

// Validate reports settings that cannot be used to start the application.
func (c *Config) Validate() error {
	if !slices.Contains(knownBackends, c.Backend) {
		return fmt.Errorf("unknown backend %q (want one of %s)", c.Backend, strings.Join(knownBackends, ", "))
	}
	if c.Backend == "redis" && c.RedisAddr == "" {
		return fmt.Errorf("redis backend requires redis_addr")
	}
	if c.SuggestLimit < 0 {
		return fmt.Errorf("suggest_limit must be >= 0")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("redis_db must be >= 0")
	}
	return nil
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.sprig.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.sprig) and repo (.sprig) directories.
// Repo config is found by walking upward from startDir to find the nearest .sprig/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .sprig/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, DirName, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return cfg, nil
}

func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		Backend:        pick(overlay.Backend, base.Backend),
		RedisAddr:      pick(overlay.RedisAddr, base.RedisAddr),
		RedisPassword:  pick(overlay.RedisPassword, base.RedisPassword),
		RedisDB:        pick(overlay.RedisDB, base.RedisDB),
		StorageKey:     pick(overlay.StorageKey, base.StorageKey),
		SeedPath:       pick(overlay.SeedPath, base.SeedPath),
		SuggestLimit:   pick(overlay.SuggestLimit, base.SuggestLimit),
		LogLevel:       pick(overlay.LogLevel, base.LogLevel),
		DBMaxOpenConns: pick(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns: pick(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
	}

	// Booleans: overlay wins if true, else base
	result.SeedSamples = base.SeedSamples || overlay.SeedSamples
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	result.DefaultTags = mergeStringSlice(base.DefaultTags, overlay.DefaultTags)
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// pick returns overlay unless it is the zero value.
func pick[T comparable](overlay, base T) T {
	var zero T
	if overlay != zero {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range slices.Concat(a, b) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
