package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/titanous/json5"
)

// DefaultTimeout is used when Timeout is empty or invalid.
const DefaultTimeout = 30 * time.Second

// DefaultJobs is the number of concurrent downloads when Jobs is unset.
const DefaultJobs = 2

// Config holds user preferences.
type Config struct {
	Timeout       string `json:"timeout,omitempty"`
	UserAgent     string `json:"user_agent,omitempty"`
	OutputDir     string `json:"output_dir,omitempty"`
	Jobs          *int   `json:"jobs,omitempty"`
	AutoCopy      *bool  `json:"auto_copy,omitempty"`
	AutoOpen      *bool  `json:"auto_open,omitempty"`
	OpenOnBlocked *bool  `json:"open_on_blocked,omitempty"`
}

// knownKey describes a config key and its optional validator.
type knownKey struct {
	validate func(string) error
}

var knownKeys = map[string]knownKey{
	"timeout":         {validate: validateDuration},
	"user_agent":      {validate: nil},
	"output_dir":      {validate: nil},
	"jobs":            {validate: validatePositiveInt},
	"auto_copy":       {validate: validateBool},
	"auto_open":       {validate: validateBool},
	"open_on_blocked": {validate: validateBool},
}

func validateBool(val string) error {
	if val != "true" && val != "false" {
		return fmt.Errorf("must be true or false")
	}

	return nil
}

func validateDuration(val string) error {
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	if d <= 0 {
		return fmt.Errorf("must be positive")
	}

	return nil
}

func validatePositiveInt(val string) error {
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive integer")
	}

	return nil
}

// TimeoutDuration parses Timeout as a time.Duration.
// Returns DefaultTimeout on empty or invalid values.
func (cfg *Config) TimeoutDuration() time.Duration {
	if cfg == nil || cfg.Timeout == "" {
		return DefaultTimeout
	}

	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}

	return d
}

// JobCount returns Jobs or DefaultJobs.
func (cfg *Config) JobCount() int {
	if cfg == nil || cfg.Jobs == nil || *cfg.Jobs < 1 {
		return DefaultJobs
	}

	return *cfg.Jobs
}

// Load reads config from the JSON5 file at path.
// Returns an empty Config if the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes config as pretty-printed JSON atomically.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	data = append(data, '\n')

	return atomicWrite(path, data)
}

// atomicWrite writes data to path via temp-file + rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	tmpPath = "" // prevent deferred cleanup

	return nil
}

func boolString(b *bool) (string, bool) {
	if b == nil {
		return "", false
	}

	return strconv.FormatBool(*b), true
}

// Get returns the string value for a config key and whether it is set.
func (cfg *Config) Get(key string) (string, bool) {
	switch key {
	case "timeout":
		return cfg.Timeout, cfg.Timeout != ""
	case "user_agent":
		return cfg.UserAgent, cfg.UserAgent != ""
	case "output_dir":
		return cfg.OutputDir, cfg.OutputDir != ""
	case "jobs":
		if cfg.Jobs == nil {
			return "", false
		}

		return strconv.Itoa(*cfg.Jobs), true
	case "auto_copy":
		return boolString(cfg.AutoCopy)
	case "auto_open":
		return boolString(cfg.AutoOpen)
	case "open_on_blocked":
		return boolString(cfg.OpenOnBlocked)
	default:
		return "", false
	}
}

// Set sets a config key to a value after validation.
func (cfg *Config) Set(key, value string) error {
	kk, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s (valid keys: %s)", key, strings.Join(KnownKeys(), ", "))
	}

	if kk.validate != nil {
		if err := kk.validate(value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}

	switch key {
	case "timeout":
		cfg.Timeout = value
	case "user_agent":
		cfg.UserAgent = value
	case "output_dir":
		cfg.OutputDir = value
	case "jobs":
		n, _ := strconv.Atoi(value)
		cfg.Jobs = &n
	case "auto_copy":
		b := value == "true"
		cfg.AutoCopy = &b
	case "auto_open":
		b := value == "true"
		cfg.AutoOpen = &b
	case "open_on_blocked":
		b := value == "true"
		cfg.OpenOnBlocked = &b
	}

	return nil
}

// Unset removes a config key (resets to zero/nil).
func (cfg *Config) Unset(key string) error {
	if _, ok := knownKeys[key]; !ok {
		return fmt.Errorf("unknown config key: %s (valid keys: %s)", key, strings.Join(KnownKeys(), ", "))
	}

	switch key {
	case "timeout":
		cfg.Timeout = ""
	case "user_agent":
		cfg.UserAgent = ""
	case "output_dir":
		cfg.OutputDir = ""
	case "jobs":
		cfg.Jobs = nil
	case "auto_copy":
		cfg.AutoCopy = nil
	case "auto_open":
		cfg.AutoOpen = nil
	case "open_on_blocked":
		cfg.OpenOnBlocked = nil
	}

	return nil
}

// KnownKeys returns a sorted list of valid config key names.
func KnownKeys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// --- Context helpers ---

type ctxKey struct{}

// WithConfig stores a Config in the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext retrieves the Config from the context.
func FromContext(ctx context.Context) *Config {
	if v := ctx.Value(ctxKey{}); v != nil {
		if cfg, ok := v.(*Config); ok {
			return cfg
		}
	}

	return nil
}
