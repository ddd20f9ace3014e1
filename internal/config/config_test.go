package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedene/datlink-cli/internal/config"
)

func TestLoadMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nonexistent", "config.json"))
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, cfg)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	tr := true
	fa := false
	jobs := 4
	original := &config.Config{
		Timeout:       "10s",
		UserAgent:     "Monazilla/1.00",
		OutputDir:     "/tmp/dat",
		Jobs:          &jobs,
		AutoCopy:      &fa,
		AutoOpen:      nil,
		OpenOnBlocked: &tr,
	}

	require.NoError(t, config.Save(path, original))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.Timeout, loaded.Timeout)
	assert.Equal(t, original.UserAgent, loaded.UserAgent)
	assert.Equal(t, original.OutputDir, loaded.OutputDir)
	require.NotNil(t, loaded.Jobs)
	assert.Equal(t, 4, *loaded.Jobs)
	require.NotNil(t, loaded.AutoCopy)
	assert.False(t, *loaded.AutoCopy)
	assert.Nil(t, loaded.AutoOpen)
	require.NotNil(t, loaded.OpenOnBlocked)
	assert.True(t, *loaded.OpenOnBlocked)
}

func TestLoadJSON5(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	json5Content := `{
		// User preferences
		"user_agent": "Monazilla/1.00",
		"open_on_blocked": true,  // trailing comma OK
	}`

	require.NoError(t, os.WriteFile(path, []byte(json5Content), 0o644))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Monazilla/1.00", loaded.UserAgent)
	require.NotNil(t, loaded.OpenOnBlocked)
	assert.True(t, *loaded.OpenOnBlocked)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestGetSet(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"timeout", "45s"},
		{"user_agent", "Monazilla/1.00"},
		{"output_dir", "/tmp/dat"},
		{"jobs", "3"},
		{"auto_copy", "false"},
		{"auto_open", "true"},
		{"open_on_blocked", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := &config.Config{}
			require.NoError(t, cfg.Set(tt.key, tt.value))

			got, ok := cfg.Get(tt.key)
			assert.True(t, ok)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestSetValidation(t *testing.T) {
	tests := []struct {
		key   string
		value string
		errRe string
	}{
		{"timeout", "forever", "invalid duration"},
		{"timeout", "-5s", "must be positive"},
		{"jobs", "0", "must be a positive integer"},
		{"jobs", "many", "must be a positive integer"},
		{"auto_copy", "1", "must be true or false"},
		{"open_on_blocked", "yes", "must be true or false"},
		{"unknown_key", "foo", "unknown config key"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &config.Config{}
			err := cfg.Set(tt.key, tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errRe)
		})
	}
}

func TestUnset(t *testing.T) {
	cfg := &config.Config{}
	require.NoError(t, cfg.Set("user_agent", "x"))

	_, ok := cfg.Get("user_agent")
	assert.True(t, ok)

	require.NoError(t, cfg.Unset("user_agent"))

	_, ok = cfg.Get("user_agent")
	assert.False(t, ok)
}

func TestUnsetUnknown(t *testing.T) {
	cfg := &config.Config{}
	err := cfg.Unset("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestBoolPointerDistinction(t *testing.T) {
	cfg := &config.Config{}

	// Unset: nil
	_, ok := cfg.Get("open_on_blocked")
	assert.False(t, ok)
	assert.Nil(t, cfg.OpenOnBlocked)

	// Set false: non-nil false
	require.NoError(t, cfg.Set("open_on_blocked", "false"))

	val, ok := cfg.Get("open_on_blocked")
	assert.True(t, ok)
	assert.Equal(t, "false", val)
	require.NotNil(t, cfg.OpenOnBlocked)
	assert.False(t, *cfg.OpenOnBlocked)

	// Unset: back to nil
	require.NoError(t, cfg.Unset("open_on_blocked"))
	assert.Nil(t, cfg.OpenOnBlocked)
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")
	path := filepath.Join(nested, "config.json")

	cfg := &config.Config{UserAgent: "x"}
	require.NoError(t, config.Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)
}

func TestTimeoutDuration(t *testing.T) {
	tests := []struct {
		name     string
		timeout  string
		expected time.Duration
	}{
		{"empty", "", 30 * time.Second},
		{"valid", "5s", 5 * time.Second},
		{"invalid", "forever", 30 * time.Second},
		{"negative", "-1s", 30 * time.Second},
		{"minutes", "2m", 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Timeout: tt.timeout}
			assert.Equal(t, tt.expected, cfg.TimeoutDuration())
		})
	}

	var nilCfg *config.Config
	assert.Equal(t, config.DefaultTimeout, nilCfg.TimeoutDuration())
}

func TestJobCount(t *testing.T) {
	var nilCfg *config.Config
	assert.Equal(t, config.DefaultJobs, nilCfg.JobCount())
	assert.Equal(t, config.DefaultJobs, (&config.Config{}).JobCount())

	cfg := &config.Config{}
	require.NoError(t, cfg.Set("jobs", "6"))
	assert.Equal(t, 6, cfg.JobCount())
}

func TestKnownKeys(t *testing.T) {
	keys := config.KnownKeys()
	assert.Len(t, keys, 7)

	expected := []string{
		"auto_copy", "auto_open", "jobs",
		"open_on_blocked", "output_dir", "timeout",
		"user_agent",
	}
	assert.Equal(t, expected, keys)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfgPath, err := config.ConfigPath()
	require.NoError(t, err)
	assert.Contains(t, cfgPath, "datlink")
	assert.Contains(t, cfgPath, "config.json")
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	cfgPath, err := config.ConfigPath()
	require.NoError(t, err)
	assert.Contains(t, cfgPath, ".config")
	assert.Contains(t, cfgPath, "datlink")
}

func TestWithConfig_FromContext(t *testing.T) {
	cfg := &config.Config{UserAgent: "ua"}
	ctx := config.WithConfig(context.Background(), cfg)

	got := config.FromContext(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "ua", got.UserAgent)
}

func TestFromContext_Nil(t *testing.T) {
	assert.Nil(t, config.FromContext(context.Background()))
}
