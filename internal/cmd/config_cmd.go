package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dedene/datlink-cli/internal/config"
	"github.com/dedene/datlink-cli/internal/outfmt"
	"github.com/dedene/datlink-cli/internal/ui"
)

// ConfigCmd groups configuration subcommands.
type ConfigCmd struct {
	Path  ConfigPathCmd  `cmd:"" help:"Show config file path"`
	List  ConfigListCmd  `cmd:"" help:"List all config values"`
	Get   ConfigGetCmd   `cmd:"" help:"Get a config value"`
	Set   ConfigSetCmd   `cmd:"" help:"Set a config value"`
	Unset ConfigUnsetCmd `cmd:"" help:"Unset a config value"`
}

// keyDefaults describes the value used when a key is unset.
var keyDefaults = map[string]string{
	"timeout":         config.DefaultTimeout.String(),
	"user_agent":      "datlink-cli/<version>",
	"output_dir":      ".",
	"jobs":            strconv.Itoa(config.DefaultJobs),
	"auto_copy":       "false",
	"auto_open":       "false",
	"open_on_blocked": "true",
}

func unsetLabel(key string) string {
	if def, ok := keyDefaults[key]; ok {
		return "(unset, default " + def + ")"
	}

	return "(unset)"
}

// updateConfig loads the config file, applies fn and saves it back.
func updateConfig(fn func(*config.Config) error) error {
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := fn(cfg); err != nil {
		return usage(err)
	}

	return config.Save(cfgPath, cfg)
}

// ConfigPathCmd prints the config file path.
type ConfigPathCmd struct{}

// Run prints the config file path and notes when it does not exist yet.
func (c *ConfigPathCmd) Run(_ context.Context) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, path)

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		fmt.Fprintln(os.Stderr, "(not created yet; use 'datlink config set')")
	}

	return nil
}

// ConfigListCmd lists all config values.
type ConfigListCmd struct{}

// Run lists every key with its value and default.
func (c *ConfigListCmd) Run(ctx context.Context) error {
	cfg := cfgFrom(ctx)

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, cfg)
	}

	rows := make([][]string, 0, len(config.KnownKeys()))
	for _, key := range config.KnownKeys() {
		val, ok := cfg.Get(key)
		if !ok {
			val = "-"
		}

		rows = append(rows, []string{key, val, keyDefaults[key]})
	}

	colorEnabled := false
	if u := ui.FromContext(ctx); u != nil {
		colorEnabled = u.Out().ColorEnabled()
	}

	fmt.Fprintln(os.Stdout, ui.RenderTable([]string{"Key", "Value", "Default"}, rows, colorEnabled))

	return nil
}

// ConfigGetCmd gets a single config value.
type ConfigGetCmd struct {
	Key string `arg:"" help:"Config key to get"`
}

// Run prints the value for the given key.
func (c *ConfigGetCmd) Run(ctx context.Context) error {
	val, ok := cfgFrom(ctx).Get(c.Key)

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, map[string]any{"key": c.Key, "value": val, "set": ok})
	}

	if !ok {
		val = unsetLabel(c.Key)
	}

	fmt.Fprintln(os.Stdout, val)

	return nil
}

// ConfigSetCmd sets a config value.
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Config key"`
	Value string `arg:"" help:"Config value"`
}

// Run validates and persists the value.
func (c *ConfigSetCmd) Run(_ context.Context) error {
	if err := updateConfig(func(cfg *config.Config) error { return cfg.Set(c.Key, c.Value) }); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Set %s = %s\n", c.Key, c.Value)

	return nil
}

// ConfigUnsetCmd removes a config value.
type ConfigUnsetCmd struct {
	Key string `arg:"" help:"Config key to unset"`
}

// Run clears the key so its default applies again.
func (c *ConfigUnsetCmd) Run(_ context.Context) error {
	if err := updateConfig(func(cfg *config.Config) error { return cfg.Unset(c.Key) }); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Unset %s (default %s)\n", c.Key, keyDefaults[c.Key])

	return nil
}
