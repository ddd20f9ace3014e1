package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/dedene/datlink-cli/internal/config"
	"github.com/dedene/datlink-cli/internal/fetch"
	"github.com/dedene/datlink-cli/internal/outfmt"
	"github.com/dedene/datlink-cli/internal/ui"
)

// fetchInterval spaces requests to the same board server.
const fetchInterval = 500 * time.Millisecond

// RootFlags are global flags available to all commands.
type RootFlags struct {
	Color   string `help:"Color output: auto|always|never" default:"auto" enum:"auto,always,never"`
	JSON    bool   `help:"JSON output" default:"false"`
	Verbose bool   `help:"Verbose logging" default:"false"`
	NoInput bool   `help:"Never prompt or open the browser view" name:"no-input" default:"false"`
	Force   bool   `help:"Overwrite existing files" default:"false"`
}

// CLI is the top-level Kong command struct.
type CLI struct {
	RootFlags `embed:""`

	Version    kong.VersionFlag `help:"Print version and exit"`
	VersionCmd VersionCmd       `cmd:"" name:"version" help:"Print version info"`
	URL        URLCmd           `cmd:"" name:"url" aliases:"u" default:"withargs" help:"Print dat URLs for thread URLs"`
	Fetch      FetchCmd         `cmd:"" name:"fetch" aliases:"get" help:"Download threads as Shift_JIS dat files"`
	View       ViewCmd          `cmd:"" name:"view" aliases:"v" help:"Show the posts of a dat file or archive page"`
	Convert    ConvertCmd       `cmd:"" name:"convert" help:"Convert an archived HTML page to a dat file"`
	Config     ConfigCmd        `cmd:"" name:"config" help:"Manage configuration"`
}

// Execute parses CLI args, sets up context, and runs the matched command.
func Execute(args []string) (err error) {
	cli := &CLI{}
	parser, err := kong.New(
		cli,
		kong.Name("datlink"),
		kong.Description("Derive, fetch and convert 5ch dat files"),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": VersionString()},
		kong.Writers(os.Stdout, os.Stderr),
		kong.Exit(func(code int) { panic(exitPanic{code: code}) }),
	)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			handled, exitErr := recoverExit(r)
			if !handled {
				panic(r)
			}
			err = exitErr
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return usage(err)
	}

	// Verbose logging
	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Output mode
	ctx := outfmt.WithMode(context.Background(), outfmt.Mode{JSON: cli.JSON})

	// UI printer -- force no color in JSON mode
	uiColor := cli.Color
	if outfmt.IsJSON(ctx) {
		uiColor = "never"
	}
	u, uiErr := ui.New(ui.Options{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Color:  uiColor,
	})
	if uiErr != nil {
		return uiErr
	}
	ctx = ui.WithUI(ctx, u)

	// Config
	cfgPath, _ := config.ConfigPath()
	cfg, cfgErr := config.Load(cfgPath)
	if cfgErr != nil {
		slog.Warn("loading config", "error", cfgErr)
		cfg = &config.Config{}
	}
	ctx = config.WithConfig(ctx, cfg)

	// HTTP client
	ua := cfg.UserAgent
	if ua == "" {
		ua = currentVersion().UserAgent
	}
	client := fetch.NewClient(fetch.ClientOptions{
		Timeout:   cfg.TimeoutDuration(),
		UserAgent: ua,
		Verbose:   cli.Verbose,
		Interval:  fetchInterval,
	})
	ctx = fetch.WithClient(ctx, client)

	// Bind context + root flags to Kong
	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(&cli.RootFlags)

	return kctx.Run()
}
