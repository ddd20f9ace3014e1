package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dedene/datlink-cli/internal/actions"
	"github.com/dedene/datlink-cli/internal/config"
	"github.com/dedene/datlink-cli/internal/encoding"
	"github.com/dedene/datlink-cli/internal/fetch"
	"github.com/dedene/datlink-cli/internal/ui"
)

// errFileExists is returned when a save would overwrite without --force.
var errFileExists = errors.New("file exists (use --force to overwrite)")

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func clientFrom(ctx context.Context) *fetch.Client {
	if cl := fetch.ClientFromContext(ctx); cl != nil {
		return cl
	}

	cfg := cfgFrom(ctx)

	return fetch.NewClient(fetch.ClientOptions{
		Timeout:   cfg.TimeoutDuration(),
		UserAgent: cfg.UserAgent,
	})
}

func cfgFrom(ctx context.Context) *config.Config {
	if cfg := config.FromContext(ctx); cfg != nil {
		return cfg
	}

	return &config.Config{}
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}

	return *b
}

// readSource loads a local file or retrieves a URL.
func readSource(ctx context.Context, src string) ([]byte, error) {
	if !isRemote(src) {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", src, err)
		}

		return data, nil
	}

	slog.Debug("fetching source", "url", src)

	data, err := clientFrom(ctx).Fetch(ctx, src)
	if err != nil {
		return nil, blockedFallback(ctx, src, err)
	}

	return data, nil
}

// decodeSource reads src and decodes it, falling back to Shift_JIS.
func decodeSource(ctx context.Context, src string) (string, error) {
	data, err := readSource(ctx, src)
	if err != nil {
		return "", err
	}

	text, tag, err := encoding.DecodeAuto(data)
	if err != nil {
		return "", err
	}

	slog.Debug("decoded source", "source", src, "encoding", tag.String(), "bytes", len(data))

	return text, nil
}

// blockedFallback opens rawURL in the browser when the server refused the
// request, unless open_on_blocked is set to false. The original error is
// always returned.
func blockedFallback(ctx context.Context, rawURL string, err error) error {
	if !fetch.IsBlocked(err) || !boolOr(cfgFrom(ctx).OpenOnBlocked, true) {
		return err
	}

	if u := ui.FromContext(ctx); u != nil {
		u.Err().Warnf("access blocked, opening %s in the browser", rawURL)
	}

	if openErr := actions.OpenInBrowser(rawURL); openErr != nil {
		slog.Warn("opening browser", "url", rawURL, "error", openErr)
	}

	return err
}

// outputDir resolves the target directory: flag, then config, then ".".
func outputDir(ctx context.Context, flag string) string {
	if flag != "" {
		return flag
	}

	if dir := cfgFrom(ctx).OutputDir; dir != "" {
		return dir
	}

	return "."
}

// saveShiftJIS re-encodes text to Shift_JIS and writes it to path.
func saveShiftJIS(path, text string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, errFileExists)
		}
	}

	data, err := encoding.Encode(text, encoding.ShiftJIS)
	if err != nil {
		return err
	}

	if err := actions.SaveFile(filepath.Clean(path), data); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	return nil
}
