package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dedene/datlink-cli/internal/actions"
	"github.com/dedene/datlink-cli/internal/config"
	"github.com/dedene/datlink-cli/internal/fetch"
	"github.com/dedene/datlink-cli/internal/outfmt"
	"github.com/dedene/datlink-cli/internal/ui"
)

// sjisNanashi is "名無しさん" in Shift_JIS.
var sjisNanashi = []byte{0x96, 0xBC, 0x96, 0xB3, 0x82, 0xB5, 0x82, 0xB3, 0x82, 0xF1}

// sjisDat is a two-post dat in Shift_JIS with a title on the first line.
func sjisDat() []byte {
	var b bytes.Buffer

	b.Write(sjisNanashi)
	b.WriteString("<>sage<>2024/01/01 ID:abc<>first<br>line<>title\n")
	b.WriteString("<><>2024/01/02<>second<>\n")

	return b.Bytes()
}

// testCtx returns a context with a fetch client, the given config and a
// UI that writes stderr to the returned buffer.
func testCtx(t *testing.T, jsonMode bool, cfg *config.Config) (context.Context, *bytes.Buffer) {
	t.Helper()

	if cfg == nil {
		cfg = &config.Config{}
	}

	var errBuf bytes.Buffer

	u, err := ui.New(ui.Options{
		Stdout: &bytes.Buffer{},
		Stderr: &errBuf,
		Color:  "never",
	})
	require.NoError(t, err)

	ctx := context.Background()
	ctx = outfmt.WithMode(ctx, outfmt.Mode{JSON: jsonMode})
	ctx = config.WithConfig(ctx, cfg)
	ctx = ui.WithUI(ctx, u)
	ctx = fetch.WithClient(ctx, fetch.NewClient(fetch.ClientOptions{UserAgent: "datlink-cli/test"}))

	return ctx, &errBuf
}

// captureStdout runs fn while capturing os.Stdout and returns the output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	origStdout := os.Stdout
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		buf, _ := io.ReadAll(r)
		done <- buf
	}()

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	buf := <-done
	_ = r.Close()

	return string(buf)
}

// stubBrowser records URLs passed to actions.OpenInBrowser.
func stubBrowser(t *testing.T) *[]string {
	t.Helper()

	var opened []string

	orig := actions.BrowserOpen
	actions.BrowserOpen = func(u string) error {
		opened = append(opened, u)
		return nil
	}

	t.Cleanup(func() { actions.BrowserOpen = orig })

	return &opened
}

// stubClipboard records text passed to actions.CopyToClipboard.
func stubClipboard(t *testing.T) *string {
	t.Helper()

	var copied string

	origWrite, origUnsupported := actions.ClipboardWrite, actions.ClipboardUnsupported
	actions.ClipboardWrite = func(s string) error {
		copied = s
		return nil
	}
	actions.ClipboardUnsupported = false

	t.Cleanup(func() {
		actions.ClipboardWrite = origWrite
		actions.ClipboardUnsupported = origUnsupported
	})

	return &copied
}
