package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedene/datlink-cli/internal/config"
	"github.com/dedene/datlink-cli/internal/dat"
	"github.com/dedene/datlink-cli/internal/encoding"
)

func TestConvertCmd_File(t *testing.T) {
	dir := t.TempDir()
	ctx, errBuf := testCtx(t, false, &config.Config{OutputDir: dir})
	src := writeTemp(t, "page.html", sjisPage(t))

	c := &ConvertCmd{Source: src}
	output := captureStdout(t, func() {
		require.NoError(t, c.Run(ctx, &RootFlags{}))
	})

	dest := filepath.Join(dir, "1700000000.dat")
	assert.Equal(t, dest+"\n", output)
	assert.Contains(t, errBuf.String(), "Wrote 2 posts")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)

	text, err := encoding.Decode(data, encoding.ShiftJIS)
	require.NoError(t, err)

	want := "名無しさん<>sage<>2024/01/01(月) 00:00:00.00 ID:abcd1234<>一行目<br>二行目<>\n" +
		"VIPPER<><>2024/01/01(月) 00:01:00.00<><a href=\"../test/read.cgi/software/1700000000/1\">&gt;&gt;1</a> 乙<>\n"
	assert.Equal(t, want, text)
	assert.Len(t, dat.Parse(text), 2)
}

func TestConvertCmd_URLWithOutput(t *testing.T) {
	body := sjisPage(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=Shift_JIS")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	ctx, _ := testCtx(t, true, nil)
	dest := filepath.Join(t.TempDir(), "out", "custom.dat")

	c := &ConvertCmd{Source: srv.URL + "/software/kako/1700/17000/1700000000.html", Output: dest}
	output := captureStdout(t, func() {
		require.NoError(t, c.Run(ctx, &RootFlags{}))
	})

	var parsed convertResult
	require.NoError(t, json.Unmarshal([]byte(output), &parsed))
	assert.Equal(t, "1700000000", parsed.Key)
	assert.Equal(t, 2, parsed.Posts)
	assert.Equal(t, dest, parsed.File)
	assert.FileExists(t, dest)
}

func TestConvertCmd_NoKeyFallsBackToThreadDat(t *testing.T) {
	dir := t.TempDir()
	ctx, _ := testCtx(t, false, &config.Config{OutputDir: dir})
	page := `<article id="1" class="post"><span class="postusername">a</span><section class="post-content">x</section></article>`
	src := writeTemp(t, "page.html", []byte(page))

	c := &ConvertCmd{Source: src}
	_ = captureStdout(t, func() {
		require.NoError(t, c.Run(ctx, &RootFlags{}))
	})

	assert.FileExists(t, filepath.Join(dir, "thread.dat"))
}

func TestConvertCmd_NoPosts(t *testing.T) {
	ctx, _ := testCtx(t, false, &config.Config{OutputDir: t.TempDir()})
	src := writeTemp(t, "page.html", []byte("<html><body>削除されました</body></html>"))

	c := &ConvertCmd{Source: src}
	err := c.Run(ctx, &RootFlags{})
	require.ErrorIs(t, err, dat.ErrNoPosts)
}

func TestConvertCmd_Blocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnavailableForLegalReasons)
	}))
	defer srv.Close()

	opened := stubBrowser(t)

	tr := true
	ctx, _ := testCtx(t, false, &config.Config{OpenOnBlocked: &tr})

	c := &ConvertCmd{Source: srv.URL + "/page.html"}
	err := c.Run(ctx, &RootFlags{})
	require.Error(t, err)
	assert.Equal(t, []string{srv.URL + "/page.html"}, *opened)
}
