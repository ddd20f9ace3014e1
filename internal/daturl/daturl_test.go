package daturl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedene/datlink-cli/internal/daturl"
)

func TestDeriveLive(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"5ch with trailing slash",
			"https://egg.5ch.net/test/read.cgi/software/1700000000/",
			"https://egg.5ch.net/software/dat/1700000000.dat",
		},
		{
			"post range suffix",
			"https://egg.5ch.net/test/read.cgi/software/1700000000/l50",
			"https://egg.5ch.net/software/dat/1700000000.dat",
		},
		{
			"no trailing slash",
			"http://mao.2ch.sc/test/read.cgi/news/1234567890",
			"http://mao.2ch.sc/news/dat/1234567890.dat",
		},
		{
			"query string",
			"https://mercury.bbspink.com/test/read.cgi/hneta/1650000000/?v=pc",
			"https://mercury.bbspink.com/hneta/dat/1650000000.dat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := daturl.Derive(tt.in, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveArchived(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"5ch uses oyster",
			"https://egg.5ch.net/test/read.cgi/software/1700000000/",
			"https://egg.5ch.net/software/oyster/1700/1700000000.dat",
		},
		{
			"bbspink uses oyster",
			"https://mercury.bbspink.com/test/read.cgi/hneta/1650000000/",
			"https://mercury.bbspink.com/hneta/oyster/1650/1650000000.dat",
		},
		{
			"third party uses kako",
			"http://mao.2ch.sc/test/read.cgi/news/1234567890/",
			"http://mao.2ch.sc/news/kako/1234/12345/1234567890.dat",
		},
		{
			"multi-label domain uses kako",
			"https://hayabusa.open2ch.net/test/read.cgi/livejupiter/1600000000/",
			"https://hayabusa.open2ch.net/livejupiter/kako/1600/16000/1600000000.dat",
		},
		{
			"nine digit key",
			"https://ex.5ch.net/test/read.cgi/board/123456789/",
			"https://ex.5ch.net/board/oyster/1234/123456789.dat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := daturl.Derive(tt.in, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveShortKey(t *testing.T) {
	_, err := daturl.Derive("https://egg.5ch.net/test/read.cgi/software/1234/", false)
	require.ErrorIs(t, err, daturl.ErrThreadIDTooShort)

	_, err = daturl.Derive("https://egg.5ch.net/test/read.cgi/software/1234/", true)
	require.ErrorIs(t, err, daturl.ErrThreadIDTooShort)

	got, err := daturl.Derive("https://egg.5ch.net/test/read.cgi/software/12345/", true)
	require.NoError(t, err)
	assert.Equal(t, "https://egg.5ch.net/software/oyster/1234/12345.dat", got)
}

func TestDerivePatternMismatch(t *testing.T) {
	inputs := []string{
		"",
		"not a url",
		"https://egg.5ch.net/software/dat/1700000000.dat",
		"https://egg.5ch.net/test/software/1700000000/",
		"https://localhost/test/read.cgi/board/1700000000/",
		"egg.5ch.net/test/read.cgi/software/1700000000/",
		"https://egg.5ch.net/test/read.cgi/software/",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := daturl.Derive(in, false)
			require.ErrorIs(t, err, daturl.ErrPatternMismatch)
			assert.Empty(t, got)
		})
	}
}

func TestParseThreadURL(t *testing.T) {
	th, err := daturl.ParseThreadURL("https://egg.5ch.net/test/read.cgi/software/1700000000/")
	require.NoError(t, err)

	assert.Equal(t, daturl.Thread{
		Scheme: "https",
		Server: "egg",
		Domain: "5ch.net",
		Board:  "software",
		Key:    "1700000000",
	}, th)
	assert.Equal(t, "egg.5ch.net", th.Host())
}

func TestIsThreadURL(t *testing.T) {
	assert.True(t, daturl.IsThreadURL("https://egg.5ch.net/test/read.cgi/software/1700000000/"))
	assert.False(t, daturl.IsThreadURL("https://egg.5ch.net/software/dat/1700000000.dat"))
	assert.False(t, daturl.IsThreadURL("./thread.dat"))
}
