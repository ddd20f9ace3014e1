package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dedene/datlink-cli/internal/dat"
	"github.com/dedene/datlink-cli/internal/ui"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"breaks", "a <br> b<br/>c", "a\nb\nc"},
		{"anchor text kept", `<a href="../test/read.cgi/news/1/1">&gt;&gt;1</a> ok`, ">>1 ok"},
		{"entities", "&amp; &quot;x&quot;", `& "x"`},
		{"tags stripped", "<b>bold</b>", "bold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ui.PlainText(tt.in))
		})
	}
}

func TestPostHeader(t *testing.T) {
	p := dat.Post{Name: "名無しさん", Mail: "sage", Date: "2024/01/01(月) 00:00:00.00", ID: "abc"}
	assert.Equal(t, "1 名無しさん [sage] 2024/01/01(月) 00:00:00.00 ID:abc", ui.PostHeader(1, p))

	assert.Equal(t, "2 x", ui.PostHeader(2, dat.Post{Name: "x"}))
}

func TestPostHeader_NameMarkup(t *testing.T) {
	p := dat.Post{Name: "<b>fox</b>&amp;"}
	assert.Equal(t, "3 fox&", ui.PostHeader(3, p))
}

func TestRenderPosts(t *testing.T) {
	posts := []dat.Post{
		{Name: "a", Message: "first<br>line"},
		{Name: "b", Message: "second"},
	}

	out := ui.RenderPosts(posts, 80, false)
	assert.Contains(t, out, "1 a")
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "line")
	assert.Contains(t, out, "2 b")
	assert.Contains(t, out, "second")
	assert.NotContains(t, out, "<br>")
}

func TestRenderPosts_Empty(t *testing.T) {
	assert.Empty(t, ui.RenderPosts(nil, 80, false))
}
