package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLPattern_Match(t *testing.T) {
	tests := []struct {
		pattern string
		url     string
		want    bool
	}{
		{"<all_urls>", "https://anything.example/x", true},
		{"*://example.com/*", "https://example.com/login", true},
		{"*://example.com/*", "http://example.com", true},
		{"*://example.com/*", "ftp://example.com/file", false},
		{"*://example.com/*", "https://evil.com/example.com/", false},
		{"https://*.example.com/*", "https://app.example.com/dash", true},
		{"https://*.example.com/*", "https://example.com/", true},
		{"https://*.example.com/*", "https://example.org/", false},
		{"https://example.com/account/*", "https://example.com/account/settings#tab", true},
		{"https://example.com/account/*", "https://example.com/other", false},
		{"*example*", "https://www.example.com/", true},
		{"*://localhost/*", "http://localhost:8080/app", true},
		{"http://127.0.0.1/*", "http://127.0.0.1:3000/", true},
		{"http://127.0.0.1:3000/*", "http://127.0.0.1:3000/", true},
		{"http://127.0.0.1:3000/*", "http://127.0.0.1:4000/", false},
		{"http://[::1]/*", "http://[::1]:9222/json", true},
		{"https://example.com/a[1]", "https://example.com/a[1]", true},
		{"https://example.com/a[1]", "https://example.com/a1", false},
		{"https://example.com/{x}", "https://example.com/{x}", true},
		{"https://example.com/page?", "https://example.com/pagex", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.url, func(t *testing.T) {
			p, err := CompileURLPattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Match(tt.url))
		})
	}
}

func TestURLPattern_GlobCharactersAreLiteral(t *testing.T) {
	p, err := CompileURLPattern("https://example.com/[")
	require.NoError(t, err)

	assert.True(t, p.Match("https://example.com/["))
	assert.False(t, p.Match("https://example.com/x"))
}

func TestContextFilter_Apply(t *testing.T) {
	contexts := []TargetContext{
		{ID: "a", Index: 0, URL: "https://example.com/"},
		{ID: "b", Index: 1, URL: "https://mail.example.com/inbox", Active: true},
		{ID: "c", Index: 2, URL: "https://other.org/"},
	}

	got, err := ContextFilter{}.Apply(contexts)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = ContextFilter{URLPattern: "*://*.example.com/*"}.Apply(contexts)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	got, err = ContextFilter{ActiveOnly: true}.Apply(contexts)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}
