package urlfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const renderedPage = `<!DOCTYPE html>
<html>
<head><title>백엔드 엔지니어</title></head>
<body>
<div>
<h2>자격요건</h2>
<p>대규모 분산 시스템을 설계하고 운영해 본 경험이 있으신 분을 찾습니다. 안정적인 서비스를 함께 만들어 갑니다.</p>
</div>
</body>
</html>`

type stubRenderer struct {
	html   string
	err    error
	called bool
}

func (s *stubRenderer) Render(_ context.Context, _ string) (string, error) {
	s.called = true
	return s.html, s.err
}

func TestNeedsRendering(t *testing.T) {
	pad := strings.Repeat("<p>filler content</p>", 50)

	tests := []struct {
		name     string
		html     string
		expected bool
	}{
		{"empty document", "", true},
		{"short document", "<html><body>hi</body></html>", true},
		{"spa root shell", `<html>` + pad + `<div id="root"></div></html>`, true},
		{"next shell", `<html>` + pad + `<div id="__next"></div></html>`, true},
		{"js warning", `<html>` + pad + `You need to enable JavaScript to run this app</html>`, true},
		{"no jd vocabulary", "<html><body>" + pad + "</body></html>", true},
		{"korean jd content", `<html><body>` + pad + `자격요건</body></html>`, false},
		{"english jd content", `<html><body>` + pad + `Responsibilities</body></html>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NeedsRendering(tt.html))
		})
	}
}

func TestFetcherStaticPath(t *testing.T) {
	padded := renderedPage + strings.Repeat("<!-- pad -->", 50)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(padded))
	}))
	defer srv.Close()

	renderer := &stubRenderer{html: "should not be used"}
	f := NewFetcher(renderer, nil)

	html, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, html, "자격요건")
	assert.False(t, renderer.called, "rendered page must not trigger the browser")
}

func TestFetcherFallsBackToRenderer(t *testing.T) {
	shell := `<html>` + strings.Repeat("<p>nav filler</p>", 60) + `<div id="root"></div></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(shell))
	}))
	defer srv.Close()

	renderer := &stubRenderer{html: renderedPage}
	f := NewFetcher(renderer, nil)

	html, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.True(t, renderer.called)
	assert.Equal(t, renderedPage, html)
}

func TestFetcherRendererFailureOnShell(t *testing.T) {
	shell := `<html>` + strings.Repeat("<p>nav filler</p>", 60) + `<div id="root"></div></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(shell))
	}))
	defer srv.Close()

	renderer := &stubRenderer{err: assert.AnError}
	f := NewFetcher(renderer, nil)

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err, "a shell page whose browser fetch fails must not pass as fetched")
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, renderer.called)
}

func TestFetcherRetriesRendererOnStaticError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	renderer := &stubRenderer{html: renderedPage}
	f := NewFetcher(renderer, nil)

	html, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.True(t, renderer.called)
	assert.Equal(t, renderedPage, html)
}

func TestFetcherStaticAndRendererFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	renderer := &stubRenderer{err: assert.AnError}
	f := NewFetcher(renderer, nil)

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, renderer.called)
}

func TestFetcherErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(nil, nil)

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
