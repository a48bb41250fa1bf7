package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveCompressed(t *testing.T, cfg CompressionConfig, h http.HandlerFunc, method, acceptEncoding string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, "/cargo", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	rec := httptest.NewRecorder()
	Compression(cfg)(h).ServeHTTP(rec, req)
	res := rec.Result()
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func writeBody(contentType, body string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func gunzip(t *testing.T, r io.Reader) string {
	t.Helper()
	gr, err := gzip.NewReader(r)
	require.NoError(t, err)
	defer gr.Close()
	b, err := io.ReadAll(gr)
	require.NoError(t, err)
	return string(b)
}

func TestCompression(t *testing.T) {
	page := strings.Repeat("<li>東京→大阪 4t 85,000円</li>", 200)

	tests := []struct {
		name           string
		cfg            CompressionConfig
		method         string
		acceptEncoding string
		contentType    string
		body           string
		status         int
		wantGzip       bool
	}{
		{"accepts gzip", CompressionConfig{Level: 6}, http.MethodGet, "gzip, deflate", "text/html; charset=utf-8", page, http.StatusOK, true},
		{"fastest level", CompressionConfig{Level: 1}, http.MethodGet, "gzip", "text/html", page, http.StatusOK, true},
		{"out of range level uses default", CompressionConfig{Level: 42}, http.MethodGet, "gzip", "text/html", page, http.StatusOK, true},
		{"json is compressed", CompressionConfig{}, http.MethodGet, "gzip", "application/json", page, http.StatusOK, true},
		{"error pages are compressed", CompressionConfig{}, http.MethodGet, "gzip", "text/html", page, http.StatusNotFound, true},
		{"no gzip in accept-encoding", CompressionConfig{}, http.MethodGet, "deflate", "text/html", page, http.StatusOK, false},
		{"no accept-encoding", CompressionConfig{}, http.MethodGet, "", "text/html", page, http.StatusOK, false},
		{"gzip refused with q=0", CompressionConfig{}, http.MethodGet, "gzip;q=0, br", "text/html", page, http.StatusOK, false},
		{"gzip with q value", CompressionConfig{}, http.MethodGet, "br;q=1.0, gzip;q=0.8", "text/html", page, http.StatusOK, true},
		{"images are not compressed", CompressionConfig{}, http.MethodGet, "gzip", "image/png", page, http.StatusOK, false},
		{"small bodies stay plain", CompressionConfig{MinSize: 1024}, http.MethodGet, "gzip", "text/html", "<p>ok</p>", http.StatusOK, false},
		{"head is untouched", CompressionConfig{}, http.MethodHead, "gzip", "text/html", "", http.StatusOK, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := serveCompressed(t, tt.cfg, writeBody(tt.contentType, tt.body, tt.status), tt.method, tt.acceptEncoding)

			assert.Equal(t, tt.status, res.StatusCode)
			if !tt.wantGzip {
				assert.Empty(t, res.Header.Get("Content-Encoding"))
				b, err := io.ReadAll(res.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.body, string(b))
				return
			}
			assert.Equal(t, "gzip", res.Header.Get("Content-Encoding"))
			assert.Equal(t, "Accept-Encoding", res.Header.Get("Vary"))
			assert.Empty(t, res.Header.Get("Content-Length"))
			assert.Equal(t, tt.body, gunzip(t, res.Body))
		})
	}
}

func TestCompression_NoContent(t *testing.T) {
	h := func(w http.ResponseWriter, _ *http.Request) {
		SetHXRedirect(w, "/login")
		w.WriteHeader(http.StatusNoContent)
	}
	res := serveCompressed(t, CompressionConfig{}, h, http.MethodGet, "gzip")

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Empty(t, res.Header.Get("Content-Encoding"))
	assert.Equal(t, "/login", res.Header.Get("Hx-Redirect"))
}

func TestCompression_PreEncodedBody(t *testing.T) {
	h := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		w.Header().Set("Content-Encoding", "br")
		_, _ = io.WriteString(w, "already-encoded")
	}
	res := serveCompressed(t, CompressionConfig{}, h, http.MethodGet, "gzip")

	assert.Equal(t, "br", res.Header.Get("Content-Encoding"))
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "already-encoded", string(b))
}

func TestCompression_Disabled(t *testing.T) {
	h := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, strings.Repeat("荷物", 2048))
	}
	res := serveCompressed(t, CompressionConfig{Disabled: true}, h, http.MethodGet, "gzip")

	assert.Empty(t, res.Header.Get("Content-Encoding"))
	assert.Empty(t, res.Header.Get("Vary"))
}
