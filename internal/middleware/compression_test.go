package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompressedRouter(cm *CompressionMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(cm.Handler())
	r.GET("/large", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"payload": strings.Repeat("engagement ", 500)})
	})
	r.GET("/small", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	r.GET("/encoded", func(c *gin.Context) {
		c.Header("Content-Encoding", "br")
		c.Data(http.StatusOK, "application/json", []byte(strings.Repeat("x", 4096)))
	})
	return r
}

func get(r http.Handler, path, acceptEncoding string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCompressesLargeJSON(t *testing.T) {
	cm := NewCompressionMiddleware(DefaultCompressionConfig())
	w := get(newCompressedRouter(cm), "/large", "gzip, deflate")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Header().Values("Vary"), "Accept-Encoding")

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"payload":"engagement engagement`)

	stats := cm.Stats().GetStats()
	assert.Equal(t, int64(1), stats["compressed_requests"])
	assert.Less(t, stats["compression_ratio"].(float64), 1.0)
}

func TestSmallResponseKeepsStatusAndIdentity(t *testing.T) {
	cm := NewCompressionMiddleware(DefaultCompressionConfig())
	w := get(newCompressedRouter(cm), "/small", "gzip")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestNoCompressionWithoutAcceptEncoding(t *testing.T) {
	cm := NewCompressionMiddleware(DefaultCompressionConfig())
	w := get(newCompressedRouter(cm), "/large", "")

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Body.String(), "engagement")
	assert.Equal(t, int64(0), cm.Stats().GetStats()["total_requests"])
}

func TestAlreadyEncodedPassesThrough(t *testing.T) {
	cm := NewCompressionMiddleware(DefaultCompressionConfig())
	w := get(newCompressedRouter(cm), "/encoded", "gzip")

	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	assert.Equal(t, 4096, w.Body.Len())
}

func TestAcceptsGzip(t *testing.T) {
	tests := []struct {
		header   string
		expected bool
	}{
		{"gzip", true},
		{"deflate, GZIP;q=0.5", true},
		{"*", true},
		{"gzip;q=0", false},
		{"br, deflate", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, acceptsGzip(tt.header))
		})
	}
}

func TestInvalidLevelFallsBackToDefault(t *testing.T) {
	cm := NewCompressionMiddleware(CompressionConfig{MinSize: 1, CompressionLevel: 42, ContentTypes: []string{"application/json"}})
	w := get(newCompressedRouter(cm), "/small", "gzip")

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}
