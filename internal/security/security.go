package security

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/ZanzyTHEbar/engagement-pulse/internal/errors"
	"github.com/gin-gonic/gin"
)

// Config holds request hardening settings
type Config struct {
	MaxBodyBytes   int64         `json:"max_body_bytes" yaml:"max_body_bytes"`
	MaxTextLength  int           `json:"max_text_length" yaml:"max_text_length"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	EnableHSTS     bool          `json:"enable_hsts" yaml:"enable_hsts"`
}

// DefaultConfig returns secure defaults
func DefaultConfig() Config {
	return Config{
		MaxBodyBytes:   5 << 20,
		MaxTextLength:  2000,
		RequestTimeout: 60 * time.Second,
	}
}

var (
	scriptPattern  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// SanitizeText strips markup and control characters from a free-text survey
// answer and truncates it to maxLen runes. Invalid UTF-8 is dropped.
func SanitizeText(input string, maxLen int) string {
	if !utf8.ValidString(input) {
		input = strings.ToValidUTF8(input, "")
	}

	input = scriptPattern.ReplaceAllString(input, "")
	input = htmlTagPattern.ReplaceAllString(input, "")
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input)
	input = strings.TrimSpace(spacePattern.ReplaceAllString(input, " "))

	if maxLen > 0 && utf8.RuneCountInString(input) > maxLen {
		input = string([]rune(input)[:maxLen])
	}
	return input
}

// ValidateContentType rejects request bodies that are not JSON
func ValidateContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		contentType := strings.ToLower(c.GetHeader("Content-Type"))
		if contentType != "" && !strings.Contains(contentType, "application/json") {
			appErr := apperrors.NewValidationError("unsupported content type", contentType)
			appErr.HTTPStatus = http.StatusUnsupportedMediaType
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.Response())
			return
		}

		c.Next()
	}
}

// LimitBody caps the request body size
func LimitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestTimeout bounds the request context
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Timeout", strconv.Itoa(int(timeout.Seconds())))

		c.Next()
	}
}
