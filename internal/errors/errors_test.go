package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		message  string
		category ErrorCategory
		status   int
	}{
		{"validation", NewValidationError("cycleId is required"), "[VALIDATION_ERROR] cycleId is required", CategoryValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("report", "Q9"), "[NOT_FOUND] report not found", CategoryNotFound, http.StatusNotFound},
		{"timeout", NewTimeoutError("nlp timed out", nil), "[TIMEOUT_ERROR] nlp timed out", CategoryTimeout, http.StatusGatewayTimeout},
		{"rate limit", NewRateLimitError("60"), "[RATE_LIMIT_EXCEEDED] Rate limit exceeded", CategoryRateLimit, http.StatusTooManyRequests},
		{"external api", NewExternalAPIError("nlp", fmt.Errorf("boom")), "[UPSTREAM_UNAVAILABLE] nlp API error", CategoryExternalAPI, http.StatusBadGateway},
		{"configuration", NewConfigurationError("bad port", nil), "[CONFIGURATION_ERROR] Configuration error", CategoryConfiguration, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

func TestExternalAPIErrorUnwraps(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewExternalAPIError("nlp", cause)
	assert.ErrorIs(t, err, cause)
}

func TestToAppError(t *testing.T) {
	assert.Nil(t, ToAppError(nil))

	original := NewValidationError("bad")
	assert.Same(t, original, ToAppError(fmt.Errorf("wrapped: %w", original)))

	assert.Equal(t, CategoryTimeout, ToAppError(context.DeadlineExceeded).Category)
	assert.Equal(t, CategoryTimeout, ToAppError(fmt.Errorf("dial timeout")).Category)
	assert.Equal(t, CategoryInternal, ToAppError(fmt.Errorf("kaboom")).Category)
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.True(t, IsRetryableError(NewExternalAPIError("nlp", nil)))
	assert.True(t, IsRetryableError(context.DeadlineExceeded))
	assert.False(t, IsRetryableError(NewValidationError("bad")))
}

func TestErrorHandlerRendersAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/missing", func(c *gin.Context) {
		_ = c.Error(NewNotFoundError("report", "Q1"))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["category"])
	assert.Equal(t, "report not found", body["error"])
}

func TestValidationErrorWithMapFields(t *testing.T) {
	err := NewValidationErrorWithMap(map[string]string{"invitedCount": "must not be negative"})

	body := err.Response()
	assert.Equal(t, "Multiple validation errors", body["error"])
	assert.Equal(t, map[string]string{"invitedCount": "must not be negative"}, body["fields"])
}

func TestRecoveryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RecoveryHandler())
	router.GET("/panic", func(c *gin.Context) {
		panic("unexpected")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
