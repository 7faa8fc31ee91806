package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/translab/translab-api/pkg/apperror"
)

func errorResponse(t *testing.T, err error) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	Error(c, err)

	var body APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestError_RetryableCarriesRetryAfter(t *testing.T) {
	w, body := errorResponse(t, apperror.ErrConcurrency)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.False(t, body.Success)
	assert.True(t, body.Retryable)
}

func TestError_NonRetryable(t *testing.T) {
	w, body := errorResponse(t, apperror.NewPaymentError("shortfall"))

	assert.Equal(t, 422, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
	assert.False(t, body.Retryable)
	assert.Equal(t, "shortfall", body.Message)
}

func TestError_UnknownErrorBecomes500(t *testing.T) {
	w, body := errorResponse(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
	assert.False(t, body.Retryable)
}
