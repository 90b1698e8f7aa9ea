package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIs_MatchesSentinelThroughWrapping(t *testing.T) {
	err := fmt.Errorf("checkout: %w", ErrEmptyCart.Wrap(stderrors.New("no items")))
	assert.True(t, stderrors.Is(err, ErrEmptyCart))
	assert.False(t, stderrors.Is(err, ErrInvalidPromo))
}

func TestAs(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, As(NotFound("Product not found")).Code)
	assert.Equal(t, http.StatusGatewayTimeout, As(context.DeadlineExceeded).Code)

	internal := As(stderrors.New("dial tcp: refused"))
	assert.Equal(t, http.StatusInternalServerError, internal.Code)
	assert.Equal(t, "Internal server error", internal.Message)
	assert.Nil(t, ErrInternalServer.Err)
}

func TestErrorMiddleware_RendersAttachedError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorMiddleware(zap.NewNop()))
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(BadRequest("Please fill out all billing fields.").WithDetails(map[string]string{"city": "required"}))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Please fill out all billing fields.", body["error"])
	assert.Equal(t, map[string]any{"city": "required"}, body["details"])
}
