package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("record not found")
	err := fmt.Errorf("load order: %w", NotFoundError("Order not found", cause))

	appErr := GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "Order not found: record not found", appErr.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsNotFoundError(err))

	assert.False(t, IsNotFoundError(BadRequestError("Invalid status filter", nil)))
	assert.False(t, IsNotFoundError(cause))
	assert.Nil(t, GetAppError(cause))
}

func TestRespondAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"not found", NotFoundError("Post not found", nil), http.StatusNotFound, "Post not found"},
		{"unauthorized", UnauthorizedError(ErrInvalidCredentials, errors.New("bad password")), http.StatusUnauthorized, ErrInvalidCredentials},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, ErrInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondAppError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			var body StandardResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.message, body.Message)
			assert.NotContains(t, w.Body.String(), "bad password")
		})
	}
}
