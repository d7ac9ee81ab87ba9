package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestSuccess_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Set(RequestIDKey, "req-1")

	Success(c, http.StatusCreated, map[string]string{"accessToken": "abc"}, "created", nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body APIResponse[map[string]string]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "req-1", body.RequestID)
	assert.Equal(t, "abc", body.Data["accessToken"])
	assert.Equal(t, "created", body.Message)
}

func TestError_AbortsChain(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	resp := Error[any](c, 0, "bad", map[string]string{"email": "is required"})

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, c.IsAborted())
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "data")
}
