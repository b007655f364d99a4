package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"buildquote/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verify(t *testing.T, code string) (*httptest.ResponseRecorder, models.VerifyAccessResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/access/verify", VerifyAccess())

	raw, err := json.Marshal(models.VerifyAccessRequest{Code: code})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/access/verify", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp models.VerifyAccessResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestVerifyAccess(t *testing.T) {
	w, resp := verify(t, "build2025")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Granted)
}

func TestVerifyAccessWrongCodeIsNotAnError(t *testing.T) {
	w, resp := verify(t, "letmein")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, resp.Granted)
}

func TestVerifyAccessOverride(t *testing.T) {
	t.Setenv("ACCESS_CODE", "winter2026")

	_, resp := verify(t, "winter2026")
	assert.True(t, resp.Granted)
	_, resp = verify(t, "build2025")
	assert.False(t, resp.Granted)
}

func TestVerifyAccessBadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/access/verify", VerifyAccess())

	req := httptest.NewRequest(http.MethodPost, "/api/access/verify", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
