package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientIPOf(t *testing.T, router *gin.Engine, remoteAddr, forwardedFor string) string {
	t.Helper()
	router.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = remoteAddr
	req.Header.Set("X-Forwarded-For", forwardedFor)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewEngine_NoTrustedProxies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := newEngine(nil)
	require.NoError(t, err)

	assert.Equal(t, "203.0.113.7", clientIPOf(t, router, "203.0.113.7:5000", "198.51.100.9"))
}

func TestNewEngine_TrustedProxy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := newEngine([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	assert.Equal(t, "198.51.100.9", clientIPOf(t, router, "10.0.0.5:5000", "198.51.100.9"))
}

func TestNewEngine_InvalidProxy(t *testing.T) {
	_, err := newEngine([]string{"not-an-ip"})
	assert.Error(t, err)
}
