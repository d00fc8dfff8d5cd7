package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Conceptual-Machines/storyforge-api/internal/config"
	"github.com/Conceptual-Machines/storyforge-api/internal/logger"
	"github.com/Conceptual-Machines/storyforge-api/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func whoami(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)
	c.String(http.StatusOK, userID)
}

func TestAuthenticate_Modes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("none sets anonymous", func(t *testing.T) {
		router := gin.New()
		router.GET("/", Authenticate(&config.Config{AuthMode: config.AuthModeNone}), whoami)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, middleware.AnonymousUserID, w.Body.String())
	})

	t.Run("gateway trusts header", func(t *testing.T) {
		router := gin.New()
		router.GET("/", Authenticate(&config.Config{AuthMode: config.AuthModeGateway}), whoami)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-ID", "u-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u-42", w.Body.String())
	})

	t.Run("gateway rejects missing header", func(t *testing.T) {
		router := gin.New()
		router.GET("/", Authenticate(&config.Config{AuthMode: config.AuthModeGateway}), whoami)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("jwt requires token", func(t *testing.T) {
		router := gin.New()
		router.GET("/", Authenticate(&config.Config{AuthMode: config.AuthModeJWT, JWTSecret: "s"}), whoami)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequestTracking_PropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestTracking(nil))

	var fromContext string
	router.GET("/ping", func(c *gin.Context) {
		fromContext = logger.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	headerID := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, headerID)
	assert.Equal(t, headerID, fromContext)
}

func TestRequestTracking_LogsByStatus(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestTracking(nil))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Contains(t, buf.String(), "[INFO] API request completed")
	assert.Contains(t, buf.String(), "path=/ok")

	buf.Reset()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Contains(t, buf.String(), "Request failed with client error")
	assert.NotContains(t, buf.String(), "API request completed")
}

func TestRecoverWithSentry_Returns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RecoverWithSentry())
	router.GET("/boom", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, "u1")
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS())
	router.POST("/api/genstory", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/genstory", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
