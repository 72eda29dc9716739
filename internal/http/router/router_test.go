package router

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/backend/internal/config"
	"github.com/skillswap/backend/internal/http/handlers"
	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Discard()
}

func newTestRouter(t *testing.T, compression bool) (*gin.Engine, *service.TokenManager) {
	cfg := &config.Config{
		Env:                "development",
		MediaStoragePath:   t.TempDir(),
		AllowedOrigins:     []string{"http://localhost:3000"},
		RateLimitLimit:     100,
		RateLimitPeriod:    time.Minute,
		CompressionEnabled: compression,
	}
	tokens := service.NewTokenManager("access", "refresh", time.Minute, time.Hour)

	h := Handlers{
		Auth:    handlers.NewAuthHandler(service.NewAuthService(nil, tokens)),
		Profile: handlers.NewProfileHandler(service.NewProfileService(nil, nil)),
		Skill:   handlers.NewSkillHandler(service.NewSkillService(nil, nil, 0)),
		Booking: handlers.NewBookingHandler(service.NewBookingService(nil, nil, nil)),
		Message: handlers.NewMessageHandler(service.NewMessageService(nil, nil, nil)),
		Media:   handlers.NewMediaHandler(nil, 1),
		WS:      handlers.NewWSHandler(nil, tokens, cfg.AllowedOrigins),
		Health:  handlers.NewHealthHandler(nil),
	}
	return SetupRouter(cfg, h, tokens), tokens
}

func get(r http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicSkillRoutes(t *testing.T) {
	r, _ := newTestRouter(t, false)

	w := get(r, "/api/skills/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cooking & Baking")

	w = get(r, "/api/skills/classify?name=Piano", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Music"`)

	w = get(r, "/api/skills/user/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	r, tokens := newTestRouter(t, false)

	for _, path := range []string{"/api/bookings/upcoming", "/api/messages/chats", "/api/profile"} {
		assert.Equal(t, http.StatusUnauthorized, get(r, path, nil).Code, path)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/bookings/"+uuid.NewString()+"/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// С валидным токеном запрос доходит до хэндлера: чужой чат запрещён.
	pair, _, err := tokens.GeneratePair(uuid.New())
	require.NoError(t, err)
	w = get(r, "/api/messages/chat-foo", http.Header{"Authorization": {"Bearer " + pair.AccessToken}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_BookingActionRoutes(t *testing.T) {
	r, tokens := newTestRouter(t, false)
	pair, _, err := tokens.GeneratePair(uuid.New())
	require.NoError(t, err)

	for _, action := range []string{"accept", "decline", "complete", "cancel"} {
		req := httptest.NewRequest(http.MethodPut, "/api/bookings/bad-id/"+action, nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, action)
	}
}

func TestRouter_SeedOnlyWhenConfigured(t *testing.T) {
	r, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/seed", strings.NewReader(""))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CompressesAPIResponses(t *testing.T) {
	r, _ := newTestRouter(t, true)

	w := get(r, "/api/skills/categories", http.Header{"Accept-Encoding": {"gzip, br"}})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "br", w.Header().Get("Content-Encoding"))

	body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Contains(t, string(body), "Tech")

	w = get(r, "/api/skills/categories", nil)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}
