package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmdesk/filmdesk-backend/internal/auth"
	"github.com/filmdesk/filmdesk-backend/internal/auth/service"
)

func setupRouter(t *testing.T) (*gin.Engine, *auth.Identity) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	identity := auth.NewIdentity()
	h := New(service.NewSessionService(identity, nil, nil))

	r := gin.New()
	h.Register(r.Group("/api/v1/session"), auth.OptionalUser())
	return r, identity
}

func TestSessionHandlers(t *testing.T) {
	r, identity := setupRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/session/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/login", strings.NewReader(`{"name":"Jane"}`))
	req.Header.Set("X-User-Id", "u1")
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1", identity.Current())

	var resp struct {
		User struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Jane", resp.User.Name)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/session/logout", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "", identity.Current())
}

func TestSessionHandlers_BadBody(t *testing.T) {
	r, _ := setupRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/login", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
