package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmdesk/filmdesk-backend/internal/auth"
	"github.com/filmdesk/filmdesk-backend/internal/google"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
	"github.com/filmdesk/filmdesk-backend/internal/workspace"
)

func setupRouter(t *testing.T) (*gin.Engine, *workspace.Workspace) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	kv := storage.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	ws := workspace.New(workspace.Options{
		Local:                kv,
		FestivalInitialDelay: time.Hour,
		Now:                  func() time.Time { return time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(func() { ws.OnIdentity("") })

	r := gin.New()
	New(ws, google.NewTokenStore(kv)).Register(r.Group("/api/v1"))
	return r, ws
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandlers_NoSession(t *testing.T) {
	r, _ := setupRouter(t)

	rr := do(r, http.MethodPost, "/api/v1/projects", `{"title":"Film"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(r, http.MethodPut, "/api/v1/google/token", `{"access_token":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandlers_ProjectLifecycle(t *testing.T) {
	r, ws := setupRouter(t)
	ws.OnIdentity("u1")

	rr := do(r, http.MethodPost, "/api/v1/projects", `{"title":"Film","status":"produccion"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		Project struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			Status string `json:"status"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	pid := created.Project.ID
	require.NotEmpty(t, pid)
	assert.Equal(t, "production", created.Project.Status)

	rr = do(r, http.MethodPatch, "/api/v1/projects/"+pid, `{"title":"Film II"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"Film II"`)
	assert.Contains(t, rr.Body.String(), `"status":"production"`)

	rr = do(r, http.MethodPost, "/api/v1/projects/"+pid+"/budget", `{"amount":"100","status":"approved"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = do(r, http.MethodPost, "/api/v1/projects/"+pid+"/budget", `{"amount":"50"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(r, http.MethodGet, "/api/v1/projects/"+pid+"/budget", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var budget struct {
		Summary struct {
			Total   string `json:"total"`
			Pending string `json:"pending"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &budget))
	assert.Equal(t, "150", budget.Summary.Total)
	assert.Equal(t, "50", budget.Summary.Pending)

	rr = do(r, http.MethodDelete, "/api/v1/projects/"+pid, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(r, http.MethodGet, "/api/v1/projects/"+pid+"/budget", "")
	assert.Contains(t, rr.Body.String(), `"items":[]`)
}

func TestHandlers_Invitations(t *testing.T) {
	r, ws := setupRouter(t)
	ws.OnIdentity("u1")

	rr := do(r, http.MethodPost, "/api/v1/projects/p1/visitors", `{"email":"g@x.com","allowedTabs":"tasks"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var resp struct {
		Visitor struct {
			ID          string   `json:"id"`
			Status      string   `json:"status"`
			AllowedTabs []string `json:"allowedTabs"`
		} `json:"visitor"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Visitor.Status)
	assert.Equal(t, []string{"tasks"}, resp.Visitor.AllowedTabs)

	token := resp.Visitor.ID
	rr = do(r, http.MethodPost, "/api/v1/invitations/"+token+"/activate", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(r, http.MethodPost, "/api/v1/invitations/"+token+"/accept", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"owner":"u1"`)

	rr = do(r, http.MethodGet, "/api/v1/invitations/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlers_ContactsAndFestivals(t *testing.T) {
	r, ws := setupRouter(t)
	ws.OnIdentity("u1")

	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/contacts", `{"name":"Jane","email":"jane@x.com"}`).Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/contacts", `{"name":"Jane D","email":"JANE@x.com","phone":"2"}`).Code)

	rr := do(r, http.MethodGet, "/api/v1/contacts?q=jan", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var contacts struct {
		Contacts []struct {
			Phone string `json:"phone"`
		} `json:"contacts"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &contacts))
	require.Len(t, contacts.Contacts, 1)
	assert.Equal(t, "2", contacts.Contacts[0].Phone)

	rr = do(r, http.MethodGet, "/api/v1/festivals?year=2026", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var fests struct {
		Festivals []json.RawMessage `json:"festivals"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fests))
	assert.Len(t, fests.Festivals, 6)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/festivals?year=soon", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/events?day=tomorrow", "").Code)
	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, "/api/v1/events/refresh", "").Code)
}

func TestHandlers_BadBody(t *testing.T) {
	r, ws := setupRouter(t)
	ws.OnIdentity("u1")

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/v1/projects", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/api/v1/tasks/t1", `[1,2`).Code)
}

func TestHandlers_SessionGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	kv := storage.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ws := workspace.New(workspace.Options{Local: kv, FestivalInitialDelay: time.Hour})
	t.Cleanup(func() { ws.OnIdentity("") })
	ws.OnIdentity("u1")

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(auth.OptionalUser())
	New(ws, nil).Register(api)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("X-User-Id", "u2")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("X-User-Id", "u1")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandlers_Notifications(t *testing.T) {
	r, ws := setupRouter(t)
	ws.OnIdentity("u1")

	rr := do(r, http.MethodPost, "/api/v1/projects", `{"title":"Film"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		Project struct {
			ID string `json:"id"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	pid := created.Project.ID

	rr = do(r, http.MethodPost, "/api/v1/projects/"+pid+"/tasks", `{"description":"Permits","endDate":"2025-03-10T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = do(r, http.MethodPost, "/api/v1/projects/"+pid+"/tasks", `{"description":"Grade","endDate":"2025-03-17T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var list struct {
		Notifications []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
			Read bool   `json:"read"`
		} `json:"notifications"`
		Unread int `json:"unread"`
	}
	rr = do(r, http.MethodGet, "/api/v1/notifications", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, 2, list.Unread)
	assert.Equal(t, "task-due-soon", list.Notifications[0].Type)
	overdue := list.Notifications[1].ID

	rr = do(r, http.MethodPost, "/api/v1/notifications/"+overdue+"/complete", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"completed"`)

	rr = do(r, http.MethodPost, "/api/v1/notifications/read", `{"all":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"marked":1}`, rr.Body.String())

	rr = do(r, http.MethodGet, "/api/v1/notifications", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list.Notifications, 1)
	assert.Equal(t, 0, list.Unread)

	rr = do(r, http.MethodPost, "/api/v1/notifications/task-missing/remind", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlers_Options(t *testing.T) {
	r, ws := setupRouter(t)
	ws.OnIdentity("u1")

	rr := do(r, http.MethodGet, "/api/v1/options/statuses", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"pre-production":"Pre-production"`)

	rr = do(r, http.MethodPut, "/api/v1/options/statuses", `{"value":"archived","label":"Archived"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"archived":"Archived"`)

	rr = do(r, http.MethodDelete, "/api/v1/options/statuses/archived", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "archived")

	rr = do(r, http.MethodGet, "/api/v1/options/colors", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(r, http.MethodPut, "/api/v1/options/statuses", `{"label":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
