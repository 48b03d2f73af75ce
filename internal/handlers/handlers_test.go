package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rlemos/roombook/internal/database"
	"github.com/rlemos/roombook/internal/handlers"
	"github.com/rlemos/roombook/internal/models"
	"github.com/rlemos/roombook/internal/server"
	"github.com/rlemos/roombook/internal/services"
	"github.com/rlemos/roombook/pkg/auth"
)

type testApp struct {
	router *gin.Engine
	db     *database.Database
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Room{}, &models.Meeting{}))
	db := database.NewDatabase(gdb)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := auth.NewSessionManager("test-secret", time.Hour, rdb)

	bookings := services.NewBookingService(db, nil)

	router := gin.New()
	server.APIEndpoints(
		router,
		sessions,
		handlers.NewAuthHandler(db, sessions),
		handlers.NewUserHandler(db),
		handlers.NewRoomHandler(db),
		handlers.NewMeetingHandler(bookings),
	)

	return &testApp{router: router, db: db}
}

func (a *testApp) request(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (a *testApp) registerAndLogin(t *testing.T, username string) *http.Cookie {
	t.Helper()
	w := a.request(t, http.MethodPost, "/api/auth/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.request(t, http.MethodPost, "/api/auth/login", gin.H{
		"username": username,
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("login response did not set the session cookie")
	return nil
}

func TestRegisterDuplicateUsername(t *testing.T) {
	app := newTestApp(t)

	payload := gin.H{"username": "alice", "email": "alice@example.com", "password": "secret123"}
	w := app.request(t, http.MethodPost, "/api/auth/register", payload, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	payload["email"] = "other@example.com"
	w = app.request(t, http.MethodPost, "/api/auth/register", payload, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	users, err := app.db.GetActiveUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.registerAndLogin(t, "alice")

	w := app.request(t, http.MethodPost, "/api/auth/login", gin.H{
		"username": "alice",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthCheckAndLogout(t *testing.T) {
	app := newTestApp(t)

	w := app.request(t, http.MethodGet, "/api/auth/check", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["authenticated"])

	cookie := app.registerAndLogin(t, "alice")
	w = app.request(t, http.MethodGet, "/api/auth/check", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["authenticated"])

	w = app.request(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodGet, "/api/auth/check", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["authenticated"])
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/salas", "/api/reunioes", "/api/users"} {
		w := app.request(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRoomLifecycle(t *testing.T) {
	app := newTestApp(t)
	cookie := app.registerAndLogin(t, "alice")

	w := app.request(t, http.MethodPost, "/api/salas", gin.H{"nome": "Sala A"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	sala := decode(t, w)["sala"].(map[string]any)
	assert.Equal(t, float64(10), sala["capacidade"])
	roomID := sala["id"].(string)

	// duplicate name
	w = app.request(t, http.MethodPost, "/api/salas", gin.H{"nome": "Sala A"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.request(t, http.MethodPut, "/api/salas/"+roomID, gin.H{"capacidade": 25}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodDelete, "/api/salas/"+roomID, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	// soft-deleted rooms drop out of the active list
	w = app.request(t, http.MethodGet, "/api/salas", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var rooms []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	assert.Empty(t, rooms)
}

func TestMeetingBookingFlow(t *testing.T) {
	app := newTestApp(t)
	alice := app.registerAndLogin(t, "alice")
	bob := app.registerAndLogin(t, "bob")

	w := app.request(t, http.MethodPost, "/api/salas", gin.H{"nome": "Sala A"}, alice)
	require.Equal(t, http.StatusCreated, w.Code)
	roomID := decode(t, w)["sala"].(map[string]any)["id"].(string)

	w = app.request(t, http.MethodPost, "/api/reunioes", gin.H{
		"titulo":      "Planning",
		"data_inicio": "2025-03-03T10:00:00Z",
		"data_fim":    "2025-03-03T11:00:00Z",
		"sala_id":     roomID,
	}, alice)
	require.Equal(t, http.StatusCreated, w.Code)
	meeting := decode(t, w)["reuniao"].(map[string]any)
	meetingID := meeting["id"].(string)
	assert.Equal(t, "Sala A", meeting["sala_nome"])
	assert.Equal(t, "alice", meeting["criador_nome"])

	// inside the 10-minute buffer
	w = app.request(t, http.MethodPost, "/api/reunioes", gin.H{
		"titulo":      "Too close",
		"data_inicio": "2025-03-03T11:05:00Z",
		"data_fim":    "2025-03-03T12:00:00Z",
		"sala_id":     roomID,
	}, bob)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.NotEmpty(t, decode(t, w)["conflitos"])

	// conflict probe does not mutate
	w = app.request(t, http.MethodPost, "/api/reunioes/verificar-conflito", gin.H{
		"sala_id":     roomID,
		"data_inicio": "2025-03-03T11:05:00Z",
		"data_fim":    "2025-03-03T12:00:00Z",
	}, bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["tem_conflito"])

	// only the organizer cancels
	w = app.request(t, http.MethodDelete, "/api/reunioes/"+meetingID, nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.request(t, http.MethodDelete, "/api/reunioes/"+meetingID, nil, alice)
	require.Equal(t, http.StatusOK, w.Code)

	// cancelled but still fetchable
	w = app.request(t, http.MethodGet, "/api/reunioes/"+meetingID, nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["ativa"])

	// and the slot is free now
	w = app.request(t, http.MethodPost, "/api/reunioes", gin.H{
		"titulo":      "Replacement",
		"data_inicio": "2025-03-03T11:05:00Z",
		"data_fim":    "2025-03-03T12:00:00Z",
		"sala_id":     roomID,
	}, bob)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateMeetingInvalidRoom(t *testing.T) {
	app := newTestApp(t)
	cookie := app.registerAndLogin(t, "alice")

	w := app.request(t, http.MethodPost, "/api/reunioes", gin.H{
		"titulo":      "Nowhere",
		"data_inicio": "2025-03-03T10:00:00Z",
		"data_fim":    "2025-03-03T11:00:00Z",
		"sala_id":     "00000000-0000-0000-0000-000000000000",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarEndpoint(t *testing.T) {
	app := newTestApp(t)
	cookie := app.registerAndLogin(t, "alice")

	w := app.request(t, http.MethodPost, "/api/salas", gin.H{"nome": "Sala A"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	roomID := decode(t, w)["sala"].(map[string]any)["id"].(string)

	w = app.request(t, http.MethodPost, "/api/reunioes", gin.H{
		"titulo":      "March meeting",
		"data_inicio": "2025-03-10T10:00:00Z",
		"data_fim":    "2025-03-10T11:00:00Z",
		"sala_id":     roomID,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.request(t, http.MethodGet, "/api/reunioes/calendario?ano=2025&mes=3", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var events []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "March meeting", events[0]["title"])
	assert.Equal(t, "Sala A", events[0]["sala"])

	w = app.request(t, http.MethodGet, "/api/reunioes/calendario?ano=2025&mes=4", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	events = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	assert.Empty(t, events)
}
