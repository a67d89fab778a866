package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MichaelDViau/Kunaay-Demo/internal/config"
	"github.com/MichaelDViau/Kunaay-Demo/internal/database"
	"github.com/MichaelDViau/Kunaay-Demo/internal/middleware"
	"github.com/MichaelDViau/Kunaay-Demo/internal/session"
	"github.com/MichaelDViau/Kunaay-Demo/internal/store"
	"github.com/MichaelDViau/Kunaay-Demo/internal/upload"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testCookie = "session_id"

type testEnv struct {
	db       *gorm.DB
	engine   *gin.Engine
	sessions *session.Manager
	listings *store.ListingStore
	users    *store.UserStore
	uploads  *upload.Storage
}

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestEnv builds a small engine with the handlers under test and an admin/admin123 user.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(dir, "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	uploads, err := upload.NewStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	env := &testEnv{
		db:       db,
		sessions: session.NewManager(session.DefaultTTL),
		listings: store.NewListingStore(db, uploads),
		users:    store.NewUserStore(db),
		uploads:  uploads,
	}
	_, err = env.users.EnsureUser(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	auth := NewAuthHandler(env.users, env.sessions, testCookie, false, 0)
	lh := NewListingHandler(env.listings, uploads, 1<<20)
	eh := NewExportHandler(env.listings)
	logs := NewLogHandler(db, 20)

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api")
	api.POST("/login", auth.Login)
	api.POST("/logout", auth.Logout)
	api.GET("/session", auth.Session)
	api.GET("/listings", lh.List)
	api.GET("/listings/:slug", lh.Get)

	admin := api.Group("/admin")
	admin.Use(middleware.SessionAuth(env.sessions, testCookie), middleware.AuditMiddleware(db))
	admin.GET("/listings", lh.List)
	admin.POST("/listings", lh.Create)
	admin.POST("/listings/:id/delete", lh.Delete)
	admin.GET("/export/csv", eh.ExportCSV)
	admin.GET("/export/xlsx", eh.ExportXLSX)
	admin.GET("/audit-logs", logs.ListLogs)

	env.engine = r
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// login performs POST /api/login and returns the session cookie.
func (e *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	w := e.do(jsonRequest(http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", testCookie)
	return nil
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFile struct {
	field, name, content string
}

// multipartRequest encodes fields (in the given order) and files into a POST.
func multipartRequest(t *testing.T, path string, fields [][2]string, files []formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f[0], f[1]))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func listingFields(title, category string) [][2]string {
	return [][2]string{
		{"title", title},
		{"category", category},
		{"summary", "Sunny house"},
		{"description", "Two floors near the beach"},
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}

func withCookie(req *http.Request, c *http.Cookie) *http.Request {
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

func isHex(s string) bool {
	return strings.Trim(s, "0123456789abcdef") == ""
}
