package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MichaelDViau/Kunaay-Demo/internal/config"
	"github.com/MichaelDViau/Kunaay-Demo/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	public := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(public, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "index.html"), []byte("<h1>home</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(public, "admin.html"), []byte("<h1>admin</h1>"), 0o644))

	return &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode, PublicDir: public},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(dir, "app.db")},
		Session:  config.SessionConfig{CookieName: "session_id", TTLHours: 8},
		Admin:    config.AdminConfig{Username: "admin", Password: "admin123"},
		Upload:   config.UploadConfig{Dir: filepath.Join(dir, "uploads"), MaxBytes: 1 << 20},
		App:      config.AppSubConfig{PageSize: 20},
	}
}

func setupApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	db, err := database.Init(cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	app, err := SetupRouter(cfg, db)
	require.NoError(t, err)
	_, err = app.Users.EnsureUser(context.Background(), cfg.Admin.Username, cfg.Admin.Password)
	require.NoError(t, err)
	return app
}

func serve(app *App, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.Engine.ServeHTTP(w, req)
	return w
}

func TestUnknownAPIEndpoint(t *testing.T) {
	app := setupApp(t, testConfig(t))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/nope"},
		{http.MethodPost, "/api/nope"},
		{http.MethodGet, "/api/login"},
		{http.MethodDelete, "/api/listings"},
	} {
		w := serve(app, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
		assert.Contains(t, w.Body.String(), `"error":"Unknown endpoint"`, tc.path)
	}
}

func TestPublicFiles(t *testing.T) {
	app := setupApp(t, testConfig(t))

	w := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "home")

	w = serve(app, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")

	w = serve(app, httptest.NewRequest(http.MethodGet, "/missing.css", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWithoutPublicDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.PublicDir = ""
	app := setupApp(t, cfg)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(app, httptest.NewRequest(http.MethodGet, "/api/listings", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAdminFlow_UploadIsServed(t *testing.T) {
	app := setupApp(t, testConfig(t))

	// login
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"admin","password":"admin123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(app, req)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// create with one image
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", "Villa Azul")
	_ = mw.WriteField("category", "rental")
	_ = mw.WriteField("summary", "Blue")
	_ = mw.WriteField("description", "By the sea")
	fw, err := mw.CreateFormFile("images", "front.jpg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("jpeg-bytes"))
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/admin/listings", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = serve(app, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// fetch it back and download the image
	w = serve(app, httptest.NewRequest(http.MethodGet, "/api/listings/villa-azul", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Images []string `json:"images"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Images, 1)

	w = serve(app, httptest.NewRequest(http.MethodGet, "/"+listing.Images[0], nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg-bytes", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
