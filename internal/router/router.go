package router

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/MichaelDViau/Kunaay-Demo/internal/config"
	"github.com/MichaelDViau/Kunaay-Demo/internal/handler"
	"github.com/MichaelDViau/Kunaay-Demo/internal/middleware"
	"github.com/MichaelDViau/Kunaay-Demo/internal/session"
	"github.com/MichaelDViau/Kunaay-Demo/internal/store"
	"github.com/MichaelDViau/Kunaay-Demo/internal/upload"
	"github.com/MichaelDViau/Kunaay-Demo/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App bundles the engine with the components it was built from.
type App struct {
	Engine   *gin.Engine
	Sessions *session.Manager
	Listings *store.ListingStore
	Users    *store.UserStore
	Uploads  *upload.Storage
}

// SetupRouter wires stores, the session table and handlers into a Gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB) (*App, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	uploads, err := upload.NewStorage(cfg.Upload.Dir)
	if err != nil {
		return nil, fmt.Errorf("init uploads: %w", err)
	}

	app := &App{
		Sessions: session.NewManager(cfg.Session.TTL()),
		Listings: store.NewListingStore(db, uploads),
		Users:    store.NewUserStore(db),
		Uploads:  uploads,
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	// uploaded images
	r.Static("/"+upload.URLPrefix, uploads.Dir())

	// ====== API ======
	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(app.Users, app.Sessions,
		cfg.Session.CookieName, cfg.Session.SecureCookie, cfg.Security.LoginFailureDelay())
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/session", authHandler.Session)

	listingHandler := handler.NewListingHandler(app.Listings, uploads, cfg.Upload.MaxBytes)
	api.GET("/listings", listingHandler.List)
	api.GET("/listings/:slug", listingHandler.Get)

	// 需要登录才能访问的接口
	admin := api.Group("/admin")
	admin.Use(
		middleware.SessionAuth(app.Sessions, authHandler.CookieName),
		middleware.AuditMiddleware(db),
	)

	admin.GET("/listings", listingHandler.List)
	admin.POST("/listings", listingHandler.Create)
	admin.POST("/listings/:id/delete", listingHandler.Delete)

	exportHandler := handler.NewExportHandler(app.Listings)
	admin.GET("/export/csv", exportHandler.ExportCSV)
	admin.GET("/export/xlsx", exportHandler.ExportXLSX)

	logHandler := handler.NewLogHandler(db, cfg.App.PageSize)
	admin.GET("/audit-logs", logHandler.ListLogs)

	servePublic(r, cfg.Server.PublicDir)

	app.Engine = r
	return app, nil
}

// servePublic serves the front-end from dir, with /admin routed to the admin page.
// Unknown /api paths always get a JSON 404.
func servePublic(r *gin.Engine, dir string) {
	var files http.Handler
	if dir != "" {
		files = http.FileServer(http.Dir(dir))
	}
	adminPage := filepath.Join(dir, "admin.html")

	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if files != nil && !strings.HasPrefix(path, "/api/") &&
			(c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead) {
			if path == "/admin" || strings.HasPrefix(path, "/admin/") {
				c.File(adminPage)
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
			return
		}
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Unknown endpoint")
	})
}
