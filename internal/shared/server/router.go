package server

import (
	"net"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-converter/internal/shared/config"
	"resume-converter/internal/shared/metrics"
	"resume-converter/internal/shared/server/middleware"
	"resume-converter/internal/shared/server/respond"
)

// RouteRegistrar attaches a feature's routes to a group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the handlers mounted under /api.
type RouterDeps struct {
	Config   config.Config
	Handlers []RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Metrics(),
		middleware.Recovery(),
		middleware.CORS(),
	)
	if deps.Config.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rule: middleware.RateLimitRule{Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst},
		}))
	}

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	r.NoRoute(staticHandler(deps.Config.StaticDir))
	return r
}

// staticHandler serves dir for requests no route matched; directories serve
// their index.html and are never listed. Anything not servable is a JSON 404.
func staticHandler(dir string) gin.HandlerFunc {
	var (
		root  indexOnlyDir
		files http.Handler
	)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		root = indexOnlyDir{http.Dir(dir)}
		files = http.FileServer(root)
	}
	return func(c *gin.Context) {
		method := c.Request.Method
		if files == nil || (method != http.MethodGet && method != http.MethodHead) || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			respond.Error(c, http.StatusNotFound, "not_found", "Not Found")
			return
		}
		f, err := root.Open(path.Clean("/" + c.Request.URL.Path))
		if err != nil {
			respond.Error(c, http.StatusNotFound, "not_found", "Not Found")
			return
		}
		_ = f.Close()
		// NoRoute presets 404; FileServer only sets the status on some paths.
		c.Status(http.StatusOK)
		files.ServeHTTP(c.Writer, c.Request)
	}
}

// indexOnlyDir hides directories that have no index.html.
type indexOnlyDir struct {
	http.Dir
}

func (d indexOnlyDir) Open(name string) (http.File, error) {
	f, err := d.Dir.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		index, err := d.Dir.Open(path.Join(name, "index.html"))
		if err != nil {
			_ = f.Close()
			return nil, os.ErrNotExist
		}
		_ = index.Close()
	}
	return f, nil
}

// Addr joins host and port into a listen address.
func Addr(host, port string) string {
	port = strings.TrimPrefix(strings.TrimSpace(port), ":")
	if port == "" {
		port = config.DefaultPort
	}
	return net.JoinHostPort(strings.TrimSpace(host), port)
}
