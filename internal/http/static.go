package http

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"feedpulse/backend/internal/logger"
)

// staticPrefix is where placeholder images referenced by post items are served.
const staticPrefix = "/static/"

func registerStatic(e *echo.Echo, dir string) {
	if dir == "" {
		return
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Warn("static dir missing", "module", "http", "action", "request", "resource", "http", "result", "failed", "dir", dir)
		return
	}

	logger.Info("static assets enabled", "module", "http", "action", "request", "resource", "http", "result", "ok", "dir", dir)

	e.GET(staticPrefix+"*", func(c echo.Context) error {
		requestPath := c.Request().URL.Path
		cleanPath := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(requestPath, staticPrefix)), "/")
		if cleanPath == "" {
			return echo.ErrNotFound
		}

		candidate := filepath.Join(dir, filepath.FromSlash(cleanPath))
		fileInfo, err := os.Stat(candidate)
		if err != nil || fileInfo.IsDir() {
			logger.Debug("static file missing", "module", "http", "action", "fetch", "resource", "http", "result", "failed", "path", requestPath)
			return echo.ErrNotFound
		}

		logger.Debug("static file served", "module", "http", "action", "fetch", "resource", "http", "result", "ok", "path", requestPath)
		return c.File(candidate)
	})
}
