package http

import (
	nethttp "net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "feedpulse/backend/docs"
	"feedpulse/backend/internal/handler"
)

type healthResponse struct {
	Status string `json:"status"`
}

func NewRouter(
	subscriptionHandler *handler.SubscriptionHandler,
	postHandler *handler.PostHandler,
	ingestHandler *handler.IngestHandler,
	metricsHandler nethttp.Handler,
	staticDir string,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(RequestLoggerMiddleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(nethttp.StatusOK, healthResponse{Status: "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}

	api := e.Group("/api")
	subscriptionHandler.RegisterRoutes(api)
	postHandler.RegisterRoutes(api)
	ingestHandler.RegisterRoutes(api)

	registerStatic(e, staticDir)

	return e
}
