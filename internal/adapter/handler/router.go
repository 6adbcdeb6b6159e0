package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/johnquangdev/speech-summarizer/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg        *config.Config
	runHandler *Run
	webHandler *Web
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, runHandler *Run, webHandler *Web) *Router {
	return &Router{
		cfg:        cfg,
		runHandler: runHandler,
		webHandler: webHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(e, rt.runHandler.logger, rt.runHandler.maxUploadMB)

	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// Web UI
	e.GET("/", rt.webHandler.Index)
	e.GET("/runs/:id", rt.webHandler.ShowRun)

	// API v1 group
	v1 := e.Group("/v1")
	rt.setupRunRoutes(v1)
}

// setupRunRoutes configures pipeline run routes
func (rt *Router) setupRunRoutes(g *echo.Group) {
	runGroup := g.Group("/runs")

	runGroup.POST("", rt.runHandler.CreateRun, rt.uploadLimit()...)
	runGroup.GET("/:id", rt.runHandler.GetRun)
}

// uploadLimit rejects bodies well past the upload limit before multipart
// parsing; one extra MB covers the multipart framing
func (rt *Router) uploadLimit() []echo.MiddlewareFunc {
	if rt.runHandler.maxUploadMB <= 0 {
		return nil
	}
	return []echo.MiddlewareFunc{
		middleware.BodyLimit(fmt.Sprintf("%dM", rt.runHandler.maxUploadMB+1)),
	}
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	environment := "production"
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": environment,
	})
}
