package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/crm-leads/internal/config"
	"github.com/octobees/crm-leads/internal/handler"
	middlewarepkg "github.com/octobees/crm-leads/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Leads  *handler.LeadsHandler
	Upload *handler.UploadHandler
	Score  *handler.ScoreHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "CRM API is running"})
	})

	e.POST("/upload", handlers.Upload.Upload)

	e.POST("/leads", handlers.Leads.Create)
	e.GET("/leads", handlers.Leads.List)
	e.GET("/leads/:id", handlers.Leads.Get)
	e.DELETE("/leads/:id", handlers.Leads.Delete)

	e.GET("/filters", handlers.Leads.Filters)
	e.DELETE("/clear-all", handlers.Leads.ClearAll)

	e.POST("/leads/:id/score", handlers.Score.Score, middlewarepkg.ScoreRateLimiter(cfg.RateLimitScore))
}
