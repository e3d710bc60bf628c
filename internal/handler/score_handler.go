package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/crm-leads/internal/repository"
	"github.com/octobees/crm-leads/internal/service"
	"github.com/octobees/crm-leads/internal/service/scoring"
)

// ScoreHandler runs the AI scoring pipeline for a lead.
type ScoreHandler struct {
	leadsService *service.LeadsService
}

// NewScoreHandler wires a handler backed by the leads service.
func NewScoreHandler(leadsService *service.LeadsService) *ScoreHandler {
	return &ScoreHandler{leadsService: leadsService}
}

// Score handles POST /leads/:id/score requests.
func (h *ScoreHandler) Score(c echo.Context) error {
	id, err := leadID(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	result, err := h.leadsService.ScoreLead(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLeadNotFound):
			return Error(c, http.StatusNotFound, "Lead not found")
		case errors.Is(err, scoring.ErrModelNotConfigured):
			return Error(c, http.StatusInternalServerError, "ANTHROPIC_API_KEY not configured")
		default:
			return Error(c, http.StatusInternalServerError, fmt.Sprintf("Error scoring lead: %v", err))
		}
	}

	return c.JSON(http.StatusOK, result)
}
