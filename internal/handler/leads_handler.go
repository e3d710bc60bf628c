package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/crm-leads/internal/dto"
	"github.com/octobees/crm-leads/internal/repository"
	"github.com/octobees/crm-leads/internal/service"
)

// LeadsHandler exposes the lead CRUD and filter endpoints.
type LeadsHandler struct {
	service *service.LeadsService
}

// NewLeadsHandler creates a new handler instance.
func NewLeadsHandler(service *service.LeadsService) *LeadsHandler {
	return &LeadsHandler{service: service}
}

// List handles GET /leads requests.
func (h *LeadsHandler) List(c echo.Context) error {
	filter := dto.ListFilter{
		Industry: strings.TrimSpace(c.QueryParam("industry")),
		Location: strings.TrimSpace(c.QueryParam("location")),
	}

	if minScoreStr := strings.TrimSpace(c.QueryParam("min_score")); minScoreStr != "" {
		minScore, err := strconv.Atoi(minScoreStr)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid min_score")
		}
		if minScore > 0 {
			filter.MinScore = &minScore
		}
	}

	leads, err := h.service.ListLeads(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list leads")
	}

	return c.JSON(http.StatusOK, leads)
}

// Get handles GET /leads/:id requests.
func (h *LeadsHandler) Get(c echo.Context) error {
	id, err := leadID(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	lead, err := h.service.GetLead(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "Lead not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to fetch lead")
	}

	return c.JSON(http.StatusOK, lead)
}

// Create handles POST /leads requests.
func (h *LeadsHandler) Create(c echo.Context) error {
	var req dto.CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	lead, err := h.service.CreateLead(c.Request().Context(), req)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to create lead")
	}

	return c.JSON(http.StatusCreated, lead)
}

// Delete handles DELETE /leads/:id requests.
func (h *LeadsHandler) Delete(c echo.Context) error {
	id, err := leadID(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	if err := h.service.DeleteLead(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "Lead not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to delete lead")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Lead deleted successfully"})
}

// Filters handles GET /filters requests.
func (h *LeadsHandler) Filters(c echo.Context) error {
	options, err := h.service.FilterOptions(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list filter options")
	}

	return c.JSON(http.StatusOK, options)
}

// ClearAll handles DELETE /clear-all requests.
func (h *LeadsHandler) ClearAll(c echo.Context) error {
	deleted, err := h.service.ClearAll(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to clear leads")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":       fmt.Sprintf("All %d leads deleted successfully", deleted),
		"leads_deleted": deleted,
	})
}

func leadID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
