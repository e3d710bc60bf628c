package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/crm-leads/internal/dto"
	"github.com/octobees/crm-leads/internal/service"
)

// UploadHandler handles CSV ingestion of leads.
type UploadHandler struct {
	leadsService *service.LeadsService
}

// NewUploadHandler wires a handler backed by the leads service.
func NewUploadHandler(leadsService *service.LeadsService) *UploadHandler {
	return &UploadHandler{leadsService: leadsService}
}

// Upload handles POST /upload requests.
func (h *UploadHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "missing csv file")
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		return Error(c, http.StatusBadRequest, "File must be a CSV")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open file")
	}
	defer file.Close()

	added, err := h.leadsService.ImportLeadsCSV(c.Request().Context(), file)
	if err != nil {
		return Error(c, http.StatusInternalServerError, fmt.Sprintf("Error processing CSV: %v", err))
	}

	return c.JSON(http.StatusOK, dto.UploadResponse{
		Message:    "CSV uploaded successfully",
		LeadsAdded: added,
	})
}
