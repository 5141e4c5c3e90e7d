package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/sikaops/sika-backend/internal/middleware"
	"github.com/sikaops/sika-backend/internal/service"
)

// ExportHandler handles CSV export/import and statement generation
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// ImportResponse reports how many rows were imported
type ImportResponse struct {
	Imported int `json:"imported"`
}

// ExportCSV godoc
// @Summary Export transactions as CSV
// @Description Download the user's transactions as a CSV file
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param kind query string false "Filter by kind (Income or Expense)"
// @Param category query string false "Filter by category"
// @Param startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {string} string "CSV content"
// @Failure 401 {object} ProblemDetails
// @Router /transactions/export/csv [get]
func (h *ExportHandler) ExportCSV(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filter, verr := parseTransactionFilter(c)
	if verr != nil {
		return verr
	}

	filename, content, err := h.exportService.ExportCSV(userID, filter)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to export CSV")
		return NewInternalError(c, "Failed to export transactions")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", content)
}

// ExportStatement godoc
// @Summary Export transactions as a printable statement
// @Description Render the user's transactions as a self-contained HTML page
// @Tags export
// @Produce html
// @Security BearerAuth
// @Param kind query string false "Filter by kind (Income or Expense)"
// @Param category query string false "Filter by category"
// @Param startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {string} string "HTML statement"
// @Failure 401 {object} ProblemDetails
// @Router /transactions/export/statement [get]
func (h *ExportHandler) ExportStatement(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filter, verr := parseTransactionFilter(c)
	if verr != nil {
		return verr
	}

	content, err := h.exportService.ExportStatement(userID, filter)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to export statement")
		return NewInternalError(c, "Failed to export statement")
	}

	return c.HTMLBlob(http.StatusOK, content)
}

// ImportCSV godoc
// @Summary Import transactions from CSV
// @Description Upload a CSV file of transactions; malformed cells fall back to defaults
// @Tags export
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions/import/csv [post]
func (h *ExportHandler) ImportCSV(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "Missing file", []ValidationError{
			{Field: "file", Message: "A CSV file is required"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	count, err := h.exportService.ImportCSV(userID, file)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to import CSV")
		return NewValidationError(c, "Could not parse CSV file", nil)
	}

	log.Info().Str("user_id", userID.String()).Int("count", count).Msg("Transactions imported")

	return c.JSON(http.StatusOK, ImportResponse{Imported: count})
}
