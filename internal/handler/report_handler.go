package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/sikaops/sika-backend/internal/middleware"
	"github.com/sikaops/sika-backend/internal/service"
)

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GetSummary godoc
// @Summary Month dashboard summary
// @Description Totals, average daily expense and weekly buckets for a month
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year (defaults to current)"
// @Param month query int false "Month 1-12 (defaults to current)"
// @Success 200 {object} service.SummaryReport
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /reports/summary [get]
func (h *ReportHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, verr := parseYearMonth(c)
	if verr != nil {
		return verr
	}

	report, err := h.reportService.GetSummary(userID, year, month)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build summary report")
		return NewInternalError(c, "Failed to build summary report")
	}

	return c.JSON(http.StatusOK, report)
}

// GetMonthlyReport godoc
// @Summary Monthly report
// @Description Month totals with the expense breakdown by category
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year (defaults to current)"
// @Param month query int false "Month 1-12 (defaults to current)"
// @Success 200 {object} service.MonthlyReport
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /reports/monthly [get]
func (h *ReportHandler) GetMonthlyReport(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, verr := parseYearMonth(c)
	if verr != nil {
		return verr
	}

	report, err := h.reportService.GetMonthlyReport(userID, year, month)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build monthly report")
		return NewInternalError(c, "Failed to build monthly report")
	}

	return c.JSON(http.StatusOK, report)
}

// GetYearlyReport godoc
// @Summary Yearly report
// @Description Year totals with twelve month buckets and category breakdown
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year (defaults to current)"
// @Success 200 {object} service.YearlyReport
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /reports/yearly [get]
func (h *ReportHandler) GetYearlyReport(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year := time.Now().UTC().Year()
	if v := c.QueryParam("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return NewValidationError(c, "Invalid year", []ValidationError{
				{Field: "year", Message: "Must be a number"},
			})
		}
		year = parsed
	}

	report, err := h.reportService.GetYearlyReport(userID, year)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build yearly report")
		return NewInternalError(c, "Failed to build yearly report")
	}

	return c.JSON(http.StatusOK, report)
}

// parseYearMonth reads the optional year/month query parameters, defaulting
// to the current month.
func parseYearMonth(c echo.Context) (int, time.Month, error) {
	now := time.Now().UTC()
	year := now.Year()
	month := now.Month()

	if v := c.QueryParam("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, NewValidationError(c, "Invalid year", []ValidationError{
				{Field: "year", Message: "Must be a number"},
			})
		}
		year = parsed
	}

	if v := c.QueryParam("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, NewValidationError(c, "Invalid month", []ValidationError{
				{Field: "month", Message: "Must be a number from 1 to 12"},
			})
		}
		month = time.Month(parsed)
	}

	return year, month, nil
}
