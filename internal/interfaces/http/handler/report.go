package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/retailops/backoffice/internal/application/report"
	"github.com/retailops/backoffice/internal/domain/report"
	"github.com/retailops/backoffice/internal/interfaces/http/dto"
)

const dateOnlyLayout = "2006-01-02"

// StatisticsEngine is the application service behind the statistics endpoints
type StatisticsEngine interface {
	Calculate(ctx context.Context, filter report.StatisticsFilter) (*report.Computation, error)
	Submit(ctx context.Context, filter report.StatisticsFilter) (uint64, <-chan struct{})
	SubmitAndWait(ctx context.Context, filter report.StatisticsFilter) (*report.ComputationResult, uint64, error)
	State() reportapp.StatisticsState
}

// ReportHandler handles statistics report endpoints
type ReportHandler struct {
	BaseHandler
	statistics     StatisticsEngine
	includeRecords bool
}

// NewReportHandler creates a new ReportHandler.
// includeRecords sets the default for attaching intermediate record sets to state responses.
func NewReportHandler(statistics StatisticsEngine, includeRecords bool) *ReportHandler {
	return &ReportHandler{
		statistics:     statistics,
		includeRecords: includeRecords,
	}
}

// ===================== Request DTOs =====================

// StatisticsQueryRequest defines the query for a one-shot statistics computation
// @Description Filter for statistics queries
type StatisticsQueryRequest struct {
	DateFrom       string `form:"date_from" example:"2026-01-01"`
	DateTo         string `form:"date_to" example:"2026-01-31"`
	Location       string `form:"location" example:"Main Store"`
	Top            int    `form:"top" binding:"omitempty,min=0,max=1000" example:"10"`
	IncludeRecords bool   `form:"include_records" example:"false"`
}

// SubmitStatisticsFilterRequest defines a dashboard filter change
// @Description Filter change for the published statistics state
type SubmitStatisticsFilterRequest struct {
	DateFrom string `json:"date_from" example:"2026-01-01"`
	DateTo   string `json:"date_to" example:"2026-01-31"`
	Location string `json:"location" example:"Main Store"`
	Wait     bool   `json:"wait" example:"false"`
	Top      int    `json:"top" binding:"omitempty,min=0,max=1000" example:"10"`
}

// StatisticsStateRequest defines the query for the published statistics state
// @Description Options for reading the published statistics state
type StatisticsStateRequest struct {
	IncludeRecords *bool `form:"include_records" example:"false"`
	Top            int   `form:"top" binding:"omitempty,min=0,max=1000" example:"10"`
}

// CalculatedStatisticsResponse is a one-shot result with its optional record sets
// @Description One-shot statistics result
type CalculatedStatisticsResponse struct {
	*reportapp.StatisticsResponse
	Records *report.RecordSet `json:"records,omitempty"`
}

// GetStatistics godoc
// @Summary      Calculate statistics
// @Description  Run one full statistics pass for the given filter without publishing it
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        date_from query string false "Start date (YYYY-MM-DD or RFC3339)"
// @Param        date_to query string false "End date (YYYY-MM-DD or RFC3339)"
// @Param        location query string false "Location id or name"
// @Param        top query int false "Maximum ranking rows (0 returns all)"
// @Param        include_records query bool false "Attach the intermediate record sets"
// @Success      200 {object} dto.Response{data=CalculatedStatisticsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reports/statistics [get]
func (h *ReportHandler) GetStatistics(c *gin.Context) {
	var req StatisticsQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, details := parseStatisticsFilter(req.DateFrom, req.DateTo, req.Location)
	if len(details) > 0 {
		h.ValidationError(c, details)
		return
	}

	computation, err := h.statistics.Calculate(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := CalculatedStatisticsResponse{
		StatisticsResponse: reportapp.ToStatisticsResponse(computation.Result, req.Top),
	}
	if req.IncludeRecords {
		resp.Records = computation.Records
	}
	h.Success(c, resp)
}

// SubmitStatisticsFilter godoc
// @Summary      Change the statistics filter
// @Description  Start a new statistics pass that supersedes any pass in flight.
// @Description  With wait=true the response carries the published result.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request body SubmitStatisticsFilterRequest true "Filter"
// @Success      200 {object} dto.Response{data=reportapp.SubmitStatisticsResponse}
// @Success      202 {object} dto.Response{data=reportapp.SubmitStatisticsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reports/statistics/filter [post]
func (h *ReportHandler) SubmitStatisticsFilter(c *gin.Context) {
	var req SubmitStatisticsFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	filter, details := parseStatisticsFilter(req.DateFrom, req.DateTo, req.Location)
	if len(details) > 0 {
		h.ValidationError(c, details)
		return
	}

	if !req.Wait {
		gen, _ := h.statistics.Submit(c.Request.Context(), filter)
		h.Accepted(c, reportapp.SubmitStatisticsResponse{Generation: gen})
		return
	}

	result, gen, err := h.statistics.SubmitAndWait(c.Request.Context(), filter)
	switch {
	case errors.Is(err, report.ErrPassSuperseded):
		// a newer filter owns the dashboard now; report acceptance only
		h.Accepted(c, reportapp.SubmitStatisticsResponse{Generation: gen})
	case err != nil:
		h.HandleError(c, err)
	default:
		h.Success(c, reportapp.SubmitStatisticsResponse{
			Generation: gen,
			Result:     reportapp.ToStatisticsResponse(result, req.Top),
		})
	}
}

// GetStatisticsState godoc
// @Summary      Get published statistics state
// @Description  Get the latest published statistics with loading and error flags
// @Tags         reports
// @Produce      json
// @Param        include_records query bool false "Attach the intermediate record sets"
// @Param        top query int false "Maximum ranking rows (0 returns all)"
// @Success      200 {object} dto.Response{data=reportapp.StatisticsStateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reports/statistics/state [get]
func (h *ReportHandler) GetStatisticsState(c *gin.Context) {
	var req StatisticsStateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	includeRecords := h.includeRecords
	if req.IncludeRecords != nil {
		includeRecords = *req.IncludeRecords
	}

	h.Success(c, reportapp.ToStatisticsStateResponse(h.statistics.State(), includeRecords, req.Top))
}

// parseStatisticsFilter builds a filter from raw request values, collecting every rejected field
func parseStatisticsFilter(dateFrom, dateTo, location string) (report.StatisticsFilter, []dto.ValidationDetail) {
	var (
		filter  report.StatisticsFilter
		details []dto.ValidationDetail
		err     error
	)

	if filter.DateFrom, err = parseFilterDate(dateFrom, false); err != nil {
		details = append(details, dto.ValidationDetail{Field: "date_from", Message: err.Error()})
	}
	if filter.DateTo, err = parseFilterDate(dateTo, true); err != nil {
		details = append(details, dto.ValidationDetail{Field: "date_to", Message: err.Error()})
	}
	if len(details) == 0 && !filter.DateFrom.IsZero() && !filter.DateTo.IsZero() && filter.DateFrom.After(filter.DateTo) {
		details = append(details, dto.ValidationDetail{Field: "date_from", Message: "must not be after date_to"})
	}

	filter.LocationFilter = strings.TrimSpace(location)
	return filter, details
}

// parseFilterDate accepts YYYY-MM-DD or RFC3339. A date-only upper bound covers the whole day.
func parseFilterDate(raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		if endOfDay {
			return t.Add(24*time.Hour - time.Nanosecond), nil
		}
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC3339", raw)
	}
	return t, nil
}
