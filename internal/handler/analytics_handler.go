package handler

import (
	"context"
	"time"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/gamassss/shortlink/internal/middleware"
	"github.com/gamassss/shortlink/pkg/response"
	"github.com/gin-gonic/gin"
)

type AnalyticsService interface {
	Report(ctx context.Context, linkID, ownerID int64, query domain.AnalyticsQuery) (*domain.AnalyticsReport, error)
}

type AnalyticsHandler struct {
	service AnalyticsService
}

func NewAnalyticsHandler(service AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// parseDate accepts RFC3339 timestamps or plain dates.
func parseDate(value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (h *AnalyticsHandler) Report(c *gin.Context) {
	id, ok := linkID(c)
	if !ok {
		return
	}
	ownerID, _ := middleware.UserID(c)

	query := domain.AnalyticsQuery{
		Period: c.DefaultQuery("period", domain.DefaultPeriod),
	}

	if startParam := c.Query("start_date"); startParam != "" {
		start, ok := parseDate(startParam)
		if !ok {
			response.BadRequest(c, "start_date must be an RFC3339 timestamp or YYYY-MM-DD")
			return
		}
		query.Start = &start
	}

	if endParam := c.Query("end_date"); endParam != "" {
		end, ok := parseDate(endParam)
		if !ok {
			response.BadRequest(c, "end_date must be an RFC3339 timestamp or YYYY-MM-DD")
			return
		}
		query.End = &end
	}

	if (query.Start == nil) != (query.End == nil) {
		response.BadRequest(c, "start_date and end_date must be given together")
		return
	}
	if query.Start != nil && !query.Start.Before(*query.End) {
		response.BadRequest(c, "start_date must be before end_date")
		return
	}

	report, err := h.service.Report(c.Request.Context(), id, ownerID, query)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, "Analytics retrieved", report)
}
