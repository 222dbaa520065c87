package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/dailyreport/internal/domain/dailyreport"
	"github.com/yanqian/dailyreport/internal/domain/runs"
	"github.com/yanqian/dailyreport/internal/domain/weather"
	apperrors "github.com/yanqian/dailyreport/pkg/errors"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// DailyRunner triggers one daily report run.
type DailyRunner interface {
	Run(ctx context.Context) (runs.Record, error)
}

// WeatherRunner triggers one weather snapshot.
type WeatherRunner interface {
	Snapshot(ctx context.Context) (weather.Snapshot, error)
}

// ReportLoader reads the current report log.
type ReportLoader interface {
	Load(ctx context.Context) dailyreport.Result[dailyreport.ReportLog]
}

// Handler exposes the jobs and their history over HTTP.
type Handler struct {
	daily   DailyRunner
	weather WeatherRunner
	reports ReportLoader
	history runs.Repository
	logger  *slog.Logger
}

// NewHandler constructs the operations handler. weather may be nil when the
// snapshot task is disabled.
func NewHandler(daily DailyRunner, weather WeatherRunner, reports ReportLoader, history runs.Repository, logger *slog.Logger) *Handler {
	return &Handler{
		daily:   daily,
		weather: weather,
		reports: reports,
		history: history,
		logger:  logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunDailyReport runs the daily job synchronously and returns its record.
// The run continues even if the client disconnects.
func (h *Handler) RunDailyReport(c *gin.Context) {
	rec, err := h.daily.Run(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		status := http.StatusInternalServerError
		code := "run_failed"
		if apperrors.IsCode(err, apperrors.CodeRunInProgress) {
			status = http.StatusConflict
			code = apperrors.CodeRunInProgress
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, rec)
}

// RunWeatherSnapshot runs the weather task synchronously.
func (h *Handler) RunWeatherSnapshot(c *gin.Context) {
	if h.weather == nil {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "weather_disabled", "weather snapshot task is disabled", nil))
		return
	}
	snapshot, err := h.weather.Snapshot(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadGateway, apperrors.CodeWeather, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"hours": len(snapshot), "observations": snapshot})
}

// ListReports returns the newest report entries first.
func (h *Handler) ListReports(c *gin.Context) {
	limit, httpErr := parseLimit(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}
	loaded := h.reports.Load(c.Request.Context())
	if loaded.Failed() {
		abortWithError(c, NewHTTPError(http.StatusBadGateway, apperrors.CodeLogLoad, errMessage(loaded.Err), loaded.Err))
		return
	}

	log := loaded.Value
	out := make([]dailyreport.ReportEntry, 0, min(limit, len(log)))
	for i := len(log) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, log[i])
	}
	c.JSON(http.StatusOK, gin.H{"total": len(log), "reports": out})
}

// ListRuns returns recent run records, newest first.
func (h *Handler) ListRuns(c *gin.Context) {
	limit, httpErr := parseLimit(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}
	records, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "run_history_failed", errMessage(err), err))
		return
	}
	if records == nil {
		records = []runs.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": records})
}

func parseLimit(c *gin.Context) (int, *HTTPError) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a positive integer", err)
	}
	return min(limit, maxListLimit), nil
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
