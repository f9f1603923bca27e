package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	"MarketBrief/internal/service/scheduler"
	"MarketBrief/internal/usecase"
	xhttp "MarketBrief/pkg/http"
	xlogger "MarketBrief/pkg/logger"
)

// ReportsEchoHandler serves the dashboard API: period roll-ups, raw daily
// snapshots, and scheduler status.
type ReportsEchoHandler struct {
	logger *xlogger.Logger
	agg    *usecase.PeriodAggregator
	store  drepo.SnapshotStore
	sched  *scheduler.Scheduler

	environment string
	startedAt   time.Time
}

func NewReportsEchoHandler(
	logger *xlogger.Logger,
	agg *usecase.PeriodAggregator,
	store drepo.SnapshotStore,
	sched *scheduler.Scheduler,
	environment string,
) *ReportsEchoHandler {
	return &ReportsEchoHandler{
		logger:      logger,
		agg:         agg,
		store:       store,
		sched:       sched,
		environment: environment,
		startedAt:   time.Now(),
	}
}

func (h *ReportsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/metrics/period", h.Period)
	g.GET("/metrics/weekly", h.Weekly)
	g.GET("/metrics/monthly", h.Monthly)
	g.GET("/snapshot/:date", h.Snapshot)
	g.GET("/status", h.Status)
}

func (h *ReportsEchoHandler) Health(c echo.Context) error {
	return c.JSON(200, map[string]string{"status": "ok"})
}

func (h *ReportsEchoHandler) Period(c echo.Context) error {
	req := &models.PeriodRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	start, ok := xhttp.ParseDate(req.Start)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("start must be YYYY-MM-DD, got %q", req.Start))
	}
	end, ok := xhttp.ParseDate(req.End)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("end must be YYYY-MM-DD, got %q", req.End))
	}

	return xhttp.SuccessResponse(c, h.agg.PeriodMetrics(start, end))
}

func (h *ReportsEchoHandler) Weekly(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.agg.WeeklyMetrics(time.Time{}))
}

func (h *ReportsEchoHandler) Monthly(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.agg.MonthlyMetrics(time.Time{}))
}

func (h *ReportsEchoHandler) Snapshot(c echo.Context) error {
	date := c.Param("date")
	day, ok := xhttp.ParseDate(date)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("date must be YYYY-MM-DD, got %q", date))
	}

	snap, status := h.store.Load(day)
	switch status {
	case drepo.LoadMissing:
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no snapshot for %s", date))
	case drepo.LoadMalformed:
		h.logger.Error("snapshot unreadable", xlogger.String("date", date))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("snapshot for %s is unreadable", date))
	}
	return xhttp.SuccessResponse(c, snap)
}

// statusPayload is the /api/status body.
type statusPayload struct {
	Environment string               `json:"environment"`
	UptimeSecs  int64                `json:"uptime_seconds"`
	Jobs        []scheduler.JobState `json:"jobs"`
	Recent      []xlogger.Entry      `json:"recent_problems,omitempty"`
}

func (h *ReportsEchoHandler) Status(c echo.Context) error {
	payload := statusPayload{
		Environment: h.environment,
		UptimeSecs:  int64(time.Since(h.startedAt).Seconds()),
	}
	if h.sched != nil {
		payload.Jobs = h.sched.Jobs()
	}
	if col := h.logger.Collector(); col != nil {
		limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 20)
		recent := col.Recent()
		if limit > 0 && len(recent) > limit {
			recent = recent[len(recent)-limit:]
		}
		payload.Recent = recent
	}
	return xhttp.SuccessResponse(c, payload)
}
