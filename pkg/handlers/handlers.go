package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/assignment"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/board"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/boukii"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/config"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/database"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/timeutil"
)

// Backend is the slice of the booking API the handlers depend on;
// *boukii.Client implements it.
type Backend interface {
	FetchPlanner(ctx context.Context, dateStart, dateEnd string, schoolID int64) (board.PlannerPayload, error)
	FetchDegrees(ctx context.Context, schoolID int64) (map[int64][]int64, error)
	FetchAvailability(ctx context.Context, query boukii.AvailabilityQuery) ([]boukii.MonitorSummary, error)
	SubmitTransfer(ctx context.Context, req models.TransferRequest) error
	AuthorizedDegrees(ctx context.Context, monitorID, sportID int64) ([]int64, error)
}

// Handler contains dependencies for the route handlers.
type Handler struct {
	DB     *gorm.DB
	API    Backend
	Cfg    config.Config
	Layout board.Layout
	Coord  *assignment.Coordinator
}

func NewHandler(db *gorm.DB, api Backend, cfg config.Config) *Handler {
	return &Handler{
		DB:     db,
		API:    api,
		Cfg:    cfg,
		Layout: board.NewLayout(cfg.HourStart, cfg.HourEnd, cfg.DayPxPerMin, cfg.WeekColumnWidth, cfg.MonthRowHeight),
		Coord:  assignment.NewCoordinator(),
	}
}

func parseView(s string) (board.View, bool) {
	switch board.View(s) {
	case board.ViewDay, "":
		return board.ViewDay, true
	case board.ViewWeek:
		return board.ViewWeek, true
	case board.ViewMonth:
		return board.ViewMonth, true
	}
	return "", false
}

// GetBoard fetches the planner payload for a date range and returns the
// positioned schedule for the requested view.
func (h *Handler) GetBoard(c *gin.Context) {
	dateStart := c.Query("date_start")
	dateEnd := c.DefaultQuery("date_end", dateStart)
	if !timeutil.ValidDate(dateStart) || !timeutil.ValidDate(dateEnd) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_start and date_end must be YYYY-MM-DD"})
		return
	}
	if dateEnd < dateStart {
		dateStart, dateEnd = dateEnd, dateStart
	}
	view, ok := parseView(c.Query("view"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "view must be day, week or month"})
		return
	}

	payload, err := h.API.FetchPlanner(c.Request.Context(), dateStart, dateEnd, h.Cfg.SchoolID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "planner fetch failed: " + err.Error()})
		return
	}
	degrees, err := h.API.FetchDegrees(c.Request.Context(), h.Cfg.SchoolID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "degree fetch failed: " + err.Error()})
		return
	}

	tasks, monitors := board.Normalize(payload, degrees)
	rows := board.Build(tasks, monitors, view, h.Layout)

	h.recordUsage(1, 0, len(tasks))

	c.JSON(http.StatusOK, gin.H{
		"view":       view,
		"date_start": dateStart,
		"date_end":   dateEnd,
		"rows":       rows,
	})
}

// GetAvailability proxies the availability lookup.
func (h *Handler) GetAvailability(c *gin.Context) {
	sportID, err := strconv.ParseInt(c.Query("sport_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sport_id is required"})
		return
	}
	date := c.Query("date")
	if !timeutil.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	query := boukii.AvailabilityQuery{
		SportID:   sportID,
		StartTime: c.Query("hour_start"),
		EndTime:   c.Query("hour_end"),
		Date:      date,
	}
	if raw := c.Query("minimum_degree_id"); raw != "" {
		query.MinimumDegreeID, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw := c.Query("client_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
				query.ClientIDs = append(query.ClientIDs, id)
			}
		}
	}

	monitors, err := h.API.FetchAvailability(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "availability lookup failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"monitors": monitors})
}

// recordUsage bumps the per-day counters with a single-query upsert,
// supported by both postgres and sqlite.
func (h *Handler) recordUsage(boardRequests, transfers, taskCount int) {
	if h.DB == nil {
		return
	}
	today := time.Now().Format(timeutil.DateLayout)
	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"board_requests": gorm.Expr("board_requests + ?", boardRequests),
			"transfer_count": gorm.Expr("transfer_count + ?", transfers),
			"task_count":     gorm.Expr("task_count + ?", taskCount),
		}),
	}).Create(&database.DailyUsage{
		Date:          today,
		BoardRequests: boardRequests,
		TransferCount: transfers,
		TaskCount:     taskCount,
	})
}

// GetUsage returns the recent per-day counters.
func (h *Handler) GetUsage(c *gin.Context) {
	var usage []database.DailyUsage
	if err := h.DB.Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch usage"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}
