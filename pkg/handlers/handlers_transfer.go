package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/assignment"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/board"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/boukii"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/database"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/timeutil"
)

// TransferInput is the reassignment command from the admin frontend.
// DateStart/DateEnd bound the planner window used to locate the source
// task and its related sessions; they normally match the visible board
// range.
type TransferInput struct {
	TaskID    string                 `json:"task_id" binding:"required"`
	MonitorID *int64                 `json:"monitor_id"`
	Scope     models.AssignmentScope `json:"scope" binding:"required"`
	DateStart string                 `json:"date_start" binding:"required"`
	DateEnd   string                 `json:"date_end" binding:"required"`
	// ConfirmIncompatible acknowledges a previously reported
	// compatibility warning; without it an incompatible candidate stops
	// before submission.
	ConfirmIncompatible bool `json:"confirm_incompatible"`
}

// PostTransfer resolves the scope, runs the advisory compatibility
// check and submits the transfer. Every submission attempt lands in the
// journal. On success the caller reloads the board; nothing is patched
// in place.
func (h *Handler) PostTransfer(c *gin.Context) {
	var input TransferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !timeutil.ValidDate(input.DateStart) || !timeutil.ValidDate(input.DateEnd) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_start and date_end must be YYYY-MM-DD"})
		return
	}

	ctx := c.Request.Context()
	payload, err := h.API.FetchPlanner(ctx, input.DateStart, input.DateEnd, h.Cfg.SchoolID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "planner fetch failed: " + err.Error()})
		return
	}
	degrees, err := h.API.FetchDegrees(ctx, h.Cfg.SchoolID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "degree fetch failed: " + err.Error()})
		return
	}
	tasks, monitors := board.Normalize(payload, degrees)

	task, ok := findTask(tasks, input.TaskID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found in the requested window"})
		return
	}

	flow := assignment.NewFlow(task, tasks, h.API, h.Coord)
	resolved, err := flow.SelectScope(input.Scope)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var monitor *models.Monitor
	if input.MonitorID != nil {
		for i := range monitors {
			if monitors[i].ID == *input.MonitorID {
				monitor = &monitors[i]
				break
			}
		}
		if monitor == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "destination monitor not found"})
			return
		}
	}

	matcher := assignment.NewMatcher(h.API)
	compat, err := flow.ChooseMonitor(ctx, monitor, matcher)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !compat.Compatible {
		if !input.ConfirmIncompatible {
			// Advisory only: report the mismatch and wait for the
			// explicit override instead of submitting.
			c.JSON(http.StatusOK, gin.H{
				"requires_confirmation": true,
				"compatibility":         compat,
				"resolved_scope":        resolved,
			})
			return
		}
		if err := flow.ConfirmOverride(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	req, err := flow.Submit(ctx)
	h.journal(flow, input.TaskID, req, err)

	switch {
	case err == nil:
		h.recordUsage(0, 1, 0)
		c.JSON(http.StatusOK, gin.H{
			"status":         "transferred",
			"transfer":       req,
			"resolved_scope": resolved,
			"compatibility":  compat,
		})
	case errors.Is(err, assignment.ErrEmptyTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": "transfer affects no booking users and no subgroup"})
	case errors.Is(err, assignment.ErrTransferPending):
		c.JSON(http.StatusConflict, gin.H{"error": "a transfer for this task is already in flight"})
	case errors.Is(err, boukii.ErrMonitorBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "monitor busy: the destination has a conflicting session"})
	case errors.Is(err, boukii.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "transfer submission failed: " + err.Error()})
	}
}

func findTask(tasks []models.Task, id string) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
		for _, g := range t.GroupedTasks {
			if g.ID == id {
				return g, true
			}
		}
	}
	return models.Task{}, false
}

func (h *Handler) journal(flow *assignment.Flow, taskID string, req models.TransferRequest, submitErr error) {
	if h.DB == nil {
		return
	}
	status := "submitted"
	detail := ""
	if submitErr != nil {
		status = "failed"
		detail = submitErr.Error()
	}
	record := database.TransferRecord{
		SessionID:    flow.ID.String(),
		TaskID:       taskID,
		MonitorID:    req.MonitorID,
		Scope:        string(req.Scope),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		CourseID:     req.CourseID,
		BookingID:    req.BookingID,
		SubgroupID:   req.SubgroupID,
		BookingUsers: len(req.BookingUserIDs),
		Status:       status,
		Detail:       detail,
	}
	if err := h.DB.Create(&record).Error; err != nil {
		logrus.WithError(err).Warn("could not journal transfer")
	}
}

// ListTransfers returns the most recent journal entries.
func (h *Handler) ListTransfers(c *gin.Context) {
	var records []database.TransferRecord
	if err := h.DB.Order("id desc").Limit(50).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch transfer journal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfers": records})
}
