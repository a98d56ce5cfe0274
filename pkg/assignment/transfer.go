package assignment

import (
	"context"
	"errors"
	"sort"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
)

// ErrEmptyTarget means the transfer would affect neither booking users
// nor a subgroup; submission is not attempted.
var ErrEmptyTarget = errors.New("transfer has no booking users and no subgroup target")

// TransferSubmitter submits a built transfer to the backend exactly once.
type TransferSubmitter interface {
	SubmitTransfer(ctx context.Context, req models.TransferRequest) error
}

// relatedMatcher is one step of the grouping-key fallback chain. The
// chain is an explicit ordered list so the precedence (subgroup, then
// course, then booking) stays visible and testable on its own.
type relatedMatcher func(source, candidate models.Task) bool

var relatedMatchers = []relatedMatcher{
	func(s, c models.Task) bool { return s.SubgroupID != 0 && c.SubgroupID == s.SubgroupID },
	func(s, c models.Task) bool { return s.CourseID != 0 && c.CourseID == s.CourseID },
	func(s, c models.Task) bool { return s.BookingID != 0 && c.BookingID == s.BookingID },
}

// BuildRequest assembles the transfer command for a task. Booking-user
// ids come from the first matcher in the fallback chain that yields any
// related task inside the resolved range; a single-session transfer falls
// back to the source task's own clients so it is never empty. A task with
// no individual clients but a subgroup becomes a whole-subgroup
// reassignment. Anything emptier is ErrEmptyTarget.
func BuildRequest(task models.Task, all []models.Task, monitorID *int64,
	scope models.AssignmentScope, resolved models.ResolvedScope) (models.TransferRequest, error) {

	ids := collectBookingUsers(task, all, resolved)
	if len(ids) == 0 {
		ids = clientBookingUsers(task)
	}

	req := models.TransferRequest{
		MonitorID:      monitorID,
		BookingUserIDs: ids,
		Scope:          scope.Mode,
		StartDate:      resolved.StartDate,
		EndDate:        resolved.EndDate,
		CourseID:       task.CourseID,
		BookingID:      task.BookingID,
		SubgroupID:     task.SubgroupID,
		CourseDateID:   task.CourseDateID,
		DegreeID:       task.DegreeID,
	}

	if len(ids) == 0 && task.SubgroupID == 0 {
		return models.TransferRequest{}, ErrEmptyTarget
	}
	return req, nil
}

func collectBookingUsers(task models.Task, all []models.Task, resolved models.ResolvedScope) []int64 {
	for _, match := range relatedMatchers {
		var ids []int64
		seen := map[int64]bool{}
		for _, t := range all {
			if !match(task, t) || t.Date < resolved.StartDate || t.Date > resolved.EndDate {
				continue
			}
			for _, id := range clientBookingUsers(t) {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
		if len(ids) > 0 {
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			return ids
		}
	}
	return nil
}

func clientBookingUsers(t models.Task) []int64 {
	var ids []int64
	for _, c := range t.Clients {
		if c.BookingUserID != 0 {
			ids = append(ids, c.BookingUserID)
		}
	}
	for _, g := range t.GroupedTasks {
		for _, c := range g.Clients {
			if c.BookingUserID != 0 {
				ids = append(ids, c.BookingUserID)
			}
		}
	}
	return dedupe(ids)
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
