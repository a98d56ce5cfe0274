package assignment

import (
	"sort"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
)

// Resolve computes the effective date range and affected session dates
// for a scope selection. Modes collapse as follows: single is the task's
// own date; interval spans the task's subgroup sessions (falling back to
// single when the task has no subgroup); all spans the whole course;
// from runs from the task's date to the course's last date; range uses
// the explicit endpoints, swapping them when the user set start after
// end. Dates are YYYY-MM-DD strings, compared lexicographically.
func Resolve(scope models.AssignmentScope, task models.Task, all []models.Task) models.ResolvedScope {
	start, end := task.Date, task.Date

	switch scope.Mode {
	case models.ScopeInterval:
		if task.SubgroupID != 0 {
			start, end = dateBounds(all, func(t models.Task) bool {
				return t.SubgroupID == task.SubgroupID
			}, task.Date)
		}
	case models.ScopeAll:
		if task.CourseID != 0 {
			start, end = dateBounds(all, sameCourse(task), task.Date)
		}
	case models.ScopeFrom:
		if task.CourseID != 0 {
			_, end = dateBounds(all, sameCourse(task), task.Date)
		}
		start = task.Date
		if end < start {
			end = start
		}
	case models.ScopeRange:
		if scope.StartDate != "" {
			start = scope.StartDate
		}
		if scope.EndDate != "" {
			end = scope.EndDate
		}
		// Recoverable input order mistake, not an error.
		if start > end {
			start, end = end, start
		}
	}

	return models.ResolvedScope{
		StartDate:     start,
		EndDate:       end,
		AffectedDates: affectedDates(scope, task, all, start, end),
	}
}

func sameCourse(task models.Task) func(models.Task) bool {
	return func(t models.Task) bool { return t.CourseID == task.CourseID }
}

func dateBounds(all []models.Task, match func(models.Task) bool, fallback string) (string, string) {
	start, end := "", ""
	for _, t := range all {
		if !match(t) || t.Date == "" {
			continue
		}
		if start == "" || t.Date < start {
			start = t.Date
		}
		if end == "" || t.Date > end {
			end = t.Date
		}
	}
	if start == "" {
		return fallback, fallback
	}
	return start, end
}

// affectedDates filters the course's known session dates to the resolved
// range; it feeds both the confirmation summary and the booking-user
// collection. A task with no course sessions in range still affects its
// own date.
func affectedDates(scope models.AssignmentScope, task models.Task, all []models.Task, start, end string) []string {
	narrow := map[int64]bool{}
	for _, id := range scope.TargetSubgroupIDs {
		narrow[id] = true
	}

	seen := map[string]bool{}
	var dates []string
	for _, t := range all {
		if task.CourseID == 0 || t.CourseID != task.CourseID {
			continue
		}
		if len(narrow) > 0 && !narrow[t.SubgroupID] {
			continue
		}
		if t.Date < start || t.Date > end || seen[t.Date] {
			continue
		}
		seen[t.Date] = true
		dates = append(dates, t.Date)
	}
	if len(dates) == 0 {
		dates = []string{task.Date}
	}
	sort.Strings(dates)
	return dates
}
