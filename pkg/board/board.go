package board

import (
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/timeutil"
)

// PositionedTask is a task with its computed grid rectangle.
type PositionedTask struct {
	models.Task
	Rect Rect `json:"rect"`
}

// Row is one horizontal band of the board: a monitor's tasks, or the
// unassigned lane stack when Monitor is nil.
type Row struct {
	Monitor *models.Monitor  `json:"monitor"`
	Tasks   []PositionedTask `json:"tasks"`
}

// Build composes normalized tasks and monitors into positioned rows for
// the requested view. The unassigned row comes first, then one row per
// monitor in id order. Layout and partitioning are pure, so Build can be
// re-run on every filter or range change.
func Build(tasks []models.Task, monitors []models.Monitor, view View, l Layout) []Row {
	rows := make([]Row, 0, len(monitors)+1)

	unassigned := PartitionUnassigned(tasks)
	row := Row{Tasks: make([]PositionedTask, 0, len(unassigned))}
	for _, t := range unassigned {
		rect := rectFor(l, view, t, 0)
		if view != ViewMonth {
			rect.Height = LaneHeight(t.LaneCount)
			rect.Top = float64(t.Lane) * rect.Height
		}
		row.Tasks = append(row.Tasks, PositionedTask{Task: t, Rect: rect})
	}
	rows = append(rows, row)

	for i := range monitors {
		mon := monitors[i]
		// Row 0 of the month grid belongs to the unassigned stack.
		monitorRow := i + 1
		row := Row{Monitor: &mon}
		for _, t := range tasks {
			if t.MonitorID != mon.ID {
				continue
			}
			row.Tasks = append(row.Tasks, PositionedTask{Task: t, Rect: rectFor(l, view, t, monitorRow)})
		}
		rows = append(rows, row)
	}
	return rows
}

func rectFor(l Layout, view View, t models.Task, monitorRow int) Rect {
	switch view {
	case ViewWeek:
		return l.WeekRect(t.HourStart, t.HourEnd, timeutil.WeekdayIndex(t.Date))
	case ViewMonth:
		return l.MonthRect(t.HourStart, t.HourEnd, t.Date, monitorRow)
	default:
		return l.DayRect(t.HourStart, t.HourEnd)
	}
}
