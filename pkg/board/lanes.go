package board

import (
	"sort"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/timeutil"
)

// span is a task's interval in minutes since midnight.
type span struct {
	start int
	end   int
}

func taskSpan(t models.Task) span {
	s, err := timeutil.MinutesOfDay(t.HourStart)
	if err != nil {
		s = 0
	}
	e, err := timeutil.MinutesOfDay(t.HourEnd)
	if err != nil {
		e = s
	}
	return span{s, e}
}

// overlaps is the half-open interval test: back-to-back tasks do not
// overlap.
func (a span) overlaps(b span) bool {
	return !(a.end <= b.start || a.start >= b.end)
}

// PartitionUnassigned places tasks that have no monitor into
// non-overlapping visual lanes, one partition per calendar date.
//
// Tasks sharing a course and time slot are first merged into a single
// representative so multiple clients of one session occupy one lane;
// collective courses additionally key on the course group. The survivors
// are sorted by start time and assigned greedily to the first lane with
// no overlapping occupant, which is greedy interval-graph coloring and
// yields the minimum lane count per date. Tasks that already carry a
// monitor are ignored here; they live on their monitor's fixed row and
// are never re-grouped with unassigned duplicates.
func PartitionUnassigned(tasks []models.Task) []models.Task {
	byDate := map[string][]models.Task{}
	var dates []string
	for _, t := range tasks {
		if t.MonitorID != 0 {
			continue
		}
		if _, ok := byDate[t.Date]; !ok {
			dates = append(dates, t.Date)
		}
		byDate[t.Date] = append(byDate[t.Date], t)
	}
	sort.Strings(dates)

	var out []models.Task
	for _, date := range dates {
		out = append(out, partitionDate(byDate[date])...)
	}
	return out
}

func partitionDate(tasks []models.Task) []models.Task {
	merged := mergeSameSlot(tasks)

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := taskSpan(merged[i]), taskSpan(merged[j])
		if a.start != b.start {
			return a.start < b.start
		}
		if a.end != b.end {
			return a.end < b.end
		}
		return merged[i].ID < merged[j].ID
	})

	var lanes [][]span
	for i := range merged {
		sp := taskSpan(merged[i])
		lane := -1
		for li := range lanes {
			free := true
			for _, occupied := range lanes[li] {
				if occupied.overlaps(sp) {
					free = false
					break
				}
			}
			if free {
				lane = li
				break
			}
		}
		if lane < 0 {
			lanes = append(lanes, nil)
			lane = len(lanes) - 1
		}
		lanes[lane] = append(lanes[lane], sp)
		merged[i].Lane = lane
	}

	for i := range merged {
		merged[i].LaneCount = len(lanes)
	}
	return merged
}

// mergeSameSlot pre-groups tasks of the same course and time slot into a
// single representative carrying the duplicates in GroupedTasks. This
// runs before lane assignment so one session's clients never spread over
// several lanes.
func mergeSameSlot(tasks []models.Task) []models.Task {
	type slotKey struct {
		courseID  int64
		groupID   int64
		hourStart string
		hourEnd   string
	}

	var out []models.Task
	index := map[slotKey]int{}

	for _, t := range tasks {
		if t.CourseID == 0 {
			out = append(out, t)
			continue
		}
		key := slotKey{courseID: t.CourseID, hourStart: t.HourStart, hourEnd: t.HourEnd}
		if t.Kind == models.KindCollective {
			key.groupID = t.GroupID
		}
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, t)
			continue
		}
		rep := &out[i]
		if len(rep.GroupedTasks) == 0 {
			rep.GroupedTasks = []models.Task{copyWithoutGroup(*rep)}
		}
		rep.GroupedTasks = append(rep.GroupedTasks, copyWithoutGroup(t))
		rep.Clients = unionClients(rep.Clients, t.Clients)
	}
	return out
}

// LaneHeight returns the percentage height of one lane in a row split
// into laneCount lanes.
func LaneHeight(laneCount int) float64 {
	if laneCount <= 0 {
		return 100
	}
	return 100 / float64(laneCount)
}
