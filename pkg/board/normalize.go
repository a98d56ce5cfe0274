package board

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/timeutil"
)

// Course type codes used by the booking backend.
const (
	courseTypeCollective = 1
	courseTypePrivate    = 2
	courseTypeActivity   = 3
)

// NWD subtype codes.
const (
	nwdSubtypePersonal = 1
	nwdSubtypePaid     = 2
)

// PlannerPayload is the planner response: one entry per monitor plus an
// optional entry with a null monitor holding unassigned bookings.
type PlannerPayload map[string]PlannerEntry

// PlannerEntry is one monitor's slice of the planner response, joined
// server-side.
type PlannerEntry struct {
	Monitor  *RawMonitor             `json:"monitor"`
	Nwds     NwdList                 `json:"nwds"`
	Bookings map[string][]RawBooking `json:"bookings"`
}

// NwdList normalizes the backend's two shapes for non-working blocks: a
// plain array or a keyed object. The shape is resolved here once; nothing
// past the ingestion boundary branches on it.
type NwdList []RawNwd

func (n *NwdList) UnmarshalJSON(data []byte) error {
	var arr []RawNwd
	if err := json.Unmarshal(data, &arr); err == nil {
		*n = arr
		return nil
	}
	var keyed map[string]RawNwd
	if err := json.Unmarshal(data, &keyed); err != nil {
		return err
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]RawNwd, 0, len(keyed))
	for _, k := range keys {
		out = append(out, keyed[k])
	}
	*n = out
	return nil
}

// RawNwd is an instructor non-working block as returned by the planner.
type RawNwd struct {
	ID               int64  `json:"id"`
	MonitorID        int64  `json:"monitor_id"`
	StartDate        string `json:"start_date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	FullDay          bool   `json:"full_day"`
	UserNwdSubtypeID int64  `json:"user_nwd_subtype_id"`
	Description      string `json:"description"`
}

// RawBooking is one booking-user row; private sessions arrive as one row
// per participant.
type RawBooking struct {
	ID           int64      `json:"id"`
	BookingID    int64      `json:"booking_id"`
	Date         string     `json:"date"`
	HourStart    string     `json:"hour_start"`
	HourEnd      string     `json:"hour_end"`
	CourseID     int64      `json:"course_id"`
	CourseDateID int64      `json:"course_date_id"`
	SubgroupID   int64      `json:"course_subgroup_id"`
	GroupID      int64      `json:"course_group_id"`
	DegreeID     int64      `json:"degree_id"`
	MonitorID    int64      `json:"monitor_id"`
	Course       RawCourse  `json:"course"`
	Client       *RawClient `json:"client"`
}

// RawCourse carries the fields of the joined course record the engine
// needs.
type RawCourse struct {
	ID         int64  `json:"id"`
	CourseType int    `json:"course_type"`
	SportID    int64  `json:"sport_id"`
	Name       string `json:"name"`
}

// RawClient is a participant with up to six language slots and a
// per-sport degree pivot.
type RawClient struct {
	ID            int64            `json:"id"`
	BookingUserID int64            `json:"booking_user_id"`
	FirstName     string           `json:"first_name"`
	LastName      string           `json:"last_name"`
	Language1ID   *int64           `json:"language1_id"`
	Language2ID   *int64           `json:"language2_id"`
	Language3ID   *int64           `json:"language3_id"`
	Language4ID   *int64           `json:"language4_id"`
	Language5ID   *int64           `json:"language5_id"`
	Language6ID   *int64           `json:"language6_id"`
	Sports        []RawClientSport `json:"sports"`
}

// RawClientSport is one entry of the client's sport/degree pivot.
type RawClientSport struct {
	SportID int64 `json:"sport_id"`
	Pivot   struct {
		DegreeID int64 `json:"degree_id"`
	} `json:"pivot"`
}

// RawMonitor is a monitor record as returned by the planner.
type RawMonitor struct {
	ID          int64             `json:"id"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Language1ID *int64            `json:"language1_id"`
	Language2ID *int64            `json:"language2_id"`
	Language3ID *int64            `json:"language3_id"`
	Language4ID *int64            `json:"language4_id"`
	Language5ID *int64            `json:"language5_id"`
	Language6ID *int64            `json:"language6_id"`
	Sports      []RawMonitorSport `json:"sports"`
}

// RawMonitorSport is one entry of the monitor's sport list with the
// degrees the monitor is authorized for.
type RawMonitorSport struct {
	SportID   int64   `json:"sport_id"`
	DegreeIDs []int64 `json:"authorized_degree_ids"`
}

func languageSlots(slots ...*int64) []int64 {
	var out []int64
	for _, s := range slots {
		if s != nil && *s != 0 {
			out = append(out, *s)
		}
	}
	return out
}

func (c *RawClient) toClient() models.Client {
	degrees := make(map[int64]int64, len(c.Sports))
	for _, s := range c.Sports {
		if s.Pivot.DegreeID != 0 {
			degrees[s.SportID] = s.Pivot.DegreeID
		}
	}
	return models.Client{
		ID:            c.ID,
		BookingUserID: c.BookingUserID,
		Name:          c.FirstName + " " + c.LastName,
		Languages: languageSlots(c.Language1ID, c.Language2ID, c.Language3ID,
			c.Language4ID, c.Language5ID, c.Language6ID),
		SportDegrees: degrees,
	}
}

func (m *RawMonitor) toMonitor() models.Monitor {
	sports := make([]models.MonitorSport, 0, len(m.Sports))
	for _, s := range m.Sports {
		sports = append(sports, models.MonitorSport{
			SportID:             s.SportID,
			AuthorizedDegreeIDs: s.DegreeIDs,
		})
	}
	return models.Monitor{
		ID:   m.ID,
		Name: m.FirstName + " " + m.LastName,
		Languages: languageSlots(m.Language1ID, m.Language2ID, m.Language3ID,
			m.Language4ID, m.Language5ID, m.Language6ID),
		Sports: sports,
	}
}

func kindFromCourseType(courseType int) models.TaskKind {
	switch courseType {
	case courseTypeCollective:
		return models.KindCollective
	case courseTypePrivate:
		return models.KindPrivate
	case courseTypeActivity:
		return models.KindActivity
	default:
		return models.KindUnknown
	}
}

func kindFromNwdSubtype(subtype int64, paid bool) models.TaskKind {
	switch {
	case subtype == nwdSubtypePersonal:
		return models.KindPersonalBlock
	case subtype == nwdSubtypePaid || paid:
		return models.KindPaidBlock
	default:
		return models.KindUnpaidBlock
	}
}

func validSpan(date, hourStart, hourEnd string) error {
	if !timeutil.ValidDate(date) {
		return fmt.Errorf("bad date %q", date)
	}
	if _, err := timeutil.MinutesOfDay(hourStart); err != nil {
		return err
	}
	if _, err := timeutil.MinutesOfDay(hourEnd); err != nil {
		return err
	}
	return nil
}

// Normalize converts a planner payload into tasks and monitors.
// sportDegrees maps each sport to its configured degrees in order; it
// feeds the fallback when a private client has no degree pivot for the
// task's sport. Malformed rows are skipped, never failing the batch: the
// planner response aggregates many independent sources.
func Normalize(payload PlannerPayload, sportDegrees map[int64][]int64) ([]models.Task, []models.Monitor) {
	var tasks []models.Task
	var monitors []models.Monitor

	entryKeys := make([]string, 0, len(payload))
	for k := range payload {
		entryKeys = append(entryKeys, k)
	}
	sort.Strings(entryKeys)

	for _, key := range entryKeys {
		entry := payload[key]
		var monitorID int64
		if entry.Monitor != nil {
			mon := entry.Monitor.toMonitor()
			monitorID = mon.ID
			monitors = append(monitors, mon)
		}

		for _, nwd := range entry.Nwds {
			start, end := nwd.StartTime, nwd.EndTime
			if nwd.FullDay {
				start, end = "00:00", "23:59"
			}
			if err := validSpan(nwd.StartDate, start, end); err != nil {
				logrus.WithError(err).WithField("nwd_id", nwd.ID).Warn("skipping malformed nwd row")
				continue
			}
			owner := nwd.MonitorID
			if owner == 0 {
				owner = monitorID
			}
			tasks = append(tasks, models.Task{
				ID:        fmt.Sprintf("nwd-%d", nwd.ID),
				Date:      nwd.StartDate,
				HourStart: start,
				HourEnd:   end,
				Kind:      kindFromNwdSubtype(nwd.UserNwdSubtypeID, false),
				MonitorID: owner,
			})
		}

		bookingKeys := make([]string, 0, len(entry.Bookings))
		for k := range entry.Bookings {
			bookingKeys = append(bookingKeys, k)
		}
		sort.Strings(bookingKeys)

		for _, bk := range bookingKeys {
			for _, row := range entry.Bookings[bk] {
				task, err := normalizeBooking(row, monitorID, sportDegrees)
				if err != nil {
					logrus.WithError(err).WithField("booking_user_id", row.ID).Warn("skipping malformed booking row")
					continue
				}
				tasks = append(tasks, task)
			}
		}
	}

	sort.Slice(monitors, func(i, j int) bool { return monitors[i].ID < monitors[j].ID })
	return collapseDuplicates(tasks), monitors
}

func normalizeBooking(row RawBooking, monitorID int64, sportDegrees map[int64][]int64) (models.Task, error) {
	if err := validSpan(row.Date, row.HourStart, row.HourEnd); err != nil {
		return models.Task{}, err
	}

	kind := kindFromCourseType(row.Course.CourseType)
	owner := row.MonitorID
	if owner == 0 {
		owner = monitorID
	}

	task := models.Task{
		ID:           fmt.Sprintf("booking-%d", row.ID),
		BookingID:    row.BookingID,
		Date:         row.Date,
		HourStart:    row.HourStart,
		HourEnd:      row.HourEnd,
		Kind:         kind,
		SportID:      row.Course.SportID,
		DegreeID:     row.DegreeID,
		CourseID:     row.CourseID,
		CourseDateID: row.CourseDateID,
		SubgroupID:   row.SubgroupID,
		GroupID:      row.GroupID,
		MonitorID:    owner,
	}
	if row.Client != nil {
		client := row.Client.toClient()
		if client.BookingUserID == 0 {
			client.BookingUserID = row.ID
		}
		task.Clients = []models.Client{client}
	}

	if kind.IsPrivateLike() {
		task.DegreeID = resolveDegree(task, sportDegrees)
	}
	return task, nil
}

// resolveDegree picks the degree for private/activity tasks: the first
// client's per-sport pivot wins; otherwise the first degree configured
// for the sport.
func resolveDegree(task models.Task, sportDegrees map[int64][]int64) int64 {
	if len(task.Clients) > 0 {
		if d, ok := task.Clients[0].SportDegrees[task.SportID]; ok && d != 0 {
			return d
		}
	}
	if degrees := sportDegrees[task.SportID]; len(degrees) > 0 {
		return degrees[0]
	}
	return task.DegreeID
}

// collapseDuplicates merges private/activity rows that share the same
// monitor, course and time slot into one task with a clients union and a
// GroupedTasks list: the backend returns one row per participant but the
// board renders one block per session.
func collapseDuplicates(tasks []models.Task) []models.Task {
	type groupKey struct {
		monitorID int64
		courseID  int64
		date      string
		hourStart string
		hourEnd   string
	}

	var out []models.Task
	index := map[groupKey]int{}

	for _, t := range tasks {
		if !t.Kind.IsPrivateLike() || t.CourseID == 0 {
			out = append(out, t)
			continue
		}
		key := groupKey{t.MonitorID, t.CourseID, t.Date, t.HourStart, t.HourEnd}
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

func copyWithoutGroup(t models.Task) models.Task {
	t.GroupedTasks = nil
	return t
}

func unionClients(a, b []models.Client) []models.Client {
	seen := make(map[int64]bool, len(a))
	for _, c := range a {
		seen[c.ID] = true
	}
	for _, c := range b {
		if !seen[c.ID] {
			seen[c.ID] = true
			a = append(a, c)
		}
	}
	return a
}
