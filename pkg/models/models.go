package models

// TaskKind identifies what a block of time on the board represents.
type TaskKind string

const (
	KindCollective    TaskKind = "collective-booking"
	KindPrivate       TaskKind = "private-booking"
	KindActivity      TaskKind = "activity-booking"
	KindPersonalBlock TaskKind = "personal-block"
	KindPaidBlock     TaskKind = "paid-block"
	KindUnpaidBlock   TaskKind = "unpaid-block"
	KindUnknown       TaskKind = "unknown"
)

// IsPrivateLike reports whether the kind carries per-client degrees instead
// of a group degree (private and activity courses).
func (k TaskKind) IsPrivateLike() bool {
	return k == KindPrivate || k == KindActivity
}

// Client is a participant attached to a task.
type Client struct {
	ID            int64   `json:"id"`
	BookingUserID int64   `json:"booking_user_id"`
	Name          string  `json:"name"`
	// Languages holds the configured language slots (up to 6, unset slots
	// are omitted).
	Languages []int64 `json:"languages"`
	// SportDegrees is the client's per-sport degree pivot.
	SportDegrees map[int64]int64 `json:"sport_degrees,omitempty"`
}

// Task is a single schedulable unit of time on the board. Dates are
// YYYY-MM-DD strings (lexicographic order equals chronological order) and
// times are HH:mm strings.
type Task struct {
	ID           string   `json:"id"`
	BookingID    int64    `json:"booking_id,omitempty"`
	Date         string   `json:"date"`
	HourStart    string   `json:"hour_start"`
	HourEnd      string   `json:"hour_end"`
	Kind         TaskKind `json:"kind"`
	SportID      int64    `json:"sport_id,omitempty"`
	DegreeID     int64    `json:"degree_id,omitempty"`
	CourseID     int64    `json:"course_id,omitempty"`
	CourseDateID int64    `json:"course_date_id,omitempty"`
	SubgroupID   int64    `json:"subgroup_id,omitempty"`
	GroupID      int64    `json:"group_id,omitempty"`
	// MonitorID 0 means unassigned; such tasks compete for lanes in the
	// unassigned row.
	MonitorID int64    `json:"monitor_id,omitempty"`
	Clients   []Client `json:"clients,omitempty"`
	// GroupedTasks holds collapsed duplicates when several bookings share
	// the same course and time slot; used for drill-down.
	GroupedTasks []Task `json:"grouped_tasks,omitempty"`
	// Lane placement, filled by the partitioner for unassigned tasks.
	Lane      int `json:"lane"`
	LaneCount int `json:"lane_count"`
}

// MonitorSport is one sport a monitor may teach, with the degree levels
// the monitor is authorized for.
type MonitorSport struct {
	SportID             int64   `json:"sport_id"`
	AuthorizedDegreeIDs []int64 `json:"authorized_degree_ids"`
}

// Monitor is a schedulable resource (an instructor). ID 0 is the sentinel
// unassigned row and never takes part in compatibility checks.
type Monitor struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Languages []int64        `json:"languages"`
	Sports    []MonitorSport `json:"sports"`
}

// HasSport reports whether the monitor lists sportID among its sports.
func (m Monitor) HasSport(sportID int64) bool {
	for _, s := range m.Sports {
		if s.SportID == sportID {
			return true
		}
	}
	return false
}

// ScopeMode selects how many sessions a pending transfer applies to. The
// values are the literal strings transmitted to the transfer endpoint.
type ScopeMode string

const (
	ScopeSingle   ScopeMode = "single"
	ScopeInterval ScopeMode = "interval"
	ScopeAll      ScopeMode = "all"
	ScopeFrom     ScopeMode = "from"
	ScopeRange    ScopeMode = "range"
)

// AssignmentScope describes the user's date-range selection for a transfer.
// It is created fresh when the assignment dialog opens and never persisted.
type AssignmentScope struct {
	Mode      ScopeMode `json:"mode"`
	StartDate string    `json:"start_date,omitempty"`
	EndDate   string    `json:"end_date,omitempty"`
	// TargetSubgroupIDs optionally narrows the affected sessions when a
	// preview step already resolved which subgroups match.
	TargetSubgroupIDs []int64 `json:"target_subgroup_ids,omitempty"`
}

// ResolvedScope is the effective date range computed from an
// AssignmentScope and the tasks related to the source task.
type ResolvedScope struct {
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	AffectedDates []string `json:"affected_dates"`
}

// TransferRequest is the command submitted to the transfer endpoint.
// Built once per confirmed dialog and immutable after submission.
type TransferRequest struct {
	// MonitorID nil clears the assignment instead of moving it.
	MonitorID      *int64    `json:"monitor_id"`
	BookingUserIDs []int64   `json:"booking_user_ids,omitempty"`
	Scope          ScopeMode `json:"scope"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	CourseID       int64     `json:"course_id,omitempty"`
	BookingID      int64     `json:"booking_id,omitempty"`
	SubgroupID     int64     `json:"subgroup_id,omitempty"`
	CourseDateID   int64     `json:"course_date_id,omitempty"`
	DegreeID       int64     `json:"degree_id,omitempty"`
}
