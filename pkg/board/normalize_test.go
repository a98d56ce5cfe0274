package board

import (
	"encoding/json"
	"testing"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
)

func int64Ptr(v int64) *int64 { return &v }

func TestNwdListAcceptsArrayAndObject(t *testing.T) {
	var fromArray NwdList
	if err := json.Unmarshal([]byte(`[{"id":1},{"id":2}]`), &fromArray); err != nil {
		t.Fatalf("array shape: %v", err)
	}
	if len(fromArray) != 2 {
		t.Fatalf("expected 2 nwds from array, got %d", len(fromArray))
	}

	var fromObject NwdList
	if err := json.Unmarshal([]byte(`{"3":{"id":3},"10":{"id":10}}`), &fromObject); err != nil {
		t.Fatalf("object shape: %v", err)
	}
	if len(fromObject) != 2 {
		t.Fatalf("expected 2 nwds from object, got %d", len(fromObject))
	}
}

func TestNormalizeCourseTypes(t *testing.T) {
	payload := PlannerPayload{
		"1": {
			Monitor: &RawMonitor{ID: 1, FirstName: "Ana", LastName: "Gil"},
			Bookings: map[string][]RawBooking{
				"g": {
					{ID: 1, Date: "2024-01-10", HourStart: "09:00", HourEnd: "10:00", CourseID: 1, Course: RawCourse{CourseType: 1, SportID: 3}},
					{ID: 2, Date: "2024-01-10", HourStart: "10:00", HourEnd: "11:00", CourseID: 2, Course: RawCourse{CourseType: 9, SportID: 3}},
				},
			},
		},
	}

	tasks, monitors := Normalize(payload, nil)

	if len(monitors) != 1 || monitors[0].Name != "Ana Gil" {
		t.Fatalf("expected one monitor named Ana Gil, got %+v", monitors)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	kinds := map[string]models.TaskKind{}
	for _, task := range tasks {
		kinds[task.ID] = task.Kind
	}
	if kinds["booking-1"] != models.KindCollective {
		t.Errorf("course type 1 should map to collective, got %s", kinds["booking-1"])
	}
	if kinds["booking-2"] != models.KindUnknown {
		t.Errorf("unknown course type should map to unknown kind, got %s", kinds["booking-2"])
	}
}

func TestNormalizeCollapsesPrivateParticipants(t *testing.T) {
	payload := PlannerPayload{
		"unassigned": {
			Bookings: map[string][]RawBooking{
				"g": {
					{
						ID: 1, BookingID: 100, Date: "2024-01-10", HourStart: "09:00", HourEnd: "10:00",
						CourseID: 5, Course: RawCourse{CourseType: 2, SportID: 3},
						Client: &RawClient{ID: 1, FirstName: "Eva", LastName: "Roca"},
					},
					{
						ID: 2, BookingID: 101, Date: "2024-01-10", HourStart: "09:00", HourEnd: "10:00",
						CourseID: 5, Course: RawCourse{CourseType: 2, SportID: 3},
						Client: &RawClient{ID: 2, FirstName: "Pol", LastName: "Mas"},
					},
				},
			},
		},
	}

	tasks, _ := Normalize(payload, nil)

	if len(tasks) != 1 {
		t.Fatalf("expected participant rows collapsed into one task, got %d", len(tasks))
	}
	if len(tasks[0].Clients) != 2 {
		t.Errorf("expected clients union of 2, got %d", len(tasks[0].Clients))
	}
	if len(tasks[0].GroupedTasks) != 2 {
		t.Errorf("expected 2 grouped tasks for drill-down, got %d", len(tasks[0].GroupedTasks))
	}
	if tasks[0].Clients[0].BookingUserID != 1 {
		t.Errorf("client should inherit the booking-user row id, got %d", tasks[0].Clients[0].BookingUserID)
	}
}

func TestNormalizeDegreeResolution(t *testing.T) {
	withPivot := &RawClient{ID: 1, FirstName: "Eva", LastName: "Roca"}
	withPivot.Sports = []RawClientSport{{SportID: 3}}
	withPivot.Sports[0].Pivot.DegreeID = 42

	payload := PlannerPayload{
		"unassigned": {
			Bookings: map[string][]RawBooking{
				"a": {{
					ID: 1, Date: "2024-01-10", HourStart: "09:00", HourEnd: "10:00",
					CourseID: 5, Course: RawCourse{CourseType: 2, SportID: 3},
					Client: withPivot,
				}},
				"b": {{
					ID: 2, Date: "2024-01-11", HourStart: "09:00", HourEnd: "10:00",
					CourseID: 6, Course: RawCourse{CourseType: 2, SportID: 3},
					Client: &RawClient{ID: 2, FirstName: "Pol", LastName: "Mas"},
				}},
			},
		},
	}

	tasks, _ := Normalize(payload, map[int64][]int64{3: {7, 8}})

	degrees := map[string]int64{}
	for _, task := range tasks {
		degrees[task.ID] = task.DegreeID
	}
	if degrees["booking-1"] != 42 {
		t.Errorf("client pivot degree must win, got %d", degrees["booking-1"])
	}
	if degrees["booking-2"] != 7 {
		t.Errorf("expected first configured sport degree as fallback, got %d", degrees["booking-2"])
	}
}

func TestNormalizeSkipsMalformedRows(t *testing.T) {
	payload := PlannerPayload{
		"1": {
			Monitor: &RawMonitor{ID: 1, FirstName: "Ana", LastName: "Gil"},
			Bookings: map[string][]RawBooking{
				"g": {
					{ID: 1, Date: "not-a-date", HourStart: "09:00", HourEnd: "10:00", Course: RawCourse{CourseType: 1}},
					{ID: 2, Date: "2024-01-10", HourStart: "xx", HourEnd: "10:00", Course: RawCourse{CourseType: 1}},
					{ID: 3, Date: "2024-01-10", HourStart: "09:00", HourEnd: "10:00", Course: RawCourse{CourseType: 1}},
				},
			},
		},
	}

	tasks, _ := Normalize(payload, nil)
	if len(tasks) != 1 || tasks[0].ID != "booking-3" {
		t.Fatalf("expected only the well-formed row to survive, got %+v", tasks)
	}
}

func TestNormalizeNwds(t *testing.T) {
	payload := PlannerPayload{
		"1": {
			Monitor: &RawMonitor{ID: 9, FirstName: "Ana", LastName: "Gil", Language1ID: int64Ptr(2)},
			Nwds: NwdList{
				{ID: 1, StartDate: "2024-01-10", StartTime: "09:00", EndTime: "12:00", UserNwdSubtypeID: 1},
				{ID: 2, StartDate: "2024-01-11", FullDay: true, UserNwdSubtypeID: 2},
				{ID: 3, StartDate: "2024-01-12", StartTime: "14:00", EndTime: "15:00", UserNwdSubtypeID: 5},
			},
		},
	}

	tasks, monitors := Normalize(payload, nil)

	if len(monitors) != 1 || len(monitors[0].Languages) != 1 {
		t.Fatalf("expected monitor with one configured language, got %+v", monitors)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 block tasks, got %d", len(tasks))
	}
	kinds := map[string]models.TaskKind{}
	spans := map[string][2]string{}
	for _, task := range tasks {
		kinds[task.ID] = task.Kind
		spans[task.ID] = [2]string{task.HourStart, task.HourEnd}
		if task.MonitorID != 9 {
			t.Errorf("nwd should inherit the entry's monitor, got %d", task.MonitorID)
		}
	}
	if kinds["nwd-1"] != models.KindPersonalBlock || kinds["nwd-2"] != models.KindPaidBlock || kinds["nwd-3"] != models.KindUnpaidBlock {
		t.Errorf("unexpected nwd kinds: %v", kinds)
	}
	if spans["nwd-2"] != [2]string{"00:00", "23:59"} {
		t.Errorf("full-day block should span the whole day, got %v", spans["nwd-2"])
	}
}
