package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
)

func courseTask(id, date string, courseID, subgroupID int64) models.Task {
	return models.Task{
		ID: id, Date: date, HourStart: "09:00", HourEnd: "10:00",
		Kind: models.KindCollective, CourseID: courseID, SubgroupID: subgroupID,
	}
}

func courseFixture() (models.Task, []models.Task) {
	all := []models.Task{
		courseTask("t1", "2024-01-05", 10, 7),
		courseTask("t2", "2024-01-12", 10, 7),
		courseTask("t3", "2024-01-19", 10, 7),
		courseTask("t4", "2024-01-26", 10, 8),
		courseTask("x1", "2024-02-02", 99, 0),
	}
	return all[1], all
}

func TestResolveSingle(t *testing.T) {
	task, all := courseFixture()
	got := Resolve(models.AssignmentScope{Mode: models.ScopeSingle}, task, all)

	assert.Equal(t, "2024-01-12", got.StartDate)
	assert.Equal(t, "2024-01-12", got.EndDate)
	require.Len(t, got.AffectedDates, 1)
	assert.Equal(t, task.Date, got.AffectedDates[0])
}

func TestResolveIntervalSpansSubgroupSessions(t *testing.T) {
	task, all := courseFixture()
	got := Resolve(models.AssignmentScope{Mode: models.ScopeInterval}, task, all)

	assert.Equal(t, "2024-01-05", got.StartDate)
	assert.Equal(t, "2024-01-19", got.EndDate)
	assert.Equal(t, []string{"2024-01-05", "2024-01-12", "2024-01-19"}, got.AffectedDates)
}

func TestResolveIntervalWithoutSubgroupFallsBackToSingle(t *testing.T) {
	task, all := courseFixture()
	task.SubgroupID = 0
	got := Resolve(models.AssignmentScope{Mode: models.ScopeInterval}, task, all)

	assert.Equal(t, task.Date, got.StartDate)
	assert.Equal(t, task.Date, got.EndDate)
}

func TestResolveAllSpansCourse(t *testing.T) {
	task, all := courseFixture()
	got := Resolve(models.AssignmentScope{Mode: models.ScopeAll}, task, all)

	assert.Equal(t, "2024-01-05", got.StartDate)
	assert.Equal(t, "2024-01-26", got.EndDate)
	assert.Len(t, got.AffectedDates, 4)
}

func TestResolveFromRunsForward(t *testing.T) {
	task, all := courseFixture()
	got := Resolve(models.AssignmentScope{Mode: models.ScopeFrom}, task, all)

	assert.Equal(t, "2024-01-12", got.StartDate)
	assert.Equal(t, "2024-01-26", got.EndDate)
	assert.Equal(t, []string{"2024-01-12", "2024-01-19", "2024-01-26"}, got.AffectedDates)
}

func TestResolveRangeSwapsInvertedEndpoints(t *testing.T) {
	task, all := courseFixture()
	got := Resolve(models.AssignmentScope{
		Mode:      models.ScopeRange,
		StartDate: "2024-01-19",
		EndDate:   "2024-01-05",
	}, task, all)

	assert.True(t, got.StartDate <= got.EndDate)
	assert.Equal(t, "2024-01-05", got.StartDate)
	assert.Equal(t, "2024-01-19", got.EndDate)
}

func TestResolveRangeNarrowedBySubgroups(t *testing.T) {
	task, all := courseFixture()
	got := Resolve(models.AssignmentScope{
		Mode:              models.ScopeRange,
		StartDate:         "2024-01-01",
		EndDate:           "2024-01-31",
		TargetSubgroupIDs: []int64{8},
	}, task, all)

	assert.Equal(t, []string{"2024-01-26"}, got.AffectedDates)
}

func TestResolveBlockTaskAffectsOwnDate(t *testing.T) {
	block := models.Task{ID: "nwd-1", Date: "2024-01-10", Kind: models.KindPersonalBlock}
	got := Resolve(models.AssignmentScope{Mode: models.ScopeAll}, block, nil)

	assert.Equal(t, "2024-01-10", got.StartDate)
	assert.Equal(t, []string{"2024-01-10"}, got.AffectedDates)
}
