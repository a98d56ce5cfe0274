package assignment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
)

type fakeSubmitter struct {
	err      error
	requests []models.TransferRequest
	block    chan struct{}
}

func (f *fakeSubmitter) SubmitTransfer(_ context.Context, req models.TransferRequest) error {
	if f.block != nil {
		<-f.block
	}
	f.requests = append(f.requests, req)
	return f.err
}

func flowFixture(sub TransferSubmitter) *Flow {
	task := taskWithClients("t1", "2024-01-10", 7, 10, 100, 1)
	return NewFlow(task, []models.Task{task}, sub, NewCoordinator())
}

func TestFlowHappyPath(t *testing.T) {
	sub := &fakeSubmitter{}
	f := flowFixture(sub)
	assert.Equal(t, StateIdle, f.State())

	resolved, err := f.SelectScope(models.AssignmentScope{Mode: models.ScopeSingle})
	require.NoError(t, err)
	assert.Equal(t, StateScopeSelection, f.State())
	assert.Equal(t, "2024-01-10", resolved.StartDate)

	mon := compatMonitor()
	mon.Sports = []models.MonitorSport{{SportID: 0}}
	res, err := f.ChooseMonitor(context.Background(), &mon, NewMatcher(&fakeAuthorizer{}))
	require.NoError(t, err)
	assert.True(t, res.Compatible)

	req, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, f.State())
	assert.Equal(t, []int64{1}, req.BookingUserIDs)
	require.Len(t, sub.requests, 1)
}

func TestFlowIncompatibleNeedsOverride(t *testing.T) {
	sub := &fakeSubmitter{}
	f := flowFixture(sub)

	_, err := f.SelectScope(models.AssignmentScope{Mode: models.ScopeSingle})
	require.NoError(t, err)

	mon := compatMonitor()
	mon.Sports = []models.MonitorSport{{SportID: 99}} // task sport 0: fails the sport gate
	res, err := f.ChooseMonitor(context.Background(), &mon, NewMatcher(&fakeAuthorizer{}))
	require.NoError(t, err)
	assert.False(t, res.Compatible)
	assert.Equal(t, StateCompatibilityWarning, f.State())

	_, err = f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrWarningUnconfirmed)
	assert.Empty(t, sub.requests, "submission must wait for the explicit override")

	require.NoError(t, f.ConfirmOverride())
	_, err = f.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, sub.requests, 1)
}

func TestFlowSubmitFailureParksInFailed(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("overlap")}
	f := flowFixture(sub)

	_, err := f.SelectScope(models.AssignmentScope{Mode: models.ScopeSingle})
	require.NoError(t, err)

	_, err = f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, f.State())
	assert.Error(t, f.Err())
	require.Len(t, sub.requests, 1, "failed submissions are never retried")
}

func TestFlowSingleFlightPerTask(t *testing.T) {
	coord := NewCoordinator()
	task := taskWithClients("t1", "2024-01-10", 7, 10, 100, 1)

	blocker := &fakeSubmitter{block: make(chan struct{})}
	first := NewFlow(task, []models.Task{task}, blocker, coord)
	_, err := first.SelectScope(models.AssignmentScope{Mode: models.ScopeSingle})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_, _ = first.Submit(context.Background())
		close(done)
	}()

	second := NewFlow(task, []models.Task{task}, &fakeSubmitter{}, coord)
	_, err = second.SelectScope(models.AssignmentScope{Mode: models.ScopeSingle})
	require.NoError(t, err)

	// Wait until the first submission holds the task slot.
	for coord.pendingCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	_, err = second.Submit(context.Background())
	assert.ErrorIs(t, err, ErrTransferPending)

	close(blocker.block)
	<-done
	assert.Equal(t, StateDone, first.State())
}

func TestFlowClosedDialogDiscardsResult(t *testing.T) {
	sub := &fakeSubmitter{block: make(chan struct{})}
	f := flowFixture(sub)

	_, err := f.SelectScope(models.AssignmentScope{Mode: models.ScopeSingle})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, submitErr := f.Submit(context.Background())
		errCh <- submitErr
	}()

	for f.State() != StateSubmitting {
		time.Sleep(time.Millisecond)
	}
	f.Close()
	close(sub.block)

	assert.ErrorIs(t, <-errCh, ErrFlowState, "a closed dialog drops the late result")
	assert.NotEqual(t, StateDone, f.State())
}

func TestFlowScopeLockedWhileSubmitting(t *testing.T) {
	sub := &fakeSubmitter{block: make(chan struct{})}
	f := flowFixture(sub)

	_, err := f.SelectScope(models.AssignmentScope{Mode: models.ScopeSingle})
	require.NoError(t, err)

	go func() { _, _ = f.Submit(context.Background()) }()
	for f.State() != StateSubmitting {
		time.Sleep(time.Millisecond)
	}

	_, err = f.SelectScope(models.AssignmentScope{Mode: models.ScopeAll})
	assert.ErrorIs(t, err, ErrFlowState)
	close(sub.block)
}
