package assignment

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
)

// FlowState is one step of the assignment dialog sequence. Transitions
// only happen through explicit calls, mirroring the user driving the
// dialog.
type FlowState string

const (
	StateIdle                 FlowState = "idle"
	StateScopeSelection       FlowState = "scope-selection"
	StateCompatibilityWarning FlowState = "compatibility-warning"
	StateSubmitting           FlowState = "submitting"
	StateDone                 FlowState = "done"
	StateFailed               FlowState = "failed"
)

var (
	// ErrFlowState is returned when a step is invoked out of order.
	ErrFlowState = errors.New("assignment flow: invalid state for operation")
	// ErrTransferPending guards against a second submission for the same
	// task while one is in flight.
	ErrTransferPending = errors.New("assignment flow: a transfer for this task is already in flight")
	// ErrWarningUnconfirmed blocks submission past an unacknowledged
	// compatibility warning.
	ErrWarningUnconfirmed = errors.New("assignment flow: compatibility warning not confirmed")
)

// Coordinator enforces the one-submission-per-task rule across flows.
type Coordinator struct {
	mu      sync.Mutex
	pending map[string]uuid.UUID
}

func NewCoordinator() *Coordinator {
	return &Coordinator{pending: map[string]uuid.UUID{}}
}

func (c *Coordinator) acquire(taskID string, flowID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.pending[taskID]; busy {
		return false
	}
	c.pending[taskID] = flowID
	return true
}

func (c *Coordinator) pendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Coordinator) release(taskID string, flowID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending[taskID] == flowID {
		delete(c.pending, taskID)
	}
}

// Flow is one pass through the assignment dialog:
// Idle -> ScopeSelection -> CompatibilityWarning (optional) -> Submitting
// -> Done/Failed. The uuid identifies the session; a flow that was closed
// discards any late result instead of applying it (stale-response guard).
type Flow struct {
	ID uuid.UUID

	task      models.Task
	all       []models.Task
	submitter TransferSubmitter
	coord     *Coordinator

	mu        sync.Mutex
	state     FlowState
	closed    bool
	scope     models.AssignmentScope
	resolved  models.ResolvedScope
	monitorID *int64
	compat    CompatResult
	confirmed bool
	err       error
}

// NewFlow opens the dialog for a task. all is the current board's task
// list, used for scope resolution and booking-user collection.
func NewFlow(task models.Task, all []models.Task, submitter TransferSubmitter, coord *Coordinator) *Flow {
	return &Flow{
		ID:        uuid.New(),
		task:      task,
		all:       all,
		submitter: submitter,
		coord:     coord,
		state:     StateIdle,
	}
}

func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *Flow) Resolved() models.ResolvedScope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// SelectScope resolves the scope selection. Re-selecting recomputes the
// defaults, matching the dialog recomputing whenever the mode changes.
func (f *Flow) SelectScope(scope models.AssignmentScope) (models.ResolvedScope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.state == StateSubmitting || f.state == StateDone {
		return models.ResolvedScope{}, ErrFlowState
	}
	f.scope = scope
	f.resolved = Resolve(scope, f.task, f.all)
	f.state = StateScopeSelection
	return f.resolved, nil
}

// ChooseMonitor records the destination (nil clears the assignment) and
// runs the advisory compatibility check. An incompatible candidate moves
// the flow into CompatibilityWarning; submission then needs an explicit
// ConfirmOverride. The result is discarded if the flow was closed while
// the check ran.
func (f *Flow) ChooseMonitor(ctx context.Context, monitor *models.Monitor, matcher *Matcher) (CompatResult, error) {
	f.mu.Lock()
	if f.state != StateScopeSelection && f.state != StateCompatibilityWarning {
		f.mu.Unlock()
		return CompatResult{}, ErrFlowState
	}
	task := f.task
	f.mu.Unlock()

	res := CompatResult{Compatible: true}
	if monitor != nil {
		res = matcher.Check(ctx, *monitor, task)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		// Dialog was closed while the async checks ran; drop the result.
		return CompatResult{}, ErrFlowState
	}
	if monitor != nil {
		id := monitor.ID
		f.monitorID = &id
	} else {
		f.monitorID = nil
	}
	f.compat = res
	f.confirmed = false
	if res.Compatible {
		f.state = StateScopeSelection
	} else {
		f.state = StateCompatibilityWarning
	}
	return res, nil
}

// ConfirmOverride acknowledges the compatibility warning; the mismatch is
// advisory and the admin may proceed after this extra step.
func (f *Flow) ConfirmOverride() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateCompatibilityWarning {
		return ErrFlowState
	}
	f.confirmed = true
	f.state = StateScopeSelection
	return nil
}

// Submit builds the transfer request and sends it once. The request is
// never retried here; on failure the flow parks in Failed with the cause
// and the caller decides whether to reopen. On success the caller is
// expected to reload the board wholesale.
func (f *Flow) Submit(ctx context.Context) (models.TransferRequest, error) {
	f.mu.Lock()
	switch {
	case f.closed:
		f.mu.Unlock()
		return models.TransferRequest{}, ErrFlowState
	case f.state == StateCompatibilityWarning && !f.confirmed:
		f.mu.Unlock()
		return models.TransferRequest{}, ErrWarningUnconfirmed
	case f.state != StateScopeSelection:
		f.mu.Unlock()
		return models.TransferRequest{}, ErrFlowState
	}

	req, err := BuildRequest(f.task, f.all, f.monitorID, f.scope, f.resolved)
	if err != nil {
		f.state = StateFailed
		f.err = err
		f.mu.Unlock()
		return models.TransferRequest{}, err
	}

	if !f.coord.acquire(f.task.ID, f.ID) {
		f.mu.Unlock()
		return models.TransferRequest{}, ErrTransferPending
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	err = f.submitter.SubmitTransfer(ctx, req)
	f.coord.release(f.task.ID, f.ID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		logrus.WithField("flow_id", f.ID).Info("discarding transfer result for closed dialog")
		return req, ErrFlowState
	}
	if err != nil {
		f.state = StateFailed
		f.err = err
		return req, err
	}
	f.state = StateDone
	return req, nil
}

// Close abandons the dialog. In-flight work is not aborted; its result is
// simply discarded when it lands.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.state != StateDone {
		f.state = StateIdle
	}
}
