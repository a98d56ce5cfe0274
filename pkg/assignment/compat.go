package assignment

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
)

// Incompatibility reasons reported to the caller; compatibility is
// advisory, so a mismatch surfaces as a warning, never an error.
const (
	ReasonSport    = "sport"
	ReasonLanguage = "language"
	ReasonDegree   = "degree"
)

// DegreeAuthorizer resolves the degree levels a monitor is authorized to
// teach for a sport. The backend answers this with two chained calls, so
// it is the expensive check and runs last.
type DegreeAuthorizer interface {
	AuthorizedDegrees(ctx context.Context, monitorID, sportID int64) ([]int64, error)
}

// CompatResult is the outcome of a compatibility check.
type CompatResult struct {
	MonitorID  int64  `json:"monitor_id"`
	Compatible bool   `json:"compatible"`
	Reason     string `json:"reason,omitempty"`
}

// Matcher validates monitor/task compatibility: sport authorization,
// language overlap with the task's clients, and degree authorization.
type Matcher struct {
	Degrees DegreeAuthorizer
}

func NewMatcher(degrees DegreeAuthorizer) *Matcher {
	return &Matcher{Degrees: degrees}
}

// Check runs the three gates cheapest-first with short-circuiting: sport
// membership, then language intersection, then the async degree lookup.
// Degree gating does not apply to private/activity tasks, which carry
// per-client degrees instead of a group degree. A lookup failure counts
// as incompatible rather than propagating: the result only ever feeds an
// advisory warning.
func (m *Matcher) Check(ctx context.Context, monitor models.Monitor, task models.Task) CompatResult {
	res := CompatResult{MonitorID: monitor.ID}

	if !monitor.HasSport(task.SportID) {
		res.Reason = ReasonSport
		return res
	}

	if !languagesMatch(monitor.Languages, task.Clients) {
		res.Reason = ReasonLanguage
		return res
	}

	if !task.Kind.IsPrivateLike() && task.DegreeID != 0 {
		authorized, err := m.Degrees.AuthorizedDegrees(ctx, monitor.ID, task.SportID)
		if err != nil {
			logrus.WithError(err).WithField("monitor_id", monitor.ID).Warn("degree authorization lookup failed")
			res.Reason = ReasonDegree
			return res
		}
		found := false
		for _, d := range authorized {
			if d == task.DegreeID {
				found = true
				break
			}
		}
		if !found {
			res.Reason = ReasonDegree
			return res
		}
	}

	res.Compatible = true
	return res
}

// languagesMatch reports whether at least one monitor language slot
// equals at least one language slot of at least one client. Clients with
// no configured languages are skipped; a task whose clients configure no
// languages at all has nothing to mismatch.
func languagesMatch(monitorLangs []int64, clients []models.Client) bool {
	anyConfigured := false
	monSet := make(map[int64]bool, len(monitorLangs))
	for _, l := range monitorLangs {
		monSet[l] = true
	}
	for _, c := range clients {
		if len(c.Languages) == 0 {
			continue
		}
		anyConfigured = true
		for _, l := range c.Languages {
			if monSet[l] {
				return true
			}
		}
	}
	return !anyConfigured
}

// FilterCandidates checks every candidate concurrently and merges the
// results by monitor id; out-of-order completion is safe because each
// monitor's result is independent.
func (m *Matcher) FilterCandidates(ctx context.Context, monitors []models.Monitor, task models.Task) map[int64]CompatResult {
	results := make(map[int64]CompatResult, len(monitors))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, mon := range monitors {
		if mon.ID == 0 {
			// The sentinel unassigned row is never a candidate.
			continue
		}
		wg.Add(1)
		go func(mon models.Monitor) {
			defer wg.Done()
			res := m.Check(ctx, mon, task)
			mu.Lock()
			results[mon.ID] = res
			mu.Unlock()
		}(mon)
	}
	wg.Wait()
	return results
}
