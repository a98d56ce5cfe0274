// Package boukii is the HTTP client for the booking backend the engine
// collaborates with: planner fetch, availability lookup, transfer
// submission and the chained degree-authorization lookup.
package boukii

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/board"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/models"
)

var (
	// ErrMonitorBusy is the backend rejecting a transfer because of a
	// scheduling clash on the destination monitor.
	ErrMonitorBusy = errors.New("boukii: monitor busy")
	// ErrValidation is a backend-side validation rejection.
	ErrValidation = errors.New("boukii: request rejected by backend validation")
	// ErrNotFound covers missing records in lookups.
	ErrNotFound = errors.New("boukii: not found")
)

// Client talks to the booking backend. All calls take a context and are
// safe for concurrent use.
type Client struct {
	base string
	http *http.Client
	log  *logrus.Entry
}

func NewClient(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
		log:  logrus.WithField("component", "boukii-client"),
	}
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).String(),
	}).Debug("backend call")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%s %s: %w", method, path, ErrMonitorBusy)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%s %s: %w", method, path, ErrValidation)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: backend returned %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// FetchPlanner loads the joined planner payload for an inclusive date
// range.
func (c *Client) FetchPlanner(ctx context.Context, dateStart, dateEnd string, schoolID int64) (board.PlannerPayload, error) {
	q := url.Values{}
	q.Set("date_start", dateStart)
	q.Set("date_end", dateEnd)
	q.Set("school_id", strconv.FormatInt(schoolID, 10))

	var payload board.PlannerPayload
	if err := c.do(ctx, http.MethodGet, "/admin/getPlanner", q, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchDegrees returns the school's configured degrees per sport, in
// configured order. Feeds the normalizer's degree fallback.
func (c *Client) FetchDegrees(ctx context.Context, schoolID int64) (map[int64][]int64, error) {
	q := url.Values{}
	q.Set("school_id", strconv.FormatInt(schoolID, 10))

	var rows []struct {
		ID      int64 `json:"id"`
		SportID int64 `json:"sport_id"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/degrees", q, nil, &rows); err != nil {
		return nil, err
	}
	out := map[int64][]int64{}
	for _, r := range rows {
		out[r.SportID] = append(out[r.SportID], r.ID)
	}
	return out, nil
}

// AvailabilityQuery are the parameters of the availability lookup.
type AvailabilityQuery struct {
	SportID         int64   `json:"sportId"`
	MinimumDegreeID int64   `json:"minimumDegreeId"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	Date            string  `json:"date"`
	ClientIDs       []int64 `json:"clientIds"`
}

// MonitorSummary is one candidate returned by the availability lookup.
type MonitorSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FetchAvailability returns candidate monitors for a time window.
func (c *Client) FetchAvailability(ctx context.Context, query AvailabilityQuery) ([]MonitorSummary, error) {
	var out []MonitorSummary
	if err := c.do(ctx, http.MethodPost, "/admin/monitors/available", nil, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitTransfer performs the reassignment. Overlap conflicts surface as
// ErrMonitorBusy and validation rejections as ErrValidation; neither is
// retried here.
func (c *Client) SubmitTransfer(ctx context.Context, req models.TransferRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/monitors/transfer", nil, req, nil)
}

// SportRecordID resolves the id of the monitor's sport-specific record,
// the first hop of the degree-authorization lookup.
func (c *Client) SportRecordID(ctx context.Context, monitorID, sportID int64) (int64, error) {
	var rows []struct {
		ID      int64 `json:"id"`
		SportID int64 `json:"sport_id"`
	}
	path := fmt.Sprintf("/admin/monitors/%d/sports", monitorID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &rows); err != nil {
		return 0, err
	}
	for _, r := range rows {
		if r.SportID == sportID {
			return r.ID, nil
		}
	}
	return 0, fmt.Errorf("monitor %d sport %d: %w", monitorID, sportID, ErrNotFound)
}

// AuthorizedDegrees chains SportRecordID with the authorized-degree list
// filtered by that record. Implements assignment.DegreeAuthorizer.
func (c *Client) AuthorizedDegrees(ctx context.Context, monitorID, sportID int64) ([]int64, error) {
	recordID, err := c.SportRecordID(ctx, monitorID, sportID)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("monitor_sport_id", strconv.FormatInt(recordID, 10))

	var rows []struct {
		DegreeID int64 `json:"degree_id"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/monitors/authorized-degrees", q, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.DegreeID)
	}
	return out, nil
}
