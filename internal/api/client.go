// Package api talks to the workstream backend. It is the single place
// where wire shapes (snake_case reads, camelCase writes, loosely typed
// numbers) are normalized into the internal model.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/model"
	"github.com/olyannaa/workstream/internal/report"
)

// Client is an authenticated backend API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL. Pass nil to use a
// plain client with a 10 second timeout (no auth).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// hoursValue tolerates both numeric and string-typed hour fields; string
// values may carry a comma decimal separator.
type hoursValue float64

func (h *hoursValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*h = hoursValue(report.ParseHours(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*h = hoursValue(f)
	return nil
}

type entryDTO struct {
	TaskID   string     `json:"task_id"`
	WorkDate string     `json:"work_date"`
	Hours    hoursValue `json:"hours"`
}

type dayOffDTO struct {
	WorkDate string `json:"work_date"`
	Type     string `json:"type"`
}

type taskDTO struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Status         string  `json:"status"`
	ProjectID      string  `json:"projectId"`
	ProjectName    string  `json:"projectName"`
	AssigneeID     *string `json:"assigneeId"`
	TaskType       string  `json:"taskType"`
	ApprovalStatus string  `json:"approvalStatus"`
}

func (d taskDTO) toModel() model.Task {
	t := model.Task{
		ID:             d.ID,
		Title:          d.Title,
		Status:         d.Status,
		ProjectID:      d.ProjectID,
		ProjectName:    d.ProjectName,
		Type:           d.TaskType,
		ApprovalStatus: d.ApprovalStatus,
	}
	if d.AssigneeID != nil {
		t.AssigneeID = *d.AssigneeID
	}
	return t
}

// Entries fetches the user's time entries in [from, to]. Rows with
// unparseable dates are dropped rather than failing the whole window.
func (c *Client) Entries(ctx context.Context, userID string, from, to calendar.Date) ([]model.TimeEntry, error) {
	endpoint := fmt.Sprintf("%s/time-tracking/entries?userId=%s&from=%s&to=%s",
		c.baseURL, url.QueryEscape(userID), from, to)

	var dtos []entryDTO
	if err := c.getJSON(ctx, endpoint, &dtos); err != nil {
		return nil, err
	}

	entries := make([]model.TimeEntry, 0, len(dtos))
	for _, d := range dtos {
		date, err := calendar.ParseDate(d.WorkDate)
		if err != nil {
			continue
		}
		entries = append(entries, model.TimeEntry{
			UserID: userID,
			TaskID: d.TaskID,
			Date:   date,
			Hours:  float64(d.Hours),
		})
	}
	return entries, nil
}

// DayOffs fetches the user's day-off markers in [from, to].
func (c *Client) DayOffs(ctx context.Context, userID string, from, to calendar.Date) ([]model.DayOffEntry, error) {
	endpoint := fmt.Sprintf("%s/time-tracking/day-offs?userId=%s&from=%s&to=%s",
		c.baseURL, url.QueryEscape(userID), from, to)

	var dtos []dayOffDTO
	if err := c.getJSON(ctx, endpoint, &dtos); err != nil {
		return nil, err
	}

	dayOffs := make([]model.DayOffEntry, 0, len(dtos))
	for _, d := range dtos {
		date, err := calendar.ParseDate(d.WorkDate)
		if err != nil {
			continue
		}
		code := model.DayOffCode(d.Type)
		if !code.Valid() {
			continue
		}
		dayOffs = append(dayOffs, model.DayOffEntry{UserID: userID, Date: date, Code: code})
	}
	return dayOffs, nil
}

// Tasks fetches the task list for the timesheet grid.
func (c *Client) Tasks(ctx context.Context) ([]model.Task, error) {
	var dtos []taskDTO
	if err := c.getJSON(ctx, c.baseURL+"/tasks?forTimeTracking=true", &dtos); err != nil {
		return nil, err
	}
	tasks := make([]model.Task, 0, len(dtos))
	for _, d := range dtos {
		tasks = append(tasks, d.toModel())
	}
	return tasks, nil
}

// PutEntry upserts a time entry. Hours 0 clears the cell.
func (c *Client) PutEntry(ctx context.Context, userID, taskID string, date calendar.Date, hours float64) error {
	body := map[string]any{
		"userId":   userID,
		"taskId":   taskID,
		"workDate": date.String(),
		"hours":    hours,
	}
	return c.send(ctx, http.MethodPost, c.baseURL+"/time-tracking/entries", body)
}

// PutDayOff upserts the day-off marker. The empty code clears it.
func (c *Client) PutDayOff(ctx context.Context, userID string, date calendar.Date, code model.DayOffCode) error {
	var wireType any
	if code != model.DayOffNone {
		wireType = string(code)
	}
	body := map[string]any{
		"userId":   userID,
		"workDate": date.String(),
		"type":     wireType,
	}
	return c.send(ctx, http.MethodPost, c.baseURL+"/time-tracking/day-offs", body)
}

// SetTaskStatus PATCHes a task's status.
func (c *Client) SetTaskStatus(ctx context.Context, taskID, status string) error {
	body := map[string]any{"status": status}
	return c.send(ctx, http.MethodPatch, c.baseURL+"/tasks/"+url.PathEscape(taskID), body)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error %d: %s", resp.StatusCode, errorMessage(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, errorMessage(data))
	}
	return nil
}

// errorMessage extracts a message from a backend error body, which may be
// {"message": ...}, {"error": ...} or plain text.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if len(data) > 0 {
		return string(data)
	}
	return "request failed"
}
