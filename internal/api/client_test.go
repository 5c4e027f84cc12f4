package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/model"
)

func jan(d int) calendar.Date {
	return calendar.Date{Year: 2024, Month: time.January, Day: d}
}

func TestEntriesParsing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/time-tracking/entries" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("userId") != "u1" || q.Get("from") != "2024-01-01" || q.Get("to") != "2024-01-31" {
			t.Errorf("query = %v", q)
		}
		// Hours arrive as numbers or as strings with a comma decimal
		// separator; bad dates are skipped.
		io.WriteString(w, `[
			{"task_id": "a", "work_date": "2024-01-05", "hours": 2},
			{"task_id": "b", "work_date": "2024-01-06", "hours": "2,5"},
			{"task_id": "c", "work_date": "not-a-date", "hours": 1}
		]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	entries, err := c.Entries(context.Background(), "u1", jan(1), jan(31))
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}

	want := []model.TimeEntry{
		{UserID: "u1", TaskID: "a", Date: jan(5), Hours: 2},
		{UserID: "u1", TaskID: "b", Date: jan(6), Hours: 2.5},
	}
	if len(entries) != len(want) {
		t.Fatalf("entries = %+v, want %+v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestDayOffsSkipsUnknownCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"work_date": "2024-01-10", "type": "o"},
			{"work_date": "2024-01-11", "type": "x"},
			{"work_date": "2024-01-12", "type": ""}
		]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	dayOffs, err := c.DayOffs(context.Background(), "u1", jan(1), jan(31))
	if err != nil {
		t.Fatalf("DayOffs: %v", err)
	}
	if len(dayOffs) != 1 {
		t.Fatalf("dayOffs = %+v, want a single vacation row", dayOffs)
	}
	if dayOffs[0].Date != jan(10) || dayOffs[0].Code != model.DayOffVacation {
		t.Errorf("dayOffs[0] = %+v", dayOffs[0])
	}
}

func TestTasksParsing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("forTimeTracking") != "true" {
			t.Errorf("query = %v", r.URL.Query())
		}
		io.WriteString(w, `[
			{"id": "t1", "title": "Survey", "status": "new", "projectId": "p1",
			 "projectName": "Bridge", "assigneeId": "u1", "taskType": "regular",
			 "approvalStatus": "approved"},
			{"id": "t2", "title": "Archive", "status": "done", "assigneeId": null}
		]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	tasks, err := c.Tasks(context.Background())
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks = %+v", tasks)
	}
	if tasks[0].AssigneeID != "u1" || tasks[0].ProjectName != "Bridge" {
		t.Errorf("tasks[0] = %+v", tasks[0])
	}
	if tasks[1].AssigneeID != "" {
		t.Errorf("null assigneeId should map to empty, got %q", tasks[1].AssigneeID)
	}
}

func TestPutEntryBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if err := c.PutEntry(context.Background(), "u1", "a", jan(5), 2.5); err != nil {
		t.Fatalf("PutEntry: %v", err)
	}

	if got["userId"] != "u1" || got["taskId"] != "a" || got["workDate"] != "2024-01-05" || got["hours"] != 2.5 {
		t.Errorf("body = %v", got)
	}
}

func TestPutDayOffNullClears(t *testing.T) {
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		bodies = append(bodies, body)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if err := c.PutDayOff(context.Background(), "u1", jan(10), model.DayOffSick); err != nil {
		t.Fatal(err)
	}
	if err := c.PutDayOff(context.Background(), "u1", jan(10), model.DayOffNone); err != nil {
		t.Fatal(err)
	}

	if bodies[0]["type"] != "b" {
		t.Errorf("set body type = %v, want b", bodies[0]["type"])
	}
	if v, present := bodies[1]["type"]; !present || v != nil {
		t.Errorf("clear body type = %v, want explicit null", v)
	}
}

func TestSetTaskStatusPatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/tasks/t1" {
			t.Errorf("path = %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if err := c.SetTaskStatus(context.Background(), "t1", model.StatusDone); err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
}

func TestErrorBodiesSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"message": "period is closed"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.PutEntry(context.Background(), "u1", "a", jan(5), 1)
	if err == nil {
		t.Fatal("want error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "period is closed") {
		t.Errorf("err = %v", err)
	}
}

func TestErrorMessageShapes(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"message": "nope"}`, "nope"},
		{`{"error": "bad token"}`, "bad token"},
		{`plain text`, "plain text"},
		{``, "request failed"},
	}
	for _, tt := range tests {
		if got := errorMessage([]byte(tt.body)); got != tt.want {
			t.Errorf("errorMessage(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
