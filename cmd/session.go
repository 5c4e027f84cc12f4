package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olyannaa/workstream/internal/api"
	"github.com/olyannaa/workstream/internal/cache"
	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/config"
	"github.com/olyannaa/workstream/internal/model"
	"github.com/olyannaa/workstream/internal/timesheet"
)

// session bundles everything a logged-in command needs.
type session struct {
	User    model.User
	Tracker *timesheet.Tracker
	close   func()
}

func (s *session) Close() {
	if s.close != nil {
		s.close()
	}
}

// openSession loads config, the stored login and the snapshot cache, and
// builds an authenticated tracker. The cache is optional; a broken cache
// only costs the offline fallback.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	user, err := api.LoadSession()
	if err != nil {
		return nil, err
	}
	tok, err := api.LoadToken()
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.API.BaseURL, api.NewHTTPClient(ctx, cfg.API.BaseURL, tok))

	var snap timesheet.Snapshot
	closeFn := func() {}
	if path, err := cache.DefaultPath(); err == nil {
		if c, err := cache.Open(path); err == nil {
			snap = c
			closeFn = func() { c.Close() }
		} else {
			fmt.Fprintf(os.Stderr, "Warning: snapshot cache unavailable: %v\n", err)
		}
	}

	tr := timesheet.New(user.ID, client, snap)
	if loc := clockLocation(cfg.API.Timezone); loc != nil {
		tr.Now = func() time.Time { return time.Now().In(loc) }
	}
	return &session{User: user, Tracker: tr, close: closeFn}, nil
}

func clockLocation(tz string) *time.Location {
	if tz == "" {
		return nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: unknown timezone %q, using system clock\n", tz)
		return nil
	}
	return loc
}

// parseMonthFlag parses a --month value like "2024-01". Empty means the
// month containing now.
func parseMonthFlag(value string, now time.Time) (int, time.Month, error) {
	if value == "" {
		d := calendar.DateOf(now)
		return d.Year, d.Month, nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", value)
	}
	return t.Year(), t.Month(), nil
}

// refreshOrWarn refreshes the tracker and downgrades a fetch failure to a
// warning: the grid then renders the last-known-good snapshot.
func refreshOrWarn(ctx context.Context, tr *timesheet.Tracker, year int, month time.Month) {
	if err := tr.Refresh(ctx, year, month); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (showing last known state)\n", err)
	}
}
