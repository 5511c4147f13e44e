package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/calendar"
)

// Ledger records, edits and queries food and workout entries.
type Ledger struct {
	env *Env
}

func NewLedger(env *Env) *Ledger {
	return &Ledger{env: env}
}

type LogActivityInput struct {
	Name       string
	Calories   int
	Type       internal.ActivityType
	PictureRef string
	Notes      string
	// TargetDate defaults to today.
	TargetDate *time.Time
}

// LogActivity stores a new entry on the local day of in.TargetDate. The entry
// gets the current time of day on that date. When the data source is the demo
// fixture the entry is returned unsaved.
func (l *Ledger) LogActivity(ctx context.Context, in LogActivityInput) (*internal.ActivityLogEntry, error) {
	profile, err := loadProfile(ctx, l.env)
	if err != nil {
		l.env.Reporter.Report("log activity", err)
		return nil, err
	}

	now := l.env.Clock.Now()
	target := now
	if in.TargetDate != nil {
		target = *in.TargetDate
	}
	seed := bucketSeed(profile, target, l.env.Location)
	entry := &internal.ActivityLogEntry{
		ID:         uuid.NewString(),
		UserID:     profile.ID,
		Type:       in.Type,
		Timestamp:  calendar.TransplantTimeOfDay(seed.Day, now, l.env.Location),
		Name:       in.Name,
		Calories:   in.Calories,
		Notes:      in.Notes,
		PictureRef: in.PictureRef,
	}

	bucket, err := l.env.Store.AppendActivity(ctx, seed, entry)
	if err != nil {
		if errors.Is(err, internal.ErrReadOnly) {
			l.env.Logger.Debugf("ledger: demo mode, %s entry %q not saved", entry.Type, entry.Name)
			return entry, nil
		}
		wrapped := internal.StorageError("save the activity", err)
		l.env.Reporter.Report("log activity", err)
		return nil, wrapped
	}
	l.env.Logger.Infof("ledger: logged %s %q (%d kcal) on %s, consumed total %d",
		entry.Type, entry.Name, entry.Calories, bucket.DayKey, bucket.ConsumedTotal)
	l.env.Hub.Publish(Change{Kind: ChangeActivity, DayKey: bucket.DayKey})
	return entry, nil
}

// UpdateActivity overwrites the entry with the same ID. The owner and day
// bucket are kept, as is the timestamp when entry has none. The bucket's
// consumed total is not adjusted.
func (l *Ledger) UpdateActivity(ctx context.Context, entry *internal.ActivityLogEntry) error {
	existing, err := l.env.Store.GetActivity(ctx, entry.ID)
	if err != nil {
		return l.mutationFailed("update the activity", err)
	}
	updated := *entry
	updated.UserID = existing.UserID
	updated.DayBucketID = existing.DayBucketID
	if updated.Timestamp.IsZero() {
		updated.Timestamp = existing.Timestamp
	}
	if err := l.env.Store.UpdateActivity(ctx, &updated); err != nil {
		return l.mutationFailed("update the activity", err)
	}
	*entry = updated
	l.env.Hub.Publish(Change{Kind: ChangeActivity, DayKey: calendar.Key(updated.Timestamp, l.env.Location)})
	return nil
}

// DeleteActivity removes one entry. The bucket's consumed total is not adjusted.
func (l *Ledger) DeleteActivity(ctx context.Context, id string) error {
	if err := l.env.Store.DeleteActivity(ctx, id); err != nil {
		return l.mutationFailed("delete the activity", err)
	}
	l.env.Hub.Publish(Change{Kind: ChangeActivity})
	return nil
}

// DeleteDay removes a day bucket together with its entries.
func (l *Ledger) DeleteDay(ctx context.Context, bucketID string) error {
	if err := l.env.Store.DeleteDayBucket(ctx, bucketID); err != nil {
		return l.mutationFailed("delete the day", err)
	}
	l.env.Hub.Publish(Change{Kind: ChangeDay})
	return nil
}

func (l *Ledger) mutationFailed(op string, err error) error {
	switch {
	case errors.Is(err, internal.ErrNotFound):
		return internal.WrapAppError(404, "activity or day not found", err)
	case errors.Is(err, internal.ErrReadOnly):
		return internal.WrapAppError(409, "demo mode is on, changes are not saved", err)
	}
	l.env.Reporter.Report(op, err)
	return internal.StorageError(op, err)
}

func (l *Ledger) GetActivity(ctx context.Context, id string) (*internal.ActivityLogEntry, error) {
	e, err := l.env.Store.GetActivity(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return nil, internal.WrapAppError(404, "activity not found", err)
		}
		return nil, internal.StorageError("load the activity", err)
	}
	return e, nil
}

// ActivitiesForDate lists the entries whose timestamp falls on the local day
// of date. Without a profile the list is empty.
func (l *Ledger) ActivitiesForDate(ctx context.Context, date time.Time) ([]internal.ActivityLogEntry, error) {
	start, end := calendar.DayRange(date, l.env.Location)
	return l.list(ctx, start, end)
}

// ActivitiesForRange lists entries from the first local day through the last,
// both inclusive.
func (l *Ledger) ActivitiesForRange(ctx context.Context, first, last time.Time) ([]internal.ActivityLogEntry, error) {
	start, end := calendar.SpanRange(first, last, l.env.Location)
	return l.list(ctx, start, end)
}

func (l *Ledger) TodayActivities(ctx context.Context) ([]internal.ActivityLogEntry, error) {
	return l.ActivitiesForDate(ctx, l.env.Clock.Now())
}

func (l *Ledger) list(ctx context.Context, start, end time.Time) ([]internal.ActivityLogEntry, error) {
	profile, err := l.env.Store.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return []internal.ActivityLogEntry{}, nil
		}
		return nil, internal.StorageError("load activities", err)
	}
	entries, err := l.env.Store.ListActivities(ctx, profile.ID, start, end)
	if err != nil {
		l.env.Reporter.Report("list activities", err)
		return nil, internal.StorageError("load activities", err)
	}
	return entries, nil
}

// WatchToday emits today's entries immediately and again after every change,
// until ctx is done. "Today" is re-evaluated on each emission. Failed reads
// emit an empty list; the stream itself never ends on error.
func (l *Ledger) WatchToday(ctx context.Context) <-chan []internal.ActivityLogEntry {
	changes, unsubscribe := l.env.Hub.Subscribe()
	out := make(chan []internal.ActivityLogEntry, 1)

	go func() {
		defer close(out)
		defer unsubscribe()
		for {
			entries, err := l.TodayActivities(ctx)
			if err != nil {
				entries = []internal.ActivityLogEntry{}
			}
			select {
			case out <- entries:
			case <-ctx.Done():
				return
			}
			select {
			case _, ok := <-changes:
				if !ok {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
