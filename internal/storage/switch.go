package storage

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
)

// Switch routes every call to either the real source or the demo source.
// Flipping it takes effect for the next call.
type Switch struct {
	primary DataSource
	demo    DataSource
	useDemo atomic.Bool
}

func NewSwitch(primary, demo DataSource, demoEnabled bool) *Switch {
	s := &Switch{primary: primary, demo: demo}
	s.useDemo.Store(demoEnabled)
	return s
}

func (s *Switch) SetDemo(enabled bool) { s.useDemo.Store(enabled) }

func (s *Switch) DemoEnabled() bool { return s.useDemo.Load() }

func (s *Switch) active() DataSource {
	if s.useDemo.Load() {
		return s.demo
	}
	return s.primary
}

func (s *Switch) Close() error {
	return errors.Join(s.primary.Close(), s.demo.Close())
}

func (s *Switch) GetProfile(ctx context.Context) (*internal.UserProfile, error) {
	return s.active().GetProfile(ctx)
}

func (s *Switch) SaveProfile(ctx context.Context, profile *internal.UserProfile) error {
	return s.active().SaveProfile(ctx, profile)
}

func (s *Switch) DeleteAll(ctx context.Context) error { return s.active().DeleteAll(ctx) }

func (s *Switch) GetDayBucket(ctx context.Context, userID, dayKey string) (*internal.DayBucket, error) {
	return s.active().GetDayBucket(ctx, userID, dayKey)
}

func (s *Switch) GetOrCreateDayBucket(ctx context.Context, seed *internal.DayBucket) (*internal.DayBucket, error) {
	return s.active().GetOrCreateDayBucket(ctx, seed)
}

func (s *Switch) SaveDayBucket(ctx context.Context, bucket *internal.DayBucket) (*internal.DayBucket, error) {
	return s.active().SaveDayBucket(ctx, bucket)
}

func (s *Switch) ListDayBuckets(ctx context.Context, userID string, start, end time.Time) ([]internal.DayBucket, error) {
	return s.active().ListDayBuckets(ctx, userID, start, end)
}

func (s *Switch) DeleteDayBucket(ctx context.Context, id string) error {
	return s.active().DeleteDayBucket(ctx, id)
}

func (s *Switch) AppendActivity(ctx context.Context, seed *internal.DayBucket, entry *internal.ActivityLogEntry) (*internal.DayBucket, error) {
	return s.active().AppendActivity(ctx, seed, entry)
}

func (s *Switch) GetActivity(ctx context.Context, id string) (*internal.ActivityLogEntry, error) {
	return s.active().GetActivity(ctx, id)
}

func (s *Switch) UpdateActivity(ctx context.Context, entry *internal.ActivityLogEntry) error {
	return s.active().UpdateActivity(ctx, entry)
}

func (s *Switch) DeleteActivity(ctx context.Context, id string) error {
	return s.active().DeleteActivity(ctx, id)
}

func (s *Switch) ListActivities(ctx context.Context, userID string, start, end time.Time) ([]internal.ActivityLogEntry, error) {
	return s.active().ListActivities(ctx, userID, start, end)
}

func (s *Switch) ListActivitiesForBucket(ctx context.Context, bucketID string) ([]internal.ActivityLogEntry, error) {
	return s.active().ListActivitiesForBucket(ctx, bucketID)
}

var _ DataSource = (*Switch)(nil)
