package storage

import (
	"context"
	"time"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
)

type ProfileRepository interface {
	// GetProfile returns internal.ErrNotFound until onboarding has run.
	GetProfile(ctx context.Context) (*internal.UserProfile, error)
	SaveProfile(ctx context.Context, profile *internal.UserProfile) error
	// DeleteAll wipes the profile, every day bucket and every activity.
	DeleteAll(ctx context.Context) error
}

type DayBucketRepository interface {
	GetDayBucket(ctx context.Context, userID, dayKey string) (*internal.DayBucket, error)
	// GetOrCreateDayBucket inserts seed unless a bucket for (seed.UserID,
	// seed.DayKey) exists, and returns the stored bucket either way.
	GetOrCreateDayBucket(ctx context.Context, seed *internal.DayBucket) (*internal.DayBucket, error)
	// SaveDayBucket upserts the snapshot fields keyed by (UserID, DayKey).
	// An existing bucket keeps its ID and ConsumedTotal.
	SaveDayBucket(ctx context.Context, bucket *internal.DayBucket) (*internal.DayBucket, error)
	ListDayBuckets(ctx context.Context, userID string, start, end time.Time) ([]internal.DayBucket, error)
	// DeleteDayBucket also deletes the bucket's activities.
	DeleteDayBucket(ctx context.Context, id string) error
}

type ActivityRepository interface {
	// AppendActivity resolves or creates the bucket described by seed, binds
	// entry to it, stores entry and, for consumption, adds its calories to the
	// bucket's ConsumedTotal. The whole sequence is atomic.
	AppendActivity(ctx context.Context, seed *internal.DayBucket, entry *internal.ActivityLogEntry) (*internal.DayBucket, error)
	GetActivity(ctx context.Context, id string) (*internal.ActivityLogEntry, error)
	UpdateActivity(ctx context.Context, entry *internal.ActivityLogEntry) error
	DeleteActivity(ctx context.Context, id string) error
	// ListActivities returns entries with start <= Timestamp < end, oldest first.
	ListActivities(ctx context.Context, userID string, start, end time.Time) ([]internal.ActivityLogEntry, error)
	ListActivitiesForBucket(ctx context.Context, bucketID string) ([]internal.ActivityLogEntry, error)
}

type DataSource interface {
	ProfileRepository
	DayBucketRepository
	ActivityRepository
	Close() error
}
