package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/calendar"
	"github.com/xSteins/PencatatanKalori-sub000/internal/tdee"
)

const DemoUserID = "demo-user"

// DemoStorage serves a fixed week of synthetic data and rejects every write
// with internal.ErrReadOnly.
type DemoStorage struct {
	fixture *MemoryStorage
}

type demoItem struct {
	name     string
	kind     internal.ActivityType
	calories int
	hour     int
}

var demoDay = []demoItem{
	{"Oatmeal with banana", internal.ActivityConsumption, 350, 7},
	{"Morning run", internal.ActivityWorkout, 280, 8},
	{"Chicken rice", internal.ActivityConsumption, 620, 12},
	{"Apple", internal.ActivityConsumption, 95, 16},
	{"Grilled salmon and salad", internal.ActivityConsumption, 540, 19},
}

// NewDemoStorage builds seven days of fixture data ending on now's local day.
func NewDemoStorage(now time.Time, location *time.Location) *DemoStorage {
	m := NewMemoryStorage()
	ctx := context.Background()
	profile := &internal.UserProfile{
		ID:            DemoUserID,
		Age:           28,
		Sex:           internal.SexMale,
		WeightKg:      70,
		HeightCm:      175,
		ActivityLevel: internal.ActivityModerate,
		Goal:          internal.GoalReduceWeight,
		CreatedAt:     now.AddDate(0, 0, -7),
		UpdatedAt:     now.AddDate(0, 0, -7),
	}
	profile.DailyCalorieTarget = tdee.ForProfile(profile)
	_ = m.SaveProfile(ctx, profile)

	today := calendar.StartOfDay(now, location)
	for d := 6; d >= 0; d-- {
		day := today.AddDate(0, 0, -d)
		key := day.Format(calendar.KeyLayout)
		seed := &internal.DayBucket{
			ID:                    "demo-day-" + key,
			UserID:                DemoUserID,
			Day:                   day,
			DayKey:                key,
			TDEE:                  profile.DailyCalorieTarget,
			GoalSnapshot:          profile.Goal,
			WeightSnapshot:        profile.WeightKg,
			ActivityLevelSnapshot: profile.ActivityLevel,
		}
		for i, item := range demoDay {
			// Skip a couple of entries on alternating days so the week varies.
			if (d+i)%4 == 3 {
				continue
			}
			entry := &internal.ActivityLogEntry{
				ID:        fmt.Sprintf("demo-%s-%d", key, i),
				UserID:    DemoUserID,
				Type:      item.kind,
				Timestamp: day.Add(time.Duration(item.hour) * time.Hour),
				Name:      item.name,
				Calories:  item.calories,
			}
			_, _ = m.AppendActivity(ctx, seed, entry)
		}
	}
	return &DemoStorage{fixture: m}
}

func (d *DemoStorage) Close() error { return nil }

// --- ProfileRepository ---
func (d *DemoStorage) GetProfile(ctx context.Context) (*internal.UserProfile, error) {
	return d.fixture.GetProfile(ctx)
}

func (d *DemoStorage) SaveProfile(ctx context.Context, profile *internal.UserProfile) error {
	return internal.ErrReadOnly
}

func (d *DemoStorage) DeleteAll(ctx context.Context) error { return internal.ErrReadOnly }

// --- DayBucketRepository ---
func (d *DemoStorage) GetDayBucket(ctx context.Context, userID, dayKey string) (*internal.DayBucket, error) {
	return d.fixture.GetDayBucket(ctx, userID, dayKey)
}

// GetOrCreateDayBucket returns the fixture bucket, or seed itself unsaved.
func (d *DemoStorage) GetOrCreateDayBucket(ctx context.Context, seed *internal.DayBucket) (*internal.DayBucket, error) {
	b, err := d.fixture.GetDayBucket(ctx, seed.UserID, seed.DayKey)
	if err == nil {
		return b, nil
	}
	out := *seed
	return &out, nil
}

func (d *DemoStorage) SaveDayBucket(ctx context.Context, bucket *internal.DayBucket) (*internal.DayBucket, error) {
	return nil, internal.ErrReadOnly
}

func (d *DemoStorage) ListDayBuckets(ctx context.Context, userID string, start, end time.Time) ([]internal.DayBucket, error) {
	return d.fixture.ListDayBuckets(ctx, userID, start, end)
}

func (d *DemoStorage) DeleteDayBucket(ctx context.Context, id string) error {
	return internal.ErrReadOnly
}

// --- ActivityRepository ---
func (d *DemoStorage) AppendActivity(ctx context.Context, seed *internal.DayBucket, entry *internal.ActivityLogEntry) (*internal.DayBucket, error) {
	return nil, internal.ErrReadOnly
}

func (d *DemoStorage) GetActivity(ctx context.Context, id string) (*internal.ActivityLogEntry, error) {
	return d.fixture.GetActivity(ctx, id)
}

func (d *DemoStorage) UpdateActivity(ctx context.Context, entry *internal.ActivityLogEntry) error {
	return internal.ErrReadOnly
}

func (d *DemoStorage) DeleteActivity(ctx context.Context, id string) error {
	return internal.ErrReadOnly
}

func (d *DemoStorage) ListActivities(ctx context.Context, userID string, start, end time.Time) ([]internal.ActivityLogEntry, error) {
	return d.fixture.ListActivities(ctx, userID, start, end)
}

func (d *DemoStorage) ListActivitiesForBucket(ctx context.Context, bucketID string) ([]internal.ActivityLogEntry, error) {
	return d.fixture.ListActivitiesForBucket(ctx, bucketID)
}

// --- Compile-time assertions ---
var _ DataSource = (*DemoStorage)(nil)
