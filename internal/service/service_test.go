package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/storage"
)

var testNow = time.Date(2024, 6, 10, 14, 30, 15, 0, time.UTC)

type fixture struct {
	env      *Env
	store    *storage.MemoryStorage
	sw       *storage.Switch
	profiles *ProfileService
	ledger   *Ledger
	summary  *SummaryService
	debug    *DebugService
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: storage.NewMemoryStorage(), now: testNow}
	f.sw = storage.NewSwitch(f.store, storage.NewDemoStorage(testNow, time.UTC), false)
	f.env = NewEnv(f.sw, ClockFunc(func() time.Time { return f.now }), time.UTC, internal.NopLogger())
	f.profiles = NewProfileService(f.env)
	f.ledger = NewLedger(f.env)
	f.summary = NewSummaryService(f.env)
	f.debug = NewDebugService(f.env, f.sw, f.profiles)
	t.Cleanup(f.env.Hub.Close)
	return f
}

func defaultProfile() *ProfileRequest {
	return &ProfileRequest{
		Age:           28,
		Sex:           "MALE",
		WeightKg:      70,
		HeightCm:      175,
		ActivityLevel: "MODERATE",
		Goal:          "REDUCE_WEIGHT",
	}
}

func (f *fixture) onboard(t *testing.T) *internal.UserProfile {
	t.Helper()
	p, err := f.profiles.Onboard(context.Background(), defaultProfile())
	require.NoError(t, err)
	return p
}

func (f *fixture) log(t *testing.T, name string, kind internal.ActivityType, kcal int, date *time.Time) *internal.ActivityLogEntry {
	t.Helper()
	e, err := f.ledger.LogActivity(context.Background(), LogActivityInput{Name: name, Type: kind, Calories: kcal, TargetDate: date})
	require.NoError(t, err)
	return e
}

func TestEndToEndDay(t *testing.T) {
	f := newFixture(t)
	p := f.onboard(t)
	assert.Equal(t, 2571, p.DailyCalorieTarget)

	f.log(t, "Lunch", internal.ActivityConsumption, 600, nil)
	f.log(t, "Run", internal.ActivityWorkout, 300, nil)

	s, err := f.summary.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", s.DayKey)
	assert.Equal(t, 2571, s.Target)
	assert.Equal(t, 600, s.Consumed)
	assert.Equal(t, 300, s.Burned)
	assert.Equal(t, 300, s.Net)
	assert.Equal(t, 2271, s.Remaining)
	assert.Equal(t, 1, s.MealCount)
	assert.Equal(t, 1, s.WorkoutCount)
}

func TestLogActivity_ConsumedTotal(t *testing.T) {
	f := newFixture(t)
	p := f.onboard(t)
	ctx := context.Background()

	f.log(t, "Breakfast", internal.ActivityConsumption, 300, nil)
	f.log(t, "Dinner", internal.ActivityConsumption, 500, nil)
	b, err := f.store.GetDayBucket(ctx, p.ID, "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, 800, b.ConsumedTotal)

	f.log(t, "Swim", internal.ActivityWorkout, 400, nil)
	b, err = f.store.GetDayBucket(ctx, p.ID, "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, 800, b.ConsumedTotal)
}

func TestLogActivity_BackdatedKeepsTimeOfDay(t *testing.T) {
	f := newFixture(t)
	p := f.onboard(t)
	threeDaysAgo := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)

	e := f.log(t, "Late snack", internal.ActivityConsumption, 200, &threeDaysAgo)
	assert.Equal(t, time.Date(2024, 6, 7, 14, 30, 15, 0, time.UTC), e.Timestamp)

	b, err := f.store.GetDayBucket(context.Background(), p.ID, "2024-06-07")
	require.NoError(t, err)
	assert.Equal(t, b.ID, e.DayBucketID)
	assert.Equal(t, 2571, b.TDEE)

	entries, err := f.ledger.ActivitiesForDate(context.Background(), threeDaysAgo)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, e.ID, entries[0].ID)

	today, err := f.ledger.TodayActivities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, today)
}

func TestLogActivity_WithoutProfile(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.LogActivity(context.Background(), LogActivityInput{Name: "x", Type: internal.ActivityConsumption, Calories: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, internal.ErrProfileNotFound)

	var appErr *internal.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Code)
	assert.NotNil(t, f.debug.LastError())
}

func TestReadsWithoutProfileAreEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entries, err := f.ledger.TodayActivities(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	s, err := f.summary.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", s.DayKey)
	assert.Zero(t, s.Target)

	sums, err := f.summary.ForRange(ctx, testNow.AddDate(0, 0, -7), testNow)
	require.NoError(t, err)
	assert.Empty(t, sums)
}

func TestUpdateAndDelete_DoNotAdjustCounter(t *testing.T) {
	f := newFixture(t)
	p := f.onboard(t)
	ctx := context.Background()

	e := f.log(t, "Pizza", internal.ActivityConsumption, 800, nil)
	f.log(t, "Salad", internal.ActivityConsumption, 200, nil)

	require.NoError(t, f.ledger.UpdateActivity(ctx, &internal.ActivityLogEntry{
		ID: e.ID, Name: "Half pizza", Type: internal.ActivityConsumption, Calories: 400,
	}))
	got, err := f.ledger.GetActivity(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Half pizza", got.Name)
	assert.Equal(t, e.Timestamp, got.Timestamp)
	assert.Equal(t, p.ID, got.UserID)
	assert.Equal(t, e.DayBucketID, got.DayBucketID)

	b, err := f.store.GetDayBucket(ctx, p.ID, "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, 1000, b.ConsumedTotal)

	require.NoError(t, f.ledger.DeleteActivity(ctx, e.ID))
	b, err = f.store.GetDayBucket(ctx, p.ID, "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, 1000, b.ConsumedTotal)

	s, err := f.summary.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200, s.Consumed)
	assert.Equal(t, 1000, s.ConsumedTotal)

	err = f.ledger.DeleteActivity(ctx, e.ID)
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestDeleteDay_Cascades(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)
	ctx := context.Background()
	e := f.log(t, "Pasta", internal.ActivityConsumption, 700, nil)

	require.NoError(t, f.ledger.DeleteDay(ctx, e.DayBucketID))
	_, err := f.ledger.GetActivity(ctx, e.ID)
	assert.ErrorIs(t, err, internal.ErrNotFound)

	// The next summary lazily recreates an empty day.
	s, err := f.summary.Today(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, e.DayBucketID, s.DayBucketID)
	assert.Zero(t, s.Consumed)
}

func TestProfileUpdate_ResnapshotsOnlyToday(t *testing.T) {
	f := newFixture(t)
	p := f.onboard(t)
	ctx := context.Background()
	yesterday := testNow.AddDate(0, 0, -1)
	f.log(t, "Old meal", internal.ActivityConsumption, 500, &yesterday)
	f.log(t, "Meal", internal.ActivityConsumption, 500, nil)

	weight := 80.0
	level := internal.ActivityActive
	updated, err := f.profiles.Update(ctx, ProfileUpdate{WeightKg: &weight, ActivityLevel: &level})
	require.NoError(t, err)
	// (800 + 1093.75 - 140 + 5) * 1.725
	assert.Equal(t, 3033, updated.DailyCalorieTarget)

	today, err := f.store.GetDayBucket(ctx, p.ID, "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, 3033, today.TDEE)
	assert.InDelta(t, 80.0, today.WeightSnapshot, 1e-9)
	assert.Equal(t, internal.ActivityActive, today.ActivityLevelSnapshot)
	assert.Equal(t, 500, today.ConsumedTotal)

	past, err := f.store.GetDayBucket(ctx, p.ID, "2024-06-09")
	require.NoError(t, err)
	assert.Equal(t, 2571, past.TDEE)
	assert.InDelta(t, 70.0, past.WeightSnapshot, 1e-9)
}

func TestSetGranularity(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)
	p, err := f.profiles.SetGranularity(context.Background(), 250)
	require.NoError(t, err)
	assert.Equal(t, 250, p.GranularityOffset)
	assert.Equal(t, 2821, p.DailyCalorieTarget)

	s, err := f.summary.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2821, s.Target)
}

func TestOnboardTwice(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)
	_, err := f.profiles.Onboard(context.Background(), defaultProfile())
	assert.ErrorIs(t, err, internal.ErrProfileExists)
}

func TestUpdateWithoutProfile(t *testing.T) {
	f := newFixture(t)
	_, err := f.profiles.SetGranularity(context.Background(), 100)
	assert.ErrorIs(t, err, internal.ErrProfileNotFound)
	_, err = f.profiles.Get(context.Background())
	assert.ErrorIs(t, err, internal.ErrProfileNotFound)
}

func TestSummaryForRange(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)
	ctx := context.Background()
	for d := 4; d >= 0; d -= 2 {
		day := testNow.AddDate(0, 0, -d)
		f.log(t, "Meal", internal.ActivityConsumption, 100*(d+1), &day)
	}

	sums, err := f.summary.ForRange(ctx, testNow.AddDate(0, 0, -6), testNow)
	require.NoError(t, err)
	require.Len(t, sums, 3)
	assert.Equal(t, "2024-06-06", sums[0].DayKey)
	assert.Equal(t, 500, sums[0].Consumed)
	assert.Equal(t, "2024-06-08", sums[1].DayKey)
	assert.Equal(t, "2024-06-10", sums[2].DayKey)
	assert.Equal(t, 100, sums[2].Consumed)
}

func TestClearAll(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)
	f.log(t, "Meal", internal.ActivityConsumption, 100, nil)
	require.NoError(t, f.debug.ClearAll(context.Background()))

	_, err := f.profiles.Get(context.Background())
	assert.ErrorIs(t, err, internal.ErrProfileNotFound)
}

func TestDemoMode_WritesAreNoOps(t *testing.T) {
	f := newFixture(t)
	p := f.onboard(t)
	ctx := context.Background()

	f.debug.SetDemoMode(true)
	assert.True(t, f.debug.DemoMode())

	e, err := f.ledger.LogActivity(ctx, LogActivityInput{Name: "Ghost", Type: internal.ActivityConsumption, Calories: 999})
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, storage.DemoUserID, e.UserID)

	today, err := f.ledger.TodayActivities(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, today)
	for _, a := range today {
		assert.NotEqual(t, "Ghost", a.Name)
	}

	f.debug.SetDemoMode(false)
	_, err = f.store.GetDayBucket(ctx, p.ID, "2024-06-10")
	require.NoError(t, err)
	saved, err := f.ledger.TodayActivities(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestWatchToday(t *testing.T) {
	f := newFixture(t)
	f.onboard(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := f.ledger.WatchToday(ctx)
	first := <-stream
	assert.Empty(t, first)

	f.log(t, "Coffee", internal.ActivityConsumption, 5, nil)
	select {
	case snap := <-stream:
		require.Len(t, snap, 1)
		assert.Equal(t, "Coffee", snap[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after logging")
	}

	cancel()
	for range stream {
	}
	assert.Eventually(t, func() bool { return f.env.Hub.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}
