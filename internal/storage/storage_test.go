package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xSteins/PencatatanKalori-sub000/internal"
)

type backendFactory func(t *testing.T) DataSource

func backends() map[string]backendFactory {
	b := map[string]backendFactory{
		"memory": func(t *testing.T) DataSource { return NewMemoryStorage() },
		"file": func(t *testing.T) DataSource {
			dir := t.TempDir()
			s, err := NewFileStorage(filepath.Join(dir, "profile.json"), filepath.Join(dir, "days.json"), filepath.Join(dir, "activities.json"), internal.NopLogger())
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) DataSource {
			s, err := NewSQLiteRepositories(context.Background(), filepath.Join(t.TempDir(), "calories.db"), internal.NopLogger())
			require.NoError(t, err)
			return s
		},
	}
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		b["postgres"] = func(t *testing.T) DataSource {
			s, err := NewPostgresRepositories(context.Background(), dsn, internal.NopLogger())
			require.NoError(t, err)
			require.NoError(t, s.DeleteAll(context.Background()))
			return s
		}
	}
	return b
}

var day1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testProfile() *internal.UserProfile {
	return &internal.UserProfile{
		ID:                 "u1",
		Age:                28,
		Sex:                internal.SexMale,
		WeightKg:           70,
		HeightCm:           175,
		ActivityLevel:      internal.ActivityModerate,
		Goal:               internal.GoalReduceWeight,
		DailyCalorieTarget: 2571,
		CreatedAt:          day1,
		UpdatedAt:          day1,
	}
}

func seedFor(day time.Time, id string) *internal.DayBucket {
	return &internal.DayBucket{
		ID:                    id,
		UserID:                "u1",
		Day:                   day,
		DayKey:                day.Format("2006-01-02"),
		TDEE:                  2571,
		GoalSnapshot:          internal.GoalReduceWeight,
		WeightSnapshot:        70,
		ActivityLevelSnapshot: internal.ActivityModerate,
	}
}

func entry(id string, kind internal.ActivityType, kcal int, ts time.Time) *internal.ActivityLogEntry {
	return &internal.ActivityLogEntry{ID: id, UserID: "u1", Type: kind, Timestamp: ts, Name: id, Calories: kcal}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s DataSource)) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			fn(t, s)
		})
	}
}

func TestProfileLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DataSource) {
		ctx := context.Background()
		_, err := s.GetProfile(ctx)
		assert.ErrorIs(t, err, internal.ErrNotFound)

		p := testProfile()
		require.NoError(t, s.SaveProfile(ctx, p))

		p.WeightKg = 68.5
		p.GranularityOffset = 200
		require.NoError(t, s.SaveProfile(ctx, p))

		got, err := s.GetProfile(ctx)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.ID)
		assert.InDelta(t, 68.5, got.WeightKg, 1e-9)
		assert.Equal(t, 200, got.GranularityOffset)

		other := testProfile()
		other.ID = "u2"
		assert.Error(t, s.SaveProfile(ctx, other), "only one profile may exist")
	})
}

func TestGetOrCreateDayBucket_Idempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DataSource) {
		ctx := context.Background()
		require.NoError(t, s.SaveProfile(ctx, testProfile()))

		first, err := s.GetOrCreateDayBucket(ctx, seedFor(day1, "b1"))
		require.NoError(t, err)
		second, err := s.GetOrCreateDayBucket(ctx, seedFor(day1, "b2"))
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "b1", second.ID)

		buckets, err := s.ListDayBuckets(ctx, "u1", day1, day1.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Len(t, buckets, 1)
	})
}

func TestAppendActivity_IncrementsConsumedTotal(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DataSource) {
		ctx := context.Background()
		require.NoError(t, s.SaveProfile(ctx, testProfile()))

		b, err := s.AppendActivity(ctx, seedFor(day1, "b1"), entry("e1", internal.ActivityConsumption, 300, day1.Add(8*time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, 300, b.ConsumedTotal)

		b, err = s.AppendActivity(ctx, seedFor(day1, "b-ignored"), entry("e2", internal.ActivityConsumption, 500, day1.Add(12*time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, "b1", b.ID)
		assert.Equal(t, 800, b.ConsumedTotal)

		b, err = s.AppendActivity(ctx, seedFor(day1, "b1"), entry("e3", internal.ActivityWorkout, 250, day1.Add(18*time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, 800, b.ConsumedTotal)

		stored, err := s.GetDayBucket(ctx, "u1", "2024-06-01")
		require.NoError(t, err)
		assert.Equal(t, 800, stored.ConsumedTotal)

		e, err := s.GetActivity(ctx, "e3")
		require.NoError(t, err)
		assert.Equal(t, "b1", e.DayBucketID)
	})
}

func TestUpdateAndDeleteActivity_LeaveCounterAlone(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DataSource) {
		ctx := context.Background()
		require.NoError(t, s.SaveProfile(ctx, testProfile()))
		_, err := s.AppendActivity(ctx, seedFor(day1, "b1"), entry("e1", internal.ActivityConsumption, 300, day1.Add(time.Hour)))
		require.NoError(t, err)

		e, err := s.GetActivity(ctx, "e1")
		require.NoError(t, err)
		e.Calories = 900
		e.Notes = "second helping"
		require.NoError(t, s.UpdateActivity(ctx, e))

		got, err := s.GetActivity(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, 900, got.Calories)
		assert.Equal(t, "second helping", got.Notes)

		require.NoError(t, s.DeleteActivity(ctx, "e1"))
		_, err = s.GetActivity(ctx, "e1")
		assert.ErrorIs(t, err, internal.ErrNotFound)

		b, err := s.GetDayBucket(ctx, "u1", "2024-06-01")
		require.NoError(t, err)
		assert.Equal(t, 300, b.ConsumedTotal)

		assert.ErrorIs(t, s.DeleteActivity(ctx, "e1"), internal.ErrNotFound)
		assert.ErrorIs(t, s.UpdateActivity(ctx, e), internal.ErrNotFound)
	})
}

func TestDeleteDayBucket_Cascades(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DataSource) {
		ctx := context.Background()
		require.NoError(t, s.SaveProfile(ctx, testProfile()))
		day2 := day1.AddDate(0, 0, 1)
		_, err := s.AppendActivity(ctx, seedFor(day1, "b1"), entry("e1", internal.ActivityConsumption, 300, day1.Add(time.Hour)))
		require.NoError(t, err)
		_, err = s.AppendActivity(ctx, seedFor(day1, "b1"), entry("e2", internal.ActivityWorkout, 100, day1.Add(2*time.Hour)))
		require.NoError(t, err)
		_, err = s.AppendActivity(ctx, seedFor(day2, "b2"), entry("e3", internal.ActivityConsumption, 400, day2.Add(time.Hour)))
		require.NoError(t, err)

		require.NoError(t, s.DeleteDayBucket(ctx, "b1"))

		left, err := s.ListActivitiesForBucket(ctx, "b1")
		require.NoError(t, err)
		assert.Empty(t, left)
		_, err = s.GetActivity(ctx, "e2")
		assert.ErrorIs(t, err, internal.ErrNotFound)
		_, err = s.GetDayBucket(ctx, "u1", "2024-06-01")
		assert.ErrorIs(t, err, internal.ErrNotFound)

		other, err := s.ListActivitiesForBucket(ctx, "b2")
		require.NoError(t, err)
		assert.Len(t, other, 1)

		assert.ErrorIs(t, s.DeleteDayBucket(ctx, "b1"), internal.ErrNotFound)
	})
}

func TestListActivities_HalfOpenRangeOrdered(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DataSource) {
		ctx := context.Background()
		require.NoError(t, s.SaveProfile(ctx, testProfile()))
		day2 := day1.AddDate(0, 0, 1)
		_, err := s.AppendActivity(ctx, seedFor(day1, "b1"), entry("late", internal.ActivityConsumption, 100, day1.Add(23*time.Hour+59*time.Minute)))
		require.NoError(t, err)
		_, err = s.AppendActivity(ctx, seedFor(day1, "b1"), entry("early", internal.ActivityConsumption, 100, day1))
		require.NoError(t, err)
		_, err = s.AppendActivity(ctx, seedFor(day2, "b2"), entry("next", internal.ActivityConsumption, 100, day2))
		require.NoError(t, err)

		got, err := s.ListActivities(ctx, "u1", day1, day2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "early", got[0].ID)
		assert.Equal(t, "late", got[1].ID)
	})
}

func TestSaveDayBucket_KeepsIDAndCounter(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DataSource) {
		ctx := context.Background()
		require.NoError(t, s.SaveProfile(ctx, testProfile()))
		_, err := s.AppendActivity(ctx, seedFor(day1, "b1"), entry("e1", internal.ActivityConsumption, 450, day1.Add(time.Hour)))
		require.NoError(t, err)

		update := seedFor(day1, "ignored")
		update.TDEE = 2100
		update.GranularityOffset = 300
		update.GoalSnapshot = internal.GoalGainWeight
		got, err := s.SaveDayBucket(ctx, update)
		require.NoError(t, err)
		assert.Equal(t, "b1", got.ID)
		assert.Equal(t, 2100, got.TDEE)
		assert.Equal(t, 300, got.GranularityOffset)
		assert.Equal(t, internal.GoalGainWeight, got.GoalSnapshot)
		assert.Equal(t, 450, got.ConsumedTotal)

		created, err := s.SaveDayBucket(ctx, seedFor(day1.AddDate(0, 0, 3), "b4"))
		require.NoError(t, err)
		assert.Equal(t, "b4", created.ID)
	})
}

func TestDeleteAll(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DataSource) {
		ctx := context.Background()
		require.NoError(t, s.SaveProfile(ctx, testProfile()))
		_, err := s.AppendActivity(ctx, seedFor(day1, "b1"), entry("e1", internal.ActivityConsumption, 450, day1.Add(time.Hour)))
		require.NoError(t, err)

		require.NoError(t, s.DeleteAll(ctx))

		_, err = s.GetProfile(ctx)
		assert.ErrorIs(t, err, internal.ErrNotFound)
		_, err = s.GetActivity(ctx, "e1")
		assert.ErrorIs(t, err, internal.ErrNotFound)
		buckets, err := s.ListDayBuckets(ctx, "u1", day1.AddDate(-1, 0, 0), day1.AddDate(1, 0, 0))
		require.NoError(t, err)
		assert.Empty(t, buckets)
	})
}

func TestAppendActivity_ConcurrentIncrementsAreNotLost(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s DataSource) {
		ctx := context.Background()
		require.NoError(t, s.SaveProfile(ctx, testProfile()))

		const writers = 20
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.AppendActivity(ctx, seedFor(day1, fmt.Sprintf("b%d", i)),
					entry(fmt.Sprintf("e%02d", i), internal.ActivityConsumption, 10, day1.Add(time.Duration(i)*time.Minute)))
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		b, err := s.GetDayBucket(ctx, "u1", "2024-06-01")
		require.NoError(t, err)
		assert.Equal(t, writers*10, b.ConsumedTotal)
		buckets, err := s.ListDayBuckets(ctx, "u1", day1, day1.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Len(t, buckets, 1)
	})
}
