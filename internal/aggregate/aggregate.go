// Package aggregate rolls a day's activity entries into a calorie summary.
package aggregate

import (
	"time"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
)

type DaySummary struct {
	DayBucketID  string    `json:"day_bucket_id"`
	Day          time.Time `json:"day"`
	DayKey       string    `json:"day_key"`
	Target       int       `json:"target"`
	Consumed     int       `json:"consumed"`
	Burned       int       `json:"burned"`
	Net          int       `json:"net"`
	Remaining    int       `json:"remaining"`
	MealCount    int       `json:"meal_count"`
	WorkoutCount int       `json:"workout_count"`
	// ConsumedTotal is the bucket's stored counter, which can drift from
	// Consumed after edits or deletes.
	ConsumedTotal int `json:"consumed_total"`
}

// CalculateNetCalories never goes below zero.
func CalculateNetCalories(consumed, burned int) int {
	return max(0, consumed-burned)
}

// CalculateRemainingCalories is negative when the day is over target.
func CalculateRemainingCalories(target, consumed, burned int) int {
	return target - consumed + burned
}

// SummarizeDay projects bucket and entries into a DaySummary without
// modifying either.
func SummarizeDay(bucket *internal.DayBucket, entries []internal.ActivityLogEntry) DaySummary {
	s := DaySummary{}
	if bucket != nil {
		s.DayBucketID = bucket.ID
		s.Day = bucket.Day
		s.DayKey = bucket.DayKey
		s.Target = bucket.TDEE
		s.ConsumedTotal = bucket.ConsumedTotal
	}
	for _, e := range entries {
		switch e.Type {
		case internal.ActivityConsumption:
			s.Consumed += e.Calories
			s.MealCount++
		case internal.ActivityWorkout:
			s.Burned += e.Calories
			s.WorkoutCount++
		}
	}
	s.Net = CalculateNetCalories(s.Consumed, s.Burned)
	s.Remaining = CalculateRemainingCalories(s.Target, s.Consumed, s.Burned)
	return s
}
