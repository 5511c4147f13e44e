package internal

import "time"

type ActivityType string

const (
	ActivityConsumption ActivityType = "CONSUMPTION"
	ActivityWorkout     ActivityType = "WORKOUT"
)

func (t ActivityType) Valid() bool {
	return t == ActivityConsumption || t == ActivityWorkout
}

type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

func (s Sex) IsMale() bool { return s == SexMale }

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "SEDENTARY"
	ActivityLight      ActivityLevel = "LIGHT"
	ActivityModerate   ActivityLevel = "MODERATE"
	ActivityActive     ActivityLevel = "ACTIVE"
	ActivityVeryActive ActivityLevel = "VERY_ACTIVE"
)

type activityLevelInfo struct {
	multiplier  float64
	label       string
	description string
}

// activityLevels is the single source of truth for multipliers and display text.
var activityLevels = map[ActivityLevel]activityLevelInfo{
	ActivitySedentary:  {1.2, "Sedentary", "Little or no exercise"},
	ActivityLight:      {1.375, "Lightly active", "Light exercise 1-3 days a week"},
	ActivityModerate:   {1.55, "Moderately active", "Moderate exercise 3-5 days a week"},
	ActivityActive:     {1.725, "Very active", "Hard exercise 6-7 days a week"},
	ActivityVeryActive: {1.9, "Extra active", "Very hard exercise or a physical job"},
}

func (l ActivityLevel) Valid() bool {
	_, ok := activityLevels[l]
	return ok
}

// Multiplier returns 0 for unknown levels.
func (l ActivityLevel) Multiplier() float64 { return activityLevels[l].multiplier }

func (l ActivityLevel) Label() string { return activityLevels[l].label }

func (l ActivityLevel) Description() string { return activityLevels[l].description }

// ActivityLevels lists the levels from least to most active.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive}
}

type GoalType string

const (
	GoalReduceWeight GoalType = "REDUCE_WEIGHT"
	GoalGainWeight   GoalType = "GAIN_WEIGHT"
)

var goalLabels = map[GoalType]string{
	GoalReduceWeight: "Lose weight",
	GoalGainWeight:   "Gain weight",
}

func (g GoalType) Valid() bool {
	_, ok := goalLabels[g]
	return ok
}

func (g GoalType) Label() string { return goalLabels[g] }

// UserProfile is the single tracked individual.
type UserProfile struct {
	ID                 string        `json:"id"`
	Age                int           `json:"age"`
	Sex                Sex           `json:"sex"`
	WeightKg           float64       `json:"weight_kg"`
	HeightCm           float64       `json:"height_cm"`
	ActivityLevel      ActivityLevel `json:"activity_level"`
	Goal               GoalType      `json:"goal"`
	GranularityOffset  int           `json:"granularity_offset"`
	DailyCalorieTarget int           `json:"daily_calorie_target"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

type ActivityLogEntry struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	DayBucketID string       `json:"day_bucket_id,omitempty"`
	Type        ActivityType `json:"type"`
	Timestamp   time.Time    `json:"timestamp"`
	Name        string       `json:"name"`
	Calories    int          `json:"calories"`
	Notes       string       `json:"notes,omitempty"`
	PictureRef  string       `json:"picture_ref,omitempty"`
}

// DayBucket holds one local calendar day's target snapshot and the running
// consumed total. Day is local midnight; DayKey is its YYYY-MM-DD form.
type DayBucket struct {
	ID                    string        `json:"id"`
	UserID                string        `json:"user_id"`
	Day                   time.Time     `json:"day"`
	DayKey                string        `json:"day_key"`
	TDEE                  int           `json:"tdee"`
	GranularityOffset     int           `json:"granularity_offset"`
	ConsumedTotal         int           `json:"consumed_total"`
	GoalSnapshot          GoalType      `json:"goal_snapshot"`
	WeightSnapshot        float64       `json:"weight_snapshot"`
	ActivityLevelSnapshot ActivityLevel `json:"activity_level_snapshot"`
}
