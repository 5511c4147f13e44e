package service

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/calendar"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// LogActivityRequest is the presentation-side form for a new food or workout.
type LogActivityRequest struct {
	Name       string `json:"name" validate:"required,notblank"`
	Calories   int    `json:"calories" validate:"required,gt=0"`
	Type       string `json:"type" validate:"required,oneof=CONSUMPTION WORKOUT"`
	PictureRef string `json:"picture_ref,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Date       string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func ValidateLogActivityRequest(req *LogActivityRequest) error {
	return validate.Struct(req)
}

func (r *LogActivityRequest) Input(loc *time.Location) (LogActivityInput, error) {
	in := LogActivityInput{
		Name:       strings.TrimSpace(r.Name),
		Calories:   r.Calories,
		Type:       internal.ActivityType(r.Type),
		PictureRef: r.PictureRef,
		Notes:      r.Notes,
	}
	if r.Date != "" {
		d, err := calendar.ParseKey(r.Date, loc)
		if err != nil {
			return LogActivityInput{}, err
		}
		in.TargetDate = &d
	}
	return in, nil
}

type UpdateActivityRequest struct {
	Name       string     `json:"name" validate:"required,notblank"`
	Calories   int        `json:"calories" validate:"required,gt=0"`
	Type       string     `json:"type" validate:"required,oneof=CONSUMPTION WORKOUT"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	PictureRef string     `json:"picture_ref,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

func ValidateUpdateActivityRequest(req *UpdateActivityRequest) error {
	return validate.Struct(req)
}

func (r *UpdateActivityRequest) Entry(id string) *internal.ActivityLogEntry {
	e := &internal.ActivityLogEntry{
		ID:         id,
		Name:       strings.TrimSpace(r.Name),
		Calories:   r.Calories,
		Type:       internal.ActivityType(r.Type),
		PictureRef: r.PictureRef,
		Notes:      r.Notes,
	}
	if r.Timestamp != nil {
		e.Timestamp = *r.Timestamp
	}
	return e
}

type ProfileRequest struct {
	Age               int     `json:"age" validate:"required,gt=0,lte=130"`
	Sex               string  `json:"sex" validate:"required,oneof=MALE FEMALE"`
	WeightKg          float64 `json:"weight_kg" validate:"required,gt=0"`
	HeightCm          float64 `json:"height_cm" validate:"required,gt=0"`
	ActivityLevel     string  `json:"activity_level" validate:"required,oneof=SEDENTARY LIGHT MODERATE ACTIVE VERY_ACTIVE"`
	Goal              string  `json:"goal" validate:"required,oneof=REDUCE_WEIGHT GAIN_WEIGHT"`
	GranularityOffset int     `json:"granularity_offset" validate:"gte=0,lte=500"`
}

func ValidateProfileRequest(req *ProfileRequest) error {
	return validate.Struct(req)
}

// ProfileUpdateRequest edits only the fields that are present.
type ProfileUpdateRequest struct {
	Age               *int     `json:"age,omitempty" validate:"omitempty,gt=0,lte=130"`
	Sex               *string  `json:"sex,omitempty" validate:"omitempty,oneof=MALE FEMALE"`
	WeightKg          *float64 `json:"weight_kg,omitempty" validate:"omitempty,gt=0"`
	HeightCm          *float64 `json:"height_cm,omitempty" validate:"omitempty,gt=0"`
	ActivityLevel     *string  `json:"activity_level,omitempty" validate:"omitempty,oneof=SEDENTARY LIGHT MODERATE ACTIVE VERY_ACTIVE"`
	Goal              *string  `json:"goal,omitempty" validate:"omitempty,oneof=REDUCE_WEIGHT GAIN_WEIGHT"`
	GranularityOffset *int     `json:"granularity_offset,omitempty" validate:"omitempty,gte=0,lte=500"`
}

func ValidateProfileUpdateRequest(req *ProfileUpdateRequest) error {
	return validate.Struct(req)
}

func (r *ProfileUpdateRequest) Update() ProfileUpdate {
	u := ProfileUpdate{
		Age:               r.Age,
		WeightKg:          r.WeightKg,
		HeightCm:          r.HeightCm,
		GranularityOffset: r.GranularityOffset,
	}
	if r.Sex != nil {
		s := internal.Sex(*r.Sex)
		u.Sex = &s
	}
	if r.ActivityLevel != nil {
		l := internal.ActivityLevel(*r.ActivityLevel)
		u.ActivityLevel = &l
	}
	if r.Goal != nil {
		g := internal.GoalType(*r.Goal)
		u.Goal = &g
	}
	return u
}

// GranularityRequest carries the slider value, which the UI keeps within 0..500.
type GranularityRequest struct {
	Offset *int `json:"offset" validate:"required,gte=0,lte=500"`
}

func ValidateGranularityRequest(req *GranularityRequest) error {
	return validate.Struct(req)
}

type DemoModeRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func ValidateDemoModeRequest(req *DemoModeRequest) error {
	return validate.Struct(req)
}

// TDEERequest is the query string of the stateless calculator.
type TDEERequest struct {
	WeightKg      float64 `form:"weight" validate:"required,gt=0"`
	HeightCm      float64 `form:"height" validate:"required,gt=0"`
	Age           int     `form:"age" validate:"required,gt=0,lte=130"`
	Sex           string  `form:"sex" validate:"required,oneof=MALE FEMALE"`
	ActivityLevel string  `form:"activity_level" validate:"required,oneof=SEDENTARY LIGHT MODERATE ACTIVE VERY_ACTIVE"`
	Offset        int     `form:"offset" validate:"gte=0,lte=500"`
}

func ValidateTDEERequest(req *TDEERequest) error {
	return validate.Struct(req)
}
