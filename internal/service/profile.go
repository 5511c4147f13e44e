package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/calendar"
	"github.com/xSteins/PencatatanKalori-sub000/internal/tdee"
)

type ProfileService struct {
	env *Env
}

func NewProfileService(env *Env) *ProfileService {
	return &ProfileService{env: env}
}

// ProfileUpdate holds the fields to change; nil fields are left alone.
type ProfileUpdate struct {
	Age               *int
	Sex               *internal.Sex
	WeightKg          *float64
	HeightCm          *float64
	ActivityLevel     *internal.ActivityLevel
	Goal              *internal.GoalType
	GranularityOffset *int
}

func profileNotFound() error {
	return internal.WrapAppError(404, "no user profile yet, finish onboarding first", internal.ErrProfileNotFound)
}

// loadProfile maps a missing profile to ErrProfileNotFound and any other
// failure to a storage error.
func loadProfile(ctx context.Context, env *Env) (*internal.UserProfile, error) {
	p, err := env.Store.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return nil, profileNotFound()
		}
		return nil, internal.StorageError("load the user profile", err)
	}
	return p, nil
}

// bucketSeed snapshots the profile for the local day containing day.
func bucketSeed(profile *internal.UserProfile, day time.Time, loc *time.Location) *internal.DayBucket {
	start := calendar.StartOfDay(day, loc)
	return &internal.DayBucket{
		ID:                    uuid.NewString(),
		UserID:                profile.ID,
		Day:                   start,
		DayKey:                start.Format(calendar.KeyLayout),
		TDEE:                  tdee.ForProfile(profile),
		GranularityOffset:     profile.GranularityOffset,
		GoalSnapshot:          profile.Goal,
		WeightSnapshot:        profile.WeightKg,
		ActivityLevelSnapshot: profile.ActivityLevel,
	}
}

func (s *ProfileService) Get(ctx context.Context) (*internal.UserProfile, error) {
	return loadProfile(ctx, s.env)
}

// Onboard creates the single profile and today's bucket.
func (s *ProfileService) Onboard(ctx context.Context, req *ProfileRequest) (*internal.UserProfile, error) {
	if _, err := s.env.Store.GetProfile(ctx); err == nil {
		return nil, internal.WrapAppError(409, "a user profile already exists", internal.ErrProfileExists)
	} else if !errors.Is(err, internal.ErrNotFound) {
		return nil, internal.StorageError("load the user profile", err)
	}

	now := s.env.Clock.Now()
	p := &internal.UserProfile{
		ID:                uuid.NewString(),
		Age:               req.Age,
		Sex:               internal.Sex(req.Sex),
		WeightKg:          req.WeightKg,
		HeightCm:          req.HeightCm,
		ActivityLevel:     internal.ActivityLevel(req.ActivityLevel),
		Goal:              internal.GoalType(req.Goal),
		GranularityOffset: req.GranularityOffset,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	p.DailyCalorieTarget = tdee.ForProfile(p)
	if err := s.env.Store.SaveProfile(ctx, p); err != nil {
		return nil, s.writeFailed("save the user profile", err)
	}
	if _, err := s.env.Store.GetOrCreateDayBucket(ctx, bucketSeed(p, now, s.env.Location)); err != nil {
		return nil, s.writeFailed("create today's summary", err)
	}
	s.env.Logger.Infof("profile: onboarded %s (target %d kcal)", p.ID, p.DailyCalorieTarget)
	s.env.Hub.Publish(Change{Kind: ChangeProfile})
	return p, nil
}

// Update applies a partial edit, recomputes the daily target and re-snapshots
// today's bucket. Earlier days keep the values they were created with.
func (s *ProfileService) Update(ctx context.Context, u ProfileUpdate) (*internal.UserProfile, error) {
	p, err := loadProfile(ctx, s.env)
	if err != nil {
		return nil, err
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.Sex != nil {
		p.Sex = *u.Sex
	}
	if u.WeightKg != nil {
		p.WeightKg = *u.WeightKg
	}
	if u.HeightCm != nil {
		p.HeightCm = *u.HeightCm
	}
	if u.ActivityLevel != nil {
		p.ActivityLevel = *u.ActivityLevel
	}
	if u.Goal != nil {
		p.Goal = *u.Goal
	}
	if u.GranularityOffset != nil {
		p.GranularityOffset = *u.GranularityOffset
	}
	now := s.env.Clock.Now()
	p.DailyCalorieTarget = tdee.ForProfile(p)
	p.UpdatedAt = now

	if err := s.env.Store.SaveProfile(ctx, p); err != nil {
		return nil, s.writeFailed("save the user profile", err)
	}
	today, err := s.env.Store.SaveDayBucket(ctx, bucketSeed(p, now, s.env.Location))
	if err != nil {
		return nil, s.writeFailed("recalculate today's target", err)
	}
	s.env.Logger.Infof("profile: updated %s, today's target now %d kcal", p.ID, today.TDEE)
	s.env.Hub.Publish(Change{Kind: ChangeProfile, DayKey: today.DayKey})
	return p, nil
}

func (s *ProfileService) SetGranularity(ctx context.Context, offset int) (*internal.UserProfile, error) {
	return s.Update(ctx, ProfileUpdate{GranularityOffset: &offset})
}

// ClearAll removes the profile and everything that belongs to it.
func (s *ProfileService) ClearAll(ctx context.Context) error {
	if err := s.env.Store.DeleteAll(ctx); err != nil {
		return s.writeFailed("clear all data", err)
	}
	s.env.Logger.Warnf("profile: all data cleared")
	s.env.Hub.Publish(Change{Kind: ChangeProfile})
	return nil
}

func (s *ProfileService) writeFailed(op string, err error) error {
	if errors.Is(err, internal.ErrReadOnly) {
		return internal.WrapAppError(409, "demo mode is on, changes are not saved", err)
	}
	if errors.Is(err, internal.ErrProfileExists) {
		return internal.WrapAppError(409, "a user profile already exists", err)
	}
	wrapped := internal.StorageError(op, err)
	s.env.Reporter.Report(op, err)
	return wrapped
}
