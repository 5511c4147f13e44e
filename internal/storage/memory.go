package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
)

type changeKind int

const (
	changeProfile changeKind = 1 << iota
	changeDays
	changeActivities
)

type MemoryStorage struct {
	profile    *internal.UserProfile
	days       map[string]*internal.DayBucket        // id -> DayBucket
	dayIndex   map[string]string                     // userID|dayKey -> id
	activities map[string]*internal.ActivityLogEntry // id -> entry
	mu         sync.RWMutex
	onChange   func(changeKind)
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		days:       make(map[string]*internal.DayBucket),
		dayIndex:   make(map[string]string),
		activities: make(map[string]*internal.ActivityLogEntry),
	}
}

func dayIndexKey(userID, dayKey string) string { return userID + "|" + dayKey }

// notify must be called with mu held.
func (s *MemoryStorage) notify(kind changeKind) {
	if s.onChange != nil {
		s.onChange(kind)
	}
}

func (s *MemoryStorage) Close() error { return nil }

// --- ProfileRepository ---
func (s *MemoryStorage) GetProfile(ctx context.Context) (*internal.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, internal.ErrNotFound
	}
	p := *s.profile
	return &p, nil
}

func (s *MemoryStorage) SaveProfile(ctx context.Context, profile *internal.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile != nil && s.profile.ID != profile.ID {
		return internal.ErrProfileExists
	}
	p := *profile
	s.profile = &p
	s.notify(changeProfile)
	return nil
}

func (s *MemoryStorage) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nil
	s.days = make(map[string]*internal.DayBucket)
	s.dayIndex = make(map[string]string)
	s.activities = make(map[string]*internal.ActivityLogEntry)
	s.notify(changeProfile | changeDays | changeActivities)
	return nil
}

// --- DayBucketRepository ---
func (s *MemoryStorage) GetDayBucket(ctx context.Context, userID, dayKey string) (*internal.DayBucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.dayIndex[dayIndexKey(userID, dayKey)]
	if !ok {
		return nil, internal.ErrNotFound
	}
	b := *s.days[id]
	return &b, nil
}

func (s *MemoryStorage) GetOrCreateDayBucket(ctx context.Context, seed *internal.DayBucket) (*internal.DayBucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.getOrCreateLocked(seed)
	out := *b
	return &out, nil
}

func (s *MemoryStorage) getOrCreateLocked(seed *internal.DayBucket) *internal.DayBucket {
	key := dayIndexKey(seed.UserID, seed.DayKey)
	if id, ok := s.dayIndex[key]; ok {
		return s.days[id]
	}
	b := *seed
	s.days[b.ID] = &b
	s.dayIndex[key] = b.ID
	s.notify(changeDays)
	return &b
}

func (s *MemoryStorage) SaveDayBucket(ctx context.Context, bucket *internal.DayBucket) (*internal.DayBucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.getOrCreateLocked(bucket)
	b.TDEE = bucket.TDEE
	b.GranularityOffset = bucket.GranularityOffset
	b.GoalSnapshot = bucket.GoalSnapshot
	b.WeightSnapshot = bucket.WeightSnapshot
	b.ActivityLevelSnapshot = bucket.ActivityLevelSnapshot
	s.notify(changeDays)
	out := *b
	return &out, nil
}

func (s *MemoryStorage) ListDayBuckets(ctx context.Context, userID string, start, end time.Time) ([]internal.DayBucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	buckets := []internal.DayBucket{}
	for _, b := range s.days {
		if b.UserID != userID || b.Day.Before(start) || !b.Day.Before(end) {
			continue
		}
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].DayKey < buckets[j].DayKey
	})
	return buckets, nil
}

func (s *MemoryStorage) DeleteDayBucket(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.days[id]
	if !ok {
		return internal.ErrNotFound
	}
	delete(s.days, id)
	delete(s.dayIndex, dayIndexKey(b.UserID, b.DayKey))
	for aid, a := range s.activities {
		if a.DayBucketID == id {
			delete(s.activities, aid)
		}
	}
	s.notify(changeDays | changeActivities)
	return nil
}

// --- ActivityRepository ---
func (s *MemoryStorage) AppendActivity(ctx context.Context, seed *internal.DayBucket, entry *internal.ActivityLogEntry) (*internal.DayBucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.getOrCreateLocked(seed)
	entry.DayBucketID = b.ID
	e := *entry
	s.activities[e.ID] = &e
	if e.Type == internal.ActivityConsumption {
		b.ConsumedTotal += e.Calories
	}
	s.notify(changeDays | changeActivities)
	out := *b
	return &out, nil
}

func (s *MemoryStorage) GetActivity(ctx context.Context, id string) (*internal.ActivityLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activities[id]
	if !ok {
		return nil, internal.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (s *MemoryStorage) UpdateActivity(ctx context.Context, entry *internal.ActivityLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.activities[entry.ID]; !ok {
		return internal.ErrNotFound
	}
	e := *entry
	s.activities[e.ID] = &e
	s.notify(changeActivities)
	return nil
}

func (s *MemoryStorage) DeleteActivity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.activities[id]; !ok {
		return internal.ErrNotFound
	}
	delete(s.activities, id)
	s.notify(changeActivities)
	return nil
}

func (s *MemoryStorage) ListActivities(ctx context.Context, userID string, start, end time.Time) ([]internal.ActivityLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(a *internal.ActivityLogEntry) bool {
		return a.UserID == userID && !a.Timestamp.Before(start) && a.Timestamp.Before(end)
	}), nil
}

func (s *MemoryStorage) ListActivitiesForBucket(ctx context.Context, bucketID string) ([]internal.ActivityLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(a *internal.ActivityLogEntry) bool {
		return a.DayBucketID == bucketID
	}), nil
}

func (s *MemoryStorage) collect(keep func(*internal.ActivityLogEntry) bool) []internal.ActivityLogEntry {
	entries := []internal.ActivityLogEntry{}
	for _, a := range s.activities {
		if keep(a) {
			entries = append(entries, *a)
		}
	}
	sortActivities(entries)
	return entries
}

func sortActivities(entries []internal.ActivityLogEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}

// snapshot copies the current state for persistence.
func (s *MemoryStorage) snapshot() (*internal.UserProfile, []*internal.DayBucket, []*internal.ActivityLogEntry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var profile *internal.UserProfile
	if s.profile != nil {
		p := *s.profile
		profile = &p
	}
	days := make([]*internal.DayBucket, 0, len(s.days))
	for _, b := range s.days {
		c := *b
		days = append(days, &c)
	}
	activities := make([]*internal.ActivityLogEntry, 0, len(s.activities))
	for _, a := range s.activities {
		c := *a
		activities = append(activities, &c)
	}
	return profile, days, activities
}

// restore replaces the state without firing change hooks.
func (s *MemoryStorage) restore(profile *internal.UserProfile, days []*internal.DayBucket, activities []*internal.ActivityLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	for _, b := range days {
		s.days[b.ID] = b
		s.dayIndex[dayIndexKey(b.UserID, b.DayKey)] = b.ID
	}
	for _, a := range activities {
		s.activities[a.ID] = a
	}
}

// --- Compile-time assertions ---
var _ DataSource = (*MemoryStorage)(nil)
