package storage

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
)

// FileStorage keeps everything in memory and writes one JSON file per entity
// type from debounced background workers.
type FileStorage struct {
	*MemoryStorage
	profileFile    string
	daysFile       string
	activitiesFile string
	saveProfile    chan struct{}
	saveDays       chan struct{}
	saveActivities chan struct{}
	shutdownChan   chan struct{}
	saveDelay      time.Duration
	workers        sync.WaitGroup
	writeMu        sync.Mutex
	closeOnce      sync.Once
	logger         internal.Logger
}

func NewFileStorage(profileFile, daysFile, activitiesFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		MemoryStorage:  NewMemoryStorage(),
		profileFile:    profileFile,
		daysFile:       daysFile,
		activitiesFile: activitiesFile,
		saveProfile:    make(chan struct{}, 1),
		saveDays:       make(chan struct{}, 1),
		saveActivities: make(chan struct{}, 1),
		shutdownChan:   make(chan struct{}),
		saveDelay:      500 * time.Millisecond,
		logger:         logger,
	}

	for _, f := range []string{profileFile, daysFile, activitiesFile} {
		if err := os.MkdirAll(filepath.Dir(f), 0o755); err != nil {
			logger.Errorf("storage: failed to create data dir: %v", err)
			return nil, err
		}
	}

	var profile *internal.UserProfile
	if err := loadJSON(profileFile, &profile); err != nil {
		logger.Errorf("storage: failed to load profile: %v", err)
		return nil, err
	}
	var days []*internal.DayBucket
	if err := loadJSON(daysFile, &days); err != nil {
		logger.Errorf("storage: failed to load day buckets: %v", err)
		return nil, err
	}
	var activities []*internal.ActivityLogEntry
	if err := loadJSON(activitiesFile, &activities); err != nil {
		logger.Errorf("storage: failed to load activities: %v", err)
		return nil, err
	}
	s.restore(profile, days, activities)
	s.onChange = s.signal

	s.workers.Add(3)
	go s.saveWorker(s.saveProfile, "profile", s.writeProfile)
	go s.saveWorker(s.saveDays, "day buckets", s.writeDays)
	go s.saveWorker(s.saveActivities, "activities", s.writeActivities)

	return s, nil
}

func loadJSON(path string, into interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(into); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

// signal runs under the memory lock, so it must not block.
func (s *FileStorage) signal(kind changeKind) {
	if kind&changeProfile != 0 {
		trySignal(s.saveProfile)
	}
	if kind&changeDays != 0 {
		trySignal(s.saveDays)
	}
	if kind&changeActivities != 0 {
		trySignal(s.saveActivities)
	}
}

func trySignal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (s *FileStorage) writeProfile() error {
	profile, _, _ := s.snapshot()
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return atomicWriteFileJSON(s.profileFile, profile)
}

func (s *FileStorage) writeDays() error {
	_, days, _ := s.snapshot()
	sort.Slice(days, func(i, j int) bool { return days[i].DayKey < days[j].DayKey })
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return atomicWriteFileJSON(s.daysFile, days)
}

func (s *FileStorage) writeActivities() error {
	_, _, activities := s.snapshot()
	sort.Slice(activities, func(i, j int) bool { return activities[i].Timestamp.Before(activities[j].Timestamp) })
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return atomicWriteFileJSON(s.activitiesFile, activities)
}

// saveWorker batches save operations to avoid frequent disk writes.
func (s *FileStorage) saveWorker(ch chan struct{}, name string, save func() error) {
	defer s.workers.Done()
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-ch:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", name, err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

// Close stops the workers and saves pending data synchronously.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		s.workers.Wait()
		err = errors.Join(s.writeProfile(), s.writeDays(), s.writeActivities())
	})
	return err
}

// --- Compile-time assertions ---
var _ DataSource = (*FileStorage)(nil)
