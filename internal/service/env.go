package service

import (
	"time"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/storage"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Env carries the collaborators shared by every service.
type Env struct {
	Store    storage.DataSource
	Clock    Clock
	Location *time.Location
	Logger   internal.Logger
	Hub      *Hub
	Reporter *Reporter
}

// NewEnv fills unset optional collaborators with defaults.
func NewEnv(store storage.DataSource, clock Clock, loc *time.Location, logger internal.Logger) *Env {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &Env{
		Store:    store,
		Clock:    clock,
		Location: loc,
		Logger:   logger,
		Hub:      NewHub(),
		Reporter: NewReporter(logger),
	}
}
