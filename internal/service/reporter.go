package service

import (
	"sync"
	"time"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
)

// Reporter remembers the most recent failure for the debug view.
type Reporter struct {
	mu     sync.RWMutex
	last   string
	at     time.Time
	logger internal.Logger
}

type ReportedError struct {
	Message    string    `json:"message"`
	ReportedAt time.Time `json:"reported_at"`
}

func NewReporter(logger internal.Logger) *Reporter {
	return &Reporter{logger: logger}
}

func (r *Reporter) Report(op string, err error) {
	if err == nil {
		return
	}
	r.logger.Errorf("%s: %v", op, err)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = op + ": " + err.Error()
	r.at = time.Now()
}

// Last returns nil when nothing has been reported.
func (r *Reporter) Last() *ReportedError {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.last == "" {
		return nil
	}
	return &ReportedError{Message: r.last, ReportedAt: r.at}
}
