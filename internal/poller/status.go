package poller

import (
	"sync"
	"time"
)

type statusCode string

const (
	StatusCodeInitialising statusCode = "init"
	StatusCodeOk           statusCode = "ok"
	StatusCodePollError    statusCode = "poll_error"
	StatusCodeStopped      statusCode = "stopped"
)

// Status is the last known state of a poller, it is safe to read from
// other goroutines while the poller runs
type Status struct {
	code          statusCode
	lastChangedAt time.Time
	lastUpdatedAt time.Time
	err           error
	offset        int64
	mutex         sync.Mutex
}

func newStatus(offset int64) *Status {
	now := time.Now()
	return &Status{
		code:          StatusCodeInitialising,
		lastChangedAt: now,
		lastUpdatedAt: now,
		offset:        offset,
	}
}

func (s *Status) GetCode() statusCode {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.code
}

func (s *Status) GetError() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.err
}

func (s *Status) GetLastChangedAt() time.Time {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.lastChangedAt
}

func (s *Status) GetLastUpdatedAt() time.Time {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.lastUpdatedAt
}

func (s *Status) GetOffset() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.offset
}

func (s *Status) set(code statusCode, err error) {
	s.mutex.Lock()
	if code != s.code {
		s.lastChangedAt = time.Now()
	}
	s.code = code
	s.err = err
	s.lastUpdatedAt = time.Now()
	s.mutex.Unlock()
}

func (s *Status) setOffset(offset int64) {
	s.mutex.Lock()
	s.offset = offset
	s.mutex.Unlock()
}
