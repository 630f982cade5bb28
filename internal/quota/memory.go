package quota

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps quota records in a process-local map.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Hit implements Store.
func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || !now.Before(rec.WindowStart.Add(window)) {
		rec = &Record{WindowStart: now}
		s.records[key] = rec
	}
	rec.Count++
	return *rec, nil
}

// Len returns the number of tracked identities.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Cleanup drops records whose window ended before now.
func (s *MemoryStore) Cleanup(now time.Time, window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, rec := range s.records {
		if !now.Before(rec.WindowStart.Add(window)) {
			delete(s.records, k)
		}
	}
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval, window time.Duration) {
	if interval <= 0 {
		return
	}

	t := time.NewTicker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				s.Cleanup(now, window)
			}
		}
	}()
}
