package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/example/ride-sim/internal/monitor"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("storage: run not found")

// Run is one completed simulation run and its report.
type Run struct {
	ID              string         `json:"id"`
	ScriptHash      string         `json:"script_hash"`
	Report          monitor.Report `json:"report"`
	EventsProcessed int            `json:"events_processed"`
	CreatedAt       time.Time      `json:"created_at"`
}

// RunStore defines persistence operations for simulation runs.
type RunStore interface {
	SaveRun(r *Run) error
	GetRun(id string) (*Run, error)
}

// MemoryStore keeps runs in process memory; the default when no database
// is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*Run)}
}

func (m *MemoryStore) SaveRun(r *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[r.ID] = r
	return nil
}

func (m *MemoryStore) GetRun(id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}
