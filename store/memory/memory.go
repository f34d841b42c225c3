// Package memory provides an in-memory Persister.
package memory

import (
	"context"
	"sync"

	"github.com/warp/payroll-ledger/payroll"
)

// =============================================================================
// MEMORY PERSISTER - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps the last saved snapshot. Snapshots are copied on the way in
// and on the way out.
type Memory struct {
	mu    sync.RWMutex
	snap  *payroll.Snapshot
	saves int

	// FailSave, when set, is returned by the next calls to Save.
	FailSave error
}

func New() *Memory {
	return &Memory{}
}

// NewWith returns a persister that already holds snap.
func NewWith(snap *payroll.Snapshot) *Memory {
	return &Memory{snap: snap.Clone()}
}

// Load returns a copy of the last saved snapshot, or nil when nothing was
// saved.
func (m *Memory) Load(_ context.Context) (*payroll.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return nil, nil
	}
	return m.snap.Clone(), nil
}

// Save replaces the held snapshot.
func (m *Memory) Save(_ context.Context, snap *payroll.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.snap = snap.Clone()
	m.saves++
	return nil
}

// Saves reports how many saves succeeded.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// SetFailSave makes subsequent saves fail with err; nil restores them.
func (m *Memory) SetFailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailSave = err
}
