/*
store.go - In-memory ledger store with full-snapshot persistence

PURPOSE:
  Holds every employee record indexed by name, plus the operator
  credentials, and writes the whole thing back through a Persister after
  each mutation. There is no incremental log: a save is a full snapshot.

LIFECYCLE:
  store := payroll.NewStore(jsonfile.New("employee_data.json"))
  if err := store.Load(ctx); err != nil {
      // store is at default (empty + bootstrap credential); report and go on
  }
  store.Register(ctx, ...)   // persisted before returning

ROLLBACK:
  A mutation snapshots the in-memory state first. If the mutation or the
  save fails, the snapshot is restored so memory and disk do not diverge.

CONCURRENCY:
  A single RWMutex. Reads return copies, never live records.

SEE ALSO:
  - ledger.go: The mutating operations
  - store/jsonfile, store/sqlite, store/memory: Persister implementations
*/
package payroll

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/warp/payroll-ledger/generic"
)

// =============================================================================
// PERSISTER - Where snapshots go
// =============================================================================

// Persister reads and writes a full snapshot.
type Persister interface {
	// Load returns the persisted snapshot, or (nil, nil) when nothing has
	// been persisted yet.
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the persisted snapshot.
	Save(ctx context.Context, snap *Snapshot) error
}

// Snapshot is the unit of persistence.
type Snapshot struct {
	Employees map[string]*Employee
	Users     map[string]string // username -> credential hash
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Employees: make(map[string]*Employee),
		Users:     make(map[string]string),
	}
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	c := NewSnapshot()
	for name, e := range s.Employees {
		c.Employees[name] = e.Clone()
	}
	for user, hash := range s.Users {
		c.Users[user] = hash
	}
	return c
}

// =============================================================================
// STORE
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	persister Persister
	log       logrus.FieldLogger

	bootstrapUser string
	bootstrapHash string

	employees map[string]*Employee
	users     map[string]string
}

type Option func(*Store)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.log = l }
}

// WithBootstrapCredential sets the credential seeded into an empty store.
func WithBootstrapCredential(user, hash string) Option {
	return func(s *Store) {
		s.bootstrapUser = user
		s.bootstrapHash = hash
	}
}

// NewStore creates a store at its default state. A nil persister keeps
// everything in memory.
func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.employees = make(map[string]*Employee)
	s.users = make(map[string]string)
	s.seedCredentialLocked()
}

func (s *Store) seedCredentialLocked() {
	if len(s.users) == 0 && s.bootstrapUser != "" {
		s.users[s.bootstrapUser] = s.bootstrapHash
	}
}

// Load replaces the in-memory state with the persisted snapshot. On failure
// the store is reset to default and a PersistenceError is returned.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	if s.persister == nil {
		return nil
	}

	snap, err := s.persister.Load(ctx)
	if err != nil {
		err = asPersistenceError("load", err)
		s.log.WithError(err).Error("failed to load ledger, starting empty")
		return err
	}
	if snap == nil {
		return nil
	}

	for name, e := range snap.Employees {
		e = e.Clone()
		e.Name = name
		s.employees[name] = e
	}
	for user, hash := range snap.Users {
		s.users[user] = hash
	}
	s.seedCredentialLocked()

	s.log.WithFields(logrus.Fields{
		"employees": len(s.employees),
		"users":     len(s.users),
	}).Debug("ledger loaded")
	return nil
}

// Save writes the current state.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		err = asPersistenceError("save", err)
		s.log.WithError(err).Error("failed to save ledger")
		return err
	}
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() *Snapshot {
	snap := &Snapshot{Employees: s.employees, Users: s.users}
	return snap.Clone()
}

func (s *Store) restoreLocked(snap *Snapshot) {
	s.employees = snap.Employees
	s.users = snap.Users
}

// mutate runs fn under the write lock and persists the result. Any failure
// restores the state from before fn ran.
func (s *Store) mutate(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()
	if err := fn(); err != nil {
		s.restoreLocked(before)
		return err
	}
	if err := s.saveLocked(ctx); err != nil {
		s.restoreLocked(before)
		return err
	}
	return nil
}

func asPersistenceError(op string, err error) error {
	var pe *generic.PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &generic.PersistenceError{Op: op, Err: err}
}

// =============================================================================
// READS
// =============================================================================

// Employee returns a copy of the named record.
func (s *Store) Employee(name string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookupLocked(name)
	if err != nil {
		return nil, err
	}
	return e.Clone(), nil
}

// Employees returns copies of every record sorted by name.
func (s *Store) Employees() []*Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Credential returns the stored hash for user.
func (s *Store) Credential(user string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.users[user]
	return hash, ok
}

// SetCredential stores or replaces a credential hash.
func (s *Store) SetCredential(ctx context.Context, user, hash string) error {
	if user == "" {
		return &generic.InvalidInputError{Field: "username", Reason: "required"}
	}
	return s.mutate(ctx, func() error {
		s.users[user] = hash
		return nil
	})
}

func (s *Store) lookupLocked(name string) (*Employee, error) {
	e, ok := s.employees[name]
	if !ok {
		return nil, &generic.NotFoundError{Name: name}
	}
	return e, nil
}

func (s *Store) lookupKindLocked(name string, kind Kind) (*Employee, error) {
	e, err := s.lookupLocked(name)
	if err != nil {
		return nil, err
	}
	if e.Kind != kind {
		return nil, &generic.KindMismatchError{Name: name, Want: string(kind), Got: string(e.Kind)}
	}
	return e, nil
}
