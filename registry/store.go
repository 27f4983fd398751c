package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/corekit/appcore/errors"
)

// Store is a process-wide mapping from string keys to typed slots.
// Each slot is protected by its own mutex, so operations on distinct
// keys never serialize against each other; the slot map itself is
// guarded by an RWMutex held only for lookup and insertion.
type Store struct {
	mu    sync.RWMutex
	slots map[string]*slot
}

// slot holds one value of a single fixed type. The type is pinned at
// registration and never changes for the slot's lifetime.
type slot struct {
	mu    sync.Mutex
	value any
	typ   reflect.Type
}

// New creates an empty store.
func New() *Store {
	return &Store{
		slots: make(map[string]*slot),
	}
}

var (
	defaultStore *Store
	defaultOnce  sync.Once
)

// Default returns the process-wide store instance, creating it on
// first use.
func Default() *Store {
	defaultOnce.Do(func() {
		defaultStore = New()
	})
	return defaultStore
}

func (s *Store) lookup(key string) (*slot, bool) {
	s.mu.RLock()
	sl, ok := s.slots[key]
	s.mu.RUnlock()
	return sl, ok
}

// Exists reports whether a slot is registered under key.
func (s *Store) Exists(key string) bool {
	_, ok := s.lookup(key)
	return ok
}

// Remove drops the slot for key and reports whether it existed.
// The value is unreachable afterwards; callers owning handles obtained
// through closures must not retain them past removal.
func (s *Store) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[key]; !ok {
		return false
	}
	delete(s.slots, key)
	return true
}

// Len returns the number of registered slots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

// Keys returns a snapshot of the registered keys (order unspecified).
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.slots))
	for k := range s.slots {
		keys = append(keys, k)
	}
	return keys
}

// Register creates a new slot holding value. It fails with
// KindAlreadyExists if the key is occupied: duplicate registration is
// exceptional, and the orchestrator's single-instance guard depends on
// that failure. Use Put for values republished every iteration.
func Register[T any](s *Store, key string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[key]; ok {
		return errors.AlreadyExists(errors.PhaseStore, key)
	}
	s.slots[key] = &slot{
		value: value,
		typ:   reflect.TypeOf(&value).Elem(),
	}
	return nil
}

// Put registers the slot on first use and overwrites its value on
// subsequent calls. The slot's stored type is pinned by the first Put
// (or Register); a Put with a different type fails with
// KindTypeMismatch rather than silently retyping the slot.
func Put[T any](s *Store, key string, value T) error {
	want := reflect.TypeOf(&value).Elem()
	for {
		s.mu.Lock()
		sl, ok := s.slots[key]
		if !ok {
			s.slots[key] = &slot{
				value: value,
				typ:   want,
			}
			s.mu.Unlock()
			return nil
		}
		s.mu.Unlock()

		sl.mu.Lock()
		if !s.holds(key, sl) {
			// Removed between the map lookup and taking the slot
			// lock; writing here would vanish with the orphan.
			sl.mu.Unlock()
			continue
		}
		if sl.typ != want {
			sl.mu.Unlock()
			return errors.TypeMismatch(errors.PhaseStore, key, sl.typ.String(), want.String())
		}
		sl.value = value
		sl.mu.Unlock()
		return nil
	}
}

// holds reports whether sl is still the slot registered under key.
// Nothing acquires the map lock while holding a slot lock elsewhere in
// this package, so taking it here cannot invert an ordering.
func (s *Store) holds(key string, sl *slot) bool {
	s.mu.RLock()
	cur, ok := s.slots[key]
	s.mu.RUnlock()
	return ok && cur == sl
}

// Get returns a snapshot copy of the value stored under key. It
// reports false if the key is absent or the stored type is not T.
func Get[T any](s *Store, key string) (T, bool) {
	var zero T
	sl, ok := s.lookup(key)
	if !ok {
		return zero, false
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	v, ok := sl.value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// GetOr returns the stored value or fallback when the key is absent or
// holds a different type.
func GetOr[T any](s *Store, key string, fallback T) T {
	if v, ok := Get[T](s, key); ok {
		return v
	}
	return fallback
}

// WithRead runs fn with a pointer to the stored value while holding the
// slot's lock, and returns fn's result. It reports false if the key is
// absent or the stored type is not T; fn is not called in that case.
//
// fn must treat the value as read-only and must not re-enter the store
// on the same key; doing so deadlocks. That is a caller obligation,
// not enforced here.
func WithRead[T, R any](s *Store, key string, fn func(*T) R) (R, bool) {
	return apply(s, key, fn)
}

// WithMutate runs fn with exclusive, mutable access to the stored
// value while holding the slot's lock, and returns fn's result. The
// same absence/type-mismatch and re-entrancy rules as WithRead apply.
func WithMutate[T, R any](s *Store, key string, fn func(*T) R) (R, bool) {
	return apply(s, key, fn)
}

// apply backs WithRead and WithMutate: both hold the slot's exclusive
// lock, the split exists to make call sites state their intent.
func apply[T, R any](s *Store, key string, fn func(*T) R) (R, bool) {
	var zero R
	sl, ok := s.lookup(key)
	if !ok {
		return zero, false
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if !s.holds(key, sl) {
		// Removed while we waited for the slot lock; reporting
		// success would pretend a mutation the store never saw.
		return zero, false
	}
	v, ok := sl.value.(T)
	if !ok {
		return zero, false
	}
	r := fn(&v)
	sl.value = v
	return r, true
}

// Describe returns a diagnostic one-liner for the slot under key.
func (s *Store) Describe(key string) string {
	sl, ok := s.lookup(key)
	if !ok {
		return fmt.Sprintf("%s: <absent>", key)
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return fmt.Sprintf("%s: %s", key, sl.typ)
}
