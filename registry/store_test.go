package registry

import (
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/corekit/appcore/errors"
)

func TestStore_RegisterGet(t *testing.T) {
	s := New()

	if err := Register(s, "k", 42); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	v, ok := Get[int](s, "k")
	if !ok {
		t.Fatal("Get failed")
	}
	if v != 42 {
		t.Fatalf("Expected 42, got %v", v)
	}

	if !s.Exists("k") {
		t.Fatal("Exists should report true")
	}
	if s.Exists("missing") {
		t.Fatal("Exists should report false for missing key")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestStore_RegisterDuplicate(t *testing.T) {
	s := New()

	if err := Register(s, "k", "first"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err := Register(s, "k", "second")
	if err == nil {
		t.Fatal("duplicate Register should fail")
	}
	if !errors.Is(err, &apperrors.Error{Phase: apperrors.PhaseStore, Kind: apperrors.KindAlreadyExists}) {
		t.Fatalf("expected already_exists, got %v", err)
	}

	// First value must be intact.
	v, ok := Get[string](s, "k")
	if !ok || v != "first" {
		t.Fatalf("first value lost: %v %v", v, ok)
	}
}

func TestStore_TypeSafety(t *testing.T) {
	s := New()

	if err := Register(s, "k", 42); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Reading with the wrong type must fail, never reinterpret.
	if _, ok := Get[string](s, "k"); ok {
		t.Fatal("Get with wrong type should fail")
	}
	if _, ok := WithRead(s, "k", func(v *string) int { return len(*v) }); ok {
		t.Fatal("WithRead with wrong type should fail")
	}
	if _, ok := WithMutate(s, "k", func(v *string) int { return 0 }); ok {
		t.Fatal("WithMutate with wrong type should fail")
	}

	// The correct type still works.
	if v, ok := Get[int](s, "k"); !ok || v != 42 {
		t.Fatalf("Get[int] = %v %v", v, ok)
	}
}

func TestStore_Put(t *testing.T) {
	s := New()

	// Put creates the slot on first use.
	if err := Put(s, "dt", 16*time.Millisecond); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Put overwrites with the same type.
	if err := Put(s, "dt", 20*time.Millisecond); err != nil {
		t.Fatalf("Put overwrite failed: %v", err)
	}
	if v, _ := Get[time.Duration](s, "dt"); v != 20*time.Millisecond {
		t.Fatalf("overwrite not visible: %v", v)
	}

	// Put must not silently change the slot's stored type.
	err := Put(s, "dt", "twenty")
	if err == nil {
		t.Fatal("Put with different type should fail")
	}
	if !errors.Is(err, &apperrors.Error{Phase: apperrors.PhaseStore, Kind: apperrors.KindTypeMismatch}) {
		t.Fatalf("expected type_mismatch, got %v", err)
	}
	if v, _ := Get[time.Duration](s, "dt"); v != 20*time.Millisecond {
		t.Fatalf("failed Put must not alter slot: %v", v)
	}
}

func TestStore_WithMutate(t *testing.T) {
	s := New()

	type table map[string]int
	if err := Register(s, "names", table{}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	n, ok := WithMutate(s, "names", func(m *table) int {
		(*m)["render"] = 2
		return len(*m)
	})
	if !ok {
		t.Fatal("WithMutate failed")
	}
	if n != 1 {
		t.Fatalf("closure result = %d, want 1", n)
	}

	v, ok := WithRead(s, "names", func(m *table) int { return (*m)["render"] })
	if !ok || v != 2 {
		t.Fatalf("mutation not visible: %v %v", v, ok)
	}
}

func TestStore_WithMutateScalar(t *testing.T) {
	s := New()

	if err := Register(s, "n", 1); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Scalar values are written back after the closure returns.
	WithMutate(s, "n", func(v *int) struct{} {
		*v = 7
		return struct{}{}
	})

	if v, _ := Get[int](s, "n"); v != 7 {
		t.Fatalf("write-back failed: %v", v)
	}
}

func TestStore_AbsentKey(t *testing.T) {
	s := New()

	if _, ok := Get[int](s, "missing"); ok {
		t.Fatal("Get on absent key should fail")
	}
	called := false
	if _, ok := WithRead(s, "missing", func(v *int) int { called = true; return *v }); ok {
		t.Fatal("WithRead on absent key should fail")
	}
	if called {
		t.Fatal("closure must not run for absent key")
	}
	if GetOr(s, "missing", 99) != 99 {
		t.Fatal("GetOr should return fallback")
	}
}

func TestStore_Remove(t *testing.T) {
	s := New()

	Register(s, "k", 1)
	if !s.Remove("k") {
		t.Fatal("Remove should report true")
	}
	if s.Remove("k") {
		t.Fatal("second Remove should report false")
	}
	if s.Exists("k") {
		t.Fatal("key should be gone")
	}

	// The key is reusable after removal, with a fresh type.
	if err := Register(s, "k", "now a string"); err != nil {
		t.Fatalf("re-Register after Remove failed: %v", err)
	}
}

func TestStore_PutRemoveRace(t *testing.T) {
	s := New()
	Register(s, "k", 1)

	// Force the narrow interleaving: Put finds the slot, then the key
	// is removed before Put can take the slot lock. Put must notice
	// and re-create the slot instead of writing into the orphan.
	sl, ok := s.lookup("k")
	if !ok {
		t.Fatal("slot missing")
	}
	sl.mu.Lock()

	done := make(chan error, 1)
	go func() { done <- Put(s, "k", 2) }()

	// Give Put time to pass the map lookup and block on the slot lock.
	time.Sleep(10 * time.Millisecond)
	s.Remove("k")
	sl.mu.Unlock()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Put did not return")
	}

	v, ok := Get[int](s, "k")
	if !ok {
		t.Fatal("Put reported success but the value is gone")
	}
	if v != 2 {
		t.Fatalf("value = %d, want 2", v)
	}
}

func TestStore_MutateRemoveRace(t *testing.T) {
	s := New()
	Register(s, "k", 1)

	sl, ok := s.lookup("k")
	if !ok {
		t.Fatal("slot missing")
	}
	sl.mu.Lock()

	type result struct {
		ran bool
		ok  bool
	}
	done := make(chan result, 1)
	go func() {
		ran := false
		_, ok := WithMutate(s, "k", func(v *int) struct{} {
			ran = true
			*v = 2
			return struct{}{}
		})
		done <- result{ran, ok}
	}()

	time.Sleep(10 * time.Millisecond)
	s.Remove("k")
	sl.mu.Unlock()

	select {
	case r := <-done:
		// The removal won; the mutation must report failure, not
		// pretend it reached the store.
		if r.ran || r.ok {
			t.Fatalf("mutation on removed key: ran=%v ok=%v", r.ran, r.ok)
		}
	case <-time.After(time.Second):
		t.Fatal("WithMutate did not return")
	}
}

func TestStore_PerKeyIsolation(t *testing.T) {
	s := New()
	Register(s, "a", 0)
	Register(s, "b", 0)

	// A mutation holding key "a" must not block mutation of key "b".
	release := make(chan struct{})
	holding := make(chan struct{})
	done := make(chan struct{})

	go func() {
		WithMutate(s, "a", func(v *int) struct{} {
			close(holding)
			<-release
			return struct{}{}
		})
	}()

	<-holding
	go func() {
		WithMutate(s, "b", func(v *int) struct{} {
			*v = 1
			return struct{}{}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mutation of key b blocked behind held key a")
	}
	close(release)
}

func TestStore_SameKeySerializes(t *testing.T) {
	s := New()
	Register(s, "n", 0)

	const goroutines = 8
	const iters = 200

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				WithMutate(s, "n", func(v *int) struct{} {
					*v++
					return struct{}{}
				})
			}
		}()
	}
	wg.Wait()

	if v, _ := Get[int](s, "n"); v != goroutines*iters {
		t.Fatalf("lost updates: %d, want %d", v, goroutines*iters)
	}
}

func TestStore_ConcurrentRegisterSingleWinner(t *testing.T) {
	s := New()

	const goroutines = 16
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for g := 0; g < goroutines; g++ {
		g := g
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- Register(s, "once", g)
		}()
	}
	wg.Wait()
	close(errs)

	failures := 0
	for err := range errs {
		if err != nil {
			failures++
		}
	}
	if failures != goroutines-1 {
		t.Fatalf("expected exactly one winner, got %d failures", failures)
	}
}

func TestDefault_Singleton(t *testing.T) {
	if Default() != Default() {
		t.Fatal("Default should return the same instance")
	}
}

func TestStore_InterfaceSlot(t *testing.T) {
	s := New()

	// A slot registered under an interface type accepts any
	// implementation and is readable back as the interface.
	var err error = errors.New("boom")
	if regErr := Register[error](s, "e", err); regErr != nil {
		t.Fatalf("Register failed: %v", regErr)
	}
	got, ok := Get[error](s, "e")
	if !ok || got.Error() != "boom" {
		t.Fatalf("interface slot read failed: %v %v", got, ok)
	}
}
