package app

import (
	"fmt"

	"github.com/corekit/appcore/applog"
	"github.com/corekit/appcore/registry"
)

type nameTable map[uint64]string

func init() {
	// Log records carry the calling goroutine's label from here on.
	applog.SetLabelFunc(GoroutineName)
}

// ensureNameTable lazily registers the name-table slot. Two goroutines
// may race to create it; the loser's already-exists failure is
// harmless.
func ensureNameTable() {
	s := registry.Default()
	if !s.Exists(KeyGoroutineNames) {
		_ = registry.Register(s, KeyGoroutineNames, nameTable{})
	}
}

// SetGoroutineName labels the calling goroutine for log output and
// telemetry. Entries are never removed: the runtime's goroutines are
// long-lived.
func SetGoroutineName(name string) {
	ensureNameTable()
	id := goid()
	registry.WithMutate(registry.Default(), KeyGoroutineNames, func(m *nameTable) struct{} {
		(*m)[id] = name
		return struct{}{}
	})
}

// GoroutineName returns the calling goroutine's label, or a
// synthesized "goroutine-<id>" when it was never named.
func GoroutineName() string {
	ensureNameTable()
	id := goid()
	name, ok := registry.WithRead(registry.Default(), KeyGoroutineNames, func(m *nameTable) string {
		return (*m)[id]
	})
	if !ok || name == "" {
		return fmt.Sprintf("goroutine-%d", id)
	}
	return name
}
