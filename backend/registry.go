package backend

import (
	"sync"

	"github.com/corekit/appcore/errors"
)

// Backend names.
const (
	BackendTerm     = "term"
	BackendHeadless = "headless"
)

// Factory creates a window for the given configuration.
type Factory func(Config) (Window, error)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	// Term is the interactive backend; headless is the fallback.
	backendPriority = []string{BackendTerm, BackendHeadless}
)

// Register registers a backend factory with the given name. This is
// typically called from init() functions in backend packages. If a
// backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry. Useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns a list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns the factory registered under name, or nil.
func Get(name string) Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return backends[name]
}

// Default returns the best available factory based on priority order,
// or nil if nothing is registered.
func Default() Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			return factory
		}
	}

	// Fallback: any registered backend.
	for _, factory := range backends {
		return factory
	}
	return nil
}

// New creates a window using the named backend, or the default backend
// when name is empty.
func New(name string, cfg Config) (Window, error) {
	var factory Factory
	if name == "" {
		factory = Default()
		if factory == nil {
			return nil, errors.InvalidInput(errors.PhaseBackend, "no backend registered")
		}
	} else {
		factory = Get(name)
		if factory == nil {
			return nil, errors.NotFound(errors.PhaseBackend, name)
		}
	}

	w, err := factory(cfg)
	if err != nil {
		return nil, errors.Instantiation(errors.PhaseBackend, "create window", err)
	}
	return w, nil
}
