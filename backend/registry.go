package backend

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
)

// Factory creates a new backend instance.
type Factory func() Backend

// Priority order for backend selection (first available wins).
// The GPU backend is preferred; software is the fallback.
var backendPriority = []string{BackendWGPU, BackendSoftware}

var registry = gpucontext.NewRegistry[Backend](gpucontext.WithPriority(backendPriority...))

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registry.Register(name, factory)
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registry.Unregister(name)
}

// Available returns the registered backend names in selection order.
func Available() []string {
	names := registry.Available()
	slices.SortFunc(names, func(a, b string) int {
		pa, pb := priorityOf(a), priorityOf(b)
		if pa != pb {
			return pa - pb
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return names
}

func priorityOf(name string) int {
	if i := slices.Index(backendPriority, name); i >= 0 {
		return i
	}
	return len(backendPriority)
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return registry.Has(name)
}

// Get returns a backend instance by name.
// Returns nil if the backend is not registered.
func Get(name string) Backend {
	return registry.Get(name)
}

// Default returns the highest priority registered backend, uninitialized.
// Returns nil if no backends are registered.
func Default() Backend {
	return registry.Best()
}

// MustDefault returns the default backend or panics.
func MustDefault() Backend {
	b := Default()
	if b == nil {
		panic("backend: no backend available")
	}
	return b
}

// InitDefault initializes the first backend, in priority order, whose Init
// succeeds. A GPU backend that cannot find an adapter is skipped.
func InitDefault() (Backend, error) {
	var errs []error
	for _, name := range Available() {
		b := Get(name)
		if b == nil {
			continue
		}
		if err := b.Init(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		return b, nil
	}
	if len(errs) == 0 {
		return nil, ErrBackendNotAvailable
	}
	return nil, errors.Join(append([]error{ErrBackendNotAvailable}, errs...)...)
}

// Open initializes the named backend. An empty name selects InitDefault.
func Open(name string) (Backend, error) {
	if name == "" {
		return InitDefault()
	}
	b := Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return b, nil
}
