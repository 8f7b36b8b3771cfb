package backend

import (
	"errors"

	"github.com/gogpu/pixelcopy/gpucore"
)

// Backend name constants.
const (
	// BackendWGPU is the name of the GPU backend built on gogpu/wgpu.
	BackendWGPU = "wgpu"
	// BackendSoftware is the name of the CPU reference backend.
	BackendSoftware = "software"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Backend owns a GPU device used for readback.
//
// Backends must be registered via Register() and are selected via
// Get(), Default() or InitDefault().
type Backend interface {
	// Name returns the backend identifier (e.g., "software", "wgpu").
	Name() string

	// Init acquires the device. It fails when the backend cannot run on
	// this machine (no adapter, no driver).
	Init() error

	// Device returns the initialized device, or nil before Init.
	Device() gpucore.Device

	// Close releases the device and all its resources.
	// The backend should not be used after Close is called.
	Close()
}
