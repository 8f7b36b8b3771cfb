package wgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/wgpu"
	_ "github.com/gogpu/wgpu/hal/allbackends" // register platform backends

	"github.com/gogpu/pixelcopy/backend"
	"github.com/gogpu/pixelcopy/gpucore"
)

// init registers the wgpu backend on package import.
func init() {
	backend.Register(backend.BackendWGPU, func() backend.Backend {
		return NewBackend()
	})
}

// Backend owns a wgpu instance, adapter and device.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	dev      *Device
}

// NewBackend creates an uninitialized wgpu backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendWGPU
}

// Init requests an adapter and device. It reports
// backend.ErrBackendNotAvailable when no adapter is found.
func (b *Backend) Init() error {
	if b.dev != nil {
		return nil
	}
	var err error
	b.instance, err = wgpu.CreateInstance(&wgpu.InstanceDescriptor{Backends: wgpu.BackendsAll})
	if err != nil {
		return fmt.Errorf("%w: wgpu: create instance: %w", backend.ErrBackendNotAvailable, err)
	}
	b.adapter, err = b.instance.RequestAdapter(nil)
	if err != nil {
		b.Close()
		return fmt.Errorf("%w: wgpu: request adapter: %w", backend.ErrBackendNotAvailable, err)
	}
	b.device, err = b.adapter.RequestDevice(nil)
	if err != nil {
		b.Close()
		return fmt.Errorf("%w: wgpu: request device: %w", backend.ErrBackendNotAvailable, err)
	}

	info := b.adapter.Info()
	b.dev, err = NewDevice(b.device, info)
	if err != nil {
		b.Close()
		return err
	}
	slog.Default().Debug("wgpu: device ready", "adapter", info.Name, "type", info.DeviceType, "backend", info.Backend)
	return nil
}

// Device returns the device, or nil before Init.
func (b *Backend) Device() gpucore.Device {
	if b.dev == nil {
		return nil
	}
	return b.dev
}

// WGPUDevice returns the underlying wgpu device, or nil before Init.
// Producers that render on the same device use it to share textures.
func (b *Backend) WGPUDevice() *wgpu.Device {
	return b.device
}

// Close releases the device, adapter and instance.
func (b *Backend) Close() {
	if b.dev != nil {
		b.dev.Close()
		b.dev = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
