package gpucore

import "errors"

// Errors shared by devices and memory handles.
var (
	// ErrUnknownTexture is returned when a texture ID is not live.
	ErrUnknownTexture = errors.New("gpucore: unknown texture")

	// ErrUnknownRenderTarget is returned when a render target ID is not live.
	ErrUnknownRenderTarget = errors.New("gpucore: unknown render target")

	// ErrImportFailed is returned when an external image cannot be bound
	// as a texture.
	ErrImportFailed = errors.New("gpucore: image import failed")

	// ErrDeviceLost is returned after the device has been released.
	ErrDeviceLost = errors.New("gpucore: device lost")

	// ErrNotDirectlyMappable is returned by memory handles whose layout
	// cannot be addressed by the CPU.
	ErrNotDirectlyMappable = errors.New("gpucore: memory is not directly mappable")

	// ErrInvalidHandle is returned by memory handles that are structurally
	// malformed.
	ErrInvalidHandle = errors.New("gpucore: invalid memory handle")
)
