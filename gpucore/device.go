package gpucore

// Device abstracts over the GPU primitives needed to render a texture into
// an off-screen target and read the result back.
//
// A Device is not safe for concurrent use: bound textures, viewport and
// blend state are device-wide, so callers must serialize readbacks.
//
// Resource lifecycle:
//   - Resources are created via Import*/Create* methods
//   - Resources must be explicitly destroyed via Destroy* methods
//   - Destroying a render target does not destroy its color texture
//   - IDs become invalid after destruction and must not be reused
type Device interface {
	// === Capabilities ===

	// Capabilities reports device limits and features.
	Capabilities() Capabilities

	// === Textures ===

	// ImportImage binds a foreign allocation as a sampled texture.
	// The returned texture must be released with DestroyTexture.
	ImportImage(img ExternalImage) (TextureID, error)

	// CreateTexture allocates a texture usable as a render target color
	// attachment.
	CreateTexture(desc TextureDescriptor) (TextureID, error)

	// DestroyTexture releases a texture. Unknown IDs are ignored.
	DestroyTexture(id TextureID)

	// === Render targets ===

	// CreateRenderTarget wraps a texture as a render target.
	CreateRenderTarget(color TextureID) (RenderTargetID, error)

	// DestroyRenderTarget releases a render target. Unknown IDs are ignored.
	DestroyRenderTarget(id RenderTargetID)

	// === State ===

	// SetViewport sets the draw area, anchored at the origin.
	SetViewport(width, height int)

	// SetScissorEnabled toggles the scissor test.
	SetScissorEnabled(enabled bool)

	// SetBlendEnabled toggles blending. Readback draws replace pixels.
	SetBlendEnabled(enabled bool)

	// === Drawing and transfer ===

	// DrawQuad draws q over the viewport of the target.
	DrawQuad(target RenderTargetID, q Quad) error

	// ReadPixels copies the viewport area of the target into dst using
	// the given layout. It blocks until the GPU has finished rendering.
	ReadPixels(target RenderTargetID, pack PixelPack, dst []byte) error

	// Finish blocks until all submitted work has completed.
	Finish()
}
