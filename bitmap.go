package pixelcopy

// Bitmap is the CPU-addressable destination of a readback.
//
// Width, Height and Format must not change while a copy is running.
type Bitmap interface {
	Width() int
	Height() int
	Format() PixelFormat

	// Pixels returns the whole pixel memory, or nil when the bitmap has no
	// valid address.
	Pixels() []byte

	// RowBytes returns the distance between the starts of two rows.
	RowBytes() int

	// Row returns the addressable bytes of row y, or nil.
	Row(y int) []byte

	// NotifyPixelsChanged tells downstream caches that the contents were
	// rewritten.
	NotifyPixelsChanged()
}
