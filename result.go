package pixelcopy

// CopyResult is the outcome of a readback. Exactly one result is produced
// per call. Any value other than Success means the destination contents are
// undefined.
type CopyResult int

const (
	// Success means the destination holds the requested pixels.
	Success CopyResult = iota

	// UnknownError means the GPU path failed for an unclassified reason.
	UnknownError

	// Timeout means the producer's fence did not signal within FenceTimeout.
	Timeout

	// SourceEmpty means the producer has never produced a frame.
	SourceEmpty

	// SourceInvalid means the buffer is unusable: protected content or a
	// malformed memory handle.
	SourceInvalid

	// DestinationInvalid means the bitmap is incompatible: bad address,
	// unsupported size or format, or a crop outside the source.
	DestinationInvalid
)

// String returns the result name.
func (r CopyResult) String() string {
	switch r {
	case Success:
		return "Success"
	case UnknownError:
		return "UnknownError"
	case Timeout:
		return "Timeout"
	case SourceEmpty:
		return "SourceEmpty"
	case SourceInvalid:
		return "SourceInvalid"
	case DestinationInvalid:
		return "DestinationInvalid"
	default:
		return "CopyResult(?)"
	}
}
