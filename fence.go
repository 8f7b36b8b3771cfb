package pixelcopy

import (
	"sync"
	"time"
)

// FenceTimeout is how long a readback waits for the producer's fence.
const FenceTimeout = 500 * time.Millisecond

// Fence signals that the producer has finished writing a buffer.
type Fence interface {
	// Wait blocks until the fence signals or the timeout expires and
	// reports whether it signaled. Waiting on a signaled fence returns true
	// immediately.
	Wait(timeout time.Duration) bool
}

// WaitFence blocks once on f. A nil fence counts as signaled.
func WaitFence(f Fence, timeout time.Duration) bool {
	if f == nil {
		return true
	}
	return f.Wait(timeout)
}

// SignaledFence is a fence that has always signaled.
type SignaledFence struct{}

// Wait returns true.
func (SignaledFence) Wait(time.Duration) bool { return true }

// SyncFence is a fence signaled from another goroutine.
type SyncFence struct {
	once sync.Once
	done chan struct{}
}

// NewSyncFence returns an unsignaled fence.
func NewSyncFence() *SyncFence {
	return &SyncFence{done: make(chan struct{})}
}

// Signal marks the fence signaled. Extra calls are no-ops.
func (f *SyncFence) Signal() {
	f.once.Do(func() { close(f.done) })
}

// Signaled reports whether Signal has been called.
func (f *SyncFence) Signaled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until Signal is called or the timeout expires.
func (f *SyncFence) Wait(timeout time.Duration) bool {
	if f.Signaled() {
		return true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-f.done:
		return true
	case <-t.C:
		return false
	}
}
