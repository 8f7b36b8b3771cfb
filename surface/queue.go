// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/pixelcopy"
	"github.com/gogpu/pixelcopy/gpucore"
)

// Queue errors.
var (
	// ErrAbandoned is returned once the producer has abandoned the queue.
	ErrAbandoned = errors.New("surface: queue abandoned")

	// ErrNilBuffer is returned when queuing a nil buffer.
	ErrNilBuffer = errors.New("surface: nil buffer")
)

// Queue holds the last buffer queued by a producer.
type Queue struct {
	name string

	mu        sync.Mutex
	buf       *pixelcopy.SourceBuffer
	fence     pixelcopy.Fence
	transform gpucore.Matrix4
	frame     uint64
	abandoned bool
}

var _ pixelcopy.Producer = (*Queue)(nil)

// NewQueue creates an empty queue. The name is used in error messages.
func NewQueue(name string) *Queue {
	return &Queue{name: name, transform: gpucore.FlipV()}
}

// Name returns the queue name.
func (q *Queue) Name() string {
	return q.name
}

// QueueBuffer publishes buf as the latest frame. fence may be nil when the
// contents are already complete.
func (q *Queue) QueueBuffer(buf *pixelcopy.SourceBuffer, fence pixelcopy.Fence, transform gpucore.Matrix4) error {
	if buf == nil {
		return ErrNilBuffer
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.abandoned {
		return fmt.Errorf("%s: %w", q.name, ErrAbandoned)
	}
	q.buf = buf
	q.fence = fence
	q.transform = transform
	q.frame++
	return nil
}

// LatestBuffer returns the last queued frame. Before the first frame it
// returns a nil buffer.
func (q *Queue) LatestBuffer() (*pixelcopy.SourceBuffer, pixelcopy.Fence, gpucore.Matrix4, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.abandoned {
		return nil, nil, gpucore.Matrix4{}, fmt.Errorf("%s: %w", q.name, ErrAbandoned)
	}
	return q.buf, q.fence, q.transform, nil
}

// FrameNumber returns how many buffers have been queued.
func (q *Queue) FrameNumber() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.frame
}

// Abandon disconnects the producer. Later calls fail with ErrAbandoned and
// the last buffer is dropped.
func (q *Queue) Abandon() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.abandoned = true
	q.buf = nil
	q.fence = nil
}
