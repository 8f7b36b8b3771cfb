// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the producer side of a pixelcopy readback.
//
// A Queue is the hand-off point between a producer that renders or decodes
// frames and a consumer that reads them back. The producer queues each
// finished buffer together with the fence that signals when its contents
// are complete and the texture transform it applied. The consumer only
// ever sees the most recent frame.
//
// # Usage
//
//	q := surface.NewQueue("camera")
//
//	// Producer goroutine
//	fence := pixelcopy.NewSyncFence()
//	_ = q.QueueBuffer(buf, fence, gpucore.FlipV())
//	go func() { decode(buf); fence.Signal() }()
//
//	// Consumer
//	res := rb.CopySurfaceInto(q, image.Rectangle{}, bitmap)
//
// Queue is safe for concurrent use by one producer and any number of
// consumers.
package surface
