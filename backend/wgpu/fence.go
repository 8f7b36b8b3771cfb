package wgpu

import (
	"time"

	"github.com/gogpu/wgpu"

	"github.com/gogpu/pixelcopy"
)

// fencePollInterval is how often SubmissionFence polls the queue.
const fencePollInterval = time.Millisecond

// SubmissionFence signals once the queue has completed a submission.
type SubmissionFence struct {
	queue *wgpu.Queue
	index uint64
}

var _ pixelcopy.Fence = (*SubmissionFence)(nil)

// Wait polls the queue until the submission completes or timeout passes.
func (f *SubmissionFence) Wait(timeout time.Duration) bool {
	if f == nil || f.queue == nil || f.index == 0 {
		return true
	}
	if f.queue.Poll() >= f.index {
		return true
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(fencePollInterval)
	defer tick.Stop()
	for {
		select {
		case <-deadline.C:
			return f.queue.Poll() >= f.index
		case <-tick.C:
			if f.queue.Poll() >= f.index {
				return true
			}
		}
	}
}
