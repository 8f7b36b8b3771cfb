package wgpu

import "log/slog"

// releasable is a GPU object the staging pool can free.
type releasable interface {
	Release()
}

// stagingEntry is an idle buffer and its size in bytes.
type stagingEntry[B releasable] struct {
	size uint64
	buf  B
}

// stagingPool keeps recently used readback buffers for reuse. Idle
// buffers are ordered from least to most recently returned; when the pool
// is full the least recently used one is released.
//
// stagingPool is not safe for concurrent use; Device guards it with mu.
type stagingPool[B releasable] struct {
	capacity int
	idle     []stagingEntry[B]

	hits, misses, evictions uint64
}

func newStagingPool[B releasable](capacity int) *stagingPool[B] {
	return &stagingPool[B]{capacity: capacity}
}

// get removes and returns an idle buffer of exactly size bytes, preferring
// the most recently returned one.
func (p *stagingPool[B]) get(size uint64) (B, bool) {
	for i := len(p.idle) - 1; i >= 0; i-- {
		if p.idle[i].size == size {
			buf := p.idle[i].buf
			p.idle = append(p.idle[:i], p.idle[i+1:]...)
			p.hits++
			return buf, true
		}
	}
	p.misses++
	var zero B
	return zero, false
}

// put returns buf to the pool, releasing the oldest idle buffer when the
// pool is over capacity.
func (p *stagingPool[B]) put(size uint64, buf B) {
	if p.capacity <= 0 {
		buf.Release()
		return
	}
	p.idle = append(p.idle, stagingEntry[B]{size: size, buf: buf})
	for len(p.idle) > p.capacity {
		p.idle[0].buf.Release()
		p.idle = p.idle[1:]
		p.evictions++
	}
}

// clear releases every idle buffer.
func (p *stagingPool[B]) clear() {
	for _, e := range p.idle {
		e.buf.Release()
	}
	p.idle = nil
}

// LogValue reports the pool counters.
func (p *stagingPool[B]) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("idle", len(p.idle)),
		slog.Uint64("hits", p.hits),
		slog.Uint64("misses", p.misses),
		slog.Uint64("evictions", p.evictions),
	)
}
