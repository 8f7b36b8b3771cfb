package wgpu

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

type fakeBuffer struct {
	id       int
	released *[]int
}

func (b fakeBuffer) Release() { *b.released = append(*b.released, b.id) }

func TestStagingPoolReuse(t *testing.T) {
	var released []int
	p := newStagingPool[fakeBuffer](2)

	if _, ok := p.get(1024); ok {
		t.Fatal("empty pool returned a buffer")
	}
	p.put(1024, fakeBuffer{1, &released})
	p.put(2048, fakeBuffer{2, &released})

	b, ok := p.get(1024)
	if !ok || b.id != 1 {
		t.Fatalf("get(1024) = %v, %v, want buffer 1", b.id, ok)
	}
	if _, ok := p.get(1024); ok {
		t.Error("buffer handed out twice")
	}
	if p.hits != 1 || p.misses != 2 {
		t.Errorf("hits = %d, misses = %d, want 1 and 2", p.hits, p.misses)
	}
	if len(released) != 0 {
		t.Errorf("released %v early", released)
	}
}

func TestStagingPoolEvictsOldest(t *testing.T) {
	var released []int
	p := newStagingPool[fakeBuffer](2)
	for i := 1; i <= 3; i++ {
		p.put(uint64(i*256), fakeBuffer{i, &released})
	}
	if len(released) != 1 || released[0] != 1 {
		t.Errorf("released = %v, want [1]", released)
	}
	if p.evictions != 1 {
		t.Errorf("evictions = %d, want 1", p.evictions)
	}

	p.clear()
	if len(released) != 3 || len(p.idle) != 0 {
		t.Errorf("after clear released = %v, idle = %d", released, len(p.idle))
	}
}

func TestStagingPoolDisabled(t *testing.T) {
	var released []int
	p := newStagingPool[fakeBuffer](0)
	p.put(256, fakeBuffer{7, &released})
	if len(released) != 1 {
		t.Error("zero capacity pool should release immediately")
	}
}

func TestStagingPoolLogValue(t *testing.T) {
	var released []int
	p := newStagingPool[fakeBuffer](1)
	p.get(256)
	p.put(256, fakeBuffer{1, &released})
	p.get(256)
	p.put(256, fakeBuffer{1, &released})
	p.put(512, fakeBuffer{2, &released})

	var out bytes.Buffer
	slog.New(slog.NewTextHandler(&out, nil)).Info("closing", "staging", p)
	for _, want := range []string{"staging.idle=1", "staging.hits=1", "staging.misses=1", "staging.evictions=1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("log %q missing %q", out.String(), want)
		}
	}
}
