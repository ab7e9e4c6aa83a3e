package window

import (
	"testing"

	"github.com/lixenwraith/bauview/render"
)

func newTestHost(t *testing.T, opts ...HostOption) *Host {
	t.Helper()
	h, err := NewHost(640, 360, 60, render.Black, opts...)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	return h
}

func TestFlushRunsQueuedCallbacksOnce(t *testing.T) {
	h := newTestHost(t)

	calls := 0
	var tick func()
	tick = func() {
		calls++
		h.RequestFrame(tick)
	}
	h.RequestFrame(tick)

	h.flush()
	if calls != 1 {
		t.Fatalf("calls after first flush = %d, want 1", calls)
	}
	h.flush()
	h.flush()
	if calls != 3 {
		t.Errorf("calls after three flushes = %d, want 3", calls)
	}
}

func TestKeyDispatch(t *testing.T) {
	var keys []rune
	h := newTestHost(t, WithKeyHandler(func(r rune) { keys = append(keys, r) }))

	for _, r := range "gb" {
		h.key(r)
	}
	if h.quit {
		t.Fatal("toggle keys requested quit")
	}
	h.key('q')
	if !h.quit {
		t.Error("q did not request quit")
	}
	if string(keys) != "gb" {
		t.Errorf("keys = %q, want \"gb\"", string(keys))
	}
}

func TestLayoutReportsResize(t *testing.T) {
	resizes := 0
	var gotW, gotH float64
	h := newTestHost(t, WithResizeHandler(func(w, ht float64) {
		resizes++
		gotW, gotH = w, ht
	}))

	if w, ht := h.Size(); w != 640 || ht != 360 {
		t.Errorf("initial Size = %vx%v, want 640x360", w, ht)
	}

	tests := []struct {
		w, h        int
		wantResizes int
	}{
		{800, 600, 1},
		{800, 600, 1},
		{1024, 768, 2},
		{0, 0, 3},
	}
	for _, tt := range tests {
		lw, lh := h.Layout(tt.w, tt.h)
		if lw != max(tt.w, 1) || lh != max(tt.h, 1) {
			t.Errorf("Layout(%d,%d) = %d,%d", tt.w, tt.h, lw, lh)
		}
		if resizes != tt.wantResizes {
			t.Errorf("after Layout(%d,%d) resizes = %d, want %d", tt.w, tt.h, resizes, tt.wantResizes)
		}
	}
	if gotW != 1 || gotH != 1 {
		t.Errorf("last resize = %vx%v, want 1x1", gotW, gotH)
	}
	if w, ht := h.Size(); w != 1 || ht != 1 {
		t.Errorf("Size = %vx%v after layout", w, ht)
	}
}
