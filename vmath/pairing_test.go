package vmath

import (
	"math"
	"testing"
)

func TestPairUnpairSmall(t *testing.T) {
	// Szudzik ordering for the first shells
	tests := []struct {
		x, y uint64
		want uint64
	}{
		{0, 0, 0},
		{0, 1, 1},
		{1, 0, 2},
		{1, 1, 3},
		{0, 2, 4},
		{1, 2, 5},
		{2, 0, 6},
		{2, 1, 7},
		{2, 2, 8},
	}

	for _, tt := range tests {
		got := Pair(tt.x, tt.y)
		if got != tt.want {
			t.Errorf("Pair(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
		x, y := Unpair(got)
		if x != tt.x || y != tt.y {
			t.Errorf("Unpair(%d) = (%d, %d), want (%d, %d)", got, x, y, tt.x, tt.y)
		}
	}
}

func TestUnpairIsSurjective(t *testing.T) {
	for n := uint64(0); n < 100000; n++ {
		x, y := Unpair(n)
		if got := Pair(x, y); got != n {
			t.Fatalf("Pair(Unpair(%d)) = %d", n, got)
		}
	}
}

func TestZigZag(t *testing.T) {
	tests := []struct {
		v    int64
		want uint64
	}{
		{0, 0},
		{-1, 1},
		{1, 2},
		{-2, 3},
		{2, 4},
		{-10000, 19999},
		{MaxCellCoord, 2 * MaxCellCoord},
	}

	for _, tt := range tests {
		if got := ZigZag(tt.v); got != tt.want {
			t.Errorf("ZigZag(%d) = %d, want %d", tt.v, got, tt.want)
		}
		if got := UnZigZag(tt.want); got != tt.v {
			t.Errorf("UnZigZag(%d) = %d, want %d", tt.want, got, tt.v)
		}
	}
}

func TestCellRoundTrip(t *testing.T) {
	const limit = 10000
	for x := int64(-limit); x <= limit; x++ {
		// Full x sweep against a strided y sweep plus the axes and both diagonals
		for y := int64(-limit); y <= limit; y += 37 {
			gx, gy := UnpackCell(PackCell(x, y))
			if gx != x || gy != y {
				t.Fatalf("UnpackCell(PackCell(%d, %d)) = (%d, %d)", x, y, gx, gy)
			}
		}
		for _, y := range []int64{-limit, -1, 0, 1, limit, x, -x} {
			gx, gy := UnpackCell(PackCell(x, y))
			if gx != x || gy != y {
				t.Fatalf("UnpackCell(PackCell(%d, %d)) = (%d, %d)", x, y, gx, gy)
			}
		}
	}
}

func TestPairDiagonalDistinctFromAxis(t *testing.T) {
	for k := uint64(1); k <= 1000; k++ {
		if Pair(k, k) == Pair(k, 0) {
			t.Fatalf("Pair(%d, %d) collides with Pair(%d, 0)", k, k, k)
		}
	}
	for _, v := range []int64{1, -1, 2, -2, 10000, -10000} {
		if gx, gy := UnpackCell(PackCell(v, v)); gx != v || gy != v {
			t.Errorf("UnpackCell(PackCell(%d, %d)) = (%d, %d)", v, v, gx, gy)
		}
	}
}

func TestCellRoundTripDenseCore(t *testing.T) {
	seen := make(map[uint64]struct{})
	for x := int64(-200); x <= 200; x++ {
		for y := int64(-200); y <= 200; y++ {
			key := PackCell(x, y)
			if _, dup := seen[key]; dup {
				t.Fatalf("PackCell(%d, %d) = %d collides with an earlier cell", x, y, key)
			}
			seen[key] = struct{}{}
			gx, gy := UnpackCell(key)
			if gx != x || gy != y {
				t.Fatalf("UnpackCell(PackCell(%d, %d)) = (%d, %d)", x, y, gx, gy)
			}
		}
	}
}

func TestCellRoundTripExtremes(t *testing.T) {
	coords := []int64{-MaxCellCoord, -MaxCellCoord + 1, -65536, 65535, MaxCellCoord - 1, MaxCellCoord}
	for _, x := range coords {
		for _, y := range coords {
			gx, gy := UnpackCell(PackCell(x, y))
			if gx != x || gy != y {
				t.Errorf("UnpackCell(PackCell(%d, %d)) = (%d, %d)", x, y, gx, gy)
			}
		}
	}
}

func TestPackCellClamps(t *testing.T) {
	gx, gy := UnpackCell(PackCell(MaxCellCoord+50, -MaxCellCoord-50))
	if gx != MaxCellCoord || gy != -MaxCellCoord {
		t.Errorf("out-of-range cell decoded to (%d, %d), want clamped edge", gx, gy)
	}
}

func TestIsqrt(t *testing.T) {
	values := []uint64{0, 1, 2, 3, 4, 15, 16, 17, 1 << 52, 1<<53 + 1, 1<<62 + 12345, math.MaxUint64}
	for _, n := range values {
		z := isqrt(n)
		if z*z > n {
			t.Errorf("isqrt(%d) = %d, square exceeds n", n, z)
		}
		if z < math.MaxUint32 && (z+1)*(z+1) <= n {
			t.Errorf("isqrt(%d) = %d, not the floor", n, z)
		}
	}
}
