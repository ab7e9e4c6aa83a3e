package vmath

import "math"

// Grid keys pack a signed cell coordinate into one uint64:
//   1. each component is zig-zag encoded (0, -1, 1, -2, 2 ... -> 0, 1, 2, 3, 4 ...)
//   2. the two naturals are combined with Szudzik's elegant pairing
// MaxCellCoord bounds |x| and |y| so the packed value stays below 2^63
const MaxCellCoord = 1<<30 - 1

// Pair maps two naturals onto one, bijectively
func Pair(x, y uint64) uint64 {
	if x >= y {
		return x*x + x + y
	}
	return y*y + x
}

// Unpair is the exact inverse of Pair
func Unpair(n uint64) (x, y uint64) {
	z := isqrt(n)
	zz := z * z
	if n-zz >= z {
		return z, n - zz - z
	}
	return n - zz, z
}

// ZigZag folds a signed value onto the naturals: v >= 0 -> 2v, v < 0 -> -2v-1
func ZigZag(v int64) uint64 {
	if v >= 0 {
		return uint64(v) << 1
	}
	return uint64(-v)<<1 - 1
}

// UnZigZag reverses ZigZag: even -> v/2, odd -> -(v+1)/2
func UnZigZag(u uint64) int64 {
	if u&1 == 0 {
		return int64(u >> 1)
	}
	return -int64((u + 1) >> 1)
}

// PackCell builds the grid key for a signed cell coordinate
// Coordinates outside ±MaxCellCoord are clamped to the edge
func PackCell(x, y int64) uint64 {
	return Pair(ZigZag(clampCell(x)), ZigZag(clampCell(y)))
}

// UnpackCell recovers the signed cell coordinate from a grid key
func UnpackCell(key uint64) (x, y int64) {
	ux, uy := Unpair(key)
	return UnZigZag(ux), UnZigZag(uy)
}

func clampCell(v int64) int64 {
	if v > MaxCellCoord {
		return MaxCellCoord
	}
	if v < -MaxCellCoord {
		return -MaxCellCoord
	}
	return v
}

// isqrt returns floor(sqrt(n)); the float estimate is corrected since float64 drops low bits above 2^53
func isqrt(n uint64) uint64 {
	z := min(uint64(math.Sqrt(float64(n))), math.MaxUint32)
	for z > 0 && z*z > n {
		z--
	}
	for z < math.MaxUint32 && (z+1)*(z+1) <= n {
		z++
	}
	return z
}
