package mixer

import (
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Policy decides what happens when accumulating into a sample overflows it.
type Policy int

const (
	// Wrap lets the integer wrap around, as two's-complement addition does.
	Wrap Policy = iota
	// Saturate clamps to the representable range.
	Saturate
)

func (p Policy) String() string {
	switch p {
	case Wrap:
		return "wrap"
	case Saturate:
		return "saturate"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// MaxMagnitude is the largest positive value of S.
func MaxMagnitude[S constraints.Signed]() int64 {
	var s S
	bits := unsafe.Sizeof(s) * 8
	return int64(uint64(1)<<(bits-1) - 1)
}

// Scale converts a normalized amplitude to the integer domain of S,
// truncating toward zero.
func Scale[S constraints.Signed](amp float64) int64 {
	v := float64(MaxMagnitude[S]()) * amp
	// keep the float->int conversion defined
	const lim = float64(1 << 62)
	switch {
	case math.IsNaN(v):
		return 0
	case v > lim:
		v = lim
	case v < -lim:
		v = -lim
	}
	return int64(v)
}

// Accumulate adds delta to dst under policy p.
func Accumulate[S constraints.Signed](p Policy, dst S, delta int64) S {
	if p == Saturate {
		hi := MaxMagnitude[S]()
		lo := -hi - 1
		sum := int64(dst) + delta
		// int64 overflow only matters for 64-bit S
		if delta > 0 && sum < int64(dst) {
			return S(hi)
		}
		if delta < 0 && sum > int64(dst) {
			return S(lo)
		}
		if sum > hi {
			return S(hi)
		}
		if sum < lo {
			return S(lo)
		}
		return S(sum)
	}
	return S(int64(dst) + delta)
}
