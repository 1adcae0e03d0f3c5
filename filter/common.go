package filter

import (
	"fmt"

	"golang.org/x/exp/slices"
)

func checkBits(bits int) {
	if bits < 1 || bits > 32 {
		panic(fmt.Sprintf("invalid bit depth: %v", bits))
	}
}

// ToUnsigned converts signed samples of the given bit depth (1 to 32) to
// offset binary, so that the lowest possible sample becomes 0. This is
// needed before filtering signed samples with IntExp.
func ToUnsigned(samples []int, bits int) []uint32 {
	checkBits(bits)
	bias := int64(1) << (bits - 1)
	out := make([]uint32, len(samples))
	for i, v := range samples {
		out[i] = uint32(int64(v) + bias)
	}
	return out
}

// ToSigned converts offset binary samples of the given bit depth back to
// signed samples. It is the inverse of ToUnsigned.
func ToSigned(samples []uint32, bits int) []int {
	checkBits(bits)
	bias := int64(1) << (bits - 1)
	out := make([]int, len(samples))
	for i, v := range samples {
		out[i] = int(int64(v) - bias)
	}
	return out
}

// Clamp limits the given samples, in place, to the signed range of the
// given bit depth (1 to 64). It returns the number of samples that were
// changed.
func Clamp(samples []int, bits int) int {
	hi := 1<<(bits-1) - 1
	lo := -hi - 1
	n := 0
	for i, v := range samples {
		if v > hi {
			samples[i] = hi
			n++
		} else if v < lo {
			samples[i] = lo
			n++
		}
	}
	return n
}

// LowHigh returns the lowest and highest of the given samples. It panics
// if there are no samples.
func LowHigh[S ~[]E, E int | uint32 | float64](v S) (low, high E) {
	return slices.Min(v), slices.Max(v)
}
