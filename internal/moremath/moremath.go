// Package moremath holds float helpers whose semantics are dictated by the
// WebAssembly spec rather than by Go's math package defaults.
package moremath

import "math"

// zeroPreferred picks between two operands that WasmCompatMin/WasmCompatMax
// both know are +/-0: Wasm's min/max break the IEEE 754 "min/max of equal
// values is unspecified" tie by signbit, preferring whichever operand the
// caller's signPrefers predicate picks when its signbit is set on x.
func zeroPreferred(x, y float64, signPrefersX bool) float64 {
	if math.Signbit(x) == signPrefersX {
		return x
	}
	return y
}

// WasmCompatMin mirrors math.Min except NaN wins over -Inf, per the Wasm spec.
func WasmCompatMin(x, y float64) float64 {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN()
	}
	if math.IsInf(x, -1) || math.IsInf(y, -1) {
		return math.Inf(-1)
	}
	if x == 0 && x == y {
		return zeroPreferred(x, y, true) // -0 beats +0 for min
	}
	if x < y {
		return x
	}
	return y
}

// WasmCompatMax mirrors math.Max except NaN wins over +Inf, per the Wasm spec.
func WasmCompatMax(x, y float64) float64 {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN()
	}
	if math.IsInf(x, 1) || math.IsInf(y, 1) {
		return math.Inf(1)
	}
	if x == 0 && x == y {
		return zeroPreferred(x, y, false) // +0 beats -0 for max
	}
	if x > y {
		return x
	}
	return y
}

// WasmCompatNearestF32 implements Wasm's round-to-nearest-even semantics,
// which differ from math.RoundToEven only in how ties and infinities at
// float32 precision are handled.
func WasmCompatNearestF32(f float32) float32 {
	if f != f { // NaN
		return f
	}
	truncated := float32(math.Trunc(float64(f)))
	if f == truncated {
		return f
	}
	diff := math.Abs(float64(f) - float64(truncated))
	switch {
	case diff < 0.5:
		return truncated
	case diff > 0.5:
		if f < 0 {
			return truncated - 1
		}
		return truncated + 1
	default:
		// Exactly .5: round to even.
		if math.Mod(float64(truncated), 2) == 0 {
			return truncated
		}
		if f < 0 {
			return truncated - 1
		}
		return truncated + 1
	}
}

// WasmCompatNearestF64 is the float64 counterpart of WasmCompatNearestF32.
func WasmCompatNearestF64(f float64) float64 {
	if f != f {
		return f
	}
	truncated := math.Trunc(f)
	if f == truncated {
		return f
	}
	diff := math.Abs(f - truncated)
	switch {
	case diff < 0.5:
		return truncated
	case diff > 0.5:
		if f < 0 {
			return truncated - 1
		}
		return truncated + 1
	default:
		if math.Mod(truncated, 2) == 0 {
			return truncated
		}
		if f < 0 {
			return truncated - 1
		}
		return truncated + 1
	}
}
