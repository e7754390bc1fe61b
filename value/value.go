// Package value implements the untyped 64-bit stack cell that the
// interpreter and translator operate on. A Value carries no type tag of its
// own; every operation interprets its bit pattern according to the opcode
// that produced or consumes it, exactly as WebAssembly's operand stack does
// at validation time and the rwasm interpreter does at run time.
package value

import "math"

// Value is an untyped 64-bit cell, reinterpreted per-instruction as i32,
// u32, i64, u64, f32, f64, or a funcref/externref index.
type Value uint64

// FromI32 / FromU32 / FromI64 / FromU64 / FromF32 / FromF64 construct a
// Value from a typed Go value.
func FromI32(v int32) Value  { return Value(uint32(v)) }
func FromU32(v uint32) Value { return Value(v) }
func FromI64(v int64) Value  { return Value(uint64(v)) }
func FromU64(v uint64) Value { return Value(v) }
func FromF32(v float32) Value {
	return Value(uint64(math.Float32bits(v)))
}
func FromF64(v float64) Value { return Value(math.Float64bits(v)) }
func FromBool(v bool) Value {
	if v {
		return Value(1)
	}
	return Value(0)
}

func (v Value) I32() int32     { return int32(uint32(v)) }
func (v Value) U32() uint32    { return uint32(v) }
func (v Value) I64() int64     { return int64(v) }
func (v Value) U64() uint64    { return uint64(v) }
func (v Value) F32() float32   { return math.Float32frombits(uint32(v)) }
func (v Value) F64() float64   { return math.Float64frombits(uint64(v)) }
func (v Value) Bool() bool     { return uint32(v) != 0 }
func (v Value) IsZero64() bool { return uint64(v) == 0 }
