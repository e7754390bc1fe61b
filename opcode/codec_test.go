package opcode_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/value"
)

func TestCodecRoundTrip_Table(t *testing.T) {
	cases := []opcode.Instruction{
		{Op: opcode.Unreachable},
		{Op: opcode.Drop},
		{Op: opcode.I32Add},
		{Op: opcode.LocalGet, Index: 3},
		{Op: opcode.Br, BranchOffset: -12},
		{Op: opcode.Return, DropKeep: opcode.DropKeep{Drop: 2, Keep: 1}},
		{Op: opcode.I32Const, Const: value.FromI32(-7)},
		{Op: opcode.I64Const, Const: value.FromI64(1 << 40)},
		{Op: opcode.F64Const, Const: value.FromF64(3.25)},
		{Op: opcode.CallInternal, Index: 9},
		{
			Op: opcode.BrTable,
			BranchTable: []opcode.BranchTableTarget{
				{DropKeep: opcode.DropKeep{Drop: 1, Keep: 0}, BranchOffset: 4},
				{DropKeep: opcode.DropKeep{Drop: 0, Keep: 1}, BranchOffset: -8},
			},
		},
	}

	codec := opcode.Codec{}
	for _, want := range cases {
		var buf bytes.Buffer
		require.NoError(t, codec.Encode(&buf, want))
		got, err := codec.Decode(&buf)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestCodecRoundTrip_Aligned(t *testing.T) {
	codec := opcode.Codec{Align: true}
	want := opcode.Instruction{Op: opcode.LocalSet, Index: 42}
	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, want))
	require.Equal(t, opcode.MaxInstructionSize, buf.Len())
	got, err := codec.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestCodecRoundTrip_Property(t *testing.T) {
	noImmediate := []opcode.Opcode{
		opcode.Unreachable, opcode.Drop, opcode.Select, opcode.I32Add, opcode.I64Mul,
		opcode.F32Sqrt, opcode.MemorySize, opcode.MemoryGrow,
	}
	indexed := []opcode.Opcode{
		opcode.LocalGet, opcode.LocalSet, opcode.LocalTee, opcode.Call, opcode.GlobalGet,
		opcode.I32Load, opcode.TableGet,
	}

	rapid.Check(t, func(t *rapid.T) {
		codec := opcode.Codec{}
		var inst opcode.Instruction
		switch rapid.IntRange(0, 3).Draw(t, "shape") {
		case 0:
			inst = opcode.Instruction{Op: rapid.SampledFrom(noImmediate).Draw(t, "op")}
		case 1:
			inst = opcode.Instruction{
				Op:    rapid.SampledFrom(indexed).Draw(t, "op"),
				Index: rapid.Uint32().Draw(t, "index"),
			}
		case 2:
			inst = opcode.Instruction{
				Op:           opcode.Br,
				BranchOffset: rapid.Int32().Draw(t, "offset"),
			}
		default:
			inst = opcode.Instruction{
				Op:   opcode.I64Const,
				Const: value.FromU64(rapid.Uint64().Draw(t, "bits")),
			}
		}

		var buf bytes.Buffer
		if err := codec.Encode(&buf, inst); err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := codec.Decode(&buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(got, inst) {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, inst)
		}
	})
}
