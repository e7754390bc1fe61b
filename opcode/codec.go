package opcode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rwasmio/rwasm/value"
)

// MaxInstructionSize is the largest encoded size of any fixed-shape
// instruction: one opcode byte plus an 8-byte little-endian immediate
// (I64Const/F64Const). BrTable is exempt — its arm count is unbounded — and
// cannot be used together with Align.
const MaxInstructionSize = 9

// Codec (de)serializes Instructions to rWASM's binary encoding: one opcode
// byte followed by a fixed-width little-endian immediate whose width
// depends on the opcode's Kind. Index-shaped immediates are encoded as 4
// bytes, Const as 8, DropKeep as two packed 4-byte words, and BranchTable as
// a 4-byte arm count followed by that many 12-byte arms (4-byte drop,
// 4-byte keep, 4-byte offset).
type Codec struct {
	// Align pads every fixed-shape instruction to MaxInstructionSize bytes,
	// trading code size for O(1) random access into the instruction stream
	// by position rather than by scanning from the start. Off by default.
	Align bool
}

// Encode appends the binary encoding of inst to w.
func (c Codec) Encode(w *bytes.Buffer, inst Instruction) error {
	start := w.Len()
	w.WriteByte(byte(inst.Op))

	switch inst.Op.Kind() {
	case KindNoImmediate:
		// no immediate bytes
	case KindLocalDepth, KindFuncIdx, KindSignatureIdx, KindGlobalIdx, KindAddressOffset,
		KindDataSegmentIdx, KindTableIdx, KindElementSegmentIdx, KindCompiledFunc,
		KindBlockFuel, KindStackAlloc:
		writeU32(w, inst.Index)
	case KindBranchOffset:
		writeI32(w, inst.BranchOffset)
	case KindDropKeep:
		writeU32(w, inst.DropKeep.Drop)
		writeU32(w, inst.DropKeep.Keep)
	case KindConst:
		writeU64(w, uint64(inst.Const))
	case KindBranchTable:
		if c.Align {
			return fmt.Errorf("opcode: br_table cannot be encoded in aligned mode")
		}
		writeU32(w, uint32(len(inst.BranchTable)))
		for _, t := range inst.BranchTable {
			writeU32(w, t.DropKeep.Drop)
			writeU32(w, t.DropKeep.Keep)
			writeI32(w, t.BranchOffset)
		}
		return nil
	default:
		return fmt.Errorf("opcode: unhandled kind for opcode %v", inst.Op)
	}

	if c.Align {
		written := w.Len() - start
		for written < MaxInstructionSize {
			w.WriteByte(0)
			written++
		}
	}
	return nil
}

// Decode reads one Instruction from r.
func (c Codec) Decode(r io.ByteReader) (Instruction, error) {
	opByte, err := r.ReadByte()
	if err != nil {
		return Instruction{}, err
	}
	op := Opcode(opByte)
	inst := Instruction{Op: op}
	read := 1

	switch op.Kind() {
	case KindNoImmediate:
	case KindLocalDepth, KindFuncIdx, KindSignatureIdx, KindGlobalIdx, KindAddressOffset,
		KindDataSegmentIdx, KindTableIdx, KindElementSegmentIdx, KindCompiledFunc,
		KindBlockFuel, KindStackAlloc:
		v, n, err := readU32(r)
		if err != nil {
			return Instruction{}, err
		}
		inst.Index = v
		read += n
	case KindBranchOffset:
		v, n, err := readI32(r)
		if err != nil {
			return Instruction{}, err
		}
		inst.BranchOffset = v
		read += n
	case KindDropKeep:
		drop, n1, err := readU32(r)
		if err != nil {
			return Instruction{}, err
		}
		keep, n2, err := readU32(r)
		if err != nil {
			return Instruction{}, err
		}
		inst.DropKeep = DropKeep{Drop: drop, Keep: keep}
		read += n1 + n2
	case KindConst:
		v, n, err := readU64(r)
		if err != nil {
			return Instruction{}, err
		}
		inst.Const = value.Value(v)
		read += n
	case KindBranchTable:
		count, n, err := readU32(r)
		if err != nil {
			return Instruction{}, err
		}
		read += n
		targets := make([]BranchTableTarget, count)
		for i := range targets {
			drop, n1, err := readU32(r)
			if err != nil {
				return Instruction{}, err
			}
			keep, n2, err := readU32(r)
			if err != nil {
				return Instruction{}, err
			}
			off, n3, err := readI32(r)
			if err != nil {
				return Instruction{}, err
			}
			targets[i] = BranchTableTarget{DropKeep: DropKeep{Drop: drop, Keep: keep}, BranchOffset: off}
			read += n1 + n2 + n3
		}
		inst.BranchTable = targets
		return inst, nil
	default:
		return Instruction{}, fmt.Errorf("opcode: unhandled kind for opcode byte 0x%02x", opByte)
	}

	if c.Align {
		for ; read < MaxInstructionSize; read++ {
			if _, err := r.ReadByte(); err != nil {
				return Instruction{}, err
			}
		}
	}
	return inst, nil
}

func writeU32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeI32(w *bytes.Buffer, v int32) { writeU32(w, uint32(v)) }

func writeU64(w *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func readU32(r io.ByteReader) (uint32, int, error) {
	var b [4]byte
	for i := range b {
		c, err := r.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		b[i] = c
	}
	return binary.LittleEndian.Uint32(b[:]), 4, nil
}

func readI32(r io.ByteReader) (int32, int, error) {
	v, n, err := readU32(r)
	return int32(v), n, err
}

func readU64(r io.ByteReader) (uint64, int, error) {
	var b [8]byte
	for i := range b {
		c, err := r.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		b[i] = c
	}
	return binary.LittleEndian.Uint64(b[:]), 8, nil
}
