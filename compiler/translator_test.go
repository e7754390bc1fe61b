package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rwasmio/rwasm/compiler"
	"github.com/rwasmio/rwasm/interpreter"
	"github.com/rwasmio/rwasm/ir"
	"github.com/rwasmio/rwasm/module"
	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/segment"
	"github.com/rwasmio/rwasm/value"
)

// TestTranslatorEmitsExactInstructionsForAddFunction hand-traces a minimal
// (i32, i32) -> i32 function body (local.get 0, local.get 1, i32.add, end)
// and asserts the exact emitted instruction stream, including the
// LocalGet depth immediates computed from the two parameters' cell layout.
func TestTranslatorEmitsExactInstructionsForAddFunction(t *testing.T) {
	resolver := &module.Builder{
		Types:           []module.FuncType{{ParamCells: 2, ResultCells: 1}},
		FuncTypeIndices: []uint32{0},
	}
	var segs segment.Builder

	tr := compiler.New(resolver, &segs)
	tr.Begin(0, []compiler.ValKind{compiler.ValI32, compiler.ValI32}, nil, 1)

	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpLocalGet, LocalIndex: 0}))
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpLocalGet, LocalIndex: 1}))
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpNumeric, Numeric: uint16(opcode.I32Add)}))
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpEnd}))

	fn, err := tr.Finish(0)
	require.NoError(t, err)

	require.Equal(t, uint32(2), fn.LocalCells)
	require.Equal(t, []opcode.Instruction{
		{Op: opcode.ConsumeFuel, Index: 3},
		{Op: opcode.StackAlloc, Index: 4},
		{Op: opcode.LocalGet, Index: 2},
		{Op: opcode.LocalGet, Index: 2},
		{Op: opcode.I32Add},
		{Op: opcode.Return, DropKeep: opcode.DropKeep{Drop: 0, Keep: 1}},
	}, fn.Code)
}

// TestTranslatorAddFunctionRunsUnderInterpreter round-trips the same
// function through the real interpreter: compile with Translator, wire it
// into a module.Builder, and execute it, checking the compiled bytecode's
// actual behavior rather than just its shape.
func TestTranslatorAddFunctionRunsUnderInterpreter(t *testing.T) {
	b := &module.Builder{
		Types:           []module.FuncType{{ParamCells: 2, ResultCells: 1}},
		FuncTypeIndices: []uint32{0},
	}
	var segs segment.Builder

	tr := compiler.New(b, &segs)
	tr.Begin(0, []compiler.ValKind{compiler.ValI32, compiler.ValI32}, nil, 1)
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpLocalGet, LocalIndex: 0}))
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpLocalGet, LocalIndex: 1}))
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpNumeric, Numeric: uint16(opcode.I32Add)}))
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpEnd}))
	fn, err := tr.Finish(0)
	require.NoError(t, err)

	_, elems := segs.Finish()
	mod, err := b.Finish([]*module.Function{fn}, segment.DataSegments{}, elems)
	require.NoError(t, err)

	vm := interpreter.New(mod, interpreter.Config{}, nil, nil)
	res, err := vm.Run(0, []value.Value{value.FromU32(3), value.FromU32(4)})
	require.NoError(t, err)
	require.Equal(t, uint32(7), res.Results[0].U32())
}

// TestTranslatorLocalTeeKeepsValueOnStack exercises a declared local (not
// just parameters): local.tee must store into the local's cell while
// leaving its value on the operand stack for the following instruction.
func TestTranslatorLocalTeeKeepsValueOnStack(t *testing.T) {
	resolver := &module.Builder{
		Types:           []module.FuncType{{ParamCells: 1, ResultCells: 1}},
		FuncTypeIndices: []uint32{0},
	}
	var segs segment.Builder

	tr := compiler.New(resolver, &segs)
	// param 0: i32, declared local 1: i32
	tr.Begin(0, []compiler.ValKind{compiler.ValI32}, []compiler.ValKind{compiler.ValI32}, 1)

	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpLocalGet, LocalIndex: 0}))
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpLocalTee, LocalIndex: 1}))
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpEnd}))

	fn, err := tr.Finish(0)
	require.NoError(t, err)
	require.Equal(t, uint32(2), fn.LocalCells)

	_, elems := segs.Finish()
	mod, err := resolver.Finish([]*module.Function{fn}, segment.DataSegments{}, elems)
	require.NoError(t, err)

	vm := interpreter.New(mod, interpreter.Config{}, nil, nil)
	res, err := vm.Run(0, []value.Value{value.FromU32(9)})
	require.NoError(t, err)
	require.Equal(t, uint32(9), res.Results[0].U32())
}

// TestTranslatorUnboundedLoopTrapsOutOfFuel hand-traces `(loop (br 0))`, an
// infinite loop with no exit, and confirms a fuel-limited VM actually traps
// OutOfFuel instead of looping forever: the loop header's own ConsumeFuel
// placeholder must be re-executed (and re-checked against the limit) on
// every back-edge, not just once at function entry.
func TestTranslatorUnboundedLoopTrapsOutOfFuel(t *testing.T) {
	resolver := &module.Builder{
		Types:           []module.FuncType{{ParamCells: 0, ResultCells: 0}},
		FuncTypeIndices: []uint32{0},
	}
	var segs segment.Builder

	tr := compiler.New(resolver, &segs)
	tr.Begin(0, nil, nil, 0)
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpLoop, Block: ir.BlockType{}}))
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpBr, FuncIndex: 0}))
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpEnd})) // closes the loop
	require.NoError(t, tr.Visit(ir.Operator{Kind: ir.OpEnd})) // closes the function body

	fn, err := tr.Finish(0)
	require.NoError(t, err)

	_, elems := segs.Finish()
	mod, err := resolver.Finish([]*module.Function{fn}, segment.DataSegments{}, elems)
	require.NoError(t, err)

	limit := uint64(5)
	vm := interpreter.New(mod, interpreter.Config{FuelEnabled: true, FuelLimit: &limit}, nil, nil)
	_, err = vm.Run(0, nil)

	var rerr *interpreter.RwasmError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, interpreter.OutOfFuel, rerr.Kind)
	require.Equal(t, limit, vm.FuelConsumed())
}

// TestTranslatorRejectsUnsupportedExtension confirms SIMD/threads/etc.
// operators are rejected up front rather than silently mistranslated.
func TestTranslatorRejectsUnsupportedExtension(t *testing.T) {
	resolver := &module.Builder{
		Types:           []module.FuncType{{ParamCells: 0, ResultCells: 0}},
		FuncTypeIndices: []uint32{0},
	}
	var segs segment.Builder

	tr := compiler.New(resolver, &segs)
	tr.Begin(0, nil, nil, 0)
	err := tr.Visit(ir.Operator{Kind: ir.OpUnsupportedExtension})
	require.ErrorIs(t, err, compiler.ErrNotSupportedExtension)
}
