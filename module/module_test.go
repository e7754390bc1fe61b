package module_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rwasmio/rwasm/module"
	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/segment"
)

func testBuilder() *module.Builder {
	return &module.Builder{
		Types: []module.FuncType{
			{ParamCells: 0, ResultCells: 1}, // type 0: () -> i32
			{ParamCells: 2, ResultCells: 2}, // type 1: (i64) -> i64
		},
		Imports: []module.Import{
			{Module: "env", Name: "log", TypeIndex: 0},
		},
		FuncTypeIndices: []uint32{0, 1, 1}, // func 0 = import, func 1/2 = internal
		Globals:         []module.GlobalInit{{Type: module.GlobalType{Is64: false}}, {Type: module.GlobalType{Is64: true}}},
		Memory:          module.MemoryLimits{MinPages: 1, MaxPages: 10},
		Tables:          []module.TableLimits{{MinSize: 0, MaxSize: 4}},
	}
}

func TestBuilderResolvesArity(t *testing.T) {
	b := testBuilder()
	p, r := b.FuncArity(2)
	require.Equal(t, uint32(2), p)
	require.Equal(t, uint32(2), r)

	require.False(t, b.IsInternalFunc(0))
	require.True(t, b.IsInternalFunc(1))
	require.Equal(t, uint32(0), b.CompiledFuncIndex(1))
	require.Equal(t, uint32(1), b.CompiledFuncIndex(2))

	require.False(t, b.GlobalIs64(0))
	require.True(t, b.GlobalIs64(1))
	require.Equal(t, uint32(10), b.MemoryMaxPages())
	require.Equal(t, uint32(4), b.TableMaxSize(0))
}

func TestBuilderFinishRequiresContiguousFunctions(t *testing.T) {
	b := testBuilder()
	_, err := b.Finish(
		[]*module.Function{{Index: 0, Code: []opcode.Instruction{}}},
		segment.DataSegments{}, segment.ElementSegments{},
	)
	require.Error(t, err)

	mod, err := b.Finish(
		[]*module.Function{
			{Index: 0, EntryOffset: 0, Code: []opcode.Instruction{{Op: opcode.Unreachable}}},
			{Index: 1, EntryOffset: 1, Code: []opcode.Instruction{{Op: opcode.Unreachable}}},
		},
		segment.DataSegments{}, segment.ElementSegments{},
	)
	require.NoError(t, err)
	require.Len(t, mod.Functions, 2)
}

func TestModuleFunctionLookup(t *testing.T) {
	b := testBuilder()
	mod, err := b.Finish(
		[]*module.Function{
			{Index: 0, EntryOffset: 0, Code: []opcode.Instruction{{Op: opcode.Unreachable}}},
			{Index: 1, EntryOffset: 1, Code: []opcode.Instruction{{Op: opcode.Unreachable}}},
		},
		segment.DataSegments{}, segment.ElementSegments{},
	)
	require.NoError(t, err)

	fn, err := mod.Function(1)
	require.NoError(t, err)
	require.Equal(t, uint32(1), fn.EntryOffset)

	_, err = mod.Function(5)
	require.Error(t, err)

	require.True(t, mod.IsImport(0))
	require.False(t, mod.IsImport(1))

	ci, err := mod.CompiledFuncIndex(2)
	require.NoError(t, err)
	require.Equal(t, uint32(1), ci)

	_, err = mod.CompiledFuncIndex(0)
	require.ErrorIs(t, err, module.ErrNotInternal)

	ft, err := mod.FuncTypeOf(2)
	require.NoError(t, err)
	require.Equal(t, module.FuncType{ParamCells: 2, ResultCells: 2}, ft)
}
