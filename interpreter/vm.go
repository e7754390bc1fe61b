// Package interpreter executes a linked module's compiled bytecode: a
// bounded-recursion, fuel-metered stack machine dispatching the flat
// opcode.Instruction stream package compiler produces, against the
// Memory/Table/global state package module describes.
package interpreter

import (
	"fmt"

	"github.com/rwasmio/rwasm/module"
	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/rwasmtrace"
	"github.com/rwasmio/rwasm/segment"
	"github.com/rwasmio/rwasm/value"
)

// VM is one instantiation of a Module: its own memory, tables, globals,
// and call/operand stacks. Create one per concurrent execution — Module
// itself is immutable and safe to share, but a VM is not (SPEC_FULL.md
// §5): running the same VM from two goroutines at once races on its
// stacks exactly like two goroutines sharing one wazero callEngine would.
type VM struct {
	mod *module.Module

	memory  *Memory
	tables  []*Table
	globals []value.Value

	stack *OperandStack
	calls *callStack

	fuel    fuelState
	floats  bool
	tracer  rwasmtrace.Tracer
	context any

	syscall SyscallHandler

	droppedData segment.DroppedSet
	droppedElem segment.DroppedSet
}

// New instantiates mod: allocates its memory and tables at their declared
// minimums, seeds globals from their initializers, and installs cfg's
// limits. handler is invoked for every call to an imported function; a nil
// handler traps any such call as a bad-signature failure, since there is
// nothing to route it to.
func New(mod *module.Module, cfg Config, handler SyscallHandler, ctx any) *VM {
	vm := &VM{
		mod:     mod,
		memory:  NewMemory(mod.Memory.MinPages, mod.Memory.MaxPages),
		tables:  make([]*Table, len(mod.Tables)),
		globals: make([]value.Value, 2*len(mod.Globals)),
		stack:   NewOperandStack(1024),
		calls:   newCallStack(DefaultMaxRecursionDepth),
		tracer:  rwasmtrace.NopTracer{},
		context: ctx,
		syscall: handler,
		floats:  cfg.FloatsEnabled,
	}
	vm.fuel = fuelState{limit: cfg.FuelLimit, enabled: cfg.FuelEnabled}
	for i, lim := range mod.Tables {
		vm.tables[i] = NewTable(lim.MinSize, lim.MaxSize)
	}
	for i, g := range mod.Globals {
		if g.Type.Is64 {
			bits := uint64(g.Value)
			vm.globals[2*i] = value.FromU32(uint32(bits))
			vm.globals[2*i+1] = value.FromU32(uint32(bits >> 32))
		} else {
			vm.globals[2*i] = g.Value
		}
	}
	return vm
}

// SetTracer installs t, replacing whatever tracer was previously
// installed (the default is a NopTracer that costs nothing).
func (vm *VM) SetTracer(t rwasmtrace.Tracer) {
	if t == nil {
		t = rwasmtrace.NopTracer{}
	}
	vm.tracer = t
}

func (vm *VM) RemainingFuel() uint64 { return vm.fuel.Remaining() }
func (vm *VM) FuelConsumed() uint64  { return vm.fuel.Consumed() }
func (vm *VM) FuelRefunded() uint64  { return vm.fuel.Refunded() }

func (vm *VM) Context() any { return vm.context }

// Result is what Run returns on a clean finish: either the callee's result
// cells, left on the operand stack at indices [0,len), or a host-signaled
// halt code.
type Result struct {
	Halted   bool
	ExitCode uint32
	Results  []value.Value
}

// Run invokes funcIndex (a WASM-level function index) with args already
// converted to cells (an i64 argument contributes two value.Value cells,
// hi then lo, matching every other i64 on-stack convention) and executes
// until it returns, traps, or a syscall handler signals ExecutionHalted.
func (vm *VM) Run(funcIndex uint32, args []value.Value) (Result, error) {
	if vm.mod.IsImport(funcIndex) {
		return Result{}, fmt.Errorf("rwasm/interpreter: function %d is an import, not callable directly", funcIndex)
	}
	compiledIdx, err := vm.mod.CompiledFuncIndex(funcIndex)
	if err != nil {
		return Result{}, err
	}
	fn, err := vm.mod.Function(compiledIdx)
	if err != nil {
		return Result{}, err
	}
	ft, err := vm.mod.FuncTypeOf(funcIndex)
	if err != nil {
		return Result{}, err
	}
	if uint32(len(args)) != ft.ParamCells {
		return Result{}, fmt.Errorf("rwasm/interpreter: function %d wants %d argument cells, got %d", funcIndex, ft.ParamCells, len(args))
	}

	vm.stack.Truncate(0)
	vm.calls.frames = vm.calls.frames[:0]
	for _, a := range args {
		vm.stack.Push(a)
	}
	// The outermost frame's code is nil: doReturn reads that as "nothing
	// further to resume, this Run call is finished" rather than switching
	// to a caller's code.
	if err := vm.calls.push(callFrame{code: nil, returnIP: 0, base: 0, funcIndex: funcIndex}); err != nil {
		return Result{}, err
	}
	// Every other entry into a function (CallInternal/CallIndirect/a tail
	// call) zero-extends the callee's declared-but-not-parameter locals
	// before jumping in; Run is fn's only entry point that isn't one of
	// those dispatch cases, so it must do the same zero-extension itself.
	vm.stack.PushN(fn.LocalCells - ft.ParamCells)

	halted, exitCode, err := vm.dispatch(fn, 0, funcIndex)
	if err != nil {
		vm.tracer.Trap(err)
		return Result{}, err
	}
	if halted {
		return Result{Halted: true, ExitCode: exitCode}, nil
	}
	results := make([]value.Value, ft.ResultCells)
	copy(results, vm.stack.cells[:ft.ResultCells])
	return Result{Results: results}, nil
}

// frameState is the dispatch loop's notion of "what's currently
// executing": the function body, its decoded instructions, the next
// instruction to run, and the WASM-level function index (needed only for
// the tracer and for resolving a CallInternal's callee's own func index).
type frameState struct {
	fn        *module.Function
	code      []opcode.Instruction
	ip        uint32
	funcIndex uint32
}

// dispatch runs fn starting at ip until execution unwinds back below
// entryDepth — i.e. until the frame that invoked this particular call
// (already pushed onto vm.calls by the caller) is itself popped by a
// Return, a BrTable return-arm, or a tail call's eventual real return.
func (vm *VM) dispatch(fn *module.Function, ip uint32, funcIndex uint32) (halted bool, exitCode uint32, err error) {
	entryDepth := vm.calls.depth()
	cur := frameState{fn: fn, code: fn.Code, ip: ip, funcIndex: funcIndex}

	for {
		inst := cur.code[cur.ip]
		vm.tracer.Instruction(cur.ip, inst)
		next := cur.ip + 1

		switch inst.Op {
		case opcode.ConsumeFuel:
			if ferr := vm.fuel.Consume(uint64(inst.Index)); ferr != nil {
				return false, 0, ferr
			}
			vm.tracer.FuelConsumed(vm.fuel.Consumed())

		case opcode.StackAlloc:
			base := vm.calls.top().base
			if uint64(base)+uint64(inst.Index) > DefaultMaxValueStackCells {
				return false, 0, trap(StackOverflow)
			}

		case opcode.Unreachable:
			return false, 0, trap(UnreachableCodeReached)

		case opcode.Drop:
			vm.stack.Pop()

		case opcode.Select:
			// Single-cell operands only (i32/f32/f64/funcref): the
			// compiler lowers select to one opcode regardless of operand
			// kind, so an i64 select is out of scope here — see DESIGN.md.
			cond := vm.stack.Pop().U32()
			b := vm.stack.Pop()
			a := vm.stack.Pop()
			if cond != 0 {
				vm.stack.Push(a)
			} else {
				vm.stack.Push(b)
			}

		case opcode.LocalGet:
			vm.stack.Push(vm.stack.At(inst.Index))
		case opcode.LocalSet:
			v := vm.stack.Pop()
			vm.stack.SetAt(inst.Index, v)
		case opcode.LocalTee:
			vm.stack.SetAt(inst.Index, vm.stack.At(1))

		case opcode.GlobalGet:
			vm.stack.Push(vm.globals[inst.Index])
		case opcode.GlobalSet:
			vm.globals[inst.Index] = vm.stack.Pop()

		case opcode.I32Const, opcode.F32Const, opcode.F64Const:
			vm.stack.Push(inst.Const)
		case opcode.I64Const:
			vm.stack.PushI64(uint64(inst.Const))

		case opcode.Br:
			cur.ip = uint32(int32(cur.ip) + inst.BranchOffset)
			continue
		case opcode.BrIfEqz:
			if vm.stack.Pop().U32() == 0 {
				cur.ip = uint32(int32(cur.ip) + inst.BranchOffset)
				continue
			}
		case opcode.BrIfNez:
			if vm.stack.Pop().U32() != 0 {
				cur.ip = uint32(int32(cur.ip) + inst.BranchOffset)
				continue
			}
		case opcode.BrAdjust:
			dk := cur.code[cur.ip+1].DropKeep
			vm.stack.DropKeep(dk.Drop, dk.Keep)
			cur.ip = uint32(int32(cur.ip) + inst.BranchOffset)
			continue
		case opcode.BrAdjustIfNez:
			if vm.stack.Pop().U32() != 0 {
				dk := cur.code[cur.ip+1].DropKeep
				vm.stack.DropKeep(dk.Drop, dk.Keep)
				cur.ip = uint32(int32(cur.ip) + inst.BranchOffset)
				continue
			}
			cur.ip = next + 1 // skip the paired Return word
			continue

		case opcode.BrTable:
			idx := vm.stack.Pop().U32()
			armCount := uint32(len(inst.BranchTable))
			if idx >= armCount-1 {
				idx = armCount - 1
			}
			arm := inst.BranchTable[idx]
			if arm.BranchOffset == 0 {
				// Sentinel: branching to the outermost frame is a return
				// (see compiler.visitBrTable); a real branch offset can
				// never be 0 since a branch target always differs from
				// the BrTable instruction's own position.
				done, h, ec, rerr := vm.doReturn(arm.DropKeep, &cur, entryDepth)
				if rerr != nil || h {
					return h, ec, rerr
				}
				if done {
					return false, 0, nil
				}
				continue
			}
			vm.stack.DropKeep(arm.DropKeep.Drop, arm.DropKeep.Keep)
			cur.ip = uint32(int32(cur.ip) + arm.BranchOffset)
			continue

		case opcode.Return:
			done, h, ec, rerr := vm.doReturn(inst.DropKeep, &cur, entryDepth)
			if rerr != nil || h {
				return h, ec, rerr
			}
			if done {
				return false, 0, nil
			}
			continue

		case opcode.ReturnIfNez:
			if vm.stack.Pop().U32() != 0 {
				done, h, ec, rerr := vm.doReturn(inst.DropKeep, &cur, entryDepth)
				if rerr != nil || h {
					return h, ec, rerr
				}
				if done {
					return false, 0, nil
				}
				continue
			}

		case opcode.CallInternal:
			callee, cerr := vm.mod.Function(inst.Index)
			if cerr != nil {
				return false, 0, cerr
			}
			calleeFuncIndex := inst.Index + uint32(len(vm.mod.Imports))
			paramCells, localCells := vm.localCellsOf(calleeFuncIndex, callee)
			base := vm.stack.Len() - paramCells
			if perr := vm.calls.push(callFrame{code: cur.fn, returnIP: next, base: base, funcIndex: cur.funcIndex}); perr != nil {
				return false, 0, perr
			}
			vm.stack.PushN(localCells - paramCells)
			vm.tracer.Call(calleeFuncIndex, true)
			cur = frameState{fn: callee, code: callee.Code, ip: 0, funcIndex: calleeFuncIndex}
			continue

		case opcode.Call:
			h, ec, ierr := vm.invokeImport(inst.Index)
			if ierr != nil || h {
				return h, ec, ierr
			}

		case opcode.CallIndirect:
			tableIdx := cur.code[cur.ip+1].Index
			callee, calleeFuncIndex, isImport, rerr := vm.resolveIndirectCallee(inst.Index, tableIdx)
			if rerr != nil {
				return false, 0, rerr
			}
			if isImport {
				h, ec, ierr := vm.invokeImport(calleeFuncIndex)
				if ierr != nil || h {
					return h, ec, ierr
				}
				cur.ip = next + 1
				continue
			}
			paramCells, localCells := vm.localCellsOf(calleeFuncIndex, callee)
			base := vm.stack.Len() - paramCells
			if perr := vm.calls.push(callFrame{code: cur.fn, returnIP: next + 1, base: base, funcIndex: cur.funcIndex}); perr != nil {
				return false, 0, perr
			}
			vm.stack.PushN(localCells - paramCells)
			vm.tracer.Call(calleeFuncIndex, true)
			cur = frameState{fn: callee, code: callee.Code, ip: 0, funcIndex: calleeFuncIndex}
			continue

		case opcode.ReturnCallInternal:
			dk := cur.code[cur.ip+1].DropKeep
			callee, cerr := vm.mod.Function(inst.Index)
			if cerr != nil {
				return false, 0, cerr
			}
			calleeFuncIndex := inst.Index + uint32(len(vm.mod.Imports))
			vm.tailCallInto(&dk, calleeFuncIndex, callee)
			cur = frameState{fn: callee, code: callee.Code, ip: 0, funcIndex: calleeFuncIndex}
			continue

		case opcode.ReturnCall:
			dk := cur.code[cur.ip+1].DropKeep
			vm.stack.DropKeep(dk.Drop, dk.Keep)
			h, ec, ierr := vm.invokeImport(inst.Index)
			if ierr != nil || h {
				return h, ec, ierr
			}
			ft, ferr := vm.mod.FuncTypeOf(inst.Index)
			if ferr != nil {
				return false, 0, ferr
			}
			done, h2, ec2, rerr := vm.doReturn(opcode.DropKeep{Keep: ft.ResultCells}, &cur, entryDepth)
			if rerr != nil || h2 {
				return h2, ec2, rerr
			}
			if done {
				return false, 0, nil
			}
			continue

		case opcode.ReturnCallIndirect:
			tableIdx := cur.code[cur.ip+1].Index
			dk := cur.code[cur.ip+2].DropKeep
			callee, calleeFuncIndex, isImport, rerr := vm.resolveIndirectCallee(inst.Index, tableIdx)
			if rerr != nil {
				return false, 0, rerr
			}
			if isImport {
				vm.stack.DropKeep(dk.Drop, dk.Keep)
				h, ec, ierr := vm.invokeImport(calleeFuncIndex)
				if ierr != nil || h {
					return h, ec, ierr
				}
				ft, ferr := vm.mod.FuncTypeOf(calleeFuncIndex)
				if ferr != nil {
					return false, 0, ferr
				}
				done, h2, ec2, rerr2 := vm.doReturn(opcode.DropKeep{Keep: ft.ResultCells}, &cur, entryDepth)
				if rerr2 != nil || h2 {
					return h2, ec2, rerr2
				}
				if done {
					return false, 0, nil
				}
				continue
			}
			vm.tailCallInto(&dk, calleeFuncIndex, callee)
			cur = frameState{fn: callee, code: callee.Code, ip: 0, funcIndex: calleeFuncIndex}
			continue

		case opcode.SignatureCheck:
			actualFuncIndex := vm.stack.Pop().U32()
			if actualFuncIndex >= uint32(len(vm.mod.FuncTypeIndices)) || vm.mod.FuncTypeIndices[actualFuncIndex] != inst.Index {
				return false, 0, trap(BadSignature)
			}

		default:
			if derr := vm.dispatchNumericOrMemory(inst); derr != nil {
				return false, 0, derr
			}
		}
		cur.ip = next
	}
}

// doReturn performs a non-tail Return's two-step mechanics: dk first
// shrinks the stack down to this function's own locals+results, then the
// call frame is popped and those result cells relocated down to its
// recorded base, discarding the entire locals region above it — including
// any dead bytes a tail-call chain left there, cleaned up here in one
// shot regardless of how long that chain was (see callFrame's doc
// comment). done reports whether the invocation that dispatch is running
// on behalf of has itself now returned.
func (vm *VM) doReturn(dk opcode.DropKeep, cur *frameState, entryDepth int) (done bool, halted bool, exitCode uint32, err error) {
	vm.stack.DropKeep(dk.Drop, dk.Keep)
	frame := vm.calls.pop()
	popFrameWithResult(vm.stack, frame.base, dk.Keep)
	vm.tracer.Return(cur.funcIndex)
	if vm.calls.depth() < entryDepth || frame.code == nil {
		return true, false, 0, nil
	}
	cur.fn, cur.code, cur.ip, cur.funcIndex = frame.code, frame.code.Code, frame.returnIP, frame.funcIndex
	return false, false, 0, nil
}

// tailCallInto applies a tail call's own drop_keep in place (collapsing
// the current function's locals down to just the new callee's argument
// cells) and zero-extends the callee's declared locals, reusing the
// existing call frame unchanged: the call stack does not grow, matching
// the tail-call contract (SPEC_FULL.md's return_call family). The current
// top frame's funcIndex is NOT updated to the callee's — it stays the
// function that made the eventual real call, since that's purely for the
// tracer/diagnostics and the original funcIndex is what a trap mid-chain
// should report as the frame still logically "in".
func (vm *VM) tailCallInto(dk *opcode.DropKeep, calleeFuncIndex uint32, callee *module.Function) {
	vm.stack.DropKeep(dk.Drop, dk.Keep)
	paramCells, localCells := vm.localCellsOf(calleeFuncIndex, callee)
	vm.stack.PushN(localCells - paramCells)
	vm.tracer.Call(calleeFuncIndex, true)
}

// localCellsOf returns a callee's (paramCells, localCells): localCells is
// the function's own declared-local cell count (params plus non-parameter
// locals), stashed by compiler.Translator.Finish — distinct from
// fn.Code[1].Index (StackAlloc's Index), which is the function's high-water
// mark and typically exceeds localCells once its body evaluates anything.
func (vm *VM) localCellsOf(funcIndex uint32, fn *module.Function) (paramCells, localCells uint32) {
	ft, _ := vm.mod.FuncTypeOf(funcIndex)
	return ft.ParamCells, fn.LocalCells
}

// invokeImport routes a Call/ReturnCall targeting an import to the
// installed SyscallHandler. Returns halted=true if the handler signaled a
// clean exit via ExecutionHalted.
func (vm *VM) invokeImport(funcIndex uint32) (halted bool, exitCode uint32, err error) {
	if vm.syscall == nil {
		return false, 0, trap(BadSignature)
	}
	vm.tracer.Call(funcIndex, false)
	caller := &Caller{vm: vm}
	if serr := vm.syscall(caller, funcIndex); serr != nil {
		if he, ok := serr.(*ExecutionHalted); ok {
			return true, he.Code, nil
		}
		return false, 0, serr
	}
	vm.tracer.Return(funcIndex)
	return false, 0, nil
}

// resolveIndirectCallee implements CallIndirect/ReturnCallIndirect's table
// lookup and signature check: it pops the element index operand, fetches
// the table slot, and verifies the referenced function's actual declared
// type matches typeIdx. It never invokes anything itself — whether an
// import call is a tail call or not changes how its result is disposed of,
// so that decision belongs to the caller, not here.
func (vm *VM) resolveIndirectCallee(typeIdx, tableIdx uint32) (callee *module.Function, calleeFuncIndex uint32, isImport bool, err error) {
	elemIdx := vm.stack.Pop().U32()
	if int(tableIdx) >= len(vm.tables) {
		return nil, 0, false, trap(TableOutOfBounds)
	}
	ref, ok := vm.tables[tableIdx].Get(elemIdx)
	if !ok {
		return nil, 0, false, trap(TableOutOfBounds)
	}
	if ref == FuncRefNull {
		return nil, 0, false, trap(IndirectCallToNull)
	}
	funcIndex := uint32(ref - FuncRefOffset)
	if funcIndex >= uint32(len(vm.mod.FuncTypeIndices)) || vm.mod.FuncTypeIndices[funcIndex] != typeIdx {
		return nil, 0, false, trap(BadSignature)
	}
	if vm.mod.IsImport(funcIndex) {
		return nil, funcIndex, true, nil
	}
	compiledIdx, _ := vm.mod.CompiledFuncIndex(funcIndex)
	fn, ferr := vm.mod.Function(compiledIdx)
	if ferr != nil {
		return nil, 0, false, ferr
	}
	return fn, funcIndex, false, nil
}
