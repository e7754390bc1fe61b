package rwasmtrace_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/rwasmtrace"
)

func TestZapTracerLogsEachHookAtExpectedLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := rwasmtrace.NewZapTracer(zap.New(core))

	tr.Instruction(3, opcode.Instruction{Op: opcode.I32Add})
	tr.Call(1, true)
	tr.Return(1)
	tr.FuelConsumed(42)
	tr.Trap(errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 5)
	require.Equal(t, "instruction", entries[0].Message)
	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, "trap", entries[4].Message)
	require.Equal(t, zapcore.WarnLevel, entries[4].Level)
}

func TestZapTracerFallsBackToPackageLoggerWhenNil(t *testing.T) {
	tr := rwasmtrace.NewZapTracer(nil)
	require.NotNil(t, tr)
	// Nop logger: must not panic when driven.
	tr.Instruction(0, opcode.Instruction{Op: opcode.I32Add})
}
