package rwasmtrace

import (
	"sync"

	"go.uber.org/zap"

	"github.com/rwasmio/rwasm/opcode"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package's logger instance, a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the package's logger. Call before constructing any
// ZapTracer that should use it.
func SetLogger(l *zap.Logger) {
	logger = l
}

// ZapTracer is a Tracer backed by a structured logger, intended for
// debugging a single VM.Run invocation rather than production use: it logs
// at Debug level on every instruction, so enabling it on a hot loop is
// expensive by design.
type ZapTracer struct {
	log *zap.Logger
}

// NewZapTracer builds a ZapTracer. A nil logger falls back to Logger().
func NewZapTracer(log *zap.Logger) *ZapTracer {
	if log == nil {
		log = Logger()
	}
	return &ZapTracer{log: log}
}

func (z *ZapTracer) Instruction(pc uint32, inst opcode.Instruction) {
	z.log.Debug("instruction", zap.Uint32("pc", pc), zap.Uint8("op", uint8(inst.Op)))
}

func (z *ZapTracer) Call(funcIndex uint32, internal bool) {
	z.log.Debug("call", zap.Uint32("func", funcIndex), zap.Bool("internal", internal))
}

func (z *ZapTracer) Return(funcIndex uint32) {
	z.log.Debug("return", zap.Uint32("func", funcIndex))
}

func (z *ZapTracer) Trap(err error) {
	z.log.Warn("trap", zap.Error(err))
}

func (z *ZapTracer) FuelConsumed(total uint64) {
	z.log.Debug("fuel", zap.Uint64("consumed", total))
}
