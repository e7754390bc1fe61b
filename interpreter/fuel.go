package interpreter

// FuelMeter is the read/spend interface a Caller exposes to a syscall
// handler: a host function can charge additional fuel for work it does on
// the VM's behalf, or inspect how much remains before deciding whether to
// attempt something expensive.
type FuelMeter interface {
	Remaining() uint64 // math.MaxUint64 if unmetered
	Consumed() uint64
	Consume(amount uint64) error
}

// fuelState is the VM's own fuel accounting. ConsumeFuel instructions are
// emitted one per basic block rather than one per instruction (see
// compiler.Translator.bumpFuel): a straight-line block's entire static
// cost is summed into the placeholder at its start, but every loop header
// and if/else arm gets its own placeholder, so a back-edge re-executes
// its loop's ConsumeFuel and the limit is re-checked on every iteration,
// not just once per call.
//
// FuelRefunded always reads back 0: this mode charges br_table's
// drop_keep cost as the max over every arm up front (see
// compiler.visitBrTable) without recording which arm actually ran, so
// there is nothing later to refund the difference from.
type fuelState struct {
	limit   *uint64
	enabled bool
	consumed uint64
}

func (f *fuelState) Remaining() uint64 {
	if f.limit == nil {
		return ^uint64(0)
	}
	if f.consumed >= *f.limit {
		return 0
	}
	return *f.limit - f.consumed
}

func (f *fuelState) Consumed() uint64 { return f.consumed }

func (f *fuelState) Refunded() uint64 { return 0 }

// Consume charges amount unconditionally, trapping OutOfFuel first if
// enabled and the charge would exceed the limit. Matches §7's ordering
// guarantee: the check happens before any state the caller is about to
// mutate is touched, since every call site charges fuel before doing its
// own work.
func (f *fuelState) Consume(amount uint64) error {
	if f.enabled && f.limit != nil && f.consumed+amount > *f.limit {
		return trap(OutOfFuel)
	}
	f.consumed += amount
	return nil
}
