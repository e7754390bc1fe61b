package interpreter

// FuncRefNull is the sentinel stored in a table slot (or produced by
// ref.null) meaning "no function": the translator's own ref.null lowering
// pushes a bare zero (see compiler.Translator's OpRefNull case), which
// fixes this convention unambiguously — 0 is null, a real reference is
// funcIndex+FuncRefOffset so index 0 itself stays representable.
const FuncRefNull uint64 = 0

// FuncRefOffset biases a function index into its table/element-segment
// representation so FuncRefNull never collides with a real function.
const FuncRefOffset uint64 = 1

// Table is a growable vector of function references, capped by a static
// maximum element count.
type Table struct {
	Elements []uint64
	Max      uint32
}

// NewTable allocates a table already grown to its declared minimum, every
// slot initialized to FuncRefNull.
func NewTable(min, max uint32) *Table {
	return &Table{Elements: make([]uint64, min), Max: max}
}

func (tb *Table) Size() uint32 { return uint32(len(tb.Elements)) }

// Grow appends delta elements initialized to initVal, returning the
// previous size on success or math.MaxUint32 if the result would exceed
// Max, mirroring Memory.Grow's trap-free failure convention.
func (tb *Table) Grow(delta uint32, initVal uint64) uint32 {
	prev := tb.Size()
	next := uint64(prev) + uint64(delta)
	if next > uint64(tb.Max) {
		return 0xFFFFFFFF
	}
	grown := make([]uint64, next)
	copy(grown, tb.Elements)
	for i := prev; uint64(i) < next; i++ {
		grown[i] = initVal
	}
	tb.Elements = grown
	return prev
}

func (tb *Table) Get(idx uint32) (uint64, bool) {
	if idx >= tb.Size() {
		return 0, false
	}
	return tb.Elements[idx], true
}

func (tb *Table) Set(idx uint32, v uint64) bool {
	if idx >= tb.Size() {
		return false
	}
	tb.Elements[idx] = v
	return true
}

func (tb *Table) Fill(idx uint32, val uint64, n uint32) bool {
	end := uint64(idx) + uint64(n)
	if end > uint64(tb.Size()) {
		return false
	}
	for i := idx; uint64(i) < end; i++ {
		tb.Elements[i] = val
	}
	return true
}

// CopyWithin copies n elements from src to dst within the same table,
// handling overlap correctly, matching table.copy when both tables are
// the same instance (the single-table assumption this module carries
// throughout, see compiler/memtable.go's visitTableInit comment).
func (tb *Table) CopyWithin(dst, src, n uint32) bool {
	dend := uint64(dst) + uint64(n)
	send := uint64(src) + uint64(n)
	if dend > uint64(tb.Size()) || send > uint64(tb.Size()) {
		return false
	}
	copy(tb.Elements[dst:dend], tb.Elements[src:send])
	return true
}

// Init copies n elements, unchanged, from a consolidated element blob
// starting at srcOffset into the table at dst. The blob holds whatever
// values its builder was given: segment.Builder applies no FuncRefOffset
// bias itself.
func (tb *Table) Init(blob []uint32, srcOffset, dst, n uint32) bool {
	dend := uint64(dst) + uint64(n)
	send := uint64(srcOffset) + uint64(n)
	if dend > uint64(tb.Size()) || send > uint64(len(blob)) {
		return false
	}
	for i := uint32(0); i < n; i++ {
		tb.Elements[dst+i] = uint64(blob[srcOffset+i])
	}
	return true
}
