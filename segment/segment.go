// Package segment consolidates a module's passive data and element segments
// into two flat blobs — one []byte, one []uint32 of function indices — so
// the interpreter's memory.init/table.init/data.drop/elem.drop opcodes can
// address any segment's bytes by a single (offset, length) pair into shared
// storage rather than juggling one allocation per segment.
package segment

// Range locates one original segment's slice within a consolidated blob.
type Range struct {
	Offset uint32
	Length uint32
}

// Builder accumulates data and element segments in declaration order and
// produces their consolidated form. The zero value is ready to use.
type Builder struct {
	data       []byte
	dataRanges []Range

	elems       []uint32
	elemRanges  []Range
}

// AddData appends a passive data segment's bytes to the consolidated data
// blob and returns its index (matching WebAssembly's data-segment index
// space, i.e. declaration order).
func (b *Builder) AddData(bytes []byte) uint32 {
	idx := uint32(len(b.dataRanges))
	b.dataRanges = append(b.dataRanges, Range{Offset: uint32(len(b.data)), Length: uint32(len(bytes))})
	b.data = append(b.data, bytes...)
	return idx
}

// AddElements appends a passive element segment's function indices to the
// consolidated element blob and returns its index.
func (b *Builder) AddElements(funcIndices []uint32) uint32 {
	idx := uint32(len(b.elemRanges))
	b.elemRanges = append(b.elemRanges, Range{Offset: uint32(len(b.elems)), Length: uint32(len(funcIndices))})
	b.elems = append(b.elems, funcIndices...)
	return idx
}

// DataSegments is the finished, immutable consolidated-data result.
type DataSegments struct {
	Blob   []byte
	Ranges []Range
}

// ElementSegments is the finished, immutable consolidated-element result.
type ElementSegments struct {
	Blob   []uint32
	Ranges []Range
}

// Finish returns the consolidated segments built so far. Builder remains
// usable afterward (Finish does not reset it), mirroring compiler.Translator's
// Finish, which is also non-destructive.
func (b *Builder) Finish() (DataSegments, ElementSegments) {
	data := DataSegments{Blob: append([]byte(nil), b.data...), Ranges: append([]Range(nil), b.dataRanges...)}
	elems := ElementSegments{Blob: append([]uint32(nil), b.elems...), Ranges: append([]Range(nil), b.elemRanges...)}
	return data, elems
}

// DroppedSet tracks which segment indices have been dropped (via
// data.drop/elem.drop, or consumed by a non-repeatable active-segment
// init at instantiation time) as a run-time bitmap; further memory.init/
// table.init against a dropped index traps.
type DroppedSet struct {
	bits []uint64
}

func (d *DroppedSet) Drop(index uint32) {
	word := index / 64
	for uint32(len(d.bits)) <= word {
		d.bits = append(d.bits, 0)
	}
	d.bits[word] |= 1 << (index % 64)
}

func (d *DroppedSet) IsDropped(index uint32) bool {
	word := index / 64
	if uint32(len(d.bits)) <= word {
		return false
	}
	return d.bits[word]&(1<<(index%64)) != 0
}
