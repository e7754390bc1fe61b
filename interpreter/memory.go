package interpreter

import "encoding/binary"

// MemoryPageSize is the fixed page granularity WebAssembly linear memory
// grows by: 64 KiB, matching the wasm spec and wazero's own
// internal/wasm.MemoryPageSize.
const MemoryPageSize = 1 << 16

// MemoryMaxPages is the hard ceiling on page count the 32-bit address
// space imposes, independent of any module-declared maximum.
const MemoryMaxPages = 1 << 16

// Memory is the VM's single linear memory: a contiguous byte buffer grown
// in whole pages, capped by a static maximum. Growth past max (or past
// MemoryMaxPages) never traps — it returns math.MaxUint32, the
// WebAssembly convention — so the translator's emitted clamp-to-max
// prelude (see compiler/memtable.go) can route the overflow into the
// interpreter's own native memory.grow trap-free failure path.
type Memory struct {
	Buffer []byte
	Min    uint32
	Max    uint32
}

// NewMemory allocates a memory already grown to its declared minimum.
func NewMemory(min, max uint32) *Memory {
	return &Memory{Buffer: make([]byte, uint64(min)*MemoryPageSize), Min: min, Max: max}
}

func (m *Memory) Pages() uint32 { return uint32(len(m.Buffer) / MemoryPageSize) }

// Grow attempts to add delta pages, returning the previous page count on
// success or math.MaxUint32 if the new size would exceed Max or
// MemoryMaxPages. Never mutates the buffer on failure.
func (m *Memory) Grow(delta uint32) uint32 {
	prev := m.Pages()
	next := uint64(prev) + uint64(delta)
	if next > uint64(m.Max) || next > MemoryMaxPages {
		return 0xFFFFFFFF
	}
	grown := make([]byte, next*MemoryPageSize)
	copy(grown, m.Buffer)
	m.Buffer = grown
	return prev
}

func (m *Memory) boundsOK(offset uint32, n int) bool {
	end := uint64(offset) + uint64(n)
	return end <= uint64(len(m.Buffer))
}

func (m *Memory) ReadByte(offset uint32) (byte, bool) {
	if !m.boundsOK(offset, 1) {
		return 0, false
	}
	return m.Buffer[offset], true
}

func (m *Memory) WriteByte(offset uint32, v byte) bool {
	if !m.boundsOK(offset, 1) {
		return false
	}
	m.Buffer[offset] = v
	return true
}

func (m *Memory) ReadUint16LE(offset uint32) (uint16, bool) {
	if !m.boundsOK(offset, 2) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(m.Buffer[offset:]), true
}

func (m *Memory) WriteUint16LE(offset uint32, v uint16) bool {
	if !m.boundsOK(offset, 2) {
		return false
	}
	binary.LittleEndian.PutUint16(m.Buffer[offset:], v)
	return true
}

func (m *Memory) ReadUint32LE(offset uint32) (uint32, bool) {
	if !m.boundsOK(offset, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(m.Buffer[offset:]), true
}

func (m *Memory) WriteUint32LE(offset uint32, v uint32) bool {
	if !m.boundsOK(offset, 4) {
		return false
	}
	binary.LittleEndian.PutUint32(m.Buffer[offset:], v)
	return true
}

func (m *Memory) ReadUint64LE(offset uint32) (uint64, bool) {
	if !m.boundsOK(offset, 8) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(m.Buffer[offset:]), true
}

func (m *Memory) WriteUint64LE(offset uint32, v uint64) bool {
	if !m.boundsOK(offset, 8) {
		return false
	}
	binary.LittleEndian.PutUint64(m.Buffer[offset:], v)
	return true
}

// Fill sets n bytes starting at offset to v. Reports false (no bytes
// written) if the range is out of bounds, so the caller can trap before
// any partial mutation.
func (m *Memory) Fill(offset uint32, v byte, n uint32) bool {
	if !m.boundsOK(offset, int(n)) {
		return false
	}
	region := m.Buffer[offset : uint64(offset)+uint64(n)]
	for i := range region {
		region[i] = v
	}
	return true
}

// CopyWithin copies n bytes from src to dst within the same buffer,
// correctly handling overlap (memmove semantics), matching memory.copy.
func (m *Memory) CopyWithin(dst, src, n uint32) bool {
	if !m.boundsOK(dst, int(n)) || !m.boundsOK(src, int(n)) {
		return false
	}
	copy(m.Buffer[dst:uint64(dst)+uint64(n)], m.Buffer[src:uint64(src)+uint64(n)])
	return true
}

// WriteBytes copies data into the buffer at offset, used by memory.init to
// blit a slice of the consolidated data segment blob.
func (m *Memory) WriteBytes(offset uint32, data []byte) bool {
	if !m.boundsOK(offset, len(data)) {
		return false
	}
	copy(m.Buffer[offset:], data)
	return true
}
