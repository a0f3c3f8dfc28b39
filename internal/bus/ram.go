package bus

import "encoding/binary"

// RAM is a flat, byte-addressable region of ordinary read/write memory.
type RAM struct {
	base uint32
	mem  []byte
}

// NewRAM allocates a zero-filled RAM region of size bytes starting at base.
func NewRAM(base, size uint32) *RAM {
	return &RAM{base: base, mem: make([]byte, size)}
}

func (r *RAM) Base() uint32 { return r.base }
func (r *RAM) Size() uint32 { return uint32(len(r.mem)) }

// Load copies data into the region starting at physical address addr,
// used to install a program image before the first Step.
func (r *RAM) Load(addr uint32, data []byte) {
	off := addr - r.base
	copy(r.mem[off:], data)
}

func (r *RAM) Read8(addr uint32) uint8 { return r.mem[addr-r.base] }

func (r *RAM) Read16(addr uint32) uint16 {
	off := addr - r.base
	return binary.LittleEndian.Uint16(r.mem[off : off+2])
}

func (r *RAM) Read32(addr uint32) uint32 {
	off := addr - r.base
	return binary.LittleEndian.Uint32(r.mem[off : off+4])
}

func (r *RAM) Write8(addr uint32, v uint8) { r.mem[addr-r.base] = v }

func (r *RAM) Write16(addr uint32, v uint16) {
	off := addr - r.base
	binary.LittleEndian.PutUint16(r.mem[off:off+2], v)
}

func (r *RAM) Write32(addr uint32, v uint32) {
	off := addr - r.base
	binary.LittleEndian.PutUint32(r.mem[off:off+4], v)
}

// Snapshot returns a copy of the region's current contents, for a trace
// Builder's full-memory dump node.
func (r *RAM) Snapshot() []byte {
	out := make([]byte, len(r.mem))
	copy(out, r.mem)
	return out
}

// ROM is a RAM-shaped region whose Write* methods discard the write. Real
// ROM devices vary in whether writes trap or are silently ignored; rv32sim
// takes the latter, simpler behavior.
type ROM struct {
	RAM
}

func NewROM(base uint32, data []byte) *ROM {
	rom := &ROM{RAM: RAM{base: base, mem: make([]byte, len(data))}}
	copy(rom.mem, data)
	return rom
}

func (r *ROM) Write8(addr uint32, v uint8)   {}
func (r *ROM) Write16(addr uint32, v uint16) {}
func (r *ROM) Write32(addr uint32, v uint32) {}
