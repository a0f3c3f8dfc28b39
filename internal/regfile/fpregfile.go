package regfile

// canonicalNaNSingle is the canonical quiet NaN bit pattern for a
// single-precision value, per the F extension.
const canonicalNaNSingle uint32 = 0x7fc00000

// canonicalNaNDouble is the canonical quiet NaN bit pattern for a
// double-precision value, per the D extension.
const canonicalNaNDouble uint64 = 0x7ff8000000000000

// nanBoxTag occupies the upper 32 bits of a NaN-boxed single-precision value.
const nanBoxTag uint64 = 0xffffffff00000000

// FpRegFile is the 32-entry f0..f31 floating-point register file. Every
// slot is 64 bits wide regardless of XLEN; a single-precision value is
// stored NaN-boxed (all 1s in the upper 32 bits) so double-precision reads
// of a register last written as single still carry a recognizable shape.
type FpRegFile struct {
	f [Count]uint64
}

// ReadDouble returns the raw 64-bit contents of register i.
func (r *FpRegFile) ReadDouble(i int) uint64 {
	return r.f[i]
}

// WriteDouble stores a double-precision bit pattern into register i.
func (r *FpRegFile) WriteDouble(i int, value uint64) {
	r.f[i] = value
}

// ReadSingle returns the single-precision value stored in register i. If
// the register does not hold a properly NaN-boxed single (the upper 32
// bits aren't all 1s), the value is not a legal box and reads back as the
// canonical single-precision quiet NaN instead, per the F extension's
// NaN-boxing rule.
func (r *FpRegFile) ReadSingle(i int) uint32 {
	v := r.f[i]
	if v&nanBoxTag != nanBoxTag {
		return canonicalNaNSingle
	}
	return uint32(v)
}

// WriteSingle stores a single-precision bit pattern into register i,
// NaN-boxed into the full 64-bit slot.
func (r *FpRegFile) WriteSingle(i int, value uint32) {
	r.f[i] = nanBoxTag | uint64(value)
}

// Snapshot copies all 32 raw 64-bit register slots out.
func (r *FpRegFile) Snapshot() [Count]uint64 {
	return r.f
}
