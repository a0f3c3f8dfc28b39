/*
 * rv32sim - Typed bit-field extraction and insertion
 *
 * Copyright 2026, rv32sim contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package bitfield gives named, compile-time-checked access to contiguous
// bit ranges of a 32- or 64-bit word, the way the reference implementation's
// BitField<T> template does it: a Member names an [msb:lsb] range and a
// Field wraps the word it applies to.
package bitfield

// Member describes one named [Msb:Lsb] range within a word.
type Member struct {
	Msb int
	Lsb int
}

// Mask returns the bits covered by the member, already shifted into place.
func (m Member) Mask() uint64 {
	width := m.Msb - m.Lsb + 1
	return ((uint64(1) << uint(width)) - 1) << uint(m.Lsb)
}

// Field32 is a bit-addressable 32-bit word.
type Field32 uint32

// Get returns the member's value, right-justified.
func (f Field32) Get(m Member) uint32 {
	return (uint32(f) & uint32(m.Mask())) >> uint(m.Lsb)
}

// Set returns f with m replaced by the low bits of value; bits of value
// above the member's width are discarded.
func (f Field32) Set(m Member, value uint32) Field32 {
	mask := uint32(m.Mask())
	return Field32((uint32(f) &^ mask) | ((value << uint(m.Lsb)) & mask))
}

// GetMasked returns f's bits under an arbitrary mask, without shifting.
func (f Field32) GetMasked(mask uint32) uint32 {
	return uint32(f) & mask
}

// SetMasked replaces f's bits under mask with the corresponding bits of value.
func (f Field32) SetMasked(value, mask uint32) Field32 {
	return Field32((uint32(f) &^ mask) | (value & mask))
}

// Field64 is a bit-addressable 64-bit word.
type Field64 uint64

// Get returns the member's value, right-justified.
func (f Field64) Get(m Member) uint64 {
	return (uint64(f) & m.Mask()) >> uint(m.Lsb)
}

// Set returns f with m replaced by the low bits of value.
func (f Field64) Set(m Member, value uint64) Field64 {
	mask := m.Mask()
	return Field64((uint64(f) &^ mask) | ((value << uint(m.Lsb)) & mask))
}

// GetMasked returns f's bits under an arbitrary mask, without shifting.
func (f Field64) GetMasked(mask uint64) uint64 {
	return uint64(f) & mask
}

// SetMasked replaces f's bits under mask with the corresponding bits of value.
func (f Field64) SetMasked(value, mask uint64) Field64 {
	return Field64((uint64(f) &^ mask) | (value & mask))
}

// SignExtend sign-extends the low `bits` bits of v to a full int32.
func SignExtend(v uint32, bits int) int32 {
	shift := uint(32 - bits)
	return int32(v<<shift) >> shift
}

// SignExtend64 sign-extends the low `bits` bits of v to a full int64.
func SignExtend64(v uint64, bits int) int64 {
	shift := uint(64 - bits)
	return int64(v<<shift) >> shift
}
