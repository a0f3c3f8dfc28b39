/*
 * rv32sim - CLINT (core-local interruptor)
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

// Package device implements the memory-mapped peripherals rv32sim exposes
// on the bus: CLINT, PLIC, a 16550-shaped UART and a handful of VirtIO
// MMIO stubs, single-hart single-source in scope.
package device

const (
	ClintBase = 0x02000000
	ClintSize = 0x10000

	clintMsip      = 0x0000
	clintMtimecmp  = 0x4000
	clintMtime     = 0xbff8
)

// Clint models the standard SiFive-style core-local interruptor: a
// software-interrupt doorbell (MSIP) and a free-running 64-bit mtime
// compared against mtimecmp to raise the machine timer interrupt.
type Clint struct {
	msip     uint32
	mtimecmp uint64
	mtime    uint64
}

func NewClint() *Clint { return &Clint{mtimecmp: ^uint64(0)} }

func (c *Clint) Base() uint32 { return ClintBase }
func (c *Clint) Size() uint32 { return ClintSize }

// Tick advances mtime by one and reports whether the timer comparator now
// fires, for the caller to drive into CSR mip.MTIP.
func (c *Clint) Tick() (timerPending bool) {
	c.mtime++
	return c.mtime >= c.mtimecmp
}

func (c *Clint) SoftwarePending() bool { return c.msip&0x1 != 0 }

func (c *Clint) Read8(addr uint32) uint8   { return uint8(c.Read32(addr &^ 0x3)) }
func (c *Clint) Read16(addr uint32) uint16 { return uint16(c.Read32(addr &^ 0x3)) }

func (c *Clint) Read32(addr uint32) uint32 {
	off := addr - ClintBase
	switch {
	case off == clintMsip:
		return c.msip
	case off == clintMtimecmp:
		return uint32(c.mtimecmp)
	case off == clintMtimecmp+4:
		return uint32(c.mtimecmp >> 32)
	case off == clintMtime:
		return uint32(c.mtime)
	case off == clintMtime+4:
		return uint32(c.mtime >> 32)
	default:
		return 0
	}
}

func (c *Clint) Write8(addr uint32, v uint8)   { c.Write32(addr&^0x3, uint32(v)) }
func (c *Clint) Write16(addr uint32, v uint16) { c.Write32(addr&^0x3, uint32(v)) }

func (c *Clint) Write32(addr uint32, v uint32) {
	off := addr - ClintBase
	switch {
	case off == clintMsip:
		c.msip = v & 0x1
	case off == clintMtimecmp:
		c.mtimecmp = (c.mtimecmp &^ 0xffffffff) | uint64(v)
	case off == clintMtimecmp+4:
		c.mtimecmp = (c.mtimecmp & 0xffffffff) | (uint64(v) << 32)
	case off == clintMtime:
		c.mtime = (c.mtime &^ 0xffffffff) | uint64(v)
	case off == clintMtime+4:
		c.mtime = (c.mtime & 0xffffffff) | (uint64(v) << 32)
	}
}
