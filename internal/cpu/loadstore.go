/*
 * rv32sim - Load/store address translation and bus access
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

package cpu

import (
	"github.com/rv32sim/rv32sim/internal/mmu"
	"github.com/rv32sim/rv32sim/internal/trap"
)

// loadWord/loadHalf/loadByte/store* translate va for the given access and
// perform the bus access, reporting a page fault or misalignment as a
// trap rather than panicking: only a stray physical address (a
// configuration bug, not a guest-reachable condition) panics via the bus.

func (c *CPU) loadWord(va uint32) (uint32, bool, trap.Exception) {
	if va&0x3 != 0 {
		return 0, true, trap.LoadAddressMisaligned
	}
	pa, pf := c.translate(va, mmu.Load)
	if pf {
		return 0, true, trap.LoadPageFault
	}
	return c.Bus.Read32(pa), false, 0
}

func (c *CPU) loadHalf(va uint32) (uint16, bool, trap.Exception) {
	if va&0x1 != 0 {
		return 0, true, trap.LoadAddressMisaligned
	}
	pa, pf := c.translate(va, mmu.Load)
	if pf {
		return 0, true, trap.LoadPageFault
	}
	return c.Bus.Read16(pa), false, 0
}

func (c *CPU) loadByte(va uint32) (uint8, bool, trap.Exception) {
	pa, pf := c.translate(va, mmu.Load)
	if pf {
		return 0, true, trap.LoadPageFault
	}
	return c.Bus.Read8(pa), false, 0
}

func (c *CPU) storeWord(va uint32, v uint32) (bool, trap.Exception) {
	if va&0x3 != 0 {
		return true, trap.StoreAddressMisaligned
	}
	pa, pf := c.translate(va, mmu.Store)
	if pf {
		return true, trap.StorePageFault
	}
	c.Bus.Write32(pa, v)
	return false, 0
}

func (c *CPU) storeHalf(va uint32, v uint16) (bool, trap.Exception) {
	if va&0x1 != 0 {
		return true, trap.StoreAddressMisaligned
	}
	pa, pf := c.translate(va, mmu.Store)
	if pf {
		return true, trap.StorePageFault
	}
	c.Bus.Write16(pa, v)
	return false, 0
}

func (c *CPU) storeByte(va uint32, v uint8) (bool, trap.Exception) {
	pa, pf := c.translate(va, mmu.Store)
	if pf {
		return true, trap.StorePageFault
	}
	c.Bus.Write8(pa, v)
	return false, 0
}
