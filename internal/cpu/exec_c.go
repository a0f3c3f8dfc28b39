/*
 * rv32sim - RV32C compressed integer executor
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
	"github.com/rv32sim/rv32sim/internal/isa"
	"github.com/rv32sim/rv32sim/internal/trap"
)

// spReg is the stack-pointer register implicit in c.*sp-suffixed encodings,
// which carry no Rs1/base field of their own.
const spReg = 2

// execRV32C implements every compressed mnemonic that carries no
// equivalent 32-bit floating-point opcode; those (c.fld, c.flw, ...) are
// dispatched to execRV32F/execRV32D instead since the decoder tags them
// with the F/D class directly.
func (c *CPU) execRV32C(op isa.Op, pc, next uint32) (bool, trap.Exception, uint32) {
	switch op.Code {
	case isa.CAddi4spn:
		o := op.Operand.CIW
		c.Int.Write(o.Rd, c.Int.Read(spReg)+uint32(o.Imm))

	case isa.CLw:
		o := op.Operand.CL
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		v, faulted, ex := c.loadWord(addr)
		if faulted {
			return true, ex, addr
		}
		c.Int.Write(o.Rd, v)
	case isa.CSw:
		o := op.Operand.CS
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		if faulted, ex := c.storeWord(addr, c.Int.Read(o.Rs2)); faulted {
			return true, ex, addr
		}

	case isa.CNop:
		// No architectural effect.
	case isa.CAddi:
		o := op.Operand.CI
		c.Int.Write(o.Rd, c.Int.Read(o.Rd)+uint32(o.Imm))
	case isa.CJal:
		o := op.Operand.CJ
		c.Int.Write(1, next)
		c.PC = pc + uint32(o.Imm)
	case isa.CLi:
		o := op.Operand.CI
		c.Int.Write(o.Rd, uint32(o.Imm))
	case isa.CAddi16sp:
		o := op.Operand.CI
		c.Int.Write(spReg, c.Int.Read(spReg)+uint32(o.Imm))
	case isa.CLui:
		o := op.Operand.CI
		c.Int.Write(o.Rd, uint32(o.Imm))

	case isa.CSrli:
		o := op.Operand.CB
		c.Int.Write(o.Rs1, c.Int.Read(o.Rs1)>>uint(o.Imm))
	case isa.CSrai:
		o := op.Operand.CB
		c.Int.Write(o.Rs1, uint32(int32(c.Int.Read(o.Rs1))>>uint(o.Imm)))
	case isa.CAndi:
		o := op.Operand.CB
		c.Int.Write(o.Rs1, c.Int.Read(o.Rs1)&uint32(o.Imm))
	case isa.CSub:
		o := op.Operand.CR
		c.Int.Write(o.Rd, c.Int.Read(o.Rd)-c.Int.Read(o.Rs2))
	case isa.CXor:
		o := op.Operand.CR
		c.Int.Write(o.Rd, c.Int.Read(o.Rd)^c.Int.Read(o.Rs2))
	case isa.COr:
		o := op.Operand.CR
		c.Int.Write(o.Rd, c.Int.Read(o.Rd)|c.Int.Read(o.Rs2))
	case isa.CAnd:
		o := op.Operand.CR
		c.Int.Write(o.Rd, c.Int.Read(o.Rd)&c.Int.Read(o.Rs2))

	case isa.CJ:
		o := op.Operand.CJ
		c.PC = pc + uint32(o.Imm)
	case isa.CBeqz:
		o := op.Operand.CB
		if c.Int.Read(o.Rs1) == 0 {
			c.PC = pc + uint32(o.Imm)
		}
	case isa.CBnez:
		o := op.Operand.CB
		if c.Int.Read(o.Rs1) != 0 {
			c.PC = pc + uint32(o.Imm)
		}

	case isa.CSlli:
		o := op.Operand.CI
		c.Int.Write(o.Rd, c.Int.Read(o.Rd)<<uint(o.Imm))
	case isa.CLwsp:
		o := op.Operand.CI
		addr := c.Int.Read(spReg) + uint32(o.Imm)
		v, faulted, ex := c.loadWord(addr)
		if faulted {
			return true, ex, addr
		}
		c.Int.Write(o.Rd, v)
	case isa.CJr:
		o := op.Operand.CR
		c.PC = c.Int.Read(o.Rd) &^ 1
	case isa.CMv:
		o := op.Operand.CR
		c.Int.Write(o.Rd, c.Int.Read(o.Rs2))
	case isa.CEbreak:
		return true, trap.Breakpoint, pc
	case isa.CJalr:
		o := op.Operand.CR
		target := c.Int.Read(o.Rd) &^ 1
		c.Int.Write(1, next)
		c.PC = target
	case isa.CAdd:
		o := op.Operand.CR
		c.Int.Write(o.Rd, c.Int.Read(o.Rd)+c.Int.Read(o.Rs2))
	case isa.CSwsp:
		o := op.Operand.CSS
		addr := c.Int.Read(spReg) + uint32(o.Imm)
		if faulted, ex := c.storeWord(addr, c.Int.Read(o.Rs2)); faulted {
			return true, ex, addr
		}

	default:
		return true, trap.IllegalInstruction, op.Raw
	}
	return false, 0, 0
}
