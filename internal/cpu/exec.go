/*
 * rv32sim - Instruction dispatch
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

// execute runs one decoded instruction, leaving c.PC set to whatever
// should be fetched next (pc+op.Size unless control flow redirected it).
// It returns trapped=true if the instruction raised a synchronous
// exception instead of completing, in which case c.PC has already been
// advanced to pc+op.Size and the caller (Step) commits the trap, replacing
// c.PC with the trap vector.
func (c *CPU) execute(op isa.Op, pc uint32) (trapped bool, cause trap.Exception, tval uint32) {
	next := pc + op.Size
	c.PC = next

	switch op.Class {
	case isa.ClassRV32I:
		return c.execRV32I(op, pc, next)
	case isa.ClassRV32M:
		return c.execRV32M(op)
	case isa.ClassRV32A:
		return c.execRV32A(op)
	case isa.ClassRV32F:
		return c.execRV32F(op)
	case isa.ClassRV32D:
		return c.execRV32D(op)
	case isa.ClassRV32C:
		return c.execRV32C(op, pc, next)
	default:
		return true, trap.IllegalInstruction, op.Raw
	}
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
