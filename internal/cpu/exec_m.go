/*
 * rv32sim - RV32M multiply/divide executor
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
	"math/bits"

	"github.com/rv32sim/rv32sim/internal/isa"
	"github.com/rv32sim/rv32sim/internal/trap"
)

// execRV32M implements the M extension. Division by zero and signed
// overflow (MININT / -1) do not trap, per the spec: they yield the fixed
// sentinel results below instead of raising an exception.
func (c *CPU) execRV32M(op isa.Op) (bool, trap.Exception, uint32) {
	o := op.Operand.R
	a, b := c.Int.Read(o.Rs1), c.Int.Read(o.Rs2)

	switch op.Code {
	case isa.Mul:
		c.Int.Write(o.Rd, a*b)
	case isa.Mulh:
		prod := int64(int32(a)) * int64(int32(b))
		c.Int.Write(o.Rd, uint32(uint64(prod)>>32))
	case isa.Mulhu:
		hi, _ := bits.Mul32(a, b)
		c.Int.Write(o.Rd, hi)
	case isa.Mulhsu:
		prod := int64(int32(a)) * int64(uint64(b))
		c.Int.Write(o.Rd, uint32(uint64(prod)>>32))
	case isa.Div:
		sa, sb := int32(a), int32(b)
		switch {
		case sb == 0:
			c.Int.Write(o.Rd, 0xffffffff)
		case sa == -2147483648 && sb == -1:
			c.Int.Write(o.Rd, uint32(sa))
		default:
			c.Int.Write(o.Rd, uint32(sa/sb))
		}
	case isa.Divu:
		if b == 0 {
			c.Int.Write(o.Rd, 0xffffffff)
		} else {
			c.Int.Write(o.Rd, a/b)
		}
	case isa.Rem:
		sa, sb := int32(a), int32(b)
		switch {
		case sb == 0:
			c.Int.Write(o.Rd, uint32(sa))
		case sa == -2147483648 && sb == -1:
			c.Int.Write(o.Rd, 0)
		default:
			c.Int.Write(o.Rd, uint32(sa%sb))
		}
	case isa.Remu:
		if b == 0 {
			c.Int.Write(o.Rd, a)
		} else {
			c.Int.Write(o.Rd, a%b)
		}
	default:
		return true, trap.IllegalInstruction, op.Raw
	}
	return false, 0, 0
}
