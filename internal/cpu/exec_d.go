/*
 * rv32sim - RV32D double-precision floating point executor
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
	"math"

	"github.com/rv32sim/rv32sim/internal/isa"
	"github.com/rv32sim/rv32sim/internal/trap"
)

func (c *CPU) execRV32D(op isa.Op) (bool, trap.Exception, uint32) {
	switch op.Code {
	case isa.Fld:
		o := op.Operand.I
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		v, faulted, ex := c.loadWord(addr)
		if faulted {
			return true, ex, addr
		}
		hi, faulted2, ex2 := c.loadWord(addr + 4)
		if faulted2 {
			return true, ex2, addr + 4
		}
		c.Fp.WriteDouble(o.Rd, uint64(v)|uint64(hi)<<32)
		return false, 0, 0
	case isa.Fsd:
		o := op.Operand.S
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		val := c.Fp.ReadDouble(o.Rs2)
		if faulted, ex := c.storeWord(addr, uint32(val)); faulted {
			return true, ex, addr
		}
		if faulted, ex := c.storeWord(addr+4, uint32(val>>32)); faulted {
			return true, ex, addr + 4
		}
		return false, 0, 0

	case isa.CFld:
		o := op.Operand.CL
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		lo, faulted, ex := c.loadWord(addr)
		if faulted {
			return true, ex, addr
		}
		hi, faulted2, ex2 := c.loadWord(addr + 4)
		if faulted2 {
			return true, ex2, addr + 4
		}
		c.Fp.WriteDouble(o.Rd, uint64(lo)|uint64(hi)<<32)
		return false, 0, 0
	case isa.CFsd:
		o := op.Operand.CS
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		val := c.Fp.ReadDouble(o.Rs2)
		if faulted, ex := c.storeWord(addr, uint32(val)); faulted {
			return true, ex, addr
		}
		if faulted, ex := c.storeWord(addr+4, uint32(val>>32)); faulted {
			return true, ex, addr + 4
		}
		return false, 0, 0
	case isa.CFldsp:
		o := op.Operand.CI
		addr := c.Int.Read(spReg) + uint32(o.Imm)
		lo, faulted, ex := c.loadWord(addr)
		if faulted {
			return true, ex, addr
		}
		hi, faulted2, ex2 := c.loadWord(addr + 4)
		if faulted2 {
			return true, ex2, addr + 4
		}
		c.Fp.WriteDouble(o.Rd, uint64(lo)|uint64(hi)<<32)
		return false, 0, 0
	case isa.CFsdsp:
		o := op.Operand.CSS
		addr := c.Int.Read(spReg) + uint32(o.Imm)
		val := c.Fp.ReadDouble(o.Rs2)
		if faulted, ex := c.storeWord(addr, uint32(val)); faulted {
			return true, ex, addr
		}
		if faulted, ex := c.storeWord(addr+4, uint32(val>>32)); faulted {
			return true, ex, addr + 4
		}
		return false, 0, 0

	case isa.FmaddD, isa.FmsubD, isa.FnmsubD, isa.FnmaddD:
		o := op.Operand.R4
		if _, ok := c.resolveRoundingMode(o.Funct3); !ok {
			return true, trap.IllegalInstruction, op.Raw
		}
		a, b, cc := f64(c.Fp.ReadDouble(o.Rs1)), f64(c.Fp.ReadDouble(o.Rs2)), f64(c.Fp.ReadDouble(o.Rs3))
		var r float64
		switch op.Code {
		case isa.FmaddD:
			r = a*b + cc
		case isa.FmsubD:
			r = a*b - cc
		case isa.FnmsubD:
			r = -(a*b - cc)
		case isa.FnmaddD:
			r = -(a*b + cc)
		}
		c.Csr.RaiseFPFlags(fpFMAFlags(a, b, cc, r))
		c.Fp.WriteDouble(o.Rd, math.Float64bits(r))
		return false, 0, 0
	}

	o := op.Operand.R
	switch op.Code {
	case isa.FaddD, isa.FsubD, isa.FmulD, isa.FdivD, isa.FsqrtD:
		if _, ok := c.resolveRoundingMode(o.Funct3); !ok {
			return true, trap.IllegalInstruction, op.Raw
		}
	}
	switch op.Code {
	case isa.FaddD:
		a, b := f64(c.Fp.ReadDouble(o.Rs1)), f64(c.Fp.ReadDouble(o.Rs2))
		r := a + b
		c.Csr.RaiseFPFlags(fpBinaryFlags(a, b, r))
		c.Fp.WriteDouble(o.Rd, math.Float64bits(r))
	case isa.FsubD:
		a, b := f64(c.Fp.ReadDouble(o.Rs1)), f64(c.Fp.ReadDouble(o.Rs2))
		r := a - b
		c.Csr.RaiseFPFlags(fpBinaryFlags(a, b, r))
		c.Fp.WriteDouble(o.Rd, math.Float64bits(r))
	case isa.FmulD:
		a, b := f64(c.Fp.ReadDouble(o.Rs1)), f64(c.Fp.ReadDouble(o.Rs2))
		r := a * b
		c.Csr.RaiseFPFlags(fpBinaryFlags(a, b, r))
		c.Fp.WriteDouble(o.Rd, math.Float64bits(r))
	case isa.FdivD:
		a, b := f64(c.Fp.ReadDouble(o.Rs1)), f64(c.Fp.ReadDouble(o.Rs2))
		r := a / b
		c.Csr.RaiseFPFlags(fpDivFlags(a, b, r))
		c.Fp.WriteDouble(o.Rd, math.Float64bits(r))
	case isa.FsqrtD:
		x := f64(c.Fp.ReadDouble(o.Rs1))
		r := math.Sqrt(x)
		c.Csr.RaiseFPFlags(fpUnaryFlags(x, r))
		c.Fp.WriteDouble(o.Rd, math.Float64bits(r))

	case isa.FsgnjD:
		c.Fp.WriteDouble(o.Rd, signInject64(c.Fp.ReadDouble(o.Rs1), c.Fp.ReadDouble(o.Rs2), false, false))
	case isa.FsgnjnD:
		c.Fp.WriteDouble(o.Rd, signInject64(c.Fp.ReadDouble(o.Rs1), c.Fp.ReadDouble(o.Rs2), true, false))
	case isa.FsgnjxD:
		c.Fp.WriteDouble(o.Rd, signInject64(c.Fp.ReadDouble(o.Rs1), c.Fp.ReadDouble(o.Rs2), false, true))

	case isa.FminD:
		a, b := f64(c.Fp.ReadDouble(o.Rs1)), f64(c.Fp.ReadDouble(o.Rs2))
		c.Fp.WriteDouble(o.Rd, math.Float64bits(fminNaN64(a, b)))
	case isa.FmaxD:
		a, b := f64(c.Fp.ReadDouble(o.Rs1)), f64(c.Fp.ReadDouble(o.Rs2))
		c.Fp.WriteDouble(o.Rd, math.Float64bits(fmaxNaN64(a, b)))

	case isa.FcvtWD:
		c.Int.Write(o.Rd, uint32(int32(f64(c.Fp.ReadDouble(o.Rs1)))))
	case isa.FcvtWuD:
		c.Int.Write(o.Rd, uint32(f64(c.Fp.ReadDouble(o.Rs1))))
	case isa.FcvtDW:
		c.Fp.WriteDouble(o.Rd, math.Float64bits(float64(int32(c.Int.Read(o.Rs1)))))
	case isa.FcvtDWu:
		c.Fp.WriteDouble(o.Rd, math.Float64bits(float64(c.Int.Read(o.Rs1))))

	case isa.FeqD:
		c.Int.Write(o.Rd, boolToU32(f64(c.Fp.ReadDouble(o.Rs1)) == f64(c.Fp.ReadDouble(o.Rs2))))
	case isa.FltD:
		c.Int.Write(o.Rd, boolToU32(f64(c.Fp.ReadDouble(o.Rs1)) < f64(c.Fp.ReadDouble(o.Rs2))))
	case isa.FleD:
		c.Int.Write(o.Rd, boolToU32(f64(c.Fp.ReadDouble(o.Rs1)) <= f64(c.Fp.ReadDouble(o.Rs2))))

	case isa.FclassD:
		c.Int.Write(o.Rd, fclassDouble(c.Fp.ReadDouble(o.Rs1)))

	case isa.FcvtDS:
		c.Fp.WriteDouble(o.Rd, math.Float64bits(float64(f32(c.Fp.ReadSingle(o.Rs1)))))

	default:
		return true, trap.IllegalInstruction, op.Raw
	}
	return false, 0, 0
}

func f64(bits uint64) float64 { return math.Float64frombits(bits) }

func signInject64(a, b uint64, neg, xorSign bool) uint64 {
	const signBit = uint64(1) << 63
	sign := b & signBit
	if neg {
		sign ^= signBit
	}
	if xorSign {
		sign = (a ^ b) & signBit
	}
	return (a &^ signBit) | sign
}

func fminNaN64(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	if a < b {
		return a
	}
	return b
}

func fmaxNaN64(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	if a > b {
		return a
	}
	return b
}

func fclassDouble(bits uint64) uint32 {
	sign := bits>>63 != 0
	exp := (bits >> 52) & 0x7ff
	mant := bits & 0xfffffffffffff

	switch {
	case exp == 0x7ff && mant != 0:
		if bits&(1<<51) != 0 {
			return 1 << 9
		}
		return 1 << 8
	case exp == 0x7ff:
		if sign {
			return 1 << 0
		}
		return 1 << 7
	case exp == 0 && mant == 0:
		if sign {
			return 1 << 3
		}
		return 1 << 4
	case exp == 0:
		if sign {
			return 1 << 2
		}
		return 1 << 5
	default:
		if sign {
			return 1 << 1
		}
		return 1 << 6
	}
}
