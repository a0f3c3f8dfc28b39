/*
 * rv32sim - RV32F single-precision floating point executor
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

func (c *CPU) execRV32F(op isa.Op) (bool, trap.Exception, uint32) {
	switch op.Code {
	case isa.Flw:
		o := op.Operand.I
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		v, faulted, ex := c.loadWord(addr)
		if faulted {
			return true, ex, addr
		}
		c.Fp.WriteSingle(o.Rd, v)
		return false, 0, 0
	case isa.Fsw:
		o := op.Operand.S
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		if faulted, ex := c.storeWord(addr, c.Fp.ReadSingle(o.Rs2)); faulted {
			return true, ex, addr
		}
		return false, 0, 0

	case isa.CFlw:
		o := op.Operand.CL
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		v, faulted, ex := c.loadWord(addr)
		if faulted {
			return true, ex, addr
		}
		c.Fp.WriteSingle(o.Rd, v)
		return false, 0, 0
	case isa.CFsw:
		o := op.Operand.CS
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		if faulted, ex := c.storeWord(addr, c.Fp.ReadSingle(o.Rs2)); faulted {
			return true, ex, addr
		}
		return false, 0, 0
	case isa.CFlwsp:
		o := op.Operand.CI
		addr := c.Int.Read(spReg) + uint32(o.Imm)
		v, faulted, ex := c.loadWord(addr)
		if faulted {
			return true, ex, addr
		}
		c.Fp.WriteSingle(o.Rd, v)
		return false, 0, 0
	case isa.CFswsp:
		o := op.Operand.CSS
		addr := c.Int.Read(spReg) + uint32(o.Imm)
		if faulted, ex := c.storeWord(addr, c.Fp.ReadSingle(o.Rs2)); faulted {
			return true, ex, addr
		}
		return false, 0, 0

	case isa.FmaddS, isa.FmsubS, isa.FnmsubS, isa.FnmaddS:
		o := op.Operand.R4
		if _, ok := c.resolveRoundingMode(o.Funct3); !ok {
			return true, trap.IllegalInstruction, op.Raw
		}
		a, b, cc := f32(c.Fp.ReadSingle(o.Rs1)), f32(c.Fp.ReadSingle(o.Rs2)), f32(c.Fp.ReadSingle(o.Rs3))
		var r float32
		switch op.Code {
		case isa.FmaddS:
			r = a*b + cc
		case isa.FmsubS:
			r = a*b - cc
		case isa.FnmsubS:
			r = -(a*b - cc)
		case isa.FnmaddS:
			r = -(a*b + cc)
		}
		c.Csr.RaiseFPFlags(fpFMAFlags(float64(a), float64(b), float64(cc), float64(r)))
		c.Fp.WriteSingle(o.Rd, math.Float32bits(r))
		return false, 0, 0
	}

	o := op.Operand.R
	switch op.Code {
	case isa.FaddS, isa.FsubS, isa.FmulS, isa.FdivS, isa.FsqrtS:
		if _, ok := c.resolveRoundingMode(o.Funct3); !ok {
			return true, trap.IllegalInstruction, op.Raw
		}
	}
	switch op.Code {
	case isa.FaddS:
		a, b := float64(f32(c.Fp.ReadSingle(o.Rs1))), float64(f32(c.Fp.ReadSingle(o.Rs2)))
		r := float32(a) + float32(b)
		c.Csr.RaiseFPFlags(fpBinaryFlags(a, b, float64(r)))
		c.Fp.WriteSingle(o.Rd, math.Float32bits(r))
	case isa.FsubS:
		a, b := float64(f32(c.Fp.ReadSingle(o.Rs1))), float64(f32(c.Fp.ReadSingle(o.Rs2)))
		r := float32(a) - float32(b)
		c.Csr.RaiseFPFlags(fpBinaryFlags(a, b, float64(r)))
		c.Fp.WriteSingle(o.Rd, math.Float32bits(r))
	case isa.FmulS:
		a, b := float64(f32(c.Fp.ReadSingle(o.Rs1))), float64(f32(c.Fp.ReadSingle(o.Rs2)))
		r := float32(a) * float32(b)
		c.Csr.RaiseFPFlags(fpBinaryFlags(a, b, float64(r)))
		c.Fp.WriteSingle(o.Rd, math.Float32bits(r))
	case isa.FdivS:
		a, b := float64(f32(c.Fp.ReadSingle(o.Rs1))), float64(f32(c.Fp.ReadSingle(o.Rs2)))
		r := float32(a) / float32(b)
		c.Csr.RaiseFPFlags(fpDivFlags(a, b, float64(r)))
		c.Fp.WriteSingle(o.Rd, math.Float32bits(r))
	case isa.FsqrtS:
		x := float64(f32(c.Fp.ReadSingle(o.Rs1)))
		r := float32(math.Sqrt(x))
		c.Csr.RaiseFPFlags(fpUnaryFlags(x, float64(r)))
		c.Fp.WriteSingle(o.Rd, math.Float32bits(r))

	case isa.FsgnjS:
		c.Fp.WriteSingle(o.Rd, signInject(c.Fp.ReadSingle(o.Rs1), c.Fp.ReadSingle(o.Rs2), false, false))
	case isa.FsgnjnS:
		c.Fp.WriteSingle(o.Rd, signInject(c.Fp.ReadSingle(o.Rs1), c.Fp.ReadSingle(o.Rs2), true, false))
	case isa.FsgnjxS:
		c.Fp.WriteSingle(o.Rd, signInject(c.Fp.ReadSingle(o.Rs1), c.Fp.ReadSingle(o.Rs2), false, true))

	case isa.FminS:
		a, b := f32(c.Fp.ReadSingle(o.Rs1)), f32(c.Fp.ReadSingle(o.Rs2))
		c.Fp.WriteSingle(o.Rd, math.Float32bits(fminNaN(a, b)))
	case isa.FmaxS:
		a, b := f32(c.Fp.ReadSingle(o.Rs1)), f32(c.Fp.ReadSingle(o.Rs2))
		c.Fp.WriteSingle(o.Rd, math.Float32bits(fmaxNaN(a, b)))

	case isa.FcvtWS:
		c.Int.Write(o.Rd, uint32(int32(f32(c.Fp.ReadSingle(o.Rs1)))))
	case isa.FcvtWuS:
		c.Int.Write(o.Rd, uint32(f32(c.Fp.ReadSingle(o.Rs1))))
	case isa.FmvXW:
		c.Int.Write(o.Rd, c.Fp.ReadSingle(o.Rs1))
	case isa.FcvtSW:
		c.Fp.WriteSingle(o.Rd, math.Float32bits(float32(int32(c.Int.Read(o.Rs1)))))
	case isa.FcvtSWu:
		c.Fp.WriteSingle(o.Rd, math.Float32bits(float32(c.Int.Read(o.Rs1))))
	case isa.FmvWX:
		c.Fp.WriteSingle(o.Rd, c.Int.Read(o.Rs1))

	case isa.FeqS:
		c.Int.Write(o.Rd, boolToU32(f32(c.Fp.ReadSingle(o.Rs1)) == f32(c.Fp.ReadSingle(o.Rs2))))
	case isa.FltS:
		c.Int.Write(o.Rd, boolToU32(f32(c.Fp.ReadSingle(o.Rs1)) < f32(c.Fp.ReadSingle(o.Rs2))))
	case isa.FleS:
		c.Int.Write(o.Rd, boolToU32(f32(c.Fp.ReadSingle(o.Rs1)) <= f32(c.Fp.ReadSingle(o.Rs2))))

	case isa.FclassS:
		c.Int.Write(o.Rd, fclassSingle(c.Fp.ReadSingle(o.Rs1)))

	case isa.FcvtSD:
		c.Fp.WriteSingle(o.Rd, math.Float32bits(float32(math.Float64frombits(c.Fp.ReadDouble(o.Rs1)))))

	default:
		return true, trap.IllegalInstruction, op.Raw
	}
	return false, 0, 0
}

func f32(bits uint32) float32 { return math.Float32frombits(bits) }

// signInject implements fsgnj/fsgnjn/fsgnjx: the magnitude of a, the sign
// of b (negated if neg, xored if xorSign).
func signInject(a, b uint32, neg, xorSign bool) uint32 {
	sign := b & 0x80000000
	if neg {
		sign ^= 0x80000000
	}
	if xorSign {
		sign = (a ^ b) & 0x80000000
	}
	return (a &^ 0x80000000) | sign
}

func fminNaN(a, b float32) float32 {
	if math.IsNaN(float64(a)) {
		return b
	}
	if math.IsNaN(float64(b)) {
		return a
	}
	if a < b {
		return a
	}
	return b
}

func fmaxNaN(a, b float32) float32 {
	if math.IsNaN(float64(a)) {
		return b
	}
	if math.IsNaN(float64(b)) {
		return a
	}
	if a > b {
		return a
	}
	return b
}

// fclassSingle returns the 10-bit fclass.s result per the F extension's
// classification table.
func fclassSingle(bits uint32) uint32 {
	sign := bits>>31 != 0
	exp := (bits >> 23) & 0xff
	mant := bits & 0x7fffff

	switch {
	case exp == 0xff && mant != 0:
		if bits&0x00400000 != 0 {
			return 1 << 9 // quiet NaN
		}
		return 1 << 8 // signaling NaN
	case exp == 0xff:
		if sign {
			return 1 << 0 // -inf
		}
		return 1 << 7 // +inf
	case exp == 0 && mant == 0:
		if sign {
			return 1 << 3 // -0
		}
		return 1 << 4 // +0
	case exp == 0:
		if sign {
			return 1 << 2 // negative subnormal
		}
		return 1 << 5 // positive subnormal
	default:
		if sign {
			return 1 << 1 // negative normal
		}
		return 1 << 6 // positive normal
	}
}
