/*
 * rv32sim - Floating-point rounding mode and exception flag handling
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

import "math"

// fflags bit assignments, LSB first: inexact, underflow, overflow,
// divide-by-zero, invalid.
const (
	fflagNX = 1 << 0
	fflagUF = 1 << 1
	fflagOF = 1 << 2
	fflagDZ = 1 << 3
	fflagNV = 1 << 4
)

// resolveRoundingMode returns the effective rounding mode for an FP op
// given its instruction-encoded rm field (3 bits), consulting frm when rm
// selects dynamic rounding (0b111). ok is false when rm is one of the two
// reserved static encodings, or frm itself holds a reserved value -- the
// caller must raise illegal-instruction without executing the op.
func (c *CPU) resolveRoundingMode(instRM int) (rm uint32, ok bool) {
	r := uint32(instRM) & 0x7
	if r == 0b111 {
		r = c.Csr.FRM()
	}
	if r > 0b100 {
		return 0, false
	}
	return r, true
}

// Host arithmetic always rounds to nearest-even regardless of the
// resolved mode; rm is validated (reserved encodings trap) but not
// otherwise applied, since Go's float ops don't expose a rounding-mode
// knob. See DESIGN.md.

// fpBinaryFlags derives the fflags bits a dyadic op (add/sub/mul) raised,
// from before/after values alone: a result is only newly NaN/Inf/zero if
// neither input already was, which is what distinguishes a freshly
// generated exceptional value from one simply propagated through.
func fpBinaryFlags(a, b, result float64) uint32 {
	var flags uint32
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	aInf, bInf := math.IsInf(a, 0), math.IsInf(b, 0)
	if math.IsNaN(result) && !aNaN && !bNaN {
		flags |= fflagNV
	}
	if math.IsInf(result, 0) && !aInf && !bInf {
		flags |= fflagOF | fflagNX
	}
	if result == 0 && a != 0 && b != 0 && !aInf && !bInf {
		flags |= fflagUF | fflagNX
	}
	return flags
}

// fpDivFlags is fpBinaryFlags plus the divide-by-zero case, which is a
// distinct flag (DZ) from invalid (NV) even though both arise from a
// zero divisor.
func fpDivFlags(a, b, result float64) uint32 {
	flags := fpBinaryFlags(a, b, result)
	if b == 0 && a != 0 && !math.IsNaN(a) && !math.IsInf(a, 0) {
		// The infinite quotient is exact: DZ only, not OF/NX.
		flags = flags&^(fflagOF|fflagNX) | fflagDZ
	}
	return flags
}

// fpUnaryFlags is fpBinaryFlags's single-operand counterpart, used by
// fsqrt.
func fpUnaryFlags(x, result float64) uint32 {
	var flags uint32
	if math.IsNaN(result) && !math.IsNaN(x) {
		flags |= fflagNV
	}
	if math.IsInf(result, 0) && !math.IsInf(x, 0) {
		flags |= fflagOF | fflagNX
	}
	return flags
}

// fpFMAFlags covers the three-operand fused multiply-add family.
func fpFMAFlags(a, b, cc, result float64) uint32 {
	var flags uint32
	aNaN, bNaN, ccNaN := math.IsNaN(a), math.IsNaN(b), math.IsNaN(cc)
	aInf, bInf, ccInf := math.IsInf(a, 0), math.IsInf(b, 0), math.IsInf(cc, 0)
	if math.IsNaN(result) && !aNaN && !bNaN && !ccNaN {
		flags |= fflagNV
	}
	if math.IsInf(result, 0) && !aInf && !bInf && !ccInf {
		flags |= fflagOF | fflagNX
	}
	return flags
}
