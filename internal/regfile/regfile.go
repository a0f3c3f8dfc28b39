/*
 * rv32sim - Integer register file
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

// Package regfile holds the integer and floating-point register files.
// x0 is hardwired to zero and every write to it is silently dropped, the
// way real hardware wires the bit rather than special-casing the write path.
package regfile

// Count is the number of architectural integer and floating-point registers.
const Count = 32

// IntRegFile is the 32-entry x0..x31 integer register file.
type IntRegFile struct {
	x [Count]uint32
}

// Read returns the value of register i. Reading x0 always yields 0.
func (r *IntRegFile) Read(i int) uint32 {
	if i == 0 {
		return 0
	}
	return r.x[i]
}

// Write stores value into register i. Writes to x0 are discarded.
func (r *IntRegFile) Write(i int, value uint32) {
	if i == 0 {
		return
	}
	r.x[i] = value
}

// Snapshot copies all 32 registers out, including the always-zero x0.
func (r *IntRegFile) Snapshot() [Count]uint32 {
	return r.x
}
