/*
 * rv32sim - Decoded operation representation
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

// Package isa holds the instruction set's static shape: opcodes, operand
// encodings and the decoded Op record the decoder produces and the
// executor consumes. Nothing here depends on simulator state.
package isa

// Class groups opcodes by the RISC-V extension that defines them.
type Class int

const (
	ClassRV32I Class = iota
	ClassRV32M
	ClassRV32A
	ClassRV32F
	ClassRV32D
	ClassRV32C
)

func (c Class) String() string {
	switch c {
	case ClassRV32I:
		return "RV32I"
	case ClassRV32M:
		return "RV32M"
	case ClassRV32A:
		return "RV32A"
	case ClassRV32F:
		return "RV32F"
	case ClassRV32D:
		return "RV32D"
	case ClassRV32C:
		return "RV32C"
	default:
		return "unknown-class"
	}
}

// Code is a closed enumeration of every mnemonic the decoder recognizes,
// plus Unknown for encodings that matched no entry in the decode tables.
type Code int

const (
	Unknown Code = iota

	// RV32I
	Lui
	Auipc
	Jal
	Jalr
	Beq
	Bne
	Blt
	Bge
	Bltu
	Bgeu
	Lb
	Lh
	Lw
	Lbu
	Lhu
	Sb
	Sh
	Sw
	Addi
	Slti
	Sltiu
	Xori
	Ori
	Andi
	Slli
	Srli
	Srai
	Add
	Sub
	Sll
	Slt
	Sltu
	Xor
	Srl
	Sra
	Or
	And
	Fence
	FenceI
	Ecall
	Ebreak
	Csrrw
	Csrrs
	Csrrc
	Csrrwi
	Csrrsi
	Csrrci
	Mret
	Sret
	Uret
	Wfi
	SfenceVMA

	// RV32M
	Mul
	Mulh
	Mulhsu
	Mulhu
	Div
	Divu
	Rem
	Remu

	// RV32A
	LrW
	ScW
	AmoswapW
	AmoaddW
	AmoxorW
	AmoandW
	AmoorW
	AmominW
	AmomaxW
	AmominuW
	AmomaxuW

	// RV32F
	Flw
	Fsw
	FmaddS
	FmsubS
	FnmsubS
	FnmaddS
	FaddS
	FsubS
	FmulS
	FdivS
	FsqrtS
	FsgnjS
	FsgnjnS
	FsgnjxS
	FminS
	FmaxS
	FcvtWS
	FcvtWuS
	FmvXW
	FeqS
	FltS
	FleS
	FclassS
	FcvtSW
	FcvtSWu
	FmvWX

	// RV32D
	Fld
	Fsd
	FmaddD
	FmsubD
	FnmsubD
	FnmaddD
	FaddD
	FsubD
	FmulD
	FdivD
	FsqrtD
	FsgnjD
	FsgnjnD
	FsgnjxD
	FminD
	FmaxD
	FcvtSD
	FcvtDS
	FeqD
	FltD
	FleD
	FclassD
	FcvtWD
	FcvtWuD
	FcvtDW
	FcvtDWu

	// RV32C (compressed) — each compressed mnemonic keeps its own code
	// here rather than being expanded to one of the opcodes above.
	CAddi4spn
	CFld
	CLw
	CFlw
	CFsd
	CSw
	CFsw
	CNop
	CAddi
	CJal
	CLi
	CAddi16sp
	CLui
	CSrli
	CSrai
	CAndi
	CSub
	CXor
	COr
	CAnd
	CJ
	CBeqz
	CBnez
	CSlli
	CFldsp
	CLwsp
	CFlwsp
	CJr
	CMv
	CEbreak
	CJalr
	CAdd
	CFsdsp
	CSwsp
	CFswsp
)

// Op is a decoded instruction: its class, its mnemonic, and the operand
// payload carried by its encoding family. A given OpCode always pairs with
// exactly one Operand variant; that invariant is established here at
// decode time and relied upon, not re-checked, by the executor.
type Op struct {
	Class   Class
	Code    Code
	Operand Operand
	// Raw is the original instruction word as fetched (16 or 32 bits,
	// zero-extended). Carried through for trace BasicInfo nodes and
	// GDB breakpoint save/restore.
	Raw uint32
	// Size is 2 for a compressed encoding, 4 otherwise.
	Size uint32
}
