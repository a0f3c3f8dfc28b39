package isa

import "github.com/rv32sim/rv32sim/internal/bitfield"

// Decode maps a 16- or 32-bit instruction word to an Op. The low two bits
// of the word distinguish compressed (!= 0b11) from standard (== 0b11)
// encodings, per the C-extension's length-encoding rule. Unrecognized
// encodings yield Code Unknown with the None operand variant so later
// stages never inspect an uninitialized payload.
func Decode(word uint32) Op {
	if word&0x3 != 0x3 {
		return decodeCompressed(uint16(word & 0xffff))
	}
	return decodeStandard(word)
}

func none(raw uint32) Op {
	return Op{Class: ClassRV32I, Code: Unknown, Operand: Operand{Kind: OperandNone}, Raw: raw, Size: 4}
}

func rd(w uint32) int     { return int((w >> 7) & 0x1f) }
func rs1(w uint32) int    { return int((w >> 15) & 0x1f) }
func rs2(w uint32) int    { return int((w >> 20) & 0x1f) }
func rs3(w uint32) int    { return int((w >> 27) & 0x1f) }
func funct3(w uint32) int { return int((w >> 12) & 0x7) }
func funct7(w uint32) int { return int((w >> 25) & 0x7f) }
func funct2(w uint32) int { return int((w >> 25) & 0x3) }
func rm(w uint32) int     { return funct3(w) }

func immI(w uint32) int32 { return bitfield.SignExtend(w>>20, 12) }

func immS(w uint32) int32 {
	v := ((w >> 25) << 5) | ((w >> 7) & 0x1f)
	return bitfield.SignExtend(v, 12)
}

func immB(w uint32) int32 {
	v := (((w >> 31) & 1) << 12) |
		(((w >> 7) & 1) << 11) |
		(((w >> 25) & 0x3f) << 5) |
		(((w >> 8) & 0xf) << 1)
	return bitfield.SignExtend(v, 13)
}

func immU(w uint32) int32 {
	return int32(w & 0xfffff000)
}

func immJ(w uint32) int32 {
	v := (((w >> 31) & 1) << 20) |
		(((w >> 12) & 0xff) << 12) |
		(((w >> 20) & 1) << 11) |
		(((w >> 21) & 0x3ff) << 1)
	return bitfield.SignExtend(v, 21)
}

func decodeStandard(w uint32) Op {
	op := w & 0x7f
	f3 := funct3(w)
	f7 := funct7(w)

	switch op {
	case 0x03: // LOAD
		o := Op{Class: ClassRV32I, Operand: Operand{Kind: OperandI, I: OperandI{Imm: immI(w), Rd: rd(w), Rs1: rs1(w), Funct3: f3}}, Raw: w, Size: 4}
		switch f3 {
		case 0b000:
			o.Code = Lb
		case 0b001:
			o.Code = Lh
		case 0b010:
			o.Code = Lw
		case 0b100:
			o.Code = Lbu
		case 0b101:
			o.Code = Lhu
		default:
			return none(w)
		}
		return o

	case 0x07: // LOAD-FP
		o := Op{Operand: Operand{Kind: OperandI, I: OperandI{Imm: immI(w), Rd: rd(w), Rs1: rs1(w), Funct3: f3}}, Raw: w, Size: 4}
		switch f3 {
		case 0b010:
			o.Class, o.Code = ClassRV32F, Flw
		case 0b011:
			o.Class, o.Code = ClassRV32D, Fld
		default:
			return none(w)
		}
		return o

	case 0x0f: // MISC-MEM
		switch f3 {
		case 0b000:
			return Op{Class: ClassRV32I, Code: Fence, Operand: Operand{Kind: OperandFence, Fence: OperandFence{Pred: int((w >> 24) & 0xf), Succ: int((w >> 20) & 0xf)}}, Raw: w, Size: 4}
		case 0b001:
			return Op{Class: ClassRV32I, Code: FenceI, Operand: Operand{Kind: OperandNone}, Raw: w, Size: 4}
		default:
			return none(w)
		}

	case 0x13: // OP-IMM
		switch f3 {
		case 0b001:
			if f7>>1 != 0 {
				return none(w)
			}
			return Op{Class: ClassRV32I, Code: Slli, Operand: Operand{Kind: OperandShiftImm, ShiftImm: OperandShiftImm{Rd: rd(w), Rs1: rs1(w), Shamt: int(rs2(w))}}, Raw: w, Size: 4}
		case 0b101:
			shamt := int(rs2(w))
			switch f7 >> 1 {
			case 0b0000000:
				return Op{Class: ClassRV32I, Code: Srli, Operand: Operand{Kind: OperandShiftImm, ShiftImm: OperandShiftImm{Rd: rd(w), Rs1: rs1(w), Shamt: shamt}}, Raw: w, Size: 4}
			case 0b0100000:
				return Op{Class: ClassRV32I, Code: Srai, Operand: Operand{Kind: OperandShiftImm, ShiftImm: OperandShiftImm{Rd: rd(w), Rs1: rs1(w), Shamt: shamt}}, Raw: w, Size: 4}
			default:
				return none(w)
			}
		default:
			code := [...]Code{Addi, Unknown, Slti, Sltiu, Xori, Unknown, Ori, Andi}[f3]
			return Op{Class: ClassRV32I, Code: code, Operand: Operand{Kind: OperandI, I: OperandI{Imm: immI(w), Rd: rd(w), Rs1: rs1(w), Funct3: f3}}, Raw: w, Size: 4}
		}

	case 0x17: // AUIPC
		return Op{Class: ClassRV32I, Code: Auipc, Operand: Operand{Kind: OperandU, U: OperandU{Imm: immU(w), Rd: rd(w)}}, Raw: w, Size: 4}

	case 0x23: // STORE
		o := Op{Class: ClassRV32I, Operand: Operand{Kind: OperandS, S: OperandS{Imm: immS(w), Rs1: rs1(w), Rs2: rs2(w), Funct3: f3}}, Raw: w, Size: 4}
		switch f3 {
		case 0b000:
			o.Code = Sb
		case 0b001:
			o.Code = Sh
		case 0b010:
			o.Code = Sw
		default:
			return none(w)
		}
		return o

	case 0x27: // STORE-FP
		o := Op{Operand: Operand{Kind: OperandS, S: OperandS{Imm: immS(w), Rs1: rs1(w), Rs2: rs2(w), Funct3: f3}}, Raw: w, Size: 4}
		switch f3 {
		case 0b010:
			o.Class, o.Code = ClassRV32F, Fsw
		case 0b011:
			o.Class, o.Code = ClassRV32D, Fsd
		default:
			return none(w)
		}
		return o

	case 0x2f: // AMO
		return decodeAMO(w)

	case 0x33: // OP
		return decodeOp(w)

	case 0x37: // LUI
		return Op{Class: ClassRV32I, Code: Lui, Operand: Operand{Kind: OperandU, U: OperandU{Imm: immU(w), Rd: rd(w)}}, Raw: w, Size: 4}

	case 0x43, 0x47, 0x4b, 0x4f: // MADD/MSUB/NMSUB/NMADD
		return decodeFusedMAC(w, op)

	case 0x53: // OP-FP
		return decodeOpFP(w)

	case 0x63: // BRANCH
		code := [...]Code{Beq, Bne, Unknown, Unknown, Blt, Bge, Bltu, Bgeu}[f3]
		if code == Unknown {
			return none(w)
		}
		return Op{Class: ClassRV32I, Code: code, Operand: Operand{Kind: OperandB, B: OperandB{Imm: immB(w), Rs1: rs1(w), Rs2: rs2(w), Funct3: f3}}, Raw: w, Size: 4}

	case 0x67: // JALR
		if f3 != 0 {
			return none(w)
		}
		return Op{Class: ClassRV32I, Code: Jalr, Operand: Operand{Kind: OperandI, I: OperandI{Imm: immI(w), Rd: rd(w), Rs1: rs1(w), Funct3: f3}}, Raw: w, Size: 4}

	case 0x6f: // JAL
		return Op{Class: ClassRV32I, Code: Jal, Operand: Operand{Kind: OperandJ, J: OperandJ{Imm: immJ(w), Rd: rd(w)}}, Raw: w, Size: 4}

	case 0x73: // SYSTEM
		return decodeSystem(w)

	default:
		return none(w)
	}
}

func decodeOp(w uint32) Op {
	f3, f7 := funct3(w), funct7(w)
	r := OperandR{Rd: rd(w), Rs1: rs1(w), Rs2: rs2(w), Funct3: f3, Funct7: f7}
	op := Operand{Kind: OperandR, R: r}

	if f7 == 0b0000001 { // RV32M
		codes := [...]Code{Mul, Mulh, Mulhsu, Mulhu, Div, Divu, Rem, Remu}
		return Op{Class: ClassRV32M, Code: codes[f3], Operand: op, Raw: w, Size: 4}
	}

	switch f7 {
	case 0b0000000:
		codes := [...]Code{Add, Sll, Slt, Sltu, Xor, Srl, Or, And}
		return Op{Class: ClassRV32I, Code: codes[f3], Operand: op, Raw: w, Size: 4}
	case 0b0100000:
		switch f3 {
		case 0b000:
			return Op{Class: ClassRV32I, Code: Sub, Operand: op, Raw: w, Size: 4}
		case 0b101:
			return Op{Class: ClassRV32I, Code: Sra, Operand: op, Raw: w, Size: 4}
		}
	}
	return none(w)
}

func decodeAMO(w uint32) Op {
	f3 := funct3(w)
	if f3 != 0b010 { // only .W sizes modeled
		return none(w)
	}
	funct5 := w >> 27
	r := OperandR{Rd: rd(w), Rs1: rs1(w), Rs2: rs2(w), Funct3: f3, Funct7: funct7(w)}
	op := Operand{Kind: OperandR, R: r}
	var code Code
	switch funct5 {
	case 0b00010:
		code = LrW
	case 0b00011:
		code = ScW
	case 0b00001:
		code = AmoswapW
	case 0b00000:
		code = AmoaddW
	case 0b00100:
		code = AmoxorW
	case 0b01100:
		code = AmoandW
	case 0b01000:
		code = AmoorW
	case 0b10000:
		code = AmominW
	case 0b10100:
		code = AmomaxW
	case 0b11000:
		code = AmominuW
	case 0b11100:
		code = AmomaxuW
	default:
		return none(w)
	}
	return Op{Class: ClassRV32A, Code: code, Operand: op, Raw: w, Size: 4}
}

func decodeFusedMAC(w, op uint32) Op {
	r4 := OperandR4{Rd: rd(w), Rs1: rs1(w), Rs2: rs2(w), Rs3: rs3(w), Funct3: funct3(w), Funct2: funct2(w)}
	operand := Operand{Kind: OperandR4, R4: r4}
	isDouble := funct2(w) == 0b01
	single := funct2(w) == 0b00
	if !single && !isDouble {
		return none(w)
	}
	class := ClassRV32F
	if isDouble {
		class = ClassRV32D
	}
	var code Code
	switch op {
	case 0x43:
		code = pick(isDouble, FmaddD, FmaddS)
	case 0x47:
		code = pick(isDouble, FmsubD, FmsubS)
	case 0x4b:
		code = pick(isDouble, FnmsubD, FnmsubS)
	case 0x4f:
		code = pick(isDouble, FnmaddD, FnmaddS)
	}
	return Op{Class: class, Code: code, Operand: operand, Raw: w, Size: 4}
}

func pick(cond bool, a, b Code) Code {
	if cond {
		return a
	}
	return b
}

func decodeOpFP(w uint32) Op {
	f7 := funct7(w)
	f3 := funct3(w)
	r := OperandR{Rd: rd(w), Rs1: rs1(w), Rs2: rs2(w), Funct3: f3, Funct7: f7}
	operand := Operand{Kind: OperandR, R: r}

	isDouble := f7&1 == 1 && f7 != 0b1111101 // fmt bit: 00=S,01=D for the arithmetic ops below
	class := ClassRV32F
	if isDouble {
		class = ClassRV32D
	}

	switch f7 >> 2 {
	case 0b00000: // fadd
		return Op{Class: class, Code: pick(isDouble, FaddD, FaddS), Operand: operand, Raw: w, Size: 4}
	case 0b00001: // fsub
		return Op{Class: class, Code: pick(isDouble, FsubD, FsubS), Operand: operand, Raw: w, Size: 4}
	case 0b00010: // fmul
		return Op{Class: class, Code: pick(isDouble, FmulD, FmulS), Operand: operand, Raw: w, Size: 4}
	case 0b00011: // fdiv
		return Op{Class: class, Code: pick(isDouble, FdivD, FdivS), Operand: operand, Raw: w, Size: 4}
	}

	switch f7 {
	case 0b0101100: // fsqrt.s
		return Op{Class: ClassRV32F, Code: FsqrtS, Operand: operand, Raw: w, Size: 4}
	case 0b0101101: // fsqrt.d
		return Op{Class: ClassRV32D, Code: FsqrtD, Operand: operand, Raw: w, Size: 4}
	case 0b0010000: // fsgnj.s family
		if f3 > 2 {
			return none(w)
		}
		return Op{Class: ClassRV32F, Code: [...]Code{FsgnjS, FsgnjnS, FsgnjxS}[f3], Operand: operand, Raw: w, Size: 4}
	case 0b0010001: // fsgnj.d family
		if f3 > 2 {
			return none(w)
		}
		return Op{Class: ClassRV32D, Code: [...]Code{FsgnjD, FsgnjnD, FsgnjxD}[f3], Operand: operand, Raw: w, Size: 4}
	case 0b0010100: // fmin/fmax.s
		if f3 == 0 {
			return Op{Class: ClassRV32F, Code: FminS, Operand: operand, Raw: w, Size: 4}
		}
		return Op{Class: ClassRV32F, Code: FmaxS, Operand: operand, Raw: w, Size: 4}
	case 0b0010101: // fmin/fmax.d
		if f3 == 0 {
			return Op{Class: ClassRV32D, Code: FminD, Operand: operand, Raw: w, Size: 4}
		}
		return Op{Class: ClassRV32D, Code: FmaxD, Operand: operand, Raw: w, Size: 4}
	case 0b1100000: // fcvt.w[u].s
		if rs2(w) == 0 {
			return Op{Class: ClassRV32F, Code: FcvtWS, Operand: operand, Raw: w, Size: 4}
		}
		return Op{Class: ClassRV32F, Code: FcvtWuS, Operand: operand, Raw: w, Size: 4}
	case 0b1100001: // fcvt.w[u].d
		if rs2(w) == 0 {
			return Op{Class: ClassRV32D, Code: FcvtWD, Operand: operand, Raw: w, Size: 4}
		}
		return Op{Class: ClassRV32D, Code: FcvtWuD, Operand: operand, Raw: w, Size: 4}
	case 0b1101000: // fcvt.s.w[u]
		if rs2(w) == 0 {
			return Op{Class: ClassRV32F, Code: FcvtSW, Operand: operand, Raw: w, Size: 4}
		}
		return Op{Class: ClassRV32F, Code: FcvtSWu, Operand: operand, Raw: w, Size: 4}
	case 0b1101001: // fcvt.d.w[u]
		if rs2(w) == 0 {
			return Op{Class: ClassRV32D, Code: FcvtDW, Operand: operand, Raw: w, Size: 4}
		}
		return Op{Class: ClassRV32D, Code: FcvtDWu, Operand: operand, Raw: w, Size: 4}
	case 0b1110000: // fmv.x.w / fclass.s
		if f3 == 0 {
			return Op{Class: ClassRV32F, Code: FmvXW, Operand: operand, Raw: w, Size: 4}
		}
		return Op{Class: ClassRV32F, Code: FclassS, Operand: operand, Raw: w, Size: 4}
	case 0b1110001: // fclass.d
		return Op{Class: ClassRV32D, Code: FclassD, Operand: operand, Raw: w, Size: 4}
	case 0b1111000: // fmv.w.x
		return Op{Class: ClassRV32F, Code: FmvWX, Operand: operand, Raw: w, Size: 4}
	case 0b1010000: // feq/flt/fle.s
		if f3 > 2 {
			return none(w)
		}
		return Op{Class: ClassRV32F, Code: [...]Code{FleS, FltS, FeqS}[f3], Operand: operand, Raw: w, Size: 4}
	case 0b1010001: // feq/flt/fle.d
		if f3 > 2 {
			return none(w)
		}
		return Op{Class: ClassRV32D, Code: [...]Code{FleD, FltD, FeqD}[f3], Operand: operand, Raw: w, Size: 4}
	case 0b0100000: // fcvt.s.d
		return Op{Class: ClassRV32F, Code: FcvtSD, Operand: operand, Raw: w, Size: 4}
	case 0b0100001: // fcvt.d.s
		return Op{Class: ClassRV32D, Code: FcvtDS, Operand: operand, Raw: w, Size: 4}
	}
	return none(w)
}

func decodeSystem(w uint32) Op {
	f3 := funct3(w)
	if f3 == 0 {
		switch w >> 20 {
		case 0x000:
			return Op{Class: ClassRV32I, Code: Ecall, Operand: Operand{Kind: OperandNone}, Raw: w, Size: 4}
		case 0x001:
			return Op{Class: ClassRV32I, Code: Ebreak, Operand: Operand{Kind: OperandNone}, Raw: w, Size: 4}
		case 0x302:
			return Op{Class: ClassRV32I, Code: Mret, Operand: Operand{Kind: OperandNone}, Raw: w, Size: 4}
		case 0x102:
			return Op{Class: ClassRV32I, Code: Sret, Operand: Operand{Kind: OperandNone}, Raw: w, Size: 4}
		case 0x002:
			return Op{Class: ClassRV32I, Code: Uret, Operand: Operand{Kind: OperandNone}, Raw: w, Size: 4}
		case 0x105:
			return Op{Class: ClassRV32I, Code: Wfi, Operand: Operand{Kind: OperandNone}, Raw: w, Size: 4}
		default:
			if funct7(w) == 0b0001001 {
				return Op{Class: ClassRV32I, Code: SfenceVMA, Operand: Operand{Kind: OperandR, R: OperandR{Rs1: rs1(w), Rs2: rs2(w)}}, Raw: w, Size: 4}
			}
			return none(w)
		}
	}

	csrAddr := w >> 20
	if f3&0x4 != 0 {
		if f3 == 0x4 {
			return none(w)
		}
		codes := [...]Code{Unknown, Csrrwi, Csrrsi, Csrrci}
		return Op{Class: ClassRV32I, Code: codes[f3&0x3], Operand: Operand{Kind: OperandCsrImm, CsrImm: OperandCsrImm{Zimm: int32(rs1(w)), Rd: rd(w), Csr: csrAddr}}, Raw: w, Size: 4}
	}
	codes := [...]Code{Unknown, Csrrw, Csrrs, Csrrc}
	return Op{Class: ClassRV32I, Code: codes[f3&0x3], Operand: Operand{Kind: OperandCsr, Csr: OperandCsr{Rd: rd(w), Rs1: rs1(w), Csr: csrAddr}}, Raw: w, Size: 4}
}
