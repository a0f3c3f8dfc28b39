package isa

import "testing"

func TestDecodeAddi(t *testing.T) {
	op := Decode(0x00100093) // addi x1, x0, 1
	if op.Class != ClassRV32I || op.Code != Addi {
		t.Fatalf("got class=%v code=%v", op.Class, op.Code)
	}
	if op.Operand.Kind != OperandI {
		t.Fatalf("kind = %v, want OperandI", op.Operand.Kind)
	}
	if op.Operand.I.Rd != 1 || op.Operand.I.Rs1 != 0 || op.Operand.I.Imm != 1 {
		t.Fatalf("operand = %+v", op.Operand.I)
	}
	if op.Size != 4 {
		t.Fatalf("size = %d, want 4", op.Size)
	}
}

func TestDecodeAdd(t *testing.T) {
	op := Decode(0x002081b3) // add x3, x1, x2
	if op.Class != ClassRV32I || op.Code != Add {
		t.Fatalf("got class=%v code=%v", op.Class, op.Code)
	}
	if op.Operand.R.Rd != 3 || op.Operand.R.Rs1 != 1 || op.Operand.R.Rs2 != 2 {
		t.Fatalf("operand = %+v", op.Operand.R)
	}
}

func TestDecodeMulIsRV32M(t *testing.T) {
	// mul x3, x1, x2: funct7=0000001, funct3=000
	word := uint32(0b0000001<<25 | 2<<20 | 1<<15 | 0<<12 | 3<<7 | 0x33)
	op := Decode(word)
	if op.Class != ClassRV32M || op.Code != Mul {
		t.Fatalf("got class=%v code=%v", op.Class, op.Code)
	}
}

func TestDecodeJalZeroOffset(t *testing.T) {
	op := Decode(0x0000006f) // jal x0, 0
	if op.Code != Jal {
		t.Fatalf("code = %v, want Jal", op.Code)
	}
	if op.Operand.J.Rd != 0 || op.Operand.J.Imm != 0 {
		t.Fatalf("operand = %+v", op.Operand.J)
	}
}

func TestDecodeBeq(t *testing.T) {
	// beq x1, x2, 0x10
	imm := int32(0x10)
	word := (uint32(imm>>12&1) << 31) | (uint32(imm>>5&0x3f) << 25) | (2 << 20) | (1 << 15) | (0 << 12) | (uint32(imm>>1&0xf) << 8) | (uint32(imm>>11&1) << 7) | 0x63
	op := Decode(word)
	if op.Code != Beq {
		t.Fatalf("code = %v, want Beq", op.Code)
	}
	if op.Operand.B.Imm != imm {
		t.Fatalf("imm = %d, want %d", op.Operand.B.Imm, imm)
	}
}

func TestDecodeCsrrw(t *testing.T) {
	// csrrw x1, mstatus(0x300), x2
	word := uint32(0x300<<20) | (2 << 15) | (1 << 12) | (1 << 7) | 0x73
	op := Decode(word)
	if op.Code != Csrrw {
		t.Fatalf("code = %v, want Csrrw", op.Code)
	}
	if op.Operand.Csr.Csr != 0x300 || op.Operand.Csr.Rd != 1 || op.Operand.Csr.Rs1 != 2 {
		t.Fatalf("operand = %+v", op.Operand.Csr)
	}
}

func TestDecodeMret(t *testing.T) {
	op := Decode(0x30200073)
	if op.Code != Mret {
		t.Fatalf("code = %v, want Mret", op.Code)
	}
}

func TestDecodeUnknownStandardCarriesNone(t *testing.T) {
	op := Decode(0x0000007f) // opcode 1111111, not in the table
	if op.Code != Unknown {
		t.Fatalf("code = %v, want Unknown", op.Code)
	}
	if op.Operand.Kind != OperandNone {
		t.Fatalf("kind = %v, want OperandNone", op.Operand.Kind)
	}
}

func TestDecodeCompressedNop(t *testing.T) {
	op := Decode(0x0001)
	if op.Code != CNop || op.Size != 2 {
		t.Fatalf("code=%v size=%d, want CNop/2", op.Code, op.Size)
	}
}

func TestDecodeCompressedLi(t *testing.T) {
	op := Decode(0x4095) // c.li x1, 5
	if op.Code != CLi {
		t.Fatalf("code = %v, want CLi", op.Code)
	}
	if op.Operand.CI.Rd != 1 || op.Operand.CI.Imm != 5 {
		t.Fatalf("operand = %+v", op.Operand.CI)
	}
}

func TestDecodeCompressedAddi4spn(t *testing.T) {
	op := Decode(0x0040) // c.addi4spn x8, sp, 4
	if op.Code != CAddi4spn {
		t.Fatalf("code = %v, want CAddi4spn", op.Code)
	}
	if op.Operand.CIW.Rd != 8 || op.Operand.CIW.Imm != 4 {
		t.Fatalf("operand = %+v", op.Operand.CIW)
	}
}

func TestDecodeCompressedAddi4spnZeroIsReserved(t *testing.T) {
	op := Decode(0x0000)
	if op.Code != Unknown {
		t.Fatalf("all-zero compressed word should decode Unknown, got %v", op.Code)
	}
}

func TestDecodeCompressedJr(t *testing.T) {
	// c.jr x1: quadrant 10, f3=100, bit12=0, rd=1, rs2=0
	word := uint16(0b100<<13 | 0<<12 | 1<<7 | 0<<2 | 0b10)
	op := Decode(uint32(word))
	if op.Code != CJr {
		t.Fatalf("code = %v, want CJr", op.Code)
	}
	if op.Operand.CR.Rd != 1 {
		t.Fatalf("operand = %+v", op.Operand.CR)
	}
}

func TestDecodeCompressedEbreak(t *testing.T) {
	// c.ebreak: quadrant 10, f3=100, bit12=1, rd=0, rs2=0
	word := uint16(0b100<<13 | 1<<12 | 0<<7 | 0<<2 | 0b10)
	op := Decode(uint32(word))
	if op.Code != CEbreak {
		t.Fatalf("code = %v, want CEbreak", op.Code)
	}
}

func TestDecodeRoundTripAllStandardOpcodesCarryNonNilOperandKind(t *testing.T) {
	opcodes := []uint32{0x03, 0x07, 0x0f, 0x13, 0x17, 0x23, 0x27, 0x2f, 0x33, 0x37, 0x43, 0x47, 0x4b, 0x4f, 0x53, 0x63, 0x67, 0x6f, 0x73}
	for _, oc := range opcodes {
		op := Decode(oc | 0x3)
		_ = op // every path must return a populated Op without panicking
	}
}
