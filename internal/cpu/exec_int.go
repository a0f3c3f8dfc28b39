/*
 * rv32sim - RV32I base integer executor
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
	"github.com/rv32sim/rv32sim/internal/csr"
	"github.com/rv32sim/rv32sim/internal/isa"
	"github.com/rv32sim/rv32sim/internal/priv"
	"github.com/rv32sim/rv32sim/internal/trap"
)

func (c *CPU) execRV32I(op isa.Op, pc, next uint32) (bool, trap.Exception, uint32) {
	switch op.Code {
	case isa.Lui:
		o := op.Operand.U
		c.Int.Write(o.Rd, uint32(o.Imm))
	case isa.Auipc:
		o := op.Operand.U
		c.Int.Write(o.Rd, pc+uint32(o.Imm))

	case isa.Jal:
		o := op.Operand.J
		c.Int.Write(o.Rd, next)
		target := pc + uint32(o.Imm)
		if target&0x1 != 0 {
			return true, trap.InstructionAddressMisaligned, target
		}
		c.PC = target

	case isa.Jalr:
		o := op.Operand.I
		target := (c.Int.Read(o.Rs1) + uint32(o.Imm)) &^ 1
		c.Int.Write(o.Rd, next)
		if target&0x1 != 0 {
			return true, trap.InstructionAddressMisaligned, target
		}
		c.PC = target

	case isa.Beq, isa.Bne, isa.Blt, isa.Bge, isa.Bltu, isa.Bgeu:
		o := op.Operand.B
		a, b := c.Int.Read(o.Rs1), c.Int.Read(o.Rs2)
		taken := false
		switch op.Code {
		case isa.Beq:
			taken = a == b
		case isa.Bne:
			taken = a != b
		case isa.Blt:
			taken = int32(a) < int32(b)
		case isa.Bge:
			taken = int32(a) >= int32(b)
		case isa.Bltu:
			taken = a < b
		case isa.Bgeu:
			taken = a >= b
		}
		if taken {
			target := pc + uint32(o.Imm)
			if target&0x1 != 0 {
				return true, trap.InstructionAddressMisaligned, target
			}
			c.PC = target
		}

	case isa.Lb:
		o := op.Operand.I
		v, faulted, ex := c.loadByte(c.Int.Read(o.Rs1) + uint32(o.Imm))
		if faulted {
			return true, ex, c.Int.Read(o.Rs1) + uint32(o.Imm)
		}
		c.Int.Write(o.Rd, uint32(int32(int8(v))))
	case isa.Lbu:
		o := op.Operand.I
		v, faulted, ex := c.loadByte(c.Int.Read(o.Rs1) + uint32(o.Imm))
		if faulted {
			return true, ex, c.Int.Read(o.Rs1) + uint32(o.Imm)
		}
		c.Int.Write(o.Rd, uint32(v))
	case isa.Lh:
		o := op.Operand.I
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		v, faulted, ex := c.loadHalf(addr)
		if faulted {
			return true, ex, addr
		}
		c.Int.Write(o.Rd, uint32(int32(int16(v))))
	case isa.Lhu:
		o := op.Operand.I
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		v, faulted, ex := c.loadHalf(addr)
		if faulted {
			return true, ex, addr
		}
		c.Int.Write(o.Rd, uint32(v))
	case isa.Lw:
		o := op.Operand.I
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		v, faulted, ex := c.loadWord(addr)
		if faulted {
			return true, ex, addr
		}
		c.Int.Write(o.Rd, v)

	case isa.Sb:
		o := op.Operand.S
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		if faulted, ex := c.storeByte(addr, uint8(c.Int.Read(o.Rs2))); faulted {
			return true, ex, addr
		}
	case isa.Sh:
		o := op.Operand.S
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		if faulted, ex := c.storeHalf(addr, uint16(c.Int.Read(o.Rs2))); faulted {
			return true, ex, addr
		}
	case isa.Sw:
		o := op.Operand.S
		addr := c.Int.Read(o.Rs1) + uint32(o.Imm)
		if faulted, ex := c.storeWord(addr, c.Int.Read(o.Rs2)); faulted {
			return true, ex, addr
		}

	case isa.Addi:
		o := op.Operand.I
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)+uint32(o.Imm))
	case isa.Slti:
		o := op.Operand.I
		c.Int.Write(o.Rd, boolToU32(int32(c.Int.Read(o.Rs1)) < o.Imm))
	case isa.Sltiu:
		o := op.Operand.I
		c.Int.Write(o.Rd, boolToU32(c.Int.Read(o.Rs1) < uint32(o.Imm)))
	case isa.Xori:
		o := op.Operand.I
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)^uint32(o.Imm))
	case isa.Ori:
		o := op.Operand.I
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)|uint32(o.Imm))
	case isa.Andi:
		o := op.Operand.I
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)&uint32(o.Imm))

	case isa.Slli:
		o := op.Operand.ShiftImm
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)<<uint(o.Shamt))
	case isa.Srli:
		o := op.Operand.ShiftImm
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)>>uint(o.Shamt))
	case isa.Srai:
		o := op.Operand.ShiftImm
		c.Int.Write(o.Rd, uint32(int32(c.Int.Read(o.Rs1))>>uint(o.Shamt)))

	case isa.Add:
		o := op.Operand.R
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)+c.Int.Read(o.Rs2))
	case isa.Sub:
		o := op.Operand.R
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)-c.Int.Read(o.Rs2))
	case isa.Sll:
		o := op.Operand.R
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)<<(c.Int.Read(o.Rs2)&0x1f))
	case isa.Slt:
		o := op.Operand.R
		c.Int.Write(o.Rd, boolToU32(int32(c.Int.Read(o.Rs1)) < int32(c.Int.Read(o.Rs2))))
	case isa.Sltu:
		o := op.Operand.R
		c.Int.Write(o.Rd, boolToU32(c.Int.Read(o.Rs1) < c.Int.Read(o.Rs2)))
	case isa.Xor:
		o := op.Operand.R
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)^c.Int.Read(o.Rs2))
	case isa.Srl:
		o := op.Operand.R
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)>>(c.Int.Read(o.Rs2)&0x1f))
	case isa.Sra:
		o := op.Operand.R
		c.Int.Write(o.Rd, uint32(int32(c.Int.Read(o.Rs1))>>(c.Int.Read(o.Rs2)&0x1f)))
	case isa.Or:
		o := op.Operand.R
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)|c.Int.Read(o.Rs2))
	case isa.And:
		o := op.Operand.R
		c.Int.Write(o.Rd, c.Int.Read(o.Rs1)&c.Int.Read(o.Rs2))

	case isa.Fence, isa.FenceI:
		// A single-hart, strongly-ordered bus has nothing to flush or
		// reorder around.
	case isa.SfenceVMA:
		// No TLB is cached between translations, so there is nothing to
		// invalidate; accepted for guest compatibility.

	case isa.Ecall:
		var ex trap.Exception
		switch c.Csr.Level() {
		case priv.Machine:
			ex = trap.EnvironmentCallFromMachine
		case priv.Supervisor:
			ex = trap.EnvironmentCallFromSuper
		default:
			ex = trap.EnvironmentCallFromUser
		}
		return true, ex, 0
	case isa.Ebreak:
		return true, trap.Breakpoint, pc

	case isa.Csrrw, isa.Csrrs, isa.Csrrc:
		return c.execCsr(op)
	case isa.Csrrwi, isa.Csrrsi, isa.Csrrci:
		return c.execCsrImm(op)

	case isa.Mret:
		if c.Csr.Level() != priv.Machine {
			return true, trap.IllegalInstruction, op.Raw
		}
		newPC, _ := trap.Return(c.Csr, priv.Machine)
		c.PC = newPC
	case isa.Sret:
		if c.Csr.Level() < priv.Supervisor {
			return true, trap.IllegalInstruction, op.Raw
		}
		newPC, _ := trap.Return(c.Csr, priv.Supervisor)
		c.PC = newPC
	case isa.Uret:
		newPC, _ := trap.Return(c.Csr, priv.User)
		c.PC = newPC

	case isa.Wfi:
		// Modeled as a no-op: the next Step still polls for a pending
		// interrupt on the following cycle regardless.

	default:
		return true, trap.IllegalInstruction, op.Raw
	}
	return false, 0, 0
}

func (c *CPU) execCsr(op isa.Op) (bool, trap.Exception, uint32) {
	o := op.Operand.Csr
	addr := csr.Addr(o.Csr)
	old, ok := c.Csr.Read(addr)
	if !ok {
		return true, trap.IllegalInstruction, op.Raw
	}
	rs1 := c.Int.Read(o.Rs1)
	var next uint32
	switch op.Code {
	case isa.Csrrw:
		next = rs1
	case isa.Csrrs:
		next = old | rs1
	case isa.Csrrc:
		next = old &^ rs1
	}
	// csrrs/csrrc with rs1==x0 and csrrw are still required to perform the
	// read; only the write is skipped when the source register is x0 for
	// csrrs/csrrc (per the spec, to avoid side effects on a no-op write).
	if (op.Code == isa.Csrrs || op.Code == isa.Csrrc) && o.Rs1 == 0 {
		c.Int.Write(o.Rd, old)
		return false, 0, 0
	}
	if !c.Csr.Write(addr, next) {
		return true, trap.IllegalInstruction, op.Raw
	}
	c.Int.Write(o.Rd, old)
	return false, 0, 0
}

func (c *CPU) execCsrImm(op isa.Op) (bool, trap.Exception, uint32) {
	o := op.Operand.CsrImm
	addr := csr.Addr(o.Csr)
	old, ok := c.Csr.Read(addr)
	if !ok {
		return true, trap.IllegalInstruction, op.Raw
	}
	zimm := uint32(o.Zimm)
	var next uint32
	switch op.Code {
	case isa.Csrrwi:
		next = zimm
	case isa.Csrrsi:
		next = old | zimm
	case isa.Csrrci:
		next = old &^ zimm
	}
	if (op.Code == isa.Csrrsi || op.Code == isa.Csrrci) && zimm == 0 {
		c.Int.Write(o.Rd, old)
		return false, 0, 0
	}
	if !c.Csr.Write(addr, next) {
		return true, trap.IllegalInstruction, op.Raw
	}
	c.Int.Write(o.Rd, old)
	return false, 0, 0
}
