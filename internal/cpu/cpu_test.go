package cpu

import (
	"math"
	"testing"

	"github.com/rv32sim/rv32sim/internal/bus"
	"github.com/rv32sim/rv32sim/internal/csr"
	"github.com/rv32sim/rv32sim/internal/priv"
	"github.com/rv32sim/rv32sim/internal/trap"
)

func newTestCPU(t *testing.T, ram []byte) *CPU {
	t.Helper()
	b := bus.New()
	r := bus.NewRAM(0, 0x10000)
	r.Load(0, ram)
	b.Map(r)
	return New(b, 0)
}

// le32 encodes a standard 32-bit instruction word little-endian.
func le32(buf []byte, off int, w uint32) {
	buf[off] = byte(w)
	buf[off+1] = byte(w >> 8)
	buf[off+2] = byte(w >> 16)
	buf[off+3] = byte(w >> 24)
}

func TestAddiAccumulates(t *testing.T) {
	buf := make([]byte, 16)
	le32(buf, 0, 0x00100093) // addi x1, x0, 1
	le32(buf, 4, 0x00108093) // addi x1, x1, 1
	c := newTestCPU(t, buf)

	c.Step()
	c.Step()

	if got := c.Int.Read(1); got != 2 {
		t.Fatalf("x1 = %d, want 2", got)
	}
	if c.PC != 8 {
		t.Fatalf("PC = %#x, want 8", c.PC)
	}
}

func TestBranchTaken(t *testing.T) {
	buf := make([]byte, 16)
	le32(buf, 0, 0x00000863) // beq x0, x0, +16
	c := newTestCPU(t, buf)

	c.Step()

	if c.PC != 16 {
		t.Fatalf("PC = %#x, want 16", c.PC)
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	buf := make([]byte, 64)
	le32(buf, 0, 0x02a00093) // addi x1, x0, 42
	le32(buf, 4, 0x00102223) // sw x1, 4(x0)
	le32(buf, 8, 0x00402103) // lw x2, 4(x0)
	c := newTestCPU(t, buf)

	for i := 0; i < 3; i++ {
		c.Step()
	}

	if got := c.Int.Read(2); got != 42 {
		t.Fatalf("x2 = %d, want 42", got)
	}
}

func TestEcallTrapsToMachine(t *testing.T) {
	buf := make([]byte, 16)
	le32(buf, 0, 0x00000073) // ecall
	c := newTestCPU(t, buf)

	res := c.Step()

	if !res.Trapped {
		t.Fatal("ecall should trap")
	}
	if c.PC != 0 {
		t.Fatalf("PC after untaken trap vector = %#x, want 0 (default mtvec)", c.PC)
	}
}

func TestCompressedLiThenAddi(t *testing.T) {
	buf := make([]byte, 16)
	buf[0], buf[1] = 0x95, 0x40 // c.li x1, 5
	buf[2], buf[3] = 0x8d, 0x00 // c.addi x1, x1, 3
	c := newTestCPU(t, buf)

	c.Step()
	c.Step()

	if got := c.Int.Read(1); got != 8 {
		t.Fatalf("x1 = %d, want 8", got)
	}
	if c.PC != 4 {
		t.Fatalf("PC = %#x, want 4 (two 2-byte instructions)", c.PC)
	}
}

func TestStepReportsTranslatedPhysicalPC(t *testing.T) {
	buf := make([]byte, 64)
	le32(buf, 0, 0x00000013) // addi x0, x0, 0 (nop), resident at physical 0

	b := bus.New()
	r := bus.NewRAM(0, 0x10000)
	r.Load(0, buf)
	b.Map(r)
	c := New(b, 0x00400000)

	// Megapage root entry: va 0x00400000 (vpn1=1) -> leaf PTE at physical
	// page 0 (V|R|W|X, no offset bits set), so the 4MiB-aligned virtual
	// page maps straight down to physical address 0 where the nop lives.
	const rootPPN = 2
	rootPTEAddr := uint32(rootPPN<<12 + 1*4)
	b.Write32(rootPTEAddr, 0x0f)

	c.Csr.Write(csr.Satp, (1<<31)|rootPPN)
	c.Csr.SetLevel(priv.Supervisor)

	res := c.Step()
	if res.Trapped {
		t.Fatalf("unexpected trap: cause=%d tval=%#x", res.Cause, res.Tval)
	}
	if res.PC != 0x00400000 {
		t.Fatalf("PC = %#x, want virtual 0x00400000", res.PC)
	}
	if res.PhysicalPC != 0 {
		t.Fatalf("PhysicalPC = %#x, want 0 (translated)", res.PhysicalPC)
	}
}

func TestFaddSReservedRoundingModeTraps(t *testing.T) {
	buf := make([]byte, 16)
	// fadd.s x3, x1, x2 with rm=0b101 (reserved)
	le32(buf, 0, 0x0020d1d3)
	c := newTestCPU(t, buf)

	res := c.Step()
	if !res.Trapped {
		t.Fatal("fadd.s with reserved rm should trap")
	}
	if trap.Exception(res.Cause) != trap.IllegalInstruction {
		t.Fatalf("cause = %d, want IllegalInstruction", res.Cause)
	}
}

func TestFdivSRaisesDivideByZeroFlag(t *testing.T) {
	buf := make([]byte, 16)
	le32(buf, 0, 0x182081d3) // fdiv.s x3, x1, x2, rm=0 (round-to-nearest-even)
	c := newTestCPU(t, buf)
	c.Fp.WriteSingle(1, math.Float32bits(1.0))
	c.Fp.WriteSingle(2, math.Float32bits(0.0))

	c.Step()

	fflags, _ := c.Csr.Read(csr.Fflags)
	if fflags&0x8 == 0 {
		t.Fatalf("fflags = %#x, want DZ bit (0x8) set after 1.0/0.0", fflags)
	}
}

func TestFsqrtSRaisesInvalidFlagAndFlagsAreSticky(t *testing.T) {
	buf := make([]byte, 16)
	le32(buf, 0, 0x580081d3) // fsqrt.s x3, x1, rm=0
	c := newTestCPU(t, buf)
	c.Fp.WriteSingle(1, math.Float32bits(-1.0))
	// Pre-seed an unrelated sticky flag to confirm the new op ORs in rather
	// than clobbering what's already accrued.
	c.Csr.RaiseFPFlags(0x1)

	c.Step()

	fflags, _ := c.Csr.Read(csr.Fflags)
	if fflags&0x10 == 0 {
		t.Fatalf("fflags = %#x, want NV bit (0x10) set after sqrt(-1)", fflags)
	}
	if fflags&0x1 == 0 {
		t.Fatal("previously accrued NX flag was clobbered instead of accumulated")
	}
}

func TestDivByZeroYieldsAllOnes(t *testing.T) {
	buf := make([]byte, 16)
	le32(buf, 0, 0x00100093) // addi x1, x0, 1
	le32(buf, 4, 0x0200c0b3) // div x1, x1, x0  (rs2=x0=0)
	c := newTestCPU(t, buf)

	c.Step()
	c.Step()

	if got := c.Int.Read(1); got != 0xffffffff {
		t.Fatalf("x1 = %#x, want 0xffffffff", got)
	}
}
