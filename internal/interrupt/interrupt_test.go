package interrupt

import (
	"testing"

	"github.com/rv32sim/rv32sim/internal/csr"
	"github.com/rv32sim/rv32sim/internal/priv"
)

func enableAndPend(f *csr.File, bit uint32) {
	f.Write(csr.Mie, bit)
	f.Write(csr.Mip, bit)
}

func TestMachineExternalBeatsTimer(t *testing.T) {
	f := csr.New()
	f.Write(csr.Mstatus, 1<<3) // MIE=1
	f.Write(csr.Mie, (1<<11)|(1<<7))
	f.Write(csr.Mip, 1<<11)
	f.SetInterruptPending(csr.MTIPBit, true) // MTIP is not software-writable through mip
	code, target, ok := Pending(f, priv.Machine)
	if !ok {
		t.Fatal("expected a pending interrupt")
	}
	if code != MEI {
		t.Fatalf("code = %v, want MEI", code)
	}
	if target != priv.Machine {
		t.Fatalf("target = %v, want Machine", target)
	}
}

func TestNoInterruptWithoutGlobalEnable(t *testing.T) {
	f := csr.New()
	enableAndPend(f, 1<<11)
	_, _, ok := Pending(f, priv.Machine)
	if ok {
		t.Fatal("should not take interrupt with MIE=0")
	}
}

func TestDelegatedInterruptVisibleInSupervisor(t *testing.T) {
	f := csr.New()
	f.Write(csr.Mideleg, 1<<9) // SEI delegated
	f.Write(csr.Mstatus, 1<<1) // SIE=1
	f.Write(csr.Mie, 1<<9)
	f.Write(csr.Mip, 1<<9)
	f.SetLevel(priv.Supervisor)
	code, target, ok := Pending(f, priv.Supervisor)
	if !ok || code != SEI || target != priv.Supervisor {
		t.Fatalf("code=%v target=%v ok=%v", code, target, ok)
	}
}

func TestUndelegatedInterruptPreemptsBelowMachine(t *testing.T) {
	f := csr.New()
	f.Write(csr.Mie, 1<<11)
	f.Write(csr.Mip, 1<<11)
	f.SetLevel(priv.Supervisor)
	// not delegated: target resolves to Machine, which is above cur
	// (Supervisor), so it should still be visible -- Machine-level
	// interrupts always preempt lower-privilege execution.
	_, target, ok := Pending(f, priv.Supervisor)
	if !ok || target != priv.Machine {
		t.Fatalf("target=%v ok=%v, want Machine/true", target, ok)
	}
}

func TestDelegatedInterruptMaskedWhileInMachine(t *testing.T) {
	f := csr.New()
	f.Write(csr.Mstatus, 1<<3) // MIE=1
	f.Write(csr.Mideleg, 1<<5) // STI delegated to S
	f.Write(csr.Mie, 1<<5)
	f.SetInterruptPending(csr.STIPBit, true) // STIP is not software-writable through mip
	// STI is delegated to Supervisor, so it must be masked entirely while
	// executing in Machine mode -- delegation never redirects an interrupt
	// back up to a higher level than its delegated target.
	_, _, ok := Pending(f, priv.Machine)
	if ok {
		t.Fatal("delegated-to-S interrupt must be masked while running in M, not delivered to M")
	}
}

func TestTakeEntersTargetLevel(t *testing.T) {
	f := csr.New()
	f.Write(csr.Mtvec, 0x8000|1) // vectored
	pc := Take(f, MTI, priv.Machine, 0x400)
	if pc != 0x8000+4*7 {
		t.Fatalf("pc = %#x, want %#x", pc, 0x8000+28)
	}
	mepc, _ := f.Read(csr.Mepc)
	if mepc != 0x400 {
		t.Fatalf("mepc = %#x, want 0x400", mepc)
	}
}
