package trap

import (
	"testing"

	"github.com/rv32sim/rv32sim/internal/csr"
	"github.com/rv32sim/rv32sim/internal/priv"
)

func TestRaiseWithoutDelegationGoesToMachine(t *testing.T) {
	f := csr.New()
	f.Write(csr.Mtvec, 0x1000)
	pc := Raise(f, IllegalInstruction, 0, 0x80)
	if pc != 0x1000 {
		t.Fatalf("pc = %#x, want 0x1000", pc)
	}
	if f.Level() != priv.Machine {
		t.Fatalf("level = %v, want Machine", f.Level())
	}
}

func TestRaiseDelegatedToSupervisor(t *testing.T) {
	f := csr.New()
	f.Write(csr.Medeleg, 1<<uint(IllegalInstruction))
	f.Write(csr.Stvec, 0x2000)
	f.SetLevel(priv.User)
	pc := Raise(f, IllegalInstruction, 0, 0x80)
	if pc != 0x2000 {
		t.Fatalf("pc = %#x, want 0x2000", pc)
	}
	if f.Level() != priv.Supervisor {
		t.Fatalf("level = %v, want Supervisor", f.Level())
	}
	cause, _ := f.Read(csr.Scause)
	if cause != uint32(IllegalInstruction) {
		t.Fatalf("scause = %d, want %d", cause, IllegalInstruction)
	}
}

func TestReturnRestoresPrivilege(t *testing.T) {
	f := csr.New()
	f.Write(csr.Mtvec, 0x1000)
	Raise(f, Breakpoint, 0, 0x40)
	pc, level := Return(f, priv.Machine)
	if pc != 0x40 {
		t.Fatalf("pc = %#x, want 0x40", pc)
	}
	if level != priv.Machine {
		t.Fatalf("level = %v, want Machine", level)
	}
}
