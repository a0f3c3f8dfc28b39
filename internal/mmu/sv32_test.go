package mmu

import (
	"testing"

	"github.com/rv32sim/rv32sim/internal/priv"
)

type fakeBus struct {
	mem map[uint32]uint32
}

func newFakeBus() *fakeBus { return &fakeBus{mem: map[uint32]uint32{}} }

func (b *fakeBus) ReadPhysical32(addr uint32) uint32  { return b.mem[addr] }
func (b *fakeBus) WritePhysical32(addr uint32, v uint32) { b.mem[addr] = v }

type fakeState struct {
	mode, ppn uint32
	mxr, sum  bool
}

func (s *fakeState) SatpMode() uint32 { return s.mode }
func (s *fakeState) SatpPPN() uint32  { return s.ppn }
func (s *fakeState) MXR() bool        { return s.mxr }
func (s *fakeState) SUM() bool        { return s.sum }

func TestTranslateDisabledPassesThrough(t *testing.T) {
	bus := newFakeBus()
	st := &fakeState{mode: 0}
	pa, fault := Translate(bus, st, 0x12345678, priv.Supervisor, Load)
	if fault != NoFault || pa != 0x12345678 {
		t.Fatalf("pa=%#x fault=%v", pa, fault)
	}
}

func TestTranslateMachineModeNeverTranslates(t *testing.T) {
	bus := newFakeBus()
	st := &fakeState{mode: 1, ppn: 0x1000}
	pa, fault := Translate(bus, st, 0xcafebabe, priv.Machine, Load)
	if fault != NoFault || pa != 0xcafebabe {
		t.Fatalf("pa=%#x fault=%v", pa, fault)
	}
}

// buildLeaf constructs a valid 4KiB leaf PTE pointing at physical page ppn.
func buildLeaf(ppn uint32, r, w, x, u bool) uint32 {
	v := uint32(1) // V
	if r {
		v |= 1 << 1
	}
	if w {
		v |= 1 << 2
	}
	if x {
		v |= 1 << 3
	}
	if u {
		v |= 1 << 4
	}
	v |= (ppn & 0x3ff) << 10
	v |= (ppn >> 10) << 20
	return v
}

func TestTranslateTwoLevelWalk(t *testing.T) {
	bus := newFakeBus()
	rootPPN := uint32(0x80)
	l2TablePPN := uint32(0x81)
	vpn1 := uint32(0x100)
	vpn0 := uint32(0x42)
	dataPPN := uint32(0x9000)

	// Root entry: non-leaf, points at the L2 table.
	bus.mem[rootPPN<<12+vpn1*4] = buildLeaf(l2TablePPN, false, false, false, false)
	// Leaf entry in the L2 table: readable+writable+executable+user.
	bus.mem[l2TablePPN<<12+vpn0*4] = buildLeaf(dataPPN, true, true, true, true)

	st := &fakeState{mode: 1, ppn: rootPPN}
	va := (vpn1 << 22) | (vpn0 << 12) | 0x234

	pa, fault := Translate(bus, st, va, priv.User, Load)
	if fault != NoFault {
		t.Fatalf("unexpected fault")
	}
	want := (dataPPN << 12) | 0x234
	if pa != want {
		t.Fatalf("pa = %#x, want %#x", pa, want)
	}

	// Accessed bit should now be set on the leaf.
	leaf := bus.mem[l2TablePPN<<12+vpn0*4]
	if leaf&(1<<6) == 0 {
		t.Fatal("A bit not set after translation")
	}
}

func TestTranslateMegapage(t *testing.T) {
	bus := newFakeBus()
	rootPPN := uint32(0x80)
	vpn1 := uint32(0x55)
	dataPPN1 := uint32(0x200) // megapage PPN1 only, PPN0 must be 0

	bus.mem[rootPPN<<12+vpn1*4] = buildLeaf(dataPPN1<<10, true, true, true, false)

	st := &fakeState{mode: 1, ppn: rootPPN}
	va := (vpn1 << 22) | (0x7f << 12) | 0x10

	pa, fault := Translate(bus, st, va, priv.Supervisor, Load)
	if fault != NoFault {
		t.Fatalf("unexpected fault on megapage")
	}
	want := (dataPPN1 << 22) | (0x7f << 12) | 0x10
	if pa != want {
		t.Fatalf("pa = %#x, want %#x", pa, want)
	}
}

func TestTranslateMisalignedMegapageFaults(t *testing.T) {
	bus := newFakeBus()
	rootPPN := uint32(0x80)
	vpn1 := uint32(0x7)
	// PPN0 nonzero on a leaf at the top level => misaligned superpage.
	bus.mem[rootPPN<<12+vpn1*4] = buildLeaf(0x5, true, true, true, false)

	st := &fakeState{mode: 1, ppn: rootPPN}
	va := vpn1 << 22

	_, fault := Translate(bus, st, va, priv.Supervisor, Load)
	if fault != PageFault {
		t.Fatal("expected page fault for misaligned megapage")
	}
}

func TestTranslateUserPageDeniedInSupervisorWithoutSUM(t *testing.T) {
	bus := newFakeBus()
	rootPPN := uint32(0x80)
	l2PPN := uint32(0x81)
	vpn1, vpn0 := uint32(1), uint32(2)

	bus.mem[rootPPN<<12+vpn1*4] = buildLeaf(l2PPN, false, false, false, false)
	bus.mem[l2PPN<<12+vpn0*4] = buildLeaf(0x10, true, true, false, true) // user page

	st := &fakeState{mode: 1, ppn: rootPPN, sum: false}
	va := (vpn1 << 22) | (vpn0 << 12)

	_, fault := Translate(bus, st, va, priv.Supervisor, Load)
	if fault != PageFault {
		t.Fatal("expected page fault accessing user page from supervisor without SUM")
	}

	st.sum = true
	_, fault = Translate(bus, st, va, priv.Supervisor, Load)
	if fault != NoFault {
		t.Fatal("expected success accessing user page from supervisor with SUM set")
	}
}

func TestTranslateSupervisorFetchFromUserPageDeniedEvenWithSUM(t *testing.T) {
	bus := newFakeBus()
	rootPPN := uint32(0x80)
	l2PPN := uint32(0x81)
	vpn1, vpn0 := uint32(1), uint32(2)

	bus.mem[rootPPN<<12+vpn1*4] = buildLeaf(l2PPN, false, false, false, false)
	bus.mem[l2PPN<<12+vpn0*4] = buildLeaf(0x10, true, true, true, true) // user page, executable

	st := &fakeState{mode: 1, ppn: rootPPN, sum: true}
	va := (vpn1 << 22) | (vpn0 << 12)

	// SUM relaxes loads/stores from a user page in supervisor mode, but
	// never fetches: an instruction fetch from a user page must always
	// fault while running in S-mode.
	_, fault := Translate(bus, st, va, priv.Supervisor, Instruction)
	if fault != PageFault {
		t.Fatal("expected page fault fetching from a user page in supervisor mode, even with SUM set")
	}
}

func TestTranslateMXRAllowsLoadFromExecuteOnlyPage(t *testing.T) {
	bus := newFakeBus()
	rootPPN := uint32(0x80)
	l2PPN := uint32(0x81)
	vpn1, vpn0 := uint32(1), uint32(2)

	bus.mem[rootPPN<<12+vpn1*4] = buildLeaf(l2PPN, false, false, false, false)
	bus.mem[l2PPN<<12+vpn0*4] = buildLeaf(0x10, false, false, true, false) // execute-only

	st := &fakeState{mode: 1, ppn: rootPPN, mxr: false}
	va := (vpn1 << 22) | (vpn0 << 12)

	_, fault := Translate(bus, st, va, priv.Supervisor, Load)
	if fault != PageFault {
		t.Fatal("expected page fault loading execute-only page without MXR")
	}

	st.mxr = true
	_, fault = Translate(bus, st, va, priv.Supervisor, Load)
	if fault != NoFault {
		t.Fatal("expected success loading execute-only page with MXR set")
	}
}

func TestTranslateInvalidPTEFaults(t *testing.T) {
	bus := newFakeBus()
	st := &fakeState{mode: 1, ppn: 0x80}
	// Root entry left at zero -> V=0.
	_, fault := Translate(bus, st, 0x1000, priv.Supervisor, Load)
	if fault != PageFault {
		t.Fatal("expected page fault for invalid root PTE")
	}
}
