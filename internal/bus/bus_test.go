package bus

import "testing"

func TestRAMReadWriteRoundTrip(t *testing.T) {
	b := New()
	ram := NewRAM(0x1000, 0x100)
	b.Map(ram)

	b.Write32(0x1004, 0xdeadbeef)
	if got := b.Read32(0x1004); got != 0xdeadbeef {
		t.Fatalf("Read32 = %#x, want 0xdeadbeef", got)
	}
	b.Write8(0x1000, 0x42)
	if got := b.Read8(0x1000); got != 0x42 {
		t.Fatalf("Read8 = %#x, want 0x42", got)
	}
}

func TestUnmappedAccessPanics(t *testing.T) {
	b := New()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on unmapped read")
		}
		if _, ok := r.(*UnmappedAccessError); !ok {
			t.Fatalf("panic value = %#v, want *UnmappedAccessError", r)
		}
	}()
	b.Read32(0xbad)
}

func TestOverlappingMapPanics(t *testing.T) {
	b := New()
	b.Map(NewRAM(0x1000, 0x100))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on overlapping map")
		}
	}()
	b.Map(NewRAM(0x1080, 0x100))
}

func TestROMWritesAreDiscarded(t *testing.T) {
	b := New()
	rom := NewROM(0x2000, []byte{1, 2, 3, 4})
	b.Map(rom)
	b.Write32(0x2000, 0xffffffff)
	if got := b.Read32(0x2000); got != 0x04030201 {
		t.Fatalf("ROM contents changed by write: %#x", got)
	}
}

func TestLoadInstallsImage(t *testing.T) {
	ram := NewRAM(0x1000, 0x10)
	ram.Load(0x1000, []byte{0xef, 0xbe, 0xad, 0xde})
	if got := ram.Read32(0x1000); got != 0xdeadbeef {
		t.Fatalf("Read32 = %#x, want 0xdeadbeef", got)
	}
}
