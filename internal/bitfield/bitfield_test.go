package bitfield

import "testing"

func TestField32GetSet(t *testing.T) {
	m := Member{Msb: 11, Lsb: 5}
	var f Field32 = 0
	f = f.Set(m, 0x3f)
	if got := f.Get(m); got != 0x3f {
		t.Fatalf("Get = %#x, want 0x3f", got)
	}
	if uint32(f) != 0x3f<<5 {
		t.Fatalf("f = %#x, want %#x", uint32(f), uint32(0x3f<<5))
	}
}

func TestField32SetDiscardsExcessBits(t *testing.T) {
	m := Member{Msb: 3, Lsb: 0}
	var f Field32 = 0
	f = f.Set(m, 0xff) // only the low 4 bits fit
	if got := f.Get(m); got != 0xf {
		t.Fatalf("Get = %#x, want 0xf", got)
	}
}

func TestField32MaskedRoundTrip(t *testing.T) {
	var f Field32 = 0xaaaaaaaa
	mask := uint32(0x0000ffff)
	f = f.SetMasked(0x1234, mask)
	if got := f.GetMasked(mask); got != 0x1234 {
		t.Fatalf("GetMasked = %#x, want 0x1234", got)
	}
	if got := f.GetMasked(^mask); got != 0xaaaa0000 {
		t.Fatalf("upper bits disturbed: %#x", got)
	}
}

func TestField64GetSet(t *testing.T) {
	m := Member{Msb: 63, Lsb: 32}
	var f Field64 = 0
	f = f.Set(m, 0xdeadbeef)
	if got := f.Get(m); got != 0xdeadbeef {
		t.Fatalf("Get = %#x, want 0xdeadbeef", got)
	}
}

func TestSignExtend(t *testing.T) {
	cases := []struct {
		v    uint32
		bits int
		want int32
	}{
		{0x7ff, 12, 0x7ff},
		{0x800, 12, -2048},
		{0xfff, 12, -1},
		{0x1, 1, -1},
	}
	for _, c := range cases {
		if got := SignExtend(c.v, c.bits); got != c.want {
			t.Fatalf("SignExtend(%#x, %d) = %d, want %d", c.v, c.bits, got, c.want)
		}
	}
}

func TestSignExtend64(t *testing.T) {
	if got := SignExtend64(0x1ffffffff, 33); got != -1 {
		t.Fatalf("SignExtend64 = %d, want -1", got)
	}
}
