package regfile

import "testing"

func TestIntRegFileZeroWired(t *testing.T) {
	var r IntRegFile
	r.Write(0, 0xdeadbeef)
	if got := r.Read(0); got != 0 {
		t.Fatalf("x0 = %#x, want 0", got)
	}
}

func TestIntRegFileReadWrite(t *testing.T) {
	var r IntRegFile
	for i := 1; i < Count; i++ {
		r.Write(i, uint32(i)*0x1001)
	}
	for i := 1; i < Count; i++ {
		want := uint32(i) * 0x1001
		if got := r.Read(i); got != want {
			t.Fatalf("x%d = %#x, want %#x", i, got, want)
		}
	}
}

func TestFpRegFileSingleRoundTrip(t *testing.T) {
	var r FpRegFile
	r.WriteSingle(5, 0x3f800000) // 1.0f
	if got := r.ReadSingle(5); got != 0x3f800000 {
		t.Fatalf("ReadSingle = %#x, want 0x3f800000", got)
	}
	if got := r.ReadDouble(5); got&nanBoxTag != nanBoxTag {
		t.Fatalf("single write not NaN-boxed: %#x", got)
	}
}

func TestFpRegFileUnboxedReadsAsCanonicalNaN(t *testing.T) {
	var r FpRegFile
	r.WriteDouble(6, 0x4010000000000000) // a legitimate double, not boxed
	if got := r.ReadSingle(6); got != canonicalNaNSingle {
		t.Fatalf("ReadSingle of unboxed double = %#x, want canonical NaN %#x", got, canonicalNaNSingle)
	}
}

func TestFpRegFileDoubleRoundTrip(t *testing.T) {
	var r FpRegFile
	r.WriteDouble(10, canonicalNaNDouble)
	if got := r.ReadDouble(10); got != canonicalNaNDouble {
		t.Fatalf("ReadDouble = %#x, want %#x", got, canonicalNaNDouble)
	}
}
