package device

import (
	"bytes"
	"testing"
)

func TestClintTimerComparator(t *testing.T) {
	c := NewClint()
	c.Write32(ClintBase+clintMtimecmp, 3)
	c.Write32(ClintBase+clintMtimecmp+4, 0)
	if c.Tick() || c.Tick() {
		t.Fatal("timer should not fire before mtime reaches mtimecmp")
	}
	if !c.Tick() {
		t.Fatal("timer should fire once mtime reaches mtimecmp")
	}
}

func TestClintSoftwareInterrupt(t *testing.T) {
	c := NewClint()
	if c.SoftwarePending() {
		t.Fatal("MSIP should start clear")
	}
	c.Write32(ClintBase+clintMsip, 1)
	if !c.SoftwarePending() {
		t.Fatal("MSIP should be set after write")
	}
}

func TestPlicPendingRespectsEnableAndThreshold(t *testing.T) {
	p := NewPlic()
	p.Write32(PlicBase+4*5, 3) // priority of source 5 = 3
	p.SetPending(5, true)
	if p.Pending() {
		t.Fatal("source should be masked until enabled")
	}
	p.Write32(PlicBase+plicEnableBase, 1<<5)
	if !p.Pending() {
		t.Fatal("source should be visible once enabled")
	}
	p.Write32(PlicBase+plicThresholdM, 3)
	if p.Pending() {
		t.Fatal("source at priority == threshold should be masked")
	}
}

func TestPlicClaim(t *testing.T) {
	p := NewPlic()
	p.Write32(PlicBase+4*7, 1)
	p.SetPending(7, true)
	p.Write32(PlicBase+plicEnableBase, 1<<7)
	id := p.Read32(PlicBase + plicClaimM)
	if id != 7 {
		t.Fatalf("claimed id = %d, want 7", id)
	}
	if p.Pending() {
		t.Fatal("claimed source should no longer be pending")
	}
}

func TestUartTransmitWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	u := NewUart(&buf)
	u.Write8(UartBase+uartRBR, 'A')
	u.Write8(UartBase+uartRBR, 'B')
	if buf.String() != "AB" {
		t.Fatalf("output = %q, want %q", buf.String(), "AB")
	}
}

func TestUartReceiveFifo(t *testing.T) {
	u := NewUart(nil)
	if u.lineStatus()&lsrDataReady != 0 {
		t.Fatal("LSR should not report data ready when empty")
	}
	u.Push('x')
	if u.lineStatus()&lsrDataReady == 0 {
		t.Fatal("LSR should report data ready after Push")
	}
	if got := u.Read8(UartBase + uartRBR); got != 'x' {
		t.Fatalf("RBR = %q, want 'x'", got)
	}
}

func TestVirtioStubIdentifies(t *testing.T) {
	v := NewVirtioStub(0x10001000)
	if got := v.Read32(0x10001000 + virtioRegMagic); got != VirtioMagicValue {
		t.Fatalf("magic = %#x, want %#x", got, VirtioMagicValue)
	}
	if got := v.Read32(0x10001000 + virtioRegDeviceID); got != 0 {
		t.Fatalf("device id = %d, want 0 (no device)", got)
	}
}
