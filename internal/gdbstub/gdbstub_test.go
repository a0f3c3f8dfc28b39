/*
 * rv32sim - GDB remote serial protocol stub
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

package gdbstub

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/rv32sim/rv32sim/config"
	"github.com/rv32sim/rv32sim/internal/system"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mm := config.Default()
	cfg := &config.Config{PC: mm["ram"].Base}
	sys, err := system.New(cfg, mm, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("system.New: %v", err)
	}
	return &Server{sys: sys, bps: make(map[uint32]uint32), bp16: make(map[uint32]bool)}
}

func TestChecksumAndFrame(t *testing.T) {
	sum := checksum("OK")
	want := uint8('O' + 'K')
	if sum != want {
		t.Fatalf("checksum(OK) = %d, want %d", sum, want)
	}
	if got, want := frame("OK"), "$OK#9a"; got != want {
		t.Fatalf("frame(OK) = %q, want %q", got, want)
	}
}

func TestReadPacketStripsFraming(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("+$g#67"))
	pkt, err := readPacket(r)
	if err != nil {
		t.Fatalf("readPacket: %v", err)
	}
	if pkt != "g" {
		t.Fatalf("pkt = %q, want %q", pkt, "g")
	}
}

func TestReadPacketCtrlCYieldsEmpty(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\x03"))
	pkt, err := readPacket(r)
	if err != nil {
		t.Fatalf("readPacket: %v", err)
	}
	if pkt != "" {
		t.Fatalf("pkt = %q, want empty", pkt)
	}
}

func TestDispatchQuestionMark(t *testing.T) {
	s := newTestServer(t)
	if got := s.dispatch("?"); got != "S05" {
		t.Fatalf("dispatch(?) = %q, want S05", got)
	}
}

func TestDispatchRegisterRoundTrip(t *testing.T) {
	s := newTestServer(t)
	s.sys.WriteReg(10, 0xcafef00d)

	reply := s.dispatch("p" + "a") // x10 in hex is "a"
	if want := le32hex(0xcafef00d); reply != want {
		t.Fatalf("p10 = %q, want %q", reply, want)
	}

	if got := s.dispatch("P" + "a=" + le32hex(0x11223344)); got != "OK" {
		t.Fatalf("P10=... = %q, want OK", got)
	}
	if got := s.sys.ReadReg(10); got != 0x11223344 {
		t.Fatalf("x10 = %#x, want 0x11223344", got)
	}
}

func TestDispatchMemoryReadWrite(t *testing.T) {
	s := newTestServer(t)
	addr := s.sys.PC()

	if got := s.dispatch("M" + le32hexLowerNoSpaces(addr) + ",4:deadbeef"); got != "OK" {
		t.Fatalf("M write = %q, want OK", got)
	}
	reply := s.dispatch("m" + le32hexLowerNoSpaces(addr) + ",4")
	if reply != "deadbeef" {
		t.Fatalf("m read = %q, want deadbeef", reply)
	}
}

// le32hexLowerNoSpaces renders an address the way gdb would in an m/M
// packet: plain hex, no byte-swap (unlike register values, addresses in
// these packets are big-endian-looking plain hex strings).
func le32hexLowerNoSpaces(v uint32) string {
	const hexDigits = "0123456789abcdef"
	b := []byte{
		hexDigits[(v>>28)&0xf], hexDigits[(v>>24)&0xf],
		hexDigits[(v>>20)&0xf], hexDigits[(v>>16)&0xf],
		hexDigits[(v>>12)&0xf], hexDigits[(v>>8)&0xf],
		hexDigits[(v>>4)&0xf], hexDigits[v&0xf],
	}
	return string(b)
}

func TestSetAndClearBreakpointRestoresOriginalWord(t *testing.T) {
	s := newTestServer(t)
	addr := s.sys.PC()
	if err := s.sys.WriteMem(addr, []byte{0x13, 0x00, 0x00, 0x00}); err != nil {
		t.Fatalf("WriteMem: %v", err)
	}

	if got := s.setBreakpoint(le32hexLowerNoSpaces(addr) + ",4"); got != "OK" {
		t.Fatalf("setBreakpoint = %q, want OK", got)
	}
	patched, err := s.sys.ReadMem(addr, 4)
	if err != nil {
		t.Fatalf("ReadMem: %v", err)
	}
	wantPatched := []byte{0x73, 0x00, 0x10, 0x00} // 0x00100073, little-endian

	for i := range wantPatched {
		if patched[i] != wantPatched[i] {
			t.Fatalf("patched memory = %x, want %x", patched, wantPatched)
		}
	}

	if got := s.clearBreakpoint(le32hexLowerNoSpaces(addr) + ",4"); got != "OK" {
		t.Fatalf("clearBreakpoint = %q, want OK", got)
	}
	restored, err := s.sys.ReadMem(addr, 4)
	if err != nil {
		t.Fatalf("ReadMem: %v", err)
	}
	want := []byte{0x13, 0x00, 0x00, 0x00}
	for i := range want {
		if restored[i] != want[i] {
			t.Fatalf("restored memory = %x, want %x", restored, want)
		}
	}
}

func TestParseLE32AndLe32Hex(t *testing.T) {
	v, err := parseLE32(le32hex(0x01020304))
	if err != nil {
		t.Fatalf("parseLE32: %v", err)
	}
	if v != 0x01020304 {
		t.Fatalf("round trip = %#x, want 0x01020304", v)
	}
}

func TestParseAddrLen(t *testing.T) {
	addr, length, err := parseAddrLen("1000,4")
	if err != nil {
		t.Fatalf("parseAddrLen: %v", err)
	}
	if addr != 0x1000 || length != 4 {
		t.Fatalf("addr=%#x length=%d, want 0x1000 4", addr, length)
	}
}
