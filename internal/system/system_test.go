/*
 * rv32sim - Reference platform: bus, devices and CPU wired together
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

package system

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rv32sim/rv32sim/config"
	"github.com/rv32sim/rv32sim/internal/trace"
	"github.com/rv32sim/rv32sim/internal/trap"
)

func newTestSystem(t *testing.T, cfg *config.Config) *System {
	t.Helper()
	mm := config.Default()
	if cfg.PC == 0 {
		cfg.PC = mm["rom"].Base
	}
	sys, err := New(cfg, mm, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sys
}

func TestNewPositionsAtConfiguredPC(t *testing.T) {
	mm := config.Default()
	cfg := &config.Config{PC: mm["ram"].Base}
	sys := newTestSystem(t, cfg)
	if sys.PC() != mm["ram"].Base {
		t.Fatalf("PC = %#x, want %#x", sys.PC(), mm["ram"].Base)
	}
}

func TestStepOnZeroROMTrapsIllegalInstruction(t *testing.T) {
	sys := newTestSystem(t, &config.Config{})
	res, fault := sys.Step(nil)
	if fault != nil {
		t.Fatalf("unexpected emulator fault: %v", fault)
	}
	if !res.Trapped {
		t.Fatalf("expected a trap decoding an all-zero instruction word")
	}
	if res.Cause != uint32(trap.IllegalInstruction) {
		t.Fatalf("cause = %d, want %d (IllegalInstruction)", res.Cause, trap.IllegalInstruction)
	}
	if sys.Cycle != 1 {
		t.Fatalf("Cycle = %d, want 1", sys.Cycle)
	}
}

func TestStepEmitsTrapAndBasicInfoNodes(t *testing.T) {
	sys := newTestSystem(t, &config.Config{})
	tb := trace.NewBuilder()
	if _, fault := sys.Step(tb); fault != nil {
		t.Fatalf("unexpected emulator fault: %v", fault)
	}
	raw := tb.Finish(0, 0)
	rec, err := trace.ParseRecord(raw)
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if _, ok := rec.GetNode(trace.Trap32, 0); !ok {
		t.Fatalf("expected a Trap32 node on a trapping cycle")
	}
	body, ok := rec.GetNode(trace.BasicInfo, 0)
	if !ok {
		t.Fatalf("expected a BasicInfo node")
	}
	info := trace.DecodeBasicInfo(body)
	if info.Insn != 0 {
		t.Fatalf("Insn = %#x, want 0", info.Insn)
	}
}

func TestStepSkipsTraceBeforeSkipCycles(t *testing.T) {
	cfg := &config.Config{DumpSkip: 2}
	sys := newTestSystem(t, cfg)
	tb := trace.NewBuilder()
	if _, fault := sys.Step(tb); fault != nil {
		t.Fatalf("unexpected emulator fault: %v", fault)
	}
	raw := tb.Finish(0, 0)
	rec, err := trace.ParseRecord(raw)
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if rec.CountNodes(trace.BasicInfo) != 0 {
		t.Fatalf("expected no nodes emitted before SkipCycles elapses")
	}
}

func TestReadWriteMemRoundTrip(t *testing.T) {
	mm := config.Default()
	sys := newTestSystem(t, &config.Config{PC: mm["rom"].Base})

	addr := mm["ram"].Base
	want := []byte{0xde, 0xad, 0xbe, 0xef}
	if err := sys.WriteMem(addr, want); err != nil {
		t.Fatalf("WriteMem: %v", err)
	}
	got, err := sys.ReadMem(addr, len(want))
	if err != nil {
		t.Fatalf("ReadMem: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("ReadMem = %x, want %x", got, want)
	}
}

func TestReadMemUnmappedReturnsError(t *testing.T) {
	sys := newTestSystem(t, &config.Config{})
	if _, err := sys.ReadMem(0xffffffff, 1); err == nil {
		t.Fatalf("expected an error reading an unmapped address")
	}
}

func TestRegReadWrite(t *testing.T) {
	sys := newTestSystem(t, &config.Config{})
	sys.WriteReg(5, 0x12345678)
	if got := sys.ReadReg(5); got != 0x12345678 {
		t.Fatalf("ReadReg(5) = %#x, want 0x12345678", got)
	}
}

func TestNewLoadsImageIntoRAM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")
	payload := []byte{0x13, 0x00, 0x00, 0x00} // addi x0, x0, 0 (nop)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	mm := config.Default()
	cfg := &config.Config{
		PC:    mm["ram"].Base,
		Loads: []config.LoadImage{{Path: path, Addr: mm["ram"].Base}},
	}
	sys := newTestSystem(t, cfg)

	got, err := sys.ReadMem(mm["ram"].Base, len(payload))
	if err != nil {
		t.Fatalf("ReadMem: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("RAM contents = %x, want %x", got, payload)
	}
}
