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

// Package system assembles the bus, the reference peripheral set and a
// CPU into one steppable machine, and drives the per-cycle trace
// emission sequence: a Trap32 node (if any), then BasicInfo and Pc32,
// then whichever of IntReg32, FpReg, Io and Memory the dump options
// select. No MemoryAccess32 or Csr32 nodes are emitted, so
// TraceOptions.CSR has no effect on the trace.
package system

import (
	"fmt"
	"io"
	"os"

	"github.com/rv32sim/rv32sim/config"
	"github.com/rv32sim/rv32sim/internal/bus"
	"github.com/rv32sim/rv32sim/internal/cpu"
	"github.com/rv32sim/rv32sim/internal/csr"
	"github.com/rv32sim/rv32sim/internal/device"
	"github.com/rv32sim/rv32sim/internal/trace"
)

// TraceOptions selects which optional per-cycle nodes get emitted, as
// controlled by the --enable-dump-* flags.
type TraceOptions struct {
	CSR    bool
	Memory bool
	FPReg  bool
	IntReg bool
	HostIO bool

	SkipCycles uint64
	HostIOAddr uint32
}

// EmulatorFault is the fatal, non-architectural error tier: an unmapped
// bus access past translation, a trace size mismatch, an out-of-range
// register index. The driver reports cycle+PC and exits nonzero.
type EmulatorFault struct {
	Cycle uint64
	PC    uint32
	Err   error
}

func (f *EmulatorFault) Error() string {
	return fmt.Sprintf("emulator fault at cycle %d, pc %#08x: %v", f.Cycle, f.PC, f.Err)
}

func (f *EmulatorFault) Unwrap() error { return f.Err }

// System owns the bus exclusively and exposes the register/memory access
// points the GDB stub and the interactive monitor both need.
type System struct {
	Bus   *bus.Bus
	CPU   *cpu.CPU
	Clint *device.Clint
	Plic  *device.Plic
	Uart0 *device.Uart
	Uart1 *device.Uart

	ram *bus.RAM

	Cycle uint64
	Opts  TraceOptions
}

// New builds the reference memory map from cfg and mm, loads every
// --load image into RAM, and returns a System positioned at cfg.PC.
func New(cfg *config.Config, mm config.MemoryMap, out io.Writer) (*System, error) {
	b := bus.New()

	rom := bus.NewROM(mm["rom"].Base, make([]byte, mm["rom"].Size))
	b.Map(rom)

	clint := device.NewClint()
	b.Map(clint)

	plic := device.NewPlic()
	b.Map(plic)

	uart0 := device.NewUart(out)
	b.Map(uart0)

	for i := 0; i < 8; i++ {
		vr := mm[fmt.Sprintf("virtio%d", i)]
		b.Map(device.NewVirtioStub(vr.Base))
	}

	uart1 := device.NewUart(out)
	b.Map(uart1)

	ramRegion := mm["ram"]
	ramSize := ramRegion.Size
	if cfg.RAMSize != 0 {
		ramSize = cfg.RAMSize
	}
	ram := bus.NewRAM(ramRegion.Base, ramSize)
	b.Map(ram)

	for _, img := range cfg.Loads {
		data, err := os.ReadFile(img.Path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", img.Path, err)
		}
		ram.Load(img.Addr, data)
	}

	c := cpu.New(b, cfg.PC)

	sys := &System{
		Bus:   b,
		CPU:   c,
		Clint: clint,
		Plic:  plic,
		Uart0: uart0,
		Uart1: uart1,
		ram:   ram,
		Opts: TraceOptions{
			CSR:        cfg.DumpCSR,
			Memory:     cfg.DumpMemory,
			FPReg:      cfg.DumpFPReg,
			IntReg:     cfg.DumpIntReg,
			HostIO:     cfg.DumpHostIO,
			SkipCycles: cfg.DumpSkip,
			HostIOAddr: cfg.HostIOAddr,
		},
	}
	return sys, nil
}

// updateInterruptSources drives CLINT's timer comparator and PLIC's
// pending-and-enabled aggregate into mip, so Step's interrupt check sees
// a fresh snapshot every cycle.
func (s *System) updateInterruptSources() {
	timerFired := s.Clint.Tick()
	s.CPU.Csr.SetInterruptPending(csr.MTIPBit, timerFired)
	s.CPU.Csr.SetInterruptPending(csr.MSIPBit, s.Clint.SoftwarePending())
	s.CPU.Csr.SetInterruptPending(csr.MEIPBit, s.Plic.Pending())
}

// Step advances the machine by one cycle and appends the resulting
// record to tb, honoring the configured dump options. It recovers a bus
// panic (an unmapped physical access past translation) into an
// EmulatorFault rather than letting it escape as a runtime panic.
func (s *System) Step(tb *trace.Builder) (res cpu.StepResult, fault error) {
	defer func() {
		if r := recover(); r != nil {
			var err error
			switch v := r.(type) {
			case error:
				err = v
			default:
				err = fmt.Errorf("%v", v)
			}
			fault = &EmulatorFault{Cycle: s.Cycle, PC: s.CPU.PC, Err: err}
		}
	}()

	s.updateInterruptSources()
	res = s.CPU.Step()

	if tb != nil && s.Cycle >= s.Opts.SkipCycles {
		s.emitTrace(tb, res)
	}
	s.Cycle++
	return res, nil
}

func (s *System) emitTrace(tb *trace.Builder, res cpu.StepResult) {
	if res.Trapped {
		kind := trace.TrapException
		if res.IsInterrupt {
			kind = trace.TrapInterrupt
		}
		tb.AddNode(trace.Trap32, trace.Trap32Node{
			Kind:      kind,
			From:      res.FromLevel,
			To:        res.ToLevel,
			Cause:     uint8(res.Cause),
			TrapValue: res.Tval,
		}.Encode())
	}

	tb.AddNode(trace.BasicInfo, trace.BasicInfoNode{
		Cycle:          uint32(s.Cycle),
		OpID:           uint32(res.Op.Code),
		Insn:           res.Op.Raw,
		PrivilegeLevel: uint8(s.CPU.Csr.Level()),
	}.Encode())

	tb.AddNode(trace.Pc32, trace.Pc32Node{VirtualPC: res.PC, PhysicalPC: res.PhysicalPC}.Encode())

	if s.Opts.IntReg {
		snap := s.CPU.Int.Snapshot()
		tb.AddNode(trace.IntReg32, trace.IntReg32Node{Regs: snap}.Encode())
	}
	if s.Opts.FPReg {
		snap := s.CPU.Fp.Snapshot()
		tb.AddNode(trace.FpReg, trace.FpRegNode{Regs: snap}.Encode())
	}
	if s.Opts.HostIO && s.Opts.HostIOAddr != 0 {
		var v uint32
		func() {
			defer func() { recover() }()
			v = s.Bus.Read32(s.Opts.HostIOAddr)
		}()
		tb.AddNode(trace.Io, trace.IoNode{HostIOValue: v}.Encode())
	}
	if s.Opts.Memory {
		tb.AddNode(trace.Memory, trace.EncodeMemory(s.ram.Snapshot()))
	}
}

// ReadReg/WriteReg expose the integer register file by index (0..31),
// for the GDB stub's 'g'/'G'/'p'/'P' packets.
func (s *System) ReadReg(i int) uint32      { return s.CPU.Int.Read(i) }
func (s *System) WriteReg(i int, v uint32)  { s.CPU.Int.Write(i, v) }
func (s *System) PC() uint32                { return s.CPU.PC }
func (s *System) SetPC(pc uint32)           { s.CPU.PC = pc }

// ReadMem/WriteMem operate on the physical address space directly,
// matching the GDB stub's and the monitor's "poke memory" use case; they
// do not go through the MMU, since a debugger inspecting guest memory is
// not a guest-mode access.
func (s *System) ReadMem(addr uint32, size int) ([]byte, error) {
	out := make([]byte, size)
	for i := 0; i < size; i++ {
		if !s.Bus.IsMapped(addr + uint32(i)) {
			return nil, fmt.Errorf("read from unmapped address %#08x", addr+uint32(i))
		}
		out[i] = s.Bus.Read8(addr + uint32(i))
	}
	return out, nil
}

func (s *System) WriteMem(addr uint32, data []byte) error {
	for i, b := range data {
		if !s.Bus.IsMapped(addr + uint32(i)) {
			return fmt.Errorf("write to unmapped address %#08x", addr+uint32(i))
		}
		s.Bus.Write8(addr+uint32(i), b)
	}
	return nil
}
