/*
 * rv32sim - Command-line configuration
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

// Package config parses rv32sim's command-line surface and an optional
// YAML memory-map override file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"
	"gopkg.in/yaml.v3"
)

// LoadImage is one `--load <path:addr-hex>` entry: a host file mapped
// into guest memory starting at Addr.
type LoadImage struct {
	Path string
	Addr uint32
}

// Config holds every flag the reference front-end accepts.
type Config struct {
	PC          uint32
	RAMSize     uint32
	Loads       []LoadImage
	CycleLimit  uint64
	XLen        int
	HostIOAddr  uint32
	DTBAddr     uint32
	DumpPath    string
	DumpSkip    uint64
	DumpCSR     bool
	DumpMemory  bool
	DumpFPReg   bool
	DumpIntReg  bool
	DumpHostIO  bool
	MapFile     string
	Help        bool

	// GDBPort, when non-empty, starts the GDB remote stub on that TCP
	// port instead of (or alongside) headless execution.
	GDBPort string
	// Interactive drops into the console monitor instead of running
	// straight through to the cycle budget.
	Interactive bool
}

// MemRegion is one entry of an optional YAML memory-map override, keyed
// by device name (rom, clint, plic, uart0, uart1, timer, ram, virtio0 ..
// virtio7).
type MemRegion struct {
	Base uint32 `yaml:"base"`
	Size uint32 `yaml:"size"`
}

// MemoryMap is the full set of overridable region placements.
type MemoryMap map[string]MemRegion

// Default returns the reference memory map described in the platform
// contract: ROM, CLINT, PLIC, the primary UART, eight VirtIO stubs, a
// second UART/timer pair, and RAM.
func Default() MemoryMap {
	m := MemoryMap{
		"rom":   {Base: 0x00001000, Size: 0x1000},
		"clint": {Base: 0x02000000, Size: 0x10000},
		"plic":  {Base: 0x0c000000, Size: 0x4000000},
		"uart0": {Base: 0x10000000, Size: 0x1000},
		"uart1": {Base: 0x40000000, Size: 0x1000},
		"timer": {Base: 0x40002000, Size: 0x1000},
		"ram":   {Base: 0x80000000, Size: 0x4000000},
	}
	for i := 0; i < 8; i++ {
		m[fmt.Sprintf("virtio%d", i)] = MemRegion{Base: uint32(0x10001000 + i*0x1000), Size: 0x1000}
	}
	return m
}

// ParseFlags parses os.Args[1:] into a Config, returning an error for a
// malformed flag value (a LoadImage missing its ":addr" suffix, or a
// hex/decimal number that doesn't parse).
func ParseFlags(args []string) (*Config, error) {
	set := getopt.New()

	pc := set.StringLong("pc", 0, "0x80000000", "Initial PC")
	ramSize := set.StringLong("ram-size", 0, "0x4000000", "RAM size in bytes")
	loads := set.ListLong("load", 0, "Image to load, as path:addr-hex (repeatable)")
	cycle := set.Uint64Long("cycle", 0, 0, "Cycle budget (0 = unlimited)")
	xlen := set.IntLong("xlen", 0, 32, "XLEN (32 or 64)")
	hostIO := set.StringLong("host-io-addr", 0, "0", "Host I/O watch address")
	dtb := set.StringLong("dtb-addr", 0, "0", "Device tree blob address")
	dumpPath := set.StringLong("dump-path", 0, "", "Trace output file")
	dumpSkip := set.Uint64Long("dump-skip-cycle", 0, 0, "Cycles to run before tracing starts")
	dumpCSR := set.BoolLong("enable-dump-csr", 0, "Include a Csr32 node each cycle")
	dumpMem := set.BoolLong("enable-dump-memory", 0, "Include a full Memory snapshot node each cycle")
	dumpFP := set.BoolLong("enable-dump-fp-reg", 0, "Include an FpReg node each cycle")
	dumpInt := set.BoolLong("enable-dump-int-reg", 0, "Include an IntReg32 node each cycle")
	dumpHostIO := set.BoolLong("enable-dump-host-io", 0, "Include an Io node each cycle")
	mapFile := set.StringLong("map", 0, "", "YAML memory-map override file")
	gdbPort := set.StringLong("gdb-port", 0, "", "Start the GDB remote stub on this TCP port")
	interactive := set.BoolLong("interactive", 'i', "Drop into the console monitor")
	help := set.BoolLong("help", 'h', "Show usage")

	if err := set.Getopt(args, nil); err != nil {
		return nil, err
	}
	if *help {
		set.PrintUsage(os.Stderr)
	}

	cfg := &Config{
		CycleLimit: *cycle,
		XLen:       *xlen,
		DumpPath:   *dumpPath,
		DumpSkip:   *dumpSkip,
		DumpCSR:    *dumpCSR,
		DumpMemory: *dumpMem,
		DumpFPReg:  *dumpFP,
		DumpIntReg: *dumpInt,
		DumpHostIO: *dumpHostIO,
		MapFile:     *mapFile,
		Help:        *help,
		GDBPort:     *gdbPort,
		Interactive: *interactive,
	}

	var err error
	if cfg.PC, err = parseUint32(*pc); err != nil {
		return nil, fmt.Errorf("--pc: %w", err)
	}
	if cfg.RAMSize, err = parseUint32(*ramSize); err != nil {
		return nil, fmt.Errorf("--ram-size: %w", err)
	}
	if cfg.HostIOAddr, err = parseUint32(*hostIO); err != nil {
		return nil, fmt.Errorf("--host-io-addr: %w", err)
	}
	if cfg.DTBAddr, err = parseUint32(*dtb); err != nil {
		return nil, fmt.Errorf("--dtb-addr: %w", err)
	}

	for _, l := range *loads {
		img, err := parseLoadImage(l)
		if err != nil {
			return nil, err
		}
		cfg.Loads = append(cfg.Loads, img)
	}

	return cfg, nil
}

func parseLoadImage(spec string) (LoadImage, error) {
	idx := strings.LastIndex(spec, ":")
	if idx < 0 {
		return LoadImage{}, fmt.Errorf("--load %q: expected path:addr-hex", spec)
	}
	addr, err := parseUint32(spec[idx+1:])
	if err != nil {
		return LoadImage{}, fmt.Errorf("--load %q: %w", spec, err)
	}
	return LoadImage{Path: spec[:idx], Addr: addr}, nil
}

func parseUint32(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// LoadMemoryMap reads an optional YAML override file and applies it on
// top of Default(), region by region.
func LoadMemoryMap(path string) (MemoryMap, error) {
	m := Default()
	if path == "" {
		return m, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var overrides MemoryMap
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, err
	}
	for name, region := range overrides {
		m[name] = region
	}
	return m, nil
}
