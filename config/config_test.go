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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.PC != 0x80000000 {
		t.Fatalf("PC = %#x, want 0x80000000", cfg.PC)
	}
	if cfg.RAMSize != 0x4000000 {
		t.Fatalf("RAMSize = %#x, want 0x4000000", cfg.RAMSize)
	}
	if cfg.XLen != 32 {
		t.Fatalf("XLen = %d, want 32", cfg.XLen)
	}
	if cfg.CycleLimit != 0 {
		t.Fatalf("CycleLimit = %d, want 0", cfg.CycleLimit)
	}
	if cfg.GDBPort != "" {
		t.Fatalf("GDBPort = %q, want empty", cfg.GDBPort)
	}
}

func TestParseFlagsOverrides(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"--pc", "0x1000",
		"--ram-size", "4096",
		"--cycle", "100",
		"--load", "foo.bin:0x2000",
		"--gdb-port", "1234",
		"-i",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.PC != 0x1000 {
		t.Fatalf("PC = %#x, want 0x1000", cfg.PC)
	}
	if cfg.RAMSize != 4096 {
		t.Fatalf("RAMSize = %d, want 4096", cfg.RAMSize)
	}
	if cfg.CycleLimit != 100 {
		t.Fatalf("CycleLimit = %d, want 100", cfg.CycleLimit)
	}
	if len(cfg.Loads) != 1 || cfg.Loads[0].Path != "foo.bin" || cfg.Loads[0].Addr != 0x2000 {
		t.Fatalf("Loads = %+v, want one foo.bin@0x2000", cfg.Loads)
	}
	if cfg.GDBPort != "1234" {
		t.Fatalf("GDBPort = %q, want 1234", cfg.GDBPort)
	}
	if !cfg.Interactive {
		t.Fatalf("Interactive = false, want true")
	}
}

func TestParseFlagsRejectsMalformedLoad(t *testing.T) {
	if _, err := ParseFlags([]string{"--load", "noaddr"}); err == nil {
		t.Fatalf("expected an error for --load missing :addr")
	}
}

func TestParseFlagsRejectsBadNumber(t *testing.T) {
	if _, err := ParseFlags([]string{"--pc", "not-a-number"}); err == nil {
		t.Fatalf("expected an error for a malformed --pc value")
	}
}

func TestParseUint32HexAndDecimal(t *testing.T) {
	v, err := parseUint32("0x1000")
	if err != nil || v != 0x1000 {
		t.Fatalf("parseUint32(0x1000) = (%d, %v), want (4096, nil)", v, err)
	}
	v, err = parseUint32("4096")
	if err != nil || v != 4096 {
		t.Fatalf("parseUint32(4096) = (%d, %v), want (4096, nil)", v, err)
	}
}

func TestParseLoadImage(t *testing.T) {
	img, err := parseLoadImage("/tmp/a.bin:0xabc")
	if err != nil {
		t.Fatalf("parseLoadImage: %v", err)
	}
	if img.Path != "/tmp/a.bin" || img.Addr != 0xabc {
		t.Fatalf("img = %+v, want {/tmp/a.bin 0xabc}", img)
	}
}

func TestDefaultMemoryMapHasEightVirtioStubs(t *testing.T) {
	m := Default()
	for i := 0; i < 8; i++ {
		name := "virtio" + string(rune('0'+i))
		if _, ok := m[name]; !ok {
			t.Fatalf("Default() missing %s", name)
		}
	}
	if m["ram"].Base != 0x80000000 {
		t.Fatalf("ram base = %#x, want 0x80000000", m["ram"].Base)
	}
}

func TestLoadMemoryMapAppliesOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.yaml")
	data := []byte("ram:\n  base: 0x90000000\n  size: 0x1000\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := LoadMemoryMap(path)
	if err != nil {
		t.Fatalf("LoadMemoryMap: %v", err)
	}
	if m["ram"].Base != 0x90000000 || m["ram"].Size != 0x1000 {
		t.Fatalf("ram = %+v, want {0x90000000 0x1000}", m["ram"])
	}
	if m["rom"].Base != Default()["rom"].Base {
		t.Fatalf("rom region should be untouched by a partial override")
	}
}

func TestLoadMemoryMapNoPathReturnsDefault(t *testing.T) {
	m, err := LoadMemoryMap("")
	if err != nil {
		t.Fatalf("LoadMemoryMap: %v", err)
	}
	if len(m) != len(Default()) {
		t.Fatalf("expected the default map when no override path is given")
	}
}
