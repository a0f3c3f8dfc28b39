/*
 * rv32sim - Trace file printer
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

// rv32dump prints a trace file's cycle records in a human-readable form,
// one node at a time, for inspecting what rv32sim or a peer
// implementation actually recorded.
package main

import (
	"fmt"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rv32sim/rv32sim/internal/isa"
	"github.com/rv32sim/rv32sim/internal/trace"
)

func main() {
	path := getopt.StringLong("trace", 't', "", "Trace file to print")
	count := getopt.Uint64Long("count", 'n', 0, "Cycles to print (0 = all)")
	getopt.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: rv32dump --trace <file> [--count N]")
		os.Exit(1)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	records, err := trace.ReadAll(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for i, rec := range records {
		if *count != 0 && uint64(i) >= *count {
			break
		}
		fmt.Printf("Cycle %d {\n", i)
		printRecord(rec)
		fmt.Println("}")
	}
}

func printRecord(rec trace.Record) {
	if body, ok := rec.GetNode(trace.Trap32, 0); ok {
		printTrap32(trace.DecodeTrap32(body))
	}
	if body, ok := rec.GetNode(trace.BasicInfo, 0); ok {
		printBasicInfo(trace.DecodeBasicInfo(body))
	}
	if body, ok := rec.GetNode(trace.Pc32, 0); ok {
		printPc32(trace.DecodePc32(body))
	}
	if body, ok := rec.GetNode(trace.IntReg32, 0); ok {
		printIntReg32(trace.DecodeIntReg32(body))
	}
	if body, ok := rec.GetNode(trace.FpReg, 0); ok {
		printFpReg(trace.DecodeFpReg(body))
	}
	if body, ok := rec.GetNode(trace.Csr32, 0); ok {
		printCsr32(trace.DecodeCsr32(body))
	}
	if body, ok := rec.GetNode(trace.Io, 0); ok {
		fmt.Printf("  Io { hostIOValue: %#08x }\n", trace.DecodeIo(body).HostIOValue)
	}
	for i := 0; ; i++ {
		body, ok := rec.GetNode(trace.MemoryAccess32, i)
		if !ok {
			break
		}
		printMemoryAccess32(trace.DecodeMemoryAccess32(body))
	}
}

func printTrap32(n trace.Trap32Node) {
	kind := "exception"
	if n.Kind == trace.TrapInterrupt {
		kind = "interrupt"
	}
	fmt.Printf("  Trap {\n    kind:  %s\n    from:  %d\n    to:    %d\n    cause: %d\n    tval:  %#08x\n  }\n",
		kind, n.From, n.To, n.Cause, n.TrapValue)
}

func printBasicInfo(n trace.BasicInfoNode) {
	op := isa.Decode(n.Insn)
	fmt.Printf("  Basic {\n    cycle: %#08x\n    opId:  %d\n    insn:  %#08x // code=%d size=%d\n    priv:  %d\n  }\n",
		n.Cycle, n.OpID, n.Insn, op.Code, op.Size, n.PrivilegeLevel)
}

func printPc32(n trace.Pc32Node) {
	fmt.Printf("  Pc32 {\n    virtualPc:  %#08x\n    physicalPc: %#08x\n  }\n", n.VirtualPC, n.PhysicalPC)
}

var intRegNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

func printIntReg32(n trace.IntReg32Node) {
	fmt.Println("  IntReg32: {")
	for i, v := range n.Regs {
		fmt.Printf("    x%-2d: %#08x // %s\n", i, v, intRegNames[i])
	}
	fmt.Println("  }")
}

func printFpReg(n trace.FpRegNode) {
	fmt.Println("  FpReg: {")
	for i, v := range n.Regs {
		fmt.Printf("    f%-2d: %#016x\n", i, v)
	}
	fmt.Println("  }")
}

func printCsr32(entries []trace.Csr32Entry) {
	fmt.Println("  Csr32: {")
	for _, e := range entries {
		fmt.Printf("    %#04x: %#08x\n", e.Address, e.Value)
	}
	fmt.Println("  }")
}

func printMemoryAccess32(n trace.MemoryAccess32Node) {
	kind := "load"
	switch n.AccessType {
	case trace.AccessStore:
		kind = "store"
	case trace.AccessFetch:
		kind = "fetch"
	}
	fmt.Printf("  MemoryAccess32 {\n    vaddr: %#08x\n    paddr: %#08x\n    value: %#08x\n    kind:  %s\n    size:  %d\n  }\n",
		n.Vaddr, n.Paddr, n.Value, kind, n.AccessSize)
}
