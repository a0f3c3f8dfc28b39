/*
 * rv32sim - Trace comparison tool
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

// rv32diff compares two execution traces cycle by cycle, reporting the
// first divergences between an expected and an actual run so that two
// independent implementations can be checked against each other.
package main

import (
	"fmt"
	"os"

	getopt "github.com/pborman/getopt/v2"
	"github.com/schollz/progressbar/v3"

	"github.com/rv32sim/rv32sim/internal/trace"
)

func main() {
	expectPath := getopt.StringLong("expect", 'e', "", "Expected trace file")
	actualPath := getopt.StringLong("actual", 'a', "", "Actual trace file")
	count := getopt.IntLong("count", 'c', 1<<30, "Cycles to compare")
	threshold := getopt.IntLong("threshold", 0, 1, "Stop after this many contiguous mismatches")
	checkPhysicalPC := getopt.BoolLong("check-physical-pc", 0, "Also compare physical PC")
	getopt.Parse()

	if *expectPath == "" || *actualPath == "" {
		fmt.Fprintln(os.Stderr, "usage: rv32diff --expect <file> --actual <file> [--count N] [--threshold N] [--check-physical-pc]")
		os.Exit(1)
	}

	expect, err := readTrace(*expectPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	actual, err := readTrace(*actualPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if compareTraces(expect, actual, *count, *threshold, *checkPhysicalPC) {
		os.Exit(0)
	}
	os.Exit(1)
}

func readTrace(path string) ([]trace.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return trace.ReadAll(data)
}

// compareTraces walks expect/actual cycle by cycle the way the reference
// comparator does: on a mismatch it prints a diff and advances only the
// actual stream, looking for expect to resync later, and gives up after
// threshold contiguous mismatches. It returns true if the whole run
// matched clean.
func compareTraces(expect, actual []trace.Record, maxCycles, threshold int, checkPhysicalPC bool) bool {
	continuousUnmatch := 0
	expectIdx, actualIdx := 0, 0
	expectOps, actualOps := 0, 0
	clean := true

	total := len(expect)
	if len(actual) < total {
		total = len(actual)
	}
	if maxCycles < total {
		total = maxCycles
	}
	bar := progressbar.Default(int64(total), "comparing")

	for i := 0; i < maxCycles; i++ {
		if expectIdx >= len(expect) || actualIdx >= len(actual) {
			break
		}
		_ = bar.Add(1)

		e := expect[expectIdx]
		a := actual[actualIdx]

		if recordsMatch(e, a, checkPhysicalPC) {
			continuousUnmatch = 0
			expectIdx++
			actualIdx++
			expectOps++
			actualOps++
			continue
		}

		clean = false
		fmt.Println("Detect mismatched cycle.")
		fmt.Printf("    - expect: cycle %d\n", expectOps)
		fmt.Printf("    - actual: cycle %d\n", actualOps)
		fmt.Println("Proceed actual.")
		printDiff(e, a, checkPhysicalPC)

		continuousUnmatch++
		if continuousUnmatch == threshold {
			fmt.Println("==========================================")
			fmt.Printf("STOP: detected %d contiguous unmatched cycles\n", threshold)
			break
		}

		actualIdx++
		actualOps++
	}

	fmt.Println("Comparison finished.")
	fmt.Printf("    - expect: %d ops.\n", expectOps)
	fmt.Printf("    - actual: %d ops.\n", actualOps)
	return clean
}

func recordsMatch(e, a trace.Record, checkPhysicalPC bool) bool {
	if !pc32Matches(e, a, checkPhysicalPC) {
		return false
	}
	if !intReg32Matches(e, a) {
		return false
	}
	return true
}

func pc32Matches(e, a trace.Record, checkPhysicalPC bool) bool {
	eb, eok := e.GetNode(trace.Pc32, 0)
	ab, aok := a.GetNode(trace.Pc32, 0)
	if !eok || !aok {
		return false
	}
	ePc, aPc := trace.DecodePc32(eb), trace.DecodePc32(ab)
	if ePc.VirtualPC != aPc.VirtualPC {
		return false
	}
	if checkPhysicalPC && ePc.PhysicalPC != aPc.PhysicalPC {
		return false
	}
	return true
}

func intReg32Matches(e, a trace.Record) bool {
	eb, eok := e.GetNode(trace.IntReg32, 0)
	ab, aok := a.GetNode(trace.IntReg32, 0)
	if !eok || !aok {
		return false
	}
	eReg, aReg := trace.DecodeIntReg32(eb), trace.DecodeIntReg32(ab)
	return eReg == aReg
}

func printDiff(e, a trace.Record, checkPhysicalPC bool) {
	eb, eok := e.GetNode(trace.Pc32, 0)
	ab, aok := a.GetNode(trace.Pc32, 0)
	switch {
	case !eok:
		fmt.Println("    - expect has no Pc32 node.")
	case !aok:
		fmt.Println("    - actual has no Pc32 node.")
	default:
		ePc, aPc := trace.DecodePc32(eb), trace.DecodePc32(ab)
		if ePc.VirtualPC != aPc.VirtualPC {
			fmt.Printf("    - virtualPc not matched (expect:%#08x, actual:%#08x)\n", ePc.VirtualPC, aPc.VirtualPC)
		}
		if checkPhysicalPC && ePc.PhysicalPC != aPc.PhysicalPC {
			fmt.Printf("    - physicalPc not matched (expect:%#08x, actual:%#08x)\n", ePc.PhysicalPC, aPc.PhysicalPC)
		}
	}

	eib, eiok := e.GetNode(trace.IntReg32, 0)
	aib, aiok := a.GetNode(trace.IntReg32, 0)
	switch {
	case !eiok:
		fmt.Println("    - expect has no IntReg32 node.")
	case !aiok:
		fmt.Println("    - actual has no IntReg32 node.")
	default:
		eReg, aReg := trace.DecodeIntReg32(eib), trace.DecodeIntReg32(aib)
		for i := range eReg.Regs {
			if eReg.Regs[i] != aReg.Regs[i] {
				fmt.Printf("    - x%d not matched (expect:%#08x, actual:%#08x)\n", i, eReg.Regs[i], aReg.Regs[i])
			}
		}
	}
}
