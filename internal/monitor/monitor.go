/*
 * rv32sim - Interactive monitor
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

// Package monitor implements rv32sim's interactive console: a liner-backed
// prompt accepting prefix-matched commands to step, run, and inspect
// registers and memory.
package monitor

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/rv32sim/rv32sim/internal/system"
)

type cmd struct {
	name    string
	min     int
	process func(args []string, sys *system.System) (quit bool, err error)
}

var cmdList = []cmd{
	{name: "step", min: 1, process: doStep},
	{name: "run", min: 2, process: doRun},
	{name: "registers", min: 3, process: doRegisters},
	{name: "pc", min: 2, process: doPC},
	{name: "mem", min: 3, process: doMem},
	{name: "quit", min: 1, process: doQuit},
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var matches []cmd
	for _, c := range cmdList {
		if len(name) < c.min {
			continue
		}
		if strings.HasPrefix(c.name, name) {
			matches = append(matches, c)
		}
	}
	return matches
}

func completeNames(line string) []string {
	var out []string
	for _, c := range cmdList {
		if strings.HasPrefix(c.name, line) {
			out = append(out, c.name)
		}
	}
	return out
}

// ProcessCommand parses and executes one command line against sys.
func ProcessCommand(commandLine string, sys *system.System) (quit bool, err error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := fields[0], fields[1:]

	matches := matchList(name)
	switch len(matches) {
	case 0:
		return false, errors.New("command not found: " + name)
	case 1:
		return matches[0].process(args, sys)
	default:
		return false, errors.New("ambiguous command: " + name)
	}
}

// Run drives the console read-eval-print loop until the user quits or
// aborts the prompt (Ctrl-D).
func Run(sys *system.System) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("warning: stdin is not a terminal, line editing disabled")
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(l string) []string { return completeNames(l) })

	for {
		command, err := line.Prompt("rv32sim> ")
		if err == nil {
			line.AppendHistory(command)
			quit, perr := ProcessCommand(command, sys)
			if perr != nil {
				fmt.Println("Error: " + perr.Error())
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		fmt.Println("error reading line: " + err.Error())
		return
	}
}

func doStep(args []string, sys *system.System) (bool, error) {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return false, err
		}
		n = v
	}
	for i := 0; i < n; i++ {
		res, err := sys.Step(nil)
		if err != nil {
			return false, err
		}
		if res.Trapped {
			fmt.Printf("trap: cause=%d pc=%#08x\n", res.Cause, res.PC)
		}
	}
	fmt.Printf("pc=%#08x\n", sys.PC())
	return false, nil
}

func doRun(args []string, sys *system.System) (bool, error) {
	limit := uint64(0)
	if len(args) > 0 {
		v, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return false, err
		}
		limit = v
	}
	var count uint64
	for limit == 0 || count < limit {
		_, err := sys.Step(nil)
		if err != nil {
			return false, err
		}
		count++
	}
	fmt.Printf("ran %d cycles, pc=%#08x\n", count, sys.PC())
	return false, nil
}

// registerColumns picks how many "xNN=0x........" fields fit across the
// attached terminal, falling back to four when stdout isn't a terminal
// (piped output, redirected logs).
func registerColumns() int {
	const fieldWidth = 14
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < fieldWidth {
		return 4
	}
	cols := width / fieldWidth
	if cols < 1 {
		return 1
	}
	return cols
}

func doRegisters(args []string, sys *system.System) (bool, error) {
	cols := registerColumns()
	for i := 0; i < 32; i++ {
		fmt.Printf("x%-2d=%#010x  ", i, sys.ReadReg(i))
		if i%cols == cols-1 {
			fmt.Println()
		}
	}
	if 32%cols != 0 {
		fmt.Println()
	}
	fmt.Printf("pc =%#010x\n", sys.PC())
	return false, nil
}

func doPC(args []string, sys *system.System) (bool, error) {
	if len(args) == 0 {
		fmt.Printf("pc=%#08x\n", sys.PC())
		return false, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 32)
	if err != nil {
		return false, err
	}
	sys.SetPC(uint32(v))
	return false, nil
}

func doMem(args []string, sys *system.System) (bool, error) {
	if len(args) < 2 {
		return false, errors.New("usage: mem <addr-hex> <len>")
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 32)
	if err != nil {
		return false, err
	}
	length, err := strconv.Atoi(args[1])
	if err != nil {
		return false, err
	}
	data, err := sys.ReadMem(uint32(addr), length)
	if err != nil {
		return false, err
	}
	for i, b := range data {
		if i%16 == 0 {
			fmt.Printf("%#08x: ", uint32(addr)+uint32(i))
		}
		fmt.Printf("%02x ", b)
		if i%16 == 15 {
			fmt.Println()
		}
	}
	fmt.Println()
	return false, nil
}

func doQuit(args []string, sys *system.System) (bool, error) {
	return true, nil
}
