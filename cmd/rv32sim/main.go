/*
 * rv32sim - Main process.
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

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/rv32sim/rv32sim/config"
	"github.com/rv32sim/rv32sim/internal/gdbstub"
	"github.com/rv32sim/rv32sim/internal/logutil"
	"github.com/rv32sim/rv32sim/internal/monitor"
	"github.com/rv32sim/rv32sim/internal/system"
	"github.com/rv32sim/rv32sim/internal/trace"
)

var Logger *slog.Logger

func main() {
	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	if cfg.Help {
		os.Exit(0)
	}

	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	Logger = slog.New(logutil.NewHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel}, false))
	slog.SetDefault(Logger)

	mm, err := config.LoadMemoryMap(cfg.MapFile)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	sys, err := system.New(cfg, mm, os.Stdout)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	var fw *trace.FileWriter
	var dumpFile *os.File
	if cfg.DumpPath != "" {
		fw = trace.NewFileWriter()
		dumpFile, err = os.Create(cfg.DumpPath)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		defer dumpFile.Close()
	}

	if cfg.GDBPort != "" {
		gdb, err := gdbstub.Start(sys, cfg.GDBPort)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		defer gdb.Stop()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if !cfg.Interactive && cfg.GDBPort == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		restore := startConsolePassthrough(sys)
		defer restore()
	}

	if cfg.Interactive {
		monitor.Run(sys)
	} else {
		runHeadless(sys, cfg, fw, sigChan)
	}

	if fw != nil && dumpFile != nil {
		if err := fw.WriteTo(dumpFile); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}
}

// startConsolePassthrough puts stdin into raw mode and forwards every
// byte the host types straight into the guest UART's receive FIFO, so an
// interactive session typed at the console reaches the simulated serial
// port unbuffered instead of waiting for a newline. It returns a restore
// function that undoes the raw-mode switch; callers must run it before
// the process exits.
func startConsolePassthrough(sys *system.System) func() {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return func() {}
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n > 0 {
				sys.Uart0.Push(buf[0])
			}
		}
	}()

	return func() { _ = term.Restore(fd, oldState) }
}

func runHeadless(sys *system.System, cfg *config.Config, fw *trace.FileWriter, sigChan chan os.Signal) {
	var cycles uint64
	for cfg.CycleLimit == 0 || cycles < cfg.CycleLimit {
		select {
		case <-sigChan:
			Logger.Info("received interrupt, stopping")
			return
		default:
		}

		tb := trace.NewBuilder()
		res, err := sys.Step(tb)
		if err != nil {
			Logger.Error(err.Error(), "cycle", cycles, "pc", res.PC)
			os.Exit(1)
		}
		if fw != nil {
			fw.AddRecord(tb.Finish(0, 0))
		}
		cycles++
	}
}
