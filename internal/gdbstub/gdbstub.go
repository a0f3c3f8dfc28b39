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

// Package gdbstub implements the minimal subset of the GDB remote serial
// protocol needed to single-step or free-run rv32sim under gdb: register
// and memory access, software breakpoints planted as ebreak, and the
// stop-reply packets gdb expects in response.
package gdbstub

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rv32sim/rv32sim/internal/system"
)

// Server accepts one gdb TCP connection at a time, in the teacher's
// listener shape: a dedicated accept loop feeding a handler goroutine,
// torn down cleanly by Stop.
type Server struct {
	sys      *system.System
	listener net.Listener
	shutdown chan struct{}
	wg       sync.WaitGroup

	mu    sync.Mutex
	bps   map[uint32]uint32 // addr -> saved original word (ebreak encoding 0x00100073 or 0x9002)
	bp16  map[uint32]bool   // addr set records whether the saved breakpoint was a compressed insn
}

// Start listens on the given TCP port (e.g. "1234") and serves gdb
// remote protocol connections against sys until Stop is called.
func Start(sys *system.System, port string) (*Server, error) {
	l, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("gdbstub: listen on %s: %w", port, err)
	}
	s := &Server{
		sys:      sys,
		listener: l,
		shutdown: make(chan struct{}),
		bps:      make(map[uint32]uint32),
		bp16:     make(map[uint32]bool),
	}
	s.wg.Add(1)
	go s.acceptLoop()
	slog.Info("gdbstub listening", "port", port)
	return s, nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				continue
			}
		}
		s.handleClient(conn)
	}
}

// Stop closes the listener and waits for the accept loop to exit.
func (s *Server) Stop() {
	close(s.shutdown)
	s.listener.Close()
	s.wg.Wait()
}

func checksum(data string) uint8 {
	var sum uint8
	for i := 0; i < len(data); i++ {
		sum += data[i]
	}
	return sum
}

func frame(data string) string {
	return fmt.Sprintf("$%s#%02x", data, checksum(data))
}

func (s *Server) handleClient(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)

	for {
		pkt, err := readPacket(r)
		if err != nil {
			return
		}
		if pkt == "" {
			continue
		}
		if _, err := conn.Write([]byte("+")); err != nil {
			return
		}
		reply := s.dispatch(pkt)
		if reply == "" {
			continue
		}
		if _, err := conn.Write([]byte(frame(reply))); err != nil {
			return
		}
	}
}

// readPacket consumes ack/nak bytes and a single $...#cc frame, returning
// its payload with the checksum stripped and verified.
func readPacket(r *bufio.Reader) (string, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		switch b {
		case '+', '-':
			continue
		case 0x03: // Ctrl-C: treat as an empty "stop" notification
			return "", nil
		case '$':
			var sb strings.Builder
			for {
				c, err := r.ReadByte()
				if err != nil {
					return "", err
				}
				if c == '#' {
					var cksum [2]byte
					if _, err := r.Read(cksum[:]); err != nil {
						return "", err
					}
					return sb.String(), nil
				}
				sb.WriteByte(c)
			}
		default:
			continue
		}
	}
}

func (s *Server) dispatch(pkt string) string {
	switch {
	case pkt == "?":
		return "S05"
	case pkt == "g":
		return s.readAllRegs()
	case strings.HasPrefix(pkt, "G"):
		return s.writeAllRegs(pkt[1:])
	case strings.HasPrefix(pkt, "m"):
		return s.readMem(pkt[1:])
	case strings.HasPrefix(pkt, "M"):
		return s.writeMem(pkt[1:])
	case strings.HasPrefix(pkt, "p"):
		return s.readOneReg(pkt[1:])
	case strings.HasPrefix(pkt, "P"):
		return s.writeOneReg(pkt[1:])
	case strings.HasPrefix(pkt, "Z0,"):
		return s.setBreakpoint(pkt[3:])
	case strings.HasPrefix(pkt, "z0,"):
		return s.clearBreakpoint(pkt[3:])
	case pkt == "s":
		return s.doStep()
	case pkt == "c":
		return s.doContinue()
	case strings.HasPrefix(pkt, "H"):
		return "OK"
	case pkt == "qC":
		return "QC1"
	case pkt == "qAttached":
		return "1"
	case pkt == "qfThreadInfo":
		return "m1"
	case pkt == "qsThreadInfo":
		return "l"
	case pkt == "qSupported" || strings.HasPrefix(pkt, "qSupported:"):
		return "PacketSize=4000"
	case pkt == "vCont?":
		return ""
	case pkt == "k":
		return ""
	default:
		return ""
	}
}

// readAllRegs replies with x0..x31 followed by pc, each little-endian
// 32-bit, matching the RV32 'g' register order gdb's riscv target uses.
func (s *Server) readAllRegs() string {
	var sb strings.Builder
	for i := 0; i < 32; i++ {
		sb.WriteString(le32hex(s.sys.ReadReg(i)))
	}
	sb.WriteString(le32hex(s.sys.PC()))
	return sb.String()
}

func (s *Server) writeAllRegs(hexData string) string {
	if len(hexData) < 33*8 {
		return "E01"
	}
	for i := 0; i < 32; i++ {
		v, err := parseLE32(hexData[i*8 : i*8+8])
		if err != nil {
			return "E01"
		}
		s.sys.WriteReg(i, v)
	}
	pc, err := parseLE32(hexData[32*8 : 33*8])
	if err != nil {
		return "E01"
	}
	s.sys.SetPC(pc)
	return "OK"
}

func (s *Server) readOneReg(arg string) string {
	n, err := strconv.ParseInt(arg, 16, 64)
	if err != nil {
		return "E01"
	}
	if n == 32 {
		return le32hex(s.sys.PC())
	}
	if n < 0 || n > 31 {
		return "E01"
	}
	return le32hex(s.sys.ReadReg(int(n)))
}

func (s *Server) writeOneReg(arg string) string {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 {
		return "E01"
	}
	n, err := strconv.ParseInt(parts[0], 16, 64)
	if err != nil {
		return "E01"
	}
	v, err := parseLE32(parts[1])
	if err != nil {
		return "E01"
	}
	if n == 32 {
		s.sys.SetPC(v)
		return "OK"
	}
	if n < 0 || n > 31 {
		return "E01"
	}
	s.sys.WriteReg(int(n), v)
	return "OK"
}

func (s *Server) readMem(arg string) string {
	addr, length, err := parseAddrLen(arg)
	if err != nil {
		return "E01"
	}
	data, err := s.sys.ReadMem(addr, length)
	if err != nil {
		return "E01"
	}
	var sb strings.Builder
	for _, b := range data {
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}

func (s *Server) writeMem(arg string) string {
	head, hexData, ok := strings.Cut(arg, ":")
	if !ok {
		return "E01"
	}
	addr, length, err := parseAddrLen(head)
	if err != nil {
		return "E01"
	}
	data, err := decodeHex(hexData)
	if err != nil || len(data) != length {
		return "E01"
	}
	if err := s.sys.WriteMem(addr, data); err != nil {
		return "E01"
	}
	return "OK"
}

func parseAddrLen(arg string) (addr uint32, length int, err error) {
	head, lengthStr, ok := strings.Cut(arg, ",")
	if !ok {
		return 0, 0, fmt.Errorf("malformed addr,len")
	}
	a, err := strconv.ParseUint(head, 16, 32)
	if err != nil {
		return 0, 0, err
	}
	l, err := strconv.ParseUint(lengthStr, 16, 32)
	if err != nil {
		return 0, 0, err
	}
	return uint32(a), int(l), nil
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd length hex")
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

func le32hex(v uint32) string {
	return fmt.Sprintf("%02x%02x%02x%02x", v&0xff, (v>>8)&0xff, (v>>16)&0xff, (v>>24)&0xff)
}

func parseLE32(hex string) (uint32, error) {
	b, err := decodeHex(hex)
	if err != nil || len(b) != 4 {
		return 0, fmt.Errorf("bad 32-bit hex value")
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// ebreak32 and cebreak16 are the instruction words Z0/z0 plant and later
// restore, chosen by the Z0 packet's kind field rather than the address's
// alignment: kind 2 plants the 16-bit c.ebreak, any other kind the 32-bit
// ebreak, and z0 restores exactly the width that Z0 saved.
const (
	ebreak32  uint32 = 0x00100073
	cebreak16 uint32 = 0x9002
)

func (s *Server) setBreakpoint(arg string) string {
	parts := strings.Split(arg, ",")
	if len(parts) < 2 {
		return "E01"
	}
	addr, err := strconv.ParseUint(parts[0], 16, 32)
	if err != nil {
		return "E01"
	}
	kindVal, _ := strconv.ParseUint(parts[1], 16, 32)
	compressed := kindVal == 2

	s.mu.Lock()
	defer s.mu.Unlock()

	a := uint32(addr)
	if _, exists := s.bps[a]; exists {
		return "OK"
	}

	size := 4
	if compressed {
		size = 2
	}
	orig, err := s.sys.ReadMem(a, size)
	if err != nil {
		return "E01"
	}
	var origWord uint32
	if size == 2 {
		origWord = uint32(orig[0]) | uint32(orig[1])<<8
	} else {
		origWord = uint32(orig[0]) | uint32(orig[1])<<8 | uint32(orig[2])<<16 | uint32(orig[3])<<24
	}
	s.bps[a] = origWord
	s.bp16[a] = compressed

	var patch []byte
	if compressed {
		patch = []byte{byte(cebreak16), byte(cebreak16 >> 8)}
	} else {
		patch = []byte{byte(ebreak32), byte(ebreak32 >> 8), byte(ebreak32 >> 16), byte(ebreak32 >> 24)}
	}
	if err := s.sys.WriteMem(a, patch); err != nil {
		return "E01"
	}
	return "OK"
}

func (s *Server) clearBreakpoint(arg string) string {
	parts := strings.Split(arg, ",")
	if len(parts) < 1 {
		return "E01"
	}
	addr, err := strconv.ParseUint(parts[0], 16, 32)
	if err != nil {
		return "E01"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := uint32(addr)
	orig, ok := s.bps[a]
	if !ok {
		return "OK"
	}
	compressed := s.bp16[a]
	delete(s.bps, a)
	delete(s.bp16, a)

	var patch []byte
	if compressed {
		patch = []byte{byte(orig), byte(orig >> 8)}
	} else {
		patch = []byte{byte(orig), byte(orig >> 8), byte(orig >> 16), byte(orig >> 24)}
	}
	if err := s.sys.WriteMem(a, patch); err != nil {
		return "E01"
	}
	return "OK"
}

func (s *Server) breakpointAddrs() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	addrs := make([]uint32, 0, len(s.bps))
	for a := range s.bps {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

func (s *Server) doStep() string {
	if _, err := s.sys.Step(nil); err != nil {
		return "E01"
	}
	return "S05"
}

// doContinue steps until a planted breakpoint's address is reached or an
// emulator fault occurs. It has no cycle budget of its own: the driver's
// --cycle limit is enforced by whatever loop owns the System outside of
// a gdb session; this subset assumes the debuggee is not also running
// under a competing cycle cap.
func (s *Server) doContinue() string {
	for {
		res, err := s.sys.Step(nil)
		if err != nil {
			return "E01"
		}
		for _, bp := range s.breakpointAddrs() {
			if res.NextPC == bp {
				return "S05"
			}
		}
	}
}
