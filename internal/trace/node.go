/*
 * rv32sim - Trace node type tags and body layouts
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

// Package trace implements the self-describing binary execution-trace
// codec: a tagged sequence of node records per retired (or trapped) cycle,
// laid out so that two independent simulators running the same program
// produce byte-identical trace files.
package trace

import "encoding/binary"

// NodeType tags a node body within a cycle record's meta array.
type NodeType uint32

const (
	BasicInfo      NodeType = 1
	Pc32           NodeType = 2
	Pc64           NodeType = 3
	IntReg32       NodeType = 4
	IntReg64       NodeType = 5
	Csr32          NodeType = 6
	Csr64          NodeType = 7
	Trap32         NodeType = 8
	Trap64         NodeType = 9
	MemoryAccess32 NodeType = 10
	MemoryAccess64 NodeType = 11
	Io             NodeType = 12
	Memory         NodeType = 13
	FpReg          NodeType = 14
)

// Fixed body sizes, in bytes, for every node type that isn't variable-length.
const (
	SizeBasicInfo      = 16
	SizePc32           = 8
	SizePc64           = 16
	SizeIntReg32       = 128
	SizeIntReg64       = 256
	SizeTrap32         = 20
	SizeTrap64         = 24
	SizeMemoryAccess32 = 20
	SizeMemoryAccess64 = 32
	SizeIo             = 8
	SizeFpReg          = 256
	SizeCsr32Entry     = 8 // address:u32, value:u32
)

// AccessKind distinguishes the direction of a recorded memory access.
type AccessKind uint8

const (
	AccessLoad AccessKind = iota
	AccessStore
	AccessFetch
)

// TrapKind distinguishes an exception from an interrupt in a Trap node.
type TrapKind uint8

const (
	TrapException TrapKind = iota
	TrapInterrupt
)

// BasicInfoNode identifies the cycle, the retiring opcode's internal id,
// the raw instruction word and the privilege level it executed at.
type BasicInfoNode struct {
	Cycle          uint32
	OpID           uint32
	Insn           uint32
	PrivilegeLevel uint8
}

func (n BasicInfoNode) Encode() []byte {
	b := make([]byte, SizeBasicInfo)
	binary.LittleEndian.PutUint32(b[0:4], n.Cycle)
	binary.LittleEndian.PutUint32(b[4:8], n.OpID)
	binary.LittleEndian.PutUint32(b[8:12], n.Insn)
	b[12] = n.PrivilegeLevel
	return b
}

func DecodeBasicInfo(b []byte) BasicInfoNode {
	return BasicInfoNode{
		Cycle:          binary.LittleEndian.Uint32(b[0:4]),
		OpID:           binary.LittleEndian.Uint32(b[4:8]),
		Insn:           binary.LittleEndian.Uint32(b[8:12]),
		PrivilegeLevel: b[12],
	}
}

// Pc32Node carries the virtual and physical fetch address for XLEN=32.
type Pc32Node struct {
	VirtualPC  uint32
	PhysicalPC uint32
}

func (n Pc32Node) Encode() []byte {
	b := make([]byte, SizePc32)
	binary.LittleEndian.PutUint32(b[0:4], n.VirtualPC)
	binary.LittleEndian.PutUint32(b[4:8], n.PhysicalPC)
	return b
}

func DecodePc32(b []byte) Pc32Node {
	return Pc32Node{
		VirtualPC:  binary.LittleEndian.Uint32(b[0:4]),
		PhysicalPC: binary.LittleEndian.Uint32(b[4:8]),
	}
}

// IntReg32Node is a full snapshot of the 32 integer registers.
type IntReg32Node struct {
	Regs [32]uint32
}

func (n IntReg32Node) Encode() []byte {
	b := make([]byte, SizeIntReg32)
	for i, v := range n.Regs {
		binary.LittleEndian.PutUint32(b[i*4:i*4+4], v)
	}
	return b
}

func DecodeIntReg32(b []byte) IntReg32Node {
	var n IntReg32Node
	for i := range n.Regs {
		n.Regs[i] = binary.LittleEndian.Uint32(b[i*4 : i*4+4])
	}
	return n
}

// FpRegNode is a full snapshot of the 32 NaN-boxed floating-point registers.
type FpRegNode struct {
	Regs [32]uint64
}

func (n FpRegNode) Encode() []byte {
	b := make([]byte, SizeFpReg)
	for i, v := range n.Regs {
		binary.LittleEndian.PutUint64(b[i*8:i*8+8], v)
	}
	return b
}

func DecodeFpReg(b []byte) FpRegNode {
	var n FpRegNode
	for i := range n.Regs {
		n.Regs[i] = binary.LittleEndian.Uint64(b[i*8 : i*8+8])
	}
	return n
}

// Trap32Node records one trap's disposition for XLEN=32.
type Trap32Node struct {
	Kind      TrapKind
	From      uint8
	To        uint8
	Cause     uint8
	TrapValue uint32
}

func (n Trap32Node) Encode() []byte {
	b := make([]byte, SizeTrap32)
	b[0] = uint8(n.Kind)
	b[1] = n.From
	b[2] = n.To
	b[3] = n.Cause
	binary.LittleEndian.PutUint32(b[4:8], n.TrapValue)
	return b
}

func DecodeTrap32(b []byte) Trap32Node {
	return Trap32Node{
		Kind:      TrapKind(b[0]),
		From:      b[1],
		To:        b[2],
		Cause:     b[3],
		TrapValue: binary.LittleEndian.Uint32(b[4:8]),
	}
}

// MemoryAccess32Node records one load/store/fetch event.
type MemoryAccess32Node struct {
	Vaddr      uint32
	Paddr      uint32
	Value      uint32
	AccessType AccessKind
	AccessSize uint8
}

func (n MemoryAccess32Node) Encode() []byte {
	b := make([]byte, SizeMemoryAccess32)
	binary.LittleEndian.PutUint32(b[0:4], n.Vaddr)
	binary.LittleEndian.PutUint32(b[4:8], n.Paddr)
	binary.LittleEndian.PutUint32(b[8:12], n.Value)
	b[12] = uint8(n.AccessType)
	b[13] = n.AccessSize
	return b
}

func DecodeMemoryAccess32(b []byte) MemoryAccess32Node {
	return MemoryAccess32Node{
		Vaddr:      binary.LittleEndian.Uint32(b[0:4]),
		Paddr:      binary.LittleEndian.Uint32(b[4:8]),
		Value:      binary.LittleEndian.Uint32(b[8:12]),
		AccessType: AccessKind(b[12]),
		AccessSize: b[13],
	}
}

// IoNode records the host-I/O watch address's value at the end of a cycle.
type IoNode struct {
	HostIOValue uint32
}

func (n IoNode) Encode() []byte {
	b := make([]byte, SizeIo)
	binary.LittleEndian.PutUint32(b[0:4], n.HostIOValue)
	return b
}

func DecodeIo(b []byte) IoNode {
	return IoNode{HostIOValue: binary.LittleEndian.Uint32(b[0:4])}
}

// Csr32Entry is one (address, value) pair within a Csr32 node.
type Csr32Entry struct {
	Address uint32
	Value   uint32
}

// EncodeCsr32 packs a sequence of CSR snapshots into one variable-length node.
func EncodeCsr32(entries []Csr32Entry) []byte {
	b := make([]byte, len(entries)*SizeCsr32Entry)
	for i, e := range entries {
		off := i * SizeCsr32Entry
		binary.LittleEndian.PutUint32(b[off:off+4], e.Address)
		binary.LittleEndian.PutUint32(b[off+4:off+8], e.Value)
	}
	return b
}

func DecodeCsr32(b []byte) []Csr32Entry {
	n := len(b) / SizeCsr32Entry
	entries := make([]Csr32Entry, n)
	for i := range entries {
		off := i * SizeCsr32Entry
		entries[i] = Csr32Entry{
			Address: binary.LittleEndian.Uint32(b[off : off+4]),
			Value:   binary.LittleEndian.Uint32(b[off+4 : off+8]),
		}
	}
	return entries
}

// EncodeMemory wraps a raw RAM snapshot verbatim; the node body is the
// snapshot bytes themselves.
func EncodeMemory(snapshot []byte) []byte { return snapshot }
