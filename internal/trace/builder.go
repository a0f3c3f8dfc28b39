/*
 * rv32sim - Trace cycle record builder
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

package trace

import "encoding/binary"

// recordHeaderSize is (next int64, prev int64, metaCount uint32, reserved [4]byte).
const recordHeaderSize = 8 + 8 + 4 + 4

// metaEntrySize is (nodeType uint32, reserved [4]byte, size uint64).
const metaEntrySize = 4 + 4 + 8

// Config holds the sizes of the two variable-length node kinds for a
// run: CsrCount CSRs snapshot each cycle (Csr32), and a full RAMSize RAM
// image on cycles that opt into a Memory node. NewBuilder does not take a
// Config, and Builder does not check node sizes against one.
type Config struct {
	CsrCount int
	RAMSize  int
}

// Builder assembles one cycle record at a time. Unlike a config-sized
// preallocated buffer, it appends nodes as the caller supplies them and
// fixes up the meta array and header at Finish; the wire format produced
// is identical either way, since the meta array always records each
// node's true size.
type Builder struct {
	nodes []builderNode
}

type builderNode struct {
	kind NodeType
	body []byte
}

func NewBuilder() *Builder { return &Builder{} }

// AddNode appends one node of the given type. Call order matches node
// emission order within a cycle: at most one Trap node, then zero or
// more MemoryAccess nodes in program order, then the terminal op/state
// nodes (BasicInfo, Pc, IntReg, Csr, FpReg, Io, Memory).
func (b *Builder) AddNode(kind NodeType, body []byte) {
	b.nodes = append(b.nodes, builderNode{kind: kind, body: body})
}

// Finish lays out the complete cycle record: header, meta array, then
// node bodies in AddNode order. next and prev are byte offsets relative
// to this record's own header address, as required by the file-level
// framing; the caller (the file Writer) fills them in once it knows
// where the record will land.
func (b *Builder) Finish(next, prev int64) []byte {
	metaSize := metaEntrySize * len(b.nodes)
	bodySize := 0
	for _, n := range b.nodes {
		bodySize += len(n.body)
	}
	total := recordHeaderSize + metaSize + bodySize
	buf := make([]byte, total)

	binary.LittleEndian.PutUint64(buf[0:8], uint64(next))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(prev))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(b.nodes)))

	metaOff := recordHeaderSize
	bodyOff := recordHeaderSize + metaSize
	for _, n := range b.nodes {
		binary.LittleEndian.PutUint32(buf[metaOff:metaOff+4], uint32(n.kind))
		binary.LittleEndian.PutUint64(buf[metaOff+8:metaOff+16], uint64(len(n.body)))
		metaOff += metaEntrySize

		copy(buf[bodyOff:bodyOff+len(n.body)], n.body)
		bodyOff += len(n.body)
	}
	return buf
}
