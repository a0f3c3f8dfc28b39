/*
 * rv32sim - Trace cycle record reader
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

import (
	"encoding/binary"
	"fmt"
)

// Record is a parsed view over one cycle's raw bytes: the next/prev
// offsets and a meta array ready for linear-scan lookup by GetNode.
type Record struct {
	Next, Prev int64
	raw        []byte
	meta       []metaView
}

type metaView struct {
	kind NodeType
	off  int
	size int
}

// ParseRecord reads the header and meta array out of a cycle's raw bytes.
// It does not copy node bodies; GetNode slices directly into raw.
func ParseRecord(raw []byte) (Record, error) {
	if len(raw) < recordHeaderSize {
		return Record{}, fmt.Errorf("trace: record too short for header (%d bytes)", len(raw))
	}
	next := int64(binary.LittleEndian.Uint64(raw[0:8]))
	prev := int64(binary.LittleEndian.Uint64(raw[8:16]))
	count := int(binary.LittleEndian.Uint32(raw[16:20]))

	metaOff := recordHeaderSize
	if metaOff+count*metaEntrySize > len(raw) {
		return Record{}, fmt.Errorf("trace: meta array overruns record (%d entries)", count)
	}

	meta := make([]metaView, count)
	bodyOff := metaOff + count*metaEntrySize
	for i := 0; i < count; i++ {
		off := metaOff + i*metaEntrySize
		kind := NodeType(binary.LittleEndian.Uint32(raw[off : off+4]))
		size := int(binary.LittleEndian.Uint64(raw[off+8 : off+16]))
		if bodyOff+size > len(raw) {
			return Record{}, fmt.Errorf("trace: node %d body overruns record", kind)
		}
		meta[i] = metaView{kind: kind, off: bodyOff, size: size}
		bodyOff += size
	}

	return Record{Next: next, Prev: prev, raw: raw, meta: meta}, nil
}

// GetNode performs the spec's linear scan of the meta array, returning the
// index-th node of the given type (index 0 is the first occurrence, for
// node kinds that never repeat within a cycle; higher indices select
// successive MemoryAccess nodes when more than one was recorded).
func (r Record) GetNode(kind NodeType, index int) ([]byte, bool) {
	seen := 0
	for _, m := range r.meta {
		if m.kind != kind {
			continue
		}
		if seen == index {
			return r.raw[m.off : m.off+m.size], true
		}
		seen++
	}
	return nil, false
}

// CountNodes reports how many nodes of the given type this record holds.
func (r Record) CountNodes(kind NodeType) int {
	n := 0
	for _, m := range r.meta {
		if m.kind == kind {
			n++
		}
	}
	return n
}
