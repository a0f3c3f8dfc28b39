/*
 * rv32sim - Trace file framing
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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Signature is the 8-byte magic that opens every trace file.
var Signature = [8]byte{'R', 'V', 'T', 'R', 'A', 'C', 'E', 0}

// fileHeaderSize is the on-disk int64 following the signature. It is
// currently always 16 (signature + the int64 itself), stored so a reader
// never has to hardcode the prologue length.
const fileHeaderSize = 16

// FileWriter accumulates complete cycle records in memory and lays out
// their next/prev chain in one pass at WriteTo, so every offset is known
// before any record bytes hit the wire. This mirrors how rv32sim and
// rv32diff both drive a trace: a run completes (or is truncated at a
// fixed cycle budget) before the trace is ever serialized.
type FileWriter struct {
	records [][]byte
}

func NewFileWriter() *FileWriter { return &FileWriter{} }

// AddRecord appends one complete cycle record produced by Builder.Finish.
// The next/prev fields inside it are placeholders; WriteTo recomputes them.
func (f *FileWriter) AddRecord(record []byte) {
	f.records = append(f.records, record)
}

// WriteTo serializes the signature, header-size prologue, and every
// buffered record with correct next/prev offsets relative to each
// record's own header address, per the file chaining rule.
func (f *FileWriter) WriteTo(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(Signature[:]); err != nil {
		return err
	}
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(fileHeaderSize))
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}

	offsets := make([]int64, len(f.records))
	offset := int64(len(Signature)) + 8
	for i, r := range f.records {
		offsets[i] = offset
		offset += int64(len(r))
	}

	for i, r := range f.records {
		rec := make([]byte, len(r))
		copy(rec, r)

		var next, prev int64
		if i+1 < len(f.records) {
			next = offsets[i+1] - offsets[i]
		}
		if i > 0 {
			prev = offsets[i-1] - offsets[i]
		}
		binary.LittleEndian.PutUint64(rec[0:8], uint64(next))
		binary.LittleEndian.PutUint64(rec[8:16], uint64(prev))

		if _, err := bw.Write(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadAll parses a whole trace file read fully into memory, walking the
// next-chain from the first record and returning each parsed Record in
// file order. It validates the signature and header size up front.
func ReadAll(data []byte) ([]Record, error) {
	if len(data) < fileHeaderSize || string(data[0:8]) != string(Signature[:]) {
		return nil, fmt.Errorf("trace: bad file signature")
	}
	hdrSize := int64(binary.LittleEndian.Uint64(data[8:16]))
	if hdrSize < fileHeaderSize {
		return nil, fmt.Errorf("trace: bad header size %d", hdrSize)
	}

	var records []Record
	pos := int64(len(Signature)) + 8
	for pos < int64(len(data)) {
		rec, err := ParseRecord(data[pos:])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		if rec.Next == 0 {
			break
		}
		pos += rec.Next
	}
	return records, nil
}
