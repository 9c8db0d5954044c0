package bin

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Writer is an append-only little-endian byte buffer with one documented
// exception: a length field may be reserved with ReserveUint32 and filled
// in later with PatchUint32 once the payload it describes has been written.
type Writer struct {
	data []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.data)
}

// Bytes returns the written buffer. The slice aliases the Writer's
// internal storage; further writes may invalidate it.
func (w *Writer) Bytes() []byte {
	return w.data
}

// Raw appends raw bytes.
func (w *Writer) Raw(b []byte) {
	w.data = append(w.data, b...)
}

// Uint8 appends one byte.
func (w *Writer) Uint8(v uint8) {
	w.data = append(w.data, v)
}

// Uint16 appends a little-endian uint16.
func (w *Writer) Uint16(v uint16) {
	w.data = binary.LittleEndian.AppendUint16(w.data, v)
}

// Uint32 appends a little-endian uint32.
func (w *Writer) Uint32(v uint32) {
	w.data = binary.LittleEndian.AppendUint32(w.data, v)
}

// Uint64 appends a little-endian uint64.
func (w *Writer) Uint64(v uint64) {
	w.data = binary.LittleEndian.AppendUint64(w.data, v)
}

// Float32 appends a little-endian IEEE-754 float32.
func (w *Writer) Float32(v float32) {
	w.Uint32(math.Float32bits(v))
}

// String appends a u32 length prefix followed by the raw string bytes.
func (w *Writer) String(s string) {
	w.Uint32(uint32(len(s)))
	w.data = append(w.data, s...)
}

// ReserveUint32 appends a placeholder uint32 and returns its offset for a
// later PatchUint32. Used to fill in chunk byte lengths once the payload
// size is known.
func (w *Writer) ReserveUint32() int {
	off := len(w.data)
	w.Uint32(0)
	return off
}

// PatchUint32 overwrites a previously reserved uint32 at off.
func (w *Writer) PatchUint32(off int, v uint32) {
	if off < 0 || off+4 > len(w.data) {
		panic(fmt.Sprintf("bin: patch offset %d out of range (len %d)", off, len(w.data)))
	}
	binary.LittleEndian.PutUint32(w.data[off:], v)
}
