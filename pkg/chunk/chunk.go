// Package chunk implements the generic recursive chunk container format
// used by LS3D binary files: every structural unit is a (type, length,
// payload) record, and the payload of a container chunk is itself an
// ordered sequence of chunks. The package parses and serializes the tree
// shape only; semantic interpretation of raw payloads belongs to callers.
package chunk

import (
	"errors"
	"fmt"

	"github.com/Faultbox/ls3d-tools/pkg/bin"
)

// Chunk errors.
var (
	// ErrMalformed is returned when a container chunk's declared payload
	// length does not match the bytes its children actually occupy.
	ErrMalformed = errors.New("malformed chunk")
)

// TypeID identifies a chunk's semantic type on the wire.
type TypeID uint32

// String formats the id the way LS3D tooling conventionally prints it.
func (t TypeID) String() string {
	return fmt.Sprintf("0x%04X", uint32(t))
}

// HeaderSize is the encoded size of a chunk header (type + length).
const HeaderSize = 8

// Chunk is one node of the chunk tree. Raw holds the payload of leaf
// chunks; Children holds the ordered child chunks of container chunks.
// Exactly one of the two is meaningful, selected by the container policy
// the tree was decoded with. Unknown leaf chunks round-trip verbatim
// through Raw.
type Chunk struct {
	Type     TypeID
	Raw      []byte
	Children []*Chunk
}

// NewRaw returns a leaf chunk with the given payload.
func NewRaw(id TypeID, payload []byte) *Chunk {
	return &Chunk{Type: id, Raw: payload}
}

// NewContainer returns a container chunk with the given children.
func NewContainer(id TypeID, children ...*Chunk) *Chunk {
	return &Chunk{Type: id, Children: children}
}

// Find returns the first child with the given type, or nil.
func (c *Chunk) Find(id TypeID) *Chunk {
	for _, child := range c.Children {
		if child.Type == id {
			return child
		}
	}
	return nil
}

// FindAll returns all children with the given type, in order.
func (c *Chunk) FindAll(id TypeID) []*Chunk {
	var out []*Chunk
	for _, child := range c.Children {
		if child.Type == id {
			out = append(out, child)
		}
	}
	return out
}

// Decode parses a flat sequence of chunks covering the whole buffer.
// isContainer decides which type ids carry nested chunks; all other
// payloads are kept as opaque byte slices.
func Decode(data []byte, isContainer func(TypeID) bool) ([]*Chunk, error) {
	r := bin.NewReader(data)
	chunks, err := decodeSequence(r, isContainer)
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// decodeSequence reads chunks until the reader is exhausted.
func decodeSequence(r *bin.Reader, isContainer func(TypeID) bool) ([]*Chunk, error) {
	var chunks []*Chunk
	for r.Remaining() > 0 {
		c, err := decodeOne(r, isContainer)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

func decodeOne(r *bin.Reader, isContainer func(TypeID) bool) (*Chunk, error) {
	start := r.Offset()

	id, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("chunk header at offset %d: %w", start, err)
	}
	length, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("chunk %s header at offset %d: %w", TypeID(id), start, err)
	}

	payload, err := r.Bytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("chunk %s payload at offset %d: %w", TypeID(id), start, err)
	}

	c := &Chunk{Type: TypeID(id)}

	if !isContainer(c.Type) {
		c.Raw = payload
		return c, nil
	}

	sub := bin.NewReader(payload)
	for sub.Remaining() > 0 {
		child, err := decodeOne(sub, isContainer)
		if err != nil {
			// A child overrunning its parent's payload means the parent's
			// declared length and its contents disagree.
			if errors.Is(err, bin.ErrTruncated) {
				return nil, fmt.Errorf("%w: container %s declared %d payload bytes, children overrun at byte %d",
					ErrMalformed, c.Type, length, sub.Offset())
			}
			return nil, err
		}
		c.Children = append(c.Children, child)
	}
	return c, nil
}

// Encode serializes a chunk sequence, filling in each chunk's byte length
// by back-patching once its payload has been written.
func Encode(chunks []*Chunk) []byte {
	w := bin.NewWriter()
	for _, c := range chunks {
		encodeOne(w, c)
	}
	return w.Bytes()
}

func encodeOne(w *bin.Writer, c *Chunk) {
	w.Uint32(uint32(c.Type))

	if c.Children == nil {
		w.Uint32(uint32(len(c.Raw)))
		w.Raw(c.Raw)
		return
	}

	lengthOff := w.ReserveUint32()
	payloadStart := w.Len()
	for _, child := range c.Children {
		encodeOne(w, child)
	}
	w.PatchUint32(lengthOff, uint32(w.Len()-payloadStart))
}
