package fourds

import (
	"fmt"

	"github.com/Faultbox/ls3d-tools/pkg/bin"
	"github.com/Faultbox/ls3d-tools/pkg/chunk"
)

// Decode parses a complete 4DS buffer into a scene model. The returned
// model has every parent and material reference resolved to indices and
// has passed structural validation; on any failure no partial model is
// returned. Decode keeps no state between calls and is safe to run
// concurrently from multiple goroutines on distinct buffers.
func Decode(data []byte) (*Model, error) {
	if len(data) < chunk.HeaderSize {
		return nil, fmt.Errorf("%w: buffer of %d bytes is smaller than a chunk header",
			bin.ErrTruncated, len(data))
	}

	chunks, err := chunk.Decode(data, isContainer)
	if err != nil {
		return nil, err
	}

	m := &Model{}
	seenHeader := false

	for _, c := range chunks {
		switch c.Type {
		case ChunkHeader:
			if seenHeader {
				return nil, fmt.Errorf("%w: duplicate %s chunk", chunk.ErrMalformed, ChunkHeader)
			}
			if err := decodeHeader(m, c.Raw); err != nil {
				return nil, err
			}
			seenHeader = true

		case ChunkMaterialList:
			if err := decodeMaterialList(m, c); err != nil {
				return nil, err
			}

		case ChunkObjectList:
			if err := decodeObjectList(m, c); err != nil {
				return nil, err
			}

		default:
			m.Extra = append(m.Extra, c)
		}
	}

	if !seenHeader {
		return nil, fmt.Errorf("%w: %s", ErrMissingChunk, ChunkHeader)
	}

	if report := Validate(m, ValidateOptions{}); report.HasErrors() {
		return nil, &ValidationError{Report: report}
	}
	return m, nil
}

func decodeHeader(m *Model, raw []byte) error {
	r := bin.NewReader(raw)

	magic, err := r.Bytes(len(Signature))
	if err != nil {
		return fmt.Errorf("header: %w", err)
	}
	if string(magic) != Signature {
		return fmt.Errorf("%w: % x", ErrInvalidSignature, magic)
	}

	if m.Version, err = r.Uint16(); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	if m.Version != Version {
		return fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, m.Version, Version)
	}

	if m.Timestamp, err = r.Uint64(); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	return expectDrained(ChunkHeader, r)
}

func decodeMaterialList(m *Model, list *chunk.Chunk) error {
	for _, c := range list.Children {
		if c.Type != ChunkMaterial {
			m.MaterialExtra = append(m.MaterialExtra, c)
			continue
		}
		mat, err := decodeMaterial(len(m.Materials), c.Raw)
		if err != nil {
			return err
		}
		m.Materials = append(m.Materials, mat)
	}
	return nil
}

func decodeObjectList(m *Model, list *chunk.Chunk) error {
	for _, c := range list.Children {
		if c.Type != ChunkObject {
			m.Extra = append(m.Extra, c)
			continue
		}
		obj, err := decodeObject(len(m.Objects), c)
		if err != nil {
			return err
		}
		m.Objects = append(m.Objects, obj)
	}
	return nil
}
