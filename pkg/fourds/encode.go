package fourds

import (
	"github.com/Faultbox/ls3d-tools/pkg/bin"
	"github.com/Faultbox/ls3d-tools/pkg/chunk"
)

// Encode serializes a scene model into a 4DS buffer. The model is
// validated first and a semantically invalid model is rejected outright;
// a corrupt file the engine silently accepts is worse than a failed
// export. Objects are emitted in a parent-first order that is stable with
// respect to model order, so parent references on the wire always point
// backwards.
func Encode(m *Model) ([]byte, error) {
	if report := Validate(m, ValidateOptions{ForEncode: true}); report.HasErrors() {
		return nil, &ValidationError{Report: report}
	}

	chunks := []*chunk.Chunk{encodeHeader(m)}

	materials := chunk.NewContainer(ChunkMaterialList)
	for i, mat := range m.Materials {
		c, err := encodeMaterial(i, mat)
		if err != nil {
			return nil, err
		}
		materials.Children = append(materials.Children, c)
	}
	materials.Children = append(materials.Children, m.MaterialExtra...)
	chunks = append(chunks, materials)

	order := emitOrder(m)

	// Wire parent references are positions in emission order, 1-based.
	wirePos := make([]uint16, len(m.Objects))
	for pos, idx := range order {
		wirePos[idx] = uint16(pos + 1)
	}

	objects := chunk.NewContainer(ChunkObjectList)
	for _, idx := range order {
		obj := m.Objects[idx]
		var parentWire uint16
		if obj.Parent != NoIndex {
			parentWire = wirePos[obj.Parent]
		}
		c, err := encodeObject(obj, parentWire)
		if err != nil {
			return nil, err
		}
		objects.Children = append(objects.Children, c)
	}
	chunks = append(chunks, objects)

	chunks = append(chunks, m.Extra...)
	return chunk.Encode(chunks), nil
}

func encodeHeader(m *Model) *chunk.Chunk {
	version := m.Version
	if version == 0 {
		version = Version
	}
	w := bin.NewWriter()
	w.Raw([]byte(Signature))
	w.Uint16(version)
	w.Uint64(m.Timestamp)
	return chunk.NewRaw(ChunkHeader, w.Bytes())
}

// emitOrder returns object indices topologically sorted over the parent
// relation, preserving model order among objects whose order is not
// forced. The parent relation is acyclic here; Encode validates before
// calling.
func emitOrder(m *Model) []int {
	n := len(m.Objects)
	order := make([]int, 0, n)
	emitted := make([]bool, n)

	for len(order) < n {
		progress := false
		for i, obj := range m.Objects {
			if emitted[i] {
				continue
			}
			if obj.Parent == NoIndex || (obj.Parent >= 0 && obj.Parent < n && emitted[obj.Parent]) {
				order = append(order, i)
				emitted[i] = true
				progress = true
			}
		}
		if !progress {
			break
		}
	}
	return order
}
