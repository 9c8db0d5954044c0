package fourds

import (
	"fmt"

	"github.com/Faultbox/ls3d-tools/pkg/bin"
	"github.com/Faultbox/ls3d-tools/pkg/chunk"
	"github.com/Faultbox/ls3d-tools/pkg/math"
)

// Geometry buffer element widths on the wire.
const (
	vec3Size  = 12
	vec2Size  = 8
	faceSize  = 6
	groupSize = 10
	skinSize  = 2
)

// MaxUVChannels is the most UV channels a mesh may carry.
const MaxUVChannels = 4

// decodeGeometry parses a MeshData container into a Geometry plus the
// visual's draw distance. Face indices are taken at face value here; range
// checking against the vertex count is the validator's job, keeping this
// decoder a pure structural transform.
func decodeGeometry(c *chunk.Chunk) (*Geometry, float32, error) {
	g := &Geometry{}
	var drawDistance float32
	seenVertices := false
	seenFaces := false

	for _, child := range c.Children {
		switch child.Type {
		case ChunkLodInfo:
			r := bin.NewReader(child.Raw)
			v, err := r.Float32()
			if err != nil {
				return nil, 0, fmt.Errorf("lod info: %w", err)
			}
			if err := expectDrained(ChunkLodInfo, r); err != nil {
				return nil, 0, err
			}
			drawDistance = v

		case ChunkVertices:
			positions, err := decodeVec3Buffer(child)
			if err != nil {
				return nil, 0, err
			}
			g.Positions = positions
			seenVertices = true

		case ChunkNormals:
			normals, err := decodeVec3Buffer(child)
			if err != nil {
				return nil, 0, err
			}
			g.Normals = normals

		case ChunkUVChannel:
			uvs, err := decodeVec2Buffer(child)
			if err != nil {
				return nil, 0, err
			}
			if len(g.UVChannels) == MaxUVChannels {
				return nil, 0, fmt.Errorf("%w: more than %d UV channel chunks", chunk.ErrMalformed, MaxUVChannels)
			}
			g.UVChannels = append(g.UVChannels, uvs)

		case ChunkFaces:
			faces, err := decodeFaceBuffer(child)
			if err != nil {
				return nil, 0, err
			}
			g.Faces = faces
			seenFaces = true

		case ChunkMatGroups:
			groups, err := decodeGroupBuffer(child)
			if err != nil {
				return nil, 0, err
			}
			g.Groups = groups

		case ChunkBounds:
			r := bin.NewReader(child.Raw)
			var err error
			if g.BoundsMin, err = readVec3(r); err != nil {
				return nil, 0, fmt.Errorf("bounds: %w", err)
			}
			if g.BoundsMax, err = readVec3(r); err != nil {
				return nil, 0, fmt.Errorf("bounds: %w", err)
			}
			if err := expectDrained(ChunkBounds, r); err != nil {
				return nil, 0, err
			}
			g.HasBounds = true

		case ChunkSkinWeights:
			skin, err := decodeSkinBuffer(child)
			if err != nil {
				return nil, 0, err
			}
			g.Skin = skin

		default:
			g.Extra = append(g.Extra, child)
		}
	}

	if !seenVertices {
		return nil, 0, fmt.Errorf("%w: %s in mesh data", ErrMissingChunk, ChunkVertices)
	}
	if !seenFaces {
		return nil, 0, fmt.Errorf("%w: %s in mesh data", ErrMissingChunk, ChunkFaces)
	}
	return g, drawDistance, nil
}

// encodeGeometry serializes a Geometry (and the owning visual's draw
// distance) into a MeshData container. Buffers appear in the format's
// fixed order; absent optional buffers are omitted entirely rather than
// written empty.
func encodeGeometry(g *Geometry, drawDistance float32) *chunk.Chunk {
	mesh := chunk.NewContainer(ChunkMeshData)

	if drawDistance != 0 {
		w := bin.NewWriter()
		w.Float32(drawDistance)
		mesh.Children = append(mesh.Children, chunk.NewRaw(ChunkLodInfo, w.Bytes()))
	}

	mesh.Children = append(mesh.Children, encodeVec3Buffer(ChunkVertices, g.Positions))
	if g.Normals != nil {
		mesh.Children = append(mesh.Children, encodeVec3Buffer(ChunkNormals, g.Normals))
	}
	for _, uvs := range g.UVChannels {
		mesh.Children = append(mesh.Children, encodeVec2Buffer(uvs))
	}
	mesh.Children = append(mesh.Children, encodeFaceBuffer(g.Faces))
	mesh.Children = append(mesh.Children, encodeGroupBuffer(g.Groups))

	if g.HasBounds {
		w := bin.NewWriter()
		writeVec3(w, g.BoundsMin)
		writeVec3(w, g.BoundsMax)
		mesh.Children = append(mesh.Children, chunk.NewRaw(ChunkBounds, w.Bytes()))
	}
	if g.Skin != nil {
		mesh.Children = append(mesh.Children, encodeSkinBuffer(g.Skin))
	}

	mesh.Children = append(mesh.Children, g.Extra...)
	return mesh
}

// checkBufferSize verifies a buffer chunk's declared element count against
// its payload byte length. Element width varies by buffer type, so the
// count cannot be inferred from the length alone and both are carried.
func checkBufferSize(id chunk.TypeID, count uint32, elemSize, payloadLen int) error {
	expected := 4 + int(count)*elemSize
	if payloadLen != expected {
		return fmt.Errorf("%w: chunk %s declares %d elements (%d bytes), payload is %d bytes",
			ErrBufferSizeMismatch, id, count, expected, payloadLen)
	}
	return nil
}

func decodeVec3Buffer(c *chunk.Chunk) ([]math.Vec3, error) {
	r := bin.NewReader(c.Raw)
	count, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", c.Type, err)
	}
	if err := checkBufferSize(c.Type, count, vec3Size, len(c.Raw)); err != nil {
		return nil, err
	}
	out := make([]math.Vec3, count)
	for i := range out {
		if out[i], err = readVec3(r); err != nil {
			return nil, fmt.Errorf("chunk %s element %d: %w", c.Type, i, err)
		}
	}
	return out, nil
}

func encodeVec3Buffer(id chunk.TypeID, buf []math.Vec3) *chunk.Chunk {
	w := bin.NewWriter()
	w.Uint32(uint32(len(buf)))
	for _, v := range buf {
		writeVec3(w, v)
	}
	return chunk.NewRaw(id, w.Bytes())
}

func decodeVec2Buffer(c *chunk.Chunk) ([]math.Vec2, error) {
	r := bin.NewReader(c.Raw)
	count, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", c.Type, err)
	}
	if err := checkBufferSize(c.Type, count, vec2Size, len(c.Raw)); err != nil {
		return nil, err
	}
	out := make([]math.Vec2, count)
	for i := range out {
		if out[i], err = readVec2(r); err != nil {
			return nil, fmt.Errorf("chunk %s element %d: %w", c.Type, i, err)
		}
	}
	return out, nil
}

func encodeVec2Buffer(buf []math.Vec2) *chunk.Chunk {
	w := bin.NewWriter()
	w.Uint32(uint32(len(buf)))
	for _, v := range buf {
		writeVec2(w, v)
	}
	return chunk.NewRaw(ChunkUVChannel, w.Bytes())
}

func decodeFaceBuffer(c *chunk.Chunk) ([]Face, error) {
	r := bin.NewReader(c.Raw)
	count, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", c.Type, err)
	}
	if err := checkBufferSize(c.Type, count, faceSize, len(c.Raw)); err != nil {
		return nil, err
	}
	out := make([]Face, count)
	for i := range out {
		if out[i], err = readFace(r); err != nil {
			return nil, fmt.Errorf("chunk %s face %d: %w", c.Type, i, err)
		}
	}
	return out, nil
}

func encodeFaceBuffer(faces []Face) *chunk.Chunk {
	w := bin.NewWriter()
	w.Uint32(uint32(len(faces)))
	for _, f := range faces {
		writeFace(w, f)
	}
	return chunk.NewRaw(ChunkFaces, w.Bytes())
}

func decodeGroupBuffer(c *chunk.Chunk) ([]MaterialGroup, error) {
	r := bin.NewReader(c.Raw)
	count, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", c.Type, err)
	}
	if err := checkBufferSize(c.Type, count, groupSize, len(c.Raw)); err != nil {
		return nil, err
	}
	out := make([]MaterialGroup, count)
	for i := range out {
		if out[i].FaceStart, err = r.Uint32(); err != nil {
			return nil, fmt.Errorf("chunk %s group %d: %w", c.Type, i, err)
		}
		if out[i].FaceCount, err = r.Uint32(); err != nil {
			return nil, fmt.Errorf("chunk %s group %d: %w", c.Type, i, err)
		}
		mat, err := r.Uint16()
		if err != nil {
			return nil, fmt.Errorf("chunk %s group %d: %w", c.Type, i, err)
		}
		out[i].Material = modelIndex(mat)
	}
	return out, nil
}

func encodeGroupBuffer(groups []MaterialGroup) *chunk.Chunk {
	w := bin.NewWriter()
	w.Uint32(uint32(len(groups)))
	for _, g := range groups {
		w.Uint32(g.FaceStart)
		w.Uint32(g.FaceCount)
		w.Uint16(wireIndex(g.Material))
	}
	return chunk.NewRaw(ChunkMatGroups, w.Bytes())
}

func decodeSkinBuffer(c *chunk.Chunk) ([]SkinWeight, error) {
	r := bin.NewReader(c.Raw)
	count, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", c.Type, err)
	}
	if err := checkBufferSize(c.Type, count, skinSize, len(c.Raw)); err != nil {
		return nil, err
	}
	out := make([]SkinWeight, count)
	for i := range out {
		if out[i].Joint, err = r.Uint8(); err != nil {
			return nil, fmt.Errorf("chunk %s weight %d: %w", c.Type, i, err)
		}
		if out[i].Weight, err = r.Uint8(); err != nil {
			return nil, fmt.Errorf("chunk %s weight %d: %w", c.Type, i, err)
		}
	}
	return out, nil
}

func encodeSkinBuffer(skin []SkinWeight) *chunk.Chunk {
	w := bin.NewWriter()
	w.Uint32(uint32(len(skin)))
	for _, sw := range skin {
		w.Uint8(sw.Joint)
		w.Uint8(sw.Weight)
	}
	return chunk.NewRaw(ChunkSkinWeights, w.Bytes())
}
