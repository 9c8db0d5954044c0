package fourds

import (
	"errors"
	"testing"

	"github.com/Faultbox/ls3d-tools/pkg/bin"
	"github.com/Faultbox/ls3d-tools/pkg/chunk"
)

func headerChunk(signature string, version uint16) *chunk.Chunk {
	w := bin.NewWriter()
	w.Raw([]byte(signature))
	w.Uint16(version)
	w.Uint64(0)
	return chunk.NewRaw(ChunkHeader, w.Bytes())
}

func TestDecode_Truncated(t *testing.T) {
	data := mustEncode(t, sampleScene())
	for _, n := range []int{0, 1, 7, chunk.HeaderSize, 20, len(data) - 1} {
		_, err := Decode(data[:n])
		if err == nil {
			t.Fatalf("prefix %d decoded", n)
		}
		if !errors.Is(err, bin.ErrTruncated) && !errors.Is(err, chunk.ErrMalformed) {
			t.Errorf("prefix %d: err = %v", n, err)
		}
	}
}

func TestDecode_InvalidSignature(t *testing.T) {
	data := chunk.Encode([]*chunk.Chunk{headerChunk("4DX\x00", Version)})
	if _, err := Decode(data); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	data := chunk.Encode([]*chunk.Chunk{headerChunk(Signature, 29)})
	if _, err := Decode(data); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestDecode_MissingHeader(t *testing.T) {
	data := chunk.Encode([]*chunk.Chunk{chunk.NewContainer(ChunkObjectList)})
	if _, err := Decode(data); !errors.Is(err, ErrMissingChunk) {
		t.Errorf("err = %v, want ErrMissingChunk", err)
	}
}

func TestDecode_DuplicateHeader(t *testing.T) {
	h := headerChunk(Signature, Version)
	data := chunk.Encode([]*chunk.Chunk{h, h})
	if _, err := Decode(data); !errors.Is(err, chunk.ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestDecode_HeaderOnly(t *testing.T) {
	data := chunk.Encode([]*chunk.Chunk{headerChunk(Signature, Version)})
	m, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(m.Objects) != 0 || len(m.Materials) != 0 {
		t.Errorf("empty file produced %d objects, %d materials", len(m.Objects), len(m.Materials))
	}
}

func TestDecode_VertexBufferSizeMismatch(t *testing.T) {
	// The vertex chunk declares 3 elements but carries 2.
	w := bin.NewWriter()
	w.Uint32(3)
	for i := 0; i < 6; i++ {
		w.Float32(0)
	}

	mesh := chunk.NewContainer(ChunkMeshData,
		chunk.NewRaw(ChunkVertices, w.Bytes()),
		encodeFaceBuffer([]Face{{0, 1, 2}}),
		encodeGroupBuffer([]MaterialGroup{{FaceCount: 1, Material: NoIndex}}),
	)
	obj := chunk.NewContainer(ChunkObject,
		chunk.NewRaw(ChunkObjectProps, propsPayload(objTypeVisual, visualMesh, 0, "broken")),
		mesh,
	)
	data := chunk.Encode([]*chunk.Chunk{
		headerChunk(Signature, Version),
		chunk.NewContainer(ChunkObjectList, obj),
	})

	if _, err := Decode(data); !errors.Is(err, ErrBufferSizeMismatch) {
		t.Errorf("err = %v, want ErrBufferSizeMismatch", err)
	}
}

func TestDecode_MeshMissingFaces(t *testing.T) {
	mesh := chunk.NewContainer(ChunkMeshData,
		encodeVec3Buffer(ChunkVertices, triGeometry().Positions),
	)
	obj := chunk.NewContainer(ChunkObject,
		chunk.NewRaw(ChunkObjectProps, propsPayload(objTypeVisual, visualMesh, 0, "nofaces")),
		mesh,
	)
	data := chunk.Encode([]*chunk.Chunk{
		headerChunk(Signature, Version),
		chunk.NewContainer(ChunkObjectList, obj),
	})

	if _, err := Decode(data); !errors.Is(err, ErrMissingChunk) {
		t.Errorf("err = %v, want ErrMissingChunk", err)
	}
}
