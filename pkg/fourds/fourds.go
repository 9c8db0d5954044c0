// Package fourds implements a lossless codec for the LS3D engine's 4DS
// binary model/scene format (engine version 5.559). The format is a tree
// of (type, length, payload) chunks carrying a hierarchical object graph,
// material definitions and mesh geometry. Decode produces a fully resolved
// in-memory scene model; Encode serializes a model back into a buffer the
// engine can load. Chunk types the codec does not understand are carried
// through both directions verbatim.
package fourds

import "github.com/Faultbox/ls3d-tools/pkg/chunk"

// Signature is the magic at the start of the header chunk payload.
const Signature = "4DS\x00"

// Version is the 4DS format revision this codec targets.
const Version = 41

// Chunk type ids. Field widths and ordering inside each payload are a
// fixed engine contract; see the per-chunk decoders.
const (
	ChunkHeader chunk.TypeID = 0x0001

	ChunkMaterialList chunk.TypeID = 0x1000
	ChunkMaterial     chunk.TypeID = 0x1001

	ChunkObjectList  chunk.TypeID = 0x2000
	ChunkObject      chunk.TypeID = 0x2001
	ChunkObjectProps chunk.TypeID = 0x2002

	ChunkMeshData    chunk.TypeID = 0x3000
	ChunkVertices    chunk.TypeID = 0x3001
	ChunkNormals     chunk.TypeID = 0x3002
	ChunkUVChannel   chunk.TypeID = 0x3003
	ChunkFaces       chunk.TypeID = 0x3010
	ChunkMatGroups   chunk.TypeID = 0x3011
	ChunkBounds      chunk.TypeID = 0x3020
	ChunkLodInfo     chunk.TypeID = 0x3021
	ChunkSkinWeights chunk.TypeID = 0x3030
	ChunkBillboard   chunk.TypeID = 0x3040

	ChunkSectorData   chunk.TypeID = 0x4000
	ChunkPortalData   chunk.TypeID = 0x4001
	ChunkOccluderData chunk.TypeID = 0x4002

	ChunkLensFlareData chunk.TypeID = 0x5000
	ChunkDummyData     chunk.TypeID = 0x6000
)

// isContainer reports whether a chunk type carries nested chunks.
// Unknown types are never containers; their payloads stay opaque so they
// can round-trip byte for byte.
func isContainer(id chunk.TypeID) bool {
	switch id {
	case ChunkMaterialList, ChunkObjectList, ChunkObject, ChunkMeshData:
		return true
	}
	return false
}
