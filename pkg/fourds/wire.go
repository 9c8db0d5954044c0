package fourds

import (
	"fmt"

	"github.com/Faultbox/ls3d-tools/pkg/bin"
	"github.com/Faultbox/ls3d-tools/pkg/chunk"
	"github.com/Faultbox/ls3d-tools/pkg/math"
)

// Shared wire helpers for the semantic decoders. Vectors are three
// floats, quaternions four floats in W, X, Y, Z order, faces three u16
// indices, all little-endian.

func readVec3(r *bin.Reader) (math.Vec3, error) {
	var v math.Vec3
	var err error
	if v.X, err = r.Float32(); err != nil {
		return v, err
	}
	if v.Y, err = r.Float32(); err != nil {
		return v, err
	}
	if v.Z, err = r.Float32(); err != nil {
		return v, err
	}
	return v, nil
}

func writeVec3(w *bin.Writer, v math.Vec3) {
	w.Float32(v.X)
	w.Float32(v.Y)
	w.Float32(v.Z)
}

func readVec2(r *bin.Reader) (math.Vec2, error) {
	var v math.Vec2
	var err error
	if v.X, err = r.Float32(); err != nil {
		return v, err
	}
	if v.Y, err = r.Float32(); err != nil {
		return v, err
	}
	return v, nil
}

func writeVec2(w *bin.Writer, v math.Vec2) {
	w.Float32(v.X)
	w.Float32(v.Y)
}

func readQuat(r *bin.Reader) (math.Quat, error) {
	var q math.Quat
	var err error
	if q.W, err = r.Float32(); err != nil {
		return q, err
	}
	if q.X, err = r.Float32(); err != nil {
		return q, err
	}
	if q.Y, err = r.Float32(); err != nil {
		return q, err
	}
	if q.Z, err = r.Float32(); err != nil {
		return q, err
	}
	return q, nil
}

func writeQuat(w *bin.Writer, q math.Quat) {
	w.Float32(q.W)
	w.Float32(q.X)
	w.Float32(q.Y)
	w.Float32(q.Z)
}

func readFace(r *bin.Reader) (Face, error) {
	var f Face
	for i := range f {
		v, err := r.Uint16()
		if err != nil {
			return f, err
		}
		f[i] = v
	}
	return f, nil
}

func writeFace(w *bin.Writer, f Face) {
	w.Uint16(f[0])
	w.Uint16(f[1])
	w.Uint16(f[2])
}

func readColor4(r *bin.Reader) ([4]uint8, error) {
	var c [4]uint8
	b, err := r.Bytes(4)
	if err != nil {
		return c, err
	}
	copy(c[:], b)
	return c, nil
}

// readVec3List reads an inline u32 count followed by that many vectors.
func readVec3List(r *bin.Reader) ([]math.Vec3, error) {
	count, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if r.Remaining() < int(count)*vec3Size {
		return nil, fmt.Errorf("%w: %d vertices declared, %d bytes remain",
			ErrBufferSizeMismatch, count, r.Remaining())
	}
	out := make([]math.Vec3, count)
	for i := range out {
		if out[i], err = readVec3(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func writeVec3List(w *bin.Writer, list []math.Vec3) {
	w.Uint32(uint32(len(list)))
	for _, v := range list {
		writeVec3(w, v)
	}
}

// readFaceList reads an inline u32 count followed by that many faces.
func readFaceList(r *bin.Reader) ([]Face, error) {
	count, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if r.Remaining() < int(count)*faceSize {
		return nil, fmt.Errorf("%w: %d faces declared, %d bytes remain",
			ErrBufferSizeMismatch, count, r.Remaining())
	}
	out := make([]Face, count)
	for i := range out {
		if out[i], err = readFace(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func writeFaceList(w *bin.Writer, faces []Face) {
	w.Uint32(uint32(len(faces)))
	for _, f := range faces {
		writeFace(w, f)
	}
}

// expectDrained fails when a raw chunk payload has bytes its decoder did
// not account for, meaning the declared and actual layouts disagree.
func expectDrained(id chunk.TypeID, r *bin.Reader) error {
	if n := r.Remaining(); n != 0 {
		return fmt.Errorf("%w: chunk %s has %d trailing payload bytes", chunk.ErrMalformed, id, n)
	}
	return nil
}

// wireIndex converts a 0-based model index (NoIndex for none) to the
// format's 1-based-with-zero-sentinel convention.
func wireIndex(index int) uint16 {
	if index == NoIndex {
		return 0
	}
	return uint16(index + 1)
}

// modelIndex is the inverse of wireIndex.
func modelIndex(wire uint16) int {
	if wire == 0 {
		return NoIndex
	}
	return int(wire) - 1
}
