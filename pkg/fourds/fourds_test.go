package fourds

import (
	"github.com/Faultbox/ls3d-tools/pkg/bin"
	"github.com/Faultbox/ls3d-tools/pkg/math"
)

// Shared fixtures for the codec tests: a minimal but fully valid scene
// with one dummy root and one textured triangle mesh under it.

func triGeometry() *Geometry {
	g := &Geometry{
		Positions: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Normals: []math.Vec3{
			{Z: 1}, {Z: 1}, {Z: 1},
		},
		UVChannels: [][]math.Vec2{
			{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
		},
		Faces:  []Face{{0, 1, 2}},
		Groups: []MaterialGroup{{FaceStart: 0, FaceCount: 1, Material: 0}},
	}
	g.ComputeBounds()
	return g
}

func sampleScene() *Model {
	return &Model{
		Timestamp: 0x01d4c0ffee000000,
		Materials: []*Material{{
			Flags:      MatFlagDiffuseMapping,
			Blend:      BlendOpaque,
			Ambient:    Color{R: 0.2, G: 0.2, B: 0.2},
			Diffuse:    Color{R: 1, G: 1, B: 1},
			Specular:   Color{R: 0.5, G: 0.5, B: 0.5},
			Opacity:    1,
			DiffuseMap: "body.tga",
		}},
		Objects: []*Object{
			{
				Name:     "root_dummy",
				Parent:   NoIndex,
				Rotation: math.QuatIdentity(),
				Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
				Visible:  true,
				Data: &DummyData{
					BoundsMin: math.Vec3{X: -1, Y: -1, Z: -1},
					BoundsMax: math.Vec3{X: 1, Y: 1, Z: 1},
				},
			},
			{
				Name:     "body",
				Parent:   0,
				Position: math.Vec3{X: 0, Y: 2, Z: 0},
				Rotation: math.QuatIdentity(),
				Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
				Visible:  true,
				Data:     &MeshData{Geometry: triGeometry(), DrawDistance: 100},
			},
		},
	}
}

// propsPayload builds an object props record by hand, for decode tests
// that need wire layouts Encode would refuse to produce.
func propsPayload(objType, visualType uint8, parentWire uint16, name string) []byte {
	w := bin.NewWriter()
	w.Uint8(objType)
	if objType == objTypeVisual {
		w.Uint8(visualType)
		w.Uint16(0)
	}
	w.Uint16(parentWire)
	writeVec3(w, math.Vec3{})
	writeQuat(w, math.QuatIdentity())
	writeVec3(w, math.Vec3{X: 1, Y: 1, Z: 1})
	w.Uint32(0)
	w.Uint8(CullingVisible)
	w.String(name)
	w.String("")
	return w.Bytes()
}

func dummyPayload() []byte {
	w := bin.NewWriter()
	writeVec3(w, math.Vec3{X: -1, Y: -1, Z: -1})
	writeVec3(w, math.Vec3{X: 1, Y: 1, Z: 1})
	return w.Bytes()
}
