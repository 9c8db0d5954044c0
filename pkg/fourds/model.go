package fourds

import (
	"github.com/Faultbox/ls3d-tools/pkg/chunk"
	"github.com/Faultbox/ls3d-tools/pkg/math"
)

// NoIndex marks an absent material or parent reference.
const NoIndex = -1

// Model is the in-memory scene graph populated by Decode and consumed by
// Encode. It exclusively owns its objects, materials and geometry; object
// parent and material relations are indices, never pointers, so a model
// can be cloned or diffed without aliasing hazards. A fresh Model is built
// per decode call; the codec keeps no process-wide state.
type Model struct {
	Version   uint16
	Timestamp uint64 // Windows FILETIME written by the exporting tool

	Materials []*Material
	Objects   []*Object

	// MaterialExtra and Extra preserve well-formed chunks of unknown type
	// found inside the material list and at the root level. They re-encode
	// verbatim so files using chunk types this codec does not interpret
	// still round-trip losslessly.
	MaterialExtra []*chunk.Chunk
	Extra         []*chunk.Chunk
}

// Object is one node of the scene graph. Parent is an index into
// Model.Objects or NoIndex for roots; children are a derived view (see
// Model.Children), not a stored list, which keeps the graph acyclic by
// construction on the storage level.
type Object struct {
	Name     string
	Parent   int
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3

	// Visible mirrors the low culling bit. The remaining culling and
	// render flag bits are engine-specific and preserved verbatim.
	Visible      bool
	CullingFlags uint8
	RenderFlags  uint32
	VisualFlags  uint16 // mesh and billboard visuals only

	// Properties is the raw user-defined property block ("\r\n" separated
	// key=value lines interpreted by the engine's script layer).
	Properties string

	Data ObjectData

	// Extra preserves unknown chunks found inside this object's container.
	Extra []*chunk.Chunk
}

// ObjectData is the variant payload of an Object. Exactly one concrete
// type applies per object; encode and decode dispatch exhaustively over
// these types.
type ObjectData interface {
	objectData()
}

// MeshData is a standard visual mesh.
type MeshData struct {
	Geometry     *Geometry
	DrawDistance float32
}

// BillboardAxis selects the axis a billboard rotates around.
type BillboardAxis uint32

// Billboard rotation axes, in wire order.
const (
	BillboardAxisX BillboardAxis = 0
	BillboardAxisZ BillboardAxis = 1
	BillboardAxisY BillboardAxis = 2
)

// BillboardData is a mesh that rotates to face the viewer, either around
// one locked axis or freely.
type BillboardData struct {
	Geometry     *Geometry
	DrawDistance float32
	Axis         BillboardAxis
	AxisLocked   bool
}

// SectorData is a convex visibility volume.
type SectorData struct {
	Flags     uint32
	Reserved  uint32
	Positions []math.Vec3
	Faces     []Face
}

// PortalData is a boundary polygon between two sectors. Portal objects
// are parented to the sector that owns them.
type PortalData struct {
	Flags     uint32
	NearRange float32
	FarRange  float32
	Color     [4]uint8
	Normal    math.Vec3
	Distance  float32
	Positions []math.Vec3
}

// OccluderData is a standalone visibility-blocking polygon mesh.
type OccluderData struct {
	Positions []math.Vec3
	Faces     []Face
}

// FlareElement is one screen-aligned element of a lens flare.
type FlareElement struct {
	Size     float32
	Falloff  float32
	Color    [4]uint8
	Material int // index into Model.Materials, NoIndex for none
}

// LensFlareData is a sequence of flare elements rendered along the line
// from a light source.
type LensFlareData struct {
	Elements []FlareElement
}

// DummyData is an empty helper object with a bounding box.
type DummyData struct {
	BoundsMin math.Vec3
	BoundsMax math.Vec3
}

func (*MeshData) objectData()      {}
func (*BillboardData) objectData() {}
func (*SectorData) objectData()    {}
func (*PortalData) objectData()    {}
func (*OccluderData) objectData()  {}
func (*LensFlareData) objectData() {}
func (*DummyData) objectData()     {}

// Face is a triangle as indices into a geometry's vertex buffers.
type Face [3]uint16

// MaterialGroup maps a contiguous face range to one material.
type MaterialGroup struct {
	FaceStart uint32
	FaceCount uint32
	Material  int // index into Model.Materials, NoIndex for none
}

// SkinWeight binds a vertex to a joint. Joint indices are opaque to the
// codec; the buffer only has to match the vertex count.
type SkinWeight struct {
	Joint  uint8
	Weight uint8
}

// Geometry holds one mesh's vertex and index buffers. Normals and UV
// channels are either the same length as Positions or absent; absent
// buffers are omitted from the encoded form entirely.
type Geometry struct {
	Positions  []math.Vec3
	Normals    []math.Vec3
	UVChannels [][]math.Vec2
	Faces      []Face
	Groups     []MaterialGroup

	HasBounds bool
	BoundsMin math.Vec3
	BoundsMax math.Vec3

	Skin []SkinWeight

	// Extra preserves unknown chunks found inside the mesh data container.
	Extra []*chunk.Chunk
}

// ComputeBounds derives the axis-aligned bounding box from Positions and
// marks it present. Empty geometry leaves the bounds unset.
func (g *Geometry) ComputeBounds() {
	if len(g.Positions) == 0 {
		g.HasBounds = false
		return
	}
	bmin := g.Positions[0]
	bmax := g.Positions[0]
	for _, p := range g.Positions[1:] {
		bmin = bmin.Min(p)
		bmax = bmax.Max(p)
	}
	g.HasBounds = true
	g.BoundsMin = bmin
	g.BoundsMax = bmax
}

// geometry returns the geometry of mesh-like variants, or nil.
func (o *Object) geometry() *Geometry {
	switch data := o.Data.(type) {
	case *MeshData:
		return data.Geometry
	case *BillboardData:
		return data.Geometry
	}
	return nil
}

// ObjectByName returns the first object with the given name, or nil.
func (m *Model) ObjectByName(name string) *Object {
	for _, obj := range m.Objects {
		if obj.Name == name {
			return obj
		}
	}
	return nil
}

// Children returns the indices of the objects whose parent is index, in
// model order. The child view is derived on demand; only the parent link
// is stored.
func (m *Model) Children(index int) []int {
	var out []int
	for i, obj := range m.Objects {
		if obj.Parent == index {
			out = append(out, i)
		}
	}
	return out
}

// Roots returns the indices of all parentless objects, in model order.
func (m *Model) Roots() []int {
	var out []int
	for i, obj := range m.Objects {
		if obj.Parent == NoIndex {
			out = append(out, i)
		}
	}
	return out
}
