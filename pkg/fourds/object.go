package fourds

import (
	"fmt"

	"github.com/Faultbox/ls3d-tools/pkg/bin"
	"github.com/Faultbox/ls3d-tools/pkg/chunk"
)

// Wire discriminants for object variants. Visual objects carry a second
// discriminant selecting the visual kind. The joint, target, morph,
// single-mesh and mirror discriminants are recognized but not handled by
// this codec and fail decode with ErrUnsupportedVariant.
const (
	objTypeVisual   uint8 = 1
	objTypePortal   uint8 = 4
	objTypeSector   uint8 = 5
	objTypeDummy    uint8 = 6
	objTypeTarget   uint8 = 7
	objTypeJoint    uint8 = 10
	objTypeOccluder uint8 = 12

	visualMesh        uint8 = 0
	visualSingleMesh  uint8 = 2
	visualSingleMorph uint8 = 3
	visualBillboard   uint8 = 4
	visualMorph       uint8 = 5
	visualLensFlare   uint8 = 6
	visualMirror      uint8 = 8
)

// CullingVisible is the culling flag bit exposed as Object.Visible.
const CullingVisible uint8 = 0x01

// objectProps is the fixed-layout common record at the head of every
// object container.
type objectProps struct {
	objType     uint8
	visualType  uint8
	visualFlags uint16
	parentWire  uint16
	obj         Object
}

// decodeObject parses one Object container. index is the object's
// position in decode order; parent references must point strictly before
// it.
func decodeObject(index int, c *chunk.Chunk) (*Object, error) {
	propsChunk := c.Find(ChunkObjectProps)
	if propsChunk == nil {
		return nil, objectErr(index, fmt.Errorf("%w: %s", ErrMissingChunk, ChunkObjectProps))
	}

	props, err := decodeObjectProps(propsChunk.Raw)
	if err != nil {
		return nil, objectErr(index, err)
	}

	obj := props.obj
	obj.Parent = modelIndex(props.parentWire)
	if obj.Parent != NoIndex && obj.Parent >= index {
		return nil, objectErr(index, fmt.Errorf("%w: %q cites object %d, only 0..%d are defined",
			ErrForwardParentReference, obj.Name, obj.Parent, index-1))
	}

	variantType, err := variantChunkType(props.objType, props.visualType)
	if err != nil {
		return nil, objectErr(index, fmt.Errorf("%q: %w", obj.Name, err))
	}

	payload := c.Find(variantType)
	if payload == nil {
		return nil, objectErr(index, fmt.Errorf("%w: %s for %q", ErrMissingChunk, variantType, obj.Name))
	}

	if obj.Data, err = decodeVariant(props, payload); err != nil {
		return nil, objectErr(index, fmt.Errorf("%q: %w", obj.Name, err))
	}

	// Everything but the consumed props and variant chunks is preserved.
	usedProps, usedPayload := false, false
	for _, child := range c.Children {
		switch {
		case child == propsChunk && !usedProps:
			usedProps = true
		case child == payload && !usedPayload:
			usedPayload = true
		default:
			obj.Extra = append(obj.Extra, child)
		}
	}

	return &obj, nil
}

func decodeObjectProps(raw []byte) (*objectProps, error) {
	r := bin.NewReader(raw)
	p := &objectProps{}

	var err error
	if p.objType, err = r.Uint8(); err != nil {
		return nil, err
	}
	if p.objType == objTypeVisual {
		if p.visualType, err = r.Uint8(); err != nil {
			return nil, err
		}
		if p.visualFlags, err = r.Uint16(); err != nil {
			return nil, err
		}
		p.obj.VisualFlags = p.visualFlags
	}
	if p.parentWire, err = r.Uint16(); err != nil {
		return nil, err
	}
	if p.obj.Position, err = readVec3(r); err != nil {
		return nil, err
	}
	if p.obj.Rotation, err = readQuat(r); err != nil {
		return nil, err
	}
	if p.obj.Scale, err = readVec3(r); err != nil {
		return nil, err
	}
	if p.obj.RenderFlags, err = r.Uint32(); err != nil {
		return nil, err
	}
	if p.obj.CullingFlags, err = r.Uint8(); err != nil {
		return nil, err
	}
	p.obj.Visible = p.obj.CullingFlags&CullingVisible != 0
	if p.obj.Name, err = r.String(); err != nil {
		return nil, err
	}
	if p.obj.Properties, err = r.String(); err != nil {
		return nil, err
	}
	if err := expectDrained(ChunkObjectProps, r); err != nil {
		return nil, err
	}
	return p, nil
}

// variantChunkType maps wire discriminants to the chunk type carrying the
// variant payload.
func variantChunkType(objType, visualType uint8) (chunk.TypeID, error) {
	switch objType {
	case objTypeVisual:
		switch visualType {
		case visualMesh, visualBillboard:
			return ChunkMeshData, nil
		case visualLensFlare:
			return ChunkLensFlareData, nil
		case visualSingleMesh, visualSingleMorph, visualMorph, visualMirror:
			return 0, fmt.Errorf("%w: visual type %d", ErrUnsupportedVariant, visualType)
		default:
			return 0, fmt.Errorf("%w: unknown visual type %d", ErrUnsupportedVariant, visualType)
		}
	case objTypePortal:
		return ChunkPortalData, nil
	case objTypeSector:
		return ChunkSectorData, nil
	case objTypeDummy:
		return ChunkDummyData, nil
	case objTypeOccluder:
		return ChunkOccluderData, nil
	case objTypeTarget, objTypeJoint:
		return 0, fmt.Errorf("%w: object type %d", ErrUnsupportedVariant, objType)
	default:
		return 0, fmt.Errorf("%w: unknown object type %d", ErrUnsupportedVariant, objType)
	}
}

func decodeVariant(props *objectProps, payload *chunk.Chunk) (ObjectData, error) {
	switch props.objType {
	case objTypeVisual:
		switch props.visualType {
		case visualMesh:
			geo, drawDistance, err := decodeGeometry(payload)
			if err != nil {
				return nil, err
			}
			return &MeshData{Geometry: geo, DrawDistance: drawDistance}, nil
		case visualBillboard:
			geo, drawDistance, err := decodeGeometry(payload)
			if err != nil {
				return nil, err
			}
			// The billboard record trails the shared mesh data as a
			// geometry-level chunk.
			data := &BillboardData{Geometry: geo, DrawDistance: drawDistance}
			if err := extractBillboard(geo, data); err != nil {
				return nil, err
			}
			return data, nil
		case visualLensFlare:
			return decodeLensFlare(payload.Raw)
		}
	case objTypePortal:
		return decodePortal(payload.Raw)
	case objTypeSector:
		return decodeSector(payload.Raw)
	case objTypeDummy:
		return decodeDummy(payload.Raw)
	case objTypeOccluder:
		return decodeOccluder(payload.Raw)
	}
	return nil, fmt.Errorf("%w: object type %d", ErrUnsupportedVariant, props.objType)
}

// extractBillboard pulls the billboard axis chunk out of the decoded
// geometry's unknown-chunk set and applies it.
func extractBillboard(geo *Geometry, data *BillboardData) error {
	for i, extra := range geo.Extra {
		if extra.Type != ChunkBillboard {
			continue
		}
		r := bin.NewReader(extra.Raw)
		axis, err := r.Uint32()
		if err != nil {
			return fmt.Errorf("billboard: %w", err)
		}
		locked, err := r.Uint8()
		if err != nil {
			return fmt.Errorf("billboard: %w", err)
		}
		if err := expectDrained(ChunkBillboard, r); err != nil {
			return err
		}
		data.Axis = BillboardAxis(axis)
		data.AxisLocked = locked != 0
		geo.Extra = append(geo.Extra[:i], geo.Extra[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %s in billboard mesh data", ErrMissingChunk, ChunkBillboard)
}

func decodeSector(raw []byte) (*SectorData, error) {
	r := bin.NewReader(raw)
	s := &SectorData{}

	var err error
	if s.Flags, err = r.Uint32(); err != nil {
		return nil, fmt.Errorf("sector: %w", err)
	}
	if s.Reserved, err = r.Uint32(); err != nil {
		return nil, fmt.Errorf("sector: %w", err)
	}
	if s.Positions, err = readVec3List(r); err != nil {
		return nil, fmt.Errorf("sector vertices: %w", err)
	}
	if s.Faces, err = readFaceList(r); err != nil {
		return nil, fmt.Errorf("sector faces: %w", err)
	}
	if err := expectDrained(ChunkSectorData, r); err != nil {
		return nil, err
	}
	return s, nil
}

func encodeSector(s *SectorData) *chunk.Chunk {
	w := bin.NewWriter()
	w.Uint32(s.Flags)
	w.Uint32(s.Reserved)
	writeVec3List(w, s.Positions)
	writeFaceList(w, s.Faces)
	return chunk.NewRaw(ChunkSectorData, w.Bytes())
}

func decodePortal(raw []byte) (*PortalData, error) {
	r := bin.NewReader(raw)
	p := &PortalData{}

	var err error
	if p.Flags, err = r.Uint32(); err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}
	if p.NearRange, err = r.Float32(); err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}
	if p.FarRange, err = r.Float32(); err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}
	if p.Color, err = readColor4(r); err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}
	if p.Normal, err = readVec3(r); err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}
	if p.Distance, err = r.Float32(); err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}
	if p.Positions, err = readVec3List(r); err != nil {
		return nil, fmt.Errorf("portal vertices: %w", err)
	}
	if err := expectDrained(ChunkPortalData, r); err != nil {
		return nil, err
	}
	return p, nil
}

func encodePortal(p *PortalData) *chunk.Chunk {
	w := bin.NewWriter()
	w.Uint32(p.Flags)
	w.Float32(p.NearRange)
	w.Float32(p.FarRange)
	w.Raw(p.Color[:])
	writeVec3(w, p.Normal)
	w.Float32(p.Distance)
	writeVec3List(w, p.Positions)
	return chunk.NewRaw(ChunkPortalData, w.Bytes())
}

func decodeOccluder(raw []byte) (*OccluderData, error) {
	r := bin.NewReader(raw)
	o := &OccluderData{}

	var err error
	if o.Positions, err = readVec3List(r); err != nil {
		return nil, fmt.Errorf("occluder vertices: %w", err)
	}
	if o.Faces, err = readFaceList(r); err != nil {
		return nil, fmt.Errorf("occluder faces: %w", err)
	}
	if err := expectDrained(ChunkOccluderData, r); err != nil {
		return nil, err
	}
	return o, nil
}

func encodeOccluder(o *OccluderData) *chunk.Chunk {
	w := bin.NewWriter()
	writeVec3List(w, o.Positions)
	writeFaceList(w, o.Faces)
	return chunk.NewRaw(ChunkOccluderData, w.Bytes())
}

func decodeLensFlare(raw []byte) (*LensFlareData, error) {
	r := bin.NewReader(raw)
	count, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("lens flare: %w", err)
	}
	if err := checkBufferSize(ChunkLensFlareData, count, 14, len(raw)); err != nil {
		return nil, err
	}

	l := &LensFlareData{Elements: make([]FlareElement, count)}
	for i := range l.Elements {
		e := &l.Elements[i]
		if e.Size, err = r.Float32(); err != nil {
			return nil, fmt.Errorf("flare element %d: %w", i, err)
		}
		if e.Falloff, err = r.Float32(); err != nil {
			return nil, fmt.Errorf("flare element %d: %w", i, err)
		}
		if e.Color, err = readColor4(r); err != nil {
			return nil, fmt.Errorf("flare element %d: %w", i, err)
		}
		mat, err := r.Uint16()
		if err != nil {
			return nil, fmt.Errorf("flare element %d: %w", i, err)
		}
		e.Material = modelIndex(mat)
	}
	return l, nil
}

func encodeLensFlare(l *LensFlareData) *chunk.Chunk {
	w := bin.NewWriter()
	w.Uint32(uint32(len(l.Elements)))
	for _, e := range l.Elements {
		w.Float32(e.Size)
		w.Float32(e.Falloff)
		w.Raw(e.Color[:])
		w.Uint16(wireIndex(e.Material))
	}
	return chunk.NewRaw(ChunkLensFlareData, w.Bytes())
}

func decodeDummy(raw []byte) (*DummyData, error) {
	r := bin.NewReader(raw)
	d := &DummyData{}

	var err error
	if d.BoundsMin, err = readVec3(r); err != nil {
		return nil, fmt.Errorf("dummy: %w", err)
	}
	if d.BoundsMax, err = readVec3(r); err != nil {
		return nil, fmt.Errorf("dummy: %w", err)
	}
	if err := expectDrained(ChunkDummyData, r); err != nil {
		return nil, err
	}
	return d, nil
}

func encodeDummy(d *DummyData) *chunk.Chunk {
	w := bin.NewWriter()
	writeVec3(w, d.BoundsMin)
	writeVec3(w, d.BoundsMax)
	return chunk.NewRaw(ChunkDummyData, w.Bytes())
}

// encodeObject serializes one object. parentWire is the 1-based index of
// the object's parent in emission order, 0 for roots.
func encodeObject(obj *Object, parentWire uint16) (*chunk.Chunk, error) {
	objType, visualType, err := wireDiscriminants(obj)
	if err != nil {
		return nil, err
	}

	w := bin.NewWriter()
	w.Uint8(objType)
	if objType == objTypeVisual {
		w.Uint8(visualType)
		w.Uint16(obj.VisualFlags)
	}
	w.Uint16(parentWire)
	writeVec3(w, obj.Position)
	writeQuat(w, obj.Rotation)
	writeVec3(w, obj.Scale)
	w.Uint32(obj.RenderFlags)

	culling := obj.CullingFlags &^ CullingVisible
	if obj.Visible {
		culling |= CullingVisible
	}
	w.Uint8(culling)
	w.String(obj.Name)
	w.String(obj.Properties)

	c := chunk.NewContainer(ChunkObject, chunk.NewRaw(ChunkObjectProps, w.Bytes()))

	var payload *chunk.Chunk
	switch data := obj.Data.(type) {
	case *MeshData:
		payload = encodeGeometry(data.Geometry, data.DrawDistance)
	case *BillboardData:
		payload = encodeGeometry(data.Geometry, data.DrawDistance)
		bw := bin.NewWriter()
		bw.Uint32(uint32(data.Axis))
		if data.AxisLocked {
			bw.Uint8(1)
		} else {
			bw.Uint8(0)
		}
		payload.Children = append(payload.Children, chunk.NewRaw(ChunkBillboard, bw.Bytes()))
	case *SectorData:
		payload = encodeSector(data)
	case *PortalData:
		payload = encodePortal(data)
	case *OccluderData:
		payload = encodeOccluder(data)
	case *LensFlareData:
		payload = encodeLensFlare(data)
	case *DummyData:
		payload = encodeDummy(data)
	}

	c.Children = append(c.Children, payload)
	c.Children = append(c.Children, obj.Extra...)
	return c, nil
}

// wireDiscriminants maps an object's variant payload back to the wire
// discriminants. Objects with no or unknown payload cannot be encoded.
func wireDiscriminants(obj *Object) (objType, visualType uint8, err error) {
	switch obj.Data.(type) {
	case *MeshData:
		return objTypeVisual, visualMesh, nil
	case *BillboardData:
		return objTypeVisual, visualBillboard, nil
	case *LensFlareData:
		return objTypeVisual, visualLensFlare, nil
	case *SectorData:
		return objTypeSector, 0, nil
	case *PortalData:
		return objTypePortal, 0, nil
	case *OccluderData:
		return objTypeOccluder, 0, nil
	case *DummyData:
		return objTypeDummy, 0, nil
	case nil:
		return 0, 0, fmt.Errorf("%w: object %q has no variant data", ErrUnsupportedVariant, obj.Name)
	default:
		return 0, 0, fmt.Errorf("%w: object %q has unknown variant data %T", ErrUnsupportedVariant, obj.Name, obj.Data)
	}
}

func objectErr(index int, err error) error {
	return fmt.Errorf("object %d: %w", index, err)
}
