package fourds

import "github.com/Faultbox/ls3d-tools/pkg/math"

// TextureLocator resolves a material's texture slot path to a concrete
// location. Implementations live outside the codec (the codec never does
// file I/O); when one is supplied, unresolved textures are reported as
// warnings since the reference string itself still round-trips.
type TextureLocator interface {
	// Locate returns the resolved location of a texture reference and
	// whether it was found.
	Locate(name string) (string, bool)
}

// ValidateOptions configures a validation pass.
type ValidateOptions struct {
	// ForEncode enables the stricter pre-encode checks: degenerate
	// geometry and non-finite transforms are rejected, and unknown blend
	// modes become errors instead of warnings.
	ForEncode bool

	// Textures, when non-nil, is consulted for every texture slot; misses
	// are reported as warnings.
	Textures TextureLocator
}

// Validate cross-checks a scene model's index references and structural
// invariants. All findings are collected into one report rather than
// aborting on the first, so the caller can weigh warnings against errors.
// Decode runs it after parsing, Encode before serializing; hosts building
// models by hand can run it directly.
func Validate(m *Model, opts ValidateOptions) *ValidationReport {
	r := &ValidationReport{}

	validateHierarchy(m, r)
	validateMaterials(m, r, opts)

	for i, obj := range m.Objects {
		validateObject(m, r, i, obj, opts)
	}
	return r
}

func validateHierarchy(m *Model, r *ValidationReport) {
	n := len(m.Objects)
	names := make(map[string]int, n)

	for i, obj := range m.Objects {
		if prev, ok := names[obj.Name]; ok {
			r.add(SeverityError, "name-collision",
				"objects %d and %d share the name %q", prev, i, obj.Name)
		} else {
			names[obj.Name] = i
		}

		if obj.Parent != NoIndex && (obj.Parent < 0 || obj.Parent >= n) {
			r.add(SeverityError, "parent-range",
				"object %d %q cites parent %d, scene has %d objects", i, obj.Name, obj.Parent, n)
			continue
		}

		// A parent chain must reach a root within n steps; anything
		// longer has revisited an object.
		steps := 0
		for j := i; m.Objects[j].Parent != NoIndex; {
			p := m.Objects[j].Parent
			if p < 0 || p >= n {
				break // reported above for the offending object
			}
			j = p
			if steps++; steps > n {
				r.add(SeverityError, "parent-cycle",
					"object %d %q is part of a parent cycle", i, obj.Name)
				break
			}
		}
	}
}

func validateMaterials(m *Model, r *ValidationReport, opts ValidateOptions) {
	for i, mat := range m.Materials {
		if mat.Blend > BlendAdditive {
			sev := SeverityWarning
			if opts.ForEncode {
				sev = SeverityError
			}
			r.add(sev, "blend-mode", "material %d has unrecognized blend mode %d", i, uint8(mat.Blend))
		}

		if !mat.Ambient.IsFinite() || !mat.Diffuse.IsFinite() || !mat.Specular.IsFinite() {
			r.add(SeverityWarning, "nonfinite-color", "material %d has non-finite color coefficients", i)
		}

		if opts.Textures != nil {
			for _, slot := range mat.TextureSlots() {
				if slot == "" {
					continue
				}
				if _, ok := opts.Textures.Locate(slot); !ok {
					r.add(SeverityWarning, "texture-missing", "material %d references unresolved texture %q", i, slot)
				}
			}
		}
	}
}

func validateObject(m *Model, r *ValidationReport, i int, obj *Object, opts ValidateOptions) {
	if opts.ForEncode {
		if !obj.Position.IsFinite() || !obj.Rotation.IsFinite() || !obj.Scale.IsFinite() {
			r.add(SeverityError, "nonfinite-transform",
				"object %d %q has non-finite transform values", i, obj.Name)
		}
	}

	switch data := obj.Data.(type) {
	case *MeshData:
		validateGeometry(m, r, i, obj, data.Geometry, opts)
	case *BillboardData:
		validateGeometry(m, r, i, obj, data.Geometry, opts)
	case *SectorData:
		validatePolygonMesh(r, i, obj, "sector", data.Positions, data.Faces)
	case *PortalData:
		if len(data.Positions) < 3 {
			r.add(SeverityWarning, "portal-degenerate",
				"portal %d %q has only %d boundary vertices", i, obj.Name, len(data.Positions))
		}
		if obj.Parent != NoIndex && obj.Parent >= 0 && obj.Parent < len(m.Objects) {
			if _, ok := m.Objects[obj.Parent].Data.(*SectorData); !ok {
				r.add(SeverityWarning, "portal-parent",
					"portal %d %q is not parented to a sector", i, obj.Name)
			}
		}
	case *OccluderData:
		validatePolygonMesh(r, i, obj, "occluder", data.Positions, data.Faces)
	case *LensFlareData:
		for e, elem := range data.Elements {
			if elem.Material != NoIndex && (elem.Material < 0 || elem.Material >= len(m.Materials)) {
				r.add(SeverityError, "material-range",
					"lens flare %d %q element %d cites material %d, scene has %d materials",
					i, obj.Name, e, elem.Material, len(m.Materials))
			}
		}
	case *DummyData:
		// Nothing to cross-check.
	case nil:
		r.add(SeverityError, "missing-variant", "object %d %q has no variant data", i, obj.Name)
	}
}

// validatePolygonMesh checks the inline vertex/face lists carried by
// sector and occluder payloads.
func validatePolygonMesh(r *ValidationReport, i int, obj *Object, kind string, positions []math.Vec3, faces []Face) {
	for f, face := range faces {
		for _, idx := range face {
			if int(idx) >= len(positions) {
				r.add(SeverityError, "face-range",
					"%s %d %q face %d cites vertex %d, volume has %d vertices",
					kind, i, obj.Name, f, idx, len(positions))
				break
			}
		}
	}
}

func validateGeometry(m *Model, r *ValidationReport, i int, obj *Object, g *Geometry, opts ValidateOptions) {
	if g == nil {
		r.add(SeverityError, "missing-variant", "object %d %q has no geometry", i, obj.Name)
		return
	}

	vertexCount := len(g.Positions)

	if g.Normals != nil && len(g.Normals) != vertexCount {
		r.add(SeverityError, "buffer-length",
			"mesh %d %q has %d normals for %d vertices", i, obj.Name, len(g.Normals), vertexCount)
	}
	if len(g.UVChannels) > MaxUVChannels {
		r.add(SeverityError, "buffer-length",
			"mesh %d %q has %d UV channels, at most %d allowed", i, obj.Name, len(g.UVChannels), MaxUVChannels)
	}
	for ch, uvs := range g.UVChannels {
		if len(uvs) != vertexCount {
			r.add(SeverityError, "buffer-length",
				"mesh %d %q UV channel %d has %d entries for %d vertices", i, obj.Name, ch, len(uvs), vertexCount)
		}
	}
	if g.Skin != nil && len(g.Skin) != vertexCount {
		r.add(SeverityError, "buffer-length",
			"mesh %d %q has %d skin weights for %d vertices", i, obj.Name, len(g.Skin), vertexCount)
	}

	for f, face := range g.Faces {
		for _, idx := range face {
			if int(idx) >= vertexCount {
				r.add(SeverityError, "face-range",
					"mesh %d %q face %d cites vertex %d, mesh has %d vertices",
					i, obj.Name, f, idx, vertexCount)
				break
			}
		}
	}

	validateGroups(m, r, i, obj, g)

	if opts.ForEncode && (vertexCount == 0 || len(g.Faces) == 0) {
		r.add(SeverityError, "degenerate-geometry",
			"mesh %d %q has %d vertices and %d faces, engine requires at least one of each",
			i, obj.Name, vertexCount, len(g.Faces))
	}
}

// validateGroups checks that the material-group table is in range and
// tiles the face buffer exactly: contiguous, non-overlapping, complete.
func validateGroups(m *Model, r *ValidationReport, i int, obj *Object, g *Geometry) {
	next := uint32(0)
	covered := true

	for gi, group := range g.Groups {
		if group.Material != NoIndex && (group.Material < 0 || group.Material >= len(m.Materials)) {
			r.add(SeverityError, "material-range",
				"mesh %d %q group %d cites material %d, scene has %d materials",
				i, obj.Name, gi, group.Material, len(m.Materials))
		}

		if group.FaceStart != next {
			covered = false
		}
		next = group.FaceStart + group.FaceCount

		if group.Material != NoIndex && group.Material >= 0 && group.Material < len(m.Materials) {
			required := m.Materials[group.Material].UVChannelsRequired()
			if len(g.UVChannels) < required {
				r.add(SeverityError, "uv-channel-mismatch",
					"mesh %d %q has %d UV channels, material %d requires %d",
					i, obj.Name, len(g.UVChannels), group.Material, required)
			}
		}
	}

	if !covered || next != uint32(len(g.Faces)) {
		r.add(SeverityError, "material-group-coverage",
			"mesh %d %q material groups do not tile the %d-face buffer exactly",
			i, obj.Name, len(g.Faces))
	}
}
