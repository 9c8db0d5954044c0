package fourds

import (
	"fmt"

	"github.com/Faultbox/ls3d-tools/pkg/bin"
	"github.com/Faultbox/ls3d-tools/pkg/chunk"
	"github.com/Faultbox/ls3d-tools/pkg/math"
)

// Material flag bits. Only the bits below are interpreted; every other
// bit is engine-version-specific and preserved verbatim so re-encoding
// reproduces the original word exactly.
const (
	MatFlagEnvironmentBase     uint32 = 0x00000100
	MatFlagEnvironmentMultiply uint32 = 0x00000200
	MatFlagEnvironmentAdd      uint32 = 0x00000400
	MatFlagEnvReflCompZ        uint32 = 0x00001000
	MatFlagEnvReflProjZ        uint32 = 0x00002000
	MatFlagEnvReflProjY        uint32 = 0x00004000
	MatFlagAdditionalEffect    uint32 = 0x00008000
	MatFlagDiffuseMapping      uint32 = 0x00040000
	MatFlagEnvironmentMapping  uint32 = 0x00080000
	MatFlagGenerateMipmaps     uint32 = 0x00800000
	MatFlagDiffuseAlpha        uint32 = 0x01000000
	MatFlagDiffuseAnimated     uint32 = 0x04000000
	MatFlagColoring            uint32 = 0x08000000
	MatFlagNoBackfaceCulling   uint32 = 0x10000000
	MatFlagColorKeying         uint32 = 0x20000000
	MatFlagAlphaMapping        uint32 = 0x40000000
	MatFlagAdditiveBlending    uint32 = 0x80000000
)

// BlendMode is a material's transparency mode.
type BlendMode uint8

// Blend modes, in wire order.
const (
	BlendOpaque BlendMode = iota
	BlendAlphaTested
	BlendAlphaBlended
	BlendAdditive
)

// String returns a human-readable blend mode name.
func (b BlendMode) String() string {
	switch b {
	case BlendOpaque:
		return "opaque"
	case BlendAlphaTested:
		return "alpha-tested"
	case BlendAlphaBlended:
		return "alpha-blended"
	case BlendAdditive:
		return "additive"
	default:
		return fmt.Sprintf("blend(%d)", uint8(b))
	}
}

// Color is an RGB coefficient triple.
type Color struct {
	R, G, B float32
}

// IsFinite reports whether all components are finite.
func (c Color) IsFinite() bool {
	return math.IsFinite(c.R) && math.IsFinite(c.G) && math.IsFinite(c.B)
}

// MapAnimation describes an animated diffuse map. The unknown fields are
// preserved as read.
type MapAnimation struct {
	FrameCount uint32
	Unknown0   uint16
	FrameTime  uint32 // milliseconds per frame
	Unknown1   uint32
	Unknown2   uint32
}

// Material is one entry of the scene's flat material list. Objects
// reference materials by position in that list. Texture slots hold
// relative path strings; resolving them against texture directories is
// the texture locator's job, the strings themselves round-trip untouched.
type Material struct {
	Flags uint32
	Blend BlendMode

	Ambient  Color
	Diffuse  Color
	Specular Color

	SpecularPower float32
	Opacity       float32
	Reflection    float32 // environment overlay ratio

	DiffuseMap string
	AlphaMap   string
	EnvMap     string

	Animation *MapAnimation // non-nil iff the animated-diffuse flag is set
}

// HasFlag reports whether all bits of flag are set.
func (m *Material) HasFlag(flag uint32) bool {
	return m.Flags&flag == flag
}

// TextureSlots returns the material's texture references in slot order.
func (m *Material) TextureSlots() []string {
	var out []string
	if m.HasFlag(MatFlagEnvironmentMapping) {
		out = append(out, m.EnvMap)
	}
	if m.HasFlag(MatFlagDiffuseMapping) {
		out = append(out, m.DiffuseMap)
	}
	if m.HasFlag(MatFlagAlphaMapping) && !m.HasFlag(MatFlagDiffuseAlpha) {
		out = append(out, m.AlphaMap)
	}
	return out
}

// UVChannelsRequired returns how many UV channels a mesh using this
// material must carry. Environment maps use generated coordinates and
// need none.
func (m *Material) UVChannelsRequired() int {
	if m.HasFlag(MatFlagDiffuseMapping) {
		return 1
	}
	if m.HasFlag(MatFlagAlphaMapping) && !m.HasFlag(MatFlagDiffuseAlpha) {
		return 1
	}
	return 0
}

// decodeMaterial parses one Material chunk payload.
func decodeMaterial(index int, payload []byte) (*Material, error) {
	r := bin.NewReader(payload)
	m := &Material{}

	var err error
	if m.Flags, err = r.Uint32(); err != nil {
		return nil, materialErr(index, err)
	}
	blend, err := r.Uint8()
	if err != nil {
		return nil, materialErr(index, err)
	}
	m.Blend = BlendMode(blend)

	for _, c := range []*Color{&m.Ambient, &m.Diffuse, &m.Specular} {
		if *c, err = readColor(r); err != nil {
			return nil, materialErr(index, err)
		}
	}
	if m.SpecularPower, err = r.Float32(); err != nil {
		return nil, materialErr(index, err)
	}
	if m.Opacity, err = r.Float32(); err != nil {
		return nil, materialErr(index, err)
	}
	if m.Reflection, err = r.Float32(); err != nil {
		return nil, materialErr(index, err)
	}

	if m.HasFlag(MatFlagEnvironmentMapping) {
		if m.EnvMap, err = r.String(); err != nil {
			return nil, materialErr(index, err)
		}
	}
	if m.HasFlag(MatFlagDiffuseMapping) {
		if m.DiffuseMap, err = r.String(); err != nil {
			return nil, materialErr(index, err)
		}
	}
	if m.HasFlag(MatFlagAlphaMapping) && !m.HasFlag(MatFlagDiffuseAlpha) {
		if m.AlphaMap, err = r.String(); err != nil {
			return nil, materialErr(index, err)
		}
	}

	if m.HasFlag(MatFlagDiffuseAnimated) {
		anim := &MapAnimation{}
		if anim.FrameCount, err = r.Uint32(); err != nil {
			return nil, materialErr(index, err)
		}
		if anim.Unknown0, err = r.Uint16(); err != nil {
			return nil, materialErr(index, err)
		}
		if anim.FrameTime, err = r.Uint32(); err != nil {
			return nil, materialErr(index, err)
		}
		if anim.Unknown1, err = r.Uint32(); err != nil {
			return nil, materialErr(index, err)
		}
		if anim.Unknown2, err = r.Uint32(); err != nil {
			return nil, materialErr(index, err)
		}
		m.Animation = anim
	}

	if err := expectDrained(ChunkMaterial, r); err != nil {
		return nil, materialErr(index, err)
	}
	return m, nil
}

// encodeMaterial serializes one material into a Material chunk.
func encodeMaterial(index int, m *Material) (*chunk.Chunk, error) {
	if m.Blend > BlendAdditive {
		return nil, fmt.Errorf("material %d: %w: %s", index, ErrUnsupportedBlendMode, m.Blend)
	}

	w := bin.NewWriter()
	w.Uint32(m.Flags)
	w.Uint8(uint8(m.Blend))
	for _, c := range []Color{m.Ambient, m.Diffuse, m.Specular} {
		w.Float32(c.R)
		w.Float32(c.G)
		w.Float32(c.B)
	}
	w.Float32(m.SpecularPower)
	w.Float32(m.Opacity)
	w.Float32(m.Reflection)

	if m.HasFlag(MatFlagEnvironmentMapping) {
		w.String(m.EnvMap)
	}
	if m.HasFlag(MatFlagDiffuseMapping) {
		w.String(m.DiffuseMap)
	}
	if m.HasFlag(MatFlagAlphaMapping) && !m.HasFlag(MatFlagDiffuseAlpha) {
		w.String(m.AlphaMap)
	}

	if m.HasFlag(MatFlagDiffuseAnimated) {
		anim := m.Animation
		if anim == nil {
			anim = &MapAnimation{}
		}
		w.Uint32(anim.FrameCount)
		w.Uint16(anim.Unknown0)
		w.Uint32(anim.FrameTime)
		w.Uint32(anim.Unknown1)
		w.Uint32(anim.Unknown2)
	}

	return chunk.NewRaw(ChunkMaterial, w.Bytes()), nil
}

func readColor(r *bin.Reader) (Color, error) {
	var c Color
	var err error
	if c.R, err = r.Float32(); err != nil {
		return c, err
	}
	if c.G, err = r.Float32(); err != nil {
		return c, err
	}
	if c.B, err = r.Float32(); err != nil {
		return c, err
	}
	return c, nil
}

func materialErr(index int, err error) error {
	return fmt.Errorf("material %d: %w", index, err)
}
