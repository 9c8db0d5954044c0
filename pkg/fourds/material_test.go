package fourds

import (
	"errors"
	"testing"

	"github.com/Faultbox/ls3d-tools/pkg/bin"
	"github.com/Faultbox/ls3d-tools/pkg/chunk"
)

func TestMaterial_DecodeFlagGatedSlots(t *testing.T) {
	flags := MatFlagDiffuseMapping | MatFlagEnvironmentMapping | MatFlagAlphaMapping

	w := bin.NewWriter()
	w.Uint32(flags)
	w.Uint8(uint8(BlendAlphaBlended))
	for i := 0; i < 9; i++ {
		w.Float32(0.5)
	}
	w.Float32(8)   // specular power
	w.Float32(0.9) // opacity
	w.Float32(0.3) // reflection
	w.String("env.tga")
	w.String("wall.tga")
	w.String("wall_a.tga")

	m, err := decodeMaterial(0, w.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.EnvMap != "env.tga" || m.DiffuseMap != "wall.tga" || m.AlphaMap != "wall_a.tga" {
		t.Errorf("slots = %q %q %q", m.EnvMap, m.DiffuseMap, m.AlphaMap)
	}
	if m.Blend != BlendAlphaBlended {
		t.Errorf("blend = %s", m.Blend)
	}
	if m.Opacity != 0.9 || m.Reflection != 0.3 {
		t.Errorf("opacity %v, reflection %v", m.Opacity, m.Reflection)
	}
	if m.Animation != nil {
		t.Error("animation record appeared without its flag")
	}

	if got := m.TextureSlots(); len(got) != 3 {
		t.Errorf("texture slots = %v", got)
	}
}

func TestMaterial_DiffuseAlphaSharesSlot(t *testing.T) {
	// With the diffuse-alpha flag, the alpha channel lives in the diffuse
	// texture and no separate alpha string is on the wire.
	flags := MatFlagDiffuseMapping | MatFlagAlphaMapping | MatFlagDiffuseAlpha

	w := bin.NewWriter()
	w.Uint32(flags)
	w.Uint8(uint8(BlendAlphaTested))
	for i := 0; i < 12; i++ {
		w.Float32(1)
	}
	w.String("leaves.tga")

	m, err := decodeMaterial(0, w.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.DiffuseMap != "leaves.tga" || m.AlphaMap != "" {
		t.Errorf("slots = %q %q", m.DiffuseMap, m.AlphaMap)
	}
}

func TestMaterial_AnimationRoundTrip(t *testing.T) {
	m := &Material{
		Flags:      MatFlagDiffuseMapping | MatFlagDiffuseAnimated,
		Diffuse:    Color{R: 1, G: 1, B: 1},
		Opacity:    1,
		DiffuseMap: "water00.tga",
		Animation: &MapAnimation{
			FrameCount: 8,
			FrameTime:  120,
			Unknown1:   1,
		},
	}

	c, err := encodeMaterial(0, m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeMaterial(0, c.Raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Animation == nil {
		t.Fatal("animation record lost")
	}
	if *got.Animation != *m.Animation {
		t.Errorf("animation = %+v, want %+v", *got.Animation, *m.Animation)
	}
}

func TestMaterial_EncodeRejectsUnknownBlend(t *testing.T) {
	_, err := encodeMaterial(0, &Material{Blend: BlendMode(7)})
	if !errors.Is(err, ErrUnsupportedBlendMode) {
		t.Errorf("err = %v, want ErrUnsupportedBlendMode", err)
	}
}

func TestMaterial_TrailingBytesRejected(t *testing.T) {
	c, err := encodeMaterial(0, &Material{Opacity: 1})
	if err != nil {
		t.Fatal(err)
	}
	payload := append(append([]byte(nil), c.Raw...), 0xAA)
	if _, err := decodeMaterial(0, payload); !errors.Is(err, chunk.ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestMaterial_Truncated(t *testing.T) {
	c, err := encodeMaterial(0, &Material{Flags: MatFlagDiffuseMapping, DiffuseMap: "a.tga"})
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{0, 3, 4, 20, len(c.Raw) - 1} {
		if _, err := decodeMaterial(0, c.Raw[:n]); !errors.Is(err, bin.ErrTruncated) {
			t.Errorf("prefix %d: err = %v, want ErrTruncated", n, err)
		}
	}
}

func TestMaterial_UVChannelsRequired(t *testing.T) {
	cases := []struct {
		flags uint32
		want  int
	}{
		{0, 0},
		{MatFlagDiffuseMapping, 1},
		{MatFlagEnvironmentMapping, 0},
		{MatFlagAlphaMapping, 1},
		{MatFlagAlphaMapping | MatFlagDiffuseAlpha, 0},
		{MatFlagDiffuseMapping | MatFlagEnvironmentMapping, 1},
	}
	for _, tc := range cases {
		m := &Material{Flags: tc.flags}
		if got := m.UVChannelsRequired(); got != tc.want {
			t.Errorf("flags %#x: required = %d, want %d", tc.flags, got, tc.want)
		}
	}
}
