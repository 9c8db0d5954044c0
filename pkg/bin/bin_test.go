package bin

import (
	"errors"
	"testing"
)

func TestReader_Primitives(t *testing.T) {
	w := NewWriter()
	w.Uint8(0x12)
	w.Uint16(0x3456)
	w.Uint32(0x789abcde)
	w.Uint64(0x1122334455667788)
	w.Float32(1.5)
	w.String("maps\\city.tga")

	r := NewReader(w.Bytes())

	if v, err := r.Uint8(); err != nil || v != 0x12 {
		t.Errorf("Uint8 = %#x, %v", v, err)
	}
	if v, err := r.Uint16(); err != nil || v != 0x3456 {
		t.Errorf("Uint16 = %#x, %v", v, err)
	}
	if v, err := r.Uint32(); err != nil || v != 0x789abcde {
		t.Errorf("Uint32 = %#x, %v", v, err)
	}
	if v, err := r.Uint64(); err != nil || v != 0x1122334455667788 {
		t.Errorf("Uint64 = %#x, %v", v, err)
	}
	if v, err := r.Float32(); err != nil || v != 1.5 {
		t.Errorf("Float32 = %f, %v", v, err)
	}
	if s, err := r.String(); err != nil || s != "maps\\city.tga" {
		t.Errorf("String = %q, %v", s, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected 0 remaining, got %d", r.Remaining())
	}
}

func TestReader_Truncated(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})

	if _, err := r.Uint32(); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}

	// A failed read must not advance the cursor.
	if r.Offset() != 0 {
		t.Errorf("cursor moved on failed read: offset %d", r.Offset())
	}
	if v, err := r.Uint16(); err != nil || v != 0x0201 {
		t.Errorf("Uint16 after failed read = %#x, %v", v, err)
	}
}

func TestReader_TruncatedString(t *testing.T) {
	w := NewWriter()
	w.Uint32(100) // declares 100 bytes, none follow
	r := NewReader(w.Bytes())

	if _, err := r.String(); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestReader_EmptyString(t *testing.T) {
	w := NewWriter()
	w.String("")
	r := NewReader(w.Bytes())

	if s, err := r.String(); err != nil || s != "" {
		t.Errorf("String = %q, %v", s, err)
	}
}

func TestWriter_Patch(t *testing.T) {
	w := NewWriter()
	w.Uint32(0xdeadbeef)
	off := w.ReserveUint32()
	w.Raw([]byte{1, 2, 3, 4, 5})
	w.PatchUint32(off, 5)

	r := NewReader(w.Bytes())
	r.Skip(4)
	if v, _ := r.Uint32(); v != 5 {
		t.Errorf("patched length = %d, want 5", v)
	}
	b, _ := r.Bytes(5)
	if b[0] != 1 || b[4] != 5 {
		t.Errorf("payload corrupted by patch: %v", b)
	}
}

func TestWriter_PatchOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on out-of-range patch")
		}
	}()
	NewWriter().PatchUint32(0, 1)
}

func TestReader_SkipBounds(t *testing.T) {
	r := NewReader(make([]byte, 8))
	if err := r.Skip(8); err != nil {
		t.Fatalf("Skip(8): %v", err)
	}
	if err := r.Skip(1); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}
