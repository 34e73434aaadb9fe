package disasm

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrosniff/internal/arch"
	"github.com/retroenv/retrosniff/internal/arch/m6502"
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/format"
)

var model = m6502.MustModel()

func newDecoder(data []byte, base uint16) (*Decoder, *blob.Blob) {
	b := blob.New("test.bin", data, nil)
	meta := format.NewMetadata("test", base, 0, b.Len())
	return New(model, meta), b
}

//nolint:funlen // test functions can be long
func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		address uint16
		mnem    string
		length  int
		target  uint16
		hasDest bool
	}{
		{"implied", []byte{0xe8}, 0x1000, "inx", 1, 0, false},
		{"immediate", []byte{0xa9, 0x10}, 0x1000, "lda", 2, 0, false},
		{"zero page", []byte{0x85, 0xfb}, 0x1000, "sta", 2, 0x00fb, true},
		{"absolute", []byte{0x8d, 0x20, 0xd0}, 0x1000, "sta", 3, 0xd020, true},
		{"indirect jump", []byte{0x6c, 0x34, 0x12}, 0x1000, "jmp", 3, 0x1234, true},
		{"branch forward", []byte{0xd0, 0x02}, 0x1000, "bne", 2, 0x1004, true},
		{"branch backward", []byte{0xd0, 0xfd}, 0x1000, "bne", 2, 0x0fff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, b := newDecoder(tt.data, tt.address)

			ins, err := dec.Decode(b, tt.address)
			assert.NoError(t, err)
			assert.False(t, ins.IsData())
			assert.Equal(t, tt.mnem, ins.Name())
			assert.Equal(t, tt.length, ins.Len())
			assert.Equal(t, tt.address+uint16(tt.length), ins.NextAddress())

			target, ok := ins.Target()
			assert.Equal(t, tt.hasDest, ok)
			assert.Equal(t, tt.target, target)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Run("out of range", func(t *testing.T) {
		dec, b := newDecoder([]byte{0xea}, 0x1000)

		_, err := dec.Decode(b, 0x1001)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		_, err = dec.Decode(b, 0x0fff)
		assert.True(t, errors.Is(err, ErrOutOfRange))
	})

	t.Run("truncated operand", func(t *testing.T) {
		dec, b := newDecoder([]byte{0x8d, 0x20}, 0x1000)

		_, err := dec.Decode(b, 0x1000)
		assert.True(t, errors.Is(err, ErrOutOfRange))
	})

	t.Run("unknown opcode", func(t *testing.T) {
		b := blob.New("test.bin", []byte{0x60}, nil)
		meta := format.NewMetadata("test", 0x1000, 0, 1)
		empty, err := arch.NewModel("empty", nil)
		assert.NoError(t, err)

		_, err = New(empty, meta).Decode(b, 0x1000)
		assert.True(t, errors.Is(err, ErrUnknownOpcode))
	})
}

func TestDecodeEdict(t *testing.T) {
	data := []byte{0x09, 0x80, 0xc3, 0xc2, 0xcd, 0x38, 0x30, 0x60}
	b := blob.New("cart.bin", data, nil)
	meta := format.NewMetadata("test", 0x8000, 0, b.Len())
	meta.AddEdict(2, format.Edict{Kind: format.TextEdict, Width: 5, Label: "signature"})
	dec := New(model, meta)

	ins, err := dec.Decode(b, 0x8002)
	assert.NoError(t, err)
	assert.True(t, ins.IsData())
	assert.Equal(t, "text", ins.Name())
	assert.Equal(t, 5, ins.Len())
	assert.Equal(t, "signature", ins.Edict.Label)
	_, ok := ins.Target()
	assert.False(t, ok)

	// without edict the same bytes decode as instructions
	ins, err = dec.Decode(b, 0x8004)
	assert.NoError(t, err)
	assert.False(t, ins.IsData())
	assert.Equal(t, "cmp", ins.Name())
}

func TestListing(t *testing.T) {
	// load address header, lda #$00, a truncated sta
	data := []byte{0x00, 0xc0, 0xa9, 0x00, 0x8d, 0x20}
	b := blob.New("test.prg", data, nil)
	meta := format.NewMetadata("test", 0xc000, 2, b.Len())
	dec := New(model, meta)

	listing := dec.Listing(b)
	assert.Len(t, listing, 3)

	assert.Equal(t, "lda", listing[0].Name())
	assert.Equal(t, uint16(0xc000), listing[0].Address)
	assert.Equal(t, 2, listing[0].Offset)

	assert.True(t, listing[1].IsData())
	assert.Equal(t, uint16(0xc002), listing[1].Address)
	assert.Equal(t, []byte{0x8d}, listing[1].Bytes())

	assert.True(t, listing[2].IsData())
	assert.Equal(t, uint16(0xc003), listing[2].Address)
}
