package basic

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/fixture"
)

func TestDecodePrintProgram(t *testing.T) {
	b := blob.New("print.prg", fixture.PrintProgram(), nil)

	prg, err := Decode(b, V2)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0801), prg.LoadAddress)
	assert.True(t, prg.Terminated)
	assert.Len(t, prg.Lines, 1)

	line := prg.Lines[0]
	assert.Equal(t, uint16(10), line.Number)
	assert.Equal(t, uint16(0x0807), line.Next)
	assert.Equal(t, uint16(0x0801), line.Address)
	assert.Equal(t, 6, line.Len)
	assert.Len(t, line.Elements, 1)
	assert.Equal(t, TokenElement, line.Elements[0].Kind)
	assert.Equal(t, "PRINT", line.Elements[0].Keyword)

	assert.Equal(t, 8, prg.Size)
	assert.Equal(t, 8, prg.EndOffset)
	assert.Equal(t, 0, prg.Trailing(b))
	assert.Equal(t, 0, prg.LineNumberDecreases())
	assert.Equal(t, 0, prg.LinkDecreases())
	assert.Equal(t, 0, prg.LinkMismatches())
}

func TestDecodeElements(t *testing.T) {
	content := []byte{
		TokenPrint, '"', 0x99, 'A', '"', ':', // token inside quotes stays literal
		TokenData, '1', 0xaa, ',', '2', ':', // data body stays literal until colon
		TokenRem, 0x99, 0xff, // comment stays literal
	}
	data := fixture.Program(0x0801, fixture.Line{Number: 20, Content: content})
	b := blob.New("elements.prg", data, nil)

	prg, err := Decode(b, V2)
	assert.NoError(t, err)
	assert.Len(t, prg.Lines, 1)

	elements := prg.Lines[0].Elements
	assert.Len(t, elements, 6)
	assert.Equal(t, "PRINT", elements[0].Keyword)
	assert.Equal(t, []byte{'"', 0x99, 'A', '"', ':'}, elements[1].Bytes)
	assert.Equal(t, "DATA", elements[2].Keyword)
	assert.Equal(t, []byte{'1', 0xaa, ',', '2', ':'}, elements[3].Bytes)
	assert.Equal(t, "REM", elements[4].Keyword)
	assert.Equal(t, []byte{0x99, 0xff}, elements[5].Bytes)
}

func TestDecodeV7EscapeTokens(t *testing.T) {
	data := fixture.Program(0x1c01,
		fixture.Line{Number: 10, Content: []byte{0xfe, 0x25}},     // FAST
		fixture.Line{Number: 20, Content: []byte{0xce, 0x02, '('}}, // POT(
	)
	b := blob.New("fast.prg", data, nil)

	prg, err := Decode(b, V7)
	assert.NoError(t, err)
	assert.Len(t, prg.Lines, 2)
	assert.Equal(t, "FAST", prg.Lines[0].Elements[0].Keyword)
	assert.Equal(t, "POT", prg.Lines[1].Elements[0].Keyword)

	// the same bytes are not valid for BASIC V2
	_, err = Decode(b, V2)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestDecodeV4DiskCommands(t *testing.T) {
	data := fixture.Program(0x0401,
		fixture.Line{Number: 10, Content: []byte{0xd7}},           // CATALOG
		fixture.Line{Number: 20, Content: []byte{0xda, ' ', 'D'}}, // DIRECTORY D
	)
	b := blob.New("disk.prg", data, nil)

	prg, err := Decode(b, V4)
	assert.NoError(t, err)
	assert.Len(t, prg.Lines, 2)
	assert.Equal(t, "CATALOG", prg.Lines[0].Elements[0].Keyword)
	assert.Equal(t, "DIRECTORY", prg.Lines[1].Elements[0].Keyword)

	// the shared tokens below 0xcc keep their BASIC 2 meaning
	keyword, ok := V4.Keyword(TokenSys)
	assert.True(t, ok)
	assert.Equal(t, "SYS", keyword)

	_, err = Decode(b, V2)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"missing load address", []byte{0x01}},
		{"truncated pointer", []byte{0x01, 0x08, 0x07}},
		{"truncated line number", []byte{0x01, 0x08, 0x07, 0x08, 0x0a}},
		{"unterminated line", []byte{0x01, 0x08, 0x07, 0x08, 0x0a, 0x00, 0x99}},
		{"invalid token", []byte{0x01, 0x08, 0x07, 0x08, 0x0a, 0x00, 0xcc, 0x00, 0x00, 0x00}},
		{"pointer below load address", []byte{0x01, 0x08, 0x00, 0x07, 0x0a, 0x00, 0x99, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(blob.New("bad.prg", tt.data, nil), V2)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}

func TestDecodeUnterminatedProgram(t *testing.T) {
	data := fixture.PrintProgram()
	data = data[:len(data)-2] // strip end marker

	prg, err := Decode(blob.New("noend.prg", data, nil), V2)
	assert.NoError(t, err)
	assert.False(t, prg.Terminated)
	assert.Len(t, prg.Lines, 1)
	assert.Equal(t, 6, prg.Size)
}

func TestProgramChecks(t *testing.T) {
	t.Run("decreasing line numbers", func(t *testing.T) {
		data := fixture.Program(0x0801,
			fixture.Line{Number: 20, Content: []byte{TokenPrint}},
			fixture.Line{Number: 10, Content: []byte{TokenPrint}},
			fixture.Line{Number: 10, Content: []byte{TokenPrint}},
		)
		prg, err := Decode(blob.New("x.prg", data, nil), V2)
		assert.NoError(t, err)
		assert.Equal(t, 2, prg.LineNumberDecreases())
		assert.Equal(t, 0, prg.LinkDecreases())
	})

	t.Run("backwards links", func(t *testing.T) {
		data := fixture.Program(0x0801,
			fixture.Line{Number: 10, Content: []byte{TokenPrint}},
			fixture.Line{Number: 20, Content: []byte{TokenPrint}},
		)
		data[8] = 0x02 // second line links to $0802
		data[9] = 0x08
		prg, err := Decode(blob.New("x.prg", data, nil), V2)
		assert.NoError(t, err)
		assert.Equal(t, 1, prg.LinkDecreases())
		assert.Equal(t, 1, prg.LinkMismatches())
	})

	t.Run("trailing machine code", func(t *testing.T) {
		b := blob.New("stub.prg", fixture.StubProgram(), nil)
		prg, err := Decode(b, V2)
		assert.NoError(t, err)
		assert.Equal(t, 12, prg.Size)
		assert.Equal(t, len(fixture.StubCode), prg.Trailing(b))
		assert.Equal(t, uint16(0x080d), prg.EndAddress())
	})
}

func TestCallTarget(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    uint16
		err     error
	}{
		{"plain", []byte{TokenSys, '2', '0', '6', '1'}, 2061, nil},
		{"space", []byte{TokenSys, ' ', '4', '9', '1', '5', '2'}, 49152, nil},
		{"parenthesis", []byte{TokenSys, '(', '2', '0', '6', '4', ')'}, 2064, nil},
		{"no token", []byte{TokenPrint, '1'}, 0, ErrNoCallToken},
		{"no digits", []byte{TokenSys, 'A'}, 0, ErrBadArgument},
		{"out of range", []byte{TokenSys, '9', '9', '9', '9', '9'}, 0, ErrBadArgument},
		{"six digits", []byte{TokenSys, '2', '0', '8', '6', '1', '0'}, 0, ErrBadArgument},
		{"leading zeros", []byte{TokenSys, '0', '0', '2', '0', '6', '1'}, 2061, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := fixture.Program(0x0801, fixture.Line{Number: 10, Content: tt.content})
			target, err := CallTarget(blob.New("x.prg", data, nil), CallOffset, TokenSys)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, target)
		})
	}
}
