// Package basic decodes tokenized Commodore BASIC programs into logical lines.
//
// A program starts with a 2 byte load address, followed by lines of the form
//
//	next line pointer (word) | line number (word) | tokenized content | 0x00
//
// and ends with a zero next line pointer.
package basic

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrosniff/internal/blob"
)

// ErrMalformed is wrapped by all errors that indicate that the bytes are not a
// valid tokenized program.
var ErrMalformed = errors.New("malformed program")

// HeaderSize is the size of the load address that precedes the program.
const HeaderSize = 2

const lineHeaderSize = 4 // next line pointer and line number

// ElementKind defines the type of a line content element.
type ElementKind int

// Element kinds.
const (
	LiteralElement ElementKind = iota
	TokenElement
)

// Element is a run of literal bytes or a single keyword token.
type Element struct {
	Kind    ElementKind
	Bytes   []byte
	Keyword string // set for tokens only
}

// Line is a decoded logical program line.
type Line struct {
	Address  uint16 // memory address of the next line pointer
	Offset   int    // blob offset of the next line pointer
	Next     uint16 // next line pointer as stored
	Number   uint16
	Elements []Element
	Len      int // bytes including pointer, number and terminator
}

// EndAddress returns the memory address following the line terminator.
func (l Line) EndAddress() uint16 {
	return l.Address + uint16(l.Len)
}

// Program is a decoded tokenized program.
type Program struct {
	Dialect     *Dialect
	LoadAddress uint16
	Lines       []Line

	Terminated bool // program ends with a zero next line pointer
	EndOffset  int  // blob offset of the zero pointer or the blob length
	Size       int  // decoded bytes following the load address
}

// Decode decodes the program contained in the blob.
func Decode(b *blob.Blob, dialect *Dialect) (*Program, error) {
	load, ok := b.Word(0)
	if !ok {
		return nil, fmt.Errorf("%w: missing load address", ErrMalformed)
	}

	prg := &Program{
		Dialect:     dialect,
		LoadAddress: load,
	}

	offset := HeaderSize
	for offset < b.Len() {
		if offset-HeaderSize > 0xffff-int(load) {
			return nil, fmt.Errorf("%w: program exceeds address space at offset %d", ErrMalformed, offset)
		}

		next, ok := b.Word(offset)
		if !ok {
			return nil, fmt.Errorf("%w: truncated next line pointer at offset %d", ErrMalformed, offset)
		}
		if next == 0 {
			prg.Terminated = true
			prg.EndOffset = offset
			offset += 2
			break
		}
		if next < load {
			return nil, fmt.Errorf("%w: next line pointer $%04x below load address $%04x at offset %d",
				ErrMalformed, next, load, offset)
		}

		number, ok := b.Word(offset + 2)
		if !ok {
			return nil, fmt.Errorf("%w: truncated line number at offset %d", ErrMalformed, offset+2)
		}

		elements, end, err := decodeLine(b, offset+lineHeaderSize, dialect)
		if err != nil {
			return nil, fmt.Errorf("decoding line %d: %w", number, err)
		}

		prg.Lines = append(prg.Lines, Line{
			Address:  load + uint16(offset-HeaderSize),
			Offset:   offset,
			Next:     next,
			Number:   number,
			Elements: elements,
			Len:      end - offset,
		})
		offset = end
	}

	if !prg.Terminated {
		prg.EndOffset = offset
	}
	prg.Size = offset - HeaderSize
	return prg, nil
}

// decodeLine decodes the line content starting at offset and returns the elements
// and the offset following the line terminator.
func decodeLine(b *blob.Blob, offset int, dialect *Dialect) ([]Element, int, error) {
	var (
		elements []Element
		literal  []byte
		quote    bool // inside a string
		rest     bool // rest of line is a comment
		data     bool // inside a DATA statement
	)

	flush := func() {
		if len(literal) > 0 {
			elements = append(elements, Element{Kind: LiteralElement, Bytes: literal})
			literal = nil
		}
	}

	buf := b.Bytes()
	for ; offset < len(buf); offset++ {
		c := buf[offset]
		switch {
		case c == 0:
			flush()
			return elements, offset + 1, nil

		case quote:
			literal = append(literal, c)
			quote = c != '"'

		case rest:
			literal = append(literal, c)

		case c == '"':
			literal = append(literal, c)
			quote = true

		case data:
			literal = append(literal, c)
			data = c != ':'

		case c < 0x80:
			literal = append(literal, c)

		case dialect.IsEscape(c):
			if offset+1 >= len(buf) {
				return nil, 0, fmt.Errorf("%w: truncated token $%02x at offset %d", ErrMalformed, c, offset)
			}
			token := buf[offset+1]
			keyword, ok := dialect.EscapedKeyword(c, token)
			if !ok {
				return nil, 0, fmt.Errorf("%w: invalid token $%02x%02x at offset %d", ErrMalformed, c, token, offset)
			}
			flush()
			elements = append(elements, Element{Kind: TokenElement, Bytes: []byte{c, token}, Keyword: keyword})
			offset++

		default:
			keyword, ok := dialect.Keyword(c)
			if !ok {
				return nil, 0, fmt.Errorf("%w: invalid token $%02x at offset %d", ErrMalformed, c, offset)
			}
			flush()
			elements = append(elements, Element{Kind: TokenElement, Bytes: []byte{c}, Keyword: keyword})
			rest = c == TokenRem
			data = c == TokenData
		}
	}

	return nil, 0, fmt.Errorf("%w: line is not terminated before offset %d", ErrMalformed, offset)
}

// LineNumberDecreases returns the number of lines whose line number is not
// greater than the one of the previous line.
func (p *Program) LineNumberDecreases() int {
	count := 0
	for i := 1; i < len(p.Lines); i++ {
		if p.Lines[i].Number <= p.Lines[i-1].Number {
			count++
		}
	}
	return count
}

// LinkDecreases returns the number of next line pointers that do not point
// forward of the previous pointer.
func (p *Program) LinkDecreases() int {
	count := 0
	previous := p.LoadAddress
	for _, line := range p.Lines {
		if line.Next <= previous {
			count++
		}
		previous = line.Next
	}
	return count
}

// LinkMismatches returns the number of next line pointers that do not point to
// the address directly following the line.
func (p *Program) LinkMismatches() int {
	count := 0
	for _, line := range p.Lines {
		if line.Next != line.EndAddress() {
			count++
		}
	}
	return count
}

// Trailing returns the number of blob bytes that follow the decoded program.
func (p *Program) Trailing(b *blob.Blob) int {
	trailing := b.Len() - HeaderSize - p.Size
	if trailing < 0 {
		return 0
	}
	return trailing
}

// EndAddress returns the memory address following the decoded program.
func (p *Program) EndAddress() uint16 {
	return p.LoadAddress + uint16(p.Size)
}
