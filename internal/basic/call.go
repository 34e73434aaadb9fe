package basic

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrosniff/internal/blob"
)

// Errors returned by CallTarget.
var (
	ErrNoCallToken = errors.New("call token not found")
	ErrBadArgument = errors.New("invalid call argument")
)

// CallOffset is the blob offset of the first token of the first program line.
const CallOffset = HeaderSize + lineHeaderSize

// CallTarget checks for the call token at the given blob offset and parses the
// decimal address argument following it. Spaces and an opening parenthesis
// before the number are skipped, as the BASIC interpreter does.
func CallTarget(b *blob.Blob, offset int, token byte) (uint16, error) {
	value, ok := b.Byte(offset)
	if !ok || value != token {
		return 0, fmt.Errorf("%w: expected $%02x at offset %d", ErrNoCallToken, token, offset)
	}

	offset++
	for {
		c, ok := b.Byte(offset)
		if !ok || (c != ' ' && c != '(') {
			break
		}
		offset++
	}

	target := 0
	digits := 0
	for ; ; digits++ {
		c, ok := b.Byte(offset + digits)
		if !ok || c < '0' || c > '9' {
			break
		}
		if target <= 0xffff {
			target = target*10 + int(c-'0')
		}
	}

	if digits == 0 {
		return 0, fmt.Errorf("%w: no digits at offset %d", ErrBadArgument, offset)
	}
	if target > 0xffff {
		return 0, fmt.Errorf("%w: address %d out of range", ErrBadArgument, target)
	}
	return uint16(target), nil
}
