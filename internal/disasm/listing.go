package disasm

import (
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/format"
)

// Listing disassembles the content of the blob linearly from the content
// offset to the end. Bytes that can not be decoded become one byte literals.
func (d *Decoder) Listing(b *blob.Blob) []Instruction {
	var result []Instruction

	for offset := d.meta.ContentOffset; offset < d.meta.EndOffset(); {
		address, _ := d.meta.Address(offset)

		ins, err := d.Decode(b, address)
		if err != nil {
			value, _ := b.Slice(offset, 1)
			ins = Instruction{
				Address: address,
				Offset:  offset,
				Edict:   &format.Edict{Kind: format.ByteEdict, Width: 1},
				data:    value,
			}
		}

		result = append(result, ins)
		offset += ins.Len()
	}

	return result
}
