package sniff

import (
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/format"
)

// SignatureSniffer scores a blob by magic bytes at a fixed offset and by the
// file extension.
type SignatureSniffer struct {
	Format     string
	Offset     int
	Magic      []byte
	Extensions []string
	Weights    Weights

	// Provider derives the metadata of a matching blob, optional.
	Provider format.Provider
}

// Name returns the format name.
func (s *SignatureSniffer) Name() string {
	return s.Format
}

// Sniff scores the blob.
func (s *SignatureSniffer) Sniff(b *blob.Blob) Result {
	result := Result{
		Format: s.Format,
		Stench: NewStench(),
	}
	stench := &result.Stench

	if b.Match(s.Offset, s.Magic) {
		stench.Multiply(s.Weights.MagicMatch, "signature found at offset %d", s.Offset)
	} else {
		stench.Multiply(s.Weights.MagicMiss, "signature missing at offset %d", s.Offset)
	}

	if b.HasExtension(s.Extensions...) {
		stench.Multiply(s.Weights.ExtensionMatch, "file extension matches")
	} else {
		stench.Multiply(s.Weights.ExtensionMiss, "file extension does not match")
	}

	if s.Provider != nil {
		meta, err := s.Provider.Metadata(b)
		if err != nil {
			stench.Note("no metadata: %s", err)
		} else {
			result.Meta = meta
		}
	}
	return result
}
