package sniff

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrosniff/internal/arch"
	"github.com/retroenv/retrosniff/internal/format"
	"github.com/retroenv/retrosniff/internal/machine"
	"github.com/retroenv/retrosniff/internal/symbols"
)

// Format name suffixes.
const (
	BasicSuffix     = "basic"
	StubSuffix      = "stub"
	CartridgeSuffix = "cartridge"
	CRTFormat       = "crt"
)

// FormatName returns the format name of a machine and a format kind.
func FormatName(m machine.Machine, suffix string) string {
	return fmt.Sprintf("%s-%s", m.Name, suffix)
}

// DefaultRegistry registers a loader and a stub sniffer for every machine
// configuration, raw cartridge sniffers for machines with autostart cartridges
// and the CRT container sniffer. The passed symbol table is merged with the
// KERNAL labels of every machine.
func DefaultRegistry(logger *log.Logger, weights Weights, model *arch.Model, table *symbols.Table) (*Registry, error) {
	r := NewRegistry(logger, weights)

	for _, m := range machine.All {
		machineSymbols := m.Symbols().Merge(table)

		sniffers := []Sniffer{
			&LoaderSniffer{
				Format:  FormatName(m, BasicSuffix),
				Machine: m,
				Weights: weights,
			},
			&StubSniffer{
				Format:  FormatName(m, StubSuffix),
				Machine: m,
				Weights: weights,
				Model:   model,
				Symbols: machineSymbols,
				Logger:  logger,
			},
		}

		if m.CartridgeBase != 0 {
			name := FormatName(m, CartridgeSuffix)
			sniffers = append(sniffers, &SignatureSniffer{
				Format:     name,
				Offset:     format.SignatureOffset,
				Magic:      m.CartridgeSignature,
				Extensions: []string{".bin", ".rom"},
				Weights:    weights,
				Provider: format.CartridgeProvider{
					Format:    name,
					Base:      m.CartridgeBase,
					Signature: m.CartridgeSignature,
					Symbols:   machineSymbols,
				},
			})
		}

		for _, s := range sniffers {
			if err := r.Register(s); err != nil {
				return nil, err
			}
		}
	}

	crt := &SignatureSniffer{
		Format:     CRTFormat,
		Offset:     0,
		Magic:      []byte(format.CRTMagic),
		Extensions: []string{".crt"},
		Weights:    weights,
		Provider: format.CRTProvider{
			Format:    CRTFormat,
			Signature: machine.C64.CartridgeSignature,
			Symbols:   machine.C64.Symbols().Merge(table),
		},
	}
	if err := r.Register(crt); err != nil {
		return nil, err
	}
	return r, nil
}
