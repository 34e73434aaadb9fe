// Package detector selects the formats that are considered for a file.
package detector

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrosniff/internal/machine"
	"github.com/retroenv/retrosniff/internal/options"
	"github.com/retroenv/retrosniff/internal/sniff"
)

// Detector narrows the registered sniffers down using the format and machine options.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect returns the sniffers to run for the options. An explicit format takes
// precedence over a machine, without either all sniffers are returned.
func (d *Detector) Detect(opts options.Program, registry *sniff.Registry) (*sniff.Registry, error) {
	switch {
	case opts.Format != "":
		format := strings.ToLower(opts.Format)
		selected := registry.Select(func(s sniff.Sniffer) bool {
			return s.Name() == format
		})
		if selected.Len() == 0 {
			return nil, fmt.Errorf("unsupported format '%s'", opts.Format)
		}
		return selected, nil

	case opts.Machine != "":
		m, ok := machine.ByName(strings.ToLower(opts.Machine))
		if !ok {
			return nil, fmt.Errorf("unsupported machine '%s', valid options: %s",
				opts.Machine, strings.Join(machine.Names(), ", "))
		}
		selected := registry.Select(func(s sniff.Sniffer) bool {
			return MachineOf(s.Name()).Name == m.Name
		})
		d.logger.Debug("Selected machine",
			log.String("machine", m.Name),
			log.Int("formats", selected.Len()))
		return selected, nil

	default:
		return registry, nil
	}
}

// MachineOf returns the machine configuration that a format name belongs to.
// The longest matching machine name wins as names like vic20-3k share a prefix.
// Container formats without machine prefix belong to the C64.
func MachineOf(format string) machine.Machine {
	result := machine.C64
	matched := 0
	for _, m := range machine.All {
		if strings.HasPrefix(format, m.Name+"-") && len(m.Name) > matched {
			result = m
			matched = len(m.Name)
		}
	}
	return result
}
