package detector

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrosniff/internal/arch/m6502"
	"github.com/retroenv/retrosniff/internal/options"
	"github.com/retroenv/retrosniff/internal/sniff"
)

//nolint:funlen // test functions can be long
func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	registry, err := sniff.DefaultRegistry(logger, sniff.DefaultWeights(), m6502.MustModel(), nil)
	assert.NoError(t, err)
	d := New(logger)

	tests := []struct {
		name    string
		opts    options.Program
		formats []string
		wantErr string
	}{
		{
			name:    "explicit format",
			opts:    options.Program{Flags: options.Flags{Format: "C64-Stub"}},
			formats: []string{"c64-stub"},
		},
		{
			name:    "machine",
			opts:    options.Program{Flags: options.Flags{Machine: "vic20"}},
			formats: []string{"vic20-basic", "vic20-stub", "vic20-cartridge"},
		},
		{
			name:    "expanded machine",
			opts:    options.Program{Flags: options.Flags{Machine: "vic20-3k"}},
			formats: []string{"vic20-3k-basic", "vic20-3k-stub"},
		},
		{
			name:    "crt belongs to c64",
			opts:    options.Program{Flags: options.Flags{Machine: "c64"}},
			formats: []string{"c64-basic", "c64-stub", "c64-cartridge", "crt"},
		},
		{
			name:    "unknown format",
			opts:    options.Program{Flags: options.Flags{Format: "d64"}},
			wantErr: "unsupported format",
		},
		{
			name:    "unknown machine",
			opts:    options.Program{Flags: options.Flags{Machine: "amiga"}},
			wantErr: "unsupported machine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected, err := d.Detect(tt.opts, registry)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)

			sniffers := selected.Sniffers()
			assert.Len(t, sniffers, len(tt.formats))
			for i, s := range sniffers {
				assert.Equal(t, tt.formats[i], s.Name())
			}
		})
	}

	t.Run("no options selects all", func(t *testing.T) {
		selected, err := d.Detect(options.Program{}, registry)
		assert.NoError(t, err)
		assert.Equal(t, registry.Len(), selected.Len())
	})
}

func TestMachineOf(t *testing.T) {
	tests := []struct {
		format  string
		machine string
	}{
		{"c64-stub", "c64"},
		{"vic20-basic", "vic20"},
		{"vic20-3k-stub", "vic20-3k"},
		{"vic20-8k-basic", "vic20-8k"},
		{"crt", "c64"},
		{"plus4-stub", "plus4"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.machine, MachineOf(tt.format).Name)
	}
}
