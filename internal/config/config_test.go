package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrosniff/internal/sniff"
)

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
	assert.NotNil(t, CreateLogger(false, false))
}

func TestParseWeights(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		check   func(t *testing.T, w sniff.Weights)
	}{
		{
			name:  "overlay single value",
			input: `{"trace_confirmed": 8, "min_stub_size": 32}`,
			check: func(t *testing.T, w sniff.Weights) {
				t.Helper()
				assert.Equal(t, 8.0, w.TraceConfirmed)
				assert.Equal(t, 32, w.MinStubSize)
				assert.Equal(t, sniff.DefaultWeights().MagicMatch, w.MagicMatch)
			},
		},
		{
			name:    "unknown key",
			input:   `{"trace_confirm": 8}`,
			wantErr: "unknown field",
		},
		{
			name:    "negative weight",
			input:   `{"too_small": -0.5}`,
			wantErr: "negative weight",
		},
		{
			name:    "invalid json",
			input:   `{`,
			wantErr: "decoding weights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := sniff.DefaultWeights()
			err := ParseWeights([]byte(tt.input), &w)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			tt.check(t, w)
		})
	}
}

func TestLoadWeights(t *testing.T) {
	w, err := LoadWeights("")
	assert.NoError(t, err)
	assert.Equal(t, sniff.DefaultWeights(), w)

	path := filepath.Join(t.TempDir(), "weights.json")
	assert.NoError(t, os.WriteFile(path, []byte(`{"close_ratio": 0.5}`), 0o600))
	w, err = LoadWeights(path)
	assert.NoError(t, err)
	assert.Equal(t, 0.5, w.CloseRatio)

	_, err = LoadWeights(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "reading weights file")
}

func TestParseSymbols(t *testing.T) {
	table, err := ParseSymbols([]byte(`{"c000": "init", "$0810": "main", "0xFFD2": "print"}`))
	assert.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	label, ok := table.Label(0xc000)
	assert.True(t, ok)
	assert.Equal(t, "init", label)
	label, _ = table.Label(0x0810)
	assert.Equal(t, "main", label)
	label, _ = table.Label(0xffd2)
	assert.Equal(t, "print", label)

	_, err = ParseSymbols([]byte(`{"10000": "overflow"}`))
	assert.ErrorContains(t, err, "invalid address")

	table, err = LoadSymbols("")
	assert.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}
