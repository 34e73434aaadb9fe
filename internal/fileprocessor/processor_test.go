package fileprocessor

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrosniff/internal/fixture"
	"github.com/retroenv/retrosniff/internal/options"
	"github.com/retroenv/retrosniff/internal/pipeline"
	"github.com/retroenv/retrosniff/internal/sniff"
)

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.prg", "b.prg", "c.crt"} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{0x01, 0x08}, 0o600))
	}

	files, err := GetFilesToProcess(&options.Program{Parameters: options.Parameters{Batch: filepath.Join(dir, "*.prg")}})
	assert.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = GetFilesToProcess(&options.Program{Parameters: options.Parameters{Input: "game.prg"}})
	assert.NoError(t, err)
	assert.Equal(t, []string{"game.prg"}, files)

	_, err = GetFilesToProcess(&options.Program{Parameters: options.Parameters{Batch: "[x"}})
	assert.ErrorContains(t, err, "globbing batch pattern")
}

func TestGenerateOutputFilename(t *testing.T) {
	tests := []struct {
		input  string
		asJSON bool
		want   string
	}{
		{"game.prg", false, "game.txt"},
		{"game.prg", true, "game.json"},
		{"dir/cart.crt", true, "dir/cart.json"},
		{"noext", false, "noext.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateOutputFilename(tt.input, tt.asJSON))
		})
	}
}

func TestProcessFile(t *testing.T) {
	logger := log.NewTestLogger(t)
	p, err := pipeline.New(logger, sniff.DefaultWeights(), nil)
	assert.NoError(t, err)

	dir := t.TempDir()
	input := filepath.Join(dir, "stub.prg")
	assert.NoError(t, os.WriteFile(input, fixture.StubProgram(), 0o600))

	t.Run("text", func(t *testing.T) {
		opts := options.Program{
			Parameters: options.Parameters{Input: input, Output: filepath.Join(dir, "stub.txt")},
			Command:    options.ListCommand,
		}
		assert.NoError(t, ProcessFile(context.Background(), logger, p, opts))

		data, err := os.ReadFile(opts.Output)
		assert.NoError(t, err)
		text := string(data)
		assert.Contains(t, text, "format: c64-stub (score 16)")
		assert.Contains(t, text, "entry:  $080d start")
		assert.Contains(t, text, "reached return")
		assert.Contains(t, text, "sta $d020")
	})

	t.Run("json", func(t *testing.T) {
		opts := options.Program{
			Parameters: options.Parameters{Input: input, Output: filepath.Join(dir, "stub.json")},
			Flags:      options.Flags{JSON: true},
			Command:    options.TraceCommand,
		}
		assert.NoError(t, ProcessFile(context.Background(), logger, p, opts))

		data, err := os.ReadFile(opts.Output)
		assert.NoError(t, err)

		var report pipeline.Report
		assert.NoError(t, json.Unmarshal(data, &report))
		assert.Equal(t, "c64-stub", report.Format)
		assert.NotNil(t, report.Trace)
		assert.Equal(t, []uint16{0xd020, 0xd021}, report.Trace.Writes)
	})

	t.Run("missing input", func(t *testing.T) {
		opts := options.Program{Parameters: options.Parameters{Input: filepath.Join(dir, "missing.prg")}}
		assert.Error(t, ProcessFile(context.Background(), logger, p, opts))
	})
}

func TestWriteReportProgram(t *testing.T) {
	report := &pipeline.Report{
		File:   "hello.prg",
		Size:   20,
		Format: "c64-basic",
		Score:  2,
		Program: []pipeline.ProgramLine{
			{Address: 0x0801, Number: 10, Text: `PRINT"HELLO"`},
			{Address: 0x080f, Number: 20, Text: "GOTO10"},
		},
	}

	var buf bytes.Buffer
	assert.NoError(t, WriteReport(&buf, report, options.Program{}))
	assert.True(t, strings.HasSuffix(buf.String(), "10 PRINT\"HELLO\"\n20 GOTO10\n"))
}
