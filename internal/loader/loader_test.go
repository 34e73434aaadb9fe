package loader

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load program file", func(t *testing.T) {
		tmpFile := createTempFile(t, "game.prg", []byte{0x01, 0x08, 0x0b, 0x08})

		b, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Equal(t, "game.prg", b.Name())
		assert.Equal(t, 4, b.Len())
		assert.Equal(t, binary.ByteOrder(binary.LittleEndian), b.Order())

		word, ok := b.Word(0)
		assert.True(t, ok)
		assert.Equal(t, uint16(0x0801), word)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := New().Load(filepath.Join(t.TempDir(), "missing.prg"))
		assert.ErrorContains(t, err, "opening file")
	})

	t.Run("file too large", func(t *testing.T) {
		_, err := New().LoadReader("big.bin", bytes.NewReader(make([]byte, MaxSize+1)))
		assert.ErrorContains(t, err, "maximum size")
	})

	t.Run("empty file", func(t *testing.T) {
		b, err := New().LoadReader("empty.bin", bytes.NewReader(nil))
		assert.NoError(t, err)
		assert.Equal(t, 0, b.Len())
	})
}

func createTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}
