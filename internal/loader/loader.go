// Package loader handles loading files into blobs.
package loader

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/retrosniff/internal/blob"
)

// MaxSize is the largest file that is loaded, all supported formats fit into
// the 64K address space plus container headers.
const MaxSize = 1 << 20

// Loader handles loading files from disk.
type Loader struct{}

// New creates a new file loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the file into a little endian blob named after the file.
func (l *Loader) Load(path string) (*blob.Blob, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	b, err := l.LoadReader(filepath.Base(path), file)
	if err != nil {
		return nil, fmt.Errorf("loading file %s: %w", path, err)
	}
	return b, nil
}

// LoadReader reads all data of the reader into a little endian blob.
func (l *Loader) LoadReader(name string, reader io.Reader) (*blob.Blob, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("file exceeds maximum size of %d bytes", MaxSize)
	}
	return blob.New(name, data, binary.LittleEndian), nil
}
