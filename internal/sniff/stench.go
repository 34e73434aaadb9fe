// Package sniff implements the heuristic sniffers that score how well a blob
// matches a format, and the registry that selects the best match.
package sniff

import (
	"fmt"

	"github.com/retroenv/retrosniff/internal/basic"
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/format"
	"github.com/retroenv/retrosniff/internal/trace"
)

// Stench is the confidence score of a sniffer for one format plus the
// diagnostics that explain it. It starts at 1 and is only changed by
// multiplication, so one strongly disconfirming signal suppresses the score.
type Stench struct {
	Score    float64  `json:"score"`
	Messages []string `json:"messages,omitempty"`
}

// NewStench returns a neutral stench.
func NewStench() Stench {
	return Stench{Score: 1}
}

// Multiply applies a factor to the score and records the reason.
func (s *Stench) Multiply(factor float64, reason string, args ...any) {
	s.Score *= factor
	s.Messages = append(s.Messages, fmt.Sprintf("x%g %s", factor, fmt.Sprintf(reason, args...)))
}

// Note records a diagnostic without changing the score.
func (s *Stench) Note(message string, args ...any) {
	s.Messages = append(s.Messages, fmt.Sprintf(message, args...))
}

// Result is the outcome of sniffing a blob for one format. Meta, Program and
// Trace are set when the sniffer derived them.
type Result struct {
	Format  string
	Stench  Stench
	Meta    *format.Metadata
	Program *basic.Program
	Trace   *trace.Trace
}

// Sniffer scores a blob for one format. Implementations hold no state that
// changes between calls.
type Sniffer interface {
	Name() string
	Sniff(b *blob.Blob) Result
}
