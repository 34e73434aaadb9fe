package sniff

import (
	"errors"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrosniff/internal/arch"
	"github.com/retroenv/retrosniff/internal/basic"
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/format"
	"github.com/retroenv/retrosniff/internal/machine"
	"github.com/retroenv/retrosniff/internal/symbols"
	"github.com/retroenv/retrosniff/internal/trace"
)

// StubSniffer scores a blob as a BASIC stub that calls the machine code that
// follows it. The static checks are confirmed by a shallow trace from the
// call target.
type StubSniffer struct {
	Format  string
	Machine machine.Machine
	Weights Weights
	Model   *arch.Model
	Symbols *symbols.Table
	Logger  *log.Logger
}

// Name returns the format name.
func (s *StubSniffer) Name() string {
	return s.Format
}

// Sniff scores the blob.
func (s *StubSniffer) Sniff(b *blob.Blob) Result {
	result := Result{
		Format: s.Format,
		Stench: NewStench(),
	}
	stench := &result.Stench
	w := s.Weights

	load, _ := b.Word(0)
	if load != s.Machine.BasicStart {
		stench.Multiply(w.NoMachine, "load address $%04x does not match %s", load, s.Machine.Name)
		return result
	}
	stench.Multiply(w.MachineMatch, "load address $%04x matches %s", load, s.Machine.Name)
	if shared := machine.ByBasicStart(load); len(shared) > 1 {
		stench.Note("load address $%04x is shared by %d machine configurations", load, len(shared))
	}

	if b.Len() < w.MinStubSize {
		stench.Multiply(w.TooSmall, "%d bytes are too small for a stub", b.Len())
		return result
	}

	target, err := basic.CallTarget(b, basic.CallOffset, s.Machine.CallToken)
	switch {
	case errors.Is(err, basic.ErrNoCallToken):
		stench.Multiply(w.CallTokenMissing, "call token not found")
		return result
	case err != nil:
		stench.Multiply(w.CallTokenFound, "call token found")
		stench.Multiply(w.BadArgument, "%s", err)
		return result
	}
	stench.Multiply(w.CallTokenFound, "call token found")

	provider := format.StubProvider{
		Format:    s.Format,
		Dialect:   s.Machine.Dialect,
		CallToken: s.Machine.CallToken,
		Symbols:   s.Symbols,
	}
	meta, err := provider.Metadata(b)
	if err != nil {
		stench.Multiply(w.BadArgument, "call target $%04x: %s", target, err)
		return result
	}
	result.Meta = meta

	tracer := trace.New(s.Logger, s.Model, trace.Config{
		StepBudget: w.StubStepBudget,
		Ignore:     s.Machine.IgnoreRules(),
	})
	result.Trace = tracer.Run(b, meta, target)

	executed := result.Trace.Record.Len()
	if executed > w.TraceConfirmSteps {
		stench.Multiply(w.TraceConfirmed, "%d instructions traced from $%04x", executed, target)
	} else {
		stench.Multiply(w.TraceFailed, "only %d instructions traced from $%04x", executed, target)
	}
	for _, e := range result.Trace.Errors {
		stench.Note("trace error at $%04x: %s", e.Address, e.Message)
	}
	return result
}
