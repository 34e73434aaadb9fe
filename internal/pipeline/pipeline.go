// Package pipeline orchestrates the analysis workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrosniff/internal/arch"
	"github.com/retroenv/retrosniff/internal/arch/m6502"
	"github.com/retroenv/retrosniff/internal/basic"
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/detector"
	"github.com/retroenv/retrosniff/internal/disasm"
	"github.com/retroenv/retrosniff/internal/format"
	"github.com/retroenv/retrosniff/internal/loader"
	"github.com/retroenv/retrosniff/internal/options"
	"github.com/retroenv/retrosniff/internal/sniff"
	"github.com/retroenv/retrosniff/internal/symbols"
	"github.com/retroenv/retrosniff/internal/trace"
)

// ErrNoMetadata is returned when the selected format does not provide the
// metadata that a command needs.
var ErrNoMetadata = errors.New("format provides no metadata")

// Pipeline orchestrates the complete analysis workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
	model    *arch.Model
	registry *sniff.Registry
	symbols  *symbols.Table
	weights  sniff.Weights
}

// New creates a new analysis pipeline. The symbol table is populated by the
// caller and merged with the KERNAL labels of the machines.
func New(logger *log.Logger, weights sniff.Weights, table *symbols.Table) (*Pipeline, error) {
	model, err := m6502.NewModel()
	if err != nil {
		return nil, fmt.Errorf("creating instruction set model: %w", err)
	}

	registry, err := sniff.DefaultRegistry(logger, weights, model, table)
	if err != nil {
		return nil, fmt.Errorf("creating format registry: %w", err)
	}

	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
		model:    model,
		registry: registry,
		symbols:  table,
		weights:  weights,
	}, nil
}

// Registry returns the registry of all formats.
func (p *Pipeline) Registry() *sniff.Registry {
	return p.registry
}

// Execute loads the input file and runs the analysis.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) (*Report, error) {
	b, err := p.loader.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading input: %w", err)
	}
	return p.ExecuteWithBlob(ctx, b, opts)
}

// ExecuteWithBlob runs the analysis on an already loaded blob.
// This is useful for testing and programmatic usage where the data is already in memory.
func (p *Pipeline) ExecuteWithBlob(ctx context.Context, b *blob.Blob, opts options.Program) (*Report, error) {
	registry, err := p.detector.Detect(opts, p.registry)
	if err != nil {
		return nil, fmt.Errorf("detecting formats: %w", err)
	}

	selection, err := registry.Best(b)
	if err != nil {
		return nil, fmt.Errorf("selecting format: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	best := selection.Best
	report := newReport(b, selection, p.weights.CloseRatio)
	p.printInfo(opts, report)

	switch opts.Command {
	case options.TraceCommand:
		if best.Meta == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoMetadata, best.Format)
		}
		tr := p.trace(b, best.Meta, opts)
		report.Trace = newTraceReport(tr, p.machineSymbols(best.Format))

	case options.ListCommand:
		if best.Meta == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoMetadata, best.Format)
		}
		tr := p.trace(b, best.Meta, opts)
		table := p.machineSymbols(best.Format)
		report.Trace = newTraceReport(tr, table)
		listing := disasm.New(p.model, best.Meta).Listing(b)
		report.Listing = newListing(listing, tr, entryPointSymbols(best.Meta).Merge(table))

	case options.BasicCommand:
		prg, err := p.program(b, best)
		if err != nil {
			return nil, err
		}
		report.Program = newProgramReport(prg)
	}

	return report, nil
}

// trace runs a full trace from the entry points of the metadata.
func (p *Pipeline) trace(b *blob.Blob, meta *format.Metadata, opts options.Program) *trace.Trace {
	m := detector.MachineOf(meta.Name)
	tracer := trace.New(p.logger, p.model, trace.Config{
		StepBudget:      opts.Budget,
		Ignore:          m.IgnoreRules(),
		AllowUnofficial: opts.AllowUnofficial,
	})
	return tracer.Run(b, meta)
}

// program returns the BASIC program of the result or decodes it using the
// dialect of the machine that the format belongs to.
func (p *Pipeline) program(b *blob.Blob, result sniff.Result) (*basic.Program, error) {
	if result.Program != nil {
		return result.Program, nil
	}
	m := detector.MachineOf(result.Format)
	prg, err := basic.Decode(b, m.Dialect)
	if err != nil {
		return nil, fmt.Errorf("decoding %s program: %w", m.Dialect.Name, err)
	}
	return prg, nil
}

func (p *Pipeline) machineSymbols(formatName string) *symbols.Table {
	return detector.MachineOf(formatName).Symbols().Merge(p.symbols)
}

// entryPointSymbols labels the entry points of the metadata.
func entryPointSymbols(meta *format.Metadata) *symbols.Table {
	table := symbols.New()
	for _, entry := range meta.EntryPoints {
		table.Set(entry.Address, entry.Label)
	}
	return table
}

// printInfo prints information about the file being processed.
func (p *Pipeline) printInfo(opts options.Program, report *Report) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing file",
		log.String("file", report.File),
		log.Int("size", report.Size),
		log.String("format", report.Format),
		log.String("score", fmt.Sprintf("%g", report.Score)),
	)
	if report.Ambiguous {
		p.logger.Warn("Format selection is ambiguous, check the diagnostics")
	}
}
