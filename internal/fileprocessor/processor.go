// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrosniff/internal/options"
	"github.com/retroenv/retrosniff/internal/pipeline"
	"github.com/retroenv/retrosniff/internal/writer"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, p *pipeline.Pipeline, opts options.Program) error {
	report, err := p.Execute(ctx, opts)
	if err != nil {
		return err
	}

	out, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}

	if err := WriteReport(out, report, opts); err != nil {
		closeWriter(out)
		return fmt.Errorf("writing report: %w", err)
	}
	closeWriter(out)

	if opts.Output != "" {
		logger.Debug("Report written", log.String("file", opts.Output))
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates output filename for a given input file
func GenerateOutputFilename(inputFile string, asJSON bool) string {
	ext := filepath.Ext(inputFile)
	if asJSON {
		return inputFile[:len(inputFile)-len(ext)] + ".json"
	}
	return inputFile[:len(inputFile)-len(ext)] + ".txt"
}

// WriteReport writes the report as indented JSON or as human readable text.
func WriteReport(w io.Writer, report *pipeline.Report, opts options.Program) error {
	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return nil
	}

	return writer.New(report, w, writer.Options{HexBytes: !opts.NoHexBytes}).Write()
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("retrosniff", log.String("version", buildinfo.Version(version, commit, date)))
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

func closeWriter(w io.Writer) {
	if w == os.Stdout {
		return
	}
	if closer, ok := w.(io.Closer); ok {
		_ = closer.Close()
	}
}
