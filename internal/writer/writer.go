// Package writer renders analysis reports as human readable text.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrosniff/internal/pipeline"
)

const dataBytesPerLine = 16

// Options of the writer.
type Options struct {
	HexBytes bool // output the bytes of every listing line
}

// Writer renders a report. The first write error stops all further output
// and is returned by Write.
type Writer struct {
	report  *pipeline.Report
	options Options
	writer  io.Writer
	err     error
}

// New creates a new writer.
func New(report *pipeline.Report, writer io.Writer, options Options) *Writer {
	return &Writer{
		report:  report,
		options: options,
		writer:  writer,
	}
}

// Write outputs all sections of the report that are set.
func (w *Writer) Write() error {
	w.writeSummary()
	w.writeTrace()
	w.writeListing()
	w.writeProgram()
	if w.err != nil {
		return fmt.Errorf("writing report: %w", w.err)
	}
	return nil
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.writer, format, args...)
}

func (w *Writer) writeSummary() {
	report := w.report
	w.printf("file:   %s (%d bytes)\n", report.File, report.Size)
	w.printf("format: %s (score %g)\n", report.Format, report.Score)
	if report.Ambiguous {
		w.printf("        ambiguous selection\n")
	}
	for _, msg := range report.Messages {
		w.printf("        %s\n", msg)
	}

	if meta := report.Metadata; meta != nil {
		w.printf("base:   $%04x-$%04x, content at offset %d, %d edicts\n",
			meta.BaseAddress, meta.EndAddress, meta.ContentOffset, meta.Edicts)
		for _, entry := range meta.EntryPoints {
			w.printf("entry:  $%04x %s\n", entry.Address, entry.Label)
		}
	}

	w.printf("\nranking:\n")
	for _, candidate := range report.Ranking {
		w.printf("  %-18s %g\n", candidate.Format, candidate.Score)
	}
}

func (w *Writer) writeTrace() {
	tr := w.report.Trace
	if tr == nil {
		return
	}

	w.printf("\ntrace: %d steps, %d instructions, %d bytes covered\n", tr.Steps, tr.Instructions, tr.Coverage)
	for _, th := range tr.Threads {
		w.printf("  thread %d: $%04x-$%04x %d steps, %s\n", th.ID, th.Start, th.End, th.Steps, th.Reason)
	}
	for _, e := range tr.Errors {
		w.printf("  error at $%04x: %s\n", e.Address, e.Message)
	}
	if len(tr.Reads) > 0 {
		w.printf("  reads:  %s\n", addressList(tr.Reads))
	}
	if len(tr.Writes) > 0 {
		w.printf("  writes: %s\n", addressList(tr.Writes))
	}
	for _, sym := range tr.Symbols {
		w.printf("  symbol: $%04x %s\n", sym.Address, sym.Label)
	}
}

func (w *Writer) writeListing() {
	lines := w.report.Listing
	if len(lines) == 0 {
		return
	}

	w.printf("\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line.Label != "" {
			if i > 0 {
				w.printf("\n")
			}
			w.printf("%s:\n", line.Label)
		}

		if isLooseByte(line) {
			i += w.bundleDataWrites(lines[i:]) - 1
			continue
		}
		w.writeListingLine(line)
	}
}

func (w *Writer) writeListingLine(line pipeline.ListingLine) {
	marker := " "
	if line.Traced {
		marker = "*"
	}
	code := line.Name
	if line.Operand != "" {
		code += " " + line.Operand
	}
	if line.Name == "byte" || line.Name == "word" || line.Name == "text" {
		code = "." + code
	}

	prefix := fmt.Sprintf("%s $%04x  ", marker, line.Address)
	if w.options.HexBytes {
		prefix += fmt.Sprintf("%-9s  ", line.Bytes)
	}

	if line.Comment == "" {
		w.printf("%s%s\n", prefix, code)
		return
	}
	w.printf("%s%-20s ; %s\n", prefix, code, line.Comment)
}

// bundleDataWrites combines consecutive loose bytes into lines of up to
// dataBytesPerLine bytes and returns the number of consumed listing lines.
func (w *Writer) bundleDataWrites(lines []pipeline.ListingLine) int {
	count := 0
	for count < len(lines) && count < dataBytesPerLine && isLooseByte(lines[count]) {
		if count > 0 && lines[count].Label != "" {
			break
		}
		count++
	}

	operands := make([]string, count)
	for i := range count {
		operands[i] = lines[i].Operand
	}
	w.printf("  $%04x  .byte %s\n", lines[0].Address, strings.Join(operands, ", "))
	return count
}

// isLooseByte returns whether the line is a single byte that no edict or trace
// claimed.
func isLooseByte(line pipeline.ListingLine) bool {
	return line.Name == "byte" && line.Comment == "" && !line.Traced
}

func (w *Writer) writeProgram() {
	lines := w.report.Program
	if len(lines) == 0 {
		return
	}

	w.printf("\n")
	for _, line := range lines {
		w.printf("%d %s\n", line.Number, line.Text)
	}
}

func addressList(addresses []uint16) string {
	parts := make([]string, len(addresses))
	for i, address := range addresses {
		parts[i] = fmt.Sprintf("$%04x", address)
	}
	return strings.Join(parts, " ")
}
