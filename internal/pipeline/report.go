package pipeline

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrosniff/internal/arch/m6502"
	"github.com/retroenv/retrosniff/internal/basic"
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/disasm"
	"github.com/retroenv/retrosniff/internal/format"
	"github.com/retroenv/retrosniff/internal/sniff"
	"github.com/retroenv/retrosniff/internal/symbols"
	"github.com/retroenv/retrosniff/internal/trace"
)

// Report is the result of analyzing one file.
type Report struct {
	File      string          `json:"file"`
	Size      int             `json:"size"`
	Format    string          `json:"format"`
	Score     float64         `json:"score"`
	Ambiguous bool            `json:"ambiguous"`
	Messages  []string        `json:"messages,omitempty"`
	Ranking   []Candidate     `json:"ranking"`
	Metadata  *MetadataReport `json:"metadata,omitempty"`
	Trace     *TraceReport    `json:"trace,omitempty"`
	Listing   []ListingLine   `json:"listing,omitempty"`
	Program   []ProgramLine   `json:"program,omitempty"`
}

// Candidate is the score of one format.
type Candidate struct {
	Format   string   `json:"format"`
	Score    float64  `json:"score"`
	Messages []string `json:"messages,omitempty"`
}

// MetadataReport describes the address space mapping of the selected format.
type MetadataReport struct {
	BaseAddress   uint16              `json:"base_address"`
	ContentOffset int                 `json:"content_offset"`
	EndAddress    int                 `json:"end_address"`
	EntryPoints   []format.EntryPoint `json:"entry_points,omitempty"`
	Edicts        int                 `json:"edicts"`
}

// TraceReport summarizes a trace run.
type TraceReport struct {
	Steps        int              `json:"steps"`
	Instructions int              `json:"instructions"`
	Coverage     int              `json:"coverage"`
	Threads      []ThreadReport   `json:"threads"`
	Errors       []trace.Error    `json:"errors,omitempty"`
	Reads        []uint16         `json:"reads,omitempty"`
	Writes       []uint16         `json:"writes,omitempty"`
	Symbols      []symbols.Symbol `json:"symbols,omitempty"`
}

// ThreadReport describes a terminated thread.
type ThreadReport struct {
	ID     int          `json:"id"`
	Parent int          `json:"parent"`
	Start  uint16       `json:"start"`
	End    uint16       `json:"end"`
	Steps  int          `json:"steps"`
	Reason trace.Reason `json:"reason"`
}

// ListingLine is one decoded instruction or literal of a listing.
type ListingLine struct {
	Address uint16 `json:"address"`
	Bytes   string `json:"bytes"`
	Label   string `json:"label,omitempty"`
	Name    string `json:"name"`
	Operand string `json:"operand,omitempty"`
	Comment string `json:"comment,omitempty"`
	Traced  bool   `json:"traced"`
}

// ProgramLine is one line of a BASIC program.
type ProgramLine struct {
	Address uint16 `json:"address"`
	Number  uint16 `json:"number"`
	Text    string `json:"text"`
}

func newReport(b *blob.Blob, selection sniff.Selection, closeRatio float64) *Report {
	best := selection.Best
	report := &Report{
		File:      b.Name(),
		Size:      b.Len(),
		Format:    best.Format,
		Score:     best.Stench.Score,
		Ambiguous: selection.Ambiguous(closeRatio),
		Messages:  best.Stench.Messages,
	}

	for _, result := range selection.Ranking {
		report.Ranking = append(report.Ranking, Candidate{
			Format:   result.Format,
			Score:    result.Stench.Score,
			Messages: result.Stench.Messages,
		})
	}

	if meta := best.Meta; meta != nil {
		report.Metadata = &MetadataReport{
			BaseAddress:   meta.BaseAddress,
			ContentOffset: meta.ContentOffset,
			EndAddress:    meta.EndAddress(),
			EntryPoints:   meta.EntryPoints,
			Edicts:        len(meta.Edicts()),
		}
	}
	return report
}

func newTraceReport(tr *trace.Trace, table *symbols.Table) *TraceReport {
	report := &TraceReport{
		Steps:        tr.Steps,
		Instructions: tr.Record.Len(),
		Coverage:     tr.Coverage(),
		Errors:       tr.Errors,
		Reads:        tr.Reads(),
		Writes:       tr.Writes(),
	}

	var referenced []uint16
	for _, th := range tr.Threads {
		report.Threads = append(report.Threads, ThreadReport{
			ID:     th.ID,
			Parent: th.Parent,
			Start:  th.Start,
			End:    th.PC,
			Steps:  th.Steps,
			Reason: th.Reason,
		})
	}
	for _, entry := range tr.Record.Entries() {
		if target, ok := entry.Instruction.Target(); ok {
			referenced = append(referenced, target)
		}
	}
	report.Symbols = table.Referenced(referenced)
	return report
}

func newListing(instructions []disasm.Instruction, tr *trace.Trace, table *symbols.Table) []ListingLine {
	lines := make([]ListingLine, 0, len(instructions))
	for _, ins := range instructions {
		line := ListingLine{
			Address: ins.Address,
			Bytes:   hexBytes(ins.Bytes()),
			Name:    ins.Name(),
			Traced:  tr.Record.Contains(ins.Address),
		}
		line.Label, _ = table.Label(ins.Address)

		if ins.IsData() {
			line.Operand = literalOperand(ins)
			if ins.Edict != nil {
				line.Comment = ins.Edict.Label
			}
		} else {
			line.Operand = instructionOperand(ins, table)
		}
		lines = append(lines, line)
	}
	return lines
}

func hexBytes(data []byte) string {
	parts := make([]string, len(data))
	for i, value := range data {
		parts[i] = fmt.Sprintf("%02x", value)
	}
	return strings.Join(parts, " ")
}

func literalOperand(ins disasm.Instruction) string {
	data := ins.Bytes()
	if ins.Edict != nil && ins.Edict.Kind == format.WordEdict && len(data) == 2 {
		return fmt.Sprintf("$%04x", uint16(data[0])|uint16(data[1])<<8)
	}

	parts := make([]string, len(data))
	for i, value := range data {
		parts[i] = fmt.Sprintf("$%02x", value)
	}
	return strings.Join(parts, ",")
}

func instructionOperand(ins disasm.Instruction, table *symbols.Table) string {
	value := ins.Value()
	var label string
	if target, ok := ins.Target(); ok {
		value = target
		label, _ = table.Label(target)
	}
	return m6502.FormatParam(ins.Descriptor.Mode, value, label)
}

func newProgramReport(prg *basic.Program) []ProgramLine {
	lines := make([]ProgramLine, 0, len(prg.Lines))
	for _, line := range prg.Lines {
		var text strings.Builder
		for _, element := range line.Elements {
			if element.Kind == basic.TokenElement {
				text.WriteString(element.Keyword)
				continue
			}
			text.WriteString(petscii(element.Bytes))
		}
		lines = append(lines, ProgramLine{
			Address: line.Address,
			Number:  line.Number,
			Text:    text.String(),
		})
	}
	return lines
}

// petscii converts the printable unshifted PETSCII range to ASCII and escapes
// all other bytes.
func petscii(data []byte) string {
	var sb strings.Builder
	for _, c := range data {
		switch {
		case c >= 0x20 && c <= 0x5f:
			sb.WriteByte(c)
		case c >= 0xc1 && c <= 0xda:
			sb.WriteByte(c - 0x80)
		default:
			fmt.Fprintf(&sb, "{$%02x}", c)
		}
	}
	return sb.String()
}
