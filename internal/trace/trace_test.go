package trace

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrosniff/internal/arch"
	"github.com/retroenv/retrosniff/internal/arch/m6502"
	"github.com/retroenv/retrosniff/internal/basic"
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/disasm"
	"github.com/retroenv/retrosniff/internal/fixture"
	"github.com/retroenv/retrosniff/internal/format"
)

const base = 0x1000

var model = m6502.MustModel()

func runCode(t *testing.T, code []byte, config Config) *Trace {
	t.Helper()
	b := blob.New("code.bin", code, nil)
	meta := format.NewMetadata("test", base, 0, b.Len())
	tracer := New(log.NewTestLogger(t), model, config)
	return tracer.Run(b, meta, base)
}

//nolint:funlen // test functions can be long
func TestTraceTermination(t *testing.T) {
	tests := []struct {
		name    string
		code    []byte
		config  Config
		reason  Reason
		entries int
		errors  int
	}{
		{"return", []byte{0xa9, 0x00, 0x60}, Config{}, ReachedReturn, 1, 0},
		{"break", []byte{0x00}, Config{}, ReachedBreak, 0, 0},
		{"jam", []byte{0xea, 0x02}, Config{}, ReachedJam, 1, 0},
		{"undecodable", []byte{0xea, 0x8d, 0x20}, Config{}, Undecodable, 1, 0},
		{"ran off the end", []byte{0xea}, Config{}, Undecodable, 1, 0},
		{"jump to itself", []byte{0x4c, 0x00, 0x10}, Config{}, AlreadyExecuted, 1, 0},
		{"jump out of range", []byte{0x4c, 0x00, 0x20}, Config{}, JumpOutOfRange, 1, 0},
		{"indirect jump", []byte{0xea, 0x6c, 0x34, 0x12}, Config{}, UnsupportedIndirectJump, 1, 1},
		{"operand collision", []byte{0x4c, 0x01, 0x10}, Config{}, OperandCollision, 1, 1},
		{
			name:    "ignored jump",
			code:    []byte{0x4c, 0xd2, 0xff},
			config:  Config{Ignore: NewIgnoreRules(nil, 0xffd2)},
			reason:  IgnoredJump,
			entries: 1,
		},
		{
			name:    "budget",
			code:    []byte{0xa2, 0x00, 0xe8, 0xd0, 0xfd, 0x60},
			config:  Config{StepBudget: 2},
			reason:  BudgetExhausted,
			entries: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := runCode(t, tt.code, tt.config)

			assert.Len(t, tr.Threads, 1)
			assert.Equal(t, tt.reason, tr.Threads[0].Reason)
			assert.Equal(t, tt.entries, tr.Record.Len())
			assert.Equal(t, tt.entries, tr.Threads[0].Steps)
			assert.Len(t, tr.Errors, tt.errors)
		})
	}
}

func TestTraceIndirectJumpError(t *testing.T) {
	tr := runCode(t, []byte{0x6c, 0x34, 0x12}, Config{})

	assert.Len(t, tr.Errors, 1)
	assert.Equal(t, uint16(base), tr.Errors[0].Address)
	assert.Contains(t, tr.Errors[0].Message, "indirect jump")
	assert.Equal(t, UnsupportedIndirectJump, tr.Threads[0].Reason)
}

func TestTraceBranchFork(t *testing.T) {
	code := []byte{
		0xf0, 0x02, // beq $1004
		0x60, // rts
		0xea, // nop, skipped
		0xea, // nop
		0x60, // rts
	}
	tr := runCode(t, code, Config{})

	assert.Len(t, tr.Threads, 2)
	forked := tr.Threads[1]
	assert.Equal(t, uint16(0x1004), forked.Start)
	assert.Equal(t, 0, forked.Parent)
	assert.Equal(t, -1, tr.Threads[0].Parent)
	assert.Equal(t, ReachedReturn, tr.Threads[0].Reason)
	assert.Equal(t, ReachedReturn, forked.Reason)

	assert.Equal(t, []uint16{0x1000, 0x1004}, tr.Record.Addresses())
	assert.False(t, tr.Record.Contains(0x1003))
}

func TestTraceNoForkToExecutedTarget(t *testing.T) {
	code := []byte{
		0xa2, 0x00, // ldx #$00
		0xe8,       // inx
		0xd0, 0xfd, // bne inx
		0x60, // rts
	}
	tr := runCode(t, code, Config{})

	assert.Len(t, tr.Threads, 1)
	assert.Equal(t, 3, tr.Record.Len())
	assert.Equal(t, ReachedReturn, tr.Threads[0].Reason)
}

func TestTraceCallIgnoreRules(t *testing.T) {
	code := []byte{
		0x20, 0xd2, 0xff, // jsr $ffd2
		0x20, 0x0a, 0x10, // jsr $100a
		0x20, 0x00, 0xe0, // jsr $e000
		0x60, // rts
		0x60, // rts
	}
	config := Config{Ignore: NewIgnoreRules([]AddressRange{{Start: 0xe000, End: 0xffff}})}
	tr := runCode(t, code, config)

	assert.Len(t, tr.Threads, 2)
	assert.Equal(t, uint16(0x100a), tr.Threads[1].Start)
	assert.Equal(t, 3, tr.Record.Len())
}

func TestTraceReadsWrites(t *testing.T) {
	code := []byte{
		0xad, 0x12, 0xd0, // lda $d012
		0x8d, 0x20, 0xd0, // sta $d020
		0xee, 0x20, 0xd0, // inc $d020
		0x48, // pha
		0x60, // rts
	}
	tr := runCode(t, code, Config{})

	assert.Equal(t, []uint16{0xd012, 0xd020}, tr.Reads())
	assert.Equal(t, []uint16{0xd020}, tr.Writes())
	assert.Equal(t, []uint16{0xd012, 0xd020}, tr.Threads[0].Reads)
	assert.Equal(t, 10, tr.Coverage())
}

func TestTraceOverlappingInstructions(t *testing.T) {
	tests := []struct {
		name      string
		code      []byte
		reasons   []Reason
		addresses []uint16
		coverage  int
	}{
		{
			name: "branch into recorded operand",
			code: []byte{
				0xf0, 0x01, // beq $1003
				0x2c, 0xea, 0x60, // bit $60ea
			},
			reasons:   []Reason{Undecodable, OperandCollision},
			addresses: []uint16{0x1000, 0x1002},
			coverage:  5,
		},
		{
			name: "operand over recorded instruction",
			code: []byte{
				0xf0, 0x03, // beq $1005
				0xea,             // nop
				0xea,             // nop
				0x2c, 0xea, 0x60, // bit $60ea
			},
			reasons:   []Reason{OperandCollision, ReachedReturn},
			addresses: []uint16{0x1000, 0x1002, 0x1003, 0x1005},
			coverage:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := runCode(t, tt.code, Config{})

			assert.Len(t, tr.Errors, 1)
			assert.Len(t, tr.Threads, len(tt.reasons))
			for i, reason := range tt.reasons {
				assert.Equal(t, reason, tr.Threads[i].Reason)
			}
			assert.Equal(t, tt.addresses, tr.Record.Addresses())
			assert.Equal(t, tt.coverage, tr.Coverage())
			assert.True(t, tr.Coverage() <= len(tt.code))
		})
	}
}

func TestTraceUnofficialOpcodes(t *testing.T) {
	custom, err := arch.NewModel("custom", []*arch.Descriptor{
		{Opcode: 0x80, Name: "nop", Mode: arch.ImmediateAddressing, Tags: arch.Illegal},
		{Opcode: 0x60, Name: "rts", Mode: arch.ImpliedAddressing, Tags: arch.Return | arch.Stack},
	})
	assert.NoError(t, err)

	b := blob.New("code.bin", []byte{0x80, 0x00, 0x60}, nil)
	meta := format.NewMetadata("test", base, 0, b.Len())

	tr := New(log.NewTestLogger(t), custom, Config{}).Run(b, meta)
	assert.Len(t, tr.Threads, 0)

	tr = New(log.NewTestLogger(t), custom, Config{}).Run(b, meta, base)
	assert.Equal(t, ReachedJam, tr.Threads[0].Reason)

	tr = New(log.NewTestLogger(t), custom, Config{AllowUnofficial: true}).Run(b, meta, base)
	assert.Equal(t, ReachedReturn, tr.Threads[0].Reason)
	assert.Equal(t, 1, tr.Record.Len())
}

func TestTraceReachedData(t *testing.T) {
	b := blob.New("code.bin", []byte{0xea, 0x41, 0x42}, nil)
	meta := format.NewMetadata("test", base, 0, b.Len())
	meta.AddEdict(1, format.Edict{Kind: format.TextEdict, Width: 2})

	tr := New(log.NewTestLogger(t), model, Config{}).Run(b, meta, base)
	assert.Equal(t, ReachedData, tr.Threads[0].Reason)
	assert.Equal(t, 1, tr.Record.Len())
}

func TestTraceStubProgram(t *testing.T) {
	b := blob.New("stub.prg", fixture.StubProgram(), nil)
	provider := format.StubProvider{Format: "stub", Dialect: basic.V2, CallToken: basic.TokenSys}
	meta, err := provider.Metadata(b)
	assert.NoError(t, err)

	tracer := New(log.NewTestLogger(t), model, Config{})
	first := tracer.Run(b, meta)
	second := tracer.Run(b, meta)

	assert.Equal(t, 6, first.Record.Len())
	assert.Equal(t, ReachedReturn, first.Threads[0].Reason)

	// tracing is deterministic
	if diff := cmp.Diff(first.Threads, second.Threads); diff != "" {
		t.Errorf("threads mismatch (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Record.Entries(), second.Record.Entries(), cmp.AllowUnexported(disasm.Instruction{})); diff != "" {
		t.Errorf("record mismatch (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.Steps, second.Steps)
}

func TestTraceAddressesUnique(t *testing.T) {
	code := []byte{
		0xa2, 0x00, // ldx #$00
		0xf0, 0x03, // beq $1007
		0x4c, 0x00, 0x10, // jmp $1000
		0xe8,       // inx
		0xd0, 0xf6, // bne $1000
		0x20, 0x02, 0x10, // jsr $1002
		0x4c, 0x07, 0x10, // jmp $1007
	}
	tr := runCode(t, code, Config{})

	counts := map[uint16]int{}
	for _, entry := range tr.Record.Entries() {
		counts[entry.Address]++
	}
	for address, count := range counts {
		if count != 1 {
			t.Errorf("address $%04x recorded %d times", address, count)
		}
	}
	assert.Equal(t, len(counts), tr.Record.Len())
}

func TestIgnoreRules(t *testing.T) {
	rules := NewIgnoreRules([]AddressRange{{Start: 0xa000, End: 0xbfff}}, 0xffd2)

	assert.True(t, rules.Ignored(0xffd2))
	assert.True(t, rules.Ignored(0xa000))
	assert.True(t, rules.Ignored(0xbfff))
	assert.False(t, rules.Ignored(0xc000))
	assert.False(t, IgnoreRules{}.Ignored(0xffd2))
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "unsupported indirect jump", UnsupportedIndirectJump.String())
	assert.Equal(t, "Reason(99)", Reason(99).String())
}

func TestReasonText(t *testing.T) {
	text, err := OperandCollision.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "operand byte collision", string(text))

	var r Reason
	assert.NoError(t, r.UnmarshalText(text))
	assert.Equal(t, OperandCollision, r)

	assert.Error(t, r.UnmarshalText([]byte("sleeping")))
	assert.Equal(t, "Reason(99)", Reason(99).String())
}
