// Package trace implements the speculative multi path control flow tracer.
package trace

import (
	"fmt"
	"sort"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/retrosniff/internal/arch"
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/disasm"
	"github.com/retroenv/retrosniff/internal/format"
)

// Error is an unsupported construct found during tracing.
type Error struct {
	Address uint16
	Message string
}

// Trace is the result of a trace run.
type Trace struct {
	Record  *Record
	Threads []*Thread
	Errors  []Error
	Steps   int
}

// Reads returns the sorted addresses read by any thread.
func (t *Trace) Reads() []uint16 {
	return t.collect(func(th *Thread) []uint16 { return th.Reads })
}

// Writes returns the sorted addresses written by any thread.
func (t *Trace) Writes() []uint16 {
	return t.collect(func(th *Thread) []uint16 { return th.Writes })
}

func (t *Trace) collect(addresses func(th *Thread) []uint16) []uint16 {
	unique := set.New[uint16]()
	for _, th := range t.Threads {
		for _, address := range addresses(th) {
			unique.Add(address)
		}
	}

	result := make([]uint16, 0, len(unique))
	for address := range unique {
		result = append(result, address)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i] < result[j]
	})
	return result
}

// Coverage returns the number of distinct bytes covered by executed instructions.
func (t *Trace) Coverage() int {
	return t.Record.Covered()
}

// Reasons returns the number of threads per termination reason.
func (t *Trace) Reasons() map[Reason]int {
	reasons := make(map[Reason]int)
	for _, th := range t.Threads {
		reasons[th.Reason]++
	}
	return reasons
}

// Tracer follows the control flow of a blob from its entry points.
type Tracer struct {
	logger *log.Logger
	model  *arch.Model
	config Config
}

// New returns a new tracer.
func New(logger *log.Logger, model *arch.Model, config Config) *Tracer {
	return &Tracer{
		logger: logger,
		model:  model,
		config: config,
	}
}

// run holds the state of a single trace run.
type run struct {
	*Tracer

	b       *blob.Blob
	meta    *format.Metadata
	decoder *disasm.Decoder
	trace   *Trace
}

// Run traces the blob starting a thread at every given address. If no address
// is passed, the entry points of the metadata are used. Every call allocates
// its own record and threads.
func (tr *Tracer) Run(b *blob.Blob, meta *format.Metadata, entries ...uint16) *Trace {
	if len(entries) == 0 {
		for _, entry := range meta.EntryPoints {
			entries = append(entries, entry.Address)
		}
	}

	r := &run{
		Tracer:  tr,
		b:       b,
		meta:    meta,
		decoder: disasm.New(tr.model, meta),
		trace: &Trace{
			Record: newRecord(),
		},
	}

	started := set.New[uint16]()
	for _, address := range entries {
		if started.Contains(address) {
			continue
		}
		started.Add(address)
		r.spawn(-1, address)
	}

	r.process()
	return r.trace
}

// process steps all running threads breadth first until no thread is running
// or the step budget is spent. Threads spawned in a round start running in the
// next round.
func (r *run) process() {
	for {
		active := r.running()
		if len(active) == 0 {
			return
		}

		for _, th := range active {
			if r.config.StepBudget > 0 && r.trace.Steps >= r.config.StepBudget {
				r.exhaust()
				return
			}
			r.trace.Steps++
			r.step(th)
		}
	}
}

func (r *run) running() []*Thread {
	var active []*Thread
	for _, th := range r.trace.Threads {
		if th.Running() {
			active = append(active, th)
		}
	}
	return active
}

func (r *run) exhaust() {
	for _, th := range r.trace.Threads {
		if th.Running() {
			th.terminate(BudgetExhausted)
		}
	}
	r.logger.Debug("Trace step budget exhausted", log.Int("steps", r.trace.Steps))
}

func (r *run) spawn(parent int, address uint16) {
	th := &Thread{
		ID:     len(r.trace.Threads),
		Parent: parent,
		Start:  address,
		PC:     address,
	}
	r.trace.Threads = append(r.trace.Threads, th)
}

// step executes one instruction of the thread.
func (r *run) step(th *Thread) {
	ins, err := r.decoder.Decode(r.b, th.PC)
	if err != nil {
		r.logger.Debug("Decoding failed", log.Hex("address", th.PC), log.Err(err))
		r.stop(th, Undecodable)
		return
	}
	if ins.IsData() {
		r.stop(th, ReachedData)
		return
	}

	if r.trace.Record.Contains(th.PC) {
		r.stop(th, AlreadyExecuted)
		return
	}
	if owner, ok := r.trace.Record.OperandOwner(th.PC); ok {
		r.addError(th.PC, fmt.Sprintf("execution continues inside operand of instruction at $%04x", owner))
		r.logger.Debug("Operand byte collision",
			log.Hex("address", th.PC),
			log.Hex("instruction", owner),
			log.Int("thread", th.ID))
		th.terminate(OperandCollision)
		return
	}
	if start, ok := r.trace.Record.OverlappedStart(th.PC, ins.Len()); ok {
		r.addError(th.PC, fmt.Sprintf("operand bytes overlap executed instruction at $%04x", start))
		r.logger.Debug("Operand byte collision",
			log.Hex("address", th.PC),
			log.Hex("instruction", start),
			log.Int("thread", th.ID))
		th.terminate(OperandCollision)
		return
	}

	desc := ins.Descriptor
	switch {
	case desc.Has(arch.Break):
		r.stop(th, ReachedBreak)
		return
	case desc.Has(arch.Jam), desc.Has(arch.Illegal) && !r.config.AllowUnofficial:
		r.stop(th, ReachedJam)
		return
	case desc.Has(arch.Return):
		r.stop(th, ReachedReturn)
		return
	}

	next := ins.NextAddress()
	reason := Running

	switch {
	case desc.HasAny(arch.ConditionalBranch | arch.Call):
		target, _ := ins.Target()
		r.fork(th, target)

	case desc.Has(arch.Jump):
		if desc.Mode == arch.IndirectAddressing {
			r.addError(th.PC, fmt.Sprintf("unsupported indirect jump to ($%04x)", ins.Value()))
			r.stop(th, UnsupportedIndirectJump)
			return
		}

		target, _ := ins.Target()
		switch {
		case r.config.Ignore.Ignored(target):
			reason = IgnoredJump
		case !r.meta.InRange(target):
			reason = JumpOutOfRange
		default:
			next = target
		}
	}

	if !desc.Has(arch.Stack) && desc.Mode.References() {
		target, _ := ins.Target()
		if desc.Has(arch.ReadsMemory) {
			th.Reads = append(th.Reads, target)
		}
		if desc.Has(arch.WritesMemory) {
			th.Writes = append(th.Writes, target)
		}
	}

	r.trace.Record.append(Entry{
		Address:     th.PC,
		Instruction: ins,
		Thread:      th.ID,
	})
	th.Steps++

	if reason != Running {
		r.stop(th, reason)
		return
	}
	th.PC = next
}

// fork spawns a new thread at a branch or call target if the target is backed
// by the blob, not ignored and not executed yet.
func (r *run) fork(th *Thread, target uint16) {
	switch {
	case r.config.Ignore.Ignored(target):
		return
	case !r.meta.InRange(target):
		r.logger.Debug("Branch target out of range",
			log.Hex("address", th.PC),
			log.Hex("target", target))
		return
	case r.trace.Record.Contains(target):
		return
	}
	r.spawn(th.ID, target)
}

func (r *run) addError(address uint16, message string) {
	r.trace.Errors = append(r.trace.Errors, Error{Address: address, Message: message})
}

func (r *run) stop(th *Thread, reason Reason) {
	th.terminate(reason)
	r.logger.Debug("Thread terminated",
		log.Int("thread", th.ID),
		log.Hex("address", th.PC),
		log.Stringer("reason", reason))
}
