package trace

import "fmt"

// Reason is the state of a thread. A thread is running until it terminates
// with one of the other reasons.
type Reason int

// Thread states.
const (
	Running Reason = iota
	Undecodable
	ReachedData
	AlreadyExecuted
	OperandCollision
	ReachedBreak
	ReachedJam
	ReachedReturn
	UnsupportedIndirectJump
	IgnoredJump
	JumpOutOfRange
	BudgetExhausted
)

var reasonNames = map[Reason]string{
	Running:                 "running",
	Undecodable:             "undecodable",
	ReachedData:             "reached data",
	AlreadyExecuted:         "already executed",
	OperandCollision:        "operand byte collision",
	ReachedBreak:            "reached break",
	ReachedJam:              "reached jam",
	ReachedReturn:           "reached return",
	UnsupportedIndirectJump: "unsupported indirect jump",
	IgnoredJump:             "ignored jump",
	JumpOutOfRange:          "jump out of range",
	BudgetExhausted:         "step budget exhausted",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Reason) UnmarshalText(text []byte) error {
	for reason, name := range reasonNames {
		if name == string(text) {
			*r = reason
			return nil
		}
	}
	return fmt.Errorf("unknown thread reason '%s'", text)
}

// Thread is a speculative execution path.
type Thread struct {
	ID     int
	Parent int // -1 for threads started at an entry point
	Start  uint16
	PC     uint16
	Reads  []uint16
	Writes []uint16
	Reason Reason
	Steps  int // executed instructions
}

// Running returns whether the thread has not terminated yet.
func (t *Thread) Running() bool {
	return t.Reason == Running
}

func (t *Thread) terminate(reason Reason) {
	t.Reason = reason
}
