package sniff

import (
	"errors"
	"fmt"
	"reflect"
)

// Weights contains all scoring factors and thresholds of the sniffers.
type Weights struct {
	LoadAddressMatch    float64 `json:"load_address_match" jsonschema:"description=Factor if the load address matches the BASIC start"`
	LoadAddressMismatch float64 `json:"load_address_mismatch" jsonschema:"description=Factor if the load address differs from the BASIC start"`
	LineNumberDecrease  float64 `json:"line_number_decrease" jsonschema:"description=Factor per line number that does not increase"`
	LinkDecrease        float64 `json:"link_decrease" jsonschema:"description=Factor per next line pointer that does not increase"`
	LinkMismatch        float64 `json:"link_mismatch" jsonschema:"description=Factor per next line pointer that does not point to the following line"`
	TrailingPayload     float64 `json:"trailing_payload" jsonschema:"description=Factor if more data than program follows the program"`
	TrailingMinimum     int     `json:"trailing_minimum" jsonschema:"description=Trailing bytes that are tolerated after a program"`
	DecodeFailure       float64 `json:"decode_failure" jsonschema:"description=Factor if the program can not be decoded"`

	MagicMatch     float64 `json:"magic_match" jsonschema:"description=Factor if the signature bytes match"`
	MagicMiss      float64 `json:"magic_miss" jsonschema:"description=Factor if the signature bytes do not match"`
	ExtensionMatch float64 `json:"extension_match" jsonschema:"description=Factor if the file extension matches"`
	ExtensionMiss  float64 `json:"extension_miss" jsonschema:"description=Factor if the file extension does not match"`

	MachineMatch      float64 `json:"machine_match" jsonschema:"description=Factor if the load address matches the machine"`
	NoMachine         float64 `json:"no_machine" jsonschema:"description=Factor if the load address does not match the machine"`
	TooSmall          float64 `json:"too_small" jsonschema:"description=Factor if the file is smaller than a stub"`
	MinStubSize       int     `json:"min_stub_size" jsonschema:"description=Minimum size of a stub file in bytes"`
	CallTokenFound    float64 `json:"call_token_found" jsonschema:"description=Factor if the first line starts with the call token"`
	CallTokenMissing  float64 `json:"call_token_missing" jsonschema:"description=Factor if the call token is missing"`
	BadArgument       float64 `json:"bad_argument" jsonschema:"description=Factor if the call argument is invalid or outside of the file"`
	StubStepBudget    int     `json:"stub_step_budget" jsonschema:"description=Trace steps used to confirm the machine code of a stub"`
	TraceConfirmSteps int     `json:"trace_confirm_steps" jsonschema:"description=Executed instructions needed to confirm the machine code"`
	TraceConfirmed    float64 `json:"trace_confirmed" jsonschema:"description=Factor if the machine code trace is confirmed"`
	TraceFailed       float64 `json:"trace_failed" jsonschema:"description=Factor if the machine code trace stops early"`

	CloseRatio float64 `json:"close_ratio" jsonschema:"description=Runner-up score ratio that marks a selection as ambiguous"`
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() Weights {
	return Weights{
		LoadAddressMatch:    2,
		LoadAddressMismatch: 0.5,
		LineNumberDecrease:  0.5,
		LinkDecrease:        0.5,
		LinkMismatch:        0.75,
		TrailingPayload:     0.1,
		TrailingMinimum:     8,
		DecodeFailure:       0.001,

		MagicMatch:     4,
		MagicMiss:      0.1,
		ExtensionMatch: 2,
		ExtensionMiss:  0.5,

		MachineMatch:      2,
		NoMachine:         0.1,
		TooSmall:          0.1,
		MinStubSize:       16,
		CallTokenFound:    2,
		CallTokenMissing:  0.1,
		BadArgument:       0.1,
		StubStepBudget:    64,
		TraceConfirmSteps: 5,
		TraceConfirmed:    4,
		TraceFailed:       0.25,

		CloseRatio: 0.9,
	}
}

var errNegativeWeight = errors.New("negative weight")

// Validate checks that no factor or threshold is negative and that the close
// ratio is within (0, 1].
func (w Weights) Validate() error {
	value := reflect.ValueOf(w)
	typ := value.Type()

	for i := range value.NumField() {
		field := value.Field(i)
		var negative bool
		switch field.Kind() {
		case reflect.Float64:
			negative = field.Float() < 0
		case reflect.Int:
			negative = field.Int() < 0
		default:
		}
		if negative {
			return fmt.Errorf("%w: %s", errNegativeWeight, typ.Field(i).Name)
		}
	}

	if w.CloseRatio <= 0 || w.CloseRatio > 1 {
		return fmt.Errorf("close ratio %g outside of (0, 1]", w.CloseRatio)
	}
	return nil
}
