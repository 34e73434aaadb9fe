package trace

import (
	"github.com/retroenv/retrogolib/set"
)

// AddressRange is an inclusive address range.
type AddressRange struct {
	Start uint16
	End   uint16
}

// Contains returns whether the address is inside the range.
func (r AddressRange) Contains(address uint16) bool {
	return address >= r.Start && address <= r.End
}

// IgnoreRules lists addresses that the tracer does not follow, like calls into
// the ROM of the machine.
type IgnoreRules struct {
	Addresses set.Set[uint16]
	Ranges    []AddressRange
}

// NewIgnoreRules returns rules that ignore the given ranges and addresses.
func NewIgnoreRules(ranges []AddressRange, addresses ...uint16) IgnoreRules {
	rules := IgnoreRules{
		Addresses: set.New[uint16](),
		Ranges:    ranges,
	}
	for _, address := range addresses {
		rules.Addresses.Add(address)
	}
	return rules
}

// Ignored returns whether the address matches a rule.
func (r IgnoreRules) Ignored(address uint16) bool {
	if r.Addresses != nil && r.Addresses.Contains(address) {
		return true
	}
	for _, rng := range r.Ranges {
		if rng.Contains(address) {
			return true
		}
	}
	return false
}

// Config contains the tracer settings.
type Config struct {
	// StepBudget limits the number of steps over all threads, 0 means unlimited.
	StepBudget int
	// Ignore lists branch, call and jump targets that are not followed.
	Ignore IgnoreRules
	// AllowUnofficial continues tracing over undocumented opcodes that do not jam the CPU.
	AllowUnofficial bool
}
