// Package options contains the program options.
package options

// Commands of the program.
const (
	SniffCommand = "sniff"
	TraceCommand = "trace"
	ListCommand  = "list"
	BasicCommand = "basic"
)

// Parameters contains file path options.
type Parameters struct {
	Input   string `json:"input" jsonschema:"description=Input file to analyze"`
	Output  string `json:"output,omitempty" jsonschema:"description=Output file (default: stdout)"`
	Batch   string `json:"batch,omitempty" jsonschema:"description=Batch process files matching a pattern like *.prg"`
	Weights string `json:"weights,omitempty" jsonschema:"description=JSON file with scoring weights"`
	Symbols string `json:"symbols,omitempty" jsonschema:"description=JSON file mapping hex addresses to labels"`
}

// Flags contains behavior options.
type Flags struct {
	Machine         string `json:"machine,omitempty" jsonschema:"description=Only consider formats of this machine"`
	Format          string `json:"format,omitempty" jsonschema:"description=Only consider this format"`
	Budget          int    `json:"budget,omitempty" jsonschema:"description=Trace step budget (0 = unlimited)"`
	AllowUnofficial bool   `json:"allow_unofficial,omitempty" jsonschema:"description=Continue tracing over undocumented opcodes"`
	JSON            bool   `json:"json,omitempty" jsonschema:"description=Write the report as JSON"`
	NoHexBytes      bool   `json:"no_hex_bytes,omitempty" jsonschema:"description=Do not output instruction bytes in listings"`
	Debug           bool   `json:"debug,omitempty" jsonschema:"description=Enable debug logging"`
	Quiet           bool   `json:"quiet,omitempty" jsonschema:"description=Quiet mode"`
}

// Program options of the analyzer.
type Program struct {
	Parameters
	Flags

	Command string `json:"-"`
}
