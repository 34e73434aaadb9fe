// Package cli handles command line interface logic
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/invopop/jsonschema"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrosniff/internal/config"
	"github.com/retroenv/retrosniff/internal/fileprocessor"
	"github.com/retroenv/retrosniff/internal/machine"
	"github.com/retroenv/retrosniff/internal/options"
	"github.com/retroenv/retrosniff/internal/pipeline"
	"github.com/retroenv/retrosniff/internal/sniff"
	"github.com/spf13/cobra"
)

var (
	errMissingInput   = errors.New("no input file or batch pattern given")
	errNegativeBudget = errors.New("step budget can not be negative")
)

// Schema is the document that the schema command describes.
type Schema struct {
	Options options.Program `json:"options" jsonschema:"title=Options,description=Command line options"`
	Weights sniff.Weights   `json:"weights" jsonschema:"title=Weights,description=Content of the file passed with --weights"`
}

type commandLine struct {
	opts    options.Program
	version string
	commit  string
	date    string
}

// Execute runs the command line interface until the command finishes or the
// context is cancelled.
func Execute(ctx context.Context, version, commit, date string) error {
	root := NewRootCommand(version, commit, date)
	if err := fang.Execute(ctx, root, fang.WithNotifySignal(os.Interrupt)); err != nil {
		return fmt.Errorf("executing command: %w", err)
	}
	return nil
}

// NewRootCommand returns the root command with all sub commands. Running the
// root command with a file argument is the same as running sniff.
func NewRootCommand(version, commit, date string) *cobra.Command {
	c := &commandLine{
		version: version,
		commit:  commit,
		date:    date,
	}

	root := &cobra.Command{
		Use:   "retrosniff [file]",
		Short: "Identify and trace Commodore 6502 program files",
		Long: `retrosniff scores a file against the known Commodore formats, maps the
selected format into the address space and traces the machine code that
the entry points reach.`,
		Example: `
# Identify the format of a file
retrosniff game.prg

# Trace a cartridge dump and write the result as JSON
retrosniff trace --json -o cart.json cart.bin

# Print a disassembly listing of all .prg files of a directory
retrosniff list --batch "games/*.prg"
  `,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runE(options.SniffCommand),
	}

	c.readOptionFlags(root)

	root.AddCommand(
		c.analysisCommand(options.SniffCommand, "Score a file against all known formats"),
		c.analysisCommand(options.TraceCommand, "Trace the code reachable from the entry points"),
		c.analysisCommand(options.ListCommand, "Print a disassembly listing of the mapped content"),
		c.analysisCommand(options.BasicCommand, "Print the BASIC program of a file"),
		c.formatsCommand(),
		schemaCommand(),
	)
	return root
}

func (c *commandLine) readOptionFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&c.opts.Output, "output", "o", "", "name of the output file, printed on console if no name given")
	flags.StringVar(&c.opts.Batch, "batch", "", "process a batch of given path and file mask and automatically name the output files, for example *.prg")
	flags.StringVar(&c.opts.Weights, "weights", "", "JSON file with scoring weights that override the defaults")
	flags.StringVar(&c.opts.Symbols, "symbols", "", "JSON file mapping hex addresses to labels")
	flags.StringVarP(&c.opts.Machine, "machine", "m", "", "only consider formats of this machine")
	flags.StringVarP(&c.opts.Format, "format", "f", "", "only consider this format")
	flags.IntVar(&c.opts.Budget, "budget", 0, "maximum number of trace steps, 0 for no limit")
	flags.BoolVar(&c.opts.AllowUnofficial, "allow-unofficial", false, "continue tracing over undocumented opcodes")
	flags.BoolVarP(&c.opts.JSON, "json", "j", false, "write the report as JSON")
	flags.BoolVar(&c.opts.NoHexBytes, "nohexbytes", false, "do not output instruction bytes in listings")
	flags.BoolVarP(&c.opts.Debug, "debug", "d", false, "enable debugging options for extended logging")
	flags.BoolVarP(&c.opts.Quiet, "quiet", "q", false, "perform operations quietly")
}

func (c *commandLine) analysisCommand(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [file]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.runE(name),
	}
}

func (c *commandLine) runE(command string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		opts := c.opts
		opts.Command = command
		if len(args) == 1 {
			opts.Input = args[0]
		}
		if err := validateOptions(opts); err != nil {
			return err
		}
		return c.analyze(cmd.Context(), opts)
	}
}

func validateOptions(opts options.Program) error {
	if opts.Input == "" && opts.Batch == "" {
		return errMissingInput
	}
	if opts.Budget < 0 {
		return errNegativeBudget
	}
	return nil
}

func (c *commandLine) analyze(ctx context.Context, opts options.Program) error {
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, c.version, c.commit, c.date)

	p, err := newPipeline(logger, opts)
	if err != nil {
		return err
	}

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		return err
	}

	var failed int
	for _, file := range files {
		opts.Input = file
		if opts.Batch != "" {
			opts.Output = fileprocessor.GenerateOutputFilename(file, opts.JSON)
		}

		if err := fileprocessor.ProcessFile(ctx, logger, p, opts); err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				return err
			}
			logger.Error("Analysis failed", log.String("file", file), log.Err(err))
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("analysis failed for %d of %d files", failed, len(files))
	}
	return nil
}

func newPipeline(logger *log.Logger, opts options.Program) (*pipeline.Pipeline, error) {
	weights, err := config.LoadWeights(opts.Weights)
	if err != nil {
		return nil, err
	}
	table, err := config.LoadSymbols(opts.Symbols)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(logger, weights, table)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline: %w", err)
	}
	return p, nil
}

func (c *commandLine) formatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported machines and formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := config.CreateLogger(c.opts.Debug, true)
			p, err := newPipeline(logger, c.opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range machine.All {
				if _, err := fmt.Fprintf(out, "%-10s %s, BASIC at $%04x\n", m.Name, m.Description, m.BasicStart); err != nil {
					return fmt.Errorf("writing machines: %w", err)
				}
			}
			if _, err := fmt.Fprintln(out); err != nil {
				return fmt.Errorf("writing formats: %w", err)
			}
			for _, s := range p.Registry().Sniffers() {
				if _, err := fmt.Fprintln(out, s.Name()); err != nil {
					return fmt.Errorf("writing formats: %w", err)
				}
			}
			return nil
		},
	}
}

func schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "schema",
		Short:  "Generate JSON schema for the options and weights",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reflector := new(jsonschema.Reflector)
			bts, err := json.MarshalIndent(reflector.Reflect(&Schema{}), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bts))
			return err
		},
	}
}
