package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/npillmayer/lrdrive/grammar"
	"github.com/npillmayer/lrdrive/lang/printstmt"
	"github.com/npillmayer/lrdrive/lr"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lrtrace",
	Short: "Trace the decisions of a table-driven LR parser",
	Long: `lrtrace drives an LR parser with ACTION and GOTO tables and prints
the trace of the parse run. Syntax errors are recovered in panic mode.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var rootFlags = struct {
	tables *string
	trace  *string
	budget *int
}{}

func init() {
	rootFlags.tables = rootCmd.PersistentFlags().String("tables", "", "table description file (default: print statement tables)")
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
	rootFlags.budget = rootCmd.PersistentFlags().Int("step-budget", 0, "maximum number of parser steps, 0 = unlimited")
}

// Execute runs the command selected by the command line.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errRejected) {
		pterm.Error.Println(err.Error())
	}
	return err
}

var tracekeys = []string{"lrdrive.lr", "lrdrive.scanner", "lrdrive.cli"}

// setup wires configuration and tracing. Command line flags override values
// from configuration files.
func setup(cmd *cobra.Command, args []string) error {
	initDisplay()
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := koanfadapter.New(nil, "lrtrace", []string{".nt"})
	gconf.Initialize(conf)
	if cmd.Flags().Changed("step-budget") {
		conf.Set("lrdrive.step-budget", *rootFlags.budget)
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range tracekeys {
		if cmd.Flags().Changed("trace") || conf.GetString("trace."+key) == "" {
			tracing.Select(key).SetTraceLevel(level)
		}
	}
	tracer().Debugf("step budget is %d", gconf.GetInt("lrdrive.step-budget"))
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// loadDescription reads the table description given with --tables, or returns
// the one of the print statement language.
func loadDescription(path string) (*lr.Description, error) {
	if path == "" {
		return printstmt.Description()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open table description: %w", err)
	}
	defer f.Close()
	d, err := lr.LoadDescription(f)
	if err != nil {
		return nil, err
	}
	if d.Name == "" {
		d.Name = path
	}
	return d, nil
}

func loadTables(path string) (*grammar.Grammar, *lr.Tables, error) {
	d, err := loadDescription(path)
	if err != nil {
		return nil, nil, err
	}
	g, tables, err := d.Build()
	if err != nil {
		return nil, nil, err
	}
	tracer().Infof("tables %q, fingerprint %s", g.Name, d.Fingerprint())
	return g, tables, nil
}
