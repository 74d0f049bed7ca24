package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/lrdrive/lr/driver"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	init  *string
	lexer *string
	plain *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse input line by line, interactively",
		Args:  cobra.NoArgs,
		RunE:  runREPL,
	}
	replFlags.init = cmd.Flags().String("init", "", "file with input lines to parse first")
	replFlags.lexer = cmd.Flags().String("lexer", "", "lexer for input lines [print|go]")
	replFlags.plain = cmd.Flags().Bool("plain", false, "print bare trace lines")
	rootCmd.AddCommand(cmd)
}

// Intp is our interpreter object. Every input line is parsed as a complete input.
type Intp struct {
	parser *driver.Parser
	lexer  string
	plain  bool
	repl   *readline.Instance
	out    io.Writer
}

func runREPL(cmd *cobra.Command, args []string) error {
	g, tables, err := loadTables(*rootFlags.tables)
	if err != nil {
		return err
	}
	repl, err := readline.New("lrtrace> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	intp := &Intp{
		parser: driver.NewParser(g, tables),
		lexer:  lexerName(*replFlags.lexer),
		plain:  *replFlags.plain,
		repl:   repl,
		out:    cmd.OutOrStdout(),
	}
	pterm.Info.Printfln("Parsing with tables %q", g.Name)
	tracer().Infof("Quit with <ctrl>D")
	intp.loadInitFile(*replFlags.init)
	intp.REPL()
	return nil
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("Unable to open init file: %s", filename)
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := intp.Eval(line); err != nil {
			tracer().Errorf("Error line %d: %v", lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("Error while reading init file: %v", err)
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if _, err := intp.Eval(line); err != nil {
			pterm.Error.Println(err.Error())
		}
	}
	println("Good bye!")
}

// Eval parses a line of input and prints the trace of the parse run.
func (intp *Intp) Eval(line string) (*driver.Result, error) {
	tokenizer, err := makeTokenizer("repl", strings.NewReader(line), intp.lexer, false)
	if err != nil {
		return nil, err
	}
	result, err := intp.parser.Parse(tokenizer)
	if rerr := report(intp.out, result, intp.plain); rerr != nil {
		return result, rerr
	}
	return result, err
}
