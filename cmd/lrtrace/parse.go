package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/npillmayer/lrdrive/lang/printstmt"
	"github.com/npillmayer/lrdrive/lr/driver"
	"github.com/npillmayer/lrdrive/lr/scanner"
	"github.com/npillmayer/lrdrive/lr/trace"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// errRejected is returned for input which has not been accepted.
var errRejected = errors.New("input rejected")

var parseFlags = struct {
	tokens *bool
	lexer  *string
	plain  *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse [source file]",
		Short:   "Parse input and print the parser trace",
		Example: `  echo 'print("hi")' | lrtrace parse`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runParse,
	}
	parseFlags.tokens = cmd.Flags().Bool("tokens", false, "input is a token file, one 'TERMINAL lexeme' per line")
	parseFlags.lexer = cmd.Flags().String("lexer", "", "lexer for source input [print|go] (default: print for the built-in tables, go otherwise)")
	parseFlags.plain = cmd.Flags().Bool("plain", false, "print bare trace lines")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	g, tables, err := loadTables(*rootFlags.tables)
	if err != nil {
		return err
	}
	name, input := "stdin", io.Reader(os.Stdin)
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("cannot open source file: %w", err)
		}
		defer f.Close()
		name, input = filepath.Base(args[0]), f
	}
	tokenizer, err := makeTokenizer(name, input, lexerName(*parseFlags.lexer), *parseFlags.tokens)
	if err != nil {
		return err
	}
	p := driver.NewParser(g, tables)
	result, err := p.Parse(tokenizer)
	if rerr := report(cmd.OutOrStdout(), result, *parseFlags.plain); rerr != nil {
		return rerr
	}
	if err != nil {
		return err
	}
	if !result.Accepted() {
		return errRejected
	}
	return nil
}

// lexerName chooses the reference lexer for the built-in tables and the Go
// tokenizer for any other tables, unless a lexer has been set explicitly.
func lexerName(flag string) string {
	if flag != "" {
		return flag
	}
	if *rootFlags.tables == "" {
		return "print"
	}
	return "go"
}

func makeTokenizer(name string, input io.Reader, lexer string, tokenFile bool) (scanner.Tokenizer, error) {
	if tokenFile {
		tokens, err := scanner.ReadTokens(input)
		if err != nil {
			return nil, err
		}
		return scanner.NewSliceTokenizer(tokens), nil
	}
	switch lexer {
	case "go":
		return scanner.NewGoTokenizer(name, input, scanner.SkipComments(true)), nil
	case "print":
		src, err := io.ReadAll(input)
		if err != nil {
			return nil, err
		}
		tokens, err := printstmt.Tokenize(string(src))
		if err != nil {
			return nil, err
		}
		return scanner.NewSliceTokenizer(tokens), nil
	}
	return nil, fmt.Errorf("unknown lexer %q", lexer)
}

// report writes the trace of a parse run to w, followed by the verdict.
func report(w io.Writer, result *driver.Result, plain bool) error {
	if plain {
		if err := trace.Write(w, result.Events); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, result.Verdict)
		return err
	}
	for _, e := range result.Events {
		var line string
		switch e.Kind {
		case trace.SyntaxError, trace.Unrecoverable:
			line = pterm.Error.Sprintln(e.String())
		case trace.Skip, trace.Resume:
			line = pterm.Warning.Sprintln(e.String())
		case trace.Accept:
			line = pterm.Success.Sprintln(e.String())
		default:
			line = "         " + pterm.FgGray.Sprint(e.String()) + "\n"
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	var summary string
	if result.Accepted() {
		summary = pterm.Success.Sprintfln("%v after %d steps, %d syntax error(s)",
			result.Verdict, result.Steps, result.SyntaxErrors)
	} else {
		summary = pterm.Error.Sprintfln("%v after %d steps, %d syntax error(s)",
			result.Verdict, result.Steps, result.SyntaxErrors)
	}
	_, err := io.WriteString(w, summary)
	return err
}
