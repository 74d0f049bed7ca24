package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/npillmayer/lrdrive"
	"github.com/npillmayer/lrdrive/grammar"
	"github.com/npillmayer/lrdrive/lr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tablesFlags = struct {
	html *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print grammar and parse tables",
		Args:  cobra.NoArgs,
		RunE:  runTables,
	}
	tablesFlags.html = cmd.Flags().String("html", "", "write the tables to an HTML file instead")
	rootCmd.AddCommand(cmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	d, err := loadDescription(*rootFlags.tables)
	if err != nil {
		return err
	}
	g, tables, err := d.Build()
	if err != nil {
		return err
	}
	if *tablesFlags.html != "" {
		f, err := os.Create(*tablesFlags.html)
		if err != nil {
			return err
		}
		lr.TablesAsHTML(tables, f)
		if err := f.Close(); err != nil {
			return err
		}
		pterm.Info.Printfln("tables written to %s", *tablesFlags.html)
		return nil
	}
	w := cmd.OutOrStdout()
	io.WriteString(w, pterm.DefaultSection.Sprintln(g.Name))
	io.WriteString(w, pterm.Info.Sprintfln("fingerprint %s", d.Fingerprint()))
	for _, data := range [][][]string{productionRows(g), actionRows(tables), gotoRows(tables)} {
		s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, s)
	}
	return nil
}

func productionRows(g *grammar.Grammar) pterm.TableData {
	data := pterm.TableData{{"#", "production"}}
	for _, p := range g.Productions() {
		data = append(data, []string{strconv.Itoa(p.Index), p.String()})
	}
	return data
}

// actionRows renders the ACTION table, one row per state and one column per
// terminal. Absent actions are left blank.
func actionRows(t *lr.Tables) pterm.TableData {
	terminals := t.Terminals()
	col := make(map[lrdrive.Symbol]int, len(terminals))
	header := []string{"ACTION"}
	for i, a := range terminals {
		col[a] = i + 1
		header = append(header, a.Name)
	}
	data := pterm.TableData{header}
	for state := 0; state < t.StateCount(); state++ {
		row := make([]string, len(header))
		row[0] = strconv.Itoa(state)
		t.EachAction(state, func(a lrdrive.Symbol, action lr.Action) {
			row[col[a]] = action.String()
		})
		data = append(data, row)
	}
	return data
}

// gotoRows renders the GOTO table, one row per state and one column per
// non-terminal.
func gotoRows(t *lr.Tables) pterm.TableData {
	nonterms := t.Grammar().NonTerminals()
	col := make(map[lrdrive.Symbol]int, len(nonterms))
	header := []string{"GOTO"}
	for i, A := range nonterms {
		col[A] = i + 1
		header = append(header, A.Name)
	}
	data := pterm.TableData{header}
	for state := 0; state < t.StateCount(); state++ {
		row := make([]string, len(header))
		row[0] = strconv.Itoa(state)
		t.EachGoto(state, func(A lrdrive.Symbol, target int) {
			if c, ok := col[A]; ok {
				row[c] = strconv.Itoa(target)
			}
		})
		data = append(data, row)
	}
	return data
}
