package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/msto63/rexbot/pkg/pattern"
	"github.com/msto63/rexbot/pkg/pattern/parser"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse <muster>",
	Short: "Prüft ein Muster und zeigt den Syntaxbaum",
	Long: `Prüft ein Muster und gibt die kanonische Form sowie den Syntaxbaum aus.

Bei Syntaxfehlern wird die Fehlerstelle im Muster markiert.

Formate:
  text   Kanonische Form und Verschachtelungstiefe (default)
  yaml   Syntaxbaum als YAML
  json   Syntaxbaum als JSON

Beispiele:
  rexbot parse '[a-z]{3}'
  rexbot parse --format yaml '(ab|<cd>)+'`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "text", "Ausgabeformat (text, yaml, json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	p, err := pattern.Compile(args[0])
	if err != nil {
		return reportPatternError(cmd, args[0], err)
	}

	out := cmd.OutOrStdout()
	switch parseFormat {
	case "text":
		fmt.Fprintf(out, "Kanonisch: %s\n", p.String())
		fmt.Fprintf(out, "Tiefe:     %d\n", p.AST().Depth())
		fmt.Fprintf(out, "Zweige:    %d\n", len(p.AST().Union))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(p.AST()); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		data, err := json.MarshalIndent(p.AST().Tree(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	default:
		return fmt.Errorf("unbekanntes Format %q (text, yaml, json)", parseFormat)
	}
	return nil
}

// reportPatternError prints err to stderr, marking the position of syntax
// errors under the pattern, and returns it
func reportPatternError(cmd *cobra.Command, source string, err error) error {
	w := cmd.ErrOrStderr()

	var perr *parser.ParseError
	if errors.As(err, &perr) {
		runes := []rune(source)
		offset := min(perr.Offset, len(runes))
		column := uniseg.StringWidth(string(runes[:offset]))

		fmt.Fprintf(w, "Syntaxfehler: %s\n", perr.Reason)
		fmt.Fprintf(w, "  %s\n", source)
		fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", column))
		return err
	}

	fmt.Fprintf(w, "Fehler: %v\n", err)
	return err
}
