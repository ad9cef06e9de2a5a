package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/rexbot/pkg/pattern"
	"github.com/msto63/rexbot/pkg/pattern/generator"
)

var (
	genCount    int
	genSeed     uint64
	genNoLimits bool
)

var genCmd = &cobra.Command{
	Use:   "gen <muster>",
	Short: "Erzeugt Zufallsstrings zu einem Muster",
	Long: `Erzeugt zufällige Zeichenketten, die zum Muster passen.

Syntax:
  abc          Literale
  [a-z0-9_]    Zeichenklasse mit Bereichen
  \d \w        Ziffer / Wortzeichen
  (a|b)        Gruppe, bei jeder Wiederholung neu gewürfelt
  <a|b>        feste Gruppe, einmal gewürfelt und wiederholt
  ? * + {n} {m,n} {m,}  Wiederholungen

Beispiele:
  rexbot gen '[a-z]{8}'
  rexbot gen -n 5 '(ab|cd){2,4}'
  rexbot gen --seed 42 '<\d>{6}'`,
	Args: cobra.ExactArgs(1),
	RunE: runGen,
}

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().IntVarP(&genCount, "count", "n", 1, "Anzahl der Stichproben")
	genCmd.Flags().Uint64Var(&genSeed, "seed", 0, "Seed für reproduzierbare Ausgabe")
	genCmd.Flags().BoolVar(&genNoLimits, "no-limits", false, "Längen- und Tiefenlimits abschalten")
}

func runGen(cmd *cobra.Command, args []string) error {
	if genCount < 1 {
		return fmt.Errorf("--count muss mindestens 1 sein")
	}

	limits := pattern.DefaultOptions().Limits
	if genNoLimits {
		limits = pattern.Unlimited
	}
	p, err := pattern.CompileWithLimits(args[0], limits)
	if err != nil {
		return reportPatternError(cmd, args[0], err)
	}

	src := generator.DefaultSource()
	if cmd.Flags().Changed("seed") {
		src = generator.NewSource(genSeed)
	}

	out := cmd.OutOrStdout()
	for i := 0; i < genCount; i++ {
		s, err := p.Generate(src)
		if err != nil {
			return reportPatternError(cmd, args[0], err)
		}
		fmt.Fprintln(out, s)
	}
	return nil
}
