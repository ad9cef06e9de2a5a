package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/rexbot/internal/tui/playground"
	"github.com/msto63/rexbot/pkg/pattern"
	"github.com/msto63/rexbot/pkg/pattern/generator"
)

var (
	playgroundSamples int
	playgroundSeed    uint64
)

var playgroundCmd = &cobra.Command{
	Use:     "playground [muster]",
	Aliases: []string{"play", "tui"},
	Short:   "Startet die interaktive Muster-Spielwiese",
	Long: `Startet eine Terminal-UI zum Ausprobieren von Mustern.

Jede Änderung am Muster erzeugt sofort neue Stichproben.

Tastenkuerzel:
  Enter / Ctrl+R   Neu würfeln
  Tab              Syntaxbaum ein-/ausblenden
  Esc / Ctrl+C     Beenden`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlayground,
}

func init() {
	rootCmd.AddCommand(playgroundCmd)

	playgroundCmd.Flags().IntVarP(&playgroundSamples, "count", "n", 8, "Anzahl der Stichproben")
	playgroundCmd.Flags().Uint64Var(&playgroundSeed, "seed", 0, "Seed für reproduzierbare Ausgabe")
}

func runPlayground(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("Config nicht geladen", err)
		return err
	}

	pcfg := playground.DefaultConfig()
	pcfg.Samples = playgroundSamples
	pcfg.Options = pattern.Options{
		Limits: pattern.Limits{
			MaxPatternLength: cfg.Pattern.MaxPatternLength,
			MaxDepth:         cfg.Pattern.MaxDepth,
			MaxOutputLength:  cfg.Pattern.MaxOutputLength,
		},
		CacheSize: cfg.Pattern.CacheSize,
		CacheTTL:  cfg.Pattern.CacheTTL.Duration,
	}
	if len(args) == 1 {
		pcfg.Pattern = args[0]
	}
	if cmd.Flags().Changed("seed") {
		pcfg.Source = generator.NewSource(playgroundSeed)
	}

	return playground.Run(pcfg)
}
