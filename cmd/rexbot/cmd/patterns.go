package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/msto63/rexbot/foundation/utils/stringx"
	"github.com/msto63/rexbot/internal/bot/store"
	"github.com/msto63/rexbot/pkg/core/config"
	"github.com/msto63/rexbot/pkg/pattern"
)

var (
	patternsLimit  int
	patternsFormat string
	patternsUser   string
)

var patternsCmd = &cobra.Command{
	Use:     "patterns",
	Aliases: []string{"pattern", "p"},
	Short:   "Gespeicherte Muster verwalten",
	Long: `Verwaltet die Muster in der lokalen Datenbank des Bots.

Beispiele:
  rexbot patterns list
  rexbot patterns get greet
  rexbot patterns save greet 'hallo( welt){2}'
  rexbot patterns remove greet --user <user-id>`,
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listet gespeicherte Muster",
	Args:  cobra.NoArgs,
	RunE:  runPatternsList,
}

var patternsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Zeigt ein gespeichertes Muster",
	Args:  cobra.ExactArgs(1),
	RunE:  runPatternsGet,
}

var patternsSaveCmd = &cobra.Command{
	Use:   "save <name> <muster>",
	Short: "Speichert ein Muster",
	Args:  cobra.ExactArgs(2),
	RunE:  runPatternsSave,
}

var patternsRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"delete", "rm"},
	Short:   "Löscht ein Muster (nur durch den Besitzer)",
	Args:    cobra.ExactArgs(1),
	RunE:    runPatternsRemove,
}

var patternsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Zeigt Statistiken der Datenbank",
	Args:  cobra.NoArgs,
	RunE:  runPatternsStats,
}

func init() {
	rootCmd.AddCommand(patternsCmd)
	patternsCmd.AddCommand(patternsListCmd, patternsGetCmd, patternsSaveCmd, patternsRemoveCmd, patternsStatsCmd)

	patternsCmd.PersistentFlags().StringVarP(&patternsFormat, "format", "f", "text", "Ausgabeformat (text, yaml, json)")
	patternsCmd.PersistentFlags().StringVar(&patternsUser, "user", defaultUser(), "Benutzer-ID als Besitzer")
	patternsListCmd.Flags().IntVar(&patternsLimit, "limit", 0, "Maximale Anzahl (0 = alle)")
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return "local:" + u
	}
	return "local"
}

func openStore() (*store.SQLiteStore, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.New(store.Config{Path: cfg.Database.Path})
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

func runPatternsList(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		printError("Datenbank nicht geöffnet", err)
		return err
	}
	defer st.Close()

	recs, err := st.List(context.Background(), patternsLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if patternsFormat != "text" {
		return encode(cmd, recs)
	}
	if len(recs) == 0 {
		fmt.Fprintln(out, "Keine Muster gespeichert.")
		return nil
	}

	fmt.Fprintf(out, "%s %-8s %s %s\n",
		stringx.PadRight("NAME", 20, ' '), "AUFRUFE", stringx.PadRight("BESITZER", 20, ' '), "MUSTER")
	for _, r := range recs {
		owner := stringx.FirstNonBlank(r.UserName, r.UserID)
		fmt.Fprintf(out, "%s %-8d %s %s\n",
			stringx.PadRight(r.Key, 20, ' '), r.UseCount, stringx.PadRight(owner, 20, ' '), r.Pattern)
	}
	return nil
}

func runPatternsGet(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		printError("Datenbank nicht geöffnet", err)
		return err
	}
	defer st.Close()

	rec, err := st.Get(context.Background(), args[0])
	if err != nil {
		return err
	}
	if patternsFormat != "text" {
		return encode(cmd, rec)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:       %s\n", rec.Key)
	fmt.Fprintf(out, "Muster:     %s\n", rec.Pattern)
	fmt.Fprintf(out, "Besitzer:   %s (%s)\n", rec.UserName, rec.UserID)
	fmt.Fprintf(out, "Aufrufe:    %d\n", rec.UseCount)
	fmt.Fprintf(out, "Erstellt:   %s\n", rec.CreatedAt.Local().Format(time.DateTime))
	if rec.LastUsedAt != nil {
		fmt.Fprintf(out, "Zuletzt:    %s\n", rec.LastUsedAt.Local().Format(time.DateTime))
	}
	return nil
}

func runPatternsSave(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore()
	if err != nil {
		printError("Datenbank nicht geöffnet", err)
		return err
	}
	defer st.Close()

	limits := pattern.Limits{
		MaxPatternLength: cfg.Pattern.MaxPatternLength,
		MaxDepth:         cfg.Pattern.MaxDepth,
		MaxOutputLength:  cfg.Pattern.MaxOutputLength,
	}
	if _, err := pattern.CompileWithLimits(args[1], limits); err != nil {
		return reportPatternError(cmd, args[1], err)
	}

	rec := &store.Record{Key: args[0], Pattern: args[1], UserID: patternsUser, UserName: patternsUser}
	if err := st.Save(context.Background(), rec); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Muster %q gespeichert.\n", rec.Key)
	return nil
}

func runPatternsRemove(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		printError("Datenbank nicht geöffnet", err)
		return err
	}
	defer st.Close()

	ctx := context.Background()
	removed, err := st.Remove(ctx, args[0], patternsUser)
	if err != nil {
		return err
	}
	if !removed {
		if _, err := st.Get(ctx, args[0]); err != nil {
			return err
		}
		return fmt.Errorf("Muster %q gehört nicht %s", args[0], patternsUser)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Muster %q gelöscht.\n", args[0])
	return nil
}

func runPatternsStats(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore()
	if err != nil {
		printError("Datenbank nicht geöffnet", err)
		return err
	}
	defer st.Close()

	stats, err := st.Statistics(context.Background())
	if err != nil {
		return err
	}
	if patternsFormat != "text" {
		return encode(cmd, stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Datenbank: %s\n", cfg.Database.Path)
	fmt.Fprintf(out, "Muster:    %v\n", stats["patterns"])
	fmt.Fprintf(out, "Besitzer:  %v\n", stats["owners"])
	fmt.Fprintf(out, "Aufrufe:   %v\n", stats["uses"])
	return nil
}

func encode(cmd *cobra.Command, v interface{}) error {
	out := cmd.OutOrStdout()
	switch patternsFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unbekanntes Format %q (text, yaml, json)", patternsFormat)
	}
}
