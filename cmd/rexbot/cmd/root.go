package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/rexbot/pkg/core/config"
	"github.com/msto63/rexbot/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rexbot",
	Short: "rexbot - Zufallsstrings aus Mustern",
	Long: `rexbot erzeugt zufällige Zeichenketten aus regex-ähnlichen Mustern
und stellt diese Funktion als traQ-Bot bereit.

Befehle:
  serve       - Bot starten (Websocket + Health-Endpoint)
  gen         - Stichproben zu einem Muster erzeugen
  parse       - Muster prüfen und Syntaxbaum anzeigen
  patterns    - Gespeicherte Muster verwalten
  playground  - Interaktive Muster-Spielwiese`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
}

// loadConfig reads the configuration file, falling back to defaults when
// none exists, and configures process logging from it
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
		if errors.Is(err, config.ErrNoConfigFile) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	if verbose {
		cfg.General.LogLevel = "debug"
	}

	logging.Configure(logging.LoggerConfig{
		Level:  cfg.General.LogLevel,
		Format: cfg.General.LogFormat,
	})
	return cfg, nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fehler: %s: %v\n", msg, err)
}
