package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/rexbot/foundation/core/error"
	"github.com/msto63/rexbot/internal/bot"
	"github.com/msto63/rexbot/internal/bot/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Startet den traQ-Bot",
	Long: `Startet den traQ-Bot.

Der Bot verbindet sich per Websocket mit traQ, beantwortet Befehle wie
/rand, /save und /call und stellt einen Health-Endpoint bereit.

Benötigt werden Access-Token und Bot-ID, entweder in der Config-Datei
([bot] access_token, bot_id) oder über REXBOT_ACCESS_TOKEN und
REXBOT_BOT_ID.

Beispiele:
  rexbot serve
  rexbot serve --config ./configs/config.toml
  REXBOT_ACCESS_TOKEN=... REXBOT_BOT_ID=... rexbot serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("Config nicht geladen", err)
		return err
	}
	if err := cfg.Validate(); err != nil {
		printError("Ungültige Config", err)
		return mdwerror.Wrap(err, "invalid configuration").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("serve")
	}

	st, err := store.New(store.Config{Path: cfg.Database.Path})
	if err != nil {
		printError("Datenbank nicht geöffnet", err)
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "rexbot startet (Datenbank: %s)\n", cfg.Database.Path)
	if cfg.Health.Enabled {
		fmt.Fprintf(cmd.ErrOrStderr(), "Health-Endpoint: http://%s/health\n", cfg.Health.Address())
	}

	return bot.New(cfg, st).Run(ctx)
}
