package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/rexbot/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version an",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "rexbot v%s\n", info.Version)
		fmt.Fprintf(out, "  Git Commit: %s\n", info.Commit)
		fmt.Fprintf(out, "  Build Date: %s\n", info.BuildDate)
		fmt.Fprintf(out, "  Go Version: %s\n", info.GoVersion)
		fmt.Fprintf(out, "  OS/Arch:    %s\n", info.Platform)
		fmt.Fprintf(out, "  Komponenten: bot %s, pattern %s, store %s\n",
			version.ComponentVersion("bot"), version.ComponentVersion("pattern"), version.ComponentVersion("store"))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
