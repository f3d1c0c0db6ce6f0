package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/persistorai/socialgraph/internal/config"
)

// Build-time variables set via ldflags.
var (
	commit    = ""
	buildDate = ""
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	databaseURL string
	sqlitePath  string
	format      string
	logLevel    string
	profile     string
}

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("socialgraph version %s (commit: %s, built: %s)", config.Version, commit, buildDate)
	}
	return fmt.Sprintf("socialgraph version %s", config.Version)
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "socialgraph",
		Short:   "Social graph analytics: influence ranking, communities and friend recommendations",
		Version: versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := resolveConfig(flags); err != nil {
				return err
			}
			return validateFormat(flags.format)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.databaseURL, "database-url", "", "PostgreSQL URL (env: DATABASE_URL)")
	pf.StringVar(&flags.sqlitePath, "sqlite", "", "SQLite database file (env: SQLITE_PATH)")
	pf.StringVar(&flags.format, "format", formatJSONName, "Output format: json|table")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (env: LOG_LEVEL)")
	pf.StringVar(&flags.profile, "profile", "", "Profile from ~/.socialgraph/config.yaml")

	rootCmd.AddCommand(newServeCmd(flags))
	rootCmd.AddCommand(newMigrateCmd(flags))
	rootCmd.AddCommand(newUserCmd(flags))
	rootCmd.AddCommand(newFriendCmd(flags))
	rootCmd.AddCommand(newRankCmd(flags))
	rootCmd.AddCommand(newCommunitiesCmd(flags))
	rootCmd.AddCommand(newRecommendCmd(flags))
	rootCmd.AddCommand(newSuggestCmd(flags))
	rootCmd.AddCommand(newMutualsCmd(flags))
	rootCmd.AddCommand(newSeedCmd(flags))
	rootCmd.AddCommand(newClearCmd(flags))
	rootCmd.AddCommand(newImportCmd(flags))

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
