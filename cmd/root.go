package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"gitmob/internal/logger"
)

// Version information (set at build time)
var (
	appVersion    = "dev"
	appCommitHash = "unknown"
	appBuildDate  = "unknown"
)

// SetVersionInfo sets the version information from build-time variables
func SetVersionInfo(version, commitHash, buildDate string) {
	appVersion = version
	appCommitHash = commitHash
	appBuildDate = buildDate
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCmd creates a new instance of the root command.
// Each call builds fresh flag state, so tests can run commands independently.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "git-mob",
		Short: "Co-author commits with your mob",
		Long: `git-mob keeps a personal directory of co-authors so that commits made
while pairing or mobbing can credit everyone involved.

Co-authors are stored in git config under the "coauthors" section by
default. The storage backend can be changed in the settings file.

Examples:
  git mob coauthor --add lm "Leo Messi" leo.messi@example.com
  git mob coauthor --list
  git mob coauthor --delete lm`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/git-mob/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "write debug logs to stderr")

	cmd.AddCommand(newCoauthorCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

var rootCmd = NewRootCmd()

// Execute runs the root command. Ctrl-C cancels the command context, which
// stops any running git process.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}
