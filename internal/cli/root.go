// Package cli provides the draftboard command-line interface.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	service "github.com/okian/draftboard/internal/app"
	"github.com/okian/draftboard/internal/config"
	"github.com/okian/draftboard/pkg/logger"
)

// Version is set at build time.
var Version = "0.1.0"

// env is what every subcommand runs against, filled in by PersistentPreRunE.
type env struct {
	cfg *config.Config
	svc *service.Service
	log logger.Logger
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	e := &env{}

	rootCmd := &cobra.Command{
		Use:   "draftboard",
		Short: "Consensus draft board builder",
		Long: `draftboard merges prospect rankings from many sources into one weighted
consensus board, grades and tiers every player, and tracks rank movement
against the previous board through a persistent enrichment file.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return e.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = logger.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML config file (default: $DRAFTBOARD_CONFIG)")
	rootCmd.PersistentFlags().String("profile", "", "pipeline profile: "+joinProfiles())
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "json or console")
	rootCmd.PersistentFlags().String("metrics-file", "", "write a Prometheus textfile after each run")

	_ = rootCmd.RegisterFlagCompletionFunc("profile", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.Profiles(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newBuildCmd(e),
		newLoadCmd(e),
		newShowCmd(e),
		newPromoteCmd(e),
		newServeCmd(e),
	)
	return rootCmd
}

func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context(), cmd.Flags())
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	log := logger.Named("cli")

	svc, err := service.New(cfg, service.WithLogger(logger.Named("pipeline")))
	if err != nil {
		return err
	}
	e.cfg, e.svc, e.log = cfg, svc, log
	log.Debug(cmd.Context(), "config loaded",
		logger.String("command", cmd.Name()),
		logger.String("profile", cfg.Profile),
		logger.String("league", cfg.League),
		logger.String("rank_mode", cfg.RankMode),
		logger.Bool("group_line", cfg.GroupLine),
		logger.Float64("default_fantasy_multiplier", cfg.DefaultFantasyMultiplier),
	)
	return nil
}

func joinProfiles() string {
	return strings.Join(config.Profiles(), ", ")
}
