package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tokennotifs/gainerbot/config"
)

// RootConfig carries the global flags and the resolved configuration into
// the subcommands.
type RootConfig struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	LogFile    string
	DryRun     bool

	Cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "gainerbot",
		Short:         "Gainerbot — posts the biggest hourly Binance gainer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to YAML config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.EnvFile, "env-file", "", "Path to .env file (optional)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&rc.LogFile, "log-file", "", "Append-mode run log path")
	cmd.PersistentFlags().BoolVar(&rc.DryRun, "dry-run", true, "Compute everything but do not post")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if rc.EnvFile != "" {
			if err := godotenv.Load(rc.EnvFile); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
		} else {
			// A .env in the working directory is optional.
			_ = godotenv.Load()
		}

		cfg := config.FromEnv()
		if rc.ConfigPath != "" {
			if err := cfg.LoadFile(rc.ConfigPath); err != nil {
				return err
			}
		}
		if rc.LogLevel != "" {
			cfg.LogLevel = rc.LogLevel
		}
		if rc.LogFile != "" {
			cfg.LogFile = rc.LogFile
		}
		// The flag wins over DRY_RUN only when set explicitly.
		if cmd.Flags().Changed("dry-run") {
			cfg.DryRun = rc.DryRun
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		rc.Cfg = cfg
		return nil
	}

	// Subcommands
	cmd.AddCommand(
		newRunCmd(rc),
		newScanCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("gainerbot (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
