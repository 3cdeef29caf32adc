package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-ionicdose/config"
	"go-ionicdose/dilution"
)

// app 命令共享的运行时状态
type app struct {
	configPath string
	verbose    bool

	cfg             *config.Config
	logger          *zap.Logger
	calc            *dilution.Calculator
	profilesVersion string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ionicdose",
		Short: "Ionic mineral dilution calculator and API server",
		Long: `ionicdose computes how much ionic mineral concentrate a target water volume needs,
for undiluted stock or the 1:10 ritual solution, and serves the calculator over HTTP.

Run without a subcommand to start the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yaml", "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(a),
		newCalcCmd(a),
		newTableCmd(a),
		newAuditCmd(a),
	)
	return root
}

// setup 加载配置、日志和场景表
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}

	set, err := config.LoadProfiles(cfg.Dilution.ProfilesFile)
	if err != nil {
		return err
	}
	calc, err := dilution.NewCalculator(set.Profiles, logger)
	if err != nil {
		return fmt.Errorf("failed to build calculator: %w", err)
	}

	a.cfg, a.logger, a.calc, a.profilesVersion = cfg, logger, calc, set.Version
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
