package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kirillkom/trialsage/internal/bootstrap"
	"github.com/kirillkom/trialsage/internal/config"
	"github.com/kirillkom/trialsage/internal/observability/logging"
)

var version = "dev"

type rootOptions struct {
	configPath string
	envFile    string
	logFormat  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "trialsage",
		Short: "TrialSage - clinical trial protocol summarizer",
		Long: `TrialSage extracts structured summaries from clinical trial protocols
with a large language model and scores them against gold-standard summaries.

Run 'trialsage preprocess' to convert raw PDF protocols to text,
then 'trialsage evaluate' to score the whole corpus.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file path (defaults to $TRIALSAGE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file path (defaults to .env)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(
		preprocessCmd(opts),
		summarizeCmd(opts),
		evaluateCmd(opts),
		reportCmd(opts),
		mcpCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

func (o *rootOptions) app(cmd *cobra.Command, withGenerator bool) (*bootstrap.App, error) {
	cfg, err := config.Load(config.Options{ConfigPath: o.configPath, DotEnvPath: o.envFile})
	if err != nil {
		return nil, err
	}
	logger := logging.New(cmd.ErrOrStderr(), o.logFormat, "cli", cfg.LogLevel)
	return bootstrap.New(cmd.Context(), cfg, bootstrap.Options{
		Service:       "cli",
		Logger:        logger,
		WithGenerator: withGenerator,
	})
}
