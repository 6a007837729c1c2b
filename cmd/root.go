// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"firestige.xyz/iexcap/internal/config"
	"firestige.xyz/iexcap/internal/log"
	"firestige.xyz/iexcap/internal/metrics"
)

var (
	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "iexcap",
	Short: "iexcap - IEX market data capture decoder",
	Long: `iexcap decodes IEX Group market data captures (pcap/pcapng).

It walks the IEX-TP transport segments inside captured UDP packets, decodes
TOPS and DEEP messages (quotes, trades, auctions, price levels, halt and
status updates), and prints or exports them.

Commands:
  info    summarize a capture: session headers, counts per message type
  dump    print decoded messages in stream order
  export  write quote and trade tables as CSV or JSON lines`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (optional, defaults + env vars apply without one)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"override configured log level (debug/info/warn/error)")
}

// loadConfig loads the global configuration and initializes logging.
// The --log-level flag wins over the configured level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := log.Init(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

// startMetrics starts the Prometheus endpoint when enabled. The returned stop
// function is a no-op otherwise.
func startMetrics(cfg *config.Config) (func(), error) {
	if !cfg.Metrics.Enabled {
		return func() {}, nil
	}
	srv := metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
	if err := srv.Start(context.Background()); err != nil {
		return nil, err
	}
	return func() { srv.Stop(context.Background()) }, nil
}
