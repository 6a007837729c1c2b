package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"firestige.xyz/iexcap/internal/config"
	"firestige.xyz/iexcap/internal/export"
	"firestige.xyz/iexcap/internal/iex"
)

var (
	dumpFormat  string
	dumpSymbols []string
	dumpLimit   int
)

var dumpCmd = &cobra.Command{
	Use:   "dump <capture>",
	Short: "Print decoded messages",
	Long: `Print every decoded message in stream order, one per line.

Feed-wide messages such as system events are always shown, even when a
symbol filter is set.

Examples:
  iexcap dump capture.pcap
  iexcap dump capture.pcap --format json
  iexcap dump capture.pcap -s AMD -s SNAP -n 100`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		stop, err := startMetrics(cfg)
		if err != nil {
			return err
		}
		defer stop()
		return runDump(args[0], cfg, dumpOptions{
			Format:  dumpFormat,
			Symbols: dumpSymbols,
			Limit:   dumpLimit,
		}, cmd.OutOrStdout())
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "text", "output format (text/json)")
	dumpCmd.Flags().StringArrayVarP(&dumpSymbols, "symbol", "s", nil, "only print this symbol (repeatable)")
	dumpCmd.Flags().IntVarP(&dumpLimit, "limit", "n", 0, "stop after this many messages (0 = no limit)")
	rootCmd.AddCommand(dumpCmd)
}

type dumpOptions struct {
	Format  string // text / json
	Symbols []string
	Limit   int // 0 = unlimited
}

// errDumpLimit stops the drain once the requested number of messages has
// been printed. It never escapes runDump.
var errDumpLimit = errors.New("dump limit reached")

func runDump(path string, cfg *config.Config, opts dumpOptions, out io.Writer) error {
	switch opts.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid dump format: %s (must be text/json)", opts.Format)
	}

	src, dec, err := openStream(path, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	filter := export.NewSymbolFilter(opts.Symbols)
	printed := 0
	err = drainMessages(dec, cfg, func(msg iex.Message) error {
		if !filter.Match(msg) {
			return nil
		}
		if opts.Format == "json" {
			data, err := json.Marshal(msg)
			if err != nil {
				return fmt.Errorf("failed to encode %s message: %w", msg.MessageType(), err)
			}
			fmt.Fprintln(out, string(data))
		} else {
			fmt.Fprintln(out, msg)
		}
		printed++
		if opts.Limit > 0 && printed >= opts.Limit {
			return errDumpLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDumpLimit) {
		return err
	}

	recordStreamMetrics(dec.Stats())
	return nil
}
