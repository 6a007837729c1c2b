package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/iexcap/internal/config"
	"firestige.xyz/iexcap/internal/export"
	"firestige.xyz/iexcap/internal/iex"
)

var (
	exportQuotesPath string
	exportTradesPath string
	exportFormat     string
	exportSymbols    []string
	exportWatchlist  string
)

var exportCmd = &cobra.Command{
	Use:   "export <capture>",
	Short: "Export quote and trade tables",
	Long: `Decode a capture and write quote updates and executed trades to files.
Trade breaks are decoded but never written to the trade table.

At least one of --quotes or --trades is required. Format and watchlist
default to the export section of the config file.

Examples:
  iexcap export capture.pcap --quotes quotes.csv
  iexcap export capture.pcap --quotes q.jsonl --trades t.jsonl --format jsonl
  iexcap export capture.pcap --trades t.csv -s AMD --watchlist symbols.yaml`,
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
		return runExport(args[0], cfg, exportOptions{
			QuotesPath: exportQuotesPath,
			TradesPath: exportTradesPath,
			Format:     exportFormat,
			Symbols:    exportSymbols,
			Watchlist:  exportWatchlist,
		}, cmd.OutOrStdout())
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportQuotesPath, "quotes", "", "write quote updates to this file")
	exportCmd.Flags().StringVar(&exportTradesPath, "trades", "", "write executed trades to this file")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "output format (csv/jsonl, default from config)")
	exportCmd.Flags().StringArrayVarP(&exportSymbols, "symbol", "s", nil, "only export this symbol (repeatable)")
	exportCmd.Flags().StringVarP(&exportWatchlist, "watchlist", "w", "", "symbol list YAML (default from config)")
	rootCmd.AddCommand(exportCmd)
}

type exportOptions struct {
	QuotesPath string
	TradesPath string
	Format     string   // empty = config default
	Symbols    []string // merged with the watchlist
	Watchlist  string   // empty = config default
}

func runExport(path string, cfg *config.Config, opts exportOptions, out io.Writer) error {
	if opts.QuotesPath == "" && opts.TradesPath == "" {
		return fmt.Errorf("at least one of --quotes or --trades is required")
	}
	format := opts.Format
	if format == "" {
		format = cfg.Export.Format
	}
	switch format {
	case "csv", "jsonl":
	default:
		return fmt.Errorf("invalid export format: %s (must be csv/jsonl)", format)
	}

	symbols := append([]string(nil), opts.Symbols...)
	watchPath := opts.Watchlist
	if watchPath == "" {
		watchPath = cfg.Export.Watchlist
	}
	if watchPath != "" {
		watched, err := config.LoadWatchlist(watchPath)
		if err != nil {
			return err
		}
		symbols = append(symbols, watched...)
	}
	filter := export.NewSymbolFilter(symbols)

	var (
		files      []*os.File
		flushers   []func() error
		writeQuote func(*iex.QuoteUpdate) error
		writeTrade func(*iex.TradeReport) error
	)
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	if opts.QuotesPath != "" {
		f, err := os.Create(opts.QuotesPath)
		if err != nil {
			return fmt.Errorf("failed to create quotes file: %w", err)
		}
		files = append(files, f)
		switch format {
		case "csv":
			w, err := export.NewQuoteCSVWriter(f)
			if err != nil {
				closeAll()
				return err
			}
			writeQuote = w.Write
			flushers = append(flushers, w.Flush)
		case "jsonl":
			w := export.NewJSONLWriter(f)
			writeQuote = func(q *iex.QuoteUpdate) error { return w.Write(q) }
		}
	}
	if opts.TradesPath != "" {
		f, err := os.Create(opts.TradesPath)
		if err != nil {
			closeAll()
			return fmt.Errorf("failed to create trades file: %w", err)
		}
		files = append(files, f)
		switch format {
		case "csv":
			w, err := export.NewTradeCSVWriter(f)
			if err != nil {
				closeAll()
				return err
			}
			writeTrade = w.Write
			flushers = append(flushers, w.Flush)
		case "jsonl":
			w := export.NewJSONLWriter(f)
			writeTrade = func(tr *iex.TradeReport) error { return w.Write(tr) }
		}
	}

	src, dec, err := openStream(path, cfg)
	if err != nil {
		closeAll()
		return err
	}
	defer src.Close()

	var quotes, trades uint64
	err = drainMessages(dec, cfg, func(msg iex.Message) error {
		if !filter.Match(msg) {
			return nil
		}
		switch m := msg.(type) {
		case *iex.QuoteUpdate:
			if writeQuote != nil {
				quotes++
				return writeQuote(m)
			}
		case *iex.TradeReport:
			// Trade breaks share the wire layout but are not executions.
			if m.Type == iex.TypeTradeReport && writeTrade != nil {
				trades++
				return writeTrade(m)
			}
		}
		return nil
	})
	if err != nil {
		closeAll()
		return err
	}

	for _, flush := range flushers {
		if err := flush(); err != nil {
			closeAll()
			return fmt.Errorf("failed to flush output: %w", err)
		}
	}
	for _, f := range files {
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close output: %w", err)
		}
	}

	recordStreamMetrics(dec.Stats())
	fmt.Fprintf(out, "Exported %d quotes, %d trades from %d messages\n",
		quotes, trades, dec.Stats().Messages)
	return nil
}
