package cmd

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"firestige.xyz/iexcap/internal/config"
	"firestige.xyz/iexcap/internal/iex"
)

var infoCmd = &cobra.Command{
	Use:   "info <capture>",
	Short: "Summarize an IEX capture file",
	Long: `Read a capture end to end and print session headers, transport counters
and a per-type message breakdown.

Examples:
  iexcap info capture.pcap
  iexcap info -c config.yaml deep-20180127.pcapng`,
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
		return runInfo(args[0], cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(path string, cfg *config.Config, out io.Writer) error {
	src, dec, err := openStream(path, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	counts := make(map[iex.MessageType]uint64)
	if err := drainMessages(dec, cfg, func(msg iex.Message) error {
		counts[msg.MessageType()]++
		return nil
	}); err != nil {
		return err
	}

	stats := dec.Stats()
	recordStreamMetrics(stats)

	first, last := dec.FirstHeader(), dec.LastHeader()
	fmt.Fprintf(out, "Capture:    %s (%s)\n", path, src.LinkType())
	fmt.Fprintf(out, "Session:    %d  channel %d\n", first.SessionID, first.ChannelID)
	fmt.Fprintf(out, "First seen: %s  sequence %d\n",
		first.SentAt().Format(time.RFC3339Nano), first.FirstMessageSequence)
	fmt.Fprintf(out, "Last seen:  %s  sequence %d\n",
		last.SentAt().Format(time.RFC3339Nano), last.FirstMessageSequence)
	fmt.Fprintf(out, "Packets:    %d\n", stats.Packets)
	fmt.Fprintf(out, "Segments:   %d\n", stats.Segments)
	fmt.Fprintf(out, "Heartbeats: %d\n", stats.Heartbeats)
	fmt.Fprintf(out, "Messages:   %d\n", stats.Messages)
	if stats.Unknown > 0 {
		fmt.Fprintf(out, "Unknown:    %d\n", stats.Unknown)
	}

	if len(counts) > 0 {
		types := make([]iex.MessageType, 0, len(counts))
		for mt := range counts {
			types = append(types, mt)
		}
		sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })

		fmt.Fprintf(out, "\nMessages by type:\n")
		for _, mt := range types {
			fmt.Fprintf(out, "  %-26s %d\n", mt, counts[mt])
		}
	}
	return nil
}
