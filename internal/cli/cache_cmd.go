package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/cellscope/internal/config"
	"github.com/rshade/cellscope/internal/engine/cache"
	"github.com/rshade/cellscope/internal/greenops"
)

// openCache opens the configured result cache.
func openCache(cmd *cobra.Command) (*cache.Store, error) {
	opts, err := sessionFrom(cmd.Context()).cfg.CacheOptions()
	if err != nil {
		return nil, err
	}
	return cache.Open(opts)
}

// NewCacheStatsCmd creates the cache stats command.
func NewCacheStatsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show result cache location, size and entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache(cmd)
			if err != nil {
				return err
			}
			st, err := store.Stats()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch format {
			case config.FormatJSON:
				return writeJSON(w, st)
			case config.FormatTable:
			default:
				return checkFormat(format)
			}
			if !st.Enabled {
				_, err = fmt.Fprintln(w, "Result cache is disabled")
				return err
			}
			_, err = fmt.Fprintf(w, "Directory: %s\nTTL:       %s\nEntries:   %s (%s expired)\nSize:      %s bytes\n",
				st.Dir, cache.FormatDuration(st.TTL),
				greenops.FormatNumber(int64(st.Entries)), greenops.FormatNumber(int64(st.Expired)),
				greenops.FormatNumber(st.Bytes))
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", config.FormatTable, "output format: table or json")
	return cmd
}

// NewCacheClearCmd creates the cache clear command.
func NewCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache(cmd)
			if err != nil {
				return err
			}
			n, err := store.Clear()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached results\n", n)
			return err
		},
	}
}

// NewCachePruneCmd creates the cache prune command.
func NewCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and unreadable cached results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache(cmd)
			if err != nil {
				return err
			}
			n, err := store.Prune()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cached results\n", n)
			return err
		},
	}
}
