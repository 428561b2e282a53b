package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the result cache",
	Long: `Cache operates on the SQLite store holding cached provider results and
batch report history. Stats counts live and expired rows; purge deletes
the expired ones.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry and report counts",
	RunE:  runCacheStats,
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, err := openCacheDir(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.Stat(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Entries:  %d\n", st.Entries)
	fmt.Fprintf(os.Stdout, "Expired:  %d\n", st.Expired)
	fmt.Fprintf(os.Stdout, "Reports:  %d\n", st.Reports)
	return nil
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired cache entries",
	RunE:  runCachePurge,
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	store, err := openCacheDir(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Purge(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Purged %d expired entries.\n", n)
	return nil
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", "", "directory for the SQLite cache (default .insight-cache)")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePurgeCmd)

	rootCmd.AddCommand(cacheCmd)
}
