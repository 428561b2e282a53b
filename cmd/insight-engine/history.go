package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored batch reports",
	Long: `History lists the batch reports saved by previous research runs, newest
first. Use history show with a report ID (or unique prefix) to print the
full report.`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print one stored batch report",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openCacheDir(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	summaries, err := store.ListReports(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No stored reports.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-17s  %-7s  %s\n", "ID", "Started", "Overall", "Topics")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 72))
	for _, s := range summaries {
		topics := strings.Join(s.Topics, ", ")
		if len(topics) > 40 {
			topics = topics[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-17s  %-7.2f  %s\n",
			shortID(s.ID), s.Started.Local().Format("2006-01-02 15:04"), s.Overall, topics)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openCacheDir(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := store.GetReport(context.Background(), args[0])
	if err != nil {
		return err
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	return formatReportOutput(report, jsonOut, false)
}

// shortID truncates a report ID for listing; GetReport accepts the
// prefix back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	historyCmd.PersistentFlags().String("cache-dir", "", "directory for the SQLite cache (default .insight-cache)")
	historyCmd.Flags().Int("limit", 0, "maximum reports to list (0 = 20)")

	historyShowCmd.Flags().Bool("json", false, "output the report as JSON")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
