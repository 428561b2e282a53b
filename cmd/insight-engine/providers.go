package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/insight-engine/internal/search"
	"github.com/pdiddy/insight-engine/pkg/types"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List search providers with availability and confidence",
	Long: `Providers shows each backend in the cascade, whether it is usable with
the current credentials, and the confidence band its results are scored
against. Keyless providers (duckduckgo, scrape) are always available.`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg := types.GatewayConfig{
		TavilyAPIKey: secretDefault("tavily-api-key", ""),
		BraveAPIKey:  secretDefault("brave-api-key", ""),
	}
	gw := search.New(cfg, types.CacheConfig{}, nil, nil)

	fmt.Fprintf(os.Stdout, "%-12s  %-10s  %s\n", "Provider", "Available", "Confidence")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 36))
	for _, st := range gw.ProviderStatus() {
		fmt.Fprintf(os.Stdout, "%-12s  %-10t  %.2f\n", st.Name, st.Available, st.Band)
	}
	return nil
}
