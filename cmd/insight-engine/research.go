// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/insight-engine/internal/cache"
	"github.com/pdiddy/insight-engine/internal/research"
	"github.com/pdiddy/insight-engine/internal/search"
	"github.com/pdiddy/insight-engine/pkg/types"
)

const (
	defaultStrategyDelay    = 1 * time.Second
	defaultTopicTimeout     = 2 * time.Minute
	defaultBreakerThreshold = 3
	defaultCacheDir         = ".insight-cache"
	defaultUserAgent        = "insight-engine/0.1"
)

var researchCmd = &cobra.Command{
	Use:   "research [topics...]",
	Short: "Research topics across the provider cascade",
	Long: `Research runs each topic through five query variants (trends, market,
technical, pricing, practical), deduplicates and ranks what comes back,
extracts market, technical, and pricing signals, and scores the evidence.

Topics come from arguments or a YAML topics file. Results are cached; a
rerun within the TTL window is served from the cache without touching
providers. Provider failures fall through the cascade and end, at worst,
in an empty evidence set, never a failed run.`,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("topics-file", "", "YAML file listing topics to research")
	researchCmd.Flags().String("context", "", "context hint appended to every query variant")
	researchCmd.Flags().Int("max-results", 0, "maximum results per query (default 10)")
	researchCmd.Flags().Duration("delay", 0, "pause between query variants (default 1s)")
	researchCmd.Flags().Duration("topic-timeout", 0, "deadline per topic (default 2m)")
	researchCmd.Flags().Int("parallel", 0, "maximum topics researched concurrently (default 4)")
	researchCmd.Flags().Int("max-unique", 0, "cap on unique results per topic (default 15)")
	researchCmd.Flags().String("cache-dir", "", "directory for the SQLite cache (default .insight-cache)")
	researchCmd.Flags().Bool("no-cache", false, "use a process-lifetime in-memory cache instead of SQLite")
	researchCmd.Flags().String("tavily-key", "", "Tavily API key (overrides .secrets/)")
	researchCmd.Flags().String("brave-key", "", "Brave API key (overrides .secrets/)")
	researchCmd.Flags().Bool("json", false, "output the batch report as JSON")
	researchCmd.Flags().Bool("yaml", false, "output the batch report as YAML")
	researchCmd.Flags().String("save", "", "write the batch report YAML to this path")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	requests, err := collectRequests(cmd, args)
	if err != nil {
		return err
	}

	rcfg := researchConfigFromFlags(cmd)
	ccfg := cacheConfigFromViper()

	var gatewayCache cache.Cache
	var history *cache.Store
	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		store, err := openCacheDir(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		gatewayCache = store
		history = store
	}

	gw := search.New(rcfg.GatewayConfig, ccfg, gatewayCache, os.Stderr)
	engine := research.New(gw, rcfg, os.Stderr)
	engine.History = history

	report, err := engine.ResearchBatch(context.Background(), requests)
	if err != nil {
		return err
	}

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := research.WriteReport(savePath, report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report saved to %s\n", savePath)
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	yamlOut, _ := cmd.Flags().GetBool("yaml")
	return formatReportOutput(report, jsonOut, yamlOut)
}

// collectRequests resolves the topic list from arguments or the topics
// file, never both.
func collectRequests(cmd *cobra.Command, args []string) ([]research.TopicRequest, error) {
	topicsFile, _ := cmd.Flags().GetString("topics-file")
	hint, _ := cmd.Flags().GetString("context")

	if topicsFile != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("provide topics as arguments or --topics-file, not both")
		}
		return research.ReadTopicFile(topicsFile)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("provide one or more topics or --topics-file")
	}

	requests := make([]research.TopicRequest, len(args))
	for i, topic := range args {
		requests[i] = research.TopicRequest{Topic: topic, Context: hint}
	}
	return requests, nil
}

func gatewayConfigFromFlags(cmd *cobra.Command) types.GatewayConfig {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = viper.GetInt("research.max_results")
	}
	tavilyKey, _ := cmd.Flags().GetString("tavily-key")
	braveKey, _ := cmd.Flags().GetString("brave-key")

	return types.GatewayConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("research.timeout"),
			UserAgent: defaultUserAgent,
		},
		MaxResults:       maxResults,
		TavilyAPIKey:     secretDefault("tavily-api-key", tavilyKey),
		BraveAPIKey:      secretDefault("brave-api-key", braveKey),
		ProviderRate:     viper.GetDuration("research.provider_rate"),
		BreakerThreshold: defaultBreakerThreshold,
	}
}

func researchConfigFromFlags(cmd *cobra.Command) types.ResearchConfig {
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultStrategyDelay
	}
	timeout, _ := cmd.Flags().GetDuration("topic-timeout")
	if timeout == 0 {
		timeout = defaultTopicTimeout
	}
	parallel, _ := cmd.Flags().GetInt("parallel")
	maxUnique, _ := cmd.Flags().GetInt("max-unique")

	return types.ResearchConfig{
		GatewayConfig:     gatewayConfigFromFlags(cmd),
		StrategyDelay:     delay,
		TopicTimeout:      timeout,
		MaxParallelTopics: parallel,
		MaxUnique:         maxUnique,
	}
}

func cacheConfigFromViper() types.CacheConfig {
	return types.CacheConfig{
		TTL:       viper.GetDuration("cache.ttl"),
		ScrapeTTL: viper.GetDuration("cache.scrape_ttl"),
	}
}

// openCacheDir opens the SQLite store at --cache-dir, the configured
// directory, or the default.
func openCacheDir(cmd *cobra.Command) (*cache.Store, error) {
	dir, _ := cmd.Flags().GetString("cache-dir")
	if dir == "" {
		dir = viper.GetString("cache.dir")
	}
	if dir == "" {
		dir = defaultCacheDir
	}
	return cache.NewStore(dir)
}

func formatReportOutput(report *types.BatchReport, jsonOut, yamlOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	if yamlOut {
		data, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	for i := range report.Topics {
		ev := &report.Topics[i]
		qr := report.Reports[ev.Topic]

		fmt.Fprintf(os.Stdout, "\n%s\n", ev.Topic)
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 78))

		if len(ev.Results) == 0 {
			fmt.Fprintln(os.Stdout, "No results.")
		} else {
			fmt.Fprintf(os.Stdout, "%-4s  %-5s  %-50s  %s\n", "Rank", "Score", "Title", "Source")
			for j, r := range ev.Results {
				title := r.Title
				if len(title) > 50 {
					title = title[:47] + "..."
				}
				fmt.Fprintf(os.Stdout, "%-4d  %-5.2f  %-50s  %s\n", j+1, r.RelevanceScore, title, r.Provider)
			}
		}

		for _, f := range ev.Findings {
			fmt.Fprintf(os.Stdout, "  * %s\n", f)
		}
		for _, e := range ev.Errors {
			fmt.Fprintf(os.Stdout, "  ! %s\n", e)
		}
		fmt.Fprintf(os.Stdout, "Quality: coverage %.2f, diversity %.2f, completeness %.2f, overall %.2f (%s)\n",
			qr.Coverage, qr.SourceDiversity, qr.Completeness, qr.Overall, qr.Grade)
	}

	fmt.Fprintf(os.Stdout, "\nBatch %s: %d topics, mean overall %.2f\n",
		report.ID, len(report.Topics), report.Overall())
	if len(report.CommonTechnologies) > 0 {
		fmt.Fprintf(os.Stdout, "Common technologies: %s\n", strings.Join(report.CommonTechnologies, ", "))
	}
	if report.TopCompetitor != "" {
		fmt.Fprintf(os.Stdout, "Top competitor: %s\n", report.TopCompetitor)
	}
	return nil
}
