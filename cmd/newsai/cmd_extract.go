// Package main implements the newsai command line interface.
// This file handles the plain scrape and the full ranking pipeline.
package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranhoangkhuongvn/news-ai/internal/api"
)

// =============================================================================
// EXTRACTION COMMANDS
// =============================================================================

var (
	extractSources    []string
	extractCategories []string
	extractMax        int

	storiesPerCategory int
	storiesTimeout     time.Duration
)

// extractCmd scrapes fresh articles into the store
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Scrape fresh articles into the store",
	Long: `Asks the backend to scrape the configured sources and save what it finds.

Example:
  newsai extract --source abc --source guardian --max-articles 10`,
	RunE: runExtract,
}

// storiesCmd runs the full extraction, clustering, and ranking pipeline
var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "Run the full pipeline and show the ranked top stories",
	Long: `Runs extraction, cross-source similarity detection, and prioritization in
one go, then prints the ranked top stories. The backend does all of this
before answering, so expect the command to run for a few minutes.

Example:
  newsai stories --per-category 5`,
	RunE: runStories,
}

func init() {
	extractCmd.Flags().StringSliceVar(&extractSources, "source", nil, "Sources to scrape (default: config)")
	extractCmd.Flags().StringSliceVar(&extractCategories, "category", nil, "Categories to scrape (default: config)")
	extractCmd.Flags().IntVar(&extractMax, "max-articles", 0, "Articles per source (default: config)")

	storiesCmd.Flags().IntVar(&storiesPerCategory, "per-category", 0, "Articles per category to feed the pipeline (default: config)")
	storiesCmd.Flags().DurationVar(&storiesTimeout, "pipeline-timeout", 5*time.Minute, "How long to wait for the pipeline")
}

func runExtract(cmd *cobra.Command, args []string) error {
	req := api.ExtractionRequest{
		Sources:     extractSources,
		Categories:  extractCategories,
		MaxArticles: extractMax,
	}
	if len(req.Sources) == 0 {
		req.Sources = cfg.Defaults.Sources
	}
	if len(req.Categories) == 0 {
		req.Categories = cfg.Defaults.Categories
	}
	if req.MaxArticles == 0 {
		req.MaxArticles = cfg.Defaults.MaxArticles
	}

	logger.Info("extraction requested",
		zap.Strings("sources", req.Sources),
		zap.Strings("categories", req.Categories),
		zap.Int("max_articles", req.MaxArticles))

	out.Print("Extracting from %s...", strings.Join(req.Sources, ", "))

	ctx, cancel := signalCtx(cfg.GetTimeout())
	defer cancel()

	result, err := newClient().Extract(ctx, req)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	out.Success("Extracted %d articles in %.1fs (%d saved, %d failed)",
		result.TotalArticles, result.ExtractionTime, result.SuccessfulSaves, result.FailedSaves)

	if len(result.ByCategory) > 0 {
		table := out.NewTable("Category", "Articles")
		for _, name := range sortedKeys(result.ByCategory) {
			table.AddRow(name, fmt.Sprintf("%d", result.ByCategory[name]))
		}
		table.Render()
	}

	for _, e := range result.Errors {
		out.Warning("%s", e)
	}
	return nil
}

func runStories(cmd *cobra.Command, args []string) error {
	q := api.EnhancedQuery{
		Sources:             cfg.Defaults.Sources,
		Categories:          cfg.Defaults.Categories,
		ArticlesPerCategory: cfg.Defaults.ArticlesPerCategory,
	}
	if storiesPerCategory > 0 {
		q.ArticlesPerCategory = storiesPerCategory
	}

	logger.Info("pipeline requested",
		zap.Strings("sources", q.Sources),
		zap.Int("articles_per_category", q.ArticlesPerCategory))

	out.Print("Running the story pipeline, this takes a few minutes. Ctrl+C aborts.")

	ctx, cancel := signalCtx(storiesTimeout)
	defer cancel()

	result, err := newClient().EnhancedLatest(ctx, q)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	printStories(result)
	return nil
}

// printStories renders the ranked stories with their pipeline metrics.
func printStories(result api.EnhancedResult) {
	if len(result.TopStories) == 0 {
		out.Print("The pipeline ranked no stories. %s", result.Message)
		return
	}

	out.Header("Top Stories")
	for i, s := range result.TopStories {
		title := fmt.Sprintf("%2d. %s %s", i+1, out.Priority(s.PriorityLevel), out.Bold(clip(s.Title, 70)))
		if s.IsBreaking {
			title += " " + out.Bold("BREAKING")
		}
		out.Print("%s", title)

		meta := fmt.Sprintf("    %s, %d articles", s.Category, s.ArticleCount)
		if len(s.Sources) > 0 {
			meta += ", " + strings.Join(s.Sources, ", ")
		}
		if s.TimeDescription != "" {
			meta += ", " + s.TimeDescription
		}
		out.Print("%s", out.Dim(meta))

		if s.Summary != "" {
			out.Print("    %s", clip(s.Summary, 120))
		}
	}

	out.Print("")
	out.Print("%s", out.Dim(fmt.Sprintf(
		"Extracted %d articles, %d similar pairs, %d clusters, %d stories ranked in %.0fs",
		result.Metrics.TotalArticlesExtracted,
		result.Metrics.SimilarPairsFound,
		result.Metrics.ClustersCreated,
		result.Metrics.StoriesPrioritized,
		result.ProcessingTime)))
}

// sortedKeys returns a count map's keys in stable order.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
