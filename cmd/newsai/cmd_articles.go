// Package main implements the newsai command line interface.
// This file handles stored articles, fresh pulls, and keyword search.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranhoangkhuongvn/news-ai/internal/api"
)

// =============================================================================
// ARTICLE COMMANDS
// =============================================================================

var (
	articleCategory string
	articleSource   string
	articleLimit    int

	latestSources    []string
	latestCategories []string
	latestMax        int

	searchLimit    int
	searchCategory string
)

// articlesCmd lists articles already extracted into the store
var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List stored articles",
	Long: `Lists articles already extracted into the backend store, newest first.

Examples:
  newsai articles
  newsai articles --category sports --limit 20
  newsai articles --source abc`,
	RunE: runArticles,
}

// latestCmd pulls fresh articles from the live sources
var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Pull the latest articles from the live sources",
	Long: `Asks the backend to scrape the configured sources right now and returns
what it found. Slower than 'articles' because it goes out to the outlets.

Example:
  newsai latest --category finance --max-articles 5`,
	RunE: runLatest,
}

// searchCmd searches stored articles by keyword
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored articles by keyword",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearchArticles,
}

func init() {
	articlesCmd.Flags().StringVar(&articleCategory, "category", "", "Filter by category (sports, finance, lifestyle, music)")
	articlesCmd.Flags().StringVar(&articleSource, "source", "", "Filter by source id (abc, guardian, smh, news_com_au)")
	articlesCmd.Flags().IntVar(&articleLimit, "limit", 20, "Maximum articles to list")

	latestCmd.Flags().StringSliceVar(&latestSources, "source", nil, "Sources to pull from (default: config)")
	latestCmd.Flags().StringSliceVar(&latestCategories, "category", nil, "Categories to pull (default: config)")
	latestCmd.Flags().IntVar(&latestMax, "max-articles", 0, "Articles per source (default: config)")

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum hits to show")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Restrict hits to one category")
}

func runArticles(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdCtx()
	defer cancel()

	articles, err := newClient().Articles(ctx, api.ArticlesQuery{
		Category: articleCategory,
		Source:   articleSource,
		Limit:    articleLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}

	if len(articles) == 0 {
		out.Print("No articles stored yet. Run 'newsai extract' first.")
		return nil
	}

	printArticles(articles)
	return nil
}

func runLatest(cmd *cobra.Command, args []string) error {
	q := api.LatestQuery{
		Sources:     latestSources,
		Categories:  latestCategories,
		MaxArticles: latestMax,
	}
	if len(q.Sources) == 0 {
		q.Sources = cfg.Defaults.Sources
	}
	if len(q.Categories) == 0 {
		q.Categories = cfg.Defaults.Categories
	}
	if q.MaxArticles == 0 {
		q.MaxArticles = cfg.Defaults.MaxArticles
	}

	logger.Info("pulling latest articles",
		zap.Strings("sources", q.Sources),
		zap.Strings("categories", q.Categories))

	ctx, cancel := signalCtx(cfg.GetTimeout())
	defer cancel()

	articles, err := newClient().LatestArticles(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to pull latest articles: %w", err)
	}

	if len(articles) == 0 {
		out.Print("The sources returned nothing new.")
		return nil
	}

	printArticles(articles)
	return nil
}

func runSearchArticles(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdCtx()
	defer cancel()

	query := joinArgs(args)
	result, err := newClient().SearchArticles(ctx, query, searchLimit, searchCategory)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if result.TotalResults == 0 {
		out.Print("No articles match %q.", query)
		return nil
	}

	out.Print("%d articles match %q:", result.TotalResults, query)
	table := out.NewTable("Title", "Category", "Source")
	for _, hit := range result.Results {
		table.AddRow(
			clip(field(hit, "title"), 60),
			field(hit, "category"),
			field(hit, "source"),
		)
	}
	table.Render()
	return nil
}

// printArticles renders an article table plus a count line.
func printArticles(articles []api.Article) {
	table := out.NewTable("Title", "Category", "Source", "Published")
	for _, a := range articles {
		published := a.PublishedAt
		if t, err := a.PublishedTime(); err == nil {
			published = t.Local().Format("02 Jan 15:04")
		}
		table.AddRow(clip(a.Title, 60), a.Category, a.Source, published)
	}
	table.Render()
	out.Print("%d articles", len(articles))
}

// field pulls a string out of a loose backend payload.
func field(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
