// Package main implements the newsai command line interface.
// This file handles asking a single question and related-article lookup.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranhoangkhuongvn/news-ai/internal/api"
)

// =============================================================================
// ASSISTANT COMMANDS
// =============================================================================

var (
	askCategory  string
	askSessionID string

	similarLimit int
)

// askCmd sends one question to the news assistant
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the news assistant one question",
	Long: `Sends a single question to the news assistant and prints the answer with
its references. For a conversation, use the dashboard's chat tab instead.

Examples:
  newsai ask what happened in the cricket today
  newsai ask --category finance "why did the dollar move"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// similarCmd lists articles similar to a given article
var similarCmd = &cobra.Command{
	Use:   "similar [article-id]",
	Short: "List articles similar to the given article",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

func init() {
	askCmd.Flags().StringVar(&askCategory, "category", "", "Ground the answer in one category")
	askCmd.Flags().StringVar(&askSessionID, "session", "", "Continue an existing conversation id")

	similarCmd.Flags().IntVar(&similarLimit, "limit", 5, "Maximum similar articles to list")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := joinArgs(args)
	logger.Info("question sent", zap.String("question", question), zap.String("category", askCategory))

	ctx, cancel := cmdCtx()
	defer cancel()

	reply, err := newClient().Ask(ctx, api.ChatRequest{
		Message:        question,
		SessionID:      askSessionID,
		UserID:         cfg.Chat.UserID,
		CategoryFilter: askCategory,
	})
	if err != nil {
		return fmt.Errorf("the assistant could not answer: %w", err)
	}

	out.Print("%s", reply.Response)

	if len(reply.Sources) > 0 {
		out.Header("References")
		for i, s := range reply.Sources {
			out.Print("%d. %s", i+1, out.Bold(s.Title))
			meta := s.Source
			if s.PublishedDate != "" {
				meta += ", " + s.PublishedDate
			}
			if s.URL != "" {
				meta += ", " + s.URL
			}
			out.Print("   %s", out.Dim(meta))
		}
	}

	if reply.SessionID != "" {
		out.Print("")
		out.Print("%s", out.Dim("continue with: newsai ask --session "+reply.SessionID+" <question>"))
	}
	return nil
}

func runSimilar(cmd *cobra.Command, args []string) error {
	articleID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("article id must be a number, got %q", args[0])
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	result, err := newClient().SimilarArticles(ctx, articleID, similarLimit)
	if err != nil {
		return fmt.Errorf("failed to find similar articles: %w", err)
	}

	if result.Count == 0 {
		out.Print("No similar articles found for article %d.", articleID)
		if result.Message != "" {
			out.Print("%s", out.Dim(result.Message))
		}
		return nil
	}

	out.Print("%d articles similar to article %d:", result.Count, articleID)
	table := out.NewTable("Title", "Source", "Score")
	for _, hit := range result.SimilarArticles {
		score := ""
		if v, ok := hit["similarity_score"].(float64); ok {
			score = fmt.Sprintf("%.2f", v)
		}
		table.AddRow(clip(field(hit, "title"), 60), field(hit, "source"), score)
	}
	table.Render()
	return nil
}
