// Package main implements the newsai command line interface.
// This file handles the pipeline readiness snapshot and the health probes.
package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tranhoangkhuongvn/news-ai/internal/api"
)

// =============================================================================
// STATUS COMMANDS
// =============================================================================

// statusCmd shows the pipeline readiness snapshot
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the backend's pipeline status",
	Long: `Shows what the backend has in store: article counts per category and
source, recent similarity activity, and whether the ranking pipeline is
ready to run.`,
	RunE: runStatus,
}

// healthCmd probes the backend and the news assistant
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the backend and assistant health",
	RunE:  runHealth,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdCtx()
	defer cancel()

	status, err := newClient().EnhancedStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch status: %w", err)
	}

	ps := status.PipelineStatus

	out.Header("Store")
	out.Print("%d articles, %d classified", ps.Database.TotalArticles, ps.Database.ClassifiedArticles)
	if len(ps.Database.ByCategory) > 0 {
		table := out.NewTable("Category", "Articles")
		for _, name := range sortedKeys(ps.Database.ByCategory) {
			table.AddRow(name, fmt.Sprintf("%d", ps.Database.ByCategory[name]))
		}
		table.Render()
	}

	out.Header("Similarity")
	out.Print("%d recent pairs, average score %.2f",
		ps.Similarity.RecentSimilarities, ps.Similarity.AverageScore)

	out.Header("Pipeline")
	if ps.PipelineReady {
		out.Print("%s ready", out.Badge("ready"))
	} else {
		out.Print("%s not ready, run 'newsai extract' to seed the store", out.Badge("down"))
	}
	if ps.LastCheck != "" {
		out.Print("%s", out.Dim("last check "+ps.LastCheck))
	}
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdCtx()
	defer cancel()

	client := newClient()

	// Probe both subsystems in parallel; each failure is reported, not fatal.
	var (
		backend    api.HealthStatus
		backendErr error
		assistant  api.ChatHealth
		chatErr    error
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		backend, backendErr = client.Health(ctx)
		return nil
	})
	g.Go(func() error {
		assistant, chatErr = client.ChatHealth(ctx)
		return nil
	})
	_ = g.Wait()

	out.Header("Backend")
	if backendErr != nil {
		out.Print("%s %s (%v)", out.Badge("down"), cfg.Backend.BaseURL, backendErr)
	} else {
		out.Print("%s %s (%s)", out.Badge(backend.Status), cfg.Backend.BaseURL, backend.Status)
		if backend.Database != "" {
			out.Print("%s database %s", out.Badge(backend.Database), backend.Database)
		}
	}

	out.Header("News Assistant")
	if chatErr != nil {
		out.Print("%s unreachable (%v)", out.Badge("down"), chatErr)
	} else {
		out.Print("%s %s", out.Badge(assistant.Status), assistant.Status)
		names := make([]string, 0, len(assistant.Components))
		for name := range assistant.Components {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out.Print("%s %s %s", out.Badge(assistant.Components[name]), name, assistant.Components[name])
		}
	}

	if backendErr != nil && chatErr != nil {
		return fmt.Errorf("backend unreachable at %s", cfg.Backend.BaseURL)
	}
	return nil
}
