package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// =============================================================================
// CATALOG COMMANDS
// =============================================================================

// sourcesCmd lists the configured news sources
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the available news sources",
	RunE:  runSources,
}

// categoriesCmd lists the news categories
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the news categories",
	RunE:  runCategories,
}

func runSources(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdCtx()
	defer cancel()

	sources, err := newClient().Sources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	table := out.NewTable("Id", "Name", "Url")
	for _, s := range sources {
		table.AddRow(s.ID, s.Name, s.URL)
	}
	table.Render()
	return nil
}

func runCategories(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdCtx()
	defer cancel()

	categories, err := newClient().Categories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	table := out.NewTable("Category", "Label")
	for _, c := range categories {
		table.AddRow(c.Category, c.Label)
	}
	table.Render()
	return nil
}
