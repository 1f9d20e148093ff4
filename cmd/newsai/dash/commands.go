// Package dash implements the interactive NewsAI terminal dashboard.
// This file contains /command handling for the chat tab.
package dash

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const helpText = `## Chat Commands

| Command | Description |
|---------|-------------|
| /help | Show this help message |
| /clear | Start a fresh conversation |
| /filter <category> | Ground answers in one category (off to reset) |
| /sources [turn] | Show references for the latest or a given turn |
| /search <query> | Search stored articles without asking the assistant |

Tab switches pages. On Overview: r refreshes, e extracts fresh articles.
On Top Stories: r runs the pipeline, c clears results.`

// handleCommand processes /command inputs from the chat tab.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	m.textarea.Reset()

	switch cmd {
	case "/quit", "/exit", "/q":
		m.performShutdown()
		return m, tea.Quit

	case "/help":
		m.notice = helpText
		m.refreshContent()
		return m, nil

	case "/clear":
		m.session.Clear()
		m.search.Clear()
		m.notice = ""
		m.refreshContent()
		return m, nil

	case "/filter":
		if len(parts) < 2 {
			if f := m.session.CategoryFilter(); f != "" {
				m.notice = fmt.Sprintf("Category filter: %s (use /filter off to reset)", f)
			} else {
				m.notice = "No category filter set. Usage: /filter <category>"
			}
			m.refreshContent()
			return m, nil
		}
		if parts[1] == "off" {
			m.session.SetCategoryFilter("")
			m.notice = "Category filter cleared"
		} else {
			category := strings.ToLower(parts[1])
			m.session.SetCategoryFilter(category)
			m.notice = fmt.Sprintf("Answers will focus on %s", category)
		}
		m.refreshContent()
		return m, nil

	case "/sources":
		if len(parts) >= 2 {
			i, err := strconv.Atoi(parts[1])
			if err != nil {
				m.notice = "Usage: /sources [turn number]"
			} else if !m.session.ShowSourcesFor(i) {
				m.notice = fmt.Sprintf("Turn %d has no references", i)
			} else {
				m.notice = fmt.Sprintf("Showing references for turn %d", i)
			}
			m.refreshContent()
			return m, nil
		}
		if len(m.session.DisplayedSources()) == 0 {
			m.notice = "No references yet. Ask a question first."
		} else {
			m.notice = fmt.Sprintf("%d references shown below the conversation", len(m.session.DisplayedSources()))
		}
		m.refreshContent()
		return m, nil

	case "/search":
		if len(parts) < 2 {
			m.notice = "Usage: /search <query>"
			m.refreshContent()
			return m, nil
		}
		query := strings.Join(parts[1:], " ")
		cmd := m.runSearch(query)
		m.notice = fmt.Sprintf("Searching for %q...", query)
		m.refreshContent()
		return m, tea.Batch(m.spinner.Tick, cmd)

	default:
		m.notice = fmt.Sprintf("Unknown command: %s (try /help)", cmd)
		m.refreshContent()
		return m, nil
	}
}
