// Package dash implements the interactive NewsAI terminal dashboard.
// This file contains view rendering functions for the dashboard.
package dash

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tranhoangkhuongvn/news-ai/internal/async"
	"github.com/tranhoangkhuongvn/news-ai/internal/chat"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	tabs := m.renderTabs()
	content := m.styles.Content.Render(m.viewport.View())

	sections := []string{header, tabs, content}

	if m.tab == TabChat {
		inputStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.styles.Theme.Accent).
			Padding(0, 1)
		sections = append(sections, inputStyle.Render(m.textarea.View()))
	}

	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" NewsAI ")
	version := m.styles.Badge.Render("v" + m.cfg.Version)
	health := m.renderHealthBadge()

	var status string
	if msg := m.statusMessage(); msg != "" {
		spin := m.spinner.View()
		status = lipgloss.JoinHorizontal(lipgloss.Center, spin, " ", m.styles.Subtitle.Render(msg))
	} else {
		status = m.styles.Success.Render("Ready")
	}

	headerLine := lipgloss.JoinHorizontal(
		lipgloss.Center,
		title,
		" ",
		version,
		"  ",
		health,
		"  ",
		status,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		m.styles.RenderDivider(m.width),
	)
}

// renderHealthBadge reflects the background health poll.
func (m Model) renderHealthBadge() string {
	st := m.health.State()
	switch {
	case st.Data != nil && st.Data.Healthy():
		return m.styles.Success.Render("● online")
	case st.Data != nil || st.Err != "":
		return m.styles.Error.Render("● offline")
	default:
		return m.styles.Muted.Render("○ checking")
	}
}

// statusMessage describes the busiest in-flight operation, or "" when idle.
func (m Model) statusMessage() string {
	switch {
	case m.pipeline.Running():
		return m.pipeline.Phase().Message()
	case m.refresh.Loading():
		return "Extracting articles..."
	case m.session.Loading():
		return "Thinking..."
	case m.search.Loading():
		return "Searching..."
	case m.dashboard.Loading():
		return "Loading articles..."
	}
	return ""
}

func (m Model) renderTabs() string {
	cells := make([]string, 0, len(tabOrder))
	for _, t := range tabOrder {
		if t == m.tab {
			cells = append(cells, m.styles.TabActive.Render(t.String()))
		} else {
			cells = append(cells, m.styles.Tab.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) renderFooter() string {
	var hints string
	switch m.tab {
	case TabOverview:
		hints = "r: refresh | e: extract | Tab: next page | Esc: quit"
	case TabStories:
		hints = "r: run pipeline | c: clear | Tab: next page | Esc: quit"
	case TabChat:
		hints = "Enter: send | /help: commands | Tab: next page | Esc: quit"
		if f := m.session.CategoryFilter(); f != "" {
			hints = "Filter: " + f + " | " + hints
		}
	}
	timestamp := time.Now().Format("15:04")
	return m.styles.Footer.Render(hints + " | " + timestamp)
}

// =============================================================================
// OVERVIEW TAB
// =============================================================================

func (m Model) renderOverview() string {
	var sb strings.Builder

	if m.notice != "" {
		sb.WriteString(m.styles.Info.Render(m.notice) + "\n\n")
	}
	if m.refresh.Loading() {
		sb.WriteString(m.styles.Subtitle.Render("Extracting fresh articles from the news sources...") + "\n\n")
	} else if m.refresh.Err() != "" {
		sb.WriteString(m.styles.Error.Render("Extraction failed: "+m.refresh.Err()) + "\n\n")
	}

	st := m.dashboard.State()

	if st.Err != "" {
		sb.WriteString(m.styles.Error.Render("Could not load articles") + "\n")
		sb.WriteString(m.styles.Muted.Render(st.Err) + "\n\n")
		sb.WriteString(m.styles.Muted.Render("Press r to retry.") + "\n")
		return sb.String()
	}

	if st.Data == nil {
		if st.Loading {
			sb.WriteString(m.styles.Muted.Render("Loading articles...") + "\n")
		} else {
			sb.WriteString(m.styles.Muted.Render("No articles yet. Press r to load or e to extract fresh ones.") + "\n")
		}
		return sb.String()
	}

	d := *st.Data

	if st.Loading {
		sb.WriteString(m.styles.Subtitle.Render("Refreshing...") + "\n\n")
	}

	sb.WriteString(m.styles.Title.Render("Top Articles") + "\n")
	if len(d.TopArticles) == 0 {
		sb.WriteString(m.styles.Muted.Render("  Nothing extracted yet.") + "\n")
	}
	for i, a := range d.TopArticles {
		if i >= 8 {
			sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("  ... and %d more", len(d.TopArticles)-i)) + "\n")
			break
		}
		sb.WriteString(fmt.Sprintf(" %s %s\n",
			m.styles.CategoryBadge(a.Category),
			m.styles.Bold.Render(truncate(a.Title, 70))))
		meta := a.Source
		if ago := timeAgo(a.PublishedAt); ago != "" {
			meta += "  " + ago
		}
		sb.WriteString(m.styles.Muted.Render("   "+meta) + "\n")
	}
	sb.WriteString("\n")

	if len(d.Categories) > 0 {
		sb.WriteString(m.styles.Title.Render("Sections") + "\n")
		names := make([]string, 0, len(d.Categories))
		for name := range d.Categories {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf(" %s %s\n",
				m.styles.CategoryBadge(name),
				m.styles.Muted.Render(fmt.Sprintf("%d articles", len(d.Categories[name])))))
		}
		sb.WriteString("\n")
	}

	if len(d.Sources) > 0 {
		names := make([]string, 0, len(d.Sources))
		for _, s := range d.Sources {
			names = append(names, s.Name)
		}
		sb.WriteString(m.styles.Muted.Render("Sources: "+strings.Join(names, ", ")) + "\n")
	}

	return sb.String()
}

// =============================================================================
// TOP STORIES TAB
// =============================================================================

func (m Model) renderStories() string {
	var sb strings.Builder

	st := m.pipeline.State()
	phase := m.pipeline.Phase()

	if m.pipeline.Running() {
		sb.WriteString(m.styles.Title.Render("Running the story pipeline") + "\n")
		sb.WriteString(m.spinner.View() + " " + m.styles.Subtitle.Render(phase.Message()) + "\n\n")
		sb.WriteString(m.progress.ViewAs(float64(phase.Percent())/100) + "\n\n")
		sb.WriteString(m.renderPhaseLegend())
		return sb.String()
	}

	if phase == async.PhaseComplete {
		sb.WriteString(m.styles.Success.Render(phase.Message()) + "\n\n")
		sb.WriteString(m.progress.ViewAs(1.0) + "\n\n")
		sb.WriteString(m.renderPhaseLegend())
		sb.WriteString("\n")
	}

	if st.Err != "" {
		sb.WriteString(m.styles.Error.Render("Pipeline failed") + "\n")
		sb.WriteString(m.styles.Muted.Render(st.Err) + "\n\n")
		sb.WriteString(m.styles.Muted.Render("Press r to try again.") + "\n")
		return sb.String()
	}

	if st.Data == nil {
		sb.WriteString(m.styles.Title.Render("Top Stories") + "\n")
		sb.WriteString(m.styles.Muted.Render("No ranked stories yet.") + "\n")
		sb.WriteString(m.styles.Muted.Render("Press r to run the extraction pipeline (this takes a few minutes).") + "\n")
		return sb.String()
	}

	r := *st.Data

	if phase != async.PhaseComplete {
		sb.WriteString(m.styles.Title.Render("Top Stories") + "\n")
	}

	for i, story := range r.TopStories {
		rank := m.styles.Bold.Render(fmt.Sprintf("%2d.", i+1))
		badges := m.styles.PriorityStyle(story.PriorityLevel).Render(strings.ToUpper(story.PriorityLevel))
		if story.IsBreaking {
			badges += " " + m.styles.Breaking.Render("BREAKING")
		}
		sb.WriteString(fmt.Sprintf("%s %s %s\n", rank, badges, m.styles.Bold.Render(truncate(story.Title, 64))))

		meta := fmt.Sprintf("    %s  %d articles", m.styles.CategoryBadge(story.Category), story.ArticleCount)
		if len(story.Sources) > 0 {
			meta += "  " + strings.Join(story.Sources, ", ")
		}
		if story.TimeDescription != "" {
			meta += "  " + story.TimeDescription
		}
		sb.WriteString(m.styles.Muted.Render(meta) + "\n")

		if story.Summary != "" {
			sb.WriteString(m.styles.Body.Render("    "+truncate(story.Summary, 140)) + "\n")
		}
		sb.WriteString("\n")
	}

	metrics := fmt.Sprintf("Extracted %d articles, %d similar pairs, %d clusters, %d stories ranked in %.0fs",
		r.Metrics.TotalArticlesExtracted,
		r.Metrics.SimilarPairsFound,
		r.Metrics.ClustersCreated,
		r.Metrics.StoriesPrioritized,
		r.ProcessingTime)
	sb.WriteString(m.styles.Muted.Render(metrics) + "\n")

	return sb.String()
}

// renderPhaseLegend lists the pipeline phases with their progress icons.
func (m Model) renderPhaseLegend() string {
	cur := m.pipeline.Phase()
	var sb strings.Builder
	for _, p := range async.Phases() {
		icon := "○"
		style := m.styles.Muted
		switch {
		case cur == async.PhaseComplete || p < cur:
			icon = "✓"
			style = m.styles.Success
		case p == cur:
			icon = "▶"
			style = m.styles.Info
		}
		sb.WriteString(style.Render(fmt.Sprintf(" %s %s", icon, p.String())) + "\n")
	}
	return sb.String()
}

// =============================================================================
// CHAT TAB
// =============================================================================

func (m Model) renderChat() string {
	var sb strings.Builder

	for _, turn := range m.session.Turns() {
		switch turn.Role {
		case chat.RoleUser:
			userStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Primary).
				MarginTop(1)
			sb.WriteString(userStyle.Render("You") + "\n")
			sb.WriteString(m.styles.UserInput.Render(turn.Content))
			sb.WriteString("\n\n")

		default:
			assistantStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Accent).
				MarginTop(1)
			sb.WriteString(assistantStyle.Render("NewsAI") + "\n")
			sb.WriteString(m.safeRenderMarkdown(turn.Content))
			sb.WriteString("\n")
		}
	}

	if m.session.Loading() {
		sb.WriteString(m.spinner.View() + " " + m.styles.Subtitle.Render("Thinking...") + "\n")
	}

	if srcs := m.session.DisplayedSources(); len(srcs) > 0 {
		sb.WriteString("\n" + m.styles.Title.Render("References") + "\n")
		for i, s := range srcs {
			sb.WriteString(fmt.Sprintf(" %d. %s\n", i+1, m.styles.Bold.Render(s.Title)))
			meta := s.Source
			if s.PublishedDate != "" {
				meta += "  " + s.PublishedDate
			}
			if s.URL != "" {
				meta += "  " + s.URL
			}
			sb.WriteString(m.styles.Muted.Render("    "+meta) + "\n")
		}
	}

	sb.WriteString(m.renderSearchResults())

	if m.notice != "" {
		sb.WriteString("\n" + m.safeRenderMarkdown(m.notice))
	}

	return sb.String()
}

// renderSearchResults shows /search output under the conversation.
func (m Model) renderSearchResults() string {
	if m.search.Err() != "" {
		return "\n" + m.styles.Error.Render("Search failed: "+m.search.Err()) + "\n"
	}
	sr := m.search.Data()
	if sr == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n" + m.styles.Title.Render(fmt.Sprintf("Search: %q (%d results)", sr.Query, sr.TotalResults)) + "\n")
	for i, hit := range sr.Results {
		if i >= 10 {
			break
		}
		title := stringField(hit, "title")
		if title == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf(" %d. %s\n", i+1, m.styles.Bold.Render(truncate(title, 70))))
		meta := stringField(hit, "source")
		if url := stringField(hit, "url"); url != "" {
			meta += "  " + url
		}
		if meta != "" {
			sb.WriteString(m.styles.Muted.Render("    "+meta) + "\n")
		}
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			// If glamour panics, return plain text
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

// =============================================================================
// HELPERS
// =============================================================================

// truncate shortens a string to at most n runes, ellipsized.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// timeAgo renders an ISO timestamp as a rough age, or "" if unparseable.
func timeAgo(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// stringField pulls a string value out of a loose backend payload.
func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
