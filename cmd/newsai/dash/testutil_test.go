// Package dash provides test utilities for the dashboard.
// This file contains model builders, canned payloads, and simulation helpers
// shared by the update and view tests.
package dash

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tranhoangkhuongvn/news-ai/internal/api"
	"github.com/tranhoangkhuongvn/news-ai/internal/config"
)

// =============================================================================
// TEST MODEL BUILDER
// =============================================================================

// TestModelOption configures a test model.
type TestModelOption func(*Model)

// NewTestModel builds a Model the way RunDashboard would, already sized and
// ready. The client points at the default backend address but is never
// actually called: tests drive the async cells directly and feed the
// resulting completion messages through Update.
func NewTestModel(opts ...TestModelOption) Model {
	m := InitDash(config.DefaultConfig(), api.New())

	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = sized.(Model)

	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithTab opens the dashboard on the given tab.
func WithTab(t Tab) TestModelOption {
	return func(m *Model) {
		m.tab = t
		m.refreshContent()
	}
}

// WithNotice sets the notice line.
func WithNotice(notice string) TestModelOption {
	return func(m *Model) {
		m.notice = notice
	}
}

// =============================================================================
// SIMULATION HELPERS
// =============================================================================

// SimulateMessages feeds messages through Update and returns the final model.
func SimulateMessages(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		newModel, _ := m.Update(msg)
		m = newModel.(Model)
	}
	return m
}

// SimulateInput fills the chat input and presses Enter.
func SimulateInput(m Model, input string) (Model, tea.Cmd) {
	m.textarea.SetValue(input)
	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return newModel.(Model), cmd
}

// MakeKeyMsg creates a key message from a string (e.g. "r", "2", "/").
func MakeKeyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// =============================================================================
// CANNED PAYLOADS
// =============================================================================

// SampleDashboard returns a small overview payload.
func SampleDashboard() api.Dashboard {
	return api.Dashboard{
		TopArticles: []api.Article{
			{
				ID:          "a1",
				Title:       "Ashes squad announced ahead of Brisbane opener",
				Summary:     "Selectors confirm the touring party.",
				Category:    "sports",
				Source:      "abc",
				PublishedAt: "2025-01-06T09:30:00Z",
				URL:         "https://example.com/ashes-squad",
			},
			{
				ID:          "a2",
				Title:       "RBA holds the cash rate steady",
				Summary:     "Board cites cooling inflation.",
				Category:    "finance",
				Source:      "guardian",
				PublishedAt: "2025-01-06T08:10:00Z",
				URL:         "https://example.com/rba-rate",
			},
		},
		Categories: map[string][]api.Article{
			"sports":  {{ID: "a1", Title: "Ashes squad announced ahead of Brisbane opener"}},
			"finance": {{ID: "a2", Title: "RBA holds the cash rate steady"}},
		},
		Sources: []api.SourceInfo{
			{ID: "abc", Name: "ABC News", URL: "https://abc.net.au/news"},
			{ID: "guardian", Name: "The Guardian AU", URL: "https://theguardian.com/au"},
		},
	}
}

// SampleEnhancedResult returns a one-story pipeline payload with metrics.
func SampleEnhancedResult() api.EnhancedResult {
	r := api.EnhancedResult{
		Success:        true,
		Message:        "Pipeline completed",
		ProcessingTime: 42,
		TopStories: []api.Story{
			{
				StoryID:         "story-1",
				Title:           "Ashes opener builds toward a sellout",
				Summary:         "Ticket demand surges as both squads land in Brisbane.",
				Category:        "sports",
				Sources:         []string{"abc", "news_com_au"},
				ArticleCount:    3,
				PriorityLevel:   "high",
				PriorityScore:   8.7,
				TimeDescription: "2 hours ago",
			},
		},
	}
	r.Metrics.TotalArticlesExtracted = 40
	r.Metrics.SimilarPairsFound = 12
	r.Metrics.ClustersCreated = 8
	r.Metrics.StoriesPrioritized = 8
	r.Metrics.TopStoriesSelected = 1
	return r
}

// SampleSearchResult returns a two-hit search payload.
func SampleSearchResult() api.SearchResult {
	return api.SearchResult{
		Query:        "ashes",
		TotalResults: 2,
		Results: []map[string]any{
			{
				"title":  "Ashes squad announced ahead of Brisbane opener",
				"source": "abc",
				"url":    "https://example.com/ashes-squad",
			},
			{
				"title":  "Gabba pitch report promises pace and bounce",
				"source": "news_com_au",
			},
		},
	}
}

// FinishDashboard drives the model's dashboard cell through a full
// fetch-and-settle and returns the message a real fetch would deliver.
func FinishDashboard(m Model, d api.Dashboard, err error) dashboardMsg {
	call := m.dashboard.Fetch(func() (api.Dashboard, error) { return d, err })
	return dashboardMsg{call()}
}

// FinishHealth drives the health cell through a probe.
func FinishHealth(m Model, h api.HealthStatus, err error) healthMsg {
	call := m.health.Fetch(func() (api.HealthStatus, error) { return h, err })
	return healthMsg{call()}
}

// FinishSearch drives the search cell through a lookup.
func FinishSearch(m Model, sr api.SearchResult, err error) searchMsg {
	call := m.search.Fetch(func() (api.SearchResult, error) { return sr, err })
	return searchMsg{call()}
}

// FinishExtraction drives the refresh cell through an extraction job.
func FinishExtraction(m Model, r api.ExtractionResult, err error) extractMsg {
	call := m.refresh.Trigger(api.ExtractionRequest{}, func(api.ExtractionRequest) (api.ExtractionResult, error) {
		return r, err
	})
	return extractMsg{call()}
}

// FinishPipeline drives the pipeline tracker through a full run.
func FinishPipeline(m Model, r api.EnhancedResult, err error) pipelineMsg {
	call := m.pipeline.Start(api.EnhancedQuery{}, func(api.EnhancedQuery) (api.EnhancedResult, error) {
		return r, err
	})
	return pipelineMsg{call()}
}

// FinishChat sends a question through the session with a canned answer and
// returns the reply message. Panics if the send was rejected.
func FinishChat(m Model, question string, reply api.ChatReply, err error) chatReplyMsg {
	call, ok := m.session.Send(question, func(api.ChatRequest) (api.ChatReply, error) {
		return reply, err
	})
	if !ok {
		panic("send rejected: " + question)
	}
	return chatReplyMsg{call()}
}
