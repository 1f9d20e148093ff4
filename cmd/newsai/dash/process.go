package dash

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tranhoangkhuongvn/news-ai/internal/api"
	"github.com/tranhoangkhuongvn/news-ai/internal/async"
	"github.com/tranhoangkhuongvn/news-ai/internal/logging"
)

// pipelineTimeout bounds the enhanced pipeline call. The backend scrapes,
// clusters, and ranks before answering, which regularly takes minutes.
const pipelineTimeout = 5 * time.Minute

// callCtx returns a request context tied to both the configured timeout and
// the dashboard's shutdown.
func (m Model) callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(m.shutdownCtx, m.cfg.GetTimeout())
}

// fetchDashboard (re)loads the overview payload. Stale articles stay on
// screen until the reload settles.
func (m Model) fetchDashboard() tea.Cmd {
	client := m.client
	call := m.dashboard.Fetch(func() (api.Dashboard, error) {
		ctx, cancel := m.callCtx()
		defer cancel()
		return client.Dashboard(ctx)
	})
	return func() tea.Msg { return dashboardMsg{call()} }
}

// checkHealth probes the backend once.
func (m Model) checkHealth() tea.Cmd {
	client := m.client
	call := m.health.Fetch(func() (api.HealthStatus, error) {
		ctx, cancel := m.callCtx()
		defer cancel()
		return client.Health(ctx)
	})
	return func() tea.Msg { return healthMsg{call()} }
}

// tickHealth schedules the next health probe.
func (m Model) tickHealth() tea.Cmd {
	return tea.Tick(m.cfg.GetHealthInterval(), func(t time.Time) tea.Msg {
		return healthTickMsg(t)
	})
}

// runExtraction triggers a fresh scrape with the configured defaults.
func (m Model) runExtraction() tea.Cmd {
	client := m.client
	req := api.ExtractionRequest{
		Sources:     m.cfg.Defaults.Sources,
		Categories:  m.cfg.Defaults.Categories,
		MaxArticles: m.cfg.Defaults.MaxArticles,
	}
	call := m.refresh.Trigger(req, func(req api.ExtractionRequest) (api.ExtractionResult, error) {
		ctx, cancel := m.callCtx()
		defer cancel()
		return client.Extract(ctx, req)
	})
	return func() tea.Msg { return extractMsg{call()} }
}

// runPipeline starts the enhanced extraction pipeline.
func (m Model) runPipeline() tea.Cmd {
	client := m.client
	q := api.EnhancedQuery{
		Sources:             m.cfg.Defaults.Sources,
		Categories:          m.cfg.Defaults.Categories,
		ArticlesPerCategory: m.cfg.Defaults.ArticlesPerCategory,
	}
	logging.Pipeline("run started, sources=%v articles_per_category=%d", q.Sources, q.ArticlesPerCategory)
	call := m.pipeline.Start(q, func(q api.EnhancedQuery) (api.EnhancedResult, error) {
		ctx, cancel := context.WithTimeout(m.shutdownCtx, pipelineTimeout)
		defer cancel()
		return client.EnhancedLatest(ctx, q)
	})
	return func() tea.Msg { return pipelineMsg{call()} }
}

// expireAfterLinger clears the pipeline's complete indicator once the linger
// elapses. A newer run or a clear in the meantime makes it a no-op.
func expireAfterLinger(seq uint64) tea.Cmd {
	return tea.Tick(async.CompleteLinger, func(time.Time) tea.Msg {
		return expireCompleteMsg{seq}
	})
}

// sendChat submits a question to the news assistant. Returns nil for blank
// input.
func (m Model) sendChat(text string) tea.Cmd {
	client := m.client
	call, ok := m.session.Send(text, func(req api.ChatRequest) (api.ChatReply, error) {
		ctx, cancel := m.callCtx()
		defer cancel()
		return client.Ask(ctx, req)
	})
	if !ok {
		return nil
	}
	return func() tea.Msg { return chatReplyMsg{call()} }
}

// runSearch looks up stored articles without involving the assistant.
func (m Model) runSearch(query string) tea.Cmd {
	client := m.client
	limit := m.cfg.Defaults.MaxArticles
	category := m.session.CategoryFilter()
	call := m.search.Fetch(func() (api.SearchResult, error) {
		ctx, cancel := m.callCtx()
		defer cancel()
		return client.SearchArticles(ctx, query, limit, category)
	})
	return func() tea.Msg { return searchMsg{call()} }
}

// waitForReload listens for the next validated config reload.
func (m Model) waitForReload() tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-m.reloadCh
		if !ok {
			return nil
		}
		return configReloadedMsg(cfg)
	}
}
