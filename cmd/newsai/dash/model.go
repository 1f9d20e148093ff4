// Package dash implements the interactive NewsAI terminal dashboard.
// The dashboard is split across multiple files for maintainability:
//   - model.go: Types, construction, Init (this file)
//   - update.go: Update loop and key handling
//   - commands.go: /command handling for the chat tab
//   - process.go: Backend calls routed through the async cells
//   - view.go: Rendering functions
//
// All async state lives in cells from internal/async and internal/chat.
// The cells are mutated only from Update; the closures they hand out run
// inside tea commands on background goroutines and report back as messages.
package dash

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/tranhoangkhuongvn/news-ai/cmd/newsai/ui"
	"github.com/tranhoangkhuongvn/news-ai/internal/api"
	"github.com/tranhoangkhuongvn/news-ai/internal/async"
	"github.com/tranhoangkhuongvn/news-ai/internal/chat"
	"github.com/tranhoangkhuongvn/news-ai/internal/config"
	"github.com/tranhoangkhuongvn/news-ai/internal/logging"
)

// Tab identifies which dashboard page is active.
type Tab int

const (
	TabOverview Tab = iota
	TabStories
	TabChat
)

func (t Tab) String() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabStories:
		return "Top Stories"
	case TabChat:
		return "Chat"
	default:
		return "Unknown"
	}
}

// tabOrder is the left-to-right tab bar layout.
var tabOrder = []Tab{TabOverview, TabStories, TabChat}

// Model is the main model for the dashboard.
type Model struct {
	// UI Components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	progress progress.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	tab Tab

	// Configuration and backend
	cfg    *config.Config
	client *api.Client

	// Async cells, owned by the Update loop
	dashboard *async.Resource[api.Dashboard]
	health    *async.Resource[api.HealthStatus]
	search    *async.Resource[api.SearchResult]
	refresh   *async.Action[api.ExtractionRequest, api.ExtractionResult]
	pipeline  *async.Tracker[api.EnhancedQuery, api.EnhancedResult]
	session   *chat.Session

	// Live config reload
	watcher  *config.Watcher
	reloadCh chan *config.Config

	// Layout
	width  int
	height int
	ready  bool

	// Transient feedback line shown under the content area
	notice string

	// Chat input history
	inputHistory []string
	historyIndex int

	// Shutdown coordination
	shutdownOnce   *sync.Once
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// Messages for tea updates. Completion-carrying messages deliver the outcome
// of a cell's call back to the owning Update loop.
type (
	dashboardMsg struct{ c async.Completion[api.Dashboard] }
	healthMsg    struct{ c async.Completion[api.HealthStatus] }
	searchMsg    struct{ c async.Completion[api.SearchResult] }
	extractMsg   struct{ c async.Completion[api.ExtractionResult] }
	pipelineMsg  struct{ c async.Completion[api.EnhancedResult] }
	chatReplyMsg struct{ r chat.Reply }

	// healthTickMsg fires on the health poll interval.
	healthTickMsg time.Time

	// expireCompleteMsg clears the pipeline's complete indicator after its
	// linger. The seq fences it to the run that scheduled it.
	expireCompleteMsg struct{ seq uint64 }

	// configReloadedMsg carries a validated config from the file watcher.
	configReloadedMsg *config.Config
)

// InitDash builds the dashboard model.
func InitDash(cfg *config.Config, client *api.Client) Model {
	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))

	ta := textarea.New()
	ta.Placeholder = "Ask about the news... (Enter to send, Ctrl+C to exit)"
	ta.Prompt = "┃ "
	ta.CharLimit = 2000
	ta.SetWidth(76)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	pb := progress.New(progress.WithDefaultGradient())

	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(76),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(76),
		)
	}

	session := chat.NewSession()
	session.SetUserID(cfg.Chat.UserID)
	session.SetHistoryLimit(cfg.Chat.HistoryLimit)

	ctx, cancel := context.WithCancel(context.Background())

	logging.Dash("dashboard starting, backend=%s", client.BaseURL())

	return Model{
		textarea: ta,
		viewport: vp,
		spinner:  sp,
		progress: pb,
		styles:   styles,
		renderer: renderer,

		tab: TabOverview,

		cfg:    cfg,
		client: client,

		dashboard: async.NewResource[api.Dashboard](),
		health:    async.NewResource[api.HealthStatus](),
		search:    async.NewResource[api.SearchResult](),
		refresh:   async.NewAction[api.ExtractionRequest, api.ExtractionResult](),
		pipeline:  async.NewTracker[api.EnhancedQuery, api.EnhancedResult](),
		session:   session,

		shutdownOnce:   &sync.Once{},
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
	}
}

// enableLiveReload starts a config file watcher that feeds validated reloads
// into the Update loop. The dashboard runs fine without it.
func (m *Model) enableLiveReload(path string) error {
	reloadCh := make(chan *config.Config, 1)
	w, err := config.NewWatcher(path, func(cfg *config.Config) {
		select {
		case reloadCh <- cfg:
		default:
			// A reload is already queued.
		}
	})
	if err != nil {
		return err
	}
	if err := w.Start(m.shutdownCtx); err != nil {
		return err
	}
	m.watcher = w
	m.reloadCh = reloadCh
	return nil
}

// Init kicks off the initial loads and background listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		m.spinner.Tick,
		tea.EnableMouseCellMotion,
		m.fetchDashboard(),
		m.checkHealth(),
		m.tickHealth(),
	}
	if m.reloadCh != nil {
		cmds = append(cmds, m.waitForReload())
	}
	return tea.Batch(cmds...)
}

// Shutdown stops the watcher and cancels in-flight backend calls.
// Safe to call multiple times.
func (m *Model) Shutdown() {
	m.shutdownOnce.Do(func() {
		if m.shutdownCancel != nil {
			m.shutdownCancel()
		}
		if m.watcher != nil {
			m.watcher.Stop()
		}
		if m.reloadCh != nil {
			close(m.reloadCh)
		}
	})
}

// performShutdown is a value-receiver wrapper for Shutdown() callable from
// Update. The sync.Once pointer makes this safe across model copies.
func (m Model) performShutdown() {
	modelPtr := &m
	modelPtr.Shutdown()
}

// anyLoading reports whether any foreground cell has a call in flight.
// Health polling is background work and does not count.
func (m Model) anyLoading() bool {
	return m.dashboard.Loading() ||
		m.search.Loading() ||
		m.refresh.Loading() ||
		m.pipeline.Running() ||
		m.session.Loading()
}

// applyConfig swaps in a reloaded configuration.
func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.client = api.NewWithConfig(api.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.GetTimeout(),
	})
	m.styles = ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
	m.spinner.Style = m.styles.Spinner
	m.session.SetUserID(cfg.Chat.UserID)
	m.session.SetHistoryLimit(cfg.Chat.HistoryLimit)
	m.notice = "Configuration reloaded"
	logging.Dash("config reloaded, backend=%s theme=%s", cfg.Backend.BaseURL, cfg.UI.Theme)
}

// RunDashboard starts the interactive dashboard.
func RunDashboard(cfg *config.Config, client *api.Client) error {
	model := InitDash(cfg, client)
	if err := model.enableLiveReload(config.DefaultPath()); err != nil {
		logging.DashDebug("config watch disabled: %v", err)
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
