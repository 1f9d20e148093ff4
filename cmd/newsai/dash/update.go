package dash

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/tranhoangkhuongvn/news-ai/internal/async"
	"github.com/tranhoangkhuongvn/news-ai/internal/config"
	"github.com/tranhoangkhuongvn/news-ai/internal/logging"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.performShutdown()
			return m, tea.Quit
		case tea.KeyTab:
			m.tab = nextTab(m.tab, 1)
			m.refreshContent()
			return m, nil
		case tea.KeyShiftTab:
			m.tab = nextTab(m.tab, -1)
			m.refreshContent()
			return m, nil
		}

		if m.tab == TabChat {
			return m.handleChatKey(msg)
		}
		return m.handleBrowseKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		footerHeight := 2
		inputHeight := 3
		paddingHeight := 2

		contentWidth := msg.Width - 4
		if contentWidth < 1 {
			contentWidth = 1
		}
		contentHeight := msg.Height - headerHeight - footerHeight - inputHeight - paddingHeight
		if contentHeight < 1 {
			contentHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(contentWidth, contentHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = contentHeight
		}

		m.textarea.SetWidth(contentWidth - 4)
		m.progress.Width = contentWidth - 8
		if m.progress.Width < 10 {
			m.progress.Width = 10
		}

		// Rebuild the markdown renderer with the new wrap width
		if m.renderer != nil {
			if m.styles.Theme.IsDark {
				m.renderer, _ = glamour.NewTermRenderer(
					glamour.WithAutoStyle(),
					glamour.WithWordWrap(contentWidth-4),
				)
			} else {
				m.renderer, _ = glamour.NewTermRenderer(
					glamour.WithStylePath("light"),
					glamour.WithWordWrap(contentWidth-4),
				)
			}
		}
		m.refreshContent()

	case spinner.TickMsg:
		if m.anyLoading() {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case dashboardMsg:
		if m.dashboard.Apply(msg.c) {
			m.refreshContent()
		}

	case healthMsg:
		m.health.Apply(msg.c)

	case healthTickMsg:
		return m, tea.Batch(m.checkHealth(), m.tickHealth())

	case searchMsg:
		if m.search.Apply(msg.c) {
			m.refreshContent()
		}

	case extractMsg:
		if m.refresh.Apply(msg.c) {
			if r := m.refresh.Data(); r != nil {
				m.notice = fmt.Sprintf("Extracted %d articles, %d saved", r.TotalArticles, r.SuccessfulSaves)
				m.refreshContent()
				// Pull the fresh articles onto the overview
				return m, tea.Batch(m.spinner.Tick, m.fetchDashboard())
			}
			m.refreshContent()
		}

	case pipelineMsg:
		if m.pipeline.Apply(msg.c) {
			m.refreshContent()
			if m.pipeline.Phase() == async.PhaseComplete {
				if r := m.pipeline.Data(); r != nil {
					logging.Pipeline("run completed, %d stories in %.0fs", len(r.TopStories), r.ProcessingTime)
				}
				seq := m.pipeline.Seq()
				return m, expireAfterLinger(seq)
			}
			if err := m.pipeline.Err(); err != "" {
				logging.Pipeline("run failed: %s", err)
			}
		}

	case expireCompleteMsg:
		if m.pipeline.ExpireCompleted(msg.seq) {
			m.refreshContent()
		}

	case chatReplyMsg:
		if m.session.Apply(msg.r) {
			m.refreshContent()
		}

	case configReloadedMsg:
		m.applyConfig((*config.Config)(msg))
		m.refreshContent()
		return m, m.waitForReload()
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

// nextTab cycles the tab bar in either direction.
func nextTab(t Tab, step int) Tab {
	n := len(tabOrder)
	return Tab((int(t) + step + n) % n)
}

// handleChatKey processes keys while the chat tab is active.
func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var tiCmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		// Alt+Enter inserts a newline
		if msg.Alt {
			break
		}
		if !m.session.Loading() {
			return m.handleSubmit()
		}
		return m, nil

	case tea.KeyUp:
		// Input history previous (when at the top line)
		if m.textarea.Line() == 0 && m.historyIndex > 0 {
			m.historyIndex--
			m.textarea.SetValue(m.inputHistory[m.historyIndex])
			m.textarea.CursorEnd()
			return m, nil
		}

	case tea.KeyDown:
		// Input history next (when at the bottom line)
		if m.textarea.Line() == m.textarea.LineCount()-1 && m.historyIndex < len(m.inputHistory) {
			m.historyIndex++
			if m.historyIndex == len(m.inputHistory) {
				m.textarea.SetValue("")
			} else {
				m.textarea.SetValue(m.inputHistory[m.historyIndex])
				m.textarea.CursorEnd()
			}
			return m, nil
		}
	}

	if !m.session.Loading() {
		m.textarea, tiCmd = m.textarea.Update(msg)
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

// handleBrowseKey processes keys on the overview and stories tabs.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1":
		m.tab = TabOverview
		m.refreshContent()
		return m, nil
	case "2":
		m.tab = TabStories
		m.refreshContent()
		return m, nil
	case "3":
		m.tab = TabChat
		m.refreshContent()
		return m, nil
	}

	switch m.tab {
	case TabOverview:
		switch msg.String() {
		case "r":
			cmd := m.fetchDashboard()
			m.refreshContent()
			return m, tea.Batch(m.spinner.Tick, cmd)
		case "e":
			if !m.refresh.Loading() {
				cmd := m.runExtraction()
				m.notice = ""
				m.refreshContent()
				return m, tea.Batch(m.spinner.Tick, cmd)
			}
			return m, nil
		}

	case TabStories:
		switch msg.String() {
		case "r", "enter":
			if !m.pipeline.Running() {
				cmd := m.runPipeline()
				m.refreshContent()
				return m, tea.Batch(m.spinner.Tick, cmd)
			}
			return m, nil
		case "c":
			m.pipeline.ClearResults()
			m.refreshContent()
			return m, nil
		}
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, vpCmd
}

// handleSubmit sends the chat input.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, nil
	}

	// Special commands
	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}

	// Append to input history
	if len(m.inputHistory) == 0 || m.inputHistory[len(m.inputHistory)-1] != input {
		m.inputHistory = append(m.inputHistory, input)
	}
	m.historyIndex = len(m.inputHistory)

	cmd := m.sendChat(input)
	if cmd == nil {
		return m, nil
	}

	m.textarea.Reset()
	m.notice = ""
	m.refreshContent()

	return m, tea.Batch(m.spinner.Tick, cmd)
}

// refreshContent re-renders the active tab into the viewport.
func (m *Model) refreshContent() {
	switch m.tab {
	case TabOverview:
		m.viewport.SetContent(m.renderOverview())
		m.viewport.GotoTop()
	case TabStories:
		m.viewport.SetContent(m.renderStories())
		m.viewport.GotoTop()
	case TabChat:
		m.viewport.SetContent(m.renderChat())
		m.viewport.GotoBottom()
	}
}
