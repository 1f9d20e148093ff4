// Package chat holds the conversation state behind the news assistant:
// the transcript, the backend-issued session id that threads context between
// questions, and the source documents attributed to assistant answers.
//
// A Session follows the same ownership contract as the async cells: Send,
// Apply, and the other mutators run only on the owning goroutine, while the
// closure returned by Send may run anywhere and reports back through a Reply.
package chat

import (
	"strings"
	"time"

	"github.com/tranhoangkhuongvn/news-ai/internal/api"
	"github.com/tranhoangkhuongvn/news-ai/internal/logging"
)

// Session is one conversation with the news assistant.
type Session struct {
	turns          []Turn
	sessionID      string
	displayed      []api.ChatSource
	categoryFilter string
	userID         string
	historyLimit   int
	pending        int
	gen            uint64
	now            func() time.Time
}

// NewSession returns a session seeded with the welcome turn.
func NewSession() *Session {
	s := &Session{now: time.Now}
	s.turns = []Turn{s.welcomeTurn()}
	return s
}

func (s *Session) welcomeTurn() Turn {
	return Turn{Role: RoleAssistant, Content: WelcomeText, Time: s.now()}
}

// Reply carries one send's outcome back to the session.
type Reply struct {
	gen   uint64
	reply api.ChatReply
	err   string
}

// Failed reports whether the send settled with an error.
func (r Reply) Failed() bool {
	return r.err != ""
}

// Send begins one question to the assistant. Blank input (after trimming) is
// a no-op and returns ok=false with no transcript change. Otherwise the user
// turn is appended immediately and the returned closure performs the call;
// run it on any goroutine and deliver its Reply to Apply on the owner.
func (s *Session) Send(text string, run func(api.ChatRequest) (api.ChatReply, error)) (call func() Reply, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	s.turns = s.append(Turn{Role: RoleUser, Content: trimmed, Time: s.now()})
	s.pending++
	gen := s.gen

	req := api.ChatRequest{
		Message:        trimmed,
		SessionID:      s.sessionID,
		UserID:         s.userID,
		CategoryFilter: s.categoryFilter,
	}

	logging.ChatDebug("send: %d chars, session=%q filter=%q", len(trimmed), s.sessionID, s.categoryFilter)

	return func() Reply {
		reply, err := run(req)
		if err != nil {
			return Reply{gen: gen, err: err.Error()}
		}
		return Reply{gen: gen, reply: reply}
	}, true
}

// Apply settles one send and reports whether it was applied. Replies from
// before the last Clear belong to a dead conversation and are dropped.
//
// A successful reply appends the assistant turn, adopts the response's
// session id if none is held yet (first adoption wins; a later response's
// different id never replaces it), and repoints the displayed sources when
// the reply carries any. A failed reply appends the synthesized apology turn
// and leaves the session id and displayed sources alone.
func (s *Session) Apply(r Reply) bool {
	if r.gen != s.gen {
		logging.ChatDebug("dropping reply from cleared conversation")
		return false
	}
	if s.pending > 0 {
		s.pending--
	}

	if r.err != "" {
		logging.Chat("send failed, absorbed into transcript: %s", r.err)
		s.turns = s.append(Turn{Role: RoleAssistant, Content: FailureText, Time: s.now()})
		return true
	}

	s.turns = s.append(Turn{
		Role:            RoleAssistant,
		Content:         r.reply.Response,
		Time:            s.now(),
		Sources:         r.reply.Sources,
		ContextArticles: r.reply.ContextArticles,
	})

	if s.sessionID == "" && r.reply.SessionID != "" {
		s.sessionID = r.reply.SessionID
		logging.Chat("adopted session id %s", s.sessionID)
	}

	if len(r.reply.Sources) > 0 {
		s.displayed = r.reply.Sources
	}
	return true
}

// Clear hard-resets the conversation: fresh welcome turn, no session id, no
// displayed sources. A cleared conversation never resumes; replies still in
// flight are dropped and the next Send starts context from scratch.
func (s *Session) Clear() {
	s.gen++
	s.pending = 0
	s.turns = []Turn{s.welcomeTurn()}
	s.sessionID = ""
	s.displayed = nil
	logging.Chat("conversation cleared")
}

// ShowSourcesFor repoints the displayed sources to the turn at index i
// without touching the transcript. Returns false if the index is out of
// range or the turn carries no sources.
func (s *Session) ShowSourcesFor(i int) bool {
	if i < 0 || i >= len(s.turns) || !s.turns[i].HasSources() {
		return false
	}
	s.displayed = s.turns[i].Sources
	return true
}

// append adds a turn, enforcing the history limit while keeping the welcome
// turn in place.
func (s *Session) append(t Turn) []Turn {
	turns := append(s.turns, t)
	if s.historyLimit > 0 && len(turns) > s.historyLimit {
		overflow := len(turns) - s.historyLimit
		trimmed := make([]Turn, 0, s.historyLimit)
		trimmed = append(trimmed, turns[0])
		trimmed = append(trimmed, turns[1+overflow:]...)
		turns = trimmed
	}
	return turns
}

// Turns returns the transcript in display order. Callers must not mutate it.
func (s *Session) Turns() []Turn {
	return s.turns
}

// SessionID returns the held session id, or "" before adoption.
func (s *Session) SessionID() string {
	return s.sessionID
}

// DisplayedSources returns the currently displayed source set.
func (s *Session) DisplayedSources() []api.ChatSource {
	return s.displayed
}

// Loading reports whether any send is in flight.
func (s *Session) Loading() bool {
	return s.pending > 0
}

// CategoryFilter returns the category constraint sent with each question.
func (s *Session) CategoryFilter() string {
	return s.categoryFilter
}

// SetCategoryFilter constrains subsequent questions to one category.
// Pass "" to remove the constraint.
func (s *Session) SetCategoryFilter(category string) {
	s.categoryFilter = category
}

// SetUserID attributes subsequent questions to the given user.
func (s *Session) SetUserID(id string) {
	s.userID = id
}

// SetHistoryLimit caps the transcript length; 0 means unlimited. The welcome
// turn always survives trimming.
func (s *Session) SetHistoryLimit(n int) {
	s.historyLimit = n
}
