package chat

import (
	"time"

	"github.com/tranhoangkhuongvn/news-ai/internal/api"
)

// Role identifies who authored a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one transcript entry. Immutable once appended; transcript order is
// append order.
type Turn struct {
	Role            Role
	Content         string
	Time            time.Time
	Sources         []api.ChatSource
	ContextArticles []map[string]any
}

// HasSources reports whether the turn carries reference documents.
func (t Turn) HasSources() bool {
	return len(t.Sources) > 0
}

// WelcomeText opens every conversation as a synthesized assistant turn.
const WelcomeText = "G'day! I'm your NewsAI assistant. Ask me about the latest sports, finance, lifestyle or music stories from around Australia."

// FailureText is the synthesized assistant reply when a send fails. Failures
// are absorbed into the transcript so the conversation keeps flowing; there
// is no separate error field to retry from.
const FailureText = "I apologize, but I encountered an error while processing your question. Please try again."
