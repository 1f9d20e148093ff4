package chat

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranhoangkhuongvn/news-ai/internal/api"
)

// testSession returns a session with a deterministic clock.
func testSession() *Session {
	s := NewSession()
	base := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return s
}

// cannedReply builds a run func that always answers with the given reply.
func cannedReply(reply api.ChatReply) func(api.ChatRequest) (api.ChatReply, error) {
	return func(api.ChatRequest) (api.ChatReply, error) {
		return reply, nil
	}
}

func TestSession_StartsWithWelcome(t *testing.T) {
	s := NewSession()

	require.Len(t, s.Turns(), 1)
	assert.Equal(t, RoleAssistant, s.Turns()[0].Role)
	assert.Equal(t, WelcomeText, s.Turns()[0].Content)
	assert.Empty(t, s.SessionID())
	assert.Empty(t, s.DisplayedSources())
	assert.False(t, s.Loading())
}

func TestSession_BlankSendIsNoop(t *testing.T) {
	s := testSession()
	before := s.Turns()

	for _, text := range []string{"", "   ", "\n\t "} {
		call, ok := s.Send(text, cannedReply(api.ChatReply{Response: "unused"}))
		assert.False(t, ok, "blank send %q should be rejected", text)
		assert.Nil(t, call)
	}

	if diff := cmp.Diff(before, s.Turns()); diff != "" {
		t.Errorf("transcript changed on blank send (-want +got):\n%s", diff)
	}
	assert.False(t, s.Loading())
}

func TestSession_SendAppendsUserTurnImmediately(t *testing.T) {
	s := testSession()

	call, ok := s.Send("  What's happening in finance?  ", cannedReply(api.ChatReply{}))
	require.True(t, ok)
	require.NotNil(t, call)

	require.Len(t, s.Turns(), 2)
	last := s.Turns()[1]
	assert.Equal(t, RoleUser, last.Role)
	assert.Equal(t, "What's happening in finance?", last.Content, "input should be trimmed")
	assert.True(t, s.Loading())
}

func TestSession_TranscriptGrowsByTwoPerSend(t *testing.T) {
	s := testSession()

	for i, reply := range []api.ChatReply{
		{Response: "first answer", SessionID: "s1"},
		{Response: "second answer", SessionID: "s1"},
	} {
		call, ok := s.Send("question", cannedReply(reply))
		require.True(t, ok)
		require.True(t, s.Apply(call()))
		assert.Len(t, s.Turns(), 1+2*(i+1))
	}

	turns := s.Turns()
	assert.Equal(t, RoleAssistant, turns[2].Role)
	assert.Equal(t, "first answer", turns[2].Content)
	assert.Equal(t, "second answer", turns[4].Content)
	assert.False(t, s.Loading())
}

func TestSession_RequestCarriesSessionAndFilter(t *testing.T) {
	s := testSession()
	s.SetCategoryFilter("sports")
	s.SetUserID("khuong")

	var got api.ChatRequest
	capture := func(req api.ChatRequest) (api.ChatReply, error) {
		got = req
		return api.ChatReply{Response: "ok", SessionID: "s1"}, nil
	}

	call, _ := s.Send("first question", capture)
	s.Apply(call())

	assert.Equal(t, "first question", got.Message)
	assert.Empty(t, got.SessionID, "first send starts without context")
	assert.Equal(t, "sports", got.CategoryFilter)
	assert.Equal(t, "khuong", got.UserID)

	call, _ = s.Send("follow-up", capture)
	s.Apply(call())

	assert.Equal(t, "s1", got.SessionID, "adopted id should thread into the next send")
}

func TestSession_FirstAdoptionWins(t *testing.T) {
	s := testSession()

	call, _ := s.Send("one", cannedReply(api.ChatReply{Response: "a", SessionID: "s1"}))
	s.Apply(call())
	call, _ = s.Send("two", cannedReply(api.ChatReply{Response: "b", SessionID: "s2"}))
	s.Apply(call())

	assert.Equal(t, "s1", s.SessionID(), "a later response must never replace the adopted id")
}

func TestSession_FailureAbsorbedIntoTranscript(t *testing.T) {
	s := testSession()

	// Establish a session and displayed sources first.
	sources := []api.ChatSource{{Title: "X", URL: "https://example.com/x", Source: "ABC News"}}
	call, _ := s.Send("working question", cannedReply(api.ChatReply{
		Response: "all good", SessionID: "s1", Sources: sources,
	}))
	s.Apply(call())

	call, _ = s.Send("broken question", func(api.ChatRequest) (api.ChatReply, error) {
		return api.ChatReply{}, errors.New("HTTP error! status: 500")
	})
	require.True(t, s.Apply(call()))

	turns := s.Turns()
	require.Len(t, turns, 5)
	last := turns[4]
	assert.Equal(t, RoleAssistant, last.Role)
	assert.Equal(t, FailureText, last.Content, "failure becomes a synthesized apology turn")
	assert.Empty(t, last.Sources)

	assert.Equal(t, "s1", s.SessionID(), "failure must not touch the session id")
	if diff := cmp.Diff(sources, s.DisplayedSources()); diff != "" {
		t.Errorf("failure must not touch displayed sources (-want +got):\n%s", diff)
	}
	assert.False(t, s.Loading())
}

func TestSession_SourcesReplaceOnlyWhenNonEmpty(t *testing.T) {
	s := testSession()

	first := []api.ChatSource{{Title: "A", Source: "ABC News"}}
	call, _ := s.Send("q1", cannedReply(api.ChatReply{Response: "r1", SessionID: "s1", Sources: first}))
	s.Apply(call())
	require.Len(t, s.DisplayedSources(), 1)

	call, _ = s.Send("q2", cannedReply(api.ChatReply{Response: "r2", SessionID: "s1"}))
	s.Apply(call())

	if diff := cmp.Diff(first, s.DisplayedSources()); diff != "" {
		t.Errorf("sourceless reply should leave displayed sources alone (-want +got):\n%s", diff)
	}
}

func TestSession_ShowSourcesFor(t *testing.T) {
	s := testSession()

	older := []api.ChatSource{{Title: "Old story", Source: "SMH"}}
	newer := []api.ChatSource{{Title: "New story", Source: "ABC News"}}

	call, _ := s.Send("q1", cannedReply(api.ChatReply{Response: "r1", SessionID: "s1", Sources: older}))
	s.Apply(call())
	call, _ = s.Send("q2", cannedReply(api.ChatReply{Response: "r2", Sources: newer}))
	s.Apply(call())

	require.Len(t, s.Turns(), 5)
	if diff := cmp.Diff(newer, s.DisplayedSources()); diff != "" {
		t.Fatalf("newest sources should be displayed (-want +got):\n%s", diff)
	}

	before := s.Turns()
	assert.True(t, s.ShowSourcesFor(2), "turn 2 is the older assistant turn")
	if diff := cmp.Diff(older, s.DisplayedSources()); diff != "" {
		t.Errorf("displayed sources should repoint to the older turn (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before, s.Turns()); diff != "" {
		t.Errorf("ShowSourcesFor must not mutate the transcript (-want +got):\n%s", diff)
	}

	assert.False(t, s.ShowSourcesFor(1), "user turns carry no sources")
	assert.False(t, s.ShowSourcesFor(99), "out of range")
	assert.False(t, s.ShowSourcesFor(-1), "out of range")
}

func TestSession_Clear(t *testing.T) {
	s := testSession()

	call, _ := s.Send("q", cannedReply(api.ChatReply{
		Response:  "r",
		SessionID: "s1",
		Sources:   []api.ChatSource{{Title: "T"}},
	}))
	s.Apply(call())
	require.Len(t, s.Turns(), 3)

	s.Clear()

	require.Len(t, s.Turns(), 1)
	assert.Equal(t, WelcomeText, s.Turns()[0].Content)
	assert.Empty(t, s.SessionID())
	assert.Empty(t, s.DisplayedSources())
	assert.False(t, s.Loading())
}

func TestSession_ClearDropsInFlightReply(t *testing.T) {
	s := testSession()

	call, _ := s.Send("q", cannedReply(api.ChatReply{Response: "late", SessionID: "s9"}))
	s.Clear()

	assert.False(t, s.Apply(call()), "reply from a cleared conversation must be dropped")
	require.Len(t, s.Turns(), 1, "late reply must not appear in the fresh transcript")
	assert.Empty(t, s.SessionID(), "late reply must not seed the fresh conversation's id")
}

func TestSession_OverlappingSendsEachGetATurn(t *testing.T) {
	s := testSession()

	first, _ := s.Send("q1", cannedReply(api.ChatReply{Response: "a1", SessionID: "s1"}))
	second, _ := s.Send("q2", cannedReply(api.ChatReply{Response: "a2", SessionID: "s2"}))
	assert.True(t, s.Loading())

	// The second send settles first.
	require.True(t, s.Apply(second()))
	assert.True(t, s.Loading(), "one send is still in flight")
	require.True(t, s.Apply(first()))
	assert.False(t, s.Loading())

	turns := s.Turns()
	require.Len(t, turns, 5)
	assert.Equal(t, "a2", turns[3].Content, "assistant turns append in settle order")
	assert.Equal(t, "a1", turns[4].Content)
	assert.Equal(t, "s2", s.SessionID(), "first reply to settle adopts the id")
}

func TestSession_HistoryLimit(t *testing.T) {
	s := testSession()
	s.SetHistoryLimit(5)

	for i := 0; i < 4; i++ {
		call, _ := s.Send("question", cannedReply(api.ChatReply{Response: "answer", SessionID: "s1"}))
		s.Apply(call())
	}

	turns := s.Turns()
	assert.Len(t, turns, 5)
	assert.Equal(t, WelcomeText, turns[0].Content, "welcome turn survives trimming")
	assert.Equal(t, "answer", turns[len(turns)-1].Content)
}

// TestSession_SportsNewsScenario runs the end-to-end shape of a first question.
func TestSession_SportsNewsScenario(t *testing.T) {
	s := testSession()

	call, ok := s.Send("What's the latest sports news?", cannedReply(api.ChatReply{
		Response:  "Here are three stories...",
		SessionID: "abc123",
		Sources:   []api.ChatSource{{Title: "X", URL: "https://example.com/x", Source: "ABC News"}},
	}))
	require.True(t, ok)
	require.True(t, s.Apply(call()))

	require.Len(t, s.Turns(), 3, "welcome + user + assistant")
	assert.Equal(t, "abc123", s.SessionID())
	require.Len(t, s.DisplayedSources(), 1)
	assert.Equal(t, "ABC News", s.DisplayedSources()[0].Source)
}
