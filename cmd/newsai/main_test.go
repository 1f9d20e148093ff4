package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranhoangkhuongvn/news-ai/internal/config"
)

func TestJoinArgs(t *testing.T) {
	got := joinArgs([]string{"who", "won", "the", "toss"})
	if got != "who won the toss" {
		t.Fatalf("expected 'who won the toss', got '%s'", got)
	}
}

func TestResolveColors(t *testing.T) {
	if resolveColors("never") {
		t.Fatal("expected never mode to disable colors")
	}
	if !resolveColors("always") {
		t.Fatal("expected always mode to enable colors")
	}

	t.Setenv("NO_COLOR", "1")
	if resolveColors("auto") {
		t.Fatal("expected NO_COLOR to disable colors in auto mode")
	}

	t.Setenv("NO_COLOR", "")
	_ = os.Unsetenv("NO_COLOR")
	t.Setenv("TERM", "dumb")
	if resolveColors("auto") {
		t.Fatal("expected TERM=dumb to disable colors in auto mode")
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 10); got != "short" {
		t.Fatalf("expected short string unchanged, got '%s'", got)
	}
	if got := clip("a very long headline about cricket", 12); got != "a very lo..." {
		t.Fatalf("expected clipped string, got '%s'", got)
	}
	if got := clip("überlange Überschrift", 8); got != "überl..." {
		t.Fatalf("expected rune-safe clip, got '%s'", got)
	}
}

func TestBadgeAndPriorityPlain(t *testing.T) {
	p := &Printer{out: io.Discard, errOut: io.Discard, useColors: false}
	if got := p.Badge("healthy"); got != "[healthy]" {
		t.Fatalf("expected plain badge '[healthy]', got '%s'", got)
	}
	if got := p.Priority("high"); got != "[high]" {
		t.Fatalf("expected plain priority '[high]', got '%s'", got)
	}
	if got := p.Bold("title"); got != "title" {
		t.Fatalf("expected plain bold passthrough, got '%s'", got)
	}
}

func TestRunSources(t *testing.T) {
	logger = zap.NewNop()
	srv := newBackend(t, map[string]string{
		"/sources": `{"sources":[
			{"id":"abc","name":"ABC News","url":"https://abc.net.au/news"},
			{"id":"guardian","name":"The Guardian AU","url":"https://theguardian.com/au"}]}`,
	})
	cfg = config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL

	output := captureOutput(t, func() {
		out = NewPrinter("never")
		if err := runSources(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runSources returned error: %v", err)
		}
	})

	if !strings.Contains(output, "ABC News") {
		t.Fatalf("expected source name in output, got: %s", output)
	}
	if !strings.Contains(output, "https://theguardian.com/au") {
		t.Fatalf("expected source url in output, got: %s", output)
	}
}

func TestRunCategories(t *testing.T) {
	logger = zap.NewNop()
	srv := newBackend(t, map[string]string{
		"/categories": `{"categories":[
			{"category":"sports","label":"Sports","color":"#e25822"},
			{"category":"finance","label":"Finance","color":"#2274a5"}]}`,
	})
	cfg = config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL

	output := captureOutput(t, func() {
		out = NewPrinter("never")
		if err := runCategories(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runCategories returned error: %v", err)
		}
	})

	if !strings.Contains(output, "Sports") || !strings.Contains(output, "Finance") {
		t.Fatalf("expected category labels in output, got: %s", output)
	}
}

func TestRunArticlesEmptyStore(t *testing.T) {
	logger = zap.NewNop()
	srv := newBackend(t, map[string]string{"/articles": `[]`})
	cfg = config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL

	output := captureOutput(t, func() {
		out = NewPrinter("never")
		if err := runArticles(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runArticles returned error: %v", err)
		}
	})

	if !strings.Contains(output, "No articles stored yet") {
		t.Fatalf("expected empty store notice, got: %s", output)
	}
}

func TestRunArticlesTable(t *testing.T) {
	logger = zap.NewNop()
	srv := newBackend(t, map[string]string{
		"/articles": `[
			{"id":"1","title":"Ashes squad announced","category":"sports","source":"abc","publishedAt":"2026-08-21T09:00:00Z","url":"https://abc.net.au/1"},
			{"id":"2","title":"RBA holds the cash rate","category":"finance","source":"guardian","publishedAt":"2026-08-21T06:30:00Z","url":"https://theguardian.com/2"}]`,
	})
	cfg = config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL

	output := captureOutput(t, func() {
		out = NewPrinter("never")
		if err := runArticles(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runArticles returned error: %v", err)
		}
	})

	if !strings.Contains(output, "Ashes squad announced") {
		t.Fatalf("expected first article title, got: %s", output)
	}
	if !strings.Contains(output, "RBA holds the cash rate") {
		t.Fatalf("expected second article title, got: %s", output)
	}
	if !strings.Contains(output, "2 articles") {
		t.Fatalf("expected article count footer, got: %s", output)
	}
}

func TestRunSearchArticlesNoMatch(t *testing.T) {
	logger = zap.NewNop()
	srv := newBackend(t, map[string]string{
		"/chat/search": `{"query":"quokkas","results":[],"total_results":0}`,
	})
	cfg = config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL

	output := captureOutput(t, func() {
		out = NewPrinter("never")
		if err := runSearchArticles(&cobra.Command{}, []string{"quokkas"}); err != nil {
			t.Fatalf("runSearchArticles returned error: %v", err)
		}
	})

	if !strings.Contains(output, `No articles match "quokkas".`) {
		t.Fatalf("expected no-match notice, got: %s", output)
	}
}

func TestRunStatus(t *testing.T) {
	logger = zap.NewNop()
	srv := newBackend(t, map[string]string{
		"/articles/enhanced-status": `{
			"success": true,
			"timestamp": "2026-08-23T10:00:00Z",
			"pipeline_status": {
				"database": {
					"total_articles": 42,
					"classified_articles": 40,
					"by_category": {"sports": 12, "finance": 9},
					"by_source": {"abc": 21}
				},
				"similarity": {"recent_similarities": 18, "average_score": 0.82},
				"pipeline_ready": true,
				"last_check": "2026-08-23T09:55:00Z"
			}}`,
	})
	cfg = config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL

	output := captureOutput(t, func() {
		out = NewPrinter("never")
		if err := runStatus(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runStatus returned error: %v", err)
		}
	})

	if !strings.Contains(output, "42 articles, 40 classified") {
		t.Fatalf("expected store counts, got: %s", output)
	}
	if !strings.Contains(output, "18 recent pairs, average score 0.82") {
		t.Fatalf("expected similarity summary, got: %s", output)
	}
	if !strings.Contains(output, "[ready] ready") {
		t.Fatalf("expected ready badge, got: %s", output)
	}
	if !strings.Contains(output, "last check 2026-08-23T09:55:00Z") {
		t.Fatalf("expected last check line, got: %s", output)
	}
}

func TestRunHealthHealthy(t *testing.T) {
	logger = zap.NewNop()
	srv := newBackend(t, map[string]string{
		"/health":      `{"status":"healthy","database":"connected"}`,
		"/chat/health": `{"status":"healthy","components":{"retriever":"healthy","llm":"healthy"}}`,
	})
	cfg = config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL

	output := captureOutput(t, func() {
		out = NewPrinter("never")
		if err := runHealth(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runHealth returned error: %v", err)
		}
	})

	if !strings.Contains(output, "[healthy]") {
		t.Fatalf("expected healthy badge, got: %s", output)
	}
	if !strings.Contains(output, "database connected") {
		t.Fatalf("expected database line, got: %s", output)
	}
	if !strings.Contains(output, "retriever") || !strings.Contains(output, "llm") {
		t.Fatalf("expected assistant component lines, got: %s", output)
	}
}

func TestRunHealthBackendDown(t *testing.T) {
	logger = zap.NewNop()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	cfg = config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL

	var runErr error
	output := captureOutput(t, func() {
		out = NewPrinter("never")
		runErr = runHealth(&cobra.Command{}, nil)
	})

	if runErr == nil {
		t.Fatal("expected error when both probes fail")
	}
	if !strings.Contains(runErr.Error(), "backend unreachable") {
		t.Fatalf("expected unreachable error, got: %v", runErr)
	}
	if !strings.Contains(output, "[down]") {
		t.Fatalf("expected down badge in output, got: %s", output)
	}
}

func TestRunAsk(t *testing.T) {
	logger = zap.NewNop()
	srv := newBackend(t, map[string]string{
		"/chat/ask": `{
			"response": "The squad was announced on Friday with two uncapped players.",
			"session_id": "sess-123",
			"sources": [{
				"title": "Ashes squad announced",
				"url": "https://abc.net.au/ashes",
				"source": "abc",
				"published_date": "2026-08-21",
				"summary": "Squad named ahead of the Brisbane opener."
			}],
			"context_articles": []}`,
	})
	cfg = config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL

	output := captureOutput(t, func() {
		out = NewPrinter("never")
		if err := runAsk(&cobra.Command{}, []string{"who", "made", "the", "squad"}); err != nil {
			t.Fatalf("runAsk returned error: %v", err)
		}
	})

	if !strings.Contains(output, "announced on Friday") {
		t.Fatalf("expected assistant answer, got: %s", output)
	}
	if !strings.Contains(output, "References") {
		t.Fatalf("expected references header, got: %s", output)
	}
	if !strings.Contains(output, "Ashes squad announced") {
		t.Fatalf("expected source title, got: %s", output)
	}
	if !strings.Contains(output, "newsai ask --session sess-123") {
		t.Fatalf("expected session continuation hint, got: %s", output)
	}
}

func TestRunSimilarBadID(t *testing.T) {
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	out = NewPrinter("never")

	err := runSimilar(&cobra.Command{}, []string{"abc"})
	if err == nil {
		t.Fatal("expected error for non-numeric article id")
	}
	if !strings.Contains(err.Error(), "must be a number") {
		t.Fatalf("expected number parse error, got: %v", err)
	}
}

func TestRunSimilarNoMatches(t *testing.T) {
	logger = zap.NewNop()
	srv := newBackend(t, map[string]string{
		"/articles/7/similar": `{"article_id":7,"similar_articles":[],"count":0,"message":"no recent similarity data"}`,
	})
	cfg = config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL

	output := captureOutput(t, func() {
		out = NewPrinter("never")
		if err := runSimilar(&cobra.Command{}, []string{"7"}); err != nil {
			t.Fatalf("runSimilar returned error: %v", err)
		}
	})

	if !strings.Contains(output, "No similar articles found for article 7.") {
		t.Fatalf("expected empty result notice, got: %s", output)
	}
	if !strings.Contains(output, "no recent similarity data") {
		t.Fatalf("expected backend message, got: %s", output)
	}
}

func TestRunExtract(t *testing.T) {
	logger = zap.NewNop()
	srv := newBackend(t, map[string]string{
		"/extract": `{
			"success": true,
			"message": "ok",
			"total_articles": 12,
			"successful_saves": 11,
			"failed_saves": 1,
			"by_category": {"sports": 7, "finance": 5},
			"by_source": {"abc": 12},
			"extraction_time": 3.5,
			"errors": []}`,
	})
	cfg = config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL

	output := captureOutput(t, func() {
		out = NewPrinter("never")
		if err := runExtract(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runExtract returned error: %v", err)
		}
	})

	if !strings.Contains(output, "[OK] Extracted 12 articles in 3.5s (11 saved, 1 failed)") {
		t.Fatalf("expected extraction summary, got: %s", output)
	}
	if !strings.Contains(output, "sports") {
		t.Fatalf("expected per-category row, got: %s", output)
	}
}

func newBackend(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	origErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		_, _ = io.Copy(&buf, rErr)
		done <- buf.String()
	}()

	fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = origOut
	os.Stderr = origErr
	return <-done
}
