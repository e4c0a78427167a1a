package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// mockGemini stands in for the generative-language API: an upload endpoint,
// a file state endpoint that stays PROCESSING for a configurable number of
// polls, and a generateContent endpoint with a canned answer.
type mockGemini struct {
	mu             sync.Mutex
	pollsUntilDone int
	finalState     string
	answer         string

	uploads   int
	generates int
}

func (m *mockGemini) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload/v1beta/files", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.uploads++
		m.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"file": map[string]string{
				"name":  "files/mock",
				"uri":   "https://mock/files/mock",
				"state": FileStateProcessing,
			},
		})
	})
	mux.HandleFunc("GET /v1beta/files/mock", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		state := m.finalState
		if m.pollsUntilDone > 0 {
			m.pollsUntilDone--
			state = FileStateProcessing
		}
		m.mu.Unlock()
		json.NewEncoder(w).Encode(FileInfo{Name: "files/mock", URI: "https://mock/files/mock", State: state})
	})
	mux.HandleFunc("POST /v1beta/models/gemini-2.5-pro:generateContent", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.generates++
		answer := m.answer
		m.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": answer}}}},
			},
		})
	})
	return mux
}

func runPipeline(t *testing.T, mock *mockGemini) []Event {
	t.Helper()
	server := httptest.NewServer(mock.handler())
	t.Cleanup(server.Close)

	pipeline := NewPipeline(NewGeminiClient("test-key", server.URL))
	pipeline.pollInterval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var events []Event
	for event := range pipeline.Run(ctx, []byte("%PDF-1.4 mock")) {
		events = append(events, event)
	}
	return events
}

func statuses(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Status
	}
	return out
}

func TestPipelineHappyPath(t *testing.T) {
	mock := &mockGemini{
		pollsUntilDone: 2,
		finalState:     FileStateActive,
		answer:         "```json\n{\"schedule\": {\"Monday\": []}}\n```",
	}
	events := runPipeline(t, mock)

	got := strings.Join(statuses(events), ",")
	want := "uploading,uploaded,processing,processing,processing,analyzing,extracting,complete"
	if got != want {
		t.Fatalf("statuses = %s, want %s", got, want)
	}

	last := events[len(events)-1]
	if !last.IsTerminal() || last.Progress != 100 || last.Type == "text" {
		t.Fatalf("terminal frame = %+v", last)
	}
	raw := last.ParsedSchedule()
	if raw == nil {
		t.Fatal("expected parsed schedule payload")
	}
	var payload struct {
		Schedule map[string]any `json:"schedule"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatal(err)
	}
	if _, ok := payload.Schedule["Monday"]; !ok {
		t.Errorf("payload missing Monday: %s", raw)
	}
	if mock.uploads != 1 || mock.generates != 1 {
		t.Errorf("uploads = %d, generates = %d", mock.uploads, mock.generates)
	}
}

func TestPipelineNonTimetableAnswerIsTextFrame(t *testing.T) {
	mock := &mockGemini{
		finalState: FileStateActive,
		answer:     "This document does not look like a class timetable.",
	}
	events := runPipeline(t, mock)

	last := events[len(events)-1]
	if last.Status != StatusComplete || last.Type != "text" {
		t.Fatalf("terminal frame = %+v", last)
	}
	if last.ParsedSchedule() != nil {
		t.Error("text frames must not yield a parsed schedule")
	}
	text, ok := last.Data.(string)
	if !ok || !strings.Contains(text, "timetable") {
		t.Errorf("data = %#v", last.Data)
	}
}

func TestPipelineFailedProcessingEmitsError(t *testing.T) {
	mock := &mockGemini{finalState: "FAILED"}
	events := runPipeline(t, mock)

	last := events[len(events)-1]
	if last.Status != StatusError {
		t.Fatalf("terminal frame = %+v", last)
	}
	if !strings.Contains(last.Message, "file processing failed") {
		t.Errorf("message = %q", last.Message)
	}
	if mock.generates != 0 {
		t.Error("extraction should not run after a failed upload")
	}
}

func TestPipelineProcessingProgressIsCapped(t *testing.T) {
	mock := &mockGemini{
		pollsUntilDone: 5,
		finalState:     FileStateActive,
		answer:         "{}",
	}
	for _, event := range runPipeline(t, mock) {
		if event.Status == StatusProcessing && event.Progress > 55 {
			t.Errorf("processing progress %d exceeds cap", event.Progress)
		}
	}
}

func TestPipelineCancellationClosesStream(t *testing.T) {
	// a file that never leaves PROCESSING keeps the poll loop alive forever,
	// so cancellation is the only way out
	mock := &mockGemini{pollsUntilDone: 1 << 30, finalState: FileStateActive}
	server := httptest.NewServer(mock.handler())
	t.Cleanup(server.Close)

	pipeline := NewPipeline(NewGeminiClient("test-key", server.URL))
	pipeline.pollInterval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	events := pipeline.Run(ctx, []byte("%PDF"))

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event channel never closed after cancellation")
		}
	}
}

func TestPipelineErrorMessageFormat(t *testing.T) {
	mock := &mockGemini{finalState: "FAILED"}
	events := runPipeline(t, mock)
	last := events[len(events)-1]
	if want := fmt.Sprintf("Error: %s", "file processing failed"); last.Message != want {
		t.Errorf("message = %q, want %q", last.Message, want)
	}
}
