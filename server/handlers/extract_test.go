package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/globaltfn/remindme-server/extraction"
)

// mockGeminiServer answers the three generative-language endpoints the
// extraction pipeline touches, with the uploaded file active right away so the
// pipeline never has to poll.
func mockGeminiServer(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload/v1beta/files", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"file": map[string]string{
				"name":  "files/mock",
				"uri":   "https://mock/files/mock",
				"state": extraction.FileStateActive,
			},
		})
	})
	mux.HandleFunc("GET /v1beta/files/mock", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(extraction.FileInfo{
			Name:  "files/mock",
			URI:   "https://mock/files/mock",
			State: extraction.FileStateActive,
		})
	})
	mux.HandleFunc("POST /v1beta/models/gemini-2.5-pro:generateContent", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": answer}}}},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestExtractPDFStreamsEvents(t *testing.T) {
	gemini := mockGeminiServer(t, `{"schedule": {"Monday": []}}`)
	h := &Handler{Pipeline: extraction.NewPipeline(extraction.NewGeminiClient("test-key", gemini.URL))}

	req := httptest.NewRequest(http.MethodPost, "/api/extract-pdf", strings.NewReader("%PDF-1.4 mock"))
	rec := httptest.NewRecorder()
	h.ExtractPDF(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	decoder := extraction.NewStreamDecoder(rec.Body)
	var events []extraction.Event
	for {
		event, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		events = append(events, event)
	}

	if len(events) == 0 {
		t.Fatal("no events streamed")
	}
	if first := events[0]; first.Status != extraction.StatusUploading {
		t.Errorf("first frame = %+v", first)
	}
	last := events[len(events)-1]
	if last.Status != extraction.StatusComplete || last.Progress != 100 {
		t.Fatalf("terminal frame = %+v", last)
	}
	if last.ParsedSchedule() == nil {
		t.Error("expected a parsed schedule in the terminal frame")
	}
}

func TestExtractPDFEmptyBody(t *testing.T) {
	h := &Handler{Pipeline: extraction.NewPipeline(extraction.NewGeminiClient("test-key", "http://unreachable.invalid"))}

	req := httptest.NewRequest(http.MethodPost, "/api/extract-pdf", strings.NewReader(""))
	rec := httptest.NewRecorder()
	h.ExtractPDF(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "Empty request body" {
		t.Errorf("message = %q", body.Message)
	}
}
