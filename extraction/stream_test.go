package extraction

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// chunkedReader hands data out in fixed-size pieces so frames arrive split
// across reads the way a real network stream delivers them.
type chunkedReader struct {
	data  []byte
	chunk int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := min(r.chunk, len(r.data), len(p))
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func encodeFrames(t *testing.T, events ...Event) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, event := range events {
		if err := WriteEvent(&buf, event); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func decodeAll(t *testing.T, r io.Reader) []Event {
	t.Helper()
	decoder := NewStreamDecoder(r)
	var events []Event
	for {
		event, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			return events
		}
		if err != nil {
			t.Fatal(err)
		}
		events = append(events, event)
	}
}

func TestStreamRoundTrip(t *testing.T) {
	sent := []Event{
		{Status: StatusUploading, Message: "Uploading PDF to processing server...", Progress: 5},
		{Status: StatusProcessing, Message: "Still processing file", Progress: 42},
		{Status: StatusComplete, Message: "Extraction complete", Progress: 100, Data: "no timetable here", Type: "text"},
	}

	got := decodeAll(t, bytes.NewReader(encodeFrames(t, sent...)))
	if len(got) != len(sent) {
		t.Fatalf("decoded %d events, want %d", len(got), len(sent))
	}
	for i := range sent {
		if got[i].Status != sent[i].Status || got[i].Progress != sent[i].Progress {
			t.Errorf("event %d = %+v, want %+v", i, got[i], sent[i])
		}
	}
	if got[2].Type != "text" || got[2].Data != "no timetable here" {
		t.Errorf("terminal frame = %+v", got[2])
	}
}

func TestStreamDecoderHandlesSplitFrames(t *testing.T) {
	raw := encodeFrames(t,
		Event{Status: StatusUploaded, Message: "PDF uploaded successfully", Progress: 10},
		Event{Status: StatusComplete, Message: "Extraction complete", Progress: 100},
	)

	// one byte at a time is the worst case split
	got := decodeAll(t, &chunkedReader{data: raw, chunk: 1})
	if len(got) != 2 {
		t.Fatalf("decoded %d events, want 2", len(got))
	}
	if got[0].Status != StatusUploaded || got[1].Status != StatusComplete {
		t.Errorf("events = %+v", got)
	}
}

func TestStreamDecoderHandlesCoalescedFrames(t *testing.T) {
	raw := encodeFrames(t,
		Event{Status: StatusUploading, Progress: 5},
		Event{Status: StatusUploaded, Progress: 10},
		Event{Status: StatusAnalyzing, Progress: 65},
	)

	// everything in one read
	got := decodeAll(t, &chunkedReader{data: raw, chunk: len(raw)})
	if len(got) != 3 {
		t.Fatalf("decoded %d events, want 3", len(got))
	}
}

func TestStreamDecoderSkipsComments(t *testing.T) {
	raw := []byte(": keepalive\n\ndata: {\"status\":\"complete\",\"message\":\"done\"}\n\n")
	got := decodeAll(t, bytes.NewReader(raw))
	if len(got) != 1 || got[0].Status != StatusComplete {
		t.Errorf("events = %+v", got)
	}
}
