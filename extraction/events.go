// Package extraction turns an uploaded PDF timetable into a week schedule by
// driving an external generative model: upload the file, poll until the
// remote side has processed it, ask for a structured extraction, and report
// progress as a stream of events.
package extraction

import "encoding/json"

// Event is one progress frame of an extraction run. The terminal frame has
// Status "complete" and carries either the parsed schedule JSON in Data or,
// when the model answered with something that is not JSON (typically because
// the upload was not a timetable), the raw text with Type "text".
type Event struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Progress int    `json:"progress,omitempty"`
	Data     any    `json:"data,omitempty"`
	Type     string `json:"type,omitempty"`
}

const (
	StatusUploading  = "uploading"
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusAnalyzing  = "analyzing"
	StatusExtracting = "extracting"
	StatusComplete   = "complete"
	StatusError      = "error"
)

// IsTerminal reports whether no further events follow this one.
func (e Event) IsTerminal() bool {
	return e.Status == StatusComplete || e.Status == StatusError
}

// ParsedSchedule returns the Data payload re-encoded as JSON, or nil for
// error and text frames. Callers decode it into their own week type.
func (e Event) ParsedSchedule() json.RawMessage {
	if e.Status != StatusComplete || e.Type == "text" || e.Data == nil {
		return nil
	}
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return nil
	}
	return raw
}
