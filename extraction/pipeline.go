package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultPollInterval = 2 * time.Second

// Pipeline runs PDF extractions against a GeminiClient and reports progress
// as a finite event stream.
type Pipeline struct {
	client       *GeminiClient
	pollInterval time.Duration
}

func NewPipeline(client *GeminiClient) *Pipeline {
	return &Pipeline{client: client, pollInterval: defaultPollInterval}
}

// Run extracts a timetable from the raw PDF bytes. It returns immediately;
// events arrive on the returned channel, which is closed after the terminal
// frame. Cancelling the context stops the run between steps; a cancelled run
// still closes its channel but may not emit a terminal frame.
func (p *Pipeline) Run(ctx context.Context, pdf []byte) <-chan Event {
	events := make(chan Event, 8)
	go func() {
		defer close(events)
		if err := p.run(ctx, pdf, events); err != nil {
			emit(ctx, events, Event{
				Status:  StatusError,
				Message: fmt.Sprintf("Error: %v", err),
			})
		}
	}()
	return events
}

func (p *Pipeline) run(ctx context.Context, pdf []byte, events chan<- Event) error {
	emit(ctx, events, Event{Status: StatusUploading, Message: "Uploading PDF to processing server...", Progress: 5})

	displayName := fmt.Sprintf("upload-%s.pdf", uuid.New())
	file, err := p.client.UploadFile(ctx, pdf, displayName)
	if err != nil {
		return err
	}

	emit(ctx, events, Event{Status: StatusUploaded, Message: "PDF uploaded successfully", Progress: 10})

	file, err = p.waitForActive(ctx, file, events)
	if err != nil {
		return err
	}

	emit(ctx, events, Event{Status: StatusAnalyzing, Message: "Analyzing PDF content...", Progress: 65})
	emit(ctx, events, Event{Status: StatusExtracting, Message: "Extracting information from PDF...", Progress: 85})

	answer, err := p.client.ExtractTimetable(ctx, file)
	if err != nil {
		return err
	}

	cleaned := strings.TrimSpace(strings.NewReplacer("```json", "", "```", "").Replace(answer))

	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		// the model answered with prose, which means the upload was not a
		// usable timetable; forward the text so the caller can reject it
		emit(ctx, events, Event{
			Status:   StatusComplete,
			Message:  "Extraction complete",
			Progress: 100,
			Data:     cleaned,
			Type:     "text",
		})
		return nil
	}

	emit(ctx, events, Event{
		Status:   StatusComplete,
		Message:  "Extraction complete",
		Progress: 100,
		Data:     parsed,
	})
	return nil
}

// waitForActive polls the remote file every pollInterval until it leaves the
// PROCESSING state. There is no upper bound on the wait beyond context
// cancellation, which mirrors the behavior existing clients were written
// against; a stuck remote file keeps the stream open indefinitely.
func (p *Pipeline) waitForActive(ctx context.Context, file FileInfo, events chan<- Event) (FileInfo, error) {
	emit(ctx, events, Event{Status: StatusProcessing, Message: "Processing PDF...", Progress: 15})

	current, err := p.client.GetFile(ctx, file.Name)
	if err != nil {
		return FileInfo{}, err
	}
	for current.State == FileStateProcessing {
		select {
		case <-ctx.Done():
			return FileInfo{}, ctx.Err()
		case <-time.After(p.pollInterval):
		}

		current, err = p.client.GetFile(ctx, file.Name)
		if err != nil {
			return FileInfo{}, err
		}
		emit(ctx, events, Event{
			Status:   StatusProcessing,
			Message:  "Still processing file",
			Progress: min(55, 15+rand.Intn(41)),
		})
	}

	if current.State != FileStateActive {
		return FileInfo{}, fmt.Errorf("file processing failed")
	}
	return current, nil
}

func emit(ctx context.Context, events chan<- Event, event Event) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}
