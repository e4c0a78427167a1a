package extraction

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// WriteEvent encodes one event as a server-sent-events frame.
func WriteEvent(w io.Writer, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// StreamDecoder reads extraction events back out of an SSE byte stream. The
// transport may split or coalesce frames arbitrarily across reads, so input
// is buffered until a full blank-line-delimited record is available.
type StreamDecoder struct {
	scanner *bufio.Scanner
}

func NewStreamDecoder(r io.Reader) *StreamDecoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(splitFrames)
	return &StreamDecoder{scanner: scanner}
}

// Next returns the next event, or io.EOF once the stream is exhausted.
func (d *StreamDecoder) Next() (Event, error) {
	for d.scanner.Scan() {
		frame := d.scanner.Bytes()
		for _, line := range bytes.Split(frame, []byte("\n")) {
			data, ok := bytes.CutPrefix(line, []byte("data: "))
			if !ok {
				continue
			}
			var event Event
			if err := json.Unmarshal(data, &event); err != nil {
				return Event{}, fmt.Errorf("malformed event frame: %w", err)
			}
			return event, nil
		}
	}
	if err := d.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// splitFrames is a bufio.SplitFunc delimiting on the SSE record separator.
func splitFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.Index(data, []byte("\n\n")); i >= 0 {
		return i + 2, data[:i], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
