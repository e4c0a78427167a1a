package handlers

import (
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/globaltfn/remindme-server/extraction"
)

// maxUploadBytes bounds the PDF body; generative file uploads reject larger
// documents anyway.
const maxUploadBytes = 32 << 20

// ExtractPDF runs the extraction pipeline over the uploaded PDF body and
// relays its progress events to the client as a server-sent-events stream.
// The response stays open for the whole run; the terminal frame is either
// the extracted week or a text frame signalling a rejected document.
func (h *Handler) ExtractPDF(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondMessage(w, 500, "streaming unsupported")
		return
	}

	pdf, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		respondMessage(w, 400, err.Error())
		return
	}
	if len(pdf) == 0 {
		respondMessage(w, 400, "Empty request body")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// disconnects cancel the request context, which tears the pipeline down
	for event := range h.Pipeline.Run(r.Context(), pdf) {
		if err := extraction.WriteEvent(w, event); err != nil {
			log.WithError(err).Warn("client dropped extraction stream")
			return
		}
		flusher.Flush()
	}
}
