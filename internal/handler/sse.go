package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// PlayerSSE streams playback state updates so the countdown UI can follow
// the server-side session without polling.
func (h *Handler) PlayerSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsub := h.SSE.Subscribe()
	defer unsub()

	// Send the current status so late joiners render immediately
	if data, err := json.Marshal(h.Player.Status()); err == nil {
		fmt.Fprintf(w, "event: status\ndata: %s\n\n", data)
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case u := <-ch:
			data, err := json.Marshal(u)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: playback\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
