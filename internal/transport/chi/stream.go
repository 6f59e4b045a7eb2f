package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listquery/internal/logger"
	"github.com/kailas-cloud/listquery/internal/usecase/timeline"
)

// encodeFunc maps a bus message to an SSE event name and payload.
// An empty name skips the message.
type encodeFunc func(timeline.Message) (string, any)

// stream writes sub as server-sent events until the client goes away or the
// bus closes the subscription. sub is closed on return.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, sub *timeline.Subscription, encode encodeFunc) {
	defer sub.Close()
	log := logger.FromContext(r.Context()).With(zap.String("topic", sub.Topic()))

	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		log.Warn("Streaming unsupported", zap.Error(err))
		return
	}

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case m, ok := <-sub.C():
			if !ok {
				return
			}
			name, payload := encode(m)
			if name == "" {
				continue
			}
			data, err := json.Marshal(payload)
			if err != nil {
				log.Error("Stream payload not encodable", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", m.ID, name, data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
