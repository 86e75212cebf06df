package server

import (
	"context"
	"net/http"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/events"
	"github.com/aristath/folio/internal/scheduler"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Stream message types
const (
	MessageCycle     = "cycle"
	MessageFailure   = "cycle_failed"
	MessageHeartbeat = "heartbeat"
)

// StreamMessage is one frame pushed to stream clients
type StreamMessage struct {
	Type      string                  `json:"type"`
	Timestamp time.Time               `json:"timestamp"`
	Cycle     *domain.CycleResult     `json:"cycle,omitempty"`
	Failure   *events.CycleFailedData `json:"failure,omitempty"`
}

// StreamHandler pushes every completed cycle to websocket clients.
// A client receives the latest cycle on connect, then one frame per cycle event.
type StreamHandler struct {
	snapshot  *scheduler.Snapshot
	bus       *events.Bus
	heartbeat time.Duration
	log       zerolog.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(snapshot *scheduler.Snapshot, bus *events.Bus, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		snapshot:  snapshot,
		bus:       bus,
		heartbeat: 30 * time.Second,
		log:       log.With().Str("component", "stream").Logger(),
	}
}

// ServeHTTP handles GET /api/stream
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Lift the server read/write timeouts off the connection before it is hijacked
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	// Clients never send; CloseRead handles control frames and cancels ctx on disconnect
	ctx := conn.CloseRead(r.Context())

	eventChan := make(chan *events.Event, 16)
	handler := func(event *events.Event) {
		// Non-blocking send (drop if channel full)
		select {
		case eventChan <- event:
		default:
			h.log.Warn().Str("event_type", string(event.Type)).Msg("Stream client too slow, dropping event")
		}
	}
	if h.bus != nil {
		for _, eventType := range events.AllTypes {
			unsubscribe := h.bus.Subscribe(eventType, handler)
			defer unsubscribe()
		}
	}

	h.log.Info().Msg("Client connected to stream")

	if latest := h.latest(); latest != nil {
		if err := h.write(ctx, conn, StreamMessage{Type: MessageCycle, Timestamp: time.Now(), Cycle: latest}); err != nil {
			return
		}
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Client disconnected from stream")
			conn.Close(websocket.StatusNormalClosure, "")
			return

		case event := <-eventChan:
			msg := StreamMessage{Type: MessageCycle, Timestamp: event.Timestamp}
			switch data := event.Data.(type) {
			case *events.CycleCompletedData:
				// The snapshot is stored before the event is emitted
				msg.Cycle = h.latest()
				if msg.Cycle == nil {
					continue
				}
			case *events.CycleFailedData:
				msg.Type = MessageFailure
				msg.Failure = data
			default:
				continue
			}
			if err := h.write(ctx, conn, msg); err != nil {
				return
			}

		case <-heartbeat.C:
			if err := h.write(ctx, conn, StreamMessage{Type: MessageHeartbeat, Timestamp: time.Now()}); err != nil {
				return
			}
		}
	}
}

func (h *StreamHandler) latest() *domain.CycleResult {
	if h.snapshot == nil {
		return nil
	}
	return h.snapshot.Latest()
}

func (h *StreamHandler) write(ctx context.Context, conn *websocket.Conn, msg StreamMessage) error {
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := wsjson.Write(writeCtx, conn, msg); err != nil {
		h.log.Debug().Err(err).Str("type", msg.Type).Msg("Stream write failed")
		return err
	}
	return nil
}
