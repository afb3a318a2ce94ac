package api

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/VeinDevTtv/qbx-minigames/internal/games"
	"github.com/VeinDevTtv/qbx-minigames/internal/session"
	"github.com/VeinDevTtv/qbx-minigames/internal/sse"
)

// SSE event names on the session stream.
const (
	eventTick   = "tick"
	eventPhase  = "phase"
	eventResult = "result"
	eventExit   = "exit"
)

// eventSink bridges session lifecycle callbacks onto the SSE broadcaster.
type eventSink struct {
	b *sse.Broadcaster
}

// NewEventSink adapts a broadcaster into the manager's event sink.
func NewEventSink(b *sse.Broadcaster) session.EventSink {
	return &eventSink{b: b}
}

func (s *eventSink) SessionTick(id string, remaining time.Duration) {
	s.b.Broadcast(id, eventTick, fmt.Sprintf(`{"remainingMs":%d}`, remaining.Milliseconds()))
}

func (s *eventSink) SessionPhase(id string, phase games.Phase) {
	s.b.Broadcast(id, eventPhase, fmt.Sprintf(`{"phase":%q}`, phase))
}

func (s *eventSink) SessionResult(id string, res session.Result) {
	payload, err := json.Marshal(res)
	if err != nil {
		log.Printf("api: marshal result for session %s: %v", id, err)
		payload = []byte(`{"success":false}`)
	}
	s.b.Broadcast(id, eventResult, string(payload))
	s.b.Close(id)
}

// SessionExit reports the player abort with the empty payload; the host
// treats it as failure with no metrics.
func (s *eventSink) SessionExit(id string) {
	s.b.Broadcast(id, eventExit, "{}")
	s.b.Close(id)
}
