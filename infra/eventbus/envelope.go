package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/amirasaad/cpfledger/pkg/domain/events"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func buildEnvelope(event events.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("event bus: marshal failed: %w", err)
	}
	envBytes, err := json.Marshal(envelope{Type: event.Type(), Payload: data})
	if err != nil {
		return nil, fmt.Errorf("event bus: envelope marshal failed: %w", err)
	}
	return envBytes, nil
}

// DecodeEnvelope turns a wire envelope back into a typed event. The result
// is a pointer to the concrete event type; see events.Value.
func DecodeEnvelope(raw []byte) (events.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("event bus: unmarshal envelope: %w", err)
	}
	constructor, ok := events.EventTypes[events.EventType(env.Type)]
	if !ok {
		return nil, fmt.Errorf("event bus: unknown event type %q", env.Type)
	}
	evt := constructor()
	if err := json.Unmarshal(env.Payload, evt); err != nil {
		return nil, fmt.Errorf("event bus: unmarshal %s payload: %w", env.Type, err)
	}
	return evt, nil
}
