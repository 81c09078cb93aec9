// Package streaming defines the wire messages a simulation run is streamed as.
package streaming

import (
	"encoding/json"
	"fmt"

	"github.com/armada-sim/simcore/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeStartRun      = "start_run"
	TypeEndRun        = "end_run"
	TypeAddVehicle    = "add_vehicle"
	TypeVehicleState  = "vehicle_state"
	TypeAttackEvent   = "attack_event"
	TypeNuclearStrike = "nuclear_strike"
	TypeKillEvent     = "kill_event"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartRunPayload carries the run being recorded.
type StartRunPayload struct {
	Run *core.Run `json:"run"`
}

// EndRunPayload carries the outcome of the run.
type EndRunPayload struct {
	Summary *core.RunSummary `json:"summary,omitempty"`
}

// Marshal builds a JSON-encoded Envelope from a message type and payload.
func Marshal(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// Decode unwraps an envelope payload into v.
func (e Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}
