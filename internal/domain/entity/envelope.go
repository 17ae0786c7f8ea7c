package entity

import (
	"encoding/json"
	"fmt"
)

// CommandEnvelope is one unit of queued work. ID correlates the reported
// outcome with the server's queue entry.
type CommandEnvelope struct {
	ID      int64
	Command Command
	// Err is set when the command payload failed to decode. The envelope is
	// still dispatched so the failure gets reported.
	Err error
}

func (e *CommandEnvelope) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID      json.RawMessage `json:"id"`
		Command json.RawMessage `json:"command"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	id, ok := optionalInt(raw.ID)
	if !ok {
		return fmt.Errorf("envelope id must be an integer, got %s", string(raw.ID))
	}
	e.ID = int64(id)
	e.Command, e.Err = DecodeCommand(raw.Command)
	return nil
}

// TypeName is the command type for logging, "invalid" when decoding failed.
func (e CommandEnvelope) TypeName() string {
	if e.Command == nil {
		return "invalid"
	}
	return e.Command.Type().String()
}
