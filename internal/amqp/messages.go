package amqp

import (
	"encoding/json"
	"time"

	"budgetbook/internal/core"
)

// Ledger event actions.
const (
	ActionCreated       = "created"
	ActionAmountUpdated = "amount_updated"
	ActionDeleted       = "deleted"
)

// LedgerEventMessage is a lightweight notification that a ledger row
// changed. It carries only the kind, id and action; the worker fetches
// the full row from the database.
type LedgerEventMessage struct {
	Kind      core.Kind `json:"kind"`
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates an event message for a ledger mutation.
func NewLedgerEventMessage(kind core.Kind, id int64, action string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Kind:      kind,
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
