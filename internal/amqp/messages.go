package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LedgerSyncMessage tells the export worker that the ledger changed.
// It carries no row data; the worker reads the current state from the
// database, so stale messages are harmless.
type LedgerSyncMessage struct {
	ID        string    `json:"id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// Reasons a sync message is published.
const (
	ReasonProjectionRebuilt  = "projection_rebuilt"
	ReasonTransactionApplied = "transaction_applied"
	ReasonFixedExpenseAdded  = "fixed_expense_added"
)

// NewLedgerSyncMessage creates a sync message with a fresh ID.
func NewLedgerSyncMessage(reason string) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		ID:        uuid.NewString(),
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerSyncMessageFromJSON creates a message from JSON bytes.
func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
