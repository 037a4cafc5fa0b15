package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerSyncMessage(t *testing.T) {
	a := NewLedgerSyncMessage(ReasonTransactionApplied)
	b := NewLedgerSyncMessage(ReasonTransactionApplied)

	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("message IDs must be unique and non-empty: %q vs %q", a.ID, b.ID)
	}
	if a.Reason != ReasonTransactionApplied {
		t.Errorf("Reason = %q", a.Reason)
	}
	if time.Since(a.Timestamp) > time.Minute {
		t.Errorf("Timestamp not set: %v", a.Timestamp)
	}
}

func TestLedgerSyncMessageJSON(t *testing.T) {
	msg := NewLedgerSyncMessage(ReasonProjectionRebuilt)
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := LedgerSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.ID != msg.ID || got.Reason != msg.Reason {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, msg)
	}

	if _, err := LedgerSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
