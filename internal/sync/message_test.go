package sync

import (
	"testing"

	"github.com/shopspring/decimal"

	"monetus/internal/core"
)

func TestMessageRoundTrip(t *testing.T) {
	snap := core.Snapshot{
		Transactions: []core.TransactionEntry{{
			ID: "a", Date: "2025-01-15", Type: "Moradia", Category: "Aluguel",
			Amount: decimal.NewFromInt(100), IsExpense: true,
		}},
	}
	data, err := Message{Kind: KindSyncData, Payload: &snap}.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	msg, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if msg.Kind != KindSyncData {
		t.Fatalf("expected %s, got %s", KindSyncData, msg.Kind)
	}
	if msg.Payload == nil || len(msg.Payload.Transactions) != 1 {
		t.Fatalf("payload lost: %+v", msg.Payload)
	}
	if !msg.Payload.Transactions[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("amount mismatch: %s", msg.Payload.Transactions[0].Amount)
	}
}

func TestDecodeMessageRejectsUnknownKind(t *testing.T) {
	if _, err := DecodeMessage([]byte(`{"kind":"SYNC_RESET"}`)); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := DecodeMessage([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestCompleteMessageHasNoPayload(t *testing.T) {
	data, err := Message{Kind: KindSyncComplete}.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	msg, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if msg.Payload != nil {
		t.Fatalf("expected nil payload")
	}
}
