package sync

import (
	"encoding/json"
	"fmt"

	"monetus/internal/core"
)

// Kind discriminates the three wire messages of the sync protocol.
type Kind string

const (
	// KindSyncData carries the joiner's full snapshot to the host.
	KindSyncData Kind = "SYNC_DATA"
	// KindSyncDataFinal carries the host's post-merge snapshot back.
	KindSyncDataFinal Kind = "SYNC_DATA_FINAL"
	// KindSyncComplete is the joiner's final acknowledgement.
	KindSyncComplete Kind = "SYNC_COMPLETE"
)

// Message is one protocol message exchanged over the channel.
type Message struct {
	Kind    Kind           `json:"kind"`
	Payload *core.Snapshot `json:"payload,omitempty"`
}

// Encode converts the message to its JSON wire form.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage parses a wire message.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode sync message: %w", err)
	}
	switch m.Kind {
	case KindSyncData, KindSyncDataFinal, KindSyncComplete:
	default:
		return m, fmt.Errorf("unknown sync message kind %q", m.Kind)
	}
	return m, nil
}
