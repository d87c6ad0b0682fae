package command

import (
	"encoding/json"
	"fmt"

	"github.com/kodbank/kodbank/internal/events"
)

// decodeTransferCompleted recovers the typed payload from a generic event
// envelope. Data arrives as a map after JSON decoding, so it is re-marshalled
// into the concrete type.
func decodeTransferCompleted(event events.Event) (*events.TransferCompletedEvent, error) {
	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transfer.completed payload: %w", err)
	}
	var data events.TransferCompletedEvent
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transfer.completed event: %w", err)
	}
	return &data, nil
}
