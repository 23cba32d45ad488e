package realtime

import (
	"time"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
)

// MessageType identifies a pushed message
type MessageType string

const (
	// MessageSnapshot is sent once on connect with the latest known result
	MessageSnapshot MessageType = "snapshot"
	// MessageComposite is sent after every persisted run
	MessageComposite MessageType = "composite"
)

// Message is the envelope of every websocket frame
// ⭐ SSOT: 실시간 메시지 구조
type Message struct {
	Type   MessageType                `json:"type"`
	SentAt time.Time                  `json:"sent_at"`
	Data   *contracts.CompositeResult `json:"data"`
}
