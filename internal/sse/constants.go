package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second
)

// Event types for SSE
const (
	// EventTypeCardDelivered is sent when a new unrevealed card lands in the queue
	EventTypeCardDelivered = "card.delivered"

	// EventTypeCardRevealed is sent when a card is revealed
	EventTypeCardRevealed = "card.revealed"

	// EventTypeCardFiled is sent when a card is filed into the collection
	EventTypeCardFiled = "card.filed"

	// EventTypeTransferCreated is sent when a transfer grant is created
	EventTypeTransferCreated = "transfer.created"

	// EventTypeTransferCancelled is sent when a transfer grant is revoked
	EventTypeTransferCancelled = "transfer.cancelled"

	// EventTypeTransferClaimed is sent when a transfer grant is claimed
	EventTypeTransferClaimed = "transfer.claimed"

	// EventTypeTransferExpired is sent when a transfer grant expires unclaimed
	EventTypeTransferExpired = "transfer.expired"

	// EventTypeConnected is the first event on a new connection
	EventTypeConnected = "connected"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgInvalidPayload     = "Invalid event payload type for SSE bridge"
)
