package ws

// Event types pushed to clients
const (
	// EventNewMessage carries a full message payload
	EventNewMessage = "new_message"
	// EventConversationUpdate carries an inbox delta for one thread
	EventConversationUpdate = "conversation_update"
)

// Event is a realtime payload sent to all bound connections of a user
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
