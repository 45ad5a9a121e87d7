package domain

import "time"

// ConversationKey identifies one conversation: a counterpart user within
// one course. Conversations are derived from message history, never stored.
type ConversationKey struct {
	OtherUserID string
	CourseID    string
}

// Conversation is one inbox row, recomputed on every list request
type Conversation struct {
	OtherUserID   string    `json:"other_user_id"`
	CourseID      string    `json:"course_id"`
	LastMessage   string    `json:"last_message"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
	UnreadCount   int       `json:"unread_count"`
}

// Key returns the grouping key of the conversation
func (c *Conversation) Key() ConversationKey {
	return ConversationKey{OtherUserID: c.OtherUserID, CourseID: c.CourseID}
}

// ConversationDelta is pushed to both parties when a thread changes,
// so clients can update their inbox without a full re-fetch.
// OtherUserID is relative to the recipient of the push.
type ConversationDelta struct {
	CourseID    string    `json:"course_id"`
	OtherUserID string    `json:"other_user_id"`
	LastMessage string    `json:"last_message"`
	UpdatedAt   time.Time `json:"updated_at"`
}
