package domain

import "time"

// MessageStatus is the delivery state of a direct message.
// States only ever move forward: sent -> delivered -> seen.
type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusSeen      MessageStatus = "seen"
)

// MaxMessageLength is the maximum message body length in characters
const MaxMessageLength = 1000

var statusRank = map[MessageStatus]int{
	StatusSent:      0,
	StatusDelivered: 1,
	StatusSeen:      2,
}

// Valid reports whether s is a known delivery status
func (s MessageStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Before reports whether s comes strictly before other in the delivery order
func (s MessageStatus) Before(other MessageStatus) bool {
	return statusRank[s] < statusRank[other]
}

// CanTransition reports whether a single-step transition from s to next is
// legal: sent->delivered and delivered->seen. The direct sent->seen jump is
// reserved for the bulk mark-seen path, which does not go through here.
func (s MessageStatus) CanTransition(next MessageStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return statusRank[next] == statusRank[s]+1
}

// Message is a direct message between two users, scoped to one course.
// Rows are immutable except for status; UpdatedAt moves only on a
// status transition.
type Message struct {
	ID         string        `gorm:"column:id;primaryKey;size:36" json:"id"`
	CourseID   string        `gorm:"column:course_id;size:36;index:idx_thread,priority:1" json:"course_id"`
	SenderID   string        `gorm:"column:sender_id;size:36;index:idx_thread,priority:2" json:"sender_id"`
	ReceiverID string        `gorm:"column:receiver_id;size:36;index:idx_thread,priority:3" json:"receiver_id"`
	Body       string        `gorm:"column:body;size:1000" json:"body"`
	Status     MessageStatus `gorm:"column:status;size:16;default:sent" json:"status"`
	CreatedAt  time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Message) TableName() string {
	return "messages"
}

// IsParty reports whether userID is the sender or receiver of the message
func (m *Message) IsParty(userID string) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// CounterpartOf returns the other party of the message relative to userID
func (m *Message) CounterpartOf(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// SendMessageRequest represents a send message request
type SendMessageRequest struct {
	CourseID   string `json:"course_id" binding:"required"`
	ReceiverID string `json:"receiver_id" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

// MarkSeenRequest marks a whole thread as seen for the caller
type MarkSeenRequest struct {
	CourseID      string `json:"course_id" binding:"required"`
	CounterpartID string `json:"counterpart_id" binding:"required"`
}

// MarkSeenResponse acknowledges a bulk mark-seen call
type MarkSeenResponse struct {
	Updated int64 `json:"updated"`
}

// MessageResponse represents a message in API responses and push events
type MessageResponse struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Body       string `json:"body"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// ToResponse converts Message to MessageResponse
func (m *Message) ToResponse() *MessageResponse {
	return &MessageResponse{
		ID:         m.ID,
		CourseID:   m.CourseID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Body:       m.Body,
		Status:     string(m.Status),
		CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  m.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
