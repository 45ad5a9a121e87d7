package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from MessageStatus
		to   MessageStatus
		want bool
	}{
		{"sent to delivered", StatusSent, StatusDelivered, true},
		{"delivered to seen", StatusDelivered, StatusSeen, true},
		{"sent to seen skips a step", StatusSent, StatusSeen, false},
		{"delivered back to sent", StatusDelivered, StatusSent, false},
		{"seen back to sent", StatusSeen, StatusSent, false},
		{"seen back to delivered", StatusSeen, StatusDelivered, false},
		{"sent to sent", StatusSent, StatusSent, false},
		{"seen to seen", StatusSeen, StatusSeen, false},
		{"unknown target", StatusSent, MessageStatus("archived"), false},
		{"unknown source", MessageStatus(""), StatusDelivered, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestMessageStatus_Before(t *testing.T) {
	assert.True(t, StatusSent.Before(StatusDelivered))
	assert.True(t, StatusSent.Before(StatusSeen))
	assert.True(t, StatusDelivered.Before(StatusSeen))
	assert.False(t, StatusSeen.Before(StatusSent))
	assert.False(t, StatusSent.Before(StatusSent))
}

func TestMessage_CounterpartOf(t *testing.T) {
	m := &Message{SenderID: "a", ReceiverID: "b"}

	assert.Equal(t, "b", m.CounterpartOf("a"))
	assert.Equal(t, "a", m.CounterpartOf("b"))
	assert.True(t, m.IsParty("a"))
	assert.True(t, m.IsParty("b"))
	assert.False(t, m.IsParty("c"))
}
