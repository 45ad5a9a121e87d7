package service

import (
	"github.com/studyhub/studyhub-backend/internal/domain"
	"github.com/studyhub/studyhub-backend/internal/repository"
	"github.com/studyhub/studyhub-backend/internal/ws"
	"github.com/studyhub/studyhub-backend/pkg/logger"
)

// Notifier is the hub surface the dispatcher needs. The binding table itself
// is owned by the connection gateway; the dispatcher only reads it.
type Notifier interface {
	HasClients(userID string) bool
	SendToUser(userID string, event *ws.Event)
}

// Dispatcher fans a freshly persisted message out to the live connections of
// both parties. Constructed once and injected; never reached through globals.
type Dispatcher struct {
	hub      Notifier
	messages repository.MessageRepository
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(hub Notifier, messages repository.MessageRepository) *Dispatcher {
	return &Dispatcher{hub: hub, messages: messages}
}

// Dispatch delivers a persisted message. With at least one bound receiver
// connection the message flips sent->delivered and is pushed to all of them;
// an offline receiver leaves the status at "sent" and learns of the message
// on the next thread or conversation fetch. The sender's own connections
// always get an echo so other open tabs stay current. Push failures are
// dropped per connection and never unwind the persisted write.
func (d *Dispatcher) Dispatch(msg *domain.Message) {
	online := d.hub.HasClients(msg.ReceiverID)

	if online && msg.Status.CanTransition(domain.StatusDelivered) {
		if err := d.messages.UpdateStatus(msg.ID, msg.Status, domain.StatusDelivered); err != nil {
			logger.GetLogger().Warn().
				Err(err).
				Str("message_id", msg.ID).
				Msg("deliver transition failed")
		} else {
			msg.Status = domain.StatusDelivered
		}
	}

	payload := msg.ToResponse()

	if online {
		d.hub.SendToUser(msg.ReceiverID, &ws.Event{Type: ws.EventNewMessage, Payload: payload})
	}
	d.hub.SendToUser(msg.SenderID, &ws.Event{Type: ws.EventNewMessage, Payload: payload})

	// inbox deltas for both sides, counterpart relative to each recipient
	d.hub.SendToUser(msg.ReceiverID, &ws.Event{
		Type: ws.EventConversationUpdate,
		Payload: &domain.ConversationDelta{
			CourseID:    msg.CourseID,
			OtherUserID: msg.SenderID,
			LastMessage: msg.Body,
			UpdatedAt:   msg.CreatedAt,
		},
	})
	d.hub.SendToUser(msg.SenderID, &ws.Event{
		Type: ws.EventConversationUpdate,
		Payload: &domain.ConversationDelta{
			CourseID:    msg.CourseID,
			OtherUserID: msg.ReceiverID,
			LastMessage: msg.Body,
			UpdatedAt:   msg.CreatedAt,
		},
	})
}
