package service

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/studyhub/studyhub-backend/internal/common"
	"github.com/studyhub/studyhub-backend/internal/domain"
	"github.com/studyhub/studyhub-backend/internal/repository"
)

// ChatService business logic for direct messages
type ChatService interface {
	SendMessage(senderID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error)
	GetThread(viewerID, courseID, otherUserID string, limit int) ([]*domain.MessageResponse, error)
	GetConversations(viewerID string) ([]*domain.Conversation, error)
	MarkSeen(readerID string, req *domain.MarkSeenRequest) (int64, error)
	TransitionStatus(messageID string, next domain.MessageStatus) (*domain.MessageResponse, error)
}

type chatService struct {
	messages   repository.MessageRepository
	members    repository.MemberRepository
	courses    repository.CourseRepository
	dispatcher *Dispatcher
}

// NewChatService creates a new ChatService
func NewChatService(
	messages repository.MessageRepository,
	members repository.MemberRepository,
	courses repository.CourseRepository,
	dispatcher *Dispatcher,
) ChatService {
	return &chatService{
		messages:   messages,
		members:    members,
		courses:    courses,
		dispatcher: dispatcher,
	}
}

// SendMessage persists a new message with status "sent" and runs it through
// the fan-out dispatcher. The push happens strictly after the row is durable.
func (s *chatService) SendMessage(senderID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, fmt.Errorf("message body is required: %w", common.ErrInvalidInput)
	}
	if utf8.RuneCountInString(body) > domain.MaxMessageLength {
		return nil, fmt.Errorf("message body exceeds %d characters: %w",
			domain.MaxMessageLength, common.ErrInvalidInput)
	}
	if senderID == req.ReceiverID {
		return nil, fmt.Errorf("cannot send a message to yourself: %w", common.ErrInvalidInput)
	}

	ok, err := s.courses.ExistsByID(req.CourseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrCourseNotFound
	}

	ok, err = s.members.ExistsByID(req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrUserNotFound
	}

	msg := &domain.Message{
		ID:         uuid.New().String(),
		CourseID:   req.CourseID,
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Body:       body,
		Status:     domain.StatusSent,
	}

	if err := s.messages.Create(msg); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(msg)

	return msg.ToResponse(), nil
}

// GetThread returns the ordered message history between the viewer and
// another user within one course, oldest first. A positive limit bounds the
// fetch to the newest messages; the full thread is unbounded otherwise.
func (s *chatService) GetThread(viewerID, courseID, otherUserID string, limit int) ([]*domain.MessageResponse, error) {
	if otherUserID == viewerID {
		return nil, fmt.Errorf("cannot fetch a thread with yourself: %w", common.ErrInvalidInput)
	}

	messages, err := s.messages.FindThread(courseID, viewerID, otherUserID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = m.ToResponse()
	}
	return responses, nil
}

// GetConversations rebuilds the viewer's inbox from raw message history:
// one row per (counterpart, course) with the newest message and the count of
// messages the viewer received but has not seen. Most recent thread first.
func (s *chatService) GetConversations(viewerID string) ([]*domain.Conversation, error) {
	messages, err := s.messages.FindAllByUser(viewerID)
	if err != nil {
		return nil, err
	}

	byKey := make(map[domain.ConversationKey]*domain.Conversation)
	conversations := make([]*domain.Conversation, 0)

	for _, m := range messages {
		key := domain.ConversationKey{
			OtherUserID: m.CounterpartOf(viewerID),
			CourseID:    m.CourseID,
		}

		conv, ok := byKey[key]
		if !ok {
			// input is newest-first, so the first message of a group is its
			// latest one
			conv = &domain.Conversation{
				OtherUserID:   key.OtherUserID,
				CourseID:      key.CourseID,
				LastMessage:   m.Body,
				LastUpdatedAt: m.CreatedAt,
			}
			byKey[key] = conv
			conversations = append(conversations, conv)
		}

		if m.ReceiverID == viewerID && m.Status != domain.StatusSeen {
			conv.UnreadCount++
		}
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastUpdatedAt.After(conversations[j].LastUpdatedAt)
	})

	return conversations, nil
}

// MarkSeen transitions every unseen message from the counterpart to the
// reader in one course to "seen". Idempotent: a second call updates nothing.
func (s *chatService) MarkSeen(readerID string, req *domain.MarkSeenRequest) (int64, error) {
	if readerID == req.CounterpartID {
		return 0, fmt.Errorf("cannot mark your own messages seen: %w", common.ErrInvalidInput)
	}
	return s.messages.BulkMarkSeen(req.CourseID, readerID, req.CounterpartID)
}

// TransitionStatus advances a single message one step in the delivery order.
// Backward, same-state and skipped-forward moves are rejected; the direct
// sent->seen jump only happens through MarkSeen.
func (s *chatService) TransitionStatus(messageID string, next domain.MessageStatus) (*domain.MessageResponse, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", next, common.ErrInvalidInput)
	}

	msg, err := s.messages.FindByID(messageID)
	if err != nil {
		return nil, err
	}

	if !msg.Status.CanTransition(next) {
		return nil, fmt.Errorf("cannot move %s to %s: %w", msg.Status, next, common.ErrInvalidTransition)
	}

	if err := s.messages.UpdateStatus(msg.ID, msg.Status, next); err != nil {
		return nil, err
	}

	msg.Status = next
	msg.UpdatedAt = time.Now()
	return msg.ToResponse(), nil
}
