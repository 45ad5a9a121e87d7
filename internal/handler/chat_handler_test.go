package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/studyhub/studyhub-backend/internal/common"
	"github.com/studyhub/studyhub-backend/internal/domain"
)

// --- Mock ChatService ---

type mockChatService struct {
	mock.Mock
}

func (m *mockChatService) SendMessage(senderID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error) {
	args := m.Called(senderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageResponse), args.Error(1)
}

func (m *mockChatService) GetThread(viewerID, courseID, otherUserID string, limit int) ([]*domain.MessageResponse, error) {
	args := m.Called(viewerID, courseID, otherUserID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MessageResponse), args.Error(1)
}

func (m *mockChatService) GetConversations(viewerID string) ([]*domain.Conversation, error) {
	args := m.Called(viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conversation), args.Error(1)
}

func (m *mockChatService) MarkSeen(readerID string, req *domain.MarkSeenRequest) (int64, error) {
	args := m.Called(readerID, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockChatService) TransitionStatus(messageID string, next domain.MessageStatus) (*domain.MessageResponse, error) {
	args := m.Called(messageID, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageResponse), args.Error(1)
}

// --- Fixture ---

func authAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	}
}

func newChatRouter(svc *mockChatService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChatHandler(svc)

	r := gin.New()
	api := r.Group("/api/v1", authAs(userID))
	api.POST("/messages", h.SendMessage)
	api.GET("/messages/:courseId/:otherUserId", h.GetThread)
	api.GET("/conversations", h.GetConversations)
	api.PUT("/messages/mark-seen", h.MarkSeen)
	return r
}

// --- Tests ---

func TestSendMessage_Created(t *testing.T) {
	svc := new(mockChatService)
	svc.On("SendMessage", "alice", mock.AnythingOfType("*domain.SendMessageRequest")).
		Return(&domain.MessageResponse{ID: "m1", Status: "sent", Body: "hi"}, nil)

	r := newChatRouter(svc, "alice")
	w := httptest.NewRecorder()
	body := `{"course_id":"algebra","receiver_id":"bob","body":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"m1"`)
	svc.AssertExpectations(t)
}

func TestSendMessage_Unauthenticated(t *testing.T) {
	svc := new(mockChatService)
	r := newChatRouter(svc, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "SendMessage")
}

func TestSendMessage_MissingFields(t *testing.T) {
	svc := new(mockChatService)
	r := newChatRouter(svc, "alice")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"body":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "SendMessage")
}

func TestSendMessage_ValidationErrorMapsTo400(t *testing.T) {
	svc := new(mockChatService)
	svc.On("SendMessage", "alice", mock.Anything).Return(nil, common.ErrUserNotFound)

	r := newChatRouter(svc, "alice")
	w := httptest.NewRecorder()
	body := `{"course_id":"algebra","receiver_id":"ghost","body":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_REQUEST")
}

func TestGetThread_PassesLimit(t *testing.T) {
	svc := new(mockChatService)
	svc.On("GetThread", "alice", "algebra", "bob", 50).
		Return([]*domain.MessageResponse{{ID: "m1"}}, nil)

	r := newChatRouter(svc, "alice")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/algebra/bob?limit=50", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestGetConversations_OK(t *testing.T) {
	svc := new(mockChatService)
	svc.On("GetConversations", "bob").
		Return([]*domain.Conversation{{OtherUserID: "alice", CourseID: "algebra", UnreadCount: 3}}, nil)

	r := newChatRouter(svc, "bob")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread_count":3`)
}

func TestMarkSeen_ReturnsCount(t *testing.T) {
	svc := new(mockChatService)
	svc.On("MarkSeen", "bob", mock.AnythingOfType("*domain.MarkSeenRequest")).
		Return(int64(3), nil)

	r := newChatRouter(svc, "bob")
	w := httptest.NewRecorder()
	body := `{"course_id":"algebra","counterpart_id":"alice"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/messages/mark-seen", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated":3`)
}
