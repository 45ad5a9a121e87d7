package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyhub/studyhub-backend/internal/common"
	"github.com/studyhub/studyhub-backend/internal/domain"
	"github.com/studyhub/studyhub-backend/internal/middleware"
	"github.com/studyhub/studyhub-backend/internal/service"
	"github.com/studyhub/studyhub-backend/pkg/ginutil"
)

// ChatHandler handles direct message HTTP requests
type ChatHandler struct {
	service service.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// SendMessage handles POST /messages
// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Param request body domain.SendMessageRequest true "message payload"
// @Success 201 {object} common.APIResponse{data=domain.MessageResponse}
// @Router /messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.SendMessage(userID, &req)
	if err != nil {
		common.ErrorResponse(c, common.ErrorStatus(err), err.Error(), err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: result})
}

// GetThread handles GET /messages/:courseId/:otherUserId
// @Summary Message history with one user in one course, oldest first
// @Tags messages
// @Produce json
// @Param courseId path string true "course ID"
// @Param otherUserId path string true "other user ID"
// @Param limit query int false "fetch only the newest N messages"
// @Success 200 {object} common.APIResponse{data=[]domain.MessageResponse}
// @Router /messages/{courseId}/{otherUserId} [get]
func (h *ChatHandler) GetThread(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	courseID := c.Param("courseId")
	otherUserID := c.Param("otherUserId")
	limit := ginutil.QueryInt(c, "limit", 0)

	messages, err := h.service.GetThread(userID, courseID, otherUserID, limit)
	if err != nil {
		common.ErrorResponse(c, common.ErrorStatus(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, messages, nil)
}

// GetConversations handles GET /conversations
// @Summary Inbox: one row per counterpart and course, most recent first
// @Tags messages
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]domain.Conversation}
// @Router /conversations [get]
func (h *ChatHandler) GetConversations(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	conversations, err := h.service.GetConversations(userID)
	if err != nil {
		common.ErrorResponse(c, common.ErrorStatus(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, conversations, nil)
}

// MarkSeen handles PUT /messages/mark-seen
// @Summary Mark all messages from a counterpart in a course as seen
// @Tags messages
// @Accept json
// @Produce json
// @Param request body domain.MarkSeenRequest true "thread to mark"
// @Success 200 {object} common.APIResponse{data=domain.MarkSeenResponse}
// @Router /messages/mark-seen [put]
func (h *ChatHandler) MarkSeen(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req domain.MarkSeenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updated, err := h.service.MarkSeen(userID, &req)
	if err != nil {
		common.ErrorResponse(c, common.ErrorStatus(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, domain.MarkSeenResponse{Updated: updated}, nil)
}
