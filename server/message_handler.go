package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"courier/auth"
	"courier/domain"
	"courier/errors"
	"courier/services"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type MessageHandler struct {
	messages       services.IMessageService
	groups         services.IGroupService
	log            *slog.Logger
	maxUploadBytes int64
}

func NewMessageHandler(messages services.IMessageService, groups services.IGroupService, log *slog.Logger, maxUploadBytes int64) *MessageHandler {
	return &MessageHandler{messages: messages, groups: groups, log: log, maxUploadBytes: maxUploadBytes}
}

// receiverRef builds the lookup variant at the parsing boundary. When
// both identifiers are supplied the numeric id wins and the username is
// ignored; when neither is supplied the request is malformed.
func receiverRef(id *uint64, username string) (domain.UserRef, error) {
	if id != nil {
		return domain.ByID(domain.UserID(*id)), nil
	}
	if username != "" {
		return domain.ByUsername(username), nil
	}
	return domain.UserRef{}, fmt.Errorf("%w: receiver id or username must be provided", errors.ErrBadRequest)
}

type sendMessageRequest struct {
	ReceiverID       *uint64 `json:"receiverId"`
	ReceiverUsername string  `json:"receiverUsername"`
	Content          string  `json:"content"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	sender, ok := auth.UserID(c)
	if !ok {
		fail(c, h.log, errors.ErrUnauthenticated)
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: %v", errors.ErrBadRequest, err))
		return
	}
	if req.Content == "" {
		fail(c, h.log, fmt.Errorf("%w: content is required", errors.ErrBadRequest))
		return
	}
	receiver, err := receiverRef(req.ReceiverID, req.ReceiverUsername)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	message, err := h.messages.Send(sender, receiver, req.Content)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully!",
		"content": message.Content,
		"id":      message.ID.String(),
	})
}

func (h *MessageHandler) SendImage(c *gin.Context) {
	sender, ok := auth.UserID(c)
	if !ok {
		fail(c, h.log, errors.ErrUnauthenticated)
		return
	}
	receiver, err := h.multipartReceiver(c)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	data, err := h.readUpload(c, "image")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	message, err := h.messages.SendImage(c.Request.Context(), sender, receiver, data)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Image uploaded successfully",
		"imageUrl": message.Content,
		"id":       message.ID.String(),
	})
}

type retrieveRequest struct {
	TargetID       *uint64 `json:"targetId"`
	TargetUsername string  `json:"targetUsername"`
}

func (h *MessageHandler) Retrieve(c *gin.Context) {
	requester, ok := auth.UserID(c)
	if !ok {
		fail(c, h.log, errors.ErrUnauthenticated)
		return
	}
	var req retrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: %v", errors.ErrBadRequest, err))
		return
	}
	counterpart, err := receiverRef(req.TargetID, req.TargetUsername)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	thread, err := h.messages.DirectThread(requester, counterpart)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": lo.Map(thread, func(m domain.Message, _ int) messageJSON {
		return toMessageJSON(m)
	})})
}

type createGroupRequest struct {
	Name string `json:"name"`
}

func (h *MessageHandler) CreateGroup(c *gin.Context) {
	creator, ok := auth.UserID(c)
	if !ok {
		fail(c, h.log, errors.ErrUnauthenticated)
		return
	}
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: %v", errors.ErrBadRequest, err))
		return
	}
	group, err := h.groups.Create(req.Name, creator)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Group Chat created successfully",
		"groupChat": toGroupJSON(group),
	})
}

type groupMessageRequest struct {
	Content string `json:"content"`
}

func (h *MessageHandler) SendToGroup(c *gin.Context) {
	sender, ok := auth.UserID(c)
	if !ok {
		fail(c, h.log, errors.ErrUnauthenticated)
		return
	}
	groupID, err := groupParam(c)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	var req groupMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: %v", errors.ErrBadRequest, err))
		return
	}
	if req.Content == "" {
		fail(c, h.log, fmt.Errorf("%w: content is required", errors.ErrBadRequest))
		return
	}
	message, err := h.messages.SendToGroup(sender, groupID, req.Content)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":        "Message sent successfully",
		"messageContent": toMessageJSON(message),
	})
}

func (h *MessageHandler) DeleteGroup(c *gin.Context) {
	requester, ok := auth.UserID(c)
	if !ok {
		fail(c, h.log, errors.ErrUnauthenticated)
		return
	}
	groupID, err := groupParam(c)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if err := h.groups.Delete(groupID, requester); err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group Chat deleted successfully!"})
}

func (h *MessageHandler) GroupThread(c *gin.Context) {
	if _, ok := auth.UserID(c); !ok {
		fail(c, h.log, errors.ErrUnauthenticated)
		return
	}
	groupID, err := groupParam(c)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	thread, err := h.messages.GroupThread(groupID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": lo.Map(thread, func(m domain.Message, _ int) messageJSON {
		return toMessageJSON(m)
	})})
}

func (h *MessageHandler) ListGroups(c *gin.Context) {
	if _, ok := auth.UserID(c); !ok {
		fail(c, h.log, errors.ErrUnauthenticated)
		return
	}
	groups, err := h.groups.List()
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groupChats": lo.Map(groups, func(g domain.Group, _ int) groupJSON {
		return toGroupJSON(g)
	})})
}

func groupParam(c *gin.Context) (domain.GroupID, error) {
	id, err := strconv.ParseUint(c.Param("groupId"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid group id", errors.ErrBadRequest)
	}
	return domain.GroupID(id), nil
}

func (h *MessageHandler) multipartReceiver(c *gin.Context) (domain.UserRef, error) {
	var id *uint64
	if raw := c.PostForm("receiverId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return domain.UserRef{}, fmt.Errorf("%w: invalid receiver id", errors.ErrBadRequest)
		}
		id = &parsed
	}
	return receiverRef(id, c.PostForm("receiverUsername"))
}

func (h *MessageHandler) readUpload(c *gin.Context, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%w: no file uploaded", errors.ErrBadRequest)
	}
	if header.Size > h.maxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", errors.ErrBadRequest, h.maxUploadBytes)
	}
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBadRequest, err)
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", errors.ErrBadRequest, h.maxUploadBytes)
	}
	return data, nil
}
