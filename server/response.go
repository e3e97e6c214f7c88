package server

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"courier/domain"
	"courier/errors"

	"github.com/gin-gonic/gin"
)

// statusOf maps the error taxonomy to stable HTTP status codes. The
// convention is fixed: 401 only for absent or invalid credentials, 404
// for every referenced user or group that does not exist.
func statusOf(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrBadRequest),
		stderrors.Is(err, errors.ErrInvalidPassword):
		return http.StatusBadRequest
	case stderrors.Is(err, errors.ErrUnauthenticated),
		stderrors.Is(err, errors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case stderrors.Is(err, errors.ErrForbidden):
		return http.StatusForbidden
	case stderrors.Is(err, errors.ErrUserNotFound),
		stderrors.Is(err, errors.ErrGroupNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrUsernameTaken):
		return http.StatusConflict
	case stderrors.Is(err, errors.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, log *slog.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

// messageJSON is the wire shape of a message. Exactly one of receiverId
// and groupId is present.
type messageJSON struct {
	ID         string    `json:"id"`
	SenderID   uint64    `json:"senderId"`
	ReceiverID *uint64   `json:"receiverId,omitempty"`
	GroupID    *uint64   `json:"groupId,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toMessageJSON(message domain.Message) messageJSON {
	out := messageJSON{
		ID:        message.ID.String(),
		SenderID:  uint64(message.SenderID),
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
	if receiver, ok := message.Target.Direct(); ok {
		id := uint64(receiver)
		out.ReceiverID = &id
	}
	if group, ok := message.Target.Group(); ok {
		id := uint64(group)
		out.GroupID = &id
	}
	return out
}

type groupJSON struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatorID uint64    `json:"creatorId"`
	CreatedAt time.Time `json:"createdAt"`
}

func toGroupJSON(group domain.Group) groupJSON {
	return groupJSON{
		ID:        uint64(group.ID),
		Name:      group.Name,
		CreatorID: uint64(group.CreatorID),
		CreatedAt: group.CreatedAt,
	}
}
