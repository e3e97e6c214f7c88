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
	"courier/repositories"
	"courier/services"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type UserHandler struct {
	users          services.IUserService
	log            *slog.Logger
	maxUploadBytes int64
}

func NewUserHandler(users services.IUserService, log *slog.Logger, maxUploadBytes int64) *UserHandler {
	return &UserHandler{users: users, log: log, maxUploadBytes: maxUploadBytes}
}

type userSummaryJSON struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type profileJSON struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// ListOthers returns every user except the caller, for building the
// contact list.
func (h *UserHandler) ListOthers(c *gin.Context) {
	requester, ok := auth.UserID(c)
	if !ok {
		fail(c, h.log, errors.ErrUnauthenticated)
		return
	}
	others, err := h.users.ListOthers(requester)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": lo.Map(others, func(u repositories.UserSummary, _ int) userSummaryJSON {
		return userSummaryJSON{ID: uint64(u.ID), Username: u.Username, AvatarURL: u.AvatarURL}
	})})
}

func (h *UserHandler) Profile(c *gin.Context) {
	if _, ok := auth.UserID(c); !ok {
		fail(c, h.log, errors.ErrUnauthenticated)
		return
	}
	id, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid user id", errors.ErrBadRequest))
		return
	}
	profile, err := h.users.Profile(domain.UserID(id))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toProfileJSON(profile))
}

type updateProfileRequest struct {
	Username  *string `json:"username"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

// UpdateProfile applies a partial update: absent fields keep their
// prior value.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	requester, ok := auth.UserID(c)
	if !ok {
		fail(c, h.log, errors.ErrUnauthenticated)
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: %v", errors.ErrBadRequest, err))
		return
	}
	profile, err := h.users.UpdateProfile(requester, repositories.ProfileUpdate{
		Username:  req.Username,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toProfileJSON(profile))
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	requester, ok := auth.UserID(c)
	if !ok {
		fail(c, h.log, errors.ErrUnauthenticated)
		return
	}
	header, err := c.FormFile("avatar")
	if err != nil {
		fail(c, h.log, fmt.Errorf("%w: no file uploaded", errors.ErrBadRequest))
		return
	}
	if header.Size > h.maxUploadBytes {
		fail(c, h.log, fmt.Errorf("%w: file exceeds %d bytes", errors.ErrBadRequest, h.maxUploadBytes))
		return
	}
	file, err := header.Open()
	if err != nil {
		fail(c, h.log, fmt.Errorf("%w: %v", errors.ErrBadRequest, err))
		return
	}
	defer file.Close()
	data := make([]byte, header.Size)
	if _, err := io.ReadFull(file, data); err != nil {
		fail(c, h.log, err)
		return
	}
	url, err := h.users.UpdateAvatar(c.Request.Context(), requester, data)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Avatar uploaded successfully",
		"avatarUrl": url,
	})
}

func toProfileJSON(profile services.Profile) profileJSON {
	return profileJSON{
		ID:        uint64(profile.ID),
		Username:  profile.Username,
		AvatarURL: profile.AvatarURL,
		Bio:       profile.Bio,
	}
}
