package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"courier/errors"
	"courier/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth services.IAuthService
	log  *slog.Logger
}

func NewAuthHandler(auth services.IAuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: %v", errors.ErrBadRequest, err))
		return
	}
	token, err := h.auth.Register(req.Username, req.Password)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully!",
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: %v", errors.ErrBadRequest, err))
		return
	}
	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
