package services

import (
	"courier/auth"
	"courier/domain"
	"courier/errors"
	"courier/repositories"
	"fmt"
)

type IAuthService interface {
	Register(username, password string) (Token, error)
	Login(username, password string) (Token, error)
}

type Token string

type AuthService struct {
	users  repositories.IUserRepository
	hasher auth.Hasher
	tokens auth.TokenManager
}

func NewAuthService(users repositories.IUserRepository, hasher auth.Hasher, tokens auth.TokenManager) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Register(username, password string) (Token, error) {
	// 1. Validate input before any expensive cryptographic operation.
	req := auth.RegisterRequest{Username: username, Password: password}
	if err := auth.ValidateRegister(req); err != nil {
		return "", err
	}

	// 2. Hash in the service layer so the repository never sees a plain
	// password.
	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Persist; the storage layer enforces username uniqueness, which
	// is what resolves two concurrent registrations for the same name.
	user, err := s.users.Create(username, hashedPassword)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

func (s *AuthService) Login(username, password string) (Token, error) {
	user, err := s.users.Find(domain.ByUsername(username))
	if err != nil {
		// Generic error to prevent user enumeration.
		return "", errors.ErrInvalidCredentials
	}

	match, err := s.hasher.Compare(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}
