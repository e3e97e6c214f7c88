package services

import (
	"context"
	"fmt"
	"strings"

	"courier/domain"
	"courier/errors"
	"courier/repositories"
	"courier/storage"

	"github.com/gabriel-vasile/mimetype"
)

type IUserService interface {
	Profile(id domain.UserID) (Profile, error)
	UpdateProfile(id domain.UserID, update repositories.ProfileUpdate) (Profile, error)
	UpdateAvatar(ctx context.Context, id domain.UserID, data []byte) (string, error)
	ListOthers(id domain.UserID) ([]repositories.UserSummary, error)
}

// Profile is the public view of a user, without credentials.
type Profile struct {
	ID        domain.UserID
	Username  string
	AvatarURL string
	Bio       string
}

type UserService struct {
	users repositories.IUserRepository
	store storage.IObjectStore
}

func NewUserService(users repositories.IUserRepository, store storage.IObjectStore) *UserService {
	return &UserService{users: users, store: store}
}

func (s *UserService) Profile(id domain.UserID) (Profile, error) {
	user, err := s.users.Find(domain.ByID(id))
	if err != nil {
		return Profile{}, err
	}
	return toProfile(user), nil
}

func (s *UserService) UpdateProfile(id domain.UserID, update repositories.ProfileUpdate) (Profile, error) {
	user, err := s.users.UpdateProfile(id, update)
	if err != nil {
		return Profile{}, err
	}
	return toProfile(user), nil
}

// UpdateAvatar uploads the image to the object store first; only a
// successful upload mutates the profile.
func (s *UserService) UpdateAvatar(ctx context.Context, id domain.UserID, data []byte) (string, error) {
	if err := requireImage(data); err != nil {
		return "", err
	}
	url, err := s.store.Save(ctx, "avatars", data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrUpstream, err)
	}
	if _, err := s.users.UpdateProfile(id, repositories.ProfileUpdate{AvatarURL: &url}); err != nil {
		return "", err
	}
	return url, nil
}

func (s *UserService) ListOthers(id domain.UserID) ([]repositories.UserSummary, error) {
	return s.users.ListOthers(id)
}

func requireImage(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: no file uploaded", errors.ErrBadRequest)
	}
	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return fmt.Errorf("%w: invalid file type, only images are allowed", errors.ErrBadRequest)
	}
	return nil
}

func toProfile(user domain.User) Profile {
	return Profile{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
	}
}
