package services

import (
	"context"
	"testing"

	"courier/domain"
	"courier/errors"
	"courier/mocks"
	"courier/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestUserService_Profile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockIUserRepository(ctrl)
	mockStore := mocks.NewMockIObjectStore(ctrl)
	svc := NewUserService(mockUsers, mockStore)

	t.Run("strips credentials from the view", func(t *testing.T) {
		req := require.New(t)
		mockUsers.EXPECT().
			Find(domain.ByID(domain.UserID(1))).
			Return(domain.User{ID: 1, Username: "harry", PasswordHash: "secret", Bio: "wizard"}, nil)

		profile, err := svc.Profile(1)
		req.NoError(err)
		req.Equal(Profile{ID: 1, Username: "harry", Bio: "wizard"}, profile)
	})

	t.Run("unknown user", func(t *testing.T) {
		req := require.New(t)
		mockUsers.EXPECT().
			Find(domain.ByID(domain.UserID(42))).
			Return(domain.User{}, errors.ErrUserNotFound)

		_, err := svc.Profile(42)
		req.ErrorIs(err, errors.ErrUserNotFound)
	})
}

func TestUserService_UpdateAvatar(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockIUserRepository(ctrl)
	mockStore := mocks.NewMockIObjectStore(ctrl)
	svc := NewUserService(mockUsers, mockStore)

	t.Run("uploads then updates the profile", func(t *testing.T) {
		req := require.New(t)
		url := "http://localhost/uploads/avatars/a.png"

		mockStore.EXPECT().Save(gomock.Any(), "avatars", pngBytes).Return(url, nil)
		mockUsers.EXPECT().
			UpdateProfile(domain.UserID(1), repositories.ProfileUpdate{AvatarURL: &url}).
			Return(domain.User{ID: 1, AvatarURL: url}, nil)

		got, err := svc.UpdateAvatar(context.Background(), 1, pngBytes)
		req.NoError(err)
		req.Equal(url, got)
	})

	t.Run("rejects non-image payloads", func(t *testing.T) {
		req := require.New(t)
		mockStore.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		mockUsers.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.UpdateAvatar(context.Background(), 1, []byte("not an image"))
		req.ErrorIs(err, errors.ErrBadRequest)
	})
}
