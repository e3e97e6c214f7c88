package services

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"courier/domain"
	"courier/errors"
	"courier/mocks"
	"courier/moderation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// pngBytes is a minimal payload that sniffs as image/png.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type messageServiceMocks struct {
	users    *mocks.MockIUserRepository
	groups   *mocks.MockIGroupRepository
	messages *mocks.MockIMessageRepository
	store    *mocks.MockIObjectStore
}

func newMessageService(t *testing.T, censoredWords []string) (*MessageService, messageServiceMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := messageServiceMocks{
		users:    mocks.NewMockIUserRepository(ctrl),
		groups:   mocks.NewMockIGroupRepository(ctrl),
		messages: mocks.NewMockIMessageRepository(ctrl),
		store:    mocks.NewMockIObjectStore(ctrl),
	}
	moderator, err := moderation.NewModerator(censoredWords, '*')
	require.NoError(t, err)
	svc := NewMessageService(m.users, m.groups, m.messages, m.store, moderator, slog.Default())
	return svc, m
}

func storedMessage(sender, receiver domain.UserID, content string) domain.Message {
	return domain.Message{
		ID:       uuid.New(),
		SenderID: sender,
		Target:   domain.DirectTarget(receiver),
		Content:  content,
	}
}

func TestMessageService_Send(t *testing.T) {
	harry := domain.User{ID: 1, Username: "harry"}
	billy := domain.User{ID: 2, Username: "billy"}

	t.Run("delivers by receiver username", func(t *testing.T) {
		req := require.New(t)
		svc, m := newMessageService(t, nil)

		m.users.EXPECT().Find(domain.ByID(harry.ID)).Return(harry, nil)
		m.users.EXPECT().Find(domain.ByUsername("billy")).Return(billy, nil)
		m.messages.EXPECT().
			AppendDirect(harry.ID, billy.ID, "Hello Billy!").
			Return(storedMessage(harry.ID, billy.ID, "Hello Billy!"), nil)

		message, err := svc.Send(harry.ID, domain.ByUsername("billy"), "Hello Billy!")
		req.NoError(err)
		req.Equal("Hello Billy!", message.Content)
	})

	t.Run("censors content before persistence", func(t *testing.T) {
		req := require.New(t)
		svc, m := newMessageService(t, []string{"snake"})

		m.users.EXPECT().Find(domain.ByID(harry.ID)).Return(harry, nil)
		m.users.EXPECT().Find(domain.ByID(billy.ID)).Return(billy, nil)
		m.messages.EXPECT().
			AppendDirect(harry.ID, billy.ID, "you ***** !").
			Return(storedMessage(harry.ID, billy.ID, "you ***** !"), nil)

		_, err := svc.Send(harry.ID, domain.ByID(billy.ID), "you snake !")
		req.NoError(err)
	})

	t.Run("names the missing side", func(t *testing.T) {
		req := require.New(t)
		svc, m := newMessageService(t, nil)

		m.users.EXPECT().Find(domain.ByID(harry.ID)).Return(domain.User{}, errors.ErrUserNotFound)
		m.messages.EXPECT().AppendDirect(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Send(harry.ID, domain.ByID(billy.ID), "hello")
		req.ErrorIs(err, errors.ErrUserNotFound)
		req.Contains(err.Error(), "sender")

		m.users.EXPECT().Find(domain.ByID(harry.ID)).Return(harry, nil)
		m.users.EXPECT().Find(domain.ByUsername("ghost")).Return(domain.User{}, errors.ErrUserNotFound)

		_, err = svc.Send(harry.ID, domain.ByUsername("ghost"), "hello")
		req.ErrorIs(err, errors.ErrUserNotFound)
		req.Contains(err.Error(), "receiver")
	})
}

func TestMessageService_SendImage(t *testing.T) {
	harry := domain.User{ID: 1, Username: "harry"}
	billy := domain.User{ID: 2, Username: "billy"}

	t.Run("uploads then appends the URL", func(t *testing.T) {
		req := require.New(t)
		svc, m := newMessageService(t, nil)
		url := "http://localhost/uploads/images/abc.png"

		m.users.EXPECT().Find(domain.ByID(harry.ID)).Return(harry, nil)
		m.users.EXPECT().Find(domain.ByID(billy.ID)).Return(billy, nil)
		m.store.EXPECT().Save(gomock.Any(), "images", pngBytes).Return(url, nil)
		m.messages.EXPECT().
			AppendDirect(harry.ID, billy.ID, url).
			Return(storedMessage(harry.ID, billy.ID, url), nil)

		message, err := svc.SendImage(context.Background(), harry.ID, domain.ByID(billy.ID), pngBytes)
		req.NoError(err)
		req.Equal(url, message.Content)
	})

	t.Run("rejects non-image content before any upload", func(t *testing.T) {
		req := require.New(t)
		svc, m := newMessageService(t, nil)

		m.users.EXPECT().Find(domain.ByID(harry.ID)).Return(harry, nil)
		m.users.EXPECT().Find(domain.ByID(billy.ID)).Return(billy, nil)
		m.store.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		m.messages.EXPECT().AppendDirect(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SendImage(context.Background(), harry.ID, domain.ByID(billy.ID), []byte("plain text"))
		req.ErrorIs(err, errors.ErrBadRequest)
	})

	t.Run("upload failure prevents the write", func(t *testing.T) {
		req := require.New(t)
		svc, m := newMessageService(t, nil)

		m.users.EXPECT().Find(domain.ByID(harry.ID)).Return(harry, nil)
		m.users.EXPECT().Find(domain.ByID(billy.ID)).Return(billy, nil)
		m.store.EXPECT().Save(gomock.Any(), "images", pngBytes).Return("", fmt.Errorf("bucket unavailable"))
		m.messages.EXPECT().AppendDirect(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SendImage(context.Background(), harry.ID, domain.ByID(billy.ID), pngBytes)
		req.ErrorIs(err, errors.ErrUpstream)
	})
}

func TestMessageService_Groups(t *testing.T) {
	harry := domain.User{ID: 1, Username: "harry"}
	group := domain.Group{ID: 7, Name: "Cool Chat", CreatorID: harry.ID}

	t.Run("send to existing group", func(t *testing.T) {
		req := require.New(t)
		svc, m := newMessageService(t, nil)

		m.users.EXPECT().Find(domain.ByID(harry.ID)).Return(harry, nil)
		m.groups.EXPECT().Get(group.ID).Return(group, nil)
		m.messages.EXPECT().
			AppendGroup(harry.ID, group.ID, "Hi everyone!").
			Return(domain.Message{ID: uuid.New(), SenderID: harry.ID, Target: domain.GroupTarget(group.ID), Content: "Hi everyone!"}, nil)

		message, err := svc.SendToGroup(harry.ID, group.ID, "Hi everyone!")
		req.NoError(err)
		req.Equal("Hi everyone!", message.Content)
	})

	t.Run("send to deleted group fails not-found", func(t *testing.T) {
		req := require.New(t)
		svc, m := newMessageService(t, nil)

		m.users.EXPECT().Find(domain.ByID(harry.ID)).Return(harry, nil)
		m.groups.EXPECT().Get(group.ID).Return(domain.Group{}, errors.ErrGroupNotFound)
		m.messages.EXPECT().AppendGroup(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SendToGroup(harry.ID, group.ID, "anyone?")
		req.ErrorIs(err, errors.ErrGroupNotFound)
	})

	t.Run("group thread requires an existing group", func(t *testing.T) {
		req := require.New(t)
		svc, m := newMessageService(t, nil)

		m.groups.EXPECT().Get(group.ID).Return(domain.Group{}, errors.ErrGroupNotFound)
		m.messages.EXPECT().GroupThread(gomock.Any()).Times(0)

		_, err := svc.GroupThread(group.ID)
		req.ErrorIs(err, errors.ErrGroupNotFound)
	})
}

func TestMessageService_DirectThread(t *testing.T) {
	harry := domain.User{ID: 1, Username: "harry"}
	billy := domain.User{ID: 2, Username: "billy"}

	t.Run("unknown counterpart is not-found, not an empty thread", func(t *testing.T) {
		req := require.New(t)
		svc, m := newMessageService(t, nil)

		m.users.EXPECT().Find(domain.ByUsername("ghost")).Return(domain.User{}, errors.ErrUserNotFound)
		m.messages.EXPECT().DirectThread(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.DirectThread(harry.ID, domain.ByUsername("ghost"))
		req.ErrorIs(err, errors.ErrUserNotFound)
	})

	t.Run("silent counterpart yields an empty thread", func(t *testing.T) {
		req := require.New(t)
		svc, m := newMessageService(t, nil)

		m.users.EXPECT().Find(domain.ByID(billy.ID)).Return(billy, nil)
		m.messages.EXPECT().DirectThread(harry.ID, billy.ID).Return([]domain.Message{}, nil)

		thread, err := svc.DirectThread(harry.ID, domain.ByID(billy.ID))
		req.NoError(err)
		req.Empty(thread)
	})
}
