package services

import (
	"context"
	"fmt"
	"log/slog"

	"courier/domain"
	"courier/errors"
	"courier/moderation"
	"courier/repositories"
	"courier/storage"
)

type IMessageService interface {
	Send(sender domain.UserID, receiver domain.UserRef, content string) (domain.Message, error)
	SendImage(ctx context.Context, sender domain.UserID, receiver domain.UserRef, data []byte) (domain.Message, error)
	SendToGroup(sender domain.UserID, group domain.GroupID, content string) (domain.Message, error)
	DirectThread(requester domain.UserID, counterpart domain.UserRef) ([]domain.Message, error)
	GroupThread(group domain.GroupID) ([]domain.Message, error)
}

// MessageService routes sends to the right thread and shapes retrievals.
// It owns the existence checks the conversation store deliberately skips.
type MessageService struct {
	users     repositories.IUserRepository
	groups    repositories.IGroupRepository
	messages  repositories.IMessageRepository
	store     storage.IObjectStore
	moderator *moderation.Moderator
	log       *slog.Logger
}

func NewMessageService(
	users repositories.IUserRepository,
	groups repositories.IGroupRepository,
	messages repositories.IMessageRepository,
	store storage.IObjectStore,
	moderator *moderation.Moderator,
	log *slog.Logger,
) *MessageService {
	return &MessageService{
		users:     users,
		groups:    groups,
		messages:  messages,
		store:     store,
		moderator: moderator,
		log:       log,
	}
}

// Send delivers a direct text message. Both sides must resolve to
// existing users; the error names whichever side was missing.
func (s *MessageService) Send(sender domain.UserID, receiver domain.UserRef, content string) (domain.Message, error) {
	senderUser, receiverUser, err := s.resolvePair(sender, receiver)
	if err != nil {
		return domain.Message{}, err
	}
	message, err := s.messages.AppendDirect(senderUser.ID, receiverUser.ID, s.moderator.Censor(content))
	if err != nil {
		return domain.Message{}, err
	}
	s.log.Debug("direct message stored", "id", message.ID, "sender", senderUser.ID, "receiver", receiverUser.ID)
	return message, nil
}

// SendImage uploads the image and delivers its URL as a direct message.
// The upload is a strict precondition: if it fails, no message exists.
func (s *MessageService) SendImage(ctx context.Context, sender domain.UserID, receiver domain.UserRef, data []byte) (domain.Message, error) {
	senderUser, receiverUser, err := s.resolvePair(sender, receiver)
	if err != nil {
		return domain.Message{}, err
	}
	if err := requireImage(data); err != nil {
		return domain.Message{}, err
	}
	url, err := s.store.Save(ctx, "images", data)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrUpstream, err)
	}
	message, err := s.messages.AppendDirect(senderUser.ID, receiverUser.ID, url)
	if err != nil {
		return domain.Message{}, err
	}
	s.log.Debug("image message stored", "id", message.ID, "url", url)
	return message, nil
}

// SendToGroup delivers a text message to a group after confirming the
// group still exists. A send racing the group's deletion either fails
// here or lands just before the cascade removes it.
func (s *MessageService) SendToGroup(sender domain.UserID, group domain.GroupID, content string) (domain.Message, error) {
	if _, err := s.users.Find(domain.ByID(sender)); err != nil {
		return domain.Message{}, fmt.Errorf("sender: %w", err)
	}
	if _, err := s.groups.Get(group); err != nil {
		return domain.Message{}, err
	}
	message, err := s.messages.AppendGroup(sender, group, s.moderator.Censor(content))
	if err != nil {
		return domain.Message{}, err
	}
	s.log.Debug("group message stored", "id", message.ID, "group", group)
	return message, nil
}

// DirectThread returns the conversation between the requester and the
// counterpart, oldest first. An unknown counterpart is ErrUserNotFound,
// distinct from an existing-but-silent one (empty thread, no error).
func (s *MessageService) DirectThread(requester domain.UserID, counterpart domain.UserRef) ([]domain.Message, error) {
	other, err := s.users.Find(counterpart)
	if err != nil {
		return nil, err
	}
	return s.messages.DirectThread(requester, other.ID)
}

// GroupThread returns the group's messages oldest first, after an
// existence check so a deleted group reads as not-found rather than
// as an empty thread.
func (s *MessageService) GroupThread(group domain.GroupID) ([]domain.Message, error) {
	if _, err := s.groups.Get(group); err != nil {
		return nil, err
	}
	return s.messages.GroupThread(group)
}

func (s *MessageService) resolvePair(sender domain.UserID, receiver domain.UserRef) (domain.User, domain.User, error) {
	senderUser, err := s.users.Find(domain.ByID(sender))
	if err != nil {
		return domain.User{}, domain.User{}, fmt.Errorf("sender: %w", err)
	}
	receiverUser, err := s.users.Find(receiver)
	if err != nil {
		return domain.User{}, domain.User{}, fmt.Errorf("receiver: %w", err)
	}
	return senderUser, receiverUser, nil
}
