// Package domain contains core concepts of the messaging system.
// This file defines Message events and their addressing rules.
// Messages are immutable once created.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event. Content is either plain
// text or the URL of an uploaded image.
type Message struct {
	ID        uuid.UUID
	SenderID  UserID
	Target    MessageTarget
	Content   string
	CreatedAt time.Time
}

// MessageTarget addresses a message to exactly one receiver user or to
// one group, never both and never neither. The closed constructors keep
// the exclusivity structural instead of relying on two nullable fields.
type MessageTarget struct {
	group   bool
	userID  UserID
	groupID GroupID
}

func DirectTarget(receiver UserID) MessageTarget {
	return MessageTarget{userID: receiver}
}

func GroupTarget(id GroupID) MessageTarget {
	return MessageTarget{group: true, groupID: id}
}

// Direct returns the receiver when the message is a direct message.
func (t MessageTarget) Direct() (UserID, bool) {
	return t.userID, !t.group
}

// Group returns the group when the message is a group message.
func (t MessageTarget) Group() (GroupID, bool) {
	return t.groupID, t.group
}
