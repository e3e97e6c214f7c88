package domain

import "time"

type GroupID uint64

// Group is a named conversation owned by its creator. Any authenticated
// user may post to or read a group; only the creator may delete it.
type Group struct {
	ID        GroupID
	Name      string
	CreatorID UserID
	CreatedAt time.Time
}
