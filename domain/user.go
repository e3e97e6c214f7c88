// Package domain contains core concepts of the messaging system.
// This file defines User entities and the reference variant used to
// look them up. No transport, storage, or UI logic should live here.
package domain

import "time"

type UserID uint64

// User is an identity record. Created on registration, mutated only
// through profile updates, never deleted.
type User struct {
	ID           UserID
	Username     string
	PasswordHash string
	Bio          string
	AvatarURL    string
	CreatedAt    time.Time
}

// UserRef names a user either by numeric id or by username. The variant
// is decided at the request-parsing boundary so that lookups take
// exactly one path per call.
type UserRef struct {
	byID bool
	id   UserID
	name string
}

func ByID(id UserID) UserRef {
	return UserRef{byID: true, id: id}
}

func ByUsername(name string) UserRef {
	return UserRef{name: name}
}

// ID returns the numeric identifier when the reference is by id.
func (r UserRef) ID() (UserID, bool) {
	return r.id, r.byID
}

// Username returns the username when the reference is by username.
func (r UserRef) Username() (string, bool) {
	return r.name, !r.byID
}
