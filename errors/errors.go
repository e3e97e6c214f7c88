// Package errors defines the sentinel errors shared across the module.
// The transport layer maps each of them to a stable HTTP status; nothing
// below the transport swallows or logs-and-continues on these.
package errors

import "fmt"

var (
	ErrBadRequest         = fmt.Errorf("bad request")
	ErrUnauthenticated    = fmt.Errorf("not authenticated")
	ErrForbidden          = fmt.Errorf("forbidden")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrGroupNotFound      = fmt.Errorf("group chat not found")
	ErrUsernameTaken      = fmt.Errorf("username already taken")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrUpstream           = fmt.Errorf("upstream failure")
)
