//go:generate go run go.uber.org/mock/mockgen -source=object_store.go -destination=../mocks/mock_object_store.go -package=mocks

// Package storage provides the object-store collaborator used for image
// messages and avatar uploads.
package storage

import "context"

// IObjectStore accepts a binary blob plus a folder hint and returns a
// durable URL, or fails. Callers sequence uploads before any message
// write so that an upload failure never leaves partial state.
type IObjectStore interface {
	Save(ctx context.Context, folder string, data []byte) (string, error)
}
