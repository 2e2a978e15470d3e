// Package storage abstracts where uploaded files live. The service layer
// only ever sees public paths under PublicPrefix.
package storage

import "context"

// PublicPrefix is the URL prefix all stored files are served under.
const PublicPrefix = "/uploads/"

// SaveInput describes a file to store. Subdir groups files per resource
// ("users", "products"); Prefix keys the stored name to the owning record.
type SaveInput struct {
	Subdir   string
	Prefix   string
	Filename string
	Data     []byte
}

// Storage persists uploaded files and returns public paths for them.
type Storage interface {
	// Save writes the file and returns its public path.
	Save(ctx context.Context, in SaveInput) (string, error)
	// Delete removes the file at the given public path. It is best
	// effort: the return value reports whether a file was removed, and
	// callers are expected to log rather than fail on false.
	Delete(ctx context.Context, publicPath string) bool
}
