package blobstore

import "context"

// Store is the document/photo persistence collaborator. It is append-only
// from the caller's perspective: Put never mutates an existing document in
// place (keys embed random components), and Delete exists only so a failed
// submission can clean up blobs it just wrote.
type Store interface {
	// Put stores data under key and returns the reference to persist on the
	// application record.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Delete removes a previously stored blob by its reference. Deleting an
	// unknown reference is not an error.
	Delete(ctx context.Context, ref string) error
}
