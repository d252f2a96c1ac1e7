package filecab

import (
	"context"
	"time"
)

// UserRepo persists user accounts in the document store.
//
// Lookups return ErrNotFound when no document matches. Store-level failures
// surface as ErrStoreUnavailable wrapped with context.
type UserRepo interface {
	// Insert creates a new user and returns it with the store-assigned id.
	Insert(ctx context.Context, email, passwordDigest string) (User, error)

	// FindByEmail returns the user with the given email.
	FindByEmail(ctx context.Context, email string) (User, error)

	// FindByCredentials returns the user matching both email and digest
	// exactly.
	FindByCredentials(ctx context.Context, email, passwordDigest string) (User, error)

	// FindByID returns the user with the given id.
	FindByID(ctx context.Context, id string) (User, error)
}

// FileRepo persists file metadata in the document store.
type FileRepo interface {
	// Insert creates a new file document and returns it with the
	// store-assigned id.
	Insert(ctx context.Context, f File) (File, error)

	// FindByID returns the file with the given id regardless of owner.
	FindByID(ctx context.Context, id string) (File, error)

	// FindByIDAndOwner returns the file with the given id owned by userID.
	// A file owned by someone else is ErrNotFound.
	FindByIDAndOwner(ctx context.Context, id, userID string) (File, error)

	// FindByParent returns up to limit children of parentID owned by userID
	// after skipping skip documents, in stable insertion order. Pages must
	// not repeat or drop documents absent concurrent writes.
	FindByParent(ctx context.Context, userID, parentID string, skip, limit int64) ([]File, error)

	// SetPublic updates isPublic on the file with the given id owned by
	// userID and returns the updated document, or ErrNotFound.
	SetPublic(ctx context.Context, id, userID string, public bool) (File, error)
}

// SessionStore is the ephemeral token store backed by the key-value store.
// Expiry is entirely the store's job; there is no sweeping in this service.
type SessionStore interface {
	// SetWithTTL unconditionally writes key -> value with the given TTL.
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value for key, or ErrNotFound when the key was never
	// set or its TTL has elapsed.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// BlobStorage stores raw file bytes under random identifiers unrelated to
// logical file names.
type BlobStorage interface {
	// Write stores content under a fresh random blob id and returns the id.
	Write(ctx context.Context, content []byte) (string, error)

	// Read returns the bytes of the blob, or ErrNotFound if it does not
	// exist.
	Read(ctx context.Context, blobID string) ([]byte, error)
}

// UserQueue receives post-registration jobs for downstream processing, such
// as sending a welcome email. Enqueue failures are logged, never fatal.
type UserQueue interface {
	Enqueue(ctx context.Context, userID string) error
}
