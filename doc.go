// Package filecab provides a session-authenticated hierarchical file storage
// service with pluggable metadata, session, and blob backends.
//
// File metadata lives in a document store, sessions live in a key-value
// store with native TTL expiry, and file bytes live on disk under random
// blob identifiers unrelated to logical names.
//
// # Key Components
//
//   - AuthService: issues, resolves, and revokes opaque session tokens
//   - UserService: account registration with a post-registration job queue
//   - FileService: upload validation, folder hierarchy, visibility rules,
//     paginated listing, and content access
//   - UserRepo / FileRepo: document-store metadata persistence (MongoDB)
//   - SessionStore: key-value token storage (Redis, in-memory)
//   - BlobStorage: filesystem blob persistence
//
// See the http package for the REST API, the mongo and sessionstore
// packages for store backends, and the filesystem package for blob storage.
package filecab
