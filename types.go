package filecab

// RootParentID is the sentinel parent id representing "no parent folder".
// It is not the id of a real document.
const RootParentID = "0"

// PageSize is the fixed number of items per listing page.
const PageSize = 20

// FileType enumerates the kinds of documents the file collection holds.
type FileType string

const (
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
	TypeFolder FileType = "folder"
)

func (t FileType) IsValid() bool {
	switch t {
	case TypeFile, TypeImage, TypeFolder:
		return true
	default:
		return false
	}
}

// User is a registered account. PasswordDigest is the unsalted SHA-1 of the
// plaintext password and must never leave the service boundary.
type User struct {
	ID             string
	Email          string
	PasswordDigest string
}

// Public returns the response projection of the user, without the digest.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}

// PublicUser is the read-only view of a User exposed over the API.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// File is a node of the per-user file tree. ParentID is RootParentID for
// top-level entries, otherwise the id of an existing folder. LocalBlobID is
// set iff the file is not a folder; it names the blob on disk and is never
// exposed in responses.
type File struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	Name        string   `json:"name"`
	Type        FileType `json:"type"`
	IsPublic    bool     `json:"isPublic"`
	ParentID    string   `json:"parentId"`
	LocalBlobID string   `json:"-"`
}

// UploadRequest is the raw upload body before validation. Data holds the
// base64-encoded payload.
type UploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// UploadParams is a validated and normalized upload request.
type UploadParams struct {
	Name     string
	Type     FileType
	ParentID string
	IsPublic bool
	Data     string
}
