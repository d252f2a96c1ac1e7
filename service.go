package filecab

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
)

// FileService validates uploads, enforces the folder hierarchy and
// ownership/visibility rules, and orchestrates metadata and blob
// persistence.
type FileService struct {
	files FileRepo
	blobs BlobStorage
}

func NewFileService(files FileRepo, blobs BlobStorage) *FileService {
	return &FileService{files: files, blobs: blobs}
}

// ValidateUpload checks an upload body and returns normalized parameters.
// Checks run in a fixed order — name, type, data, parent — and stop at the
// first failure; the ordering decides which single reason a multiply-invalid
// request receives and is part of the API contract.
func (s *FileService) ValidateUpload(ctx context.Context, req UploadRequest) (UploadParams, error) {
	if req.Name == "" {
		return UploadParams{}, NewValidationError("Missing name")
	}

	typ := FileType(req.Type)
	if !typ.IsValid() {
		return UploadParams{}, NewValidationError("Missing type")
	}

	if req.Data == "" && typ != TypeFolder {
		return UploadParams{}, NewValidationError("Missing data")
	}

	parentID := req.ParentID
	if parentID == "" {
		parentID = RootParentID
	}
	if parentID != RootParentID {
		if !IsValidID(parentID) {
			return UploadParams{}, NewValidationError("Parent not found")
		}
		parent, err := s.files.FindByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return UploadParams{}, NewValidationError("Parent not found")
			}
			return UploadParams{}, fmt.Errorf("validate upload: %w", err)
		}
		if parent.Type != TypeFolder {
			return UploadParams{}, NewValidationError("Parent is not a folder")
		}
	}

	return UploadParams{
		Name:     req.Name,
		Type:     typ,
		ParentID: parentID,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	}, nil
}

// Upload persists a validated upload for userID and returns the created
// file with its store-assigned id. For non-folders the payload is decoded
// and written to blob storage before the metadata insert, so a failed write
// never leaves metadata pointing at a missing blob.
func (s *FileService) Upload(ctx context.Context, userID string, p UploadParams) (File, error) {
	f := File{
		UserID:   userID,
		Name:     p.Name,
		Type:     p.Type,
		IsPublic: p.IsPublic,
		ParentID: p.ParentID,
	}

	if p.Type != TypeFolder {
		content, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return File{}, fmt.Errorf("upload: decode data: %w", ErrInvalidInput)
		}

		blobID, err := s.blobs.Write(ctx, content)
		if err != nil {
			return File{}, fmt.Errorf("upload: write blob: %w: %w", ErrStorage, err)
		}
		f.LocalBlobID = blobID
	}

	created, err := s.files.Insert(ctx, f)
	if err != nil {
		return File{}, fmt.Errorf("upload: %w", err)
	}

	return created, nil
}

// Show returns the file with the given id owned by userID. Malformed ids and
// files owned by someone else both come back as ErrNotFound.
func (s *FileService) Show(ctx context.Context, userID, fileID string) (File, error) {
	if !IsValidID(fileID) {
		return File{}, fmt.Errorf("show: %w", ErrNotFound)
	}

	f, err := s.files.FindByIDAndOwner(ctx, fileID, userID)
	if err != nil {
		return File{}, fmt.Errorf("show: %w", err)
	}

	return f, nil
}

// List returns one page of userID's files directly under parentID, at most
// PageSize items, in stable insertion order. An unknown or non-folder parent
// yields an empty page rather than an error; a negative page is treated as
// page zero. There is no recursive descent.
func (s *FileService) List(ctx context.Context, userID, parentID string, page int64) ([]File, error) {
	if parentID == "" {
		parentID = RootParentID
	}
	if page < 0 {
		page = 0
	}

	if parentID != RootParentID {
		if !IsValidID(parentID) {
			return []File{}, nil
		}
		parent, err := s.files.FindByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return []File{}, nil
			}
			return nil, fmt.Errorf("list: %w", err)
		}
		if parent.Type != TypeFolder {
			return []File{}, nil
		}
	}

	files, err := s.files.FindByParent(ctx, userID, parentID, page*PageSize, PageSize)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	if files == nil {
		files = []File{}
	}

	return files, nil
}

// SetVisibility toggles isPublic on the file with the given id owned by
// userID and returns the updated file. Only the owner may change visibility;
// a malformed id is ErrNotFound, never a store error.
func (s *FileService) SetVisibility(ctx context.Context, userID, fileID string, public bool) (File, error) {
	if !IsValidID(fileID) {
		return File{}, fmt.Errorf("set visibility: %w", ErrNotFound)
	}

	f, err := s.files.SetPublic(ctx, fileID, userID, public)
	if err != nil {
		return File{}, fmt.Errorf("set visibility: %w", err)
	}

	return f, nil
}

// Content returns the raw bytes of the file with the given id along with its
// logical name for content-type detection. requesterID may be empty for
// unauthenticated requests. Access is allowed iff the file is public or the
// requester owns it; denied access is indistinguishable from a nonexistent
// file. Folders have no content and yield ErrInvalidOperation.
func (s *FileService) Content(ctx context.Context, requesterID, fileID string) ([]byte, string, error) {
	if !IsValidID(fileID) {
		return nil, "", fmt.Errorf("content: %w", ErrNotFound)
	}

	f, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		return nil, "", fmt.Errorf("content: %w", err)
	}

	if !f.IsPublic && requesterID != f.UserID {
		return nil, "", fmt.Errorf("content: %w", ErrNotFound)
	}

	if f.Type == TypeFolder {
		return nil, "", fmt.Errorf("content: %w", ErrInvalidOperation)
	}

	data, err := s.blobs.Read(ctx, f.LocalBlobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", fmt.Errorf("content: blob missing: %w", ErrNotFound)
		}
		return nil, "", fmt.Errorf("content: %w: %w", ErrStorage, err)
	}

	return data, f.Name, nil
}
