// Package files implements the upload pipeline: validate the request,
// persist the metadata document, then materialize the bytes.
//
// Per-request flow, strictly in order:
//
//	VALIDATING -> PERSISTING_METADATA -> (folder? DONE : WRITING_BYTES -> DONE)
//
// The parent-folder check is part of validation and completes, with its
// result observed, before any persistence starts. There is no rollback
// between the metadata insert and the byte write: a failed write leaves
// the document behind (accepted inconsistency window). Nothing is locked
// or deduplicated; concurrent uploads with identical names both succeed.
package files

import (
	"context"
	"encoding/base64"
	"errors"
	"path/filepath"

	"github.com/google/uuid"

	"filevault/internal/logger"
	"filevault/pkg/content"
	"filevault/pkg/metadata"
)

// Service orchestrates file and folder creation.
type Service struct {
	// Metadata persists file documents.
	Metadata metadata.Store

	// Content stores file bytes at pipeline-generated paths.
	Content content.Store

	// StorageRoot is the directory under which content paths are
	// generated, flat, one fresh unique name per upload.
	StorageRoot string
}

// NewService constructs the upload pipeline service.
func NewService(meta metadata.Store, cont content.Store, storageRoot string) *Service {
	return &Service{
		Metadata:    meta,
		Content:     cont,
		StorageRoot: storageRoot,
	}
}

// Upload validates req, inserts the metadata document owned by userID, and
// for non-folder types writes the base64-decoded payload to a generated
// path under the storage root. Returns the canonical file record.
//
// All failures are *Error values with stable messages; see errors.go.
func (s *Service) Upload(ctx context.Context, userID string, req *UploadRequest) (*metadata.File, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	parentID := req.ParentID
	if parentID == "" {
		parentID = metadata.RootParentID
	}

	// Parent check: a real store read, observed before any write happens.
	if parentID != metadata.RootParentID {
		parent, err := s.Metadata.GetFile(ctx, parentID)
		if err != nil {
			return nil, ErrParentNotFound
		}
		if parent.Type != metadata.FileTypeFolder {
			return nil, ErrParentNotFolder
		}
	}

	fileType := metadata.FileType(req.Type)

	file := &metadata.File{
		UserID:   userID,
		Name:     req.Name,
		Type:     fileType,
		IsPublic: req.IsPublic,
		ParentID: parentID,
	}
	if fileType != metadata.FileTypeFolder {
		file.LocalPath = filepath.Join(s.StorageRoot, uuid.NewString())
	}

	id, err := s.Metadata.InsertFile(ctx, file)
	if err != nil {
		logger.Error("failed to insert file document: %v", err)
		return nil, ErrUpload
	}
	file.ID = id

	if fileType == metadata.FileTypeFolder {
		return file, nil
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		// The document is already committed; not rolled back.
		logger.Warn("invalid base64 payload for file %s", file.ID)
		return nil, ErrUpload
	}

	if err := s.Content.Write(ctx, file.LocalPath, data); err != nil {
		logger.Error("failed to write content for file %s: %v", file.ID, err)
		if errors.Is(err, content.ErrCreateDir) {
			return nil, ErrStorageDir
		}
		return nil, ErrUpload
	}

	return file, nil
}
