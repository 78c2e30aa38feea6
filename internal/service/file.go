package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"

	"filevault/internal/model"
	"filevault/internal/queue"
	"filevault/internal/repository"
	"filevault/internal/storage"
)

var (
	ErrMissingName     = errors.New("missing name")
	ErrMissingType     = errors.New("missing type")
	ErrMissingData     = errors.New("missing data")
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")
	ErrNotFound        = errors.New("file not found")
	ErrFolderNoContent = errors.New("a folder doesn't have content")
)

// PageSize is the fixed number of nodes per listing page.
const PageSize = 20

// CreateFileInput carries the upload request fields. Data is base64.
type CreateFileInput struct {
	Name     string
	Type     string
	Data     string
	ParentID string
	IsPublic bool
}

// FileService owns the file-metadata tree: creation with hierarchy and
// ownership validation, lookups, pagination, visibility toggling, and
// content retrieval. All operations except Read resolve the caller's token
// first; Read tolerates anonymous callers for public nodes.
type FileService interface {
	Create(ctx context.Context, token string, in CreateFileInput) (*model.FileView, error)
	Get(ctx context.Context, token, fileID string) (*model.FileView, error)
	List(ctx context.Context, token, parentID string, page int) ([]model.FileView, error)
	SetVisibility(ctx context.Context, token, fileID string, isPublic bool) (*model.FileView, error)

	// Read returns the node's content and its content type. When size is
	// non-empty the size-suffixed derived artifact is opened instead; its
	// absence reads as ErrNotFound whether the pipeline has not finished
	// or the size never existed.
	Read(ctx context.Context, token, fileID, size string) (io.ReadCloser, string, error)
}

type fileService struct {
	auth      AuthService
	files     repository.FileRepository
	store     storage.Storage
	jobs      queue.Enqueuer
	keyPrefix string
}

// NewFileService constructs a new FileService.
func NewFileService(auth AuthService, files repository.FileRepository, store storage.Storage, jobs queue.Enqueuer, keyPrefix string) FileService {
	return &fileService{auth: auth, files: files, store: store, jobs: jobs, keyPrefix: keyPrefix}
}

func (s *fileService) Create(ctx context.Context, token string, in CreateFileInput) (*model.FileView, error) {
	userID, err := s.auth.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	// Validation order is part of the contract: the first violated check
	// is reported and later ones are not evaluated.
	if in.Name == "" {
		return nil, ErrMissingName
	}
	fileType := model.FileType(in.Type)
	if !fileType.Valid() {
		return nil, ErrMissingType
	}
	if in.Data == "" && fileType != model.TypeFolder {
		return nil, ErrMissingData
	}

	parentID := in.ParentID
	if parentID == "" {
		parentID = model.RootParentID
	}
	if parentID != model.RootParentID {
		parent, err := s.files.FindByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("lookup parent: %w", err)
		}
		if parent.Type != model.TypeFolder {
			return nil, ErrParentNotFolder
		}
	}

	node := &model.FileNode{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      in.Name,
		Type:      fileType,
		IsPublic:  in.IsPublic,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}

	if fileType == model.TypeFolder {
		stored, err := s.files.Create(ctx, node)
		if err != nil {
			return nil, fmt.Errorf("create folder: %w", err)
		}
		return stored.View(), nil
	}

	content, contentType, err := decodePayload(in.Data, fileType)
	if err != nil {
		return nil, err
	}

	key := path.Join(s.keyPrefix, uuid.NewString())
	if _, err := s.store.Put(ctx, key, bytes.NewReader(content), storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: contentType,
		Metadata:    map[string]string{"original-name": in.Name},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	node.StorageKey = key
	stored, err := s.files.Create(ctx, node)
	if err != nil {
		// Rollback: the blob must not outlive a failed metadata commit.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	// Enqueue only after the node exists in the metadata store, so the
	// pipeline can always resolve it.
	if fileType == model.TypeImage {
		if err := s.jobs.EnqueueThumbnail(ctx, queue.ThumbnailJob{UserID: userID, FileID: stored.ID}); err != nil {
			return nil, fmt.Errorf("enqueue thumbnail job: %w", err)
		}
	}

	return stored.View(), nil
}

func (s *fileService) Get(ctx context.Context, token, fileID string) (*model.FileView, error) {
	userID, err := s.auth.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	node, err := s.ownedNode(ctx, fileID, userID)
	if err != nil {
		return nil, err
	}
	return node.View(), nil
}

func (s *fileService) List(ctx context.Context, token, parentID string, page int) ([]model.FileView, error) {
	userID, err := s.auth.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	if parentID == "" {
		parentID = model.RootParentID
	}
	if page < 0 {
		page = 0
	}

	nodes, err := s.files.ListByParent(ctx, userID, parentID, repository.PageQuery{
		Limit:  PageSize,
		Offset: page * PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	views := make([]model.FileView, 0, len(nodes))
	for i := range nodes {
		views = append(views, *nodes[i].View())
	}
	return views, nil
}

func (s *fileService) SetVisibility(ctx context.Context, token, fileID string, isPublic bool) (*model.FileView, error) {
	userID, err := s.auth.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	node, err := s.ownedNode(ctx, fileID, userID)
	if err != nil {
		return nil, err
	}

	// The update is filtered on (id, owner) again so a racing request can
	// never flip a node that changed hands between lookup and write.
	if err := s.files.SetVisibility(ctx, fileID, userID, isPublic); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update visibility: %w", err)
	}

	node.IsPublic = isPublic
	return node.View(), nil
}

func (s *fileService) Read(ctx context.Context, token, fileID, size string) (io.ReadCloser, string, error) {
	node, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("lookup file: %w", err)
	}

	if !node.IsPublic {
		// Private nodes read as nonexistent for anyone but the owner.
		user, err := s.auth.Me(ctx, token)
		if err != nil {
			if errors.Is(err, ErrNotAuthenticated) {
				return nil, "", ErrNotFound
			}
			return nil, "", err
		}
		if user.ID != node.UserID {
			return nil, "", ErrNotFound
		}
	}

	if node.Type == model.TypeFolder {
		return nil, "", ErrFolderNoContent
	}

	key := node.StorageKey
	if size != "" {
		key = storage.DerivedKey(key, size)
	}
	rc, _, err := s.store.Get(ctx, key)
	if err != nil {
		// Absent derived artifacts and storage misses surface identically;
		// the thumbnail pipeline may simply not have finished yet.
		return nil, "", ErrNotFound
	}

	contentType := mime.TypeByExtension(path.Ext(node.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return rc, contentType, nil
}

func (s *fileService) ownedNode(ctx context.Context, fileID, userID string) (*model.FileNode, error) {
	node, err := s.files.FindByIDAndOwner(ctx, fileID, userID)
	if err != nil {
		// Absence and foreign ownership are deliberately indistinguishable.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup file: %w", err)
	}
	return node, nil
}

// decodePayload turns the base64 upload body into raw bytes. Text payloads
// round-trip through UTF-8; image payloads keep their exact bytes.
func decodePayload(data string, fileType model.FileType) ([]byte, string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", ErrMissingData
	}
	if fileType == model.TypeFile {
		return []byte(string(raw)), "text/plain; charset=utf-8", nil
	}
	return raw, http.DetectContentType(raw), nil
}
