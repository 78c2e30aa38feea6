package worker

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/hibiken/asynq"

	"filevault/internal/model"
	"filevault/internal/queue"
	"filevault/internal/repository"
	"filevault/internal/storage"
)

// thumbnailWidths are the derived artifact sizes, largest first.
var thumbnailWidths = []int{500, 250, 100}

// ThumbnailProcessor consumes thumbnail jobs: it loads the original image
// blob and writes one resized copy per configured width at the
// size-suffixed storage key. Widths are independent; a failure on one does
// not roll back the others, and rerunning the job rewrites the same keys.
type ThumbnailProcessor struct {
	files  repository.FileRepository
	store  storage.Storage
	widths []int
}

// NewThumbnailProcessor constructs a processor over the given repo and blob store.
func NewThumbnailProcessor(files repository.FileRepository, store storage.Storage) *ThumbnailProcessor {
	return &ThumbnailProcessor{files: files, store: store, widths: thumbnailWidths}
}

// ProcessTask implements the asynq handler contract. Malformed payloads are
// reported without retry; everything else is left to the queue's retry policy.
func (p *ThumbnailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var job queue.ThumbnailJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		return fmt.Errorf("decode thumbnail payload: %v: %w", err, asynq.SkipRetry)
	}
	if job.FileID == "" {
		return fmt.Errorf("missing fileId: %w", asynq.SkipRetry)
	}
	if job.UserID == "" {
		return fmt.Errorf("missing userId: %w", asynq.SkipRetry)
	}

	// The lookup is owner-filtered, same as every other protected access.
	// A miss can legitimately happen if the enqueue raced the metadata
	// commit, so it stays retryable.
	node, err := p.files.FindByIDAndOwner(ctx, job.FileID, job.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("file %s not found for user %s", job.FileID, job.UserID)
		}
		return fmt.Errorf("lookup file: %w", err)
	}
	if node.StorageKey == "" {
		return fmt.Errorf("file %s has no content: %w", node.ID, asynq.SkipRetry)
	}

	rc, _, err := p.store.Get(ctx, node.StorageKey)
	if err != nil {
		return fmt.Errorf("fetch original: %w", err)
	}
	defer rc.Close()

	img, formatName, err := image.Decode(rc)
	if err != nil {
		return fmt.Errorf("decode image %s: %v: %w", node.StorageKey, err, asynq.SkipRetry)
	}
	format, err := imaging.FormatFromExtension(formatName)
	if err != nil {
		return fmt.Errorf("unsupported image format %q: %w", formatName, asynq.SkipRetry)
	}

	var errs []error
	for _, width := range p.widths {
		if err := p.writeThumbnail(ctx, node, img, format, formatName, width); err != nil {
			// Sibling widths still run; partial sets are accepted.
			errs = append(errs, fmt.Errorf("width %d: %w", width, err))
		}
	}
	return errors.Join(errs...)
}

func (p *ThumbnailProcessor) writeThumbnail(ctx context.Context, node *model.FileNode, img image.Image, format imaging.Format, formatName string, width int) error {
	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	key := storage.DerivedKey(node.StorageKey, strconv.Itoa(width))
	if _, err := p.store.Put(ctx, key, &buf, storage.PutObjectOptions{
		Size:        int64(buf.Len()),
		ContentType: "image/" + formatName,
	}); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}
