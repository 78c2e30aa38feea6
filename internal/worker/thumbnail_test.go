package worker

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"filevault/internal/model"
	"filevault/internal/queue"
	repoMocks "filevault/internal/repository/mocks"
	"filevault/internal/storage"
	storeMocks "filevault/internal/storage/mocks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func thumbnailTask(t *testing.T, job queue.ThumbnailJob) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return asynq.NewTask(queue.TaskThumbnail, b)
}

// testPNG encodes a small solid image so the processor can decode a real blob.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnailProcessor_AllWidths(t *testing.T) {
	ctx := context.Background()

	node := &model.FileNode{ID: "image-1", UserID: "user-1", Name: "pic.png", Type: model.TypeImage, StorageKey: "files/k"}

	mFiles := new(repoMocks.MockFileRepository)
	mFiles.On("FindByIDAndOwner", ctx, "image-1", "user-1").Return(node, nil)

	mStore := new(storeMocks.MockStorage)
	mStore.On("Get", ctx, "files/k").
		Return(io.NopCloser(bytes.NewReader(testPNG(t))), storage.ObjectInfo{}, nil)
	for _, key := range []string{"files/k_500", "files/k_250", "files/k_100"} {
		mStore.On("Put", ctx, key, mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.ContentType == "image/png" && opt.Size > 0
		})).Return(storage.ObjectInfo{}, nil).Once()
	}

	p := NewThumbnailProcessor(mFiles, mStore)

	err := p.ProcessTask(ctx, thumbnailTask(t, queue.ThumbnailJob{UserID: "user-1", FileID: "image-1"}))

	assert.NoError(t, err)
	mStore.AssertExpectations(t)
}

func TestThumbnailProcessor_PartialFailureKeepsSiblings(t *testing.T) {
	ctx := context.Background()

	node := &model.FileNode{ID: "image-1", UserID: "user-1", Name: "pic.png", Type: model.TypeImage, StorageKey: "files/k"}

	mFiles := new(repoMocks.MockFileRepository)
	mFiles.On("FindByIDAndOwner", ctx, "image-1", "user-1").Return(node, nil)

	mStore := new(storeMocks.MockStorage)
	mStore.On("Get", ctx, "files/k").
		Return(io.NopCloser(bytes.NewReader(testPNG(t))), storage.ObjectInfo{}, nil)
	mStore.On("Put", ctx, "files/k_500", mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil).Once()
	mStore.On("Put", ctx, "files/k_250", mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, errors.New("storage unavailable")).Once()
	mStore.On("Put", ctx, "files/k_100", mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil).Once()

	p := NewThumbnailProcessor(mFiles, mStore)

	err := p.ProcessTask(ctx, thumbnailTask(t, queue.ThumbnailJob{UserID: "user-1", FileID: "image-1"}))

	// The failed width is reported; the successfully written widths stay.
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "width 250")
	assert.NotErrorIs(t, err, asynq.SkipRetry)
	mStore.AssertExpectations(t)
}

func TestThumbnailProcessor_MissingFieldsSkipRetry(t *testing.T) {
	ctx := context.Background()
	p := NewThumbnailProcessor(new(repoMocks.MockFileRepository), new(storeMocks.MockStorage))

	t.Run("missing fileId", func(t *testing.T) {
		err := p.ProcessTask(ctx, thumbnailTask(t, queue.ThumbnailJob{UserID: "user-1"}))
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Contains(t, err.Error(), "missing fileId")
	})

	t.Run("missing userId", func(t *testing.T) {
		err := p.ProcessTask(ctx, thumbnailTask(t, queue.ThumbnailJob{FileID: "image-1"}))
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Contains(t, err.Error(), "missing userId")
	})

	t.Run("garbage payload", func(t *testing.T) {
		err := p.ProcessTask(ctx, asynq.NewTask(queue.TaskThumbnail, []byte("{not json")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}

func TestThumbnailProcessor_FileNotFoundIsRetryable(t *testing.T) {
	ctx := context.Background()

	mFiles := new(repoMocks.MockFileRepository)
	mFiles.On("FindByIDAndOwner", ctx, "image-1", "user-1").Return(nil, sql.ErrNoRows)

	p := NewThumbnailProcessor(mFiles, new(storeMocks.MockStorage))

	err := p.ProcessTask(ctx, thumbnailTask(t, queue.ThumbnailJob{UserID: "user-1", FileID: "image-1"}))

	// The enqueue may have raced the metadata commit; leave the retry
	// decision to the queue.
	assert.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestThumbnailProcessor_UndecodableImageSkipsRetry(t *testing.T) {
	ctx := context.Background()

	node := &model.FileNode{ID: "image-1", UserID: "user-1", Name: "pic.png", Type: model.TypeImage, StorageKey: "files/k"}

	mFiles := new(repoMocks.MockFileRepository)
	mFiles.On("FindByIDAndOwner", ctx, "image-1", "user-1").Return(node, nil)

	mStore := new(storeMocks.MockStorage)
	mStore.On("Get", ctx, "files/k").
		Return(io.NopCloser(bytes.NewReader([]byte("not an image"))), storage.ObjectInfo{}, nil)

	p := NewThumbnailProcessor(mFiles, mStore)

	err := p.ProcessTask(ctx, thumbnailTask(t, queue.ThumbnailJob{UserID: "user-1", FileID: "image-1"}))

	assert.ErrorIs(t, err, asynq.SkipRetry)
}
