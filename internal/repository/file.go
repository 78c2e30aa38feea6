package repository

import (
	"context"

	"filevault/internal/model"
)

// FileRepository defines data access for file nodes using SQL queries only.
// No business logic here — strictly persistence operations.
type FileRepository interface {
	// Create inserts a new file node and returns the stored row.
	Create(ctx context.Context, f *model.FileNode) (*model.FileNode, error)

	// FindByID returns a node by id regardless of owner. Used only by the
	// public read path and parent-validity checks.
	FindByID(ctx context.Context, id string) (*model.FileNode, error)

	// FindByIDAndOwner returns a node only when it belongs to the given user.
	FindByIDAndOwner(ctx context.Context, id, userID string) (*model.FileNode, error)

	// ListByParent returns the owner's nodes under the given parent,
	// paginated by pq. The root sentinel is a valid parent value.
	ListByParent(ctx context.Context, userID, parentID string, pq PageQuery) ([]model.FileNode, error)

	// SetVisibility updates is_public, filtered on both id and owner so a
	// racing request can never mutate another owner's node.
	SetVisibility(ctx context.Context, id, userID string, isPublic bool) error

	// Count returns the total number of file nodes.
	Count(ctx context.Context) (int, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}
