package model

import "time"

// FileType enumerates the recognized kinds of file nodes.
type FileType string

const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

// Valid reports whether t is one of the recognized file types.
func (t FileType) Valid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// RootParentID is the sentinel parent value meaning "top-level, no parent".
// It is a reserved value, not the id of a real node.
const RootParentID = "0"

// FileNode represents one entry in a user's file tree: a folder, a text
// file, or an image. StorageKey is set iff the node is a file or image;
// folders never occupy blob storage. Ownership is immutable once set.
type FileNode struct {
	ID         string
	UserID     string
	Name       string
	Type       FileType
	IsPublic   bool
	ParentID   string
	StorageKey string
	CreatedAt  time.Time
}

// FileView is the wire projection of a file node. The storage key stays
// internal.
type FileView struct {
	ID       string   `json:"id"`
	UserID   string   `json:"userId"`
	Name     string   `json:"name"`
	Type     FileType `json:"type"`
	IsPublic bool     `json:"isPublic"`
	ParentID string   `json:"parentId"`
}

// View returns the public projection of the node.
func (f *FileNode) View() *FileView {
	return &FileView{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: f.ParentID,
	}
}
