package vault

import (
	"context"
	"errors"
	"time"
)

// Errors surfaced by Store implementations. Callers match with errors.Is.
var (
	// ErrNotFound is returned when a referenced item no longer exists,
	// including the case where a concurrent mover won the race.
	ErrNotFound = errors.New("item not found")

	// ErrAlreadyExists is returned when a move would overwrite a
	// same-named file at the destination. Overwrites are always refused;
	// the caller decides whether to rename or abort.
	ErrAlreadyExists = errors.New("item already exists at destination")
)

// ItemMeta describes one document file inside a category directory.
type ItemMeta struct {
	Filename string    `json:"filename"`
	Path     string    `json:"filepath"`
	Category Category  `json:"category"`
	Modified time.Time `json:"modified"`
	Size     int64     `json:"size"`
}

// Store enumerates, reads, and relocates items between category directories.
type Store interface {
	// List returns all document files directly inside the category's
	// directory (non-recursive). A missing directory yields an empty
	// list, not an error. No ordering is guaranteed.
	List(ctx context.Context, category Category) ([]ItemMeta, error)

	// Read returns the raw content of the item at path. Returns
	// ErrNotFound if the path no longer exists.
	Read(ctx context.Context, path string) ([]byte, error)

	// Move relocates the file at path into the destination category's
	// directory, creating it (and parents) as needed. The filename and
	// content are preserved. Returns ErrNotFound if the source vanished
	// and ErrAlreadyExists on a destination collision.
	Move(ctx context.Context, path string, dest Category) (ItemMeta, error)
}
