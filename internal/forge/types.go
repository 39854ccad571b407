package forge

import (
	"context"

	"git.home.luguber.info/inful/remotedocs/internal/config"
)

// EntryType is the kind of a tree entry as reported by the forge.
type EntryType string

const (
	EntryBlob   EntryType = "blob"   // file
	EntryTree   EntryType = "tree"   // directory
	EntryCommit EntryType = "commit" // submodule pointer
)

// TreeEntry is one file or directory record of a repository tree.
type TreeEntry struct {
	Path string    `json:"path"`
	Type EntryType `json:"type"`
}

// Tree is a flat, recursive listing of a repository at a ref.
type Tree struct {
	Entries   []TreeEntry
	Truncated bool
}

// TreeLister lists the full recursive tree of a repository branch.
type TreeLister interface {
	ListTree(ctx context.Context, d config.Descriptor) (*Tree, error)
	// Name identifies the lister in logs and metrics.
	Name() string
}
