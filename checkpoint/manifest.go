package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/borgorg/flax/blobstore"
)

// ErrDanglingCurrent indicates the CURRENT pointer names a manifest blob
// that does not exist. This is store corruption, not an empty store: a save
// must not restart checkpoint history over it.
var ErrDanglingCurrent = errors.New("checkpoint: CURRENT points to missing manifest")

const (
	manifestPrefix = "MANIFEST"

	// CurrentName is the pointer blob naming the live manifest.
	CurrentName = "CURRENT"

	// CurrentVersion is the manifest format version written by this package.
	CurrentVersion = 1
)

// Manifest describes a committed checkpoint: which groups it holds, where
// their blobs live, and how they were encoded.
type Manifest struct {
	Version      int         `json:"version"`
	ID           uint64      `json:"id"`
	Codec        string      `json:"codec"`
	CreatedAt    time.Time   `json:"created_at"`
	TotalEntries int         `json:"total_entries"`
	Groups       []GroupInfo `json:"groups"`
}

// GroupInfo describes a single persisted group.
type GroupInfo struct {
	Name   string `json:"name"`
	Filter string `json:"filter,omitempty"` // rendered filter literal, informational
	Path   string `json:"path"`             // blob name, relative to the store root

	EntryCount int `json:"entry_count"`

	// Membership is a serialized roaring bitmap over the ordinals of the
	// checkpoint's entries in flatten order. Groups of a valid checkpoint
	// are pairwise disjoint and together cover every ordinal.
	Membership []byte `json:"membership"`
}

func manifestName(id uint64) string {
	return fmt.Sprintf("%s-%06d.json", manifestPrefix, id)
}

// loadManifest reads CURRENT and the manifest it points to.
// Returns blobstore.ErrNotFound only when CURRENT itself is absent, i.e. no
// checkpoint has been committed; a CURRENT naming a missing manifest is
// ErrDanglingCurrent instead.
func loadManifest(ctx context.Context, store blobstore.BlobStore) (*Manifest, error) {
	current, err := blobstore.ReadAll(ctx, store, CurrentName)
	if err != nil {
		return nil, err
	}

	data, err := blobstore.ReadAll(ctx, store, string(current))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrDanglingCurrent, current)
		}
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("checkpoint: decode manifest: %w", err)
	}
	if m.Version != CurrentVersion {
		return nil, fmt.Errorf("checkpoint: unsupported manifest version: %d (expected %d)", m.Version, CurrentVersion)
	}

	return &m, nil
}

// commitManifest writes the manifest blob, then flips CURRENT to it.
// On a LocalStore the flip is atomic via rename; on S3 use DDBCommitStore
// for compare-and-swap semantics across concurrent writers.
func commitManifest(ctx context.Context, store blobstore.BlobStore, m *Manifest) error {
	m.Version = CurrentVersion

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	name := manifestName(m.ID)
	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("checkpoint: write manifest: %w", err)
	}

	if err := store.Put(ctx, CurrentName, []byte(name)); err != nil {
		return fmt.Errorf("checkpoint: update CURRENT: %w", err)
	}

	return nil
}
