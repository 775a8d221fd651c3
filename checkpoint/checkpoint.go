// Package checkpoint persists split model state to blob storage.
//
// A checkpoint is a set of named groups (the output of flax.Split) written
// as one encoded blob per group, committed under a versioned manifest with
// an atomic CURRENT pointer. The manifest records, per group, a roaring
// bitmap of the entry ordinals it holds, so a load can verify that the
// groups still form a disjoint cover of the checkpoint without re-running
// any filters.
package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/borgorg/flax"
	"github.com/borgorg/flax/blobstore"
	"github.com/borgorg/flax/codec"
	"github.com/borgorg/flax/state"
)

// ErrGroupOverlap indicates the same path appears in more than one group.
type ErrGroupOverlap struct {
	Path state.Path
}

func (e *ErrGroupOverlap) Error() string {
	return fmt.Sprintf("checkpoint: path %q appears in more than one group", e.Path)
}

// ErrCorruptGroup indicates a loaded group does not match its manifest
// descriptor.
type ErrCorruptGroup struct {
	Name   string
	Reason string
}

func (e *ErrCorruptGroup) Error() string {
	return fmt.Sprintf("checkpoint: group %q corrupt: %s", e.Name, e.Reason)
}

// Group is a named, optionally filter-annotated set of flattened entries.
type Group struct {
	Name    string
	Filter  string // rendered filter literal, informational
	Entries state.Flat
}

// Checkpointer saves and loads checkpoints against a BlobStore.
// Safe for use by one writer at a time per store; wrap the store in
// s3.DDBCommitStore to detect concurrent writers on object storage.
type Checkpointer struct {
	store   blobstore.BlobStore
	codec   codec.Codec
	logger  *flax.Logger
	metrics flax.MetricsCollector
	limiter *byteLimiter
	workers int
}

// New creates a Checkpointer over the given store.
func New(store blobstore.BlobStore, optFns ...Option) *Checkpointer {
	c := &Checkpointer{
		store:   store,
		codec:   codec.Default,
		logger:  flax.NoopLogger(),
		metrics: flax.NoopMetricsCollector{},
		workers: 4,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(c)
		}
	}
	return c
}

// groupPayload is the encoded form of one group blob.
type groupPayload struct {
	Name    string        `json:"name"`
	Entries []state.Entry `json:"entries"`
}

// Save writes groups as a new checkpoint and commits its manifest.
// Group names must be unique and non-empty; group paths must be disjoint.
func (c *Checkpointer) Save(ctx context.Context, groups []Group) (m *Manifest, err error) {
	start := time.Now()
	var totalBytes int64
	defer func() {
		c.metrics.RecordSave(len(groups), totalBytes, time.Since(start), err)
		id := uint64(0)
		if m != nil {
			id = m.ID
		}
		c.logger.LogSave(ctx, id, len(groups), err)
	}()

	if err = validateNames(groups); err != nil {
		return nil, err
	}

	memberships, total, err := membershipBitmaps(groups)
	if err != nil {
		return nil, err
	}

	id := uint64(1)
	prev, err := loadManifest(ctx, c.store)
	switch {
	case err == nil:
		id = prev.ID + 1
	case errors.Is(err, blobstore.ErrNotFound):
		// First checkpoint in this store.
	default:
		return nil, err
	}

	infos := make([]GroupInfo, len(groups))
	blobs := make([][]byte, len(groups))
	for i, g := range groups {
		data, merr := c.codec.Marshal(groupPayload{Name: g.Name, Entries: g.Entries})
		if merr != nil {
			return nil, fmt.Errorf("checkpoint: encode group %q: %w", g.Name, merr)
		}
		blobs[i] = data
		totalBytes += int64(len(data))

		membership, berr := memberships[i].ToBytes()
		if berr != nil {
			return nil, fmt.Errorf("checkpoint: serialize membership for group %q: %w", g.Name, berr)
		}

		infos[i] = GroupInfo{
			Name:       g.Name,
			Filter:     g.Filter,
			Path:       fmt.Sprintf("groups/%06d-%s.blob", id, g.Name),
			EntryCount: len(g.Entries),
			Membership: membership,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range groups {
		i := i
		g.Go(func() error {
			if err := c.limiter.wait(gctx, len(blobs[i])); err != nil {
				return err
			}
			if err := c.store.Put(gctx, infos[i].Path, blobs[i]); err != nil {
				return fmt.Errorf("checkpoint: write group %q: %w", infos[i].Name, err)
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	m = &Manifest{
		ID:           id,
		Codec:        c.codec.Name(),
		CreatedAt:    time.Now().UTC(),
		TotalEntries: total,
		Groups:       infos,
	}
	if err = commitManifest(ctx, c.store, m); err != nil {
		return nil, err
	}

	return m, nil
}

// Load reads the current checkpoint and returns its groups in manifest
// order, verifying each group against its membership bitmap.
func (c *Checkpointer) Load(ctx context.Context) (groups []Group, m *Manifest, err error) {
	start := time.Now()
	var totalBytes int64
	defer func() {
		c.metrics.RecordLoad(len(groups), totalBytes, time.Since(start), err)
		id := uint64(0)
		if m != nil {
			id = m.ID
		}
		c.logger.LogLoad(ctx, id, len(groups), err)
	}()

	m, err = loadManifest(ctx, c.store)
	if err != nil {
		return nil, nil, err
	}

	dec, ok := codec.ByName(m.Codec)
	if !ok {
		return nil, nil, fmt.Errorf("checkpoint: unknown codec %q", m.Codec)
	}

	groups = make([]Group, len(m.Groups))
	sizes := make([]int64, len(m.Groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, info := range m.Groups {
		i, info := i, info
		g.Go(func() error {
			data, rerr := blobstore.ReadAll(gctx, c.store, info.Path)
			if rerr != nil {
				return fmt.Errorf("checkpoint: read group %q: %w", info.Name, rerr)
			}
			sizes[i] = int64(len(data))

			var payload groupPayload
			if derr := dec.Unmarshal(data, &payload); derr != nil {
				return &ErrCorruptGroup{Name: info.Name, Reason: derr.Error()}
			}
			if len(payload.Entries) != info.EntryCount {
				return &ErrCorruptGroup{
					Name:   info.Name,
					Reason: fmt.Sprintf("entry count %d, manifest says %d", len(payload.Entries), info.EntryCount),
				}
			}

			groups[i] = Group{Name: info.Name, Filter: info.Filter, Entries: payload.Entries}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, nil, err
	}
	for _, size := range sizes {
		totalBytes += size
	}

	if err = c.verifyMembership(m, groups); err != nil {
		return nil, nil, err
	}

	return groups, m, nil
}

// verifyMembership recomputes the membership bitmaps from the loaded
// groups and compares them with the manifest's.
func (c *Checkpointer) verifyMembership(m *Manifest, groups []Group) error {
	recomputed, total, err := membershipBitmaps(groups)
	if err != nil {
		return err
	}
	if total != m.TotalEntries {
		return &ErrCorruptGroup{
			Name:   "",
			Reason: fmt.Sprintf("total entries %d, manifest says %d", total, m.TotalEntries),
		}
	}

	for i, info := range m.Groups {
		stored := roaring.New()
		if err := stored.UnmarshalBinary(info.Membership); err != nil {
			return &ErrCorruptGroup{Name: info.Name, Reason: "unreadable membership bitmap"}
		}
		if !stored.Equals(recomputed[i]) {
			return &ErrCorruptGroup{Name: info.Name, Reason: "membership bitmap mismatch"}
		}
	}
	return nil
}

// membershipBitmaps assigns each entry its ordinal in flatten order across
// all groups and returns one bitmap per group. A path appearing in more
// than one group fails with ErrGroupOverlap.
func membershipBitmaps(groups []Group) ([]*roaring.Bitmap, int, error) {
	type slot struct {
		path  state.Path
		group int
	}

	var slots []slot
	for gi, g := range groups {
		for _, e := range g.Entries {
			slots = append(slots, slot{path: e.Path, group: gi})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].path.Compare(slots[j].path) < 0
	})

	bitmaps := make([]*roaring.Bitmap, len(groups))
	for i := range bitmaps {
		bitmaps[i] = roaring.New()
	}
	for ord, s := range slots {
		if ord > 0 && slots[ord-1].path.Compare(s.path) == 0 {
			return nil, 0, &ErrGroupOverlap{Path: s.path}
		}
		bitmaps[s.group].Add(uint32(ord))
	}

	return bitmaps, len(slots), nil
}

func validateNames(groups []Group) error {
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if g.Name == "" {
			return errors.New("checkpoint: group name must not be empty")
		}
		// Names are interpolated into blob paths; separators or dot
		// segments would escape the groups/ prefix.
		if strings.ContainsAny(g.Name, `/\`) || g.Name == "." || g.Name == ".." {
			return fmt.Errorf("checkpoint: invalid group name %q", g.Name)
		}
		if _, dup := seen[g.Name]; dup {
			return fmt.Errorf("checkpoint: duplicate group name %q", g.Name)
		}
		seen[g.Name] = struct{}{}
	}
	return nil
}
