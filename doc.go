// Package flax partitions nested model-parameter state with filter
// predicates.
//
// Model state is a nested tree of variables (see package state). Flattening
// the tree yields an ordered list of (path, variable) entries; Split groups
// those entries by an ordered list of filter literals (see package
// filterlib), first match wins; Merge reassembles disjoint groups into one
// tree.
//
// # Quick Start
//
//	st := state.New()
//	_ = st.Set(state.ParsePath("encoder/kernel"), variable.Param(kernel))
//	_ = st.Set(state.ParsePath("encoder/mean"), variable.BatchStat(mean))
//
//	groups, err := flax.Split(st, variable.KindParam, flax.Everything)
//	// groups[0]: params, groups[1]: everything else
//
//	merged, err := flax.Merge(groups...)
//	// merged equals st
//
// # Filter Ordering
//
// Matching is first-match-wins: filter order encodes priority, and Split
// performs no reordering or specificity inference. A general filter placed
// before a more specific one absorbs the specific entries too, because a
// sub-kind also satisfies its ancestor's filter. Order literals from most
// specific to most general, and append flax.Everything last when the
// filters are not collectively exhaustive. Split fails on any unmatched
// entry rather than dropping it.
//
// # Checkpoints
//
// Package checkpoint persists split groups to pluggable blob storage
// (local filesystem, S3, MinIO) with a versioned manifest:
//
//	cp := checkpoint.New(blobstore.NewLocalStore(dir),
//	    checkpoint.WithCodec(codec.NewZstd(codec.JSON{})))
//	_, err := cp.Save(ctx, groups)
package flax
