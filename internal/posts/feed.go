package posts

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tedhz/LeTeam/internal/docstore"
	"github.com/tedhz/LeTeam/internal/observability"
)

// feedChunkSize bounds the owner-id membership filter per query. This is the
// store's hard cap, not a tunable.
const feedChunkSize = docstore.InLimit

// GetFeedPosts assembles the self-inclusive home feed for userID: the full
// following set plus the user, chunked to the membership-query cap, one query
// per chunk in parallel, each truncated to limit before the merge. The first
// chunk failure aborts the whole aggregation; no partial feed is returned.
//
// Truncating per chunk before merging can under-represent owners that share a
// chunk with a very prolific one. That trade-off is deliberate: fetching
// unbounded per-chunk results to sort globally would change resource usage.
func (s *Store) GetFeedPosts(ctx context.Context, userID string, limit int) ([]Post, error) {
	started := time.Now()

	follows, err := s.db.Query(ctx, docstore.Query{Collection: followsCollection(userID)})
	if err != nil {
		return nil, fmt.Errorf("following set for %s: %w", userID, err)
	}

	ids := make([]string, 0, len(follows)+1)
	for _, snap := range follows {
		ids = append(ids, snap.ID)
	}
	ids = append(ids, userID)

	chunks := chunkIDs(dedupe(ids), feedChunkSize)
	if len(chunks) == 0 {
		return []Post{}, nil
	}

	chunkPosts := make([][]Post, len(chunks))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		group.Go(func() error {
			snaps, err := s.db.Query(groupCtx, docstore.Query{
				Collection: "posts",
				Filters: []docstore.Filter{
					{Field: "ownerUserId", Op: docstore.OpIn, Value: chunk},
				},
				OrderBy: "createdAt",
				Desc:    true,
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			result := make([]Post, 0, len(snaps))
			for _, snap := range snaps {
				result = append(result, postFromSnapshot(snap))
			}
			chunkPosts[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		observability.RecordFeedFailure()
		return nil, fmt.Errorf("feed for %s: %w", userID, err)
	}

	merged := make([]Post, 0)
	for _, chunk := range chunkPosts {
		merged = append(merged, chunk...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}

	observability.ObserveFeedFanout(len(chunks), time.Since(started))
	return merged, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func chunkIDs(ids []string, size int) [][]string {
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
