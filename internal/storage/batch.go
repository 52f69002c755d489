package storage

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/veclab/sqlitevec/pkg/sqlitevec"
)

// InsertFloat32Batch serializes and stores a batch of float32 vectors in
// one transaction. Serialization runs on a worker pool; the single writer
// connection does all the inserts. Only float32 collections take batches
// of raw values; other encodings insert pre-encoded blobs via
// InsertVector.
func (s *SQLiteStorage) InsertFloat32Batch(ctx context.Context, collection string, items []BatchItem) (int, error) {
	coll, err := s.GetCollection(ctx, collection)
	if err != nil {
		return 0, err
	}
	if coll.Encoding != sqlitevec.EncodingFloat32 {
		return 0, fmt.Errorf("%w: %q is %s", ErrEncodingMismatch, collection, coll.Encoding)
	}
	if len(items) == 0 {
		return 0, nil
	}

	// Encode concurrently into a pre-sized slice; no writes overlap.
	blobs := make([][]byte, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item := items[i]
			if len(item.Values) != coll.Dimensions {
				return fmt.Errorf("%w: item %q has %d dims, collection %q expects %d",
					ErrSizeMismatch, item.Key, len(item.Values), collection, coll.Dimensions)
			}
			blobs[i] = sqlitevec.SerializeFloat32(item.Values)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for i, item := range items {
		if _, err := s.insertVectorWithQuerier(ctx, tx, coll, item.Key, blobs[i]); err != nil {
			return 0, err
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return inserted, nil
}
