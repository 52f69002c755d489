package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/bits"
	"sort"

	"github.com/veclab/sqlitevec/pkg/sqlitevec"
)

// searchNearest runs a KNN query against one collection. With the
// extension loaded the distance computation happens inside SQLite; purego
// builds scan the collection and rank in Go.
func searchNearest(ctx context.Context, db *sql.DB, coll *Collection, query []byte, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		return []SearchResult{}, nil
	}
	if VectorExtensionAvailable {
		return searchNearestOptimized(ctx, db, coll, query, limit)
	}
	return searchNearestFallback(ctx, db, coll, query, limit)
}

// searchNearestOptimized queries the collection's vec0 shadow table. The
// metric is the vec0 default for the column type: L2 for float/int8
// columns, Hamming for bit columns.
func searchNearestOptimized(ctx context.Context, db *sql.DB, coll *Collection, query []byte, limit int) ([]SearchResult, error) {
	sqlQuery := fmt.Sprintf(`
		SELECT v.id, v.key, k.distance
		FROM (SELECT rowid, distance FROM %s WHERE embedding MATCH ? AND k = ?) k
		INNER JOIN vectors v ON v.id = k.rowid
		ORDER BY k.distance
	`, vecTableName(coll))

	rows, err := db.QueryContext(ctx, sqlQuery, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute vector search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]SearchResult, 0, limit)
	for rows.Next() {
		var result SearchResult
		if err := rows.Scan(&result.VectorID, &result.Key, &result.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// searchNearestFallback scans all vectors in the collection and computes
// distances in Go. Used when the extension is not compiled in.
func searchNearestFallback(ctx context.Context, db *sql.DB, coll *Collection, query []byte, limit int) ([]SearchResult, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, key, embedding FROM vectors WHERE collection_id = ?`, coll.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]SearchResult, 0)
	for rows.Next() {
		var id int64
		var key string
		var blob []byte
		if err := rows.Scan(&id, &key, &blob); err != nil {
			return nil, err
		}
		if len(blob) != len(query) {
			continue // stale row from a re-encoded collection, skip
		}

		dist, err := blobDistance(coll.Encoding, query, blob)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{VectorID: id, Key: key, Distance: dist})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

// blobDistance computes the same metric the vec0 default would use for
// the collection's column type.
func blobDistance(enc sqlitevec.Encoding, a, b []byte) (float64, error) {
	switch enc {
	case sqlitevec.EncodingFloat32:
		av, err := sqlitevec.DeserializeFloat32(a)
		if err != nil {
			return 0, err
		}
		bv, err := sqlitevec.DeserializeFloat32(b)
		if err != nil {
			return 0, err
		}
		return l2DistanceFloat32(av, bv), nil
	case sqlitevec.EncodingInt8:
		return l2DistanceInt8(sqlitevec.DeserializeInt8(a), sqlitevec.DeserializeInt8(b)), nil
	case sqlitevec.EncodingBit:
		return hammingDistance(a, b), nil
	default:
		return 0, fmt.Errorf("%w: %s", sqlitevec.ErrUnknownEncoding, enc)
	}
}

// l2DistanceFloat32 computes the Euclidean distance between two vectors
func l2DistanceFloat32(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// l2DistanceInt8 computes the Euclidean distance between two int8 vectors
func l2DistanceInt8(a, b []int8) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// hammingDistance counts differing bits between two packed bit vectors
func hammingDistance(a, b []byte) float64 {
	var count int
	for i := range a {
		count += bits.OnesCount8(a[i] ^ b[i])
	}
	return float64(count)
}
