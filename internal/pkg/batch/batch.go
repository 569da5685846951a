// Package batch splits key lists into fixed-size chunks so store requests stay
// below backend query-size limits.
package batch

import (
	"context"
	"fmt"
)

// Chunk splits items into consecutive slices of at most size elements.
// The returned slices share the backing array of items.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	if len(items) == 0 {
		return nil
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// Collect calls fetch once per chunk of keys, in order, and concatenates the
// results. The first error aborts the remaining chunks.
func Collect[K, V any](ctx context.Context, keys []K, size int, fetch func(ctx context.Context, chunk []K) ([]V, error)) ([]V, error) {
	var out []V
	for i, chunk := range Chunk(keys, size) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		values, err := fetch(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		out = append(out, values...)
	}
	return out, nil
}
