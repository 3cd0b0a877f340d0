package slices

import "github.com/zeebo/errs"

// Chunk splits v into consecutive slices of at most n elements, keeping order.
// The chunks share v's backing array.
func Chunk[T any](n int, v []T) ([][]T, error) {
	if n <= 0 {
		return nil, errs.New("n:%d must be greater than zero", n)
	}

	if len(v) == 0 {
		return [][]T{}, nil
	}

	b := make([][]T, 0, (len(v)+n-1)/n)
	for start := 0; start < len(v); start += n {
		end := min(start+n, len(v))
		b = append(b, v[start:end:end])
	}

	return b, nil
}
