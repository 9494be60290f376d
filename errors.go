package hapt

import (
	"errors"
	"fmt"
)

var (
	// ErrMemory is returned when a buffer for connectivity, normals,
	// centroids or the transient ordering state cannot be allocated.
	ErrMemory = errors.New("hapt: allocation failed")
	// ErrMalformedMesh is returned when the mesh input or its connectivity
	// is inconsistent, such as a face shared by more than two cells.
	ErrMalformedMesh = errors.New("hapt: malformed mesh")
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformedMesh}, args...)...)
}

// makeSlice allocates a zeroed slice of length n. Sizes that the runtime
// refuses to allocate are reported as ErrMemory instead of panicking.
func makeSlice[T any](n int, what string) (s []T, err error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative %s length %d", ErrMemory, what, n)
	}
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = fmt.Errorf("%w: %s of length %d: %v", ErrMemory, what, n, r)
		}
	}()
	return make([]T, n), nil
}
