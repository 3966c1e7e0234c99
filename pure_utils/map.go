package pure_utils

// Map returns a new slice with the same length as src, but with values
// transformed by f.
func Map[T, U any](src []T, f func(T) U) []U {
	us := make([]U, len(src))
	for i := range src {
		us[i] = f(src[i])
	}
	return us
}

// MapErr is Map for transforms that can fail; it stops at the first error.
func MapErr[T, U any](src []T, f func(T) (U, error)) ([]U, error) {
	us := make([]U, len(src))
	for i := range src {
		var err error
		us[i], err = f(src[i])
		if err != nil {
			return nil, err
		}
	}
	return us, nil
}

// Filter returns the elements of src for which f is true.
func Filter[T any](src []T, f func(T) bool) []T {
	us := make([]T, 0, len(src))
	for i := range src {
		if f(src[i]) {
			us = append(us, src[i])
		}
	}
	return us
}
