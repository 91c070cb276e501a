package util

func InPlaceFilter[T any](s *[]T, p func(T) bool) {
	i := 0
	for _, e := range *s {
		if p(e) {
			(*s)[i] = e
			i++
		}
	}
	*s = (*s)[:i]
}

// RemoveDuplicates keeps the first element for every key and drops elements
// whose key is empty.
func RemoveDuplicates[T any](items []T, key func(T) string) []T {
	present := make(map[string]bool)
	var list []T

	for _, item := range items {
		k := key(item)
		if k == "" || present[k] {
			continue
		}

		present[k] = true
		list = append(list, item)
	}

	return list
}
