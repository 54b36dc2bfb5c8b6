package piste

// sortedInsertPosition returns where item belongs in s, which must already be
// ordered by key. Among equal keys the rightmost position is chosen, so items
// with the same key keep their insertion order.
func sortedInsertPosition[T any](s []T, item T, key func(T) float64) int {
	n := len(s)
	if n == 0 {
		return 0
	}
	v := key(item)
	if v < key(s[0]) {
		return 0
	}
	if v >= key(s[n-1]) {
		return n
	}

	// Invariant: key(s[left]) <= v < key(s[right]).
	left, right := 0, n-1
	for left < right {
		mid := (left + right) / 2
		prevLeft, prevRight := left, right
		if key(s[mid]) <= v {
			left = mid
		} else {
			right = mid
		}
		// Bounds stopped moving: right is the first greater key.
		if left == prevLeft && right == prevRight {
			break
		}
	}
	return right
}

// InsertSorted inserts item into s, keeping s ordered by key, and returns the
// updated slice. Ties go after existing items with the same key.
func InsertSorted[T any](s []T, item T, key func(T) float64) []T {
	pos := sortedInsertPosition(s, item, key)
	var zero T
	s = append(s, zero)
	copy(s[pos+1:], s[pos:])
	s[pos] = item
	return s
}

// IndexSorted returns the index of item in s, or -1. s must be ordered by
// key. Items are matched by identity, so for pointer types two distinct
// values with the same key are never confused.
func IndexSorted[T comparable](s []T, item T, key func(T) float64) int {
	pos := sortedInsertPosition(s, item, key)
	if pos < len(s) && s[pos] == item {
		return pos
	}
	v := key(item)
	for i := pos - 1; i >= 0 && key(s[i]) == v; i-- {
		if s[i] == item {
			return i
		}
	}
	for i := pos + 1; i < len(s) && key(s[i]) == v; i++ {
		if s[i] == item {
			return i
		}
	}
	return -1
}

// RemoveSorted removes item from s by identity and returns the updated slice.
// Removing an absent item is a no-op.
func RemoveSorted[T comparable](s []T, item T, key func(T) float64) []T {
	i := IndexSorted(s, item, key)
	if i < 0 {
		return s
	}
	copy(s[i:], s[i+1:])
	var zero T
	s[len(s)-1] = zero
	return s[:len(s)-1]
}

// depthLess reports whether a paints strictly before b.
func depthLess(a, b *Entity) bool {
	if a.Layer != b.Layer {
		return a.Layer < b.Layer
	}
	if a.z != b.z {
		return a.z < b.z
	}
	return a.y < b.y
}

// SortByDepth orders sprites for painting by (layer, z, y), farthest first.
// Uses insertion sort: zero allocations, stable, and O(n) for the common case
// where the slice is already nearly sorted from the previous frame.
func SortByDepth(sprites []Sprite) {
	for i := 1; i < len(sprites); i++ {
		cur := sprites[i]
		key := cur.Base()
		j := i - 1
		for j >= 0 && depthLess(key, sprites[j].Base()) {
			sprites[j+1] = sprites[j]
			j--
		}
		sprites[j+1] = cur
	}
}

// spriteY is the key function for the stage's y-ordered collection.
func spriteY(s Sprite) float64 {
	return s.Base().y
}
