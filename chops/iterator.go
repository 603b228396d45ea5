// Package chops provides the pull-style iteration protocol shared by
// the tokenizer and the hash table, and a few helpers that consume it.
package chops

// Iterator describes some iterator over a data structure or stream.
// Next must be called before the first Item, and Item is only valid
// while the last call to Next returned true.
type Iterator[T any] interface {
	Next() bool
	Item() T
}

// FallibleIterator is an Iterator over a source that can fail part way,
// such as an io.Reader. Once Next returns false, Err reports whether
// iteration ended because the source was exhausted (nil) or because
// it failed.
type FallibleIterator[T any] interface {
	Iterator[T]
	Err() error
}

// ForEach calls f with every item of the iterator, in order.
// If f returns false, iteration stops early and the iterator
// is left where it was.
func ForEach[T any](it Iterator[T], f func(T) bool) {
	if it == nil {
		return
	}

	for it.Next() {
		if !f(it.Item()) {
			return
		}
	}
}

// Collect appends every remaining item of the iterator to dst
// and returns the extended slice.
func Collect[T any](it Iterator[T], dst []T) []T {
	ForEach(it, func(item T) bool {
		dst = append(dst, item)
		return true
	})

	return dst
}

// Drain consumes a fallible iterator completely, discarding the items,
// and returns the number of items seen and the iterator's error.
func Drain[T any](it FallibleIterator[T]) (int, error) {
	n := 0
	ForEach[T](it, func(T) bool {
		n++
		return true
	})

	return n, it.Err()
}
