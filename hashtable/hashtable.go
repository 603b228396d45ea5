// Package hashtable implements a separately chained hash table from
// words to counts, whose bucket array is grown explicitly by the caller.
//
// Entries live in an arena (a slice) and chains link them by index,
// so growing the table only rewrites the links. Keys and counts are
// never copied or reallocated by Grow.
//
// Entries cannot be removed.
package hashtable

import (
	"errors"
	"fmt"
	"math/bits"
	"runtime"
	"strings"

	"go.lepak.sg/wordfreq/chops"
)

// MaxShift is the largest shift a table can have: the bucket count
// 1<<MaxShift is the largest power of two an int can hold.
// Tables that large still cannot be allocated on real machines; New and
// Grow report ErrCapacityExceeded for those too.
const MaxShift = bits.UintSize - 2

// nilIndex terminates a chain and marks an empty bucket.
const nilIndex = -1

var (
	// ErrCapacityExceeded is returned when a table would need more than
	// 1<<MaxShift buckets, or more than can be allocated.
	ErrCapacityExceeded = errors.New("hashtable: shift exceeds maximum")

	// ErrCorrupt is returned by Verify.
	ErrCorrupt = errors.New("hashtable: corrupt table")
)

// Entry is a key and its count.
type Entry struct {
	Key   string
	Count uint

	next int
}

// Table is a chained hash table with 1<<Shift() buckets.
// The zero value is not usable; create tables with New.
// Table is not safe for concurrent use.
type Table struct {
	// buckets[b] is the arena index of the head of chain b.
	buckets []int
	entries []Entry
	shift   int
	hash    HashFunc
	grows   int
}

// New returns an empty table with 1<<shift buckets that hashes keys with FNV.
func New(shift int) (*Table, error) {
	return NewWithHash(shift, FNV)
}

// NewWithHash is like New, but keys are hashed with h.
// If h is nil, FNV is used.
func NewWithHash(shift int, h HashFunc) (*Table, error) {
	if shift < 0 || shift > MaxShift {
		return nil, fmt.Errorf("%w: %d", ErrCapacityExceeded, shift)
	}

	if h == nil {
		h = FNV
	}

	buckets, err := newBuckets(shift)
	if err != nil {
		return nil, err
	}

	return &Table{
		buckets: buckets,
		shift:   shift,
		hash:    h,
	}, nil
}

// newBuckets allocates 1<<shift empty buckets. A length the runtime
// refuses outright is reported as ErrCapacityExceeded; running out of
// memory is still fatal.
func newBuckets(shift int) (b []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(runtime.Error)
			if !ok || !strings.Contains(rerr.Error(), "len out of range") {
				panic(r)
			}
			b, err = nil, fmt.Errorf("%w: %d buckets cannot be allocated", ErrCapacityExceeded, 1<<shift)
		}
	}()

	b = make([]int, 1<<shift)
	for i := range b {
		b[i] = nilIndex
	}
	return b, nil
}

// index returns the bucket for key in a bucket array of length n,
// which must be a power of two.
func (t *Table) index(key string, n int) int {
	return int(t.hash(key) & uint64(n-1))
}

// Get returns the entry with the given key, or nil if there is none.
// The count may be modified through the returned pointer.
// The pointer is only valid until the next call to Insert.
func (t *Table) Get(key string) *Entry {
	for i := t.buckets[t.index(key, len(t.buckets))]; i != nilIndex; i = t.entries[i].next {
		if t.entries[i].Key == key {
			return &t.entries[i]
		}
	}

	return nil
}

// Insert adds e to the front of its bucket's chain.
// Insert does not look for an existing entry with the same key:
// inserting a key that is already present breaks the table.
func (t *Table) Insert(e Entry) {
	t.entries = append(t.entries, e)
	t.link(t.buckets, len(t.entries)-1)
}

// link pushes entry i onto the front of its chain in buckets.
func (t *Table) link(buckets []int, i int) {
	b := t.index(t.entries[i].Key, len(buckets))
	t.entries[i].next = buckets[b]
	buckets[b] = i
}

// Grow doubles the number of buckets and moves every entry to its
// chain in the new bucket array. Chains are walked in bucket order,
// head first. If the table cannot grow, it is left as it was.
func (t *Table) Grow() error {
	if t.shift+1 > MaxShift {
		return fmt.Errorf("%w: cannot grow past %d", ErrCapacityExceeded, t.shift)
	}

	buckets, err := newBuckets(t.shift + 1)
	if err != nil {
		return err
	}

	for _, head := range t.buckets {
		for i := head; i != nilIndex; {
			// link overwrites next
			next := t.entries[i].next
			t.link(buckets, i)
			i = next
		}
	}

	t.buckets = buckets
	t.shift++
	t.grows++

	return nil
}

// Len returns the number of entries. This is a constant-time operation.
func (t *Table) Len() int {
	return len(t.entries)
}

// Size returns the number of buckets.
func (t *Table) Size() int {
	return len(t.buckets)
}

// Shift returns log2 of Size.
func (t *Table) Shift() int {
	return t.shift
}

// Threshold returns the largest number of entries the table should hold
// at its current size: three quarters of the bucket count.
func (t *Table) Threshold() int {
	return t.Size() / 4 * 3
}

// Iterator returns an iterator over the entries of the table.
// Entries are visited bucket by bucket in ascending order, and within
// a bucket from the most recently linked entry to the least.
// The table must not be modified while iterating.
func (t *Table) Iterator() *Iterator {
	return &Iterator{
		t:      t,
		bucket: -1,
		cur:    nilIndex,
	}
}

// ForEach calls f for every entry, in the same order as Iterator.
// If f returns false, the iteration stops.
func (t *Table) ForEach(f func(Entry) bool) {
	chops.ForEach[Entry](t.Iterator(), f)
}

var _ chops.Iterator[Entry] = (*Iterator)(nil)

// Iterator is a table iterator object. See Table.Iterator.
type Iterator struct {
	t      *Table
	bucket int
	cur    int
	steps  int
}

// Next advances the iterator and returns whether there is anything
// to be read with Item.
func (it *Iterator) Next() bool {
	t := it.t

	if it.cur != nilIndex {
		it.cur = t.entries[it.cur].next
	}

	for it.cur == nilIndex {
		if it.bucket+1 >= len(t.buckets) {
			it.bucket = len(t.buckets)
			return false
		}
		it.bucket++
		it.cur = t.buckets[it.bucket]
	}

	it.steps++
	if it.steps > len(t.entries) {
		// bug in the table, not in the caller
		panic("cycle detected, iteration will not end")
	}

	return true
}

// Item returns the current entry.
func (it *Iterator) Item() Entry {
	e := it.t.entries[it.cur]
	return Entry{
		Key:   e.Key,
		Count: e.Count,
	}
}

// Stats describes the shape of a table.
type Stats struct {
	Len   int
	Size  int
	Shift int
	// Grows counts calls to Grow that succeeded.
	Grows        int
	UsedBuckets  int
	LongestChain int
	// BucketBytes is the memory taken by the bucket array alone.
	BucketBytes int
}

// LoadFactor returns Len/Size.
func (s Stats) LoadFactor() float64 {
	if s.Size == 0 {
		return 0
	}
	return float64(s.Len) / float64(s.Size)
}

// Stats walks the table and returns its statistics.
func (t *Table) Stats() Stats {
	s := Stats{
		Len:         t.Len(),
		Size:        t.Size(),
		Shift:       t.shift,
		Grows:       t.grows,
		BucketBytes: t.Size() * (bits.UintSize / 8),
	}

	for _, head := range t.buckets {
		if head == nilIndex {
			continue
		}

		s.UsedBuckets++

		n := 0
		for i := head; i != nilIndex; i = t.entries[i].next {
			n++
		}
		if n > s.LongestChain {
			s.LongestChain = n
		}
	}

	return s
}

// Verify checks that every entry is in the chain its key hashes to,
// that no two entries share a key, and that every entry is reachable
// exactly once. It returns an error wrapping ErrCorrupt if not.
func (t *Table) Verify() error {
	if len(t.buckets) != 1<<t.shift {
		return fmt.Errorf("%w: %d buckets, shift %d", ErrCorrupt, len(t.buckets), t.shift)
	}

	seen := make([]bool, len(t.entries))
	keys := make(map[string]struct{}, len(t.entries))
	reached := 0

	for b, head := range t.buckets {
		for i := head; i != nilIndex; i = t.entries[i].next {
			if i < 0 || i >= len(t.entries) {
				return fmt.Errorf("%w: bucket %d links to entry %d of %d", ErrCorrupt, b, i, len(t.entries))
			}
			if seen[i] {
				return fmt.Errorf("%w: entry %d reached twice", ErrCorrupt, i)
			}
			seen[i] = true
			reached++

			e := &t.entries[i]
			if want := t.index(e.Key, len(t.buckets)); want != b {
				return fmt.Errorf("%w: key %q in bucket %d, hashes to %d", ErrCorrupt, e.Key, b, want)
			}
			if _, dup := keys[e.Key]; dup {
				return fmt.Errorf("%w: duplicate key %q", ErrCorrupt, e.Key)
			}
			keys[e.Key] = struct{}{}
		}
	}

	if reached != len(t.entries) {
		return fmt.Errorf("%w: %d of %d entries reachable", ErrCorrupt, reached, len(t.entries))
	}

	return nil
}
