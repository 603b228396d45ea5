package counter

import (
	"fmt"
	"io"

	"go.lepak.sg/wordfreq/chops"
	"go.lepak.sg/wordfreq/hashtable"
	"golang.org/x/exp/slices"
)

// DefaultK is how many words are usually reported.
const DefaultK = 10

// Entry represents a word-count pair.
type Entry struct {
	Word  string
	Count uint
}

// sorted copies every table entry into a slice, in table iteration
// order, and sorts it with less. The sort is not stable.
func (c *Counter) sorted(less func(a, b Entry) bool) []Entry {
	all := make([]hashtable.Entry, 0, c.table.Len())
	all = chops.Collect[hashtable.Entry](c.table.Iterator(), all)

	out := make([]Entry, len(all))
	for i, e := range all {
		out[i] = Entry{
			Word:  e.Key,
			Count: e.Count,
		}
	}

	slices.SortFunc(out, less)

	return out
}

func (c *Counter) topk(k int, less func(a, b Entry) bool) []Entry {
	if k < 0 {
		panic("k is negative")
	}

	if k == 0 || c.table.Len() == 0 {
		return []Entry{}
	}

	out := c.sorted(less)
	if k < len(out) {
		out = out[:k]
	}

	return out
}

func byCount(a, b Entry) bool {
	return a.Count > b.Count
}

func byCountThenWord(a, b Entry) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Word < b.Word
}

// TopK returns the k most frequent words, or all of them if there are
// fewer than k. The returned entries are in descending order of count.
// If two words have the same count, their relative order in
// the returned slice is undefined, however they will be after
// all words that occur more frequently.
// The counter is not modified.
func (c *Counter) TopK(k int) []Entry {
	return c.topk(k, byCount)
}

// TopKByWord is like TopK, but words with the same count
// are in lexicographic order.
func (c *Counter) TopKByWord(k int) []Entry {
	return c.topk(k, byCountThenWord)
}

// Print writes one line per entry to w, in the form "<count>\t<word>\n".
func Print(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", e.Count, e.Word); err != nil {
			return err
		}
	}
	return nil
}
