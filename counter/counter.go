// Package counter counts occurrences of words in a stream
// and returns the k most frequent of them.
package counter

import (
	"fmt"

	"go.lepak.sg/wordfreq/chops"
	"go.lepak.sg/wordfreq/hashtable"
)

// DefaultShift gives a new counter 1<<DefaultShift buckets.
const DefaultShift = 10

// Counter counts words in a hashtable.Table, growing the table
// before it gets more than three quarters full.
// Counter is not safe for concurrent use.
type Counter struct {
	table  *hashtable.Table
	tokens uint

	// OnGrow, if not nil, is called after the table grows,
	// with the new number of buckets.
	OnGrow func(size int)
}

// New returns a Counter backed by an FNV-hashed table with 1<<shift buckets.
func New(shift int) (*Counter, error) {
	t, err := hashtable.New(shift)
	if err != nil {
		return nil, err
	}

	return NewWithTable(t), nil
}

// NewWithTable returns a Counter that counts into t.
// If t is not empty, Total will no longer equal Tokens.
func NewWithTable(t *hashtable.Table) *Counter {
	return &Counter{
		table: t,
	}
}

// Observe counts one occurrence of word.
//
// If word is already in the table, its count is incremented and
// the table is never grown. Otherwise, if inserting word would take
// the table above its threshold, the table is grown once first.
// Observe only fails if the table cannot grow any more.
func (c *Counter) Observe(word string) error {
	if e := c.table.Get(word); e != nil {
		e.Count++
		c.tokens++
		return nil
	}

	if c.table.Len()+1 > c.table.Threshold() {
		if err := c.table.Grow(); err != nil {
			return fmt.Errorf("counting %q: %w", word, err)
		}

		if c.OnGrow != nil {
			c.OnGrow(c.table.Size())
		}
	}

	c.table.Insert(hashtable.Entry{
		Key:   word,
		Count: 1,
	})
	c.tokens++

	return nil
}

// CountAll observes every word from it, then returns the first error
// from either Observe or the iterator itself.
func (c *Counter) CountAll(it chops.FallibleIterator[string]) error {
	var err error

	chops.ForEach[string](it, func(word string) bool {
		err = c.Observe(word)
		return err == nil
	})

	if err != nil {
		return err
	}

	return it.Err()
}

// Get returns the number of times word was observed.
func (c *Counter) Get(word string) uint {
	if e := c.table.Get(word); e != nil {
		return e.Count
	}
	return 0
}

// Len returns the number of distinct words observed.
func (c *Counter) Len() int {
	return c.table.Len()
}

// Tokens returns the number of words observed, counting repeats.
func (c *Counter) Tokens() uint {
	return c.tokens
}

// Total sums up all counts in the table. It always equals Tokens
// for a counter created with New.
func (c *Counter) Total() uint {
	var sum uint

	c.table.ForEach(func(e hashtable.Entry) bool {
		sum += e.Count
		return true
	})

	return sum
}

// Table returns the table backing the counter.
// Modifying it bypasses the counter's growth policy.
func (c *Counter) Table() *hashtable.Table {
	return c.table
}
