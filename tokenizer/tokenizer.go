// Package tokenizer splits a byte stream into lowercase ASCII words.
//
// A word is a maximal run of the letters A-Z and a-z. Every other byte,
// including every byte of a multi-byte UTF-8 sequence, separates words.
// There is no such thing as malformed input.
package tokenizer

import (
	"bufio"
	"io"

	"go.lepak.sg/wordfreq/chops"
)

var _ chops.FallibleIterator[string] = (*Tokenizer)(nil)

// Tokenizer is a lazy, non-restartable sequence of words read from
// an io.Reader. Use it like any other iterator:
//
//	tok := tokenizer.New(r)
//	for tok.Next() {
//		word := tok.Item()
//		// ...
//	}
//	if err := tok.Err(); err != nil {
//		// ...
//	}
//
// Only the word being read is held in memory.
// Tokenizer is not safe for concurrent use.
type Tokenizer struct {
	r    io.ByteReader
	buf  []byte
	item string
	err  error
	done bool
}

// New returns a Tokenizer reading from r. If r is not already an
// io.ByteReader, it is wrapped in a bufio.Reader, which may read
// ahead of the last word returned.
func New(r io.Reader) *Tokenizer {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	return &Tokenizer{
		r: br,
	}
}

// Next reads the next word and reports whether there was one.
// It returns false at the end of the stream or after a read error,
// and keeps returning false after that.
func (t *Tokenizer) Next() bool {
	if t.done {
		t.item = ""
		return false
	}

	t.buf = t.buf[:0]
	for {
		c, err := t.r.ReadByte()
		if err != nil {
			if err != io.EOF {
				t.err = err
			}
			t.done = true
			break
		}

		if isAlpha(c) {
			t.buf = append(t.buf, toLower(c))
		} else if len(t.buf) > 0 {
			break
		}
	}

	// a word cut short by a read error is still a word
	if len(t.buf) == 0 {
		t.item = ""
		return false
	}

	t.item = string(t.buf)
	return true
}

// Item returns the word read by the last successful call to Next.
func (t *Tokenizer) Item() string {
	return t.item
}

// Err returns the first read error other than io.EOF.
func (t *Tokenizer) Err() error {
	return t.err
}

// Words reads r to the end and returns all of its words in order.
func Words(r io.Reader) ([]string, error) {
	t := New(r)
	words := chops.Collect[string](t, nil)
	return words, t.Err()
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func toLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
