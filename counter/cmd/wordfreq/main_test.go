package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lepak.sg/wordfreq/hashtable"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runString(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name: "empty",
			want: "",
		},
		{
			name:  "no words",
			stdin: "12345 !!!",
			want:  "",
		},
		{
			name:  "one word",
			stdin: "a a a a a",
			args:  []string{"-k", "1"},
			want:  "5\ta\n",
		},
		{
			name:  "sentence",
			stdin: "the quick brown fox the lazy dog the",
			args:  []string{"-k", "3", "-ties", "word"},
			want:  "3\tthe\n1\tbrown\n1\tdog\n",
		},
		{
			name:  "xxhash",
			stdin: "B b a",
			args:  []string{"-hash", "xxhash", "-shift", "0", "-verify"},
			want:  "2\tb\n1\ta\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := runString(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
			assert.Empty(t, stderr)
		})
	}
}

func TestRun_DefaultK(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 26; i++ {
		for j := 0; j <= i; j++ {
			sb.WriteByte(byte('a' + i))
			sb.WriteByte(' ')
		}
	}

	stdout, _, err := runString(t, sb.String())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "26\tz", lines[0])
	assert.Equal(t, "17\tq", lines[9])
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()

	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	// no trailing separator: "ab" must not become one word
	require.NoError(t, os.WriteFile(a, []byte("one two a"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("b two"), 0o644))

	stdout, _, err := runString(t, "ignored ignored ignored", "-ties", "word", a, b)
	require.NoError(t, err)
	assert.Equal(t, "2\ttwo\n1\ta\n1\tb\n1\tone\n", stdout)

	_, _, err = runString(t, "", filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Stats(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 4; i++ {
		sb.WriteString(strings.Repeat("x", i+1))
		sb.WriteByte(' ')
	}

	_, stderr, err := runString(t, sb.String(), "-stats", "-shift", "1")
	require.NoError(t, err)

	assert.Contains(t, stderr, "wordfreq: --> grow hash table to 4 buckets.")
	assert.Contains(t, stderr, "wordfreq: --> grow hash table to 8 buckets.")
	assert.Contains(t, stderr, "Hash table size is 0 kb.")
	assert.Contains(t, stderr, "4 words, 4 distinct")
}

func TestRun_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
		code int
		// reported exactly once on stderr; empty if nothing is
		msg string
	}{
		{
			name: "not a number",
			args: []string{"-k", "abc"},
			want: errUsage,
			code: 2,
			msg:  "invalid value",
		},
		{
			name: "unknown flag",
			args: []string{"-frobnicate"},
			want: errUsage,
			code: 2,
			msg:  "flag provided but not defined",
		},
		{
			name: "negative k",
			args: []string{"-k", "-1"},
			want: errUsage,
			code: 2,
			msg:  "-k must not be negative",
		},
		{
			name: "unknown hash",
			args: []string{"-hash", "crc32"},
			want: errUsage,
			code: 2,
			msg:  `unknown hash "crc32"`,
		},
		{
			name: "unknown ties",
			args: []string{"-ties", "random"},
			want: errUsage,
			code: 2,
			msg:  `unknown tie order "random"`,
		},
		{
			name: "help",
			args: []string{"-h"},
			want: flag.ErrHelp,
			code: 2,
			msg:  "Usage of wordfreq",
		},
		{
			name: "shift too large",
			args: []string{"-shift", "99"},
			want: hashtable.ErrCapacityExceeded,
			code: 1,
		},
		{
			name: "shift cannot be allocated",
			args: []string{"-shift", strconv.Itoa(hashtable.MaxShift)},
			want: hashtable.ErrCapacityExceeded,
			code: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := runString(t, "some words", tt.args...)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, tt.code, exitCode(err))
			assert.Empty(t, stdout)

			if tt.msg == "" {
				// main prints these, run does not
				assert.Empty(t, stderr)
			} else {
				assert.Equal(t, 1, strings.Count(stderr, tt.msg), stderr)
				assert.Contains(t, stderr, "Usage of wordfreq")
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(os.ErrNotExist))
	assert.Equal(t, 2, exitCode(flag.ErrHelp))
	assert.Equal(t, 2, exitCode(errUsage))
}
