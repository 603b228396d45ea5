// Command wordfreq prints the most frequent words in its input.
//
// Usage:
//
//	wordfreq [flags] [file ...]
//
// With no files, wordfreq reads standard input. Each output line is
// a count, a tab, and a lowercase word, most frequent first.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.lepak.sg/wordfreq/counter"
	"go.lepak.sg/wordfreq/hashtable"
	"go.lepak.sg/wordfreq/tokenizer"
)

// errUsage marks command line errors. They have already been reported,
// along with the usage message, by the time parseFlags returns them.
var errUsage = errors.New("usage")

type config struct {
	k      int
	shift  int
	hash   hashtable.HashFunc
	byWord bool
	stats  bool
	verify bool
	files  []string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("wordfreq", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		k = fs.Int("k", counter.DefaultK,
			"how many words to print")
		shift = fs.Int("shift", counter.DefaultShift,
			"log2 of the initial number of hash table buckets")
		hashName = fs.String("hash", "fnv",
			"hash function for the table: fnv or xxhash")
		ties = fs.String("ties", "any",
			"order of words with equal counts: any or word")
		stats = fs.Bool("stats", false,
			"report table growth and statistics on stderr")
		verify = fs.Bool("verify", false,
			"check the hash table invariants after counting")
	)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		// the flag set has printed it
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	// report like the flag set does
	bad := func(format string, a ...any) error {
		err := fmt.Errorf(format, a...)
		fmt.Fprintln(fs.Output(), err)
		fs.Usage()
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if *k < 0 {
		return nil, bad("-k must not be negative")
	}

	h, ok := hashtable.HashByName(*hashName)
	if !ok {
		return nil, bad("unknown hash %q", *hashName)
	}

	var byWord bool
	switch *ties {
	case "any":
	case "word":
		byWord = true
	default:
		return nil, bad("unknown tie order %q", *ties)
	}

	return &config{
		k:      *k,
		shift:  *shift,
		hash:   h,
		byWord: byWord,
		stats:  *stats,
		verify: *verify,
		files:  fs.Args(),
	}, nil
}

func countFile(c *counter.Counter, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := c.CountAll(tokenizer.New(f)); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := log.New(stderr, "wordfreq: ", 0)

	tbl, err := hashtable.NewWithHash(cfg.shift, cfg.hash)
	if err != nil {
		return err
	}

	c := counter.NewWithTable(tbl)
	if cfg.stats {
		c.OnGrow = func(size int) {
			logger.Printf("--> grow hash table to %d buckets.", size)
		}
	}

	if len(cfg.files) == 0 {
		if err := c.CountAll(tokenizer.New(stdin)); err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
	}

	// one after another, so a word never spans two files
	for _, name := range cfg.files {
		if err := countFile(c, name); err != nil {
			return err
		}
	}

	if cfg.verify {
		if err := tbl.Verify(); err != nil {
			return err
		}
	}

	if cfg.stats {
		s := tbl.Stats()
		logger.Printf("Hash table size is %d kb.", s.BucketBytes/1024)
		logger.Printf("%d words, %d distinct, %d/%d buckets used, load %.2f, longest chain %d.",
			c.Tokens(), s.Len, s.UsedBuckets, s.Size, s.LoadFactor(), s.LongestChain)
	}

	var top []counter.Entry
	if cfg.byWord {
		top = c.TopKByWord(cfg.k)
	} else {
		top = c.TopK(cfg.k)
	}

	w := bufio.NewWriter(stdout)
	if err := counter.Print(w, top); err != nil {
		return err
	}
	return w.Flush()
}

// exitCode maps the result of run to an exit status: 2 for command line
// errors and -h, like the flag package, and 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp), errors.Is(err, errUsage):
		return 2
	default:
		return 1
	}
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "wordfreq: %v\n", err)
	os.Exit(1)
}

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch code := exitCode(err); code {
	case 0:
	case 1:
		die(err)
	default:
		// already reported with the usage message
		os.Exit(code)
	}
}
