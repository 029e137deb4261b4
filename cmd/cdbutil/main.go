// main.go -- cdbutil: build, query, and inspect constant databases
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// cdbutil is the companion CLI for github.com/sherle-labs/go-cdb. It
// mirrors the shape of the teacher's example/mphdb.go (flag parsing,
// die/warn helpers, text-stream ingestion) but is restructured around
// three subcommands rather than one binary-per-mode:
//
//	cdbutil build  OUTPUT [INPUT ...]   build a database from text files or stdin
//	cdbutil get    DB KEY               print every value stored under KEY
//	cdbutil dump   DB                   print every record, and summary stats
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/opencoff/pflag"

	cdb "github.com/sherle-labs/go-cdb"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "build":
		err = cmdBuild(args)
	case "get":
		err = cmdGet(args)
	case "dump":
		err = cmdDump(args)
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		die("%s", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s build|get|dump [options] ...\n", os.Args[0])
}

func cmdBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	delim := fs.StringP("delim", "d", " \t", "field delimiter between key and value")
	stats := fs.BoolP("stats", "s", false, "write a <OUTPUT>.stats sidecar")
	useMmap := fs.BoolP("mmap", "m", false, "mmap reads (no effect here: build only writes OUTPUT)")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("cdbutil build: missing OUTPUT")
	}
	out := rest[0]
	inputs := rest[1:]

	f := &cdb.File{UseMmap: *useMmap}
	w, err := cdb.Create(f.Adapter(cdb.Size32), out)
	if err != nil {
		return fmt.Errorf("cdbutil build: create %s: %w", out, err)
	}

	if len(inputs) > 0 {
		for _, in := range inputs {
			fh, err := os.Open(in)
			if err != nil {
				warn("skipping %s: %s", in, err)
				continue
			}
			n, err := addTextStream(w, fh, *delim)
			fh.Close()
			if err != nil {
				warn("%s: %s", in, err)
				continue
			}
			fmt.Printf("+ %s: %d records\n", in, n)
		}
	} else {
		n, err := addTextStream(w, os.Stdin, *delim)
		if err != nil {
			w.Abort()
			return fmt.Errorf("cdbutil build: stdin: %w", err)
		}
		fmt.Printf("+ <stdin>: %d records\n", n)
	}

	if err := w.Status(); err != nil {
		w.Abort()
		return err
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("cdbutil build: close: %w", err)
	}
	s := w.Stats()

	fmt.Printf("%s: %d records, %d/%d buckets occupied, max chain %d\n",
		out, s.Records, s.OccupiedBucket, s.Buckets, s.MaxChain)

	if *stats {
		sf, err := os.Create(out + ".stats")
		if err != nil {
			return fmt.Errorf("cdbutil build: stats: %w", err)
		}
		defer sf.Close()
		if err := s.MarshalBinary(sf); err != nil {
			return fmt.Errorf("cdbutil build: stats: %w", err)
		}
	}

	return nil
}

// record is one parsed input line, mirroring the teacher's DBWriter
// record type used across its Add*Stream producer goroutines.
type record struct {
	key []byte
	val []byte
}

// addTextStream parses whitespace/delim-separated "key value" lines from
// fd on a producer goroutine and feeds them to w on the caller's
// goroutine, the same asynchronous-scan-then-drain shape as the teacher's
// DBWriter.AddTextStream.
func addTextStream(w *cdb.Writer, fd io.Reader, delim string) (uint64, error) {
	sc := bufio.NewScanner(fd)
	ch := make(chan *record, 16)

	go func() {
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if len(line) == 0 {
				continue
			}
			i := strings.IndexAny(line, delim)
			if i < 0 {
				continue
			}
			ch <- &record{key: []byte(line[:i]), val: []byte(strings.TrimLeft(line[i+1:], delim))}
		}
		close(ch)
	}()

	var n uint64
	for r := range ch {
		if err := w.Add(r.key, r.val); err != nil {
			return n, err
		}
		n++
	}
	return n, sc.Err()
}

func cmdGet(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	useMmap := fs.BoolP("mmap", "m", false, "read via mmap")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 2 {
		return fmt.Errorf("cdbutil get: usage: get DB KEY")
	}

	f := &cdb.File{UseMmap: *useMmap}
	r, err := cdb.Open(f.Adapter(cdb.Size32), rest[0])
	if err != nil {
		return fmt.Errorf("cdbutil get: %w", err)
	}
	defer r.Close()

	key := []byte(rest[1])
	n, err := r.Count(key)
	if err != nil {
		return err
	}
	if n == 0 {
		return cdb.ErrNotFound
	}

	for i := 0; i < n; i++ {
		v, err := r.Lookup(key, i)
		if err != nil {
			return err
		}
		fmt.Println(string(v))
	}
	return nil
}

func cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("cdbutil dump: usage: dump DB")
	}

	fi, err := os.Stat(rest[0])
	if err != nil {
		return err
	}

	f := &cdb.File{}
	r, err := cdb.Open(f.Adapter(cdb.Size32), rest[0])
	if err != nil {
		return fmt.Errorf("cdbutil dump: %w", err)
	}
	defer r.Close()

	var n int
	err = r.ForEach(func(key, value []byte) (bool, error) {
		fmt.Printf("%s\t%s\n", key, value)
		n++
		return true, nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("-- %d records, %s\n", n, humansize(uint64(fi.Size())))
	return nil
}

func die(f string, v ...interface{}) {
	warn(f, v...)
	os.Exit(1)
}

func warn(f string, v ...interface{}) {
	s := fmt.Sprintf(f, v...)
	if n := len(s); n == 0 || s[n-1] != '\n' {
		s += "\n"
	}
	fmt.Fprintf(os.Stderr, "%s: %s", os.Args[0], s)
}
