// Package storage owns the plain-text log file. Every write replaces the
// whole file with the given entries; there is no append path.
package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/Tiliavir/memex/internal/codec"
	"github.com/Tiliavir/memex/internal/model"
)

// ErrStorage wraps every failure to read or write the log file.
var ErrStorage = errors.New("storage failure")

// MaxLineSize bounds a single log line, terminator excluded. Longer lines
// are skipped on load.
const MaxLineSize = 1 << 20

// Store holds the log file open for its whole lifetime.
type Store struct {
	path   string
	file   *os.File
	atomic bool
	log    zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithAtomicWrites makes Rewrite go through a temporary file and a rename
// instead of truncating the open file in place.
func WithAtomicWrites(atomic bool) Option {
	return func(s *Store) { s.atomic = atomic }
}

// WithLogger sets the logger used to report skipped lines.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// Open opens the log file at path, creating it and its directory if absent.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, atomic: true, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: creating directory for %s: %w", ErrStorage, path, err)
	}
	if err := s.reopen(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the log file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) reopen() error {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", ErrStorage, s.path, err)
	}
	if s.file != nil {
		_ = s.file.Close()
	}
	s.file = f
	return nil
}

// follow reopens the handle when the path no longer names the open file,
// e.g. after another process replaced it.
func (s *Store) follow() error {
	onDisk, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.reopen()
		}
		return fmt.Errorf("%w: stat %s: %w", ErrStorage, s.path, err)
	}
	open, err := s.file.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrStorage, s.path, err)
	}
	if os.SameFile(onDisk, open) {
		return nil
	}
	return s.reopen()
}

// Load decodes every non-blank line in file order. Lines that fail to decode
// are logged and skipped. Each loaded entry gets a fresh ID.
func (s *Store) Load() ([]model.Entry, error) {
	if err := s.follow(); err != nil {
		return nil, err
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seeking %s: %w", ErrStorage, s.path, err)
	}
	return decodeAll(s.file, s.log)
}

func decodeAll(r io.Reader, log zerolog.Logger) ([]model.Entry, error) {
	entries := []model.Entry{}
	br := bufio.NewReaderSize(r, 64*1024)
	for lineNo := 1; ; lineNo++ {
		line, tooLong, err := readLine(br)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: reading log: %w", ErrStorage, err)
		}
		switch {
		case tooLong:
			log.Warn().Int("line", lineNo).Int("limit", MaxLineSize).Msg("skipping over-long log line")
		case !isBlank(line):
			e, derr := codec.Decode(line)
			if derr != nil {
				log.Warn().Int("line", lineNo).Err(derr).Msg("skipping unreadable log line")
				break
			}
			e.ID = model.NewID()
			entries = append(entries, e)
		}
		if err == io.EOF {
			return entries, nil
		}
	}
}

// readLine returns the next line without its terminator. A line longer than
// MaxLineSize is consumed whole and reported as too long instead.
func readLine(br *bufio.Reader) (string, bool, error) {
	var line []byte
	tooLong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			line = append(line, chunk...)
			if len(bytes.TrimRight(line, "\r\n")) > MaxLineSize {
				tooLong, line = true, nil
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if tooLong {
			return "", true, err
		}
		return string(bytes.TrimSuffix(bytes.TrimSuffix(line, []byte("\n")), []byte("\r"))), false, err
	}
}

func isBlank(line string) bool {
	for _, r := range line {
		switch r {
		case ' ', '\t', '\r', '\v', '\f':
		default:
			return false
		}
	}
	return true
}

// Rewrite replaces the file contents with entries, one line each, in the
// given order, and flushes them to disk.
func (s *Store) Rewrite(entries []model.Entry) error {
	if s.atomic {
		return s.rewriteAtomic(entries)
	}
	return s.rewriteInPlace(entries)
}

func (s *Store) rewriteInPlace(entries []model.Entry) error {
	if err := s.file.Truncate(0); err != nil {
		return fmt.Errorf("%w: truncating %s: %w", ErrStorage, s.path, err)
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking %s: %w", ErrStorage, s.path, err)
	}
	if err := writeAll(s.file, entries); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("log file may be partially written")
		return fmt.Errorf("%w: writing %s: %w", ErrStorage, s.path, err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("%w: syncing %s: %w", ErrStorage, s.path, err)
	}
	return nil
}

// rewriteAtomic writes to a temp file then renames it over the log, so a
// failed write leaves the previous contents intact. The log keeps its
// permission bits.
func (s *Store) rewriteAtomic(entries []model.Entry) error {
	mode := os.FileMode(0o600)
	if fi, err := os.Stat(s.path); err == nil {
		mode = fi.Mode().Perm()
	}
	tmpPath := s.path + ".tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", ErrStorage, err)
	}
	fail := func(what string, err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s temp file: %w", ErrStorage, what, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fail("setting mode of", err)
	}
	if err := writeAll(tmp, entries); err != nil {
		return fail("writing", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: closing temp file: %w", ErrStorage, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: renaming temp file: %w", ErrStorage, err)
	}
	if err := syncDir(filepath.Dir(s.path)); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("could not sync log directory")
	}
	return s.reopen()
}

// syncDir flushes a directory entry change such as a rename.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

func writeAll(w io.Writer, entries []model.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(codec.Encode(e) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Close releases the file handle.
func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return fmt.Errorf("%w: closing %s: %w", ErrStorage, s.path, err)
	}
	return nil
}
