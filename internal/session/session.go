// Package session owns one table for the lifetime of an editing session: it
// loads the table file (or seeds it from the default dataset), applies edit
// operations, and writes the table back after every change.
package session

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/calvinalkan/kvtable/internal/dataset"
	"github.com/calvinalkan/kvtable/internal/fs"
	"github.com/calvinalkan/kvtable/internal/table"
)

// DefaultOutputDir is where relative table paths resolve when no output
// directory is configured.
const DefaultOutputDir = "target"

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// lockSuffix is appended to the table path to form its lock file.
const lockSuffix = ".lock"

// Error variables for session operations.
var (
	ErrLoad               = errors.New("cannot load table")
	ErrSave               = errors.New("cannot save table")
	ErrNoPath             = errors.New("table has no file path")
	ErrDefaultUnavailable = errors.New("default table unavailable")
	ErrLocked             = errors.New("table is open in another session")
)

// Options configures [New]. Zero values select defaults.
type Options struct {
	// FS is the filesystem. Default: [fs.NewReal].
	FS fs.FS

	// Source provides the default table. Default: [dataset.Embedded].
	Source dataset.Source

	// DefaultName is the resource read from Source and the file name used
	// for an empty candidate path. Default: [dataset.DefaultName].
	DefaultName string

	// Generator produces random rows. Default: [table.NewGenerator].
	Generator table.RowGenerator

	// OutputDir is where relative table paths resolve. Default: [DefaultOutputDir].
	OutputDir string

	// Lock takes an exclusive lock on "<table path>.lock" in Initialize.
	Lock bool

	// Logger receives diagnostics. Default: discard.
	Logger *slog.Logger
}

// Session owns a table and its file.
type Session struct {
	fs          fs.FS
	source      dataset.Source
	defaultName string
	outputDir   string
	table       *table.Table
	locker      *fs.Locker
	lock        *fs.Lock
	log         *slog.Logger
}

// New returns a session holding an empty table.
func New(opts Options) *Session {
	if opts.FS == nil {
		opts.FS = fs.NewReal()
	}

	if opts.Source == nil {
		opts.Source = dataset.Embedded()
	}

	if opts.DefaultName == "" {
		opts.DefaultName = dataset.DefaultName
	}

	if opts.Generator == nil {
		opts.Generator = table.NewGenerator()
	}

	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		fs:          opts.FS,
		source:      opts.Source,
		defaultName: opts.DefaultName,
		outputDir:   opts.OutputDir,
		table:       table.New(opts.Generator),
		log:         opts.Logger,
	}

	if opts.Lock {
		s.locker = fs.NewLocker(opts.FS)
	}

	return s
}

// Table returns the session's table.
func (s *Session) Table() *table.Table {
	return s.table
}

// Path returns the file the table is saved to.
func (s *Session) Path() string {
	return s.table.Path()
}

// Resolve maps a candidate path to the table file: empty selects the default
// name, relative paths resolve under the output directory.
func (s *Session) Resolve(candidate string) string {
	if candidate == "" {
		candidate = s.defaultName
	}

	if filepath.IsAbs(candidate) {
		return filepath.Clean(candidate)
	}

	return filepath.Join(s.outputDir, candidate)
}

// Initialize binds the session to the table file for candidate.
//
// An existing file is loaded. Otherwise the default dataset is written to the
// resolved path and loaded; the path is bound even if that write fails, so
// later saves retry it.
//
// If the existing file cannot be loaded, the returned error matches [ErrLoad]
// and no path is bound, so saves fail with [ErrNoPath] instead of
// overwriting the unread file.
//
// If the default dataset cannot be read, the returned error matches
// [ErrDefaultUnavailable] and the table stays empty; the session remains
// usable.
func (s *Session) Initialize(candidate string) error {
	path := s.Resolve(candidate)

	err := s.acquireLock(path)
	if err != nil {
		return err
	}

	s.table.SetPath("")

	exists, err := s.fs.Exists(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	if exists {
		s.log.Debug("loading table", "path", path)

		err = s.Load(path)
		if err != nil {
			return err
		}

		s.table.SetPath(path)

		return nil
	}

	s.log.Debug("seeding table from default dataset", "path", path, "resource", s.defaultName)
	s.table.SetPath(path)

	return s.seed(path)
}

// Load replaces the table content with the rows decoded from path. On
// failure the current rows are kept.
func (s *Session) Load(path string) error {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	rows, err := table.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	s.table.Replace(rows)
	s.log.Debug("table loaded", "path", path, "rows", len(rows))

	return nil
}

// Save writes the table to its path. On failure the in-memory table is kept
// and the error matches [ErrSave].
func (s *Session) Save() error {
	path := s.table.Path()
	if path == "" {
		return fmt.Errorf("%w: %w", ErrSave, ErrNoPath)
	}

	err := s.write(path, table.EncodeBytes(s.table.Rows()))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	s.log.Debug("table saved", "path", path, "rows", s.table.Len())

	return nil
}

// Close releases the session lock, if any.
func (s *Session) Close() error {
	if s.lock == nil {
		return nil
	}

	err := s.lock.Close()
	s.lock = nil

	return err
}

func (s *Session) seed(path string) error {
	rc, err := s.source.Open(s.defaultName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDefaultUnavailable, err)
	}

	data, err := io.ReadAll(rc)
	_ = rc.Close()

	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", ErrDefaultUnavailable, s.defaultName, err)
	}

	rows, err := table.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDefaultUnavailable, err)
	}

	// The rows are usable even if the copy fails; the next save retries.
	s.table.Replace(rows)

	err = s.write(path, data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	return nil
}

func (s *Session) write(path string, data []byte) error {
	err := s.fs.MkdirAll(filepath.Dir(path), dirPerm)
	if err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	return s.fs.WriteFileAtomic(path, data, filePerm)
}

func (s *Session) acquireLock(path string) error {
	if s.locker == nil {
		return nil
	}

	err := s.Close()
	if err != nil {
		s.log.Warn("releasing previous table lock", "error", err)
	}

	lock, err := s.locker.TryLock(path + lockSuffix)
	if err != nil {
		if errors.Is(err, fs.ErrWouldBlock) {
			return fmt.Errorf("%w: %s", ErrLocked, path)
		}

		return fmt.Errorf("locking %s: %w", path, err)
	}

	s.lock = lock
	s.log.Debug("table locked", "lock", lock.Path())

	return nil
}
