package fs

import (
	"errors"
	"os"
	"sync"
)

// Op names an [FS] method for fault injection.
type Op string

// Operations [Faulty] can fail.
const (
	OpOpenFile        Op = "openfile"
	OpReadFile        Op = "readfile"
	OpWriteFileAtomic Op = "writefileatomic"
	OpMkdirAll        Op = "mkdirall"
	OpStat            Op = "stat"
	OpExists          Op = "exists"
)

// InjectedError marks an error as intentionally injected by [Faulty].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Op  Op
	Err error
}

// Error returns the underlying error's message.
func (e *InjectedError) Error() string {
	return string(e.Op) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Faulty].
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// Faulty wraps an [FS] and fails the operations armed with [Faulty.Fail].
// Unarmed operations pass through. Safe for concurrent use.
type Faulty struct {
	inner FS

	mu    sync.Mutex
	fails map[Op]error
	calls map[Op]int
}

// NewFaulty returns a Faulty over inner with nothing armed.
func NewFaulty(inner FS) *Faulty {
	return &Faulty{inner: inner, fails: map[Op]error{}, calls: map[Op]int{}}
}

// Fail arms op to return err (wrapped in [InjectedError]) until [Faulty.Heal].
func (f *Faulty) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fails[op] = err
}

// Heal disarms every operation.
func (f *Faulty) Heal() {
	f.mu.Lock()
	defer f.mu.Unlock()

	clear(f.fails)
}

// Calls returns how often op was invoked, including failed calls.
func (f *Faulty) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

func (f *Faulty) check(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	if err, ok := f.fails[op]; ok {
		return &InjectedError{Op: op, Err: err}
	}

	return nil
}

func (f *Faulty) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if err := f.check(OpOpenFile); err != nil {
		return nil, err
	}

	return f.inner.OpenFile(path, flag, perm)
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.check(OpReadFile); err != nil {
		return nil, err
	}

	return f.inner.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.check(OpWriteFileAtomic); err != nil {
		return err
	}

	return f.inner.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdirAll); err != nil {
		return err
	}

	return f.inner.MkdirAll(path, perm)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	if err := f.check(OpStat); err != nil {
		return nil, err
	}

	return f.inner.Stat(path)
}

func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.check(OpExists); err != nil {
		return false, err
	}

	return f.inner.Exists(path)
}

// Compile-time interface check.
var _ FS = (*Faulty)(nil)
