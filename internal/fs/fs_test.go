package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func Test_Real_Exists_Distinguishes_Missing_And_Present(t *testing.T) {
	t.Parallel()

	fsys := NewReal()
	dir := t.TempDir()

	exists, err := fsys.Exists(filepath.Join(dir, "does-not-exist.txt"))
	if err != nil {
		t.Fatalf("Exists(missing): %v", err)
	}

	if exists {
		t.Fatal("Exists(missing)=true, want=false")
	}

	path := filepath.Join(dir, "exists.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	exists, err = fsys.Exists(path)
	if err != nil {
		t.Fatalf("Exists(present): %v", err)
	}

	if !exists {
		t.Fatal("Exists(present)=false, want=true")
	}
}

func Test_Real_WriteFileAtomic_Replaces_Content_And_Applies_Perm(t *testing.T) {
	t.Parallel()

	fsys := NewReal()
	path := filepath.Join(t.TempDir(), "table.txt")

	if err := fsys.WriteFileAtomic(path, []byte("a:1\n"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic(new): %v", err)
	}

	if err := fsys.WriteFileAtomic(path, []byte("b:2\n"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic(replace): %v", err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if got, want := string(data), "b:2\n"; got != want {
		t.Errorf("content=%q, want=%q", got, want)
	}

	info, err := fsys.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	if got, want := info.Mode().Perm(), os.FileMode(0o600); got != want {
		t.Errorf("perm=%v, want=%v", got, want)
	}
}

func Test_Faulty_Fails_Armed_Operations_Until_Healed(t *testing.T) {
	t.Parallel()

	faulty := NewFaulty(NewReal())
	path := filepath.Join(t.TempDir(), "table.txt")
	boom := errors.New("boom")

	faulty.Fail(OpWriteFileAtomic, boom)

	err := faulty.WriteFileAtomic(path, []byte("x"), 0o600)
	if !errors.Is(err, boom) || !IsInjected(err) {
		t.Fatalf("err=%v, want injected boom", err)
	}

	if exists, _ := faulty.Exists(path); exists {
		t.Fatal("failed write created the file")
	}

	faulty.Heal()

	if err := faulty.WriteFileAtomic(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("after Heal: %v", err)
	}

	if got, want := faulty.Calls(OpWriteFileAtomic), 2; got != want {
		t.Errorf("calls=%d, want=%d", got, want)
	}

	if IsInjected(os.ErrNotExist) {
		t.Error("IsInjected(os.ErrNotExist)=true")
	}
}

func Test_Locker_TryLock_Returns_ErrWouldBlock_When_Path_Is_Locked(t *testing.T) {
	t.Parallel()

	locker := NewLocker(NewReal())
	path := filepath.Join(t.TempDir(), "nested", "table.lock")

	lock1, err := locker.TryLock(path)
	if err != nil {
		t.Fatalf("TryLock(%q): %v", path, err)
	}
	t.Cleanup(func() { _ = lock1.Close() })

	if got, want := lock1.Path(), path; got != want {
		t.Errorf("Path()=%q, want=%q", got, want)
	}

	lock2, err := locker.TryLock(path)
	if !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("TryLock(%q) while locked: err=%v, want %v", path, err, ErrWouldBlock)
	}

	if lock2 != nil {
		_ = lock2.Close()
		t.Fatalf("TryLock(%q) while locked: want lock=nil, got non-nil", path)
	}

	if err := lock1.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}

	if err := lock1.Close(); err != nil {
		t.Fatalf("second Close(): %v", err)
	}

	lock3, err := locker.TryLock(path)
	if err != nil {
		t.Fatalf("TryLock(%q) after release: %v", path, err)
	}

	if err := lock3.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}
}
