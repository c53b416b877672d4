package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupSQLite(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "tasklist-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestKVBackendsGetSet(t *testing.T) {
	fileKV, err := NewFileKV(filepath.Join(t.TempDir(), "state", "tasks.json"))
	if err != nil {
		t.Fatalf("new file kv: %v", err)
	}
	backends := map[string]KV{
		"sqlite": setupSQLite(t),
		"file":   fileKV,
		"memory": NewMemoryKV(),
	}
	for name, kv := range backends {
		ctx := context.Background()
		if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
		if err := kv.Set(ctx, "k", "v1"); err != nil {
			t.Fatalf("%s: set: %v", name, err)
		}
		if err := kv.Set(ctx, "k", "v2"); err != nil {
			t.Fatalf("%s: overwrite: %v", name, err)
		}
		got, err := kv.Get(ctx, "k")
		if err != nil {
			t.Fatalf("%s: get: %v", name, err)
		}
		if got != "v2" {
			t.Fatalf("%s: got %q, want v2", name, got)
		}
	}
}

func TestSQLiteKVPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	kv, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := kv.Set(context.Background(), SnapshotKey, `[{"id":"a","text":"x","completed":false}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = kv.Close()

	again, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	got, err := again.Get(context.Background(), SnapshotKey)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got != `[{"id":"a","text":"x","completed":false}]` {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestFileKVReplacesCorruptFileOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	kv, err := NewFileKV(path)
	if err != nil {
		t.Fatalf("new file kv: %v", err)
	}
	if _, err := kv.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected parse error from corrupt file")
	}
	if err := kv.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("set over corrupt file: %v", err)
	}
	got, err := kv.Get(context.Background(), "k")
	if err != nil || got != "v" {
		t.Fatalf("get after rewrite = %q, %v", got, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected tmp file to be renamed away, stat err: %v", err)
	}
}

func TestNewFileKVRejectsEmptyPath(t *testing.T) {
	if _, err := NewFileKV("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenBackends(t *testing.T) {
	if _, err := ParseBackend("postgres"); err == nil {
		t.Fatal("expected unknown backend error")
	}
	b, err := ParseBackend(" SQLite ")
	if err != nil || b != BackendSQLite {
		t.Fatalf("ParseBackend = %q, %v", b, err)
	}
	kv, err := Open(BackendMemory, "")
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := kv.(*MemoryKV); !ok {
		t.Fatalf("expected *MemoryKV, got %T", kv)
	}
	kv, err = Open(BackendFile, filepath.Join(t.TempDir(), "f.json"))
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	if _, ok := kv.(*FileKV); !ok {
		t.Fatalf("expected *FileKV, got %T", kv)
	}
}
