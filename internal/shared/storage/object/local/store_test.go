package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpen(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	key, mime, size, err := store.Save(context.Background(), "notes.txt", strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("hello world")) {
		t.Fatalf("size = %d", size)
	}
	if !strings.HasPrefix(mime, "text/plain") {
		t.Fatalf("mime = %q", mime)
	}
	if !strings.HasSuffix(key, "-notes.txt") {
		t.Fatalf("key = %q", key)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("content = %q", data)
	}
}

func TestSaveShortensLongFilenames(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	name := strings.Repeat("a", 200) + ".docx"
	key, _, _, err := store.Save(context.Background(), name, strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(key) > 100 {
		t.Fatalf("key length = %d, want digest-shortened key", len(key))
	}
	if !strings.HasSuffix(key, ".docx") {
		t.Fatalf("key = %q, extension must survive", key)
	}

	if _, err := store.Open(context.Background(), key); err != nil {
		t.Fatalf("Open: %v", err)
	}
}

func TestSaveWithKeyOverwrites(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if _, _, err := store.SaveWithKey(ctx, "docs/a.txt", strings.NewReader("one")); err != nil {
		t.Fatalf("SaveWithKey: %v", err)
	}
	if _, _, err := store.SaveWithKey(ctx, "docs/a.txt", strings.NewReader("two")); err != nil {
		t.Fatalf("SaveWithKey overwrite: %v", err)
	}

	rc, err := store.Open(ctx, "docs/a.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "two" {
		t.Fatalf("content = %q, want overwrite", data)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := store.Open(context.Background(), "../outside"); err == nil {
		t.Fatal("expected error for traversal key")
	}
	if _, _, err := store.SaveWithKey(context.Background(), "/abs/path", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for absolute key")
	}
}
