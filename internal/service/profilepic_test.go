package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestPicStore(t *testing.T) *ProfilePicStore {
	t.Helper()
	store, err := NewProfilePicStore(filepath.Join(t.TempDir(), "pics"))
	if err != nil {
		t.Fatalf("NewProfilePicStore() unexpected error: %v", err)
	}
	return store
}

func TestProfilePicStoreSaveAndLoad(t *testing.T) {
	store := newTestPicStore(t)

	name, err := store.Save(strings.NewReader("png-bytes"), "Photo.PNG")
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("Save() name = %q, want lowercased .png extension", name)
	}
	if !store.IsSaved(name) {
		t.Error("IsSaved() = false for saved file")
	}

	data, err := os.ReadFile(store.Path(name))
	if err != nil {
		t.Fatalf("ReadFile() unexpected error: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored content = %q, want %q", data, "png-bytes")
	}
}

func TestProfilePicStoreRejectsEmptyFile(t *testing.T) {
	store := newTestPicStore(t)

	if _, err := store.Save(strings.NewReader(""), "empty.png"); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("Save() error = %v, want ErrEmptyFile", err)
	}
}

func TestProfilePicStoreNamesNeverCollide(t *testing.T) {
	store := newTestPicStore(t)

	a, err := store.Save(strings.NewReader("one"), "same.png")
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	b, err := store.Save(strings.NewReader("two"), "same.png")
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if a == b {
		t.Error("Save() reused a stored name for two uploads")
	}
}

func TestProfilePicStorePathEscapesNothing(t *testing.T) {
	store := newTestPicStore(t)

	path := store.Path("../../etc/passwd")
	if strings.Contains(path, "..") {
		t.Errorf("Path() = %q leaks traversal segments", path)
	}
}

func TestProfilePicStoreDelete(t *testing.T) {
	store := newTestPicStore(t)

	name, err := store.Save(strings.NewReader("bytes"), "x.png")
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if err := store.Delete(name); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if store.IsSaved(name) {
		t.Error("IsSaved() = true after Delete()")
	}
}
