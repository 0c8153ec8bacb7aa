package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrEmptyFile = errors.New("empty files are not allowed")

// ProfilePicStore keeps uploaded profile pictures on disk under random
// names, so an uploaded file name can never clash with or overwrite another
// user's picture.
type ProfilePicStore struct {
	dir string
}

// NewProfilePicStore creates the storage directory if needed.
func NewProfilePicStore(dir string) (*ProfilePicStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating profile picture directory: %w", err)
	}
	return &ProfilePicStore{dir: dir}, nil
}

// Save writes the uploaded file under a fresh UUID name, keeping the
// original extension, and returns the stored name.
func (p *ProfilePicStore) Save(r io.Reader, originalName string) (string, error) {
	name := uuid.NewString()
	if ext := filepath.Ext(originalName); ext != "" {
		name += strings.ToLower(ext)
	}

	f, err := os.Create(filepath.Join(p.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating profile picture file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing profile picture: %w", err)
	}
	if n == 0 {
		os.Remove(f.Name())
		return "", ErrEmptyFile
	}

	return name, nil
}

// Path returns the on-disk path for a stored name. The name is flattened to
// its base so a crafted value cannot escape the storage directory.
func (p *ProfilePicStore) Path(name string) string {
	return filepath.Join(p.dir, filepath.Base(name))
}

// Delete removes a stored picture.
func (p *ProfilePicStore) Delete(name string) error {
	return os.Remove(p.Path(name))
}

// IsSaved reports whether a picture with the given name exists on disk.
func (p *ProfilePicStore) IsSaved(name string) bool {
	info, err := os.Stat(p.Path(name))
	return err == nil && !info.IsDir()
}
