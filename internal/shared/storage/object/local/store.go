// Package local implements object.Store on the local filesystem. It is the
// default in development when no S3 bucket is configured.
package local

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/teijeiro7/fitmycv/internal/shared/util"
)

type Store struct {
	root string
}

// New creates the root directory if needed and returns a filesystem-backed store.
func New(root string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "data/objects"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create object dir: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Save(ctx context.Context, name string, r io.Reader) (string, string, int64, error) {
	key := randomID() + "-" + objectName(name)
	mime, size, err := s.SaveWithKey(ctx, key, r)
	if err != nil {
		return "", "", 0, err
	}
	return key, mime, size, nil
}

func (s *Store) SaveWithKey(ctx context.Context, key string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	path, err := s.resolve(key)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", 0, fmt.Errorf("create object dir: %w", err)
	}

	// Sniff the content type from the first 512 bytes, then stream the rest.
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", 0, fmt.Errorf("read object: %w", err)
	}
	head = head[:n]
	mime := http.DetectContentType(head)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create object file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.MultiReader(strings.NewReader(string(head)), r))
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write object: %w", err)
	}
	return mime, written, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %q not found", key)
		}
		return nil, fmt.Errorf("open object: %w", err)
	}
	return f, nil
}

// resolve maps a key to an absolute path and rejects traversal outside root.
func (s *Store) resolve(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("empty object key")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

// objectName keeps keys inside filesystem name limits. Long upload names are
// replaced by a short digest that stays stable per input.
func objectName(name string) string {
	clean := util.SanitizeFilename(name)
	if len(clean) > 64 {
		clean = util.ShortHash(clean, 16) + strings.ToLower(filepath.Ext(clean))
	}
	return clean
}

func randomID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "0000000000000000"
	}
	return hex.EncodeToString(buf)
}
