// Package upload turns multipart request bodies into image files on disk.
package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MichaelDViau/Kunaay-Demo/internal/util"
)

// URLPrefix is the first element of every stored relative path.
// The router serves the uploads directory under /uploads.
const URLPrefix = "uploads"

// ErrNotManaged is returned by Remove for paths outside the uploads directory.
var ErrNotManaged = errors.New("path is not a managed upload")

// Storage writes uploaded images into one directory.
type Storage struct {
	dir  string
	nowF func() time.Time
}

// NewStorage creates dir if needed.
func NewStorage(dir string) (*Storage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{dir: abs, nowF: time.Now}, nil
}

// Dir is the absolute uploads directory.
func (s *Storage) Dir() string {
	return s.dir
}

// Save writes every image part to disk and returns their relative paths in
// the same order. Non-image parts and parts without a filename are skipped.
// A failure leaves files written so far in place.
func (s *Storage) Save(parts []Part) ([]string, error) {
	images := ImageParts(parts)
	paths := make([]string, 0, len(images))
	for _, p := range images {
		name, err := s.uniqueName(p.FileName)
		if err != nil {
			return nil, err
		}
		if err := writeNew(filepath.Join(s.dir, name), p.Content); err != nil {
			return nil, fmt.Errorf("save %q: %w", p.FileName, err)
		}
		paths = append(paths, URLPrefix+"/"+name)
	}
	return paths, nil
}

// Remove deletes a file previously returned by Save. Missing files are not an error.
func (s *Storage) Remove(relPath string) error {
	name, ok := strings.CutPrefix(filepath.ToSlash(relPath), URLPrefix+"/")
	if !ok || name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ErrNotManaged
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// uniqueName builds <unix-millis>_<8-hex>_<sanitized-name>.
func (s *Storage) uniqueName(original string) (string, error) {
	token, err := util.RandomHex(4)
	if err != nil {
		return "", err
	}
	ms := strconv.FormatInt(s.nowF().UnixMilli(), 10)
	return ms + "_" + token + "_" + SanitizeFilename(original), nil
}

// SanitizeFilename drops any directory components, whether '/' or '\' separated.
func SanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "image"
	}
	return name
}

func writeNew(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
