package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	FolderCover        = "cover-buku"
	FolderPaymentProof = "bukti-pembayaran"
	FolderQRIS         = "qris"
	FolderProfile      = "profil"

	uploadsDir = "uploads"

	MaxFileSize = 5 << 20
)

var (
	ErrUnknownFolder = errors.New("unknown upload folder")
	ErrEmptyFile     = errors.New("empty file")
	ErrTooLarge      = errors.New("file too large")
)

var folders = map[string]struct{}{
	FolderCover:        {},
	FolderPaymentProof: {},
	FolderQRIS:         {},
	FolderProfile:      {},
}

// Store writes uploads below <PublicDir>/uploads.
type Store struct {
	PublicDir string
	Now       func() time.Time
}

func New(publicDir string) *Store {
	return &Store{PublicDir: publicDir, Now: time.Now}
}

// SanitizeName keeps [A-Za-z0-9._-] and replaces everything else with '_'.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		return "file"
	}
	return out
}

// Save stores fh under folder and returns its public path,
// /uploads/<folder>/<epoch-ms>-<name>.
func (s *Store) Save(fh *multipart.FileHeader, folder string) (string, error) {
	if _, ok := folders[folder]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFolder, folder)
	}
	if fh.Size > MaxFileSize {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if len(data) > MaxFileSize {
		return "", ErrTooLarge
	}

	dir := filepath.Join(s.PublicDir, uploadsDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := strconv.FormatInt(s.Now().UnixMilli(), 10) + "-" + SanitizeName(fh.Filename)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return path.Join("/", uploadsDir, folder, name), nil
}

// Remove deletes a file previously returned by Save. Paths outside the
// uploads tree are refused; missing files are not an error.
func (s *Store) Remove(publicPath string) error {
	trimmed := strings.TrimSpace(publicPath)
	if trimmed == "" {
		return nil
	}

	cleanRel := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(trimmed, "/")), "/")
	if !strings.HasPrefix(cleanRel, uploadsDir+"/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", publicPath)
	}

	base := filepath.Clean(filepath.Join(s.PublicDir, uploadsDir))
	target := filepath.Clean(filepath.Join(s.PublicDir, filepath.FromSlash(cleanRel)))
	if !strings.HasPrefix(target, base+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside uploads: %s", publicPath)
	}

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsLocal reports whether p points into the uploads tree rather than an
// external URL.
func IsLocal(p string) bool {
	return strings.HasPrefix(p, "/"+uploadsDir+"/")
}
