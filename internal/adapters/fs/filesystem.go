package fs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem implements ports.FileSystem on the local disk.
type FileSystem struct {
	walker  *Walker
	hasher  *Hasher
	matcher *Matcher
}

// NewFileSystem creates a new FileSystem.
func NewFileSystem(walker *Walker, hasher *Hasher, matcher *Matcher) *FileSystem {
	return &FileSystem{walker: walker, hasher: hasher, matcher: matcher}
}

// Copy copies every file below req.SrcRoot matching one of req.Patterns into
// req.DstRoot. Destination files already holding the same content are left untouched.
func (f *FileSystem) Copy(ctx context.Context, req domain.CopyRequest) ([]domain.FileDigest, error) {
	var matched []string
	for rel, err := range f.walker.WalkFiles(req.SrcRoot, req.Excludes) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrFileCopyFailed.Error()), "path", req.SrcRoot)
		}
		if f.matcher.Match(req.Patterns, rel) {
			matched = append(matched, rel)
		}
	}
	sort.Strings(matched)

	digests := make([]domain.FileDigest, 0, len(matched))
	for _, rel := range matched {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if slices.Contains(req.Reserved, rel) {
			return nil, zerr.With(domain.ErrReservedPath, "path", rel)
		}

		src := filepath.Join(req.SrcRoot, filepath.FromSlash(rel))
		dst := filepath.Join(req.DstRoot, filepath.FromSlash(rel))
		sum, err := f.copyFile(src, dst)
		if err != nil {
			return nil, err
		}
		digests = append(digests, domain.FileDigest{Path: rel, Digest: Digest(sum)})
	}
	return digests, nil
}

func (f *FileSystem) copyFile(src, dst string) (uint64, error) {
	sum, err := f.hasher.ComputeFileHash(src)
	if err != nil {
		return 0, err
	}
	if existing, err := f.hasher.ComputeFileHash(dst); err == nil && existing == sum {
		return sum, nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileCopyFailed.Error()), "path", dst)
	}

	in, err := os.Open(src) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileCopyFailed.Error()), "path", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileCopyFailed.Error()), "path", dst)
	}
	if err := out.Close(); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileCopyFailed.Error()), "path", dst)
	}
	return sum, nil
}

// WriteFile writes data to path unless the file already holds the same content.
func (f *FileSystem) WriteFile(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) { //nolint:gosec // Path is controlled by caller
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	return true, nil
}

// RemoveAll removes path and everything below it. A missing path is not an error.
func (f *FileSystem) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove directory"), "path", path)
	}
	return nil
}
