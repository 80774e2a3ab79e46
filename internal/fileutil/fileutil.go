package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// Move relocates src to dst, preferring a rename and falling back to a
// recursive copy plus removal when the rename crosses filesystems.
func Move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("prepare destination: %w", err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		if err := copyTree(src, dst); err != nil {
			return err
		}
	} else {
		if err := CopyFileMode(src, dst, info.Mode().Perm()); err != nil {
			return err
		}
	}
	return RemoveAllForce(src)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		return CopyFileMode(path, target, info.Mode().Perm())
	})
}

// RemoveAllForce removes a tree, retrying once after clearing read-only bits.
// Extraction tools occasionally leave read-only artifacts behind, which plain
// os.RemoveAll refuses to delete on some platforms.
func RemoveAllForce(path string) error {
	err := os.RemoveAll(path)
	if err == nil {
		return nil
	}

	walkErr := filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		_ = os.Chmod(p, 0o700)
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, fs.ErrNotExist) {
		return fmt.Errorf("clear read-only attributes: %w", walkErr)
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// FindFirst walks root and returns the path of the first file whose lowercased
// name matches one of the candidates, or "" when none is present.
func FindFirst(root string, names []string) string {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = struct{}{}
	}

	var found string
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if _, ok := wanted[strings.ToLower(entry.Name())]; ok {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// PruneEmptyDirs removes the parent directory of path and keeps walking upward
// until a non-empty directory or the root boundary is reached. It returns the
// directories it removed, innermost first.
func PruneEmptyDirs(root, path string) []string {
	var removed []string
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return removed
	}
	dir := filepath.Dir(path)
	for {
		abs, err := filepath.Abs(dir)
		if err != nil || abs == rootAbs || !strings.HasPrefix(abs, rootAbs+string(os.PathSeparator)) {
			return removed
		}
		if err := os.Remove(abs); err != nil {
			return removed
		}
		removed = append(removed, abs)
		dir = filepath.Dir(abs)
	}
}
