// Package digest computes the content hashes recorded in the ledger: a
// SHA-256 identity digest over a packaged archive, and per-file CRC32, MD5,
// and SHA-1 values for the manifest of a build tree.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// chunkSize bounds per-read memory while hashing large archives.
const chunkSize = 64 * 1024

// Entry is one file of a build tree, with every hash the ledger stores.
type Entry struct {
	Path  string
	Size  int64
	CRC32 uint32
	MD5   string
	SHA1  string
}

// ArchiveIdentity streams the archive at path through SHA-256 and returns the
// lowercase hex digest that content-addresses the ledger.
func ArchiveIdentity(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash archive: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashFile computes size, CRC32, MD5, and SHA-1 for one file in a single pass.
func HashFile(path string) (Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return Entry{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	crc := crc32.NewIEEE()
	md5sum := md5.New()
	sha1sum := sha1.New()

	buf := make([]byte, chunkSize)
	size, err := io.CopyBuffer(io.MultiWriter(crc, md5sum, sha1sum), f, buf)
	if err != nil {
		return Entry{}, fmt.Errorf("hash file: %w", err)
	}

	return Entry{
		Size:  size,
		CRC32: crc.Sum32(),
		MD5:   hex.EncodeToString(md5sum.Sum(nil)),
		SHA1:  hex.EncodeToString(sha1sum.Sum(nil)),
	}, nil
}

// TreeManifest walks root and hashes every regular file. Paths are relative
// to root, use forward slashes, and are NFC-normalized so manifests compare
// equal across platforms and filesystems. Entries are sorted by path.
func TreeManifest(root string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entry, err := HashFile(path)
		if err != nil {
			return err
		}
		entry.Path = norm.NFC.String(filepath.ToSlash(rel))
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk build tree: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}
