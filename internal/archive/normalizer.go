// Package archive turns a resolved curation into a canonical, reproducible
// zip. It assembles a build directory, writes the side-car manifest, zips
// the tree, and hands the result to the external packager that rewrites it
// into a deterministic byte layout.
package archive

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/FlashpointProject/bluezip/internal/curation"
	"github.com/FlashpointProject/bluezip/internal/digest"
	"github.com/FlashpointProject/bluezip/internal/fileutil"
	"github.com/FlashpointProject/bluezip/internal/services/trrntzip"
)

// sidecarVersion is the schema version of the content.json side-car.
const sidecarVersion = 1

// zipEpoch is the fixed timestamp stamped on every zip entry, so archive
// bytes do not depend on filesystem mtimes even before trrntzip runs.
var zipEpoch = time.Date(1996, time.December, 24, 23, 32, 0, 0, time.UTC)

// Result describes one canonicalized submission.
type Result struct {
	// ArchivePath is the canonical <id>.zip under the dist root.
	ArchivePath string
	// SHA256 is the identity digest of the canonical archive bytes.
	SHA256 string
	// Manifest lists every file of the build tree with its hashes.
	Manifest []digest.Entry
}

// Normalizer packages descriptors into canonical archives.
type Normalizer struct {
	packager trrntzip.Packager
	distDir  string
}

// NewNormalizer constructs a normalizer writing canonical archives into
// distDir.
func NewNormalizer(packager trrntzip.Packager, distDir string) *Normalizer {
	return &Normalizer{packager: packager, distDir: distDir}
}

// Normalize builds the canonical archive for desc inside workDir. The
// content tree is moved, not copied, out of desc.ContentPath. On success the
// archive sits at dist/<id>.zip and the returned manifest matches the build
// tree exactly.
func (n *Normalizer) Normalize(ctx context.Context, desc *curation.Descriptor, workDir string) (*Result, error) {
	buildDir := filepath.Join(workDir, "build")
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return nil, fmt.Errorf("create build dir: %w", err)
	}

	if err := fileutil.Move(desc.ContentPath, filepath.Join(buildDir, "content")); err != nil {
		return nil, fmt.Errorf("move content tree: %w", err)
	}

	if err := writeSidecar(buildDir, desc.ID, desc.Platform); err != nil {
		return nil, err
	}

	zipPath := filepath.Join(workDir, "dist.zip")
	if err := writeZip(buildDir, zipPath); err != nil {
		return nil, err
	}

	if err := n.packager.Pack(ctx, zipPath); err != nil {
		return nil, err
	}

	sha, err := digest.ArchiveIdentity(zipPath)
	if err != nil {
		return nil, err
	}

	manifest, err := digest.TreeManifest(buildDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(n.distDir, 0o755); err != nil {
		return nil, fmt.Errorf("create dist dir: %w", err)
	}
	outPath := filepath.Join(n.distDir, desc.ID+".zip")
	if err := fileutil.Move(zipPath, outPath); err != nil {
		return nil, fmt.Errorf("move canonical archive: %w", err)
	}

	return &Result{ArchivePath: outPath, SHA256: sha, Manifest: manifest}, nil
}

// writeSidecar records schema version, id, and platform next to the content
// tree. Line endings are CRLF to match every archive already in circulation.
func writeSidecar(buildDir, id, platform string) error {
	sidecar := struct {
		Version  int    `json:"version"`
		UniqueID string `json:"uniqueId"`
		Platform string `json:"platform"`
	}{Version: sidecarVersion, UniqueID: id, Platform: platform}

	data, err := json.MarshalIndent(sidecar, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal side-car: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\n", "\r\n")
	if err := os.WriteFile(filepath.Join(buildDir, "content.json"), []byte(text), 0o644); err != nil {
		return fmt.Errorf("write side-car: %w", err)
	}
	return nil
}

// writeZip assembles the build tree into a zip with sorted entries and a
// fixed timestamp.
func writeZip(buildDir, zipPath string) error {
	var files []string
	err := filepath.WalkDir(buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk build dir: %w", err)
	}
	sort.Strings(files)

	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer out.Close()

	w := zip.NewWriter(out)
	for _, path := range files {
		rel, err := filepath.Rel(buildDir, path)
		if err != nil {
			return err
		}
		header := &zip.FileHeader{
			Name:     filepath.ToSlash(rel),
			Method:   zip.Deflate,
			Modified: zipEpoch,
		}
		entry, err := w.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("create zip entry: %w", err)
		}
		in, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		if _, err := io.Copy(entry, in); err != nil {
			in.Close()
			return fmt.Errorf("write zip entry: %w", err)
		}
		in.Close()
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize zip: %w", err)
	}
	return out.Close()
}
