// Package curation resolves raw submissions into normalized descriptors.
//
// A submission may be a curation folder, a compressed archive, or an id
// paired with an external content tree. Resolution performs structural
// validation only and never touches the ledger.
package curation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FlashpointProject/bluezip/internal/fileutil"
	"github.com/FlashpointProject/bluezip/internal/services"
	"github.com/FlashpointProject/bluezip/internal/services/sevenzip"
)

// Recognized metadata file names inside a curation folder.
var metadataNames = []string{"meta.txt", "meta.yml", "meta.yaml"}

// sidecarName is the manifest file every canonical archive carries; its
// presence without curation metadata marks a prepackaged submission.
const sidecarName = "content.json"

// MetadataLookup resolves title and platform for an id when the submission
// itself carries no metadata file. A false return means the id is unknown.
type MetadataLookup func(ctx context.Context, id string) (title, platform string, ok bool, err error)

// Loader resolves submissions into descriptors.
type Loader struct {
	extractor sevenzip.Extractor
	lookup    MetadataLookup
	staging   string
}

// NewLoader constructs a loader. The extractor handles archive submissions;
// lookup serves external and prepackaged submissions and may be nil when
// neither is expected. Extraction scratch space goes under staging.
func NewLoader(extractor sevenzip.Extractor, lookup MetadataLookup, staging string) *Loader {
	return &Loader{extractor: extractor, lookup: lookup, staging: staging}
}

// Resolve turns a submission into a descriptor. The returned cleanup
// function removes any scratch directories the resolution created and is
// never nil.
func (l *Loader) Resolve(ctx context.Context, sub Submission) (*Descriptor, func(), error) {
	noop := func() {}
	switch s := sub.(type) {
	case FolderSubmission:
		desc, err := l.resolveFolder(s.ID, s.Path)
		return desc, noop, err
	case ExternalSubmission:
		desc, err := l.resolveExternal(ctx, s.ID, s.ContentPath)
		return desc, noop, err
	case ArchiveSubmission:
		return l.resolveArchive(ctx, s)
	default:
		return nil, noop, fmt.Errorf("unsupported submission type %T", sub)
	}
}

func (l *Loader) resolveFolder(id, path string) (*Descriptor, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidIdentifier, id)
	}

	content := filepath.Join(path, "content")
	if info, err := os.Stat(content); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w in %s", ErrMissingContent, path)
	}

	metaPath := fileutil.FindFirst(path, metadataNames)
	if metaPath == "" {
		return nil, fmt.Errorf("%w in %s", ErrMissingMetadata, path)
	}

	raw, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta struct {
		Title    string `yaml:"Title"`
		Platform string `yaml:"Platform"`
	}
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedMetadata, metaPath)
	}
	if strings.TrimSpace(meta.Title) == "" || strings.TrimSpace(meta.Platform) == "" {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteMetadata, metaPath)
	}

	return &Descriptor{ID: id, Title: meta.Title, Platform: meta.Platform, ContentPath: content}, nil
}

func (l *Loader) resolveExternal(ctx context.Context, id, contentPath string) (*Descriptor, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidIdentifier, id)
	}
	if l.lookup == nil {
		return nil, services.Wrap(services.ErrConfiguration, "curation", "resolve", "no launcher database configured", nil)
	}
	title, platform, ok, err := l.lookup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIdentifier, id)
	}
	return &Descriptor{ID: id, Title: title, Platform: platform, ContentPath: contentPath}, nil
}

func (l *Loader) resolveArchive(ctx context.Context, sub ArchiveSubmission) (*Descriptor, func(), error) {
	noop := func() {}
	if l.extractor == nil {
		return nil, noop, services.Wrap(services.ErrConfiguration, "curation", "resolve", "no extractor configured", nil)
	}

	scratch, err := os.MkdirTemp(l.staging, "curation-")
	if err != nil {
		return nil, noop, fmt.Errorf("create scratch dir: %w", err)
	}
	cleanup := func() { _ = fileutil.RemoveAllForce(scratch) }

	dest := filepath.Join(scratch, "curation")
	if err := l.extractor.Extract(ctx, sub.Path, dest); err != nil {
		cleanup()
		return nil, noop, err
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("read extraction: %w", err)
	}

	root := dest
	var id string
	if len(entries) == 1 && entries[0].IsDir() {
		id = entries[0].Name()
		if !ValidID(id) {
			cleanup()
			return nil, noop, fmt.Errorf("%w: root folder %q in %s", ErrInvalidIdentifier, id, filepath.Base(sub.Path))
		}
		root = filepath.Join(dest, id)
	} else {
		base := filepath.Base(sub.Path)
		id = strings.TrimSuffix(base, filepath.Ext(base))
		if !ValidID(id) {
			cleanup()
			return nil, noop, fmt.Errorf("%w: archive name %q is not a UUID", ErrInvalidIdentifier, base)
		}
	}

	if prepackaged(root) {
		desc, err := l.resolvePrepackaged(ctx, id, root)
		if err != nil {
			cleanup()
			return nil, noop, err
		}
		return desc, cleanup, nil
	}

	var desc *Descriptor
	if sub.FromDB {
		desc, err = l.resolveExternal(ctx, id, filepath.Join(root, "content"))
		if err == nil {
			if info, statErr := os.Stat(desc.ContentPath); statErr != nil || !info.IsDir() {
				err = fmt.Errorf("%w in %s", ErrMissingContent, root)
			}
		}
	} else {
		desc, err = l.resolveFolder(id, root)
	}
	if err != nil {
		cleanup()
		return nil, noop, err
	}
	return desc, cleanup, nil
}

// prepackaged reports whether root looks like an archive that already went
// through the pipeline once: a content folder and the side-car manifest, but
// no curation metadata.
func prepackaged(root string) bool {
	if info, err := os.Stat(filepath.Join(root, "content")); err != nil || !info.IsDir() {
		return false
	}
	if _, err := os.Stat(filepath.Join(root, sidecarName)); err != nil {
		return false
	}
	for _, name := range metadataNames {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			return false
		}
	}
	return true
}

func (l *Loader) resolvePrepackaged(ctx context.Context, id, root string) (*Descriptor, error) {
	raw, err := os.ReadFile(filepath.Join(root, sidecarName))
	if err != nil {
		return nil, fmt.Errorf("read side-car manifest: %w", err)
	}
	var sidecar struct {
		Version  int    `json:"version"`
		UniqueID string `json:"uniqueId"`
		Platform string `json:"platform"`
	}
	if err := json.Unmarshal(raw, &sidecar); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedMetadata, sidecarName)
	}

	title := id
	platform := sidecar.Platform
	if l.lookup != nil {
		if t, p, ok, err := l.lookup(ctx, id); err == nil && ok {
			title = t
			if platform == "" {
				platform = p
			}
		}
	}
	if platform == "" {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteMetadata, sidecarName)
	}

	return &Descriptor{ID: id, Title: title, Platform: platform, ContentPath: filepath.Join(root, "content")}, nil
}
