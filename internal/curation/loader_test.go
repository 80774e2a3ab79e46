package curation_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/FlashpointProject/bluezip/internal/curation"
	"github.com/FlashpointProject/bluezip/internal/fileutil"
	"github.com/FlashpointProject/bluezip/internal/services"
)

const testUUID = "c27c7809-d79b-4db0-94da-df8f89955aff"

// treeExtractor pretends to be 7za by copying a prepared directory into the
// destination.
type treeExtractor struct {
	source string
	err    error
}

func (e *treeExtractor) Extract(ctx context.Context, archivePath, destDir string) error {
	if e.err != nil {
		return e.err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(e.source)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		src := filepath.Join(e.source, entry.Name())
		dst := filepath.Join(destDir, entry.Name())
		if err := copyTree(src, dst); err != nil {
			return err
		}
	}
	return nil
}

func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fileutil.CopyFile(src, dst)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestResolveFolderErrors(t *testing.T) {
	loader := curation.NewLoader(nil, nil, t.TempDir())
	ctx := context.Background()

	cases := []struct {
		name    string
		prepare func(t *testing.T, dir string)
		want    error
	}{
		{"missing content", func(t *testing.T, dir string) {}, curation.ErrMissingContent},
		{"missing metadata", func(t *testing.T, dir string) {
			if err := os.MkdirAll(filepath.Join(dir, "content"), 0o755); err != nil {
				t.Fatal(err)
			}
		}, curation.ErrMissingMetadata},
		{"malformed metadata", func(t *testing.T, dir string) {
			if err := os.MkdirAll(filepath.Join(dir, "content"), 0o755); err != nil {
				t.Fatal(err)
			}
			writeFile(t, filepath.Join(dir, "meta.yaml"), `"`)
		}, curation.ErrMalformedMetadata},
		{"incomplete metadata", func(t *testing.T, dir string) {
			if err := os.MkdirAll(filepath.Join(dir, "content"), 0o755); err != nil {
				t.Fatal(err)
			}
			writeFile(t, filepath.Join(dir, "meta.yaml"), "Title: Alien Hominid\n")
		}, curation.ErrIncompleteMetadata},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			tc.prepare(t, dir)
			_, _, err := loader.Resolve(ctx, curation.FolderSubmission{ID: testUUID, Path: dir})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestResolveFolderOK(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "content"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "meta.yaml"), "Title: Alien Hominid\nPlatform: Flash\n")

	loader := curation.NewLoader(nil, nil, t.TempDir())
	desc, cleanup, err := loader.Resolve(context.Background(), curation.FolderSubmission{ID: testUUID, Path: dir})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	defer cleanup()

	if desc.ID != testUUID || desc.Title != "Alien Hominid" || desc.Platform != "Flash" {
		t.Fatalf("unexpected descriptor %+v", desc)
	}
	if desc.ContentPath != filepath.Join(dir, "content") {
		t.Fatalf("content path = %q", desc.ContentPath)
	}
}

func TestResolveFolderRejectsBadID(t *testing.T) {
	loader := curation.NewLoader(nil, nil, t.TempDir())
	_, _, err := loader.Resolve(context.Background(), curation.FolderSubmission{ID: "not-a-uuid", Path: t.TempDir()})
	if !errors.Is(err, curation.ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestResolveExternal(t *testing.T) {
	lookup := func(ctx context.Context, id string) (string, string, bool, error) {
		if id == testUUID {
			return "Alien Hominid", "Flash", true, nil
		}
		return "", "", false, nil
	}
	loader := curation.NewLoader(nil, lookup, t.TempDir())
	ctx := context.Background()

	desc, _, err := loader.Resolve(ctx, curation.ExternalSubmission{ID: testUUID, ContentPath: "/srv/content"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if desc.Title != "Alien Hominid" || desc.ContentPath != "/srv/content" {
		t.Fatalf("unexpected descriptor %+v", desc)
	}

	const other = "7015eb23-8074-49c7-bba2-e7d4b3b6d537"
	_, _, err = loader.Resolve(ctx, curation.ExternalSubmission{ID: other, ContentPath: "/srv/content"})
	if !errors.Is(err, curation.ErrUnknownIdentifier) {
		t.Fatalf("expected ErrUnknownIdentifier, got %v", err)
	}
	if !errors.Is(err, services.ErrNotFound) || !services.IsSkippable(err) {
		t.Fatalf("expected a skippable not-found error, got %v", err)
	}
}

func TestResolveArchiveWithRootFolder(t *testing.T) {
	payload := t.TempDir()
	root := filepath.Join(payload, testUUID)
	writeFile(t, filepath.Join(root, "meta.yaml"), "Title: Archived\nPlatform: Flash\n")
	writeFile(t, filepath.Join(root, "content", "game.swf"), "swf")

	loader := curation.NewLoader(&treeExtractor{source: payload}, nil, t.TempDir())
	desc, cleanup, err := loader.Resolve(context.Background(), curation.ArchiveSubmission{Path: "/tmp/whatever.7z"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	defer cleanup()

	if desc.ID != testUUID || desc.Title != "Archived" {
		t.Fatalf("unexpected descriptor %+v", desc)
	}
	if _, err := os.Stat(filepath.Join(desc.ContentPath, "game.swf")); err != nil {
		t.Fatalf("content not reachable: %v", err)
	}
}

func TestResolveArchiveIDFromFilename(t *testing.T) {
	payload := t.TempDir()
	writeFile(t, filepath.Join(payload, "meta.yaml"), "Title: Flat\nPlatform: Flash\n")
	writeFile(t, filepath.Join(payload, "content", "game.swf"), "swf")

	loader := curation.NewLoader(&treeExtractor{source: payload}, nil, t.TempDir())
	desc, cleanup, err := loader.Resolve(context.Background(), curation.ArchiveSubmission{Path: "/tmp/" + testUUID + ".zip"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	defer cleanup()
	if desc.ID != testUUID {
		t.Fatalf("id = %q", desc.ID)
	}
}

func TestResolveArchiveRejectsNonUUID(t *testing.T) {
	payload := t.TempDir()
	writeFile(t, filepath.Join(payload, "content", "game.swf"), "swf")

	loader := curation.NewLoader(&treeExtractor{source: payload}, nil, t.TempDir())
	_, _, err := loader.Resolve(context.Background(), curation.ArchiveSubmission{Path: "/tmp/some-archive.zip"})
	if !errors.Is(err, curation.ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestResolveArchivePrepackagedShortcut(t *testing.T) {
	payload := t.TempDir()
	writeFile(t, filepath.Join(payload, "content.json"), `{"version":1,"uniqueId":"`+testUUID+`","platform":"Flash"}`)
	writeFile(t, filepath.Join(payload, "content", "game.swf"), "swf")

	lookup := func(ctx context.Context, id string) (string, string, bool, error) {
		return "Looked Up", "Flash", true, nil
	}
	loader := curation.NewLoader(&treeExtractor{source: payload}, lookup, t.TempDir())
	desc, cleanup, err := loader.Resolve(context.Background(), curation.ArchiveSubmission{Path: "/tmp/" + testUUID + ".zip"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	defer cleanup()

	if desc.Title != "Looked Up" || desc.Platform != "Flash" {
		t.Fatalf("unexpected descriptor %+v", desc)
	}
	if filepath.Base(desc.ContentPath) != "content" {
		t.Fatalf("content path = %q", desc.ContentPath)
	}
}

func TestDetectClassifiesEntries(t *testing.T) {
	base := t.TempDir()
	archive := filepath.Join(base, testUUID+".7z")
	writeFile(t, archive, "archive-bytes")
	folder := filepath.Join(base, testUUID)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatal(err)
	}
	stray := filepath.Join(base, "notes.txt")
	writeFile(t, stray, "notes")

	exts := []string{"zip", "7z"}
	if sub, ok := curation.Detect(archive, false, exts); !ok {
		t.Fatal("archive not detected")
	} else if _, isArchive := sub.(curation.ArchiveSubmission); !isArchive {
		t.Fatalf("expected ArchiveSubmission, got %T", sub)
	}

	if sub, ok := curation.Detect(folder, false, exts); !ok {
		t.Fatal("folder not detected")
	} else if _, isFolder := sub.(curation.FolderSubmission); !isFolder {
		t.Fatalf("expected FolderSubmission, got %T", sub)
	}

	if sub, ok := curation.Detect(folder, true, exts); !ok {
		t.Fatal("folder not detected in convert mode")
	} else if _, isExternal := sub.(curation.ExternalSubmission); !isExternal {
		t.Fatalf("expected ExternalSubmission, got %T", sub)
	}

	if _, ok := curation.Detect(stray, false, exts); ok {
		t.Fatal("stray file should be skipped")
	}
}

func TestValidID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{testUUID, true},
		{"C27C7809-D79B-4DB0-94DA-DF8F89955AFF", false},
		{"c27c7809d79b4db094dadf8f89955aff", false},
		{"not-a-uuid", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := curation.ValidID(tc.id); got != tc.want {
			t.Fatalf("ValidID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
