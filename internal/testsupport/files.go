package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates the target path with the given content, creating parent
// directories as needed.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// NewCuration lays out a curation folder named id under dir: a meta.yaml
// with the given title and a content tree from files (slash-separated
// relative paths).
func NewCuration(t testing.TB, dir, id, title, platform string, files map[string]string) string {
	t.Helper()

	root := filepath.Join(dir, id)
	WriteFile(t, filepath.Join(root, "meta.yaml"), "Title: "+title+"\nPlatform: "+platform+"\n")
	if err := os.MkdirAll(filepath.Join(root, "content"), 0o755); err != nil {
		t.Fatalf("mkdir content: %v", err)
	}
	for name, content := range files {
		WriteFile(t, filepath.Join(root, "content", filepath.FromSlash(name)), content)
	}
	return root
}
