package curation

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Descriptor is a normalized submission: a stable identifier, descriptive
// metadata, and the location of the raw content tree.
type Descriptor struct {
	ID          string
	Title       string
	Platform    string
	ContentPath string
}

// Submission is a tagged source of one descriptor. Each variant carries
// exactly the fields its resolution path needs.
type Submission interface {
	submission()
}

// FolderSubmission is a curation folder: a metadata file plus a content
// subfolder. The id comes from the folder name or is supplied explicitly.
type FolderSubmission struct {
	ID   string
	Path string
}

// ArchiveSubmission is a compressed curation or content archive that must be
// extracted first. FromDB selects the launcher database as the metadata
// source instead of an in-archive metadata file.
type ArchiveSubmission struct {
	Path   string
	FromDB bool
}

// ExternalSubmission pairs a known id with a raw content tree; title and
// platform are looked up in the launcher database.
type ExternalSubmission struct {
	ID          string
	ContentPath string
}

func (FolderSubmission) submission()   {}
func (ArchiveSubmission) submission()  {}
func (ExternalSubmission) submission() {}

// ValidID reports whether value is a well-formed lowercase UUID.
func ValidID(value string) bool {
	if value != strings.ToLower(value) {
		return false
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return false
	}
	// uuid.Parse accepts several layouts; the ledger only uses the plain
	// hyphenated form.
	return parsed.String() == value
}

// Detect classifies a filesystem path the way batch mode walks a directory:
// archives by extension, curation folders by UUID name. Unrecognized entries
// return ok=false and are skipped silently.
func Detect(path string, fromDB bool, extensions []string) (Submission, bool) {
	name := filepath.Base(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	if !info.IsDir() {
		for _, ext := range extensions {
			ext = strings.TrimSpace(ext)
			if ext != "" && strings.HasSuffix(strings.ToLower(name), "."+strings.ToLower(ext)) {
				return ArchiveSubmission{Path: path, FromDB: fromDB}, true
			}
		}
		return nil, false
	}

	if !ValidID(name) {
		return nil, false
	}
	if fromDB {
		return ExternalSubmission{ID: name, ContentPath: path}, true
	}
	return FolderSubmission{ID: name, Path: path}, true
}
