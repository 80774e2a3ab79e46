// Package obsolete cross-references a freshly accepted first revision
// against a deployed htdocs tree and offers to delete the loose files the
// canonical archive now supersedes.
package obsolete

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/FlashpointProject/bluezip/internal/console"
	"github.com/FlashpointProject/bluezip/internal/digest"
	"github.com/FlashpointProject/bluezip/internal/fileutil"
)

// Manifest paths store the build-dir layout, so deployed files live under
// htdocs without this prefix.
const contentPrefix = "content/"

// Scanner locates and removes superseded deployed files.
type Scanner struct {
	htdocs    string
	exclude   []*regexp.Regexp
	threshold int
	console   *console.Console
	logger    *slog.Logger
}

// NewScanner builds a scanner rooted at htdocs. Exclusion patterns are glob
// rules matched against the whole htdocs-relative path, with * and ? also
// crossing path separators, so a rule like *.swf protects nested files.
// Threshold is the candidate count below which the scan warns about a
// possible bad conversion.
func NewScanner(htdocs string, exclude []string, threshold int, con *console.Console, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	rules := make([]*regexp.Regexp, 0, len(exclude))
	for _, pattern := range exclude {
		if pattern == "" {
			continue
		}
		if re, err := regexp.Compile(globRegexp(pattern)); err == nil {
			rules = append(rules, re)
		}
	}
	return &Scanner{
		htdocs:    htdocs,
		exclude:   rules,
		threshold: threshold,
		console:   con,
		logger:    logger,
	}
}

// Scan reports the deployed files the manifest supersedes, as absolute
// paths. Files matching an exclusion pattern are announced but not
// collected. When no manifest file exists under htdocs at all, the content
// was never deployed there and nothing is flagged.
func (s *Scanner) Scan(manifest []digest.Entry) []string {
	var candidates []string
	for _, entry := range manifest {
		rel := strings.TrimPrefix(entry.Path, contentPrefix)
		abs := filepath.Join(s.htdocs, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			continue
		}
		if s.excluded(rel) {
			s.console.Printf("Obsolete (excluded): %s", rel)
			continue
		}
		s.console.Printf("Obsolete: %s", rel)
		candidates = append(candidates, abs)
	}
	if len(candidates) < s.threshold {
		qty := "no"
		if len(candidates) > 0 {
			qty = fmt.Sprintf("only %d", len(candidates))
		}
		s.console.Warnf("Warning: an htdocs path was provided but %s files were found. Possibly a bad conversion?", qty)
	}
	s.logger.Info("obsolete scan finished", "htdocs", s.htdocs, "candidates", len(candidates))
	return candidates
}

func (s *Scanner) excluded(rel string) bool {
	for _, rule := range s.exclude {
		if rule.MatchString(rel) {
			return true
		}
	}
	return false
}

// globRegexp translates a glob rule into an anchored regular expression.
// * matches any run of characters, ? exactly one, and [seq] ([!seq]
// negated) a character class; none of them stop at path separators.
func globRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString(`(?s)\A`)
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			j := i + 1
			if j < len(pattern) && (pattern[j] == '!' || pattern[j] == '^') {
				j++
			}
			if j < len(pattern) && pattern[j] == ']' {
				j++
			}
			for j < len(pattern) && pattern[j] != ']' {
				j++
			}
			if j >= len(pattern) {
				b.WriteString(`\[`)
				continue
			}
			set := strings.ReplaceAll(pattern[i+1:j], `\`, `\\`)
			if strings.HasPrefix(set, "!") {
				set = "^" + set[1:]
			}
			b.WriteString("[" + set + "]")
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`\z`)
	return b.String()
}

// Cleanup asks for confirmation, deletes the candidates, and prunes any
// directories the deletions left empty, walking upward until a non-empty
// directory or the htdocs root.
func (s *Scanner) Cleanup(candidates []string) error {
	if len(candidates) == 0 {
		return nil
	}
	if !s.console.Confirm(fmt.Sprintf("Delete %d files?", len(candidates)), false) {
		return nil
	}
	for _, target := range candidates {
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("delete obsolete file: %w", err)
		}
	}
	for _, target := range candidates {
		for _, dir := range fileutil.PruneEmptyDirs(s.htdocs, target) {
			rel, err := filepath.Rel(s.htdocs, dir)
			if err != nil {
				rel = dir
			}
			s.console.Printf("Removed empty folder: %s", rel)
		}
	}
	return nil
}
