// Package pipeline drives one build invocation: session bookkeeping, then
// resolve, normalize, hash, and ingest for each submission in turn.
// Submissions are strictly sequential; the ledger's revision and uniqueness
// rules are only safe under serialized writes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/FlashpointProject/bluezip/internal/archive"
	"github.com/FlashpointProject/bluezip/internal/console"
	"github.com/FlashpointProject/bluezip/internal/curation"
	"github.com/FlashpointProject/bluezip/internal/fileutil"
	"github.com/FlashpointProject/bluezip/internal/ledger"
	"github.com/FlashpointProject/bluezip/internal/obsolete"
	"github.com/FlashpointProject/bluezip/internal/services"
)

// Options carries the processor's collaborators. Store, Loader, Normalizer,
// and Console are required; HtdocsRoot enables the obsolete scan.
type Options struct {
	Store      *ledger.Store
	Loader     *curation.Loader
	Normalizer *archive.Normalizer
	Console    *console.Console
	Logger     *slog.Logger
	StagingDir string
	HtdocsRoot string
	FromDB     bool
}

// Processor runs build invocations against the ledger.
type Processor struct {
	store      *ledger.Store
	loader     *curation.Loader
	normalizer *archive.Normalizer
	console    *console.Console
	logger     *slog.Logger
	staging    string
	htdocs     string
	fromDB     bool
}

func New(opts Options) (*Processor, error) {
	if opts.Store == nil || opts.Loader == nil || opts.Normalizer == nil || opts.Console == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new", "store, loader, normalizer, and console are required", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	staging := opts.StagingDir
	if staging == "" {
		staging = os.TempDir()
	}
	return &Processor{
		store:      opts.Store,
		loader:     opts.Loader,
		normalizer: opts.Normalizer,
		console:    opts.Console,
		logger:     logger,
		staging:    staging,
		htdocs:     opts.HtdocsRoot,
		fromDB:     opts.FromDB,
	}, nil
}

// Run executes one build invocation over path. Batch mode walks the
// directory and skips submissions that fail validation or integrity checks;
// single mode fails the run on the first error. A BUILD session is recorded
// before any ledger write.
func (p *Processor) Run(ctx context.Context, path string, batch bool) error {
	session, err := p.store.BeginSession(ctx, ledger.OpBuild)
	if err != nil {
		return err
	}
	p.logger.Info("session started", "session", session.ID, "operation", session.Operation)

	if !batch {
		return p.ProcessAuto(ctx, session, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read batch directory: %w", err)
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := p.ProcessAuto(ctx, session, filepath.Join(path, entry.Name()))
		if err == nil {
			continue
		}
		if services.IsSkippable(err) || errors.Is(err, services.ErrExternalTool) {
			p.console.Errorf("Error: %v in %s. Skipped.", err, entry.Name())
			p.logger.Warn("submission skipped", "entry", entry.Name(), "error", err)
			continue
		}
		return err
	}
	return nil
}

// ProcessAuto classifies path the way batch mode does and processes it.
// Entries that are neither recognized archives nor UUID-named folders are
// ignored without output.
func (p *Processor) ProcessAuto(ctx context.Context, session *ledger.Session, path string) error {
	extensions, err := p.archiveExtensions(ctx)
	if err != nil {
		return err
	}
	sub, ok := curation.Detect(path, p.fromDB, extensions)
	if !ok {
		return nil
	}
	p.announce(sub, path)
	return p.Process(ctx, session, sub)
}

// Process resolves one submission, normalizes its content into a canonical
// archive, and records the outcome in the ledger. The working directory
// lives under the staging root and is cleared on every exit path.
func (p *Processor) Process(ctx context.Context, session *ledger.Session, sub curation.Submission) error {
	desc, cleanup, err := p.loader.Resolve(ctx, sub)
	if err != nil {
		return err
	}
	defer cleanup()

	workDir, err := os.MkdirTemp(p.staging, "build-*")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		if err := fileutil.RemoveAllForce(workDir); err != nil {
			p.logger.Warn("work dir cleanup failed", "dir", workDir, "error", err)
		}
	}()

	result, err := p.normalizer.Normalize(ctx, desc, workDir)
	if err != nil {
		return err
	}

	info := ledger.GameInfo{ID: desc.ID, Title: desc.Title, Platform: desc.Platform}
	outcome, err := p.store.Ingest(ctx, session, info, result.SHA256, result.Manifest)
	if err != nil {
		return err
	}

	switch outcome.Outcome {
	case ledger.OutcomeUnchanged:
		p.console.Successf("no change")
	case ledger.OutcomeRejected:
		// Reported and skipped in every mode; the ledger was not touched.
		p.console.Errorf("Error: %v when storing %s. Skipped.", outcome.Reason, desc.Title)
		p.logger.Warn("submission rejected", "id", desc.ID, "reason", outcome.Reason)
	case ledger.OutcomeAccepted:
		shortSHA := strings.ToUpper(result.SHA256[:6])
		p.console.Successf("[rev %d: %s]", outcome.Revision, shortSHA)
		if outcome.Renamed {
			p.console.Warnf("Warning: %s has been renamed (%s -> %s)", desc.ID, outcome.PreviousTitle, desc.Title)
		}
		p.logger.Info("revision accepted",
			"id", desc.ID, "revision", outcome.Revision, "sha256", result.SHA256)
		if outcome.Revision == 1 && p.htdocs != "" {
			if err := p.scanObsolete(ctx, result); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Processor) scanObsolete(ctx context.Context, result *archive.Result) error {
	exclude, err := p.settingList(ctx, "obsolete_exclude")
	if err != nil {
		return err
	}
	threshold, err := p.settingInt(ctx, "obsolete_threshold")
	if err != nil {
		return err
	}
	scanner := obsolete.NewScanner(p.htdocs, exclude, threshold, p.console, p.logger)
	candidates := scanner.Scan(result.Manifest)
	if len(candidates) == 0 {
		return nil
	}
	return scanner.Cleanup(candidates)
}

func (p *Processor) announce(sub curation.Submission, path string) {
	kind := "Curation"
	if p.fromDB {
		kind = "Content"
	}
	name := filepath.Base(path)
	if _, isArchive := sub.(curation.ArchiveSubmission); isArchive {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
		p.console.Labelf("%s archive (%s): %s", kind, ext, name)
		return
	}
	p.console.Labelf("%s folder: %s", kind, name)
}

func (p *Processor) archiveExtensions(ctx context.Context) ([]string, error) {
	return p.settingList(ctx, "archive_extensions")
}

func (p *Processor) settingList(ctx context.Context, key string) ([]string, error) {
	value, _, err := p.store.Setting(ctx, key)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}
	return strings.Split(value, ","), nil
}

func (p *Processor) settingInt(ctx context.Context, key string) (int, error) {
	value, _, err := p.store.Setting(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "pipeline", "setting", fmt.Sprintf("%s is not a number: %q", key, value), nil)
	}
	return n, nil
}
