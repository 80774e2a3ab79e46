package ledger

import "time"

// Session operations. Every mutating invocation records exactly one session
// row before touching the ledger.
const (
	OpBuild    = "BUILD"
	OpRollback = "ROLLBACK"
)

// Game is one recorded revision of a title.
type Game struct {
	ID       string
	Revision int
	SHA256   string
	Title    string
	Platform string
	Session  string
}

// FileEntry is one manifest row of a packaged archive.
type FileEntry struct {
	GameSHA string
	Path    string
	Size    int64
	CRC32   uint32
	MD5     string
	SHA1    string
}

// Session is one ledger-mutating invocation.
type Session struct {
	ID        string
	User      string
	Operation string
	Time      time.Time
	Rollback  string
}

// Outcome classifies the result of an ingest attempt.
type Outcome int

const (
	// OutcomeAccepted means a new revision was written.
	OutcomeAccepted Outcome = iota
	// OutcomeUnchanged means the identity digest matched the current revision
	// and nothing was written.
	OutcomeUnchanged
	// OutcomeRejected means the ledger refused the submission; Reason on the
	// result carries the cause.
	OutcomeRejected
)

// String implements fmt.Stringer for log output.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// IngestResult reports what the ledger decided for one submission.
type IngestResult struct {
	Outcome  Outcome
	Revision int
	// Renamed is set when the accepted revision changed the title; callers
	// surface a non-fatal notice. PreviousTitle carries the old value.
	Renamed       bool
	PreviousTitle string
	// Reason is populated when Outcome is OutcomeRejected.
	Reason error
}
