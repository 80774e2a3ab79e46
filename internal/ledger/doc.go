// Package ledger implements the revision ledger at the heart of bluezip.
//
// Every accepted archive is recorded as a game row keyed by (id, revision)
// and content-addressed by the SHA-256 of its canonical bytes, together with
// a per-file manifest written in the same transaction. The ledger decides
// whether a submission is a no-op resubmission, a new revision, or a
// duplicate of content already recorded under another id, and it tracks one
// session row per mutating invocation so an entire run can be rolled back.
package ledger
