package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/FlashpointProject/bluezip/internal/ledger"
	"github.com/FlashpointProject/bluezip/internal/services"
)

const (
	uuidA = "c27c7809-d79b-4db0-94da-df8f89955aff"
	uuidB = "7015eb23-8074-49c7-bba2-e7d4b3b6d537"

	shaOne   = "1111111111111111111111111111111111111111111111111111111111111111"
	shaTwo   = "2222222222222222222222222222222222222222222222222222222222222222"
	shaThree = "3333333333333333333333333333333333333333333333333333333333333333"
)

func TestIngestFirstRevision(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	session := buildSession(t, store)

	info := ledger.GameInfo{ID: uuidA, Title: "Alien Hominid", Platform: "Flash"}
	result, err := store.Ingest(ctx, session, info, shaOne, sampleManifest(2))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.Outcome != ledger.OutcomeAccepted || result.Revision != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	manifest, err := store.Manifest(ctx, shaOne)
	if err != nil {
		t.Fatalf("Manifest failed: %v", err)
	}
	if len(manifest) != 2 {
		t.Fatalf("expected 2 manifest rows, got %d", len(manifest))
	}

	game, err := store.CurrentGame(ctx, uuidA)
	if err != nil || game == nil {
		t.Fatalf("CurrentGame failed: game=%v err=%v", game, err)
	}
	if game.Revision != 1 || game.SHA256 != shaOne || game.Session != session.ID {
		t.Fatalf("unexpected game row %+v", game)
	}
}

func TestIngestUnchangedIsNoOp(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	session := buildSession(t, store)
	info := ledger.GameInfo{ID: uuidA, Title: "Alien Hominid", Platform: "Flash"}

	if _, err := store.Ingest(ctx, session, info, shaOne, sampleManifest(1)); err != nil {
		t.Fatalf("first Ingest failed: %v", err)
	}

	result, err := store.Ingest(ctx, session, info, shaOne, sampleManifest(1))
	if err != nil {
		t.Fatalf("second Ingest failed: %v", err)
	}
	if result.Outcome != ledger.OutcomeUnchanged || result.Revision != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	manifest, err := store.Manifest(ctx, shaOne)
	if err != nil {
		t.Fatalf("Manifest failed: %v", err)
	}
	if len(manifest) != 1 {
		t.Fatalf("expected no duplicate manifest rows, got %d", len(manifest))
	}
}

func TestIngestMonotonicRevisions(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	session := buildSession(t, store)
	info := ledger.GameInfo{ID: uuidA, Title: "Alien Hominid", Platform: "Flash"}

	for i, sha := range []string{shaOne, shaTwo, shaThree} {
		result, err := store.Ingest(ctx, session, info, sha, sampleManifest(1))
		if err != nil {
			t.Fatalf("Ingest %d failed: %v", i+1, err)
		}
		if result.Outcome != ledger.OutcomeAccepted || result.Revision != i+1 {
			t.Fatalf("ingest %d: unexpected result %+v", i+1, result)
		}
	}

	games, err := store.Games(ctx)
	if err != nil {
		t.Fatalf("Games failed: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("expected 3 revisions, got %d", len(games))
	}
}

func TestIngestRejectsDuplicateContentAcrossIDs(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	session := buildSession(t, store)

	first := ledger.GameInfo{ID: uuidA, Title: "Alien Hominid", Platform: "Flash"}
	if _, err := store.Ingest(ctx, session, first, shaOne, sampleManifest(2)); err != nil {
		t.Fatalf("first Ingest failed: %v", err)
	}

	second := ledger.GameInfo{ID: uuidB, Title: "Copycat", Platform: "Flash"}
	result, err := store.Ingest(ctx, session, second, shaOne, sampleManifest(2))
	if err != nil {
		t.Fatalf("second Ingest failed: %v", err)
	}
	if result.Outcome != ledger.OutcomeRejected {
		t.Fatalf("expected rejection, got %+v", result)
	}
	if !errors.Is(result.Reason, ledger.ErrDuplicateContent) {
		t.Fatalf("expected ErrDuplicateContent, got %v", result.Reason)
	}
	if !errors.Is(result.Reason, services.ErrIntegrity) || !services.IsSkippable(result.Reason) {
		t.Fatalf("expected a skippable integrity rejection, got %v", result.Reason)
	}

	owner, err := store.GameBySHA(ctx, shaOne)
	if err != nil || owner == nil || owner.ID != uuidA {
		t.Fatalf("expected digest owned by %s, got game=%v err=%v", uuidA, owner, err)
	}

	if game, err := store.CurrentGame(ctx, uuidB); err != nil || game != nil {
		t.Fatalf("expected no row for rejected id, got game=%v err=%v", game, err)
	}
	manifest, err := store.Manifest(ctx, shaOne)
	if err != nil {
		t.Fatalf("Manifest failed: %v", err)
	}
	if len(manifest) != 2 {
		t.Fatalf("rejected ingest leaked manifest rows: %d", len(manifest))
	}
}

func TestGameBySHAFindsOwningRevision(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	session := buildSession(t, store)
	info := ledger.GameInfo{ID: uuidA, Title: "Alien Hominid", Platform: "Flash"}

	if _, err := store.Ingest(ctx, session, info, shaOne, sampleManifest(1)); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if _, err := store.Ingest(ctx, session, info, shaTwo, sampleManifest(1)); err != nil {
		t.Fatalf("second Ingest failed: %v", err)
	}

	game, err := store.GameBySHA(ctx, shaTwo)
	if err != nil || game == nil {
		t.Fatalf("GameBySHA failed: game=%v err=%v", game, err)
	}
	if game.ID != uuidA || game.Revision != 2 || game.SHA256 != shaTwo {
		t.Fatalf("unexpected game row %+v", game)
	}

	if game, err := store.GameBySHA(ctx, shaThree); err != nil || game != nil {
		t.Fatalf("expected no row for unknown digest, got game=%v err=%v", game, err)
	}
}

func TestIngestFlagsRename(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	session := buildSession(t, store)

	if _, err := store.Ingest(ctx, session, ledger.GameInfo{ID: uuidA, Title: "Old Title", Platform: "Flash"}, shaOne, nil); err != nil {
		t.Fatalf("first Ingest failed: %v", err)
	}
	result, err := store.Ingest(ctx, session, ledger.GameInfo{ID: uuidA, Title: "New Title", Platform: "Flash"}, shaTwo, nil)
	if err != nil {
		t.Fatalf("second Ingest failed: %v", err)
	}
	if result.Outcome != ledger.OutcomeAccepted || !result.Renamed || result.PreviousTitle != "Old Title" {
		t.Fatalf("expected rename notice, got %+v", result)
	}

	game, err := store.CurrentGame(ctx, uuidA)
	if err != nil || game == nil || game.Title != "New Title" {
		t.Fatalf("expected stored title updated, got %+v err=%v", game, err)
	}
}

func TestIngestRequiresSession(t *testing.T) {
	store := openStore(t)
	_, err := store.Ingest(context.Background(), nil, ledger.GameInfo{ID: uuidA, Title: "X", Platform: "Flash"}, shaOne, nil)
	if !errors.Is(err, ledger.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestScenarioThreeSubmissions(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	session := buildSession(t, store)
	info := ledger.GameInfo{ID: uuidA, Title: "Scenario", Platform: "Flash"}

	result, err := store.Ingest(ctx, session, info, shaOne, sampleManifest(1))
	if err != nil || result.Outcome != ledger.OutcomeAccepted || result.Revision != 1 {
		t.Fatalf("step 1: %+v err=%v", result, err)
	}
	result, err = store.Ingest(ctx, session, info, shaOne, sampleManifest(1))
	if err != nil || result.Outcome != ledger.OutcomeUnchanged {
		t.Fatalf("step 2: %+v err=%v", result, err)
	}
	result, err = store.Ingest(ctx, session, info, shaTwo, sampleManifest(1))
	if err != nil || result.Outcome != ledger.OutcomeAccepted || result.Revision != 2 {
		t.Fatalf("step 3: %+v err=%v", result, err)
	}

	games, err := store.Games(ctx)
	if err != nil {
		t.Fatalf("Games failed: %v", err)
	}
	if len(games) != 2 || games[0].SHA256 == games[1].SHA256 {
		t.Fatalf("expected two distinct revisions, got %+v", games)
	}
	for _, sha := range []string{shaOne, shaTwo} {
		manifest, err := store.Manifest(ctx, sha)
		if err != nil || len(manifest) != 1 {
			t.Fatalf("manifest for %s: %d rows err=%v", sha, len(manifest), err)
		}
	}
}
