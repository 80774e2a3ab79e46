package trrntzip_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/FlashpointProject/bluezip/internal/services"
	"github.com/FlashpointProject/bluezip/internal/services/trrntzip"
)

type stubExecutor struct {
	err  error
	args [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	s.args = append(s.args, append([]string(nil), args...))
	return s.err
}

func TestPackInvokesToolOnZip(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "dist.zip")
	if err := os.WriteFile(zipPath, []byte("PK"), 0o644); err != nil {
		t.Fatalf("write zip: %v", err)
	}

	exec := &stubExecutor{}
	client, err := trrntzip.New("trrntzip", trrntzip.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.Pack(context.Background(), zipPath); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if len(exec.args) != 1 || len(exec.args[0]) != 1 || exec.args[0][0] != zipPath {
		t.Fatalf("unexpected args %v", exec.args)
	}
}

func TestPackRequiresExistingZip(t *testing.T) {
	client, err := trrntzip.New("trrntzip", trrntzip.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	err = client.Pack(context.Background(), filepath.Join(t.TempDir(), "missing.zip"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestPackWrapsToolFailure(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "dist.zip")
	if err := os.WriteFile(zipPath, []byte("PK"), 0o644); err != nil {
		t.Fatalf("write zip: %v", err)
	}
	client, err := trrntzip.New("trrntzip", trrntzip.WithExecutor(&stubExecutor{err: errors.New("exit status 1")}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.Pack(context.Background(), zipPath); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
