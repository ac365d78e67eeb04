package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/ingest"
)

func TestCheckSQLite(t *testing.T) {
	result := checkSQLite()

	if result.error {
		t.Errorf("SQLite check failed: %s", result.message)
	}

	if result.message == "" {
		t.Error("expected version information in message")
	}
}

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestCheckManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tsms.txt"), []byte("1 A\nx\n"), 0644); err != nil {
		t.Fatal(err)
	}

	path := writeManifest(t, dir, "primary_book: tsms\nbooks:\n  - {code: TSMS, file: tsms.txt}\n")
	result := checkManifest(path)
	if result.error || result.warning {
		t.Errorf("expected a clean manifest, got %+v", result)
	}

	path = writeManifest(t, dir, "books:\n  - {code: TSMS, file: tsms.txt}\n  - {code: CA, file: ca.txt}\n")
	result = checkManifest(path)
	if result.error || !result.warning {
		t.Errorf("expected a missing-file warning, got %+v", result)
	}

	path = writeManifest(t, dir, "books: []\n")
	if result := checkManifest(path); !result.error {
		t.Errorf("expected an error for a manifest without books, got %+v", result)
	}

	if result := checkManifest(filepath.Join(dir, "absent.yaml")); !result.error {
		t.Errorf("expected an error for a missing manifest, got %+v", result)
	}
}

func TestCheckLoad(t *testing.T) {
	if result := checkLoad(nil, errors.New("boom")); !result.error || result.message != "boom" {
		t.Errorf("expected load error, got %+v", result)
	}

	ok := ingest.FileResult{Source: ingest.Source{Kind: ingest.KindBook, Book: "TSMS"}, Records: make([]catalog.Record, 2)}
	bad := ingest.FileResult{Source: ingest.Source{Kind: ingest.KindBook, Book: "CA"}, Err: errors.New("bad")}

	rep := &ingest.Report{Results: []ingest.FileResult{ok}, Stats: catalog.BuildStats{Songs: 2}}
	if result := checkLoad(rep, nil); result.error {
		t.Errorf("expected success, got %+v", result)
	}

	rep.Results = append(rep.Results, bad)
	result := checkLoad(rep, nil)
	if !result.error {
		t.Errorf("expected failure with a failed file, got %+v", result)
	}
	if result.message != "1 of 2 file(s) loaded, 2 songs" {
		t.Errorf("unexpected message: %q", result.message)
	}
}

func TestCheckDangling(t *testing.T) {
	rep := &ingest.Report{}
	if result := checkDangling(rep); result.warning {
		t.Errorf("expected no warning, got %+v", result)
	}

	rep.Stats.Dangling = []string{"links CA 99"}
	if result := checkDangling(rep); !result.warning {
		t.Errorf("expected a warning, got %+v", result)
	}
}
