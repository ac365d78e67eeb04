package main

import (
	"context"
	"fmt"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/ingest"
	"github.com/franz/songbook/internal/report"
	"github.com/franz/songbook/internal/search"
	"github.com/franz/songbook/internal/util"
)

// session is everything a command needs after ingestion.
type session struct {
	manifestPath string
	manifest     *ingest.Manifest
	index        *catalog.Index
	report       *ingest.Report
	events       *report.EventLogger
}

func (s *session) Close() error {
	return s.events.Close()
}

// resolver builds a resolver from the search.* config keys.
func (s *session) resolver() (*search.Resolver, error) {
	opts, err := searchOptions(s.manifest.DefaultBook)
	if err != nil {
		return nil, err
	}
	return search.NewResolver(s.index, opts), nil
}

// openEvents opens the event log when events-dir is set, else a null logger.
func openEvents() (*report.EventLogger, error) {
	dir := GetConfigString("events-dir", "")
	if dir == "" {
		return report.NullLogger(), nil
	}
	events, err := report.NewEventLogger(dir, report.ParseEventLevel(GetConfigString("events.level", "info")))
	if err != nil {
		return nil, err
	}
	util.DebugLog("Event log: %s", events.Path())
	return events, nil
}

// loadSession reads the manifest and builds the index. Files that fail to
// parse are logged and skipped; an error is returned only when the manifest
// is unusable or no book loaded at all.
func loadSession(ctx context.Context) (*session, error) {
	path := GetConfigString("sources", "sources.yaml")
	manifest, err := ingest.LoadManifest(path)
	if err != nil {
		return nil, err
	}

	events, err := openEvents()
	if err != nil {
		return nil, err
	}

	loader := ingest.NewLoader(&ingest.Config{
		Workers:  util.IngestWorkers(),
		Progress: util.ShowProgress(),
	})
	index, rep, err := loader.Load(ctx, manifest)

	for _, res := range rep.Results {
		events.LogIngest(res)
	}
	events.LogBuild(rep.Stats, rep.Elapsed)

	if err != nil {
		events.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if failed := len(rep.Failed()); failed > 0 {
		util.WarnLog("%d of %d source file(s) failed; run 'songbook check' for details", failed, len(rep.Results))
	}
	util.DebugLog("Index ready: %d songs from %d book(s) in %s", index.Len(), rep.BooksLoaded(), rep.Elapsed)

	return &session{
		manifestPath: path,
		manifest:     manifest,
		index:        index,
		report:       rep,
		events:       events,
	}, nil
}
