package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/ingest"
	"github.com/franz/songbook/internal/search"
)

// readEvents closes the logger and decodes every line of its file.
func readEvents(t *testing.T, logger *EventLogger) []Event {
	t.Helper()
	logger.Close()

	file, err := os.Open(logger.Path())
	if err != nil {
		t.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var decoded Event
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("Failed to decode line %d: %v", len(events)+1, err)
		}
		events = append(events, decoded)
	}
	return events
}

func TestNewEventLogger(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewEventLogger(filepath.Join(tmpDir, "events"), LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(logger.Path()); os.IsNotExist(err) {
		t.Errorf("Event log file was not created at %s", logger.Path())
	}

	filename := filepath.Base(logger.Path())
	if !strings.HasPrefix(filename, "events-") || !strings.HasSuffix(filename, ".jsonl") {
		t.Errorf("Event log filename format incorrect: %s", filename)
	}
	if len(logger.Session()) != 36 {
		t.Errorf("Expected a uuid session id, got %q", logger.Session())
	}
	if !strings.Contains(filename, logger.Session()[:8]) {
		t.Errorf("Expected filename %s to carry the session prefix", filename)
	}
}

func TestEventLogger_SessionOnEveryEvent(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	logger.Log(&Event{Level: LevelInfo, Event: EventIngest, Source: "a.txt"})
	logger.Log(&Event{Level: LevelError, Event: EventIngestError, Source: "b.txt", Error: "boom"})

	events := readEvents(t, logger)
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	for i, e := range events {
		if e.Session != logger.Session() {
			t.Errorf("Event %d: expected session %s, got %s", i, logger.Session(), e.Session)
		}
		if e.Timestamp.IsZero() || time.Since(e.Timestamp) > 5*time.Second {
			t.Errorf("Event %d: bad timestamp %v", i, e.Timestamp)
		}
	}
}

func TestEventLogger_ConcurrentWrites(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				logger.LogSearch("amazing grace", search.Result{Status: search.StatusNoMatch}, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if events := readEvents(t, logger); len(events) != 200 {
		t.Errorf("Expected 200 events, got %d", len(events))
	}
}

func TestEventLogger_LogIngest(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	ok := ingest.FileResult{
		Source:   ingest.Source{Kind: ingest.KindBook, Book: "TSMS", Path: "books/tsms.txt"},
		Records:  make([]catalog.Record, 3),
		Digest:   "abc123",
		Bytes:    4096,
		Duration: 15 * time.Millisecond,
	}
	failed := ingest.FileResult{
		Source: ingest.Source{Kind: ingest.SourceKind(catalog.KindLinks), Book: "CA", Path: "media/links.txt"},
		Err:    &ingest.IngestionError{File: "media/links.txt", Line: 4, Reason: "missing \"|\""},
	}
	logger.LogIngest(ok)
	logger.LogIngest(failed)

	events := readEvents(t, logger)
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}

	if events[0].Event != EventIngest {
		t.Errorf("Expected event type 'ingest', got '%s'", events[0].Event)
	}
	if events[0].Entries != 3 || events[0].Bytes != 4096 || events[0].Digest != "abc123" {
		t.Errorf("Unexpected ingest event: %+v", events[0])
	}
	if events[0].Duration != 15 {
		t.Errorf("Expected duration 15 ms, got %d ms", events[0].Duration)
	}

	if events[1].Event != EventIngestError || events[1].Level != LevelError {
		t.Errorf("Expected error-level ingest_error, got %s/%s", events[1].Level, events[1].Event)
	}
	if events[1].Error != "media/links.txt:4: missing \"|\"" {
		t.Errorf("Unexpected error text %q", events[1].Error)
	}
	if events[1].Kind != "links" || events[1].Book != "CA" {
		t.Errorf("Unexpected source fields: %+v", events[1])
	}
}

func TestEventLogger_LogSearch(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	hit := catalog.NewSongID("TSMS", 12)
	results := []search.Result{
		{Status: search.StatusHit, Primary: &hit, Related: []search.Match{{ID: catalog.NewSongID("CA", 3), Score: 100}}},
		{Status: search.StatusResults, Related: []search.Match{{ID: catalog.NewSongID("HGG", 1), Score: 92.5}}},
		{Status: search.StatusNoMatch},
		{Status: search.StatusTooLong},
	}
	for _, res := range results {
		logger.LogSearch("query", res, 2*time.Millisecond)
	}

	events := readEvents(t, logger)
	want := []EventType{EventSearchHit, EventSearchResults, EventSearchNone, EventSearchTooLong}
	if len(events) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(events))
	}
	for i, e := range events {
		if e.Event != want[i] {
			t.Errorf("Event %d: expected %s, got %s", i, want[i], e.Event)
		}
		if e.Query != "query" {
			t.Errorf("Event %d: expected query 'query', got %q", i, e.Query)
		}
	}

	if events[0].SongID != "TSMS 12" || len(events[0].Results) != 1 || events[0].Results[0] != "CA 3" {
		t.Errorf("Unexpected hit event: %+v", events[0])
	}
	if events[1].TopScore != 92.5 {
		t.Errorf("Expected top_score 92.5, got %f", events[1].TopScore)
	}
	if events[3].Level != LevelWarning {
		t.Errorf("Expected too-long level 'warning', got '%s'", events[3].Level)
	}
}

func TestEventLogger_LogBuild(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	logger.LogBuild(catalog.BuildStats{Books: 2, Songs: 10, Titles: 9, Dangling: []string{"links CA 99"}}, time.Second)

	events := readEvents(t, logger)
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Event != EventBuild || e.Level != LevelWarning {
		t.Errorf("Expected warning-level build event, got %s/%s", e.Level, e.Event)
	}
	if e.Entries != 10 || e.Extra["books"] != "2" || e.Extra["titles"] != "9" {
		t.Errorf("Unexpected build event: %+v", e)
	}
}

func TestEventLogger_NullLogger(t *testing.T) {
	logger := NullLogger()

	if err := logger.Log(&Event{Level: LevelInfo, Event: EventIngest}); err != nil {
		t.Errorf("NullLogger.Log should not return error, got: %v", err)
	}
	if err := logger.LogIngest(ingest.FileResult{Err: errors.New("x")}); err != nil {
		t.Errorf("NullLogger.LogIngest should not return error, got: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("NullLogger.Close should not return error, got: %v", err)
	}
	if path := logger.Path(); path != "" {
		t.Errorf("NullLogger.Path should return empty string, got: %s", path)
	}
}

func TestEventLogger_LogLevelFiltering(t *testing.T) {
	tests := []struct {
		minLevel EventLevel
		want     int
	}{
		{LevelDebug, 4},
		{LevelInfo, 3},
		{LevelWarning, 2},
		{LevelError, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.minLevel), func(t *testing.T) {
			logger, err := NewEventLogger(t.TempDir(), tt.minLevel)
			if err != nil {
				t.Fatalf("NewEventLogger failed: %v", err)
			}
			for _, level := range []EventLevel{LevelDebug, LevelInfo, LevelWarning, LevelError} {
				logger.Log(&Event{Level: level, Event: EventIngest})
			}
			if got := len(readEvents(t, logger)); got != tt.want {
				t.Errorf("Expected %d events at min level %s, got %d", tt.want, tt.minLevel, got)
			}
		})
	}
}

func TestParseEventLevel(t *testing.T) {
	if got := ParseEventLevel("warning"); got != LevelWarning {
		t.Errorf("Expected warning, got %s", got)
	}
	if got := ParseEventLevel("loud"); got != LevelInfo {
		t.Errorf("Expected fallback info, got %s", got)
	}
}
