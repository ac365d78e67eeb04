package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/ingest"
	"github.com/franz/songbook/internal/search"
	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventIngest        EventType = "ingest"
	EventIngestError   EventType = "ingest_error"
	EventBuild         EventType = "build"
	EventSearchHit     EventType = "search_hit"
	EventSearchResults EventType = "search_results"
	EventSearchNone    EventType = "search_none"
	EventSearchTooLong EventType = "search_too_long"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// ParseEventLevel maps a config value to a level, defaulting to info.
func ParseEventLevel(s string) EventLevel {
	level := EventLevel(s)
	if _, ok := levelPriority[level]; ok {
		return level
	}
	return LevelInfo
}

// Event is one line of the event log.
type Event struct {
	Timestamp time.Time         `json:"ts"`
	Session   string            `json:"session"`
	Level     EventLevel        `json:"level"`
	Event     EventType         `json:"event"`
	Source    string            `json:"source,omitempty"`
	Kind      string            `json:"kind,omitempty"`
	Book      string            `json:"book,omitempty"`
	Digest    string            `json:"digest,omitempty"`
	Entries   int               `json:"entries,omitempty"`
	Bytes     int64             `json:"bytes,omitempty"`
	Query     string            `json:"query,omitempty"`
	Status    string            `json:"status,omitempty"`
	SongID    string            `json:"song_id,omitempty"`
	Results   []string          `json:"results,omitempty"`
	TopScore  float64           `json:"top_score,omitempty"`
	Duration  int64             `json:"duration_ms,omitempty"` // in milliseconds
	Error     string            `json:"error,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// EventLogger writes events to a JSONL file. A nil logger discards events.
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	session  string
	minLevel EventLevel
}

// NewEventLogger creates a new event logger with a minimum log level
// minLevel determines which events are written (e.g., LevelInfo skips LevelDebug)
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	session := uuid.NewString()
	filename := fmt.Sprintf("events-%s-%s.jsonl", time.Now().Format("20060102-150405"), session[:8])
	path := filepath.Join(outputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		session:  session,
		minLevel: minLevel,
	}, nil
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Session = l.session

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogIngest logs the outcome of one source file.
func (l *EventLogger) LogIngest(res ingest.FileResult) error {
	event := &Event{
		Level:    LevelInfo,
		Event:    EventIngest,
		Source:   res.Source.Path,
		Kind:     string(res.Source.Kind),
		Book:     res.Source.Book,
		Digest:   res.Digest,
		Entries:  res.Entries(),
		Bytes:    res.Bytes,
		Duration: res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		event.Level = LevelError
		event.Event = EventIngestError
		event.Entries = 0
		event.Error = res.Err.Error()
	}
	return l.Log(event)
}

// LogBuild logs the index build statistics.
func (l *EventLogger) LogBuild(stats catalog.BuildStats, elapsed time.Duration) error {
	level := LevelInfo
	if len(stats.Dangling) > 0 {
		level = LevelWarning
	}
	return l.Log(&Event{
		Level:    level,
		Event:    EventBuild,
		Entries:  stats.Songs,
		Duration: elapsed.Milliseconds(),
		Results:  stats.Dangling,
		Extra: map[string]string{
			"books":      fmt.Sprintf("%d", stats.Books),
			"titles":     fmt.Sprintf("%d", stats.Titles),
			"overwrites": fmt.Sprintf("%d", stats.Overwrite),
		},
	})
}

// LogSearch logs one resolution.
func (l *EventLogger) LogSearch(raw string, res search.Result, elapsed time.Duration) error {
	event := &Event{
		Level:    LevelInfo,
		Query:    raw,
		Status:   string(res.Status),
		Duration: elapsed.Milliseconds(),
	}
	switch res.Status {
	case search.StatusHit:
		event.Event = EventSearchHit
	case search.StatusResults:
		event.Event = EventSearchResults
	case search.StatusTooLong:
		event.Event = EventSearchTooLong
		event.Level = LevelWarning
	default:
		event.Event = EventSearchNone
	}
	if res.Primary != nil {
		event.SongID = res.Primary.String()
	}
	for _, m := range res.Related {
		event.Results = append(event.Results, m.ID.String())
	}
	if res.Status == search.StatusResults && len(res.Related) > 0 {
		event.TopScore = res.Related[0].Score
	}
	return l.Log(event)
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Path returns the path to the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Session returns the id stamped on every event of this logger.
func (l *EventLogger) Session() string {
	if l == nil {
		return ""
	}
	return l.session
}

// NullLogger returns a no-op event logger
func NullLogger() *EventLogger {
	return nil
}
