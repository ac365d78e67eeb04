package ingest

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/util"
	"github.com/schollz/progressbar/v3"
	"github.com/sourcegraph/conc/iter"
	"github.com/zeebo/blake3"
)

// SourceKind is "book" or one of the attachment kinds.
type SourceKind string

// KindBook marks a lyric book file.
const KindBook SourceKind = "book"

// Source is one file to ingest.
type Source struct {
	Kind     SourceKind
	Book     string
	Path     string
	Priority catalog.Priority
}

// FileResult is the immutable outcome of parsing one source.
type FileResult struct {
	Source      Source
	Records     []catalog.Record
	Attachments *catalog.AttachmentSet
	Digest      string // blake3 of the raw bytes, hex
	Bytes       int64
	Duration    time.Duration
	Err         error
}

// Entries returns how many songs or attachment entries the file produced.
func (r FileResult) Entries() int {
	if r.Source.Kind == KindBook {
		return len(r.Records)
	}
	return r.Attachments.Count()
}

// Report collects every file outcome of one load, in source order.
type Report struct {
	Results []FileResult
	Stats   catalog.BuildStats
	Elapsed time.Duration
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []FileResult {
	var out []FileResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// BooksLoaded counts the books that parsed successfully.
func (r *Report) BooksLoaded() int {
	n := 0
	for _, res := range r.Results {
		if res.Source.Kind == KindBook && res.Err == nil {
			n++
		}
	}
	return n
}

// Err joins every file error, or returns nil when all files loaded.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, res.Err)
	}
	return errors.Join(errs...)
}

// Config holds loader configuration
type Config struct {
	Workers  int
	Progress bool
}

// Loader parses sources in parallel and builds the index on the calling
// goroutine once every worker has finished.
type Loader struct {
	workers  int
	progress bool
}

// NewLoader creates a new Loader
func NewLoader(cfg *Config) *Loader {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Loader{
		workers:  cfg.Workers,
		progress: cfg.Progress,
	}
}

// Load ingests every manifest source and builds the index from the files
// that parsed. A failing file is reported and skipped; Load only returns an
// error when no book at all could be loaded.
func (l *Loader) Load(ctx context.Context, m *Manifest) (*catalog.Index, *Report, error) {
	start := time.Now()
	sources := m.Sources()
	util.InfoLog("Loading %d source file(s) with %d worker(s)", len(sources), l.workers)

	var bar *progressbar.ProgressBar
	if l.progress {
		bar = progressbar.NewOptions(len(sources),
			progressbar.OptionSetDescription("Ingesting"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	mapper := iter.Mapper[Source, FileResult]{MaxGoroutines: l.workers}
	results := mapper.Map(sources, func(src *Source) FileResult {
		res := parseSource(ctx, *src)
		if bar != nil {
			bar.Add(1)
		}
		return res
	})
	if bar != nil {
		bar.Finish()
	}

	report := &Report{Results: results}
	builder := catalog.NewBuilder()
	for _, res := range results {
		if res.Err != nil {
			util.ErrorLog("Skipping %s: %v", res.Source.Path, res.Err)
			continue
		}
		util.DebugLog("Loaded %s %s (%d entries, %s)", res.Source.Kind, res.Source.Path, res.Entries(), res.Duration)
		if res.Source.Kind == KindBook {
			builder.AddBook(catalog.Book{Code: res.Source.Book, Priority: res.Source.Priority}, res.Records)
		} else {
			builder.AddAttachments(res.Attachments)
		}
	}

	index, stats := builder.Build()
	report.Stats = stats
	report.Elapsed = time.Since(start)

	if report.BooksLoaded() == 0 {
		return index, report, fmt.Errorf("no book could be loaded: %w", util.ErrNoRecords)
	}
	return index, report, nil
}

// parseSource reads and parses one file. It never panics on bad input and
// shares no state with other calls.
func parseSource(ctx context.Context, src Source) FileResult {
	start := time.Now()
	res := FileResult{Source: src}

	fail := func(err error) FileResult {
		var ie *IngestionError
		if errors.As(err, &ie) {
			ie.File = src.Path
		} else {
			err = &IngestionError{File: src.Path, Reason: "cannot load", Err: err}
		}
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fail(&IngestionError{Reason: "missing file", Err: fmt.Errorf("%w: %v", util.ErrNotFound, err)})
		}
		return fail(err)
	}
	sum := blake3.Sum256(data)
	res.Digest = hex.EncodeToString(sum[:])
	res.Bytes = int64(len(data))

	if err := parseInto(&res, bytes.NewReader(data)); err != nil {
		return fail(err)
	}
	res.Duration = time.Since(start)
	return res
}

func parseInto(res *FileResult, r io.Reader) error {
	src := res.Source
	set := catalog.NewAttachmentSet()

	switch src.Kind {
	case KindBook:
		records, err := ParseBook(r, src.Book)
		if err != nil {
			return err
		}
		res.Records = records
		return nil
	case SourceKind(catalog.KindChords):
		chords, err := ParseChords(r, src.Book)
		if err != nil {
			return err
		}
		set = chords
	case SourceKind(catalog.KindScores):
		refs, err := ParseFlat(r, src.Book)
		if err != nil {
			return err
		}
		set.Scores = refs
	case SourceKind(catalog.KindAudio):
		refs, err := ParseFlat(r, src.Book)
		if err != nil {
			return err
		}
		set.Audio = refs
	case SourceKind(catalog.KindPiano):
		refs, err := ParseSingle(r)
		if err != nil {
			return err
		}
		set.Piano = refs
	case SourceKind(catalog.KindVideos):
		refs, err := ParseTitled(r)
		if err != nil {
			return err
		}
		set.Videos = refs
	case SourceKind(catalog.KindLinks):
		links, err := ParseLinks(r, src.Book)
		if err != nil {
			return err
		}
		set.Links = links
	default:
		return &IngestionError{Reason: fmt.Sprintf("unknown source kind %q", src.Kind), Err: util.ErrInvalidConfig}
	}

	res.Attachments = set
	return nil
}
