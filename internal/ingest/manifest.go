package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/util"
	"gopkg.in/yaml.v3"
)

// Manifest lists the source files that make up the catalog.
//
//	primary_book: TSMS
//	default_book: TSMS
//	books_dir: books          # every *.txt, code = file name before the first dot
//	books:
//	  - {code: CA, file: extra/CA.txt}
//	attachments:
//	  - {kind: chords, file: media/tsms_chords.txt, book: TSMS}
//	  - {kind: scores, file: media/scores.txt}
//	  - {kind: piano, file: media/wilds_piano.txt}
//	  - {kind: links, file: media/ca_links.txt, book: CA}
type Manifest struct {
	PrimaryBook string             `yaml:"primary_book"`
	DefaultBook string             `yaml:"default_book"`
	BooksDir    string             `yaml:"books_dir"`
	Books       []BookSource       `yaml:"books"`
	Attachments []AttachmentSource `yaml:"attachments"`

	dir string
}

// BookSource is one book text file.
type BookSource struct {
	Code string `yaml:"code"`
	File string `yaml:"file"`
}

// AttachmentSource is one attachment file.
type AttachmentSource struct {
	Kind catalog.AttachmentKind `yaml:"kind"`
	File string                 `yaml:"file"`
	Book string                 `yaml:"book"`
}

// LoadManifest reads and validates a manifest. Relative file paths are
// resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	if err := m.expandBooksDir(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// expandBooksDir adds one book per *.txt file in BooksDir, in name order.
// Books listed explicitly win over discovered files with the same code.
func (m *Manifest) expandBooksDir() error {
	if m.BooksDir == "" {
		return nil
	}
	dir := m.Resolve(m.BooksDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read books_dir %s: %w", dir, err)
	}

	listed := make(map[string]bool, len(m.Books))
	for _, b := range m.Books {
		listed[strings.ToUpper(b.Code)] = true
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		code, _, _ := strings.Cut(name, ".")
		code = strings.ToUpper(code)
		if listed[code] {
			continue
		}
		m.Books = append(m.Books, BookSource{Code: code, File: filepath.Join(m.BooksDir, name)})
	}
	return nil
}

// Validate checks codes, kinds and required book codes, and fills in
// DefaultBook from PrimaryBook when unset.
func (m *Manifest) Validate() error {
	m.PrimaryBook = strings.ToUpper(strings.TrimSpace(m.PrimaryBook))
	m.DefaultBook = strings.ToUpper(strings.TrimSpace(m.DefaultBook))
	if m.DefaultBook == "" {
		m.DefaultBook = m.PrimaryBook
	}

	if len(m.Books) == 0 {
		return fmt.Errorf("no books listed: %w", util.ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(m.Books))
	for i := range m.Books {
		b := &m.Books[i]
		b.Code = strings.ToUpper(strings.TrimSpace(b.Code))
		if b.Code == "" || strings.ContainsAny(b.Code, " \t") {
			return fmt.Errorf("book %d: invalid code %q: %w", i+1, b.Code, util.ErrInvalidConfig)
		}
		if b.File == "" {
			return fmt.Errorf("book %s: missing file: %w", b.Code, util.ErrInvalidConfig)
		}
		if seen[b.Code] {
			return fmt.Errorf("book %s listed twice: %w", b.Code, util.ErrInvalidConfig)
		}
		seen[b.Code] = true
	}

	for i := range m.Attachments {
		a := &m.Attachments[i]
		a.Book = strings.ToUpper(strings.TrimSpace(a.Book))
		if !a.Kind.Valid() {
			return fmt.Errorf("attachment %d: unknown kind %q: %w", i+1, a.Kind, util.ErrInvalidConfig)
		}
		if a.File == "" {
			return fmt.Errorf("attachment %d: missing file: %w", i+1, util.ErrInvalidConfig)
		}
		if (a.Kind == catalog.KindChords || a.Kind == catalog.KindLinks) && a.Book == "" {
			return fmt.Errorf("attachment %s (%s): book is required: %w", a.File, a.Kind, util.ErrInvalidConfig)
		}
	}
	return nil
}

// Resolve turns a manifest-relative path into a usable one.
func (m *Manifest) Resolve(file string) string {
	if filepath.IsAbs(file) || m.dir == "" {
		return file
	}
	return filepath.Join(m.dir, file)
}

// Sources returns every file to load: books first, then attachments, each
// in manifest order.
func (m *Manifest) Sources() []Source {
	sources := make([]Source, 0, len(m.Books)+len(m.Attachments))
	for _, b := range m.Books {
		priority := catalog.PriorityNormal
		if b.Code == m.PrimaryBook {
			priority = catalog.PriorityPrimary
		}
		sources = append(sources, Source{
			Kind:     KindBook,
			Book:     b.Code,
			Path:     m.Resolve(b.File),
			Priority: priority,
		})
	}
	for _, a := range m.Attachments {
		sources = append(sources, Source{
			Kind: SourceKind(a.Kind),
			Book: a.Book,
			Path: m.Resolve(a.File),
		})
	}
	return sources
}
