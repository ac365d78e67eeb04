// Package ingest turns the raw songbook sources into catalog records and
// attachment sets. Every parser is a pure function of its input so files can
// be parsed in parallel.
package ingest

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/util"
)

// recordStart matches a line that opens a new song: leading digits forming
// a whole token ("12", "12 AMAZING GRACE"), not "10,000 REASONS".
var recordStart = regexp.MustCompile(`^(\d+)(?:\s|$)`)

const maxLineBytes = 1 << 20

// scanLines calls fn for every line of r without its line terminator.
func scanLines(r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := fn(lineNo, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return lineError(lineNo+1, err, "read failed")
	}
	return nil
}

// bookFold accumulates records while lines are folded over it.
type bookFold struct {
	book     string
	records  []catalog.Record
	position map[catalog.SongID]int
	open     bool
	current  catalog.Record
	body     strings.Builder
	preamble int
}

func newBookFold(book string) *bookFold {
	return &bookFold{
		book:     strings.ToUpper(strings.TrimSpace(book)),
		position: make(map[catalog.SongID]int),
	}
}

func (f *bookFold) line(lineNo int, line string) error {
	m := recordStart.FindStringSubmatch(line)
	if m == nil {
		if !f.open {
			f.preamble++
			return nil
		}
		f.body.WriteString(line)
		f.body.WriteByte('\n')
		return nil
	}

	number, err := catalog.ParseNumber(m[1])
	if err != nil {
		return lineError(lineNo, err, "song number %q", m[1])
	}

	f.flush()
	fields := strings.Fields(line)
	f.current = catalog.Record{
		ID:    catalog.NewSongID(f.book, number),
		Title: strings.Join(fields[1:], " "),
	}
	f.open = true
	f.body.WriteString(f.book)
	f.body.WriteByte(' ')
	f.body.WriteString(line)
	f.body.WriteByte('\n')
	return nil
}

// flush emits the open song. A repeated number replaces the earlier record
// at its original position.
func (f *bookFold) flush() {
	if !f.open {
		return
	}
	f.current.Lyrics = strings.TrimRightFunc(f.body.String(), unicode.IsSpace)
	f.body.Reset()
	f.open = false

	if pos, ok := f.position[f.current.ID]; ok {
		f.records[pos] = f.current
		return
	}
	f.position[f.current.ID] = len(f.records)
	f.records = append(f.records, f.current)
}

// ParseBook splits one book file into records. The numbering line is kept
// at the top of each lyric body, prefixed with the book code.
func ParseBook(r io.Reader, book string) ([]catalog.Record, error) {
	fold := newBookFold(book)
	if fold.book == "" {
		return nil, lineError(0, util.ErrInvalidConfig, "empty book code")
	}
	if err := scanLines(r, fold.line); err != nil {
		return nil, err
	}
	fold.flush()

	if len(fold.records) == 0 {
		return nil, lineError(0, util.ErrNoRecords, "no numbered song found in book %s", fold.book)
	}
	if fold.preamble > 0 {
		util.DebugLog("Book %s: ignored %d line(s) before the first song", fold.book, fold.preamble)
	}
	return fold.records, nil
}

// ParseChords reads a chord-sheet file. It follows the book grammar and
// returns one sheet per song of the given book.
func ParseChords(r io.Reader, book string) (*catalog.AttachmentSet, error) {
	records, err := ParseBook(r, book)
	if err != nil {
		return nil, err
	}
	set := catalog.NewAttachmentSet()
	for _, rec := range records {
		set.Chords[rec.ID] = rec.Lyrics
	}
	return set, nil
}
