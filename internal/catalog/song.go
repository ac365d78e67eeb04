// Package catalog holds the song data model and the immutable lookup index
// the resolver searches.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/franz/songbook/internal/util"
)

// SongID identifies a song by book code and in-book number.
type SongID struct {
	Book   string
	Number int
}

// NewSongID builds an id, upper-casing the book code.
func NewSongID(book string, number int) SongID {
	return SongID{Book: strings.ToUpper(strings.TrimSpace(book)), Number: number}
}

// String renders the id as "<BOOK> <NUMBER>", e.g. "TSMS 12".
func (id SongID) String() string {
	return id.Book + " " + strconv.Itoa(id.Number)
}

// IsZero reports whether the id is unset.
func (id SongID) IsZero() bool {
	return id.Book == "" && id.Number == 0
}

// ParseSongID parses "<BOOK> <NUMBER>". The book is upper-cased and the
// number read as decimal, so "hgg 012" yields HGG 12.
func ParseSongID(s string) (SongID, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return SongID{}, fmt.Errorf("song id %q: want \"<BOOK> <NUMBER>\": %w", s, util.ErrMalformed)
	}
	number, err := parseNumber(fields[1])
	if err != nil {
		return SongID{}, fmt.Errorf("song id %q: %w", s, err)
	}
	return NewSongID(fields[0], number), nil
}

// parseNumber accepts only unsigned decimal digits.
func parseNumber(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("number %q: %w", s, util.ErrMalformed)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", s, util.ErrMalformed)
	}
	return n, nil
}

// ParseNumber parses an in-book song number.
func ParseNumber(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty number: %w", util.ErrMalformed)
	}
	return parseNumber(s)
}

// Record is one parsed song. Lyrics start with the numbering line prefixed
// by the book code and separate paragraphs with a blank line.
type Record struct {
	ID     SongID
	Title  string
	Lyrics string
}

// HasParagraphs reports whether the lyrics contain more than one paragraph.
func (r Record) HasParagraphs() bool {
	return strings.Contains(r.Lyrics, "\n\n")
}

// Priority tags a book at load time.
type Priority int

const (
	PriorityNormal Priority = iota
	// PriorityPrimary books surface first when a title recurs across books.
	PriorityPrimary
)

// Book describes one loaded book.
type Book struct {
	Code     string
	Priority Priority
}
