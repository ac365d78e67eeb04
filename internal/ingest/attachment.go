package ingest

import (
	"io"
	"strings"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/meta"
	"github.com/franz/songbook/internal/util"
)

const (
	refSeparator  = "@"
	linkSeparator = "|"
	subIndexSep   = "_"
)

// splitRef splits "LEFT@RIGHT" at the first separator. Both sides must be
// present: a line without a reference would leave a dead button behind.
func splitRef(lineNo int, line string) (string, string, error) {
	left, right, ok := strings.Cut(line, refSeparator)
	if !ok {
		return "", "", lineError(lineNo, util.ErrMalformed, "missing %q in %q", refSeparator, line)
	}
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	if left == "" || right == "" {
		return "", "", lineError(lineNo, util.ErrMalformed, "empty key or reference in %q", line)
	}
	return left, right, nil
}

// entryID resolves the left side of a flat entry. "12_2" and "TSMS 12_2"
// both name TSMS 12 when book is TSMS; the part after "_" is a page or
// track index and only the line order matters.
func entryID(lineNo int, left, book string) (catalog.SongID, error) {
	head, _, _ := strings.Cut(left, subIndexSep)
	head = strings.TrimSpace(head)

	if meta.IsDigits(head) {
		if book == "" {
			return catalog.SongID{}, lineError(lineNo, util.ErrInvalidConfig,
				"bare number %q but the file has no book code", head)
		}
		number, err := catalog.ParseNumber(head)
		if err != nil {
			return catalog.SongID{}, lineError(lineNo, err, "song number %q", head)
		}
		return catalog.NewSongID(book, number), nil
	}

	id, err := catalog.ParseSongID(head)
	if err != nil {
		return catalog.SongID{}, lineError(lineNo, err, "song id %q", head)
	}
	return id, nil
}

// ParseFlat reads a multi-valued per-song file such as scores or audio:
// one "<number>[_<suffix>]@<reference>" per line. Repeated numbers append
// in file order.
func ParseFlat(r io.Reader, book string) (map[catalog.SongID][]string, error) {
	book = strings.ToUpper(strings.TrimSpace(book))
	out := make(map[catalog.SongID][]string)
	err := scanLines(r, func(lineNo int, line string) error {
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}
		left, ref, err := splitRef(lineNo, line)
		if err != nil {
			return err
		}
		id, err := entryID(lineNo, left, book)
		if err != nil {
			return err
		}
		out[id] = append(out[id], ref)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseTitled reads a multi-valued file keyed by song title, one
// "<title>@<reference>" per line.
func ParseTitled(r io.Reader) (map[string][]string, error) {
	out := make(map[string][]string)
	err := scanLines(r, func(lineNo int, line string) error {
		key, ref, err := titledLine(lineNo, line)
		if err != nil || key == "" {
			return err
		}
		out[key] = append(out[key], ref)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseSingle reads a single-valued file, one "<key>@<reference>" per line.
// Keys are song titles; a repeated key keeps the last reference.
func ParseSingle(r io.Reader) (map[string]string, error) {
	out := make(map[string]string)
	err := scanLines(r, func(lineNo int, line string) error {
		key, ref, err := titledLine(lineNo, line)
		if err != nil || key == "" {
			return err
		}
		out[key] = ref
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// titledLine returns an empty key for blank lines.
func titledLine(lineNo int, line string) (string, string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", nil
	}
	left, ref, err := splitRef(lineNo, line)
	if err != nil {
		return "", "", err
	}
	key := meta.Normalize(left)
	if key == "" {
		return "", "", lineError(lineNo, util.ErrMalformed, "title %q has no letters", left)
	}
	return key, ref, nil
}

// ParseLinks reads a grouped link file. Blocks are separated by a blank
// line; a block opens with a bare song number of the given book and lists
// "<label>|<url>" pairs. A repeated label updates the URL in place.
func ParseLinks(r io.Reader, book string) (map[catalog.SongID]*catalog.LinkList, error) {
	book = strings.ToUpper(strings.TrimSpace(book))
	if book == "" {
		return nil, lineError(0, util.ErrInvalidConfig, "link file needs a book code")
	}

	out := make(map[catalog.SongID]*catalog.LinkList)
	var (
		open    bool
		current catalog.SongID
		links   *catalog.LinkList
	)
	commit := func() {
		if open {
			out[current] = links
		}
		open = false
	}

	err := scanLines(r, func(lineNo int, line string) error {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			commit()
			return nil
		case meta.IsDigits(line):
			commit()
			number, err := catalog.ParseNumber(line)
			if err != nil {
				return lineError(lineNo, err, "song number %q", line)
			}
			current = catalog.NewSongID(book, number)
			links = catalog.NewLinkList()
			open = true
			return nil
		}

		if !open {
			return lineError(lineNo, util.ErrMalformed, "link %q outside a numbered block", line)
		}
		label, url, ok := strings.Cut(line, linkSeparator)
		if !ok {
			return lineError(lineNo, util.ErrMalformed, "missing %q in %q", linkSeparator, line)
		}
		label, url = strings.TrimSpace(label), strings.TrimSpace(url)
		if label == "" || url == "" {
			return lineError(lineNo, util.ErrMalformed, "empty label or url in %q", line)
		}
		links.Set(label, url)
		return nil
	})
	if err != nil {
		return nil, err
	}
	commit()
	return out, nil
}
