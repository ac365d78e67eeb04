package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/ingest"
)

// SongRow is one exported song.
type SongRow struct {
	ID       catalog.SongID
	Title    string
	TitleKey string
	Lyrics   string
	Position int
}

// SourceRow is one exported source file outcome.
type SourceRow struct {
	Path    string
	Kind    string
	Book    string
	Digest  string
	Entries int
	Status  string
	Line    int
	Error   string
}

// ExportIndex replaces the snapshot with idx and the file outcomes of rep.
// rep may be nil.
func (s *Store) ExportIndex(idx *catalog.Index, rep *ingest.Report) error {
	return s.inTx(func(tx *sql.Tx) error {
		for _, table := range snapshotTables {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		if rep != nil {
			if err := exportSources(tx, rep); err != nil {
				return err
			}
		}
		if err := exportSongs(tx, idx); err != nil {
			return err
		}
		return exportAttachments(tx, idx)
	})
}

func exportSources(tx *sql.Tx, rep *ingest.Report) error {
	stmt, err := tx.Prepare(`
		INSERT INTO sources (path, kind, book, digest, size_bytes, entries, status, line, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare source insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range rep.Results {
		status, line, errMsg, entries := "loaded", 0, "", res.Entries()
		if res.Err != nil {
			status, errMsg, entries = "failed", res.Err.Error(), 0
			var ie *ingest.IngestionError
			if errors.As(res.Err, &ie) {
				line = ie.Line
			}
		}
		if _, err := stmt.Exec(res.Source.Path, string(res.Source.Kind), res.Source.Book,
			res.Digest, res.Bytes, entries, status, line, errMsg); err != nil {
			return fmt.Errorf("failed to insert source %s: %w", res.Source.Path, err)
		}
	}
	return nil
}

func exportSongs(tx *sql.Tx, idx *catalog.Index) error {
	for i, book := range idx.Books() {
		if _, err := tx.Exec("INSERT INTO books (code, primary_book, position) VALUES (?, ?, ?)",
			book.Code, book.Priority == catalog.PriorityPrimary, i); err != nil {
			return fmt.Errorf("failed to insert book %s: %w", book.Code, err)
		}
	}

	songStmt, err := tx.Prepare(`
		INSERT INTO songs (book, number, title, title_key, lyrics, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare song insert: %w", err)
	}
	defer songStmt.Close()

	titleStmt, err := tx.Prepare("INSERT OR IGNORE INTO titles (title_key, rank, book, number) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare title insert: %w", err)
	}
	defer titleStmt.Close()

	seen := make(map[string]bool)
	for i, id := range idx.IDs() {
		rec := idx.MustSong(id)
		key := idx.TitleKey(id)
		if _, err := songStmt.Exec(id.Book, id.Number, rec.Title, key, rec.Lyrics, i); err != nil {
			return fmt.Errorf("failed to insert song %s: %w", id, err)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		for rank, match := range idx.TitleMatches(key) {
			if _, err := titleStmt.Exec(key, rank, match.Book, match.Number); err != nil {
				return fmt.Errorf("failed to insert title %q: %w", key, err)
			}
		}
	}

	corpusStmt, err := tx.Prepare("INSERT INTO corpus (book, number, key) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare corpus insert: %w", err)
	}
	defer corpusStmt.Close()

	for _, entry := range idx.Corpus() {
		if _, err := corpusStmt.Exec(entry.ID.Book, entry.ID.Number, entry.Key); err != nil {
			return fmt.Errorf("failed to insert corpus %s: %w", entry.ID, err)
		}
	}
	return nil
}

func exportAttachments(tx *sql.Tx, idx *catalog.Index) error {
	stmt, err := tx.Prepare(`
		INSERT INTO attachments (kind, book, number, title_key, position, label, ref)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare attachment insert: %w", err)
	}
	defer stmt.Close()

	bySong := func(kind catalog.AttachmentKind, id catalog.SongID, pos int, label, ref string) error {
		_, err := stmt.Exec(string(kind), id.Book, id.Number, nil, pos, label, ref)
		return err
	}
	byTitle := func(kind catalog.AttachmentKind, key string, pos int, ref string) error {
		_, err := stmt.Exec(string(kind), nil, nil, key, pos, "", ref)
		return err
	}

	titles := make(map[string]bool)
	for _, id := range idx.IDs() {
		if text, ok := idx.Chords(id); ok {
			if err := bySong(catalog.KindChords, id, 0, "", text); err != nil {
				return fmt.Errorf("failed to insert chords for %s: %w", id, err)
			}
		}
		for i, ref := range idx.Scores(id) {
			if err := bySong(catalog.KindScores, id, i, "", ref); err != nil {
				return fmt.Errorf("failed to insert score for %s: %w", id, err)
			}
		}
		for i, ref := range idx.Audio(id) {
			if err := bySong(catalog.KindAudio, id, i, "", ref); err != nil {
				return fmt.Errorf("failed to insert audio for %s: %w", id, err)
			}
		}
		for i, link := range idx.Links(id) {
			if err := bySong(catalog.KindLinks, id, i, link.Label, link.URL); err != nil {
				return fmt.Errorf("failed to insert link for %s: %w", id, err)
			}
		}

		key := idx.TitleKey(id)
		if titles[key] {
			continue
		}
		titles[key] = true
		if ref, ok := idx.Piano(id); ok {
			if err := byTitle(catalog.KindPiano, key, 0, ref); err != nil {
				return fmt.Errorf("failed to insert piano for %q: %w", key, err)
			}
		}
		for i, ref := range idx.Videos(id) {
			if err := byTitle(catalog.KindVideos, key, i, ref); err != nil {
				return fmt.Errorf("failed to insert video for %q: %w", key, err)
			}
		}
	}
	return nil
}

// GetSong retrieves one exported song, or nil when absent.
func (s *Store) GetSong(id catalog.SongID) (*SongRow, error) {
	row := &SongRow{ID: id}
	err := s.db.QueryRow(`
		SELECT COALESCE(title, ''), COALESCE(title_key, ''), COALESCE(lyrics, ''), position
		FROM songs WHERE book = ? AND number = ?
	`, id.Book, id.Number).Scan(&row.Title, &row.TitleKey, &row.Lyrics, &row.Position)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return row, nil
}

// GetTitleMatches returns the exported title index entry for a key, by rank.
func (s *Store) GetTitleMatches(key string) ([]catalog.SongID, error) {
	rows, err := s.db.Query("SELECT book, number FROM titles WHERE title_key = ? ORDER BY rank", key)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer rows.Close()

	var ids []catalog.SongID
	for rows.Next() {
		var id catalog.SongID
		if err := rows.Scan(&id.Book, &id.Number); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetSources returns the exported source outcomes in load order.
func (s *Store) GetSources() ([]SourceRow, error) {
	rows, err := s.db.Query(`
		SELECT path, kind, COALESCE(book, ''), COALESCE(digest, ''), COALESCE(entries, 0),
		       status, COALESCE(line, 0), COALESCE(error, '')
		FROM sources ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var out []SourceRow
	for rows.Next() {
		var r SourceRow
		if err := rows.Scan(&r.Path, &r.Kind, &r.Book, &r.Digest, &r.Entries, &r.Status, &r.Line, &r.Error); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
