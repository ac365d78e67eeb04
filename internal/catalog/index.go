package catalog

import (
	"fmt"
)

// CorpusEntry is one searchable lyric key.
type CorpusEntry struct {
	ID  SongID
	Key string
}

// Index is the read-only lookup structure built once at startup. All
// methods are safe for concurrent use because nothing mutates it after Build.
type Index struct {
	books       []Book
	songs       map[SongID]Record
	order       []SongID
	titleKeys   map[SongID]string
	titles      map[string][]SongID
	corpus      []CorpusEntry
	attachments *AttachmentSet
}

// Len returns the number of songs.
func (x *Index) Len() int {
	return len(x.order)
}

// Books returns the loaded books in load order.
func (x *Index) Books() []Book {
	out := make([]Book, len(x.books))
	copy(out, x.books)
	return out
}

// IDs returns every song id in discovery order.
func (x *Index) IDs() []SongID {
	out := make([]SongID, len(x.order))
	copy(out, x.order)
	return out
}

// Has reports whether id is a known song.
func (x *Index) Has(id SongID) bool {
	_, ok := x.songs[id]
	return ok
}

// Song returns the record for id.
func (x *Index) Song(id SongID) (Record, bool) {
	r, ok := x.songs[id]
	return r, ok
}

// MustSong returns the record for id and panics when it is unknown. Every id
// handed out by the resolver exists, so a miss here is a programming error.
func (x *Index) MustSong(id SongID) Record {
	r, ok := x.songs[id]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown song id %s", id))
	}
	return r
}

// Title returns the raw title of a known song.
func (x *Index) Title(id SongID) string {
	return x.MustSong(id).Title
}

// Lyrics returns the raw lyrics of a known song.
func (x *Index) Lyrics(id SongID) string {
	return x.MustSong(id).Lyrics
}

// TitleKey returns the normalized title of a known song.
func (x *Index) TitleKey(id SongID) string {
	x.MustSong(id)
	return x.titleKeys[id]
}

// TitleMatches returns the songs sharing a normalized title, primary book first.
func (x *Index) TitleMatches(key string) []SongID {
	ids, ok := x.titles[key]
	if !ok {
		return nil
	}
	out := make([]SongID, len(ids))
	copy(out, ids)
	return out
}

// TitleCount returns the number of distinct normalized titles.
func (x *Index) TitleCount() int {
	return len(x.titles)
}

// Corpus returns the searchable lyric keys in discovery order. Callers must
// not modify the returned slice.
func (x *Index) Corpus() []CorpusEntry {
	return x.corpus
}

// Chords returns the chord sheet for a song.
func (x *Index) Chords(id SongID) (string, bool) {
	text, ok := x.attachments.Chords[id]
	return text, ok
}

// Scores returns the score image references for a song, in page order.
func (x *Index) Scores(id SongID) []string {
	return cloneStrings(x.attachments.Scores[id])
}

// Audio returns the audio references for a song, in track order.
func (x *Index) Audio(id SongID) []string {
	return cloneStrings(x.attachments.Audio[id])
}

// Links returns the external links for a song in file order.
func (x *Index) Links(id SongID) []Link {
	return x.attachments.Links[id].Links()
}

// Piano returns the piano recording shared by every song with the same title.
func (x *Index) Piano(id SongID) (string, bool) {
	ref, ok := x.attachments.Piano[x.TitleKey(id)]
	return ref, ok
}

// Videos returns the video recordings shared by every song with the same title.
func (x *Index) Videos(id SongID) []string {
	return cloneStrings(x.attachments.Videos[x.TitleKey(id)])
}

// AttachmentKinds lists which kinds of resources a song has.
func (x *Index) AttachmentKinds(id SongID) []AttachmentKind {
	var kinds []AttachmentKind
	if _, ok := x.Chords(id); ok {
		kinds = append(kinds, KindChords)
	}
	if len(x.attachments.Scores[id]) > 0 {
		kinds = append(kinds, KindScores)
	}
	if len(x.attachments.Audio[id]) > 0 {
		kinds = append(kinds, KindAudio)
	}
	if _, ok := x.Piano(id); ok {
		kinds = append(kinds, KindPiano)
	}
	if len(x.attachments.Videos[x.TitleKey(id)]) > 0 {
		kinds = append(kinds, KindVideos)
	}
	if x.attachments.Links[id].Len() > 0 {
		kinds = append(kinds, KindLinks)
	}
	return kinds
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
