package catalog

import (
	"sort"

	"github.com/franz/songbook/internal/meta"
	"github.com/franz/songbook/internal/util"
)

// BuildStats summarises one Build.
type BuildStats struct {
	Books     int
	Songs     int
	Titles    int
	Dangling  []string // attachment entries naming unknown songs, "kind id"
	Overwrite int      // records replaced by a later record with the same id
}

// Builder assembles an Index. It is not safe for concurrent use: parsed
// files are parsed in parallel and then fed to one Builder in order.
type Builder struct {
	books       []Book
	priority    map[string]Priority
	songs       map[SongID]Record
	order       []SongID
	attachments *AttachmentSet
	overwrites  int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		priority:    make(map[string]Priority),
		songs:       make(map[SongID]Record),
		attachments: NewAttachmentSet(),
	}
}

// AddBook appends the records of one book. A record whose id is already
// present replaces the earlier one in place.
func (b *Builder) AddBook(book Book, records []Record) {
	if _, seen := b.priority[book.Code]; !seen {
		b.books = append(b.books, book)
	}
	b.priority[book.Code] = book.Priority

	for _, r := range records {
		if _, exists := b.songs[r.ID]; exists {
			b.overwrites++
		} else {
			b.order = append(b.order, r.ID)
		}
		b.songs[r.ID] = r
	}
}

// AddAttachments merges the resources from one attachment file.
func (b *Builder) AddAttachments(set *AttachmentSet) {
	b.attachments.Merge(set)
}

// Build computes the title index and search corpus.
//
// Title lists are a stable partition of discovery order: songs from primary
// books first, then every other book, so the result does not depend on
// which book was loaded first.
func (b *Builder) Build() (*Index, BuildStats) {
	titleKeys := make(map[SongID]string, len(b.order))
	primary := make(map[string][]SongID)
	others := make(map[string][]SongID)
	corpus := make([]CorpusEntry, 0, len(b.order))

	for _, id := range b.order {
		r := b.songs[id]
		key := meta.Normalize(r.Title)
		titleKeys[id] = key
		if b.priority[id.Book] == PriorityPrimary {
			primary[key] = append(primary[key], id)
		} else {
			others[key] = append(others[key], id)
		}
		corpus = append(corpus, CorpusEntry{
			ID:  id,
			Key: meta.CollapseSpaces(meta.Normalize(r.Lyrics)),
		})
	}

	titles := make(map[string][]SongID, len(primary)+len(others))
	for key, ids := range primary {
		titles[key] = append(titles[key], ids...)
	}
	for key, ids := range others {
		titles[key] = append(titles[key], ids...)
	}

	songs := make(map[SongID]Record, len(b.songs))
	for id, r := range b.songs {
		songs[id] = r
	}
	order := make([]SongID, len(b.order))
	copy(order, b.order)
	books := make([]Book, len(b.books))
	copy(books, b.books)
	for i := range books {
		books[i].Priority = b.priority[books[i].Code]
	}

	stats := BuildStats{
		Books:     len(books),
		Songs:     len(order),
		Titles:    len(titles),
		Overwrite: b.overwrites,
	}
	attachments := b.pruneAttachments(songs, &stats)

	return &Index{
		books:       books,
		songs:       songs,
		order:       order,
		titleKeys:   titleKeys,
		titles:      titles,
		corpus:      corpus,
		attachments: attachments,
	}, stats
}

// pruneAttachments copies the attachment set, dropping id-keyed entries that
// name songs no book provided. Title-keyed entries are kept as they are.
func (b *Builder) pruneAttachments(songs map[SongID]Record, stats *BuildStats) *AttachmentSet {
	out := NewAttachmentSet()
	dangling := func(kind AttachmentKind, id SongID) bool {
		if _, ok := songs[id]; ok {
			return false
		}
		stats.Dangling = append(stats.Dangling, string(kind)+" "+id.String())
		return true
	}

	for id, text := range b.attachments.Chords {
		if !dangling(KindChords, id) {
			out.Chords[id] = text
		}
	}
	for id, refs := range b.attachments.Scores {
		if !dangling(KindScores, id) {
			out.Scores[id] = cloneStrings(refs)
		}
	}
	for id, refs := range b.attachments.Audio {
		if !dangling(KindAudio, id) {
			out.Audio[id] = cloneStrings(refs)
		}
	}
	for id, links := range b.attachments.Links {
		if !dangling(KindLinks, id) {
			clone := NewLinkList()
			for _, link := range links.Links() {
				clone.Set(link.Label, link.URL)
			}
			out.Links[id] = clone
		}
	}
	for key, ref := range b.attachments.Piano {
		out.Piano[key] = ref
	}
	for key, refs := range b.attachments.Videos {
		out.Videos[key] = cloneStrings(refs)
	}

	sort.Strings(stats.Dangling)
	for _, d := range stats.Dangling {
		util.WarnLog("Dropping attachment for unknown song: %s", d)
	}
	return out
}
