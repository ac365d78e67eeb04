package catalog

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// AttachmentKind names a family of per-song resources.
type AttachmentKind string

const (
	KindChords AttachmentKind = "chords"
	KindScores AttachmentKind = "scores"
	KindAudio  AttachmentKind = "audio"
	KindPiano  AttachmentKind = "piano"
	KindVideos AttachmentKind = "videos"
	KindLinks  AttachmentKind = "links"
)

// Kinds lists every attachment kind in display order.
var Kinds = []AttachmentKind{KindChords, KindScores, KindAudio, KindPiano, KindVideos, KindLinks}

// Valid reports whether k is a known kind.
func (k AttachmentKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Link is one external resource button.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// LinkList is an insertion-ordered label to URL mapping. Setting an existing
// label replaces its URL and keeps its position.
type LinkList struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewLinkList returns an empty list.
func NewLinkList() *LinkList {
	return &LinkList{m: orderedmap.New[string, string]()}
}

// Set adds or updates a label.
func (l *LinkList) Set(label, url string) {
	l.m.Set(label, url)
}

// Get returns the URL for a label.
func (l *LinkList) Get(label string) (string, bool) {
	return l.m.Get(label)
}

// Len returns the number of labels.
func (l *LinkList) Len() int {
	if l == nil {
		return 0
	}
	return l.m.Len()
}

// Links returns the pairs in insertion order.
func (l *LinkList) Links() []Link {
	if l == nil {
		return nil
	}
	out := make([]Link, 0, l.m.Len())
	for pair := l.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Link{Label: pair.Key, URL: pair.Value})
	}
	return out
}

// AttachmentSet collects resources parsed from attachment files.
//
// Chords, scores, audio and links are keyed by SongID. Piano and video
// recordings are keyed by normalized title: the same recording serves every
// book that carries a song with that title.
type AttachmentSet struct {
	Chords map[SongID]string
	Scores map[SongID][]string
	Audio  map[SongID][]string
	Links  map[SongID]*LinkList
	Piano  map[string]string
	Videos map[string][]string
}

// NewAttachmentSet returns an empty set with every map allocated.
func NewAttachmentSet() *AttachmentSet {
	return &AttachmentSet{
		Chords: make(map[SongID]string),
		Scores: make(map[SongID][]string),
		Audio:  make(map[SongID][]string),
		Links:  make(map[SongID]*LinkList),
		Piano:  make(map[string]string),
		Videos: make(map[string][]string),
	}
}

// Merge folds other into s. Single-valued entries (chords, piano) are
// overwritten, lists are appended, link labels are set in order.
func (s *AttachmentSet) Merge(other *AttachmentSet) {
	if other == nil {
		return
	}
	for id, text := range other.Chords {
		s.Chords[id] = text
	}
	for id, refs := range other.Scores {
		s.Scores[id] = append(s.Scores[id], refs...)
	}
	for id, refs := range other.Audio {
		s.Audio[id] = append(s.Audio[id], refs...)
	}
	for id, links := range other.Links {
		dst, ok := s.Links[id]
		if !ok {
			dst = NewLinkList()
			s.Links[id] = dst
		}
		for _, link := range links.Links() {
			dst.Set(link.Label, link.URL)
		}
	}
	for key, ref := range other.Piano {
		s.Piano[key] = ref
	}
	for key, refs := range other.Videos {
		s.Videos[key] = append(s.Videos[key], refs...)
	}
}

// Count returns the number of keyed entries across all kinds.
func (s *AttachmentSet) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Chords) + len(s.Scores) + len(s.Audio) + len(s.Links) + len(s.Piano) + len(s.Videos)
}
