package catalog

import (
	"errors"
	"strconv"
	"testing"

	"github.com/franz/songbook/internal/util"
	"github.com/stretchr/testify/require"
)

func TestSongID_String(t *testing.T) {
	require.Equal(t, "TSMS 12", NewSongID("tsms", 12).String())
	require.Equal(t, "C 1", NewSongID(" C ", 1).String())
}

func TestSongID_RoundTrip(t *testing.T) {
	for _, id := range []SongID{
		NewSongID("TSMS", 12),
		NewSongID("HGG", 740),
		NewSongID("WILDS", 1),
		NewSongID("CA", 0),
	} {
		parsed, err := ParseSongID(id.Book + " " + strconv.Itoa(id.Number))
		require.NoError(t, err)
		require.Equal(t, id, parsed)
		require.Equal(t, id.String(), parsed.String())
	}
}

func TestParseSongID(t *testing.T) {
	tests := []struct {
		input string
		want  SongID
		ok    bool
	}{
		{"TSMS 12", NewSongID("TSMS", 12), true},
		{"hgg 012", NewSongID("HGG", 12), true},
		{"  RHC   7 ", NewSongID("RHC", 7), true},
		{"TSMS", SongID{}, false},
		{"TSMS 12 3", SongID{}, false},
		{"TSMS -1", SongID{}, false},
		{"TSMS twelve", SongID{}, false},
		{"", SongID{}, false},
	}

	for _, tt := range tests {
		got, err := ParseSongID(tt.input)
		if !tt.ok {
			require.Error(t, err, tt.input)
			require.True(t, errors.Is(err, util.ErrMalformed), tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		require.Equal(t, tt.want, got)
	}
}

func TestRecord_HasParagraphs(t *testing.T) {
	require.True(t, Record{Lyrics: "TSMS 1 A\n\nverse"}.HasParagraphs())
	require.False(t, Record{Lyrics: "TSMS 1 A\nverse"}.HasParagraphs())
}

func TestIndex_MustSongPanicsOnUnknownID(t *testing.T) {
	idx, _ := NewBuilder().Build()
	require.Panics(t, func() { idx.MustSong(NewSongID("TSMS", 1)) })
	_, ok := idx.Song(NewSongID("TSMS", 1))
	require.False(t, ok)
}

func TestLinkList_UpdateKeepsPosition(t *testing.T) {
	l := NewLinkList()
	l.Set("Chord Chart", "http://a")
	l.Set("Lead Sheet", "http://b")
	l.Set("Chord Chart", "http://c")

	require.Equal(t, []Link{
		{Label: "Chord Chart", URL: "http://c"},
		{Label: "Lead Sheet", URL: "http://b"},
	}, l.Links())
	require.Equal(t, 2, l.Len())
}
