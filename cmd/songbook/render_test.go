package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/report"
	"github.com/franz/songbook/internal/search"
)

func testIndex(t *testing.T) *catalog.Index {
	t.Helper()
	b := catalog.NewBuilder()
	b.AddBook(catalog.Book{Code: "CA"}, []catalog.Record{
		{ID: catalog.NewSongID("CA", 3), Title: "AMAZING GRACE", Lyrics: "CA 3 AMAZING GRACE\nAmazing grace"},
	})
	b.AddBook(catalog.Book{Code: "TSMS", Priority: catalog.PriorityPrimary}, []catalog.Record{
		{ID: catalog.NewSongID("TSMS", 1), Title: "AMAZING GRACE", Lyrics: "TSMS 1 AMAZING GRACE\nHow sweet the sound"},
		{ID: catalog.NewSongID("TSMS", 2), Title: "DOXOLOGY", Lyrics: "TSMS 2 DOXOLOGY\nPraise God"},
	})

	set := catalog.NewAttachmentSet()
	set.Chords[catalog.NewSongID("TSMS", 1)] = "TSMS 1 AMAZING GRACE\nG C G"
	set.Scores[catalog.NewSongID("TSMS", 1)] = []string{"page-1", "page-2"}
	links := catalog.NewLinkList()
	links.Set("Sheet", "http://a")
	set.Links[catalog.NewSongID("CA", 3)] = links
	set.Piano["AMAZING GRACE"] = "piano-1"
	set.Audio[catalog.NewSongID("CA", 77)] = []string{"lost"}
	b.AddAttachments(set)

	idx, _ := b.Build()
	return idx
}

func TestPrintResult(t *testing.T) {
	idx := testIndex(t)
	resolver := search.NewResolver(idx, search.Options{DefaultBook: "TSMS"})

	tests := []struct {
		query string
		want  []string
	}{
		{"2", []string{"TSMS 2  Doxology"}},
		{"amazing grace", []string{"TSMS 1  Amazing Grace", "Also in:", "  CA 3"}},
		{"how sweet the sound", []string{"1 result(s):", "TSMS 1", "100.0"}},
		{"zzzz qqqq", []string{"No match."}},
		{strings.Repeat("la ", 80), []string{"too long"}},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		printResult(&buf, idx, resolver.Resolve(tt.query))
		for _, want := range tt.want {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("query %q: output missing %q:\n%s", tt.query, want, buf.String())
			}
		}
	}
}

func TestPrintSong(t *testing.T) {
	idx := testIndex(t)

	var buf bytes.Buffer
	printSong(&buf, idx, catalog.NewSongID("TSMS", 1), true)
	out := buf.String()
	for _, want := range []string{"How sweet the sound", "chords:\n  TSMS 1 AMAZING GRACE\n  G C G", "scores: page-1, page-2", "piano:  piano-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printSong(&buf, idx, catalog.NewSongID("CA", 3), false)
	if strings.Contains(buf.String(), "links:") {
		t.Errorf("lyrics-only output should not list attachments:\n%s", buf.String())
	}

	buf.Reset()
	printSong(&buf, idx, catalog.NewSongID("CA", 3), true)
	if !strings.Contains(buf.String(), "  Sheet  http://a") {
		t.Errorf("expected link row:\n%s", buf.String())
	}
}

func TestREPL(t *testing.T) {
	idx := testIndex(t)
	resolver := search.NewResolver(idx, search.Options{DefaultBook: "TSMS"})

	in := strings.NewReader("tsms 2\nhow sweet the sound\n1\n\nnever read\n")
	var out bytes.Buffer
	if err := repl(in, &out, idx, resolver, report.NullLogger()); err != nil {
		t.Fatalf("repl failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Praise God", "1 result(s):", "G C G"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "NEVER READ") || strings.Contains(got, "No match.") {
		t.Errorf("repl should stop at the empty line:\n%s", got)
	}
}

func TestPick(t *testing.T) {
	last := []search.Match{{ID: catalog.NewSongID("CA", 3)}, {ID: catalog.NewSongID("TSMS", 1)}}

	if id, ok := pick("2", last); !ok || id != catalog.NewSongID("TSMS", 1) {
		t.Errorf("pick(2) = %v, %v", id, ok)
	}
	for _, line := range []string{"0", "3", "CA 3", "x"} {
		if _, ok := pick(line, last); ok {
			t.Errorf("pick(%q) should not select", line)
		}
	}
	if _, ok := pick("1", nil); ok {
		t.Error("pick without a listing should not select")
	}
}

func TestShowID(t *testing.T) {
	id, err := showID([]string{"ca", "004"}, "TSMS")
	if err != nil || id != catalog.NewSongID("CA", 4) {
		t.Errorf("showID(ca 004) = %v, %v", id, err)
	}

	id, err = showID([]string{"12"}, "TSMS")
	if err != nil || id != catalog.NewSongID("TSMS", 12) {
		t.Errorf("showID(12) = %v, %v", id, err)
	}

	if _, err := showID([]string{"12"}, ""); err == nil {
		t.Error("expected an error without a default book")
	}
	if _, err := showID([]string{"twelve"}, "TSMS"); err == nil {
		t.Error("expected an error for a non-numeric number")
	}
}

func TestWriteResultJSON(t *testing.T) {
	idx := testIndex(t)
	res := search.NewResolver(idx, search.Options{}).Resolve("Amazing Grace")

	var buf bytes.Buffer
	if err := writeResultJSON(&buf, idx, res); err != nil {
		t.Fatalf("writeResultJSON failed: %v", err)
	}

	var got jsonResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Status != search.StatusHit || got.Primary == nil || got.Primary.ID != "TSMS 1" {
		t.Errorf("unexpected result: %+v", got)
	}
	if len(got.Related) != 1 || got.Related[0].ID != "CA 3" || got.Related[0].Title != "AMAZING GRACE" {
		t.Errorf("unexpected related: %+v", got.Related)
	}
}

func TestWriteStats(t *testing.T) {
	b := catalog.NewBuilder()
	b.AddBook(catalog.Book{Code: "TSMS", Priority: catalog.PriorityPrimary}, []catalog.Record{
		{ID: catalog.NewSongID("TSMS", 1), Title: "A", Lyrics: "TSMS 1 A\nx"},
	})
	set := catalog.NewAttachmentSet()
	set.Audio[catalog.NewSongID("TSMS", 9)] = []string{"lost"}
	b.AddAttachments(set)
	idx, stats := b.Build()

	var buf bytes.Buffer
	writeStats(&buf, idx, stats)
	out := buf.String()
	for _, want := range []string{"TSMS", "(primary)", "Songs:           1", "dropped"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q:\n%s", want, out)
		}
	}
}
