// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"testing"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

func TestDedupe(t *testing.T) {
	in := []types.SourceRecord{
		{Title: "first", URL: "https://a.example"},
		{Title: "second", URL: "https://b.example"},
		{Title: "duplicate of first", URL: "https://a.example"},
		{Title: "no url", URL: ""},
		{Title: "third", URL: "https://c.example"},
	}

	got := Dedupe(in)
	want := []string{"https://a.example", "https://b.example", "https://c.example"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i].URL != want[i] {
			t.Errorf("got[%d].URL = %q, want %q", i, got[i].URL, want[i])
		}
	}
	// First occurrence wins.
	if got[0].Title != "first" {
		t.Errorf("got[0].Title = %q, want %q", got[0].Title, "first")
	}
}

func TestDedupeIdempotent(t *testing.T) {
	in := []types.SourceRecord{
		{URL: "https://a.example"},
		{URL: "https://a.example"},
		{URL: "https://b.example"},
	}
	once := Dedupe(in)
	twice := Dedupe(once)
	if len(once) != len(twice) {
		t.Fatalf("second pass changed length: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].URL != twice[i].URL {
			t.Errorf("second pass reordered: %q vs %q", once[i].URL, twice[i].URL)
		}
	}
}

func TestDedupeEmpty(t *testing.T) {
	if got := Dedupe(nil); got != nil {
		t.Errorf("Dedupe(nil) = %v, want nil", got)
	}
}
