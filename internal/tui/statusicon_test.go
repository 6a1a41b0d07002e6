package tui

import (
	"testing"

	"github.com/mlundekvam/tavle/internal/domain"
)

func TestStatusGlyphCoversEveryColumn(t *testing.T) {
	seen := map[string]domain.Status{}
	for _, status := range domain.Statuses() {
		glyph := StatusGlyph(status)
		if glyph == "" || glyph == "·" {
			t.Fatalf("StatusGlyph(%q) = %q, want a column icon", status, glyph)
		}
		if prev, dup := seen[glyph]; dup {
			t.Fatalf("glyph %q shared by %q and %q", glyph, prev, status)
		}
		seen[glyph] = status
	}
}

func TestStatusGlyphUnknownIsNotDone(t *testing.T) {
	glyph := StatusGlyph(domain.Status("ARCHIVED"))
	if glyph == StatusGlyph(domain.StatusDone) {
		t.Fatal("unknown status must not render as a completed card")
	}
	if glyph != "·" {
		t.Fatalf("unknown status glyph = %q, want placeholder", glyph)
	}
}
