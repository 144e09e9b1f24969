package alpr

import (
	"errors"
	"image"
	"testing"
)

func TestTranscribeTokens_ReversesReadingOrder(t *testing.T) {
	tokens := []GlyphToken{
		{Label: "alif", XMin: 10},
		{Label: "baa", XMin: 30},
		{Label: "1", XMin: 50},
		{Label: "2", XMin: 70},
		{Label: "3", XMin: 90},
	}

	latin, arabic := TranscribeTokens(tokens)
	if latin != "baa alif 3 2 1" {
		t.Errorf("latin = %q, want %q", latin, "baa alif 3 2 1")
	}
	if arabic != "ب ا ٣ ٢ ١" {
		t.Errorf("arabic = %q, want %q", arabic, "ب ا ٣ ٢ ١")
	}
}

func TestTranscribeTokens_SortsByPosition(t *testing.T) {
	// Same plate as above, but tokens arrive out of order.
	tokens := []GlyphToken{
		{Label: "3", XMin: 90},
		{Label: "alif", XMin: 10},
		{Label: "2", XMin: 70},
		{Label: "baa", XMin: 30},
		{Label: "1", XMin: 50},
	}

	latin, arabic := TranscribeTokens(tokens)
	if latin != "baa alif 3 2 1" {
		t.Errorf("latin = %q, want %q", latin, "baa alif 3 2 1")
	}
	if arabic != "ب ا ٣ ٢ ١" {
		t.Errorf("arabic = %q, want %q", arabic, "ب ا ٣ ٢ ١")
	}
}

func TestTranscribeTokens_UnmappedLabelPassesThrough(t *testing.T) {
	tokens := []GlyphToken{
		{Label: "mystery", XMin: 10},
		{Label: "5", XMin: 30},
	}

	latin, arabic := TranscribeTokens(tokens)
	if latin != "mystery 5" {
		t.Errorf("latin = %q, want %q", latin, "mystery 5")
	}
	if arabic != "mystery ٥" {
		t.Errorf("arabic = %q, want %q", arabic, "mystery ٥")
	}
}

func TestTranscribeTokens_Empty(t *testing.T) {
	latin, arabic := TranscribeTokens(nil)
	if latin != "" {
		t.Errorf("latin = %q, want empty", latin)
	}
	if arabic != "" {
		t.Errorf("arabic = %q, want empty", arabic)
	}
}

func TestTranscribeTokens_NumbersOnly(t *testing.T) {
	tokens := []GlyphToken{
		{Label: "1", XMin: 10},
		{Label: "2", XMin: 20},
	}
	latin, _ := TranscribeTokens(tokens)
	// No leading space left over from the empty letters partition.
	if latin != "2 1" {
		t.Errorf("latin = %q, want %q", latin, "2 1")
	}
}

type failingReader struct{}

func (failingReader) ReadGlyphs(image.Image) ([]GlyphToken, error) {
	return nil, errors.New("model exploded")
}

type staticReader struct {
	tokens []GlyphToken
}

func (r staticReader) ReadGlyphs(image.Image) ([]GlyphToken, error) {
	return r.tokens, nil
}

func TestTranscriber_ReaderFailureReturnsSentinel(t *testing.T) {
	tr := Transcriber{Reader: failingReader{}}
	latin, arabic := tr.Transcribe(image.NewRGBA(image.Rect(0, 0, 10, 10)))

	if latin != UnrecognizedLatin {
		t.Errorf("latin = %q, want sentinel %q", latin, UnrecognizedLatin)
	}
	if arabic != UnrecognizedArabic {
		t.Errorf("arabic = %q, want sentinel %q", arabic, UnrecognizedArabic)
	}
}

func TestTranscriber_PassesTokensThrough(t *testing.T) {
	tr := Transcriber{Reader: staticReader{tokens: []GlyphToken{
		{Label: "seen", XMin: 5},
		{Label: "7", XMin: 40},
	}}}
	latin, arabic := tr.Transcribe(image.NewRGBA(image.Rect(0, 0, 10, 10)))

	if latin != "seen 7" {
		t.Errorf("latin = %q, want %q", latin, "seen 7")
	}
	if arabic != "س ٧" {
		t.Errorf("arabic = %q, want %q", arabic, "س ٧")
	}
}
