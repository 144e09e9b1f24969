package alpr

import (
	"image"
	"sort"
	"strings"
)

// Sentinel transcription returned when the glyph reader itself fails.
// Callers check for these values rather than for an error.
const (
	UnrecognizedLatin  = "unrecognized"
	UnrecognizedArabic = "غير معروف"
)

// digitToArabic maps Western digit labels to Eastern Arabic numerals.
var digitToArabic = map[string]string{
	"0": "٠", "1": "١", "2": "٢", "3": "٣", "4": "٤",
	"5": "٥", "6": "٦", "7": "٧", "8": "٨", "9": "٩",
}

// letterToArabic maps the OCR model's symbolic letter labels to Arabic
// glyphs. Labels with no entry pass through literally.
var letterToArabic = map[string]string{
	"alif": "ا", "baa": "ب", "taa": "ت", "thaa": "ث",
	"jeem": "ج", "haa": "ح", "khaa": "خ", "daal": "د",
	"zaal": "ذ", "raa": "ر", "zay": "ز", "seen": "س",
	"sheen": "ش", "saad": "ص", "daad": "ض", "Taa": "ط",
	"Thaa": "ظ", "ain": "ع", "ghayn": "غ", "faa": "ف",
	"qaaf": "ق", "kaaf": "ك", "laam": "ل", "meem": "م",
	"noon": "ن", "haah": "ه", "waw": "و", "yaa": "ي",
	"7aa": "ح",
}

// Transcriber decodes plate crops into structured text through an injected
// glyph reader.
type Transcriber struct {
	Reader GlyphReader
}

// Transcribe reads glyphs off a plate crop and returns the Latin and Arabic
// renderings. A reader failure is recovered locally: the sentinel pair is
// returned and no error propagates.
func (tr *Transcriber) Transcribe(crop image.Image) (latin, arabic string) {
	tokens, err := tr.Reader.ReadGlyphs(crop)
	if err != nil {
		return UnrecognizedLatin, UnrecognizedArabic
	}
	return TranscribeTokens(tokens)
}

// TranscribeTokens converts ordered glyph tokens into Latin and Arabic plate
// text. Tokens are sorted left to right, partitioned into digits and
// letters, and each partition is reversed: the detector reads the plate
// left to right but Arabic plates read right to left, so reversal restores
// reading order without the OCR model understanding script direction.
func TranscribeTokens(tokens []GlyphToken) (latin, arabic string) {
	sorted := make([]GlyphToken, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].XMin < sorted[j].XMin
	})

	var numbers, letters []string
	for _, tok := range sorted {
		if isDigitLabel(tok.Label) {
			numbers = append(numbers, tok.Label)
		} else {
			letters = append(letters, tok.Label)
		}
	}

	arabicParts := make([]string, 0, len(tokens))
	for i := len(letters) - 1; i >= 0; i-- {
		arabicParts = append(arabicParts, mapLabel(letters[i], letterToArabic))
	}
	for i := len(numbers) - 1; i >= 0; i-- {
		arabicParts = append(arabicParts, mapLabel(numbers[i], digitToArabic))
	}
	arabic = strings.Join(arabicParts, " ")

	latinParts := make([]string, 0, len(tokens))
	for i := len(letters) - 1; i >= 0; i-- {
		latinParts = append(latinParts, letters[i])
	}
	for i := len(numbers) - 1; i >= 0; i-- {
		latinParts = append(latinParts, numbers[i])
	}
	latin = strings.TrimSpace(strings.Join(latinParts, " "))

	return latin, arabic
}

func mapLabel(label string, table map[string]string) string {
	if mapped, ok := table[label]; ok {
		return mapped
	}
	return label
}

func isDigitLabel(label string) bool {
	if label == "" {
		return false
	}
	for _, r := range label {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
