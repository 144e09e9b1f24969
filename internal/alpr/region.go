package alpr

import "strings"

// Region classification sentinels. The two are distinct: RegionUnknown
// means the plate text carried too few tokens to classify at all, while
// GovernorateUnknown means a well-formed letter pattern matched no entry
// in the governorate code table.
const (
	RegionUnknown      = "unknown region"
	GovernorateUnknown = "unknown governorate"
)

// arabicNumerals is the set of the ten Eastern Arabic digit glyphs.
var arabicNumerals = map[string]bool{
	"٠": true, "١": true, "٢": true, "٣": true, "٤": true,
	"٥": true, "٦": true, "٧": true, "٨": true, "٩": true,
}

// governorateCodes maps the leading one- or two-letter pattern of an
// Arabic plate to the issuing governorate. Double-letter codes cover the
// Suez Canal, Sinai, and frontier governorates.
var governorateCodes = map[string]string{
	"س": "Alexandria",
	"ر": "Sharqia",
	"د": "Dakahlia",
	"م": "Menoufia",
	"ب": "Beheira",
	"ل": "Kafr El Sheikh",
	"ع": "Gharbia",
	"ق": "Qalyubia",
	"ف": "Fayoum",
	"و": "Beni Suef",
	"ن": "Minya",
	"ى": "Assiut",
	"ه": "Sohag",

	"ط س": "Suez",
	"ط ص": "Ismailia",
	"ط ع": "Port Said",
	"ط د": "Damietta",
	"ط ا": "North Sinai",
	"ط ج": "South Sinai",
	"ط ر": "Red Sea",

	"ج هـ": "Matrouh",
	"ج ب": "New Valley",

	"ص ا": "Qena",
	"ص ق": "Luxor",
	"ص و": "Aswan",
}

// ClassifyGovernorate derives the issuing administrative region from the
// Arabic plate text. Cairo and Giza plates are recognized by their
// letter/numeral counts (3+3 and 2+4); all other plates are looked up by
// their leading letter pattern.
func ClassifyGovernorate(arabicText string) string {
	tokens := strings.Fields(arabicText)
	if len(tokens) < 3 {
		return RegionUnknown
	}

	var letters, numerals []string
	for _, tok := range tokens {
		if arabicNumerals[tok] {
			numerals = append(numerals, tok)
		} else {
			letters = append(letters, tok)
		}
	}

	if len(letters) == 3 && len(numerals) == 3 {
		return "Cairo"
	}
	if len(letters) == 2 && len(numerals) == 4 {
		return "Giza"
	}

	var key string
	switch {
	case len(letters) >= 2:
		key = letters[0] + " " + letters[1]
	case len(letters) == 1:
		key = letters[0]
	}
	if name, ok := governorateCodes[key]; ok {
		return name
	}
	return GovernorateUnknown
}
