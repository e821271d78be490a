// Package cantonese classifies text for the translation branch of podcast
// generation. The classifier is a rune heuristic, not a language model: it
// checks for Han script and for written-Cantonese marker characters.
package cantonese

import "unicode"

// Detector classifies submitted text.
type Detector interface {
	// IsChinese reports whether the text contains Han-script characters.
	IsChinese(text string) bool
	// IsCantonese reports whether the text already reads as written Cantonese.
	IsCantonese(text string) bool
}

// DefaultMarkers are characters common in written Cantonese and rare in
// standard written Chinese.
var DefaultMarkers = []rune{'嘅', '咗', '咁', '唔', '係', '喺', '喇', '嘢', '咩', '點', '邊', '乜'}

// MarkerDetector implements Detector with a configurable marker set.
type MarkerDetector struct {
	markers map[rune]struct{}
}

// NewMarkerDetector builds a detector from the given marker runes. An empty
// slice falls back to DefaultMarkers.
func NewMarkerDetector(markers []rune) *MarkerDetector {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	set := make(map[rune]struct{}, len(markers))
	for _, r := range markers {
		set[r] = struct{}{}
	}
	return &MarkerDetector{markers: set}
}

func (d *MarkerDetector) IsChinese(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func (d *MarkerDetector) IsCantonese(text string) bool {
	for _, r := range text {
		if _, ok := d.markers[r]; ok {
			return true
		}
	}
	return false
}

var _ Detector = (*MarkerDetector)(nil)
