// Package intelligence holds the relay's text heuristics and the LLM-backed
// memory extractor: language detection, command classification and fact
// extraction.
package intelligence

// Locale is the coarse language tag used to pick a speech synthesis voice.
type Locale string

const (
	// LocaleEnglish is the default locale.
	LocaleEnglish Locale = "en"

	// LocaleHindi is selected for any text containing Devanagari.
	LocaleHindi Locale = "hi"
)

// Devanagari block bounds (U+0900..U+097F).
const (
	devanagariFirst = '\u0900'
	devanagariLast  = '\u097F'
)

// DetectLocale returns LocaleHindi if text contains any Devanagari code point
// and LocaleEnglish otherwise.
func DetectLocale(text string) Locale {
	for _, r := range text {
		if r >= devanagariFirst && r <= devanagariLast {
			return LocaleHindi
		}
	}
	return LocaleEnglish
}
