// Package langdetect identifies the language of transcribed text so history
// entries can be annotated without a second provider round trip.
package langdetect

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Texts shorter than this rarely detect reliably.
const minLength = 8

var detector = sync.OnceValue(func() lingua.LanguageDetector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Chinese,
		lingua.Japanese,
		lingua.Korean,
		lingua.Spanish,
		lingua.French,
		lingua.German,
		lingua.Portuguese,
		lingua.Russian,
		lingua.Italian,
		lingua.Arabic,
		lingua.Hindi,
	}
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		Build()
})

// Detect returns the ISO 639-1 code and English display name of the text's
// language. Text too short or too ambiguous to classify yields
// ("und", "Unknown").
func Detect(text string) (code, name string) {
	text = strings.TrimSpace(text)
	if len(text) < minLength {
		return "und", "Unknown"
	}

	lang, ok := detector().DetectLanguageOf(text)
	if !ok {
		return "und", "Unknown"
	}

	code = strings.ToLower(lang.IsoCode639_1().String())
	name = display.English.Languages().Name(language.Make(code))
	if name == "" {
		name = "Unknown"
	}
	return code, name
}
