package services

import (
	"strings"
	"unicode"

	"github.com/AnshRaj112/saferplace/internal/models"
)

// LocalScreenAccuracy is reported for a keyword hit. It sits below the
// red threshold so an offline match escalates to a warning, not an emergency.
const LocalScreenAccuracy = 0.5

var violenceTerms = []string{
	"rape",
	"kill",
	"murder",
	"assault",
	"attack",
	"harm",
	"hurt",
	"shoot",
	"stab",
	"strangle",
	"threat",
	"threatening",
	"revenge",
	"beat",
	"stalk",
	"follow you",
	"find you",
}

var selfHarmTerms = []string{
	"suicide",
	"kill myself",
	"end my life",
	"take my life",
	"end it all",
	"self harm",
	"cut myself",
	"hurt myself",
	"want to die",
	"better off dead",
	"unalive",
}

// Look-alike characters used to dodge keyword filters.
var lookalikes = strings.NewReplacer(
	"@", "a",
	"4", "a",
	"3", "e",
	"!", "i",
	"1", "i",
	"0", "o",
	"$", "s",
	"5", "s",
	"7", "t",
	"+", "t",
	"а", "a",
	"е", "e",
	"і", "i",
	"о", "o",
	"р", "p",
)

// NormalizeText lowercases text, undoes look-alike substitutions, turns
// everything that is not a letter into a single space and collapses
// repeated letters ("kiiiill" -> "kil").
func NormalizeText(text string) string {
	cleaned := lookalikes.Replace(strings.ToLower(text))

	var b strings.Builder
	var last rune
	space := true
	for _, r := range cleaned {
		if !unicode.IsLetter(r) {
			if !space {
				b.WriteRune(' ')
				space = true
			}
			last = 0
			continue
		}
		if r == last {
			continue
		}
		b.WriteRune(r)
		last = r
		space = false
	}
	return strings.TrimSpace(b.String())
}

// matchTerms returns the terms found in normalized text. Single words must
// match a whole word so "skill" does not hit "kill"; phrases match anywhere.
func matchTerms(normalized string, terms []string) []string {
	words := strings.Fields(normalized)
	var hits []string
	for _, term := range terms {
		// Terms go through the same normalization as the text.
		t := NormalizeText(term)
		if strings.Contains(t, " ") {
			if strings.Contains(normalized, t) {
				hits = append(hits, term)
			}
			continue
		}
		for _, w := range words {
			if w == t {
				hits = append(hits, term)
				break
			}
		}
	}
	return hits
}

// ScreenText runs the offline keyword screen. It reports whether text looks
// harmful and which terms matched.
func ScreenText(text string) (bool, []string) {
	normalized := NormalizeText(text)
	if normalized == "" {
		return false, nil
	}
	hits := matchTerms(normalized, violenceTerms)
	hits = append(hits, matchTerms(normalized, selfHarmTerms)...)
	return len(hits) > 0, hits
}

// localClassification is the verdict used when the classifier is unreachable.
func localClassification() models.Classification {
	return models.Classification{
		Label:    models.LabelToxic,
		Accuracy: LocalScreenAccuracy,
		Source:   "local",
	}
}
