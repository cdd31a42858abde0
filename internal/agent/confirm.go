package agent

import "strings"

// affirmatives are the user phrasings accepted as confirmation of a pending
// write. Matching is done on the normalized whole message so that "yes!" and
// "Yes, go ahead" confirm but "yesterday's event" does not.
var affirmatives = map[string]struct{}{
	"yes":         {},
	"yeah":        {},
	"yep":         {},
	"yup":         {},
	"confirm":     {},
	"confirmed":   {},
	"looks good":  {},
	"sounds good": {},
	"perfect":     {},
	"do it":       {},
	"go ahead":    {},
	"proceed":     {},
	"sure":        {},
	"ok":          {},
	"okay":        {},
}

// negations short-circuit confirmation even when an affirmative word appears
// later in the message ("no, don't do it").
var negations = []string{"no", "don't", "dont", "not", "stop", "cancel", "wait", "hold"}

// IsAffirmative reports whether msg confirms a previously summarized action.
func IsAffirmative(msg string) bool {
	norm := normalize(msg)
	if norm == "" {
		return false
	}

	words := strings.Fields(norm)
	for _, w := range words {
		for _, neg := range negations {
			if w == neg {
				return false
			}
		}
	}

	if _, ok := affirmatives[norm]; ok {
		return true
	}

	// Short messages that open with an affirmative still count:
	// "yes please", "ok do it", "sure, sounds good".
	if len(words) <= 4 {
		if _, ok := affirmatives[words[0]]; ok {
			return true
		}
		if len(words) >= 2 {
			if _, ok := affirmatives[words[0]+" "+words[1]]; ok {
				return true
			}
		}
	}
	return false
}

// normalize lowercases and strips trailing punctuation and filler so phrase
// lookup is stable across "Yes!", "yes." and "yes please".
func normalize(msg string) string {
	norm := strings.ToLower(strings.TrimSpace(msg))
	norm = strings.Trim(norm, ".!? ")
	norm = strings.ReplaceAll(norm, ",", "")
	return strings.Join(strings.Fields(norm), " ")
}
