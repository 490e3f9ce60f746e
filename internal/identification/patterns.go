package identification

import "regexp"

// Pattern pairs a stable identifier with the compiled expression that
// recognizes one introduction form. IDs appear in logs, job rows, and run
// reports, so they never change even if the expression is tuned.
type Pattern struct {
	ID string
	re *regexp.Regexp
}

// nameSpan captures a run of words after a trigger phrase, stopping at
// sentence punctuation or a line break. Words are separated by single spaces
// or tabs so the span never crosses lines.
const nameSpan = `([^\s.,!?;:]+(?:[ \t][^\s.,!?;:]+)*)`

// nameToken captures the single word preceding a trailing trigger.
const nameToken = `([^\s.,!?;:]+)`

// introPatterns is evaluated in priority order: the first pattern with a
// valid capture wins, regardless of where later patterns would match in the
// text. Triggers match case-insensitively; captures keep original casing.
var introPatterns = []Pattern{
	{ID: "i_am", re: regexp.MustCompile(`(?i)\bi\s+am\s+` + nameSpan)},
	{ID: "im", re: regexp.MustCompile(`(?i)\bi['’]m\s+` + nameSpan)},
	{ID: "my_name_is", re: regexp.MustCompile(`(?i)\bmy\s+name\s+is\s+` + nameSpan)},
	{ID: "name_here", re: regexp.MustCompile(`(?i)\b` + nameToken + `\s+here\b`)},
	{ID: "name_speaking", re: regexp.MustCompile(`(?i)\b` + nameToken + `\s+speaking\b`)},
	{ID: "this_is", re: regexp.MustCompile(`(?i)\bthis\s+is\s+` + nameSpan)},
}

// PatternIDs returns the IDs of the introduction patterns in priority order.
func PatternIDs() []string {
	ids := make([]string, len(introPatterns))
	for i, p := range introPatterns {
		ids[i] = p.ID
	}
	return ids
}
