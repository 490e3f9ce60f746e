package identification

import (
	"strings"
	"unicode"

	"github.com/aaronmeis/utility-mp4tomp3/internal/textutil"
)

// introScanRunes bounds how far into a transcript the extractor looks.
// Speakers introduce themselves at the top of a recording; scanning further
// mostly finds false positives in the body.
const introScanRunes = 500

// Candidate is a validated speaker-name capture from a transcript.
type Candidate struct {
	// RawMatch is the full captured span, e.g. "Sarah Colter".
	RawMatch string
	// FirstToken is the first whitespace-delimited word of RawMatch; it
	// becomes the output filename stem after sanitization.
	FirstToken string
	// PatternID names the introduction pattern that produced the capture.
	PatternID string
}

// Extract scans the opening of a transcript for a speaker introduction and
// returns the first valid candidate. Patterns are tried in priority order;
// within one pattern, occurrences are scanned in text order and captures that
// fail validation fall through to the next occurrence. A transcript without
// a recognizable introduction returns ok=false; that is the expected outcome
// for unnarrated footage, not an error.
func Extract(transcript string) (Candidate, bool) {
	window := textutil.TruncateRunes(transcript, introScanRunes)
	if strings.TrimSpace(window) == "" {
		return Candidate{}, false
	}

	for _, pattern := range introPatterns {
		for _, match := range pattern.re.FindAllStringSubmatch(window, -1) {
			raw := strings.TrimSpace(match[1])
			token := firstToken(raw)
			if !validToken(token) {
				continue
			}
			return Candidate{RawMatch: raw, FirstToken: token, PatternID: pattern.ID}, true
		}
	}
	return Candidate{}, false
}

func firstToken(span string) string {
	fields := strings.Fields(span)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// validToken rejects captures that cannot be first names: empty tokens,
// tokens without a single letter (which covers purely numeric captures), and
// stoplisted words. Hyphenated and apostrophized compounds pass as-is.
func validToken(token string) bool {
	if token == "" {
		return false
	}
	if !containsLetter(token) {
		return false
	}
	return !isStopWord(strings.ToLower(token))
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
