package identification_test

import (
	"strings"
	"testing"

	"github.com/aaronmeis/utility-mp4tomp3/internal/identification"
)

func TestExtractMatchesIntroductionPatterns(t *testing.T) {
	cases := []struct {
		name       string
		transcript string
		wantToken  string
		wantID     string
	}{
		{
			name:       "i am with surname",
			transcript: "Hello everyone. I am Sarah Colter and today we talk about compost.",
			wantToken:  "Sarah",
			wantID:     "i_am",
		},
		{
			name:       "contraction",
			transcript: "Hi, I'm Bob. Let's get started.",
			wantToken:  "Bob",
			wantID:     "im",
		},
		{
			name:       "typographic apostrophe",
			transcript: "Hi, I’m Maria and this is episode four.",
			wantToken:  "Maria",
			wantID:     "im",
		},
		{
			name:       "my name is",
			transcript: "Good morning. My name is Daniel Smith.",
			wantToken:  "Daniel",
			wantID:     "my_name_is",
		},
		{
			name:       "name here",
			transcript: "Dave here, welcome back to the channel.",
			wantToken:  "Dave",
			wantID:     "name_here",
		},
		{
			name:       "name speaking",
			transcript: "Alice speaking. Please leave a message after the tone.",
			wantToken:  "Alice",
			wantID:     "name_speaking",
		},
		{
			name:       "this is extension",
			transcript: "This is Rachel from the accounting team.",
			wantToken:  "Rachel",
			wantID:     "this_is",
		},
		{
			name:       "case insensitive trigger preserves captured casing",
			transcript: "hello. i am sarah and i record things.",
			wantToken:  "sarah",
			wantID:     "i_am",
		},
		{
			name:       "uppercase trigger",
			transcript: "I AM MIKE AND I AM LOUD.",
			wantToken:  "MIKE",
			wantID:     "i_am",
		},
		{
			name:       "hyphenated name kept whole",
			transcript: "I'm Mary-Jane and this is my garden.",
			wantToken:  "Mary-Jane",
			wantID:     "im",
		},
		{
			name:       "trailing punctuation excluded",
			transcript: "My name is Priya. Thanks for joining.",
			wantToken:  "Priya",
			wantID:     "my_name_is",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidate, ok := identification.Extract(tc.transcript)
			if !ok {
				t.Fatalf("Extract(%q) found no candidate, want %q", tc.transcript, tc.wantToken)
			}
			if candidate.FirstToken != tc.wantToken {
				t.Fatalf("Extract(%q) token = %q, want %q", tc.transcript, candidate.FirstToken, tc.wantToken)
			}
			if candidate.PatternID != tc.wantID {
				t.Fatalf("Extract(%q) pattern = %q, want %q", tc.transcript, candidate.PatternID, tc.wantID)
			}
		})
	}
}

func TestExtractRejectsInvalidCandidates(t *testing.T) {
	cases := []struct {
		name       string
		transcript string
	}{
		{name: "empty transcript", transcript: ""},
		{name: "whitespace only", transcript: "   \n\t  "},
		{name: "no introduction", transcript: "Today we are going to review the quarterly numbers in detail."},
		{name: "stopword after i am", transcript: "I am here to talk about soil."},
		{name: "stopword after this is", transcript: "This is the recording you asked for."},
		{name: "purely numeric name", transcript: "I am 42 years old."},
		{name: "stopword before here", transcript: "Come here and look at the garden."},
		{name: "stopword before speaking", transcript: "Thanks for speaking with me today."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if candidate, ok := identification.Extract(tc.transcript); ok {
				t.Fatalf("Extract(%q) = %+v, want no match", tc.transcript, candidate)
			}
		})
	}
}

func TestExtractPrefersEarlierPatternOverEarlierPosition(t *testing.T) {
	// "Jones here" appears first in the text, but "My name is Bob" belongs to
	// a higher-priority pattern and must win.
	transcript := "Jones here. My name is Bob and I will be your host."
	candidate, ok := identification.Extract(transcript)
	if !ok {
		t.Fatal("Extract found no candidate")
	}
	if candidate.FirstToken != "Bob" || candidate.PatternID != "my_name_is" {
		t.Fatalf("Extract = %q via %q, want Bob via my_name_is", candidate.FirstToken, candidate.PatternID)
	}
}

func TestExtractFallsThroughRejectedMatchWithinPattern(t *testing.T) {
	// The first "I am" capture is a stopword; the extractor must keep
	// scanning the same pattern's later matches instead of giving up.
	transcript := "I am very glad you came. I am Sarah, by the way."
	candidate, ok := identification.Extract(transcript)
	if !ok {
		t.Fatal("Extract found no candidate")
	}
	if candidate.FirstToken != "Sarah" || candidate.PatternID != "i_am" {
		t.Fatalf("Extract = %q via %q, want Sarah via i_am", candidate.FirstToken, candidate.PatternID)
	}
}

func TestExtractScansBoundedWindowOnly(t *testing.T) {
	filler := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	if len([]rune(filler)) < 600 {
		t.Fatalf("filler too short for window test: %d runes", len([]rune(filler)))
	}
	transcript := filler + "I am Sarah and you should never see this."
	if candidate, ok := identification.Extract(transcript); ok {
		t.Fatalf("Extract matched %+v beyond the scan window", candidate)
	}

	// The same introduction inside the window is picked up.
	candidate, ok := identification.Extract("I am Sarah. " + filler)
	if !ok {
		t.Fatal("Extract found no candidate inside the scan window")
	}
	if candidate.FirstToken != "Sarah" {
		t.Fatalf("Extract token = %q, want Sarah", candidate.FirstToken)
	}
}

func TestPatternIDsOrder(t *testing.T) {
	want := []string{"i_am", "im", "my_name_is", "name_here", "name_speaking", "this_is"}
	got := identification.PatternIDs()
	if len(got) != len(want) {
		t.Fatalf("PatternIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("PatternIDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
