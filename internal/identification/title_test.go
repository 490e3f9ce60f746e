package identification_test

import (
	"testing"

	"github.com/aaronmeis/utility-mp4tomp3/internal/identification"
)

func TestDisplayTitle(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{path: "/videos/my_cool-video.mp4", want: "My Cool Video"},
		{path: "garden_update_07.mp4", want: "Garden Update 07"},
		{path: "/tmp/interview.2024.mp4", want: "Interview 2024"},
		{path: "SHOUTY RECORDING.mp4", want: "Shouty Recording"},
		{path: "rec-2024-01-05.mkv", want: "Rec 2024 01 05"},
		{path: "", want: "Untitled Video"},
		{path: "###.mp4", want: "Untitled Video"},
	}

	for _, tc := range cases {
		if got := identification.DisplayTitle(tc.path); got != tc.want {
			t.Fatalf("DisplayTitle(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
