package report

import (
	"reflect"
	"testing"
)

func TestParseSections(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]string
	}{
		{
			name: "empty body",
			body: "",
			want: map[string]string{},
		},
		{
			name: "single section",
			body: "### The problem\nPlayback stops after a minute",
			want: map[string]string{
				"The problem": "Playback stops after a minute",
			},
		},
		{
			name: "multiple sections roundtrip",
			body: "### The problem\nfirst content\n\n### How to reproduce\nsecond content\n### Full log output\nthird content",
			want: map[string]string{
				"The problem":      "first content",
				"How to reproduce": "second content",
				"Full log output":  "third content",
			},
		},
		{
			name: "preamble before first heading discarded",
			body: "some intro text\nmore intro\n### The problem\nactual content",
			want: map[string]string{
				"The problem": "actual content",
			},
		},
		{
			name: "whitespace trimmed",
			body: "### The problem\n\n   padded content   \n\n",
			want: map[string]string{
				"The problem": "padded content",
			},
		},
		{
			name: "empty section",
			body: "### The problem\n### How to reproduce\nsteps",
			want: map[string]string{
				"The problem":      "",
				"How to reproduce": "steps",
			},
		},
		{
			name: "heading marker stripped",
			body: "###   Music Providers  \nSpotify",
			want: map[string]string{
				"Music Providers": "Spotify",
			},
		},
		{
			name: "no headings at all",
			body: "just free text\nwith no structure",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSections(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSections() = %v, want %v", got, tt.want)
			}
		})
	}
}
