package watch

import "testing"

func TestClassify(t *testing.T) {
	hosts := NewHostSet([]string{"known-host.example", "Rapidgator.net"})

	tests := []struct {
		name  string
		input string
		want  Classification
	}{
		{
			name:  "magnet link",
			input: "magnet:?xt=urn:btih:c12fe1c06bba254a9dc9f519b335aa7c1367a88a&dn=test",
			want:  MagnetLink,
		},
		{
			name:  "http hoster link",
			input: "http://known-host.example/file/123",
			want:  HosterLink,
		},
		{
			name:  "https hoster link",
			input: "https://known-host.example/file/123",
			want:  HosterLink,
		},
		{
			name:  "host set lookup is case-insensitive",
			input: "https://rapidgator.net/file/123",
			want:  HosterLink,
		},
		{
			name:  "uppercase host in link",
			input: "https://KNOWN-HOST.example/file/123",
			want:  HosterLink,
		},
		{
			name:  "unknown host",
			input: "https://unknown.example/file/123",
			want:  Ignored,
		},
		{
			name:  "known host with wrong scheme",
			input: "ftp://known-host.example/file/123",
			want:  Ignored,
		},
		{
			name:  "plain text",
			input: "just some copied text",
			want:  Ignored,
		},
		{
			name:  "empty string",
			input: "",
			want:  Ignored,
		},
		{
			name:  "malformed uri",
			input: "http://known-host.example/%zz\x7f",
			want:  Ignored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.input, hosts); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassificationString(t *testing.T) {
	tests := []struct {
		c    Classification
		want string
	}{
		{MagnetLink, "magnet"},
		{HosterLink, "hoster"},
		{Ignored, "ignored"},
	}

	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
