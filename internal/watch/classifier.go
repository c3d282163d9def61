// Package watch implements the clipboard monitor loop: classification of
// clipboard content, magnet submission with dedup, completion polling,
// link unrestriction and output flushing.
package watch

import (
	"net/url"
	"strings"
)

// Classification of one clipboard string.
type Classification int

const (
	Ignored Classification = iota
	MagnetLink
	HosterLink
)

func (c Classification) String() string {
	switch c {
	case MagnetLink:
		return "magnet"
	case HosterLink:
		return "hoster"
	default:
		return "ignored"
	}
}

// NewHostSet builds a lookup set from the service's supported hostnames.
func NewHostSet(domains []string) map[string]struct{} {
	hosts := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		hosts[strings.ToLower(d)] = struct{}{}
	}

	return hosts
}

// Classify maps a clipboard string to MagnetLink, HosterLink or Ignored.
// Hoster links must be http(s) URLs whose host is in the supported set.
// Malformed input is Ignored, never an error.
func Classify(s string, hosts map[string]struct{}) Classification {
	u, err := url.Parse(s)
	if err != nil {
		return Ignored
	}

	switch u.Scheme {
	case "magnet":
		return MagnetLink
	case "http", "https":
		if _, ok := hosts[strings.ToLower(u.Hostname())]; ok {
			return HosterLink
		}
	}

	return Ignored
}
