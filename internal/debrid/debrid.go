// Package debrid defines the types and client surface of the remote debrid
// service, independent of any concrete provider.
package debrid

import "context"

// StatusDownloaded is the terminal torrent status after which the service
// exposes the torrent's file links.
const StatusDownloaded = "downloaded"

// Torrent is one entry in the service's live torrent list.
type Torrent struct {
	ID       string
	Hash     string
	Status   string
	Filename string
	Bytes    int64
}

// TorrentStatus is the detailed state of a single torrent. Links is only
// populated once Status is StatusDownloaded.
type TorrentStatus struct {
	ID       string
	Hash     string
	Status   string
	Filename string
	Bytes    int64
	Progress float64
	Links    []string
}

// Unrestricted is the service's answer to an unrestrict request. Download is
// empty when the service could not produce a direct link.
type Unrestricted struct {
	Download string
	Filename string
	Filesize int64
	Host     string
}

type Client interface {
	Authenticate(ctx context.Context) error
	Domains(ctx context.Context) ([]string, error)
	Torrents(ctx context.Context) ([]Torrent, error)
	AddMagnet(ctx context.Context, uri string) (string, error)
	SelectFiles(ctx context.Context, id, files string) error
	TorrentInfo(ctx context.Context, id string) (*TorrentStatus, error)
	UnrestrictLink(ctx context.Context, link string) (*Unrestricted, error)
}
