package watch

import (
	"context"

	"github.com/jadeaffenjaeger/rdclipper/internal/debrid"
)

// fakeDebridClient is an in-memory debrid.Client recording every call.
type fakeDebridClient struct {
	domains []string

	torrents     []debrid.Torrent
	torrentsErr  error
	torrentsGets int

	addMagnetID    string
	addMagnetErr   error
	addMagnetCalls []string

	selectFilesErr   error
	selectFilesCalls []string

	infos     map[string]*debrid.TorrentStatus
	infoErrs  map[string]error
	infoCalls []string

	unrestricted    map[string]string
	unrestrictErr   error
	unrestrictCalls []string
}

func newFakeDebridClient() *fakeDebridClient {
	return &fakeDebridClient{
		infos:        make(map[string]*debrid.TorrentStatus),
		infoErrs:     make(map[string]error),
		unrestricted: make(map[string]string),
	}
}

func (f *fakeDebridClient) Authenticate(ctx context.Context) error {
	return nil
}

func (f *fakeDebridClient) Domains(ctx context.Context) ([]string, error) {
	return f.domains, nil
}

func (f *fakeDebridClient) Torrents(ctx context.Context) ([]debrid.Torrent, error) {
	f.torrentsGets++
	if f.torrentsErr != nil {
		return nil, f.torrentsErr
	}

	return f.torrents, nil
}

func (f *fakeDebridClient) AddMagnet(ctx context.Context, uri string) (string, error) {
	f.addMagnetCalls = append(f.addMagnetCalls, uri)
	if f.addMagnetErr != nil {
		return "", f.addMagnetErr
	}

	return f.addMagnetID, nil
}

func (f *fakeDebridClient) SelectFiles(ctx context.Context, id, files string) error {
	f.selectFilesCalls = append(f.selectFilesCalls, id+":"+files)

	return f.selectFilesErr
}

func (f *fakeDebridClient) TorrentInfo(ctx context.Context, id string) (*debrid.TorrentStatus, error) {
	f.infoCalls = append(f.infoCalls, id)
	if err, ok := f.infoErrs[id]; ok {
		return nil, err
	}

	info, ok := f.infos[id]
	if !ok {
		return &debrid.TorrentStatus{ID: id, Status: "downloading"}, nil
	}

	return info, nil
}

func (f *fakeDebridClient) UnrestrictLink(ctx context.Context, link string) (*debrid.Unrestricted, error) {
	f.unrestrictCalls = append(f.unrestrictCalls, link)
	if f.unrestrictErr != nil {
		return nil, f.unrestrictErr
	}

	return &debrid.Unrestricted{Download: f.unrestricted[link]}, nil
}

// fakeClipboard is an in-memory clipboard.
type fakeClipboard struct {
	value string
	err   error
	gets  int
}

func (f *fakeClipboard) Get() (string, error) {
	f.gets++

	return f.value, f.err
}

func (f *fakeClipboard) Set(value string) error {
	f.value = value

	return nil
}
