package watch

import (
	"context"
	"fmt"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
	"github.com/jadeaffenjaeger/rdclipper/internal/debrid"
	"github.com/jadeaffenjaeger/rdclipper/internal/logctx"
)

// TrackedTorrent is one in-flight submission at the debrid service.
type TrackedTorrent struct {
	ID   string
	Hash string
}

// SubmitResult tells the monitor what a submission attempt did, so duplicate
// handling is a branch rather than an error path.
type SubmitResult int

const (
	Submitted SubmitResult = iota
	AlreadyQueued
)

// DecodeError reports a magnet URI whose info hash could not be extracted.
type DecodeError struct {
	URI string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode magnet uri %q: %v", e.URI, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Tracker owns the set of torrents currently in flight at the service. It is
// only ever touched by the monitor goroutine, so it needs no locking. The set
// is not persisted; dedup therefore always consults the service's live list.
type Tracker struct {
	client  debrid.Client
	tracked []TrackedTorrent
	byHash  map[string]struct{}
}

func NewTracker(client debrid.Client) *Tracker {
	return &Tracker{
		client: client,
		byHash: make(map[string]struct{}),
	}
}

// Submit decodes a magnet URI and queues it at the service unless a torrent
// with the same info hash is already tracked locally or present in the
// service's live torrent list. On success the torrent's files are all
// selected and the torrent is tracked for completion polling.
func (t *Tracker) Submit(ctx context.Context, uri string) (SubmitResult, error) {
	spec, err := metainfo.ParseMagnetUri(uri)
	if err != nil {
		return 0, &DecodeError{URI: uri, Err: err}
	}

	hash := spec.InfoHash.HexString()

	queued, err := t.alreadyQueued(ctx, hash)
	if err != nil {
		return 0, fmt.Errorf("checking live torrent list: %w", err)
	}

	if queued {
		return AlreadyQueued, nil
	}

	id, err := t.client.AddMagnet(ctx, uri)
	if err != nil {
		return 0, fmt.Errorf("adding magnet: %w", err)
	}

	if err := t.client.SelectFiles(ctx, id, "all"); err != nil {
		return 0, fmt.Errorf("selecting files for torrent %s: %w", id, err)
	}

	logctx.LoggerFromContext(ctx).InfoContext(ctx, "queued magnet link", "torrent_id", id, "info_hash", hash)

	t.tracked = append(t.tracked, TrackedTorrent{ID: id, Hash: hash})
	t.byHash[hash] = struct{}{}

	return Submitted, nil
}

// alreadyQueued checks local tracking first, then the service's live list.
// The remote check is authoritative: a torrent added by another process (or
// a previous run of this one) must not be submitted again.
func (t *Tracker) alreadyQueued(ctx context.Context, hash string) (bool, error) {
	if _, ok := t.byHash[hash]; ok {
		return true, nil
	}

	torrents, err := t.client.Torrents(ctx)
	if err != nil {
		return false, err
	}

	for _, tor := range torrents {
		if strings.EqualFold(tor.Hash, hash) {
			return true, nil
		}
	}

	return false, nil
}

// Tracked returns a snapshot of the in-flight torrents.
func (t *Tracker) Tracked() []TrackedTorrent {
	out := make([]TrackedTorrent, len(t.tracked))
	copy(out, t.tracked)

	return out
}

// Untrack removes a torrent from tracking once it reached its terminal state.
func (t *Tracker) Untrack(id string) {
	for i, tt := range t.tracked {
		if tt.ID == id {
			delete(t.byHash, tt.Hash)
			t.tracked = append(t.tracked[:i], t.tracked[i+1:]...)

			return
		}
	}
}

// Len returns the number of in-flight torrents.
func (t *Tracker) Len() int {
	return len(t.tracked)
}
