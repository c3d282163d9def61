package watch

import (
	"context"
	"errors"
	"testing"

	"github.com/jadeaffenjaeger/rdclipper/internal/debrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMagnet = "magnet:?xt=urn:btih:c12fe1c06bba254a9dc9f519b335aa7c1367a88a&dn=test"
	testHash   = "c12fe1c06bba254a9dc9f519b335aa7c1367a88a"

	otherMagnet = "magnet:?xt=urn:btih:aaaabbbbccccddddeeeeffff0000111122223333&dn=other"
)

func TestSubmit_New(t *testing.T) {
	client := newFakeDebridClient()
	client.addMagnetID = "T1"

	tracker := NewTracker(client)

	result, err := tracker.Submit(context.Background(), testMagnet)
	require.NoError(t, err)

	assert.Equal(t, Submitted, result)
	assert.Equal(t, []string{testMagnet}, client.addMagnetCalls)
	assert.Equal(t, []string{"T1:all"}, client.selectFilesCalls)

	require.Equal(t, 1, tracker.Len())
	assert.Equal(t, TrackedTorrent{ID: "T1", Hash: testHash}, tracker.Tracked()[0])
}

func TestSubmit_DuplicateLocal(t *testing.T) {
	client := newFakeDebridClient()
	client.addMagnetID = "T1"

	tracker := NewTracker(client)

	result, err := tracker.Submit(context.Background(), testMagnet)
	require.NoError(t, err)
	require.Equal(t, Submitted, result)

	result, err = tracker.Submit(context.Background(), testMagnet)
	require.NoError(t, err)

	assert.Equal(t, AlreadyQueued, result)
	assert.Len(t, client.addMagnetCalls, 1, "second submit must not hit the service")
	assert.Equal(t, 1, tracker.Len())
}

func TestSubmit_DuplicateRemote(t *testing.T) {
	client := newFakeDebridClient()
	// Queued by another process: visible remotely, unknown locally. The
	// service hash casing differs from the decoded one.
	client.torrents = []debrid.Torrent{
		{ID: "FOREIGN", Hash: "C12FE1C06BBA254A9DC9F519B335AA7C1367A88A", Status: "downloading"},
	}

	tracker := NewTracker(client)

	result, err := tracker.Submit(context.Background(), testMagnet)
	require.NoError(t, err)

	assert.Equal(t, AlreadyQueued, result)
	assert.Empty(t, client.addMagnetCalls)
	assert.Equal(t, 0, tracker.Len())
}

func TestSubmit_MalformedMagnet(t *testing.T) {
	client := newFakeDebridClient()
	tracker := NewTracker(client)

	_, err := tracker.Submit(context.Background(), "magnet:?xt=urn:btih:notahash")
	require.Error(t, err)

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr), "expected DecodeError, got %T", err)
	assert.Empty(t, client.addMagnetCalls)
	assert.Equal(t, 0, tracker.Len())
}

func TestSubmit_TorrentListError(t *testing.T) {
	client := newFakeDebridClient()
	client.torrentsErr = errors.New("boom")

	tracker := NewTracker(client)

	_, err := tracker.Submit(context.Background(), testMagnet)
	require.Error(t, err)

	assert.Empty(t, client.addMagnetCalls)
	assert.Equal(t, 0, tracker.Len())
}

func TestSubmit_SelectFilesError(t *testing.T) {
	client := newFakeDebridClient()
	client.addMagnetID = "T1"
	client.selectFilesErr = errors.New("boom")

	tracker := NewTracker(client)

	_, err := tracker.Submit(context.Background(), testMagnet)
	require.Error(t, err)

	// Not tracked: the torrent is on the service, so the live-list dedup
	// catches a re-paste instead.
	assert.Equal(t, 0, tracker.Len())
}

func TestUntrack(t *testing.T) {
	client := newFakeDebridClient()
	client.addMagnetID = "T1"

	tracker := NewTracker(client)

	_, err := tracker.Submit(context.Background(), testMagnet)
	require.NoError(t, err)

	tracker.Untrack("T1")
	assert.Equal(t, 0, tracker.Len())

	// The hash is free again for local dedup purposes.
	client.addMagnetID = "T2"

	result, err := tracker.Submit(context.Background(), testMagnet)
	require.NoError(t, err)
	assert.Equal(t, Submitted, result)
}
