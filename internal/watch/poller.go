package watch

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/jadeaffenjaeger/rdclipper/internal/debrid"
	"github.com/jadeaffenjaeger/rdclipper/internal/logctx"
)

// Poller checks in-flight torrents for completion once per monitor cycle.
type Poller struct {
	client  debrid.Client
	tracker *Tracker
}

func NewPoller(client debrid.Client, tracker *Tracker) *Poller {
	return &Poller{client: client, tracker: tracker}
}

// PollOnce queries every tracked torrent and returns the file links of
// torrents that finished since the last cycle, untracking them. A failed
// query is logged and leaves the torrent tracked for the next cycle; one
// torrent's failure never blocks the rest.
func (p *Poller) PollOnce(ctx context.Context) []string {
	logger := logctx.LoggerFromContext(ctx)

	var links []string

	for _, tt := range p.tracker.Tracked() {
		info, err := p.client.TorrentInfo(ctx, tt.ID)
		if err != nil {
			logger.ErrorContext(ctx, "failed to query torrent status", "torrent_id", tt.ID, "err", err)

			continue
		}

		if info.Status != debrid.StatusDownloaded {
			logger.DebugContext(ctx, "torrent not finished yet",
				"torrent_id", tt.ID,
				"status", info.Status,
				"size", humanize.Bytes(uint64(info.Bytes)),
				"progress", info.Progress,
			)

			continue
		}

		logger.InfoContext(ctx, "torrent finished downloading",
			"torrent_id", tt.ID,
			"filename", info.Filename,
			"size", humanize.Bytes(uint64(info.Bytes)),
			"link_count", len(info.Links),
		)

		links = append(links, info.Links...)
		p.tracker.Untrack(tt.ID)
	}

	return links
}
