package watch

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/jadeaffenjaeger/rdclipper/internal/clipboard"
	"github.com/jadeaffenjaeger/rdclipper/internal/debrid"
	"github.com/jadeaffenjaeger/rdclipper/internal/logctx"
	"github.com/jadeaffenjaeger/rdclipper/internal/telemetry"
)

// State of the monitor loop.
type State int32

const (
	Running State = iota
	Stopping
	Stopped
)

// Monitor is the orchestrating loop. It owns all mutable state (last
// observed clipboard value, tracked torrents, link buffer); everything is
// touched only by the goroutine executing Run, so no locking is needed.
type Monitor struct {
	clip      clipboard.Clipboard
	hosts     map[string]struct{}
	interval  time.Duration
	tracker   *Tracker
	poller    *Poller
	unres     *Unrestrictor
	flusher   *Flusher
	telemetry *telemetry.Telemetry

	lastClipboard string
	state         atomic.Int32
	done          chan struct{}
}

// NewMonitor wires the monitor components around one debrid client. sink is
// the append-only output; hosts is the supported-host set fetched at startup.
func NewMonitor(
	clip clipboard.Clipboard,
	client debrid.Client,
	hosts map[string]struct{},
	sink io.Writer,
	interval time.Duration,
	tel *telemetry.Telemetry,
) *Monitor {
	if tel == nil {
		tel = &telemetry.Telemetry{}
	}

	tracker := NewTracker(client)

	return &Monitor{
		clip:      clip,
		hosts:     hosts,
		interval:  interval,
		tracker:   tracker,
		poller:    NewPoller(client, tracker),
		unres:     NewUnrestrictor(client),
		flusher:   NewFlusher(sink),
		telemetry: tel,
		done:      make(chan struct{}),
	}
}

// Run executes the monitor loop until ctx is cancelled, then performs a
// final flush so no collected link is lost. Cancellation is observed once
// per cycle boundary; worst-case shutdown latency is one poll interval plus
// any in-flight remote call.
func (m *Monitor) Run(ctx context.Context) {
	defer close(m.done)

	logger := logctx.LoggerFromContext(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.state.Store(int32(Stopping))
			logger.InfoContext(ctx, "stop requested, flushing remaining links", "pending", m.flusher.Pending())

			m.flush(ctx)

			m.state.Store(int32(Stopped))
			logger.InfoContext(ctx, "clipboard monitor stopped")

			return
		case <-ticker.C:
			m.cycle(ctx)
		}
	}
}

// State returns the current lifecycle state of the loop.
func (m *Monitor) State() State {
	return State(m.state.Load())
}

// Done is closed once the loop has reached Stopped.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// cycle runs one iteration: clipboard check and routing, completion poll,
// unrestriction of finished torrents' file links, flush. Errors are logged
// and never terminate the loop.
func (m *Monitor) cycle(ctx context.Context) {
	logger := logctx.LoggerFromContext(ctx)

	_ = m.telemetry.InstrumentOperation(ctx, "cycle", "monitor", func(ctx context.Context) error {
		current, err := m.clip.Get()

		switch {
		case err != nil:
			m.telemetry.RecordClipboardPoll("error")
			logger.ErrorContext(ctx, "failed to read clipboard", "err", err)
		case current == m.lastClipboard:
			m.telemetry.RecordClipboardPoll("unchanged")
		default:
			m.telemetry.RecordClipboardPoll("changed")
			// Remember the value even when it classifies as Ignored, so
			// the same junk content is not re-parsed every cycle.
			m.lastClipboard = current
			m.route(ctx, current)
		}

		inFlight := m.tracker.Len()

		for _, link := range m.poller.PollOnce(ctx) {
			m.collect(ctx, link)
		}

		m.telemetry.AddTorrentsInFlight(int64(m.tracker.Len() - inFlight))

		m.flush(ctx)
		m.telemetry.RecordPollCycle()

		return nil
	})
}

// route dispatches one changed clipboard value by classification.
func (m *Monitor) route(ctx context.Context, content string) {
	logger := logctx.LoggerFromContext(ctx)

	kind := Classify(content, m.hosts)
	m.telemetry.RecordClassification(kind.String())

	switch kind {
	case MagnetLink:
		result, err := m.tracker.Submit(ctx, content)

		switch {
		case err != nil:
			m.telemetry.RecordSubmission("error")
			logger.ErrorContext(ctx, "failed to submit magnet link", "uri", content, "err", err)
		case result == AlreadyQueued:
			m.telemetry.RecordSubmission("already_queued")
			logger.WarnContext(ctx, "magnet link already queued, ignoring", "uri", content)
		default:
			m.telemetry.RecordSubmission("submitted")
			m.telemetry.AddTorrentsInFlight(1)
		}
	case HosterLink:
		m.collect(ctx, content)
	}
}

// collect unrestricts one hoster or file link and buffers the result.
func (m *Monitor) collect(ctx context.Context, link string) {
	download, ok := m.unres.Convert(ctx, link)
	if !ok {
		m.telemetry.RecordUnrestrict("error")

		return
	}

	m.telemetry.RecordUnrestrict("success")
	m.flusher.Append(download)
}

func (m *Monitor) flush(ctx context.Context) {
	pending := m.flusher.Pending()

	if err := m.flusher.Flush(); err != nil {
		logctx.LoggerFromContext(ctx).ErrorContext(ctx, "failed to flush collected links", "err", err)

		return
	}

	m.telemetry.RecordLinksFlushed(int64(pending))
}
